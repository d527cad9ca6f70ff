package prize

import (
	"github.com/jhoicas/gacha-api/internal/domain"
	"github.com/jhoicas/gacha-api/internal/domain/entity"
	domainprize "github.com/jhoicas/gacha-api/internal/domain/prize"
)

// DefaultLowStockRatio proporción stock/cupo por debajo de la cual se marca "pocas unidades".
const DefaultLowStockRatio = 0.2

// ListOptions criterios para listar la vista de premios.
type ListOptions struct {
	Sort   domainprize.SortOptions
	Filter domainprize.FilterOptions
}

// DisplayService compone Store + probabilidad + rareza + orden/filtro en vistas de solo lectura.
// Nada se cachea: cada lectura recalcula sobre la colección actual.
type DisplayService struct {
	store         *Store
	rarity        *domainprize.RarityClassifier
	lowStockRatio float64
}

// NewDisplayService construye el servicio. lowStockRatio <= 0 usa DefaultLowStockRatio.
func NewDisplayService(store *Store, rarity *domainprize.RarityClassifier, lowStockRatio float64) *DisplayService {
	if lowStockRatio <= 0 {
		lowStockRatio = DefaultLowStockRatio
	}
	return &DisplayService{store: store, rarity: rarity, lowStockRatio: lowStockRatio}
}

// All vista completa en el orden del Store.
func (d *DisplayService) All() []entity.PrizeDisplayInfo {
	return d.build(d.store.All())
}

// List aplica filtro y luego orden.
func (d *DisplayService) List(opts ListOptions) []entity.PrizeDisplayInfo {
	items := domainprize.Filter(d.All(), opts.Filter)
	return domainprize.Sort(items, opts.Sort)
}

// Get vista de un premio por id.
func (d *DisplayService) Get(id string) (*entity.PrizeDisplayInfo, error) {
	for _, it := range d.All() {
		if it.Prize.ID == id {
			return &it, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Stats agregados de la colección actual.
func (d *DisplayService) Stats() entity.PrizeStats {
	return entity.ComputeStats(d.store.All())
}

// IsLowStock stock > 0 y stock/cupo <= ratio.
func IsLowStock(p entity.Prize, ratio float64) bool {
	capacity := p.Capacity()
	if !p.Available() || capacity <= 0 {
		return false
	}
	return float64(p.Stock)/float64(capacity) <= ratio
}

func (d *DisplayService) build(prizes []entity.Prize) []entity.PrizeDisplayInfo {
	probs := domainprize.Probabilities(prizes)
	out := make([]entity.PrizeDisplayInfo, 0, len(prizes))
	for _, p := range prizes {
		prob := probs[p.ID]
		out = append(out, entity.PrizeDisplayInfo{
			Prize:       p,
			Probability: prob,
			Rarity:      d.rarity.Classify(prob),
			IsLowStock:  IsLowStock(p, d.lowStockRatio),
		})
	}
	return out
}
