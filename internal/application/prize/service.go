package prize

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gacha-api/internal/application/dto"
	"github.com/jhoicas/gacha-api/internal/domain"
	"github.com/jhoicas/gacha-api/internal/domain/entity"
	domainprize "github.com/jhoicas/gacha-api/internal/domain/prize"
	"github.com/jhoicas/gacha-api/internal/domain/repository"
	"github.com/jhoicas/gacha-api/pkg/logger"
)

// Service orquesta el CRUD y el descuento de stock sobre el Store con el protocolo
// aplicar-optimista / confirmar-o-revertir:
//
//  1. snapshot S0 del Store
//  2. calcular S1 localmente (invariantes de stock/orden)
//  3. Store.Set(S1), visible de inmediato
//  4. confirmar con el backend activo (write-through del snapshot si es local)
//  5. si falla: Store.Set(S0) y se devuelve el error sin tragarlo
//
// Dos operaciones concurrentes no se serializan: gana la última en confirmar o revertir.
type Service struct {
	store   *Store
	backend repository.PrizeBackend
	log     *logger.Logger
	metrics Metrics
	now     func() time.Time
}

// NewService construye el servicio. backend es la variante activa (local o remota).
func NewService(store *Store, backend repository.PrizeBackend, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:   store,
		backend: backend,
		log:     log,
		metrics: nopMetrics{},
		now:     time.Now,
	}
}

// WithMetrics asigna el registrador de métricas.
func (s *Service) WithMetrics(m Metrics) *Service {
	if m != nil {
		s.metrics = m
	}
	return s
}

// Store expone el Store que gobierna el servicio (solo lectura para los demás).
func (s *Service) Store() *Store { return s.store }

// LoadPrizes reemplaza el Store con lo que devuelva el backend.
// Ante cualquier fallo de lectura el Store queda vacío y se devuelve el error.
func (s *Service) LoadPrizes(ctx context.Context) ([]entity.Prize, error) {
	prizes, err := s.backend.Load(ctx)
	s.metrics.ObserveOperation(OpLoad, err)
	if err != nil {
		s.store.Set(nil)
		s.log.Error().Err(err).Str("op", OpLoad).Str("category", string(domain.CategoryOf(err))).Msg("carga de premios fallida, store vacío")
		return nil, err
	}
	s.store.Set(prizes)
	s.log.Debug().Str("op", OpLoad).Int("count", len(prizes)).Msg("premios cargados")
	return s.store.All(), nil
}

// AddPrize crea un premio (id nuevo, createdAt = ahora) y lo agrega al final.
// Los campos numéricos fuera de rango se normalizan, nunca se rechazan.
func (s *Service) AddPrize(ctx context.Context, in dto.CreatePrizeRequest) (*entity.Prize, error) {
	prev := s.store.All()

	stock, total := domainprize.NormalizeStock(in.Stock, in.TotalStock)
	order := domainprize.NextOrder(prev)
	if in.Order != nil {
		order = *in.Order
	}
	created := entity.Prize{
		ID:          uuid.New().String(),
		Name:        in.Name,
		ImageURL:    in.ImageURL,
		Description: in.Description,
		Stock:       stock,
		TotalStock:  &total,
		Order:       order,
		CreatedAt:   s.now().UnixMilli(),
	}
	next := append(entity.ClonePrizes(prev), created.Clone())

	var confirmed *entity.Prize
	err := s.apply(ctx, OpAdd, created.ID, prev, next, func(ctx context.Context) error {
		p, err := s.backend.Add(ctx, created)
		confirmed = p
		return err
	})
	if err != nil {
		return nil, err
	}
	if confirmed == nil {
		out := created.Clone()
		return &out, nil
	}
	// El backend remoto devuelve el registro guardado; se adopta como definitivo.
	s.replace(created.ID, *confirmed)
	out := confirmed.Clone()
	return &out, nil
}

// UpdatePrize actualización parcial por ID con las mismas reglas de normalización que Add.
func (s *Service) UpdatePrize(ctx context.Context, in dto.UpdatePrizeRequest) (*entity.Prize, error) {
	prev := s.store.All()
	idx := domainprize.IndexOf(prev, in.ID)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	cur := prev[idx]
	upd := cur.Clone()
	if in.Name != nil {
		upd.Name = *in.Name
	}
	if in.ImageURL != nil {
		upd.ImageURL = *in.ImageURL
	}
	if in.Description != nil {
		upd.Description = *in.Description
	}
	stock := cur.Stock
	if in.Stock != nil {
		stock = *in.Stock
	}
	totalIn := cur.TotalStock
	if in.TotalStock != nil {
		totalIn = in.TotalStock
	}
	stock, total := domainprize.NormalizeStock(stock, totalIn)
	upd.Stock = stock
	upd.TotalStock = &total
	switch {
	case in.Order != nil:
		upd.Order = *in.Order
	case cur.Order == 0:
		upd.Order = float64(idx + 1)
	}

	next := entity.ClonePrizes(prev)
	next[idx] = upd.Clone()
	err := s.apply(ctx, OpUpdate, upd.ID, prev, next, func(ctx context.Context) error {
		return s.backend.Update(ctx, upd)
	})
	if err != nil {
		return nil, err
	}
	return &upd, nil
}

// DeletePrize elimina el premio con id.
func (s *Service) DeletePrize(ctx context.Context, id string) error {
	prev := s.store.All()
	idx := domainprize.IndexOf(prev, id)
	if idx < 0 {
		return domain.ErrNotFound
	}
	next := make([]entity.Prize, 0, len(prev)-1)
	next = append(next, entity.ClonePrizes(prev[:idx])...)
	next = append(next, entity.ClonePrizes(prev[idx+1:])...)
	return s.apply(ctx, OpDelete, id, prev, next, func(ctx context.Context) error {
		return s.backend.Delete(ctx, id)
	})
}

// DecrementStock descuenta una unidad (nunca baja de 0) y devuelve el stock resultante,
// para que quien reintenta pueda ver si el premio llegó a 0.
func (s *Service) DecrementStock(ctx context.Context, id string) (int, error) {
	prev := s.store.All()
	idx := domainprize.IndexOf(prev, id)
	if idx < 0 {
		return 0, domain.ErrNotFound
	}
	newStock := max(0, prev[idx].Stock-1)
	next := entity.ClonePrizes(prev)
	next[idx].Stock = newStock

	remoteStock := newStock
	err := s.apply(ctx, OpDecrement, id, prev, next, func(ctx context.Context) error {
		n, err := s.backend.DecrementStock(ctx, id)
		remoteStock = n
		return err
	})
	if err != nil {
		return 0, err
	}
	if remoteStock != newStock {
		// El backend remoto es la referencia del stock; se ajusta respetando el cupo.
		p := next[idx].Clone()
		p.Stock = min(max(0, remoteStock), p.Capacity())
		s.replace(id, p)
		s.log.Warn().Str("op", OpDecrement).Str("prize_id", id).Int("local", newStock).Int("remote", p.Stock).Msg("stock ajustado al valor remoto")
		return p.Stock, nil
	}
	return newStock, nil
}

// DrawPrize elige al azar (uniforme) entre los premios disponibles. Solo lectura.
// Devuelve false cuando no queda ninguno con stock.
func (s *Service) DrawPrize() (*entity.Prize, bool) {
	available := s.store.Available()
	if len(available) == 0 {
		return nil, false
	}
	p := available[rand.Intn(len(available))]
	return &p, true
}

// apply ejecuta el protocolo optimista. confirm solo se usa si el backend no es SnapshotWriter.
func (s *Service) apply(
	ctx context.Context,
	op, id string,
	prev, next []entity.Prize,
	confirm func(ctx context.Context) error,
) error {
	s.store.Set(next)

	var err error
	if w, ok := s.backend.(repository.SnapshotWriter); ok {
		err = w.Save(ctx, next)
	} else {
		err = confirm(ctx)
	}
	s.metrics.ObserveOperation(op, err)
	if err != nil {
		s.store.Set(prev)
		s.metrics.ObserveRollback(op)
		s.log.Warn().Err(err).
			Str("op", op).
			Str("prize_id", id).
			Str("category", string(domain.CategoryOf(err))).
			Msg("backend no confirmó, store revertido")
		return err
	}
	s.log.Debug().Str("op", op).Str("prize_id", id).Msg("operación confirmada")
	return nil
}

// replace sustituye un registro por id en la colección actual, si sigue existiendo.
func (s *Service) replace(id string, p entity.Prize) {
	cur := s.store.All()
	if idx := domainprize.IndexOf(cur, id); idx >= 0 {
		cur[idx] = p.Clone()
		s.store.Set(cur)
	}
}
