package prize

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/gacha-api/internal/domain/entity"
)

// SortKey campo por el que se ordena la vista.
type SortKey string

const (
	SortByOrder       SortKey = "order"
	SortByStock       SortKey = "stock"
	SortByProbability SortKey = "probability"
	SortByCreated     SortKey = "created"
	SortByName        SortKey = "name"
)

// ParseSortKey devuelve el SortKey o false si no existe.
func ParseSortKey(s string) (SortKey, bool) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortByOrder, SortByStock, SortByProbability, SortByCreated, SortByName:
		return k, true
	case "":
		return SortByOrder, true
	}
	return "", false
}

// SortOptions criterio de ordenamiento.
type SortOptions struct {
	Key        SortKey
	Descending bool
	Locale     language.Tag // para SortByName; Und si vacío
}

// FilterOptions criterios de filtrado; se combinan con AND.
type FilterOptions struct {
	Rarities          []string // vacío = todas
	IncludeOutOfStock bool
}

// Filter devuelve una lista nueva con los registros que cumplen ambos predicados.
func Filter(items []entity.PrizeDisplayInfo, opts FilterOptions) []entity.PrizeDisplayInfo {
	allowed := make(map[string]bool, len(opts.Rarities))
	for _, r := range opts.Rarities {
		allowed[r] = true
	}
	out := make([]entity.PrizeDisplayInfo, 0, len(items))
	for _, it := range items {
		if len(allowed) > 0 && !allowed[it.Rarity] {
			continue
		}
		if !opts.IncludeOutOfStock && !it.Prize.Available() {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Sort ordena una copia de items. Empates por order y luego por id (siempre ascendentes),
// de modo que la salida es determinista para la misma entrada.
func Sort(items []entity.PrizeDisplayInfo, opts SortOptions) []entity.PrizeDisplayInfo {
	out := make([]entity.PrizeDisplayInfo, len(items))
	copy(out, items)

	var col *collate.Collator
	if opts.Key == SortByName {
		col = collate.New(opts.Locale, collate.IgnoreCase)
	}

	primary := func(a, b entity.PrizeDisplayInfo) int {
		switch opts.Key {
		case SortByStock:
			return cmpInt(int64(a.Prize.Stock), int64(b.Prize.Stock))
		case SortByProbability:
			return cmpFloat(a.Probability, b.Probability)
		case SortByCreated:
			return cmpInt(a.Prize.CreatedAt, b.Prize.CreatedAt)
		case SortByName:
			return col.CompareString(a.Prize.Name, b.Prize.Name)
		default:
			return cmpFloat(a.Prize.Order, b.Prize.Order)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		c := primary(a, b)
		if opts.Descending {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		if c := cmpFloat(a.Prize.Order, b.Prize.Order); c != 0 {
			return c < 0
		}
		return a.Prize.ID < b.Prize.ID
	})
	return out
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
