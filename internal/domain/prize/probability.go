package prize

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gacha-api/internal/domain/entity"
)

// ProbabilityPlaces decimales con los que se redondea el porcentaje para mostrar.
const ProbabilityPlaces = 2

var hundred = decimal.NewFromInt(100)

// Probabilities calcula el porcentaje de salida de cada premio:
// stock / Σ stock(disponibles) * 100. Los premios agotados quedan en 0, y todos quedan en 0
// cuando no hay stock disponible. El redondeo half-up es monótono, así que no invierte el orden relativo.
func Probabilities(prizes []entity.Prize) map[string]float64 {
	out := make(map[string]float64, len(prizes))
	sum := 0
	for _, p := range prizes {
		if p.Available() {
			sum += p.Stock
		}
	}
	total := decimal.NewFromInt(int64(sum))
	for _, p := range prizes {
		if sum == 0 || !p.Available() {
			out[p.ID] = 0
			continue
		}
		pct := decimal.NewFromInt(int64(p.Stock)).Mul(hundred).Div(total).Round(ProbabilityPlaces)
		out[p.ID] = pct.InexactFloat64()
	}
	return out
}
