package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	appprize "github.com/jhoicas/gacha-api/internal/application/prize"
	"github.com/jhoicas/gacha-api/internal/domain/entity"
)

var _ appprize.Metrics = (*PrizeMetrics)(nil)

// PrizeMetrics implementa appprize.Metrics con Prometheus y expone gauges de stock
// que se actualizan con cada Set del Store.
type PrizeMetrics struct {
	operations     *prometheus.CounterVec
	rollbacks      *prometheus.CounterVec
	available      prometheus.Gauge
	remainingStock prometheus.Gauge
}

// NewPrizeMetrics crea y registra las métricas en reg.
func NewPrizeMetrics(reg prometheus.Registerer) *PrizeMetrics {
	m := &PrizeMetrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gacha_prize_operations_total",
				Help: "Operaciones del servicio de premios por resultado",
			},
			[]string{"op", "result"},
		),
		rollbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gacha_prize_rollbacks_total",
				Help: "Reversiones del store por fallo del backend",
			},
			[]string{"op"},
		),
		available: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gacha_prizes_available",
			Help: "Premios con stock mayor a cero",
		}),
		remainingStock: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gacha_prizes_remaining_stock",
			Help: "Suma del stock restante",
		}),
	}
	reg.MustRegister(m.operations, m.rollbacks, m.available, m.remainingStock)
	return m
}

// ObserveOperation cuenta la operación como ok o error.
func (m *PrizeMetrics) ObserveOperation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(op, result).Inc()
}

// ObserveRollback cuenta una reversión.
func (m *PrizeMetrics) ObserveRollback(op string) {
	m.rollbacks.WithLabelValues(op).Inc()
}

// ObserveCollection actualiza los gauges; se suscribe al Store.
func (m *PrizeMetrics) ObserveCollection(prizes []entity.Prize) {
	stats := entity.ComputeStats(prizes)
	m.available.Set(float64(stats.AvailableCount))
	m.remainingStock.Set(float64(stats.RemainingStock))
}
