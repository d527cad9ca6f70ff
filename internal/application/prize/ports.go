package prize

// Metrics puerto de observabilidad del servicio de premios.
// La implementación concreta (Prometheus) vive en infrastructure/metrics.
type Metrics interface {
	ObserveOperation(op string, err error)
	ObserveRollback(op string)
}

type nopMetrics struct{}

func (nopMetrics) ObserveOperation(string, error) {}
func (nopMetrics) ObserveRollback(string)         {}

// Operaciones del servicio (etiquetas de log y métricas).
const (
	OpLoad      = "load"
	OpAdd       = "add"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpDecrement = "decrement"
)
