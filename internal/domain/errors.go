package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("premio no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	// ErrNotConfirmed el backend respondió OK pero sin el campo que confirma la operación.
	ErrNotConfirmed = errors.New("operación no confirmada por el backend")
	// ErrCorruptData datos persistidos que no superan la verificación de integridad.
	ErrCorruptData = errors.New("datos de premios corruptos")
)

// BackendErrorCategory clasifica los fallos del backend de persistencia.
type BackendErrorCategory string

// Categorías de fallo del backend.
const (
	CategoryNetwork      BackendErrorCategory = "network"
	CategoryUnauthorized BackendErrorCategory = "unauthorized"
	CategoryForbidden    BackendErrorCategory = "forbidden"
	CategoryNotFound     BackendErrorCategory = "not_found"
	CategoryRateLimit    BackendErrorCategory = "rate_limit"
	CategoryServer       BackendErrorCategory = "server"
	CategoryScript       BackendErrorCategory = "script" // error lógico reportado por el script remoto
	CategoryUnknown      BackendErrorCategory = "unknown"
)

// BackendError fallo categorizado de una llamada al backend (local o remoto).
type BackendError struct {
	Op       string // load, add, update, delete, decrement, save, clear
	Category BackendErrorCategory
	Status   int // status HTTP; 0 si no aplica
	Err      error
}

func (e *BackendError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("backend %s (%s, HTTP %d): %v", e.Op, e.Category, e.Status, e.Err)
	}
	return fmt.Sprintf("backend %s (%s): %v", e.Op, e.Category, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// NewBackendError construye un BackendError.
func NewBackendError(op string, category BackendErrorCategory, status int, err error) *BackendError {
	return &BackendError{Op: op, Category: category, Status: status, Err: err}
}

// CategoryFromStatus deriva la categoría a partir del status HTTP de transporte.
func CategoryFromStatus(status int) BackendErrorCategory {
	switch {
	case status == http.StatusUnauthorized:
		return CategoryUnauthorized
	case status == http.StatusForbidden:
		return CategoryForbidden
	case status == http.StatusNotFound:
		return CategoryNotFound
	case status == http.StatusTooManyRequests:
		return CategoryRateLimit
	case status >= 500:
		return CategoryServer
	default:
		return CategoryUnknown
	}
}

// CategoryOf devuelve la categoría de err, o CategoryUnknown si no es un BackendError.
func CategoryOf(err error) BackendErrorCategory {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Category
	}
	return CategoryUnknown
}

// IsBackendError indica si err (o alguno de sus envoltorios) es un BackendError.
func IsBackendError(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}
