package repository

import (
	"context"

	"github.com/jhoicas/gacha-api/internal/domain/entity"
)

// PrizeBackend puerto de persistencia durable de premios (DIP).
// Hay dos variantes intercambiables: local (clave-valor) y remota (API de hoja de cálculo).
// El servicio de premios depende solo de esta interfaz.
type PrizeBackend interface {
	Load(ctx context.Context) ([]entity.Prize, error)
	// Add devuelve el premio tal como quedó confirmado por el backend.
	Add(ctx context.Context, p entity.Prize) (*entity.Prize, error)
	Update(ctx context.Context, p entity.Prize) error
	Delete(ctx context.Context, id string) error
	// DecrementStock devuelve el stock resultante según el backend.
	DecrementStock(ctx context.Context, id string) (int, error)
}

// SnapshotWriter lo implementan los backends que persisten la colección completa (write-through).
// Cuando el backend activo lo implementa, el servicio guarda el snapshot entero en lugar
// de la operación puntual.
type SnapshotWriter interface {
	Save(ctx context.Context, prizes []entity.Prize) error
}

// Clearer borra el almacenamiento durable (usado cuando los datos no pasan la verificación).
type Clearer interface {
	Clear(ctx context.Context) error
}

// KeyValueStore contrato mínimo del almacenamiento clave-valor que respalda el backend local.
// Get devuelve found=false cuando la clave no existe.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
