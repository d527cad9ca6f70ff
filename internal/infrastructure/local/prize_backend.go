package local

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/gacha-api/internal/domain"
	"github.com/jhoicas/gacha-api/internal/domain/entity"
	domainprize "github.com/jhoicas/gacha-api/internal/domain/prize"
	"github.com/jhoicas/gacha-api/internal/domain/repository"
	"github.com/jhoicas/gacha-api/pkg/logger"
)

// PrizesKey clave (dentro del namespace del store) que guarda el arreglo JSON de premios.
const PrizesKey = "prizes"

var (
	_ repository.PrizeBackend   = (*PrizeBackend)(nil)
	_ repository.SnapshotWriter = (*PrizeBackend)(nil)
	_ repository.Clearer        = (*PrizeBackend)(nil)
)

// PrizeBackend variante local del backend: la colección completa serializada como JSON
// en una sola clave del almacenamiento clave-valor. Contenido ausente o ilegible equivale a vacío.
type PrizeBackend struct {
	kv  repository.KeyValueStore
	log *logger.Logger
}

// NewPrizeBackend construye el adaptador sobre cualquier KeyValueStore (bolt, redis, postgres).
func NewPrizeBackend(kv repository.KeyValueStore, log *logger.Logger) *PrizeBackend {
	if log == nil {
		log = logger.Nop()
	}
	return &PrizeBackend{kv: kv, log: log}
}

// Load lee la colección. JSON ilegible se registra y se trata como colección vacía;
// registros sin los campos requeridos devuelven un error que envuelve domain.ErrCorruptData.
func (b *PrizeBackend) Load(ctx context.Context) ([]entity.Prize, error) {
	raw, found, err := b.kv.Get(ctx, PrizesKey)
	if err != nil {
		return nil, domain.NewBackendError("load", domain.CategoryUnknown, 0, err)
	}
	if !found || len(raw) == 0 {
		return []entity.Prize{}, nil
	}
	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		b.log.Warn().Err(err).Int("bytes", len(raw)).Msg("datos locales ilegibles, se usa colección vacía")
		return []entity.Prize{}, nil
	}
	prizes, err := domainprize.DecodeRecords(records)
	if err != nil {
		return nil, domain.NewBackendError("load", domain.CategoryUnknown, 0, err)
	}
	return prizes, nil
}

// Save escribe la colección completa (write-through del snapshot).
func (b *PrizeBackend) Save(ctx context.Context, prizes []entity.Prize) error {
	if prizes == nil {
		prizes = []entity.Prize{}
	}
	raw, err := json.Marshal(prizes)
	if err != nil {
		return domain.NewBackendError("save", domain.CategoryUnknown, 0, fmt.Errorf("serializar premios: %w", err))
	}
	if err := b.kv.Set(ctx, PrizesKey, raw); err != nil {
		return domain.NewBackendError("save", domain.CategoryUnknown, 0, err)
	}
	return nil
}

// Clear borra la clave de premios.
func (b *PrizeBackend) Clear(ctx context.Context) error {
	if err := b.kv.Delete(ctx, PrizesKey); err != nil {
		return domain.NewBackendError("clear", domain.CategoryUnknown, 0, err)
	}
	return nil
}

// Add agrega el premio leyendo y reescribiendo la colección.
func (b *PrizeBackend) Add(ctx context.Context, p entity.Prize) (*entity.Prize, error) {
	prizes, err := b.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := b.Save(ctx, append(prizes, p)); err != nil {
		return nil, err
	}
	out := p.Clone()
	return &out, nil
}

// Update reemplaza el registro con el mismo id.
func (b *PrizeBackend) Update(ctx context.Context, p entity.Prize) error {
	return b.mutate(ctx, "update", p.ID, func(prizes []entity.Prize, idx int) []entity.Prize {
		prizes[idx] = p
		return prizes
	})
}

// Delete quita el registro.
func (b *PrizeBackend) Delete(ctx context.Context, id string) error {
	return b.mutate(ctx, "delete", id, func(prizes []entity.Prize, idx int) []entity.Prize {
		return append(prizes[:idx], prizes[idx+1:]...)
	})
}

// DecrementStock descuenta una unidad sin bajar de 0.
func (b *PrizeBackend) DecrementStock(ctx context.Context, id string) (int, error) {
	var stock int
	err := b.mutate(ctx, "decrement", id, func(prizes []entity.Prize, idx int) []entity.Prize {
		prizes[idx].Stock = max(0, prizes[idx].Stock-1)
		stock = prizes[idx].Stock
		return prizes
	})
	return stock, err
}

func (b *PrizeBackend) mutate(ctx context.Context, op, id string, fn func([]entity.Prize, int) []entity.Prize) error {
	prizes, err := b.Load(ctx)
	if err != nil {
		return err
	}
	idx := domainprize.IndexOf(prizes, id)
	if idx < 0 {
		return domain.NewBackendError(op, domain.CategoryNotFound, 0, domain.ErrNotFound)
	}
	return b.Save(ctx, fn(prizes, idx))
}
