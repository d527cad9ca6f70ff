package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/gacha-api/internal/domain/repository"
)

var _ repository.KeyValueStore = (*KVStore)(nil)

// Querier subconjunto de pgxpool.Pool / pgx.Tx que usa el adaptador.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const kvSchema = `
	CREATE TABLE IF NOT EXISTS kv_store (
		namespace  TEXT        NOT NULL,
		key        TEXT        NOT NULL,
		value      BYTEA       NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (namespace, key)
	)`

// KVStore almacenamiento clave-valor sobre la tabla kv_store (driver "postgres").
type KVStore struct {
	q         Querier
	pool      *pgxpool.Pool // nil si se construyó sobre un Querier externo
	namespace string
}

// NewKVStore construye el adaptador sobre pool o tx (Querier).
func NewKVStore(q Querier, namespace string) *KVStore {
	return &KVStore{q: q, namespace: namespace}
}

// OpenKVStore crea la tabla si falta y deja el pool a cargo del store (Close lo cierra).
func OpenKVStore(ctx context.Context, pool *pgxpool.Pool, namespace string) (*KVStore, error) {
	if _, err := pool.Exec(ctx, kvSchema); err != nil {
		return nil, fmt.Errorf("crear tabla kv_store: %w", err)
	}
	s := NewKVStore(pool, namespace)
	s.pool = pool
	return s, nil
}

// Get lee el valor de la clave dentro del namespace.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var v []byte
	err := s.q.QueryRow(ctx,
		`SELECT value FROM kv_store WHERE namespace = $1 AND key = $2`,
		s.namespace, key,
	).Scan(&v)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get kv %s: %w", key, err)
	}
	return v, true, nil
}

// Set inserta o reemplaza el valor.
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO kv_store (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		s.namespace, key, value,
	)
	if err != nil {
		return fmt.Errorf("set kv %s: %w", key, err)
	}
	return nil
}

// Delete borra la clave.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	_, err := s.q.Exec(ctx, `DELETE FROM kv_store WHERE namespace = $1 AND key = $2`, s.namespace, key)
	if err != nil {
		return fmt.Errorf("delete kv %s: %w", key, err)
	}
	return nil
}

// Close cierra el pool si el store es su dueño.
func (s *KVStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
