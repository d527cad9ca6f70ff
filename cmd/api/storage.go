package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/gacha-api/internal/domain/repository"
	"github.com/jhoicas/gacha-api/internal/infrastructure/kv"
	"github.com/jhoicas/gacha-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gacha-api/pkg/config"
)

// openKeyValueStore abre el almacenamiento clave-valor según STORE_DRIVER.
func openKeyValueStore(ctx context.Context, cfg *config.Config) (repository.KeyValueStore, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverRedis:
		store, err := kv.DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Store.Namespace)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		store, err := postgres.OpenKVStore(ctx, pool, cfg.Store.Namespace)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil
	default:
		store, err := kv.NewBoltStore(cfg.Store.BoltPath, cfg.Store.Namespace)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}
