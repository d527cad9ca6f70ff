package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/gacha-api/internal/domain/repository"
)

var _ repository.KeyValueStore = (*RedisStore)(nil)

// RedisStore almacenamiento clave-valor en Redis; las claves quedan como "<namespace>:<key>".
type RedisStore struct {
	client    *redis.Client
	namespace string
}

// NewRedisStore construye el store sobre un cliente existente.
func NewRedisStore(client *redis.Client, namespace string) *RedisStore {
	return &RedisStore{client: client, namespace: namespace}
}

// DialRedis crea el cliente y verifica la conexión con PING.
func DialRedis(ctx context.Context, addr, password string, db int, namespace string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}
	return NewRedisStore(client, namespace), nil
}

func (s *RedisStore) key(k string) string { return s.namespace + ":" + k }

// Get lee la clave; redis.Nil se traduce a found=false.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis: get %s: %w", key, err)
	}
	return v, true, nil
}

// Set escribe sin expiración.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

// Delete borra la clave.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis: delete %s: %w", key, err)
	}
	return nil
}

// Close cierra el cliente.
func (s *RedisStore) Close() error { return s.client.Close() }
