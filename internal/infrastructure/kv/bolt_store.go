package kv

import (
	"context"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/jhoicas/gacha-api/internal/domain/repository"
)

var _ repository.KeyValueStore = (*BoltStore)(nil)

// BoltStore almacenamiento clave-valor en un archivo bbolt; el namespace es el bucket.
type BoltStore struct {
	db     *bolt.DB
	bucket []byte
}

// NewBoltStore abre (o crea) el archivo y asegura el bucket del namespace.
func NewBoltStore(path, namespace string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt: abrir %s: %w", path, err)
	}
	bucket := []byte(namespace)
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bolt: crear bucket %q: %w", namespace, err)
	}
	return &BoltStore{db: db, bucket: bucket}, nil
}

// Get lee la clave; el slice devuelto es una copia válida fuera de la transacción.
func (s *BoltStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.bucket).Get([]byte(key))
		if v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("bolt: get %s: %w", key, err)
	}
	return out, out != nil, nil
}

// Set escribe la clave en una transacción.
func (s *BoltStore) Set(_ context.Context, key string, value []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("bolt: set %s: %w", key, err)
	}
	return nil
}

// Delete borra la clave; no falla si no existe.
func (s *BoltStore) Delete(_ context.Context, key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("bolt: delete %s: %w", key, err)
	}
	return nil
}

// Close cierra el archivo.
func (s *BoltStore) Close() error { return s.db.Close() }
