package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var bucketSettings = []byte("settings")

// BoltRepository keeps settings in a single bbolt file.
type BoltRepository struct {
	db *bbolt.DB
}

func NewBoltRepository(path string) (*BoltRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create settings directory: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open settings database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSettings)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create settings bucket: %w", err)
	}

	return &BoltRepository{db: db}, nil
}

func (r *BoltRepository) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.View(func(tx *bbolt.Tx) error {
		// values are only valid inside the transaction
		value = clone(tx.Bucket(bucketSettings).Get([]byte(key)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get setting[%s]: %w", key, err)
	}
	return value, nil
}

func (r *BoltRepository) Set(_ context.Context, key string, value []byte) error {
	err := r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSettings).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to set setting[%s]: %w", key, err)
	}
	return nil
}

func (r *BoltRepository) Update(_ context.Context, key string, fn UpdateFunc) error {
	var fnErr error
	err := r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSettings)
		next, err := fn(clone(b.Get([]byte(key))))
		if err != nil {
			fnErr = err
			return err
		}
		return b.Put([]byte(key), next)
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return fmt.Errorf("failed to update setting[%s]: %w", key, err)
	}
	return nil
}

func (r *BoltRepository) Close() error {
	return r.db.Close()
}
