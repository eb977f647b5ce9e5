package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/studiogate/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, name string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM client_state WHERE name = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get state %q: %w", name, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, name string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO client_state (name, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, name, value)
	if err != nil {
		return fmt.Errorf("put state %q: %w", name, err)
	}
	return nil
}

// Delete removes all names in one transaction. Missing names are ignored.
func (r *SQLiteRepository) Delete(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, name := range names {
			if _, err := tx.ExecContext(ctx, `DELETE FROM client_state WHERE name = ?`, name); err != nil {
				return fmt.Errorf("delete state %q: %w", name, err)
			}
		}
		return nil
	})
}
