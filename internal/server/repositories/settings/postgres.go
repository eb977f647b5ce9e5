package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/studiogate/internal/dbx"
)

// PostgresRepository stores each setting as one row of the settings table.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, key string) ([]byte, error) {
	return getValue(ctx, r.db, key, false)
}

func (r *PostgresRepository) Set(ctx context.Context, key string, value []byte) error {
	return setValue(ctx, r.db, key, value)
}

// Update locks the row with SELECT ... FOR UPDATE so concurrent writers
// from other processes queue behind each other. A placeholder row is
// inserted first so there is always a row to lock.
func (r *PostgresRepository) Update(ctx context.Context, key string, fn UpdateFunc) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query :=
			`INSERT INTO settings (key, value)
			 VALUES ($1, NULL)
			 ON CONFLICT (key) DO NOTHING
			 `
		if _, err := tx.ExecContext(ctx, query, key); err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		current, err := getValue(ctx, tx, key, true)
		if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		return setValue(ctx, tx, key, next)
	})
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

func getValue(ctx context.Context, db dbx.DBTX, key string, forUpdate bool) ([]byte, error) {
	query :=
		`SELECT value FROM settings
		 WHERE key = $1
		 `
	if forUpdate {
		query += "FOR UPDATE"
	}

	var value []byte
	err := db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return value, nil
}

func setValue(ctx context.Context, db dbx.DBTX, key string, value []byte) error {
	query :=
		`INSERT INTO settings (key, value, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = now()
		 `

	var arg any
	if value != nil {
		arg = string(value)
	}

	if _, err := db.ExecContext(ctx, query, key, arg); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
