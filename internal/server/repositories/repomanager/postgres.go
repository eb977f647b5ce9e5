package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dmitrijs2005/studiogate/internal/server/migrations"
	"github.com/dmitrijs2005/studiogate/internal/server/repositories/settings"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresOptions controls how long startup waits for the database.
type PostgresOptions struct {
	ConnectTimeout time.Duration
}

// seams for tests
var (
	sqlOpen = sql.Open

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.UpContext(ctx, db, dir, opts...)
	}
)

// NewPostgresRepositoryManager connects to dsn, waits until the server
// answers, applies the embedded migrations and returns a manager whose
// settings live in the settings table.
func NewPostgresRepositoryManager(ctx context.Context, dsn, adminDigest string, opts PostgresOptions) (RepositoryManager, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres backend requires a database dsn")
	}

	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := waitForDB(ctx, db, opts.ConnectTimeout); err != nil {
		db.Close()
		return nil, fmt.Errorf("db connect error: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return newManager(settings.NewPostgresRepository(db), adminDigest), nil
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

const defaultConnectTimeout = 30 * time.Second

func waitForDB(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = timeout

	return backoff.Retry(func() error {
		return db.PingContext(ctx)
	}, backoff.WithContext(b, ctx))
}
