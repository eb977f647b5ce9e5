// Package repomanager opens the configured storage backend and vends the
// repositories built on top of it.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/studiogate/internal/server/repositories/settings"
	"github.com/dmitrijs2005/studiogate/internal/server/repositories/users"
)

const (
	BackendPostgres = "postgres"
	BackendBolt     = "bolt"
	BackendMemory   = "memory"
)

type RepositoryManager interface {
	Settings() settings.Repository
	Users() users.Repository
	Close() error
}

// Options selects and parameterises the backend.
type Options struct {
	Backend     string
	DatabaseDSN string
	BoltPath    string
	// AdminDigest is written whenever the admin record has to be recreated.
	AdminDigest string
	Postgres    PostgresOptions
}

// manager is shared by all backends: only the settings repository differs.
type manager struct {
	settings settings.Repository
	users    *users.SettingsRepository
}

func newManager(s settings.Repository, adminDigest string) *manager {
	return &manager{settings: s, users: users.NewSettingsRepository(s, adminDigest)}
}

func (m *manager) Settings() settings.Repository { return m.settings }

func (m *manager) Users() users.Repository { return m.users }

func (m *manager) Close() error { return m.settings.Close() }

// Open builds the RepositoryManager named by opts.Backend.
func Open(ctx context.Context, opts Options) (RepositoryManager, error) {
	switch opts.Backend {
	case BackendPostgres:
		return NewPostgresRepositoryManager(ctx, opts.DatabaseDSN, opts.AdminDigest, opts.Postgres)
	case BackendBolt:
		return NewBoltRepositoryManager(opts.BoltPath, opts.AdminDigest)
	case BackendMemory, "":
		return NewMemoryRepositoryManager(opts.AdminDigest), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

// NewMemoryRepositoryManager keeps everything in process memory.
func NewMemoryRepositoryManager(adminDigest string) RepositoryManager {
	return newManager(settings.NewMemoryRepository(), adminDigest)
}

// NewBoltRepositoryManager stores settings in a bbolt file at path.
func NewBoltRepositoryManager(path, adminDigest string) (RepositoryManager, error) {
	if path == "" {
		return nil, fmt.Errorf("bolt backend requires a file path")
	}
	s, err := settings.NewBoltRepository(path)
	if err != nil {
		return nil, err
	}
	return newManager(s, adminDigest), nil
}
