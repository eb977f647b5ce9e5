package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/studiogate/internal/client/client"
	"github.com/dmitrijs2005/studiogate/internal/client/config"
	"github.com/dmitrijs2005/studiogate/internal/client/models"
	"github.com/dmitrijs2005/studiogate/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/studiogate/internal/client/services"
	"github.com/dmitrijs2005/studiogate/internal/client/session"
	"github.com/dmitrijs2005/studiogate/internal/logging"
)

type authService interface {
	Login(ctx context.Context, username string, password []byte) error
	Logout(ctx context.Context)
}

type pageService interface {
	Pages(ctx context.Context) ([]models.Page, error)
	LinkedInPages(ctx context.Context) ([]models.LinkedInPage, error)
}

type userAPI interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, req client.CreateUserRequest) error
	UpdateUser(ctx context.Context, req client.UpdateUserRequest) error
	Publish(ctx context.Context, req client.PublishRequest) ([]models.PublishResult, error)
}

type userDeleter interface {
	DeleteUser(ctx context.Context, username string) error
}

type App struct {
	auth    authService
	pages   pageService
	api     userAPI
	admin   userDeleter
	session *session.Store
	logger  logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	closers []io.Closer
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	admin, err := client.NewAdminClient(c.AdminGRPCAddr)
	if err != nil {
		db.Close()
		return nil, err
	}

	meta := metadata.NewSQLiteRepository(db)
	store := session.NewStore(ctx, session.NewMetadataPersister(meta), logger)
	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)

	as := services.NewAuthService(api, store, meta, logger, admin)
	as.Restore(ctx)

	return &App{
		auth:    as,
		pages:   services.NewPageService(api, store),
		api:     api,
		admin:   admin,
		session: store,
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		closers: []io.Closer{admin, dbCloser{db}},
	}, nil
}

type dbCloser struct{ db *sql.DB }

func (d dbCloser) Close() error { return d.db.Close() }

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn(context.Background(), "close error", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsLoggedIn()
}

func (a *App) isAdmin() bool {
	return a.session.IsAdmin()
}
