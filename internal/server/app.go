// Package server wires configuration, storage, services and transports into
// the studio gateway and runs them until a termination signal arrives.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/studiogate/internal/logging"
	"github.com/dmitrijs2005/studiogate/internal/passwd"
	"github.com/dmitrijs2005/studiogate/internal/server/config"
	"github.com/dmitrijs2005/studiogate/internal/server/httpapi"
	"github.com/dmitrijs2005/studiogate/internal/server/integrations"
	"github.com/dmitrijs2005/studiogate/internal/server/media"
	"github.com/dmitrijs2005/studiogate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/studiogate/internal/server/services"

	gs "github.com/dmitrijs2005/studiogate/internal/server/grpc"
)

const upstreamTimeout = 30 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	repos       repomanager.RepositoryManager
	authService *services.AuthService
	userService *services.UserService
	pageService *services.PageService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.New(c.LogFormat, c.LogLevel, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	adminDigest, err := passwd.Hash(c.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("admin password: %w", err)
	}

	rm, err := repomanager.Open(ctx, repomanager.Options{
		Backend:     c.StorageBackend,
		DatabaseDSN: c.DatabaseDSN,
		BoltPath:    c.BoltPath,
		AdminDigest: adminDigest,
		Postgres:    repomanager.PostgresOptions{ConnectTimeout: c.DBConnectTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	// seeds the admin account on first start
	if _, err := rm.Users().Load(ctx); err != nil {
		rm.Close()
		return nil, fmt.Errorf("credential store: %w", err)
	}

	hc := &http.Client{Timeout: upstreamTimeout}
	facebook := integrations.NewFacebookClient(c.FacebookBaseURL, c.FacebookGraphVersion, c.FacebookToken, hc)
	linkedin := integrations.NewLinkedInClient(c.LinkedInBaseURL, c.LinkedInAccounts, hc)

	var uploader services.Uploader
	if c.S3Bucket != "" {
		u, err := media.NewS3Uploader(ctx, media.S3Options{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
			PresignTTL:   c.S3PresignTTL,
		})
		if err != nil {
			rm.Close()
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
		uploader = u
	}

	return &App{
		config:      c,
		logger:      logger,
		repos:       rm,
		authService: services.NewAuthService(rm.Users(), c.SecretKey, c.AccessTokenValidityDuration, logger),
		userService: services.NewUserService(rm.Users(), logger),
		pageService: services.NewPageService(facebook, linkedin, uploader, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	h := httpapi.NewHandler(app.authService, app.userService, app.pageService, app.logger, httpapi.Options{
		ProtectUsers: app.config.ProtectUsersAPI,
	})
	if err := httpapi.NewHTTPServer(app.config.HTTPAddr, h, app.logger).Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.authService, app.userService)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves both transports until ctx is cancelled, a signal arrives or
// either server fails, then releases storage.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageBackend)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(context.Background(), "error closing storage", "error", err)
	}
	if z, ok := app.logger.(*logging.ZapLogger); ok {
		_ = z.Sync()
	}
	app.logger.Info(context.Background(), "App stopped")
}
