// Package httpapi serves the JSON API used by the studio front end:
// credential checks (/api/auth), user administration (/api/users) and the
// page listing and publishing endpoints under /api/v1.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/studiogate/internal/common"
	"github.com/dmitrijs2005/studiogate/internal/logging"
	"github.com/dmitrijs2005/studiogate/internal/server/models"
	"github.com/dmitrijs2005/studiogate/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type authService interface {
	Authenticate(ctx context.Context, username, password string) (*services.Principal, error)
	IssueToken(p *services.Principal) (string, error)
	PrincipalFromToken(ctx context.Context, token string) (*services.Principal, error)
}

type userService interface {
	List(ctx context.Context) ([]services.UserView, error)
	Create(ctx context.Context, in services.CreateUserInput) error
	Update(ctx context.Context, in services.UpdateUserInput) error
}

type pageService interface {
	Pages(ctx context.Context, p *services.Principal) ([]models.Page, error)
	LinkedInPages(ctx context.Context, p *services.Principal) ([]models.LinkedInPage, error)
	Publish(ctx context.Context, p *services.Principal, in services.PublishInput) ([]models.PublishResult, error)
}

// Options tune the router.
type Options struct {
	// ProtectUsers requires an admin access token on /api/users.
	ProtectUsers bool
	// MaxUploadBytes bounds publish request bodies.
	MaxUploadBytes int64
}

type Handler struct {
	auth   authService
	users  userService
	pages  pageService
	logger logging.Logger
	opts   Options
}

func NewHandler(as authService, us userService, ps pageService, logger logging.Logger, opts Options) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	return &Handler{auth: as, users: us, pages: ps, logger: logger.With("module", "http_api"), opts: opts}
}

// Router builds the chi router with all routes and middleware.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.handleHealth)
	r.Post("/api/auth", h.handleAuth)

	r.Route("/api/users", func(r chi.Router) {
		if h.opts.ProtectUsers {
			r.Use(h.requireToken, requireAdmin)
		}
		r.Get("/", h.handleListUsers)
		r.Post("/", h.handleCreateUser)
		r.Put("/", h.handleUpdateUser)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.requireToken)
		r.Get("/social/pages", h.handleSocialPages)
		r.Post("/social/publish", h.handlePublish)
		r.Get("/linkedin/pages", h.handleLinkedInPages)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError translates a service error into the status and message of the
// public API. Unknown errors are logged and reported as 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := http.StatusInternalServerError, "Internal error"

	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, common.ErrInvalidInput):
		status, msg = http.StatusBadRequest, "Invalid data"
	case errors.Is(err, common.ErrUserExists):
		status, msg = http.StatusBadRequest, "User exists"
	case errors.Is(err, common.ErrNotFound):
		status, msg = http.StatusNotFound, "User not found"
	case errors.Is(err, common.ErrForbidden):
		status, msg = http.StatusForbidden, "Forbidden"
	case errors.Is(err, common.ErrNotConfigured):
		status, msg = http.StatusBadRequest, "Integration not configured"
	case errors.Is(err, common.ErrTokenExpired):
		status, msg = http.StatusUnauthorized, common.ErrTokenExpired.Error()
	case errors.Is(err, common.ErrInvalidToken):
		status, msg = http.StatusUnauthorized, "Unauthorized"
	default:
		if !errors.Is(err, common.ErrInternal) {
			h.logger.Error(r.Context(), "unhandled error", "error", err)
		}
	}

	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return common.ErrInvalidInput
	}
	return nil
}
