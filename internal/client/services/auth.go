// Package services contains application services for the studio CLI.
// This file defines the authentication service: login, logout and restoring
// a persisted session on start.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/studiogate/internal/client/models"
	"github.com/dmitrijs2005/studiogate/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/studiogate/internal/client/session"
	"github.com/dmitrijs2005/studiogate/internal/logging"
)

// AccessTokenKey names the client state entry holding the bearer token of the
// persisted session.
const AccessTokenKey = "access_token"

type loginAPI interface {
	Login(ctx context.Context, username, password string) (*models.LoginResult, error)
	SetAccessToken(token string)
}

// TokenHolder receives the access token after login; used for clients that
// share the HTTP session token, e.g. the admin gRPC client.
type TokenHolder interface {
	SetAccessToken(token string)
}

// AuthService keeps the session store, the persisted token and every
// client's bearer token in step.
type AuthService struct {
	api     loginAPI
	holders []TokenHolder
	session *session.Store
	meta    metadata.Repository
	logger  logging.Logger
}

func NewAuthService(api loginAPI, store *session.Store, meta metadata.Repository, logger logging.Logger, holders ...TokenHolder) *AuthService {
	return &AuthService{
		api:     api,
		holders: holders,
		session: store,
		meta:    meta,
		logger:  logger.With("module", "auth_service"),
	}
}

// Restore hands the persisted token to the clients when the session store
// came up authenticated, and drops a stale token otherwise.
func (a *AuthService) Restore(ctx context.Context) {
	if !a.session.IsLoggedIn() {
		if err := a.meta.Delete(ctx, AccessTokenKey); err != nil {
			a.logger.Warn(ctx, "error removing stale token", "error", err)
		}
		return
	}

	token, err := a.meta.Get(ctx, AccessTokenKey)
	if err != nil {
		a.logger.Warn(ctx, "error reading stored token", "error", err)
		return
	}
	a.setToken(string(token))
}

// Login authenticates and switches the session to the returned identity.
// The session is left untouched on failure.
func (a *AuthService) Login(ctx context.Context, username string, password []byte) error {
	res, err := a.api.Login(ctx, username, string(password))
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	a.session.Login(ctx, res.Username, res.Pages, res.LinkedInPages)
	if err := a.meta.Put(ctx, AccessTokenKey, []byte(res.AccessToken)); err != nil {
		a.logger.Error(ctx, "error saving token", "error", err)
	}
	a.setToken(res.AccessToken)
	return nil
}

func (a *AuthService) Logout(ctx context.Context) {
	a.session.Logout(ctx)
	if err := a.meta.Delete(ctx, AccessTokenKey); err != nil {
		a.logger.Error(ctx, "error removing token", "error", err)
	}
	a.setToken("")
}

func (a *AuthService) setToken(token string) {
	a.api.SetAccessToken(token)
	for _, h := range a.holders {
		h.SetAccessToken(token)
	}
}
