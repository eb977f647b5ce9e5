// Package services contains server-side business logic: credential checks
// and token issuing (AuthService), administrative user management
// (UserService) and page listing/publishing restricted to the caller's
// authorized pages (PageService).
package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/studiogate/internal/common"
	"github.com/dmitrijs2005/studiogate/internal/logging"
	"github.com/dmitrijs2005/studiogate/internal/passwd"
	"github.com/dmitrijs2005/studiogate/internal/server/auth"
	"github.com/dmitrijs2005/studiogate/internal/server/models"
	"github.com/dmitrijs2005/studiogate/internal/server/repositories/users"
)

// Principal is an authenticated user together with the pages it may act on.
// Empty page sets mean "no restriction".
type Principal struct {
	Username      string
	Pages         []string
	LinkedInPages []string
}

// IsAdmin reports whether p is the administrative account.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Username == common.AdminUsername
}

type AuthService struct {
	users                       users.Repository
	logger                      logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewAuthService(repo users.Repository, secretKey string, accessTokenValidityDuration time.Duration, logger logging.Logger) *AuthService {
	return &AuthService{
		users:                       repo,
		logger:                      logger.With("module", "auth_service"),
		jwtSecret:                   []byte(secretKey),
		accessTokenValidityDuration: accessTokenValidityDuration,
	}
}

// Authenticate checks username and password against the credential store.
// An unknown username and a wrong password both yield
// common.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*Principal, error) {
	list, err := s.users.Load(ctx)
	if err != nil {
		s.logger.Error(ctx, "error loading users", "error", err)
		return nil, common.ErrInternal
	}

	user := findUser(list, username)
	if user == nil {
		passwd.Burn(password)
		return nil, common.ErrInvalidCredentials
	}

	ok, needsRehash, err := passwd.Verify(user.PasswordDigest, password)
	if err != nil {
		s.logger.Warn(ctx, "unreadable password digest", "username", username, "error", err)
		return nil, common.ErrInvalidCredentials
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	if needsRehash {
		s.upgradeDigest(ctx, username, user.PasswordDigest, password)
	}

	return principalOf(user), nil
}

// IssueToken returns a signed access token for p.
func (s *AuthService) IssueToken(p *Principal) (string, error) {
	token, err := auth.GenerateToken(p.Username, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrInternal
	}
	return token, nil
}

// PrincipalFromToken validates token and reloads its subject, so page scope
// changes apply without a new login.
func (s *AuthService) PrincipalFromToken(ctx context.Context, token string) (*Principal, error) {
	username, err := auth.GetUsernameFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return s.Principal(ctx, username)
}

// Principal returns the current scope of username. A user removed after
// the token was issued yields common.ErrInvalidToken.
func (s *AuthService) Principal(ctx context.Context, username string) (*Principal, error) {
	list, err := s.users.Load(ctx)
	if err != nil {
		s.logger.Error(ctx, "error loading users", "error", err)
		return nil, common.ErrInternal
	}

	user := findUser(list, username)
	if user == nil {
		return nil, common.ErrInvalidToken
	}
	return principalOf(user), nil
}

// upgradeDigest replaces a legacy digest with an argon2id one. Failures are
// logged only; the login itself already succeeded.
func (s *AuthService) upgradeDigest(ctx context.Context, username, oldDigest, password string) {
	digest, err := passwd.Hash(password)
	if err != nil {
		s.logger.Error(ctx, "error hashing password", "error", err)
		return
	}

	err = s.users.Modify(ctx, func(list []models.User) ([]models.User, error) {
		for i := range list {
			// skip when the password changed in between
			if list[i].Username == username && list[i].PasswordDigest == oldDigest {
				list[i].PasswordDigest = digest
			}
		}
		return list, nil
	})
	if err != nil {
		s.logger.Error(ctx, "error upgrading password digest", "username", username, "error", err)
		return
	}
	s.logger.Info(ctx, "password digest upgraded", "username", username)
}

func findUser(list []models.User, username string) *models.User {
	for i := range list {
		if list[i].Username == username {
			return &list[i]
		}
	}
	return nil
}

func principalOf(u *models.User) *Principal {
	p := &Principal{Username: u.Username, Pages: u.Pages, LinkedInPages: u.LinkedInPages}
	if p.Pages == nil {
		p.Pages = []string{}
	}
	if p.LinkedInPages == nil {
		p.LinkedInPages = []string{}
	}
	return p
}
