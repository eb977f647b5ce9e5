package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/studiogate/internal/common"
	"github.com/dmitrijs2005/studiogate/internal/logging"
	"github.com/dmitrijs2005/studiogate/internal/passwd"
	"github.com/dmitrijs2005/studiogate/internal/server/auth"
	"github.com/dmitrijs2005/studiogate/internal/server/models"
	"github.com/dmitrijs2005/studiogate/internal/server/repositories/settings"
	"github.com/dmitrijs2005/studiogate/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret        = "k"
	testAdminPassword = "clingroup#123@"
)

func newRepo(t *testing.T) *users.SettingsRepository {
	t.Helper()
	digest, err := passwd.Hash(testAdminPassword)
	require.NoError(t, err)
	return users.NewSettingsRepository(settings.NewMemoryRepository(), digest)
}

func newAuthService(repo users.Repository) *AuthService {
	return NewAuthService(repo, testSecret, time.Hour, logging.Nop())
}

func seed(t *testing.T, repo users.Repository, list ...models.User) {
	t.Helper()
	require.NoError(t, repo.Modify(context.Background(), func(current []models.User) ([]models.User, error) {
		return append(current, list...), nil
	}))
}

// failingRepo fails every call.
type failingRepo struct{ err error }

func (f failingRepo) Load(context.Context) ([]models.User, error)    { return nil, f.err }
func (f failingRepo) Save(context.Context, []models.User) error      { return f.err }
func (f failingRepo) Modify(context.Context, users.ModifyFunc) error { return f.err }

func TestAuthenticate_DefaultAdmin(t *testing.T) {
	svc := newAuthService(newRepo(t))

	p, err := svc.Authenticate(context.Background(), common.AdminUsername, testAdminPassword)
	require.NoError(t, err)
	assert.Equal(t, common.AdminUsername, p.Username)
	assert.Equal(t, []string{}, p.Pages)
	assert.Equal(t, []string{}, p.LinkedInPages)
	assert.True(t, p.IsAdmin())
}

func TestAuthenticate_ReturnsScope(t *testing.T) {
	repo := newRepo(t)
	digest, err := passwd.Hash("pw1")
	require.NoError(t, err)
	seed(t, repo, models.User{Username: "alice", PasswordDigest: digest, Pages: []string{"pg1"}, LinkedInPages: []string{"acme:1"}})

	p, err := newAuthService(repo).Authenticate(context.Background(), "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, &Principal{Username: "alice", Pages: []string{"pg1"}, LinkedInPages: []string{"acme:1"}}, p)
	assert.False(t, p.IsAdmin())
}

func TestAuthenticate_UniformFailure(t *testing.T) {
	repo := newRepo(t)
	digest, err := passwd.Hash("pw1")
	require.NoError(t, err)
	seed(t, repo, models.User{Username: "alice", PasswordDigest: digest})
	svc := newAuthService(repo)
	ctx := context.Background()

	_, errUnknown := svc.Authenticate(ctx, "bob", "pw1")
	_, errWrong := svc.Authenticate(ctx, "alice", "nope")
	_, errCase := svc.Authenticate(ctx, "Alice", "pw1")

	for _, err := range []error{errUnknown, errWrong, errCase} {
		require.Error(t, err)
		assert.Equal(t, common.ErrInvalidCredentials, err)
	}
}

func TestAuthenticate_MalformedDigestIsInvalidCredentials(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo, models.User{Username: "alice", PasswordDigest: "garbage"})

	_, err := newAuthService(repo).Authenticate(context.Background(), "alice", "x")
	assert.Equal(t, common.ErrInvalidCredentials, err)
}

func TestAuthenticate_UpgradesLegacyDigest(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo, models.User{Username: "alice", PasswordDigest: passwd.Legacy("pw1"), Pages: []string{"pg1"}})
	svc := newAuthService(repo)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "alice", "pw1")
	require.NoError(t, err)

	list, err := repo.Load(ctx)
	require.NoError(t, err)
	u := findUser(list, "alice")
	require.NotNil(t, u)
	assert.False(t, passwd.IsLegacy(u.PasswordDigest), "digest should be argon2id now")
	assert.Equal(t, []string{"pg1"}, u.Pages)

	// still logs in with the same password
	_, err = svc.Authenticate(ctx, "alice", "pw1")
	require.NoError(t, err)
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	svc := newAuthService(failingRepo{err: errors.New("disk")})
	_, err := svc.Authenticate(context.Background(), "a", "b")
	assert.Equal(t, common.ErrInternal, err)
}

func TestIssueTokenAndPrincipalFromToken(t *testing.T) {
	repo := newRepo(t)
	digest, err := passwd.Hash("pw1")
	require.NoError(t, err)
	seed(t, repo, models.User{Username: "alice", PasswordDigest: digest, Pages: []string{"pg1"}})
	svc := newAuthService(repo)
	ctx := context.Background()

	token, err := svc.IssueToken(&Principal{Username: "alice"})
	require.NoError(t, err)

	p, err := svc.PrincipalFromToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, []string{"pg1"}, p.Pages)

	// scope changes apply to existing tokens
	require.NoError(t, repo.Modify(ctx, func(list []models.User) ([]models.User, error) {
		findUser(list, "alice").Pages = []string{"pg2"}
		return list, nil
	}))
	p, err = svc.PrincipalFromToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, []string{"pg2"}, p.Pages)
}

func TestPrincipalFromToken_Errors(t *testing.T) {
	svc := newAuthService(newRepo(t))
	ctx := context.Background()

	_, err := svc.PrincipalFromToken(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	expired, err := auth.GenerateToken("alice", []byte(testSecret), -time.Minute)
	require.NoError(t, err)
	_, err = svc.PrincipalFromToken(ctx, expired)
	assert.ErrorIs(t, err, common.ErrTokenExpired)

	ghost, err := svc.IssueToken(&Principal{Username: "ghost"})
	require.NoError(t, err)
	_, err = svc.PrincipalFromToken(ctx, ghost)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
