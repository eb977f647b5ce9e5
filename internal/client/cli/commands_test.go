package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/studiogate/internal/client/client"
	"github.com/dmitrijs2005/studiogate/internal/client/models"
	"github.com/dmitrijs2005/studiogate/internal/client/session"
	"github.com/dmitrijs2005/studiogate/internal/common"
	"github.com/dmitrijs2005/studiogate/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type memPersister struct{ saved *session.State }

func (m *memPersister) Load(context.Context) (*session.State, error) { return m.saved, nil }
func (m *memPersister) Save(_ context.Context, s session.State) error {
	m.saved = &s
	return nil
}
func (m *memPersister) Clear(context.Context) error {
	m.saved = nil
	return nil
}

type fakeAuth struct {
	store  *session.Store
	logins []string
}

func (f *fakeAuth) Login(ctx context.Context, username string, _ []byte) error {
	f.logins = append(f.logins, username)
	f.store.Login(ctx, username, nil, nil)
	return nil
}
func (f *fakeAuth) Logout(ctx context.Context) { f.store.Logout(ctx) }

type fakePages struct {
	pages []models.Page
}

func (f *fakePages) Pages(context.Context) ([]models.Page, error) { return f.pages, nil }
func (f *fakePages) LinkedInPages(context.Context) ([]models.LinkedInPage, error) {
	return []models.LinkedInPage{{ID: "7", Name: "Acme", AccountID: "acc"}}, nil
}

type fakeUserAPI struct {
	created  []client.CreateUserRequest
	updated  []client.UpdateUserRequest
	publish  []client.PublishRequest
	listErr  error
	imageGot string
}

func (f *fakeUserAPI) ListUsers(context.Context) ([]models.User, error) {
	return []models.User{{Username: common.AdminUsername}, {Username: "alice", Pages: []string{"p1"}}}, f.listErr
}
func (f *fakeUserAPI) CreateUser(_ context.Context, req client.CreateUserRequest) error {
	f.created = append(f.created, req)
	return nil
}
func (f *fakeUserAPI) UpdateUser(_ context.Context, req client.UpdateUserRequest) error {
	f.updated = append(f.updated, req)
	return nil
}
func (f *fakeUserAPI) Publish(_ context.Context, req client.PublishRequest) ([]models.PublishResult, error) {
	if req.Image != nil {
		b, _ := io.ReadAll(req.Image)
		f.imageGot = string(b)
	}
	f.publish = append(f.publish, req)
	out := make([]models.PublishResult, 0, len(req.PageIDs))
	for _, id := range req.PageIDs {
		out = append(out, models.PublishResult{PageID: id, Status: 200})
	}
	return out, nil
}

type fakeDeleter struct{ deleted []string }

func (f *fakeDeleter) DeleteUser(_ context.Context, username string) error {
	f.deleted = append(f.deleted, username)
	return nil
}

// ---- helpers ----

type testApp struct {
	*App
	out   *bytes.Buffer
	api   *fakeUserAPI
	admin *fakeDeleter
	auth  *fakeAuth
}

func newTestApp(t *testing.T, input string, user string, pages []string) *testApp {
	t.Helper()
	silence(t)

	origPw := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte("pw"), nil }
	t.Cleanup(func() { getPassword = origPw })

	ctx := context.Background()
	store := session.NewStore(ctx, &memPersister{}, logging.Nop())
	if user != "" {
		store.Login(ctx, user, pages, nil)
	}

	out := &bytes.Buffer{}
	ta := &testApp{
		out:   out,
		api:   &fakeUserAPI{},
		admin: &fakeDeleter{},
		auth:  &fakeAuth{store: store},
	}
	ta.App = &App{
		auth:    ta.auth,
		pages:   &fakePages{pages: []models.Page{{ID: "p1", Name: "One"}, {ID: "p2", Name: "Two"}}},
		api:     ta.api,
		admin:   ta.admin,
		session: store,
		logger:  logging.Nop(),
		reader:  bufio.NewReader(strings.NewReader(input)),
		out:     out,
	}
	return ta
}

// ---- tests ----

func TestLogin_OpensSession(t *testing.T) {
	a := newTestApp(t, "alice\n", "", nil)

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, []string{"alice"}, a.auth.logins)
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "(alice)", a.getStatus())
}

func TestPages_PrintsTable(t *testing.T) {
	a := newTestApp(t, "", "alice", nil)

	require.NoError(t, a.Pages(context.Background()))
	assert.Contains(t, a.out.String(), "p1")
	assert.Contains(t, a.out.String(), "Two")

	require.NoError(t, a.LinkedIn(context.Background()))
	assert.Contains(t, a.out.String(), "acc:7")
}

func TestPublish_RejectsPagesOutsideScope(t *testing.T) {
	a := newTestApp(t, "hello\n\n\np1,p2\n", "alice", []string{"p1"})

	err := a.Publish(context.Background())
	assert.ErrorIs(t, err, common.ErrForbidden)
	assert.Empty(t, a.api.publish)
}

func TestPublish_URLAndFile(t *testing.T) {
	a := newTestApp(t, "hello\nworld\n\nhttps://img.example/cat.jpg\np1, p2\n", common.AdminUsername, nil)

	require.NoError(t, a.Publish(context.Background()))
	require.Len(t, a.api.publish, 1)
	got := a.api.publish[0]
	assert.Equal(t, "hello\nworld", got.Caption)
	assert.Equal(t, "https://img.example/cat.jpg", got.ImageURL)
	assert.Equal(t, []string{"p1", "p2"}, got.PageIDs)

	path := t.TempDir() + "/cat.jpg"
	require.NoError(t, writeFile(path, "IMG"))

	b := newTestApp(t, "caption\n\n"+path+"\np1\n", common.AdminUsername, nil)
	require.NoError(t, b.Publish(context.Background()))
	assert.Equal(t, "IMG", b.api.imageGot)
	assert.Equal(t, "cat.jpg", b.api.publish[0].ImageName)
}

func TestAddUser(t *testing.T) {
	a := newTestApp(t, "bob\np1, p2\n\n", common.AdminUsername, nil)

	require.NoError(t, a.AddUser(context.Background()))
	assert.Equal(t, []client.CreateUserRequest{{
		Username: "bob", Password: "pw", Pages: []string{"p1", "p2"}, LinkedInPages: []string{},
	}}, a.api.created)
}

func TestSetPages_KeepMarker(t *testing.T) {
	a := newTestApp(t, "-\n\n", common.AdminUsername, nil)

	require.NoError(t, a.SetPages(context.Background(), []string{"alice"}))
	require.Len(t, a.api.updated, 1)
	got := a.api.updated[0]
	assert.Equal(t, "alice", got.Username)
	assert.Nil(t, got.Pages)
	require.NotNil(t, got.LinkedInPages)
	assert.Equal(t, []string{}, *got.LinkedInPages)
}

func TestAddUser_LinkedInKeys(t *testing.T) {
	a := newTestApp(t, "bob\n\nacme:urn:li:organization:1\n", common.AdminUsername, nil)

	require.NoError(t, a.AddUser(context.Background()))
	require.Len(t, a.api.created, 1)
	assert.Equal(t, []string{"acme:urn:li:organization:1"}, a.api.created[0].LinkedInPages)

	b := newTestApp(t, "bob\n\nacme:1, 42\n", common.AdminUsername, nil)
	err := b.AddUser(context.Background())
	assert.ErrorContains(t, err, `invalid LinkedIn page "42"`)
	assert.Empty(t, b.api.created)
}

func TestSetPages_BadLinkedInKey(t *testing.T) {
	a := newTestApp(t, "-\n:7\n", common.AdminUsername, nil)

	err := a.SetPages(context.Background(), []string{"alice"})
	assert.ErrorContains(t, err, "expected account:page")
	assert.Empty(t, a.api.updated)
}

func TestPasswdAndDelUser(t *testing.T) {
	a := newTestApp(t, "carol\n", common.AdminUsername, nil)
	ctx := context.Background()

	require.NoError(t, a.Passwd(ctx, []string{"alice"}))
	assert.Equal(t, []client.UpdateUserRequest{{Username: "alice", Password: "pw"}}, a.api.updated)

	require.NoError(t, a.DelUser(ctx, nil))
	assert.Equal(t, []string{"carol"}, a.admin.deleted)
}

func TestUsers_PrintsScopes(t *testing.T) {
	a := newTestApp(t, "", common.AdminUsername, nil)

	require.NoError(t, a.Users(context.Background()))
	out := a.out.String()
	assert.Contains(t, out, common.AdminUsername)
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "all")
}

func TestHandleError_UnauthorizedEndsSession(t *testing.T) {
	a := newTestApp(t, "", "alice", nil)

	a.handleError(context.Background(), client.ErrUnauthorized)
	assert.False(t, a.isLoggedIn())
}
