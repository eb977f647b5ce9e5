package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/studiogate/internal/common"
	"github.com/dmitrijs2005/studiogate/internal/logging"
	"github.com/dmitrijs2005/studiogate/internal/passwd"
	"github.com/dmitrijs2005/studiogate/internal/rpc"
	"github.com/dmitrijs2005/studiogate/internal/server/repositories/settings"
	"github.com/dmitrijs2005/studiogate/internal/server/repositories/users"
	"github.com/dmitrijs2005/studiogate/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const (
	testSecret        = "grpc-secret"
	testAdminPassword = "clingroup#123@"
)

func newTestServer(t *testing.T) *GRPCServer {
	t.Helper()
	digest, err := passwd.Hash(testAdminPassword)
	require.NoError(t, err)
	repo := users.NewSettingsRepository(settings.NewMemoryRepository(), digest)
	as := services.NewAuthService(repo, testSecret, time.Hour, logging.Nop())
	us := services.NewUserService(repo, logging.Nop())
	return NewGRPCServer("127.0.0.1:0", logging.Nop(), as, us)
}

// startBufconn serves s in memory and returns a connected client.
func startBufconn(t *testing.T, s *GRPCServer) *rpc.AccountClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		cancel()
		<-done
	})

	return rpc.NewAccountClient(conn)
}

func withToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, token)
}

func TestAccountService_AdminFlow(t *testing.T) {
	c := startBufconn(t, newTestServer(t))
	ctx := context.Background()

	pong, err := c.Ping(ctx, &rpc.PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", pong.Status)

	login, err := c.Login(ctx, &rpc.LoginRequest{Username: common.AdminUsername, Password: testAdminPassword})
	require.NoError(t, err)
	require.NotEmpty(t, login.AccessToken)
	assert.Equal(t, []string{}, login.Pages)

	admin := withToken(ctx, login.AccessToken)

	_, err = c.CreateUser(admin, &rpc.CreateUserRequest{Username: "alice", Password: "pw", Pages: []string{"p1"}})
	require.NoError(t, err)

	_, err = c.CreateUser(admin, &rpc.CreateUserRequest{Username: "alice", Password: "pw"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	pages := []string{"p2", "p3"}
	_, err = c.UpdateUser(admin, &rpc.UpdateUserRequest{Username: "alice", Pages: &pages})
	require.NoError(t, err)

	list, err := c.ListUsers(admin, &rpc.ListUsersRequest{})
	require.NoError(t, err)
	require.Len(t, list.Users, 2)
	assert.Equal(t, common.AdminUsername, list.Users[0].Username)
	assert.Equal(t, rpc.User{Username: "alice", Pages: []string{"p2", "p3"}, LinkedInPages: []string{}}, list.Users[1])

	_, err = c.DeleteUser(admin, &rpc.DeleteUserRequest{Username: common.AdminUsername})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = c.DeleteUser(admin, &rpc.DeleteUserRequest{Username: "alice"})
	require.NoError(t, err)

	_, err = c.DeleteUser(admin, &rpc.DeleteUserRequest{Username: "alice"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestAccountService_Login_BadCredentials(t *testing.T) {
	c := startBufconn(t, newTestServer(t))

	_, err := c.Login(context.Background(), &rpc.LoginRequest{Username: common.AdminUsername, Password: "wrong"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = c.Login(context.Background(), &rpc.LoginRequest{Username: "ghost", Password: "wrong"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestAccountService_RequiresAdmin(t *testing.T) {
	c := startBufconn(t, newTestServer(t))
	ctx := context.Background()

	_, err := c.ListUsers(ctx, &rpc.ListUsersRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = c.ListUsers(withToken(ctx, "not-a-jwt"), &rpc.ListUsersRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	login, err := c.Login(ctx, &rpc.LoginRequest{Username: common.AdminUsername, Password: testAdminPassword})
	require.NoError(t, err)
	_, err = c.CreateUser(withToken(ctx, login.AccessToken), &rpc.CreateUserRequest{Username: "bob", Password: "pw"})
	require.NoError(t, err)

	bob, err := c.Login(ctx, &rpc.LoginRequest{Username: "bob", Password: "pw"})
	require.NoError(t, err)

	_, err = c.DeleteUser(withToken(ctx, bob.AccessToken), &rpc.DeleteUserRequest{Username: "bob"})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	srv.address = "127.0.0.1:99999"

	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}
