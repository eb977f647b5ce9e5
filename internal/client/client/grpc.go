package client

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/studiogate/internal/common"
	"github.com/dmitrijs2005/studiogate/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// AdminClient talks to the account administration RPC service.
type AdminClient struct {
	conn   *grpc.ClientConn
	client *rpc.AccountClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (c *AdminClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := c.AccessToken(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewAdminClient connects lazily to target. Extra options are appended to
// the defaults (plaintext transport, token interceptor).
func NewAdminClient(target string, opts ...grpc.DialOption) (*AdminClient, error) {
	c := &AdminClient{}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewAccountClient(conn)
	return c, nil
}

func (c *AdminClient) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// SetAccessToken shares a token obtained elsewhere, e.g. from HTTPClient.Login.
func (c *AdminClient) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

func (c *AdminClient) Login(ctx context.Context, username, password string) error {
	resp, err := c.client.Login(ctx, &rpc.LoginRequest{Username: username, Password: password})
	if err != nil {
		return mapStatus(err)
	}
	c.SetAccessToken(resp.AccessToken)
	return nil
}

func (c *AdminClient) DeleteUser(ctx context.Context, username string) error {
	_, err := c.client.DeleteUser(ctx, &rpc.DeleteUserRequest{Username: username})
	return mapStatus(err)
}

func (c *AdminClient) Ping(ctx context.Context) error {
	_, err := c.client.Ping(ctx, &rpc.PingRequest{})
	return mapStatus(err)
}

func (c *AdminClient) Close() error {
	return c.conn.Close()
}

func mapStatus(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.PermissionDenied:
		return common.ErrForbidden
	case codes.NotFound:
		return common.ErrNotFound
	case codes.InvalidArgument:
		return common.ErrInvalidInput
	case codes.AlreadyExists:
		return common.ErrUserExists
	default:
		return err
	}
}
