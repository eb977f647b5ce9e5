package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/studiogate/internal/logging"
	"github.com/dmitrijs2005/studiogate/internal/rpc"
	"github.com/dmitrijs2005/studiogate/internal/server/services"
	"google.golang.org/grpc"
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
	Delete(ctx context.Context, username string) error
}

// GRPCServer serves the account administration service.
type GRPCServer struct {
	address string
	auth    authService
	users   userService
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, as authService, us userService) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		auth:    as,
		users:   us,
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))

	rpc.RegisterAccountServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
