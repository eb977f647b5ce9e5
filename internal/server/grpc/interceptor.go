package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/studiogate/internal/common"
	"github.com/dmitrijs2005/studiogate/internal/rpc"
	"github.com/dmitrijs2005/studiogate/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const principalKey ctxKey = "principal"

// public methods need no access token.
var public = map[string]bool{
	rpc.FullMethod("Login"): true,
	rpc.FullMethod("Ping"):  true,
}

// accessTokenInterceptor admits only the administrator to methods outside
// the public set.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if public[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	p, err := s.auth.PrincipalFromToken(ctx, accessToken)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}
	if !p.IsAdmin() {
		return nil, status.Error(codes.PermissionDenied, "forbidden")
	}

	return handler(context.WithValue(ctx, principalKey, p), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Info(ctx, "rpc", "method", info.FullMethod, "code", status.Code(err).String(), "duration", time.Since(start))
	return resp, err
}

// actor names the caller admitted by accessTokenInterceptor.
func actor(ctx context.Context) string {
	if p, ok := ctx.Value(principalKey).(*services.Principal); ok {
		return p.Username
	}
	return ""
}
