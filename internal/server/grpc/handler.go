package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/studiogate/internal/common"
	"github.com/dmitrijs2005/studiogate/internal/rpc"
	"github.com/dmitrijs2005/studiogate/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {

	p, err := s.auth.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}

	token, err := s.auth.IssueToken(p)
	if err != nil {
		s.logger.Error(ctx, "error issuing token", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &rpc.LoginResponse{
		Username:      p.Username,
		Pages:         p.Pages,
		LinkedInPages: p.LinkedInPages,
		AccessToken:   token,
	}, nil
}

func (s *GRPCServer) ListUsers(ctx context.Context, _ *rpc.ListUsersRequest) (*rpc.ListUsersResponse, error) {

	views, err := s.users.List(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &rpc.ListUsersResponse{Users: make([]rpc.User, 0, len(views))}
	for _, v := range views {
		resp.Users = append(resp.Users, rpc.User{Username: v.Username, Pages: v.Pages, LinkedInPages: v.LinkedInPages})
	}
	return resp, nil
}

func (s *GRPCServer) CreateUser(ctx context.Context, req *rpc.CreateUserRequest) (*rpc.Empty, error) {

	err := s.users.Create(ctx, services.CreateUserInput{
		Username:      req.Username,
		Password:      req.Password,
		Pages:         req.Pages,
		LinkedInPages: req.LinkedInPages,
	})
	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "user created", "username", req.Username, "by", actor(ctx))
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) UpdateUser(ctx context.Context, req *rpc.UpdateUserRequest) (*rpc.Empty, error) {

	err := s.users.Update(ctx, services.UpdateUserInput{
		Username:      req.Username,
		Password:      req.Password,
		Pages:         req.Pages,
		LinkedInPages: req.LinkedInPages,
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return &rpc.Empty{}, nil
}

func (s *GRPCServer) DeleteUser(ctx context.Context, req *rpc.DeleteUserRequest) (*rpc.Empty, error) {

	if err := s.users.Delete(ctx, req.Username); err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "user deleted", "username", req.Username, "by", actor(ctx))
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *rpc.PingRequest) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "OK"}, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, "Invalid credentials")
	case errors.Is(err, common.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, "Invalid data")
	case errors.Is(err, common.ErrUserExists):
		return status.Error(codes.AlreadyExists, "User exists")
	case errors.Is(err, common.ErrNotFound):
		return status.Error(codes.NotFound, "User not found")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
