package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "studio.AccountService"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Username      string   `json:"username"`
	Pages         []string `json:"pages"`
	LinkedInPages []string `json:"linkedin_pages"`
	AccessToken   string   `json:"access_token"`
}

type User struct {
	Username      string   `json:"username"`
	Pages         []string `json:"pages"`
	LinkedInPages []string `json:"linkedin_pages"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []User `json:"users"`
}

type CreateUserRequest struct {
	Username      string   `json:"username"`
	Password      string   `json:"password"`
	Pages         []string `json:"pages"`
	LinkedInPages []string `json:"linkedin_pages"`
}

// UpdateUserRequest leaves nil page sets untouched.
type UpdateUserRequest struct {
	Username      string    `json:"username"`
	Password      string    `json:"password,omitempty"`
	Pages         *[]string `json:"pages,omitempty"`
	LinkedInPages *[]string `json:"linkedin_pages,omitempty"`
}

type DeleteUserRequest struct {
	Username string `json:"username"`
}

type Empty struct{}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

// AccountServer is implemented by the server side.
type AccountServer interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	ListUsers(ctx context.Context, req *ListUsersRequest) (*ListUsersResponse, error)
	CreateUser(ctx context.Context, req *CreateUserRequest) (*Empty, error)
	UpdateUser(ctx context.Context, req *UpdateUserRequest) (*Empty, error)
	DeleteUser(ctx context.Context, req *DeleteUserRequest) (*Empty, error)
	Ping(ctx context.Context, req *PingRequest) (*PingResponse, error)
}

// FullMethod returns the grpc method path of method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// ServiceDesc describes AccountService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Login", AccountServer.Login),
		unary("ListUsers", AccountServer.ListUsers),
		unary("CreateUser", AccountServer.CreateUser),
		unary("UpdateUser", AccountServer.UpdateUser),
		unary("DeleteUser", AccountServer.DeleteUser),
		unary("Ping", AccountServer.Ping),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "studio/account",
}

func RegisterAccountServer(s grpc.ServiceRegistrar, srv AccountServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func unary[Req, Resp any](method string, call func(AccountServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AccountServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AccountServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// AccountClient calls AccountService over conn.
type AccountClient struct {
	cc grpc.ClientConnInterface
}

func NewAccountClient(cc grpc.ClientConnInterface) *AccountClient {
	return &AccountClient{cc: cc}
}

func (c *AccountClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	out := new(LoginResponse)
	return out, c.invoke(ctx, "Login", in, out, opts)
}

func (c *AccountClient) ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersResponse, error) {
	out := new(ListUsersResponse)
	return out, c.invoke(ctx, "ListUsers", in, out, opts)
}

func (c *AccountClient) CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	return out, c.invoke(ctx, "CreateUser", in, out, opts)
}

func (c *AccountClient) UpdateUser(ctx context.Context, in *UpdateUserRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	return out, c.invoke(ctx, "UpdateUser", in, out, opts)
}

func (c *AccountClient) DeleteUser(ctx context.Context, in *DeleteUserRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	return out, c.invoke(ctx, "DeleteUser", in, out, opts)
}

func (c *AccountClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	out := new(PingResponse)
	return out, c.invoke(ctx, "Ping", in, out, opts)
}

func (c *AccountClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, FullMethod(method), in, out, opts...)
}
