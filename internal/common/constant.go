package common

const (
	// AccessTokenHeaderName is the gRPC metadata key used to carry the
	// access token on admin calls.
	AccessTokenHeaderName = "access_token"

	// AdminUsername is the administrative account that always exists in the
	// credential store.
	AdminUsername = "admin@clingroup.net"
)
