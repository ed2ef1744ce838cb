package common

// AuthorizationHeaderName carries the access token on every protected request.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the only authorization scheme the server accepts.
const BearerScheme = "Bearer"

// Role values stored on identities and embedded in access tokens.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)
