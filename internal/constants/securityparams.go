package constants

// Context Key Names
const (
	UserIDContextKey    = "user_id"
	UsernameContextKey  = "username"
	EmailContextKey     = "email"
	RolesContextKey     = "roles"
	RequestIDContextKey = "request_id"
)

// Auth Token Types
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Field Validation
const (
	MinPasswordLength = 8
	MinUsernameLength = 3
	MaxUsernameLength = 20
	MinNameLength     = 3
	MaxNameLength     = 20
	MaxEmailLength    = 255
	PasswordSymbolSet = "@#$%^&+="
)
