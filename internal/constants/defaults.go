// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the application.
// These constants provide sensible defaults for configuration settings, establish
// boundaries for resource usage, and define security parameters. Changes to these
// values may significantly impact application behavior, performance, and security.
package constants

import "time"

// Default Pagination Values define the parameters used for paginated responses.
const (
	// DefaultPage is the default page number for paginated results when not specified.
	DefaultPage = 1

	// DefaultPageSize is the default number of items per page when not specified.
	DefaultPageSize = 20

	// MaxPageSize is the maximum allowable page size to prevent excessive resource usage.
	MaxPageSize = 100

	// MinPageSize is the minimum allowable page size.
	MinPageSize = 1
)

// Default Configuration Values define fallback settings when not specified in configuration.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultDBMaxConnections is the default maximum number of database connections.
	DefaultDBMaxConnections = 20

	// DefaultDBMinConnections is the default minimum number of database connections.
	DefaultDBMinConnections = 5

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default logging output format.
	DefaultLogFormat = "json"

	// DefaultUploadDir is the directory where uploaded book covers are stored.
	DefaultUploadDir = "uploads/books"

	// MaxLoggedQueryLength is the longest SQL text recorded in a query log entry.
	MaxLoggedQueryLength = 500
)

// Environment Types define the recognized application running environments.
const (
	// EnvDevelopment identifies a development environment with debugging features enabled.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment with optimized settings.
	EnvProduction = "production"
)

// File Size Limits define the maximum allowed sizes for various uploads.
const (
	// MaxRequestBodySize is the maximum size in bytes for HTTP request bodies.
	MaxRequestBodySize = 1048576 // 1MB in bytes

	// MaxCoverImageSize is the maximum size in bytes for uploaded cover images.
	MaxCoverImageSize = 5 * 1048576
)

// Password Reset Values define the token lifecycle parameters.
const (
	// PasswordResetTokenDuration is how long a reset token stays valid after issuance.
	PasswordResetTokenDuration = 1 * time.Hour

	// PasswordResetTokenBytes is the number of random bytes in a reset token.
	PasswordResetTokenBytes = 32
)

// Cache Values define the page cache behavior for paginated catalog reads.
const (
	// DefaultCacheTTL is how long cached listing pages stay fresh.
	DefaultCacheTTL = 5 * time.Minute

	// CachePrefixBooks is the key prefix for cached book listing pages.
	CachePrefixBooks = "books"

	// CachePrefixAuthors is the key prefix for cached author listing pages.
	CachePrefixAuthors = "authors"

	// CachePrefixCategories is the key prefix for cached category listing pages.
	CachePrefixCategories = "categories"
)

// Default Password Hash Settings define the parameters for password hashing.
const (
	// DefaultPasswordHashMemory is the memory cost parameter for Argon2id hashing.
	DefaultPasswordHashMemory = 64 * 1024

	// DefaultPasswordHashIterations is the number of iterations for Argon2id hashing.
	DefaultPasswordHashIterations = 3

	// DefaultPasswordHashParallelism is the parallelism parameter for Argon2id hashing.
	DefaultPasswordHashParallelism = 2

	// DefaultPasswordHashSaltLength is the length in bytes of the random salt.
	DefaultPasswordHashSaltLength = 16

	// DefaultPasswordHashKeyLength is the length in bytes of the generated hash.
	DefaultPasswordHashKeyLength = 32

	// DevPasswordHashMemory is a reduced memory setting for development environments.
	DevPasswordHashMemory = 16 * 1024

	// DevPasswordHashIterations is a reduced iteration count for development environments.
	DevPasswordHashIterations = 1
)

// Auth Constants define values related to token and cookie management.
const (
	// DefaultJWTIssuer is the issuer claim value for JWT tokens.
	DefaultJWTIssuer = "bookstore-api"

	// BearerTokenPrefix is the prefix for Authorization header bearer tokens.
	BearerTokenPrefix = "Bearer "

	// AuthTokenCookie is the cookie holding the access token for browser sessions.
	AuthTokenCookie = "auth_token"

	// PriorURLCookie remembers the page that triggered a login redirect.
	PriorURLCookie = "url_prior_login"
)

// Seeded Roles define the role names created at first startup.
const (
	// RoleUser is the default role granted to every registered account.
	RoleUser = "ROLE_USER"

	// RoleAdmin grants create/edit/delete access to the catalog.
	RoleAdmin = "ROLE_ADMIN"

	// RoleBookAuthor marks accounts belonging to published authors.
	RoleBookAuthor = "ROLE_BOOK_AUTHOR"

	// RoleBookWriter marks accounts with draft-writing access.
	RoleBookWriter = "ROLE_BOOK_WRITER"
)
