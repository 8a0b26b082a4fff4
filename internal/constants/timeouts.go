package constants

import "time"

// Server timeouts
const (
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
)

// Auth token lifetimes
const (
	DefaultJWTExpiry        = 15 * time.Minute
	DefaultJWTRefreshExpiry = 7 * 24 * time.Hour
)

// Rate limiting windows for credential-sensitive endpoints
const (
	AuthRateLimitWindow   = 1 * time.Minute
	AuthRateLimitRequests = 10

	// RateLimitCleanupInterval is how often idle limiters are purged.
	RateLimitCleanupInterval = 10 * time.Minute
)

// Background maintenance
const (
	// DBMaintenanceInterval is how often expired reset tokens are purged.
	DBMaintenanceInterval = 1 * time.Hour
)
