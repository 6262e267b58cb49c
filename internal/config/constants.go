package config

import "time"

// Cipher material sizes (AES-256-CBC)
const (
	CipherKeyBytes = 32
	CipherIVBytes  = 16
)

// Session binding
const (
	SessionTTL = 7 * 24 * time.Hour
)

// Whitelist seeding
const (
	SeedCodeCount = 10
	AccessCodeLen = 12
)

// Chat completion parameters. These are process-wide constants, not
// caller-configurable.
const (
	ChatModel       = "gpt-4o-mini"
	ChatTemperature = 0.7
	ChatMaxTokens   = 2048
	ChatTimeout     = 60 * time.Second
)

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 90 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for startup checks
const DBPingTimeout = 5 * time.Second

// Per-IP limit on code verification attempts
const (
	VerifyRateLimit       = 30
	VerifyRateLimitWindow = time.Minute
)
