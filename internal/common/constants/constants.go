package constants

import "time"

const (
	UsernameMaxLength  = 254
	PasswordMinLength  = 6
	PasswordMaxLength  = 72
	NameMaxLength      = 100
	JWTSecretMinLength = 32

	TitleMaxLength   = 200
	ContentMaxLength = 100_000

	DefaultMaxRequestSize = 1 << 20

	DBPoolMaxOpenConns    = 25
	DBPoolMinOpenConns    = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort       = "3000"
	DefaultRequestTimeout = 5 * time.Second
	DefaultTokenTTL       = 24 * time.Hour

	RateLimitSigninRequestsPerSecond  = 1.0
	RateLimitSigninBurst              = 5
	RateLimitSignupRequestsPerSecond  = 0.5
	RateLimitSignupBurst              = 3
	RateLimitGeneralRequestsPerSecond = 20.0
	RateLimitGeneralBurst             = 40
	RateLimitCleanupInterval          = 10 * time.Minute

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
