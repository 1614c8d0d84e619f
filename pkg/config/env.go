package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPostgresDSN             = "POSTGRES_DSN"
	EnvPostgresMaxOpenConns    = "POSTGRES_MAX_OPEN_CONNS"
	EnvPostgresMaxIdleConns    = "POSTGRES_MAX_IDLE_CONNS"
	EnvPostgresConnMaxLifetime = "POSTGRES_CONN_MAX_LIFETIME"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvIdentityBaseURL = "IDENTITY_BASE_URL"
	EnvIdentityAPIKey  = "IDENTITY_API_KEY"

	EnvSupabaseAnonKey    = "SUPABASE_ANON_KEY"
	EnvBookingFunctionURL = "BOOKING_FUNCTION_URL"
	EnvGeocodeFunctionURL = "GEOCODE_FUNCTION_URL"
	EnvRemoteCallTimeout  = "REMOTE_CALL_TIMEOUT"

	EnvTwoFactorCodeTTL = "TWO_FACTOR_CODE_TTL"
	EnvEventsTopic      = "EVENTS_TOPIC"

	EnvCodeIssueCooldown    = "CODE_ISSUE_COOLDOWN"
	EnvCodeIssueHourlyLimit = "CODE_ISSUE_HOURLY_LIMIT"

	EnvSessionIdleTimeout = "SESSION_IDLE_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
