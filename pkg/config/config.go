package config

import (
	"doctortravel/pkg/client"
	"doctortravel/pkg/logger"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	PostgresDSN             string
	PostgresMaxOpenConns    int
	PostgresMaxIdleConns    int
	PostgresConnMaxLifetime time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	IdentityBaseURL string
	IdentityAPIKey  string

	SupabaseAnonKey    string
	BookingFunctionURL string
	GeocodeFunctionURL string
	RemoteCallTimeout  time.Duration

	TwoFactorCodeTTL time.Duration
	EventsTopic      string

	CodeIssueCooldown    time.Duration
	CodeIssueHourlyLimit int

	SessionIdleTimeout time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

// Load reads a .env file when present, then the process environment.
// Invalid configuration is fatal.
func Load(serviceName string) *Config {
	envFileErr := godotenv.Load()

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		PostgresDSN:             getEnvStr(EnvPostgresDSN, DefaultPostgresDSN),
		PostgresMaxOpenConns:    getEnvNum(EnvPostgresMaxOpenConns, DefaultPostgresMaxOpenConns),
		PostgresMaxIdleConns:    getEnvNum(EnvPostgresMaxIdleConns, DefaultPostgresMaxIdleConns),
		PostgresConnMaxLifetime: getEnvDuration(EnvPostgresConnMaxLifetime, DefaultPostgresConnMaxLifetime),

		RedisAddr:     getEnvStr(EnvRedisAddr, ""),
		RedisPassword: getEnvStr(EnvRedisPassword, ""),
		RedisDB:       getEnvNum(EnvRedisDB, DefaultRedisDB),

		IdentityBaseURL: getEnvStr(EnvIdentityBaseURL, DefaultIdentityBaseURL),
		IdentityAPIKey:  getEnvStr(EnvIdentityAPIKey, ""),

		SupabaseAnonKey:    getEnvStr(EnvSupabaseAnonKey, ""),
		BookingFunctionURL: getEnvStr(EnvBookingFunctionURL, DefaultBookingFunctionURL),
		GeocodeFunctionURL: getEnvStr(EnvGeocodeFunctionURL, DefaultGeocodeFunctionURL),
		RemoteCallTimeout:  getEnvDuration(EnvRemoteCallTimeout, DefaultRemoteCallTimeout),

		TwoFactorCodeTTL: getEnvDuration(EnvTwoFactorCodeTTL, DefaultTwoFactorCodeTTL),
		EventsTopic:      getEnvStr(EnvEventsTopic, DefaultEventsTopic),

		CodeIssueCooldown:    getEnvDuration(EnvCodeIssueCooldown, DefaultCodeIssueCooldown),
		CodeIssueHourlyLimit: getEnvNum(EnvCodeIssueHourlyLimit, DefaultCodeIssueHourlyLimit),

		SessionIdleTimeout: getEnvDuration(EnvSessionIdleTimeout, DefaultSessionIdleTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if envFileErr != nil {
		cfg.Log.Debug("No .env file loaded, using process environment", "error", envFileErr)
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetPostgres() {
	cfg.Client.SetPostgres(cfg.Log, client.PostgresOptions{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.PostgresMaxOpenConns,
		MaxIdleConns:    cfg.PostgresMaxIdleConns,
		ConnMaxLifetime: cfg.PostgresConnMaxLifetime,
	})
}

// SetRedis connects only when REDIS_ADDR is configured; Redis is optional.
func (cfg *Config) SetRedis() {
	if cfg.RedisAddr == "" {
		cfg.Log.Info("Redis not configured, using in-memory idempotency and throttle stores")
		return
	}
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if cfg.PostgresDSN == "" {
		errors = append(errors, "PostgresDSN cannot be empty")
	}
	if cfg.PostgresMaxOpenConns <= 0 {
		errors = append(errors, fmt.Sprintf("PostgresMaxOpenConns must be positive, got: %d", cfg.PostgresMaxOpenConns))
	}
	if cfg.PostgresMaxIdleConns < 0 || cfg.PostgresMaxIdleConns > cfg.PostgresMaxOpenConns {
		errors = append(errors, fmt.Sprintf("PostgresMaxIdleConns must be between 0 and PostgresMaxOpenConns (%d), got: %d", cfg.PostgresMaxOpenConns, cfg.PostgresMaxIdleConns))
	}
	if cfg.RedisDB < 0 {
		errors = append(errors, fmt.Sprintf("RedisDB cannot be negative, got: %d", cfg.RedisDB))
	}

	for name, raw := range map[string]string{
		"IdentityBaseURL":    cfg.IdentityBaseURL,
		"BookingFunctionURL": cfg.BookingFunctionURL,
		"GeocodeFunctionURL": cfg.GeocodeFunctionURL,
	} {
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, fmt.Sprintf("%s must be an absolute URL, got: %s", name, raw))
		}
	}

	if cfg.TwoFactorCodeTTL <= 0 {
		errors = append(errors, fmt.Sprintf("TwoFactorCodeTTL must be positive, got: %s", cfg.TwoFactorCodeTTL))
	}
	if cfg.EventsTopic == "" {
		errors = append(errors, "EventsTopic cannot be empty")
	}
	if cfg.CodeIssueCooldown < 0 {
		errors = append(errors, fmt.Sprintf("CodeIssueCooldown cannot be negative, got: %s", cfg.CodeIssueCooldown))
	}
	if cfg.CodeIssueHourlyLimit <= 0 {
		errors = append(errors, fmt.Sprintf("CodeIssueHourlyLimit must be positive, got: %d", cfg.CodeIssueHourlyLimit))
	}
	if cfg.SessionIdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("SessionIdleTimeout must be positive, got: %s", cfg.SessionIdleTimeout))
	}
	if cfg.RemoteCallTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RemoteCallTimeout must be positive, got: %s", cfg.RemoteCallTimeout))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}
	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"postgres_dsn", redactPostgresDSN(cfg.PostgresDSN),
		"postgres_max_open_conns", cfg.PostgresMaxOpenConns,
		"postgres_max_idle_conns", cfg.PostgresMaxIdleConns,
		"postgres_conn_max_lifetime", cfg.PostgresConnMaxLifetime,
		"redis_enabled", cfg.RedisAddr != "",
		"identity_base_url", cfg.IdentityBaseURL,
		"identity_api_key_set", cfg.IdentityAPIKey != "",
		"supabase_anon_key_set", cfg.SupabaseAnonKey != "",
		"booking_function_url", cfg.BookingFunctionURL,
		"geocode_function_url", cfg.GeocodeFunctionURL,
		"remote_call_timeout", cfg.RemoteCallTimeout,
		"two_factor_code_ttl", cfg.TwoFactorCodeTTL,
		"events_topic", cfg.EventsTopic,
		"code_issue_cooldown", cfg.CodeIssueCooldown,
		"code_issue_hourly_limit", cfg.CodeIssueHourlyLimit,
		"session_idle_timeout", cfg.SessionIdleTimeout,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func redactPostgresDSN(dsn string) string {
	passwordRegex := regexp.MustCompile(`(password=)\S+`)
	dsn = passwordRegex.ReplaceAllString(dsn, "${1}***")
	urlRegex := regexp.MustCompile(`(postgres(ql)?://[^:]+:)[^@]+@`)
	return urlRegex.ReplaceAllString(dsn, "${1}***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func IsValidTab(tab string) bool {
	switch tab {
	case TabHome, TabFlights, TabFavorites, TabProfile:
		return true
	}
	return false
}
