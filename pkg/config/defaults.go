package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "doctortravel"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPostgresDSN             = "host=localhost port=5432 user=postgres password=postgres dbname=doctortravel sslmode=disable"
	DefaultPostgresMaxOpenConns    = 10
	DefaultPostgresMaxIdleConns    = 5
	DefaultPostgresConnMaxLifetime = 30 * time.Minute

	DefaultRedisDB = 0

	DefaultIdentityBaseURL    = "https://identitytoolkit.googleapis.com/v1"
	DefaultBookingFunctionURL = "https://sdayzkpfodzqbpugprwq.supabase.co/functions/v1/send_booking_email"
	DefaultGeocodeFunctionURL = "https://sdayzkpfodzqbpugprwq.functions.supabase.co/geocode-itineraries"
	DefaultRemoteCallTimeout  = 15 * time.Second

	DefaultTwoFactorCodeTTL = 5 * time.Minute
	DefaultEventsTopic      = "travel-events"

	DefaultCodeIssueCooldown    = 60 * time.Second
	DefaultCodeIssueHourlyLimit = 10

	DefaultSessionIdleTimeout = 24 * time.Hour

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)

// Navigation tabs a session can select.
const (
	TabHome      = "home"
	TabFlights   = "flights"
	TabFavorites = "favorites"
	TabProfile   = "profile"
)
