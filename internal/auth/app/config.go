package app

import (
	"os"
	"strconv"
	"time"

	"github.com/suinership/auth/pkg/jwtx"
)

type Config struct {
	Issuer     string        // Required: issuer claim for tokens
	AccessTTL  time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTTL time.Duration // Optional: refresh token lifetime (default: 168h)

	SigningKeyFile string // Optional: PKCS8 PEM Ed25519 key; an ephemeral key is generated when unset
	DatabaseFile   string // Optional: path to SQLite database file (default: ./auth.db)
	PepperFile     string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	RedisAddr     string // Optional: redis address for the secret store; in-memory fallback when unset
	RedisPassword string // Optional: redis password
	RedisDB       int    // Optional: redis database index

	ResetTokenTTL time.Duration // Optional: password reset token lifetime (default: 10m)
	OTPCodeTTL    time.Duration // Optional: one-time login code lifetime (default: 5m)

	// Federated identity provider. The federated endpoints are only mounted
	// when ClientID is set.
	ProviderName         string
	ProviderClientID     string
	ProviderClientSecret string
	ProviderAuthURL      string
	ProviderTokenURL     string
	ProviderJWKSURL      string
	ProviderRedirectURL  string
	ProviderIssuer       string

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:     getEnvOrDefault("AUTH_ISSUER", "auth-service"),
		AccessTTL:  getEnvDurationOrDefault("AUTH_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL: getEnvDurationOrDefault("AUTH_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),

		SigningKeyFile: os.Getenv("AUTH_SIGNING_KEY_FILE"),
		DatabaseFile:   getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		PepperFile:     getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		RedisAddr:     os.Getenv("AUTH_REDIS_ADDR"),
		RedisPassword: os.Getenv("AUTH_REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("AUTH_REDIS_DB", 0),

		ResetTokenTTL: getEnvDurationOrDefault("AUTH_RESET_TOKEN_TTL", 10*time.Minute),
		OTPCodeTTL:    getEnvDurationOrDefault("AUTH_OTP_CODE_TTL", 5*time.Minute),

		ProviderName:         getEnvOrDefault("AUTH_PROVIDER_NAME", "google"),
		ProviderClientID:     os.Getenv("AUTH_PROVIDER_CLIENT_ID"),
		ProviderClientSecret: os.Getenv("AUTH_PROVIDER_CLIENT_SECRET"),
		ProviderAuthURL:      os.Getenv("AUTH_PROVIDER_AUTH_URL"),
		ProviderTokenURL:     os.Getenv("AUTH_PROVIDER_TOKEN_URL"),
		ProviderJWKSURL:      os.Getenv("AUTH_PROVIDER_JWKS_URL"),
		ProviderRedirectURL:  os.Getenv("AUTH_PROVIDER_REDIRECT_URL"),
		ProviderIssuer:       os.Getenv("AUTH_PROVIDER_ISSUER"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
