// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Auth providers accepted by AUTH_PROVIDER.
const (
	AuthProviderJWT      = "jwt"
	AuthProviderFirebase = "firebase"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:3000"] (web client dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// MigrateOnStart applies pending goose migrations before serving. Defaults to true.
	MigrateOnStart bool

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	Auth     AuthConfig
	Search   SearchConfig
	Routing  RoutingConfig
	Upstream UpstreamConfig
}

// AuthConfig selects and configures the token verifier.
type AuthConfig struct {
	// Provider is "jwt" (default) or "firebase".
	Provider string

	// JWTSecret signs HS256 session tokens. Required when Provider is "jwt".
	JWTSecret string

	// JWTIssuer, when set, must match the iss claim.
	JWTIssuer string

	// CookieName is the session cookie checked when no Authorization header
	// is sent. Defaults to "session".
	CookieName string

	// FirebaseProjectID is required when Provider is "firebase".
	FirebaseProjectID string

	// FirebaseCredentialsFile is a service account JSON path. Empty uses
	// Application Default Credentials.
	FirebaseCredentialsFile string
}

// SearchConfig configures the geocoding proxy.
type SearchConfig struct {
	// MapTilerKey is the geocoding API key. Empty makes /api/search answer 500.
	MapTilerKey string
	BaseURL     string
	Language    string

	// RedisURL enables the result cache when set.
	RedisURL string
	CacheTTL time.Duration
}

// RoutingConfig configures the directions proxy.
type RoutingConfig struct {
	// ORSKey is the OpenRouteService key. Empty makes /api/directions answer 500.
	ORSKey  string
	BaseURL string
	Profile string
}

// UpstreamConfig bounds calls to external services and the public proxies.
type UpstreamConfig struct {
	Timeout           time.Duration
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set and any
// values that could not be parsed.
func Load() (Config, error) {
	var p parser

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		MigrateOnStart: p.getBool("MIGRATE_ON_START", true),
		MaxBodyBytes:   int64(p.getInt("MAX_BODY_BYTES", 1<<20)),
		Auth: AuthConfig{
			Provider:                strings.ToLower(getEnv("AUTH_PROVIDER", AuthProviderJWT)),
			JWTSecret:               os.Getenv("AUTH_JWT_SECRET"),
			JWTIssuer:               os.Getenv("AUTH_JWT_ISSUER"),
			CookieName:              getEnv("AUTH_COOKIE_NAME", "session"),
			FirebaseProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
			FirebaseCredentialsFile: os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"),
		},
		Search: SearchConfig{
			MapTilerKey: os.Getenv("MAPTILER_KEY"),
			BaseURL:     getEnv("MAPTILER_BASE_URL", "https://api.maptiler.com"),
			Language:    getEnv("SEARCH_LANGUAGE", "vi"),
			RedisURL:    os.Getenv("REDIS_URL"),
			CacheTTL:    p.getDuration("SEARCH_CACHE_TTL", 24*time.Hour),
		},
		Routing: RoutingConfig{
			ORSKey:  os.Getenv("OPEN_ROUTE_SERVICE_KEY"),
			BaseURL: getEnv("ORS_BASE_URL", "https://api.openrouteservice.org"),
			Profile: getEnv("ORS_PROFILE", "cycling-regular"),
		},
		Upstream: UpstreamConfig{
			Timeout:           p.getDuration("UPSTREAM_TIMEOUT", 10*time.Second),
			RateLimitRequests: p.getInt("RATE_LIMIT_REQUESTS", 60),
			RateLimitWindow:   p.getDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	switch cfg.Auth.Provider {
	case AuthProviderJWT:
		if cfg.Auth.JWTSecret == "" {
			missing = append(missing, "AUTH_JWT_SECRET")
		}
	case AuthProviderFirebase:
		if cfg.Auth.FirebaseProjectID == "" {
			missing = append(missing, "FIREBASE_PROJECT_ID")
		}
	default:
		p.invalid = append(p.invalid, "AUTH_PROVIDER")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	if len(p.invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(p.invalid, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// parser reads typed variables and remembers the names of unparseable ones.
type parser struct {
	invalid []string
}

func (p *parser) getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return d
}

func (p *parser) getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return n
}

func (p *parser) getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return b
}
