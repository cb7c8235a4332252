package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tcnexs/backend/internal/domain"
)

// DevJWTSecret signs tokens outside production when JWT_SECRET is unset.
const DevJWTSecret = "your-secret-key"

// ErrMissingJWTSecret is returned by Validate in production without JWT_SECRET.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set in production")

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Access    AccessConfig
	RateLimit RateLimitConfig
	Upload    UploadConfig
	Events    EventsConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	CORSOrigin            string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	// JWTSecret is empty when JWT_SECRET was not provided.
	JWTSecret         string
	TokenTTL          time.Duration
	BcryptCost        int
	ProjectWriteRoles []string
}

// AccessConfig tunes authorization behaviour that is a deployment choice.
type AccessConfig struct {
	ProjectListingVisibility string
}

// RateLimitConfig bounds requests per client address.
type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

// UploadConfig controls profile photo storage.
type UploadConfig struct {
	Dir         string
	MaxFileSize int64
}

// EventsConfig configures the optional AMQP forwarder. An empty URL disables it.
type EventsConfig struct {
	AMQPURL  string
	Exchange string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	tokenTTL, err := getEnvAsDuration("JWT_EXPIRES_IN", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	window, err := getEnvAsDuration("RATE_LIMIT_WINDOW", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "tcnexs-backend"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", getEnv("PORT", "3000")),
			Version:               getEnv("APP_VERSION", "1.0.0"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			CORSOrigin:            getEnv("CORS_ORIGIN", "http://localhost:3000"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:         os.Getenv("JWT_SECRET"),
			TokenTTL:          tokenTTL,
			BcryptCost:        getEnvAsInt("AUTH_BCRYPT_COST", 12),
			ProjectWriteRoles: getEnvAsList("AUTH_PROJECT_WRITE_ROLES", []string{"admin"}),
		},
		Access: AccessConfig{
			ProjectListingVisibility: getEnv("PROJECT_LISTING_VISIBILITY", "membership"),
		},
		RateLimit: RateLimitConfig{
			Max:    getEnvAsInt("RATE_LIMIT_MAX", 100),
			Window: window,
		},
		Upload: UploadConfig{
			Dir:         getEnv("UPLOAD_DIR", "uploads"),
			MaxFileSize: int64(getEnvAsInt("MAX_FILE_SIZE", 5<<20)),
		},
		Events: EventsConfig{
			AMQPURL:  os.Getenv("AMQP_URL"),
			Exchange: getEnv("AMQP_EXCHANGE", "tcnexs.events"),
		},
	}

	return cfg, nil
}

// Validate enforces settings the service cannot start without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" && c.App.IsProduction() {
		return ErrMissingJWTSecret
	}
	switch strings.ToLower(c.Access.ProjectListingVisibility) {
	case "", "membership", "membership-restricted", "open":
	default:
		return fmt.Errorf("invalid PROJECT_LISTING_VISIBILITY %q", c.Access.ProjectListingVisibility)
	}
	for _, r := range c.Auth.ProjectWriteRoles {
		if !domain.Role(r).Valid() {
			return fmt.Errorf("invalid AUTH_PROJECT_WRITE_ROLES entry %q", r)
		}
	}
	if c.RateLimit.Max < 0 {
		return fmt.Errorf("invalid RATE_LIMIT_MAX %d", c.RateLimit.Max)
	}
	return nil
}

// SigningSecret returns the configured secret or the development fallback.
func (a AuthConfig) SigningSecret() (secret string, fallback bool) {
	if a.JWTSecret != "" {
		return a.JWTSecret, false
	}
	return DevJWTSecret, true
}

// IsProduction reports whether APP_ENV names a production deployment.
func (a AppConfig) IsProduction() bool {
	env := strings.ToLower(a.Env)
	return env == "production" || env == "prod"
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

// getEnvAsDuration accepts Go durations ("15m") and the day suffix ("7d").
func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback, nil
	}
	if days, ok := strings.CutSuffix(val, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid %s: %q", key, val)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, val)
	}
	return d, nil
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
