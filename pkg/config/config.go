package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database      DatabaseConfig
	Redis         RedisConfig
	JWT           JWTConfig
	CORS          CORSConfig
	Log           LogConfig
	Cal           CalConfig
	Streams       StreamsConfig
	Pagination    PaginationConfig
	Notifications NotificationsConfig
	Exports       ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds what is needed to verify access tokens issued by the
// external auth provider. Token issuance is not this service's job.
type JWTConfig struct {
	Secret string
	Issuer string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CalConfig points at the public scheduling provider used for booking links.
type CalConfig struct {
	BaseURL string
}

// StreamsConfig tunes the live-query layer: LISTEN/NOTIFY wake-ups with a
// polling fallback, and the transient-failure retry policy.
type StreamsConfig struct {
	PollInterval  time.Duration
	RetryAttempts int
	RetryBase     time.Duration
	RetryCap      time.Duration
}

// PaginationConfig carries listing defaults and the hard page-size ceiling.
type PaginationConfig struct {
	RequestPageSize   int
	DirectoryPageSize int
	MaxPageSize       int
}

// NotificationsConfig tunes the async status-change notification dispatcher.
type NotificationsConfig struct {
	Enabled   bool
	Workers   int
	Buffer    int
	Retention int
}

// ExportsConfig gates the request-history export endpoints and their on-disk
// archive of rendered files.
type ExportsConfig struct {
	Enabled  bool
	Dir      string
	TokenTTL time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
		Issuer: v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cal = CalConfig{BaseURL: v.GetString("CAL_BASE_URL")}

	cfg.Streams = StreamsConfig{
		PollInterval:  parseDuration(v.GetString("STREAM_POLL_INTERVAL"), 30*time.Second),
		RetryAttempts: v.GetInt("STREAM_RETRY_ATTEMPTS"),
		RetryBase:     parseDuration(v.GetString("STREAM_RETRY_BASE"), 500*time.Millisecond),
		RetryCap:      parseDuration(v.GetString("STREAM_RETRY_CAP"), 5*time.Second),
	}

	cfg.Pagination = PaginationConfig{
		RequestPageSize:   v.GetInt("PAGINATION_REQUEST_PAGE_SIZE"),
		DirectoryPageSize: v.GetInt("PAGINATION_DIRECTORY_PAGE_SIZE"),
		MaxPageSize:       v.GetInt("PAGINATION_MAX_PAGE_SIZE"),
	}

	cfg.Notifications = NotificationsConfig{
		Enabled:   v.GetBool("ENABLE_NOTIFICATIONS"),
		Workers:   v.GetInt("NOTIFICATIONS_WORKERS"),
		Buffer:    v.GetInt("NOTIFICATIONS_BUFFER"),
		Retention: v.GetInt("NOTIFICATIONS_RETENTION"),
	}

	cfg.Exports = ExportsConfig{
		Enabled:  v.GetBool("ENABLE_EXPORTS"),
		Dir:      v.GetString("EXPORTS_DIR"),
		TokenTTL: parseDuration(v.GetString("EXPORTS_TOKEN_TTL"), 24*time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "mentorlink")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "mentorlink-auth")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CAL_BASE_URL", "https://cal.com")

	v.SetDefault("STREAM_POLL_INTERVAL", "30s")
	v.SetDefault("STREAM_RETRY_ATTEMPTS", 3)
	v.SetDefault("STREAM_RETRY_BASE", "500ms")
	v.SetDefault("STREAM_RETRY_CAP", "5s")

	v.SetDefault("PAGINATION_REQUEST_PAGE_SIZE", 10)
	v.SetDefault("PAGINATION_DIRECTORY_PAGE_SIZE", 12)
	v.SetDefault("PAGINATION_MAX_PAGE_SIZE", 50)

	v.SetDefault("ENABLE_NOTIFICATIONS", true)
	v.SetDefault("NOTIFICATIONS_WORKERS", 2)
	v.SetDefault("NOTIFICATIONS_BUFFER", 64)
	v.SetDefault("NOTIFICATIONS_RETENTION", 100)

	v.SetDefault("ENABLE_EXPORTS", true)
	v.SetDefault("EXPORTS_DIR", "./exports")
	v.SetDefault("EXPORTS_TOKEN_TTL", "24h")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
