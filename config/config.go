package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Economy  EconomyConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Channel for cross-instance relationship events; empty disables the bridge.
	EventChannel string
}

type EconomyConfig struct {
	// ChatValidity is how long a paid chat unlock stays renewable before a
	// fresh purchase is required.
	ChatValidity time.Duration
	// DedupWindow is the best-effort suppression window for duplicate
	// activity writes caused by client retries.
	DedupWindow time.Duration
	// DiversityCap is the max distinct costed interaction types per
	// ordered actor->target pair.
	DiversityCap int
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         envOr("PORT", "8088"),
			Env:          envOr("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             envOr("DATABASE_DSN", "wakili:wakili@tcp(localhost:3306)/wakili?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  envOr("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: envOr("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "wakili",
		},
		Redis: RedisConfig{
			Addr:         envOr("REDIS_ADDR", ""),
			Password:     os.Getenv("REDIS_PASSWORD"),
			DB:           envIntOr("REDIS_DB", 0),
			EventChannel: envOr("REDIS_EVENT_CHANNEL", "wakili:events"),
		},
		Economy: EconomyConfig{
			ChatValidity: 90 * 24 * time.Hour,
			DedupWindow:  10 * time.Second,
			DiversityCap: 3,
		},
		Log: LogConfig{
			Level:  envOr("LOG_LEVEL", "info"),
			Format: envOr("LOG_FORMAT", "text"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
