package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config holds the process-wide settings. It is built once at startup and
// treated as read-only afterwards.
type Config struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
	JWT     JWTConfig
	Tags    TagsConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port           int
	AllowedOrigins []string
	FrontendURL    string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type JWTConfig struct {
	Secret   string
	TokenTTL time.Duration
}

type TagsConfig struct {
	// RequireAuth puts the global rename/delete tag routes behind authentication.
	RequireAuth bool
}

type LogConfig struct {
	Level zerolog.Level
}

var (
	ErrMissingMongoURI  = errors.New("MONGO_URI environment variable not set")
	ErrMissingJWTSecret = errors.New("JWT_SECRET environment variable not set")
	ErrInvalidTimeout   = errors.New("MONGO_TIMEOUT_SECONDS must be positive")
)

// Load reads and validates the configuration.
func Load() (*Config, error) {
	cfg := Read()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read builds a Config from the environment, after loading a .env file when
// one is present. Nothing is validated.
func Read() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 8080)
	v.SetDefault("MONGO_DATABASE", "sharemark")
	v.SetDefault("MONGO_TIMEOUT_SECONDS", 10)
	v.SetDefault("JWT_TTL_HOURS", 24)
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TAG_ADMIN_REQUIRE_AUTH", false)

	port := v.GetInt("PORT")
	if port <= 0 {
		port = 8080
	}

	level, err := zerolog.ParseLevel(strings.ToLower(v.GetString("LOG_LEVEL")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return &Config{
		Server: ServerConfig{
			Port:           port,
			AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
			FrontendURL:    strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    time.Minute,
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGO_TIMEOUT_SECONDS")) * time.Second,
		},
		JWT: JWTConfig{
			Secret:   v.GetString("JWT_SECRET"),
			TokenTTL: time.Duration(v.GetInt("JWT_TTL_HOURS")) * time.Hour,
		},
		Tags: TagsConfig{
			RequireAuth: v.GetBool("TAG_ADMIN_REQUIRE_AUTH"),
		},
		Log: LogConfig{
			Level: level,
		},
	}
}

// Validate checks the settings without which the server must not start.
func (c *Config) Validate() error {
	if c.MongoDB.URI == "" {
		return ErrMissingMongoURI
	}
	if c.JWT.Secret == "" {
		return ErrMissingJWTSecret
	}
	if c.MongoDB.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
