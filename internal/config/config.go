// Package config loads service settings from defaults, an optional YAML
// file, an optional .env file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultLocations are searched when no config path is given.
var DefaultLocations = []string{"splitbill.yaml", "splitbill.yml", ".splitbill.yaml", ".splitbill.yml"}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	Receipts ReceiptsConfig `yaml:"receipts"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver         string `yaml:"driver"`
	URL            string `yaml:"url"`
	MaxConnections int    `yaml:"max_connections"`
	AutoMigrate    bool   `yaml:"auto_migrate"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
	// Required turns on bearer-token checks for every non-public route.
	Required bool `yaml:"required"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ReceiptsConfig struct {
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:         "sqlite",
			URL:            "./data/splitbill.db",
			MaxConnections: 10,
			AutoMigrate:    true,
		},
		Auth: AuthConfig{
			JWTSecret: "change-me-in-production",
			TokenTTL:  24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Receipts: ReceiptsConfig{
			MaxUploadBytes: 10 << 20,
		},
	}
}

// Load builds the configuration. path names a YAML file; when empty the
// DefaultLocations are tried and a missing file is not an error. Values
// from .env and the environment override the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		for _, loc := range DefaultLocations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var errs []string

	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s=%q: must be a number", key, v))
				return
			}
			*dst = n
		}
	}
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s=%q: must be true or false", key, v))
				return
			}
			*dst = b
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s=%q: must be a duration", key, v))
				return
			}
			*dst = d
		}
	}

	setInt("PORT", &c.Server.Port)
	setDuration("SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout)
	setString("DB_DRIVER", &c.Database.Driver)
	setString("DB_URL", &c.Database.URL)
	setInt("DB_MAX_CONNECTIONS", &c.Database.MaxConnections)
	setBool("DB_AUTO_MIGRATE", &c.Database.AutoMigrate)
	setString("JWT_SECRET", &c.Auth.JWTSecret)
	setDuration("JWT_TTL", &c.Auth.TokenTTL)
	setBool("AUTH_REQUIRED", &c.Auth.Required)
	setString("LOG_LEVEL", &c.Log.Level)
	setString("LOG_FORMAT", &c.Log.Format)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "shutdown timeout must be positive")
	}

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Sprintf("invalid database driver '%s': must be one of [sqlite postgres]", c.Database.Driver))
	}
	if c.Database.URL == "" {
		errs = append(errs, "database URL cannot be empty")
	}
	if c.Database.MaxConnections < 0 {
		errs = append(errs, fmt.Sprintf("invalid max connections %d: must not be negative", c.Database.MaxConnections))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, "JWT secret cannot be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, "token TTL must be positive")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be one of [text json]", c.Log.Format))
	}

	if c.Receipts.MaxUploadBytes <= 0 {
		errs = append(errs, "receipt upload limit must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
