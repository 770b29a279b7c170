// Package config loads the server configuration from a YAML file, .env files
// and environment variables.
//
// Environment variables named in `env` struct tags override file values.
// Before overrides are applied, .env files are loaded: ENV_FILE if set,
// otherwise .env.local followed by .env. Missing files are ignored.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	defaultServiceName     = "portfolio"
	defaultVersion         = "1.0.0"
	defaultPort            = 8080
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 15 * time.Second

	defaultImageWidth = 300

	defaultCookieName = "portfolio_session"
	defaultSessionTTL = 24 * time.Hour

	defaultContactPerMinute = 5
	defaultContactBurst     = 3

	defaultAnalyticsDB       = "portfolio.db"
	defaultRetention         = 365 * 24 * time.Hour
	defaultCleanupSchedule   = "@daily"
	defaultLoggingLevel      = "info"
	defaultLoggingFormat     = "json"
	defaultConfigPath        = "config.yml"
	configPathEnvironmentKey = "CONFIG_PATH"
)

// Config holds the application configuration.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Content   ContentConfig   `yaml:"content"`
	Session   SessionConfig   `yaml:"session"`
	Contact   ContactConfig   `yaml:"contact"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServiceConfig holds HTTP server settings.
type ServiceConfig struct {
	Name            string        `yaml:"name"`
	Version         string        `yaml:"version"`
	Port            int           `env:"PORT"      yaml:"port"`
	Debug           bool          `env:"APP_DEBUG" yaml:"debug"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ContentConfig points at the portfolio content. An empty Path means the
// content compiled into the binary.
type ContentConfig struct {
	Path       string `env:"CONTENT_PATH"        yaml:"path"`
	ImageWidth int    `env:"PROFILE_IMAGE_WIDTH" yaml:"image_width"`
}

// SessionConfig controls where navigation state lives.
type SessionConfig struct {
	CookieName    string        `yaml:"cookie_name"`
	TTL           time.Duration `env:"SESSION_TTL"    yaml:"ttl"`
	Secure        bool          `yaml:"secure"`
	RedisAddress  string        `env:"REDIS_ADDRESS"  yaml:"redis_address"`
	RedisPassword string        `env:"REDIS_PASSWORD" yaml:"redis_password"`
	RedisDB       int           `env:"REDIS_DB"       yaml:"redis_db"`
}

// ContactConfig limits contact form submissions per client IP.
type ContactConfig struct {
	PerMinute int `yaml:"per_minute"`
	Burst     int `yaml:"burst"`
}

// AnalyticsConfig controls optional visitor tracking.
type AnalyticsConfig struct {
	Enabled         bool          `env:"ANALYTICS_ENABLED" yaml:"enabled"`
	DatabasePath    string        `env:"ANALYTICS_DB"      yaml:"database_path"`
	Retention       time.Duration `yaml:"retention"`
	CleanupSchedule string        `yaml:"cleanup_schedule"`
	AdminToken      string        `env:"ADMIN_TOKEN"       yaml:"admin_token"`
	HashSalt        string        `env:"ANALYTICS_SALT"    yaml:"hash_salt"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Path returns the config file path from CONFIG_PATH or the default.
func Path() string {
	if p := os.Getenv(configPathEnvironmentKey); p != "" {
		return p
	}
	return defaultConfigPath
}

// Load reads the YAML file at path, applies defaults and then environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("load environment files: %w", err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	setDefaults(cfg)
	applyEnvOverrides(cfg)

	return cfg, nil
}

func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}

	return nil
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setContentDefaults(&cfg.Content)
	setSessionDefaults(&cfg.Session)
	setContactDefaults(&cfg.Contact)
	setAnalyticsDefaults(&cfg.Analytics)
	setLoggingDefaults(&cfg.Logging)
}

func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultPort
	}
	if svc.ReadTimeout == 0 {
		svc.ReadTimeout = defaultReadTimeout
	}
	if svc.WriteTimeout == 0 {
		svc.WriteTimeout = defaultWriteTimeout
	}
	if svc.IdleTimeout == 0 {
		svc.IdleTimeout = defaultIdleTimeout
	}
	if svc.ShutdownTimeout == 0 {
		svc.ShutdownTimeout = defaultShutdownTimeout
	}
}

func setContentDefaults(c *ContentConfig) {
	if c.ImageWidth == 0 {
		c.ImageWidth = defaultImageWidth
	}
}

func setSessionDefaults(s *SessionConfig) {
	if s.CookieName == "" {
		s.CookieName = defaultCookieName
	}
	if s.TTL == 0 {
		s.TTL = defaultSessionTTL
	}
}

func setContactDefaults(c *ContactConfig) {
	if c.PerMinute == 0 {
		c.PerMinute = defaultContactPerMinute
	}
	if c.Burst == 0 {
		c.Burst = defaultContactBurst
	}
}

func setAnalyticsDefaults(a *AnalyticsConfig) {
	if a.DatabasePath == "" {
		a.DatabasePath = defaultAnalyticsDB
	}
	if a.Retention == 0 {
		a.Retention = defaultRetention
	}
	if a.CleanupSchedule == "" {
		a.CleanupSchedule = defaultCleanupSchedule
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLoggingLevel
	}
	if l.Format == "" {
		l.Format = defaultLoggingFormat
	}
}
