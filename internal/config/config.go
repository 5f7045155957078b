// Package config loads the server configuration from file, environment, and
// defaults, in that order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/preop-assessment-server/internal/domain"
)

// Manager loads and holds the application configuration using Viper
type Manager struct {
	config *domain.Config
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig() error {
	// Set configuration file name and paths
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/preop-assessment-server/")

	// Set environment variable prefix and enable automatic env binding
	viper.SetEnvPrefix("PREOP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	m.setDefaults()

	// Read configuration file (optional - will use defaults and env vars if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using defaults and environment variables
	}

	// Unmarshal configuration into struct
	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// Archive defaults: embedded SQLite unless postgres is configured
	viper.SetDefault("archive.driver", "sqlite")
	viper.SetDefault("archive.sqlite_path", "./data/reports.db")
	viper.SetDefault("archive.host", "localhost")
	viper.SetDefault("archive.port", 5432)
	viper.SetDefault("archive.database", "preop_reports")
	viper.SetDefault("archive.username", "postgres")
	viper.SetDefault("archive.password", "")
	viper.SetDefault("archive.ssl_mode", "disable")
	viper.SetDefault("archive.max_open_conns", 25)
	viper.SetDefault("archive.max_idle_conns", 5)
	viper.SetDefault("archive.conn_max_lifetime", "5m")
	viper.SetDefault("archive.migrations_path", "./migrations")
	viper.SetDefault("archive.cache_size", 128)

	// Notification defaults
	viper.SetDefault("notify.enabled", false)
	viper.SetDefault("notify.endpoint", "")
	viper.SetDefault("notify.timeout", "10s")

	// Rate limit defaults
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests_per_second", 10)
	viper.SetDefault("rate_limit.burst", 20)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetArchiveConfig returns report archive configuration
func (m *Manager) GetArchiveConfig() *domain.ArchiveConfig {
	return &m.config.Archive
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	// Validate server configuration
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	// Validate archive configuration
	switch config.Archive.Driver {
	case "sqlite":
		if config.Archive.SQLitePath == "" {
			return fmt.Errorf("archive sqlite path is required")
		}
	case "postgres":
		if config.Archive.Host == "" {
			return fmt.Errorf("archive host is required")
		}
		if config.Archive.Database == "" {
			return fmt.Errorf("archive database name is required")
		}
		if config.Archive.Username == "" {
			return fmt.Errorf("archive username is required")
		}
	default:
		return fmt.Errorf("invalid archive driver: %s", config.Archive.Driver)
	}

	if config.Archive.CacheSize <= 0 {
		return fmt.Errorf("archive cache size must be positive")
	}

	// Validate notification configuration
	if config.Notify.Enabled && config.Notify.Endpoint == "" {
		return fmt.Errorf("notify endpoint is required when notifications are enabled")
	}

	// Validate rate limit configuration
	if config.RateLimit.Enabled {
		if config.RateLimit.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate limit requests per second must be positive")
		}
		if config.RateLimit.Burst <= 0 {
			return fmt.Errorf("rate limit burst must be positive")
		}
	}

	// Validate logging configuration
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// IsProduction returns true if running in production mode
func (m *Manager) IsProduction() bool {
	return strings.ToLower(viper.GetString("environment")) == "production"
}
