package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preop-assessment-server/internal/domain"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	m, err := NewManager()
	require.NoError(t, err)
	return m
}

func TestNewManagerDefaults(t *testing.T) {
	m := newTestManager(t)
	cfg := m.GetConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Archive.Driver)
	assert.Equal(t, "./data/reports.db", cfg.Archive.SQLitePath)
	assert.Equal(t, 128, cfg.Archive.CacheSize)
	assert.False(t, cfg.Notify.Enabled)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestManagerEnvironmentOverride(t *testing.T) {
	t.Setenv("PREOP_SERVER_PORT", "9090")
	t.Setenv("PREOP_ARCHIVE_DRIVER", "postgres")

	m := newTestManager(t)
	cfg := m.GetConfig()

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Archive.Driver)
}

func TestValidate(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Validate())

	t.Run("Invalid_Port", func(t *testing.T) {
		m.config.Server.Port = 0
		assert.Error(t, m.Validate())
		m.config.Server.Port = 8080
	})

	t.Run("Invalid_Driver", func(t *testing.T) {
		m.config.Archive.Driver = "oracle"
		assert.Error(t, m.Validate())
		m.config.Archive.Driver = "sqlite"
	})

	t.Run("Postgres_Requires_Host", func(t *testing.T) {
		m.config.Archive = domain.ArchiveConfig{Driver: "postgres", CacheSize: 8}
		assert.Error(t, m.Validate())
	})

	t.Run("Notify_Requires_Endpoint", func(t *testing.T) {
		m.config.Archive = domain.ArchiveConfig{Driver: "sqlite", SQLitePath: "x.db", CacheSize: 8}
		m.config.Notify = domain.NotifyConfig{Enabled: true}
		assert.Error(t, m.Validate())
	})

	t.Run("Invalid_Log_Level", func(t *testing.T) {
		m.config.Notify = domain.NotifyConfig{}
		m.config.Logging.Level = "verbose"
		assert.Error(t, m.Validate())
	})
}
