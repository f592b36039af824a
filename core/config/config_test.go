package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "catalog_sync", cfg.Database.Name)
	assert.Equal(t, "sync-reports", cfg.Storage.Bucket)
	assert.Equal(t, []string{"default"}, cfg.Source.ScopeList())
	assert.Equal(t, "X-API-Key", cfg.Catalog.ApiKeyHeader)
	assert.Equal(t, 100, cfg.Export.BatchSize)
	assert.Equal(t, 2*time.Second, cfg.Export.PollInterval())
	assert.Equal(t, 150, cfg.Export.MaxPollAttempts)
	assert.Equal(t, 3, cfg.Export.Concurrency)
	assert.True(t, cfg.Export.ArchiveReports)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("SOURCE_SCOPES", "prod,staging")
	t.Setenv("CATALOG_BASE_URL", "https://catalog.internal")
	t.Setenv("EXPORT_BATCH_SIZE", "25")
	t.Setenv("EXPORT_ARCHIVE_REPORTS", "false")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, []string{"prod", "staging"}, cfg.Source.ScopeList())
	assert.Equal(t, "https://catalog.internal", cfg.Catalog.BaseURL)
	assert.Equal(t, 25, cfg.Export.BatchSize)
	assert.False(t, cfg.Export.ArchiveReports)
}
