package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/daily-work-journal/internal/config"
)

func TestFirstRunWritesTemplate(t *testing.T) {
	t.Setenv(config.EnvDataDir, "")
	dir := t.TempDir()

	cfg, err := config.LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, config.Default(dir), cfg)

	// The written template must decode to the same values.
	again, err := config.LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)

	data, err := os.ReadFile(config.Path(dir))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[outlook]")
	assert.Contains(t, string(data), "[schedule]")
}

func TestPartialFileGetsDefaults(t *testing.T) {
	t.Setenv(config.EnvDataDir, "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(config.Path(dir), []byte(`
backend = "sqlite"
timezone = "Europe/Berlin"

[schedule]
format = "html"
`), 0o600))

	cfg, err := config.LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, config.BackendSQLite, cfg.Backend)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "dwj.db"), cfg.Database())
	assert.Equal(t, config.DefaultClientID, cfg.Outlook.ClientID)
	assert.Equal(t, config.DefaultCron, cfg.Schedule.Cron)
	assert.Equal(t, "html", cfg.Schedule.Format)
}

func TestInvalidBackend(t *testing.T) {
	t.Setenv(config.EnvDataDir, "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(config.Path(dir), []byte(`backend = "postgres"`), 0o600))

	_, err := config.LoadFrom(dir)
	assert.ErrorContains(t, err, "backend")
}

func TestMalformedFile(t *testing.T) {
	t.Setenv(config.EnvDataDir, "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(config.Path(dir), []byte(`backend = `), 0o600))

	_, err := config.LoadFrom(dir)
	assert.ErrorContains(t, err, "delete the file")
}

func TestEnvOverridesDataDir(t *testing.T) {
	dir := t.TempDir()
	override := t.TempDir()
	t.Setenv(config.EnvDataDir, override)
	require.NoError(t, os.WriteFile(config.Path(dir), []byte(`data_dir = "/nowhere"`), 0o600))

	cfg, err := config.LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, override, cfg.DataDir)

	got, err := config.DefaultDataDir()
	require.NoError(t, err)
	assert.Equal(t, override, got)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(config.EnvDataDir, "")
	dir := t.TempDir()
	cfg := config.Default(dir)
	cfg.Backend = config.BackendSQLite
	cfg.LogFile = true
	cfg.Schedule.DateRange = "today"
	require.NoError(t, config.Save(cfg))

	got, err := config.LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
