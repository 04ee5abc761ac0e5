package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	return dir
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("APP_ENVIRONMENT", "test")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "gravity", cfg.App.Name)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "gravity.db", cfg.Database.Path)
	assert.Equal(t, "gpt-4o", cfg.LLM.OpenAI.Model)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.LLM.Anthropic.Model)
	assert.Equal(t, 4096, cfg.LLM.MaxTokens)
	assert.Equal(t, time.Second, GetDuration(cfg.Wizard.AutosaveDelayMs))
	assert.Equal(t, 3, cfg.Wizard.SaveRetries)
	assert.Equal(t, SettingsBackendFile, cfg.Settings.Backend)
	assert.Equal(t, filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "gravity", "settings.json"), cfg.Settings.Path)
}

func TestLoadFileAndEnvironmentOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("APP_ENVIRONMENT", "staging")
	dir := writeConfig(t, "config.yaml", `
server:
  port: 9090
wizard:
  autosave_delay_ms: 250
llm:
  openai:
    model: gpt-4o-mini
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.staging.yaml"), []byte("logging:\n  level: debug\n"), 0o644))
	t.Setenv("DATABASE_URL", "postgres://gravity@localhost/gravity")
	t.Setenv("WIZARD_SAVE_RETRIES", "5")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 250, cfg.Wizard.AutosaveDelayMs)
	assert.Equal(t, 5, cfg.Wizard.SaveRetries)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.OpenAI.Model)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://gravity@localhost/gravity", cfg.Database.GetDSN())
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SETTINGS_BACKEND", "etcd")

	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings.backend")
}

func TestLoadRequiresRedisAddress(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SETTINGS_BACKEND", "redis")

	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings.redis.address")
}

func TestGetDSNFromParts(t *testing.T) {
	d := DatabaseConfig{Postgres: PostgresConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", Database: "gravity", SSLMode: "disable",
	}}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=gravity sslmode=disable", d.GetDSN())
}
