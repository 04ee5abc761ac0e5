package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gravity/internal/api"
	"gravity/internal/client"
	"gravity/internal/logger"
	"gravity/internal/relay"
	"gravity/internal/settings"
	"gravity/internal/store"
	"gravity/internal/wizard"
)

type upperCompleter struct{}

func (upperCompleter) Stream(_ context.Context, req relay.Request, onDelta func(string) error) (string, error) {
	text := "key=" + req.APIKey
	return text, onDelta(text)
}

func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "gravity.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	log := logger.NewTestLogger(t)
	gen := relay.NewWithCompleters(map[relay.Provider]relay.Completer{
		relay.ProviderOpenAI:    upperCompleter{},
		relay.ProviderAnthropic: upperCompleter{},
	}, log)
	srv := httptest.NewServer(api.NewRouter(api.NewHandler(store.NewOfferRepository(db, log), gen, log), log, api.RouterConfig{}))
	t.Cleanup(srv.Close)

	out := &bytes.Buffer{}
	return &app{
		settings: settings.NewStore(settings.NewMemoryBackend()),
		offers:   client.New(srv.URL, srv.Client(), log),
		wizard:   wizard.Options{AutosaveDelay: 10 * time.Millisecond, SaveRetries: 1, RetryBackoff: time.Millisecond},
		out:      out,
	}, out
}

func TestSettingsCommands(t *testing.T) {
	a, out := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.run(ctx, []string{"settings", "set-key", "anthropic", "sk-ant-1234567890"}))
	require.NoError(t, a.run(ctx, []string{"settings", "set-provider", "anthropic"}))
	out.Reset()
	require.NoError(t, a.run(ctx, []string{"settings", "show"}))

	assert.Contains(t, out.String(), "provider:      anthropic")
	assert.Contains(t, out.String(), "openai key:    (not set)")
	assert.NotContains(t, out.String(), "sk-ant-1234567890")
	assert.Contains(t, out.String(), "7890")

	assert.Error(t, a.run(ctx, []string{"settings", "set-provider", "mistral"}))
	assert.Error(t, a.run(ctx, []string{"settings", "set-key", "mistral", "k"}))
}

func TestWizardAndOffersCommands(t *testing.T) {
	a, out := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.run(ctx, []string{"wizard", "step", "4"}))
	assert.Contains(t, out.String(), `offer 1 "New Offer" step 4: saved`)

	out.Reset()
	require.NoError(t, a.run(ctx, []string{"wizard", "--id", "1", "set", "title", "Ops Overhaul"}))
	assert.Contains(t, out.String(), `"Ops Overhaul"`)

	assert.Error(t, a.run(ctx, []string{"wizard", "--id", "1", "step", "12"}))
	assert.ErrorIs(t, a.run(ctx, []string{"wizard", "--id", "77", "step", "2"}), wizard.ErrOfferNotFound)

	out.Reset()
	require.NoError(t, a.run(ctx, []string{"offers", "list"}))
	assert.Contains(t, out.String(), "Ops Overhaul")
	assert.Contains(t, out.String(), "draft")
}

func TestGenerateCommand(t *testing.T) {
	a, out := newTestApp(t)
	ctx := context.Background()

	err := a.run(ctx, []string{"generate", "write", "a", "hook"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set-key openai")

	require.NoError(t, a.run(ctx, []string{"settings", "set-key", "openai", "sk-live"}))
	out.Reset()
	require.NoError(t, a.run(ctx, []string{"generate", "write", "a", "hook"}))
	assert.Equal(t, "key=sk-live\n", out.String())
}

func TestRunReturnsCommandErrors(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("APP_ENVIRONMENT", "test")
	t.Setenv("SETTINGS_BACKEND", "memory")

	err := run([]string{"bogus"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "bogus"`)
}
