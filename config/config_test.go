package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	require.NoError(t, Init(v, ""))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Server.TimeoutWrite)
	assert.Equal(t, ProviderClaude, cfg.Model.Provider)
	assert.Equal(t, 1024, cfg.Model.MaxTokens)
	assert.Equal(t, 6, cfg.Chat.MaxTurns)
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itemo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model:\n  provider: ollama\nchat:\n  max_turns: 4\n"), 0o600))
	t.Setenv("ITEMO_CHAT_MAX_TURNS", "3")
	t.Setenv("ITEMO_AUTH_SECRET", "s3cret")

	v := viper.New()
	require.NoError(t, Init(v, path))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, cfg.Model.Provider)
	assert.Equal(t, 3, cfg.Chat.MaxTurns)
	assert.Equal(t, "s3cret", cfg.Auth.Secret)
	assert.NoError(t, cfg.ValidateServe())
}

func TestInitMissingExplicitFile(t *testing.T) {
	err := Init(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Config{Model: Model{Provider: "gemini", MaxTokens: 1}, Chat: Chat{MaxTurns: 1}}
	assert.Error(t, cfg.Validate())

	cfg.Model.Provider = ProviderOpenAI
	assert.NoError(t, cfg.Validate())

	cfg.Chat.MaxTurns = 0
	assert.Error(t, cfg.Validate())

	assert.Error(t, (&Config{}).ValidateServe())
}

func TestHomeLocation(t *testing.T) {
	at := time.Date(2026, 3, 15, 5, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-15T14:00:00+09:00", at.In(HomeLocation(9)).Format(time.RFC3339))
	assert.Equal(t, "KST", at.In(HomeLocation(9)).Format("MST"))
	assert.Equal(t, "2026-03-15T06:00:00+01:00", at.In(HomeLocation(1)).Format(time.RFC3339))
}
