package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
models:
  default_chat: mini
  definitions:
    mini:
      provider: openai
      model_name: gpt-4o-mini
      api_key: ${TEST_OPENAI_KEY}
      temperature: 0
rakuten:
  app_id: ${TEST_RAKUTEN_ID}
  window_offset: 0
tracing:
  enabled: true
agent:
  search_dispatch: all
  tool_choice: required
app:
  log_format: json
`

func TestParse_ExpandsEnvAndAppliesDefaults(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "sk-test")
	t.Setenv("TEST_RAKUTEN_ID", "app-123")

	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	model, ok := cfg.GetChatModel("")
	require.True(t, ok)
	assert.Equal(t, "sk-test", model.APIKey)
	assert.Equal(t, "gpt-4o-mini", model.ModelName)

	assert.Equal(t, "app-123", cfg.Rakuten.AppID)
	assert.Equal(t, "30s", cfg.Rakuten.Timeout)
	assert.Contains(t, cfg.Rakuten.BaseURL, "IchibaItem/Search/20220601")
	assert.Equal(t, DefaultWindowThreshold, *cfg.Rakuten.WindowThreshold)
	// Явный 0 не должен перетираться дефолтом
	assert.Equal(t, 0, *cfg.Rakuten.WindowOffset)

	assert.Equal(t, []string{"function-calling"}, cfg.Tracing.Tags)
	assert.Equal(t, "all", cfg.Agent.SearchDispatch)
	assert.Equal(t, "all", cfg.Agent.EntryDispatch)
	assert.Equal(t, DefaultRequest, cfg.Agent.Request)
	assert.Equal(t, "required", cfg.Agent.ToolChoice)
	assert.Equal(t, "json", cfg.App.LogFormat)
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing default chat",
			yaml: "models:\n  definitions: {}\n",
		},
		{
			name: "undefined default chat",
			yaml: "models:\n  default_chat: nope\n  definitions: {}\n",
		},
		{
			name: "bad dispatch policy",
			yaml: "models:\n  default_chat: m\n  definitions:\n    m: {provider: openai}\nagent:\n  entry_dispatch: some\n",
		},
		{
			name: "bad tool choice",
			yaml: "models:\n  default_chat: m\n  definitions:\n    m: {provider: openai}\nagent:\n  tool_choice: none\n",
		},
		{
			name: "bad log format",
			yaml: "models:\n  default_chat: m\n  definitions:\n    m: {provider: openai}\napp:\n  log_format: xml\n",
		},
		{
			name: "bad timeout",
			yaml: "models:\n  default_chat: m\n  definitions:\n    m: {provider: openai}\nrakuten:\n  timeout: soon\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestDefault_ReadsEnvironment(t *testing.T) {
	t.Setenv(EnvRakutenAppID, "env-app")
	t.Setenv(EnvOpenAIAPIKey, "env-key")

	cfg := Default()
	require.NoError(t, cfg.validate())

	assert.Equal(t, "env-app", cfg.Rakuten.AppID)
	model, ok := cfg.GetChatModel("")
	require.True(t, ok)
	assert.Equal(t, "env-key", model.APIKey)
	assert.Equal(t, 0.0, model.Temperature)
	assert.Equal(t, "first", cfg.Agent.SearchDispatch)
	assert.Equal(t, "all", cfg.Agent.EntryDispatch)
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.Models.DefaultChat)
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "k")
	t.Setenv("TEST_RAKUTEN_ID", "id")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "id", cfg.Rakuten.AppID)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("RAKUTEN_DOTENV_TEST=from-file\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("RAKUTEN_DOTENV_TEST") })

	require.NoError(t, LoadDotEnv(envPath, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("RAKUTEN_DOTENV_TEST"))
}
