package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvAPIKey, EnvModel, EnvBaseURL, EnvTavilyAPIKey, EnvSearchBackend, EnvPython} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.Model.Name)
	assert.InDelta(t, 0.3, cfg.Model.Temperature, 1e-6)
	assert.Equal(t, 50, cfg.Agent.MaxIterations)
	assert.Empty(t, cfg.Model.APIKey)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "agent.toml", `
[model]
name = "gpt-4o"
temperature = 0.7

[agent]
max_iterations = 10
mcp_command = ["calculator-mcp", "--log-level", "debug"]

[search]
backend = "duckduckgo"
max_results = 3
timeout = "5s"

[python]
python = "/usr/bin/python3"
timeout = "10s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", cfg.Model.Name)
	assert.InDelta(t, 0.7, cfg.Model.Temperature, 1e-6)
	assert.Equal(t, 10, cfg.Agent.MaxIterations)
	assert.Equal(t, []string{"calculator-mcp", "--log-level", "debug"}, cfg.Agent.MCPCommand)
	assert.Equal(t, 3, cfg.Search.MaxResults)
	assert.Equal(t, 5*time.Second, cfg.Search.Timeout)
	assert.Equal(t, "/usr/bin/python3", cfg.Python.Python)
	assert.Equal(t, 10*time.Second, cfg.Python.Timeout)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIKey, "sk-test")
	t.Setenv(EnvModel, "gpt-4.1")
	t.Setenv(EnvTavilyAPIKey, "tvly-test")

	path := writeFile(t, "agent.toml", "[model]\nname = \"gpt-4o\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.Model.APIKey)
	assert.Equal(t, "gpt-4.1", cfg.Model.Name)
	assert.Equal(t, "tvly-test", cfg.Search.TavilyAPIKey)
}

func TestEmptyModelEnvKeepsDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvModel, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, cfg.Model.Name)
}

func TestLoadInvalid(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		content string
	}{
		{name: "syntax", content: "[model\nname="},
		{name: "iterations", content: "[agent]\nmax_iterations = -1\n"},
		{name: "temperature", content: "[model]\ntemperature = 3.5\n"},
		{name: "backend", content: "[search]\nbackend = \"altavista\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "bad.toml", tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvModel, "already-set")

	path := writeFile(t, ".env", "OPENAI_API_KEY=sk-from-file\nOPENAI_MODEL=from-file\n")

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "absent.env")))
	t.Cleanup(func() { _ = os.Unsetenv(EnvAPIKey) })

	assert.Equal(t, "sk-from-file", os.Getenv(EnvAPIKey))
	assert.Equal(t, "already-set", os.Getenv(EnvModel))
}
