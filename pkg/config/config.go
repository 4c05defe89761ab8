package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/rhobs/agent-tools/pkg/sandbox"
	"github.com/rhobs/agent-tools/pkg/search"
)

const (
	DefaultModel         = "gpt-4o-mini"
	DefaultTemperature   = 0.3
	DefaultMaxIterations = 50
)

// Environment variables read by Load. They take precedence over the TOML file.
const (
	EnvAPIKey        = "OPENAI_API_KEY"
	EnvModel         = "OPENAI_MODEL"
	EnvBaseURL       = "OPENAI_BASE_URL"
	EnvTavilyAPIKey  = "TAVILY_API_KEY"
	EnvSearchBackend = "SEARCH_BACKEND"
	EnvPython        = "PYTHON_BIN"
)

// Config holds the agent configuration
type Config struct {
	Model  ModelConfig    `toml:"model"`
	Agent  AgentConfig    `toml:"agent"`
	Search search.Config  `toml:"search"`
	Python sandbox.Config `toml:"python"`
}

// ModelConfig configures the chat completion client.
type ModelConfig struct {
	// APIKey is only read from the environment. It is not validated here;
	// a missing key surfaces as an authentication error from the API.
	APIKey string `toml:"-"`

	// Name is the model identifier. Default: "gpt-4o-mini"
	Name string `toml:"name,omitempty"`

	// BaseURL points the client at an OpenAI compatible endpoint.
	// Empty uses the official API.
	BaseURL string `toml:"base_url,omitempty"`

	// Temperature is the sampling temperature. Default: 0.3
	Temperature float32 `toml:"temperature,omitempty"`
}

// AgentConfig configures the tool-calling loop.
type AgentConfig struct {
	// MaxIterations bounds the number of model round trips per query.
	// Default: 50
	MaxIterations int `toml:"max_iterations,omitempty"`

	// MCPCommand optionally launches an MCP server over stdio whose tools are
	// offered to the model next to the built-in ones, e.g. ["calculator-mcp"].
	MCPCommand []string `toml:"mcp_command,omitempty"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Name:        DefaultModel,
			Temperature: DefaultTemperature,
		},
		Agent: AgentConfig{
			MaxIterations: DefaultMaxIterations,
		},
	}
}

// LoadDotEnv loads .env style files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("No env file found", "file", f)
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
		slog.Debug("Loaded env file", "file", f)
	}
	return nil
}

// Load builds the configuration from defaults, the optional TOML file at
// path, and the environment, in increasing order of precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		meta, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			slog.Warn("Ignoring unknown config keys", "file", path, "keys", strings.Join(keys, ","))
		}
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAPIKey); ok {
		c.Model.APIKey = v
	}
	if v, ok := lookup(EnvModel); ok && v != "" {
		c.Model.Name = v
	}
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.Model.BaseURL = v
	}
	if v, ok := lookup(EnvTavilyAPIKey); ok {
		c.Search.TavilyAPIKey = v
	}
	if v, ok := lookup(EnvSearchBackend); ok && v != "" {
		c.Search.Backend = v
	}
	if v, ok := lookup(EnvPython); ok && v != "" {
		c.Python.Python = v
	}
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	if c.Model.Name == "" {
		return errors.New("model name must not be empty")
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		return fmt.Errorf("temperature %v out of range [0, 2]", c.Model.Temperature)
	}
	if c.Agent.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", c.Agent.MaxIterations)
	}
	switch c.Search.Backend {
	case "", search.BackendDuckDuckGo, search.BackendTavily:
	default:
		return fmt.Errorf("unknown search backend %q", c.Search.Backend)
	}
	return nil
}
