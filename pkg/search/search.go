// Package search provides web search backends for the web_search tool. Every
// backend satisfies langchaingo's tools.Tool so it can be dropped into any
// langchaingo agent as well.
package search

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/tools"
	"github.com/tmc/langchaingo/tools/duckduckgo"
)

const (
	BackendDuckDuckGo = "duckduckgo"
	BackendTavily     = "tavily"

	defaultMaxResults = 5
	defaultTimeout    = 15 * time.Second
)

// Config selects and configures a search backend.
type Config struct {
	// Backend is "duckduckgo", "tavily" or empty. Empty picks tavily when a
	// Tavily API key is present and duckduckgo otherwise.
	Backend      string        `toml:"backend"`
	MaxResults   int           `toml:"max_results"`
	Timeout      time.Duration `toml:"timeout"`
	TavilyAPIKey string        `toml:"-"`
	// TavilyBaseURL overrides the Tavily endpoint, mostly for tests.
	TavilyBaseURL string `toml:"tavily_base_url"`
}

// New returns the backend described by cfg.
func New(cfg Config) (tools.Tool, error) {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}

	backend := cfg.Backend
	if backend == "" {
		backend = BackendDuckDuckGo
		if cfg.TavilyAPIKey != "" {
			backend = BackendTavily
		}
	}

	slog.Debug("Configuring web search backend", "backend", backend, "max_results", cfg.MaxResults)

	switch backend {
	case BackendDuckDuckGo:
		ddg, err := duckduckgo.New(cfg.MaxResults, duckduckgo.DefaultUserAgent, duckduckgo.WithHTTPClient(httpClient))
		if err != nil {
			return nil, fmt.Errorf("failed to create duckduckgo backend: %w", err)
		}
		return ddg, nil
	case BackendTavily:
		if cfg.TavilyAPIKey == "" {
			return nil, fmt.Errorf("tavily backend requires TAVILY_API_KEY")
		}
		return NewTavily(cfg.TavilyAPIKey,
			WithBaseURL(cfg.TavilyBaseURL),
			WithHTTPClient(httpClient),
			WithMaxResults(cfg.MaxResults),
		), nil
	default:
		return nil, fmt.Errorf("unknown search backend %q", backend)
	}
}
