package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	tavilyModels "github.com/diverged/tavily-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/tools/duckduckgo"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantType any
		wantErr  bool
	}{
		{name: "default is duckduckgo", cfg: Config{}, wantType: &duckduckgo.Tool{}},
		{name: "tavily when key present", cfg: Config{TavilyAPIKey: "k"}, wantType: &Tavily{}},
		{name: "explicit duckduckgo wins over key", cfg: Config{Backend: BackendDuckDuckGo, TavilyAPIKey: "k"}, wantType: &duckduckgo.Tool{}},
		{name: "tavily without key", cfg: Config{Backend: BackendTavily}, wantErr: true},
		{name: "unknown backend", cfg: Config{Backend: "bing"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, backend)
		})
	}
}

func TestTavilyCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var req tavilyModels.SearchRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "capital of France", req.Query)
		assert.True(t, req.IncludeAnswer)

		resp := struct {
			Results []tavilyModels.SearchResult `json:"results"`
			Answer  string                      `json:"answer,omitempty"`
		}{
			Answer: "Paris",
			Results: []tavilyModels.SearchResult{
				{Title: "Paris - Wikipedia", URL: "https://en.wikipedia.org/wiki/Paris", Content: "Paris is the capital of France.", Score: 0.9},
				{Title: "Second", URL: "https://example.com/2", Content: "two", Score: 0.5},
				{Title: "Third", URL: "https://example.com/3", Content: "three", Score: 0.1},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	backend := NewTavily("testkey",
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
		WithMaxResults(2),
	)

	out, err := backend.Call(context.Background(), "capital of France")
	require.NoError(t, err)

	assert.Contains(t, out, "Answer: Paris")
	assert.Contains(t, out, "https://en.wikipedia.org/wiki/Paris")
	assert.Contains(t, out, "Second")
	assert.NotContains(t, out, "Third")
}

func TestTavilyEmptyQuery(t *testing.T) {
	_, err := NewTavily("k").Call(context.Background(), "   ")
	assert.Error(t, err)
}
