package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	tavilygo "github.com/diverged/tavily-go"
	tavilyModels "github.com/diverged/tavily-go/models"
	"github.com/tmc/langchaingo/tools"
)

// Tavily searches the web through the Tavily search API.
type Tavily struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	maxResults int
}

var _ tools.Tool = (*Tavily)(nil)

// TavilyOption configures a Tavily backend.
type TavilyOption func(*Tavily)

func WithBaseURL(baseURL string) TavilyOption {
	return func(t *Tavily) {
		t.baseURL = baseURL
	}
}

func WithHTTPClient(client *http.Client) TavilyOption {
	return func(t *Tavily) {
		t.httpClient = client
	}
}

func WithMaxResults(n int) TavilyOption {
	return func(t *Tavily) {
		t.maxResults = n
	}
}

// NewTavily creates a Tavily backend authenticated with apiKey.
func NewTavily(apiKey string, opts ...TavilyOption) *Tavily {
	t := &Tavily{
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
		maxResults: defaultMaxResults,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tavily) Name() string {
	return "Tavily Search"
}

func (t *Tavily) Description() string {
	return "Search the web with the Tavily API. Input should be a search query."
}

// Call runs query and renders the answer and the top results as text.
func (t *Tavily) Call(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", errors.New("invalid request: empty query")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := tavilygo.NewClient(t.apiKey)
	if t.baseURL != "" {
		client.BaseURL = t.baseURL
	}
	if t.httpClient != nil {
		client.HTTPClient = t.httpClient
	}

	resp, err := tavilygo.Search(client, tavilyModels.SearchRequest{
		Query:         query,
		SearchDepth:   "basic",
		IncludeAnswer: true,
	})
	if err != nil {
		return "", fmt.Errorf("tavily search failed: %w", err)
	}

	var buf bytes.Buffer
	if resp.Answer != "" {
		fmt.Fprintf(&buf, "Answer: %s\n", resp.Answer)
	}
	for i, result := range resp.Results {
		if t.maxResults > 0 && i >= t.maxResults {
			break
		}
		fmt.Fprintf(&buf, "Title: %s\nURL: %s\nContent: %s\n\n", result.Title, result.URL, strings.TrimSpace(result.Content))
	}
	if buf.Len() == 0 {
		return "No good Tavily Search Results were found", nil
	}
	return strings.TrimSpace(buf.String()), nil
}
