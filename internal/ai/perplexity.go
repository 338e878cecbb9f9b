package ai

import (
	"context"
	"net/http"
)

const (
	perplexityEndpoint = "https://api.perplexity.ai/chat/completions"
	perplexityModel    = "llama-3.1-sonar-small-128k-online"
)

// searchDomainFilter restricts Perplexity's online search to sources worth
// citing in a strategy brief.
var searchDomainFilter = []string{
	"scholar.google.com",
	"wikipedia.org",
	"nytimes.com",
	"bbc.com",
	"cnn.com",
	"forbes.com",
}

// PerplexityClient implements Completer against the Perplexity online model.
// Only the strategy stage uses it; the pipeline falls back to OpenAI when it
// fails.
type PerplexityClient struct {
	apiKey     string
	httpClient HTTPClient
}

// NewPerplexityClient creates a Perplexity client. A nil httpClient gets a
// default with the shared completion timeout.
func NewPerplexityClient(apiKey string, httpClient HTTPClient) *PerplexityClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: completionTimeout}
	}
	return &PerplexityClient{apiKey: apiKey, httpClient: httpClient}
}

// Complete issues a system+user prompt pair against the online model with
// the fixed search filters.
func (c *PerplexityClient) Complete(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error) {
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}

	payload := map[string]any{
		"model": perplexityModel,
		"messages": []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		"temperature":           opts.Temperature,
		"max_tokens":            maxTokens,
		"search_domain_filter":  searchDomainFilter,
		"search_recency_filter": "month",
	}

	return callChatAPI(ctx, c.httpClient, perplexityEndpoint, c.apiKey, payload)
}
