// Package search wraps the Serper.dev web-search API and extracts article
// text from result pages.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

//go:generate moq -out mocks/http_client.go -pkg mocks -skip-ensure -fmt goimports . HTTPClient

// HTTPClient defines the interface for HTTP client operations
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

const (
	serperEndpoint = "https://google.serper.dev/search"
	maxResultsCap  = 10
)

// Result is one ranked organic search result.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Response bundles everything a search returned that is useful for prompting.
type Response struct {
	Results        []Result
	KnowledgeGraph *KnowledgeGraph
	AnswerBox      *AnswerBox
}

// KnowledgeGraph is the summary panel Serper returns for well-known entities.
type KnowledgeGraph struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// AnswerBox is the direct-answer panel, when one exists.
type AnswerBox struct {
	Title  string `json:"title"`
	Answer string `json:"answer"`
}

// SerperClient performs web searches against the Serper.dev API.
type SerperClient struct {
	apiKey     string
	httpClient HTTPClient
}

// NewSerperClient creates a search client. A nil httpClient gets a default
// with a sane timeout.
func NewSerperClient(apiKey string, httpClient HTTPClient) *SerperClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &SerperClient{apiKey: apiKey, httpClient: httpClient}
}

// Search runs a query and returns up to maxResults ranked results. Results
// are requested in English from the US region for source quality; the query
// itself is passed through unchanged.
func (c *SerperClient) Search(ctx context.Context, query string, maxResults int) (Response, error) {
	if c.apiKey == "" {
		return Response{}, fmt.Errorf("serper api key not configured")
	}
	if maxResults <= 0 || maxResults > maxResultsCap {
		maxResults = maxResultsCap
	}

	body, err := json.Marshal(map[string]any{
		"q":   query,
		"gl":  "us",
		"hl":  "en",
		"num": maxResults,
	})
	if err != nil {
		return Response{}, fmt.Errorf("failed to marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serperEndpoint, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return Response{}, fmt.Errorf("search request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var decoded struct {
		Organic        []Result        `json:"organic"`
		KnowledgeGraph *KnowledgeGraph `json:"knowledgeGraph"`
		AnswerBox      *AnswerBox      `json:"answerBox"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Response{}, fmt.Errorf("failed to decode search response: %w", err)
	}

	return Response{
		Results:        decoded.Organic,
		KnowledgeGraph: decoded.KnowledgeGraph,
		AnswerBox:      decoded.AnswerBox,
	}, nil
}

// FormatResults renders a search response as the plain-text block fed to the
// researcher prompt: direct answer first, then the knowledge panel, then the
// numbered sources.
func FormatResults(resp Response) string {
	var sb strings.Builder

	if ab := resp.AnswerBox; ab != nil {
		sb.WriteString(fmt.Sprintf("RESPOSTA DIRETA:\n%s\n%s\n\n", ab.Title, ab.Answer))
	}
	if kg := resp.KnowledgeGraph; kg != nil {
		sb.WriteString(fmt.Sprintf("INFORMAÇÃO PRINCIPAL:\n%s - %s\n%s\n\n", kg.Title, kg.Type, kg.Description))
	}
	if len(resp.Results) > 0 {
		sb.WriteString("RESULTADOS PRINCIPAIS:\n\n")
		for i, r := range resp.Results {
			sb.WriteString(fmt.Sprintf("Fonte #%d: %s\n", i+1, r.Title))
			sb.WriteString(fmt.Sprintf("URL: %s\n", r.Link))
			sb.WriteString(fmt.Sprintf("Resumo: %s\n\n", r.Snippet))
		}
	}

	return sb.String()
}
