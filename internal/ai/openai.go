// Package ai wraps the chat-completion providers used by the script
// pipeline: OpenAI as the main model and Perplexity for the strategy stage.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

//go:generate moq -out mocks/http_client.go -pkg mocks -skip-ensure -fmt goimports . HTTPClient
//go:generate moq -out mocks/completer.go -pkg mocks -skip-ensure -fmt goimports . Completer

// HTTPClient defines the interface for HTTP client operations
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Completer is the provider-neutral chat-completion contract the pipeline
// depends on.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error)
}

// Options tunes a single completion call.
type Options struct {
	Temperature  float64
	MaxTokens    int
	JSONResponse bool // ask the provider for a JSON object response
}

const (
	openAIEndpoint = "https://api.openai.com/v1/chat/completions"
	openAIModel    = "gpt-4o"

	completionTimeout = 2 * time.Minute
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenAIClient implements Completer against the OpenAI chat API.
type OpenAIClient struct {
	apiKey     string
	httpClient HTTPClient
}

// NewOpenAIClient creates an OpenAI client. A nil httpClient gets a default
// with a generous timeout since drafts can take a while.
func NewOpenAIClient(apiKey string, httpClient HTTPClient) *OpenAIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: completionTimeout}
	}
	return &OpenAIClient{apiKey: apiKey, httpClient: httpClient}
}

// Complete issues a system+user prompt pair and returns the model's text.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error) {
	payload := map[string]any{
		"model": openAIModel,
		"messages": []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		"temperature": opts.Temperature,
	}
	if opts.MaxTokens > 0 {
		payload["max_tokens"] = opts.MaxTokens
	}
	if opts.JSONResponse {
		payload["response_format"] = map[string]string{"type": "json_object"}
	}

	return callChatAPI(ctx, c.httpClient, openAIEndpoint, c.apiKey, payload)
}

// callChatAPI posts a chat-completion payload and decodes the first choice.
// Both providers share the OpenAI wire shape.
func callChatAPI(ctx context.Context, client HTTPClient, endpoint, apiKey string, payload map[string]any) (string, error) {
	requestBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}

	return result.Choices[0].Message.Content, nil
}
