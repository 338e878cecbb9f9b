// Package tts talks to the multi-speaker text-to-speech service and holds
// the fixed pt-BR voice catalog.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/falacast/falacast/podcast"
)

//go:generate moq -out mocks/http_client.go -pkg mocks -skip-ensure -fmt goimports . HTTPClient

// HTTPClient defines the interface for HTTP client operations
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ErrTextTooLong reports that the upstream service rejected the text because
// the multi-speaker markup exceeded its limit.
var ErrTextTooLong = errors.New("text is too long for the tts service")

// Result is the synthesized audio reference the service returns.
type Result struct {
	AudioURL string  `json:"audio_url"`
	Duration float64 `json:"duration"`
}

// Client calls the external TTS API.
type Client struct {
	apiURL     string
	httpClient HTTPClient
}

// NewClient creates a TTS client. A nil httpClient gets a default with a
// timeout generous enough for synthesis.
func NewClient(apiURL string, httpClient HTTPClient) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &Client{apiURL: apiURL, httpClient: httpClient}
}

// Synthesize converts speaker-tagged text into audio. speakerGenders maps
// speaker names to "male"/"female" in first-seen order; when the first
// speaker is female the voice positions are swapped so the female voice
// opens the dialogue.
func (c *Client) Synthesize(ctx context.Context, text string, speakerGenders []string) (Result, error) {
	position := []int{1, 0}
	if len(speakerGenders) > 0 && strings.EqualFold(speakerGenders[0], "female") {
		position = []int{0, 1}
	}

	body, err := json.Marshal(map[string]any{
		"text":     text,
		"voices":   []string{"R", "S"},
		"position": position,
		"type":     0,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal tts request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create tts request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if strings.Contains(apiErr.Error, "MultiSpeakerMarkup is too long") {
			return Result{}, ErrTextTooLong
		}
		if apiErr.Error != "" {
			return Result{}, fmt.Errorf("tts request failed with status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return Result{}, fmt.Errorf("tts request failed with status %d", resp.StatusCode)
	}

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return Result{}, fmt.Errorf("failed to decode tts response: %w", err)
	}
	if res.AudioURL == "" {
		return Result{}, fmt.Errorf("tts response has no audio url")
	}

	return res, nil
}

// Voices returns the fixed pt-BR voice catalog.
func Voices() []podcast.Voice {
	return []podcast.Voice{
		{ID: "pt-BR-Chirp3-HD-Aoede", Name: "Aoede (Feminina)", Gender: "female"},
		{ID: "pt-BR-Chirp3-HD-Kore", Name: "Kore (Feminina)", Gender: "female"},
		{ID: "pt-BR-Chirp3-HD-Leda", Name: "Leda (Feminina)", Gender: "female"},
		{ID: "pt-BR-Chirp3-HD-Zephyr", Name: "Zephyr (Feminina)", Gender: "female"},
		{ID: "pt-BR-Chirp3-HD-Erinome", Name: "Erinome (Feminina)", Gender: "female"},
		{ID: "pt-BR-Chirp3-HD-Vindemiatrix", Name: "Vindemiatrix (Feminina)", Gender: "female"},
		{ID: "pt-BR-Chirp3-HD-Charon", Name: "Charon (Masculina)", Gender: "male"},
		{ID: "pt-BR-Chirp3-HD-Fenrir", Name: "Fenrir (Masculina)", Gender: "male"},
		{ID: "pt-BR-Chirp3-HD-Orus", Name: "Orus (Masculina)", Gender: "male"},
		{ID: "pt-BR-Chirp3-HD-Puck", Name: "Puck (Masculina)", Gender: "male"},
		{ID: "pt-BR-Chirp3-HD-Iapetus", Name: "Iapetus (Masculina)", Gender: "male"},
		{ID: "pt-BR-Chirp3-HD-Umbriel", Name: "Umbriel (Masculina)", Gender: "male"},
	}
}
