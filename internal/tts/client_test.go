package tts

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/falacast/falacast/internal/tts/mocks"
)

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestClient_Synthesize(t *testing.T) {
	const apiURL = "https://tts.example/synthesize"

	t.Run("sends the multi-speaker payload", func(t *testing.T) {
		var gotBody map[string]any
		httpClient := &mocks.HTTPClientMock{
			DoFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, apiURL, req.URL.String())
				assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
				require.NoError(t, json.NewDecoder(req.Body).Decode(&gotBody))
				return jsonResponse(http.StatusOK, `{"audio_url": "https://cdn.example/a.mp3", "duration": 12.5}`), nil
			},
		}
		client := NewClient(apiURL, httpClient)

		result, err := client.Synthesize(context.Background(), "Ana: oi\nBruno: olá", []string{"male", "female"})
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example/a.mp3", result.AudioURL)
		assert.Equal(t, 12.5, result.Duration)

		assert.Equal(t, "Ana: oi\nBruno: olá", gotBody["text"])
		assert.Equal(t, []any{"R", "S"}, gotBody["voices"])
		assert.Equal(t, float64(0), gotBody["type"])
	})

	t.Run("voice positions follow the first speaker's gender", func(t *testing.T) {
		tests := []struct {
			name     string
			genders  []string
			expected []any
		}{
			{"male first", []string{"male", "female"}, []any{float64(1), float64(0)}},
			{"female first", []string{"female", "male"}, []any{float64(0), float64(1)}},
			{"female first case-insensitive", []string{"Female"}, []any{float64(0), float64(1)}},
			{"no genders", nil, []any{float64(1), float64(0)}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				var gotBody map[string]any
				httpClient := &mocks.HTTPClientMock{
					DoFunc: func(req *http.Request) (*http.Response, error) {
						require.NoError(t, json.NewDecoder(req.Body).Decode(&gotBody))
						return jsonResponse(http.StatusOK, `{"audio_url": "https://cdn.example/a.mp3"}`), nil
					},
				}
				client := NewClient(apiURL, httpClient)

				_, err := client.Synthesize(context.Background(), "texto", tt.genders)
				require.NoError(t, err)
				assert.Equal(t, tt.expected, gotBody["position"])
			})
		}
	})

	t.Run("length rejection maps to the sentinel", func(t *testing.T) {
		httpClient := &mocks.HTTPClientMock{
			DoFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusBadRequest,
					`{"error": "Invalid request: MultiSpeakerMarkup is too long"}`), nil
			},
		}
		client := NewClient(apiURL, httpClient)

		_, err := client.Synthesize(context.Background(), strings.Repeat("a", 5000), nil)
		assert.ErrorIs(t, err, ErrTextTooLong)
	})

	t.Run("other api errors surface the message", func(t *testing.T) {
		httpClient := &mocks.HTTPClientMock{
			DoFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusBadGateway, `{"error": "voice model unavailable"}`), nil
			},
		}
		client := NewClient(apiURL, httpClient)

		_, err := client.Synthesize(context.Background(), "texto", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 502")
		assert.Contains(t, err.Error(), "voice model unavailable")
	})

	t.Run("missing audio url is an error", func(t *testing.T) {
		httpClient := &mocks.HTTPClientMock{
			DoFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"duration": 5}`), nil
			},
		}
		client := NewClient(apiURL, httpClient)

		_, err := client.Synthesize(context.Background(), "texto", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no audio url")
	})
}

func TestVoices(t *testing.T) {
	voices := Voices()
	require.Len(t, voices, 12)

	var female, male int
	for _, v := range voices {
		assert.True(t, strings.HasPrefix(v.ID, "pt-BR-Chirp3-HD-"), "voice %s", v.ID)
		switch v.Gender {
		case "female":
			female++
		case "male":
			male++
		default:
			t.Fatalf("unexpected gender %q for %s", v.Gender, v.ID)
		}
	}
	assert.Equal(t, 6, female)
	assert.Equal(t, 6, male)
}
