package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/falacast/falacast/internal/tts"
	"github.com/falacast/falacast/podcast"
)

func TestHandleAudioGenerate(t *testing.T) {
	t.Run("synthesizes and returns the audio url", func(t *testing.T) {
		env := newTestServer(t)
		rec := doRequest(t, env.srv, http.MethodPost, "/api/audio/generate", "user-1",
			`{"text": "Ana: oi\nBruno: olá", "speakerMap": {"Ana": "female", "Bruno": "male"}}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "https://cdn.example/audio.mp3", body["audioUrl"])
		assert.Equal(t, 12.5, body["durationSeconds"])
		assert.Equal(t, "Ana: oi\nBruno: olá", env.tts.text)
		assert.Equal(t, []string{"female", "male"}, env.tts.genders)
	})

	t.Run("missing text rejected", func(t *testing.T) {
		env := newTestServer(t)
		rec := doRequest(t, env.srv, http.MethodPost, "/api/audio/generate", "user-1", `{"text": "  "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("oversized text truncated before synthesis", func(t *testing.T) {
		env := newTestServer(t)
		long := strings.Repeat("a", 1800) + " " + strings.Repeat("b", 500)
		body, err := json.Marshal(map[string]string{"text": long})
		require.NoError(t, err)

		rec := doRequest(t, env.srv, http.MethodPost, "/api/audio/generate", "user-1", string(body))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.LessOrEqual(t, len(env.tts.text), 1900)
		assert.Equal(t, strings.Repeat("a", 1800), env.tts.text)
	})

	t.Run("upstream length rejection maps to 413", func(t *testing.T) {
		env := newTestServer(t)
		env.tts.err = tts.ErrTextTooLong

		rec := doRequest(t, env.srv, http.MethodPost, "/api/audio/generate", "user-1", `{"text": "Ana: oi"}`)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("synthesis failure maps to 500", func(t *testing.T) {
		env := newTestServer(t)
		env.tts.err = fmt.Errorf("tts down")

		rec := doRequest(t, env.srv, http.MethodPost, "/api/audio/generate", "user-1", `{"text": "Ana: oi"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("missing duration estimated from text", func(t *testing.T) {
		env := newTestServer(t)
		env.tts.result = tts.Result{AudioURL: "https://cdn.example/audio.mp3", Duration: 0}

		rec := doRequest(t, env.srv, http.MethodPost, "/api/audio/generate", "user-1",
			`{"text": "Ana: uma fala razoavelmente longa para estimar"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Greater(t, decodeBody(t, rec)["durationSeconds"].(float64), 0.0)
	})

	t.Run("speaker map as encoded string", func(t *testing.T) {
		env := newTestServer(t)
		rec := doRequest(t, env.srv, http.MethodPost, "/api/audio/generate", "user-1",
			`{"text": "Ana: oi", "speakerMap": "{\"Ana\": \"female\"}"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"female"}, env.tts.genders)
	})
}

func TestSpeakerGenders(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{"object preserves key order", `{"Ana": "female", "Bruno": "male"}`, []string{"female", "male"}},
		{"reversed order preserved", `{"Bruno": "male", "Ana": "female"}`, []string{"male", "female"}},
		{"encoded string", `"{\"Ana\": \"female\"}"`, []string{"female"}},
		{"empty", ``, nil},
		{"not an object", `[1, 2]`, nil},
		{"garbage", `{{{`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, speakerGenders(json.RawMessage(tt.raw)))
		})
	}
}

func TestHandleMergeChunks(t *testing.T) {
	seed := func(env *serverEnv) {
		env.store.SetPodcast(podcast.Podcast{ID: 7, UserID: "user-1", Title: "Café"})
	}

	t.Run("merges and updates the podcast", func(t *testing.T) {
		env := newTestServer(t)
		seed(env)
		env.merger.merged = podcast.MergedAudio{
			URL: "https://cdn.example/merged.mp3", Duration: 30, Size: 2048, TotalChunks: 2,
		}

		rec := doRequest(t, env.srv, http.MethodPost, "/api/audio/merge-chunks", "user-1",
			`{"podcastId": 7, "urls": ["https://cdn.example/a.mp3", "https://cdn.example/b.mp3"]}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "https://cdn.example/merged.mp3", body["mergedUrl"])
		assert.Equal(t, float64(2), body["totalChunks"])
		assert.Equal(t, float64(2048), body["fileSizeBytes"])

		assert.Equal(t, int64(7), env.merger.id)
		require.Len(t, env.merger.segments, 2)

		updated, err := env.store.GetPodcast(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example/merged.mp3", updated.AudioURL)
		assert.Equal(t, int64(2048), updated.FileSize)
	})

	t.Run("segment metadata pulled from stored chunks", func(t *testing.T) {
		env := newTestServer(t)
		seed(env)
		_, err := env.store.CreateAudioChunk(context.Background(), podcast.AudioChunk{
			PodcastID: 7, ChunkIndex: 3, AudioURL: "https://cdn.example/a.mp3", Duration: 20, FileSize: 512,
		})
		require.NoError(t, err)

		rec := doRequest(t, env.srv, http.MethodPost, "/api/audio/merge-chunks", "user-1",
			`{"podcastId": 7, "urls": ["https://cdn.example/a.mp3", "https://cdn.example/unknown.mp3"]}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		require.Len(t, env.merger.segments, 2)
		assert.Equal(t, 3, env.merger.segments[0].Index)
		assert.Equal(t, 20.0, env.merger.segments[0].Duration)
		assert.Equal(t, int64(512), env.merger.segments[0].Size)
		// unknown url falls back to positional index
		assert.Equal(t, 1, env.merger.segments[1].Index)
	})

	t.Run("single url short-circuits", func(t *testing.T) {
		env := newTestServer(t)
		seed(env)

		rec := doRequest(t, env.srv, http.MethodPost, "/api/audio/merge-chunks", "user-1",
			`{"podcastId": 7, "urls": ["https://cdn.example/only.mp3"]}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "https://cdn.example/only.mp3", body["mergedUrl"])
		assert.Equal(t, float64(1), body["totalChunks"])
		assert.Empty(t, env.merger.segments)
	})

	t.Run("empty urls rejected", func(t *testing.T) {
		env := newTestServer(t)
		rec := doRequest(t, env.srv, http.MethodPost, "/api/audio/merge-chunks", "user-1",
			`{"podcastId": 7, "urls": []}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing podcast id rejected", func(t *testing.T) {
		env := newTestServer(t)
		rec := doRequest(t, env.srv, http.MethodPost, "/api/audio/merge-chunks", "user-1",
			`{"urls": ["https://cdn.example/a.mp3"]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown podcast is 404", func(t *testing.T) {
		env := newTestServer(t)
		rec := doRequest(t, env.srv, http.MethodPost, "/api/audio/merge-chunks", "user-1",
			`{"podcastId": 99, "urls": ["https://cdn.example/a.mp3", "https://cdn.example/b.mp3"]}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("other user's podcast is 403", func(t *testing.T) {
		env := newTestServer(t)
		seed(env)
		rec := doRequest(t, env.srv, http.MethodPost, "/api/audio/merge-chunks", "user-2",
			`{"podcastId": 7, "urls": ["https://cdn.example/a.mp3", "https://cdn.example/b.mp3"]}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("merge failure is 500", func(t *testing.T) {
		env := newTestServer(t)
		seed(env)
		env.merger.err = fmt.Errorf("all downloads failed")

		rec := doRequest(t, env.srv, http.MethodPost, "/api/audio/merge-chunks", "user-1",
			`{"podcastId": 7, "urls": ["https://cdn.example/a.mp3", "https://cdn.example/b.mp3"]}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("update failure does not fail the request", func(t *testing.T) {
		env := newTestServer(t)
		seed(env)
		env.merger.merged = podcast.MergedAudio{URL: "https://cdn.example/merged.mp3", TotalChunks: 2}
		env.store.UpdateErr = fmt.Errorf("db down")

		rec := doRequest(t, env.srv, http.MethodPost, "/api/audio/merge-chunks", "user-1",
			`{"podcastId": 7, "urls": ["https://cdn.example/a.mp3", "https://cdn.example/b.mp3"]}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestHandleAudioUpload(t *testing.T) {
	payload := func(name, contentType string, data []byte) string {
		b, _ := json.Marshal(map[string]string{
			"fileName":    name,
			"fileData":    base64.StdEncoding.EncodeToString(data),
			"contentType": contentType,
		})
		return string(b)
	}

	t.Run("uploads under a server-generated name", func(t *testing.T) {
		env := newTestServer(t)
		rec := doRequest(t, env.srv, http.MethodPost, "/api/audio/upload", "user-1",
			payload("episode.mp3", "audio/mpeg", []byte("audio-bytes")))
		assert.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "https://cdn.example/upload.mp3", body["url"])
		assert.Equal(t, float64(len("audio-bytes")), body["size"])

		assert.Equal(t, "podcast_audio", env.uploader.bucket)
		assert.True(t, strings.HasPrefix(env.uploader.name, "upload-"))
		assert.True(t, strings.HasSuffix(env.uploader.name, ".mp3"))
		assert.NotContains(t, env.uploader.name, "episode")
		assert.Equal(t, []byte("audio-bytes"), env.uploader.data)
	})

	t.Run("extension defaults to mp3", func(t *testing.T) {
		env := newTestServer(t)
		rec := doRequest(t, env.srv, http.MethodPost, "/api/audio/upload", "user-1",
			payload("noext", "audio/wav", []byte("x")))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.HasSuffix(env.uploader.name, ".mp3"))
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		env := newTestServer(t)
		rec := doRequest(t, env.srv, http.MethodPost, "/api/audio/upload", "user-1",
			`{"fileName": "a.mp3"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non-audio content type rejected", func(t *testing.T) {
		env := newTestServer(t)
		rec := doRequest(t, env.srv, http.MethodPost, "/api/audio/upload", "user-1",
			payload("evil.html", "text/html", []byte("<script>")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid base64 rejected", func(t *testing.T) {
		env := newTestServer(t)
		rec := doRequest(t, env.srv, http.MethodPost, "/api/audio/upload", "user-1",
			`{"fileName": "a.mp3", "fileData": "not base64!!!", "contentType": "audio/mpeg"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("oversized upload is 413", func(t *testing.T) {
		env := newTestServer(t)
		env.srv.maxUploadBytes = 4

		rec := doRequest(t, env.srv, http.MethodPost, "/api/audio/upload", "user-1",
			payload("a.mp3", "audio/mpeg", []byte("way too big")))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("storage failure is 500", func(t *testing.T) {
		env := newTestServer(t)
		env.uploader.err = fmt.Errorf("storage down")

		rec := doRequest(t, env.srv, http.MethodPost, "/api/audio/upload", "user-1",
			payload("a.mp3", "audio/mpeg", []byte("x")))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
