package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/falacast/falacast/podcast"
)

func TestHandleListPodcasts(t *testing.T) {
	t.Run("anonymous sees an empty list", func(t *testing.T) {
		env := newTestServer(t)
		env.store.SetPodcast(podcast.Podcast{ID: 1, UserID: "user-1", Title: "Café"})

		rec := doRequest(t, env.srv, http.MethodGet, "/api/podcasts", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("only the caller's podcasts, newest first", func(t *testing.T) {
		env := newTestServer(t)
		now := time.Now()
		env.store.SetPodcast(podcast.Podcast{ID: 1, UserID: "user-1", Title: "Antigo", CreatedAt: now.Add(-time.Hour)})
		env.store.SetPodcast(podcast.Podcast{ID: 2, UserID: "user-1", Title: "Novo", CreatedAt: now})
		env.store.SetPodcast(podcast.Podcast{ID: 3, UserID: "user-2", Title: "Alheio", CreatedAt: now})

		rec := doRequest(t, env.srv, http.MethodGet, "/api/podcasts", "user-1", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var got []podcast.Podcast
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "Novo", got[0].Title)
		assert.Equal(t, "Antigo", got[1].Title)
	})

	t.Run("user with no podcasts gets an empty list", func(t *testing.T) {
		env := newTestServer(t)
		rec := doRequest(t, env.srv, http.MethodGet, "/api/podcasts", "user-1", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})
}

func TestHandleGetPodcast(t *testing.T) {
	t.Run("returns the podcast with its chunks", func(t *testing.T) {
		env := newTestServer(t)
		env.store.SetPodcast(podcast.Podcast{ID: 7, UserID: "user-1", Title: "Café"})
		env.store.Chunks[7] = []podcast.AudioChunk{
			{ID: 10, PodcastID: 7, ChunkIndex: 1, AudioURL: "https://cdn.example/b.mp3"},
			{ID: 11, PodcastID: 7, ChunkIndex: 0, AudioURL: "https://cdn.example/a.mp3"},
		}

		rec := doRequest(t, env.srv, http.MethodGet, "/api/podcasts/7", "user-1", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		p := body["podcast"].(map[string]any)
		assert.Equal(t, "Café", p["title"])

		urls, ok := body["audioChunkUrls"].([]any)
		require.True(t, ok)
		// chunk urls come back in chunk order
		assert.Equal(t, []any{"https://cdn.example/a.mp3", "https://cdn.example/b.mp3"}, urls)
	})

	t.Run("invalid id rejected", func(t *testing.T) {
		env := newTestServer(t)
		rec := doRequest(t, env.srv, http.MethodGet, "/api/podcasts/abc", "user-1", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown podcast is 404", func(t *testing.T) {
		env := newTestServer(t)
		rec := doRequest(t, env.srv, http.MethodGet, "/api/podcasts/99", "user-1", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("other user's podcast is 403", func(t *testing.T) {
		env := newTestServer(t)
		env.store.SetPodcast(podcast.Podcast{ID: 7, UserID: "user-1", Title: "Café"})

		rec := doRequest(t, env.srv, http.MethodGet, "/api/podcasts/7", "user-2", "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestHandleCreatePodcast(t *testing.T) {
	valid := `{
		"title": "Café Brasileiro",
		"author": "Falacast",
		"description": "Um papo sobre café",
		"category": "Cultura",
		"audioUrl": "https://cdn.example/ep1.mp3",
		"duration": 300,
		"chunkCount": 3,
		"fileSize": 2048
	}`

	t.Run("creates for the authenticated user", func(t *testing.T) {
		env := newTestServer(t)
		rec := doRequest(t, env.srv, http.MethodPost, "/api/podcasts", "user-1", valid)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var created podcast.Podcast
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.NotZero(t, created.ID)
		assert.Equal(t, "user-1", created.UserID)
		assert.Equal(t, "pt-BR", created.Language) // default
		assert.Equal(t, "Café Brasileiro", created.Title)
	})

	t.Run("explicit language kept", func(t *testing.T) {
		env := newTestServer(t)
		body := `{"title": "T", "author": "A", "description": "D", "category": "C",
			"audioUrl": "https://cdn.example/x.mp3", "language": "en"}`
		rec := doRequest(t, env.srv, http.MethodPost, "/api/podcasts", "user-1", body)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var created podcast.Podcast
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, "en", created.Language)
	})

	t.Run("caller cannot assign another owner", func(t *testing.T) {
		env := newTestServer(t)
		body := `{"userId": "someone-else", "title": "T", "author": "A", "description": "D",
			"category": "C", "audioUrl": "https://cdn.example/x.mp3"}`
		rec := doRequest(t, env.srv, http.MethodPost, "/api/podcasts", "user-1", body)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var created podcast.Podcast
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, "user-1", created.UserID)
	})

	t.Run("anonymous rejected", func(t *testing.T) {
		env := newTestServer(t)
		rec := doRequest(t, env.srv, http.MethodPost, "/api/podcasts", "", valid)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("validation errors", func(t *testing.T) {
		tests := []struct {
			name string
			body string
		}{
			{"missing title", `{"author": "A", "description": "D", "category": "C", "audioUrl": "u"}`},
			{"missing author", `{"title": "T", "description": "D", "category": "C", "audioUrl": "u"}`},
			{"missing description", `{"title": "T", "author": "A", "category": "C", "audioUrl": "u"}`},
			{"missing category", `{"title": "T", "author": "A", "description": "D", "audioUrl": "u"}`},
			{"missing audio url", `{"title": "T", "author": "A", "description": "D", "category": "C"}`},
			{"negative duration", `{"title": "T", "author": "A", "description": "D", "category": "C", "audioUrl": "u", "duration": -1}`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				env := newTestServer(t)
				rec := doRequest(t, env.srv, http.MethodPost, "/api/podcasts", "user-1", tt.body)
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			})
		}
	})

	t.Run("store failure is 500", func(t *testing.T) {
		env := newTestServer(t)
		env.store.CreateErr = fmt.Errorf("db down")
		rec := doRequest(t, env.srv, http.MethodPost, "/api/podcasts", "user-1", valid)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHandleCreateChunk(t *testing.T) {
	valid := `{"podcastId": 7, "chunkIndex": 0, "audioUrl": "https://cdn.example/a.mp3", "duration": 20, "fileSize": 512}`

	t.Run("creates a chunk for an owned podcast", func(t *testing.T) {
		env := newTestServer(t)
		env.store.SetPodcast(podcast.Podcast{ID: 7, UserID: "user-1", Title: "Café"})

		rec := doRequest(t, env.srv, http.MethodPost, "/api/podcast-chunks", "user-1", valid)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var created podcast.AudioChunk
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.NotZero(t, created.ID)
		assert.Equal(t, int64(7), created.PodcastID)
		assert.Len(t, env.store.Chunks[7], 1)
	})

	t.Run("missing podcast id rejected", func(t *testing.T) {
		env := newTestServer(t)
		rec := doRequest(t, env.srv, http.MethodPost, "/api/podcast-chunks", "user-1",
			`{"audioUrl": "https://cdn.example/a.mp3"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing audio url rejected", func(t *testing.T) {
		env := newTestServer(t)
		rec := doRequest(t, env.srv, http.MethodPost, "/api/podcast-chunks", "user-1",
			`{"podcastId": 7}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown podcast is 404", func(t *testing.T) {
		env := newTestServer(t)
		rec := doRequest(t, env.srv, http.MethodPost, "/api/podcast-chunks", "user-1", valid)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("other user's podcast is 403", func(t *testing.T) {
		env := newTestServer(t)
		env.store.SetPodcast(podcast.Podcast{ID: 7, UserID: "user-1", Title: "Café"})

		rec := doRequest(t, env.srv, http.MethodPost, "/api/podcast-chunks", "user-2", valid)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
