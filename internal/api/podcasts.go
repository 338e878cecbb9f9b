package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/falacast/falacast/internal/store"
	"github.com/falacast/falacast/podcast"
)

func (s *Server) handleListPodcasts(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		// anonymous callers see nothing rather than an error
		writeJSON(w, http.StatusOK, []podcast.Podcast{})
		return
	}

	podcasts, err := s.store.ListPodcasts(r.Context(), uid)
	if err != nil {
		slog.Error("podcast list failed", "user_id", uid, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch podcasts")
		return
	}
	if podcasts == nil {
		podcasts = []podcast.Podcast{}
	}
	writeJSON(w, http.StatusOK, podcasts)
}

func (s *Server) handleGetPodcast(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid podcast id")
		return
	}

	p, err := s.store.GetPodcast(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "podcast not found")
			return
		}
		slog.Error("podcast lookup failed", "podcast_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch podcast")
		return
	}
	if uid := userID(r); p.UserID != "" && p.UserID != uid {
		writeError(w, http.StatusForbidden, "you don't have permission to view this podcast")
		return
	}

	chunks, err := s.store.GetAudioChunks(r.Context(), id)
	if err != nil {
		slog.Warn("chunk fetch failed", "podcast_id", id, "error", err)
	}
	urls := make([]string, len(chunks))
	for i, c := range chunks {
		urls[i] = c.AudioURL
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"podcast":        p,
		"audioChunks":    chunks,
		"audioChunkUrls": urls,
	})
}

func (s *Server) handleCreatePodcast(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "authentication required to create podcasts")
		return
	}

	var p podcast.Podcast
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validatePodcast(p); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	p.UserID = uid
	if p.Language == "" {
		p.Language = "pt-BR"
	}

	created, err := s.store.CreatePodcast(r.Context(), p)
	if err != nil {
		slog.Error("podcast create failed", "user_id", uid, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create podcast")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func validatePodcast(p podcast.Podcast) string {
	switch {
	case strings.TrimSpace(p.Title) == "":
		return "title is required"
	case strings.TrimSpace(p.Author) == "":
		return "author is required"
	case strings.TrimSpace(p.Description) == "":
		return "description is required"
	case strings.TrimSpace(p.Category) == "":
		return "category is required"
	case strings.TrimSpace(p.AudioURL) == "":
		return "audioUrl is required"
	case p.Duration < 0 || p.ChunkCount < 0 || p.FileSize < 0:
		return "duration, chunkCount and fileSize must not be negative"
	}
	return ""
}

func (s *Server) handleCreateChunk(w http.ResponseWriter, r *http.Request) {
	var c podcast.AudioChunk
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if c.PodcastID == 0 {
		writeError(w, http.StatusBadRequest, "podcastId is required")
		return
	}
	if strings.TrimSpace(c.AudioURL) == "" {
		writeError(w, http.StatusBadRequest, "audioUrl is required")
		return
	}

	p, err := s.store.GetPodcast(r.Context(), c.PodcastID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "podcast not found")
			return
		}
		slog.Error("podcast lookup failed", "podcast_id", c.PodcastID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to look up podcast")
		return
	}
	if uid := userID(r); p.UserID != "" && p.UserID != uid {
		writeError(w, http.StatusForbidden, "you don't have permission to modify this podcast")
		return
	}

	created, err := s.store.CreateAudioChunk(r.Context(), c)
	if err != nil {
		slog.Error("chunk create failed", "podcast_id", c.PodcastID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create podcast chunk")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
