package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/falacast/falacast/internal/content"
	"github.com/falacast/falacast/internal/script"
)

func (s *Server) handleScriptGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic string `json:"topic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "authentication required to generate scripts")
		return
	}

	if _, err := s.status.Start(topic, uid); err != nil {
		writeError(w, http.StatusConflict, "a script generation is already in progress")
		return
	}

	// detach from the request context: the client disconnecting must not
	// cancel the pipeline
	go func() {
		_, _ = s.scripts.Run(context.Background(), topic)
	}()

	snap, _ := s.status.Snapshot(uid)
	writeJSON(w, http.StatusAccepted, map[string]any{"jobStarted": true, "status": snap})
}

func (s *Server) handleScriptStatus(w http.ResponseWriter, r *http.Request) {
	snap, err := s.status.Snapshot(userID(r))
	if err != nil {
		writeError(w, http.StatusForbidden, "this generation job belongs to a different user")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleScriptResult(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	result, err := s.status.Result(uid)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, result)
	case errors.Is(err, script.ErrNoJob):
		writeError(w, http.StatusNotFound, "no script generation has been started")
	case errors.Is(err, script.ErrNotOwner):
		writeError(w, http.StatusForbidden, "this generation job belongs to a different user")
	case errors.Is(err, script.ErrNotReady):
		snap, _ := s.status.Snapshot(uid)
		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "script generation still in progress",
			"status":  snap,
		})
	default:
		slog.Error("script result read failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read generation result")
	}
}

// handleChunkConversation splits a conversation into TTS-ready chunks with
// voice roles and duration estimates.
func (s *Server) handleChunkConversation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Conversation string `json:"conversation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Conversation) == "" {
		writeError(w, http.StatusBadRequest, "conversation is required")
		return
	}

	chunks := s.chunker.Split(req.Conversation)

	type chunkView struct {
		Index           int               `json:"index"`
		Text            string            `json:"text"`
		SpeakerVoices   map[string]string `json:"speakerVoices"`
		DurationSeconds float64           `json:"durationSeconds"`
	}
	views := make([]chunkView, len(chunks))
	for i, c := range chunks {
		roles := make(map[string]string, 2)
		for speaker, role := range c.Voices.Map() {
			roles[speaker] = string(role)
		}
		views[i] = chunkView{
			Index:           c.Index,
			Text:            c.Text(),
			SpeakerVoices:   roles,
			DurationSeconds: content.EstimateChunkDuration(c),
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"chunks": views, "totalChunks": len(views)})
}
