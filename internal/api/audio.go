package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/falacast/falacast/internal/content"
	"github.com/falacast/falacast/internal/objstore"
	"github.com/falacast/falacast/internal/store"
	"github.com/falacast/falacast/internal/tts"
	"github.com/falacast/falacast/podcast"
)

func (s *Server) handleAudioGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text       string          `json:"text"`
		SpeakerMap json.RawMessage `json:"speakerMap"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	text := req.Text
	if len(text) > s.maxTTSTextLen {
		slog.Warn("truncating oversized tts text", "length", len(text), "max", s.maxTTSTextLen)
		text = content.TruncateAtBoundary(text, s.maxTTSTextLen)
	}

	genders := speakerGenders(req.SpeakerMap)

	result, err := s.tts.Synthesize(r.Context(), text, genders)
	if err != nil {
		if errors.Is(err, tts.ErrTextTooLong) {
			writeError(w, http.StatusRequestEntityTooLarge,
				"text is too long for the TTS service, use shorter segments")
			return
		}
		slog.Error("tts synthesis failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate audio")
		return
	}

	duration := result.Duration
	if duration <= 0 {
		duration = content.EstimateDuration(text)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"audioUrl":        result.AudioURL,
		"durationSeconds": duration,
	})
}

// speakerGenders decodes a speaker->gender JSON object preserving key order,
// which encodes the first speaker of the conversation. The value may arrive
// as an object or as a JSON-encoded string of one.
func speakerGenders(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var encoded string
	if json.Unmarshal(raw, &encoded) == nil {
		raw = json.RawMessage(encoded)
	}

	dec := json.NewDecoder(strings.NewReader(string(raw)))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil
	}

	var genders []string
	for dec.More() {
		if _, err := dec.Token(); err != nil { // key
			return genders
		}
		val, err := dec.Token()
		if err != nil {
			return genders
		}
		if g, ok := val.(string); ok {
			genders = append(genders, g)
		}
	}
	return genders
}

func (s *Server) handleMergeChunks(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URLs      []string `json:"urls"`
		PodcastID int64    `json:"podcastId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.URLs) == 0 {
		writeError(w, http.StatusBadRequest, "urls must be a non-empty array of audio URLs")
		return
	}
	if req.PodcastID == 0 {
		writeError(w, http.StatusBadRequest, "podcastId is required to link merged audio")
		return
	}

	p, err := s.store.GetPodcast(r.Context(), req.PodcastID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "podcast not found")
			return
		}
		slog.Error("podcast lookup failed", "podcast_id", req.PodcastID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to look up podcast")
		return
	}
	if uid := userID(r); p.UserID != "" && p.UserID != uid {
		writeError(w, http.StatusForbidden, "you don't have permission to modify this podcast")
		return
	}

	if len(req.URLs) == 1 {
		writeJSON(w, http.StatusOK, map[string]any{"mergedUrl": req.URLs[0], "totalChunks": 1})
		return
	}

	segments := s.segmentsForURLs(r, req.PodcastID, req.URLs)

	merged, err := s.merger.Merge(r.Context(), segments, req.PodcastID)
	if err != nil {
		slog.Error("audio merge failed", "podcast_id", req.PodcastID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to merge audio chunks")
		return
	}

	if _, err := s.store.UpdatePodcastAudio(r.Context(), req.PodcastID, merged.URL, merged.Size); err != nil {
		slog.Error("podcast audio update failed", "podcast_id", req.PodcastID, "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"mergedUrl":     merged.URL,
		"totalChunks":   merged.TotalChunks,
		"fileSizeBytes": merged.Size,
	})
}

// segmentsForURLs builds merge segments for the requested URLs, pulling
// index, duration and size from the stored chunk records when they exist.
func (s *Server) segmentsForURLs(r *http.Request, podcastID int64, urls []string) []podcast.Segment {
	known := map[string]podcast.AudioChunk{}
	if chunks, err := s.store.GetAudioChunks(r.Context(), podcastID); err == nil {
		for _, c := range chunks {
			known[c.AudioURL] = c
		}
	} else {
		slog.Warn("chunk metadata unavailable, merging in request order", "podcast_id", podcastID, "error", err)
	}

	segments := make([]podcast.Segment, len(urls))
	for i, u := range urls {
		seg := podcast.Segment{Index: i, URL: u}
		if c, ok := known[u]; ok {
			seg.Index = c.ChunkIndex
			seg.Duration = float64(c.Duration)
			seg.Size = c.FileSize
		}
		segments[i] = seg
	}
	return segments
}

func (s *Server) handleAudioUpload(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileName    string `json:"fileName"`
		FileData    string `json:"fileData"`
		ContentType string `json:"contentType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FileName == "" || req.FileData == "" || req.ContentType == "" {
		writeError(w, http.StatusBadRequest, "fileName, fileData and contentType are required")
		return
	}
	if !strings.HasPrefix(req.ContentType, "audio/") {
		writeError(w, http.StatusBadRequest, "only audio files are allowed")
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.FileData)
	if err != nil {
		writeError(w, http.StatusBadRequest, "fileData must be base64 encoded")
		return
	}
	if int64(len(data)) > s.maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file too large, maximum is %d bytes", s.maxUploadBytes))
		return
	}

	// client-chosen names never hit storage directly
	ext := path.Ext(req.FileName)
	if ext == "" {
		ext = ".mp3"
	}
	name := fmt.Sprintf("upload-%s%s", uuid.New().String(), ext)

	url, err := s.upload.Upload(r.Context(), objstore.BucketChunks, name, data, req.ContentType)
	if err != nil {
		slog.Error("audio upload failed", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to upload audio to storage")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"url": url, "fileName": name, "size": len(data)})
}
