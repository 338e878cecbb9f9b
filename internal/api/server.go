// Package api exposes the podcast service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/falacast/falacast/internal/content"
	"github.com/falacast/falacast/internal/script"
	"github.com/falacast/falacast/internal/store"
	"github.com/falacast/falacast/internal/tts"
	"github.com/falacast/falacast/podcast"
)

// ScriptRunner executes the full script pipeline for a topic.
type ScriptRunner interface {
	Run(ctx context.Context, topic string) (podcast.ScriptResult, error)
}

// Synthesizer converts speaker-tagged text into audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, speakerGenders []string) (tts.Result, error)
}

// Merger assembles per-chunk segments into one episode.
type Merger interface {
	Merge(ctx context.Context, segments []podcast.Segment, podcastID int64) (podcast.MergedAudio, error)
}

// Uploader stores raw bytes and returns a public URL.
type Uploader interface {
	Upload(ctx context.Context, bucket, name string, data []byte, contentType string) (string, error)
}

// Server routes requests to the service's collaborators. Identity arrives in
// the X-User-ID header, set by the fronting auth proxy.
type Server struct {
	store   store.DataStore
	status  *script.Status
	scripts ScriptRunner
	tts     Synthesizer
	merger  Merger
	upload  Uploader
	chunker *content.Chunker

	maxTTSTextLen  int
	maxUploadBytes int64

	router chi.Router
	addr   string
}

// Options carries the server's collaborators and limits.
type Options struct {
	Addr           string
	Store          store.DataStore
	Status         *script.Status
	Scripts        ScriptRunner
	TTS            Synthesizer
	Merger         Merger
	Uploader       Uploader
	Chunker        *content.Chunker
	MaxTTSTextLen  int
	MaxUploadBytes int64
}

// NewServer builds the router and wires the handlers.
func NewServer(opts Options) *Server {
	srv := &Server{
		store:          opts.Store,
		status:         opts.Status,
		scripts:        opts.Scripts,
		tts:            opts.TTS,
		merger:         opts.Merger,
		upload:         opts.Uploader,
		chunker:        opts.Chunker,
		maxTTSTextLen:  opts.MaxTTSTextLen,
		maxUploadBytes: opts.MaxUploadBytes,
		addr:           opts.Addr,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", srv.handleHealth)
		r.Get("/voices", srv.handleVoices)

		r.Post("/script/generate", srv.handleScriptGenerate)
		r.Get("/script/status", srv.handleScriptStatus)
		r.Get("/script/result", srv.handleScriptResult)

		r.Post("/chunks", srv.handleChunkConversation)

		r.Post("/audio/generate", srv.handleAudioGenerate)
		r.Post("/audio/merge-chunks", srv.handleMergeChunks)
		r.Post("/audio/upload", srv.handleAudioUpload)

		r.Get("/podcasts", srv.handleListPodcasts)
		r.Post("/podcasts", srv.handleCreatePodcast)
		r.Get("/podcasts/{id}", srv.handleGetPodcast)
		r.Post("/podcast-chunks", srv.handleCreateChunk)
	})

	srv.router = r
	return srv
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	slog.Info("starting HTTP API", "addr", s.addr)
	return http.ListenAndServe(s.addr, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "falacast"})
}

func (s *Server) handleVoices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, tts.Voices())
}

// userID extracts the requester's identity. Empty means anonymous.
func userID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // response already committed
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
