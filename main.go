package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/falacast/falacast/internal/ai"
	"github.com/falacast/falacast/internal/api"
	"github.com/falacast/falacast/internal/audio"
	"github.com/falacast/falacast/internal/config"
	"github.com/falacast/falacast/internal/content"
	"github.com/falacast/falacast/internal/objstore"
	"github.com/falacast/falacast/internal/script"
	"github.com/falacast/falacast/internal/search"
	"github.com/falacast/falacast/internal/store"
	"github.com/falacast/falacast/internal/tts"
)

func main() {
	cfg := config.Load()

	// flags override the environment for the knobs changed most often
	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	databaseURL := flag.String("db", cfg.DatabaseURL, "Postgres connection URL")
	openAIKey := flag.String("apikey", cfg.OpenAIKey, "OpenAI API key")
	logLevel := flag.String("loglevel", cfg.LogLevel, "log level (debug, info, warn, error)")
	flag.Parse()

	cfg.Addr = *addr
	cfg.DatabaseURL = *databaseURL
	cfg.OpenAIKey = *openAIKey
	cfg.LogLevel = *logLevel

	setupLogging(cfg.LogLevel)

	if cfg.DatabaseURL == "" {
		log.Fatal("Please provide a Postgres URL with -db or DATABASE_URL environment variable")
	}
	if cfg.OpenAIKey == "" {
		log.Fatal("Please provide an OpenAI API key with -apikey or OPENAI_API_KEY environment variable")
	}

	if err := run(cfg); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run(cfg config.Config) error {
	ctx := context.Background()

	db, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	openAI := ai.NewOpenAIClient(cfg.OpenAIKey, nil)
	var strategist ai.Completer = openAI
	if cfg.PerplexityKey != "" {
		strategist = ai.NewPerplexityClient(cfg.PerplexityKey, nil)
	} else {
		slog.Warn("perplexity key not set, strategy stage will use openai directly")
	}

	searcher := search.NewSerperClient(cfg.SerperKey, nil)
	pages := search.NewArticleExtractor(nil)
	status := script.NewStatus(cfg.JobTimeout)
	generator := script.NewGenerator(openAI, strategist, searcher, pages, status)

	storage := objstore.NewClient(cfg.StorageURL, cfg.StorageKey, nil)
	assembler := audio.NewAssembler(nil, nil, storage)
	synth := tts.NewClient(cfg.TTSAPIURL, nil)

	server := api.NewServer(api.Options{
		Addr:           cfg.Addr,
		Store:          db,
		Status:         status,
		Scripts:        generator,
		TTS:            synth,
		Merger:         assembler,
		Uploader:       storage,
		Chunker:        content.NewChunker(cfg.MaxChunkSize),
		MaxTTSTextLen:  cfg.MaxTTSTextLen,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	return server.Start()
}

func newStore(ctx context.Context, cfg config.Config) (*store.Store, error) {
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
