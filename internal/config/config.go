// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds every tunable the service reads at startup.
type Config struct {
	Addr        string
	DatabaseURL string

	OpenAIKey     string
	PerplexityKey string
	SerperKey     string

	TTSAPIURL  string
	StorageURL string
	StorageKey string

	MaxChunkSize   int           // chunker character bound
	MaxTTSTextLen  int           // hard cap before natural-boundary truncation
	MaxUploadBytes int64         // upload-audio endpoint cap
	JobTimeout     time.Duration // stuck generation jobs older than this may be taken over
	LogLevel       string
}

// Load reads the environment, applying defaults for anything unset.
func Load() Config {
	return Config{
		Addr:           envStr("FALACAST_ADDR", ":8080"),
		DatabaseURL:    envStr("DATABASE_URL", ""),
		OpenAIKey:      envStr("OPENAI_API_KEY", ""),
		PerplexityKey:  envStr("PERPLEXITY_API_KEY", ""),
		SerperKey:      envStr("SERPER_API_KEY", ""),
		TTSAPIURL:      envStr("TTS_API_URL", "https://flask-api-955132768795.us-central1.run.app/api/tts/generate-audio"),
		StorageURL:     envStr("STORAGE_URL", ""),
		StorageKey:     envStr("STORAGE_KEY", ""),
		MaxChunkSize:   envInt("MAX_CHUNK_SIZE", 2000),
		MaxTTSTextLen:  envInt("MAX_TTS_TEXT_LEN", 1900),
		MaxUploadBytes: int64(envInt("MAX_UPLOAD_BYTES", 10*1024*1024)),
		JobTimeout:     time.Duration(envInt("JOB_TIMEOUT_SEC", 900)) * time.Second,
		LogLevel:       envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
