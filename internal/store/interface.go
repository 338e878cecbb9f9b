package store

import (
	"context"
	"errors"

	"github.com/falacast/falacast/podcast"
)

// ErrNotFound reports that the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// DataStore is the interface consumed by the API layer. The concrete
// implementation is *Store (pgx-backed).
type DataStore interface {
	CreatePodcast(ctx context.Context, p podcast.Podcast) (podcast.Podcast, error)
	GetPodcast(ctx context.Context, id int64) (podcast.Podcast, error)
	ListPodcasts(ctx context.Context, userID string) ([]podcast.Podcast, error)
	UpdatePodcastAudio(ctx context.Context, id int64, audioURL string, fileSize int64) (podcast.Podcast, error)
	CreateAudioChunk(ctx context.Context, c podcast.AudioChunk) (podcast.AudioChunk, error)
	GetAudioChunks(ctx context.Context, podcastID int64) ([]podcast.AudioChunk, error)
	Close()
}
