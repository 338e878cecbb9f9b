// Package testutil holds shared test doubles.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/falacast/falacast/internal/store"
	"github.com/falacast/falacast/podcast"
)

// MockStore is a thread-safe in-memory implementation of store.DataStore for testing.
type MockStore struct {
	mu sync.Mutex

	Podcasts map[int64]podcast.Podcast
	Chunks   map[int64][]podcast.AudioChunk
	nextID   int64

	CreateErr error
	UpdateErr error

	CreateCalls int
	UpdateCalls int
}

func NewMockStore() *MockStore {
	return &MockStore{
		Podcasts: make(map[int64]podcast.Podcast),
		Chunks:   make(map[int64][]podcast.AudioChunk),
		nextID:   1,
	}
}

func (m *MockStore) CreatePodcast(_ context.Context, p podcast.Podcast) (podcast.Podcast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.CreateErr != nil {
		return podcast.Podcast{}, m.CreateErr
	}
	p.ID = m.nextID
	m.nextID++
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	m.Podcasts[p.ID] = p
	return p, nil
}

func (m *MockStore) GetPodcast(_ context.Context, id int64) (podcast.Podcast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Podcasts[id]
	if !ok {
		return podcast.Podcast{}, store.ErrNotFound
	}
	return p, nil
}

func (m *MockStore) ListPodcasts(_ context.Context, userID string) ([]podcast.Podcast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []podcast.Podcast
	for _, p := range m.Podcasts {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *MockStore) UpdatePodcastAudio(_ context.Context, id int64, audioURL string, fileSize int64) (podcast.Podcast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	if m.UpdateErr != nil {
		return podcast.Podcast{}, m.UpdateErr
	}
	p, ok := m.Podcasts[id]
	if !ok {
		return podcast.Podcast{}, store.ErrNotFound
	}
	p.AudioURL = audioURL
	p.FileSize = fileSize
	m.Podcasts[id] = p
	return p, nil
}

func (m *MockStore) CreateAudioChunk(_ context.Context, c podcast.AudioChunk) (podcast.AudioChunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.nextID
	m.nextID++
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	m.Chunks[c.PodcastID] = append(m.Chunks[c.PodcastID], c)
	return c, nil
}

func (m *MockStore) GetAudioChunks(_ context.Context, podcastID int64) ([]podcast.AudioChunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	chunks := make([]podcast.AudioChunk, len(m.Chunks[podcastID]))
	copy(chunks, m.Chunks[podcastID])
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].ChunkIndex < chunks[j].ChunkIndex })
	return chunks, nil
}

func (m *MockStore) Close() {}

// SetPodcast seeds a podcast for testing.
func (m *MockStore) SetPodcast(p podcast.Podcast) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Podcasts[p.ID] = p
	if p.ID >= m.nextID {
		m.nextID = p.ID + 1
	}
}
