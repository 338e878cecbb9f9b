// Package store persists podcasts and their audio chunks in Postgres.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/falacast/falacast/podcast"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the tables the service needs if they are missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS podcasts (
			id              BIGSERIAL PRIMARY KEY,
			user_id         VARCHAR NOT NULL,
			title           TEXT NOT NULL,
			author          TEXT NOT NULL,
			description     TEXT NOT NULL,
			category        TEXT NOT NULL,
			language        TEXT NOT NULL DEFAULT 'en',
			audio_url       TEXT NOT NULL,
			cover_image_url TEXT,
			duration        INTEGER NOT NULL,
			chunk_count     INTEGER NOT NULL,
			file_size       BIGINT NOT NULL,
			conversation    TEXT NOT NULL,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS podcast_audio_chunks (
			id          BIGSERIAL PRIMARY KEY,
			podcast_id  BIGINT NOT NULL REFERENCES podcasts(id) ON DELETE CASCADE,
			chunk_index INTEGER NOT NULL,
			audio_url   TEXT NOT NULL,
			duration    INTEGER NOT NULL,
			file_size   BIGINT NOT NULL,
			text        TEXT NOT NULL,
			speaker_map TEXT,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_podcasts_user_id ON podcasts(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_podcast_id ON podcast_audio_chunks(podcast_id)`,
	}

	for _, q := range ddl {
		if _, err := s.pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	slog.Debug("database schema verified")
	return nil
}

const podcastColumns = `id, user_id, title, author, description, category, language, audio_url,
	COALESCE(cover_image_url, ''), duration, chunk_count, file_size, conversation, created_at`

func scanPodcast(row pgx.Row) (podcast.Podcast, error) {
	var p podcast.Podcast
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Author, &p.Description, &p.Category, &p.Language,
		&p.AudioURL, &p.CoverImageURL, &p.Duration, &p.ChunkCount, &p.FileSize, &p.Conversation, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return podcast.Podcast{}, ErrNotFound
	}
	return p, err
}

// CreatePodcast inserts a podcast and returns it with its assigned id.
func (s *Store) CreatePodcast(ctx context.Context, p podcast.Podcast) (podcast.Podcast, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO podcasts (user_id, title, author, description, category, language, audio_url,
			cover_image_url, duration, chunk_count, file_size, conversation)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10, $11, $12)
		RETURNING `+podcastColumns,
		p.UserID, p.Title, p.Author, p.Description, p.Category, p.Language, p.AudioURL,
		p.CoverImageURL, p.Duration, p.ChunkCount, p.FileSize, p.Conversation)

	created, err := scanPodcast(row)
	if err != nil {
		return podcast.Podcast{}, fmt.Errorf("insert podcast: %w", err)
	}
	return created, nil
}

// GetPodcast returns a podcast by id, or ErrNotFound.
func (s *Store) GetPodcast(ctx context.Context, id int64) (podcast.Podcast, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+podcastColumns+` FROM podcasts WHERE id = $1`, id)
	p, err := scanPodcast(row)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return podcast.Podcast{}, fmt.Errorf("get podcast: %w", err)
	}
	return p, err
}

// ListPodcasts returns the podcasts owned by a user, newest first.
func (s *Store) ListPodcasts(ctx context.Context, userID string) ([]podcast.Podcast, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+podcastColumns+` FROM podcasts WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list podcasts: %w", err)
	}
	defer rows.Close()

	var result []podcast.Podcast
	for rows.Next() {
		p, err := scanPodcast(rows)
		if err != nil {
			return nil, fmt.Errorf("scan podcast: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// UpdatePodcastAudio replaces a podcast's audio URL and file size after a
// merge and returns the updated record.
func (s *Store) UpdatePodcastAudio(ctx context.Context, id int64, audioURL string, fileSize int64) (podcast.Podcast, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE podcasts SET audio_url = $2, file_size = $3 WHERE id = $1
		RETURNING `+podcastColumns, id, audioURL, fileSize)
	p, err := scanPodcast(row)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return podcast.Podcast{}, fmt.Errorf("update podcast audio: %w", err)
	}
	return p, err
}

// CreateAudioChunk inserts a per-chunk audio record.
func (s *Store) CreateAudioChunk(ctx context.Context, c podcast.AudioChunk) (podcast.AudioChunk, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO podcast_audio_chunks (podcast_id, chunk_index, audio_url, duration, file_size, text, speaker_map)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
		RETURNING id, podcast_id, chunk_index, audio_url, duration, file_size, text, COALESCE(speaker_map, ''), created_at`,
		c.PodcastID, c.ChunkIndex, c.AudioURL, c.Duration, c.FileSize, c.Text, c.SpeakerMap)

	var created podcast.AudioChunk
	err := row.Scan(&created.ID, &created.PodcastID, &created.ChunkIndex, &created.AudioURL,
		&created.Duration, &created.FileSize, &created.Text, &created.SpeakerMap, &created.CreatedAt)
	if err != nil {
		return podcast.AudioChunk{}, fmt.Errorf("insert audio chunk: %w", err)
	}
	return created, nil
}

// GetAudioChunks returns a podcast's chunks ordered by chunk index.
func (s *Store) GetAudioChunks(ctx context.Context, podcastID int64) ([]podcast.AudioChunk, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, podcast_id, chunk_index, audio_url, duration, file_size, text, COALESCE(speaker_map, ''), created_at
		FROM podcast_audio_chunks WHERE podcast_id = $1 ORDER BY chunk_index`, podcastID)
	if err != nil {
		return nil, fmt.Errorf("get audio chunks: %w", err)
	}
	defer rows.Close()

	var result []podcast.AudioChunk
	for rows.Next() {
		var c podcast.AudioChunk
		if err := rows.Scan(&c.ID, &c.PodcastID, &c.ChunkIndex, &c.AudioURL, &c.Duration,
			&c.FileSize, &c.Text, &c.SpeakerMap, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audio chunk: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
