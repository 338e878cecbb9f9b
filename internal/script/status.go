// Package script implements the multi-stage podcast script generation
// pipeline and the single-slot status record polled by clients.
package script

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/falacast/falacast/podcast"
)

// Errors callers branch on when starting or reading a generation job.
var (
	ErrJobInProgress = errors.New("a script generation is already in progress")
	ErrNotOwner      = errors.New("job belongs to a different user")
	ErrNotReady      = errors.New("script generation has not completed")
	ErrNoJob         = errors.New("no script generation has been started")
)

// Snapshot is the client-visible view of the generation job.
type Snapshot struct {
	InProgress     bool          `json:"inProgress"`
	Stage          podcast.Stage `json:"stage"`
	Progress       int           `json:"progress"`
	Topic          string        `json:"topic,omitempty"`
	ElapsedSeconds int           `json:"elapsedSeconds"`
	Message        string        `json:"message,omitempty"`
}

type job struct {
	id         string
	inProgress bool
	stage      podcast.Stage
	progress   int
	ownerID    string
	topic      string
	startedAt  time.Time
	message    string
	result     *podcast.ScriptResult
}

// Status is the single-slot in-memory record of the current generation job.
// Only one generation may be in flight process-wide; a second start is
// rejected until the first finishes or exceeds the stale timeout.
type Status struct {
	mu      sync.Mutex
	timeout time.Duration
	job     *job
	now     func() time.Time
}

// NewStatus creates a status store. Jobs older than timeout count as stuck
// and may be taken over by the next Start; a non-positive timeout disables
// the takeover.
func NewStatus(timeout time.Duration) *Status {
	return &Status{timeout: timeout, now: time.Now}
}

// Start claims the job slot for the given topic and owner. It fails with
// ErrJobInProgress while another job is running, unless that job has
// exceeded the stale timeout, in which case it is force-reset.
func (s *Status) Start(topic, ownerID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.job != nil && s.job.inProgress {
		if s.timeout <= 0 || s.now().Sub(s.job.startedAt) < s.timeout {
			return "", ErrJobInProgress
		}
		slog.Warn("taking over stale generation job",
			"job_id", s.job.id, "topic", s.job.topic, "started_at", s.job.startedAt)
	}

	s.job = &job{
		id:         uuid.NewString(),
		inProgress: true,
		stage:      podcast.StageIdle,
		ownerID:    ownerID,
		topic:      topic,
		startedAt:  s.now(),
	}
	return s.job.id, nil
}

// Advance records a stage transition with its progress checkpoint.
func (s *Status) Advance(stage podcast.Stage, progress int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.job == nil {
		return
	}
	s.job.stage = stage
	s.job.progress = progress
	slog.Info("script generation progress", "stage", stage, "progress", progress)
}

// SetProgress updates the percentage within the current stage.
func (s *Status) SetProgress(progress int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.job == nil {
		return
	}
	s.job.progress = progress
}

// Complete marks the job finished and caches its result for result reads.
func (s *Status) Complete(result podcast.ScriptResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.job == nil {
		return
	}
	s.job.inProgress = false
	s.job.stage = podcast.StageComplete
	s.job.progress = 100
	s.job.result = &result
}

// Fail resets the slot to idle so the user can resubmit, keeping the error
// message for the next status read.
func (s *Status) Fail(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.job == nil {
		return
	}
	s.job.inProgress = false
	s.job.stage = podcast.StageIdle
	s.job.progress = 0
	s.job.result = nil
	s.job.message = message
}

// Snapshot returns the current job state for the given requester. Reads from
// an identity other than the job's owner are rejected regardless of stage.
func (s *Status) Snapshot(ownerID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.job == nil {
		return Snapshot{Stage: podcast.StageIdle}, nil
	}
	if s.job.ownerID != "" && s.job.ownerID != ownerID {
		return Snapshot{}, ErrNotOwner
	}

	return Snapshot{
		InProgress:     s.job.inProgress,
		Stage:          s.job.stage,
		Progress:       s.job.progress,
		Topic:          s.job.topic,
		ElapsedSeconds: int(s.now().Sub(s.job.startedAt).Seconds()),
		Message:        s.job.message,
	}, nil
}

// Result returns the cached script once generation completed. It
// distinguishes "never started" (ErrNoJob), "still running or not cached"
// (ErrNotReady) and "not yours" (ErrNotOwner).
func (s *Status) Result(ownerID string) (podcast.ScriptResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.job == nil {
		return podcast.ScriptResult{}, ErrNoJob
	}
	if s.job.ownerID != "" && s.job.ownerID != ownerID {
		return podcast.ScriptResult{}, ErrNotOwner
	}
	if s.job.inProgress {
		return podcast.ScriptResult{}, ErrNotReady
	}
	if s.job.stage != podcast.StageComplete || s.job.result == nil {
		if s.job.stage == podcast.StageIdle {
			return podcast.ScriptResult{}, ErrNoJob
		}
		return podcast.ScriptResult{}, ErrNotReady
	}

	return *s.job.result, nil
}
