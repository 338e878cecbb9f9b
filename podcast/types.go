// Package podcast holds the domain types shared across the service.
package podcast

import "time"

// Voice is one entry of the fixed pt-BR voice catalog.
type Voice struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Gender string `json:"gender"` // "male" or "female"
}

// Line is a single utterance in a conversation, attributed to a speaker.
type Line struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// VoiceRole is one of the two voice slots a conversation speaker maps to.
type VoiceRole string

const (
	VoicePrimary   VoiceRole = "primary"
	VoiceSecondary VoiceRole = "secondary"
)

// VoiceAssignment maps speaker names to the two voice roles in first-seen
// order. The fixed two-element layout makes the two-voice constraint explicit.
type VoiceAssignment struct {
	Primary   string // name of the first-seen speaker
	Secondary string // name of the second distinct speaker, if any
}

// RoleOf returns the role assigned to the given speaker. Speakers beyond the
// first two distinct names collapse onto the secondary role.
func (va VoiceAssignment) RoleOf(speaker string) VoiceRole {
	if speaker == va.Primary {
		return VoicePrimary
	}
	return VoiceSecondary
}

// Map renders the assignment as a speaker->role mapping for persistence.
func (va VoiceAssignment) Map() map[string]VoiceRole {
	m := make(map[string]VoiceRole, 2)
	if va.Primary != "" {
		m[va.Primary] = VoicePrimary
	}
	if va.Secondary != "" {
		m[va.Secondary] = VoiceSecondary
	}
	return m
}

// Chunk is a bounded-length slice of a conversation, synthesized
// independently by the TTS collaborator.
type Chunk struct {
	Index  int             `json:"index"`
	Lines  []Line          `json:"lines"`
	Voices VoiceAssignment `json:"-"`
}

// Text renders the chunk back to speaker-tagged lines.
func (c Chunk) Text() string {
	out := ""
	for i, l := range c.Lines {
		if i > 0 {
			out += "\n"
		}
		out += l.Speaker + ": " + l.Text
	}
	return out
}

// Segment is the synthesized audio corresponding to one chunk.
type Segment struct {
	Index    int     `json:"index"`
	URL      string  `json:"url"`
	Duration float64 `json:"durationSeconds"`
	Size     int64   `json:"fileSizeBytes"`
}

// MergedAudio is the final assembled artifact.
type MergedAudio struct {
	URL         string `json:"url"`
	Duration    int    `json:"durationSeconds"`
	Size        int64  `json:"fileSizeBytes"`
	TotalChunks int    `json:"totalChunks"`
}

// ScriptResult is the output of a completed script generation.
type ScriptResult struct {
	Script      string `json:"script"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Stage is one step of the script-generation pipeline.
type Stage string

const (
	StageIdle         Stage = "idle"
	StageInterpreting Stage = "interpreting"
	StageResearching  Stage = "researching"
	StageStrategizing Stage = "strategizing"
	StageWriting      Stage = "writing"
	StageEditing      Stage = "editing"
	StageComplete     Stage = "complete"
)

// Podcast is the persisted podcast record.
type Podcast struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"userId"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Language      string    `json:"language"`
	AudioURL      string    `json:"audioUrl"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	Duration      int       `json:"duration"`
	ChunkCount    int       `json:"chunkCount"`
	FileSize      int64     `json:"fileSize"`
	Conversation  string    `json:"conversation"`
	CreatedAt     time.Time `json:"createdAt"`
}

// AudioChunk is the persisted per-chunk audio reference of a podcast.
type AudioChunk struct {
	ID         int64     `json:"id"`
	PodcastID  int64     `json:"podcastId"`
	ChunkIndex int       `json:"chunkIndex"`
	AudioURL   string    `json:"audioUrl"`
	Duration   int       `json:"duration"`
	FileSize   int64     `json:"fileSize"`
	Text       string    `json:"text"`
	SpeakerMap string    `json:"speakerMap,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
