// Package content turns raw speaker-tagged conversation text into ordered,
// bounded chunks with a two-role voice assignment, plus the small text
// utilities the audio path needs.
package content

import (
	"regexp"
	"strings"

	"github.com/falacast/falacast/podcast"
)

var speakerLineRe = regexp.MustCompile(`^([^:]+):\s*(.+)$`)

// Chunker splits conversations into TTS-sized pieces.
type Chunker struct {
	maxChunkSize int
}

// NewChunker creates a chunker with the given character bound per chunk.
// A non-positive bound falls back to the default.
func NewChunker(maxChunkSize int) *Chunker {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	return &Chunker{maxChunkSize: maxChunkSize}
}

// ParseConversation converts raw text into ordered lines. A line of the form
// "Name: utterance" starts a new utterance; anything else continues the
// previous one, or belongs to the Unknown speaker when nothing precedes it.
func ParseConversation(text string) []podcast.Line {
	var lines []podcast.Line

	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		if m := speakerLineRe.FindStringSubmatch(raw); m != nil {
			lines = append(lines, podcast.Line{Speaker: strings.TrimSpace(m[1]), Text: strings.TrimSpace(m[2])})
			continue
		}

		if len(lines) > 0 {
			lines[len(lines)-1].Text += " " + raw
		} else {
			lines = append(lines, podcast.Line{Speaker: UnknownSpeaker, Text: raw})
		}
	}

	return lines
}

// AssignVoices maps speakers to the two voice roles: the speaker of the very
// first line gets the primary voice, every other distinct name the secondary.
func AssignVoices(lines []podcast.Line) podcast.VoiceAssignment {
	var va podcast.VoiceAssignment
	for _, l := range lines {
		if va.Primary == "" {
			va.Primary = l.Speaker
			continue
		}
		if va.Secondary == "" && l.Speaker != va.Primary {
			va.Secondary = l.Speaker
		}
	}
	return va
}

// Split parses the conversation and groups its lines into ordered chunks
// whose rendered text stays within the configured bound. A chunk boundary
// never splits a line; a single line longer than the bound occupies its own
// chunk whole.
func (c *Chunker) Split(text string) []podcast.Chunk {
	lines := ParseConversation(text)
	if len(lines) == 0 {
		return nil
	}
	voices := AssignVoices(lines)

	var chunks []podcast.Chunk
	current := podcast.Chunk{Index: 0, Voices: voices}
	currentLen := 0

	for _, line := range lines {
		lineLen := len(line.Speaker) + 2 + len(line.Text) // "Speaker: text"
		sep := 0
		if len(current.Lines) > 0 {
			sep = 1 // newline joining lines within the chunk
		}

		if len(current.Lines) > 0 && currentLen+sep+lineLen > c.maxChunkSize {
			chunks = append(chunks, current)
			current = podcast.Chunk{Index: current.Index + 1, Voices: voices}
			currentLen = 0
			sep = 0
		}

		current.Lines = append(current.Lines, line)
		currentLen += sep + lineLen
	}

	if len(current.Lines) > 0 {
		chunks = append(chunks, current)
	}

	return chunks
}
