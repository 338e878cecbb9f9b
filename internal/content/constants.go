package content

// chunking limits
const (
	// DefaultMaxChunkSize bounds the character length of one TTS chunk.
	DefaultMaxChunkSize = 2000

	// UnknownSpeaker labels lines that appear before any recognized
	// "Name:" prefix.
	UnknownSpeaker = "Unknown"
)

// text processing constants for Brazilian Portuguese speech
const (
	avgCharsPerWord   = 5.2
	avgWordsPerMinute = 150.0
)

// truncation
const (
	// naturalBoundaryRatio is how far back from the cap a newline or space
	// may sit and still count as a natural cut point.
	naturalBoundaryRatio = 0.8
)
