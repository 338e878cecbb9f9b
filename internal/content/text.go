package content

import (
	"strings"
	"unicode/utf8"

	"github.com/falacast/falacast/podcast"
)

// EstimateDuration estimates the spoken duration of text in seconds.
func EstimateDuration(text string) float64 {
	// brazilian portuguese runs around 150 words per minute with roughly
	// five characters per word

	// count characters excluding whitespace
	charCount := 0
	for _, char := range text {
		if char != ' ' && char != '\n' && char != '\t' && char != '\r' {
			charCount++
		}
	}

	estimatedWords := float64(charCount) / avgCharsPerWord
	return estimatedWords / avgWordsPerMinute * 60.0
}

// EstimateChunkDuration estimates the spoken duration of a chunk's lines.
func EstimateChunkDuration(chunk podcast.Chunk) float64 {
	var total float64
	for _, line := range chunk.Lines {
		total += EstimateDuration(line.Text)
	}
	return total
}

// TruncateAtBoundary cuts text to at most maxLen bytes, preferring the last
// newline before the limit, then the last space. When the natural point sits
// too far back it falls through to a hard cut, adjusted so multi-byte
// characters are never split.
func TruncateAtBoundary(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}

	cut := strings.LastIndexByte(text[:maxLen], '\n')
	if cut == -1 {
		cut = strings.LastIndexByte(text[:maxLen], ' ')
	}
	if cut == -1 || float64(cut) < float64(maxLen)*naturalBoundaryRatio {
		cut = maxLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
	}

	return text[:cut]
}

// TruncateForDisplay shortens a string for log output, appending "..." when
// anything was dropped. Multi-byte characters are preserved.
func TruncateForDisplay(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes]) + "..."
}
