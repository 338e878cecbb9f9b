package script

import (
	"regexp"
	"strings"
)

var (
	speakerVariants = []*regexp.Regexp{
		regexp.MustCompile(`(?i)apresentador\s*([12])\s*:`),
		regexp.MustCompile(`(?i)host\s*([12])\s*:`),
		regexp.MustCompile(`(?i)locutor\s*([12])\s*:`),
	}
	speakerLabelRe = regexp.MustCompile(`(Apresentador [12]:)\s*(.+)`)
	annotationRe   = regexp.MustCompile(`\[.*?\]`)
	labelBreakRe   = regexp.MustCompile(`(\bApresentador \d+:)`)
	blankRunRe     = regexp.MustCompile(`\n\n+`)
)

// normalizeScript maps every casing and naming variant of the two speaker
// labels onto the canonical "Apresentador N:" form and puts each utterance
// on its own line.
func normalizeScript(raw string) string {
	s := strings.TrimSpace(raw)

	for _, re := range speakerVariants {
		s = re.ReplaceAllString(s, "Apresentador $1:")
	}

	s = labelBreakRe.ReplaceAllString(s, "\n$1")
	s = blankRunRe.ReplaceAllString(s, "\n")

	return strings.TrimSpace(s)
}

// cleanForTTS keeps only speaker-labeled dialogue lines, stripping emphasis
// markers and bracketed stage directions from each. When no dialogue line
// survives, the original script is returned unchanged so the caller still
// has something to synthesize.
func cleanForTTS(script string) string {
	var cleaned []string

	for _, line := range strings.Split(script, "\n") {
		if !strings.Contains(line, "Apresentador 1:") && !strings.Contains(line, "Apresentador 2:") {
			continue
		}

		line = strings.ReplaceAll(line, "**", "")
		m := speakerLabelRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		speech := annotationRe.ReplaceAllString(m[2], "")
		speech = strings.TrimSpace(speech)
		cleaned = append(cleaned, m[1]+" "+speech)
	}

	if len(cleaned) == 0 {
		return script
	}

	return strings.Join(cleaned, "\n")
}
