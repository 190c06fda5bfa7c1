package segmenter

import (
	"fmt"
	"strings"

	"privlens/internal/domain"
)

const (
	maxTitleLen       = 100
	maxColonPrefixLen = 60
	maxSentenceTitle  = 80
)

// ExtractTitle derives a display title for a chunk. Precedence:
// detected heading, a heading-like line among the first three lines, a
// "Label: text" colon prefix, a short first sentence, then "Section N".
func ExtractTitle(chunk domain.ContentChunk) string {
	if h := strings.TrimSpace(chunk.Heading); h != "" {
		return h
	}

	lines := firstLines(chunk.RawText, 3)
	for _, line := range lines {
		if len(line) < maxTitleLen && IsHeading(line) {
			return CleanHeading(line)
		}
	}

	if len(lines) > 0 {
		if idx := strings.Index(lines[0], ":"); idx > 0 && idx <= maxColonPrefixLen {
			prefix := strings.TrimSpace(lines[0][:idx])
			if prefix != "" && len(strings.Fields(prefix)) <= 8 {
				return prefix
			}
		}

		sentence := firstSentence(lines[0])
		if sentence != "" && len(sentence) <= maxSentenceTitle {
			return strings.TrimRight(sentence, ".!?")
		}
	}

	return fmt.Sprintf("Section %d", chunk.OrderIndex+1)
}

func firstLines(text string, n int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == n {
			break
		}
	}
	return out
}

func firstSentence(text string) string {
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if i+1 == len(text) || text[i+1] == ' ' {
				return strings.TrimSpace(text[:i+1])
			}
		}
	}
	return ""
}
