package segmenter

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"privlens/internal/domain"
)

// DefaultMaxChunkSize is the chunk budget in bytes when none is configured.
const DefaultMaxChunkSize = 4000

// Bounds for a chunk budget supplied with a single request.
const (
	MinRequestChunkSize = 500
	MaxRequestChunkSize = 20000
)

// block is a run of lines that must not be split unless it alone exceeds the
// budget: a paragraph (or heading plus following lines) and its trailing
// blank lines.
type block struct {
	start, end  int
	heading     string
	headingOnly bool
}

func (b block) size() int { return b.end - b.start }

// Segmenter splits policy text into ordered, gap-free chunks.
type Segmenter struct {
	maxChunkSize int
}

// New creates a Segmenter with the given byte budget per chunk.
func New(maxChunkSize int) *Segmenter {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	return &Segmenter{maxChunkSize: maxChunkSize}
}

// Segment splits text into chunks. Concatenating RawText of the result in
// order yields text exactly. Splits prefer heading and blank-line boundaries;
// a block larger than the budget is cut at the last whitespace that fits, or
// hard-cut on a rune boundary when there is none. Trailing whitespace never
// forms a chunk of its own, so a chunk may exceed the budget by whitespace.
func (s *Segmenter) Segment(text string) ([]domain.ContentChunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewInputError(domain.ErrEmptyInput, "nothing to segment")
	}

	var spans []block
	cur := block{start: -1}
	curHeadingsOnly := true

	flush := func() {
		if cur.start >= 0 && cur.end > cur.start {
			spans = append(spans, cur)
		}
		cur = block{start: -1}
		curHeadingsOnly = true
	}

	for _, b := range splitBlocks(text) {
		if b.size() > s.maxChunkSize {
			flush()
			pieces := s.splitOversized(text, b)
			spans = append(spans, pieces...)
			continue
		}

		switch {
		case cur.start < 0:
			cur = b
		case cur.size()+b.size() > s.maxChunkSize,
			b.heading != "" && !curHeadingsOnly:
			flush()
			cur = b
		default:
			cur.end = b.end
			if cur.heading == "" {
				cur.heading = b.heading
			}
		}
		if !b.headingOnly {
			curHeadingsOnly = false
		}
	}
	flush()

	spans = foldWhitespace(text, spans)

	chunks := make([]domain.ContentChunk, len(spans))
	for i, sp := range spans {
		raw := text[sp.start:sp.end]
		chunks[i] = domain.ContentChunk{
			ID:         fmt.Sprintf("chunk_%d", i),
			OrderIndex: i,
			RawText:    raw,
			Heading:    sp.heading,
			Offset:     sp.start,
			Tokens:     EstimateTokens(raw),
		}
	}
	return chunks, nil
}

// splitBlocks partitions text into blocks. A new block starts at a non-blank
// line that follows a blank line or that looks like a heading.
func splitBlocks(text string) []block {
	var blocks []block
	cur := block{start: 0}
	hasContent := false
	prevBlank := false
	contentLines := 0

	offset := 0
	for offset < len(text) {
		end := strings.IndexByte(text[offset:], '\n')
		if end < 0 {
			end = len(text)
		} else {
			end = offset + end + 1
		}
		line := text[offset:end]
		blank := strings.TrimSpace(line) == ""
		heading := !blank && IsHeading(line)

		if !blank && hasContent && (prevBlank || heading) {
			cur.end = offset
			cur.headingOnly = cur.heading != "" && contentLines == 1
			blocks = append(blocks, cur)
			cur = block{start: offset}
			hasContent = false
			contentLines = 0
		}
		if !blank {
			contentLines++
		}
		if !blank && !hasContent {
			hasContent = true
			if heading {
				cur.heading = CleanHeading(line)
			}
		}
		prevBlank = blank
		offset = end
	}
	cur.end = len(text)
	cur.headingOnly = cur.heading != "" && contentLines == 1
	blocks = append(blocks, cur)
	return blocks
}

// splitOversized cuts one block into pieces no larger than the budget.
func (s *Segmenter) splitOversized(text string, b block) []block {
	var pieces []block
	start := b.start
	for b.end-start > s.maxChunkSize {
		cut := cutPoint(text[start:b.end], s.maxChunkSize)
		pieces = append(pieces, block{start: start, end: start + cut})
		start += cut
	}
	pieces = append(pieces, block{start: start, end: b.end})
	pieces[0].heading = b.heading
	return pieces
}

// cutPoint returns the byte length of the first piece of s given budget max.
// It cuts just after the last whitespace rune that lies after some content.
func cutPoint(s string, max int) int {
	window := s[:max]
	// Back up to a rune boundary so the window never ends mid-rune.
	for len(window) > 0 && !utf8.RuneStart(s[len(window)]) {
		window = window[:len(window)-1]
	}

	firstContent := strings.IndexFunc(window, func(r rune) bool { return !unicode.IsSpace(r) })
	if firstContent >= 0 {
		last := strings.LastIndexFunc(window, unicode.IsSpace)
		if last > firstContent {
			_, size := utf8.DecodeRuneInString(window[last:])
			return last + size
		}
	}
	if len(window) == 0 {
		// Budget smaller than one rune: take the whole rune.
		_, size := utf8.DecodeRuneInString(s)
		return size
	}
	return len(window)
}

// foldWhitespace merges whitespace-only spans into a neighbour so every chunk
// carries content.
func foldWhitespace(text string, spans []block) []block {
	out := make([]block, 0, len(spans))
	pending := -1
	for _, sp := range spans {
		if strings.TrimSpace(text[sp.start:sp.end]) == "" {
			if len(out) > 0 {
				out[len(out)-1].end = sp.end
			} else if pending < 0 {
				pending = sp.start
			}
			continue
		}
		if pending >= 0 {
			sp.start = pending
			pending = -1
		}
		out = append(out, sp)
	}
	return out
}

// IsHeading reports whether a line looks like a section heading: a markdown
// heading, or a short line that starts with an uppercase letter or digit and
// does not end in sentence punctuation.
func IsHeading(line string) bool {
	t := strings.TrimSpace(line)
	if t == "" {
		return false
	}
	if strings.HasPrefix(t, "#") {
		return true
	}
	if len(t) > 80 || len(strings.Fields(t)) > 10 {
		return false
	}
	first, _ := utf8.DecodeRuneInString(t)
	if !unicode.IsUpper(first) && !unicode.IsDigit(first) {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(t)
	return !strings.ContainsRune(".,;!?", last)
}

// CleanHeading strips markdown markers and a trailing colon from a heading line.
func CleanHeading(line string) string {
	t := strings.TrimSpace(line)
	t = strings.TrimLeft(t, "#")
	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, ":")
	return strings.Trim(t, "*_ ")
}

// EstimateTokens approximates the token count of text at 1.3 tokens per word.
func EstimateTokens(text string) int {
	return int(math.Ceil(float64(len(strings.Fields(text))) * 1.3))
}
