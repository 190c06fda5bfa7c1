// Package styling splits section text into sentence-level segments and
// scores each one for visual emphasis.
package styling

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"privlens/internal/analyzer"
	"privlens/internal/domain"
)

// DefaultHighThreshold is the segment score at which a segment requires attention.
const DefaultHighThreshold = 8.0

// MediumThreshold is the lower bound of the medium sensitivity band.
const MediumThreshold = 6.0

// Input is the text of one section together with the section-level signals
// used to score its segments.
type Input struct {
	Text        string
	Sensitivity float64
	DataTypes   []domain.DataType
}

// Styler produces StyledContent. It is stateless and safe for concurrent use.
type Styler struct {
	highThreshold float64
	logger        *zap.Logger
}

// New creates a Styler. A non-positive threshold selects DefaultHighThreshold.
func New(highThreshold float64, logger *zap.Logger) *Styler {
	if highThreshold <= 0 {
		highThreshold = DefaultHighThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Styler{highThreshold: highThreshold, logger: logger}
}

// Style segments in.Text. The segments concatenate to in.Text exactly; when
// that cannot be guaranteed the result has StylingApplied=false and no
// segments.
func (s *Styler) Style(idPrefix string, in Input) domain.StyledContent {
	out := domain.StyledContent{
		OriginalText: in.Text,
		Segments:     []domain.TextSegment{},
	}
	if strings.TrimSpace(in.Text) == "" || !utf8.ValidString(in.Text) {
		return out
	}

	spans := Split(in.Text)
	segments := make([]domain.TextSegment, 0, len(spans))
	sectionTypes := map[domain.DataType]bool{}
	for _, dt := range in.DataTypes {
		sectionTypes[dt] = true
	}

	var weighted, totalLen float64
	runePos := 0
	for i, sp := range spans {
		score, context, terms := s.scoreSegment(sp, in.Sensitivity, sectionTypes)
		st := StyleFor(score, context)
		n := utf8.RuneCountInString(sp)

		segments = append(segments, domain.TextSegment{
			ID:                fmt.Sprintf("%s_seg_%d", idPrefix, i),
			Text:              sp,
			StartPosition:     runePos,
			EndPosition:       runePos + n,
			SensitivityScore:  score,
			HighlightColor:    st.HighlightColor,
			TextColor:         st.TextColor,
			FontWeight:        st.FontWeight,
			TextEmphasisLevel: st.Emphasis,
			RequiresAttention: score >= s.highThreshold,
			ContextType:       context,
			KeyTerms:          terms,
		})
		runePos += n

		switch {
		case score >= s.highThreshold:
			out.HighSensitivityCount++
		case score >= MediumThreshold:
			out.MediumSensitivityCount++
		}
		if strings.TrimSpace(sp) != "" {
			weighted += score * float64(n)
			totalLen += float64(n)
		}
	}

	if !roundTrips(in.Text, segments) {
		s.logger.Warn("styling.Style: segments do not reconstruct text, styling skipped",
			zap.String("id", idPrefix),
		)
		return domain.StyledContent{OriginalText: in.Text, Segments: []domain.TextSegment{}}
	}

	out.Segments = segments
	out.TotalSegments = len(segments)
	out.StylingApplied = true
	if totalLen > 0 {
		out.OverallSensitivity = round1(weighted / totalLen)
	}
	return out
}

// scoreSegment applies the fixed rule: with any lexicon or data-type hit the
// score is 0.6*strongest hit + 0.4*section sensitivity; otherwise it is half
// the section sensitivity.
func (s *Styler) scoreSegment(text string, sectionSens float64, sectionTypes map[domain.DataType]bool) (float64, string, []string) {
	tokens := analyzer.Words(text)
	best := -1.0
	context := ContextGeneral
	terms := []string{}

	for _, lt := range lexicon {
		if !lt.match.In(tokens) {
			continue
		}
		terms = appendUnique(terms, lt.match.String())
		if lt.weight > best {
			best = lt.weight
			context = lt.context
		}
	}

	if dt, ok := analyzer.ClassifyDataType(text); ok && sectionTypes[dt] {
		if w := dataTypeWeight[dt]; w > best {
			best = w
			context = ContextDataCollection
			if dt == domain.DataTypeSensitive {
				context = ContextSensitiveData
			} else if dt == domain.DataTypeFinancial {
				context = ContextFinancial
			}
		}
	}

	sectionSens = clamp(sectionSens)
	var score float64
	if best >= 0 {
		score = 0.6*best + 0.4*sectionSens
	} else {
		score = 0.5 * sectionSens
	}
	return round1(clamp(score)), context, terms
}

// Split cuts text after sentence or clause punctuation followed by
// whitespace, and after line breaks. Trailing whitespace stays with the
// segment it follows and leading whitespace joins the first segment, so the
// pieces concatenate to text.
func Split(text string) []string {
	var out []string
	start := 0
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		next := i + size
		boundary := false
		switch {
		case r == '\n':
			boundary = true
		case strings.ContainsRune(".!?;", r) && next < len(text):
			nr, _ := utf8.DecodeRuneInString(text[next:])
			boundary = unicode.IsSpace(nr)
		}
		if boundary {
			for next < len(text) {
				nr, nsize := utf8.DecodeRuneInString(text[next:])
				if !unicode.IsSpace(nr) {
					break
				}
				next += nsize
			}
			if strings.TrimSpace(text[start:next]) != "" {
				out = append(out, text[start:next])
				start = next
			}
		}
		i = next
	}
	if start < len(text) {
		if len(out) > 0 && strings.TrimSpace(text[start:]) == "" {
			out[len(out)-1] += text[start:]
		} else {
			out = append(out, text[start:])
		}
	}
	return out
}

func roundTrips(text string, segments []domain.TextSegment) bool {
	var b strings.Builder
	b.Grow(len(text))
	for _, seg := range segments {
		b.WriteString(seg.Text)
	}
	return b.String() == text
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(10, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
