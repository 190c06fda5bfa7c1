package analyzer

import (
	"strings"
	"unicode"
)

// Term is a keyword or phrase matched on word boundaries. A trailing "*"
// turns the last word into a prefix stem ("profil*" matches "profiling");
// otherwise the last word also matches its plural ("cookie" → "cookies").
// Earlier words of a phrase must match exactly.
type Term struct {
	words  []string
	prefix bool
	text   string
}

// NewTerm compiles a term pattern.
func NewTerm(pattern string) Term {
	p := strings.ToLower(strings.TrimSpace(pattern))
	prefix := strings.HasSuffix(p, "*")
	p = strings.TrimSuffix(p, "*")
	return Term{words: Words(p), prefix: prefix, text: p}
}

// String returns the term without its stem marker.
func (t Term) String() string { return t.text }

// Words lowercases text and splits it into letter and digit runs.
func Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// In reports whether the term occurs in the tokenized text.
func (t Term) In(tokens []string) bool {
	n := len(t.words)
	if n == 0 {
		return false
	}
	for i := 0; i+n <= len(tokens); i++ {
		if t.matchAt(tokens, i) {
			return true
		}
	}
	return false
}

func (t Term) matchAt(tokens []string, i int) bool {
	last := len(t.words) - 1
	for j := 0; j < last; j++ {
		if tokens[i+j] != t.words[j] {
			return false
		}
	}
	tok, w := tokens[i+last], t.words[last]
	if t.prefix {
		return strings.HasPrefix(tok, w)
	}
	return tok == w || tok == w+"s" || tok == w+"es" ||
		(strings.HasSuffix(w, "y") && tok == strings.TrimSuffix(w, "y")+"ies")
}

func compileTerms(patterns ...string) []Term {
	out := make([]Term, len(patterns))
	for i, p := range patterns {
		out[i] = NewTerm(p)
	}
	return out
}
