package analyzer

import (
	"sort"
	"strings"
	"unicode"

	"privlens/internal/domain"
)

var dataTypeKeywords = []struct {
	dataType domain.DataType
	terms    []Term
}{
	{domain.DataTypeFinancial, compileTerms("payment", "credit card", "debit card", "bank", "banking", "billing", "financial", "transaction", "purchase")},
	{domain.DataTypeSensitive, compileTerms("biometric", "health", "medical", "genetic", "religio*", "ethnic*", "racial", "sexual", "political", "fingerprint", "face", "facial", "social security", "precise location")},
	{domain.DataTypeBehavioral, compileTerms("browsing", "usage", "behavio*", "interaction", "preference", "click", "search history", "activity", "profil*")},
	{domain.DataTypeTechnical, compileTerms("ip address", "device", "cookie", "browser", "log", "operating system", "identifier", "pixel", "beacon")},
	{domain.DataTypePersonal, compileTerms("name", "email", "e mail", "phone", "address", "birth", "date of birth", "age", "gender", "contact", "account", "location")},
}

// ClassifyDataType maps a free-text data description to a DataType. Keywords
// match whole words; the first table entry with a match wins.
func ClassifyDataType(value string) (domain.DataType, bool) {
	tokens := Words(value)
	for _, row := range dataTypeKeywords {
		for _, t := range row.terms {
			if t.In(tokens) {
				return row.dataType, true
			}
		}
	}
	return "", false
}

var rightAliases = []struct {
	alias string
	right domain.UserRight
}{
	{"access", domain.RightAccess},
	{"deletion", domain.RightDeletion},
	{"delete", domain.RightDeletion},
	{"portability", domain.RightPortability},
	{"opt_out", domain.RightOptOut},
	{"opt-out", domain.RightOptOut},
	{"correction", domain.RightCorrection},
	{"modify", domain.RightCorrection},
	{"modification", domain.RightCorrection},
	{"consent_withdrawal", domain.RightConsentWithdrawal},
	{"consent withdrawal", domain.RightConsentWithdrawal},
	{"withdraw", domain.RightConsentWithdrawal},
}

// minReverseMatch is the shortest value that may match as a fragment of an
// alias ("port" → portability); shorter values are noise.
const minReverseMatch = 4

// NormalizeRight maps a free-text right to a UserRight: exact alias match
// first, then substring match in either direction.
func NormalizeRight(value string) (domain.UserRight, bool) {
	v := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), " ", "_")
	if v == "" {
		return "", false
	}
	for _, a := range rightAliases {
		if v == strings.ReplaceAll(a.alias, " ", "_") {
			return a.right, true
		}
	}
	for _, a := range rightAliases {
		alias := strings.ReplaceAll(a.alias, " ", "_")
		if strings.Contains(v, alias) || (len(v) >= minReverseMatch && strings.Contains(alias, v)) {
			return a.right, true
		}
	}
	return "", false
}

var frameworkKeywords = []struct {
	framework domain.LegalFramework
	keywords  []string
}{
	{domain.FrameworkGDPR, []string{"gdpr", "general data protection", "european economic area", "data protection authority"}},
	{domain.FrameworkCCPA, []string{"ccpa", "cpra", "california consumer", "california resident"}},
	{domain.FrameworkPIPEDA, []string{"pipeda", "personal information protection and electronic documents"}},
	{domain.FrameworkHIPAA, []string{"hipaa", "health insurance portability", "protected health information"}},
	{domain.FrameworkFERPA, []string{"ferpa", "education records", "family educational rights"}},
}

// DetectFrameworks finds framework references in text by keyword.
func DetectFrameworks(text string) []domain.LegalFramework {
	t := strings.ToLower(text)
	out := []domain.LegalFramework{}
	for _, row := range frameworkKeywords {
		for _, kw := range row.keywords {
			if strings.Contains(t, kw) {
				out = append(out, row.framework)
				break
			}
		}
	}
	return out
}

// NormalizeFrameworks keeps recognised frameworks, de-duplicated and sorted.
func NormalizeFrameworks(values []string) []domain.LegalFramework {
	seen := map[domain.LegalFramework]bool{}
	for _, v := range values {
		f := domain.LegalFramework(strings.ToLower(strings.TrimSpace(v)))
		if domain.ValidLegalFrameworks[f] {
			seen[f] = true
		}
	}
	return sortedKeys(seen)
}

var mandatoryMarkers = []string{
	"required to",
	"is required",
	"are required",
	"must provide",
	"necessary to",
	"necessary for",
	"cannot opt out",
	"can't opt out",
	"mandatory",
	"as a condition of",
}

// DetectMandatoryPractices returns the sentences of text that describe a
// practice the user cannot decline.
func DetectMandatoryPractices(text string) []string {
	out := []string{}
	for _, s := range sentences(text) {
		l := strings.ToLower(s)
		for _, m := range mandatoryMarkers {
			if strings.Contains(l, m) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

const maxExtractiveSummary = 400

// ExtractiveSummary returns the first two sentences of text, capped at 400
// characters on a word boundary.
func ExtractiveSummary(text string) string {
	ss := sentences(text)
	if len(ss) > 2 {
		ss = ss[:2]
	}
	summary := strings.Join(ss, " ")
	if len(summary) <= maxExtractiveSummary {
		return summary
	}
	cut := strings.LastIndexFunc(summary[:maxExtractiveSummary], unicode.IsSpace)
	if cut <= 0 {
		cut = maxExtractiveSummary
	}
	return strings.TrimSpace(summary[:cut]) + "..."
}

// sentences splits on terminal punctuation followed by whitespace and on
// line breaks, skipping markdown heading lines.
func sentences(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		start := 0
		for i := 0; i < len(line); i++ {
			c := line[i]
			if (c == '.' || c == '!' || c == '?') && (i+1 == len(line) || line[i+1] == ' ') {
				if s := strings.TrimSpace(line[start : i+1]); s != "" {
					out = append(out, s)
				}
				start = i + 1
			}
		}
		if s := strings.TrimSpace(line[start:]); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func sortedKeys[T ~string](set map[T]bool) []T {
	out := make([]T, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
