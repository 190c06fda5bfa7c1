package styling

import (
	"privlens/internal/analyzer"
	"privlens/internal/domain"
)

// Context types attached to segments.
const (
	ContextGeneral        = "general"
	ContextDataCollection = "data_collection"
	ContextThirdParty     = "third_party_sharing"
	ContextTracking       = "tracking"
	ContextSensitiveData  = "sensitive_data"
	ContextFinancial      = "financial"
	ContextRetention      = "retention"
	ContextDisclosure     = "legal_disclosure"
	ContextMandatory      = "mandatory_practice"
	ContextUserRights     = "user_rights"
	ContextSecurity       = "security"
)

type term struct {
	match   analyzer.Term
	weight  float64
	context string
}

func lex(pattern string, weight float64, context string) term {
	return term{match: analyzer.NewTerm(pattern), weight: weight, context: context}
}

// lexicon is matched case-insensitively on word boundaries against segment
// text. A trailing "*" marks a stem. Weights are on the 0-10 sensitivity scale.
var lexicon = []term{
	lex("biometric", 10, ContextSensitiveData),
	lex("genetic", 10, ContextSensitiveData),
	lex("health", 9, ContextSensitiveData),
	lex("precise location", 9, ContextSensitiveData),
	lex("sell*", 9, ContextThirdParty),
	lex("sold", 9, ContextThirdParty),
	lex("sale of", 9, ContextThirdParty),
	lex("third part*", 8, ContextThirdParty),
	lex("data broker", 9, ContextThirdParty),
	lex("law enforcement", 8, ContextDisclosure),
	lex("government*", 7, ContextDisclosure),
	lex("track*", 8, ContextTracking),
	lex("profil*", 8, ContextTracking),
	lex("location", 7, ContextSensitiveData),
	lex("credit card", 8, ContextFinancial),
	lex("payment", 7, ContextFinancial),
	lex("bank", 7, ContextFinancial),
	lex("banking", 7, ContextFinancial),
	lex("indefinitely", 8, ContextRetention),
	lex("retain*", 6, ContextRetention),
	lex("cannot opt out", 8, ContextMandatory),
	lex("required", 6, ContextMandatory),
	lex("share*", 7, ContextThirdParty),
	lex("sharing", 7, ContextThirdParty),
	lex("advertis*", 7, ContextTracking),
	lex("cookie", 6, ContextTracking),
	lex("personal data", 6, ContextDataCollection),
	lex("personal information", 6, ContextDataCollection),
	lex("collect*", 5, ContextDataCollection),
	lex("opt out", 3, ContextUserRights),
	lex("delet*", 3, ContextUserRights),
	lex("your right", 3, ContextUserRights),
	lex("request access", 3, ContextUserRights),
	lex("encrypt*", 2, ContextSecurity),
	lex("secur*", 2, ContextSecurity),
}

// dataTypeWeight scores a segment that mentions a data type the section
// itself was found to describe.
var dataTypeWeight = map[domain.DataType]float64{
	domain.DataTypeSensitive:  9,
	domain.DataTypeFinancial:  8,
	domain.DataTypeBehavioral: 7,
	domain.DataTypePersonal:   6,
	domain.DataTypeTechnical:  5,
}

// Style is the visual treatment derived from a sensitivity score.
type Style struct {
	HighlightColor string
	TextColor      string
	FontWeight     string
	Emphasis       int
}

// Threshold table, highest first.
var styleTable = []struct {
	min   float64
	style Style
}{
	{8, Style{"#fee2e2", "#991b1b", "bold", 5}},
	{6, Style{"#ffedd5", "#9a3412", "medium", 4}},
	{4, Style{"#fef9c3", "#854d0e", "normal", 3}},
	{2, Style{"transparent", "#374151", "normal", 2}},
	{0, Style{"transparent", "#6b7280", "normal", 1}},
}

var rightsStyle = Style{"#dbeafe", "#1e40af", "medium", 2}

// StyleFor maps a segment score to its visual attributes. Segments about
// user rights that are not otherwise sensitive get the rights style.
func StyleFor(score float64, context string) Style {
	if context == ContextUserRights && score < 4 {
		return rightsStyle
	}
	for _, row := range styleTable {
		if score >= row.min {
			return row.style
		}
	}
	return styleTable[len(styleTable)-1].style
}
