package domain

// RiskLevel is the coarse risk bucket derived from a sensitivity score.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// RiskLevelFor derives a RiskLevel from a 0-10 sensitivity score.
func RiskLevelFor(sensitivity float64) RiskLevel {
	switch {
	case sensitivity >= 7.0:
		return RiskHigh
	case sensitivity >= 4.0:
		return RiskMedium
	default:
		return RiskLow
	}
}

// DataType categorizes the kinds of personal data a section describes.
type DataType string

const (
	DataTypePersonal   DataType = "personal"
	DataTypeSensitive  DataType = "sensitive"
	DataTypeBehavioral DataType = "behavioral"
	DataTypeTechnical  DataType = "technical"
	DataTypeFinancial  DataType = "financial"
)

// UserRight is a right a user can exercise under a policy.
type UserRight string

const (
	RightAccess            UserRight = "access"
	RightDeletion          UserRight = "deletion"
	RightPortability       UserRight = "portability"
	RightOptOut            UserRight = "opt_out"
	RightCorrection        UserRight = "correction"
	RightConsentWithdrawal UserRight = "consent_withdrawal"
)

// LegalFramework is a privacy regulation a section can be mapped to.
type LegalFramework string

const (
	FrameworkGDPR   LegalFramework = "gdpr"
	FrameworkCCPA   LegalFramework = "ccpa"
	FrameworkPIPEDA LegalFramework = "pipeda"
	FrameworkHIPAA  LegalFramework = "hipaa"
	FrameworkFERPA  LegalFramework = "ferpa"
)

// ValidLegalFrameworks is the closed set of recognised frameworks.
var ValidLegalFrameworks = map[LegalFramework]bool{
	FrameworkGDPR:   true,
	FrameworkCCPA:   true,
	FrameworkPIPEDA: true,
	FrameworkHIPAA:  true,
	FrameworkFERPA:  true,
}

// AnalysisKind identifies one analysis request issued per section.
type AnalysisKind string

const (
	KindStructure  AnalysisKind = "structure"
	KindEntities   AnalysisKind = "entities"
	KindFrameworks AnalysisKind = "frameworks"
	KindImpact     AnalysisKind = "impact"
	KindSummary    AnalysisKind = "summary"
	KindQuiz       AnalysisKind = "quiz"
)

// SectionAnalysisKinds lists the kinds issued for every section, in a fixed order.
var SectionAnalysisKinds = []AnalysisKind{
	KindStructure,
	KindEntities,
	KindFrameworks,
	KindImpact,
	KindSummary,
}

// ModelTier selects between the higher-capability and lower-cost model.
type ModelTier string

const (
	TierPrimary   ModelTier = "primary"
	TierSecondary ModelTier = "secondary"
)

// ComponentType is the presentation component a ranked section renders as.
type ComponentType string

const (
	ComponentHighlightCard      ComponentType = "highlight_card"
	ComponentRiskWarning        ComponentType = "risk_warning"
	ComponentRightsInteractive  ComponentType = "rights_interactive"
	ComponentDataCollectionCard ComponentType = "data_collection_card"
	ComponentStandardCard       ComponentType = "standard_card"
	ComponentQuiz               ComponentType = "quiz_component"
)

// QuestionType is the answer format of a quiz question.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionFillBlank      QuestionType = "fill_blank"
)

// QuizStatus records the outcome of quiz synthesis for a section.
type QuizStatus string

const (
	QuizNotRequired QuizStatus = "not_required"
	QuizGenerated   QuizStatus = "generated"
	QuizUnavailable QuizStatus = "unavailable"
)

// AnalysisStatus is the lifecycle state of a persisted analysis record.
type AnalysisStatus string

const (
	AnalysisStatusCompleted AnalysisStatus = "completed"
	AnalysisStatusFailed    AnalysisStatus = "failed"
)

// AllowedUploadTypes maps accepted upload extensions to their content type.
var AllowedUploadTypes = map[string]string{
	"pdf":  "application/pdf",
	"html": "text/html",
	"htm":  "text/html",
	"txt":  "text/plain",
	"md":   "text/markdown",
}
