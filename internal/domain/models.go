package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DocumentInput is one analysis request. It is not modified after creation.
// MaxChunkSize, when non-zero, replaces the configured chunk budget for this
// document only.
type DocumentInput struct {
	PolicyContent string `json:"policy_content"`
	CompanyName   string `json:"company_name"`
	CompanyURL    string `json:"company_url,omitempty"`
	ContactEmail  string `json:"contact_email,omitempty"`
	PolicyTitle   string `json:"policy_title,omitempty"`
	Version       string `json:"version,omitempty"`
	EffectiveDate string `json:"effective_date,omitempty"`
	MaxChunkSize  int    `json:"max_chunk_size,omitempty"`
}

// ContentChunk is a contiguous slice of the source document.
type ContentChunk struct {
	ID         string `json:"id"`
	OrderIndex int    `json:"order_index"`
	RawText    string `json:"raw_text"`
	Heading    string `json:"heading,omitempty"`
	Offset     int    `json:"offset"`
	Tokens     int    `json:"tokens"`
}

// Entity is a single fact extracted from a section.
type Entity struct {
	Type       string  `json:"type"`
	Value      string  `json:"value"`
	Context    string  `json:"context"`
	Confidence float64 `json:"confidence"`
}

// SectionStructure describes the shape of a section.
type SectionStructure struct {
	SectionType        string   `json:"section_type"`
	MainTopics         []string `json:"main_topics"`
	Complexity         string   `json:"complexity_level"`
	MandatoryPractices []string `json:"mandatory_practices"`
}

// UserImpact scores how a section affects users. All numeric fields are
// always populated; missing results use the neutral values below.
type UserImpact struct {
	SensitivityScore  float64     `json:"sensitivity_score"`
	PrivacyImpact     float64     `json:"privacy_impact_score"`
	DataSharingRisk   float64     `json:"data_sharing_risk"`
	UserControl       float64     `json:"user_control"`
	TransparencyScore float64     `json:"transparency_score"`
	KeyConcerns       []string    `json:"key_concerns"`
	ActionableRights  []UserRight `json:"actionable_rights"`
}

// Neutral mid-scale values used when an impact analysis is unavailable.
const (
	NeutralTenScale  = 5.0
	NeutralFiveScale = 2.5
)

// NeutralUserImpact returns the mid-scale impact record.
func NeutralUserImpact() UserImpact {
	return UserImpact{
		SensitivityScore:  NeutralTenScale,
		PrivacyImpact:     NeutralTenScale,
		DataSharingRisk:   NeutralTenScale,
		UserControl:       NeutralFiveScale,
		TransparencyScore: NeutralFiveScale,
		KeyConcerns:       []string{},
		ActionableRights:  []UserRight{},
	}
}

// SectionAnalysis aggregates every analysis kind for one chunk.
type SectionAnalysis struct {
	Chunk           ContentChunk     `json:"chunk"`
	Title           string           `json:"title"`
	Summary         string           `json:"summary"`
	Structure       SectionStructure `json:"structure"`
	DataTypes       []DataType       `json:"data_types"`
	UserRights      []UserRight      `json:"user_rights"`
	Entities        []Entity         `json:"entities"`
	LegalFrameworks []LegalFramework `json:"legal_frameworks"`
	Impact          UserImpact       `json:"user_impact"`
	DegradedKinds   []AnalysisKind   `json:"degraded_kinds"`
	WordCount       int              `json:"word_count"`
	ReadingTimeSecs int              `json:"reading_time"`
}

// HasRequiredPractices reports whether the section describes practices the
// user cannot opt out of.
func (s *SectionAnalysis) HasRequiredPractices() bool {
	return len(s.Structure.MandatoryPractices) > 0
}

// RankedSection is a SectionAnalysis with its computed importance and priority.
type RankedSection struct {
	SectionAnalysis
	ImportanceScore float64   `json:"importance_score"`
	Priority        int       `json:"priority"`
	RiskLevel       RiskLevel `json:"risk_level"`
}

// TextSegment is a styled sub-span of a section's text.
type TextSegment struct {
	ID                string   `json:"id"`
	Text              string   `json:"text"`
	StartPosition     int      `json:"start_position"`
	EndPosition       int      `json:"end_position"`
	SensitivityScore  float64  `json:"sensitivity_score"`
	HighlightColor    string   `json:"highlight_color"`
	TextColor         string   `json:"text_color"`
	FontWeight        string   `json:"font_weight"`
	TextEmphasisLevel int      `json:"text_emphasis_level"`
	RequiresAttention bool     `json:"requires_attention"`
	ContextType       string   `json:"context_type"`
	KeyTerms          []string `json:"key_terms"`
}

// StyledContent is a section text decomposed into styled segments. When
// StylingApplied is false Segments is empty and consumers use OriginalText.
type StyledContent struct {
	OriginalText           string        `json:"original_text"`
	Segments               []TextSegment `json:"segments"`
	OverallSensitivity     float64       `json:"overall_sensitivity"`
	StylingApplied         bool          `json:"styling_applied"`
	HighSensitivityCount   int           `json:"high_sensitivity_count"`
	MediumSensitivityCount int           `json:"medium_sensitivity_count"`
	TotalSegments          int           `json:"total_segments"`
}

// QuizOption is one answer choice.
type QuizOption struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	IsCorrect   bool   `json:"is_correct"`
	Explanation string `json:"explanation,omitempty"`
}

// QuizQuestion is one question of a section quiz.
type QuizQuestion struct {
	ID                string       `json:"id"`
	Text              string       `json:"text"`
	Type              QuestionType `json:"type"`
	Options           []QuizOption `json:"options"`
	Points            int          `json:"points"`
	Difficulty        string       `json:"difficulty"`
	Explanation       string       `json:"explanation"`
	LearningObjective string       `json:"learning_objective,omitempty"`
}

// Quiz is the interactive comprehension check attached to a sensitive section.
type Quiz struct {
	ID                   string         `json:"id"`
	SectionID            string         `json:"section_id"`
	Title                string         `json:"title"`
	Description          string         `json:"description,omitempty"`
	Questions            []QuizQuestion `json:"questions"`
	PassingScore         int            `json:"passing_score"`
	EstimatedTimeMinutes int            `json:"estimated_time_minutes"`
	TotalPoints          int            `json:"total_points"`
	SensitivityThreshold float64        `json:"sensitivity_threshold"`
	KeyTakeaways         []string       `json:"key_takeaways"`
	LearningObjectives   []string       `json:"learning_objectives,omitempty"`
}

// SectionResult is the fully processed form of one ranked section.
type SectionResult struct {
	RankedSection
	StyledContent StyledContent `json:"styled_content"`
	StyledSummary StyledContent `json:"styled_summary"`
	RequiresQuiz  bool          `json:"requires_quiz"`
	Quiz          *Quiz         `json:"quiz,omitempty"`
	QuizStatus    QuizStatus    `json:"quiz_status"`
	ComponentType ComponentType `json:"component_type"`
}

// DocumentResult is the output of one pipeline run, ordered by priority.
type DocumentResult struct {
	ID                      uuid.UUID       `json:"id"`
	CompanyName             string          `json:"company_name"`
	CompanyURL              string          `json:"company_url,omitempty"`
	ContactEmail            string          `json:"contact_email,omitempty"`
	PolicyTitle             string          `json:"policy_title,omitempty"`
	Version                 string          `json:"version,omitempty"`
	EffectiveDate           string          `json:"effective_date,omitempty"`
	Sections                []SectionResult `json:"sections"`
	OverallRiskLevel        RiskLevel       `json:"overall_risk_level"`
	UserFriendlinessScore   int             `json:"user_friendliness_score"`
	MeanSensitivityScore    float64         `json:"mean_sensitivity_score"`
	OverallSensitivityScore float64         `json:"overall_sensitivity_score"`
	OverallPrivacyImpact    float64         `json:"overall_privacy_impact"`
	ComplianceScore         float64         `json:"compliance_score"`
	ReadabilityScore        float64         `json:"readability_score"`
	TotalWordCount          int             `json:"total_word_count"`
	EstimatedReadingTime    int             `json:"estimated_reading_time"`
	HighRiskSections        int             `json:"high_risk_sections"`
	InteractiveSections     int             `json:"interactive_sections"`
	QuizUnavailableSections int             `json:"quiz_unavailable_sections"`
	ProcessingTime          time.Duration   `json:"processing_time"`
	CreatedAt               time.Time       `json:"created_at"`
}

// UIComponent is the presentation-layer projection of one section.
type UIComponent struct {
	ID       string         `json:"id"`
	Type     ComponentType  `json:"type"`
	Priority int            `json:"priority"`
	Content  map[string]any `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// AnalysisRecord is the persisted summary of a completed analysis.
type AnalysisRecord struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	CompanyName      string          `db:"company_name" json:"company_name"`
	CompanyURL       string          `db:"company_url" json:"company_url,omitempty"`
	ContactEmail     string          `db:"contact_email" json:"contact_email,omitempty"`
	PolicyTitle      string          `db:"policy_title" json:"policy_title,omitempty"`
	Version          string          `db:"policy_version" json:"version,omitempty"`
	EffectiveDate    string          `db:"effective_date" json:"effective_date,omitempty"`
	Status           AnalysisStatus  `db:"status" json:"status"`
	OverallRisk      RiskLevel       `db:"overall_risk" json:"overall_risk"`
	SectionCount     int             `db:"section_count" json:"section_count"`
	HighRiskSections int             `db:"high_risk_sections" json:"high_risk_sections"`
	ProcessingTimeMs int64           `db:"processing_time_ms" json:"processing_time_ms"`
	Result           json.RawMessage `db:"result" json:"result,omitempty"`
	ArtifactKey      string          `db:"artifact_key" json:"artifact_key,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}
