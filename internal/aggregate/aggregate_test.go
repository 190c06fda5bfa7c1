package aggregate_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"privlens/internal/aggregate"
	"privlens/internal/domain"
)

func result(priority, order int, sens, importance float64) domain.SectionResult {
	var s domain.SectionResult
	s.Chunk = domain.ContentChunk{ID: "chunk", OrderIndex: order}
	s.Priority = priority
	s.ImportanceScore = importance
	s.Impact = domain.NeutralUserImpact()
	s.Impact.SensitivityScore = sens
	s.RiskLevel = domain.RiskLevelFor(sens)
	s.WordCount = 200
	s.QuizStatus = domain.QuizNotRequired
	return s
}

var input = domain.DocumentInput{CompanyName: "Acme", CompanyURL: "https://acme.test"}

func TestAggregate_Statistics(t *testing.T) {
	hot := result(1, 2, 9, 0.7)
	hot.RequiresQuiz = true
	hot.Quiz = &domain.Quiz{ID: "quiz_chunk"}
	hot.QuizStatus = domain.QuizGenerated

	warm := result(2, 0, 8, 0.2)
	warm.RequiresQuiz = true
	warm.QuizStatus = domain.QuizUnavailable

	cold := result(3, 1, 1, 0.1)

	agg := aggregate.New(8)
	res := agg.Aggregate(input, []domain.SectionResult{cold, hot, warm}, 3*time.Second)

	require.Len(t, res.Sections, 3)
	for i, s := range res.Sections {
		assert.Equal(t, i+1, s.Priority)
	}
	assert.Equal(t, "Acme", res.CompanyName)
	assert.NotEqual(t, uuid.Nil, res.ID)
	assert.Equal(t, 3*time.Second, res.ProcessingTime)

	assert.Equal(t, 6.0, res.MeanSensitivityScore)
	// (9*0.7 + 8*0.2 + 1*0.1) / 1.0
	assert.Equal(t, 8.0, res.OverallSensitivityScore)
	assert.Equal(t, 5.0, res.OverallPrivacyImpact)
	// risk points 3 + 3 + 1 = 7 / 3 = 2.33
	assert.Equal(t, domain.RiskMedium, res.OverallRiskLevel)
	assert.Equal(t, 2, res.HighRiskSections)
	assert.Equal(t, 1, res.InteractiveSections)
	assert.Equal(t, 1, res.QuizUnavailableSections)
	assert.Equal(t, 600, res.TotalWordCount)
	assert.Equal(t, 3, res.EstimatedReadingTime)
	assert.Equal(t, 3, res.UserFriendlinessScore)
	assert.Equal(t, 5.0, res.ComplianceScore)
	assert.Equal(t, 4.0, res.ReadabilityScore)

	assert.Equal(t, domain.ComponentQuiz, res.Sections[0].ComponentType)
	assert.Equal(t, domain.ComponentRiskWarning, res.Sections[1].ComponentType)
	assert.Equal(t, domain.ComponentStandardCard, res.Sections[2].ComponentType)
}

func TestAggregate_ZeroWeightsUsePlainMean(t *testing.T) {
	agg := aggregate.New(8)
	res := agg.Aggregate(input, []domain.SectionResult{result(1, 0, 4, 0), result(2, 1, 6, 0)}, 0)
	assert.Equal(t, 5.0, res.OverallSensitivityScore)
	assert.Equal(t, 5.0, res.OverallPrivacyImpact)
}

func TestAggregate_AllNeutralStillProducesResult(t *testing.T) {
	agg := aggregate.New(8)
	res := agg.Aggregate(input, []domain.SectionResult{result(1, 0, 5, 0.4)}, 0)
	assert.Equal(t, domain.RiskMedium, res.OverallRiskLevel)
	assert.Equal(t, 0, res.HighRiskSections)
	assert.Len(t, res.Sections, 1)
}

func TestAggregate_Empty(t *testing.T) {
	res := aggregate.New(8).Aggregate(input, nil, 0)
	assert.Empty(t, res.Sections)
	assert.Equal(t, domain.RiskLow, res.OverallRiskLevel)
	assert.Equal(t, 1, res.EstimatedReadingTime)
}

func TestComponentTypeFor(t *testing.T) {
	base := result(1, 0, 3, 0.3)
	base.Impact.PrivacyImpact = 3
	base.Impact.DataSharingRisk = 3

	highlight := base
	highlight.ImportanceScore = 0.85

	sharing := base
	sharing.Impact.DataSharingRisk = 7

	rights := base
	rights.UserRights = []domain.UserRight{domain.RightAccess}

	data := base
	data.DataTypes = []domain.DataType{domain.DataTypeTechnical}

	tests := []struct {
		name string
		in   domain.SectionResult
		want domain.ComponentType
	}{
		{"standard", base, domain.ComponentStandardCard},
		{"highlight", highlight, domain.ComponentHighlightCard},
		{"sharing risk", sharing, domain.ComponentRiskWarning},
		{"rights", rights, domain.ComponentRightsInteractive},
		{"data types", data, domain.ComponentDataCollectionCard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, aggregate.ComponentTypeFor(tt.in))
		})
	}
}

func TestUIComponents(t *testing.T) {
	hot := result(1, 0, 9, 0.9)
	hot.Entities = []domain.Entity{{Type: "data_type", Value: "email"}}
	hot.RequiresQuiz = true
	hot.Quiz = &domain.Quiz{ID: "quiz_chunk"}
	hot.StyledContent = domain.StyledContent{StylingApplied: true, HighSensitivityCount: 2}

	res := aggregate.New(8).Aggregate(input, []domain.SectionResult{result(2, 1, 2, 0.1), hot}, 0)
	comps := aggregate.UIComponents(res)

	require.Len(t, comps, 2)
	c := comps[0]
	assert.Equal(t, 1, c.Priority)
	assert.Equal(t, domain.ComponentQuiz, c.Type)
	assert.Equal(t, 9.0, c.Content["sensitivity_score"])
	assert.Contains(t, c.Content, "quiz")
	assert.Contains(t, c.Content, "styled_summary")
	assert.Equal(t, 1, c.Metadata["entities_count"])
	assert.NotEmpty(t, c.Metadata["processing_timestamp"])

	features := c.Metadata["ui_enhancement_features"].(map[string]bool)
	assert.True(t, features["high_attention"])
	assert.True(t, features["quiz_available"])
	assert.True(t, features["styled_content_available"])
	assert.False(t, features["styled_summary_available"])

	assert.NotContains(t, comps[1].Content, "quiz")
}
