package aggregate

import (
	"time"

	"privlens/internal/domain"
)

// UIComponents projects a result into one presentation component per
// section, in priority order.
func UIComponents(res *domain.DocumentResult) []domain.UIComponent {
	out := make([]domain.UIComponent, 0, len(res.Sections))
	for _, s := range res.Sections {
		imp := s.Impact
		content := map[string]any{
			"title":                s.Title,
			"summary":              s.Summary,
			"original_text":        s.Chunk.RawText,
			"importance_score":     s.ImportanceScore,
			"risk_level":           s.RiskLevel,
			"sensitivity_score":    imp.SensitivityScore,
			"privacy_impact_score": imp.PrivacyImpact,
			"data_sharing_risk":    imp.DataSharingRisk,
			"user_control":         imp.UserControl,
			"transparency_score":   imp.TransparencyScore,
			"key_concerns":         imp.KeyConcerns,
			"data_types":           s.DataTypes,
			"user_rights":          s.UserRights,
			"legal_frameworks":     s.LegalFrameworks,
			"section_type":         s.Structure.SectionType,
			"mandatory_practices":  s.Structure.MandatoryPractices,
			"styled_content":       s.StyledContent,
			"styled_summary":       s.StyledSummary,
			"requires_quiz":        s.RequiresQuiz,
			"quiz_status":          s.QuizStatus,
			"degraded_kinds":       s.DegradedKinds,
		}
		if s.Quiz != nil {
			content["quiz"] = s.Quiz
		}

		out = append(out, domain.UIComponent{
			ID:       s.Chunk.ID,
			Type:     s.ComponentType,
			Priority: s.Priority,
			Content:  content,
			Metadata: map[string]any{
				"entities_count":       len(s.Entities),
				"processing_timestamp": res.CreatedAt.Format(time.RFC3339),
				"order_index":          s.Chunk.OrderIndex,
				"word_count":           s.WordCount,
				"reading_time":         s.ReadingTimeSecs,
				"ui_enhancement_features": map[string]bool{
					"high_attention":           s.StyledContent.HighSensitivityCount > 0,
					"quiz_recommended":         s.RequiresQuiz,
					"quiz_available":           s.Quiz != nil,
					"styled_content_available": s.StyledContent.StylingApplied,
					"styled_summary_available": s.StyledSummary.StylingApplied,
				},
			},
		})
	}
	return out
}
