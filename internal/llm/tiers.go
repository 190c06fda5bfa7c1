package llm

import (
	"privlens/internal/config"
	"privlens/internal/domain"
)

// TierModels is the immutable model-tier selection for one provider. It is
// built once from config and passed into provider constructors.
type TierModels struct {
	Primary   string
	Secondary string
}

// TierModelsFromConfig builds a TierModels, filling unset tiers with defaults.
func TierModelsFromConfig(cfg *config.ProviderConfig, defaultPrimary, defaultSecondary string) TierModels {
	tm := TierModels{Primary: cfg.PrimaryModel, Secondary: cfg.SecondaryModel}
	if tm.Primary == "" {
		tm.Primary = defaultPrimary
	}
	if tm.Secondary == "" {
		tm.Secondary = defaultSecondary
	}
	return tm
}

// Model returns the model name for tier. Unknown tiers use the primary model.
func (t TierModels) Model(tier domain.ModelTier) string {
	if tier == domain.TierSecondary && t.Secondary != "" {
		return t.Secondary
	}
	return t.Primary
}

// TierFor is the static tier policy: deep reasoning kinds use the primary
// tier, routine extraction uses the secondary tier.
func TierFor(kind domain.AnalysisKind) domain.ModelTier {
	switch kind {
	case domain.KindStructure, domain.KindImpact, domain.KindSummary, domain.KindQuiz:
		return domain.TierPrimary
	default:
		return domain.TierSecondary
	}
}
