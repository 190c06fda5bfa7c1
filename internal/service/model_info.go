package service

import (
	"privlens/internal/config"
	"privlens/internal/domain"
	"privlens/internal/llm"
)

// ProviderInfo describes one configured reasoning provider.
type ProviderInfo struct {
	Name           string `json:"name"`
	PrimaryModel   string `json:"primary_model"`
	SecondaryModel string `json:"secondary_model"`
}

// ModelInfo is the read-only view of the reasoning configuration.
type ModelInfo struct {
	Providers         []ProviderInfo                           `json:"providers"`
	TierPolicy        map[domain.AnalysisKind]domain.ModelTier `json:"tier_policy"`
	MaxConcurrency    int                                      `json:"max_concurrency"`
	RequestsPerMinute int                                      `json:"requests_per_minute"`
	TokensPerMinute   int                                      `json:"tokens_per_minute"`
	MaxRetries        int                                      `json:"max_retries"`
	QuizThreshold     float64                                  `json:"quiz_threshold"`
}

// NewModelInfo builds the view from configuration. API keys are never included.
func NewModelInfo(r *config.ReasoningConfig, p *config.PipelineConfig) ModelInfo {
	info := ModelInfo{
		TierPolicy:        make(map[domain.AnalysisKind]domain.ModelTier),
		MaxConcurrency:    r.MaxConcurrency,
		RequestsPerMinute: r.RequestsPerMinute,
		TokensPerMinute:   r.TokensPerMinute,
		MaxRetries:        r.MaxRetries,
		QuizThreshold:     p.QuizThreshold,
	}
	info.Providers = append(info.Providers, providerInfo(&r.Primary))
	if fb := r.FallbackConfig(); fb != nil {
		info.Providers = append(info.Providers, providerInfo(fb))
	}
	for _, kind := range append(append([]domain.AnalysisKind{}, domain.SectionAnalysisKinds...), domain.KindQuiz) {
		info.TierPolicy[kind] = llm.TierFor(kind)
	}
	return info
}

func providerInfo(p *config.ProviderConfig) ProviderInfo {
	return ProviderInfo{Name: p.Provider, PrimaryModel: p.PrimaryModel, SecondaryModel: p.SecondaryModel}
}
