// Package scoring ranks analyzed sections by a fixed weighted importance score.
package scoring

import (
	"math"
	"sort"

	"privlens/internal/domain"
)

// Importance weights. They sum to 1 so the score stays in [0,1].
const (
	WeightSensitivity = 0.35
	WeightImpact      = 0.25
	WeightLowControl  = 0.15
	WeightConcerns    = 0.15
	WeightRequired    = 0.10

	// MaxCountedConcerns caps how many key concerns add to the score.
	MaxCountedConcerns = 5
)

// Importance computes the composite importance score of a section in [0,1].
// Inputs are clamped to their declared scales first.
func Importance(s domain.SectionAnalysis) float64 {
	imp := s.Impact
	sens := clamp(imp.SensitivityScore, 0, 10) / 10
	priv := clamp(imp.PrivacyImpact, 0, 10) / 10
	lowControl := 1 - clamp(imp.UserControl, 0, 5)/5
	concerns := float64(min(len(imp.KeyConcerns), MaxCountedConcerns)) / MaxCountedConcerns

	required := 0.0
	if s.HasRequiredPractices() {
		required = 1
	}

	score := WeightSensitivity*sens +
		WeightImpact*priv +
		WeightLowControl*lowControl +
		WeightConcerns*concerns +
		WeightRequired*required
	return round(score, 4)
}

// Rank scores every section and assigns priorities 1..N by importance
// descending, ties broken by OrderIndex ascending. The input is not modified
// and identical inputs always produce identical output.
func Rank(sections []domain.SectionAnalysis) []domain.RankedSection {
	ranked := make([]domain.RankedSection, len(sections))
	for i, s := range sections {
		ranked[i] = domain.RankedSection{
			SectionAnalysis: s,
			ImportanceScore: Importance(s),
			RiskLevel:       domain.RiskLevelFor(s.Impact.SensitivityScore),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.ImportanceScore != b.ImportanceScore {
			return a.ImportanceScore > b.ImportanceScore
		}
		return a.Chunk.OrderIndex < b.Chunk.OrderIndex
	})

	for i := range ranked {
		ranked[i].Priority = i + 1
	}
	return ranked
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
