// Package aggregate merges processed sections into a document result.
package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"privlens/internal/domain"
)

const (
	// HighlightImportance is the importance at which a section renders as a highlight card.
	HighlightImportance = 0.8

	wordsPerMinute = 200
)

// Aggregator computes document-level statistics.
type Aggregator struct {
	highThreshold float64
	now           func() time.Time
}

// New creates an Aggregator. Sections with sensitivity at or above
// highThreshold count as high risk.
func New(highThreshold float64) *Aggregator {
	if highThreshold <= 0 {
		highThreshold = 8.0
	}
	return &Aggregator{highThreshold: highThreshold, now: time.Now}
}

// Aggregate builds the DocumentResult for sections, which may arrive in any
// order. Each section's component type is assigned here and the sections are
// returned ordered by priority.
func (a *Aggregator) Aggregate(in domain.DocumentInput, sections []domain.SectionResult, elapsed time.Duration) *domain.DocumentResult {
	ordered := make([]domain.SectionResult, len(sections))
	copy(ordered, sections)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority < ordered[j].Priority })

	res := &domain.DocumentResult{
		ID:             uuid.New(),
		CompanyName:    in.CompanyName,
		CompanyURL:     in.CompanyURL,
		ContactEmail:   in.ContactEmail,
		PolicyTitle:    in.PolicyTitle,
		Version:        in.Version,
		EffectiveDate:  in.EffectiveDate,
		ProcessingTime: elapsed,
		CreatedAt:      a.now().UTC(),
	}

	for i := range ordered {
		ordered[i].ComponentType = ComponentTypeFor(ordered[i])
	}
	res.Sections = ordered

	n := float64(len(ordered))
	if n == 0 {
		res.OverallRiskLevel = domain.RiskLow
		res.UserFriendlinessScore = 1
		res.EstimatedReadingTime = 1
		return res
	}

	var sumSens, sumPriv, sumT, sumC, sumRisk, sumWeight, wSens, wPriv float64
	for _, s := range ordered {
		imp := s.Impact
		sumSens += imp.SensitivityScore
		sumPriv += imp.PrivacyImpact
		sumT += imp.TransparencyScore
		sumC += imp.UserControl
		sumRisk += riskPoints(s.RiskLevel)
		sumWeight += s.ImportanceScore
		wSens += imp.SensitivityScore * s.ImportanceScore
		wPriv += imp.PrivacyImpact * s.ImportanceScore
		res.TotalWordCount += s.WordCount

		if imp.SensitivityScore >= a.highThreshold {
			res.HighRiskSections++
		}
		if s.Quiz != nil {
			res.InteractiveSections++
		}
		if s.QuizStatus == domain.QuizUnavailable {
			res.QuizUnavailableSections++
		}
	}

	avgT, avgC := sumT/n, sumC/n
	res.MeanSensitivityScore = round1(sumSens / n)
	if sumWeight > 0 {
		res.OverallSensitivityScore = round1(wSens / sumWeight)
		res.OverallPrivacyImpact = round1(wPriv / sumWeight)
	} else {
		res.OverallSensitivityScore = round1(sumSens / n)
		res.OverallPrivacyImpact = round1(sumPriv / n)
	}
	res.OverallRiskLevel = overallRisk(sumRisk / n)
	res.UserFriendlinessScore = int(math.Max(1, math.Min(5, math.Round((avgT+avgC)/2))))
	res.ComplianceScore = round1((avgT + avgC) / 2 * 2)

	avgWords := float64(res.TotalWordCount) / n
	res.ReadabilityScore = round1(math.Max(0, math.Min(10, avgT*2-math.Min(2, avgWords/wordsPerMinute))))
	res.EstimatedReadingTime = max(1, int(math.Ceil(float64(res.TotalWordCount)/wordsPerMinute)))
	return res
}

// ComponentTypeFor picks the presentation component of a section. The first
// matching rule wins.
func ComponentTypeFor(s domain.SectionResult) domain.ComponentType {
	imp := s.Impact
	switch {
	case s.Quiz != nil:
		return domain.ComponentQuiz
	case s.ImportanceScore >= HighlightImportance:
		return domain.ComponentHighlightCard
	case imp.SensitivityScore >= 8 || imp.PrivacyImpact >= 7 || imp.DataSharingRisk >= 7:
		return domain.ComponentRiskWarning
	case len(s.UserRights) > 0:
		return domain.ComponentRightsInteractive
	case len(s.DataTypes) > 0:
		return domain.ComponentDataCollectionCard
	default:
		return domain.ComponentStandardCard
	}
}

func riskPoints(r domain.RiskLevel) float64 {
	switch r {
	case domain.RiskHigh:
		return 3
	case domain.RiskMedium:
		return 2
	default:
		return 1
	}
}

func overallRisk(avg float64) domain.RiskLevel {
	switch {
	case avg >= 2.5:
		return domain.RiskHigh
	case avg >= 1.5:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
