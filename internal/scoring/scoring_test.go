package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"privlens/internal/domain"
	"privlens/internal/scoring"
)

func section(order int, sens, priv, control float64, concerns ...string) domain.SectionAnalysis {
	impact := domain.NeutralUserImpact()
	impact.SensitivityScore = sens
	impact.PrivacyImpact = priv
	impact.UserControl = control
	if concerns != nil {
		impact.KeyConcerns = concerns
	}
	return domain.SectionAnalysis{
		Chunk:  domain.ContentChunk{ID: "chunk", OrderIndex: order},
		Impact: impact,
	}
}

func TestImportance_SensitiveSectionOutranksBenign(t *testing.T) {
	hot := section(1, 9, 8, 2.5, "data sale to third parties")
	cold := section(0, 2, 8, 2.5, "data sale to third parties")

	assert.Greater(t, scoring.Importance(hot), scoring.Importance(cold))

	ranked := scoring.Rank([]domain.SectionAnalysis{cold, hot})
	require.Len(t, ranked, 2)
	assert.Equal(t, 1, ranked[0].Chunk.OrderIndex)
	assert.Equal(t, 1, ranked[0].Priority)
	assert.Equal(t, domain.RiskHigh, ranked[0].RiskLevel)
	assert.Equal(t, domain.RiskLow, ranked[1].RiskLevel)
}

func TestImportance_Bounds(t *testing.T) {
	hi := section(0, 10, 10, 0, "a", "b", "c", "d", "e", "f")
	hi.Structure.MandatoryPractices = []string{"account required"}
	assert.InDelta(t, 1.0, scoring.Importance(hi), 1e-9)

	lo := section(0, 0, 0, 5)
	assert.Equal(t, 0.0, scoring.Importance(lo))

	wild := section(0, 40, -3, 9)
	assert.InDelta(t, 0.35, scoring.Importance(wild), 1e-9)
}

func TestImportance_RequiredPracticesAddWeight(t *testing.T) {
	base := section(0, 5, 5, 2.5)
	req := base
	req.Structure.MandatoryPractices = []string{"must provide email"}
	assert.InDelta(t, scoring.WeightRequired, scoring.Importance(req)-scoring.Importance(base), 1e-9)
}

func TestRank_TiesBrokenByOrderIndex(t *testing.T) {
	in := []domain.SectionAnalysis{
		section(2, 5, 5, 2.5),
		section(0, 5, 5, 2.5),
		section(1, 5, 5, 2.5),
	}
	ranked := scoring.Rank(in)
	for i, r := range ranked {
		assert.Equal(t, i, r.Chunk.OrderIndex)
		assert.Equal(t, i+1, r.Priority)
	}
	assert.Equal(t, 2, in[0].Chunk.OrderIndex, "input must not be reordered")
}

func TestRank_ContiguousAndIdempotent(t *testing.T) {
	in := []domain.SectionAnalysis{
		section(0, 3, 4, 4),
		section(1, 9, 9, 0, "sale"),
		section(2, 6, 2, 3),
		section(3, 9, 9, 0, "sale"),
		section(4, 1, 1, 5),
	}
	first := scoring.Rank(in)
	second := scoring.Rank(in)
	assert.Equal(t, first, second)

	seen := map[int]bool{}
	for i, r := range first {
		assert.Equal(t, i+1, r.Priority)
		seen[r.Priority] = true
		if i > 0 {
			prev := first[i-1]
			assert.True(t, prev.ImportanceScore > r.ImportanceScore ||
				(prev.ImportanceScore == r.ImportanceScore && prev.Chunk.OrderIndex < r.Chunk.OrderIndex))
		}
	}
	assert.Len(t, seen, len(in))
	assert.Equal(t, 1, first[0].Chunk.OrderIndex)
	assert.Equal(t, 3, first[1].Chunk.OrderIndex)
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, scoring.Rank(nil))
}
