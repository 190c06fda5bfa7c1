package analyzer

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"privlens/internal/domain"
	"privlens/internal/port"
	"privlens/internal/segmenter"
)

const wordsPerMinute = 200

// Analyzer runs every analysis kind for every section of a document.
type Analyzer struct {
	reasoner port.Reasoner
	logger   *zap.Logger
}

// New creates an Analyzer that issues its calls through reasoner.
func New(reasoner port.Reasoner, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{reasoner: reasoner, logger: logger}
}

// slot holds the raw results for one section. Each task writes only its
// own field, so no locking is needed.
type slot struct {
	structure  *StructureResponse
	entities   *EntitiesResponse
	frameworks *FrameworksResponse
	impact     *ImpactResponse
	summary    *SummaryResponse
}

// AnalyzeDocument analyzes all chunks concurrently, one task per
// (section, kind) pair, bounded only by the reasoner's admission gate.
// A failed kind falls back to its neutral value and is listed in the
// section's DegradedKinds. The result is in OrderIndex order. The only
// error returned is ctx's, when the run is cancelled.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, chunks []domain.ContentChunk) ([]domain.SectionAnalysis, error) {
	slots := make([]slot, len(chunks))
	g, gctx := errgroup.WithContext(ctx)

	for i := range chunks {
		chunk := chunks[i]
		s := &slots[i]
		for _, kind := range domain.SectionAnalysisKinds {
			kind := kind
			g.Go(func() error {
				a.runKind(gctx, chunk, kind, s)
				return nil
			})
		}
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.SectionAnalysis, len(chunks))
	for i := range chunks {
		out[i] = assemble(chunks[i], &slots[i])
	}
	sortByOrder(out)
	return out, nil
}

// AnalyzeSection analyzes a single chunk.
func (a *Analyzer) AnalyzeSection(ctx context.Context, chunk domain.ContentChunk) (domain.SectionAnalysis, error) {
	res, err := a.AnalyzeDocument(ctx, []domain.ContentChunk{chunk})
	if err != nil {
		return domain.SectionAnalysis{}, err
	}
	return res[0], nil
}

func (a *Analyzer) runKind(ctx context.Context, chunk domain.ContentChunk, kind domain.AnalysisKind, s *slot) {
	req := port.ReasoningRequest{
		Kind:        kind,
		Prompt:      BuildPrompt(kind, chunk.RawText),
		MaxTokens:   maxTokensFor(kind),
		Temperature: temperatureFor(kind),
	}

	var out port.Schema
	switch kind {
	case domain.KindStructure:
		out = &StructureResponse{}
	case domain.KindEntities:
		out = &EntitiesResponse{}
	case domain.KindFrameworks:
		out = &FrameworksResponse{}
	case domain.KindImpact:
		out = &ImpactResponse{}
	case domain.KindSummary:
		out = &SummaryResponse{}
	default:
		return
	}

	if _, err := a.reasoner.Analyze(ctx, req, out); err != nil {
		if ctx.Err() == nil {
			a.logger.Warn("analyzer.runKind: analysis degraded to fallback",
				zap.String("section_id", chunk.ID),
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
		}
		return
	}

	switch v := out.(type) {
	case *StructureResponse:
		s.structure = v
	case *EntitiesResponse:
		s.entities = v
	case *FrameworksResponse:
		s.frameworks = v
	case *ImpactResponse:
		s.impact = v
	case *SummaryResponse:
		s.summary = v
	}
}

// assemble builds the section record, substituting fallbacks for missing
// results.
func assemble(chunk domain.ContentChunk, s *slot) domain.SectionAnalysis {
	sa := domain.SectionAnalysis{
		Chunk:         chunk,
		Title:         segmenter.ExtractTitle(chunk),
		DegradedKinds: []domain.AnalysisKind{},
		WordCount:     len(strings.Fields(chunk.RawText)),
	}
	sa.ReadingTimeSecs = sa.WordCount * 60 / wordsPerMinute

	degrade := func(k domain.AnalysisKind) { sa.DegradedKinds = append(sa.DegradedKinds, k) }

	if s.structure != nil {
		sa.Structure = domain.SectionStructure{
			SectionType:        s.structure.SectionType,
			MainTopics:         s.structure.MainTopics,
			Complexity:         s.structure.ComplexityLevel,
			MandatoryPractices: s.structure.MandatoryPractices,
		}
	} else {
		degrade(domain.KindStructure)
		sa.Structure = domain.SectionStructure{
			SectionType:        "other",
			MainTopics:         []string{},
			Complexity:         "moderate",
			MandatoryPractices: DetectMandatoryPractices(chunk.RawText),
		}
	}

	sa.Entities = []domain.Entity{}
	if s.entities != nil {
		for _, e := range s.entities.Entities {
			sa.Entities = append(sa.Entities, domain.Entity{
				Type:       e.EntityType,
				Value:      e.Value,
				Context:    e.Context,
				Confidence: e.Confidence,
			})
		}
	} else {
		degrade(domain.KindEntities)
	}

	if s.frameworks != nil {
		sa.LegalFrameworks = NormalizeFrameworks(s.frameworks.Frameworks)
	} else {
		degrade(domain.KindFrameworks)
		sa.LegalFrameworks = DetectFrameworks(chunk.RawText)
	}

	if s.impact != nil {
		sa.Impact = impactFrom(s.impact)
	} else {
		degrade(domain.KindImpact)
		sa.Impact = domain.NeutralUserImpact()
	}

	if s.summary != nil {
		sa.Summary = s.summary.Summary
	} else {
		degrade(domain.KindSummary)
		sa.Summary = ExtractiveSummary(chunk.RawText)
	}

	sa.DataTypes, sa.UserRights = classifyEntities(sa.Entities, sa.Impact.ActionableRights)
	return sa
}

func impactFrom(r *ImpactResponse) domain.UserImpact {
	rights := map[domain.UserRight]bool{}
	for _, v := range r.ActionableRights {
		if right, ok := NormalizeRight(v); ok {
			rights[right] = true
		}
	}
	concerns := r.KeyConcerns
	if concerns == nil {
		concerns = []string{}
	}
	return domain.UserImpact{
		SensitivityScore:  *r.SensitivityScore,
		PrivacyImpact:     *r.PrivacyImpactScore,
		DataSharingRisk:   *r.DataSharingRisk,
		UserControl:       *r.UserControl,
		TransparencyScore: *r.TransparencyScore,
		KeyConcerns:       concerns,
		ActionableRights:  sortedKeys(rights),
	}
}

// classifyEntities derives the data-type and user-right sets from the
// extracted entities plus the rights named by the impact assessment.
func classifyEntities(entities []domain.Entity, impactRights []domain.UserRight) ([]domain.DataType, []domain.UserRight) {
	types := map[domain.DataType]bool{}
	rights := map[domain.UserRight]bool{}
	for _, r := range impactRights {
		rights[r] = true
	}
	for _, e := range entities {
		switch e.Type {
		case "data_type":
			if dt, ok := ClassifyDataType(e.Value); ok {
				types[dt] = true
			}
		case "user_right":
			if r, ok := NormalizeRight(e.Value); ok {
				rights[r] = true
			}
		}
	}
	return sortedKeys(types), sortedKeys(rights)
}

func sortByOrder(sections []domain.SectionAnalysis) {
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Chunk.OrderIndex < sections[j].Chunk.OrderIndex
	})
}
