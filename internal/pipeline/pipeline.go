// Package pipeline runs one policy document through every analysis stage.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"privlens/internal/aggregate"
	"privlens/internal/analyzer"
	"privlens/internal/config"
	"privlens/internal/domain"
	"privlens/internal/port"
	"privlens/internal/quiz"
	"privlens/internal/scoring"
	"privlens/internal/segmenter"
	"privlens/internal/styling"
)

// Pipeline implements port.PolicyPipeline. Stages share no per-document
// state, so one Pipeline serves many concurrent runs.
type Pipeline struct {
	segmenter  *segmenter.Segmenter
	analyzer   *analyzer.Analyzer
	styler     *styling.Styler
	quiz       *quiz.Synthesizer
	aggregator *aggregate.Aggregator
	minLength  int
	logger     *zap.Logger
}

// New wires every stage over reasoner using cfg.
func New(cfg config.PipelineConfig, reasoner port.Reasoner, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		segmenter:  segmenter.New(cfg.MaxChunkSize),
		analyzer:   analyzer.New(reasoner, logger),
		styler:     styling.New(cfg.HighSensitivityThreshold, logger),
		quiz:       quiz.New(reasoner, cfg.QuizThreshold, logger),
		aggregator: aggregate.New(cfg.HighSensitivityThreshold),
		minLength:  cfg.MinContentLength,
		logger:     logger,
	}
}

// Validate checks a document before any reasoning call is made.
func (p *Pipeline) Validate(in domain.DocumentInput) error {
	content := strings.TrimSpace(in.PolicyContent)
	if content == "" {
		return domain.NewInputError(domain.ErrEmptyInput, "")
	}
	if n := utf8.RuneCountInString(content); n < p.minLength {
		return domain.NewInputError(domain.ErrContentTooShort,
			fmt.Sprintf("%d characters, at least %d required", n, p.minLength))
	}
	if strings.TrimSpace(in.CompanyName) == "" {
		return domain.NewInputError(domain.ErrMissingCompanyName, "")
	}
	if n := in.MaxChunkSize; n != 0 && (n < segmenter.MinRequestChunkSize || n > segmenter.MaxRequestChunkSize) {
		return domain.NewInputError(domain.ErrInvalidChunkSize,
			fmt.Sprintf("got %d, allowed %d to %d", n, segmenter.MinRequestChunkSize, segmenter.MaxRequestChunkSize))
	}
	return nil
}

// segmenterFor returns the segmenter for one run, honoring a per-document
// chunk budget that Validate has already bounded.
func (p *Pipeline) segmenterFor(in domain.DocumentInput) *segmenter.Segmenter {
	if in.MaxChunkSize > 0 {
		return segmenter.New(in.MaxChunkSize)
	}
	return p.segmenter
}

// Run analyzes one document. Only input errors and cancellation of ctx are
// returned; every other failure degrades the affected section and is
// visible in its record. A cancelled run returns no partial result.
func (p *Pipeline) Run(ctx context.Context, in domain.DocumentInput) (*domain.DocumentResult, error) {
	start := time.Now()
	if err := p.Validate(in); err != nil {
		return nil, err
	}

	chunks, err := p.segmenterFor(in).Segment(in.PolicyContent)
	if err != nil {
		return nil, err
	}
	log := p.logger.With(zap.String("company", in.CompanyName))
	log.Info("pipeline.Run: document segmented",
		zap.Int("sections", len(chunks)),
		zap.Int("max_chunk_size", in.MaxChunkSize),
	)

	analyses, err := p.analyzer.AnalyzeDocument(ctx, chunks)
	if err != nil {
		return nil, err
	}

	ranked := scoring.Rank(analyses)

	results := make([]domain.SectionResult, len(ranked))
	g, gctx := errgroup.WithContext(ctx)
	for i := range ranked {
		g.Go(func() error {
			results[i] = p.finishSection(gctx, ranked[i])
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := p.aggregator.Aggregate(in, results, time.Since(start))
	log.Info("pipeline.Run: document analyzed",
		zap.String("id", res.ID.String()),
		zap.String("overall_risk", string(res.OverallRiskLevel)),
		zap.Int("high_risk_sections", res.HighRiskSections),
		zap.Int("interactive_sections", res.InteractiveSections),
		zap.Duration("elapsed", res.ProcessingTime),
	)
	return res, nil
}

// finishSection styles a ranked section and attaches its quiz outcome.
func (p *Pipeline) finishSection(ctx context.Context, rs domain.RankedSection) domain.SectionResult {
	res := domain.SectionResult{RankedSection: rs}

	res.StyledContent = p.styler.Style(rs.Chunk.ID, styling.Input{
		Text:        rs.Chunk.RawText,
		Sensitivity: rs.Impact.SensitivityScore,
		DataTypes:   rs.DataTypes,
	})
	res.StyledSummary = p.styler.Style(rs.Chunk.ID+"_summary", styling.Input{
		Text:        rs.Summary,
		Sensitivity: rs.Impact.SensitivityScore,
		DataTypes:   rs.DataTypes,
	})

	outcome := p.quiz.Synthesize(ctx, rs)
	res.RequiresQuiz = outcome.RequiresQuiz
	res.Quiz = outcome.Quiz
	res.QuizStatus = outcome.Status
	return res
}
