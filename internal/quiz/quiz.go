// Package quiz synthesizes comprehension quizzes for highly sensitive sections.
package quiz

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"privlens/internal/domain"
	"privlens/internal/port"
)

// Defaults applied when the service leaves a field out.
const (
	DefaultThreshold     = 8.0
	DefaultPassingScore  = 70
	DefaultEstimatedMins = 2
	DefaultPoints        = 1
	DefaultDifficulty    = "medium"

	maxTokens = 1500
)

// GenerationError records why a quiz could not be produced for a section.
// It is logged and reflected in the section's quiz status, never returned
// out of a document run.
type GenerationError struct {
	SectionID string
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("quiz generation failed for section %s: %v", e.SectionID, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Outcome is the quiz result for one section.
type Outcome struct {
	RequiresQuiz bool
	Quiz         *domain.Quiz
	Status       domain.QuizStatus
	Err          *GenerationError
}

// Synthesizer issues one reasoning call per qualifying section.
type Synthesizer struct {
	reasoner  port.Reasoner
	threshold float64
	logger    *zap.Logger
}

// New creates a Synthesizer. A non-positive threshold selects DefaultThreshold.
func New(reasoner port.Reasoner, threshold float64, logger *zap.Logger) *Synthesizer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{reasoner: reasoner, threshold: threshold, logger: logger}
}

// Threshold returns the sensitivity score at which a quiz is required.
func (s *Synthesizer) Threshold() float64 { return s.threshold }

// Required reports whether a section qualifies for a quiz.
func (s *Synthesizer) Required(section domain.RankedSection) bool {
	return section.Impact.SensitivityScore >= s.threshold
}

// Synthesize generates a quiz for section when it qualifies. Any failure
// yields Status=QuizUnavailable with RequiresQuiz still true.
func (s *Synthesizer) Synthesize(ctx context.Context, section domain.RankedSection) Outcome {
	if !s.Required(section) {
		return Outcome{Status: domain.QuizNotRequired}
	}

	req := port.ReasoningRequest{
		Kind:        domain.KindQuiz,
		Prompt:      BuildPrompt(section),
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	}
	var resp Response
	if _, err := s.reasoner.Analyze(ctx, req, &resp); err != nil {
		genErr := &GenerationError{SectionID: section.Chunk.ID, Err: err}
		if ctx.Err() == nil {
			s.logger.Warn("quiz.Synthesize: quiz unavailable",
				zap.String("section_id", section.Chunk.ID),
				zap.Float64("sensitivity", section.Impact.SensitivityScore),
				zap.Error(genErr),
			)
		}
		return Outcome{RequiresQuiz: true, Status: domain.QuizUnavailable, Err: genErr}
	}

	return Outcome{
		RequiresQuiz: true,
		Quiz:         s.build(section, &resp),
		Status:       domain.QuizGenerated,
	}
}

// build converts a validated response into a Quiz, filling identifiers and
// defaults.
func (s *Synthesizer) build(section domain.RankedSection, r *Response) *domain.Quiz {
	q := &domain.Quiz{
		ID:                   "quiz_" + section.Chunk.ID,
		SectionID:            section.Chunk.ID,
		Title:                r.Title,
		Description:          r.Description,
		PassingScore:         r.PassingScore,
		EstimatedTimeMinutes: r.EstimatedTimeMinutes,
		SensitivityThreshold: s.threshold,
		KeyTakeaways:         nonNil(r.KeyTakeaways),
		LearningObjectives:   nonNil(r.LearningObjectives),
	}
	if q.Title == "" {
		q.Title = "Understanding: " + section.Title
	}
	if q.PassingScore == 0 {
		q.PassingScore = DefaultPassingScore
	}
	if q.EstimatedTimeMinutes <= 0 {
		q.EstimatedTimeMinutes = DefaultEstimatedMins
	}

	for i, qp := range r.Questions {
		question := domain.QuizQuestion{
			ID:                qp.ID,
			Text:              qp.Text,
			Type:              domain.QuestionType(qp.Type),
			Points:            qp.Points,
			Difficulty:        qp.Difficulty,
			Explanation:       qp.Explanation,
			LearningObjective: qp.LearningObjective,
		}
		if question.ID == "" {
			question.ID = fmt.Sprintf("q%d", i+1)
		}
		if question.Points <= 0 {
			question.Points = DefaultPoints
		}
		if question.Difficulty == "" {
			question.Difficulty = DefaultDifficulty
		}
		for j, op := range qp.Options {
			opt := domain.QuizOption{
				ID:          op.ID,
				Text:        op.Text,
				IsCorrect:   op.IsCorrect,
				Explanation: op.Explanation,
			}
			if opt.ID == "" {
				opt.ID = string(rune('a' + j))
			}
			question.Options = append(question.Options, opt)
		}
		q.TotalPoints += question.Points
		q.Questions = append(q.Questions, question)
	}
	return q
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
