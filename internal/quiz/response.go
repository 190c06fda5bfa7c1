package quiz

import (
	"errors"
	"fmt"
	"strings"

	"privlens/internal/domain"
)

// OptionPayload is one answer choice as returned by the reasoning service.
type OptionPayload struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	IsCorrect   bool   `json:"is_correct"`
	Explanation string `json:"explanation"`
}

// QuestionPayload is one question as returned by the reasoning service.
type QuestionPayload struct {
	ID                string          `json:"id"`
	Text              string          `json:"question"`
	Type              string          `json:"type"`
	Options           []OptionPayload `json:"options"`
	Points            int             `json:"points"`
	Difficulty        string          `json:"difficulty"`
	Explanation       string          `json:"explanation"`
	LearningObjective string          `json:"learning_objective"`
}

// Response is the quiz analysis result.
type Response struct {
	Title                string            `json:"title"`
	Description          string            `json:"description"`
	Questions            []QuestionPayload `json:"questions"`
	PassingScore         int               `json:"passing_score"`
	EstimatedTimeMinutes int               `json:"estimated_time_minutes"`
	KeyTakeaways         []string          `json:"key_takeaways"`
	LearningObjectives   []string          `json:"learning_objectives"`
}

var validDifficulty = map[string]bool{"easy": true, "medium": true, "hard": true}

// Validate enforces the answer invariants: multiple-choice questions have at
// least two options and true/false exactly two, each with exactly one
// correct option; fill-blank questions carry the answer as the only option.
func (r *Response) Validate() error {
	if len(r.Questions) == 0 {
		return errors.New("quiz has no questions")
	}
	for i := range r.Questions {
		q := &r.Questions[i]
		q.Text = strings.TrimSpace(q.Text)
		q.Type = strings.ToLower(strings.TrimSpace(q.Type))
		q.Difficulty = strings.ToLower(strings.TrimSpace(q.Difficulty))
		if q.Text == "" {
			return fmt.Errorf("question %d has no text", i+1)
		}
		if q.Difficulty != "" && !validDifficulty[q.Difficulty] {
			return fmt.Errorf("question %d has unknown difficulty %q", i+1, q.Difficulty)
		}
		if err := validateOptions(domain.QuestionType(q.Type), q.Options); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	if r.PassingScore < 0 || r.PassingScore > 100 {
		return fmt.Errorf("passing_score %d outside [0,100]", r.PassingScore)
	}
	return nil
}

func validateOptions(qt domain.QuestionType, opts []OptionPayload) error {
	correct := 0
	for _, o := range opts {
		if strings.TrimSpace(o.Text) == "" {
			return errors.New("option without text")
		}
		if o.IsCorrect {
			correct++
		}
	}

	switch qt {
	case domain.QuestionMultipleChoice:
		if len(opts) < 2 {
			return fmt.Errorf("multiple_choice needs at least 2 options, got %d", len(opts))
		}
	case domain.QuestionTrueFalse:
		if len(opts) != 2 {
			return fmt.Errorf("true_false needs 2 options, got %d", len(opts))
		}
	case domain.QuestionFillBlank:
		if len(opts) != 1 {
			return fmt.Errorf("fill_blank needs the answer as its only option, got %d", len(opts))
		}
	default:
		return fmt.Errorf("unknown question type %q", qt)
	}
	if correct != 1 {
		return fmt.Errorf("%s needs exactly one correct option, got %d", qt, correct)
	}
	return nil
}
