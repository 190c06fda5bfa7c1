package quiz

import (
	"fmt"

	"privlens/internal/domain"
)

const quizPrompt = `You are a privacy policy educator. Create a short interactive quiz that helps users understand the most concerning aspects of this privacy policy section.

SECTION TITLE: %s
SECTION CONTENT: %s
SENSITIVITY SCORE: %.1f/10

Create 2-4 questions that test understanding of key privacy risks, user rights and options, data handling practices and consequences for users.

Rules:
- "multiple_choice" questions have 3-4 options and exactly one with "is_correct": true
- "true_false" questions have exactly the options "True" and "False", one correct
- "fill_blank" questions have exactly one option holding the answer, marked correct
- difficulty is one of easy, medium, hard

Return a JSON object only:
{
  "title": "quiz title",
  "description": "one sentence",
  "questions": [
    {
      "id": "q1",
      "question": "question text",
      "type": "multiple_choice",
      "options": [
        {"id": "a", "text": "option", "is_correct": false, "explanation": "why"},
        {"id": "b", "text": "option", "is_correct": true, "explanation": "why"}
      ],
      "points": 1,
      "difficulty": "medium",
      "explanation": "explanation of the correct answer",
      "learning_objective": "what the user learns"
    }
  ],
  "passing_score": 70,
  "estimated_time_minutes": 2,
  "key_takeaways": ["takeaway"],
  "learning_objectives": ["objective"]
}`

// BuildPrompt returns the quiz prompt for a section.
func BuildPrompt(section domain.RankedSection) string {
	return fmt.Sprintf(quizPrompt, section.Title, section.Chunk.RawText, section.Impact.SensitivityScore)
}
