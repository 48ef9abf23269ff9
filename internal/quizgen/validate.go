package quizgen

import (
	"fmt"

	"stackmaster-quiz-service/internal/domain"
)

const optionsPerQuestion = 4

// validateQuestions enforces the question-set contract: exactly count
// questions, 4 options each, a correct index that points at an existing
// option, and IDs unique starting at 1.
func validateQuestions(questions []domain.Question, count int) error {
	if len(questions) != count {
		return fmt.Errorf("expected %d questions, got %d", count, len(questions))
	}

	seen := make(map[int]bool, len(questions))
	for i, q := range questions {
		if q.Text == "" {
			return fmt.Errorf("question %d: empty text", i+1)
		}
		if len(q.Options) != optionsPerQuestion {
			return fmt.Errorf("question %d: expected %d options, got %d", i+1, optionsPerQuestion, len(q.Options))
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return fmt.Errorf("question %d: correct index %d out of range", i+1, q.CorrectIndex)
		}
		if q.ID < 1 || q.ID > count {
			return fmt.Errorf("question %d: id %d outside 1..%d", i+1, q.ID, count)
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %d", q.ID)
		}
		seen[q.ID] = true
	}
	return nil
}
