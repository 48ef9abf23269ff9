package app

import (
	"context"
	"fmt"

	"stackmaster-quiz-service/internal/domain"
)

// Catalog provides the static quiz catalog.
type Catalog interface {
	ListQuizzes(ctx context.Context) ([]domain.QuizDefinition, error)
	GetQuiz(ctx context.Context, quizID string) (domain.QuizDefinition, error)
}

// ResultStore is the append-only log of attempt results. Implementations
// never update or delete records; ordering for display is computed at query
// time, newest first.
type ResultStore interface {
	Append(ctx context.Context, result domain.AttemptResult) error
	ByUser(ctx context.Context, userID string) ([]domain.AttemptResult, error)
	ByUserAndQuiz(ctx context.Context, userID, quizID string) ([]domain.AttemptResult, error)
	ByID(ctx context.Context, resultID string) (domain.AttemptResult, error)
}

// TransientResults holds at most one freshly submitted result per user,
// consumed at most once by the results view.
type TransientResults interface {
	Put(ctx context.Context, userID string, result domain.AttemptResult) error
	Take(ctx context.Context, userID string) (domain.AttemptResult, bool, error)
}

// QuestionSource generates the question set for one attempt. It must return
// exactly count questions or fail; the service never shows a partial quiz.
type QuestionSource interface {
	GenerateQuestions(ctx context.Context, topic string, count, level int) ([]domain.Question, error)
}

// QuizService contains the quiz use cases: catalog browsing, progression,
// running timed attempts, and reviewing results.
type QuizService struct {
	catalog     Catalog
	results     ResultStore
	transient   TransientResults
	questions   QuestionSource
	progression *Progression
}

func NewQuizService(catalog Catalog, results ResultStore, transient TransientResults, questions QuestionSource) *QuizService {
	return &QuizService{
		catalog:     catalog,
		results:     results,
		transient:   transient,
		questions:   questions,
		progression: NewProgression(),
	}
}

// Quizzes lists the quiz catalog.
func (s *QuizService) Quizzes(ctx context.Context) ([]domain.QuizDefinition, error) {
	return s.catalog.ListQuizzes(ctx)
}

// Progress computes the level-unlocking state for a user on one quiz.
func (s *QuizService) Progress(ctx context.Context, userID, quizID string) (Progress, error) {
	if _, err := s.catalog.GetQuiz(ctx, quizID); err != nil {
		return Progress{}, err
	}
	results, err := s.results.ByUserAndQuiz(ctx, userID, quizID)
	if err != nil {
		return Progress{}, err
	}
	return s.progression.Evaluate(results), nil
}

// StartAttempt generates questions for the chosen quiz and level and returns
// an active attempt. The generation call is the one suspension point: until
// it resolves there is no attempt, and cancelling ctx discards the result.
func (s *QuizService) StartAttempt(ctx context.Context, quizID string, level int, userID string) (*Attempt, error) {
	if level < domain.MinDifficultyLevel || level > domain.MaxDifficultyLevel {
		return nil, fmt.Errorf("%w: level %d out of range", domain.ErrLevelLocked, level)
	}

	quiz, err := s.catalog.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	progress, err := s.Progress(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	if !progress.Selectable(level) {
		return nil, domain.ErrLevelLocked
	}

	questions, err := s.questions.GenerateQuestions(ctx, quiz.Title, quiz.QuestionCount, level)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	return NewAttempt(quiz, level, questions), nil
}

// Submit finishes the attempt, stores the result, and parks it in the
// transient slot for the results view. A failed identity check leaves the
// attempt active.
func (s *QuizService) Submit(ctx context.Context, attempt *Attempt, identity domain.Identity) (domain.AttemptResult, error) {
	result, err := attempt.Submit(identity)
	if err != nil {
		return domain.AttemptResult{}, err
	}

	if err := s.transient.Put(ctx, result.UserID, result); err != nil {
		return domain.AttemptResult{}, fmt.Errorf("stash result: %w", err)
	}
	if err := s.results.Append(ctx, result); err != nil {
		return domain.AttemptResult{}, fmt.Errorf("append result: %w", err)
	}
	return result, nil
}

// Result reconstructs a completed attempt for review. With a resultID it is
// looked up in the store; otherwise the user's transient slot is consumed.
// ErrNoPendingResult signals an expired flow rather than a missing record.
func (s *QuizService) Result(ctx context.Context, userID, resultID string) (Summary, error) {
	if resultID != "" {
		r, err := s.results.ByID(ctx, resultID)
		if err != nil {
			return Summary{}, err
		}
		return Summarize(r), nil
	}

	r, ok, err := s.transient.Take(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	if !ok {
		return Summary{}, domain.ErrNoPendingResult
	}
	return Summarize(r), nil
}

// History returns the user's attempts across all quizzes, newest first.
func (s *QuizService) History(ctx context.Context, userID string) ([]HistoryEntry, error) {
	results, err := s.results.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildHistory(results), nil
}

// Activity returns the user's per-day attempt counts.
func (s *QuizService) Activity(ctx context.Context, userID string) ([]DayActivity, error) {
	results, err := s.results.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildActivity(results), nil
}
