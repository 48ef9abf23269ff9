package app

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"stackmaster-quiz-service/internal/domain"
)

// Attempt is the state machine for a single timed run through a generated
// question set. It has two states: active and submitted. Every operation is
// atomic relative to the others; the countdown ticker and user-triggered
// transitions interleave but never overlap.
type Attempt struct {
	id        string
	quiz      domain.QuizDefinition
	level     int
	questions []domain.Question

	mu        sync.Mutex
	index     int
	answers   map[int]int
	remaining int // seconds
	submitted bool

	now func() time.Time
}

// NewAttempt creates an active attempt over a fixed question sequence.
// The countdown starts at the quiz's time limit.
func NewAttempt(quiz domain.QuizDefinition, level int, questions []domain.Question) *Attempt {
	return newAttemptWithClock(quiz, level, questions, time.Now)
}

// NewAttemptWithClock is test-only for deterministic timestamps.
func NewAttemptWithClock(quiz domain.QuizDefinition, level int, questions []domain.Question, now func() time.Time) *Attempt {
	return newAttemptWithClock(quiz, level, questions, now)
}

// newAttemptWithClock allows deterministic timestamps in tests.
func newAttemptWithClock(quiz domain.QuizDefinition, level int, questions []domain.Question, now func() time.Time) *Attempt {
	return &Attempt{
		id:        uuid.NewString(),
		quiz:      quiz,
		level:     level,
		questions: questions,
		answers:   make(map[int]int),
		remaining: quiz.TimeLimitMinutes * 60,
		now:       now,
	}
}

// ID returns the attempt identifier.
func (a *Attempt) ID() string { return a.id }

// Quiz returns the quiz definition this attempt runs against.
func (a *Attempt) Quiz() domain.QuizDefinition { return a.quiz }

// Level returns the difficulty level the questions were generated at.
func (a *Attempt) Level() int { return a.level }

// Questions returns a copy of the attempt's question sequence.
func (a *Attempt) Questions() []domain.Question {
	out := make([]domain.Question, len(a.questions))
	copy(out, a.questions)
	return out
}

// Position returns the current question and its zero-based index.
func (a *Attempt) Position() (domain.Question, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.questions[a.index], a.index
}

// Remaining returns the seconds left on the countdown.
func (a *Attempt) Remaining() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.remaining
}

// Submitted reports whether the attempt reached its terminal state.
func (a *Attempt) Submitted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.submitted
}

// SelectAnswer records or overwrites the answer for a question. It may be
// called for any question at any time while the attempt is active.
func (a *Attempt) SelectAnswer(questionID, optionIndex int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.submitted {
		return domain.ErrAttemptSubmitted
	}
	q, ok := a.question(questionID)
	if !ok {
		return domain.ErrQuestionNotFound
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return domain.ErrOptionNotFound
	}
	a.answers[questionID] = optionIndex
	return nil
}

// Advance moves to the next question. The current question must have a
// recorded answer; on the last question it is a no-op.
func (a *Attempt) Advance() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.submitted {
		return domain.ErrAttemptSubmitted
	}
	if _, ok := a.answers[a.questions[a.index].ID]; !ok {
		return domain.ErrNoAnswerSelected
	}
	if a.index < len(a.questions)-1 {
		a.index++
	}
	return nil
}

// Retreat moves back one question. It never requires an answer and is a
// no-op at the first question.
func (a *Attempt) Retreat() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.submitted {
		return domain.ErrAttemptSubmitted
	}
	if a.index > 0 {
		a.index--
	}
	return nil
}

// Tick decrements the countdown by one second and reports the time left and
// whether it expired. The caller must force a submit once expired is true;
// Tick itself never transitions state beyond the clock.
func (a *Attempt) Tick() (remaining int, expired bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.submitted {
		return a.remaining, false
	}
	if a.remaining > 0 {
		a.remaining--
	}
	return a.remaining, a.remaining == 0
}

// Submit is the terminal transition. Unanswered questions count as incorrect.
// Without an authenticated identity the submission is refused and the attempt
// stays active so the user can authenticate and retry.
func (a *Attempt) Submit(identity domain.Identity) (domain.AttemptResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.submitted {
		return domain.AttemptResult{}, domain.ErrAttemptSubmitted
	}
	if identity.IsZero() {
		return domain.AttemptResult{}, domain.ErrAuthRequired
	}

	score := 0
	for _, q := range a.questions {
		if chosen, ok := a.answers[q.ID]; ok && chosen == q.CorrectIndex {
			score++
		}
	}

	answers := make(map[int]int, len(a.answers))
	for id, idx := range a.answers {
		answers[id] = idx
	}
	questions := make([]domain.Question, len(a.questions))
	copy(questions, a.questions)

	result := domain.AttemptResult{
		ID:              uuid.NewString(),
		QuizID:          a.quiz.ID,
		QuizTitle:       a.quiz.Title,
		UserID:          identity.UID,
		UserName:        identity.Name(),
		Score:           score,
		Total:           len(a.questions),
		SubmittedAt:     a.now(),
		Questions:       questions,
		Answers:         answers,
		DifficultyLevel: a.level,
	}
	a.submitted = true
	return result, nil
}

func (a *Attempt) question(id int) (domain.Question, bool) {
	for _, q := range a.questions {
		if q.ID == id {
			return q, true
		}
	}
	return domain.Question{}, false
}
