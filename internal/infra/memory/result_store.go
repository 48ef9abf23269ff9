package memory

import (
	"context"
	"sort"
	"sync"

	"stackmaster-quiz-service/internal/domain"
)

// ResultStore is an in-memory append-only implementation of
// app.ResultStore. Records are never updated or deleted.
type ResultStore struct {
	mu      sync.RWMutex
	results []domain.AttemptResult
}

func NewResultStore() *ResultStore {
	return &ResultStore{}
}

func (s *ResultStore) Append(_ context.Context, result domain.AttemptResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return nil
}

func (s *ResultStore) ByUser(_ context.Context, userID string) ([]domain.AttemptResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter(func(r domain.AttemptResult) bool {
		return r.UserID == userID
	}), nil
}

func (s *ResultStore) ByUserAndQuiz(_ context.Context, userID, quizID string) ([]domain.AttemptResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter(func(r domain.AttemptResult) bool {
		return r.UserID == userID && r.QuizID == quizID
	}), nil
}

func (s *ResultStore) ByID(_ context.Context, resultID string) (domain.AttemptResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.results {
		if r.ID == resultID {
			return r, nil
		}
	}
	return domain.AttemptResult{}, domain.ErrResultNotFound
}

// filter scans stored order and sorts matches newest first; display order is
// computed at query time, not stored.
func (s *ResultStore) filter(keep func(domain.AttemptResult) bool) []domain.AttemptResult {
	out := make([]domain.AttemptResult, 0)
	for _, r := range s.results {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out
}
