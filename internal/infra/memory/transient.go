package memory

import (
	"context"
	"sync"

	"stackmaster-quiz-service/internal/domain"
)

// TransientResults is the in-memory single-slot handoff between submission
// and the results view: one pending result per user, consumed on read.
type TransientResults struct {
	mu      sync.Mutex
	pending map[string]domain.AttemptResult
}

func NewTransientResults() *TransientResults {
	return &TransientResults{
		pending: make(map[string]domain.AttemptResult),
	}
}

// Put replaces the user's pending result.
func (t *TransientResults) Put(_ context.Context, userID string, result domain.AttemptResult) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[userID] = result
	return nil
}

// Take consumes and clears the user's pending result, if any.
func (t *TransientResults) Take(_ context.Context, userID string) (domain.AttemptResult, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	result, ok := t.pending[userID]
	if ok {
		delete(t.pending, userID)
	}
	return result, ok, nil
}
