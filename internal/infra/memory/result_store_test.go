package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"stackmaster-quiz-service/internal/domain"
)

func storedResult(id, userID, quizID string, at time.Time) domain.AttemptResult {
	return domain.AttemptResult{
		ID:              id,
		QuizID:          quizID,
		UserID:          userID,
		Score:           3,
		Total:           5,
		SubmittedAt:     at,
		DifficultyLevel: 1,
	}
}

func TestResultStoreQueriesNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	_ = store.Append(ctx, storedResult("r1", "u1", "7", base))
	_ = store.Append(ctx, storedResult("r2", "u1", "8", base.Add(time.Hour)))
	_ = store.Append(ctx, storedResult("r3", "u2", "7", base.Add(2*time.Hour)))

	results, err := store.ByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("by user: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "r2" || results[1].ID != "r1" {
		t.Fatalf("expected newest first, got %s then %s", results[0].ID, results[1].ID)
	}

	results, err = store.ByUserAndQuiz(ctx, "u1", "7")
	if err != nil {
		t.Fatalf("by user and quiz: %v", err)
	}
	if len(results) != 1 || results[0].ID != "r1" {
		t.Fatalf("unexpected filter result: %+v", results)
	}
}

func TestResultStoreByID(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore()
	_ = store.Append(ctx, storedResult("r1", "u1", "7", time.Now()))

	r, err := store.ByID(ctx, "r1")
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if r.ID != "r1" {
		t.Fatalf("expected r1, got %s", r.ID)
	}

	if _, err := store.ByID(ctx, "missing"); !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("expected ErrResultNotFound, got %v", err)
	}
}

func TestTransientResultsTakeOnce(t *testing.T) {
	ctx := context.Background()
	slot := NewTransientResults()

	if _, ok, err := slot.Take(ctx, "u1"); err != nil || ok {
		t.Fatalf("empty slot must miss, got ok=%v err=%v", ok, err)
	}

	first := storedResult("r1", "u1", "7", time.Now())
	second := storedResult("r2", "u1", "7", time.Now())
	_ = slot.Put(ctx, "u1", first)
	_ = slot.Put(ctx, "u1", second) // replaces

	got, ok, err := slot.Take(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("take failed: ok=%v err=%v", ok, err)
	}
	if got.ID != "r2" {
		t.Fatalf("expected latest result, got %s", got.ID)
	}

	if _, ok, _ := slot.Take(ctx, "u1"); ok {
		t.Fatal("slot must be empty after a take")
	}
}
