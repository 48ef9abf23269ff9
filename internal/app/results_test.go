package app_test

import (
	"testing"
	"time"

	"stackmaster-quiz-service/internal/app"
	"stackmaster-quiz-service/internal/domain"
)

func TestPercentage(t *testing.T) {
	cases := []struct {
		score, total, want int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{0, 5, 0},
		{5, 5, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{7, 8, 88},
	}
	for _, c := range cases {
		if got := app.Percentage(c.score, c.total); got != c.want {
			t.Fatalf("Percentage(%d, %d) = %d, want %d", c.score, c.total, got, c.want)
		}
	}
}

func TestSummarizeListsWrongAndUnanswered(t *testing.T) {
	questions := testQuestions()
	r := domain.AttemptResult{
		ID:        "r1",
		Score:     1,
		Total:     3,
		Questions: questions,
		Answers: map[int]int{
			1: 0, // correct
			2: 3, // wrong
			// question 3 unanswered
		},
	}

	summary := app.Summarize(r)
	if summary.Percentage != 33 {
		t.Fatalf("expected 33%%, got %d", summary.Percentage)
	}
	if summary.Perfect {
		t.Fatal("1/3 is not perfect")
	}
	if len(summary.Wrong) != 2 {
		t.Fatalf("expected 2 wrong questions, got %d", len(summary.Wrong))
	}
	if summary.Wrong[0].ID != 2 || summary.Wrong[1].ID != 3 {
		t.Fatalf("unexpected wrong set: %+v", summary.Wrong)
	}
}

func TestSummarizePerfect(t *testing.T) {
	questions := testQuestions()
	r := domain.AttemptResult{
		Score:     3,
		Total:     3,
		Questions: questions,
		Answers:   map[int]int{1: 0, 2: 1, 3: 2},
	}

	summary := app.Summarize(r)
	if !summary.Perfect {
		t.Fatal("expected a perfect summary")
	}
	if len(summary.Wrong) != 0 {
		t.Fatalf("expected no wrong questions, got %+v", summary.Wrong)
	}
}

func TestBuildHistoryOrderAndPassFlag(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	results := []domain.AttemptResult{
		{ID: "old", Score: 2, Total: 5, SubmittedAt: base},
		{ID: "new", Score: 5, Total: 5, SubmittedAt: base.Add(time.Hour)},
		{ID: "mid", Score: 3, Total: 5, SubmittedAt: base.Add(30 * time.Minute)},
	}

	entries := app.BuildHistory(results)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Result.ID != "new" || entries[1].Result.ID != "mid" || entries[2].Result.ID != "old" {
		t.Fatalf("unexpected order: %s %s %s", entries[0].Result.ID, entries[1].Result.ID, entries[2].Result.ID)
	}

	if !entries[0].Passed {
		t.Fatal("100% must be marked passed")
	}
	if !entries[1].Passed {
		t.Fatal("60% must be marked passed")
	}
	if entries[2].Passed {
		t.Fatal("40% must not be marked passed")
	}
}

func TestBuildHistoryExactThresholdPasses(t *testing.T) {
	entries := app.BuildHistory([]domain.AttemptResult{
		{Score: 1, Total: 2, SubmittedAt: time.Now()},
	})
	if !entries[0].Passed {
		t.Fatal("exactly 50% must count as passed")
	}
}

func TestBuildActivityGroupsByDay(t *testing.T) {
	day1 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	results := []domain.AttemptResult{
		{SubmittedAt: day1},
		{SubmittedAt: day1.Add(2 * time.Hour)},
		{SubmittedAt: day2},
	}

	days := app.BuildActivity(results)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Date != "2025-06-02" || days[0].Attempts != 1 {
		t.Fatalf("unexpected first day: %+v", days[0])
	}
	if days[1].Date != "2025-06-01" || days[1].Attempts != 2 {
		t.Fatalf("unexpected second day: %+v", days[1])
	}
}
