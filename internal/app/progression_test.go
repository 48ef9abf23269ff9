package app_test

import (
	"testing"
	"time"

	"stackmaster-quiz-service/internal/app"
	"stackmaster-quiz-service/internal/domain"
)

func result(level, score, total int) domain.AttemptResult {
	return domain.AttemptResult{
		ID:              "r",
		QuizID:          "7",
		UserID:          "u1",
		Score:           score,
		Total:           total,
		SubmittedAt:     time.Now(),
		DifficultyLevel: level,
	}
}

func TestFreshUserOnlyLevelOneSelectable(t *testing.T) {
	progress := app.NewProgression().Evaluate(nil)

	if progress.HighestPassedLevel != 0 {
		t.Fatalf("expected highest 0, got %d", progress.HighestPassedLevel)
	}
	if !progress.Selectable(1) {
		t.Fatal("level 1 must be selectable for a fresh user")
	}
	for level := 2; level <= domain.MaxDifficultyLevel; level++ {
		if progress.Selectable(level) {
			t.Fatalf("level %d must be locked for a fresh user", level)
		}
	}
	if progress.UnlockedSection != "beginner" {
		t.Fatalf("expected beginner unlocked, got %q", progress.UnlockedSection)
	}
}

func TestPerfectScoreUnlocksNextLevel(t *testing.T) {
	progress := app.NewProgression().Evaluate([]domain.AttemptResult{
		result(1, 5, 5),
	})

	if !progress.PassedLevels[1] {
		t.Fatal("level 1 must be passed")
	}
	if progress.HighestPassedLevel != 1 {
		t.Fatalf("expected highest 1, got %d", progress.HighestPassedLevel)
	}
	if !progress.Selectable(2) {
		t.Fatal("level 2 must unlock after passing level 1")
	}
	if progress.Selectable(3) {
		t.Fatal("level 3 must stay locked")
	}
}

func TestImperfectScoreDoesNotPass(t *testing.T) {
	progress := app.NewProgression().Evaluate([]domain.AttemptResult{
		result(1, 4, 5),
		result(1, 0, 5),
	})

	if len(progress.PassedLevels) != 0 {
		t.Fatalf("expected no passed levels, got %v", progress.PassedLevels)
	}
	if progress.Selectable(2) {
		t.Fatal("level 2 must stay locked without a perfect level 1 run")
	}
}

func TestProgressionNeverRegresses(t *testing.T) {
	// A later zero-score run never takes back an earlier pass.
	progress := app.NewProgression().Evaluate([]domain.AttemptResult{
		result(1, 5, 5),
		result(2, 5, 5),
		result(2, 0, 5),
		result(1, 1, 5),
	})

	if !progress.PassedLevels[1] || !progress.PassedLevels[2] {
		t.Fatalf("passes must persist, got %v", progress.PassedLevels)
	}
	if progress.HighestPassedLevel != 2 {
		t.Fatalf("expected highest 2, got %d", progress.HighestPassedLevel)
	}
	if !progress.Selectable(3) {
		t.Fatal("level 3 must be selectable")
	}
}

func TestIntermediateRequiresAllBeginnerLevels(t *testing.T) {
	results := []domain.AttemptResult{
		result(1, 5, 5),
		result(2, 5, 5),
		result(3, 5, 5),
		result(4, 5, 5),
	}
	progress := app.NewProgression().Evaluate(results)

	if progress.SectionUnlocked("intermediate") {
		t.Fatal("intermediate must stay locked with level 5 unpassed")
	}
	if progress.Selectable(6) {
		t.Fatal("level 6 must stay locked with level 5 unpassed")
	}

	results = append(results, result(5, 5, 5))
	progress = app.NewProgression().Evaluate(results)

	if !progress.SectionUnlocked("intermediate") {
		t.Fatal("intermediate must unlock once all beginner levels pass")
	}
	if !progress.Selectable(6) {
		t.Fatal("level 6 must be selectable")
	}
	if progress.UnlockedSection != "intermediate" {
		t.Fatalf("expected intermediate, got %q", progress.UnlockedSection)
	}
}

func TestAdvancedRequiresBothLowerSections(t *testing.T) {
	var results []domain.AttemptResult
	for level := 1; level <= 10; level++ {
		results = append(results, result(level, 3, 3))
	}
	progress := app.NewProgression().Evaluate(results)

	if !progress.SectionUnlocked("advanced") {
		t.Fatal("advanced must unlock after levels 1-10")
	}
	if !progress.Selectable(11) {
		t.Fatal("level 11 must be selectable")
	}
	if progress.Selectable(12) {
		t.Fatal("level 12 is past highest+1 and must stay locked")
	}
	if progress.UnlockedSection != "advanced" {
		t.Fatalf("expected advanced, got %q", progress.UnlockedSection)
	}
}

func TestResultsWithoutLevelAreIgnored(t *testing.T) {
	progress := app.NewProgression().Evaluate([]domain.AttemptResult{
		result(0, 5, 5),
	})
	if len(progress.PassedLevels) != 0 {
		t.Fatalf("legacy results without a level must not count, got %v", progress.PassedLevels)
	}
}

func TestSelectableOutOfRange(t *testing.T) {
	var results []domain.AttemptResult
	for level := 1; level <= 15; level++ {
		results = append(results, result(level, 1, 1))
	}
	progress := app.NewProgression().Evaluate(results)

	if progress.Selectable(0) {
		t.Fatal("level 0 is not a real level")
	}
	if progress.Selectable(16) {
		t.Fatal("level 16 is not a real level")
	}
	if !progress.Selectable(15) {
		t.Fatal("level 15 must be selectable")
	}
}
