package app

import (
	"math"
	"sort"

	"stackmaster-quiz-service/internal/domain"
)

// HistoryPassPercent is the display threshold for marking a historical
// attempt as passed. This is deliberately distinct from the perfect-score
// requirement that drives level unlocking.
const HistoryPassPercent = 50

// Summary is the review view of one completed attempt.
type Summary struct {
	Result     domain.AttemptResult `json:"result"`
	Percentage int                  `json:"percentage"`
	Perfect    bool                 `json:"perfect"`
	// Wrong lists the questions answered incorrectly, unanswered included.
	Wrong []domain.Question `json:"wrong"`
}

// Summarize computes the correctness breakdown for a result.
func Summarize(r domain.AttemptResult) Summary {
	wrong := make([]domain.Question, 0)
	for _, q := range r.Questions {
		if chosen, ok := r.Answers[q.ID]; !ok || chosen != q.CorrectIndex {
			wrong = append(wrong, q)
		}
	}
	return Summary{
		Result:     r,
		Percentage: Percentage(r.Score, r.Total),
		Perfect:    r.Score == r.Total && r.Total > 0,
		Wrong:      wrong,
	}
}

// Percentage returns round(100*score/total), guarding total == 0.
func Percentage(score, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(total)))
}

// HistoryEntry is one row of a user's attempt history.
type HistoryEntry struct {
	Result     domain.AttemptResult `json:"result"`
	Percentage int                  `json:"percentage"`
	Passed     bool                 `json:"passed"`
}

// BuildHistory orders results newest first and annotates each with the
// display pass flag.
func BuildHistory(results []domain.AttemptResult) []HistoryEntry {
	sorted := make([]domain.AttemptResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SubmittedAt.After(sorted[j].SubmittedAt)
	})

	entries := make([]HistoryEntry, 0, len(sorted))
	for _, r := range sorted {
		pct := Percentage(r.Score, r.Total)
		entries = append(entries, HistoryEntry{
			Result:     r,
			Percentage: pct,
			Passed:     pct >= HistoryPassPercent,
		})
	}
	return entries
}

// DayActivity aggregates the attempts submitted on one calendar day.
type DayActivity struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Attempts int    `json:"attempts"`
}

// BuildActivity groups results per submission day, newest day first.
func BuildActivity(results []domain.AttemptResult) []DayActivity {
	byDay := make(map[string]int)
	for _, r := range results {
		byDay[r.SubmittedAt.Format("2006-01-02")]++
	}

	days := make([]DayActivity, 0, len(byDay))
	for day, n := range byDay {
		days = append(days, DayActivity{Date: day, Attempts: n})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	return days
}
