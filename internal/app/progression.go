package app

import (
	"stackmaster-quiz-service/internal/domain"
)

// Progression computes level unlocking from a user's attempt history.
// It is driven entirely by the section table it is constructed with; it holds
// no state of its own.
type Progression struct {
	sections []domain.Section
}

// NewProgression builds an evaluator over the given section table. With no
// sections it falls back to the default beginner/intermediate/advanced ladder.
func NewProgression(sections ...domain.Section) *Progression {
	if len(sections) == 0 {
		sections = domain.DefaultSections
	}
	return &Progression{sections: sections}
}

// Progress is the unlocking state derived from historical results for one
// (user, quiz) pair.
type Progress struct {
	// PassedLevels holds every difficulty level with at least one
	// perfect-score attempt.
	PassedLevels map[int]bool
	// HighestPassedLevel is the max of PassedLevels, or 0 when none passed.
	HighestPassedLevel int
	// UnlockedSection is the name of the highest unlocked section.
	UnlockedSection string

	sections []domain.Section
}

// Evaluate derives Progress from the full set of results for a (user, quiz)
// pair. Passing a level requires a perfect score on at least one attempt.
func (p *Progression) Evaluate(results []domain.AttemptResult) Progress {
	passed := make(map[int]bool)
	highest := 0
	for _, r := range results {
		if r.DifficultyLevel == 0 {
			continue
		}
		if r.Total > 0 && r.Score == r.Total {
			passed[r.DifficultyLevel] = true
			if r.DifficultyLevel > highest {
				highest = r.DifficultyLevel
			}
		}
	}

	progress := Progress{
		PassedLevels:       passed,
		HighestPassedLevel: highest,
		sections:           p.sections,
	}
	for _, s := range p.sections {
		if progress.sectionUnlocked(s) {
			progress.UnlockedSection = s.Name
		}
	}
	return progress
}

// sectionUnlocked reports whether every level of every prerequisite section
// has been passed. Sections without prerequisites are always unlocked.
func (pr Progress) sectionUnlocked(s domain.Section) bool {
	for _, name := range s.Requires {
		req, ok := pr.section(name)
		if !ok {
			return false
		}
		for _, level := range req.Levels() {
			if !pr.PassedLevels[level] {
				return false
			}
		}
	}
	return true
}

// SectionUnlocked reports whether the named section is unlocked.
func (pr Progress) SectionUnlocked(name string) bool {
	s, ok := pr.section(name)
	if !ok {
		return false
	}
	return pr.sectionUnlocked(s)
}

// Selectable reports whether the user may start an attempt at the given
// difficulty level: only levels up to one past the best-passed level, within
// an unlocked section. Level 1 is always selectable for a fresh user.
func (pr Progress) Selectable(level int) bool {
	if level > pr.HighestPassedLevel+1 {
		return false
	}
	for _, s := range pr.sections {
		if s.Contains(level) {
			return pr.sectionUnlocked(s)
		}
	}
	return false
}

func (pr Progress) section(name string) (domain.Section, bool) {
	for _, s := range pr.sections {
		if s.Name == name {
			return s, true
		}
	}
	return domain.Section{}, false
}
