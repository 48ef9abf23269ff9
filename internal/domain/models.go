package domain

import "time"

// Question is a single multiple-choice question within an attempt.
// IDs are unique within the attempt and start at 1.
type Question struct {
	ID           int      `json:"id"`
	Text         string   `json:"text"`
	Options      []string `json:"options"` // exactly 4
	CorrectIndex int      `json:"correctIndex"`
}

// QuizDefinition is one entry of the static quiz catalog. Questions are not
// stored here; they are generated per attempt at the chosen difficulty level.
type QuizDefinition struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	QuestionCount    int    `json:"questionCount"`
	TimeLimitMinutes int    `json:"timeLimitMinutes"`
}

// Identity is the authenticated user as supplied by the identity provider.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
}

// Name returns the best available display name for result records.
func (i Identity) Name() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	if i.Email != "" {
		return i.Email
	}
	return "Anonymous"
}

// IsZero reports whether no authenticated user is present.
func (i Identity) IsZero() bool {
	return i.UID == ""
}

// AttemptResult is the immutable record of one completed quiz attempt.
// Answers maps question ID to the chosen option index; unanswered questions
// are simply absent from the map.
type AttemptResult struct {
	ID              string      `json:"id"`
	QuizID          string      `json:"quizId"`
	QuizTitle       string      `json:"quizTitle"`
	UserID          string      `json:"userId"`
	UserName        string      `json:"userName"`
	Score           int         `json:"score"`
	Total           int         `json:"total"`
	SubmittedAt     time.Time   `json:"submittedAt"`
	Questions       []Question  `json:"questions"`
	Answers         map[int]int `json:"answers"`
	DifficultyLevel int         `json:"difficultyLevel,omitempty"`
}

// Section groups consecutive difficulty levels that unlock as a block.
// A section is unlocked once every level of every section named in Requires
// has been passed.
type Section struct {
	Name     string
	MinLevel int
	MaxLevel int
	Requires []string
}

// Levels returns the difficulty levels belonging to the section.
func (s Section) Levels() []int {
	levels := make([]int, 0, s.MaxLevel-s.MinLevel+1)
	for l := s.MinLevel; l <= s.MaxLevel; l++ {
		levels = append(levels, l)
	}
	return levels
}

// Contains reports whether the level falls within the section.
func (s Section) Contains(level int) bool {
	return level >= s.MinLevel && level <= s.MaxLevel
}

// DefaultSections is the standard three-section ladder over levels 1-15.
// Additional sections only need new entries here; the progression logic is
// driven entirely by this table.
var DefaultSections = []Section{
	{Name: "beginner", MinLevel: 1, MaxLevel: 5},
	{Name: "intermediate", MinLevel: 6, MaxLevel: 10, Requires: []string{"beginner"}},
	{Name: "advanced", MinLevel: 11, MaxLevel: 15, Requires: []string{"beginner", "intermediate"}},
}

// Difficulty scale bounds for generated questions.
const (
	MinDifficultyLevel = 1
	MaxDifficultyLevel = 15
)
