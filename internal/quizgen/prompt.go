package quizgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert curriculum designer and quiz creator for a full-stack developer learning platform. You generate multiple-choice quizzes tailored to a requested difficulty level on a scale of 1 to 15.

- Levels 1-3 (Basic): fundamental definitions, syntax, and basic concepts. e.g., "What does HTML stand for?"
- Levels 4-6 (Foundation): core mechanics and common use cases. e.g., "What is the difference between 'let' and 'const' in JavaScript?"
- Levels 7-9 (Intermediate): applying knowledge to simple problems. e.g., "Given this CSS, which element will have the highest specificity?"
- Levels 10-12 (Advanced): combining multiple concepts, trade-offs, and best practices.
- Levels 13-15 (Expert): complex scenarios and architectural questions requiring deep, nuanced knowledge.

Rules:
- Do NOT repeat questions. Each difficulty level must present a new and distinct set of challenges, progressively and noticeably harder than the level below it.
- Every question has exactly 4 options with exactly one correct answer.
- The 'correctAnswer' field is the zero-based index of the correct option. Double-check that the index points to the genuinely correct answer before finalizing.
- Question 'id' values are unique numbers starting from 1.`

// buildUserMessage constructs the generation request for one attempt.
func buildUserMessage(topic string, count, level int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Questions: %d\n", count)
	fmt.Fprintf(&b, "Difficulty level: %d of 15 (%s)\n", level, bandName(level))
	return b.String()
}

// bandName labels the difficulty band a level falls in. Bands are advisory
// generation guidance only; the core never enforces them.
func bandName(level int) string {
	switch {
	case level <= 3:
		return "basic"
	case level <= 6:
		return "foundation"
	case level <= 9:
		return "intermediate"
	case level <= 12:
		return "advanced"
	default:
		return "expert"
	}
}
