package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"stackmaster-quiz-service/internal/domain"
	"stackmaster-quiz-service/internal/llm"
)

// ErrGeneration marks any failure to produce a complete, well-formed
// question set. Callers surface it as a terminal error for the attempt being
// started; no partial quiz is ever returned.
var ErrGeneration = errors.New("question generation failed")

// Config bounds a single generation call.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the standard generation limits.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.7,
	}
}

// Generator produces difficulty-graded multiple-choice question sets using
// an LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
}

// NewGenerator creates a Generator with the given provider and config.
func NewGenerator(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, config: cfg}
}

// questionOutput is one raw question from the model before validation.
type questionOutput struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

type quizOutput struct {
	Questions []questionOutput `json:"questions"`
}

// GenerateQuestions produces exactly count questions on the topic at the
// given difficulty level (1-15). The output is schema-validated by the
// provider and structurally validated here before anything is returned.
func (g *Generator) GenerateQuestions(ctx context.Context, topic string, count, level int) ([]domain.Question, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: question count must be positive, got %d", ErrGeneration, count)
	}
	if level < domain.MinDifficultyLevel || level > domain.MaxDifficultyLevel {
		return nil, fmt.Errorf("%w: difficulty level %d out of range", ErrGeneration, level)
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(topic, count, level)},
		},
		Schema:      QuizSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	var raw quizOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", ErrGeneration, err)
	}

	questions := make([]domain.Question, 0, len(raw.Questions))
	for _, q := range raw.Questions {
		questions = append(questions, domain.Question{
			ID:           q.ID,
			Text:         q.Question,
			Options:      q.Options,
			CorrectIndex: q.CorrectAnswer,
		})
	}

	if err := validateQuestions(questions, count); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return questions, nil
}
