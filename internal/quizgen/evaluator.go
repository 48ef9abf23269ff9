package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"stackmaster-quiz-service/internal/llm"
)

// ErrEvaluationInput indicates the evaluation request is too short to judge.
var ErrEvaluationInput = errors.New("evaluation input too short")

// minEvaluationInput is the minimum length for each evaluation input field.
const minEvaluationInput = 20

const evaluatorSystemPrompt = `You are an expert educator specializing in evaluating the appropriateness of quiz content for students. Using the student's learning history and the quiz content, decide whether the quiz is appropriate for the student and explain why or why not.`

// EvaluationInput describes one content-appropriateness check.
type EvaluationInput struct {
	StudentLearningHistory string `json:"studentLearningHistory"`
	QuizContent            string `json:"quizContent"`
}

// Evaluation is the advisory verdict. It carries no state and triggers no
// side effects.
type Evaluation struct {
	IsAppropriate bool   `json:"isAppropriate"`
	Explanation   string `json:"explanation"`
}

// Evaluator judges whether quiz content suits a student's learning history.
// Admin-only; purely advisory.
type Evaluator struct {
	provider llm.Provider
	config   Config
}

// NewEvaluator creates an Evaluator with the given provider and config.
func NewEvaluator(provider llm.Provider, cfg Config) *Evaluator {
	return &Evaluator{provider: provider, config: cfg}
}

// EvaluateContent runs one advisory evaluation. Both input fields must be at
// least 20 characters.
func (e *Evaluator) EvaluateContent(ctx context.Context, input EvaluationInput) (Evaluation, error) {
	if len(input.StudentLearningHistory) < minEvaluationInput {
		return Evaluation{}, fmt.Errorf("%w: student learning history", ErrEvaluationInput)
	}
	if len(input.QuizContent) < minEvaluationInput {
		return Evaluation{}, fmt.Errorf("%w: quiz content", ErrEvaluationInput)
	}

	userMsg := fmt.Sprintf("Student Learning History: %s\n\nQuiz Content: %s",
		input.StudentLearningHistory, input.QuizContent)

	resp, err := e.provider.Generate(ctx, llm.Request{
		System: evaluatorSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      EvaluationSchema,
		MaxTokens:   e.config.MaxTokens,
		Temperature: e.config.Temperature,
	})
	if err != nil {
		return Evaluation{}, fmt.Errorf("evaluate content: %w", err)
	}

	var out Evaluation
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return Evaluation{}, fmt.Errorf("parse evaluation: %w", err)
	}
	return out, nil
}
