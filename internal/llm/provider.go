package llm

import (
	"context"
	"encoding/json"
)

// Provider abstracts the LLM used for quiz generation and content review.
type Provider interface {
	// Generate sends a prompt and returns the model output. When the
	// request carries a Schema the provider must return JSON conforming
	// to it; the response Content is the validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider targets.
	ModelID() string
}

// Request describes a single generation call.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation. Quiz generation is single-turn, so
	// this normally holds one user message.
	Messages []Message

	// Schema, when set, selects the provider's structured-output mode and
	// the JSON Schema the response must satisfy.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature controls randomness, 0.0-1.0. Zero means deterministic.
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON Schema for structured output.
type Schema struct {
	// Name identifies the schema, kebab-case (e.g. "quiz-questions").
	Name string

	// Description tells the model what the schema represents.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model output.
type Response struct {
	// Content is the generated output. With a Schema on the request this
	// is the schema-validated JSON object.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
