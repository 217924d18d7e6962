// Package llm provides the provider abstraction the answer evaluator is
// built on: a structured-output chat call against Anthropic, OpenAI, or
// Gemini, with retry and request-logging middleware and a deterministic
// mock for tests.
package llm

import (
	"context"
	"encoding/json"
)

// Provider sends one chat request to a language-model service and returns
// structured JSON.
type Provider interface {
	// Generate sends the request and returns the model's output. When
	// req.Schema is set the provider uses its native structured-output
	// mechanism and the returned Content is JSON validated against the
	// schema.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the configured model identifier.
	ModelID() string
}

// Request describes what to send.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation so far. The evaluator threads a
	// trainee's prior attempts here as alternating user/assistant turns,
	// ending with the current submission.
	Messages []Message

	// Schema, when set, is the JSON Schema the response must conform to.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature controls randomness, 0.0 - 1.0. Zero when unset.
	Temperature float64
}

// Message is one conversation turn.
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

// Schema names a JSON Schema the response must satisfy.
type Schema struct {
	// Name identifies the schema to the provider (kebab-case).
	Name string

	// Description guides generation.
	Description string

	// Definition is the JSON Schema document as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is validated JSON when the request carried a schema,
	// otherwise the raw text.
	Content json.RawMessage

	// Usage reports token consumption.
	Usage Usage

	// Model is the model that actually served the request.
	Model string
}

// Usage tracks token consumption for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}
