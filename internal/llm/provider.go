package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider generates a completion for a single request. Implementations
// translate Request into their SDK's wire format and normalize the result.
type Provider interface {
	// Generate sends the request and returns the model output. When
	// req.Schema is set the returned Content has already been validated
	// against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the concrete model this provider talks to.
	ModelID() string
}

// Request is one prompt sent to a provider.
type Request struct {
	System   string
	Messages []Message

	// Schema asks the provider for structured JSON output. Nil means the
	// response is free text.
	Schema *Schema

	// MaxTokens caps the response length. Zero uses DefaultMaxTokens.
	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default in place.
	Temperature float64
}

// DefaultMaxTokens applies when a Request leaves MaxTokens unset.
const DefaultMaxTokens = 1024

func (r Request) maxTokens() int {
	if r.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return r.MaxTokens
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role identifies who sent a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserMessage is shorthand for a one-turn conversation.
func UserMessage(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}

// Schema describes the JSON object a structured request must return.
type Schema struct {
	// Name is a kebab-case identifier, e.g. "code-review". It doubles as
	// the cache key for the compiled validator.
	Name        string
	Description string
	Definition  map[string]any
}

// Stop reasons, normalized across providers.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response is a normalized provider result.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

// Decode unmarshals structured Content into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Content, v); err != nil {
		return &ErrInvalidResponse{Content: r.Content, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

// Text returns Content as plain text.
func (r *Response) Text() string {
	return string(r.Content)
}

// Usage is the token accounting for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

func usageOf(in, out int) Usage {
	return Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out}
}

// resolveModel maps a short alias to a concrete model ID. Unknown names
// pass through unchanged so full model IDs work too.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}

// finish validates structured content and builds the normalized Response.
func finish(req Request, content json.RawMessage, usage Usage, model, stop string) (*Response, error) {
	if stop == StopMaxTokens && req.Schema != nil {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}
