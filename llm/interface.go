// Package llm provides clients for language-model completion services.
package llm

import "context"

// CompletionRequest describes a single completion call: a system-role
// grounding instruction, the user prompt, and the sampling bounds.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	// Temperature biases sampling; the answering pipeline uses a low value
	// for deterministic, factual output.
	Temperature float32
	// MaxTokens bounds the output-token budget. Zero means provider default.
	MaxTokens int
}

// LLM is the interface for language-model completion services.
type LLM interface {
	// Complete generates a completion for the given request.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
