package interfaces

import (
	"context"
)

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// CompletionRequest is a provider-agnostic completion request.
// Model may carry a provider prefix ("claude/...", "gemini/...", "openai/...").
type CompletionRequest struct {
	Model       string
	Messages    []Message
	Temperature float32 // zero uses the provider default
	MaxTokens   int     // zero uses the provider default
}

// CompletionResponse carries the generated text. Text is empty when the
// service produced no output; that is not an error.
type CompletionResponse struct {
	Text     string
	Provider string
	Model    string
}

// CompletionService is the text-in/text-out model boundary used by the
// analysis and synthesis drivers. Calls are synchronous; no retries or
// local timeouts are applied by implementations.
type CompletionService interface {
	// Complete sends the request and waits for the full response.
	Complete(ctx context.Context, request *CompletionRequest) (*CompletionResponse, error)

	// Close releases provider clients.
	Close() error
}

// UserPrompt builds the common single-turn request shape: an optional system
// instruction followed by one user message.
func UserPrompt(model, system, prompt string) *CompletionRequest {
	messages := make([]Message, 0, 2)
	if system != "" {
		messages = append(messages, Message{Role: "system", Content: system})
	}
	messages = append(messages, Message{Role: "user", Content: prompt})
	return &CompletionRequest{
		Model:    model,
		Messages: messages,
	}
}
