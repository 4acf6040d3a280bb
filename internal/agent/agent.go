// Package agent holds the LLM providers that turn a topic, style, and
// optional search context into a hot take.
package agent

import "context"

// Agent is an LLM provider. Implementations are safe for concurrent use.
type Agent interface {
	// Name is the human-readable agent name shown in responses.
	Name() string
	// Model is the underlying model identifier.
	Model() string
	// Configured reports whether the agent has credentials.
	Configured() bool
	// GenerateHotTake produces a complete take. searchContext may be empty.
	GenerateHotTake(ctx context.Context, topic, style, searchContext string) (string, error)
	// StreamHotTake produces a take incrementally, calling onDelta for each
	// text fragment in order. A non-nil error from onDelta aborts the stream.
	StreamHotTake(ctx context.Context, topic, style, searchContext string, onDelta func(string) error) error
}
