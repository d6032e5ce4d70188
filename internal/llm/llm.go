// Package llm orchestrates inference across an ordered chain of model
// providers and coerces their output into task-specific structures.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// Provider is a pure request/response inference backend.
type Provider interface {
	Name() string
	Infer(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
}

// ProviderFailure records one provider's failure during a chain attempt.
type ProviderFailure struct {
	Provider string
	Err      error
}

// AggregateError is raised when every provider in the chain failed. It embeds
// each provider's failure so neither side is silently swallowed.
type AggregateError struct {
	Failures []ProviderFailure
}

func (e *AggregateError) Error() string {
	if e == nil || len(e.Failures) == 0 {
		return "all providers failed"
	}
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Provider, f.Err))
	}
	return "all providers failed: " + strings.Join(parts, "; ")
}

// ParseError indicates a provider answered but its output could not be
// coerced to valid structure after the full repair ladder. Callers use it to
// tell "the model answered but unparseably" apart from "neither provider
// responded".
type ParseError struct {
	Task string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s output parse: %v", e.Task, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
