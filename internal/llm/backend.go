// Package llm wraps the external agent-execution CLI behind a small
// backend interface the engine can fake in tests.
package llm

import (
	"context"
	"fmt"

	"github.com/richhaase/council/internal/domain"
)

// Request describes one multi-turn agent execution.
type Request struct {
	// Model is the resolved model identifier.
	Model string
	// SystemPrompt is the agent's system prompt.
	SystemPrompt string
	// UserMessage is the rendered instruction block.
	UserMessage string
	// AllowedTools are backend permission patterns; empty means no tools.
	AllowedTools []string
	// MaxTurns caps the number of model round-trips.
	MaxTurns int
}

// Response is a completed execution within the turn budget.
type Response struct {
	// Output is the structured JSON the model produced.
	Output []byte
	// Turns is the number of round-trips consumed.
	Turns int
	// Cost holds token usage when the backend reports it.
	Cost *domain.CostInfo
}

// Backend executes agent requests. The context carries the wall-clock
// deadline; implementations must honor cancellation promptly so that
// shutdown stays bounded.
type Backend interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// TurnLimitError reports that the turn budget was exhausted before the
// model finished. PartialOutput carries whatever structured output the
// final completed turn produced, and may be empty.
type TurnLimitError struct {
	Turns         int
	PartialOutput []byte
}

func (e *TurnLimitError) Error() string {
	return fmt.Sprintf("turn limit reached after %d turns", e.Turns)
}

// ExecError reports a backend process failure.
type ExecError struct {
	ExitCode  int
	ErrorType string
	Stderr    string
	Message   string
}

func (e *ExecError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend process failed with exit code %d", e.ExitCode)
}
