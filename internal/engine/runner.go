package engine

import (
	"context"
	"errors"
	"time"

	"github.com/richhaase/council/internal/domain"
	"github.com/richhaase/council/internal/llm"
)

// RunAgent executes one reviewer agent and classifies the outcome into
// exactly one result variant. The wall-clock deadline and the turn budget
// are independent axes: the deadline produces Timeout, turn exhaustion
// produces Truncated, and the two are never conflated.
//
// RunAgent never returns an error. It returns nil only when the parent
// context was cancelled by shutdown, in which case the agent is excluded
// from the report rather than reported as a failure.
func RunAgent(ctx context.Context, backend llm.Backend, ec ExecutionContext) domain.AgentResult {
	start := time.Now()

	runCtx, cancel := context.WithTimeout(ctx, ec.Timeout)
	defer cancel()

	resp, err := backend.Complete(runCtx, llm.Request{
		Model:        ec.Model,
		SystemPrompt: ec.SystemPrompt,
		UserMessage:  ec.UserMessage,
		AllowedTools: ec.AllowedTools,
		MaxTurns:     ec.MaxTurns,
	})

	if err != nil {
		// Shutdown cancellation: the parent was cancelled, not our own
		// deadline. The agent produced nothing reportable.
		if ctx.Err() != nil {
			return nil
		}
		return classifyError(ec, err, time.Since(start))
	}

	issues, err := ec.Schema.Decode(ec.AgentName, resp.Output)
	if err != nil {
		// Schema violations are the agent's failure, captured as data.
		return domain.AgentError{
			AgentName:    ec.AgentName,
			ErrorMessage: err.Error(),
			ErrorType:    "schema_violation",
		}
	}

	return domain.AgentSuccess{
		AgentName:   ec.AgentName,
		Issues:      issues,
		ElapsedTime: time.Since(start),
		Cost:        resp.Cost,
	}
}

func classifyError(ec ExecutionContext, err error, elapsed time.Duration) domain.AgentResult {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.AgentTimeout{
			AgentName:      ec.AgentName,
			TimeoutSeconds: ec.Timeout.Seconds(),
		}
	}

	var turnErr *llm.TurnLimitError
	if errors.As(err, &turnErr) {
		return domain.AgentTruncated{
			AgentName:     ec.AgentName,
			Issues:        truncatedIssues(ec, turnErr.PartialOutput),
			ElapsedTime:   elapsed,
			TurnsConsumed: truncatedTurns(ec, turnErr),
		}
	}

	var execErr *llm.ExecError
	if errors.As(err, &execErr) {
		exitCode := execErr.ExitCode
		return domain.AgentError{
			AgentName:    ec.AgentName,
			ErrorMessage: execErr.Error(),
			ExitCode:     &exitCode,
			ErrorType:    execErr.ErrorType,
			Stderr:       execErr.Stderr,
		}
	}

	return domain.AgentError{
		AgentName:    ec.AgentName,
		ErrorMessage: err.Error(),
	}
}

// truncatedIssues salvages issues from whatever structured output the last
// completed turn produced. An unparseable partial yields an empty list;
// truncation still counts as a valid outcome either way.
func truncatedIssues(ec ExecutionContext, partial []byte) []domain.ReviewIssue {
	if len(partial) == 0 {
		return nil
	}
	issues, err := ec.Schema.Decode(ec.AgentName, partial)
	if err != nil {
		return nil
	}
	return issues
}

func truncatedTurns(ec ExecutionContext, turnErr *llm.TurnLimitError) int {
	if turnErr.Turns > 0 {
		return turnErr.Turns
	}
	return ec.MaxTurns
}
