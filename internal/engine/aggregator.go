package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/richhaase/council/internal/agentdef"
	"github.com/richhaase/council/internal/config"
	"github.com/richhaase/council/internal/domain"
	"github.com/richhaase/council/internal/llm"
)

// AggregatorError is an aggregation pass failure. It is never fatal to the
// run: the caller records it in the report and the exit code is unaffected.
type AggregatorError struct {
	Err error
}

func (e *AggregatorError) Error() string {
	return fmt.Sprintf("aggregator agent failed: %v", e.Err)
}

func (e *AggregatorError) Unwrap() error { return e.Err }

// buildAggregatorMessage renders all agent results for the aggregator:
// issues from usable results, and failed agents as context.
func buildAggregatorMessage(results []domain.AgentResult) string {
	var b strings.Builder
	b.WriteString("# Agent Review Results\n\n")

	for _, r := range results {
		if !domain.IsUsable(r) {
			continue
		}
		fmt.Fprintf(&b, "## Agent: %s\n", r.Agent())
		issues := domain.ResultIssues(r)
		if len(issues) == 0 {
			b.WriteString("- No issues found.\n")
		}
		for _, issue := range issues {
			location := ""
			if issue.Location != nil {
				location = fmt.Sprintf(" (%s:%d)", issue.Location.FilePath, issue.Location.LineNumber)
			}
			fmt.Fprintf(&b, "- [%s]%s %s\n", issue.Severity, location, issue.Description)
			if issue.Suggestion != "" {
				fmt.Fprintf(&b, "  Suggestion: %s\n", issue.Suggestion)
			}
			if issue.Category != "" {
				fmt.Fprintf(&b, "  Category: %s\n", issue.Category)
			}
		}
		b.WriteString("\n")
	}

	var failed []string
	for _, r := range results {
		switch v := r.(type) {
		case domain.AgentError:
			failed = append(failed, fmt.Sprintf("- %s: error: %s", v.AgentName, v.ErrorMessage))
		case domain.AgentTimeout:
			failed = append(failed, fmt.Sprintf("- %s: timeout (%.0fs)", v.AgentName, v.TimeoutSeconds))
		}
	}
	if len(failed) > 0 {
		b.WriteString("# Failed Agents\n\n")
		b.WriteString(strings.Join(failed, "\n"))
		b.WriteString("\n")
	}

	return b.String()
}

// RunAggregator executes the aggregation agent over the collected results
// and returns the deduplicated report. The aggregator runs with no tools;
// everything it needs is in its message.
func RunAggregator(
	ctx context.Context,
	backend llm.Backend,
	def agentdef.AggregatorDefinition,
	cfg *config.Resolved,
	results []domain.AgentResult,
) (*domain.AggregatedReport, error) {
	timeout := time.Duration(cfg.AggregationTimeout()) * time.Second
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := backend.Complete(runCtx, llm.Request{
		Model:        cfg.AggregationModel(def.Model),
		SystemPrompt: def.SystemPrompt,
		UserMessage:  buildAggregatorMessage(results),
		MaxTurns:     cfg.AggregationMaxTurns(),
	})
	if err != nil {
		return nil, &AggregatorError{Err: err}
	}

	var report domain.AggregatedReport
	if err := json.Unmarshal(resp.Output, &report); err != nil {
		return nil, &AggregatorError{Err: fmt.Errorf("malformed aggregator output: %w", err)}
	}
	return &report, nil
}
