package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ReviewSummary aggregates across all agent results in a run. Issue counts
// and max severity come from Success and Truncated results only.
type ReviewSummary struct {
	TotalIssues      int           `json:"total_issues"`
	MaxSeverity      *Severity     `json:"max_severity"`
	TotalElapsedTime time.Duration `json:"total_elapsed_time"`
	TotalCost        *CostInfo     `json:"total_cost,omitempty"`
}

// Priority orders recommended actions in an aggregated report. It is an
// independent axis from Severity.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority parses a priority string case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(s) {
	case "high":
		return PriorityHigh, nil
	case "medium":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	}
	return "", fmt.Errorf("unknown priority %q (expected high, medium, or low)", s)
}

// UnmarshalJSON accepts any casing and normalizes to lowercase.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParsePriority(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// RecommendedAction is one prioritized follow-up from the aggregation pass.
type RecommendedAction struct {
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
}

// AggregatedReport is the output of the optional LLM aggregation pass:
// deduplicated issues, positive observations, prioritized actions, and the
// names of agents whose results could not contribute.
type AggregatedReport struct {
	Issues             []ReviewIssue       `json:"issues"`
	Strengths          []string            `json:"strengths"`
	RecommendedActions []RecommendedAction `json:"recommended_actions"`
	AgentFailures      []string            `json:"agent_failures"`
}

// LoadError records a non-fatal agent-definition load failure.
type LoadError struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// ReviewReport is the terminal artifact of a review run. Aggregated and
// AggregationError are mutually exclusive: Aggregated is set only when the
// aggregation pass ran and succeeded, AggregationError only when it was
// attempted and failed. Both stay unset when aggregation was skipped.
type ReviewReport struct {
	Results          []AgentResult     `json:"-"`
	Summary          ReviewSummary     `json:"summary"`
	LoadErrors       []LoadError       `json:"load_errors,omitempty"`
	Aggregated       *AggregatedReport `json:"aggregated,omitempty"`
	AggregationError string            `json:"aggregation_error,omitempty"`
}

// MarshalJSON serializes results with their status discriminators.
func (r ReviewReport) MarshalJSON() ([]byte, error) {
	results := make([]json.RawMessage, 0, len(r.Results))
	for _, res := range r.Results {
		raw, err := MarshalAgentResult(res)
		if err != nil {
			return nil, err
		}
		results = append(results, raw)
	}

	type alias ReviewReport
	return json.Marshal(struct {
		Results []json.RawMessage `json:"results"`
		alias
	}{Results: results, alias: alias(r)})
}
