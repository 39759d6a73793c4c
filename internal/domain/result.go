package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// CostInfo holds token usage and cost for one or more LLM executions.
type CostInfo struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalCost    float64 `json:"total_cost"`
}

// Add returns the element-wise sum of two cost records.
func (c CostInfo) Add(other CostInfo) CostInfo {
	return CostInfo{
		InputTokens:  c.InputTokens + other.InputTokens,
		OutputTokens: c.OutputTokens + other.OutputTokens,
		TotalCost:    c.TotalCost + other.TotalCost,
	}
}

// AgentResult is a closed union over the four ways a single agent execution
// can end. Exactly one variant exists per execution:
//
//   - AgentSuccess: completed within both budgets
//   - AgentTruncated: hit the turn budget; issues gathered so far are valid
//   - AgentError: any other failure (transport, bad output, process error)
//   - AgentTimeout: hit the wall-clock deadline
//
// Consumers switch exhaustively on the concrete type.
type AgentResult interface {
	// Agent returns the name of the agent that produced this result.
	Agent() string
	// Status returns the discriminator tag ("success", "truncated",
	// "error", "timeout") used in serialized form.
	Status() string

	sealed()
}

// AgentSuccess is a completed run within both budgets.
type AgentSuccess struct {
	AgentName   string        `json:"agent_name"`
	Issues      []ReviewIssue `json:"issues"`
	ElapsedTime time.Duration `json:"elapsed_time"`
	Cost        *CostInfo     `json:"cost,omitempty"`
}

// AgentTruncated is a run that reached its turn budget. Issues extracted
// from completed turns are preserved and count the same as success issues.
type AgentTruncated struct {
	AgentName     string        `json:"agent_name"`
	Issues        []ReviewIssue `json:"issues"`
	ElapsedTime   time.Duration `json:"elapsed_time"`
	TurnsConsumed int           `json:"turns_consumed"`
}

// AgentError is a run that failed for any reason other than the two budgets.
type AgentError struct {
	AgentName    string `json:"agent_name"`
	ErrorMessage string `json:"error_message"`
	ExitCode     *int   `json:"exit_code,omitempty"`
	ErrorType    string `json:"error_type,omitempty"`
	Stderr       string `json:"stderr,omitempty"`
}

// AgentTimeout is a run that exceeded its wall-clock deadline.
type AgentTimeout struct {
	AgentName      string  `json:"agent_name"`
	TimeoutSeconds float64 `json:"timeout_seconds"`
}

func (r AgentSuccess) Agent() string   { return r.AgentName }
func (r AgentTruncated) Agent() string { return r.AgentName }
func (r AgentError) Agent() string     { return r.AgentName }
func (r AgentTimeout) Agent() string   { return r.AgentName }

func (AgentSuccess) Status() string   { return "success" }
func (AgentTruncated) Status() string { return "truncated" }
func (AgentError) Status() string     { return "error" }
func (AgentTimeout) Status() string   { return "timeout" }

func (AgentSuccess) sealed()   {}
func (AgentTruncated) sealed() {}
func (AgentError) sealed()     {}
func (AgentTimeout) sealed()   {}

// Compile-time union membership checks.
var (
	_ AgentResult = AgentSuccess{}
	_ AgentResult = AgentTruncated{}
	_ AgentResult = AgentError{}
	_ AgentResult = AgentTimeout{}
)

// ResultIssues returns the issues carried by a result. Error and Timeout
// contribute nothing.
func ResultIssues(r AgentResult) []ReviewIssue {
	switch v := r.(type) {
	case AgentSuccess:
		return v.Issues
	case AgentTruncated:
		return v.Issues
	default:
		return nil
	}
}

// IsUsable reports whether a result carries reviewable content
// (Success or Truncated).
func IsUsable(r AgentResult) bool {
	switch r.(type) {
	case AgentSuccess, AgentTruncated:
		return true
	default:
		return false
	}
}

// MarshalAgentResult serializes a result with its "status" discriminator.
func MarshalAgentResult(r AgentResult) ([]byte, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	fields["status"] = json.RawMessage(fmt.Sprintf("%q", r.Status()))
	return json.Marshal(fields)
}

// UnmarshalAgentResult reconstructs a result from its serialized form,
// dispatching on the "status" discriminator.
func UnmarshalAgentResult(data []byte) (AgentResult, error) {
	var tag struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}
	switch tag.Status {
	case "success":
		var r AgentSuccess
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, err
		}
		return r, nil
	case "truncated":
		var r AgentTruncated
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, err
		}
		return r, nil
	case "error":
		var r AgentError
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, err
		}
		return r, nil
	case "timeout":
		var r AgentTimeout
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown agent result status %q", tag.Status)
	}
}
