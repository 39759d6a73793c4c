package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"syscall"

	"github.com/richhaase/council/internal/domain"
)

// ClaudeBackend executes agents through the claude CLI in headless mode.
type ClaudeBackend struct {
	// WorkDir is the working directory for the subprocess; empty means
	// the current directory.
	WorkDir string
}

// NewClaudeBackend creates a claude CLI backend.
func NewClaudeBackend(workDir string) *ClaudeBackend {
	return &ClaudeBackend{WorkDir: workDir}
}

// IsAvailable checks that the claude CLI is installed.
func (b *ClaudeBackend) IsAvailable() error {
	if _, err := exec.LookPath("claude"); err != nil {
		return fmt.Errorf("claude CLI not found in PATH: %w", err)
	}
	return nil
}

// claudeEnvelope is the JSON envelope emitted by `claude --print
// --output-format json`.
type claudeEnvelope struct {
	Subtype          string           `json:"subtype"`
	Result           string           `json:"result"`
	StructuredOutput *json.RawMessage `json:"structured_output"`
	NumTurns         int              `json:"num_turns"`
	TotalCostUSD     float64          `json:"total_cost_usd"`
	Usage            struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Complete runs one agent execution. The prompt is piped via stdin to avoid
// ARG_MAX limits; the process group is set so that cancellation kills any
// children the CLI spawned.
func (b *ClaudeBackend) Complete(ctx context.Context, req Request) (*Response, error) {
	args := []string{
		"--print",
		"--output-format", "json",
		"--max-turns", strconv.Itoa(req.MaxTurns),
	}
	if req.Model != "" {
		args = append(args, "--model", req.Model)
	}
	if req.SystemPrompt != "" {
		args = append(args, "--system-prompt", req.SystemPrompt)
	}
	if len(req.AllowedTools) > 0 {
		args = append(args, "--allowed-tools", strings.Join(req.AllowedTools, ","))
	} else {
		args = append(args, "--tools", "")
	}
	args = append(args, "-")

	// #nosec G204 - the command is always the claude CLI with arguments
	// assembled from trusted engine code, not user input.
	cmd := exec.CommandContext(ctx, "claude", args...)
	cmd.Stdin = bytes.NewReader([]byte(req.UserMessage))
	if b.WorkDir != "" {
		cmd.Dir = b.WorkDir
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()

	// The deadline takes precedence over whatever exit state the killed
	// process reported.
	if ctx.Err() != nil {
		b.killProcessGroup(cmd)
		return nil, ctx.Err()
	}

	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return nil, &ExecError{
			ExitCode: exitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
			Message:  fmt.Sprintf("claude CLI failed (exit %d)", exitCode),
		}
	}

	var envelope claudeEnvelope
	if err := json.Unmarshal(stdout.Bytes(), &envelope); err != nil {
		return nil, &ExecError{
			ExitCode:  0,
			ErrorType: "bad_output",
			Message:   fmt.Sprintf("failed to parse claude CLI output: %v", err),
		}
	}

	output := envelopeOutput(&envelope)

	if envelope.Subtype == "error_max_turns" {
		return nil, &TurnLimitError{
			Turns:         envelope.NumTurns,
			PartialOutput: output,
		}
	}
	if envelope.Subtype != "" && envelope.Subtype != "success" {
		return nil, &ExecError{
			ErrorType: envelope.Subtype,
			Stderr:    strings.TrimSpace(stderr.String()),
			Message:   fmt.Sprintf("claude CLI reported %s", envelope.Subtype),
		}
	}

	return &Response{
		Output: output,
		Turns:  envelope.NumTurns,
		Cost: &domain.CostInfo{
			InputTokens:  envelope.Usage.InputTokens,
			OutputTokens: envelope.Usage.OutputTokens,
			TotalCost:    envelope.TotalCostUSD,
		},
	}, nil
}

// envelopeOutput picks the structured output when present, otherwise
// extracts JSON embedded in the result text.
func envelopeOutput(env *claudeEnvelope) []byte {
	if env.StructuredOutput != nil {
		raw := strings.TrimSpace(string(*env.StructuredOutput))
		if raw != "" && raw != "null" {
			return []byte(raw)
		}
	}
	if env.Result != "" {
		return []byte(ExtractJSON(env.Result))
	}
	return nil
}

func (b *ClaudeBackend) killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process != nil {
		// Negative PID targets the whole process group. The process may
		// already be gone; errors are expected.
		_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
