package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/richhaase/council/internal/agentdef"
	"github.com/richhaase/council/internal/config"
	"github.com/richhaase/council/internal/domain"
	"github.com/richhaase/council/internal/llm"
	"github.com/richhaase/council/internal/tools"
)

// ReferencedContent is one externally-fetched reference the selector passes
// down to reviewers, e.g. a linked issue or a design document.
type ReferencedContent struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Content string `json:"content"`
}

// SelectorOutput is the selector's structured result. An empty
// SelectedAgents list is a valid, successful outcome. The metadata fields
// are optional context propagated into each reviewer's instructions.
type SelectorOutput struct {
	SelectedAgents []string `json:"selected_agents"`
	Reasoning      string   `json:"reasoning"`

	ChangeIntent        string              `json:"change_intent,omitempty"`
	AffectedFiles       []string            `json:"affected_files,omitempty"`
	RelevantConventions []string            `json:"relevant_conventions,omitempty"`
	IssueContext        string              `json:"issue_context,omitempty"`
	ReferencedContent   []ReferencedContent `json:"referenced_content,omitempty"`
}

// SelectorError is any selector failure: timeout, execution error, or
// malformed output. It is fatal to the run; there is no meaningful partial
// result without a selection.
type SelectorError struct {
	Err error
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("selector agent failed: %v", e.Err)
}

func (e *SelectorError) Unwrap() error { return e.Err }

// RunSelector executes the selector agent and returns its selection. The
// selector's tool list comes from config when set, otherwise from its
// definition; an unknown category in either is fatal configuration, not a
// reviewable agent failure.
func RunSelector(
	ctx context.Context,
	backend llm.Backend,
	def agentdef.SelectorDefinition,
	cfg *config.Resolved,
	catalog *tools.Catalog,
	instruction string,
) (*SelectorOutput, error) {
	toolNames := def.AllowedTools
	if len(cfg.Selector.AllowedTools) > 0 {
		toolNames = cfg.Selector.AllowedTools
	}
	categories := make([]domain.ToolCategory, len(toolNames))
	for i, name := range toolNames {
		categories[i] = domain.ToolCategory(name)
	}
	resolved, err := catalog.Resolve(categories)
	if err != nil {
		return nil, &SelectorError{Err: err}
	}

	timeout := time.Duration(cfg.SelectorTimeout()) * time.Second
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := backend.Complete(runCtx, llm.Request{
		Model:        cfg.SelectorModel(def.Model),
		SystemPrompt: def.SystemPrompt,
		UserMessage:  instruction,
		AllowedTools: tools.Patterns(resolved),
		MaxTurns:     cfg.SelectorMaxTurns(),
	})
	if err != nil {
		return nil, &SelectorError{Err: err}
	}

	var out SelectorOutput
	if err := json.Unmarshal(resp.Output, &out); err != nil {
		return nil, &SelectorError{Err: fmt.Errorf("malformed selector output: %w", err)}
	}
	return &out, nil
}
