// Package agentdef loads and validates review agent definitions from TOML.
// A definition describes one reviewer: its prompt, model, output schema,
// allowed tool categories, applicability hints for the selector, and its
// execution phase. Built-in definitions ship embedded in the binary; custom
// definitions in a project directory override built-ins by name.
package agentdef

import (
	"fmt"
	"regexp"

	"github.com/richhaase/council/internal/domain"
)

// agentNameRe constrains agent names to lowercase letters, digits, and
// hyphens so names are safe as map keys, file names, and report labels.
var agentNameRe = regexp.MustCompile(`^[a-z0-9-]+$`)

// ApplicabilityRule is guidance for the selector, not a mechanical filter:
// always means the agent should run on any change; file and content patterns
// hint at when the agent is relevant. Patterns use glob syntax for files and
// regular expressions for content.
type ApplicabilityRule struct {
	Always          bool     `toml:"always"`
	FilePatterns    []string `toml:"file_patterns"`
	ContentPatterns []string `toml:"content_patterns"`
}

// Validate checks that every content pattern compiles.
func (r ApplicabilityRule) Validate() error {
	for _, pattern := range r.ContentPatterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("invalid regex pattern %q: %v", pattern, err)
		}
	}
	return nil
}

// AgentDefinition is one reviewer agent as described by a TOML file.
// Model is optional; an empty model falls back to the global config value.
type AgentDefinition struct {
	Name          string            `toml:"name"`
	Description   string            `toml:"description"`
	Model         string            `toml:"model"`
	OutputSchema  string            `toml:"output_schema"`
	SystemPrompt  string            `toml:"system_prompt"`
	AllowedTools  []string          `toml:"allowed_tools"`
	Applicability ApplicabilityRule `toml:"applicability"`
	Phase         domain.Phase      `toml:"phase"`
}

// Validate checks the definition invariants. Zero-value phase and
// applicability are filled with their defaults (main, always) first.
func (d *AgentDefinition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !agentNameRe.MatchString(d.Name) {
		return fmt.Errorf("invalid agent name %q: must match %s", d.Name, agentNameRe)
	}
	if d.Description == "" {
		return fmt.Errorf("description is required")
	}
	if d.OutputSchema == "" {
		return fmt.Errorf("output_schema is required")
	}
	if d.SystemPrompt == "" {
		return fmt.Errorf("system_prompt is required")
	}
	if d.Phase == "" {
		d.Phase = domain.PhaseMain
	}
	if _, err := domain.ParsePhase(string(d.Phase)); err != nil {
		return err
	}
	if !d.Applicability.Always &&
		len(d.Applicability.FilePatterns) == 0 &&
		len(d.Applicability.ContentPatterns) == 0 {
		d.Applicability.Always = true
	}
	if err := d.Applicability.Validate(); err != nil {
		return err
	}
	return nil
}

// SelectorDefinition describes the selector agent. The selector has a fixed
// output shape and no phase or applicability, so only prompt, model, and
// tools are configurable.
type SelectorDefinition struct {
	Name         string   `toml:"name"`
	Description  string   `toml:"description"`
	Model        string   `toml:"model"`
	SystemPrompt string   `toml:"system_prompt"`
	AllowedTools []string `toml:"allowed_tools"`
}

// Validate checks the selector definition invariants.
func (d *SelectorDefinition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.SystemPrompt == "" {
		return fmt.Errorf("system_prompt is required")
	}
	return nil
}

// AggregatorDefinition describes the aggregation agent, which deduplicates
// and ranks findings across reviewers. Same shape as the selector.
type AggregatorDefinition struct {
	Name         string   `toml:"name"`
	Description  string   `toml:"description"`
	Model        string   `toml:"model"`
	SystemPrompt string   `toml:"system_prompt"`
	AllowedTools []string `toml:"allowed_tools"`
}

// Validate checks the aggregator definition invariants.
func (d *AggregatorDefinition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.SystemPrompt == "" {
		return fmt.Errorf("system_prompt is required")
	}
	return nil
}
