package domain

import "fmt"

// Phase controls when an agent runs relative to the rest of the batch.
// Execution order: early, then main, then final. Within a phase the
// sequential executor runs agents in name order.
type Phase string

const (
	PhaseEarly Phase = "early"
	PhaseMain  Phase = "main"
	PhaseFinal Phase = "final"
)

// PhaseOrder lists the phases in execution order.
var PhaseOrder = []Phase{PhaseEarly, PhaseMain, PhaseFinal}

// ParsePhase validates a phase string.
func ParsePhase(s string) (Phase, error) {
	switch Phase(s) {
	case PhaseEarly, PhaseMain, PhaseFinal:
		return Phase(s), nil
	}
	return "", fmt.Errorf("unknown phase %q (expected early, main, or final)", s)
}

// ToolCategory names a fixed, read-only capability group exposed to agents.
// No category grants write or mutating operations.
type ToolCategory string

const (
	ToolGitRead  ToolCategory = "git_read"
	ToolGHRead   ToolCategory = "gh_read"
	ToolFileRead ToolCategory = "file_read"
)

// AllToolCategories lists every defined category.
var AllToolCategories = []ToolCategory{ToolGitRead, ToolGHRead, ToolFileRead}
