package engine

import (
	"time"

	"github.com/richhaase/council/internal/agentdef"
	"github.com/richhaase/council/internal/config"
	"github.com/richhaase/council/internal/domain"
	"github.com/richhaase/council/internal/schema"
	"github.com/richhaase/council/internal/tools"
)

// ExecutionContext is the fully resolved, immutable plan for one agent
// execution. Everything the runner needs is decided before any agent
// starts; nothing is resolved mid-flight.
type ExecutionContext struct {
	AgentName    string
	Model        string
	SystemPrompt string
	UserMessage  string
	Schema       *schema.Schema
	AllowedTools []string
	Timeout      time.Duration
	MaxTurns     int
	Phase        domain.Phase
}

// BuildExecutionContext resolves one agent's execution plan. Model,
// timeout, and turn budget resolve per-agent override first, then the
// definition, then global config. Schema and tool resolution failures are
// validation failures against this agent, reported by the caller as an
// error result rather than aborting the batch.
func BuildExecutionContext(
	def agentdef.AgentDefinition,
	cfg *config.Resolved,
	registry *schema.Registry,
	catalog *tools.Catalog,
	userMessage string,
) (ExecutionContext, error) {
	sch, err := registry.Get(def.OutputSchema)
	if err != nil {
		return ExecutionContext{}, err
	}

	categories := make([]domain.ToolCategory, len(def.AllowedTools))
	for i, name := range def.AllowedTools {
		categories[i] = domain.ToolCategory(name)
	}
	resolved, err := catalog.Resolve(categories)
	if err != nil {
		return ExecutionContext{}, err
	}

	return ExecutionContext{
		AgentName:    def.Name,
		Model:        cfg.AgentModel(def.Name, def.Model),
		SystemPrompt: def.SystemPrompt,
		UserMessage:  userMessage,
		Schema:       sch,
		AllowedTools: tools.Patterns(resolved),
		Timeout:      time.Duration(cfg.AgentTimeout(def.Name)) * time.Second,
		MaxTurns:     cfg.AgentMaxTurns(def.Name),
		Phase:        def.Phase,
	}, nil
}
