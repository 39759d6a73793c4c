package agentdef

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/richhaase/council/internal/domain"
)

const validAgentTOML = `
name = "test-agent"
description = "A test agent"
model = "claude-sonnet-4-5"
output_schema = "scored_issues"
system_prompt = "You are a test agent."
`

func writeAgent(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
}

func findAgent(t *testing.T, agents []AgentDefinition, name string) AgentDefinition {
	t.Helper()
	for _, a := range agents {
		if a.Name == name {
			return a
		}
	}
	t.Fatalf("agent %q not found", name)
	return AgentDefinition{}
}

func TestLoadBuiltinRoster(t *testing.T) {
	result := LoadBuiltin()
	if len(result.Errors) != 0 {
		t.Fatalf("built-in roster has load errors: %v", result.Errors)
	}

	want := []string{
		"code-reviewer",
		"code-simplifier",
		"comment-analyzer",
		"pr-test-analyzer",
		"silent-failure-hunter",
		"type-design-analyzer",
	}
	if len(result.Agents) != len(want) {
		t.Fatalf("got %d built-in agents, want %d", len(result.Agents), len(want))
	}
	for _, name := range want {
		agent := findAgent(t, result.Agents, name)
		if agent.OutputSchema == "" {
			t.Errorf("%s: empty output_schema", name)
		}
		if agent.SystemPrompt == "" {
			t.Errorf("%s: empty system_prompt", name)
		}
		if _, err := domain.ParsePhase(string(agent.Phase)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestLoadDirMissingDirectory(t *testing.T) {
	result := LoadDir(filepath.Join(t.TempDir(), "does-not-exist"))
	if len(result.Agents) != 0 || len(result.Errors) != 0 {
		t.Errorf("missing directory should load nothing, got %+v", result)
	}
}

func TestLoadDirValidAgent(t *testing.T) {
	dir := t.TempDir()
	writeAgent(t, dir, "test-agent.toml", validAgentTOML)

	result := LoadDir(dir)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Agents) != 1 {
		t.Fatalf("got %d agents, want 1", len(result.Agents))
	}

	agent := result.Agents[0]
	if agent.Name != "test-agent" {
		t.Errorf("name = %q", agent.Name)
	}
	if agent.Model != "claude-sonnet-4-5" {
		t.Errorf("model = %q", agent.Model)
	}
	if agent.Phase != domain.PhaseMain {
		t.Errorf("phase should default to main, got %q", agent.Phase)
	}
	if !agent.Applicability.Always {
		t.Error("applicability should default to always")
	}
}

func TestLoadDirCollectsErrorsPerFile(t *testing.T) {
	dir := t.TempDir()
	writeAgent(t, dir, "good.toml", validAgentTOML)
	writeAgent(t, dir, "syntax.toml", `name = "unclosed`)
	writeAgent(t, dir, "missing-prompt.toml", `
name = "no-prompt"
description = "d"
output_schema = "scored_issues"
`)
	writeAgent(t, dir, "bad-name.toml", `
name = "Has Spaces"
description = "d"
output_schema = "scored_issues"
system_prompt = "p"
`)
	writeAgent(t, dir, "bad-regex.toml", `
name = "bad-regex"
description = "d"
output_schema = "scored_issues"
system_prompt = "p"

[applicability]
content_patterns = ["[unclosed"]
`)
	writeAgent(t, dir, "notes.txt", "not an agent file")

	result := LoadDir(dir)
	if len(result.Agents) != 1 {
		t.Fatalf("got %d agents, want 1 (only good.toml)", len(result.Agents))
	}
	if len(result.Errors) != 4 {
		t.Fatalf("got %d errors, want 4: %v", len(result.Errors), result.Errors)
	}
	for _, e := range result.Errors {
		if e.Source == "" || e.Message == "" {
			t.Errorf("load error missing source or message: %+v", e)
		}
	}
}

func TestLoadCustomOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	writeAgent(t, dir, "code-reviewer.toml", `
name = "code-reviewer"
description = "Custom replacement"
output_schema = "scored_issues"
system_prompt = "Custom prompt."
phase = "early"
`)

	result := Load(dir)
	agent := findAgent(t, result.Agents, "code-reviewer")
	if agent.Description != "Custom replacement" {
		t.Errorf("custom definition did not override built-in: %q", agent.Description)
	}
	if agent.Phase != domain.PhaseEarly {
		t.Errorf("phase = %q, want early", agent.Phase)
	}
}

func TestLoadInvalidCustomKeepsBuiltin(t *testing.T) {
	dir := t.TempDir()
	writeAgent(t, dir, "code-reviewer.toml", `name = "code-reviewer"`)

	result := Load(dir)
	agent := findAgent(t, result.Agents, "code-reviewer")
	if agent.OutputSchema != "severity_classified" {
		t.Errorf("built-in should survive invalid override, got schema %q", agent.OutputSchema)
	}
	if len(result.Errors) != 1 {
		t.Errorf("invalid override should be recorded, got %v", result.Errors)
	}
}

func TestLoadSortsByName(t *testing.T) {
	result := Load("")
	for i := 1; i < len(result.Agents); i++ {
		if result.Agents[i-1].Name >= result.Agents[i].Name {
			t.Fatalf("agents not sorted: %q before %q",
				result.Agents[i-1].Name, result.Agents[i].Name)
		}
	}
}

func TestLoadSelectorBuiltin(t *testing.T) {
	def, err := LoadSelector("")
	if err != nil {
		t.Fatalf("LoadSelector failed: %v", err)
	}
	if def.Name != "selector" {
		t.Errorf("name = %q", def.Name)
	}
	if len(def.AllowedTools) == 0 {
		t.Error("built-in selector should have tools")
	}
}

func TestLoadSelectorCustomOverride(t *testing.T) {
	dir := t.TempDir()
	writeAgent(t, dir, "selector.toml", `
name = "selector"
description = "Custom selector"
system_prompt = "Pick agents."
allowed_tools = ["git_read"]
`)

	def, err := LoadSelector(dir)
	if err != nil {
		t.Fatalf("LoadSelector failed: %v", err)
	}
	if def.Description != "Custom selector" {
		t.Errorf("custom selector not used: %q", def.Description)
	}
}

func TestLoadAggregatorBuiltin(t *testing.T) {
	def, err := LoadAggregator("")
	if err != nil {
		t.Fatalf("LoadAggregator failed: %v", err)
	}
	if def.Name != "aggregator" {
		t.Errorf("name = %q", def.Name)
	}
}

func TestSelectorAggregatorNotInRoster(t *testing.T) {
	dir := t.TempDir()
	writeAgent(t, dir, "selector.toml", `
name = "selector"
system_prompt = "p"
`)
	writeAgent(t, dir, "aggregator.toml", `
name = "aggregator"
system_prompt = "p"
`)

	result := LoadDir(dir)
	if len(result.Agents) != 0 || len(result.Errors) != 0 {
		t.Errorf("selector/aggregator files must be skipped by the agent loader, got %+v", result)
	}
}
