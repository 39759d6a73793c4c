package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/richhaase/council/internal/agentdef"
	"github.com/richhaase/council/internal/config"
	"github.com/richhaase/council/internal/domain"
	"github.com/richhaase/council/internal/git"
	"github.com/richhaase/council/internal/terminal"
)

const promptSummaryLines = 3

func newAgentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents [name]",
		Short: "List or inspect agent definitions",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAgents,
	}
}

func runAgents(cmd *cobra.Command, args []string) error {
	logger := setupTerminal()

	var customDir string
	if repoRoot, err := git.GetRoot(); err == nil {
		loadRes, err := config.LoadWithWarnings()
		if err != nil {
			logger.Logf(terminal.StyleError, "%v", err)
			return exitCode(domain.ExitInputError)
		}
		resolved := config.Resolve(loadRes.Config)
		customDir = agentsDir(repoRoot, &resolved)
	}

	result := agentdef.Load(customDir)
	builtinNames := make(map[string]bool)
	for _, def := range agentdef.LoadBuiltin().Agents {
		builtinNames[def.Name] = true
	}

	for _, le := range result.Errors {
		logger.Logf(terminal.StyleWarning, "failed to load agent %s: %s", le.Source, le.Message)
	}

	if len(args) == 0 {
		printAgentList(result.Agents, builtinNames)
		return nil
	}
	return printAgentDetail(args[0], result.Agents, builtinNames, logger)
}

func printAgentList(agents []agentdef.AgentDefinition, builtinNames map[string]bool) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODEL\tPHASE\tSCHEMA")
	for _, def := range agents {
		model := def.Model
		if model == "" {
			model = "(default)"
		}
		marker := ""
		if !builtinNames[def.Name] {
			marker = "  [custom]"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s%s\n", def.Name, model, def.Phase, def.OutputSchema, marker)
	}
	w.Flush()
}

func printAgentDetail(name string, agents []agentdef.AgentDefinition, builtinNames map[string]bool, logger *terminal.Logger) error {
	var def *agentdef.AgentDefinition
	for i := range agents {
		if agents[i].Name == name {
			def = &agents[i]
			break
		}
	}
	if def == nil {
		available := make([]string, 0, len(agents))
		for _, a := range agents {
			available = append(available, a.Name)
		}
		logger.Logf(terminal.StyleError, "agent %q not found. Available agents: %s",
			name, strings.Join(available, ", "))
		return exitCode(domain.ExitInputError)
	}

	marker := ""
	if !builtinNames[def.Name] {
		marker = " [custom]"
	}
	fmt.Printf("Name:             %s%s\n", def.Name, marker)
	fmt.Printf("Description:      %s\n", def.Description)
	if def.Model != "" {
		fmt.Printf("Model:            %s\n", def.Model)
	} else {
		fmt.Printf("Model:            (default)\n")
	}
	fmt.Printf("Phase:            %s\n", def.Phase)
	fmt.Printf("Output Schema:    %s\n", def.OutputSchema)

	if def.Applicability.Always {
		fmt.Println("Applicability:    always")
	} else {
		if len(def.Applicability.FilePatterns) > 0 {
			fmt.Printf("File Patterns:    %s\n", strings.Join(def.Applicability.FilePatterns, ", "))
		}
		if len(def.Applicability.ContentPatterns) > 0 {
			fmt.Printf("Content Patterns: %s\n", strings.Join(def.Applicability.ContentPatterns, ", "))
		}
	}

	if len(def.AllowedTools) > 0 {
		fmt.Printf("Allowed Tools:    %s\n", strings.Join(def.AllowedTools, ", "))
	} else {
		fmt.Println("Allowed Tools:    (none)")
	}

	lines := strings.Split(strings.TrimSpace(def.SystemPrompt), "\n")
	summary := lines
	if len(lines) > promptSummaryLines {
		summary = append(lines[:promptSummaryLines], "...")
	}
	fmt.Printf("System Prompt:\n%s\n", strings.Join(summary, "\n"))
	return nil
}
