package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/richhaase/council/internal/config"
	"github.com/richhaase/council/internal/domain"
	"github.com/richhaase/council/internal/engine"
	"github.com/richhaase/council/internal/git"
	"github.com/richhaase/council/internal/llm"
	"github.com/richhaase/council/internal/output"
	"github.com/richhaase/council/internal/schema"
	"github.com/richhaase/council/internal/terminal"
	"github.com/richhaase/council/internal/tools"
)

func runReview(cmd *cobra.Command, args []string) error {
	logger := setupTerminal()

	input, err := resolveInput(args)
	if err != nil {
		logger.Logf(terminal.StyleError, "%v", err)
		return exitCode(domain.ExitInputError)
	}

	loadRes, err := config.LoadWithWarnings()
	if err != nil {
		logger.Logf(terminal.StyleError, "%v", err)
		return exitCode(domain.ExitInputError)
	}
	for _, w := range loadRes.Warnings {
		logger.Log(w, terminal.StyleWarning)
	}

	resolved := config.Resolve(loadRes.Config)
	if err := applyFlagOverrides(cmd, &resolved); err != nil {
		logger.Logf(terminal.StyleError, "%v", err)
		return exitCode(domain.ExitInputError)
	}

	repoRoot, rootErr := git.GetRoot()
	if !input.isFile() && rootErr != nil {
		mode := "diff"
		if input.isPR() {
			mode = "PR"
		}
		logger.Logf(terminal.StyleError,
			"%s mode requires a Git repository. Run 'git init' first, or use file mode to review specific files.", mode)
		return exitCode(domain.ExitInputError)
	}

	workDir := repoRoot
	if workDir == "" {
		workDir, _ = os.Getwd()
	}

	target, done, err := buildTarget(input, &resolved, logger)
	if err != nil {
		logger.Logf(terminal.StyleError, "%v", err)
		return exitCode(domain.ExitInputError)
	}
	if done {
		return nil
	}

	backend := llm.NewClaudeBackend(workDir)
	if err := backend.IsAvailable(); err != nil {
		logger.Logf(terminal.StyleError, "claude CLI not found: %v", err)
		return exitCode(domain.ExitExecutionError)
	}

	shutdown, disarm := engine.ArmShutdown()
	defer disarm()

	eng := &engine.Engine{
		Backend:   backend,
		Catalog:   tools.NewCatalog(),
		Registry:  schema.NewRegistry(),
		Config:    resolved,
		Logger:    logger,
		WorkDir:   workDir,
		AgentsDir: agentsDir(repoRoot, &resolved),
		Shutdown:  shutdown,
	}

	ctx := context.Background()
	result, err := eng.RunReview(ctx, target)
	if err != nil {
		logger.Logf(terminal.StyleError, "%v", err)
		return exitCode(domain.ExitExecutionError)
	}

	writer, err := output.GetWriter(resolved.OutputFormat)
	if err != nil {
		logger.Logf(terminal.StyleError, "%v", err)
		return exitCode(domain.ExitInputError)
	}
	if err := writer.Write(os.Stdout, &result.Report); err != nil {
		logger.Logf(terminal.StyleError, "failed to write report: %v", err)
		return exitCode(domain.ExitExecutionError)
	}

	if resolved.ShowCost && result.Report.Summary.TotalCost != nil {
		cost := result.Report.Summary.TotalCost
		logger.Logf(terminal.StyleInfo, "cost: $%.4f (input: %d, output: %d)",
			cost.TotalCost, cost.InputTokens, cost.OutputTokens)
	}

	// History failures are warnings: the review itself already succeeded.
	if resolved.SaveReviews && !flagNoSave && repoRoot != "" {
		path, err := output.SaveHistory(ctx, repoRoot, target, &result.Report)
		if err != nil {
			logger.Logf(terminal.StyleWarning, "%v", err)
		} else {
			logger.Logf(terminal.StyleDim, "history saved to %s", path)
		}
	}

	return exitCode(result.ExitCode)
}

// buildTarget constructs the review target. The done return means the run
// finished early with a clean exit (no files, or the user declined).
func buildTarget(input resolvedInput, cfg *config.Resolved, logger *terminal.Logger) (domain.ReviewTarget, bool, error) {
	switch {
	case input.isPR():
		return domain.PRTarget{Number: input.prNumber, IssueNumber: flagIssue}, false, nil

	case input.isFile():
		rf, err := resolveFiles(input.paths)
		if err != nil {
			return nil, false, err
		}
		for _, w := range rf.warnings {
			logger.Log(w, terminal.StyleWarning)
		}
		if len(rf.paths) == 0 {
			logger.Log("no files found matching the specified paths", terminal.StyleSuccess)
			return nil, true, nil
		}
		if len(rf.paths) > cfg.MaxFilesPerReview && !flagNoConfirm {
			if !confirm(fmt.Sprintf("%d files found, exceeding limit of %d. Continue?",
				len(rf.paths), cfg.MaxFilesPerReview)) {
				logger.Log("review cancelled", terminal.StyleInfo)
				return nil, true, nil
			}
		}
		return domain.FileTarget{Paths: rf.paths, IssueNumber: flagIssue}, false, nil

	default:
		return domain.DiffTarget{BaseBranch: cfg.BaseBranch, IssueNumber: flagIssue}, false, nil
	}
}

// applyFlagOverrides layers explicitly set flags over the resolved config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Resolved) error {
	flags := cmd.Flags()

	if flags.Changed("model") {
		cfg.Model = flagModel
	}
	if flags.Changed("timeout") {
		if flagTimeout <= 0 {
			return &inputError{msg: fmt.Sprintf("timeout must be > 0, got %d", flagTimeout)}
		}
		cfg.Timeout = flagTimeout
	}
	if flags.Changed("max-turns") {
		if flagMaxTurns <= 0 {
			return &inputError{msg: fmt.Sprintf("max-turns must be > 0, got %d", flagMaxTurns)}
		}
		cfg.MaxTurns = flagMaxTurns
	}
	if flagNoParallel {
		cfg.Parallel = false
	}
	if flags.Changed("base-branch") {
		if flagBaseBranch == "" {
			return &inputError{msg: "base-branch must not be empty"}
		}
		cfg.BaseBranch = flagBaseBranch
	}
	if flags.Changed("format") {
		if flagFormat != "markdown" && flagFormat != "json" {
			return &inputError{msg: fmt.Sprintf("format must be markdown or json, got %q", flagFormat)}
		}
		cfg.OutputFormat = flagFormat
	}
	if flagShowCost {
		cfg.ShowCost = true
	}
	if flags.Changed("max-files") {
		if flagMaxFiles <= 0 {
			return &inputError{msg: fmt.Sprintf("max-files must be > 0, got %d", flagMaxFiles)}
		}
		cfg.MaxFilesPerReview = flagMaxFiles
	}
	if flags.Changed("agents-dir") {
		cfg.AgentsDir = flagAgentsDir
	}
	return nil
}

// agentsDir resolves the custom agent definitions directory: explicit
// config or flag first, then the project's .council/agents when inside a
// repository.
func agentsDir(repoRoot string, cfg *config.Resolved) string {
	if cfg.AgentsDir != "" {
		return cfg.AgentsDir
	}
	if repoRoot != "" {
		return filepath.Join(repoRoot, config.ConfigDirName, "agents")
	}
	return ""
}

func confirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
