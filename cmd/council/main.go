// Package main provides the CLI entry point for council, the multi-agent
// code review orchestrator.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/richhaase/council/internal/domain"
	"github.com/richhaase/council/internal/terminal"
)

var version = "dev"

var (
	flagModel      string
	flagTimeout    int
	flagMaxTurns   int
	flagNoParallel bool
	flagBaseBranch string
	flagFormat     string
	flagNoSave     bool
	flagShowCost   bool
	flagMaxFiles   int
	flagIssue      int
	flagNoConfirm  bool
	flagAgentsDir  string
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := &cobra.Command{
		Use:   "council [pr-number | path...]",
		Short: "Multi-agent code review orchestrator",
		Long: `Run a council of LLM review agents against a change.

Review modes (determined by arguments):
  (no args)    diff mode - review current branch against the base branch
  <integer>    PR mode   - review the given GitHub pull request
  <path...>    file mode - review the given files, directories, or globs

Exit codes:
  0 - Success (no findings, or only Suggestion/Nitpick)
  1 - Critical issue found
  2 - Important issue found
  3 - Execution error
  4 - Input error`,
		Args:          cobra.ArbitraryArgs,
		RunE:          runReview,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.Flags().StringVar(&flagModel, "model", "", "LLM model name")
	rootCmd.Flags().IntVar(&flagTimeout, "timeout", 0, "Per-agent timeout in seconds")
	rootCmd.Flags().IntVar(&flagMaxTurns, "max-turns", 0, "Per-agent turn budget")
	rootCmd.Flags().BoolVar(&flagNoParallel, "no-parallel", false, "Run agents sequentially")
	rootCmd.Flags().StringVarP(&flagBaseBranch, "base-branch", "b", "", "Base branch for diff mode")
	rootCmd.Flags().StringVarP(&flagFormat, "format", "f", "", "Output format: markdown or json")
	rootCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Skip saving review history")
	rootCmd.Flags().BoolVar(&flagShowCost, "show-cost", false, "Show cost information")
	rootCmd.Flags().IntVar(&flagMaxFiles, "max-files", 0, "Max files per review")
	rootCmd.Flags().IntVar(&flagIssue, "issue", 0, "GitHub issue number for context")
	rootCmd.Flags().BoolVar(&flagNoConfirm, "no-confirm", false, "Skip confirmation prompts")
	rootCmd.Flags().StringVar(&flagAgentsDir, "agents-dir", "", "Custom agent definitions directory")

	rootCmd.AddCommand(newAgentsCmd())
	rootCmd.AddCommand(newInitCmd())

	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := err.(exitCodeError); ok {
			return exitErr.code.Int()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return domain.ExitInputError.Int()
	}
	return 0
}

// exitCodeError carries a non-zero review exit code through cobra's error
// return without printing it as an error.
type exitCodeError struct {
	code domain.ExitCode
}

func (e exitCodeError) Error() string {
	switch e.code {
	case domain.ExitCritical:
		return "critical issue found"
	case domain.ExitImportant:
		return "important issue found"
	case domain.ExitExecutionError:
		return "review failed"
	case domain.ExitInputError:
		return "invalid input"
	default:
		return fmt.Sprintf("exit code %d", e.code)
	}
}

func exitCode(code domain.ExitCode) error {
	if code == domain.ExitSuccess {
		return nil
	}
	return exitCodeError{code: code}
}

func setupTerminal() *terminal.Logger {
	if !terminal.IsStdoutTTY() {
		terminal.DisableColors()
	}
	return terminal.NewLogger()
}
