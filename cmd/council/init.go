package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/richhaase/council/internal/config"
	"github.com/richhaase/council/internal/domain"
	"github.com/richhaase/council/internal/terminal"
)

const configTemplate = `# council configuration
# Uncomment and modify settings as needed.

# --- Execution Settings ---

# LLM model name
# model = "claude-sonnet-4-5"

# Timeout in seconds
# timeout = 300

# Maximum agent turns
# max_turns = 10

# Enable parallel execution
# parallel = true

# Base branch for diff mode
# base_branch = "main"

# --- Output Settings ---

# Output format: "markdown" or "json"
# output_format = "markdown"

# Save review results to .council/history/
# save_reviews = true

# Show cost information
# show_cost = false

# --- File Mode Settings ---

# Maximum files per review
# max_files_per_review = 100

# --- Selector Agent Settings ---

# [selector]
# model = "claude-sonnet-4-5"
# timeout = 300
# max_turns = 10

# --- Aggregation Settings ---

# [aggregation]
# enabled = true

# --- Agent-Specific Settings ---
# Override settings for individual agents. Agent names must match
# definition file names (without .toml).
#
# [agents.code-reviewer]
# enabled = true
# model = "claude-sonnet-4-5"
# timeout = 300
# max_turns = 10
`

const gitignoreEntry = "/.council/"

func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the .council directory with a default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files with defaults")
	return cmd
}

func runInit(force bool) error {
	logger := setupTerminal()

	cwd, err := os.Getwd()
	if err != nil {
		logger.Logf(terminal.StyleError, "%v", err)
		return exitCode(domain.ExitExecutionError)
	}
	if _, err := os.Stat(filepath.Join(cwd, ".git")); err != nil {
		logger.Logf(terminal.StyleError,
			"not a Git repository: %s. Run 'git init' to initialize a Git repository first.", cwd)
		return exitCode(domain.ExitInputError)
	}

	configDir := filepath.Join(cwd, config.ConfigDirName)
	var created, skipped []string

	for _, dir := range []string{configDir, filepath.Join(configDir, "agents")} {
		if _, err := os.Stat(dir); err == nil {
			skipped = append(skipped, dir)
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Logf(terminal.StyleError, "failed to create %s: %v", dir, err)
			return exitCode(domain.ExitExecutionError)
		}
		created = append(created, dir)
	}

	configPath := filepath.Join(configDir, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		skipped = append(skipped, configPath)
	} else {
		if err := os.WriteFile(configPath, []byte(configTemplate), 0o644); err != nil {
			logger.Logf(terminal.StyleError, "failed to write %s: %v", configPath, err)
			return exitCode(domain.ExitExecutionError)
		}
		created = append(created, configPath)
	}

	if err := ensureGitignore(cwd); err != nil {
		logger.Logf(terminal.StyleWarning, "could not update .gitignore: %v", err)
	}

	for _, path := range created {
		fmt.Fprintf(os.Stderr, "  Created: %s\n", path)
	}
	for _, path := range skipped {
		fmt.Fprintf(os.Stderr, "  Skipped (already exists): %s\n", path)
	}
	if len(created) == 0 {
		fmt.Fprintln(os.Stderr, "All files already exist. Use --force to overwrite.")
	}
	return nil
}

// ensureGitignore appends the .council entry to the project's .gitignore
// unless it is already present.
func ensureGitignore(root string) error {
	path := filepath.Join(root, ".gitignore")

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == gitignoreEntry {
			return nil
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	prefix := ""
	if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
		prefix = "\n"
	}
	_, err = fmt.Fprintf(f, "%s\n# council\n%s\n", prefix, gitignoreEntry)
	return err
}
