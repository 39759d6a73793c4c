// Package github provides read-only GitHub operations via the gh CLI.
package github

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNoPRFound indicates no pull request exists with the given number.
var ErrNoPRFound = errors.New("no pull request found")

// ErrAuthFailed indicates GitHub authentication failed.
var ErrAuthFailed = errors.New("GitHub authentication failed")

// CheckGHAvailable returns an error if the gh CLI is not installed.
func CheckGHAvailable() error {
	if _, err := exec.LookPath("gh"); err != nil {
		return fmt.Errorf("gh CLI not found in PATH: %w", err)
	}
	return nil
}

// ValidatePR checks that a PR exists and is accessible.
// Returns ErrNoPRFound or ErrAuthFailed for the common failure modes.
func ValidatePR(ctx context.Context, number int) error {
	cmd := exec.CommandContext(ctx, "gh", "pr", "view", strconv.Itoa(number), "--json", "number")
	if _, err := cmd.Output(); err != nil {
		return classifyGHError(err)
	}
	return nil
}

// PRMetadata returns the human-readable metadata for a PR (title, labels,
// linked issues) as rendered by gh pr view.
func PRMetadata(ctx context.Context, number int) (string, error) {
	cmd := exec.CommandContext(ctx, "gh", "pr", "view", strconv.Itoa(number))
	out, err := cmd.Output()
	if err != nil {
		return "", classifyGHError(err)
	}
	return string(out), nil
}

// PRDiff returns the diff of a PR as produced by gh pr diff.
func PRDiff(ctx context.Context, number int) (string, error) {
	cmd := exec.CommandContext(ctx, "gh", "pr", "diff", strconv.Itoa(number))
	out, err := cmd.Output()
	if err != nil {
		return "", classifyGHError(err)
	}
	return string(out), nil
}

// IssueView returns the rendered content of an issue.
func IssueView(ctx context.Context, number int) (string, error) {
	cmd := exec.CommandContext(ctx, "gh", "issue", "view", strconv.Itoa(number))
	out, err := cmd.Output()
	if err != nil {
		return "", classifyGHError(err)
	}
	return string(out), nil
}

// classifyGHError maps gh CLI failures to sentinel errors where possible.
func classifyGHError(err error) error {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return err
	}

	stderr := string(exitErr.Stderr)
	switch {
	case strings.Contains(stderr, "no pull requests found"),
		strings.Contains(stderr, "Could not resolve"),
		strings.Contains(stderr, "not found"):
		return ErrNoPRFound
	case strings.Contains(stderr, "auth"),
		strings.Contains(stderr, "authentication"):
		return ErrAuthFailed
	}

	trimmed := strings.TrimSpace(stderr)
	if trimmed != "" {
		return fmt.Errorf("gh command failed: %s", trimmed)
	}
	return err
}
