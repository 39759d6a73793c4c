// Package git provides read-only git operations via the git CLI.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// GetRoot returns the repository root for the current directory.
func GetRoot() (string, error) {
	out, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", fmt.Errorf("not in a git repository: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// RefExists reports whether a ref resolves in the repository.
func RefExists(ctx context.Context, ref, workDir string) bool {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--verify", "--quiet", ref)
	cmd.Dir = workDir
	return cmd.Run() == nil
}

// MergeBase returns the common ancestor of base and HEAD.
func MergeBase(ctx context.Context, base, workDir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "merge-base", base, "HEAD")
	cmd.Dir = workDir
	out, err := cmd.CombinedOutput()
	if err != nil {
		output := strings.TrimSpace(string(out))
		if output != "" {
			return "", fmt.Errorf("failed to find merge-base of %s and HEAD: %s", base, output)
		}
		return "", fmt.Errorf("failed to find merge-base of %s and HEAD: %w", base, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// MergeBaseDiff returns the diff from the merge-base of base and HEAD to the
// working tree. Using the merge-base keeps unrelated upstream commits out of
// the diff when the base branch has moved ahead.
func MergeBaseDiff(ctx context.Context, base, workDir string) (string, error) {
	mergeBase, err := MergeBase(ctx, base, workDir)
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, "git", "diff", mergeBase)
	cmd.Dir = workDir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to diff against %s: %w", mergeBase, err)
	}
	return string(out), nil
}

// Head returns the full commit hash of HEAD.
func Head(ctx context.Context, workDir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "HEAD")
	cmd.Dir = workDir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// CurrentBranch returns the name of the checked-out branch, or "HEAD" when
// detached.
func CurrentBranch(ctx context.Context, workDir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Dir = workDir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to resolve current branch: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
