package engine

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/richhaase/council/internal/domain"
	"github.com/richhaase/council/internal/git"
	"github.com/richhaase/council/internal/github"
)

// ContentResolveError is a fatal precondition failure: the review target
// could not be resolved to reviewable content. No agent is ever started
// after one of these.
type ContentResolveError struct {
	Message string
	Err     error
}

func (e *ContentResolveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ContentResolveError) Unwrap() error { return e.Err }

// ResolveContent validates the target and resolves its content. Diff mode
// verifies the base ref and computes the merge-base diff; PR mode verifies
// the PR exists; file mode reads each path. An empty diff resolves to the
// empty string, which is not an error.
func ResolveContent(ctx context.Context, target domain.ReviewTarget, workDir string) (string, error) {
	switch t := target.(type) {
	case domain.DiffTarget:
		return resolveDiff(ctx, t, workDir)
	case domain.PRTarget:
		return resolvePRDiff(ctx, t)
	case domain.FileTarget:
		return resolveFileContent(t)
	}
	panic(fmt.Sprintf("unknown target type %T", target))
}

func resolveDiff(ctx context.Context, t domain.DiffTarget, workDir string) (string, error) {
	if !git.RefExists(ctx, t.BaseBranch, workDir) {
		return "", &ContentResolveError{
			Message: fmt.Sprintf("base branch %q does not exist", t.BaseBranch),
		}
	}
	diff, err := git.MergeBaseDiff(ctx, t.BaseBranch, workDir)
	if err != nil {
		return "", &ContentResolveError{
			Message: fmt.Sprintf("failed to compute diff against %q", t.BaseBranch),
			Err:     err,
		}
	}
	return diff, nil
}

func resolvePRDiff(ctx context.Context, t domain.PRTarget) (string, error) {
	if err := github.CheckGHAvailable(); err != nil {
		return "", &ContentResolveError{Message: "gh CLI unavailable", Err: err}
	}
	if err := github.ValidatePR(ctx, t.Number); err != nil {
		return "", &ContentResolveError{
			Message: fmt.Sprintf("cannot review PR #%d", t.Number),
			Err:     err,
		}
	}
	diff, err := github.PRDiff(ctx, t.Number)
	if err != nil {
		return "", &ContentResolveError{
			Message: fmt.Sprintf("failed to fetch diff for PR #%d", t.Number),
			Err:     err,
		}
	}
	return diff, nil
}

func resolveFileContent(t domain.FileTarget) (string, error) {
	var sections []string
	for _, path := range t.Paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", &ContentResolveError{
				Message: fmt.Sprintf("cannot read file %q", path),
				Err:     err,
			}
		}
		sections = append(sections, fmt.Sprintf("--- %s ---\n%s", path, data))
	}
	return strings.Join(sections, "\n\n"), nil
}
