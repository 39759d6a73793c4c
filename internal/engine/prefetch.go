package engine

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/richhaase/council/internal/domain"
	"github.com/richhaase/council/internal/github"
)

// Per-source character caps keep the selector prompt bounded.
const (
	issueContextMaxChars = 5000
	prMetadataMaxChars   = 3000
	conventionsMaxChars  = 5000
)

// defaultConventionFiles are the project convention sources read relative
// to the working directory.
var defaultConventionFiles = []string{
	"CLAUDE.md",
	"CONTRIBUTING.md",
}

// PrefetchedContext is context gathered once before the selector runs and
// embedded in its prompt, cutting down the selector's own tool calls.
// Empty fields mean the corresponding source did not apply.
type PrefetchedContext struct {
	IssueContext       string
	PRMetadata         string
	ProjectConventions string
}

// PrefetchError is a failure to fetch an explicitly requested source
// (a named issue or PR). It is fatal: the user asked for context the run
// cannot provide.
type PrefetchError struct {
	Source string
	Err    error
}

func (e *PrefetchError) Error() string {
	return fmt.Sprintf("failed to prefetch %s: %v", e.Source, e.Err)
}

func (e *PrefetchError) Unwrap() error { return e.Err }

// PrefetchSelectorContext gathers issue context, PR metadata, and project
// conventions for the target. Convention files that don't exist are simply
// skipped; explicitly named issues and PRs must resolve.
func PrefetchSelectorContext(ctx context.Context, target domain.ReviewTarget) (PrefetchedContext, error) {
	var pc PrefetchedContext

	if issue := target.RelatedIssue(); issue > 0 {
		content, err := github.IssueView(ctx, issue)
		if err != nil {
			return pc, &PrefetchError{Source: fmt.Sprintf("issue #%d", issue), Err: err}
		}
		pc.IssueContext = truncate(content, issueContextMaxChars)
	}

	if pr, ok := target.(domain.PRTarget); ok {
		content, err := github.PRMetadata(ctx, pr.Number)
		if err != nil {
			return pc, &PrefetchError{Source: fmt.Sprintf("PR #%d", pr.Number), Err: err}
		}
		pc.PRMetadata = truncate(content, prMetadataMaxChars)
	}

	conventions, err := readProjectConventions(defaultConventionFiles)
	if err != nil {
		return pc, err
	}
	pc.ProjectConventions = conventions

	return pc, nil
}

func readProjectConventions(paths []string) (string, error) {
	var parts []string
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", &PrefetchError{Source: path, Err: err}
		}
		parts = append(parts, fmt.Sprintf("--- %s ---\n%s",
			path, truncate(string(data), conventionsMaxChars)))
	}
	return strings.Join(parts, "\n\n"), nil
}

func truncate(content string, maxChars int) string {
	if len(content) <= maxChars {
		return content
	}
	// Back off to a rune boundary so the cut never splits a multi-byte
	// sequence.
	cut := maxChars
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut] + fmt.Sprintf("\n... (truncated, original: %d chars)", len(content))
}
