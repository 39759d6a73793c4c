// Package tools maps tool-capability categories to concrete read-only
// operations exposed to agents.
package tools

import (
	"fmt"
	"strings"

	"github.com/richhaase/council/internal/domain"
)

// Tool describes one capability handed to an agent backend. Patterns are
// permission rules in the backend CLI's allow-list syntax; every pattern in
// the catalog is read-only.
type Tool struct {
	Name        string
	Description string
	Patterns    []string
}

// Catalog is the constructed-once mapping from categories to tools. It is
// injected into the engine rather than read from a package global so tests
// can substitute a fake.
type Catalog struct {
	categories map[domain.ToolCategory][]Tool
}

// NewCatalog builds the default catalog. All categories are read-only:
// git history/diff/status reads, PR and issue metadata reads, and file
// content/listing reads. No category grants a mutating operation.
func NewCatalog() *Catalog {
	return &Catalog{
		categories: map[domain.ToolCategory][]Tool{
			domain.ToolGitRead: {
				{
					Name:        "git_read",
					Description: "Read git history, diffs, status, and refs",
					Patterns: []string{
						"Bash(git log:*)",
						"Bash(git diff:*)",
						"Bash(git show:*)",
						"Bash(git status:*)",
						"Bash(git merge-base:*)",
						"Bash(git branch:*)",
						"Bash(git rev-parse:*)",
						"Bash(git blame:*)",
					},
				},
			},
			domain.ToolGHRead: {
				{
					Name:        "gh_read",
					Description: "Read pull request and issue metadata via gh",
					Patterns: []string{
						"Bash(gh pr view:*)",
						"Bash(gh pr diff:*)",
						"Bash(gh issue view:*)",
					},
				},
			},
			domain.ToolFileRead: {
				{
					Name:        "file_read",
					Description: "Read file contents and list directories",
					Patterns: []string{
						"Read",
						"Glob",
						"Grep",
					},
				},
			},
		},
	}
}

// Validate returns the categories that are not present in the catalog.
// An empty slice means all categories are known.
func (c *Catalog) Validate(categories []domain.ToolCategory) []domain.ToolCategory {
	var unknown []domain.ToolCategory
	for _, cat := range categories {
		if _, ok := c.categories[cat]; !ok {
			unknown = append(unknown, cat)
		}
	}
	return unknown
}

// Resolve maps categories to their tools. Returns an error naming every
// unknown category.
func (c *Catalog) Resolve(categories []domain.ToolCategory) ([]Tool, error) {
	if unknown := c.Validate(categories); len(unknown) > 0 {
		names := make([]string, len(unknown))
		for i, cat := range unknown {
			names[i] = string(cat)
		}
		return nil, fmt.Errorf("unknown tool categories: %s", strings.Join(names, ", "))
	}

	var resolved []Tool
	for _, cat := range categories {
		resolved = append(resolved, c.categories[cat]...)
	}
	return resolved, nil
}

// Patterns flattens a tool list into backend permission patterns.
func Patterns(tools []Tool) []string {
	var patterns []string
	for _, t := range tools {
		patterns = append(patterns, t.Patterns...)
	}
	return patterns
}
