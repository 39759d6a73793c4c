package tools

import (
	"strings"
	"testing"

	"github.com/richhaase/council/internal/domain"
)

func TestCatalog_ResolveKnownCategories(t *testing.T) {
	catalog := NewCatalog()

	resolved, err := catalog.Resolve([]domain.ToolCategory{domain.ToolGitRead, domain.ToolFileRead})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resolved) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(resolved))
	}
	if resolved[0].Name != "git_read" || resolved[1].Name != "file_read" {
		t.Errorf("unexpected tool order: %s, %s", resolved[0].Name, resolved[1].Name)
	}
}

func TestCatalog_ResolveUnknownCategory(t *testing.T) {
	catalog := NewCatalog()

	_, err := catalog.Resolve([]domain.ToolCategory{domain.ToolGitRead, "shell_write"})
	if err == nil {
		t.Fatal("expected error for unknown category")
	}
	if !strings.Contains(err.Error(), "shell_write") {
		t.Errorf("error should name the unknown category, got: %v", err)
	}
}

func TestCatalog_ValidateReturnsOnlyUnknown(t *testing.T) {
	catalog := NewCatalog()

	unknown := catalog.Validate([]domain.ToolCategory{
		domain.ToolGitRead, "network", domain.ToolGHRead, "write_files",
	})
	if len(unknown) != 2 {
		t.Fatalf("expected 2 unknown categories, got %v", unknown)
	}
	if unknown[0] != "network" || unknown[1] != "write_files" {
		t.Errorf("unexpected unknown list: %v", unknown)
	}
}

// mutatingFragments are command fragments that would grant write capability.
// No catalog pattern may contain any of them.
var mutatingFragments = []string{
	"git push", "git commit", "git add", "git merge", "git rebase",
	"git reset", "git checkout", "git apply", "git stash",
	"pr create", "pr merge", "pr close", "pr edit", "pr comment",
	"issue create", "issue edit", "issue close", "issue comment",
	"Write", "Edit", "NotebookEdit",
}

func TestCatalog_AllCategoriesAreReadOnly(t *testing.T) {
	catalog := NewCatalog()

	for _, cat := range domain.AllToolCategories {
		resolved, err := catalog.Resolve([]domain.ToolCategory{cat})
		if err != nil {
			t.Fatalf("%s: %v", cat, err)
		}
		for _, pattern := range Patterns(resolved) {
			for _, frag := range mutatingFragments {
				if strings.Contains(pattern, frag) {
					t.Errorf("category %s exposes mutating pattern %q", cat, pattern)
				}
			}
		}
	}
}

func TestPatterns_Flattens(t *testing.T) {
	catalog := NewCatalog()
	resolved, err := catalog.Resolve(domain.AllToolCategories)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	patterns := Patterns(resolved)
	if len(patterns) == 0 {
		t.Fatal("expected non-empty pattern list")
	}
	seen := make(map[string]bool)
	for _, p := range patterns {
		if seen[p] {
			t.Errorf("duplicate pattern %q", p)
		}
		seen[p] = true
	}
}
