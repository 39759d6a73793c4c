package engine

import (
	"fmt"
	"strings"

	"github.com/richhaase/council/internal/agentdef"
	"github.com/richhaase/council/internal/domain"
)

// BuildReviewInstruction renders the user message for reviewer agents from
// the target. Diff mode instructs a merge-base diff, never a two-dot diff,
// so unrelated upstream commits stay out of scope. PR mode instructs
// retrieval of the diff and metadata but never the PR description body.
func BuildReviewInstruction(target domain.ReviewTarget) string {
	parts := []string{buildModeSection(target)}

	if issue := target.RelatedIssue(); issue > 0 {
		parts = append(parts, fmt.Sprintf(
			"\nRelated Issue: #%d\nUse gh tools to fetch issue details for additional context.",
			issue))
	}

	return strings.Join(parts, "\n")
}

func buildModeSection(target domain.ReviewTarget) string {
	switch t := target.(type) {
	case domain.DiffTarget:
		return fmt.Sprintf(
			"Review the changes in the current branch compared to '%s'.\n"+
				"Use `git merge-base %s HEAD` to find the common ancestor, "+
				"then `git diff <merge-base>` to get the diff.",
			t.BaseBranch, t.BaseBranch)

	case domain.PRTarget:
		return fmt.Sprintf(
			"Review Pull Request #%d.\n"+
				"Use `gh pr view %d` to get PR metadata (title, labels, linked issues).\n"+
				"Use `gh pr diff %d` or git tools to get the diff.\n"+
				"Do not treat the PR description body as a review input.",
			t.Number, t.Number, t.Number)

	case domain.FileTarget:
		var b strings.Builder
		b.WriteString("Review the following files:\n")
		for _, p := range t.Paths {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		b.WriteString("\nUse file tools to read the content of each file.")
		return b.String()
	}

	// The target union is sealed; this is unreachable.
	panic(fmt.Sprintf("unknown target type %T", target))
}

// BuildSelectorInstruction renders the selector's user message: the review
// instruction, the candidate roster, pre-fetched context, and the resolved
// change content so the selector needs few or no tool calls of its own.
func BuildSelectorInstruction(
	target domain.ReviewTarget,
	agents []agentdef.AgentDefinition,
	prefetched PrefetchedContext,
	content string,
) string {
	var b strings.Builder

	b.WriteString(BuildReviewInstruction(target))
	b.WriteString("\n\n## Available Agents\n\n")
	b.WriteString(buildAgentsSection(agents))

	if content != "" {
		b.WriteString("\n\n## Change Content\n\n")
		b.WriteString(content)
	}
	if prefetched.IssueContext != "" {
		b.WriteString("\n\n## Issue Context\n\n")
		b.WriteString(prefetched.IssueContext)
	}
	if prefetched.PRMetadata != "" {
		b.WriteString("\n\n## PR Metadata\n\n")
		b.WriteString(prefetched.PRMetadata)
	}
	if prefetched.ProjectConventions != "" {
		b.WriteString("\n\n## Project Conventions\n\n")
		b.WriteString(prefetched.ProjectConventions)
	}

	b.WriteString("\n\nSelect the agents that are most applicable for this review.")
	return b.String()
}

func buildAgentsSection(agents []agentdef.AgentDefinition) string {
	if len(agents) == 0 {
		return "No agents available."
	}

	lines := make([]string, 0, len(agents))
	for _, agent := range agents {
		lines = append(lines, fmt.Sprintf("- **%s**: %s (phase=%s%s)",
			agent.Name, agent.Description, agent.Phase, formatApplicability(agent)))
	}
	return strings.Join(lines, "\n")
}

func formatApplicability(agent agentdef.AgentDefinition) string {
	var parts []string

	if agent.Applicability.Always {
		parts = append(parts, "always")
	}
	if len(agent.Applicability.FilePatterns) > 0 {
		parts = append(parts, fmt.Sprintf("files=[%s]",
			strings.Join(agent.Applicability.FilePatterns, ", ")))
	}
	if len(agent.Applicability.ContentPatterns) > 0 {
		parts = append(parts, fmt.Sprintf("content=[%s]",
			strings.Join(agent.Applicability.ContentPatterns, ", ")))
	}

	if len(parts) == 0 {
		return ""
	}
	return ", " + strings.Join(parts, ", ")
}

// BuildSelectorContextSection renders the selector's propagated metadata as
// a block appended to each reviewer's user message. Returns the empty
// string when every field is empty so unrelated runs carry no boilerplate.
func BuildSelectorContextSection(out *SelectorOutput) string {
	if out == nil {
		return ""
	}
	if out.ChangeIntent == "" &&
		len(out.AffectedFiles) == 0 &&
		len(out.RelevantConventions) == 0 &&
		out.IssueContext == "" &&
		len(out.ReferencedContent) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n## Review Context\n")

	if out.ChangeIntent != "" {
		b.WriteString("\n### Change Intent\n")
		b.WriteString(out.ChangeIntent)
		b.WriteString("\n")
	}
	if len(out.AffectedFiles) > 0 {
		b.WriteString("\n### Affected Files\n")
		for _, f := range out.AffectedFiles {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	if len(out.RelevantConventions) > 0 {
		b.WriteString("\n### Relevant Conventions\n")
		for _, c := range out.RelevantConventions {
			fmt.Fprintf(&b, "- %s\n", c)
		}
	}
	if out.IssueContext != "" {
		b.WriteString("\n### Issue Context\n")
		b.WriteString(out.IssueContext)
		b.WriteString("\n")
	}
	for _, ref := range out.ReferencedContent {
		fmt.Fprintf(&b, "\n### Referenced %s %s\n%s\n", ref.Type, ref.ID, ref.Content)
	}

	return b.String()
}
