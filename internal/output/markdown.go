package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/richhaase/council/internal/domain"
)

// severityOrder lists severities from most to least severe for grouped
// rendering.
var severityOrder = []domain.Severity{
	domain.SeverityCritical,
	domain.SeverityImportant,
	domain.SeveritySuggestion,
	domain.SeverityNitpick,
}

// MarkdownWriter renders a human-readable markdown report: a summary table,
// issues grouped by severity, the optional aggregated analysis, and a
// per-agent status table.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *domain.ReviewReport) error {
	fmt.Fprintf(w, "# Review Report\n\n")
	writeSummary(w, report.Summary)

	issues := collectIssues(report.Results)
	if len(issues) > 0 {
		writeIssues(w, issues)
	}

	if report.Aggregated != nil {
		writeAggregated(w, report.Aggregated)
	}

	writeAgentResults(w, report.Results)

	if len(report.LoadErrors) > 0 {
		fmt.Fprintf(w, "\n## Load Errors\n\n")
		for _, le := range report.LoadErrors {
			fmt.Fprintf(w, "- **%s**: %s\n", le.Source, le.Message)
		}
	}

	if report.AggregationError != "" {
		fmt.Fprintf(w, "\n## Aggregation Error\n\n%s\n", report.AggregationError)
	}

	return nil
}

func writeSummary(w io.Writer, s domain.ReviewSummary) {
	severity := "-"
	if s.MaxSeverity != nil {
		severity = string(*s.MaxSeverity)
	}

	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| Total Issues | %d |\n", s.TotalIssues)
	fmt.Fprintf(w, "| Max Severity | %s |\n", severity)
	fmt.Fprintf(w, "| Elapsed Time | %.1fs |\n", s.TotalElapsedTime.Seconds())
	if s.TotalCost != nil {
		fmt.Fprintf(w, "| Total Cost | $%.4f (input: %d, output: %d) |\n",
			s.TotalCost.TotalCost, s.TotalCost.InputTokens, s.TotalCost.OutputTokens)
	}
}

func collectIssues(results []domain.AgentResult) []domain.ReviewIssue {
	var issues []domain.ReviewIssue
	for _, r := range results {
		issues = append(issues, domain.ResultIssues(r)...)
	}
	return issues
}

func writeIssues(w io.Writer, issues []domain.ReviewIssue) {
	grouped := make(map[domain.Severity][]domain.ReviewIssue)
	for _, issue := range issues {
		grouped[issue.Severity] = append(grouped[issue.Severity], issue)
	}

	fmt.Fprintf(w, "\n## Issues\n")
	for _, sev := range severityOrder {
		group := grouped[sev]
		if len(group) == 0 {
			continue
		}
		// Stable ordering within a group, regardless of agent finish order.
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].AgentName < group[j].AgentName
		})

		fmt.Fprintf(w, "\n### %s (%d)\n", sev, len(group))
		for i, issue := range group {
			fmt.Fprintf(w, "\n#### %d. %s\n\n", i+1, issue.Description)
			fmt.Fprintf(w, "- **Agent**: %s\n", issue.AgentName)
			if issue.Location != nil {
				fmt.Fprintf(w, "- **Location**: `%s:%d`\n",
					issue.Location.FilePath, issue.Location.LineNumber)
			}
			if issue.Category != "" {
				fmt.Fprintf(w, "- **Category**: %s\n", issue.Category)
			}
			if issue.Suggestion != "" {
				fmt.Fprintf(w, "- **Suggestion**: %s\n", issue.Suggestion)
			}
		}
	}
}

func writeAggregated(w io.Writer, agg *domain.AggregatedReport) {
	fmt.Fprintf(w, "\n## Aggregated Analysis\n")

	if len(agg.Issues) > 0 {
		fmt.Fprintf(w, "\n### Issues\n\n")
		for _, issue := range agg.Issues {
			fmt.Fprintf(w, "- [%s] %s\n", issue.Severity, issue.Description)
		}
	}
	if len(agg.Strengths) > 0 {
		fmt.Fprintf(w, "\n### Strengths\n\n")
		for _, s := range agg.Strengths {
			fmt.Fprintf(w, "- %s\n", s)
		}
	}
	if len(agg.RecommendedActions) > 0 {
		fmt.Fprintf(w, "\n### Recommended Actions\n\n")
		for i, a := range agg.RecommendedActions {
			fmt.Fprintf(w, "%d. **[%s]** %s\n", i+1, a.Priority, a.Description)
		}
	}
	if len(agg.AgentFailures) > 0 {
		fmt.Fprintf(w, "\n### Agent Failures\n\n")
		for _, f := range agg.AgentFailures {
			fmt.Fprintf(w, "- %s\n", f)
		}
	}
}

func writeAgentResults(w io.Writer, results []domain.AgentResult) {
	fmt.Fprintf(w, "\n## Agent Results\n\n")
	fmt.Fprintf(w, "| Agent | Status | Issues | Time |\n")
	fmt.Fprintf(w, "|-------|--------|--------|------|\n")
	for _, r := range results {
		switch v := r.(type) {
		case domain.AgentSuccess:
			fmt.Fprintf(w, "| %s | success | %d | %.1fs |\n",
				v.AgentName, len(v.Issues), v.ElapsedTime.Seconds())
		case domain.AgentTruncated:
			fmt.Fprintf(w, "| %s | truncated | %d | %.1fs |\n",
				v.AgentName, len(v.Issues), v.ElapsedTime.Seconds())
		case domain.AgentError:
			fmt.Fprintf(w, "| %s | error | - | - |\n", v.AgentName)
		case domain.AgentTimeout:
			fmt.Fprintf(w, "| %s | timeout (%.0fs) | - | - |\n",
				v.AgentName, v.TimeoutSeconds)
		}
	}
}
