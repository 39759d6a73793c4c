package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/richhaase/council/internal/domain"
)

// NotFoundError reports a schema name that is not registered.
type NotFoundError struct {
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("schema %q is not registered (available: %s)",
		e.Name, strings.Join(e.Available, ", "))
}

// Registry is a constructed-once name-to-schema lookup table. It is built
// at startup and injected where needed so tests can substitute their own.
type Registry struct {
	schemas map[string]*Schema
}

// NewRegistry builds a registry holding the built-in schemas.
func NewRegistry() *Registry {
	r := &Registry{schemas: make(map[string]*Schema)}
	for _, s := range builtinSchemas() {
		r.schemas[s.name] = s
	}
	return r
}

// Get looks up a schema by name.
func (r *Registry) Get(name string) (*Schema, error) {
	s, ok := r.schemas[name]
	if !ok {
		available := make([]string, 0, len(r.schemas))
		for n := range r.schemas {
			available = append(available, n)
		}
		sort.Strings(available)
		return nil, &NotFoundError{Name: name, Available: available}
	}
	return s, nil
}

// Register adds a schema. Duplicate names are an error.
func (r *Registry) Register(s *Schema) error {
	if _, exists := r.schemas[s.name]; exists {
		return fmt.Errorf("schema %q is already registered", s.name)
	}
	r.schemas[s.name] = s
	return nil
}

func builtinSchemas() []*Schema {
	return []*Schema{
		newSchema("scored_issues", fmt.Sprintf(`{
			"type": "object",
			"required": ["issues", "overall_score"],
			"properties": {
				"issues": {"type": "array", "items": %s},
				"overall_score": {"type": "number", "minimum": 0, "maximum": 10}
			}
		}`, issueProperties), extractIssuesField),

		newSchema("severity_classified", fmt.Sprintf(`{
			"type": "object",
			"required": ["critical_issues", "important_issues", "suggestion_issues", "nitpick_issues"],
			"properties": {
				"critical_issues": {"type": "array", "items": %[1]s},
				"important_issues": {"type": "array", "items": %[1]s},
				"suggestion_issues": {"type": "array", "items": %[1]s},
				"nitpick_issues": {"type": "array", "items": %[1]s}
			}
		}`, issueProperties), extractSeverityClassified),

		newSchema("test_gap_assessment", fmt.Sprintf(`{
			"type": "object",
			"required": ["issues", "coverage_gaps", "risk_level"],
			"properties": {
				"issues": {"type": "array", "items": %s},
				"coverage_gaps": {
					"type": "array",
					"items": {
						"type": "object",
						"required": ["file_path", "description", "priority"],
						"properties": {
							"file_path": {"type": "string", "minLength": 1},
							"description": {"type": "string", "minLength": 1},
							"priority": {"type": "string"}
						}
					}
				},
				"risk_level": {"type": "string"}
			}
		}`, issueProperties), extractIssuesField),

		newSchema("multi_dimensional_analysis", fmt.Sprintf(`{
			"type": "object",
			"required": ["issues", "dimensions"],
			"properties": {
				"issues": {"type": "array", "items": %s},
				"dimensions": {
					"type": "array",
					"items": {
						"type": "object",
						"required": ["name", "score", "description"],
						"properties": {
							"name": {"type": "string", "minLength": 1},
							"score": {"type": "number", "minimum": 0, "maximum": 10},
							"description": {"type": "string", "minLength": 1}
						}
					}
				}
			}
		}`, issueProperties), extractIssuesField),

		newSchema("category_classification", fmt.Sprintf(`{
			"type": "object",
			"required": ["categories"],
			"properties": {
				"categories": {
					"type": "object",
					"additionalProperties": {"type": "array", "items": %s}
				}
			}
		}`, issueProperties), extractCategoryClassification),

		newSchema("improvement_suggestions", fmt.Sprintf(`{
			"type": "object",
			"required": ["issues", "suggestions"],
			"properties": {
				"issues": {"type": "array", "items": %s},
				"suggestions": {
					"type": "array",
					"items": {
						"type": "object",
						"required": ["title", "description", "priority"],
						"properties": {
							"title": {"type": "string", "minLength": 1},
							"description": {"type": "string", "minLength": 1},
							"priority": {"type": "string"},
							"location": {
								"type": "object",
								"required": ["file_path", "line_number"],
								"properties": {
									"file_path": {"type": "string", "minLength": 1},
									"line_number": {"type": "integer", "minimum": 1}
								}
							}
						}
					}
				}
			}
		}`, issueProperties), extractIssuesField),
	}
}

// extractSeverityClassified concatenates the four classification lists and
// stamps each list's severity onto its issues, keeping the lists and the
// unified view consistent even if the model mislabels an entry.
func extractSeverityClassified(data []byte) ([]domain.ReviewIssue, error) {
	var out struct {
		Critical   []domain.ReviewIssue `json:"critical_issues"`
		Important  []domain.ReviewIssue `json:"important_issues"`
		Suggestion []domain.ReviewIssue `json:"suggestion_issues"`
		Nitpick    []domain.ReviewIssue `json:"nitpick_issues"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}

	lists := []struct {
		severity domain.Severity
		issues   []domain.ReviewIssue
	}{
		{domain.SeverityCritical, out.Critical},
		{domain.SeverityImportant, out.Important},
		{domain.SeveritySuggestion, out.Suggestion},
		{domain.SeverityNitpick, out.Nitpick},
	}

	var issues []domain.ReviewIssue
	for _, l := range lists {
		for _, issue := range l.issues {
			issue.Severity = l.severity
			issues = append(issues, issue)
		}
	}
	return issues, nil
}

// extractCategoryClassification flattens the category map, stamping each
// category name onto its issues. Map iteration order is not deterministic,
// so categories are flattened in sorted order.
func extractCategoryClassification(data []byte) ([]domain.ReviewIssue, error) {
	var out struct {
		Categories map[string][]domain.ReviewIssue `json:"categories"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(out.Categories))
	for name := range out.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	var issues []domain.ReviewIssue
	for _, name := range names {
		for _, issue := range out.Categories[name] {
			if issue.Category == "" {
				issue.Category = name
			}
			issues = append(issues, issue)
		}
	}
	return issues, nil
}
