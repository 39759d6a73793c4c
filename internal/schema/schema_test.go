package schema

import (
	"strings"
	"testing"

	"github.com/richhaase/council/internal/domain"
)

func mustGet(t *testing.T, name string) *Schema {
	t.Helper()
	s, err := NewRegistry().Get(name)
	if err != nil {
		t.Fatalf("Get(%q) failed: %v", name, err)
	}
	return s
}

func TestRegistryGetUnknown(t *testing.T) {
	_, err := NewRegistry().Get("nope")
	if err == nil {
		t.Fatal("expected error for unknown schema")
	}
	if !strings.Contains(err.Error(), "scored_issues") {
		t.Errorf("error should list available schemas, got: %v", err)
	}
}

func TestRegistryRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	s, _ := r.Get("scored_issues")
	if err := r.Register(s); err == nil {
		t.Error("expected error registering duplicate schema name")
	}
}

func TestScoredIssuesDecode(t *testing.T) {
	s := mustGet(t, "scored_issues")
	data := []byte(`{
		"issues": [
			{"severity": "critical", "description": "SQL injection in query builder"},
			{"agent_name": "other", "severity": "Nitpick", "description": "typo"}
		],
		"overall_score": 6.5
	}`)

	issues, err := s.Decode("security-review", data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2", len(issues))
	}
	if issues[0].Severity != domain.SeverityCritical {
		t.Errorf("severity not normalized: got %q", issues[0].Severity)
	}
	if issues[0].AgentName != "security-review" {
		t.Errorf("missing agent name not backfilled: got %q", issues[0].AgentName)
	}
	if issues[1].AgentName != "other" {
		t.Errorf("explicit agent name overwritten: got %q", issues[1].AgentName)
	}
}

func TestScoredIssuesRejectsMissingScore(t *testing.T) {
	s := mustGet(t, "scored_issues")
	if _, err := s.Decode("a", []byte(`{"issues": []}`)); err == nil {
		t.Error("expected schema violation for missing overall_score")
	}
}

func TestDecodeEmptyOutput(t *testing.T) {
	s := mustGet(t, "scored_issues")
	if _, err := s.Decode("a", nil); err == nil {
		t.Error("expected error for empty output")
	}
}

func TestDecodeNonJSON(t *testing.T) {
	s := mustGet(t, "scored_issues")
	if _, err := s.Decode("a", []byte("not json at all")); err == nil {
		t.Error("expected error for non-JSON output")
	}
}

func TestSeverityClassifiedStampsListSeverity(t *testing.T) {
	s := mustGet(t, "severity_classified")
	data := []byte(`{
		"critical_issues": [{"severity": "Nitpick", "description": "mislabeled"}],
		"important_issues": [{"severity": "Important", "description": "leaky abstraction"}],
		"suggestion_issues": [],
		"nitpick_issues": [{"severity": "Nitpick", "description": "naming"}]
	}`)

	issues, err := s.Decode("arch", data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(issues) != 3 {
		t.Fatalf("got %d issues, want 3", len(issues))
	}
	// The list an issue appears in wins over its own severity field.
	if issues[0].Severity != domain.SeverityCritical {
		t.Errorf("critical list entry: got severity %q, want Critical", issues[0].Severity)
	}
	if issues[1].Severity != domain.SeverityImportant {
		t.Errorf("important list entry: got severity %q", issues[1].Severity)
	}
	if issues[2].Severity != domain.SeverityNitpick {
		t.Errorf("nitpick list entry: got severity %q", issues[2].Severity)
	}
}

func TestSeverityClassifiedRequiresAllLists(t *testing.T) {
	s := mustGet(t, "severity_classified")
	if _, err := s.Decode("a", []byte(`{"critical_issues": []}`)); err == nil {
		t.Error("expected schema violation for missing classification lists")
	}
}

func TestCategoryClassificationFlattens(t *testing.T) {
	s := mustGet(t, "category_classification")
	data := []byte(`{
		"categories": {
			"performance": [{"severity": "Important", "description": "n+1 query"}],
			"correctness": [
				{"severity": "Critical", "description": "off-by-one", "category": "bounds"}
			]
		}
	}`)

	issues, err := s.Decode("cat", data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2", len(issues))
	}
	// Categories flatten in sorted order: correctness before performance.
	if issues[0].Category != "bounds" {
		t.Errorf("explicit category overwritten: got %q", issues[0].Category)
	}
	if issues[1].Category != "performance" {
		t.Errorf("category name not stamped: got %q", issues[1].Category)
	}
}

func TestTestGapAssessmentDecode(t *testing.T) {
	s := mustGet(t, "test_gap_assessment")
	data := []byte(`{
		"issues": [{"severity": "Suggestion", "description": "no error-path test"}],
		"coverage_gaps": [
			{"file_path": "internal/store/store.go", "description": "rollback untested", "priority": "high"}
		],
		"risk_level": "medium"
	}`)

	issues, err := s.Decode("tests", data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(issues))
	}
}

func TestMultiDimensionalRejectsOutOfRangeScore(t *testing.T) {
	s := mustGet(t, "multi_dimensional_analysis")
	data := []byte(`{
		"issues": [],
		"dimensions": [{"name": "clarity", "score": 12, "description": "n/a"}]
	}`)
	if _, err := s.Decode("a", data); err == nil {
		t.Error("expected schema violation for score > 10")
	}
}

func TestImprovementSuggestionsDecode(t *testing.T) {
	s := mustGet(t, "improvement_suggestions")
	data := []byte(`{
		"issues": [{"severity": "Suggestion", "description": "extract helper"}],
		"suggestions": [
			{"title": "split package", "description": "engine does too much", "priority": "medium"}
		]
	}`)
	if _, err := s.Decode("a", data); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
}

func TestDecodeInvalidLocation(t *testing.T) {
	s := mustGet(t, "scored_issues")
	data := []byte(`{
		"issues": [
			{"severity": "Critical", "description": "x", "location": {"file_path": "a.go", "line_number": 0}}
		],
		"overall_score": 5
	}`)
	if _, err := s.Decode("a", data); err == nil {
		t.Error("expected error for line_number < 1")
	}
}
