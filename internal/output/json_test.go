package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/richhaase/council/internal/domain"
)

func TestJSONWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONWriter{}).Write(&buf, sampleReport()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var parsed struct {
		Results []json.RawMessage `json:"results"`
		Summary domain.ReviewSummary
	}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(parsed.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(parsed.Results))
	}
	if parsed.Summary.TotalIssues != 2 {
		t.Errorf("total issues = %d, want 2", parsed.Summary.TotalIssues)
	}

	// Status discriminators survive, so results can be reconstructed.
	first, err := domain.UnmarshalAgentResult(parsed.Results[0])
	if err != nil {
		t.Fatalf("UnmarshalAgentResult: %v", err)
	}
	success, ok := first.(domain.AgentSuccess)
	if !ok {
		t.Fatalf("got %T, want AgentSuccess", first)
	}
	if success.AgentName != "code-reviewer" || len(success.Issues) != 2 {
		t.Errorf("round-trip lost data: %+v", success)
	}
}

func TestGetWriter(t *testing.T) {
	if _, err := GetWriter("markdown"); err != nil {
		t.Errorf("markdown: %v", err)
	}
	if _, err := GetWriter("json"); err != nil {
		t.Errorf("json: %v", err)
	}
	if _, err := GetWriter("yaml"); err == nil {
		t.Error("unknown format accepted")
	}
}
