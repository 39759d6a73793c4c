package output

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/richhaase/council/internal/domain"
)

func TestSaveHistoryFileTarget(t *testing.T) {
	root := t.TempDir()
	target := domain.FileTarget{Paths: []string{"a.go", "b.go"}}

	path, err := SaveHistory(context.Background(), root, target, sampleReport())
	if err != nil {
		t.Fatalf("SaveHistory: %v", err)
	}

	want := filepath.Join(root, ".council", "history", "files.jsonl")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var record struct {
		RunID      string            `json:"run_id"`
		ReviewMode string            `json:"review_mode"`
		Paths      []string          `json:"paths"`
		Results    []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("record is not valid JSON: %v", err)
	}
	if record.ReviewMode != "file" {
		t.Errorf("review_mode = %q, want file", record.ReviewMode)
	}
	if record.RunID == "" {
		t.Error("run_id missing")
	}
	if len(record.Paths) != 2 {
		t.Errorf("paths = %v", record.Paths)
	}
	if len(record.Results) != 3 {
		t.Errorf("got %d results, want 3", len(record.Results))
	}
}

func TestSaveHistoryAppendsOneLinePerRun(t *testing.T) {
	root := t.TempDir()
	target := domain.FileTarget{Paths: []string{"a.go"}}

	var lastPath string
	for i := 0; i < 3; i++ {
		path, err := SaveHistory(context.Background(), root, target, sampleReport())
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		lastPath = path
	}

	f, err := os.Open(lastPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)
	runIDs := make(map[string]bool)
	lines := 0
	for scanner.Scan() {
		lines++
		var record struct {
			RunID string `json:"run_id"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", lines, err)
		}
		runIDs[record.RunID] = true
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}

	if lines != 3 {
		t.Errorf("got %d lines, want 3", lines)
	}
	if len(runIDs) != 3 {
		t.Errorf("run IDs not unique across runs: %v", runIDs)
	}
}

func TestHistoryFileNamePerTarget(t *testing.T) {
	tests := []struct {
		target domain.ReviewTarget
		want   string
	}{
		{domain.DiffTarget{BaseBranch: "main"}, "diff.jsonl"},
		{domain.PRTarget{Number: 128}, "pr-128.jsonl"},
		{domain.FileTarget{Paths: []string{"a.go"}}, "files.jsonl"},
	}
	for _, tt := range tests {
		if got := historyFileName(tt.target); got != tt.want {
			t.Errorf("historyFileName(%T) = %q, want %q", tt.target, got, tt.want)
		}
	}
}
