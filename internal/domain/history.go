package domain

import (
	"encoding/json"
	"time"
)

// ReviewHistoryRecord is a closed union over the three per-run history
// record shapes, discriminated by review mode. Records are appended to the
// JSONL history file after each run.
type ReviewHistoryRecord interface {
	RecordMode() ReviewMode

	sealedRecord()
}

// DiffReviewRecord records a diff-mode run.
type DiffReviewRecord struct {
	RunID      string        `json:"run_id"`
	CommitHash string        `json:"commit_hash"`
	BranchName string        `json:"branch_name"`
	ReviewedAt time.Time     `json:"reviewed_at"`
	Results    []AgentResult `json:"-"`
	Summary    ReviewSummary `json:"summary"`
}

// PRReviewRecord records a PR-mode run.
type PRReviewRecord struct {
	RunID      string        `json:"run_id"`
	CommitHash string        `json:"commit_hash"`
	PRNumber   int           `json:"pr_number"`
	BranchName string        `json:"branch_name"`
	ReviewedAt time.Time     `json:"reviewed_at"`
	Results    []AgentResult `json:"-"`
	Summary    ReviewSummary `json:"summary"`
}

// FileReviewRecord records a file-mode run.
type FileReviewRecord struct {
	RunID      string        `json:"run_id"`
	Paths      []string      `json:"paths"`
	ReviewedAt time.Time     `json:"reviewed_at"`
	Results    []AgentResult `json:"-"`
	Summary    ReviewSummary `json:"summary"`
}

func (DiffReviewRecord) RecordMode() ReviewMode { return ModeDiff }
func (PRReviewRecord) RecordMode() ReviewMode   { return ModePR }
func (FileReviewRecord) RecordMode() ReviewMode { return ModeFile }

func (DiffReviewRecord) sealedRecord() {}
func (PRReviewRecord) sealedRecord()   {}
func (FileReviewRecord) sealedRecord() {}

var (
	_ ReviewHistoryRecord = DiffReviewRecord{}
	_ ReviewHistoryRecord = PRReviewRecord{}
	_ ReviewHistoryRecord = FileReviewRecord{}
)

// MarshalHistoryRecord serializes a record with its review_mode
// discriminator and status-tagged results.
func MarshalHistoryRecord(rec ReviewHistoryRecord) ([]byte, error) {
	var results []AgentResult
	switch v := rec.(type) {
	case DiffReviewRecord:
		results = v.Results
	case PRReviewRecord:
		results = v.Results
	case FileReviewRecord:
		results = v.Results
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}

	mode, err := json.Marshal(rec.RecordMode())
	if err != nil {
		return nil, err
	}
	fields["review_mode"] = mode

	encoded := make([]json.RawMessage, 0, len(results))
	for _, r := range results {
		raw, err := MarshalAgentResult(r)
		if err != nil {
			return nil, err
		}
		encoded = append(encoded, raw)
	}
	rawResults, err := json.Marshal(encoded)
	if err != nil {
		return nil, err
	}
	fields["results"] = rawResults

	return json.Marshal(fields)
}
