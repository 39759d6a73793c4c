package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/richhaase/council/internal/config"
	"github.com/richhaase/council/internal/domain"
	"github.com/richhaase/council/internal/git"
)

// HistoryDirName is the history directory inside the config directory.
const HistoryDirName = "history"

// History file names, one per review mode. PR runs get a per-number file so
// repeated reviews of the same PR append to the same history.
const (
	diffHistoryFile  = "diff.jsonl"
	filesHistoryFile = "files.jsonl"
	prHistoryFormat  = "pr-%d.jsonl"
)

// HistoryWriteError is a failure to persist a history record. History is a
// side channel: callers report it as a warning, not a run failure.
type HistoryWriteError struct {
	Path string
	Err  error
}

func (e *HistoryWriteError) Error() string {
	return fmt.Sprintf("failed to write review history to %s: %v", e.Path, e.Err)
}

func (e *HistoryWriteError) Unwrap() error { return e.Err }

// SaveHistory appends one history record for the run to the JSONL file for
// its target under <repoRoot>/.council/history/. Returns the file written.
func SaveHistory(ctx context.Context, repoRoot string, target domain.ReviewTarget, report *domain.ReviewReport) (string, error) {
	dir := filepath.Join(repoRoot, config.ConfigDirName, HistoryDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &HistoryWriteError{Path: dir, Err: err}
	}

	record, err := buildRecord(ctx, repoRoot, target, report)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, historyFileName(target))
	data, err := domain.MarshalHistoryRecord(record)
	if err != nil {
		return "", &HistoryWriteError{Path: path, Err: err}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", &HistoryWriteError{Path: path, Err: err}
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return "", &HistoryWriteError{Path: path, Err: err}
	}
	return path, nil
}

func historyFileName(target domain.ReviewTarget) string {
	switch t := target.(type) {
	case domain.PRTarget:
		return fmt.Sprintf(prHistoryFormat, t.Number)
	case domain.FileTarget:
		return filesHistoryFile
	default:
		return diffHistoryFile
	}
}

func buildRecord(ctx context.Context, repoRoot string, target domain.ReviewTarget, report *domain.ReviewReport) (domain.ReviewHistoryRecord, error) {
	runID := uuid.NewString()
	reviewedAt := time.Now().UTC()

	switch t := target.(type) {
	case domain.DiffTarget:
		hash, branch, err := gitInfo(ctx, repoRoot)
		if err != nil {
			return nil, err
		}
		return domain.DiffReviewRecord{
			RunID:      runID,
			CommitHash: hash,
			BranchName: branch,
			ReviewedAt: reviewedAt,
			Results:    report.Results,
			Summary:    report.Summary,
		}, nil
	case domain.PRTarget:
		hash, branch, err := gitInfo(ctx, repoRoot)
		if err != nil {
			return nil, err
		}
		return domain.PRReviewRecord{
			RunID:      runID,
			CommitHash: hash,
			PRNumber:   t.Number,
			BranchName: branch,
			ReviewedAt: reviewedAt,
			Results:    report.Results,
			Summary:    report.Summary,
		}, nil
	case domain.FileTarget:
		return domain.FileReviewRecord{
			RunID:      runID,
			Paths:      t.Paths,
			ReviewedAt: reviewedAt,
			Results:    report.Results,
			Summary:    report.Summary,
		}, nil
	}
	return nil, fmt.Errorf("unknown target type %T", target)
}

func gitInfo(ctx context.Context, repoRoot string) (hash, branch string, err error) {
	hash, err = git.Head(ctx, repoRoot)
	if err != nil {
		return "", "", &HistoryWriteError{Path: repoRoot, Err: err}
	}
	branch, err = git.CurrentBranch(ctx, repoRoot)
	if err != nil {
		return "", "", &HistoryWriteError{Path: repoRoot, Err: err}
	}
	return hash, branch, nil
}
