package domain

import (
	"errors"
	"fmt"
)

// FileLocation points at a line in a file. Pairing path and line in one
// struct prevents a line number from existing without a path.
type FileLocation struct {
	FilePath   string `json:"file_path"`
	LineNumber int    `json:"line_number"`
}

// Validate checks the location invariants.
func (l FileLocation) Validate() error {
	if l.FilePath == "" {
		return errors.New("file location: file_path must not be empty")
	}
	if l.LineNumber < 1 {
		return fmt.Errorf("file location: line_number must be >= 1, got %d", l.LineNumber)
	}
	return nil
}

// ReviewIssue is one finding reported by a review agent.
type ReviewIssue struct {
	AgentName   string        `json:"agent_name"`
	Severity    Severity      `json:"severity"`
	Description string        `json:"description"`
	Location    *FileLocation `json:"location,omitempty"`
	Suggestion  string        `json:"suggestion,omitempty"`
	Category    string        `json:"category,omitempty"`
}

// Validate checks the issue invariants: required fields non-empty, severity
// one of the four defined values, location well-formed when present.
func (i ReviewIssue) Validate() error {
	if i.AgentName == "" {
		return errors.New("review issue: agent_name must not be empty")
	}
	if !i.Severity.Valid() {
		return fmt.Errorf("review issue: invalid severity %q", string(i.Severity))
	}
	if i.Description == "" {
		return errors.New("review issue: description must not be empty")
	}
	if i.Location != nil {
		if err := i.Location.Validate(); err != nil {
			return err
		}
	}
	return nil
}
