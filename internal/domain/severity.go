// Package domain provides core types for the review orchestrator.
package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity classifies how serious a review issue is.
// Ordering: Critical > Important > Suggestion > Nitpick.
type Severity string

const (
	SeverityCritical   Severity = "Critical"
	SeverityImportant  Severity = "Important"
	SeveritySuggestion Severity = "Suggestion"
	SeverityNitpick    Severity = "Nitpick"
)

// severityRank maps each severity to its position in the ordering.
var severityRank = map[Severity]int{
	SeverityNitpick:    0,
	SeveritySuggestion: 1,
	SeverityImportant:  2,
	SeverityCritical:   3,
}

// ParseSeverity parses a severity string case-insensitively into its
// canonical PascalCase form.
func ParseSeverity(s string) (Severity, error) {
	for sev := range severityRank {
		if strings.EqualFold(s, string(sev)) {
			return sev, nil
		}
	}
	return "", fmt.Errorf("unknown severity %q (expected one of: Critical, Important, Suggestion, Nitpick)", s)
}

// Rank returns the severity's ordering value. Higher is more severe.
func (s Severity) Rank() int {
	return severityRank[s]
}

// Valid reports whether s is one of the four defined severities.
func (s Severity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// MaxSeverity returns the most severe of a and b.
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// UnmarshalJSON accepts any casing and normalizes to the canonical form.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	sev, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}
