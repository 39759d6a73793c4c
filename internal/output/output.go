// Package output renders review reports for display or machine consumption
// and persists per-run history records.
package output

import (
	"fmt"
	"io"

	"github.com/richhaase/council/internal/domain"
)

// Writer renders a report in one output format.
type Writer interface {
	Write(w io.Writer, report *domain.ReviewReport) error
}

// GetWriter returns the writer for a format name.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "markdown":
		return &MarkdownWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
