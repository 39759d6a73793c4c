package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/richhaase/council/internal/domain"
)

// JSONWriter outputs the full report as indented JSON. Agent results carry
// their status discriminator so the document round-trips.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, report *domain.ReviewReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
