package terminal

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"
)

const spinnerInterval = 200 * time.Millisecond

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// Spinner shows agent execution progress as a completed/total count.
// Non-TTY runs render nothing and just wait for cancellation.
type Spinner struct {
	isTTY     bool
	completed *atomic.Int32
	total     int
}

// NewSpinner creates a spinner tracking total agents.
func NewSpinner(total int) *Spinner {
	return &Spinner{
		isTTY:     IsStderrTTY(),
		completed: &atomic.Int32{},
		total:     total,
	}
}

// Completed is the counter agent goroutines increment as they finish.
func (s *Spinner) Completed() *atomic.Int32 {
	return s.completed
}

// Run animates until ctx is cancelled, then prints the final count.
func (s *Spinner) Run(ctx context.Context) {
	if !s.isTTY {
		<-ctx.Done()
		return
	}

	idx := 0
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			progress := fmt.Sprintf("%d/%d", s.completed.Load(), s.total)
			fmt.Fprintf(os.Stderr, "\r%s %s✓%s Agents complete %s(%s)%s          \n",
				tag(Green), Color(Green), Color(Reset), Color(Dim), progress, Color(Reset))
			return

		case <-ticker.C:
			frame := string(spinnerFrames[idx%len(spinnerFrames)])
			progress := fmt.Sprintf("%d/%d", s.completed.Load(), s.total)
			fmt.Fprintf(os.Stderr, "\r%s %s%s%s Running agents %s(%s)%s          ",
				tag(Cyan), Color(Cyan), frame, Color(Reset), Color(Dim), progress, Color(Reset))
			idx++
		}
	}
}

// PhaseSpinner animates a single labeled phase, such as aggregation.
type PhaseSpinner struct {
	isTTY bool
	label string
}

// NewPhaseSpinner creates a spinner for one labeled phase.
func NewPhaseSpinner(label string) *PhaseSpinner {
	return &PhaseSpinner{
		isTTY: IsStderrTTY(),
		label: label,
	}
}

// Run animates until ctx is cancelled, then prints the label checked off.
func (s *PhaseSpinner) Run(ctx context.Context) {
	if !s.isTTY {
		<-ctx.Done()
		return
	}

	idx := 0
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintf(os.Stderr, "\r%s %s✓%s %s          \n",
				tag(Green), Color(Green), Color(Reset), s.label)
			return

		case <-ticker.C:
			frame := string(spinnerFrames[idx%len(spinnerFrames)])
			fmt.Fprintf(os.Stderr, "\r%s %s%s%s %s          ",
				tag(Cyan), Color(Cyan), frame, Color(Reset), s.label)
			idx++
		}
	}
}
