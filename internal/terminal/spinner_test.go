package terminal

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func waitForExit(t *testing.T, run func(context.Context)) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("spinner did not exit after cancellation")
	}
}

func TestSpinnerNonTTYExitsOnCancel(t *testing.T) {
	s := &Spinner{isTTY: false, completed: &atomic.Int32{}, total: 5}
	waitForExit(t, s.Run)
}

func TestPhaseSpinnerNonTTYExitsOnCancel(t *testing.T) {
	s := &PhaseSpinner{isTTY: false, label: "Aggregating findings"}
	waitForExit(t, s.Run)
}

func TestSpinnerCompletedCounter(t *testing.T) {
	s := NewSpinner(4)
	if s.total != 4 {
		t.Errorf("total = %d, want 4", s.total)
	}

	s.Completed().Add(1)
	s.Completed().Add(1)
	if got := s.Completed().Load(); got != 2 {
		t.Errorf("completed = %d, want 2", got)
	}
}
