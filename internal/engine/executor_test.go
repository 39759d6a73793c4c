package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/richhaase/council/internal/domain"
)

func phasedContext(name string, phase domain.Phase) ExecutionContext {
	return ExecutionContext{AgentName: name, Phase: phase}
}

// orderRecorder tracks start and finish events across concurrent runs.
type orderRecorder struct {
	mu     sync.Mutex
	starts []string
	ends   []string
}

func (o *orderRecorder) start(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.starts = append(o.starts, name)
}

func (o *orderRecorder) end(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ends = append(o.ends, name)
}

func TestGroupByPhaseOrdering(t *testing.T) {
	contexts := []ExecutionContext{
		phasedContext("zeta", domain.PhaseMain),
		phasedContext("alpha", domain.PhaseFinal),
		phasedContext("mid", domain.PhaseMain),
		phasedContext("first", domain.PhaseEarly),
	}

	groups := groupByPhase(contexts)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	if groups[0][0].AgentName != "first" {
		t.Errorf("early phase first, got %q", groups[0][0].AgentName)
	}
	// Name order within a phase.
	if groups[1][0].AgentName != "mid" || groups[1][1].AgentName != "zeta" {
		t.Errorf("main phase not name-sorted: %q, %q",
			groups[1][0].AgentName, groups[1][1].AgentName)
	}
	if groups[2][0].AgentName != "alpha" {
		t.Errorf("final phase, got %q", groups[2][0].AgentName)
	}
}

func TestGroupByPhaseSkipsEmptyPhases(t *testing.T) {
	groups := groupByPhase([]ExecutionContext{phasedContext("only", domain.PhaseFinal)})
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
}

func TestSequentialRunsInPhaseThenNameOrder(t *testing.T) {
	rec := &orderRecorder{}
	run := func(ctx context.Context, ec ExecutionContext) domain.AgentResult {
		rec.start(ec.AgentName)
		return domain.AgentSuccess{AgentName: ec.AgentName}
	}

	contexts := []ExecutionContext{
		phasedContext("b-main", domain.PhaseMain),
		phasedContext("a-final", domain.PhaseFinal),
		phasedContext("a-main", domain.PhaseMain),
		phasedContext("z-early", domain.PhaseEarly),
	}

	collector := &Collector{}
	ExecuteSequential(context.Background(), run, contexts, make(chan struct{}), collector)

	want := []string{"z-early", "a-main", "b-main", "a-final"}
	if len(rec.starts) != len(want) {
		t.Fatalf("got %d starts, want %d", len(rec.starts), len(want))
	}
	for i, name := range want {
		if rec.starts[i] != name {
			t.Errorf("start[%d] = %q, want %q", i, rec.starts[i], name)
		}
	}
	if len(collector.Results()) != 4 {
		t.Errorf("collected %d results, want 4", len(collector.Results()))
	}
}

func TestSequentialStopsAtShutdownButFinishesInFlight(t *testing.T) {
	shutdown := make(chan struct{})
	var started []string
	run := func(ctx context.Context, ec ExecutionContext) domain.AgentResult {
		started = append(started, ec.AgentName)
		if ec.AgentName == "a-first" {
			// Shutdown fires mid-agent; this run must still complete.
			close(shutdown)
		}
		return domain.AgentSuccess{AgentName: ec.AgentName}
	}

	contexts := []ExecutionContext{
		phasedContext("a-first", domain.PhaseMain),
		phasedContext("b-second", domain.PhaseMain),
	}
	collector := &Collector{}
	ExecuteSequential(context.Background(), run, contexts, shutdown, collector)

	if len(started) != 1 {
		t.Fatalf("agents started after shutdown: %v", started)
	}
	results := collector.Results()
	if len(results) != 1 || results[0].Agent() != "a-first" {
		t.Errorf("in-flight result lost: %v", results)
	}
}

func TestParallelPhaseBarrier(t *testing.T) {
	rec := &orderRecorder{}
	run := func(ctx context.Context, ec ExecutionContext) domain.AgentResult {
		rec.start(ec.AgentName)
		time.Sleep(10 * time.Millisecond)
		rec.end(ec.AgentName)
		return domain.AgentSuccess{AgentName: ec.AgentName}
	}

	contexts := []ExecutionContext{
		phasedContext("early-1", domain.PhaseEarly),
		phasedContext("early-2", domain.PhaseEarly),
		phasedContext("main-1", domain.PhaseMain),
	}
	collector := &Collector{}
	ExecuteParallel(context.Background(), run, contexts, make(chan struct{}), collector)

	// main-1 must not start until both early agents have finished.
	mainStart := -1
	for i, name := range rec.starts {
		if name == "main-1" {
			mainStart = i
		}
	}
	if mainStart == -1 {
		t.Fatal("main-1 never started")
	}
	earlyEnds := 0
	for _, name := range rec.ends[:2] {
		if name == "early-1" || name == "early-2" {
			earlyEnds++
		}
	}
	if earlyEnds != 2 {
		t.Errorf("main phase started before early phase finished: starts=%v ends=%v",
			rec.starts, rec.ends)
	}
	if len(collector.Results()) != 3 {
		t.Errorf("collected %d results, want 3", len(collector.Results()))
	}
}

func TestParallelFaultIsolation(t *testing.T) {
	run := func(ctx context.Context, ec ExecutionContext) domain.AgentResult {
		if ec.AgentName == "broken" {
			return domain.AgentError{AgentName: ec.AgentName, ErrorMessage: "failed"}
		}
		time.Sleep(5 * time.Millisecond)
		return domain.AgentSuccess{AgentName: ec.AgentName}
	}

	contexts := []ExecutionContext{
		phasedContext("broken", domain.PhaseMain),
		phasedContext("healthy-1", domain.PhaseMain),
		phasedContext("healthy-2", domain.PhaseMain),
	}
	collector := &Collector{}
	ExecuteParallel(context.Background(), run, contexts, make(chan struct{}), collector)

	results := collector.Results()
	if len(results) != 3 {
		t.Fatalf("one failure aborted siblings: got %d results", len(results))
	}
	var successes, errors int
	for _, r := range results {
		if domain.IsUsable(r) {
			successes++
		} else {
			errors++
		}
	}
	if successes != 2 || errors != 1 {
		t.Errorf("got %d successes and %d errors", successes, errors)
	}
}

func TestParallelShutdownCancelsInFlightAndKeepsCompleted(t *testing.T) {
	shutdown := make(chan struct{})
	release := make(chan struct{})

	run := func(ctx context.Context, ec ExecutionContext) domain.AgentResult {
		switch ec.AgentName {
		case "fast":
			return domain.AgentSuccess{AgentName: ec.AgentName}
		default:
			// Blocks until cancelled by the shutdown propagation.
			select {
			case <-ctx.Done():
				return nil
			case <-release:
				return domain.AgentSuccess{AgentName: ec.AgentName}
			}
		}
	}

	contexts := []ExecutionContext{
		phasedContext("fast", domain.PhaseMain),
		phasedContext("slow-1", domain.PhaseMain),
		phasedContext("slow-2", domain.PhaseMain),
	}

	collector := &Collector{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		ExecuteParallel(context.Background(), run, contexts, shutdown, collector)
	}()

	// Let the fast agent finish, then request shutdown.
	time.Sleep(20 * time.Millisecond)
	close(shutdown)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("executor did not stop after shutdown")
	}

	results := collector.Results()
	if len(results) != 1 || results[0].Agent() != "fast" {
		t.Errorf("expected only the completed result, got %v", results)
	}
	close(release)
}

func TestParallelShutdownSkipsLaterPhases(t *testing.T) {
	shutdown := make(chan struct{})
	close(shutdown)

	ran := false
	run := func(ctx context.Context, ec ExecutionContext) domain.AgentResult {
		ran = true
		return domain.AgentSuccess{AgentName: ec.AgentName}
	}

	collector := &Collector{}
	ExecuteParallel(context.Background(), run,
		[]ExecutionContext{phasedContext("never", domain.PhaseMain)}, shutdown, collector)

	if ran {
		t.Error("agent started despite pre-set shutdown")
	}
}
