package engine

import (
	"context"
	"sort"
	"sync"

	"github.com/richhaase/council/internal/domain"
)

// RunFunc executes one agent. It returns nil when the agent was cancelled
// by shutdown before producing a reportable outcome.
type RunFunc func(ctx context.Context, ec ExecutionContext) domain.AgentResult

// Collector accumulates results as they complete. It is shared between the
// executor and the engine's shutdown path so results finished before a
// forced stop are never lost.
type Collector struct {
	mu      sync.Mutex
	results []domain.AgentResult
}

// Add appends a completed result.
func (c *Collector) Add(r domain.AgentResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

// Results returns a snapshot of the results collected so far.
func (c *Collector) Results() []domain.AgentResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.AgentResult, len(c.results))
	copy(out, c.results)
	return out
}

// groupByPhase splits contexts into phase-ordered groups, name-sorted
// within each phase. Phases with no agents are omitted.
func groupByPhase(contexts []ExecutionContext) [][]ExecutionContext {
	var groups [][]ExecutionContext
	for _, phase := range domain.PhaseOrder {
		var group []ExecutionContext
		for _, ec := range contexts {
			if ec.Phase == phase {
				group = append(group, ec)
			}
		}
		if len(group) == 0 {
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			return group[i].AgentName < group[j].AgentName
		})
		groups = append(groups, group)
	}
	return groups
}

// ExecuteSequential runs agents one at a time, phase by phase, in name
// order within each phase. The shutdown channel is checked before each
// start: once it fires, remaining agents are simply not started, and the
// in-flight agent is allowed to finish rather than being killed.
func ExecuteSequential(
	ctx context.Context,
	run RunFunc,
	contexts []ExecutionContext,
	shutdown <-chan struct{},
	collector *Collector,
) {
	for _, group := range groupByPhase(contexts) {
		for _, ec := range group {
			select {
			case <-shutdown:
				return
			default:
			}

			if result := run(ctx, ec); result != nil {
				collector.Add(result)
			}
		}
	}
}

// ExecuteParallel runs all agents within a phase concurrently; phases
// remain strictly ordered. Shutdown cancels the current phase's context,
// propagating cooperative cancellation to in-flight agents. One agent's
// failure is captured in its own result and never aborts its siblings.
func ExecuteParallel(
	ctx context.Context,
	run RunFunc,
	contexts []ExecutionContext,
	shutdown <-chan struct{},
	collector *Collector,
) {
	for _, group := range groupByPhase(contexts) {
		select {
		case <-shutdown:
			return
		default:
		}

		phaseCtx, cancel := context.WithCancel(ctx)
		stop := make(chan struct{})
		go func() {
			select {
			case <-shutdown:
				cancel()
			case <-stop:
			}
		}()

		var wg sync.WaitGroup
		for _, ec := range group {
			wg.Add(1)
			go func(ec ExecutionContext) {
				defer wg.Done()
				if result := run(phaseCtx, ec); result != nil {
					collector.Add(result)
				}
			}(ec)
		}
		wg.Wait()

		close(stop)
		cancel()
	}
}
