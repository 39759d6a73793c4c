// Package engine implements the review execution pipeline: target
// resolution, agent selection, phase-ordered execution with two-axis
// budgets, and report assembly.
package engine

import (
	"context"
	"time"

	"github.com/richhaase/council/internal/agentdef"
	"github.com/richhaase/council/internal/config"
	"github.com/richhaase/council/internal/domain"
	"github.com/richhaase/council/internal/llm"
	"github.com/richhaase/council/internal/schema"
	"github.com/richhaase/council/internal/terminal"
	"github.com/richhaase/council/internal/tools"
)

// ShutdownGrace bounds how long a shutdown request may block: once it
// expires, the engine returns whatever results have completed.
const ShutdownGrace = 3 * time.Second

// Engine wires the pipeline's collaborators. All fields are required
// except Shutdown, which defaults to never firing, and AgentsDir, which
// defaults to built-in agents only.
type Engine struct {
	Backend   llm.Backend
	Catalog   *tools.Catalog
	Registry  *schema.Registry
	Config    config.Resolved
	Logger    *terminal.Logger
	WorkDir   string
	AgentsDir string
	Shutdown  <-chan struct{}
}

// EngineResult pairs the terminal report with the process exit code.
type EngineResult struct {
	Report   domain.ReviewReport
	ExitCode domain.ExitCode
}

// RunReview executes the full pipeline for one target. Fatal precondition
// failures (content resolution, prefetch) return an error; everything from
// the selector onward is captured in the result. The selector's own
// failure yields an execution-error result because no reviewer ever ran.
func (e *Engine) RunReview(ctx context.Context, target domain.ReviewTarget) (*EngineResult, error) {
	loadResult := agentdef.Load(e.AgentsDir)
	for _, le := range loadResult.Errors {
		e.Logger.Logf(terminal.StyleWarning, "skipped agent definition %s: %s", le.Source, le.Message)
	}

	var enabled []agentdef.AgentDefinition
	for _, def := range loadResult.Agents {
		if e.Config.AgentEnabled(def.Name) {
			enabled = append(enabled, def)
		}
	}

	content, err := ResolveContent(ctx, target, e.WorkDir)
	if err != nil {
		return nil, err
	}

	prefetched, err := PrefetchSelectorContext(ctx, target)
	if err != nil {
		return nil, err
	}

	instruction := BuildReviewInstruction(target)

	selectorDef, err := agentdef.LoadSelector(e.AgentsDir)
	if err != nil {
		return nil, err
	}

	e.Logger.Log("selecting review agents", terminal.StyleInfo)
	selectorOut, err := RunSelector(ctx, e.Backend, selectorDef, &e.Config, e.Catalog,
		BuildSelectorInstruction(target, enabled, prefetched, content))
	if err != nil {
		e.Logger.Logf(terminal.StyleError, "%v", err)
		return emptyResult(loadResult.Errors, domain.ExitExecutionError), nil
	}

	if len(selectorOut.SelectedAgents) == 0 {
		e.Logger.Log("no agents selected, nothing to review", terminal.StyleSuccess)
		return emptyResult(loadResult.Errors, domain.ExitSuccess), nil
	}
	e.Logger.Logf(terminal.StyleInfo, "selected %d agent(s): %s",
		len(selectorOut.SelectedAgents), selectorOut.Reasoning)

	userMessage := instruction + BuildSelectorContextSection(selectorOut)

	// Selected names the roster doesn't know are ignored; context build
	// failures become error results against that agent, not batch aborts.
	byName := make(map[string]agentdef.AgentDefinition, len(enabled))
	for _, def := range enabled {
		byName[def.Name] = def
	}
	var contexts []ExecutionContext
	var invalid []domain.AgentResult
	for _, name := range selectorOut.SelectedAgents {
		def, ok := byName[name]
		if !ok {
			continue
		}
		ec, err := BuildExecutionContext(def, &e.Config, e.Registry, e.Catalog, userMessage)
		if err != nil {
			e.Logger.Logf(terminal.StyleWarning, "agent %s: %v", name, err)
			invalid = append(invalid, domain.AgentError{
				AgentName:    name,
				ErrorMessage: err.Error(),
				ErrorType:    "invalid_definition",
			})
			continue
		}
		contexts = append(contexts, ec)
	}

	results := e.executeWithShutdownGrace(ctx, contexts)
	results = append(results, invalid...)

	report := domain.ReviewReport{
		Results:    results,
		Summary:    buildSummary(results),
		LoadErrors: loadResult.Errors,
	}

	e.runAggregation(ctx, &report, results)

	exitCode := determineExitCode(results, report.Summary)
	e.logExecutionSummary(results, report.Summary)

	return &EngineResult{Report: report, ExitCode: exitCode}, nil
}

// executeWithShutdownGrace runs the configured executor and bounds how
// long a shutdown request can block. Results completed before the grace
// expires are preserved.
func (e *Engine) executeWithShutdownGrace(ctx context.Context, contexts []ExecutionContext) []domain.AgentResult {
	shutdown := e.Shutdown
	if shutdown == nil {
		shutdown = make(chan struct{})
	}

	spinner := terminal.NewSpinner(len(contexts))
	spinCtx, stopSpinner := context.WithCancel(ctx)
	defer stopSpinner()
	go spinner.Run(spinCtx)

	run := func(ctx context.Context, ec ExecutionContext) domain.AgentResult {
		e.Logger.Logf(terminal.StyleDim, "agent %s started", ec.AgentName)
		result := RunAgent(ctx, e.Backend, ec)
		if result != nil {
			spinner.Completed().Add(1)
			e.Logger.Logf(terminal.StyleDim, "agent %s finished: %s", ec.AgentName, result.Status())
		}
		return result
	}

	collector := &Collector{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if e.Config.Parallel {
			ExecuteParallel(ctx, run, contexts, shutdown, collector)
		} else {
			ExecuteSequential(ctx, run, contexts, shutdown, collector)
		}
	}()

	select {
	case <-done:
		return collector.Results()
	case <-shutdown:
	}

	select {
	case <-done:
		return collector.Results()
	case <-time.After(ShutdownGrace):
		partial := collector.Results()
		e.Logger.Logf(terminal.StyleWarning,
			"shutdown grace (%s) expired, returning %d partial result(s)",
			ShutdownGrace, len(partial))
		return partial
	}
}

// runAggregation runs the optional aggregation pass. It is skipped when
// disabled, when no usable result exists, or when shutdown is pending;
// failure is recorded in the report and never affects the exit code.
func (e *Engine) runAggregation(ctx context.Context, report *domain.ReviewReport, results []domain.AgentResult) {
	if !e.Config.AggregationEnabled {
		return
	}
	usable := 0
	for _, r := range results {
		if domain.IsUsable(r) {
			usable++
		}
	}
	if usable == 0 {
		return
	}
	if e.Shutdown != nil {
		select {
		case <-e.Shutdown:
			return
		default:
		}
	}

	aggDef, err := agentdef.LoadAggregator(e.AgentsDir)
	if err != nil {
		report.AggregationError = err.Error()
		return
	}

	spinner := terminal.NewPhaseSpinner("Aggregating findings")
	spinCtx, stopSpinner := context.WithCancel(ctx)
	go spinner.Run(spinCtx)
	aggregated, err := RunAggregator(ctx, e.Backend, aggDef, &e.Config, results)
	stopSpinner()
	if err != nil {
		e.Logger.Logf(terminal.StyleWarning, "%v", err)
		report.AggregationError = err.Error()
		return
	}
	report.Aggregated = aggregated
}

func buildSummary(results []domain.AgentResult) domain.ReviewSummary {
	var issues []domain.ReviewIssue
	for _, r := range results {
		issues = append(issues, domain.ResultIssues(r)...)
	}

	var maxSeverity *domain.Severity
	for _, issue := range issues {
		if maxSeverity == nil || issue.Severity.Rank() > maxSeverity.Rank() {
			sev := issue.Severity
			maxSeverity = &sev
		}
	}

	var totalElapsed time.Duration
	for _, r := range results {
		switch v := r.(type) {
		case domain.AgentSuccess:
			totalElapsed += v.ElapsedTime
		case domain.AgentTruncated:
			totalElapsed += v.ElapsedTime
		}
	}

	return domain.ReviewSummary{
		TotalIssues:      len(issues),
		MaxSeverity:      maxSeverity,
		TotalElapsedTime: totalElapsed,
		TotalCost:        aggregateCost(results),
	}
}

func aggregateCost(results []domain.AgentResult) *domain.CostInfo {
	var total *domain.CostInfo
	for _, r := range results {
		if s, ok := r.(domain.AgentSuccess); ok && s.Cost != nil {
			if total == nil {
				total = &domain.CostInfo{}
			}
			sum := total.Add(*s.Cost)
			total = &sum
		}
	}
	return total
}

// determineExitCode escalates to an execution error when no agent produced
// a usable result; otherwise the max severity decides.
func determineExitCode(results []domain.AgentResult, summary domain.ReviewSummary) domain.ExitCode {
	for _, r := range results {
		if domain.IsUsable(r) {
			return domain.ExitCodeForSeverity(summary.MaxSeverity)
		}
	}
	return domain.ExitExecutionError
}

func emptyResult(loadErrors []domain.LoadError, code domain.ExitCode) *EngineResult {
	return &EngineResult{
		Report: domain.ReviewReport{
			Summary:    domain.ReviewSummary{},
			LoadErrors: loadErrors,
		},
		ExitCode: code,
	}
}

func (e *Engine) logExecutionSummary(results []domain.AgentResult, summary domain.ReviewSummary) {
	var success, truncated, errored, timedOut int
	for _, r := range results {
		switch r.(type) {
		case domain.AgentSuccess:
			success++
		case domain.AgentTruncated:
			truncated++
		case domain.AgentError:
			errored++
		case domain.AgentTimeout:
			timedOut++
		}
	}
	e.Logger.Logf(terminal.StyleInfo,
		"agents: %d total, %d succeeded, %d truncated, %d errored, %d timed out (%s)",
		len(results), success, truncated, errored, timedOut,
		terminal.FormatDuration(summary.TotalElapsedTime))
}
