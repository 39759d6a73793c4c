package domain

// ExitCode represents the process exit status of a review run.
type ExitCode int

const (
	// ExitSuccess indicates a clean review: no issues, or nothing above
	// Suggestion severity.
	ExitSuccess ExitCode = 0
	// ExitCritical indicates at least one Critical issue was found.
	ExitCritical ExitCode = 1
	// ExitImportant indicates at least one Important issue was found
	// (and no Critical).
	ExitImportant ExitCode = 2
	// ExitExecutionError indicates no agent produced a usable result.
	ExitExecutionError ExitCode = 3
	// ExitInputError indicates invalid CLI input, before the engine ran.
	ExitInputError ExitCode = 4
)

// Int returns the exit code as an int for use with os.Exit.
func (e ExitCode) Int() int {
	return int(e)
}

// ExitCodeForSeverity maps the maximum observed severity to an exit code.
// A nil maximum (no issues at all) is a clean success.
func ExitCodeForSeverity(max *Severity) ExitCode {
	if max == nil {
		return ExitSuccess
	}
	switch *max {
	case SeverityCritical:
		return ExitCritical
	case SeverityImportant:
		return ExitImportant
	default:
		return ExitSuccess
	}
}
