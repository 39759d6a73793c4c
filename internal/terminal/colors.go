// Package terminal renders council's progress output: styled stderr
// logging, execution spinners, and TTY-aware color handling. Everything
// here writes to stderr so the report on stdout stays machine-readable.
package terminal

import (
	"os"
	"sync"

	"golang.org/x/term"
)

// ANSI codes used by the logger and spinners.
const (
	Reset  = "\033[0m"
	Dim    = "\033[2m"
	Cyan   = "\033[36m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Red    = "\033[31m"
)

var (
	colorMu       sync.RWMutex
	colorsEnabled = true
)

// DisableColors turns off color output globally. The CLI calls it when
// stdout is not a terminal.
func DisableColors() {
	colorMu.Lock()
	defer colorMu.Unlock()
	colorsEnabled = false
}

// EnableColors turns color output back on. Tests use it to restore state.
func EnableColors() {
	colorMu.Lock()
	defer colorMu.Unlock()
	colorsEnabled = true
}

// Color returns the code when colors are enabled, otherwise the empty
// string, so call sites can interpolate unconditionally.
func Color(c string) string {
	colorMu.RLock()
	defer colorMu.RUnlock()
	if colorsEnabled {
		return c
	}
	return ""
}

// IsStdoutTTY reports whether stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsStderrTTY reports whether stderr is a terminal.
func IsStderrTTY() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
