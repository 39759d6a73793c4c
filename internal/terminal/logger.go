package terminal

import (
	"fmt"
	"os"
	"strings"
)

// Style selects the color applied to a log line's tag.
type Style string

const (
	StyleInfo    Style = "info"
	StyleSuccess Style = "success"
	StyleWarning Style = "warning"
	StyleError   Style = "error"
	StyleDim     Style = "dim"
)

var styleColors = map[Style]string{
	StyleInfo:    Cyan,
	StyleSuccess: Green,
	StyleWarning: Yellow,
	StyleError:   Red,
	StyleDim:     Dim,
}

// Logger writes styled progress lines to stderr.
type Logger struct {
	isTTY bool
}

// NewLogger creates a logger that detects whether stderr is a terminal.
func NewLogger() *Logger {
	return &Logger{isTTY: IsStderrTTY()}
}

// Log writes one styled line. On a TTY the current line is cleared first
// so a running spinner doesn't leave fragments behind.
func (l *Logger) Log(msg string, style Style) {
	color, ok := styleColors[style]
	if !ok {
		color = Cyan
	}

	if l.isTTY {
		fmt.Fprint(os.Stderr, "\r"+strings.Repeat(" ", 100)+"\r")
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", tag(color), msg)
}

// Logf is Log with fmt.Sprintf formatting.
func (l *Logger) Logf(style Style, format string, args ...any) {
	l.Log(fmt.Sprintf(format, args...), style)
}

// tag renders the dim-bracketed program name with the style color applied
// to the name itself. Shared with the spinners so every stderr line carries
// the same prefix.
func tag(color string) string {
	return fmt.Sprintf("%s[%s%scouncil%s%s]%s",
		Color(Dim), Color(Reset), Color(color), Color(Reset), Color(Dim), Color(Reset))
}
