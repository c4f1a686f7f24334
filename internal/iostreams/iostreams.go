// Package iostreams provides access to the process's standard streams.
//
// Standard output carries only machine-readable results (the status record,
// container logs); everything meant for humans goes to ErrOut.
package iostreams

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Logger provides diagnostic logging for the command layer.
// *zerolog.Logger satisfies this interface directly.
type Logger interface {
	Debug() *zerolog.Event
	Info() *zerolog.Event
	Warn() *zerolog.Event
	Error() *zerolog.Event
}

// IOStreams provides access to standard input/output/error streams.
// It follows the GitHub CLI pattern for testable I/O.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer

	Logger Logger

	// -1 = unchecked, 0 = false, 1 = true
	isStderrTTY int

	// -1 = auto (detect from stderr TTY), 0 = disabled, 1 = enabled
	colorEnabled int
}

// NewIOStreams creates an IOStreams connected to standard streams.
func NewIOStreams() *IOStreams {
	return &IOStreams{
		In:           os.Stdin,
		Out:          os.Stdout,
		ErrOut:       os.Stderr,
		isStderrTTY:  -1,
		colorEnabled: -1,
	}
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// IsStderrTTY returns true if stderr is a terminal.
func (s *IOStreams) IsStderrTTY() bool {
	if s.isStderrTTY == -1 {
		s.isStderrTTY = boolToInt(isTerminal(s.ErrOut))
	}
	return s.isStderrTTY == 1
}

// SetStderrTTY overrides stderr TTY detection.
func (s *IOStreams) SetStderrTTY(isTTY bool) {
	s.isStderrTTY = boolToInt(isTTY)
}

// ColorEnabled reports whether diagnostics on ErrOut may use color.
// Auto mode enables color only when stderr is a terminal and NO_COLOR is unset.
func (s *IOStreams) ColorEnabled() bool {
	if s.colorEnabled == -1 {
		return s.IsStderrTTY() && os.Getenv("NO_COLOR") == ""
	}
	return s.colorEnabled == 1
}

// SetColorEnabled explicitly enables or disables color output.
func (s *IOStreams) SetColorEnabled(enabled bool) {
	s.colorEnabled = boolToInt(enabled)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
