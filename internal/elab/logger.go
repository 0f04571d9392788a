package elab

import (
	"fmt"
	"io"
)

// Logger receives phase-by-phase tracing output from the scheduler.
// The default implementation writes to an io.Writer exactly like the
// CLI's ad hoc verbose-mode Fprintf calls; tests can substitute a
// buffer or a no-op.
type Logger interface {
	Logf(format string, args ...any)
}

// WriterLogger writes every message as a line to W.
type WriterLogger struct {
	W io.Writer
}

func (l WriterLogger) Logf(format string, args ...any) {
	fmt.Fprintf(l.W, format+"\n", args...)
}

// NopLogger discards every message.
type NopLogger struct{}

func (NopLogger) Logf(format string, args ...any) {}
