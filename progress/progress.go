// Package progress implements the run's terminal output: an interactive
// staged display for terminals and a line-oriented fallback for pipes.
package progress

import (
	"io"
	"os"

	"golang.org/x/term"
)

// ByteSink receives the byte stream of one file transfer. Finish or Fail must
// be called exactly once to retire the sink.
type ByteSink interface {
	io.Writer

	// Finish retires the sink after a completed transfer.
	Finish()

	// Fail retires the sink after a broken transfer.
	Fail()
}

// Display is the output surface of a batch run. All methods are safe for
// concurrent use.
type Display interface {
	// Stage opens a counted stage; its bar runs from 0 to total advances.
	Stage(label string, total int)

	// Advance moves the current stage forward by n steps.
	Advance(n int)

	// SetStatus replaces the transient status line.
	SetStatus(status string)

	// Write appends a permanent line to the run log.
	Write(msg string)

	// Bytes opens a sink for one file transfer of total bytes (-1 when the
	// size is unknown).
	Bytes(name string, total int64) ByteSink

	// Close stops rendering and flushes pending output.
	Close() error
}

// New picks the display suited to the current stderr: the interactive tracker
// on a terminal, plain lines otherwise. Run output stays on stderr so stdout
// remains free for machine-readable results.
func New() Display {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return NewTracker()
	}
	return NewPlain(os.Stderr)
}
