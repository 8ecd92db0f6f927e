package progress

import (
	"fmt"
	"io"
	"sync"
)

// Plain is the non-interactive display: one line per event, no cursor control.
// Byte streams are accepted but not rendered.
type Plain struct {
	mu  sync.Mutex
	out io.Writer
}

// NewPlain constructs a display writing plain lines to out.
func NewPlain(out io.Writer) *Plain {
	return &Plain{out: out}
}

// Stage prints the stage label once.
func (p *Plain) Stage(label string, total int) {
	p.Write(label)
}

// Advance is visible only in the interactive display.
func (p *Plain) Advance(n int) {}

// SetStatus prints the status as a regular line since nothing transient can
// be erased on a pipe.
func (p *Plain) SetStatus(status string) {
	p.Write(status)
}

// Write prints one line.
func (p *Plain) Write(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.out, msg)
}

// Bytes returns a sink that swallows the stream; transfer outcomes are
// reported by the caller through Write.
func (p *Plain) Bytes(name string, total int64) ByteSink {
	return plainSink{}
}

// Close is a no-op; every line is already flushed.
func (p *Plain) Close() error {
	return nil
}

type plainSink struct{}

func (plainSink) Write(b []byte) (int, error) {
	return len(b), nil
}

func (plainSink) Finish() {}

func (plainSink) Fail() {}
