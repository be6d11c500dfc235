package gc

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// traceWriter renders verbose collection-cycle tracing, the Go-idiomatic
// replacement for the teacher's bare gcDebug/println gate in
// gc_blocks.go: still opt-in and still cheap when disabled (Heap.trace is
// nil unless Config.Verbose is set), but rendered through a
// terminal-aware, colorized writer the way the rest of the tinygo
// toolchain's output does.
type traceWriter struct {
	out   io.Writer
	color bool
}

func newTraceWriter() *traceWriter {
	out := colorable.NewColorableStdout()
	color := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return &traceWriter{out: out, color: color}
}

func (w *traceWriter) tracef(format string, args ...interface{}) {
	if w == nil {
		return
	}
	if w.color {
		fmt.Fprintf(w.out, "\x1b[36mgc:\x1b[0m "+format+"\n", args...)
		return
	}
	fmt.Fprintf(w.out, "gc: "+format+"\n", args...)
}
