// Package output provides context-aware output for gitscan.
// Stdout is used for primary data output (tables, forwarded command output).
// Stderr (via log package) is used for diagnostics.
package output

import (
	"context"
	"fmt"
	"io"
	"os"
)

type ctxKey struct{}

// Printer writes primary output to stdout and exposes the paired error
// stream that forwarded child stderr is written to.
type Printer struct {
	w   io.Writer
	err io.Writer
}

// New creates a new Printer writing to w, with errW as the error stream.
func New(w, errW io.Writer) *Printer {
	return &Printer{w: w, err: errW}
}

// WithPrinter attaches a Printer to the context.
func WithPrinter(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext retrieves the Printer from context.
// Returns a Printer on os.Stdout/os.Stderr if none is attached.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return &Printer{w: os.Stdout, err: os.Stderr}
}

// Print writes output without a newline.
func (p *Printer) Print(a ...any) {
	fmt.Fprint(p.w, a...)
}

// Printf writes formatted output.
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

// Println writes a line of output.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// Writer returns the stdout writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// ErrWriter returns the stderr writer.
func (p *Printer) ErrWriter() io.Writer {
	return p.err
}
