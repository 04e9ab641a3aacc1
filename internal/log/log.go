// Package log provides context-aware diagnostic logging for gitscan.
//
// Diagnostics (warnings, banners, debug lines) go to stderr through a
// [Logger] carried on the context. Primary data goes through the output
// package instead.
package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

type ctxKey struct{}

// Verbosity levels selected by repeating -v.
const (
	LevelNormal  = 0
	LevelVerbose = 1
	LevelDebug   = 2
)

// Logger writes diagnostics gated by verbosity and quiet mode.
type Logger struct {
	out       io.Writer
	verbosity int
	quiet     bool
}

// New creates a new logger. quiet suppresses everything regardless of verbosity.
func New(out io.Writer, verbosity int, quiet bool) *Logger {
	return &Logger{out: out, verbosity: verbosity, quiet: quiet}
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a no-op logger if none is attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return &Logger{out: io.Discard}
}

// Printf writes formatted output unless quiet.
func (l *Logger) Printf(format string, args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, format, args...)
}

// Println writes a line of output unless quiet.
func (l *Logger) Println(args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintln(l.out, args...)
}

// Warnf writes a "Warning: " prefixed line unless quiet.
func (l *Logger) Warnf(format string, args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, "Warning: "+strings.TrimSuffix(format, "\n")+"\n", args...)
}

// Debug writes msg followed by key=value pairs. Only prints at debug level.
// A trailing key without a value is dropped.
func (l *Logger) Debug(msg string, keyvals ...any) {
	if !l.IsDebug() {
		return
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keyvals[i], keyvals[i+1])
	}
	fmt.Fprintln(l.out, b.String())
}

// Command logs an external command execution at debug level.
// The returned func records how long the command took.
func (l *Logger) Command(dir, name string, args ...string) func(time.Duration) {
	if !l.IsDebug() {
		return func(time.Duration) {}
	}
	line := "$ " + strings.TrimSpace(name+" "+strings.Join(args, " "))
	if dir != "" {
		line = "[" + dir + "] " + line
	}
	return func(d time.Duration) {
		fmt.Fprintf(l.out, "%s (%s)\n", line, d.Round(time.Millisecond))
	}
}

// IsVerbose returns true if -v was given and quiet is off.
func (l *Logger) IsVerbose() bool {
	return !l.quiet && l.verbosity >= LevelVerbose
}

// IsDebug returns true if -vv was given and quiet is off.
func (l *Logger) IsDebug() bool {
	return !l.quiet && l.verbosity >= LevelDebug
}
