package foreach

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"

	"github.com/raphi011/gitscan/internal/fsutil"
	"github.com/raphi011/gitscan/internal/log"
	"github.com/raphi011/gitscan/internal/scan"
	"github.com/raphi011/gitscan/internal/ui/styles"
)

// Exit codes reported for commands that did not exit on their own.
const (
	ExitTimeout     = 124 // killed by Executor.Timeout
	ExitInterrupted = 130 // killed because the run was cancelled
	ExitLaunch      = 127 // the shell could not be started
)

// waitDelay bounds how long a killed command's leftover children may keep
// its output pipes open.
var waitDelay = 2 * time.Second

// Outcome is the result of one command invocation.
type Outcome struct {
	Repo     scan.Repo
	Root     string
	RelPath  string
	ExitCode int
	// Err is set when the command did not run to completion: it could not
	// be launched, timed out, or was interrupted.
	Err      error
	Duration time.Duration
}

// Failed reports whether the invocation counts as a failure.
func (o Outcome) Failed() bool {
	return o.ExitCode != 0
}

// Executor runs one shell command line per repository.
type Executor struct {
	Command string
	Shell   string // defaults to "sh"
	// Env is the environment the child starts from. Nil means os.Environ().
	Env []string
	// Stdin is passed to the child. Nil gives the child an empty stdin.
	Stdin   io.Reader
	Timeout time.Duration // zero means no limit
	// Verbose adds a banner before each invocation and a stream tag before
	// each forwarded chunk.
	Verbose bool
	// StdoutProfile and StderrProfile decide how banners, tags, and failure
	// lines are styled for each sink. The zero value writes plain text.
	StdoutProfile colorprofile.Profile
	StderrProfile colorprofile.Profile
}

// Run executes the command in repo.Path and forwards its output to stdout
// and stderr as it arrives. A failing command is reported on stderr with
// the repository path; Run itself never aborts, the outcome carries the
// exit code.
func (e *Executor) Run(ctx context.Context, repo scan.Repo, root string, stdout, stderr io.Writer) Outcome {
	start := time.Now()
	out := Outcome{Repo: repo, Root: root}

	rel, err := fsutil.RelativeDir(repo.Path, root)
	if err != nil {
		return e.report(stderr, out, ExitLaunch, err, start)
	}
	out.RelPath = rel

	if e.Verbose {
		fmt.Fprintln(stdout, styles.Render(e.StdoutProfile, styles.BannerStyle, "[[ "+repo.Path+" ]]"))
	}

	if err := ctx.Err(); err != nil {
		return e.report(stderr, out, ExitInterrupted, err, start)
	}

	runCtx := ctx
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	shell := e.Shell
	if shell == "" {
		shell = "sh"
	}
	env := e.Env
	if env == nil {
		env = os.Environ()
	}

	c := exec.CommandContext(runCtx, shell, "-c", e.Command)
	c.Dir = repo.Path
	c.Env = childEnv(env, rel, root)
	c.Stdin = e.Stdin
	c.WaitDelay = waitDelay

	var mu sync.Mutex
	c.Stdout = &tagWriter{mu: &mu, w: stdout, tag: e.tag(e.StdoutProfile, styles.StdoutTagStyle, "STDOUT")}
	c.Stderr = &tagWriter{mu: &mu, w: stderr, tag: e.tag(e.StderrProfile, styles.StderrTagStyle, "STDERR")}

	done := log.FromContext(ctx).Command(repo.Path, shell, "-c", e.Command)
	err = c.Run()
	done(time.Since(start))

	switch {
	case err == nil:
		out.Duration = time.Since(start)
		return out
	case ctx.Err() != nil:
		return e.report(stderr, out, ExitInterrupted, errors.New("interrupted"), start)
	case runCtx.Err() != nil:
		return e.report(stderr, out, ExitTimeout, fmt.Errorf("timed out after %s", e.Timeout), start)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitCode(exitErr)
		out.Duration = time.Since(start)
		e.failure(stderr, fmt.Sprintf("[[ %s: exit code = %d ]]", repo.Path, out.ExitCode))
		return out
	}
	return e.report(stderr, out, ExitLaunch, err, start)
}

// report records a command that did not run to completion.
func (e *Executor) report(stderr io.Writer, out Outcome, code int, err error, start time.Time) Outcome {
	out.ExitCode = code
	out.Err = err
	out.Duration = time.Since(start)
	e.failure(stderr, fmt.Sprintf("[[ %s: %v (exit code = %d) ]]", out.Repo.Path, err, code))
	return out
}

func (e *Executor) failure(stderr io.Writer, line string) {
	fmt.Fprintln(stderr, styles.Render(e.StderrProfile, styles.FailureStyle, line))
}

// tag returns the stream tag written before each chunk, or nil when not verbose.
func (e *Executor) tag(profile colorprofile.Profile, style lipgloss.Style, label string) []byte {
	if !e.Verbose {
		return nil
	}
	return []byte(styles.Render(profile, style, label) + " ")
}

// exitCode maps a finished process to a shell-style exit code: the real
// code, or 128+N when it was killed by signal N.
func exitCode(err *exec.ExitError) int {
	if ws, ok := err.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return err.ExitCode()
}
