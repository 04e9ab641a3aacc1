package foreach

import (
	"bytes"
	"context"
	"io"
	"iter"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/gitscan/internal/fsutil"
	"github.com/raphi011/gitscan/internal/log"
	"github.com/raphi011/gitscan/internal/scan"
	"github.com/raphi011/gitscan/internal/status"
)

// Runner executes a command in every repository that passes the filter.
type Runner struct {
	Executor *Executor
	Filter   status.Filter
	// Roots are the search roots the repositories were scanned from, in
	// command line order. Each repository's root is the first one containing it.
	Roots []string
	// Jobs is the maximum number of commands in flight. 0 or 1 runs them
	// one at a time with output streamed directly to the sinks.
	Jobs   int
	Stdout io.Writer
	Stderr io.Writer
}

// Run consumes repos and runs the command in each match. It stops
// launching new commands once ctx is cancelled.
func (r *Runner) Run(ctx context.Context, repos iter.Seq[scan.Repo]) Result {
	matches := func(yield func(scan.Repo, string) bool) {
		for repo := range repos {
			if ctx.Err() != nil {
				return
			}
			if !r.Filter.Matches(repo.Status) {
				log.FromContext(ctx).Debug("skip", "path", repo.Path, "status", repo.Status, "filter", r.Filter)
				continue
			}
			if !yield(repo, r.rootOf(repo.Path)) {
				return
			}
		}
	}

	if r.Jobs <= 1 {
		return Aggregate(r.runSequential(ctx, matches))
	}
	return Aggregate(r.runParallel(ctx, matches))
}

func (r *Runner) rootOf(path string) string {
	if root := fsutil.FirstParent(path, r.Roots); root != "" {
		return root
	}
	return path
}

func (r *Runner) runSequential(ctx context.Context, matches iter.Seq2[scan.Repo, string]) []Outcome {
	var outcomes []Outcome
	for repo, root := range matches {
		outcomes = append(outcomes, r.Executor.Run(ctx, repo, root, r.Stdout, r.Stderr))
	}
	return outcomes
}

// job is one parallel invocation with its buffered output.
type job struct {
	done    chan struct{}
	stdout  bytes.Buffer
	stderr  bytes.Buffer
	outcome Outcome
}

// runParallel runs up to Jobs commands at once. A single flusher writes each
// job's buffered output to the sinks in discovery order, so the output of
// different repositories never interleaves.
func (r *Runner) runParallel(ctx context.Context, matches iter.Seq2[scan.Repo, string]) []Outcome {
	// Children must not compete for the terminal.
	ex := *r.Executor
	ex.Stdin = nil

	order := make(chan *job, r.Jobs)
	var outcomes []Outcome
	flushed := make(chan struct{})
	go func() {
		defer close(flushed)
		for j := range order {
			<-j.done
			_, _ = r.Stdout.Write(j.stdout.Bytes())
			_, _ = r.Stderr.Write(j.stderr.Bytes())
			outcomes = append(outcomes, j.outcome)
		}
	}()

	var g errgroup.Group
	g.SetLimit(r.Jobs)
	for repo, root := range matches {
		j := &job{done: make(chan struct{})}
		order <- j
		g.Go(func() error {
			defer close(j.done)
			j.outcome = ex.Run(ctx, repo, root, &j.stdout, &j.stderr)
			return nil // failures are carried by the outcome
		})
	}
	_ = g.Wait()
	close(order)
	<-flushed
	return outcomes
}
