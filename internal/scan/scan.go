// Package scan discovers git working copies below a set of search roots.
//
// A directory holding a .git marker is reported once and, by default, not
// descended into: a working copy's internals (its object store, vendored
// checkouts, submodules) never show up as separate matches. Set
// [Scanner.Nested] to also report working copies nested inside others.
//
// Scanning is lazy. [Scanner.Scan] returns an iterator; each repository's
// status is read when the walk reaches it, so a consumer can start working
// on the first repository before the tree is fully walked.
package scan

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/raphi011/gitscan/internal/git"
	"github.com/raphi011/gitscan/internal/log"
	"github.com/raphi011/gitscan/internal/status"
)

// Repo is one discovered working copy. It is a snapshot: the status is
// read once during the scan and never refreshed.
type Repo struct {
	Path   string
	Status status.Status
	Facts  status.Facts
	// Err is set when the status could not be read. Such repositories are
	// classified novel.
	Err error
}

// Scanner walks search roots for working copies.
type Scanner struct {
	Status         git.StatusReader
	Nested         bool
	FollowSymlinks bool
	// Skip holds filepath.Match patterns for directory names never entered.
	Skip []string
	// RootSkip returns extra skip patterns for one root. Optional.
	RootSkip func(root string) []string
}

// walk is the state of one Scan call.
type walk struct {
	ctx     context.Context
	log     *log.Logger
	skip    []string
	visited map[string]bool // real paths of entered directories
}

// Scan returns the working copies below roots, root by root in the given
// order, each root's tree in sorted name order. Unreadable directories are
// logged and skipped. The sequence ends early when ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context, roots []string) iter.Seq[Repo] {
	return func(yield func(Repo) bool) {
		w := &walk{
			ctx:     ctx,
			log:     log.FromContext(ctx),
			visited: make(map[string]bool),
		}
		for _, root := range roots {
			real, err := filepath.EvalSymlinks(root)
			if err != nil {
				w.log.Warnf("skipping %s: %v", root, err)
				continue
			}
			w.skip = s.Skip
			if s.RootSkip != nil {
				w.skip = append(append([]string(nil), s.Skip...), s.RootSkip(root)...)
			}
			w.log.Debug("scan root", "root", root, "nested", s.Nested, "follow_symlinks", s.FollowSymlinks)
			if !s.walkDir(w, root, real, yield) {
				return
			}
		}
	}
}

// walkDir visits dir, whose symlink-free location is real. It returns false
// when the walk must stop.
func (s *Scanner) walkDir(w *walk, dir, real string, yield func(Repo) bool) bool {
	if w.ctx.Err() != nil {
		return false
	}
	if w.visited[real] {
		return true
	}
	w.visited[real] = true

	if git.IsRepo(dir) {
		if !yield(s.inspect(w, dir)) {
			return false
		}
		if !s.Nested {
			return true
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.log.Warnf("skipping %s: %v", dir, err)
		return true
	}

	for _, entry := range entries {
		name := entry.Name()
		if name == git.MarkerName || s.skipped(w, name) {
			continue
		}
		child := filepath.Join(dir, name)
		childReal := filepath.Join(real, name)

		switch {
		case entry.IsDir():
		case entry.Type()&fs.ModeSymlink != 0:
			if !s.FollowSymlinks {
				continue
			}
			target, err := filepath.EvalSymlinks(child)
			if err != nil {
				w.log.Warnf("skipping %s: %v", child, err)
				continue
			}
			info, err := os.Stat(target)
			if err != nil || !info.IsDir() {
				continue
			}
			childReal = target
		default:
			continue
		}

		if !s.walkDir(w, child, childReal, yield) {
			return false
		}
	}
	return true
}

// inspect reads the status of the working copy at dir.
func (s *Scanner) inspect(w *walk, dir string) Repo {
	facts, err := s.Status.ReadStatus(w.ctx, dir)
	if err != nil {
		if w.ctx.Err() == nil {
			w.log.Warnf("cannot read status of %s: %v", dir, err)
		}
		return Repo{Path: dir, Status: status.Novel, Err: err}
	}
	return Repo{Path: dir, Status: status.Classify(facts), Facts: facts}
}

func (s *Scanner) skipped(w *walk, name string) bool {
	for _, pattern := range w.skip {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
