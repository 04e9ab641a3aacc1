// Package status classifies git working copies as novel or boring.
//
// Classification is pure: callers gather [Facts] through the git package
// and hand them to [Classify]. Nothing here spawns processes.
package status

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Status is the classification of one working copy.
type Status string

const (
	// Novel repositories have state worth a human's attention.
	Novel Status = "novel"
	// Boring repositories are clean and in sync with their upstream.
	Boring Status = "boring"
)

// Filter selects repositories by status.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterNovel  Filter = Filter(Novel)
	FilterBoring Filter = Filter(Boring)
)

// ValidFilters lists accepted --status values in help order.
var ValidFilters = []string{string(FilterAll), string(FilterNovel), string(FilterBoring)}

// Facts are the raw repository state facts a status is computed from.
type Facts struct {
	Branch      string // empty when detached
	Detached    bool
	Upstream    string // e.g. "origin/main", empty when none
	HasUpstream bool
	Ahead       int
	Behind      int
	Staged      int
	Unstaged    int
	Untracked   int
	Stashes     int
}

// Dirty reports whether the working tree or index has any changes,
// including untracked files.
func (f Facts) Dirty() bool {
	return f.Staged > 0 || f.Unstaged > 0 || f.Untracked > 0
}

// Classify maps facts to a status. Anything other than a clean tree that
// is fully in sync with a configured upstream is novel.
func Classify(f Facts) Status {
	switch {
	case f.Dirty():
		return Novel
	case f.Detached || !f.HasUpstream:
		return Novel
	case f.Ahead > 0 || f.Behind > 0:
		return Novel
	case f.Stashes > 0:
		return Novel
	}
	return Boring
}

// Codes renders facts as compact flag letters, in a fixed order:
//
//	S staged, M modified, N new (untracked), P unpushed, B behind,
//	U no upstream, H stash
//
// A boring repository has no codes.
func (f Facts) Codes() string {
	var b strings.Builder
	if f.Staged > 0 {
		b.WriteByte('S')
	}
	if f.Unstaged > 0 {
		b.WriteByte('M')
	}
	if f.Untracked > 0 {
		b.WriteByte('N')
	}
	if f.Ahead > 0 {
		b.WriteByte('P')
	}
	if f.Behind > 0 {
		b.WriteByte('B')
	}
	if f.Detached || !f.HasUpstream {
		b.WriteByte('U')
	}
	if f.Stashes > 0 {
		b.WriteByte('H')
	}
	return b.String()
}

// ParseFilter validates a --status value.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case FilterAll, FilterNovel, FilterBoring:
		return Filter(s), nil
	}
	msg := fmt.Sprintf("invalid status filter %q: must be %q, %q, or %q", s, FilterAll, FilterNovel, FilterBoring)
	if s != "" {
		if matches := fuzzy.Find(s, ValidFilters); len(matches) > 0 {
			msg += fmt.Sprintf(" (did you mean %q?)", matches[0].Str)
		}
	}
	return "", fmt.Errorf("%s", msg)
}

// Matches reports whether a repository with status s passes the filter.
func (f Filter) Matches(s Status) bool {
	if f == FilterAll {
		return true
	}
	return Status(f) == s
}

// Matches reports whether tag passes filter. filter must be a valid filter
// value; use [ParseFilter] to validate user input first.
func Matches(tag Status, filter Filter) bool {
	return filter.Matches(tag)
}
