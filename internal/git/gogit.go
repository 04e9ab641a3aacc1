package git

import (
	"context"
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/raphi011/gitscan/internal/log"
	"github.com/raphi011/gitscan/internal/status"
)

const stashRef = plumbing.ReferenceName("refs/stash")

// GoGit reads status in-process with go-git.
//
// go-git keeps only the newest stash entry reachable through refs/stash,
// so Stashes is at most 1.
type GoGit struct{}

// ReadStatus opens the repository at path and collects its facts.
func (GoGit) ReadStatus(ctx context.Context, path string) (status.Facts, error) {
	log.FromContext(ctx).Debug("go-git status", "path", path)

	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return status.Facts{}, fmt.Errorf("open repository: %w", err)
	}

	var f status.Facts

	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return status.Facts{}, fmt.Errorf("read HEAD: %w", err)
	}
	if head.Type() == plumbing.SymbolicReference {
		f.Branch = head.Target().Short()
	} else {
		f.Detached = true
	}

	// Unborn branches (no commits yet) have no HEAD commit to compare.
	var local plumbing.Hash
	if resolved, err := repo.Head(); err == nil {
		local = resolved.Hash()
	} else if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return status.Facts{}, fmt.Errorf("resolve HEAD: %w", err)
	}

	if !f.Detached {
		if err := readUpstream(ctx, repo, local, &f); err != nil {
			return status.Facts{}, err
		}
	}

	wt, err := repo.Worktree()
	if err != nil {
		return status.Facts{}, fmt.Errorf("open worktree: %w", err)
	}
	st, err := wt.Status()
	if err != nil {
		return status.Facts{}, fmt.Errorf("worktree status: %w", err)
	}
	for _, fs := range st {
		if fs.Worktree == gogit.Untracked {
			f.Untracked++
			continue
		}
		if fs.Staging != gogit.Unmodified {
			f.Staged++
		}
		if fs.Worktree != gogit.Unmodified {
			f.Unstaged++
		}
	}

	if _, err := repo.Reference(stashRef, true); err == nil {
		f.Stashes = 1
	}

	return f, nil
}

// readUpstream fills the upstream and ahead/behind facts for the current
// branch. A configured upstream whose ref does not resolve counts as none.
func readUpstream(ctx context.Context, repo *gogit.Repository, local plumbing.Hash, f *status.Facts) error {
	cfg, err := repo.Config()
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	branch, ok := cfg.Branches[f.Branch]
	if !ok || branch.Merge == "" || branch.Remote == "" {
		return nil
	}

	refName, name := upstreamRef(branch)
	ref, err := repo.Reference(refName, true)
	if err != nil {
		return nil
	}
	f.Upstream = name
	f.HasUpstream = true

	if local.IsZero() {
		return nil
	}
	f.Ahead, f.Behind, err = aheadBehind(ctx, repo, local, ref.Hash())
	return err
}

// upstreamRef maps a branch's merge config to the ref that tracks it.
// Remote "." means the upstream is another local branch.
func upstreamRef(b *config.Branch) (plumbing.ReferenceName, string) {
	short := b.Merge.Short()
	if b.Remote == "." {
		return b.Merge, short
	}
	return plumbing.NewRemoteReferenceName(b.Remote, short), b.Remote + "/" + short
}

// aheadBehind counts commits reachable from only one of local and upstream.
func aheadBehind(ctx context.Context, repo *gogit.Repository, local, upstream plumbing.Hash) (ahead, behind int, err error) {
	if local == upstream {
		return 0, 0, nil
	}
	mine, err := ancestors(ctx, repo, local)
	if err != nil {
		return 0, 0, err
	}
	theirs, err := ancestors(ctx, repo, upstream)
	if err != nil {
		return 0, 0, err
	}
	for h := range mine {
		if _, ok := theirs[h]; !ok {
			ahead++
		}
	}
	for h := range theirs {
		if _, ok := mine[h]; !ok {
			behind++
		}
	}
	return ahead, behind, nil
}

func ancestors(ctx context.Context, repo *gogit.Repository, from plumbing.Hash) (map[plumbing.Hash]struct{}, error) {
	iter, err := repo.Log(&gogit.LogOptions{From: from})
	if err != nil {
		return nil, fmt.Errorf("walk history from %s: %w", from, err)
	}
	defer iter.Close()

	seen := make(map[plumbing.Hash]struct{})
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen[c.Hash] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk history from %s: %w", from, err)
	}
	return seen, nil
}
