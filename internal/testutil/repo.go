// Package testutil builds git working copies for tests with go-git, so tests
// do not depend on a git binary or the user's git configuration.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// DefaultBranch is the branch every fixture repository starts on.
const DefaultBranch = "main"

// TB is the part of testing.TB the fixture builders use. Test scripts
// satisfy it too.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// Repo is a fixture working copy.
type Repo struct {
	Path string
	Git  *gogit.Repository
}

// TempDir returns t.TempDir with symlinks resolved.
// This is needed on macOS where /var is a symlink to /private/var.
func TempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}
	return dir
}

// InitRepo creates a repository at path with one commit on main and no upstream.
func InitRepo(t TB, path string) *Repo {
	t.Helper()

	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("failed to create repo dir: %v", err)
	}
	r, err := gogit.PlainInitWithOptions(path, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(DefaultBranch)},
	})
	if err != nil {
		t.Fatalf("failed to init repo %s: %v", path, err)
	}

	repo := &Repo{Path: path, Git: r}
	repo.Commit(t, "README.md", "# "+filepath.Base(path)+"\n")
	return repo
}

// InitCleanRepo creates a repository that is clean and in sync with origin/main.
func InitCleanRepo(t TB, path string) *Repo {
	t.Helper()
	repo := InitRepo(t, path)
	repo.TrackUpstream(t)
	return repo
}

// OpenRepo opens an existing fixture repository.
func OpenRepo(t TB, path string) *Repo {
	t.Helper()
	r, err := gogit.PlainOpen(path)
	if err != nil {
		t.Fatalf("failed to open repo %s: %v", path, err)
	}
	return &Repo{Path: path, Git: r}
}

// WriteFile writes name relative to the working copy without staging it.
func (r *Repo) WriteFile(t TB, name, content string) {
	t.Helper()
	full := filepath.Join(r.Path, name)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", name, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

// Stage writes and stages name without committing.
func (r *Repo) Stage(t TB, name, content string) {
	t.Helper()
	r.WriteFile(t, name, content)
	wt, err := r.Git.Worktree()
	if err != nil {
		t.Fatalf("failed to open worktree: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatalf("failed to add %s: %v", name, err)
	}
}

// Commit writes, stages and commits name. Returns the new commit hash.
func (r *Repo) Commit(t TB, name, content string) plumbing.Hash {
	t.Helper()
	r.Stage(t, name, content)
	wt, err := r.Git.Worktree()
	if err != nil {
		t.Fatalf("failed to open worktree: %v", err)
	}
	hash, err := wt.Commit("update "+name, &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@test.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("failed to commit %s: %v", name, err)
	}
	return hash
}

// TrackUpstream adds an origin remote, points origin/main at HEAD and sets
// main to track it, as if the branch had just been pushed.
func (r *Repo) TrackUpstream(t TB) {
	t.Helper()

	if _, err := r.Git.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://example.invalid/" + filepath.Base(r.Path) + ".git"},
	}); err != nil {
		t.Fatalf("failed to add origin: %v", err)
	}
	r.SetRemoteHead(t, r.Head(t))
	if err := r.Git.CreateBranch(&config.Branch{
		Name:   DefaultBranch,
		Remote: "origin",
		Merge:  plumbing.NewBranchReferenceName(DefaultBranch),
	}); err != nil {
		t.Fatalf("failed to set upstream: %v", err)
	}
}

// SetRemoteHead moves origin/main to hash.
func (r *Repo) SetRemoteHead(t TB, hash plumbing.Hash) {
	t.Helper()
	ref := plumbing.NewHashReference(plumbing.NewRemoteReferenceName("origin", DefaultBranch), hash)
	if err := r.Git.Storer.SetReference(ref); err != nil {
		t.Fatalf("failed to set origin/%s: %v", DefaultBranch, err)
	}
}

// Head returns the current HEAD commit.
func (r *Repo) Head(t TB) plumbing.Hash {
	t.Helper()
	head, err := r.Git.Head()
	if err != nil {
		t.Fatalf("failed to resolve HEAD: %v", err)
	}
	return head.Hash()
}

// ResetHard moves the current branch and working tree to hash.
func (r *Repo) ResetHard(t TB, hash plumbing.Hash) {
	t.Helper()
	wt, err := r.Git.Worktree()
	if err != nil {
		t.Fatalf("failed to open worktree: %v", err)
	}
	if err := wt.Reset(&gogit.ResetOptions{Commit: hash, Mode: gogit.HardReset}); err != nil {
		t.Fatalf("failed to reset to %s: %v", hash, err)
	}
}
