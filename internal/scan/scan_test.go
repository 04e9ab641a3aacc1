package scan

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/raphi011/gitscan/internal/git"
	"github.com/raphi011/gitscan/internal/log"
	"github.com/raphi011/gitscan/internal/status"
	"github.com/raphi011/gitscan/internal/testutil"
)

// fakeReader returns canned facts per path; unknown paths are clean and in sync.
type fakeReader struct {
	mu    sync.Mutex
	facts map[string]status.Facts
	errs  map[string]error
	calls []string
}

func (f *fakeReader) ReadStatus(_ context.Context, path string) (status.Facts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, path)
	if err := f.errs[path]; err != nil {
		return status.Facts{}, err
	}
	if facts, ok := f.facts[path]; ok {
		return facts, nil
	}
	return status.Facts{Branch: "main", Upstream: "origin/main", HasUpstream: true}, nil
}

// mkRepo creates dir/.git (a bare marker directory, enough for discovery).
func mkRepo(t *testing.T, dir string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, ".git", "objects"), 0755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func mkDir(t *testing.T, dir string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func paths(repos []Repo) []string {
	out := make([]string, len(repos))
	for i, r := range repos {
		out[i] = r.Path
	}
	return out
}

func scanAll(t *testing.T, s *Scanner, roots ...string) ([]Repo, string) {
	t.Helper()
	var buf bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&buf, log.LevelNormal, false))
	return slices.Collect(s.Scan(ctx, roots)), buf.String()
}

func assertPaths(t *testing.T, got []Repo, want ...string) {
	t.Helper()
	if !slices.Equal(paths(got), want) {
		t.Errorf("scanned repos =\n  %v\nwant\n  %v", paths(got), want)
	}
}

func TestScan_FindsIndependentWorkingCopies(t *testing.T) {
	t.Parallel()
	root := testutil.TempDir(t)

	a := mkRepo(t, filepath.Join(root, "a"))
	mkRepo(t, filepath.Join(a, "vendor", "inner")) // inside a: not reported
	b := mkRepo(t, filepath.Join(root, "group", "b"))
	c := mkRepo(t, filepath.Join(root, "group", "c"))
	mkDir(t, filepath.Join(root, "empty", "deeper"))
	if err := os.WriteFile(filepath.Join(root, "file.txt"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	got, warnings := scanAll(t, &Scanner{Status: &fakeReader{}}, root)
	assertPaths(t, got, a, b, c)
	if warnings != "" {
		t.Errorf("unexpected warnings: %q", warnings)
	}
}

func TestScan_RootIsRepo(t *testing.T) {
	t.Parallel()
	root := mkRepo(t, testutil.TempDir(t))
	mkRepo(t, filepath.Join(root, "sub"))

	got, _ := scanAll(t, &Scanner{Status: &fakeReader{}}, root)
	assertPaths(t, got, root)
}

func TestScan_GitFileMarker(t *testing.T) {
	t.Parallel()
	root := testutil.TempDir(t)
	wt := mkDir(t, filepath.Join(root, "worktree"))
	if err := os.WriteFile(filepath.Join(wt, ".git"), []byte("gitdir: /elsewhere\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, _ := scanAll(t, &Scanner{Status: &fakeReader{}}, root)
	assertPaths(t, got, wt)
}

func TestScan_GitSymlinkMarker(t *testing.T) {
	t.Parallel()
	root := testutil.TempDir(t)
	store := mkDir(t, filepath.Join(root, "store", "repo.git"))
	work := mkDir(t, filepath.Join(root, "work"))
	if err := os.Symlink(store, filepath.Join(work, ".git")); err != nil {
		t.Fatal(err)
	}
	mkRepo(t, filepath.Join(work, "vendor", "inner")) // inside work: not reported

	got, _ := scanAll(t, &Scanner{Status: &fakeReader{}}, filepath.Join(root, "work"))
	assertPaths(t, got, work)
}

func TestScan_Nested(t *testing.T) {
	t.Parallel()
	root := testutil.TempDir(t)
	outer := mkRepo(t, filepath.Join(root, "outer"))
	sub := mkRepo(t, filepath.Join(outer, "modules", "sub"))

	got, _ := scanAll(t, &Scanner{Status: &fakeReader{}, Nested: true}, root)
	assertPaths(t, got, outer, sub)
}

func TestScan_NeverEntersGitDir(t *testing.T) {
	t.Parallel()
	root := testutil.TempDir(t)
	outer := mkRepo(t, filepath.Join(root, "outer"))
	// A repository-looking directory inside .git must not be reported, even nested.
	mkRepo(t, filepath.Join(outer, ".git", "modules", "sub"))

	got, _ := scanAll(t, &Scanner{Status: &fakeReader{}, Nested: true}, root)
	assertPaths(t, got, outer)
}

func TestScan_MultipleRootsInOrder(t *testing.T) {
	t.Parallel()
	base := testutil.TempDir(t)
	rootA := mkDir(t, filepath.Join(base, "A"))
	rootB := mkDir(t, filepath.Join(base, "B"))
	ra := mkRepo(t, filepath.Join(rootA, "zeta"))
	rb := mkRepo(t, filepath.Join(rootB, "alpha"))

	got, _ := scanAll(t, &Scanner{Status: &fakeReader{}}, rootB, rootA)
	assertPaths(t, got, rb, ra)
}

func TestScan_OverlappingRootsReportOnce(t *testing.T) {
	t.Parallel()
	base := testutil.TempDir(t)
	inner := mkDir(t, filepath.Join(base, "inner"))
	r1 := mkRepo(t, filepath.Join(inner, "r1"))
	r2 := mkRepo(t, filepath.Join(base, "r2"))

	got, _ := scanAll(t, &Scanner{Status: &fakeReader{}}, base, inner)
	assertPaths(t, got, r1, r2)
}

func TestScan_Symlinks(t *testing.T) {
	t.Parallel()
	base := testutil.TempDir(t)
	root := mkDir(t, filepath.Join(base, "root"))
	elsewhere := mkDir(t, filepath.Join(base, "elsewhere"))
	mkRepo(t, filepath.Join(elsewhere, "linked"))
	real := mkRepo(t, filepath.Join(root, "real"))

	// root/link -> elsewhere, root/loop -> root (cycle), root/real-again -> root/real
	for name, target := range map[string]string{"link": elsewhere, "loop": root, "real-again": real} {
		if err := os.Symlink(target, filepath.Join(root, name)); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("not followed by default", func(t *testing.T) {
		t.Parallel()
		got, _ := scanAll(t, &Scanner{Status: &fakeReader{}}, root)
		assertPaths(t, got, real)
	})

	t.Run("followed without cycles or duplicates", func(t *testing.T) {
		t.Parallel()
		got, _ := scanAll(t, &Scanner{Status: &fakeReader{}, FollowSymlinks: true}, root)
		assertPaths(t, got, filepath.Join(root, "link", "linked"), real)
	})
}

func TestScan_CyclicSymlinksTerminate(t *testing.T) {
	t.Parallel()
	root := testutil.TempDir(t)
	a := mkDir(t, filepath.Join(root, "a"))
	b := mkDir(t, filepath.Join(root, "b"))
	if err := os.Symlink(b, filepath.Join(a, "to-b")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(a, filepath.Join(b, "to-a")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangling")); err != nil {
		t.Fatal(err)
	}
	mkRepo(t, filepath.Join(b, "repo"))

	got, warnings := scanAll(t, &Scanner{Status: &fakeReader{}, FollowSymlinks: true}, root)
	assertPaths(t, got, filepath.Join(a, "to-b", "repo"))
	if !strings.Contains(warnings, "dangling") {
		t.Errorf("warnings = %q, want a warning for the dangling link", warnings)
	}
}

func TestScan_SkipPatterns(t *testing.T) {
	t.Parallel()
	root := testutil.TempDir(t)
	keep := mkRepo(t, filepath.Join(root, "src", "keep"))
	mkRepo(t, filepath.Join(root, "node_modules", "pkg"))
	mkRepo(t, filepath.Join(root, "src", "tmp-1"))
	mkRepo(t, filepath.Join(root, "archive", "old"))

	s := &Scanner{
		Status: &fakeReader{},
		Skip:   []string{"node_modules", "tmp-*"},
		RootSkip: func(r string) []string {
			if r == root {
				return []string{"archive"}
			}
			return nil
		},
	}
	got, _ := scanAll(t, s, root)
	assertPaths(t, got, keep)
}

func TestScan_UnreadableDirectoryIsSkipped(t *testing.T) {
	t.Parallel()
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	root := testutil.TempDir(t)
	locked := mkDir(t, filepath.Join(root, "a-locked"))
	mkRepo(t, filepath.Join(locked, "hidden"))
	visible := mkRepo(t, filepath.Join(root, "b-visible"))
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	got, warnings := scanAll(t, &Scanner{Status: &fakeReader{}}, root)
	assertPaths(t, got, visible)
	if !strings.Contains(warnings, "Warning: skipping "+locked) {
		t.Errorf("warnings = %q, want skip warning for %s", warnings, locked)
	}
}

func TestScan_Classification(t *testing.T) {
	t.Parallel()
	root := testutil.TempDir(t)
	clean := mkRepo(t, filepath.Join(root, "clean"))
	dirty := mkRepo(t, filepath.Join(root, "dirty"))
	broken := mkRepo(t, filepath.Join(root, "broken"))

	reader := &fakeReader{
		facts: map[string]status.Facts{dirty: {Branch: "main", HasUpstream: true, Untracked: 1}},
		errs:  map[string]error{broken: errors.New("bad object")},
	}
	got, warnings := scanAll(t, &Scanner{Status: reader}, root)
	assertPaths(t, got, broken, clean, dirty)

	want := map[string]status.Status{broken: status.Novel, clean: status.Boring, dirty: status.Novel}
	for _, r := range got {
		if r.Status != want[r.Path] {
			t.Errorf("%s status = %q, want %q", r.Path, r.Status, want[r.Path])
		}
	}
	if got[0].Err == nil {
		t.Error("broken repo should carry its status error")
	}
	if !strings.Contains(warnings, "cannot read status of "+broken) {
		t.Errorf("warnings = %q, want status warning", warnings)
	}
}

func TestScan_IsLazy(t *testing.T) {
	t.Parallel()
	root := testutil.TempDir(t)
	first := mkRepo(t, filepath.Join(root, "a"))
	mkRepo(t, filepath.Join(root, "b"))
	mkRepo(t, filepath.Join(root, "c"))

	reader := &fakeReader{}
	s := &Scanner{Status: reader}
	for r := range s.Scan(context.Background(), []string{root}) {
		if r.Path != first {
			t.Fatalf("first repo = %s, want %s", r.Path, first)
		}
		break
	}
	if len(reader.calls) != 1 {
		t.Errorf("status read %d times after stopping at first repo, want 1", len(reader.calls))
	}
}

func TestScan_StopsOnCancel(t *testing.T) {
	t.Parallel()
	root := testutil.TempDir(t)
	mkRepo(t, filepath.Join(root, "a"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := slices.Collect((&Scanner{Status: &fakeReader{}}).Scan(ctx, []string{root}))
	if len(got) != 0 {
		t.Errorf("cancelled scan returned %v", paths(got))
	}
}

func TestScan_RealRepositories(t *testing.T) {
	t.Parallel()
	root := testutil.TempDir(t)
	clean := testutil.InitCleanRepo(t, filepath.Join(root, "repo1"))
	dirty := testutil.InitCleanRepo(t, filepath.Join(root, "repo2"))
	dirty.WriteFile(t, "untracked.txt", "x\n")

	got, _ := scanAll(t, &Scanner{Status: git.GoGit{}}, root)
	assertPaths(t, got, clean.Path, dirty.Path)
	if got[0].Status != status.Boring || got[1].Status != status.Novel {
		t.Errorf("statuses = %q, %q, want boring, novel", got[0].Status, got[1].Status)
	}
}
