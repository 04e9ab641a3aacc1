package git

import (
	"errors"
	"testing"
)

func TestCheckGit_MissingFromPath(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if err := CheckGit(); !errors.Is(err, ErrGitNotFound) {
		t.Fatalf("CheckGit() with empty PATH = %v, want ErrGitNotFound", err)
	}
}

// requireGit skips tests that need the git binary.
func requireGit(t *testing.T) {
	t.Helper()
	if err := CheckGit(); err != nil {
		t.Skip(err)
	}
}
