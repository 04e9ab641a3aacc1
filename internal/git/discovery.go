package git

import (
	"os"
	"path/filepath"
)

// MarkerName is the git metadata entry that marks a working copy root.
const MarkerName = ".git"

// IsRepo checks if path is the root of a git working copy (has .git dir or
// file). A .git symlink counts when its target is one of those.
func IsRepo(path string) bool {
	info, err := os.Stat(filepath.Join(path, MarkerName))
	if err != nil {
		return false
	}
	// .git can be a directory (regular repo) or file (worktree, submodule)
	return info.IsDir() || info.Mode().IsRegular()
}
