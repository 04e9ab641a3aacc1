// Package fsutil resolves search roots and renders paths relative to them.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveRoots absolutizes paths against workDir and checks each one is an
// existing directory. An empty list resolves to workDir itself.
// Duplicates are dropped, keeping the first occurrence.
func ResolveRoots(workDir string, paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{workDir}
	}

	seen := make(map[string]bool, len(paths))
	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("path does not exist: %s", p)
			}
			return nil, fmt.Errorf("cannot access %s: %w", p, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("not a directory: %s", p)
		}

		if !seen[abs] {
			seen[abs] = true
			roots = append(roots, abs)
		}
	}
	return roots, nil
}

// FirstParent returns the first root in roots that is path itself or one of
// its ancestors. Returns "" if none is.
func FirstParent(path string, roots []string) string {
	for _, root := range roots {
		if IsWithin(path, root) {
			return root
		}
	}
	return ""
}

// IsWithin reports whether path equals root or lies below it.
// Both must be clean absolute paths.
func IsWithin(path, root string) bool {
	if path == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

// RelativeDir renders dir relative to root as a slash-terminated path:
// "repo/", "group/repo/", or "./" when dir is root.
func RelativeDir(dir, root string) (string, error) {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return "", fmt.Errorf("relative path of %s: %w", dir, err)
	}
	if rel == "." {
		return "./", nil
	}
	return filepath.ToSlash(rel) + "/", nil
}
