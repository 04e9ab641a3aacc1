// Package git reads repository state for gitscan.
//
// It is the only package that knows how to talk to git. Two backends
// implement [StatusReader]:
//
//   - [CLI] shells out to the git binary (git status --porcelain=v2 --branch,
//     git stash list). This is the default and honours the user's git
//     configuration exactly.
//   - [GoGit] reads the repository in-process with go-git. It needs no git
//     binary but computes ahead/behind by walking history, which is slower on
//     large repositories.
//
// Both return [status.Facts]; classification happens in the status package.
//
// [IsRepo] decides what counts as a working copy: a directory with a .git
// directory (regular clone) or a .git file (linked worktree, submodule),
// either of which may be reached through a symlink.
package git
