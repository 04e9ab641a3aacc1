package git

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/raphi011/gitscan/internal/status"
)

// Backend names accepted by NewStatusReader.
const (
	BackendCLI   = "cli"
	BackendGoGit = "go-git"
)

// ValidBackends lists the accepted git_backend values.
var ValidBackends = []string{BackendCLI, BackendGoGit}

// StatusReader fetches the state facts of one working copy.
type StatusReader interface {
	ReadStatus(ctx context.Context, path string) (status.Facts, error)
}

// NewStatusReader returns the reader for backend. Empty selects the CLI.
func NewStatusReader(backend string) (StatusReader, error) {
	switch backend {
	case "", BackendCLI:
		return CLI{}, nil
	case BackendGoGit:
		return GoGit{}, nil
	}
	return nil, fmt.Errorf("unknown git backend %q: must be %q or %q", backend, BackendCLI, BackendGoGit)
}

// CLI reads status by running the git binary.
type CLI struct{}

// ReadStatus runs git status and git stash list in path.
func (CLI) ReadStatus(ctx context.Context, path string) (status.Facts, error) {
	out, err := outputGit(ctx, path, "status", "--porcelain=v2", "--branch")
	if err != nil {
		return status.Facts{}, fmt.Errorf("git status: %w", err)
	}
	facts, err := ParsePorcelainV2(out)
	if err != nil {
		return status.Facts{}, err
	}

	stashes, err := outputGit(ctx, path, "stash", "list")
	if err != nil {
		return status.Facts{}, fmt.Errorf("git stash list: %w", err)
	}
	facts.Stashes = countLines(stashes)

	return facts, nil
}

// ParsePorcelainV2 parses the output of git status --porcelain=v2 --branch.
//
// An upstream only counts when git could compare against it: a configured
// upstream whose remote branch is gone has no branch.ab header and is
// reported as missing, so unpushed work on it stays visible.
func ParsePorcelainV2(out []byte) (status.Facts, error) {
	var f status.Facts
	var upstream string
	var haveAB bool

	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}

		if header, ok := strings.CutPrefix(line, "# "); ok {
			key, value, _ := strings.Cut(header, " ")
			switch key {
			case "branch.head":
				if value == "(detached)" {
					f.Detached = true
				} else {
					f.Branch = value
				}
			case "branch.upstream":
				upstream = value
			case "branch.ab":
				ahead, behind, err := parseAheadBehind(value)
				if err != nil {
					return status.Facts{}, err
				}
				f.Ahead, f.Behind = ahead, behind
				haveAB = true
			}
			continue
		}

		switch line[0] {
		case '1', '2':
			if len(line) < 4 {
				return status.Facts{}, fmt.Errorf("malformed status entry %q", line)
			}
			if line[2] != '.' {
				f.Staged++
			}
			if line[3] != '.' {
				f.Unstaged++
			}
		case 'u':
			f.Unstaged++
		case '?':
			f.Untracked++
		case '!':
			// ignored files only show up with --ignored
		default:
			return status.Facts{}, fmt.Errorf("malformed status entry %q", line)
		}
	}
	if err := sc.Err(); err != nil {
		return status.Facts{}, fmt.Errorf("read status output: %w", err)
	}

	if upstream != "" && haveAB {
		f.Upstream = upstream
		f.HasUpstream = true
	}
	return f, nil
}

// parseAheadBehind parses "+<ahead> -<behind>".
func parseAheadBehind(value string) (ahead, behind int, err error) {
	a, b, ok := strings.Cut(value, " ")
	if !ok || !strings.HasPrefix(a, "+") || !strings.HasPrefix(b, "-") {
		return 0, 0, fmt.Errorf("malformed branch.ab header %q", value)
	}
	if ahead, err = strconv.Atoi(a[1:]); err != nil {
		return 0, 0, fmt.Errorf("malformed branch.ab header %q: %w", value, err)
	}
	if behind, err = strconv.Atoi(b[1:]); err != nil {
		return 0, 0, fmt.Errorf("malformed branch.ab header %q: %w", value, err)
	}
	return ahead, behind, nil
}

func countLines(out []byte) int {
	s := strings.TrimSpace(string(out))
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
