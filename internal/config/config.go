package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/gitscan/internal/git"
	"github.com/raphi011/gitscan/internal/status"
	"github.com/raphi011/gitscan/internal/storage"
)

// Environment variables that override the config file.
const (
	EnvConfigPath = "GITSCAN_CONFIG"
	EnvGitBackend = "GITSCAN_GIT_BACKEND"
)

// DefaultShell runs each foreach command as `<shell> -c <command>`.
const DefaultShell = "sh"

// Duration is a time.Duration read from a TOML string such as "30s" or "5m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// ThemeConfig selects the color theme for styled output.
type ThemeConfig struct {
	Name     string `toml:"name"`     // preset family: default, dracula, nord, gruvbox, catppuccin, none
	Mode     string `toml:"mode"`     // "dark" (default) or "light"
	Nerdfont bool   `toml:"nerdfont"` // use nerd font status symbols
}

// Config holds gitscan configuration
type Config struct {
	Status         string      `toml:"status"` // default --status filter
	Jobs           int         `toml:"jobs"`   // parallel foreach invocations, 0 or 1 = sequential
	Timeout        Duration    `toml:"timeout"`
	Shell          string      `toml:"shell"`
	Nested         bool        `toml:"nested"`
	FollowSymlinks bool        `toml:"follow_symlinks"`
	Skip           []string    `toml:"skip"` // directory name globs never entered
	GitBackend     string      `toml:"git_backend"`
	Theme          ThemeConfig `toml:"theme"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Status:     string(status.FilterAll),
		Shell:      DefaultShell,
		GitBackend: git.BackendCLI,
	}
}

// Path returns the config file location: $GITSCAN_CONFIG if set,
// otherwise ~/.config/gitscan/config.toml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return expandPath(p)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gitscan", "config.toml"), nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Load reads the config file.
// Returns Default() if the file doesn't exist (no error).
// Returns an error only if the file exists but is invalid.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return applyEnv(Default())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(Default())
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := parse(data, path)
	if err != nil {
		return Default(), err
	}
	return applyEnv(cfg)
}

// parse decodes and validates config file contents. Unset keys keep their
// default values.
func parse(data []byte, path string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Default(), fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Default(), fmt.Errorf("unknown key(s) in %s: %s", path, strings.Join(keys, ", "))
	}

	if cfg.Shell == "" {
		cfg.Shell = DefaultShell
	}
	if cfg.Status == "" {
		cfg.Status = string(status.FilterAll)
	}
	if cfg.GitBackend == "" {
		cfg.GitBackend = git.BackendCLI
	}

	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv applies environment overrides and validates the result.
func applyEnv(cfg Config) (Config, error) {
	if backend := os.Getenv(EnvGitBackend); backend != "" {
		if err := validateEnum(backend, EnvGitBackend, git.ValidBackends); err != nil {
			return Default(), err
		}
		cfg.GitBackend = backend
	}
	return cfg, nil
}

// Validate checks every field against its allowed values.
func (c *Config) Validate() error {
	if err := validateEnum(c.Status, "status", status.ValidFilters); err != nil {
		return err
	}
	if err := validateEnum(c.GitBackend, "git_backend", git.ValidBackends); err != nil {
		return err
	}
	if c.Jobs < 0 {
		return fmt.Errorf("invalid jobs %d: must not be negative", c.Jobs)
	}
	if c.Timeout.Duration < 0 {
		return fmt.Errorf("invalid timeout %s: must not be negative", c.Timeout)
	}
	if err := validateSkipPatterns(c.Skip, ""); err != nil {
		return err
	}
	if err := validateEnum(c.Theme.Name, "theme.name", ValidThemeNames); err != nil {
		return err
	}
	return validateEnum(c.Theme.Mode, "theme.mode", ValidThemeModes)
}

// Parallel reports whether foreach runs more than one command at a time.
func (c *Config) Parallel() bool {
	return c.Jobs > 1
}

const defaultConfig = `# gitscan configuration

# Default --status filter: "all", "novel", or "boring"
# novel  = uncommitted changes, unpushed or unpulled commits, stashes,
#          or no upstream branch
# boring = clean and in sync with its upstream
status = "all"

# Number of foreach commands to run in parallel (0 or 1 = one at a time).
# Output of parallel commands is buffered and printed in discovery order.
# jobs = 4

# Kill a foreach command after this long ("30s", "5m"). Unset = no limit.
# A timed-out command counts as failed with exit code 124.
# timeout = "5m"

# Shell used to run the foreach command as: <shell> -c <command>
shell = "sh"

# Also report repositories nested inside other repositories (submodules)
nested = false

# Follow symlinked directories while scanning. Cycles are detected.
follow_symlinks = false

# Directory names (filepath.Match globs) never entered while scanning.
# A .gitscan.toml at the root of a scanned path adds to this list:
#   skip = ["vendor"]
# skip = ["node_modules", ".cache"]

# How repository status is read: "cli" (git binary) or "go-git" (built in).
# Override with GITSCAN_GIT_BACKEND.
git_backend = "cli"

# [theme]
# name = "default"   # default, dracula, nord, gruvbox, catppuccin, none
# mode = "dark"      # dark or light
# nerdfont = false   # nerd font symbols in "gitscan status"
`

// DefaultConfig returns the commented template written by Init.
func DefaultConfig() string {
	return defaultConfig
}

// ErrConfigExists is returned by Init when the file is already there.
var ErrConfigExists = errors.New("config file already exists")

// Init creates a default config file at Path().
// If force is true, overwrites an existing file.
// Returns the path to the created file.
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}

	if err := storage.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// ValidThemeNames lists the theme families accepted by theme.name.
var ValidThemeNames = []string{"default", "dracula", "nord", "gruvbox", "catppuccin", "none"}

// ValidThemeModes lists the values accepted by theme.mode.
var ValidThemeModes = []string{"dark", "light"}

