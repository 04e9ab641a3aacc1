package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the per-root config file read from the top of
// every scanned path.
const LocalConfigFileName = ".gitscan.toml"

// LocalConfig holds per-root additions from .gitscan.toml.
type LocalConfig struct {
	Skip []string `toml:"skip"` // appended to global skip
}

// LoadLocal reads the .gitscan.toml in root.
// Returns nil (no error) if the file doesn't exist.
// Returns an error only on parse or validation failure.
func LoadLocal(root string) (*LocalConfig, error) {
	configFile := filepath.Join(root, LocalConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local config %s: %w", configFile, err)
	}

	var local LocalConfig
	md, err := toml.Decode(string(data), &local)
	if err != nil {
		return nil, fmt.Errorf("failed to parse local config %s: %w", configFile, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in %s: only \"skip\" is allowed", undecoded[0].String(), configFile)
	}

	if err := validateSkipPatterns(local.Skip, configFile); err != nil {
		return nil, err
	}
	return &local, nil
}
