// Package scenario discovers and lists mission scenario files.
package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const defaultDir = "scenarios"

// Discover finds the scenario directory.
// Priority: MARSMC_SCENARIOS env var > ./scenarios in CWD > walk up parents.
func Discover() (string, error) {
	if env := os.Getenv("MARSMC_SCENARIOS"); env != "" {
		if _, err := os.Stat(env); err == nil {
			return env, nil
		}
		return "", fmt.Errorf("MARSMC_SCENARIOS=%q: %w", env, os.ErrNotExist)
	}

	// Check CWD first.
	if _, err := os.Stat(defaultDir); err == nil {
		abs, err := filepath.Abs(defaultDir)
		if err != nil {
			return "", fmt.Errorf("resolve absolute path for %s: %w", defaultDir, err)
		}
		return abs, nil
	}

	// Walk up parent directories.
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, defaultDir)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no scenario directory found (looked for %s)", defaultDir)
}

// List returns the scenario file names under dir, sorted. Subdirectories
// and files without a scenario extension are skipped.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenario directory %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !IsScenario(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// IsScenario reports whether name looks like a scenario config file.
func IsScenario(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
