package scenario

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverFromEnvVar(t *testing.T) {
	dir := t.TempDir()

	old := os.Getenv("MARSMC_SCENARIOS")
	defer os.Setenv("MARSMC_SCENARIOS", old)
	os.Setenv("MARSMC_SCENARIOS", dir)

	path, err := Discover()
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if path != dir {
		t.Errorf("Discover() = %q, want %q", path, dir)
	}
}

func TestDiscoverEnvVarMissing(t *testing.T) {
	old := os.Getenv("MARSMC_SCENARIOS")
	defer os.Setenv("MARSMC_SCENARIOS", old)
	os.Setenv("MARSMC_SCENARIOS", "/nonexistent/path/scenarios")

	_, err := Discover()
	if err == nil {
		t.Error("Discover should fail when MARSMC_SCENARIOS points nowhere")
	}
}

func TestDiscoverFromCWD(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "scenarios"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	old := os.Getenv("MARSMC_SCENARIOS")
	defer os.Setenv("MARSMC_SCENARIOS", old)
	os.Unsetenv("MARSMC_SCENARIOS")

	origWd, _ := os.Getwd()
	defer os.Chdir(origWd)
	os.Chdir(dir)

	path, err := Discover()
	if err != nil {
		t.Fatalf("Discover from CWD: %v", err)
	}
	if filepath.Base(path) != "scenarios" {
		t.Errorf("expected a scenarios directory, got %q", path)
	}
}

func TestDiscoverFromParentDir(t *testing.T) {
	dir := t.TempDir()
	scenDir := filepath.Join(dir, "scenarios")
	if err := os.MkdirAll(scenDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	childDir := filepath.Join(dir, "sub", "deep")
	if err := os.MkdirAll(childDir, 0o755); err != nil {
		t.Fatalf("MkdirAll child: %v", err)
	}

	old := os.Getenv("MARSMC_SCENARIOS")
	defer os.Setenv("MARSMC_SCENARIOS", old)
	os.Unsetenv("MARSMC_SCENARIOS")

	origWd, _ := os.Getwd()
	defer os.Chdir(origWd)
	os.Chdir(childDir)

	path, err := Discover()
	if err != nil {
		t.Fatalf("Discover from parent: %v", err)
	}
	// Resolve symlinks for comparison (macOS /var -> /private/var).
	resolvedPath, _ := filepath.EvalSymlinks(path)
	resolvedExpect, _ := filepath.EvalSymlinks(scenDir)
	if resolvedPath != resolvedExpect {
		t.Errorf("Discover() = %q, want %q", path, scenDir)
	}
}

func TestListFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"survey.json", "alpha.yaml", "deep_scan.yml", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	// A directory with a scenario-like name must be skipped.
	if err := os.MkdirAll(filepath.Join(dir, "archive.json"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	names, err := List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"alpha.yaml", "deep_scan.yml", "survey.json"}
	if len(names) != len(want) {
		t.Fatalf("List() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestListMissingDir(t *testing.T) {
	_, err := List(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Error("List should fail for a missing directory")
	}
}

func TestListEmptyDir(t *testing.T) {
	names, err := List(t.TempDir())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("List() = %v, want empty", names)
	}
}

func TestIsScenario(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"survey.json", true},
		{"survey.yaml", true},
		{"survey.yml", true},
		{"SURVEY.JSON", true},
		{"survey.txt", false},
		{"survey", false},
		{".json", true},
	}
	for _, tt := range tests {
		if got := IsScenario(tt.name); got != tt.want {
			t.Errorf("IsScenario(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
