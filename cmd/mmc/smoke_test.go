package main

import (
	"os"
	"testing"

	"marsmc/internal/scenario"
)

func TestSmokeScenarioDiscovery(t *testing.T) {
	// Try to find the project scenario directory.
	origDir, _ := os.Getwd()
	os.Chdir("../..") // up to the repo root
	defer os.Chdir(origDir)

	dir, err := scenario.Discover()
	if err != nil {
		t.Skipf("no scenario directory available: %v", err)
	}

	files, err := scenario.List(dir)
	if err != nil {
		t.Fatalf("list scenarios: %v", err)
	}
	t.Logf("found %d scenarios in %s", len(files), dir)

	if len(files) == 0 {
		t.Log("warning: scenario directory is empty")
	}
}

func TestSmokeWatcher(t *testing.T) {
	origDir, _ := os.Getwd()
	os.Chdir("../..")
	defer os.Chdir(origDir)

	dir, err := scenario.Discover()
	if err != nil {
		t.Skipf("no scenario directory available: %v", err)
	}

	w, err := scenario.NewWatcher(dir)
	if err != nil {
		t.Fatalf("watcher creation failed: %v", err)
	}
	defer w.Close()

	t.Logf("watching %s", dir)
	// Just verify it doesn't crash on creation/close.
}
