package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.ServerURL != "ws://localhost:8080/ws" {
		t.Errorf("server url = %q", c.ServerURL)
	}
	if c.ReconnectBaseMs != 500 || c.ReconnectMaxMs != 5000 {
		t.Errorf("reconnect delays = %d/%d, want 500/5000", c.ReconnectBaseMs, c.ReconnectMaxMs)
	}
	if c.FrameRateMs != 100 {
		t.Errorf("frame rate = %dms, want 100", c.FrameRateMs)
	}
	if c.ScenarioDir == "" || c.RecordDir == "" || c.LogLines == 0 {
		t.Error("defaults left fields empty")
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.yaml")
	data := "server_url: ws://mission-ctl:9000/ws\nreconnect_base_ms: 250\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.ServerURL != "ws://mission-ctl:9000/ws" {
		t.Errorf("server url = %q, want the file value", c.ServerURL)
	}
	if c.ReconnectBaseMs != 250 {
		t.Errorf("reconnect base = %d, want 250", c.ReconnectBaseMs)
	}
	// Keys absent from the file keep their defaults.
	if c.ReconnectMaxMs != 5000 || c.FrameRateMs != 100 || c.ScenarioDir != "scenarios" {
		t.Errorf("absent keys lost defaults: %+v", c)
	}
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load of a missing file should fail")
	}
	// The caller still gets usable defaults.
	if c.ServerURL == "" {
		t.Error("missing file should return defaults")
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("server_url: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load of broken YAML should fail")
	}
	if !strings.Contains(err.Error(), "broken.yaml") {
		t.Errorf("error %q should name the file", err)
	}
}

func TestDurationAccessors(t *testing.T) {
	c := Config{ReconnectBaseMs: 500, ReconnectMaxMs: 5000, FrameRateMs: 100}
	if c.ReconnectBase() != 500*time.Millisecond {
		t.Errorf("ReconnectBase() = %v", c.ReconnectBase())
	}
	if c.ReconnectMax() != 5*time.Second {
		t.Errorf("ReconnectMax() = %v", c.ReconnectMax())
	}
	if c.FrameInterval() != 100*time.Millisecond {
		t.Errorf("FrameInterval() = %v", c.FrameInterval())
	}
	if (Config{}).FrameInterval() != 100*time.Millisecond {
		t.Error("a zero frame rate should fall back to 100ms")
	}
}
