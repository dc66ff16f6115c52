// Package config holds the console's tunable settings, loadable from a
// YAML file over built-in defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full settings surface. Delays live in integer
// millisecond fields so the YAML stays plain numbers.
type Config struct {
	ServerURL   string `yaml:"server_url"`
	ScenarioDir string `yaml:"scenario_dir"`
	RecordDir   string `yaml:"record_dir"`

	ReconnectBaseMs int `yaml:"reconnect_base_ms"`
	ReconnectMaxMs  int `yaml:"reconnect_max_ms"`
	FrameRateMs     int `yaml:"frame_rate_ms"`
	LogLines        int `yaml:"log_lines"`
}

// Default is the configuration used when no file is given.
func Default() Config {
	return Config{
		ServerURL:       "ws://localhost:8080/ws",
		ScenarioDir:     "scenarios",
		RecordDir:       "missions",
		ReconnectBaseMs: 500,
		ReconnectMaxMs:  5000,
		FrameRateMs:     100,
		LogLines:        500,
	}
}

// Load reads the YAML file at path over the defaults. Keys absent from
// the file keep their default values.
func Load(path string) (Config, error) {
	c := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

func (c Config) ReconnectBase() time.Duration {
	return time.Duration(c.ReconnectBaseMs) * time.Millisecond
}

func (c Config) ReconnectMax() time.Duration {
	return time.Duration(c.ReconnectMaxMs) * time.Millisecond
}

// FrameInterval is the render tick period.
func (c Config) FrameInterval() time.Duration {
	if c.FrameRateMs <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(c.FrameRateMs) * time.Millisecond
}
