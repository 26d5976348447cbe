// Package config assembles the process's runtime configuration from
// flags, with an optional YAML file overlay for the knobs that are
// awkward to pass as flags (session TTL, expiry sweep interval).
// Mirrors the teacher's flags-first posture (cmd/warren has no config
// file of its own); the YAML overlay is this service's own addition,
// since it carries enough knobs to want one.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every knob the serve command needs.
type Config struct {
	DataDir     string   `yaml:"data_dir"`
	HTTPAddr    string   `yaml:"http_addr"`
	MetricsAddr string   `yaml:"metrics_addr"`
	LogLevel    string   `yaml:"log_level"`
	LogJSON     bool     `yaml:"log_json"`
	SessionTTL  Duration `yaml:"session_ttl"`
	ExpirySweep Duration `yaml:"expiry_sweep"`
}

// Duration wraps time.Duration with YAML unmarshaling via its string
// form ("15m", "1h"), since yaml.v3 has no native time.Duration support.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Default returns a Config with the teacher-style sane defaults.
func Default() Config {
	return Config{
		DataDir:     "./data",
		HTTPAddr:    ":8080",
		MetricsAddr: ":9090",
		LogLevel:    "info",
		LogJSON:     false,
		SessionTTL:  Duration{15 * time.Minute},
		ExpirySweep: Duration{time.Minute},
	}
}

// LoadFile overlays a YAML file onto base; a missing file is not an
// error (the flag-only path the teacher relies on still works).
func LoadFile(base Config, path string) (Config, error) {
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return base, nil
	}
	if err != nil {
		return base, err
	}
	if err := yaml.Unmarshal(data, &base); err != nil {
		return base, err
	}
	return base, nil
}
