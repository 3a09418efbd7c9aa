// Package config loads the bridge's YAML configuration file, grounded on
// the teacher's config.go (struct-tagged yaml.v3 unmarshal onto a struct
// already filled with defaults).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration document.
type Config struct {
	Amplifier DeviceConfig    `yaml:"amplifier"`
	Tuner     DeviceConfig    `yaml:"tuner"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DeviceConfig configures one bridged device (amplifier or tuner).
type DeviceConfig struct {
	Enabled    bool   `yaml:"enabled"`
	SerialPort string `yaml:"serial_port"`
	Listen     string `yaml:"listen"` // TCP listen address, e.g. ":4626"
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
}

// MetricsConfig configures the optional Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"` // e.g. ":9626"
}

// TelemetryConfig configures the optional MQTT state publisher.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // e.g. "tcp://localhost:1883"
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
}

// LoggingConfig configures bridge-wide log verbosity.
type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

// Default returns the compiled-in configuration used when no config file is
// present or readable, per spec.md's orchestrator defaults (amplifier on
// port 4626, tuner on port 4627).
func Default() *Config {
	return &Config{
		Amplifier: DeviceConfig{
			Enabled:    true,
			SerialPort: "/dev/ttyUSB0",
			Listen:     ":4626",
			Username:   "kpa500",
			Password:   "kpa500",
		},
		Tuner: DeviceConfig{
			Enabled:    true,
			SerialPort: "/dev/ttyUSB1",
			Listen:     ":4627",
			Username:   "kat500",
			Password:   "kat500",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  ":9626",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Broker:      "tcp://localhost:1883",
			ClientID:    "kpa500-bridge",
			TopicPrefix: "kpa500-bridge",
		},
	}
}

// Load reads and parses a YAML config file, filling any field the file
// omits from Default(). A missing or unreadable file is returned as an
// error; the caller then falls back to Default() entirely (see
// cmd/bridge/main.go).
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if cfg.Amplifier.Listen == "" {
		cfg.Amplifier.Listen = ":4626"
	}
	if cfg.Tuner.Listen == "" {
		cfg.Tuner.Listen = ":4627"
	}
	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = ":9626"
	}
	if cfg.Telemetry.ClientID == "" {
		cfg.Telemetry.ClientID = "kpa500-bridge"
	}
	if cfg.Telemetry.TopicPrefix == "" {
		cfg.Telemetry.TopicPrefix = "kpa500-bridge"
	}

	return cfg, nil
}
