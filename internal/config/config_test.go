package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml")); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}

func TestLoadOverridesOnlyProvidedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	yaml := "amplifier:\n  serial_port: /dev/ttyS5\n  username: radio\ntuner:\n  enabled: false\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Amplifier.SerialPort != "/dev/ttyS5" {
		t.Fatalf("Amplifier.SerialPort = %q, want \"/dev/ttyS5\"", cfg.Amplifier.SerialPort)
	}
	if cfg.Amplifier.Username != "radio" {
		t.Fatalf("Amplifier.Username = %q, want \"radio\"", cfg.Amplifier.Username)
	}
	// Untouched fields keep Default()'s values.
	if cfg.Amplifier.Listen != ":4626" {
		t.Fatalf("Amplifier.Listen = %q, want \":4626\" (unset field should keep default)", cfg.Amplifier.Listen)
	}
	if cfg.Amplifier.Password != "kpa500" {
		t.Fatalf("Amplifier.Password = %q, want default \"kpa500\"", cfg.Amplifier.Password)
	}
	if cfg.Tuner.Enabled {
		t.Fatalf("Tuner.Enabled = true, want false (explicitly disabled in file)")
	}
	if cfg.Tuner.SerialPort != "/dev/ttyUSB1" {
		t.Fatalf("Tuner.SerialPort = %q, want default \"/dev/ttyUSB1\"", cfg.Tuner.SerialPort)
	}
}

func TestDefaultHasBothDevicesEnabled(t *testing.T) {
	cfg := Default()
	if !cfg.Amplifier.Enabled || !cfg.Tuner.Enabled {
		t.Fatalf("expected both devices enabled by default")
	}
	if cfg.Metrics.Enabled || cfg.Telemetry.Enabled {
		t.Fatalf("expected metrics and telemetry disabled by default")
	}
}
