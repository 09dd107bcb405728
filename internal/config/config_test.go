package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sweeney/th-receiver/internal/ook"
)

func TestDefaultsValid(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.OOKTiming() != ook.DefaultTiming() {
		t.Errorf("default timing: got %+v, want %+v", cfg.OOKTiming(), ook.DefaultTiming())
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != ModePoll {
		t.Errorf("Mode: got %q, want poll", cfg.Mode)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "th-receiver.yml")
	data := `
mode: edge
log_level: debug
heartbeat: 5m
gpio:
  data_pin: 17
  led_pin: 22
timing:
  packet_timeout: 700
mqtt:
  broker: tcp://localhost:1883
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != ModeEdge {
		t.Errorf("Mode: got %q, want edge", cfg.Mode)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	if cfg.Heartbeat != 5*time.Minute {
		t.Errorf("Heartbeat: got %v, want 5m", cfg.Heartbeat)
	}
	if cfg.GPIO.DataPin != 17 || cfg.GPIO.LEDPin != 22 {
		t.Errorf("pins: got %d/%d, want 17/22", cfg.GPIO.DataPin, cfg.GPIO.LEDPin)
	}
	if cfg.Timing.PacketTimeout != 700 {
		t.Errorf("PacketTimeout: got %d, want 700", cfg.Timing.PacketTimeout)
	}
	// Untouched fields keep their defaults.
	if cfg.Timing.HighPulseMin != 2 {
		t.Errorf("HighPulseMin: got %d, want default 2", cfg.Timing.HighPulseMin)
	}
	if cfg.MQTT.ClientID != "th-receiver" {
		t.Errorf("ClientID: got %q, want default", cfg.MQTT.ClientID)
	}
	if cfg.GPIO.LEDFlash != 100*time.Millisecond {
		t.Errorf("LEDFlash: got %v, want default 100ms", cfg.GPIO.LEDFlash)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	cfg := Defaults()
	if err := Parse([]byte("brokr: tcp://x:1883\n"), cfg); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestParseEmptyDocument(t *testing.T) {
	cfg := Defaults()
	if err := Parse(nil, cfg); err != nil {
		t.Errorf("empty document: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown mode", func(c *Config) { c.Mode = "interrupt" }},
		{"bad timing", func(c *Config) { c.Timing.IdleMin = c.Timing.IdleMax }},
		{"negative pin", func(c *Config) { c.GPIO.DataPin = -1 }},
		{"led on data pin", func(c *Config) { c.GPIO.LEDPin = c.GPIO.DataPin }},
		{"zero poll", func(c *Config) { c.PollEvery = 0 }},
		{"edge without flush", func(c *Config) { c.Mode = ModeEdge; c.GPIO.EdgeFlush = 0 }},
		{"empty outbox", func(c *Config) { c.MQTT.BufferSize = 0 }},
		{"simulate zero interval", func(c *Config) { c.Mode = ModeSimulate; c.Simulate.Interval = 0 }},
		{"simulate bad hex", func(c *Config) { c.Mode = ModeSimulate; c.Simulate.Packet = "zz" }},
		{"simulate short packet", func(c *Config) { c.Mode = ModeSimulate; c.Simulate.Packet = "4121" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestValidateNoBrokerSkipsBuffer(t *testing.T) {
	cfg := Defaults()
	cfg.MQTT.Broker = ""
	cfg.MQTT.BufferSize = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestSimulatedPacket(t *testing.T) {
	cfg := Defaults()
	p, err := cfg.SimulatedPacket()
	if err != nil {
		t.Fatalf("SimulatedPacket: %v", err)
	}
	want := ook.Packet{0x41, 0x21, 0x45, 0x32, 0x1D}
	if p != want {
		t.Errorf("got % X, want % X", p, want)
	}
}
