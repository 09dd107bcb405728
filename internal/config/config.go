// Package config loads daemon configuration from YAML.
package config

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sweeney/th-receiver/internal/ook"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Sampling modes.
const (
	ModePoll     = "poll"     // timer-driven level sampling
	ModeEdge     = "edge"     // kernel edge events
	ModeSimulate = "simulate" // synthetic transmissions, no hardware
)

// GPIOConfig selects the data and indicator pins.
type GPIOConfig struct {
	DataPin   int           `yaml:"data_pin"`
	LEDPin    int           `yaml:"led_pin"` // 0 disables
	LEDFlash  time.Duration `yaml:"led_flash"`
	EdgeFlush time.Duration `yaml:"edge_flush"` // edge mode: replay a quiet line this often
}

// TimingConfig mirrors ook.Timing. Pulse widths are in ticks.
type TimingConfig struct {
	Tick          time.Duration `yaml:"tick"`
	HighPulseMin  int           `yaml:"high_pulse_min"`
	HighPulseMax  int           `yaml:"high_pulse_max"`
	LowPulseMin   int           `yaml:"low_pulse_min"`
	LowPulseMax   int           `yaml:"low_pulse_max"`
	IdleMin       int           `yaml:"idle_min"`
	IdleMax       int           `yaml:"idle_max"`
	PacketTimeout int           `yaml:"packet_timeout"`
}

// MQTTConfig configures the broker connection.
type MQTTConfig struct {
	Broker     string `yaml:"broker"` // empty disables publishing
	ClientID   string `yaml:"client_id"`
	BufferSize int    `yaml:"buffer_size"`
}

// HTTPConfig configures the status server.
type HTTPConfig struct {
	Addr string `yaml:"addr"` // empty disables
}

// SimulateConfig describes the synthetic transmission used in simulate mode.
type SimulateConfig struct {
	Interval time.Duration `yaml:"interval"`
	Packet   string        `yaml:"packet"` // 5 bytes, hex
}

// Config is the full daemon configuration.
type Config struct {
	Mode      string        `yaml:"mode"`
	LogLevel  string        `yaml:"log_level"`
	Heartbeat time.Duration `yaml:"heartbeat"` // 0 disables
	PollEvery time.Duration `yaml:"poll_every"`

	GPIO     GPIOConfig     `yaml:"gpio"`
	Timing   TimingConfig   `yaml:"timing"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	HTTP     HTTPConfig     `yaml:"http"`
	Simulate SimulateConfig `yaml:"simulate"`
}

// Load reads path over Defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse unmarshals YAML over cfg, leaving unset fields untouched.
func Parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// OOKTiming converts the timing section.
func (c *Config) OOKTiming() ook.Timing {
	return ook.Timing{
		Tick:          c.Timing.Tick,
		HighPulseMin:  c.Timing.HighPulseMin,
		HighPulseMax:  c.Timing.HighPulseMax,
		LowPulseMin:   c.Timing.LowPulseMin,
		LowPulseMax:   c.Timing.LowPulseMax,
		IdleMin:       c.Timing.IdleMin,
		IdleMax:       c.Timing.IdleMax,
		PacketTimeout: c.Timing.PacketTimeout,
	}
}

// SimulatedPacket decodes Simulate.Packet.
func (c *Config) SimulatedPacket() (ook.Packet, error) {
	var p ook.Packet
	b, err := hex.DecodeString(c.Simulate.Packet)
	if err != nil {
		return p, fmt.Errorf("%w: simulate.packet: %v", ErrInvalid, err)
	}
	if len(b) != ook.PacketLen {
		return p, fmt.Errorf("%w: simulate.packet: want %d bytes, got %d", ErrInvalid, ook.PacketLen, len(b))
	}
	copy(p[:], b)
	return p, nil
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModePoll, ModeEdge, ModeSimulate:
	default:
		return fmt.Errorf("%w: mode %q (want poll, edge or simulate)", ErrInvalid, c.Mode)
	}
	if err := c.OOKTiming().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.GPIO.DataPin < 0 || c.GPIO.LEDPin < 0 {
		return fmt.Errorf("%w: negative pin", ErrInvalid)
	}
	if c.GPIO.LEDPin != 0 && c.GPIO.LEDPin == c.GPIO.DataPin {
		return fmt.Errorf("%w: led_pin and data_pin are both %d", ErrInvalid, c.GPIO.DataPin)
	}
	if c.PollEvery <= 0 {
		return fmt.Errorf("%w: poll_every must be positive", ErrInvalid)
	}
	if c.Mode == ModeEdge && c.GPIO.EdgeFlush <= 0 {
		return fmt.Errorf("%w: gpio.edge_flush must be positive in edge mode", ErrInvalid)
	}
	if c.MQTT.Broker != "" && c.MQTT.BufferSize < 1 {
		return fmt.Errorf("%w: mqtt.buffer_size must be at least 1", ErrInvalid)
	}
	if c.Mode == ModeSimulate {
		if c.Simulate.Interval <= 0 {
			return fmt.Errorf("%w: simulate.interval must be positive", ErrInvalid)
		}
		if _, err := c.SimulatedPacket(); err != nil {
			return err
		}
	}
	return nil
}
