package config

import (
	"time"

	"github.com/sweeney/th-receiver/internal/gpio"
	"github.com/sweeney/th-receiver/internal/ook"
)

// Defaults returns the configuration used when no file is given.
func Defaults() *Config {
	t := ook.DefaultTiming()
	return &Config{
		Mode:      ModePoll,
		LogLevel:  "info",
		Heartbeat: 15 * time.Minute,
		PollEvery: 500 * time.Microsecond,

		GPIO: GPIOConfig{
			DataPin:   gpio.DefaultPinData,
			LEDPin:    gpio.DefaultPinLED,
			LEDFlash:  100 * time.Millisecond,
			EdgeFlush: time.Millisecond,
		},

		Timing: TimingConfig{
			Tick:          t.Tick,
			HighPulseMin:  t.HighPulseMin,
			HighPulseMax:  t.HighPulseMax,
			LowPulseMin:   t.LowPulseMin,
			LowPulseMax:   t.LowPulseMax,
			IdleMin:       t.IdleMin,
			IdleMax:       t.IdleMax,
			PacketTimeout: t.PacketTimeout,
		},

		MQTT: MQTTConfig{
			Broker:     "tcp://192.168.1.200:1883",
			ClientID:   "th-receiver",
			BufferSize: 100,
		},

		HTTP: HTTPConfig{
			Addr: ":80",
		},

		Simulate: SimulateConfig{
			Interval: 30 * time.Second,
			Packet:   "412145321D",
		},
	}
}
