// Package gpio provides GPIO access with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake and simulated implementations allow running without hardware.
package gpio

import "time"

// Line reads the demodulated radio signal.
type Line interface {
	// Level returns true while the receiver output is HIGH (carrier present).
	Level() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Edge is a level change on the signal line.
type Edge struct {
	High      bool
	Timestamp time.Duration // monotonic, from the kernel
}

// EdgeSource delivers level changes as they happen.
type EdgeSource interface {
	// Edges returns the channel edges are delivered on. Edges that arrive
	// while the channel is full are dropped.
	Edges() <-chan Edge

	// Level returns the current line level.
	Level() (bool, error)

	// Close releases GPIO resources and closes the channel.
	Close() error
}

// Indicator drives the packet-received LED.
type Indicator interface {
	Set(on bool) error
	Close() error
}

// Default pin assignments (BCM numbering).
const (
	DefaultPinData = 27 // receiver data output
	DefaultPinLED  = 0  // 0 disables the LED
)

// Chip is the GPIO character device the real implementations open.
const Chip = "gpiochip0"

// EdgeBuffer is the capacity of the edge channel.
const EdgeBuffer = 1024

// Flash turns ind on and schedules it off after d. Errors are returned from
// the first Set only.
func Flash(ind Indicator, d time.Duration) error {
	if err := ind.Set(true); err != nil {
		return err
	}
	time.AfterFunc(d, func() { ind.Set(false) })
	return nil
}
