package gpio

import (
	"errors"
	"sync"
)

// ErrClosed is returned by reads from a closed simulated line.
var ErrClosed = errors.New("gpio: line closed")

// SimLine replays a waveform forever, separated by quiet periods. It stands
// in for a receiver when no hardware is attached: one Level call is one tick.
type SimLine struct {
	mu       sync.Mutex
	waveform []bool
	quiet    int
	pos      int
	closed   bool
}

// NewSimLine replays waveform followed by quiet LOW samples.
func NewSimLine(waveform []bool, quiet int) *SimLine {
	return &SimLine{waveform: waveform, quiet: quiet}
}

// Level returns the next sample of the cycle.
func (s *SimLine) Level() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	cycle := len(s.waveform) + s.quiet
	if cycle == 0 {
		return false, nil
	}
	p := s.pos
	s.pos = (s.pos + 1) % cycle
	if p < len(s.waveform) {
		return s.waveform[p], nil
	}
	return false, nil
}

// Close marks the line closed. Later reads fail with ErrClosed.
func (s *SimLine) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
