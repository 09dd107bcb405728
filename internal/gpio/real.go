//go:build linux

package gpio

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"
)

// RealLine polls the signal pin through the Linux GPIO character device.
type RealLine struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealLine requests pin as an input with pull-down, so an unplugged
// receiver reads as no carrier.
func NewRealLine(pin int) (*RealLine, error) {
	chip, err := gpiocdev.NewChip(Chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request data pin %d: %w", pin, err)
	}
	return &RealLine{chip: chip, line: line}, nil
}

// Level returns the current pin level.
func (r *RealLine) Level() (bool, error) {
	v, err := r.line.Value()
	if err != nil {
		return false, fmt.Errorf("read data pin: %w", err)
	}
	return v != 0, nil
}

// Close releases the line and the chip.
func (r *RealLine) Close() error {
	return closeLineAndChip(r.line, r.chip)
}

// RealEdgeSource receives both-edge events with kernel timestamps.
type RealEdgeSource struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
	ch   chan Edge

	mu     sync.Mutex
	closed bool
}

// NewRealEdgeSource requests pin with edge detection on both edges.
func NewRealEdgeSource(pin int) (*RealEdgeSource, error) {
	chip, err := gpiocdev.NewChip(Chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	s := &RealEdgeSource{chip: chip, ch: make(chan Edge, EdgeBuffer)}
	line, err := chip.RequestLine(pin,
		gpiocdev.AsInput,
		gpiocdev.WithPullDown,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(s.handle))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request data pin %d with edges: %w", pin, err)
	}
	s.line = line
	return s, nil
}

func (s *RealEdgeSource) handle(evt gpiocdev.LineEvent) {
	e := Edge{
		High:      evt.Type == gpiocdev.LineEventRisingEdge,
		Timestamp: evt.Timestamp,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- e:
	default:
	}
}

// Edges returns the edge channel.
func (s *RealEdgeSource) Edges() <-chan Edge {
	return s.ch
}

// Level returns the current pin level.
func (s *RealEdgeSource) Level() (bool, error) {
	v, err := s.line.Value()
	if err != nil {
		return false, fmt.Errorf("read data pin: %w", err)
	}
	return v != 0, nil
}

// Close stops edge delivery and releases resources.
func (s *RealEdgeSource) Close() error {
	err := closeLineAndChip(s.line, s.chip)
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
	s.mu.Unlock()
	return err
}

// RealIndicator drives an LED on an output pin.
type RealIndicator struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealIndicator requests pin as an output, initially off.
func NewRealIndicator(pin int) (*RealIndicator, error) {
	chip, err := gpiocdev.NewChip(Chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request led pin %d: %w", pin, err)
	}
	return &RealIndicator{chip: chip, line: line}, nil
}

// Set turns the LED on or off.
func (r *RealIndicator) Set(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := r.line.SetValue(v); err != nil {
		return fmt.Errorf("set led: %w", err)
	}
	return nil
}

// Close turns the LED off and returns the pin to an input with pull-down
// (matching Pi boot defaults) before releasing it.
func (r *RealIndicator) Close() error {
	var errs []error
	if err := r.line.SetValue(0); err != nil {
		errs = append(errs, fmt.Errorf("led off: %w", err))
	}
	if err := r.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
		errs = append(errs, fmt.Errorf("reconfigure led pin: %w", err))
	}
	if err := closeLineAndChip(r.line, r.chip); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func closeLineAndChip(line *gpiocdev.Line, chip *gpiocdev.Chip) error {
	var errs []error
	if line != nil {
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line: %w", err))
		}
	}
	if chip != nil {
		if err := chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
