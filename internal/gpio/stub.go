//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealLine is not available on non-Linux platforms.
type RealLine struct{}

// NewRealLine returns an error on non-Linux platforms.
func NewRealLine(pin int) (*RealLine, error) {
	return nil, errUnsupported
}

func (r *RealLine) Level() (bool, error) { return false, errUnsupported }
func (r *RealLine) Close() error         { return nil }

// RealEdgeSource is not available on non-Linux platforms.
type RealEdgeSource struct{}

// NewRealEdgeSource returns an error on non-Linux platforms.
func NewRealEdgeSource(pin int) (*RealEdgeSource, error) {
	return nil, errUnsupported
}

func (s *RealEdgeSource) Edges() <-chan Edge   { return nil }
func (s *RealEdgeSource) Level() (bool, error) { return false, errUnsupported }
func (s *RealEdgeSource) Close() error         { return nil }

// RealIndicator is not available on non-Linux platforms.
type RealIndicator struct{}

// NewRealIndicator returns an error on non-Linux platforms.
func NewRealIndicator(pin int) (*RealIndicator, error) {
	return nil, errUnsupported
}

func (r *RealIndicator) Set(on bool) error { return errUnsupported }
func (r *RealIndicator) Close() error      { return nil }
