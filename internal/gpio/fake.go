package gpio

import (
	"errors"
	"sync"
)

// FakeLine is a test double that returns scripted levels.
type FakeLine struct {
	// Samples contains scripted levels to return.
	// Each call to Level() consumes the next sample.
	Samples []bool

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Level()
	ReadError error
}

// NewFakeLine creates a FakeLine with the given samples.
func NewFakeLine(samples []bool) *FakeLine {
	return &FakeLine{Samples: samples}
}

// Level returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeLine) Level() (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}
	if len(f.Samples) == 0 {
		return false, errors.New("no samples configured")
	}
	s := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return s, nil
}

// Close marks the line as closed.
func (f *FakeLine) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds to the first sample.
func (f *FakeLine) Reset() {
	f.index = 0
	f.Closed = false
}

// FakeIndicator records LED state changes. Safe for concurrent use since
// Flash turns it off from a timer goroutine.
type FakeIndicator struct {
	mu     sync.Mutex
	on     bool
	sets   []bool
	closed bool

	// SetError, if set, will be returned by Set.
	SetError error
}

// NewFakeIndicator creates an indicator that starts off.
func NewFakeIndicator() *FakeIndicator {
	return &FakeIndicator{}
}

// Set records the new state.
func (f *FakeIndicator) Set(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetError != nil {
		return f.SetError
	}
	f.on = on
	f.sets = append(f.sets, on)
	return nil
}

// On reports the current state.
func (f *FakeIndicator) On() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.on
}

// Sets returns every state passed to Set, in order.
func (f *FakeIndicator) Sets() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.sets...)
}

// Close marks the indicator as closed.
func (f *FakeIndicator) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Closed reports whether Close was called.
func (f *FakeIndicator) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// FakeEdgeSource delivers edges pushed by the test.
type FakeEdgeSource struct {
	ch    chan Edge
	level bool
	once  sync.Once
}

// NewFakeEdgeSource creates a source with the given channel capacity.
func NewFakeEdgeSource(capacity int) *FakeEdgeSource {
	return &FakeEdgeSource{ch: make(chan Edge, capacity)}
}

// Push queues an edge. It blocks when the channel is full.
func (f *FakeEdgeSource) Push(e Edge) {
	f.ch <- e
}

func (f *FakeEdgeSource) Edges() <-chan Edge   { return f.ch }
func (f *FakeEdgeSource) Level() (bool, error) { return f.level, nil }

// Close closes the edge channel.
func (f *FakeEdgeSource) Close() error {
	f.once.Do(func() { close(f.ch) })
	return nil
}
