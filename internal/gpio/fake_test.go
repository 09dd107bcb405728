package gpio

import (
	"errors"
	"testing"
	"time"
)

func TestFakeLineLevel(t *testing.T) {
	f := NewFakeLine([]bool{false, true, true})

	want := []bool{false, true, true, true} // last repeats
	for i, w := range want {
		got, err := f.Level()
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if got != w {
			t.Errorf("sample %d: got %v, want %v", i, got, w)
		}
	}
}

func TestFakeLineNoSamples(t *testing.T) {
	f := NewFakeLine(nil)
	if _, err := f.Level(); err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeLineError(t *testing.T) {
	f := NewFakeLine([]bool{true})
	f.ReadError = errors.New("simulated error")
	_, err := f.Level()
	if err == nil || err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeLineCloseAndReset(t *testing.T) {
	f := NewFakeLine([]bool{true, false})
	f.Level()
	f.Close()
	if !f.Closed {
		t.Error("should be closed after Close()")
	}

	f.Reset()
	if f.Closed {
		t.Error("Reset should clear Closed")
	}
	if got, _ := f.Level(); got != true {
		t.Error("after reset: expected first sample again")
	}
}

func TestFakeIndicator(t *testing.T) {
	f := NewFakeIndicator()
	if f.On() {
		t.Error("should start off")
	}
	f.Set(true)
	f.Set(false)
	sets := f.Sets()
	if len(sets) != 2 || sets[0] != true || sets[1] != false {
		t.Errorf("Sets: got %v, want [true false]", sets)
	}
	f.Close()
	if !f.Closed() {
		t.Error("should be closed after Close()")
	}
}

func TestFlash(t *testing.T) {
	f := NewFakeIndicator()
	if err := Flash(f, 10*time.Millisecond); err != nil {
		t.Fatalf("Flash: %v", err)
	}
	if !f.On() {
		t.Error("LED should be on immediately after Flash")
	}

	deadline := time.Now().Add(2 * time.Second)
	for f.On() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if f.On() {
		t.Error("LED should turn off after the flash duration")
	}
}

func TestFlashError(t *testing.T) {
	f := NewFakeIndicator()
	f.SetError = errors.New("pin busy")
	if err := Flash(f, time.Millisecond); err == nil {
		t.Error("expected error from Flash")
	}
}

func TestSimLineCycles(t *testing.T) {
	s := NewSimLine([]bool{true, true}, 2)

	want := []bool{true, true, false, false, true, true, false}
	for i, w := range want {
		got, err := s.Level()
		if err != nil {
			t.Fatalf("sample %d: %v", i, err)
		}
		if got != w {
			t.Errorf("sample %d: got %v, want %v", i, got, w)
		}
	}
}

func TestSimLineEmpty(t *testing.T) {
	s := NewSimLine(nil, 0)
	if got, err := s.Level(); got || err != nil {
		t.Errorf("empty sim: got (%v, %v), want (false, nil)", got, err)
	}
}

func TestSimLineClosed(t *testing.T) {
	s := NewSimLine([]bool{true}, 1)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := s.Level(); !errors.Is(err, ErrClosed) {
		t.Errorf("Level after Close: got %v, want ErrClosed", err)
	}
}

func TestFakeEdgeSource(t *testing.T) {
	f := NewFakeEdgeSource(2)
	f.Push(Edge{High: true, Timestamp: time.Millisecond})
	f.Close()

	e, ok := <-f.Edges()
	if !ok || !e.High || e.Timestamp != time.Millisecond {
		t.Errorf("got (%+v, %v)", e, ok)
	}
	if _, ok := <-f.Edges(); ok {
		t.Error("channel should be closed")
	}
	if err := f.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
