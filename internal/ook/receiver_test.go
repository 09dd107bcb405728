package ook

import (
	"errors"
	"testing"
)

// drive ticks rx with samples, polling after every tick as a consumer that
// keeps up would.
func drive(rx *Receiver, samples []bool) []Packet {
	var got []Packet
	for _, s := range samples {
		rx.Tick(s)
		if p, ok := rx.Poll(); ok {
			got = append(got, p)
		}
	}
	return got
}

func newTestReceiver(t *testing.T) *Receiver {
	t.Helper()
	rx, err := NewReceiver(DefaultTiming())
	if err != nil {
		t.Fatalf("NewReceiver: %v", err)
	}
	return rx
}

func TestNewReceiverRejectsBadTiming(t *testing.T) {
	timing := DefaultTiming()
	timing.LowPulseMin = timing.HighPulseMax

	_, err := NewReceiver(timing)
	if !errors.Is(err, ErrInvalidTiming) {
		t.Errorf("expected ErrInvalidTiming, got %v", err)
	}
}

func TestReceiverDecodesTransmission(t *testing.T) {
	rx := newTestReceiver(t)
	want := Packet{0x41, 0x21, 0x45, 0x32, 0xA7}

	got := drive(rx, Transmission(want, rx.Timing()))
	if len(got) != 1 {
		t.Fatalf("expected 1 packet, got %d", len(got))
	}
	if got[0] != want {
		t.Errorf("packet: got % X, want % X", got[0], want)
	}

	s := rx.Stats()
	if s.Packets != 1 {
		t.Errorf("packets: got %d, want 1", s.Packets)
	}
	if s.Pulses != uint64(len(FrameBits(want))) {
		t.Errorf("pulses: got %d, want %d", s.Pulses, len(FrameBits(want)))
	}
	if s.Overruns != 0 || s.Malformed != 0 || s.Timeouts != 0 {
		t.Errorf("unexpected error counters: %+v", s)
	}
	if rx.FrameState() != FrameIdle {
		t.Errorf("frame state: got %s, want IDLE", rx.FrameState())
	}
}

func TestReceiverRepeatedTransmissions(t *testing.T) {
	rx := newTestReceiver(t)
	want := Packet{0x41, 0x21, 0x45, 0x32, 0xA7}

	// Sensors repeat each reading; quiet time separates transmissions.
	var samples []bool
	for i := 0; i < 3; i++ {
		samples = append(samples, Transmission(want, rx.Timing())...)
		samples = append(samples, make([]bool, 50)...)
	}

	got := drive(rx, samples)
	if len(got) != 3 {
		t.Fatalf("expected 3 packets, got %d", len(got))
	}
	for i, p := range got {
		if p != want {
			t.Errorf("packet %d: got % X, want % X", i, p, want)
		}
	}
}

func TestReceiverTimeoutRecovery(t *testing.T) {
	rx := newTestReceiver(t)
	timing := rx.Timing()
	want := Packet{0x41, 0x21, 0x45, 0x32, 0xA7}

	// Preamble plus 20 data bits, then silence.
	truncated := Modulate(FrameBits(Packet{0x0F, 0xFF, 0xFF, 0xFF, 0xFF})[:PreambleBits+20], timing)
	if got := drive(rx, truncated); len(got) != 0 {
		t.Fatalf("truncated frame produced %d packets", len(got))
	}
	if rx.FrameState() != FrameAccumulating {
		t.Fatalf("frame state: got %s, want ACCUMULATING", rx.FrameState())
	}

	drive(rx, make([]bool, timing.PacketTimeout+1))
	if rx.FrameState() != FrameIdle {
		t.Fatalf("frame state after timeout: got %s, want IDLE", rx.FrameState())
	}
	if rx.Stats().Timeouts != 1 {
		t.Errorf("timeouts: got %d, want 1", rx.Stats().Timeouts)
	}

	got := drive(rx, Transmission(want, timing))
	if len(got) != 1 || got[0] != want {
		t.Errorf("after timeout: got %v, want [% X]", got, want)
	}
}

func TestReceiverPreambleNeverFoundTimesOut(t *testing.T) {
	rx := newTestReceiver(t)
	timing := rx.Timing()

	ones := make([]Bit, 10)
	for i := range ones {
		ones[i] = One
	}
	drive(rx, Modulate(ones, timing))
	if rx.FrameState() != FrameSeeking {
		t.Fatalf("frame state: got %s, want SEEKING_PREAMBLE", rx.FrameState())
	}
	drive(rx, make([]bool, timing.PacketTimeout))
	if rx.FrameState() != FrameIdle {
		t.Errorf("frame state: got %s, want IDLE", rx.FrameState())
	}
}

func TestReceiverLostEventCaughtByTimeout(t *testing.T) {
	rx := newTestReceiver(t)
	timing := rx.Timing()
	want := Packet{0x41, 0x21, 0x45, 0x32, 0xA7}

	// The consumer stalls while event 20 is pending, so event 21 overwrites it.
	var got []Packet
	for _, s := range Transmission(want, timing) {
		rx.Tick(s)
		if rx.Stats().Pulses == 20 {
			continue
		}
		if p, ok := rx.Poll(); ok {
			got = append(got, p)
		}
	}
	if len(got) != 0 {
		t.Fatalf("expected no packet with a dropped bit, got % X", got)
	}
	if rx.Stats().Overruns != 1 {
		t.Errorf("overruns: got %d, want 1", rx.Stats().Overruns)
	}

	drive(rx, make([]bool, timing.PacketTimeout+1))
	got = drive(rx, Transmission(want, timing))
	if len(got) != 1 || got[0] != want {
		t.Errorf("after recovery: got %v, want [% X]", got, want)
	}
}

func TestIndependentReceivers(t *testing.T) {
	a := newTestReceiver(t)
	b := newTestReceiver(t)
	pa := Packet{0x41, 0x21, 0x45, 0x32, 0x01}
	pb := Packet{0x22, 0x80, 0x10, 0x40, 0x02}

	sa := Transmission(pa, a.Timing())
	sb := Transmission(pb, b.Timing())
	var gotA, gotB []Packet
	for i := 0; i < len(sa) || i < len(sb); i++ {
		if i < len(sa) {
			gotA = append(gotA, drive(a, sa[i:i+1])...)
		}
		if i < len(sb) {
			gotB = append(gotB, drive(b, sb[i:i+1])...)
		}
	}
	if len(gotA) != 1 || gotA[0] != pa {
		t.Errorf("receiver A: got %v", gotA)
	}
	if len(gotB) != 1 || gotB[0] != pb {
		t.Errorf("receiver B: got %v", gotB)
	}
}
