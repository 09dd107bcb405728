package ook

import "testing"

// fakeWatchdog counts Arm and Disarm calls.
type fakeWatchdog struct {
	arms    int
	disarms int
	armed   bool
}

func (w *fakeWatchdog) Arm()    { w.arms++; w.armed = true }
func (w *fakeWatchdog) Disarm() { w.disarms++; w.armed = false }

// bitsOf parses a string of '0'/'1' runes.
func bitsOf(s string) []Bit {
	var out []Bit
	for _, r := range s {
		switch r {
		case '0':
			out = append(out, Zero)
		case '1':
			out = append(out, One)
		}
	}
	return out
}

func feedBits(d *FrameDecoder, bits []Bit) (Packet, int) {
	var p Packet
	n := 0
	for _, b := range bits {
		if d.Feed(b) {
			p = d.Packet()
			n++
		}
	}
	return p, n
}

func TestFrameDecoderIdleArmsWatchdog(t *testing.T) {
	w := &fakeWatchdog{}
	d := NewFrameDecoder(w)

	if d.State() != FrameIdle {
		t.Fatalf("initial state: got %s, want IDLE", d.State())
	}
	d.Feed(One)
	if d.State() != FrameSeeking {
		t.Errorf("state: got %s, want SEEKING_PREAMBLE", d.State())
	}
	if w.arms != 1 || !w.armed {
		t.Errorf("expected watchdog armed once, got arms=%d", w.arms)
	}
}

func TestSyncMatchAllHistories(t *testing.T) {
	for h := 0; h < 256; h++ {
		want := h&0x07 == 0x06
		if got := syncMatched(uint8(h)); got != want {
			t.Errorf("history %08b: got %v, want %v", h, got, want)
		}
	}
}

func TestPreambleDetection(t *testing.T) {
	tests := []struct {
		bits string
		want FrameState
	}{
		{"110", FrameAccumulating},
		{"11111110", FrameAccumulating},
		// History starts as all ones, so the first 0 completes ...110.
		{"0", FrameAccumulating},
		{"10", FrameAccumulating},
		{"1", FrameSeeking},
		{"11", FrameSeeking},
		{"111", FrameSeeking},
		{"111111111111", FrameSeeking},
	}

	for _, tt := range tests {
		t.Run(tt.bits, func(t *testing.T) {
			d := NewFrameDecoder(nil)
			feedBits(d, bitsOf(tt.bits))
			if d.State() != tt.want {
				t.Errorf("after %q: got %s, want %s", tt.bits, d.State(), tt.want)
			}
		})
	}
}

func TestPreambleZeroIsFirstDataBit(t *testing.T) {
	d := NewFrameDecoder(nil)

	// Sync, then 39 bits: the sync's final 0 is byte 0's MSB.
	bits := bitsOf("11111110" +
		"1000001" + // byte 0 = 0x41
		"00100001" + // byte 1 = 0x21
		"01000101" + // byte 2 = 0x45
		"00110010" + // byte 3 = 0x32
		"11111111") // byte 4
	p, n := feedBits(d, bits)

	if n != 1 {
		t.Fatalf("expected 1 packet, got %d", n)
	}
	want := Packet{0x41, 0x21, 0x45, 0x32, 0xFF}
	if p != want {
		t.Errorf("packet: got % X, want % X", p, want)
	}
}

func TestPacketCompletesAfterFortyBits(t *testing.T) {
	w := &fakeWatchdog{}
	d := NewFrameDecoder(w)
	want := Packet{0x41, 0x23, 0x45, 0x32, 0x9A}

	bits := FrameBits(want)
	for i, b := range bits[:len(bits)-1] {
		if d.Feed(b) {
			t.Fatalf("packet completed early at bit %d", i)
		}
	}
	if d.State() != FrameAccumulating {
		t.Fatalf("state before last bit: got %s, want ACCUMULATING", d.State())
	}
	if !d.Feed(bits[len(bits)-1]) {
		t.Fatal("last bit did not complete the packet")
	}
	if !d.Ready() {
		t.Error("Ready should be true after completion")
	}
	if d.Packet() != want {
		t.Errorf("packet: got % X, want % X", d.Packet(), want)
	}
	if d.State() != FrameIdle {
		t.Errorf("state: got %s, want IDLE", d.State())
	}
	if w.disarms != 1 || w.armed {
		t.Errorf("expected watchdog disarmed once, got disarms=%d armed=%v", w.disarms, w.armed)
	}

	d.Feed(One)
	if d.Ready() {
		t.Error("Ready should clear on the next bit")
	}
}

func TestSyncInsidePayloadNotRevalidated(t *testing.T) {
	d := NewFrameDecoder(nil)
	// Payload full of 110 runs must not restart accumulation.
	want := Packet{0x36, 0xDB, 0x6D, 0xB6, 0xDB}
	p, n := feedBits(d, FrameBits(want))
	if n != 1 {
		t.Fatalf("expected 1 packet, got %d", n)
	}
	if p != want {
		t.Errorf("packet: got % X, want % X", p, want)
	}
}

func TestBackToBackPackets(t *testing.T) {
	w := &fakeWatchdog{}
	d := NewFrameDecoder(w)
	first := Packet{0x41, 0x23, 0x45, 0x32, 0x01}
	second := Packet{0x12, 0x89, 0x10, 0x55, 0x02}

	bits := append(FrameBits(first), FrameBits(second)...)
	var got []Packet
	for _, b := range bits {
		if d.Feed(b) {
			got = append(got, d.Packet())
		}
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 packets, got %d", len(got))
	}
	if got[0] != first || got[1] != second {
		t.Errorf("packets: got % X / % X", got[0], got[1])
	}
	if w.arms != 2 {
		t.Errorf("arms: got %d, want 2", w.arms)
	}
}

func TestResetDiscardsPartialFrame(t *testing.T) {
	d := NewFrameDecoder(nil)
	want := Packet{0x41, 0x21, 0x45, 0x32, 0x77}

	// Truncated frame: preamble plus 20 bits.
	feedBits(d, FrameBits(Packet{0x7F, 0xFF, 0xFF, 0xFF, 0xFF})[:PreambleBits+20])
	if d.State() != FrameAccumulating {
		t.Fatalf("state: got %s, want ACCUMULATING", d.State())
	}

	d.Reset()
	if d.State() != FrameIdle {
		t.Fatalf("state after reset: got %s, want IDLE", d.State())
	}

	p, n := feedBits(d, FrameBits(want))
	if n != 1 || p != want {
		t.Errorf("after reset: got %d packets, % X; want % X", n, p, want)
	}
}
