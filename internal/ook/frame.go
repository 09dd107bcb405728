package ook

// Sync pattern: two 1-bits followed by a 0, matched on the low three bits of
// the history register.
const (
	syncMask    = 0x07
	syncPattern = 0x06
)

// Watchdog bounds how long a partial frame may persist.
// *Handoff implements it.
type Watchdog interface {
	Arm()
	Disarm()
}

// FrameDecoder assembles pulse events into packets. It is driven once per
// event from the consumer goroutine and knows nothing about timing.
type FrameDecoder struct {
	watchdog Watchdog

	state   FrameState
	history uint8
	packet  Packet
	byteIdx int
	bitIdx  int
	ready   bool
}

// NewFrameDecoder creates a decoder. w may be nil.
func NewFrameDecoder(w Watchdog) *FrameDecoder {
	return &FrameDecoder{watchdog: w}
}

// State returns the frame assembly state.
func (d *FrameDecoder) State() FrameState {
	return d.state
}

// Feed consumes one bit and reports whether it completed a packet.
func (d *FrameDecoder) Feed(b Bit) bool {
	d.ready = false

	switch d.state {
	case FrameIdle:
		d.history = 0xFF
		d.state = FrameSeeking
		if d.watchdog != nil {
			d.watchdog.Arm()
		}
		fallthrough

	case FrameSeeking:
		d.history = d.history<<1 | uint8(b&1)
		if !syncMatched(d.history) {
			return false
		}
		// The terminating 0 of the sync pattern is the MSB of byte 0.
		d.packet = Packet{}
		d.byteIdx = 0
		d.bitIdx = 1
		d.state = FrameAccumulating

	case FrameAccumulating:
		d.packet[d.byteIdx] = d.packet[d.byteIdx]<<1 | byte(b&1)
		d.bitIdx++
		if d.bitIdx < 8 {
			return false
		}
		d.bitIdx = 0
		d.byteIdx++
		if d.byteIdx < PacketLen {
			return false
		}
		d.state = FrameIdle
		d.ready = true
		if d.watchdog != nil {
			d.watchdog.Disarm()
		}
		return true
	}
	return false
}

func syncMatched(history uint8) bool {
	return history&syncMask == syncPattern
}

// Reset abandons any partial frame and returns to idle.
func (d *FrameDecoder) Reset() {
	d.state = FrameIdle
	d.ready = false
	d.byteIdx = 0
	d.bitIdx = 0
}

// Ready reports whether the last Feed completed a packet.
func (d *FrameDecoder) Ready() bool {
	return d.ready
}

// Packet returns a copy of the packet buffer. It is authoritative only while
// Ready is true.
func (d *FrameDecoder) Packet() Packet {
	return d.packet
}
