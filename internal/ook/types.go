// Package ook decodes on-off-keyed, pulse-width-modulated sensor telemetry.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
//
// Two state machines communicate through a Handoff:
//
//	Sampler      (producer, once per timer tick)      -> pulse event
//	FrameDecoder (consumer, once per pulse event)     -> Packet
//
// The Sampler never blocks and never allocates. The FrameDecoder and the
// Packet buffer belong to the consumer goroutine.
package ook

// PacketLen is the number of bytes in one transmission.
const PacketLen = 5

// Packet is one complete transmission: four header bytes and a checksum.
type Packet [PacketLen]byte

// Bit is a decoded pulse value.
type Bit uint8

const (
	Zero Bit = 0
	One  Bit = 1
)

// SamplerState is the tick-level pulse timing state.
type SamplerState int

const (
	SamplerWaiting SamplerState = iota
	SamplerAcquiring
	SamplerIdleGap
)

func (s SamplerState) String() string {
	switch s {
	case SamplerWaiting:
		return "WAITING"
	case SamplerAcquiring:
		return "ACQUIRING"
	case SamplerIdleGap:
		return "IDLE_GAP"
	}
	return "UNKNOWN"
}

// FrameState is the event-level frame assembly state.
type FrameState int

const (
	FrameIdle FrameState = iota
	FrameSeeking
	FrameAccumulating
)

func (s FrameState) String() string {
	switch s {
	case FrameIdle:
		return "IDLE"
	case FrameSeeking:
		return "SEEKING_PREAMBLE"
	case FrameAccumulating:
		return "ACCUMULATING"
	}
	return "UNKNOWN"
}

// Stats is a point-in-time copy of receiver counters.
type Stats struct {
	Pulses    uint64 // classified pulses (events raised)
	Malformed uint64 // pulses outside both width ranges
	Desyncs   uint64 // idle gaps longer than IdleMax
	Overruns  uint64 // events overwritten before the consumer took them
	Timeouts  uint64 // packet watchdog expiries
	Packets   uint64 // complete 40-bit frames
}
