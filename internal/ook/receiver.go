package ook

import "sync/atomic"

// Receiver is one independent decoder instance: a Sampler feeding a
// FrameDecoder through a Handoff.
//
// Tick belongs to the sampling goroutine, Poll to the consuming goroutine.
// Stats may be called from anywhere.
type Receiver struct {
	timing  Timing
	handoff *Handoff
	sampler *Sampler
	decoder *FrameDecoder
	packets atomic.Uint64
}

// NewReceiver validates t and builds a receiver.
func NewReceiver(t Timing) (*Receiver, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	h := NewHandoff()
	return &Receiver{
		timing:  t,
		handoff: h,
		sampler: NewSampler(t, h),
		decoder: NewFrameDecoder(h),
	}, nil
}

// Timing returns the receiver's thresholds.
func (r *Receiver) Timing() Timing {
	return r.timing
}

// Tick samples the signal line once. Sampling goroutine only.
func (r *Receiver) Tick(high bool) {
	r.sampler.Tick(high)
}

// Poll handles at most one pending pulse event and returns the packet if that
// event completed one. A watchdog expiry is handled before the event.
// Consuming goroutine only.
func (r *Receiver) Poll() (Packet, bool) {
	if r.handoff.Expired() {
		r.decoder.Reset()
	}
	b, ok := r.handoff.Take()
	if !ok {
		return Packet{}, false
	}
	if !r.decoder.Feed(b) {
		return Packet{}, false
	}
	r.packets.Add(1)
	return r.decoder.Packet(), true
}

// FrameState returns the decoder state. Consuming goroutine only.
func (r *Receiver) FrameState() FrameState {
	return r.decoder.State()
}

// SamplerState returns the sampler state. Sampling goroutine only.
func (r *Receiver) SamplerState() SamplerState {
	return r.sampler.State()
}

// Stats returns a copy of the receiver counters.
func (r *Receiver) Stats() Stats {
	s := r.handoff.Stats()
	s.Packets = r.packets.Load()
	return s
}
