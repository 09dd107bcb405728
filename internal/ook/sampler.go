package ook

// Sampler classifies raw line levels into pulses. Tick must be called once per
// timer period from a single goroutine. It does not block or allocate.
type Sampler struct {
	timing  Timing
	handoff *Handoff

	state  SamplerState
	count  int  // samples in the current pulse or gap
	wasLow bool // previous sample was LOW
}

// NewSampler creates a sampler publishing into h.
func NewSampler(t Timing, h *Handoff) *Sampler {
	return &Sampler{timing: t, handoff: h}
}

// State returns the current sampling state.
func (s *Sampler) State() SamplerState {
	return s.state
}

// Count returns the samples counted in the current state.
func (s *Sampler) Count() int {
	return s.count
}

// Tick processes one sample of the signal line. It advances the packet
// watchdog, publishes a classified pulse to the handoff, and returns it.
func (s *Sampler) Tick(high bool) (Bit, bool) {
	s.handoff.advance(s.timing.PacketTimeout)

	bit, ok := s.step(high)
	s.wasLow = !high
	if ok {
		s.handoff.Put(bit)
	}
	return bit, ok
}

func (s *Sampler) step(high bool) (Bit, bool) {
	switch s.state {
	case SamplerWaiting:
		if high && s.wasLow {
			s.enter(SamplerAcquiring)
		}

	case SamplerAcquiring:
		if high {
			if s.count <= s.timing.LowPulseMax {
				s.count++
			}
			return 0, false
		}
		switch {
		case s.isHighPulse(s.count):
			s.enter(SamplerIdleGap)
			return One, true
		case s.isLowPulse(s.count):
			s.enter(SamplerIdleGap)
			return Zero, true
		}
		s.malformed()

	case SamplerIdleGap:
		if !high {
			s.count++
			if s.count >= s.timing.IdleMax {
				s.desync()
			}
			return 0, false
		}
		switch {
		case s.count >= s.timing.IdleMax:
			s.desync()
		case s.count >= s.timing.IdleMin:
			s.enter(SamplerAcquiring)
		default:
			// Gap too short. The rest of this HIGH run is skipped because
			// Waiting needs a fresh rising edge.
			s.malformed()
		}
	}
	return 0, false
}

// enter switches state. The triggering sample is the first of the new state.
func (s *Sampler) enter(st SamplerState) {
	s.state = st
	s.count = 1
}

func (s *Sampler) malformed() {
	s.handoff.malformed.Add(1)
	s.state = SamplerWaiting
	s.count = 0
}

func (s *Sampler) desync() {
	s.handoff.desyncs.Add(1)
	s.state = SamplerWaiting
	s.count = 0
}

func (s *Sampler) isHighPulse(n int) bool {
	return n >= s.timing.HighPulseMin && n <= s.timing.HighPulseMax
}

func (s *Sampler) isLowPulse(n int) bool {
	return n >= s.timing.LowPulseMin && n <= s.timing.LowPulseMax
}
