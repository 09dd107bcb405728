package ook

import "sync/atomic"

// Slot values. Zero means empty so a fresh Handoff needs no initialisation.
const (
	slotEmpty uint32 = 0
	slotEvent uint32 = 1 << 1
)

// Watchdog values. Non-negative values count elapsed ticks.
const (
	watchdogInactive int32 = -1
	watchdogExpired  int32 = -2
)

// Handoff is the single-slot, single-producer/single-consumer exchange between
// the tick goroutine and the decoding goroutine. It carries the latest pulse
// event and the packet watchdog. Nothing else is shared.
//
// The event slot is lossy: a new event overwrites an unconsumed one and the
// overwrite is counted. A lost event costs one bit, which the checksum or the
// watchdog catches later.
type Handoff struct {
	slot     atomic.Uint32
	watchdog atomic.Int32

	pulses    atomic.Uint64
	malformed atomic.Uint64
	desyncs   atomic.Uint64
	overruns  atomic.Uint64
	timeouts  atomic.Uint64
}

// NewHandoff returns an empty handoff with the watchdog disarmed.
func NewHandoff() *Handoff {
	h := &Handoff{}
	h.watchdog.Store(watchdogInactive)
	return h
}

// Put publishes a pulse event. Producer side.
func (h *Handoff) Put(b Bit) {
	h.pulses.Add(1)
	if h.slot.Swap(slotEvent|uint32(b&1)) != slotEmpty {
		h.overruns.Add(1)
	}
}

// Take consumes the pending event, if any. Consumer side.
func (h *Handoff) Take() (Bit, bool) {
	v := h.slot.Swap(slotEmpty)
	if v == slotEmpty {
		return 0, false
	}
	return Bit(v & 1), true
}

// Pending reports whether an event is waiting without consuming it.
func (h *Handoff) Pending() bool {
	return h.slot.Load() != slotEmpty
}

// Arm starts the packet watchdog from zero. Consumer side.
func (h *Handoff) Arm() {
	h.watchdog.Store(0)
}

// Disarm stops the packet watchdog. Consumer side.
func (h *Handoff) Disarm() {
	h.watchdog.Store(watchdogInactive)
}

// Armed reports whether the watchdog is counting.
func (h *Handoff) Armed() bool {
	return h.watchdog.Load() >= 0
}

// Expired reports and clears a watchdog expiry. Consumer side.
func (h *Handoff) Expired() bool {
	return h.watchdog.CompareAndSwap(watchdogExpired, watchdogInactive)
}

// advance counts one tick on an armed watchdog and reports whether it expired
// on this tick. Producer side. A concurrent Arm or Disarm wins over the
// producer's update.
func (h *Handoff) advance(limit int) bool {
	v := h.watchdog.Load()
	if v < 0 {
		return false
	}
	if int(v) >= limit {
		if h.watchdog.CompareAndSwap(v, watchdogExpired) {
			h.timeouts.Add(1)
			return true
		}
		return false
	}
	h.watchdog.CompareAndSwap(v, v+1)
	return false
}

// Stats returns a copy of the counters. Packets is filled in by Receiver.
func (h *Handoff) Stats() Stats {
	return Stats{
		Pulses:    h.pulses.Load(),
		Malformed: h.malformed.Load(),
		Desyncs:   h.desyncs.Load(),
		Overruns:  h.overruns.Load(),
		Timeouts:  h.timeouts.Load(),
	}
}
