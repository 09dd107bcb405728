package ook

import "time"

// EdgeSampler drives a Receiver from timestamped level changes instead of a
// periodic timer. Each edge replays the elapsed time as ticks of the previous
// level, so the tick-level state machines see the same input either way.
//
// Not safe for concurrent use; it takes the sampling goroutine's role.
type EdgeSampler struct {
	rx     *Receiver
	period time.Duration
	limit  int

	started bool
	level   bool
	last    time.Duration
	rem     time.Duration
}

// NewEdgeSampler creates an EdgeSampler feeding rx.
func NewEdgeSampler(rx *Receiver) *EdgeSampler {
	t := rx.Timing()
	return &EdgeSampler{
		rx:     rx,
		period: t.Tick,
		limit:  t.saturation(),
	}
}

// Edge records that the line changed to high at timestamp ts. Timestamps must
// be monotonic; an edge that goes back in time only updates the level.
func (e *EdgeSampler) Edge(high bool, ts time.Duration) {
	if !e.started {
		e.started = true
		e.level = high
		e.last = ts
		return
	}
	e.advance(ts)
	e.level = high
}

// Flush replays time up to ts at the current level without a level change.
// Call it periodically so the watchdog keeps running on a quiet line.
func (e *EdgeSampler) Flush(ts time.Duration) {
	if !e.started {
		return
	}
	e.advance(ts)
}

func (e *EdgeSampler) advance(ts time.Duration) int {
	if ts <= e.last {
		return 0
	}
	elapsed := ts - e.last + e.rem
	e.last = ts
	n := int(elapsed / e.period)
	e.rem = elapsed % e.period
	if n > e.limit {
		n = e.limit
		e.rem = 0
	}
	for i := 0; i < n; i++ {
		e.rx.Tick(e.level)
	}
	return n
}
