package main

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sweeney/th-receiver/internal/gpio"
	"github.com/sweeney/th-receiver/internal/ook"
)

// sampler is the producer side of a receiver.
type sampler interface {
	Tick(high bool)
}

// sampleLoop reads line once per tick and feeds the level to rx. A failed
// read skips the tick. Runs until ctx is cancelled.
func sampleLoop(ctx context.Context, line gpio.Line, rx sampler, tick <-chan time.Time) {
	failing := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			high, err := line.Level()
			if err != nil {
				if !failing {
					log.Warn("gpio read error", "err", err)
					failing = true
				}
				continue
			}
			if failing {
				log.Info("gpio read recovered")
				failing = false
			}
			rx.Tick(high)
		}
	}
}

// edgeClock maps wall time onto the kernel's edge timestamp clock, using the
// most recent edge as the reference point.
type edgeClock struct {
	kernel time.Duration
	wall   time.Time
	synced bool
}

func (c *edgeClock) sync(kernel time.Duration, wall time.Time) {
	c.kernel = kernel
	c.wall = wall
	c.synced = true
}

// at returns the kernel timestamp corresponding to wall.
func (c *edgeClock) at(wall time.Time) (time.Duration, bool) {
	if !c.synced {
		return 0, false
	}
	return c.kernel + wall.Sub(c.wall), true
}

// edgeLoop feeds edges to es and flushes it on every flush tick so the
// receiver keeps counting while the line is quiet. Returns when ctx is
// cancelled or the edge channel closes.
func edgeLoop(ctx context.Context, edges <-chan gpio.Edge, es *ook.EdgeSampler, flush <-chan time.Time, now func() time.Time) {
	var clk edgeClock
	apply := func(e gpio.Edge) {
		clk.sync(e.Timestamp, now())
		es.Edge(e.High, e.Timestamp)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-edges:
			if !ok {
				return
			}
			apply(e)
		case t := <-flush:
			// Queued edges are older than t. Flushing past them would
			// replay their time at the wrong level.
			for len(edges) > 0 {
				e, ok := <-edges
				if !ok {
					return
				}
				apply(e)
			}
			if ts, ok := clk.at(t); ok {
				es.Flush(ts)
			}
		}
	}
}
