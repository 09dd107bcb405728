package report

import (
	"sort"
	"time"

	"github.com/sweeney/th-receiver/internal/ook"
	"github.com/sweeney/th-receiver/internal/reading"
)

// Reporter consumes packets from the decoder. Not safe for concurrent use.
type Reporter struct {
	startTime     time.Time
	lastHeartbeat time.Time
	counts        Counts
	sensors       map[uint16]*SensorSummary
}

// NewReporter creates a Reporter. The startTime is used for calculating
// uptime in heartbeat events.
func NewReporter(startTime time.Time) *Reporter {
	return &Reporter{
		startTime:     startTime,
		lastHeartbeat: startTime,
		sensors:       make(map[uint16]*SensorSummary),
	}
}

// Process validates and decodes p. Invalid packets are counted but do not
// contribute to sensor summaries.
func (r *Reporter) Process(p ook.Packet, now time.Time) Event {
	rd := reading.Decode(p)
	r.counts.Packets++
	if !rd.Valid {
		r.counts.Invalid++
		return Event{Timestamp: now, Reading: rd}
	}
	r.counts.Valid++

	s, ok := r.sensors[rd.SensorID]
	if !ok {
		s = &SensorSummary{ID: rd.SensorID}
		r.sensors[rd.SensorID] = s
	}
	s.Last = rd
	s.LastSeen = now
	s.Count++
	s.tempSum += rd.Temperature
	s.humiditySum += rd.Humidity

	return Event{Timestamp: now, Reading: rd}
}

// Counts returns a copy of the packet counters.
func (r *Reporter) Counts() Counts {
	return r.counts
}

// Sensors returns a copy of every sensor summary, ordered by id.
func (r *Reporter) Sensors() []SensorSummary {
	out := make([]SensorSummary, 0, len(r.sensors))
	for _, s := range r.sensors {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed,
// or if interval is <= 0 (disabled).
func (r *Reporter) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}
	if now.Sub(r.lastHeartbeat) < interval {
		return nil
	}
	r.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(r.startTime),
		Counts:    r.counts,
	}
}
