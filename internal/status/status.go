// Package status provides a thread-safe status tracker for the th-receiver daemon.
// It is read by the HTTP handlers and by lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/th-receiver/internal/ook"
	"github.com/sweeney/th-receiver/internal/report"
)

// NetworkInfo contains network state as reported by the host helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	Mode        string
	TickUs      int64
	HeartbeatMs int64
	DataPin     int
	LEDPin      int
	Broker      string
	HTTPPort    string
	SessionID   string
}

// Snapshot is a point-in-time view of daemon state. Sensors is never shared
// with the tracker, so a Snapshot stays valid after the lock is released.
type Snapshot struct {
	Receiver      ook.Stats
	Frame         ook.FrameState
	Counts        report.Counts
	Sensors       []report.SensorSummary
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// UpdateReceiver records decoder counters and frame state.
func (t *Tracker) UpdateReceiver(stats ook.Stats, frame ook.FrameState) {
	t.mu.Lock()
	t.snap.Receiver = stats
	t.snap.Frame = frame
	t.mu.Unlock()
}

// UpdateReport records packet counts and sensor summaries. The tracker
// keeps its own copy of sensors.
func (t *Tracker) UpdateReport(counts report.Counts, sensors []report.SensorSummary) {
	cp := make([]report.SensorSummary, len(sensors))
	copy(cp, sensors)

	t.mu.Lock()
	t.snap.Counts = counts
	t.snap.Sensors = cp
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	s.Sensors = make([]report.SensorSummary, len(t.snap.Sensors))
	copy(s.Sensors, t.snap.Sensors)
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
