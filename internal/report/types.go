// Package report turns decoded packets into reporting events: counters,
// per-sensor averages and heartbeat scheduling.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package report

import (
	"time"

	"github.com/sweeney/th-receiver/internal/reading"
)

// Event is one received packet, ready to publish.
type Event struct {
	Timestamp time.Time
	Reading   reading.Reading
}

// Counts tracks packets since startup.
type Counts struct {
	Packets int // complete frames
	Valid   int // checksum matched
	Invalid int // checksum mismatch
}

// SensorSummary aggregates valid readings from one sensor.
type SensorSummary struct {
	ID       uint16
	Last     reading.Reading
	LastSeen time.Time
	Count    int

	tempSum     int
	humiditySum int
}

// AvgTemperature returns the mean temperature in tenths of a degree.
func (s SensorSummary) AvgTemperature() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.tempSum) / float64(s.Count)
}

// AvgHumidity returns the mean humidity in percent.
func (s SensorSummary) AvgHumidity() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.humiditySum) / float64(s.Count)
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    Counts
}
