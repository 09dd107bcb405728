// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sweeney/th-receiver/internal/reading"
	"github.com/sweeney/th-receiver/internal/report"
)

// Topic is the MQTT topic for sensor readings.
const Topic = "sensors/th-receiver/readings"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "sensors/th-receiver/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a sensor reading to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event report.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Reading ReadingPayload `json:"reading"`
}

// ReadingPayload contains the decoded sensor fields.
type ReadingPayload struct {
	Timestamp    string  `json:"timestamp"`
	SensorID     string  `json:"sensor_id"`
	TemperatureC float64 `json:"temperature_c"`
	Humidity     int     `json:"humidity"`
	Valid        bool    `json:"valid"`
	Raw          string  `json:"raw"`
}

// FormatPayload creates the JSON payload for a reading.
func FormatPayload(event report.Event) ([]byte, error) {
	r := event.Reading
	payload := Payload{
		Reading: ReadingPayload{
			Timestamp:    event.Timestamp.UTC().Format(time.RFC3339),
			SensorID:     reading.FormatSensorID(r.SensorID),
			TemperatureC: r.Celsius(),
			Humidity:     r.Humidity,
			Valid:        r.Valid,
			Raw:          fmt.Sprintf("%X", r.Raw[:]),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// willPayload is the last-will message the broker publishes if the daemon
// disappears without a SHUTDOWN.
func willPayload() []byte {
	data, _ := json.Marshal(SystemPayload{System: SystemPayloadInner{Event: "OFFLINE"}})
	return data
}
