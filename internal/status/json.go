package status

import (
	"encoding/json"
	"math"
	"time"

	"github.com/sweeney/th-receiver/internal/reading"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Session       string       `json:"session,omitempty"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Receiver      ReceiverJSON `json:"receiver"`
	Counts        CountsJSON   `json:"packet_counts"`
	Sensors       []SensorJSON `json:"sensors"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ReceiverJSON is the JSON representation of decoder counters.
type ReceiverJSON struct {
	Frame     string `json:"frame"`
	Pulses    uint64 `json:"pulses"`
	Malformed uint64 `json:"malformed"`
	Desyncs   uint64 `json:"desyncs"`
	Overruns  uint64 `json:"overruns"`
	Timeouts  uint64 `json:"timeouts"`
	Packets   uint64 `json:"packets"`
}

// CountsJSON is the JSON representation of packet counts.
type CountsJSON struct {
	Packets int `json:"packets"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

// SensorJSON is the JSON representation of one sensor summary.
type SensorJSON struct {
	ID              string  `json:"id"`
	TemperatureC    float64 `json:"temperature_c"`
	Humidity        int     `json:"humidity"`
	AvgTemperatureC float64 `json:"avg_temperature_c"`
	AvgHumidity     float64 `json:"avg_humidity"`
	Readings        int     `json:"readings"`
	LastSeen        string  `json:"last_seen"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Mode        string `json:"mode"`
	TickUs      int64  `json:"tick_us"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	DataPin     int    `json:"data_pin"`
	LEDPin      int    `json:"led_pin"`
	Broker      string `json:"broker"`
	HTTPPort    string `json:"http_port"`
}

// round2 rounds to two decimal places.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func buildInner(snap Snapshot) StatusInner {
	sensors := make([]SensorJSON, 0, len(snap.Sensors))
	for _, s := range snap.Sensors {
		sensors = append(sensors, SensorJSON{
			ID:              reading.FormatSensorID(s.ID),
			TemperatureC:    s.Last.Celsius(),
			Humidity:        s.Last.Humidity,
			AvgTemperatureC: round2(s.AvgTemperature() / 10),
			AvgHumidity:     round2(s.AvgHumidity()),
			Readings:        s.Count,
			LastSeen:        s.LastSeen.UTC().Format(time.RFC3339),
		})
	}

	return StatusInner{
		Session:       snap.Config.SessionID,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Receiver: ReceiverJSON{
			Frame:     snap.Frame.String(),
			Pulses:    snap.Receiver.Pulses,
			Malformed: snap.Receiver.Malformed,
			Desyncs:   snap.Receiver.Desyncs,
			Overruns:  snap.Receiver.Overruns,
			Timeouts:  snap.Receiver.Timeouts,
			Packets:   snap.Receiver.Packets,
		},
		Counts: CountsJSON{
			Packets: snap.Counts.Packets,
			Valid:   snap.Counts.Valid,
			Invalid: snap.Counts.Invalid,
		},
		Sensors: sensors,
		Config: ConfigJSON{
			Mode:        snap.Config.Mode,
			TickUs:      snap.Config.TickUs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			DataPin:     snap.Config.DataPin,
			LEDPin:      snap.Config.LEDPin,
			Broker:      snap.Config.Broker,
			HTTPPort:    snap.Config.HTTPPort,
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
