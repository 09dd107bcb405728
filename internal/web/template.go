package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/th-receiver/internal/reading"
	"github.com/sweeney/th-receiver/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"sensorID": reading.FormatSensorID,
	"tenths":   reading.FormatTenths,
	"avgTenths": func(t float64) string {
		return fmt.Sprintf("%.1fC", t/10)
	},
	"avg": func(f float64) string {
		return fmt.Sprintf("%.1f", f)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="30">
<title>TH Receiver</title>
<style>
body { font-family: monospace; max-width: 720px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
table.sensors th { width: auto; }
.connected { color: green; }
.disconnected { color: red; }
.none { color: #888; }
</style>
</head>
<body>
<h1>TH Receiver</h1>

<h2>Sensors</h2>
{{if .Sensors}}<table class="sensors">
<tr><th>ID</th><th>Temp</th><th>Humidity</th><th>Avg temp</th><th>Avg humidity</th><th>Readings</th><th>Last seen</th></tr>
{{range .Sensors}}<tr><td>{{sensorID .ID}}</td><td>{{tenths .Last.Temperature}}</td><td>{{.Last.Humidity}}%</td><td>{{avgTenths .AvgTemperature}}</td><td>{{avg .AvgHumidity}}%</td><td>{{.Count}}</td><td>{{.LastSeen.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
{{end}}</table>
{{else}}<p class="none">no readings yet</p>
{{end}}
<h2>Packets</h2>
<table>
<tr><th>Received</th><td>{{.Counts.Packets}}</td></tr>
<tr><th>Valid</th><td>{{.Counts.Valid}}</td></tr>
<tr><th>Bad checksum</th><td>{{.Counts.Invalid}}</td></tr>
</table>

<h2>Receiver</h2>
<table>
<tr><th>Frame</th><td>{{.Frame}}</td></tr>
<tr><th>Pulses</th><td>{{.Receiver.Pulses}}</td></tr>
<tr><th>Malformed</th><td>{{.Receiver.Malformed}}</td></tr>
<tr><th>Desyncs</th><td>{{.Receiver.Desyncs}}</td></tr>
<tr><th>Overruns</th><td>{{.Receiver.Overruns}}</td></tr>
<tr><th>Timeouts</th><td>{{.Receiver.Timeouts}}</td></tr>
<tr><th>Frames</th><td>{{.Receiver.Packets}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Mode</th><td>{{.Config.Mode}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickUs}}µs</td></tr>
<tr><th>Data pin</th><td>GPIO{{.Config.DataPin}}</td></tr>
<tr><th>LED pin</th><td>{{if eq .Config.LEDPin 0}}disabled{{else}}GPIO{{.Config.LEDPin}}{{end}}</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPPort}}</td></tr>
{{if .Config.SessionID}}<tr><th>Session</th><td>{{.Config.SessionID}}</td></tr>{{end}}
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) error {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	return indexTmpl.Execute(w, data)
}
