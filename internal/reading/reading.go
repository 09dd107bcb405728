package reading

import (
	"fmt"

	"github.com/sweeney/th-receiver/internal/ook"
)

// Reading holds the fields of one packet.
type Reading struct {
	SensorID    uint16 // 12 bits
	Humidity    int    // percent
	Temperature int    // tenths of a degree Celsius
	Valid       bool   // checksum matched
	Raw         ook.Packet
}

const (
	tempMagnitudeMask = 0x07 // high bits of the magnitude in byte 1
	tempSignBit       = 0x08
)

// Decode extracts all fields from p. Fields are decoded even when the
// checksum fails so callers can log what was received.
func Decode(p ook.Packet) Reading {
	return Reading{
		SensorID:    SensorID(p),
		Humidity:    Humidity(p),
		Temperature: Temperature(p),
		Valid:       Validate(p),
		Raw:         p,
	}
}

// SensorID returns byte 0 and the top nibble of byte 1.
func SensorID(p ook.Packet) uint16 {
	return uint16(p[0])<<4 | uint16(p[1]>>4)
}

// Humidity returns byte 3 as a percentage.
func Humidity(p ook.Packet) int {
	return int(p[3])
}

// Temperature returns the signed temperature in tenths of a degree. The
// magnitude is 11 bits: the low 3 bits of byte 1 and all of byte 2.
func Temperature(p ook.Packet) int {
	t := int(p[1]&tempMagnitudeMask)<<8 | int(p[2])
	if p[1]&tempSignBit != 0 {
		t = -t
	}
	return t
}

// Celsius returns the temperature in degrees.
func (r Reading) Celsius() float64 {
	return float64(r.Temperature) / 10
}

// String formats the reading for logs, e.g. "sensor=0x412 temp=32.5C humidity=50% ok".
func (r Reading) String() string {
	status := "ok"
	if !r.Valid {
		status = "BAD CRC"
	}
	return fmt.Sprintf("sensor=%s temp=%s humidity=%d%% %s", FormatSensorID(r.SensorID), FormatTenths(r.Temperature), r.Humidity, status)
}

// FormatSensorID renders a sensor id as it appears in logs and payloads, e.g. "0x412".
func FormatSensorID(id uint16) string {
	return fmt.Sprintf("0x%03X", id)
}

// FormatTenths renders tenths of a degree without float rounding, e.g. -0.5C.
func FormatTenths(t int) string {
	sign := ""
	if t < 0 {
		sign = "-"
		t = -t
	}
	return fmt.Sprintf("%s%d.%dC", sign, t/10, t%10)
}
