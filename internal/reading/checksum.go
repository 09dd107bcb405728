// Package reading validates decoded packets and extracts sensor fields.
package reading

import "github.com/sweeney/th-receiver/internal/ook"

// crcPoly is the feedback constant, applied MSB first.
const crcPoly = 0x31

// Checksum computes the CRC-8 (poly 0x31, MSB first, init 0) over data.
// Packets are checked over their first four bytes.
func Checksum(data []byte) byte {
	var crc byte
	for _, b := range data {
		for i := 0; i < 8; i++ {
			mix := (crc ^ b) & 0x80
			crc <<= 1
			if mix != 0 {
				crc ^= crcPoly
			}
			b <<= 1
		}
	}
	return crc
}

// Validate reports whether the trailer byte matches the header checksum.
func Validate(p ook.Packet) bool {
	return Checksum(p[:ook.PacketLen-1]) == p[ook.PacketLen-1]
}
