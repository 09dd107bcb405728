package ook

// PreambleBits is the number of 1-bits a transmitter sends before the packet.
const PreambleBits = 8

// Modulate renders bits as line samples, one per tick: a HIGH pulse of
// HighPulseMin (1) or LowPulseMin (0) samples followed by a LOW gap one
// sample longer than IdleMin. The first pulse is preceded by one LOW sample
// and the last is followed by a full gap so it gets classified.
func Modulate(bits []Bit, t Timing) []bool {
	gap := t.IdleMin + 1
	out := make([]bool, 0, 1+len(bits)*(t.LowPulseMin+gap))
	out = append(out, false)
	for _, b := range bits {
		n := t.LowPulseMin
		if b == One {
			n = t.HighPulseMin
		}
		for i := 0; i < n; i++ {
			out = append(out, true)
		}
		for i := 0; i < gap; i++ {
			out = append(out, false)
		}
	}
	return out
}

// FrameBits returns the bits a transmitter sends for p: the preamble, then
// the packet MSB first. The MSB of byte 0 doubles as the 0 that ends the sync
// pattern, so a packet frames correctly only if that bit is clear.
func FrameBits(p Packet) []Bit {
	bits := make([]Bit, 0, PreambleBits+PacketLen*8)
	for i := 0; i < PreambleBits; i++ {
		bits = append(bits, One)
	}
	for i := 0; i < PacketLen*8; i++ {
		bits = append(bits, Bit(p[i/8]>>(7-uint(i%8)))&1)
	}
	return bits
}

// Transmission renders the complete waveform for p.
func Transmission(p Packet, t Timing) []bool {
	return Modulate(FrameBits(p), t)
}
