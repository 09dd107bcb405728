package mqtt

import "github.com/charmbracelet/log"

// queuedMsg is a serialized message waiting for a broker connection.
type queuedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// outbox holds the most recent messages published while disconnected.
// When full, the oldest message is overwritten: a fresh reading is worth more
// than a stale one. Not safe for concurrent use.
type outbox struct {
	slots   []queuedMsg
	next    int // slot the next message goes into
	n       int
	dropped int // overwritten since the last takeAll
}

func newOutbox(capacity int) *outbox {
	if capacity < 1 {
		capacity = 1
	}
	return &outbox{slots: make([]queuedMsg, capacity)}
}

func (o *outbox) add(m queuedMsg) {
	if o.n == len(o.slots) {
		if o.dropped == 0 {
			log.Warn("mqtt: outbox full, dropping oldest", "capacity", len(o.slots))
		}
		o.dropped++
	} else {
		o.n++
	}
	o.slots[o.next] = m
	o.next = (o.next + 1) % len(o.slots)
}

// takeAll empties the outbox, returning messages oldest first and the number
// of messages lost to overflow.
func (o *outbox) takeAll() ([]queuedMsg, int) {
	dropped := o.dropped
	o.dropped = 0
	if o.n == 0 {
		return nil, dropped
	}

	out := make([]queuedMsg, 0, o.n)
	oldest := (o.next - o.n + len(o.slots)) % len(o.slots)
	for i := 0; i < o.n; i++ {
		out = append(out, o.slots[(oldest+i)%len(o.slots)])
	}
	o.n = 0
	o.next = 0
	return out, dropped
}

func (o *outbox) pending() int {
	return o.n
}
