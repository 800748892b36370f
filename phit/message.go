package phit

// Message is an application-level transfer between two servers, fragmented
// into one or more Packets at injection time.
type Message struct {
	Origin         int
	Destination    int
	Size           int // phits
	CreationCycle  int64
}

// NewMessage creates a message from origin to destination, of the given
// size in phits, created at the given cycle.
func NewMessage(origin, destination, size int, creationCycle int64) *Message {
	return &Message{
		Origin:        origin,
		Destination:   destination,
		Size:          size,
		CreationCycle: creationCycle,
	}
}

// Packetize splits the message into packets of at most maxPacketSize phits
// each. The last packet may be smaller. Simple greedy chunking, no
// reordering.
func (m *Message) Packetize(maxPacketSize int) []*Packet {
	if maxPacketSize <= 0 {
		panic("phit: Packetize requires maxPacketSize > 0")
	}
	var packets []*Packet
	remaining := m.Size
	idx := 0
	for remaining > 0 {
		size := remaining
		if size > maxPacketSize {
			size = maxPacketSize
		}
		packets = append(packets, NewPacket(m, idx, size))
		remaining -= size
		idx++
	}
	return packets
}
