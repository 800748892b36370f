package phit

// RoutingInfo is mutable per-packet state updated on each router traversal.
// Hops counts completed traversals; Scratch holds algorithm-specific data
// (Valiant's chosen intermediate router and its phase flag).
// It is created once at server injection and lives for the packet's
// lifetime in the network.
type RoutingInfo struct {
	Hops    int
	Scratch map[string]any
}

// NewRoutingInfo returns a fresh, zeroed RoutingInfo.
func NewRoutingInfo() *RoutingInfo {
	return &RoutingInfo{Scratch: make(map[string]any)}
}

// IncrementHops records one completed router traversal.
func (r *RoutingInfo) IncrementHops() { r.Hops++ }

// Packet is the unit routed through the network: a contiguous run of phits
// sharing one path and, at any given hop, one virtual channel.
type Packet struct {
	// Size is the number of phits in the packet.
	Size int
	// RoutingInfo is mutable per-packet routing bookkeeping.
	RoutingInfo *RoutingInfo
	// Message is the parent application-level message.
	Message *Message
	// Index is this packet's position within Message.
	Index int
	// CycleIntoNetwork is the cycle the leading phit entered its first
	// router; zero means the packet has not yet entered the network.
	CycleIntoNetwork int
}

// NewPacket creates a packet of the given size belonging to message at the
// given index, with fresh RoutingInfo.
func NewPacket(message *Message, index, size int) *Packet {
	return &Packet{
		Size:        size,
		RoutingInfo: NewRoutingInfo(),
		Message:     message,
		Index:       index,
	}
}

// Phits flattens the packet into its constituent phits, index 0..Size-1.
func (p *Packet) Phits() []*Phit {
	phits := make([]*Phit, p.Size)
	for i := range phits {
		phits[i] = NewPhit(p, i)
	}
	return phits
}
