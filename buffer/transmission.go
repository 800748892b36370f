package buffer

// AcknowledgeMessage is the payload of an Acknowledge event travelling
// back along a link: either a per-VC credit increment, or a refreshed
// total-available-space value for a scalar space tracker.
type AcknowledgeMessage struct {
	// Credit, when Space is false, is the number of credits returned for
	// VC; CreditStatus.Acknowledge adds exactly one credit to VC per message.
	Credit int
	// Space is true when this message carries a fresh available-space
	// value instead of a credit increment; only SpaceStatus accepts it.
	Space       bool
	SpaceValue  int
	VC          int
}

// StatusAtEmissor tracks, at the sending end of a link, how much room is
// currently known to exist at the receiving end. It is the only admission
// control for transmission.
type StatusAtEmissor interface {
	// CanSend reports whether at least `need` phits of room are believed
	// available for virtual channel vc (ignored by scalar trackers).
	CanSend(vc, need int) bool
	// NotifySent must be called exactly once per phit actually
	// transmitted, to optimistically decrement the local view.
	NotifySent(vc int)
	// Acknowledge applies a received AcknowledgeMessage, refreshing the
	// local view from authoritative downstream state.
	Acknowledge(msg AcknowledgeMessage)
	// Available returns the current known-free room for vc.
	Available(vc int) int
}

// CreditStatus is a per-VC credit-counter vector: one counter per virtual
// channel, decremented on send and incremented by credit Acknowledge
// messages. The simulation uses it on every link, including the
// server→router injection links.
type CreditStatus struct {
	credits []int
}

// NewCreditStatus creates a CreditStatus with numVCs channels, each
// initialized to the given per-VC buffer size (full credit at start).
func NewCreditStatus(numVCs, bufferSize int) *CreditStatus {
	c := make([]int, numVCs)
	for i := range c {
		c[i] = bufferSize
	}
	return &CreditStatus{credits: c}
}

func (c *CreditStatus) CanSend(vc, need int) bool { return c.credits[vc] >= need }

func (c *CreditStatus) NotifySent(vc int) { c.credits[vc]-- }

func (c *CreditStatus) Acknowledge(msg AcknowledgeMessage) {
	if msg.Space {
		panic("buffer: CreditStatus received a space Acknowledge")
	}
	c.credits[msg.VC]++
}

func (c *CreditStatus) Available(vc int) int { return c.credits[vc] }

// SpaceStatus is a single-scalar available-space tracker whose
// Acknowledge carries the receiver's current maximum free space directly
// rather than an incremental credit. The simulation does not build one:
// server→router links use CreditStatus like every other link.
type SpaceStatus struct {
	free int
}

// NewSpaceStatus creates a SpaceStatus initialized to the given capacity.
func NewSpaceStatus(capacity int) *SpaceStatus {
	return &SpaceStatus{free: capacity}
}

func (s *SpaceStatus) CanSend(_ int, need int) bool { return s.free >= need }

func (s *SpaceStatus) NotifySent(_ int) { s.free-- }

func (s *SpaceStatus) Acknowledge(msg AcknowledgeMessage) {
	if !msg.Space {
		panic("buffer: SpaceStatus received a credit Acknowledge")
	}
	s.free = msg.SpaceValue
}

func (s *SpaceStatus) Available(_ int) int { return s.free }
