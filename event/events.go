package event

import (
	"github.com/codefan-byte/caminos-tfg-sub000/buffer"
	"github.com/codefan-byte/caminos-tfg-sub000/phit"
	"github.com/codefan-byte/caminos-tfg-sub000/topology"
)

// PhitToLocation moves a phit across a link, arriving at New after the
// link's class delay. Always a Begin-phase event.
type PhitToLocation struct {
	Phit     *phit.Phit
	Previous topology.Location
	New      topology.Location
}

// Acknowledge travels on the reverse direction of a link, carrying a
// credit or space update back to the sender. Always a Begin-phase event.
type Acknowledge struct {
	Location topology.Location
	Message  buffer.AcknowledgeMessage
}

// Rescheduled is implemented by anything that can be re-added to the
// End phase of a future cycle to continue unfinished work (a Router, in
// practice). Go's garbage collector makes the self-reference safe to hold
// directly; original_source uses a weak handle there only because Rust's
// Rc reference counting cannot otherwise collect the cycle.
type Rescheduled interface {
	ProcessEnd(cycle int64) []Generation
}

// Generic wraps a Rescheduled target whose ProcessEnd method runs at the
// End phase of the cycle it is enqueued for.
type Generic struct {
	Target Rescheduled
}

// Generation is a request to insert an event into the queue after Delay
// cycles, in the given Phase.
type Generation struct {
	Event Event
	Delay int
	Phase Phase
}
