// Package server implements traffic generation, packetization, injection
// and consumption at a network endpoint.
package server

import (
	"fmt"
	"math/rand"

	"github.com/codefan-byte/caminos-tfg-sub000/buffer"
	"github.com/codefan-byte/caminos-tfg-sub000/event"
	"github.com/codefan-byte/caminos-tfg-sub000/phit"
	"github.com/codefan-byte/caminos-tfg-sub000/topology"
	"github.com/codefan-byte/caminos-tfg-sub000/traffic"
)

// maxPendingMessages bounds the server's message FIFO before traffic
// generation pauses.
const maxPendingMessages = 20

// Stats accumulates per-server counters consulted by the Statistics
// component for fairness computation.
type Stats struct {
	CreatedMessages    int
	GeneratedPhits     int
	ConsumedPhits      int
	ConsumedMessages   int
	TotalMessageDelay  int64
}

// Server models one network endpoint: traffic generation, packetization,
// flattening into phits, injection over its outgoing link, and consumption
// of arriving phits.
type Server struct {
	Index            int
	RouterPort       topology.Location
	MaximumPacketSize int

	Traffic traffic.Traffic
	Outgoing buffer.StatusAtEmissor
	Admission buffer.AdmissionPolicy
	NumVCs   int

	admissionScratch *buffer.PerVCBuffers

	messages []*phit.Message
	packets  []*phit.Packet
	// phits are the flattened phits of the head packet awaiting
	// injection; VC unassigned until the admission policy picks one for
	// the leading phit.
	phits []*phit.Phit

	// consumed tracks, per in-flight message destined here, how many
	// phits have arrived so far.
	consumed map[*phit.Message]int

	Stats Stats
}

// NewServer creates a Server at the given index, attached to routerPort,
// injecting over the given outgoing status with numVCs admitted via
// policy.
func NewServer(index int, routerPort topology.Location, maximumPacketSize, numVCs int, outgoing buffer.StatusAtEmissor, admission buffer.AdmissionPolicy, traf traffic.Traffic) *Server {
	return &Server{
		Index:             index,
		RouterPort:        routerPort,
		MaximumPacketSize: maximumPacketSize,
		Traffic:           traf,
		Outgoing:          outgoing,
		Admission:         admission,
		NumVCs:            numVCs,
		consumed:          make(map[*phit.Message]int),
		admissionScratch:  buffer.NewPerVCBuffers(numVCs, 1),
	}
}

// Advance performs one cycle's worth of generate/packetize/inject,
// returning any events to schedule (phit transmission).
func (s *Server) Advance(cycle int64, rng *rand.Rand, linkDelay int) []event.Generation {
	s.maybeGenerate(cycle, rng)
	s.maybePacketize()
	s.maybeFlatten()
	return s.maybeInject(cycle, linkDelay)
}

func (s *Server) maybeGenerate(cycle int64, rng *rand.Rand) {
	if len(s.messages) >= maxPendingMessages {
		return
	}
	if !s.Traffic.ShouldGenerate(s.Index, cycle, rng) {
		return
	}
	msg, reason := s.Traffic.GenerateMessage(s.Index, cycle, rng)
	if reason != "" {
		// OriginOutsideTraffic / SelfMessage: silently skipped.
		return
	}
	s.messages = append(s.messages, msg)
	s.Stats.CreatedMessages++
}

func (s *Server) maybePacketize() {
	if len(s.packets) > 0 || len(s.messages) == 0 {
		return
	}
	head := s.messages[0]
	s.messages = s.messages[1:]
	s.packets = append(s.packets, head.Packetize(s.MaximumPacketSize)...)
}

func (s *Server) maybeFlatten() {
	if len(s.phits) > 0 || len(s.packets) == 0 {
		return
	}
	head := s.packets[0]
	s.packets = s.packets[1:]
	s.phits = append(s.phits, head.Phits()...)
}

func (s *Server) maybeInject(cycle int64, linkDelay int) []event.Generation {
	if len(s.phits) == 0 {
		return nil
	}
	head := s.phits[0]
	vc := 0
	if head.VirtualChannel != nil {
		vc = *head.VirtualChannel
	} else if !head.IsBegin() {
		panic(fmt.Sprintf("server %d: non-begin phit with no VC at injection", s.Index))
	}
	if !s.Outgoing.CanSend(vc, 1) {
		return nil
	}
	if head.VirtualChannel == nil {
		vc = s.Admission.SelectVC(head, s.admissionScratch)
		head.AssignVirtualChannel(vc)
		// s.phits holds exactly this packet's phits; the rest inherit vc.
		for _, rest := range s.phits[1:] {
			rest.AssignVirtualChannel(vc)
		}
	}
	s.phits = s.phits[1:]
	s.Outgoing.NotifySent(vc)
	s.Stats.GeneratedPhits++

	from := topology.ServerLocation(s.Index)
	return []event.Generation{{
		Event: event.PhitToLocation{Phit: head, Previous: from, New: s.RouterPort},
		Delay: linkDelay,
		Phase: event.Begin,
	}}
}

// Acknowledge applies an incoming credit/space update from the attached
// router.
func (s *Server) Acknowledge(msg buffer.AcknowledgeMessage) {
	s.Outgoing.Acknowledge(msg)
}

// Consume processes one arriving phit destined for this server. Returns
// true when the owning message has just completed.
func (s *Server) Consume(p *phit.Phit, cycle int64) bool {
	msg := p.Packet.Message
	if msg.Destination != s.Index {
		panic(fmt.Sprintf("server %d: consumed phit not addressed here (dest=%d)", s.Index, msg.Destination))
	}
	s.consumed[msg]++
	s.Stats.ConsumedPhits++
	if s.consumed[msg] < msg.Size {
		return false
	}
	delete(s.consumed, msg)
	s.Stats.ConsumedMessages++
	s.Stats.TotalMessageDelay += cycle - msg.CreationCycle
	s.Traffic.NotifyConsumed(msg, cycle)
	return true
}

