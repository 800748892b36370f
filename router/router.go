// Package router implements the Basic router pipeline: per-cycle gather,
// route-and-request, allocation, advance, and self-reschedule over a
// crossbar of input/output ports, grounded on original_source's
// src/router/basic.rs.
package router

import (
	"fmt"
	"math/rand"

	"github.com/codefan-byte/caminos-tfg-sub000/allocator"
	"github.com/codefan-byte/caminos-tfg-sub000/buffer"
	"github.com/codefan-byte/caminos-tfg-sub000/event"
	"github.com/codefan-byte/caminos-tfg-sub000/phit"
	"github.com/codefan-byte/caminos-tfg-sub000/routing"
	"github.com/codefan-byte/caminos-tfg-sub000/topology"
	"github.com/codefan-byte/caminos-tfg-sub000/vcpolicy"
)

// portVC identifies one (port, virtual channel) pair, used both as an
// input key (a reserved entry buffer) and, separately, as an output key
// (a reserved egress).
type portVC struct {
	Port, VC int
}

// reservation records which packet currently owns a given input (port,
// vc), and where it is headed: the established (outPort, outVC) pair
// every subsequent phit of the packet reuses without re-routing.
type reservation struct {
	Packet *phit.Packet
	Out    portVC
}

// Stats accumulates per-router occupancy figures read by
// simulation.buildResult.
type Stats struct {
	CyclesObserved      int64
	ReceptionOccupancy  []float64 // per VC, input side: occupancy averaged over input ports, summed over cycles
	PhitsForwarded      int64
}

// Router is the Basic pipeline: bounded per-VC input buffers, a credit
// tracker per output port, a pluggable routing algorithm, a virtual
// channel policy chain, a crossbar allocator resolving contention for
// (output port, output VC) reservations, and a per-output-port token
// round-robin arbiter serializing the one-phit-per-cycle physical
// transmission slot among whichever VCs currently hold a reservation on
// that port.
//
// Simplification: links are modeled uniformly as per-VC credit trackers
// (buffer.CreditStatus) on every port, including server-facing ones,
// rather than original_source's credit/scalar-space duality; this keeps
// one flow-control model end to end without dropping either mechanism,
// since buffer.SpaceStatus remains available and tested as an alternate
// StatusAtEmissor for callers that want it. No internal per-VC output
// buffering is modeled (output_buffer_size=0 in original_source's
// vocabulary): a phit is held in its input buffer until the outgoing
// credit tracker admits it directly onto the link.
type Router struct {
	Index             int
	Topology          topology.Topology
	Routing           routing.Routing
	VCPolicies        vcpolicy.Chain
	Allocator         allocator.Allocator
	NumVCs            int
	BufferSize        int
	MaximumPacketSize int
	Bubble            bool
	AllowRequestBusyPort bool
	OutputPrioritizeLowestLabel bool
	LinkDelay         int
	Rng               *rand.Rand

	numPorts   int
	neighbours []topology.Location
	input      []*buffer.PerVCBuffers
	outgoing   []*buffer.CreditStatus

	// selected maps an input (port, vc) holding a live packet to its
	// established egress; the corresponding reverse occupancy is derived
	// by scanning (a crossbar's port count is small enough this is cheap).
	selected map[portVC]reservation

	// portToken holds, per output port, the output VC that last won the
	// physical transmission slot; the next grant starts its search one
	// past this so every VC reserved on the port eventually gets to send,
	// instead of one VC starving the others.
	portToken []int

	Stats Stats
}

// NewRouter builds a Router at index attached to topo, with numPorts
// input buffers and output credit trackers sized per numVCs/bufferSize.
func NewRouter(index int, topo topology.Topology, routingAlg routing.Routing, policies vcpolicy.Chain, alloc allocator.Allocator, numVCs, bufferSize, maximumPacketSize int, bubble, allowRequestBusyPort, outputPrioritizeLowestLabel bool, linkDelay int, rng *rand.Rand) *Router {
	numPorts := topo.Degree(index) + len(topo.ServersOf(index))
	neighbours := make([]topology.Location, numPorts)
	input := make([]*buffer.PerVCBuffers, numPorts)
	outgoing := make([]*buffer.CreditStatus, numPorts)
	for p := 0; p < numPorts; p++ {
		input[p] = buffer.NewPerVCBuffers(numVCs, bufferSize)
		outgoing[p] = buffer.NewCreditStatus(numVCs, bufferSize)
		if nr, np, ok := topo.Neighbour(index, p); ok {
			neighbours[p] = topology.RouterLocation(nr, np)
		}
		// server-facing ports are filled in below once we know which
		// server attaches to this port.
	}
	for _, s := range topo.ServersOf(index) {
		_, p := topo.ServerPort(s)
		neighbours[p] = topology.ServerLocation(s)
	}
	portToken := make([]int, numPorts)
	for p := range portToken {
		portToken[p] = numVCs - 1
	}
	return &Router{
		Index:                       index,
		Topology:                    topo,
		Routing:                     routingAlg,
		VCPolicies:                  policies,
		Allocator:                   alloc,
		NumVCs:                      numVCs,
		BufferSize:                  bufferSize,
		MaximumPacketSize:           maximumPacketSize,
		Bubble:                      bubble,
		AllowRequestBusyPort:        allowRequestBusyPort,
		OutputPrioritizeLowestLabel: outputPrioritizeLowestLabel,
		LinkDelay:                   linkDelay,
		Rng:                         rng,
		numPorts:                    numPorts,
		neighbours:                  neighbours,
		input:                       input,
		outgoing:                    outgoing,
		selected:                    make(map[portVC]reservation),
		portToken:                   portToken,
		Stats:                       Stats{ReceptionOccupancy: make([]float64, numVCs)},
	}
}

// selectByToken picks which ready output VC transmits on port this cycle,
// rotating the port's round-robin token so a VC that sent last cycle
// yields priority to the others. ready(vc) reports whether vc currently
// holds a reservation with data available and downstream credit.
func (r *Router) selectByToken(port int, ready func(vc int) bool) (int, bool) {
	for i := 1; i <= r.NumVCs; i++ {
		vc := (r.portToken[port] + i) % r.NumVCs
		if ready(vc) {
			r.portToken[port] = vc
			return vc, true
		}
	}
	return 0, false
}

// NumPorts returns the router's total port count (router-side plus
// server-attachment ports).
func (r *Router) NumPorts() int { return r.numPorts }

// Insert pushes an arriving phit into the input buffer of port; the phit
// must already carry an assigned virtual channel (assigned by whichever
// sender transmitted it).
func (r *Router) Insert(p *phit.Phit, port int) {
	if p.VirtualChannel == nil {
		panic(fmt.Sprintf("router %d: phit arrived at port %d with no virtual channel", r.Index, port))
	}
	r.input[port].VC(*p.VirtualChannel).Push(p)
}

// Acknowledge applies an incoming credit update to the outgoing status of
// port.
func (r *Router) Acknowledge(port int, msg buffer.AcknowledgeMessage) {
	r.outgoing[port].Acknowledge(msg)
}

// ProcessEnd runs the router's per-cycle pipeline: gather statistics,
// advance already-established flows, route-and-request new packets,
// allocate contested output ports, and self-reschedule for the next
// cycle. Implements event.Rescheduled.
func (r *Router) ProcessEnd(cycle int64) []event.Generation {
	r.gatherStatistics()

	grantedPort := make(map[int]bool, r.numPorts)
	var events []event.Generation

	events = append(events, r.advanceEstablished(cycle, grantedPort)...)
	events = append(events, r.routeAndAllocate(cycle, grantedPort)...)

	events = append(events, event.Generation{
		Event: event.Generic{Target: r},
		Delay: 1,
		Phase: event.End,
	})
	return events
}

func (r *Router) gatherStatistics() {
	r.Stats.CyclesObserved++
	for _, in := range r.input {
		for vc := 0; vc < r.NumVCs; vc++ {
			r.Stats.ReceptionOccupancy[vc] += float64(in.VC(vc).Len()) / float64(r.numPorts)
		}
	}
}

// advanceEstablished lets packets that already own an (outPort, outVC)
// reservation attempt to place their head phit on the link, highest
// priority over brand-new route requests (original_source's
// intransit_priority, generalized to always-on). Several reservations can
// be live on the same output port at once (one per VC); at most one of
// them may actually use the port's physical wire this cycle, decided by
// the port's round-robin token arbiter so every reserved VC eventually
// gets to send instead of the first-found one starving the rest.
func (r *Router) advanceEstablished(cycle int64, grantedPort map[int]bool) []event.Generation {
	var events []event.Generation

	byPort := make(map[int]map[int]portVC)
	for key, res := range r.selected {
		if grantedPort[res.Out.Port] {
			continue
		}
		if byPort[res.Out.Port] == nil {
			byPort[res.Out.Port] = make(map[int]portVC)
		}
		byPort[res.Out.Port][res.Out.VC] = key
	}

	for port, byOutVC := range byPort {
		ready := func(vc int) bool {
			key, ok := byOutVC[vc]
			if !ok {
				return false
			}
			res := r.selected[key]
			head := r.input[key.Port].VC(key.VC).Front()
			if head == nil {
				return false
			}
			necessary := r.necessaryCredits(key.Port, res.Out.Port, head)
			return r.outgoing[res.Out.Port].CanSend(res.Out.VC, necessary)
		}
		vc, ok := r.selectByToken(port, ready)
		if !ok {
			continue
		}
		key := byOutVC[vc]
		grantedPort[port] = true
		r.transmit(key, r.selected[key], cycle, &events)
	}
	return events
}

// necessaryCredits returns how much downstream room head's transmission
// requires: a begin phit crossing a direction-change port under bubble
// flow control must reserve room for the whole packet plus a maximum-size
// packet behind it, to guarantee later packets on this path never
// deadlock waiting for a partial packet to drain.
func (r *Router) necessaryCredits(inPort, outPort int, head *phit.Phit) int {
	if !head.IsBegin() {
		return 1
	}
	if r.Bubble && r.Topology.DirectionChange(r.Index, inPort, outPort) {
		return head.Packet.Size + r.MaximumPacketSize
	}
	return 1
}

type pendingRequest struct {
	In     portVC
	Out    portVC
	Label  int
	Packet *phit.Packet
}

// routeAndAllocate gathers new route requests from ports with an
// unreserved head begin-phit, resolves (output port, output VC)
// contention through the allocator, and attempts immediate transmission
// for newly granted requests via the port's token arbiter.
func (r *Router) routeAndAllocate(cycle int64, grantedPort map[int]bool) []event.Generation {
	var events []event.Generation
	var requests []pendingRequest

	for p := 0; p < r.numPorts; p++ {
		for vc := 0; vc < r.NumVCs; vc++ {
			key := portVC{p, vc}
			if _, reserved := r.selected[key]; reserved {
				continue
			}
			head := r.input[p].VC(vc).Front()
			if head == nil || !head.IsBegin() {
				continue
			}
			req, ok := r.buildRequest(key, head)
			if !ok {
				continue
			}
			if !r.AllowRequestBusyPort && grantedPort[req.Out.Port] {
				continue
			}
			requests = append(requests, req)
		}
	}

	reqByClient := make(map[int]pendingRequest, len(requests))
	for _, req := range requests {
		client := req.In.Port*r.NumVCs + req.In.VC
		reqByClient[client] = req
		var priority *int
		if r.OutputPrioritizeLowestLabel {
			l := req.Label
			priority = &l
		}
		// The allocate-step resource is the (output port, output VC)
		// pair, not the bare port: two packets destined to different VCs
		// of the same output port must be able to hold separate
		// reservations at once. Only the physical transmission slot,
		// arbitrated below by port, is shared per port.
		resource := req.Out.Port*r.NumVCs + req.Out.VC
		r.Allocator.AddRequest(allocator.Request{Client: client, Resource: resource, Priority: priority})
	}

	granted := r.Allocator.PerformAllocation(r.Rng)
	newByPort := make(map[int]map[int]portVC)
	for _, g := range granted.Granted {
		req, ok := reqByClient[g.Client]
		if !ok {
			continue
		}
		r.selected[req.In] = reservation{Packet: req.Packet, Out: req.Out}
		// A granted request toward another router is one router traversal.
		if destRouter, _ := r.Topology.ServerPort(req.Packet.Message.Destination); destRouter != r.Index {
			req.Packet.RoutingInfo.IncrementHops()
		}
		if newByPort[req.Out.Port] == nil {
			newByPort[req.Out.Port] = make(map[int]portVC)
		}
		newByPort[req.Out.Port][req.Out.VC] = req.In
	}

	// Newly granted reservations attempt immediate transmission, arbitrated
	// by the same per-port round-robin token as already in-flight flows;
	// at most one phit crosses a given output port this cycle.
	for port, byOutVC := range newByPort {
		if grantedPort[port] {
			continue
		}
		ready := func(vc int) bool {
			key, ok := byOutVC[vc]
			if !ok {
				return false
			}
			res := r.selected[key]
			head := r.input[key.Port].VC(key.VC).Front()
			if head == nil {
				return false
			}
			necessary := r.necessaryCredits(key.Port, res.Out.Port, head)
			return r.outgoing[res.Out.Port].CanSend(res.Out.VC, necessary)
		}
		vc, ok := r.selectByToken(port, ready)
		if !ok {
			continue
		}
		key := byOutVC[vc]
		grantedPort[port] = true
		r.transmit(key, r.selected[key], cycle, &events)
	}
	return events
}

// buildRequest routes a freshly arrived begin phit's packet to a
// candidate egress, applying the virtual channel policy chain, and
// reports whether a usable candidate survived this cycle.
func (r *Router) buildRequest(in portVC, head *phit.Phit) (pendingRequest, bool) {
	packet := head.Packet
	dest := packet.Message.Destination
	destRouter, destPort := r.Topology.ServerPort(dest)

	var outPort, outVC, label int
	if destRouter == r.Index {
		outPort, outVC, label = destPort, 0, 0
	} else {
		info := packet.RoutingInfo
		cands := r.Routing.NextCandidates(r.Topology, info, r.Index, dest, r.Rng)
		if len(cands) == 0 {
			if r.Routing.Idempotent() {
				panic(fmt.Sprintf("router %d: routing produced no candidates for an idempotent algorithm", r.Index))
			}
			return pendingRequest{}, false
		}
		vcCands := make([]vcpolicy.Candidate, len(cands))
		for i, c := range cands {
			vcCands[i] = vcpolicy.Candidate{Candidate: c, RouterAllows: r.canRequestOutput(in, c.OutPort, c.OutVC)}
		}
		ctx := r.policyContext(in.VC)
		chosen := r.VCPolicies.Apply(vcCands, ctx)
		if len(chosen) == 0 {
			return pendingRequest{}, false
		}
		outPort, outVC, label = chosen[0].OutPort, chosen[0].OutVC, chosen[0].Label
		r.Routing.PerformedRequest(chosen[0].Candidate, info)
	}
	return pendingRequest{In: in, Out: portVC{outPort, outVC}, Label: label, Packet: packet}, true
}

// canRequestOutput reports whether (outPort, outVC) is free to be newly
// claimed by a packet other than the one already occupying it, and that
// downstream credit currently exists for it.
func (r *Router) canRequestOutput(in portVC, outPort, outVC int) bool {
	for k, res := range r.selected {
		if k != in && res.Out.Port == outPort && res.Out.VC == outVC {
			return false
		}
	}
	return r.outgoing[outPort].CanSend(outVC, 1)
}

func (r *Router) policyContext(entryVC int) *vcpolicy.Context {
	occupancy := func(port, vc int) int {
		return r.BufferSize - r.outgoing[port].Available(vc)
	}
	return &vcpolicy.Context{
		Rng:                r.Rng,
		EntryVC:            entryVC,
		InternalOccupancy:  occupancy,
		NeighbourOccupancy: occupancy,
		Credits:            func(port, vc int) int { return r.outgoing[port].Available(vc) },
		MaxCredits:         func(_, _ int) int { return r.BufferSize },
	}
}

// transmit dequeues head of (in.Port, in.VC), sends it downstream via
// out, releases the reservation once the tail phit leaves, and schedules
// both the forward transmission and the backward credit acknowledgement.
func (r *Router) transmit(in portVC, res reservation, cycle int64, events *[]event.Generation) {
	buf := r.input[in.Port].VC(in.VC)
	ph := buf.Pop()
	ph.AssignVirtualChannel(res.Out.VC)
	r.outgoing[res.Out.Port].NotifySent(res.Out.VC)
	r.Stats.PhitsForwarded++

	if ph.IsEnd() {
		delete(r.selected, in)
	}

	from := topology.RouterLocation(r.Index, res.Out.Port)
	*events = append(*events, event.Generation{
		Event: event.PhitToLocation{Phit: ph, Previous: from, New: r.neighbours[res.Out.Port]},
		Delay: r.LinkDelay,
		Phase: event.Begin,
	})
	*events = append(*events, event.Generation{
		Event: event.Acknowledge{
			Location: r.neighbours[in.Port],
			Message:  buffer.AcknowledgeMessage{VC: in.VC, Credit: 1},
		},
		Delay: r.LinkDelay,
		Phase: event.Begin,
	})
}
