// Package routing implements the route-and-request routing-decision
// interface and a handful of concrete routing algorithms. RoutingInfo
// bookkeeping itself lives in package phit, since it travels embedded in
// every Packet; this package only reads and updates it.
package routing

import (
	"math/rand"

	"github.com/codefan-byte/caminos-tfg-sub000/phit"
	"github.com/codefan-byte/caminos-tfg-sub000/topology"
)

// Candidate is one possible egress for a packet's leading phit at a
// router: an output port/VC pair, a label used for allocator priority and
// several virtual-channel policies, and an estimate of hops remaining.
type Candidate struct {
	OutPort                int
	OutVC                  int
	Label                  int
	EstimatedRemainingHops int
}

// Routing decides, for the leading phit of a packet sitting at a router,
// the set of candidate egresses. Implementations must not retain the
// RoutingInfo pointer beyond the call; all persistent state belongs in
// RoutingInfo.Scratch.
type Routing interface {
	// InitializeRoutingInfo prepares a freshly-created packet's
	// RoutingInfo for routing from currentRouter towards the router
	// attached to destinationServer.
	InitializeRoutingInfo(info *phit.RoutingInfo, topo topology.Topology, currentRouter, destinationServer int, rng *rand.Rand)
	// NextCandidates returns the candidate egress set for a packet whose
	// leading phit is at currentRouter, given its RoutingInfo.
	NextCandidates(topo topology.Topology, info *phit.RoutingInfo, currentRouter, destinationServer int, rng *rand.Rand) []Candidate
	// PerformedRequest notifies the routing algorithm which candidate the
	// router actually requested, so stateful algorithms can advance.
	// UpDown's implementation is a no-op.
	PerformedRequest(chosen Candidate, info *phit.RoutingInfo)
	// Idempotent declares whether an empty candidate set from
	// NextCandidates indicates a fatal routing/topology bug rather than a
	// transient condition.
	Idempotent() bool
}

// vcOfPort is the simple per-routing convention used by Shortest/Valiant/
// UpDown below: the virtual channel for a candidate equals the number of
// hops already taken, capped at numVCs-1. This is a simple "hops"
// discipline applied at the routing layer as a starting point that
// vcpolicy.Hops can subsequently refine or override.
func vcOfPort(hops, numVCs int) int {
	vc := hops
	if vc >= numVCs {
		vc = numVCs - 1
	}
	return vc
}
