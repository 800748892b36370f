// Package vcpolicy implements the VirtualChannelPolicy chain: a sequence
// of filters/transforms applied to a router's candidate egress set each
// arbitration cycle, composed left to right and required to terminate
// with at most one candidate.
package vcpolicy

import (
	"math/rand"

	"github.com/codefan-byte/caminos-tfg-sub000/routing"
)

// Candidate augments a routing.Candidate with the router-computed
// RouterAllows flag (flow-control admission AND
// busy-port gating), which only EnforceFlowControl filters on, but every
// other policy must thread through unchanged.
type Candidate struct {
	routing.Candidate
	RouterAllows bool
}

// OccupancySource selects which occupancy figure LowestSinghWeight (and
// OccupancyFunction) read for congestion scoring.
type OccupancySource int

const (
	// OccupancyInternal reads the router's own output-buffer occupancy
	// for the candidate's (port, vc).
	OccupancyInternal OccupancySource = iota
	// OccupancyNeighbour reads the downstream neighbour's reported queue
	// occupancy for the candidate's own (port, vc), not aggregated.
	OccupancyNeighbour
	// OccupancyAggregated sums occupancy across all VCs of the port.
	OccupancyAggregated
	// OccupancyPerVC reads only the candidate's own (port, vc) occupancy,
	// without aggregation (equivalent to OccupancyInternal but named
	// distinctly for configs that want to be explicit).
	OccupancyPerVC
)

// Context carries the per-cycle, per-router state policies need to
// evaluate candidates: occupancy readers, the entry VC of the packet
// being routed, and the shared RNG stream.
type Context struct {
	Rng *rand.Rand
	// EntryVC is the VC the packet arrived on at this router (server
	// ports pass 0).
	EntryVC int
	// InternalOccupancy returns the router's own output-buffer occupancy
	// for (port, vc).
	InternalOccupancy func(port, vc int) int
	// NeighbourOccupancy returns the downstream neighbour's reported
	// buffer occupancy for (port, vc).
	NeighbourOccupancy func(port, vc int) int
	// Credits returns the known-available downstream credits/space for
	// (port, vc), used by Shortest ("most credits").
	Credits func(port, vc int) int
	// MaxCredits returns the maximum (full) credit count for (port, vc).
	// None of the policies in this package reads it.
	MaxCredits func(port, vc int) int
}

// occupancy reads the configured source for a candidate.
func (c *Context) occupancy(source OccupancySource, cand Candidate, numVCs int) int {
	switch source {
	case OccupancyNeighbour:
		return c.NeighbourOccupancy(cand.OutPort, cand.OutVC)
	case OccupancyAggregated:
		total := 0
		for vc := 0; vc < numVCs; vc++ {
			total += c.InternalOccupancy(cand.OutPort, vc)
		}
		return total
	default: // OccupancyInternal, OccupancyPerVC
		return c.InternalOccupancy(cand.OutPort, cand.OutVC)
	}
}

// Policy maps a candidate set to a (possibly smaller or re-labeled)
// candidate set. Composed left to right by Chain.
type Policy interface {
	Apply(candidates []Candidate, ctx *Context) []Candidate
}

// Chain composes policies left to right. The final result may hold more
// than one candidate; the router takes the first and does not check the
// count.
type Chain []Policy

// Apply runs every policy in order, feeding each one's output to the
// next.
func (c Chain) Apply(candidates []Candidate, ctx *Context) []Candidate {
	for _, p := range c {
		candidates = p.Apply(candidates, ctx)
		if len(candidates) == 0 {
			return candidates
		}
	}
	return candidates
}
