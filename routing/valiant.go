package routing

import (
	"math/rand"

	"github.com/codefan-byte/caminos-tfg-sub000/phit"
	"github.com/codefan-byte/caminos-tfg-sub000/topology"
)

// Valiant is a randomized oblivious routing: a packet is first routed
// shortest-path to a uniformly random intermediate router chosen at
// injection, then shortest-path from there to the real destination. This
// load-balances adversarial traffic patterns at the cost of extra hops.
// Supplemented from original_source/src/pattern.rs, which treats Valiant
// as a standard baseline.
type Valiant struct {
	NumVCs int
	shortest *Shortest
}

// NewValiant creates a Valiant routing using numVCs virtual channels.
func NewValiant(numVCs int) *Valiant {
	return &Valiant{NumVCs: numVCs, shortest: NewShortest(numVCs)}
}

const scratchIntermediate = "valiant_intermediate"
const scratchPhaseTwo = "valiant_phase_two"

func (v *Valiant) InitializeRoutingInfo(info *phit.RoutingInfo, topo topology.Topology, currentRouter, _ int, rng *rand.Rand) {
	info.Hops = 0
	intermediate := rng.Intn(topo.NumRouters())
	info.Scratch[scratchIntermediate] = intermediate
	info.Scratch[scratchPhaseTwo] = intermediate == currentRouter
}

func (v *Valiant) NextCandidates(topo topology.Topology, info *phit.RoutingInfo, currentRouter, destinationServer int, rng *rand.Rand) []Candidate {
	phaseTwo, _ := info.Scratch[scratchPhaseTwo].(bool)
	if phaseTwo {
		return v.shortest.NextCandidates(topo, info, currentRouter, destinationServer, rng)
	}
	intermediate, _ := info.Scratch[scratchIntermediate].(int)
	if currentRouter == intermediate {
		info.Scratch[scratchPhaseTwo] = true
		return v.shortest.NextCandidates(topo, info, currentRouter, destinationServer, rng)
	}

	destRouter, _ := topo.ServerPort(destinationServer)
	myDist := topo.Distance(currentRouter, intermediate)
	var candidates []Candidate
	for port := 0; port < topo.Degree(currentRouter); port++ {
		neighbour, _, ok := topo.Neighbour(currentRouter, port)
		if !ok {
			continue
		}
		d := topo.Distance(neighbour, intermediate)
		if d < myDist {
			candidates = append(candidates, Candidate{
				OutPort:                port,
				OutVC:                  vcOfPort(info.Hops, v.NumVCs),
				Label:                  d,
				EstimatedRemainingHops: d + topo.Distance(intermediate, destRouter),
			})
		}
	}
	return candidates
}

func (v *Valiant) PerformedRequest(_ Candidate, _ *phit.RoutingInfo) {}

func (v *Valiant) Idempotent() bool { return true }
