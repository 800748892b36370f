package routing

import (
	"math/rand"

	"github.com/codefan-byte/caminos-tfg-sub000/phit"
	"github.com/codefan-byte/caminos-tfg-sub000/topology"
)

// Shortest routes greedily towards the destination: at each router, every
// neighbour port that strictly decreases topology distance to the
// destination router is a candidate, labeled by resulting distance
// (lower is better, so LowestLabel prefers the minimal-distance choice).
type Shortest struct {
	NumVCs int
}

// NewShortest creates a Shortest routing using numVCs virtual channels
// per port (VC assignment follows the hop-count discipline).
func NewShortest(numVCs int) *Shortest {
	return &Shortest{NumVCs: numVCs}
}

func (s *Shortest) InitializeRoutingInfo(info *phit.RoutingInfo, _ topology.Topology, _, _ int, _ *rand.Rand) {
	info.Hops = 0
}

func (s *Shortest) NextCandidates(topo topology.Topology, info *phit.RoutingInfo, currentRouter, destinationServer int, _ *rand.Rand) []Candidate {
	destRouter, _ := topo.ServerPort(destinationServer)
	if currentRouter == destRouter {
		_, port := topo.ServerPort(destinationServer)
		return []Candidate{{
			OutPort:                port,
			OutVC:                  vcOfPort(info.Hops, s.NumVCs),
			Label:                  0,
			EstimatedRemainingHops: 0,
		}}
	}

	myDist := topo.Distance(currentRouter, destRouter)
	var candidates []Candidate
	for port := 0; port < topo.Degree(currentRouter); port++ {
		neighbour, _, ok := topo.Neighbour(currentRouter, port)
		if !ok {
			continue
		}
		d := topo.Distance(neighbour, destRouter)
		if d < myDist {
			candidates = append(candidates, Candidate{
				OutPort:                port,
				OutVC:                  vcOfPort(info.Hops, s.NumVCs),
				Label:                  d,
				EstimatedRemainingHops: d,
			})
		}
	}
	return candidates
}

func (s *Shortest) PerformedRequest(_ Candidate, _ *phit.RoutingInfo) {}

func (s *Shortest) Idempotent() bool { return true }
