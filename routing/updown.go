package routing

import (
	"math/rand"

	"github.com/codefan-byte/caminos-tfg-sub000/phit"
	"github.com/codefan-byte/caminos-tfg-sub000/topology"
)

// leveledTopology is satisfied by topology.Multistage; UpDown requires it
// to tell up-ports from down-ports.
type leveledTopology interface {
	topology.Topology
	Level(router int) int
	IsUpPort(router, port int) bool
}

// UpDown routes a monotonically-ascending then monotonically-descending
// path between leaf routers, as used in folded-Clos/fat-tree networks:
// it climbs through up-ports while the current router's level is below
// the destination leaf's nearest common ancestor, then descends through
// down-ports once any spine connects towards the destination leaf.
// Supplemented from original_source/src/topology/multistage.rs, which
// defines the up/down adjacency this routing needs but does not
// itself instantiate a routing algorithm over it (the distilled design
// drops the routing layer entirely).
type UpDown struct {
	NumVCs int
}

// NewUpDown creates an UpDown routing using numVCs virtual channels (one
// VC band for the ascending phase, one for the descending phase, via
// vcOfPort keyed on hops as with the other routings here).
func NewUpDown(numVCs int) *UpDown {
	return &UpDown{NumVCs: numVCs}
}

func (u *UpDown) InitializeRoutingInfo(info *phit.RoutingInfo, _ topology.Topology, _, _ int, _ *rand.Rand) {
	info.Hops = 0
}

// NextCandidates prefers any port whose neighbour is the destination leaf
// directly (the descending move); failing that, at a leaf router it
// offers every up-port (the ascending move). A spine in a full bipartite
// 2-level Clos is always directly connected to every leaf, so the descent
// always succeeds in one hop once a packet reaches a spine.
func (u *UpDown) NextCandidates(topo topology.Topology, info *phit.RoutingInfo, currentRouter, destinationServer int, _ *rand.Rand) []Candidate {
	lt, ok := topo.(leveledTopology)
	if !ok {
		panic("routing: UpDown requires a leveled topology (topology.Multistage)")
	}
	destRouter, destPort := lt.ServerPort(destinationServer)
	if currentRouter == destRouter {
		return []Candidate{{OutPort: destPort, OutVC: vcOfPort(info.Hops, u.NumVCs), Label: 0, EstimatedRemainingHops: 0}}
	}

	var descending []Candidate
	var ascending []Candidate
	for port := 0; port < topo.Degree(currentRouter); port++ {
		neighbour, _, ok := topo.Neighbour(currentRouter, port)
		if !ok {
			continue
		}
		if neighbour == destRouter {
			descending = append(descending, Candidate{OutPort: port, OutVC: vcOfPort(info.Hops, u.NumVCs), Label: 0, EstimatedRemainingHops: 1})
			continue
		}
		if lt.IsUpPort(currentRouter, port) {
			d := lt.Distance(neighbour, destRouter)
			ascending = append(ascending, Candidate{OutPort: port, OutVC: vcOfPort(info.Hops, u.NumVCs), Label: d, EstimatedRemainingHops: d})
		}
	}
	if len(descending) > 0 {
		return descending
	}
	return ascending
}

func (u *UpDown) PerformedRequest(_ Candidate, _ *phit.RoutingInfo) {}

func (u *UpDown) Idempotent() bool { return true }
