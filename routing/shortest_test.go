package routing

import (
	"math/rand"
	"testing"

	"github.com/codefan-byte/caminos-tfg-sub000/phit"
	"github.com/codefan-byte/caminos-tfg-sub000/topology"
	"github.com/stretchr/testify/require"
)

func TestShortestOnRingReducesDistanceMonotonically(t *testing.T) {
	ring := topology.NewRing(8)
	r := NewShortest(2)
	info := phit.NewRoutingInfo()
	rng := rand.New(rand.NewSource(1))

	current := 0
	destServer := 4 // server 4 attaches to router 4
	r.InitializeRoutingInfo(info, ring, current, destServer, rng)

	for steps := 0; steps < 10 && current != 4; steps++ {
		cands := r.NextCandidates(ring, info, current, destServer, rng)
		require.NotEmpty(t, cands)
		chosen := cands[0]
		next, _, _ := ring.Neighbour(current, chosen.OutPort)
		require.Less(t, ring.Distance(next, 4), ring.Distance(current, 4))
		current = next
		info.IncrementHops()
	}
	require.Equal(t, 4, current)
	require.Equal(t, 4, info.Hops)
}

func TestShortestIdempotent(t *testing.T) {
	require.True(t, NewShortest(2).Idempotent())
}
