package routing

import (
	"math/rand"
	"testing"

	"github.com/codefan-byte/caminos-tfg-sub000/phit"
	"github.com/codefan-byte/caminos-tfg-sub000/topology"
	"github.com/stretchr/testify/require"
)

func TestUpDownAscendsThenDescends(t *testing.T) {
	ms := topology.NewMultistage(4, 2, 1) // 4 leaves, 2 spines, 1 server each
	r := NewUpDown(2)
	info := phit.NewRoutingInfo()
	rng := rand.New(rand.NewSource(3))

	current := 0   // leaf 0 (server 0)
	destServer := 3 // attached to leaf 3
	r.InitializeRoutingInfo(info, ms, current, destServer, rng)

	var path []int
	for steps := 0; steps < 5 && current != 3; steps++ {
		cands := r.NextCandidates(ms, info, current, destServer, rng)
		require.NotEmpty(t, cands)
		chosen := cands[0]
		next, _, _ := ms.Neighbour(current, chosen.OutPort)
		path = append(path, next)
		current = next
		info.IncrementHops()
	}
	require.Equal(t, 3, current)
	// exactly one ascent (leaf->spine) then one descent (spine->leaf).
	require.Len(t, path, 2)
	require.Equal(t, 1, ms.Level(path[0]))
	require.Equal(t, 0, ms.Level(path[1]))
}
