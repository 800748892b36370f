package topology

import "testing"

import "github.com/stretchr/testify/require"

func TestRingDistanceAndNeighbourSymmetry(t *testing.T) {
	r := NewRing(6)
	require.Equal(t, 3, r.Distance(0, 3))
	require.Equal(t, 1, r.Distance(0, 1))
	require.Equal(t, 1, r.Distance(0, 5))

	next, revPort, ok := r.Neighbour(0, 0)
	require.True(t, ok)
	back, _, ok := r.Neighbour(next, revPort)
	require.True(t, ok)
	require.Equal(t, 0, back)
}

func TestTorusDirectionChangeAndDistance(t *testing.T) {
	tor := NewTorus(4, 4)
	require.Equal(t, 4, tor.Degree(0))
	require.True(t, tor.DirectionChange(0, 0, 2)) // +x then +y: dimension changes
	require.False(t, tor.DirectionChange(0, 0, 0)) // same port/dimension
	require.Equal(t, 0, tor.Distance(0, 0))
}

func TestCrossbarAlwaysOneHop(t *testing.T) {
	c := NewCrossbar(8)
	require.Equal(t, 0, c.Distance(2, 2))
	require.Equal(t, 1, c.Distance(2, 5))
	router, port := c.ServerPort(3)
	require.Equal(t, 0, router)
	require.Equal(t, 3, port)
}

func TestMultistageBipartiteConnectivity(t *testing.T) {
	ms := NewMultistage(4, 2, 2)
	require.Equal(t, 6, ms.NumRouters())
	require.Equal(t, 8, ms.NumServers())
	// every leaf connects directly to every spine.
	for leaf := 0; leaf < 4; leaf++ {
		for port := 0; port < 2; port++ {
			spine, _, ok := ms.Neighbour(leaf, port)
			require.True(t, ok)
			require.True(t, spine >= 4)
		}
	}
}
