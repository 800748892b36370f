package allocator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomNoDoubleGrant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	a := NewRandom(4, 4)
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			a.AddRequest(Request{Client: c, Resource: r})
		}
	}
	gr := a.PerformAllocation(rng)
	clients := map[int]bool{}
	resources := map[int]bool{}
	for _, req := range gr.Granted {
		require.False(t, clients[req.Client])
		require.False(t, resources[req.Resource])
		clients[req.Client] = true
		resources[req.Resource] = true
	}
}

func TestRandomPriorityHonorsOrderingAndNoDoubleGrant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := NewRandomPriority(3, 3)
	p0, p1 := 0, 1
	// two clients contend for the same resource; lower priority wins.
	a.AddRequest(Request{Client: 0, Resource: 0, Priority: &p1})
	a.AddRequest(Request{Client: 1, Resource: 0, Priority: &p0})
	a.AddRequest(Request{Client: 2, Resource: 2, Priority: &p0})

	gr := a.PerformAllocation(rng)
	clients := map[int]bool{}
	resources := map[int]bool{}
	for _, req := range gr.Granted {
		require.False(t, clients[req.Client])
		require.False(t, resources[req.Resource])
		clients[req.Client] = true
		resources[req.Resource] = true
	}
	require.True(t, clients[1])
	require.False(t, clients[0])
	require.True(t, a.SupportsIntransitPriority())
}
