package allocator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// A fully connected 8x8 crossbar with the 8
// requests of a permutation; num_iter=2 must yield exactly 8 grants, each
// client matched to the resource it requested and no client or resource
// granted twice.
func TestIslipPermutationMatch(t *testing.T) {
	const n = 8
	perm := []int{3, 0, 5, 1, 7, 2, 4, 6}

	run := func() GrantedRequests {
		a := NewIslip(n, n, 2)
		for client, resource := range perm {
			a.AddRequest(Request{Client: client, Resource: resource})
		}
		return a.PerformAllocation(rand.New(rand.NewSource(1)))
	}

	gr := run()
	require.Len(t, gr.Granted, n)

	seenClients := map[int]bool{}
	seenResources := map[int]bool{}
	for _, req := range gr.Granted {
		require.False(t, seenClients[req.Client], "client granted twice")
		require.False(t, seenResources[req.Resource], "resource granted twice")
		seenClients[req.Client] = true
		seenResources[req.Resource] = true
		require.Equal(t, perm[req.Client], req.Resource)
	}
}

func TestIslipPointerAdvancesOnlyOnFirstIterationAccept(t *testing.T) {
	const n = 4
	a := NewIslip(n, n, 1)
	for c := 0; c < n; c++ {
		a.AddRequest(Request{Client: c, Resource: c})
	}
	before := make([]int, n)
	for i, rv := range a.inRequests {
		before[i] = rv.pointer
	}
	a.PerformAllocation(nil)
	for i, rv := range a.inRequests {
		require.Equal(t, (before[i]+1)%n, rv.pointer)
	}
}

func TestIslipSupportsIntransitPriorityFalse(t *testing.T) {
	require.False(t, NewIslip(2, 2, 1).SupportsIntransitPriority())
}
