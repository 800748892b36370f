package allocator

import (
	"math/rand"
	"sort"
)

// RandomPriority shuffles requests, then stably sorts by priority
// ascending (lower priority value wins ties first), and grants in that
// order while neither the client nor the resource is yet taken. Requests
// with no priority set sort after all prioritized ones, preserving their
// post-shuffle relative order. Grounded on
// original_source/src/allocator/random_priority.rs.
type RandomPriority struct {
	numClients, numResources int
	requests                 []Request
}

// NewRandomPriority creates a RandomPriority allocator for the given
// crossbar shape.
func NewRandomPriority(numClients, numResources int) *RandomPriority {
	return &RandomPriority{numClients: numClients, numResources: numResources}
}

func (r *RandomPriority) AddRequest(req Request) {
	r.requests = append(r.requests, req)
}

func (r *RandomPriority) PerformAllocation(rng *rand.Rand) GrantedRequests {
	order := rng.Perm(len(r.requests))
	shuffled := make([]Request, len(order))
	for i, idx := range order {
		shuffled[i] = r.requests[idx]
	}

	sort.SliceStable(shuffled, func(i, j int) bool {
		pi, pj := shuffled[i].Priority, shuffled[j].Priority
		switch {
		case pi == nil && pj == nil:
			return false
		case pi == nil:
			return false
		case pj == nil:
			return true
		default:
			return *pi < *pj
		}
	})

	clientTaken := make([]bool, r.numClients)
	resourceTaken := make([]bool, r.numResources)
	var granted []Request
	for _, req := range shuffled {
		if clientTaken[req.Client] || resourceTaken[req.Resource] {
			continue
		}
		clientTaken[req.Client] = true
		resourceTaken[req.Resource] = true
		granted = append(granted, req)
	}
	r.requests = nil
	return GrantedRequests{Granted: granted}
}

func (r *RandomPriority) SupportsIntransitPriority() bool { return true }
