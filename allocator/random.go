package allocator

import "math/rand"

// Random grants a shuffled set of requests, first-come-first-served
// against free clients/resources: neither the client nor the resource may
// already be taken. Grounded on original_source/src/allocator/random.rs.
type Random struct {
	numClients, numResources int
	requests                 []Request
}

// NewRandom creates a Random allocator for the given crossbar shape.
func NewRandom(numClients, numResources int) *Random {
	return &Random{numClients: numClients, numResources: numResources}
}

func (r *Random) AddRequest(req Request) {
	r.requests = append(r.requests, req)
}

func (r *Random) PerformAllocation(rng *rand.Rand) GrantedRequests {
	order := rng.Perm(len(r.requests))
	clientTaken := make([]bool, r.numClients)
	resourceTaken := make([]bool, r.numResources)

	var granted []Request
	for _, i := range order {
		req := r.requests[i]
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

func (r *Random) SupportsIntransitPriority() bool { return false }
