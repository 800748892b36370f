// Package allocator implements the per-cycle request/grant matching
// abstraction, grounded in original_source's
// src/allocator/{mod,random,random_priority,islip}.rs.
package allocator

import "math/rand"

// Request is a client (crossbar input) asking for a resource (crossbar
// output), with an optional priority: lower values are granted earlier
// when the allocator honors priority. A nil Priority means the request
// carries none; RandomPriority grants such requests after all prioritized
// ones.
type Request struct {
	Client   int
	Resource int
	Priority *int
}

// GrantedRequests is the result of one allocation round.
type GrantedRequests struct {
	Granted []Request
}

// Allocator matches client requests to resources once per cycle. State
// accumulates via AddRequest and drains on PerformAllocation.
type Allocator interface {
	AddRequest(r Request)
	PerformAllocation(rng *rand.Rand) GrantedRequests
	// SupportsIntransitPriority declares whether this allocator honors
	// Request.Priority to distinguish router-sourced from server-sourced
	// traffic.
	SupportsIntransitPriority() bool
}
