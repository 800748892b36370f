package allocator

import "math/rand"

// roundVec holds the clients (or resources) requested by one resource (or
// client), sorted each round using a rotating pointer as the pivot so
// that iteration proceeds round-robin from the current priority. Grounded
// on original_source/src/allocator/islip.rs's RoundVec.
type roundVec struct {
	pointer int
	clients []int
	n       int
}

func newRoundVec(n int) *roundVec {
	return &roundVec{n: n}
}

func (v *roundVec) add(element int) {
	v.clients = append(v.clients, element)
}

func (v *roundVec) incrementPointer() {
	v.pointer = (v.pointer + 1) % v.n
}

func (v *roundVec) isEmpty() bool { return len(v.clients) == 0 }

// sort orders v.clients by distance forward from the pivot pointer,
// wrapping around v.n. Uses a stable sort so ties (impossible here, since
// clients are distinct) would preserve insertion order.
func (v *roundVec) sortFromPointer() {
	pointer, size := v.pointer, v.n
	key := func(k int) int {
		if k < pointer {
			return k + size
		}
		return k
	}
	// insertion sort: round vectors are small (one entry per port), and
	// this mirrors the Rust implementation's sort_unstable_by_key without
	// pulling in sort.Slice's interface overhead for a tiny slice.
	for i := 1; i < len(v.clients); i++ {
		x := v.clients[i]
		kx := key(x)
		j := i - 1
		for j >= 0 && key(v.clients[j]) > kx {
			v.clients[j+1] = v.clients[j]
			j--
		}
		v.clients[j+1] = x
	}
}

func (v *roundVec) reset() { v.clients = v.clients[:0] }

// Islip is an iterative round-robin matching allocator for input-queued
// switches (https://doi.org/10.1109/90.769767). Pointers rotate only when
// a grant is accepted during the first iteration, preserving fairness
// across later, unmatched iterations. Grounded on
// original_source/src/allocator/islip.rs.
type Islip struct {
	numClients, numResources, numIterations int
	inMatch, outMatch                       []bool
	inRequests                              []*roundVec
	outRequests                             []*roundVec
}

// NewIslip creates an Islip allocator running numIterations rounds per
// cycle (default 1 if numIterations <= 0).
func NewIslip(numClients, numResources, numIterations int) *Islip {
	if numIterations <= 0 {
		numIterations = 1
	}
	in := make([]*roundVec, numClients)
	for i := range in {
		in[i] = newRoundVec(numResources)
	}
	out := make([]*roundVec, numResources)
	for i := range out {
		out[i] = newRoundVec(numClients)
	}
	return &Islip{
		numClients:     numClients,
		numResources:   numResources,
		numIterations:  numIterations,
		inMatch:        make([]bool, numClients),
		outMatch:       make([]bool, numResources),
		inRequests:     in,
		outRequests:    out,
	}
}

func (a *Islip) AddRequest(r Request) {
	a.inRequests[r.Client].add(r.Resource)
	a.outRequests[r.Resource].add(r.Client)
}

// PerformAllocation runs the grant/accept iterations. rng is unused (iSLIP
// is deterministic given request order and pointer state), matching
// original_source's `_rng` parameter.
func (a *Islip) PerformAllocation(_ *rand.Rand) GrantedRequests {
	var gr GrantedRequests

	for c := 0; c < a.numClients; c++ {
		a.inRequests[c].sortFromPointer()
	}
	for r := 0; r < a.numResources; r++ {
		a.outRequests[r].sortFromPointer()
	}
	for c := range a.inMatch {
		a.inMatch[c] = false
	}
	for r := range a.outMatch {
		a.outMatch[r] = false
	}

	for iter := 0; iter < a.numIterations; iter++ {
		grants := make([]int, a.numResources)
		for i := range grants {
			grants[i] = -1
		}

		// Grant phase: each unmatched resource with pending requests
		// grants the first unmatched client in its rotated order.
		for resource := 0; resource < a.numResources; resource++ {
			if a.outMatch[resource] || a.outRequests[resource].isEmpty() {
				continue
			}
			for _, client := range a.outRequests[resource].clients {
				if !a.inMatch[client] {
					grants[resource] = client
					break
				}
			}
		}

		// Accept phase: each unmatched client with pending requests
		// accepts the first grant addressed to it in its rotated order,
		// advancing pointers only on the first iteration.
		for client := 0; client < a.numClients; client++ {
			if a.inRequests[client].isEmpty() {
				continue
			}
			for _, resource := range a.inRequests[client].clients {
				if grants[resource] != client {
					continue
				}
				a.inMatch[client] = true
				a.outMatch[resource] = true
				gr.Granted = append(gr.Granted, Request{Client: client, Resource: resource})
				if iter == 0 {
					a.inRequests[client].incrementPointer()
					a.outRequests[resource].incrementPointer()
				}
				break
			}
		}
	}

	for c := 0; c < a.numClients; c++ {
		a.inRequests[c].reset()
	}
	for r := 0; r < a.numResources; r++ {
		a.outRequests[r].reset()
	}
	return gr
}

func (a *Islip) SupportsIntransitPriority() bool { return false }
