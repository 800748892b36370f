// Package traffic defines the synthetic-traffic collaborator interface a
// Server consults to generate new messages. Concrete topology-independent
// traffic patterns are supplied as reference implementations; the full
// traffic/pattern subsystem is treated as an external collaborator
// honored only through this interface.
package traffic

import (
	"math/rand"

	"github.com/codefan-byte/caminos-tfg-sub000/phit"
)

// RejectionReason names why GenerateMessage declined to produce a
// message for a server this cycle.
type RejectionReason string

const (
	// OriginOutsideTraffic: the server is not configured to originate
	// traffic (e.g. it is excluded by a load-imbalance pattern).
	OriginOutsideTraffic RejectionReason = "origin-outside-traffic"
	// SelfMessage: the chosen destination equals the origin.
	SelfMessage RejectionReason = "self-message"
)

// Traffic decides, per server per cycle, whether to generate a new
// message, and reports completion for horizon-based traffic models.
type Traffic interface {
	// ShouldGenerate reports whether server origin should attempt to
	// generate a message this cycle, given the Poisson/burst/replay model
	// the traffic implements.
	ShouldGenerate(origin int, cycle int64, rng *rand.Rand) bool
	// GenerateMessage produces a message from origin, sized per the
	// traffic model, or a rejection reason. Size is in phits.
	GenerateMessage(origin int, cycle int64, rng *rand.Rand) (*phit.Message, RejectionReason)
	// NotifyConsumed is called when a message completes,
	// letting finite/replay traffic models track remaining work.
	NotifyConsumed(msg *phit.Message, cycle int64)
	// Finished reports whether the traffic model has no more work to
	// generate and nothing remains in flight, ending the simulation early
	// ending the simulation early when nothing remains to do.
	Finished() bool
	// Reset is called at the warmup/measured boundary.
	Reset()
}
