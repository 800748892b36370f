package traffic

import (
	"math/rand"

	"github.com/codefan-byte/caminos-tfg-sub000/phit"
)

// Permutation sends every server's traffic to a single fixed destination
// server chosen at construction time (dest[i] for origin i), generating
// with fixed probability Load. Useful for deterministic stress scenarios
// such as injection saturation on a single
// bottleneck"). Grounded on original_source's pattern.rs permutation
// family.
type Permutation struct {
	Dest        []int
	MessageSize int
	Load        float64
}

// NewPermutation creates a Permutation traffic with the given per-origin
// destination mapping.
func NewPermutation(dest []int, messageSize int, load float64) *Permutation {
	return &Permutation{Dest: dest, MessageSize: messageSize, Load: load}
}

func (p *Permutation) ShouldGenerate(_ int, _ int64, rng *rand.Rand) bool {
	return rng.Float64() < p.Load
}

func (p *Permutation) GenerateMessage(origin int, cycle int64, _ *rand.Rand) (*phit.Message, RejectionReason) {
	if origin < 0 || origin >= len(p.Dest) {
		return nil, OriginOutsideTraffic
	}
	dest := p.Dest[origin]
	if dest == origin {
		return nil, SelfMessage
	}
	return phit.NewMessage(origin, dest, p.MessageSize, cycle), ""
}

func (p *Permutation) NotifyConsumed(_ *phit.Message, _ int64) {}

func (p *Permutation) Finished() bool { return false }

func (p *Permutation) Reset() {}
