package traffic

import (
	"math/rand"

	"github.com/codefan-byte/caminos-tfg-sub000/phit"
)

// Uniform generates, independently for every server each cycle, a message
// of fixed size to a uniformly random different server with probability
// Load (messages per server per cycle). Grounded on original_source's
// pattern.rs "uniform" baseline pattern, re-expressed as a Traffic
// implementation.
type Uniform struct {
	NumServers  int
	MessageSize int
	Load        float64
}

// NewUniform creates a Uniform traffic generator.
func NewUniform(numServers, messageSize int, load float64) *Uniform {
	return &Uniform{NumServers: numServers, MessageSize: messageSize, Load: load}
}

func (u *Uniform) ShouldGenerate(_ int, _ int64, rng *rand.Rand) bool {
	return rng.Float64() < u.Load
}

func (u *Uniform) GenerateMessage(origin int, cycle int64, rng *rand.Rand) (*phit.Message, RejectionReason) {
	if u.NumServers <= 1 {
		return nil, OriginOutsideTraffic
	}
	dest := rng.Intn(u.NumServers)
	if dest == origin {
		return nil, SelfMessage
	}
	return phit.NewMessage(origin, dest, u.MessageSize, cycle), ""
}

func (u *Uniform) NotifyConsumed(_ *phit.Message, _ int64) {}

func (u *Uniform) Finished() bool { return false }

func (u *Uniform) Reset() {}
