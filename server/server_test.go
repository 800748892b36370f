package server

import (
	"math/rand"
	"testing"

	"github.com/codefan-byte/caminos-tfg-sub000/buffer"
	"github.com/codefan-byte/caminos-tfg-sub000/phit"
	"github.com/codefan-byte/caminos-tfg-sub000/topology"
	"github.com/codefan-byte/caminos-tfg-sub000/traffic"
	"github.com/stretchr/testify/require"
)

func newTestServer(index int, load float64) *Server {
	return NewServer(
		index,
		topology.RouterLocation(0, index),
		4,
		2,
		buffer.NewCreditStatus(2, 8),
		&buffer.RoundRobinAdmission{},
		traffic.NewUniform(4, 4, load),
	)
}

func TestServerGeneratesPacketizesAndInjects(t *testing.T) {
	s := newTestServer(0, 1.0)
	rng := rand.New(rand.NewSource(1))

	var events []interface{}
	for cycle := int64(0); cycle < 8 && len(events) == 0; cycle++ {
		gens := s.Advance(cycle, rng, 1)
		for _, g := range gens {
			events = append(events, g.Event)
		}
	}
	require.NotEmpty(t, events, "server should eventually inject a phit")
	require.Equal(t, 1, s.Stats.CreatedMessages)
	require.GreaterOrEqual(t, s.Stats.GeneratedPhits, 1)
}

func TestServerRespectsOutgoingBackpressure(t *testing.T) {
	s := newTestServer(0, 1.0)
	rng := rand.New(rand.NewSource(1))
	status := buffer.NewCreditStatus(2, 0)
	s.Outgoing = status

	gens := s.Advance(0, rng, 1)
	require.Empty(t, gens, "zero credit must block injection")
}

func TestServerConsumeTracksMessageCompletion(t *testing.T) {
	s := newTestServer(1, 0.0)
	msg := phit.NewMessage(0, 1, 4, 0)
	pkt := phit.NewPacket(msg, 0, 4)
	phits := pkt.Phits()

	for i, p := range phits[:3] {
		done := s.Consume(p, int64(i))
		require.False(t, done)
	}
	done := s.Consume(phits[3], 3)
	require.True(t, done)
	require.Equal(t, 1, s.Stats.ConsumedMessages)
	require.Equal(t, 4, s.Stats.ConsumedPhits)
}

func TestServerConsumePanicsOnWrongDestination(t *testing.T) {
	s := newTestServer(1, 0.0)
	msg := phit.NewMessage(0, 2, 1, 0)
	pkt := phit.NewPacket(msg, 0, 1)
	require.Panics(t, func() {
		s.Consume(pkt.Phits()[0], 0)
	})
}
