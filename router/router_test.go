package router

import (
	"math/rand"
	"testing"

	"github.com/codefan-byte/caminos-tfg-sub000/allocator"
	"github.com/codefan-byte/caminos-tfg-sub000/buffer"
	"github.com/codefan-byte/caminos-tfg-sub000/event"
	"github.com/codefan-byte/caminos-tfg-sub000/phit"
	"github.com/codefan-byte/caminos-tfg-sub000/topology"
	"github.com/codefan-byte/caminos-tfg-sub000/vcpolicy"
	"github.com/stretchr/testify/require"
)

func newCrossbarRouter(n int) *Router {
	topo := topology.NewCrossbar(n)
	// Resources are (port, vc) pairs: n ports * 2 VCs each.
	alloc := allocator.NewRandom(n*2, n*2)
	return NewRouter(0, topo, nil, vcpolicy.Chain{}, alloc, 2, 4, 4, false, true, false, 1, rand.New(rand.NewSource(1)))
}

func TestRouterForwardsDirectServerHop(t *testing.T) {
	r := newCrossbarRouter(3)
	msg := phit.NewMessage(0, 2, 1, 0)
	pkt := phit.NewPacket(msg, 0, 1)
	ph := pkt.Phits()[0]
	ph.AssignVirtualChannel(0)

	r.Insert(ph, 0)
	events := r.ProcessEnd(0)

	var forwarded bool
	for _, g := range events {
		if ptl, ok := g.Event.(event.PhitToLocation); ok {
			require.Equal(t, topology.ServerLocation(2), ptl.New)
			forwarded = true
		}
	}
	require.True(t, forwarded, "phit destined for an attached server should be forwarded this cycle")
}

func TestRouterBlocksOnZeroCredit(t *testing.T) {
	r := newCrossbarRouter(3)
	for p := range r.outgoing {
		r.outgoing[p] = buffer.NewCreditStatus(2, 0)
	}
	msg := phit.NewMessage(0, 2, 1, 0)
	pkt := phit.NewPacket(msg, 0, 1)
	ph := pkt.Phits()[0]
	ph.AssignVirtualChannel(0)

	r.Insert(ph, 0)
	events := r.ProcessEnd(0)
	for _, g := range events {
		_, isForward := g.Event.(event.PhitToLocation)
		require.False(t, isForward, "zero credit must block transmission")
	}
	require.Contains(t, r.selected, portVC{0, 0}, "the packet should still hold its reservation, waiting for credit")
}

func TestRouterReleasesReservationAtPacketTail(t *testing.T) {
	r := newCrossbarRouter(3)
	msg := phit.NewMessage(0, 2, 3, 0)
	pkt := phit.NewPacket(msg, 0, 3)
	phits := pkt.Phits()
	for _, p := range phits {
		p.AssignVirtualChannel(0)
	}

	r.Insert(phits[0], 0)
	r.ProcessEnd(0)
	require.Contains(t, r.selected, portVC{0, 0})

	r.Insert(phits[1], 0)
	r.ProcessEnd(1)
	require.Contains(t, r.selected, portVC{0, 0}, "reservation persists until the tail phit leaves")

	r.Insert(phits[2], 0)
	r.ProcessEnd(2)
	require.NotContains(t, r.selected, portVC{0, 0}, "reservation releases once the tail phit is transmitted")
}

func TestRouterSelfReschedules(t *testing.T) {
	r := newCrossbarRouter(2)
	events := r.ProcessEnd(0)
	var sawGeneric bool
	for _, g := range events {
		if gen, ok := g.Event.(event.Generic); ok {
			require.Equal(t, event.End, g.Phase)
			require.Equal(t, 1, g.Delay)
			require.Same(t, r, gen.Target)
			sawGeneric = true
		}
	}
	require.True(t, sawGeneric)
}
