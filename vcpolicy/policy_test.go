package vcpolicy

import (
	"math/rand"
	"testing"

	"github.com/codefan-byte/caminos-tfg-sub000/routing"
	"github.com/stretchr/testify/require"
)

func cand(port, vc, label int, allow bool) Candidate {
	return Candidate{Candidate: routing.Candidate{OutPort: port, OutVC: vc, Label: label}, RouterAllows: allow}
}

func TestChainTerminatesAtMostOneCandidate(t *testing.T) {
	ctx := &Context{
		Rng:               rand.New(rand.NewSource(1)),
		Credits:           func(_, _ int) int { return 1 },
		InternalOccupancy: func(_, _ int) int { return 0 },
	}
	chain := Chain{EnforceFlowControl{}, LowestLabel{}}
	candidates := []Candidate{cand(0, 0, 5, true), cand(1, 0, 2, true), cand(2, 0, 9, false)}
	out := chain.Apply(candidates, ctx)
	require.Len(t, out, 1)
	require.Equal(t, 1, out[0].OutPort)
}

func TestEnforceFlowControlFiltersDisallowed(t *testing.T) {
	out := EnforceFlowControl{}.Apply([]Candidate{cand(0, 0, 0, false), cand(1, 0, 0, true)}, &Context{})
	require.Len(t, out, 1)
	require.Equal(t, 1, out[0].OutPort)
}

func TestWideHopsBandsVC(t *testing.T) {
	w := WideHops{Width: 4, Hops: 2}
	out := w.Apply([]Candidate{cand(0, 1, 0, true)}, &Context{})
	require.Equal(t, 8+1, out[0].OutVC)
}

func TestLabelSaturateClamps(t *testing.T) {
	l := LabelSaturate{Value: 10, Bottom: 0}
	out := l.Apply([]Candidate{cand(0, 0, 20, true), cand(0, 0, -5, true)}, &Context{})
	require.Equal(t, 10, out[0].Label)
	require.Equal(t, 0, out[1].Label)
}

func TestLowestSinghWeightPicksMinimalProduct(t *testing.T) {
	ctx := &Context{InternalOccupancy: func(port, _ int) int {
		if port == 0 {
			return 10
		}
		return 1
	}}
	c0 := routing.Candidate{OutPort: 0, OutVC: 0, EstimatedRemainingHops: 1}
	c1 := routing.Candidate{OutPort: 1, OutVC: 0, EstimatedRemainingHops: 1}
	out := LowestSinghWeight{Source: OccupancyInternal, NumVCs: 1}.Apply(
		[]Candidate{{Candidate: c0}, {Candidate: c1}}, ctx)
	require.Len(t, out, 1)
	require.Equal(t, 1, out[0].OutPort)
}

func TestShiftEntryVCFiltersOffsets(t *testing.T) {
	ctx := &Context{EntryVC: 2}
	s := ShiftEntryVC{AllowedOffsets: []int{0, 1}}
	out := s.Apply([]Candidate{cand(0, 2, 0, true), cand(0, 3, 0, true), cand(0, 5, 0, true)}, ctx)
	require.Len(t, out, 2)
}

func TestMapLabelDispatchesPerLabel(t *testing.T) {
	m := MapLabel{ByLabel: map[int]Policy{0: LowestLabel{}}, Default: Identity{}}
	out := m.Apply([]Candidate{cand(0, 0, 0, true), cand(1, 0, 0, true), cand(2, 0, 1, true)}, &Context{})
	// label-0 group collapses to one via LowestLabel (tie keeps first),
	// label-1 group passes through via Default.
	require.Len(t, out, 2)
}
