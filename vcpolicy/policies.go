package vcpolicy

import "sort"

// Identity passes the candidate set through unchanged.
type Identity struct{}

func (Identity) Apply(candidates []Candidate, _ *Context) []Candidate { return candidates }

// Random picks one candidate uniformly at random.
type Random struct{}

func (Random) Apply(candidates []Candidate, ctx *Context) []Candidate {
	if len(candidates) <= 1 {
		return candidates
	}
	i := ctx.Rng.Intn(len(candidates))
	return []Candidate{candidates[i]}
}

// EnforceFlowControl keeps only candidates the router has marked as
// admitted by flow control and port-busy gating.
type EnforceFlowControl struct{}

func (EnforceFlowControl) Apply(candidates []Candidate, _ *Context) []Candidate {
	var out []Candidate
	for _, c := range candidates {
		if c.RouterAllows {
			out = append(out, c)
		}
	}
	return out
}

// Shortest keeps the single candidate with the most available downstream
// credits, i.e. the least congested egress; the earliest wins a tie.
type Shortest struct{}

func (Shortest) Apply(candidates []Candidate, ctx *Context) []Candidate {
	if len(candidates) <= 1 {
		return candidates
	}
	best := candidates[0]
	bestCredits := ctx.Credits(best.OutPort, best.OutVC)
	for _, c := range candidates[1:] {
		cr := ctx.Credits(c.OutPort, c.OutVC)
		if cr > bestCredits {
			best, bestCredits = c, cr
		}
	}
	return []Candidate{best}
}

// Hops relabels each candidate's VC to equal the packet's completed hop
// count, with a server-port passthrough (VC 0) — the discipline already
// applied at the routing layer by default; this policy exists so a chain
// can reassert it after other policies have touched VC assignment.
type Hops struct {
	NumVCs int
}

func (h Hops) Apply(candidates []Candidate, ctx *Context) []Candidate {
	out := make([]Candidate, len(candidates))
	for i, c := range candidates {
		vc := ctx.EntryVC
		if vc >= h.NumVCs {
			vc = h.NumVCs - 1
		}
		c.OutVC = vc
		out[i] = c
	}
	return out
}

// WideHops assigns each candidate a VC band [width*hops, width*(hops+1)),
// keeping hop count separated into disjoint VC ranges to aid deadlock
// avoidance in topologies with many hops.
type WideHops struct {
	Width int
	Hops  int
}

func (w WideHops) Apply(candidates []Candidate, _ *Context) []Candidate {
	out := make([]Candidate, len(candidates))
	for i, c := range candidates {
		band := w.Width * w.Hops
		c.OutVC = band + (c.OutVC % w.Width)
		out[i] = c
	}
	return out
}

// LowestLabel keeps the single candidate with the minimal Label; the
// earliest wins a tie.
type LowestLabel struct{}

func (LowestLabel) Apply(candidates []Candidate, _ *Context) []Candidate {
	if len(candidates) <= 1 {
		return candidates
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Label < best.Label {
			best = c
		}
	}
	return []Candidate{best}
}

// NegateLabel flips the sign of every candidate's label, turning a
// lowest-label preference into a highest-label one when chained before
// LowestLabel.
type NegateLabel struct{}

func (NegateLabel) Apply(candidates []Candidate, _ *Context) []Candidate {
	out := make([]Candidate, len(candidates))
	for i, c := range candidates {
		c.Label = -c.Label
		out[i] = c
	}
	return out
}

// LabelSaturate clamps every candidate's label to [bottom, value].
type LabelSaturate struct {
	Value, Bottom int
}

func (l LabelSaturate) Apply(candidates []Candidate, _ *Context) []Candidate {
	out := make([]Candidate, len(candidates))
	for i, c := range candidates {
		switch {
		case c.Label > l.Value:
			c.Label = l.Value
		case c.Label < l.Bottom:
			c.Label = l.Bottom
		}
		out[i] = c
	}
	return out
}

// LabelTransform applies label = clamp(label*mul + add), dropping
// candidates the Filter predicate rejects (nil Filter keeps all).
type LabelTransform struct {
	Mul, Add     int
	ClampMin     int
	ClampMax     int
	HasClamp     bool
	Filter       func(label int) bool
}

func (l LabelTransform) Apply(candidates []Candidate, _ *Context) []Candidate {
	var out []Candidate
	for _, c := range candidates {
		label := c.Label*l.Mul + l.Add
		if l.HasClamp {
			if label > l.ClampMax {
				label = l.ClampMax
			}
			if label < l.ClampMin {
				label = l.ClampMin
			}
		}
		if l.Filter != nil && !l.Filter(label) {
			continue
		}
		c.Label = label
		out = append(out, c)
	}
	return out
}

// NumVCsHint lets LowestSinghWeight and OccupancyFunction know how many
// VCs to aggregate over for OccupancyAggregated.
type NumVCsHint int

// LowestSinghWeight keeps the single candidate minimizing
// (congestion+extraC)*(distance+extraD), the classic Singh-weight
// adaptive-routing tie-break ("Singh weight"); the earliest wins a tie.
type LowestSinghWeight struct {
	Source  OccupancySource
	NumVCs  int
	ExtraC  int
	ExtraD  int
}

func (l LowestSinghWeight) Apply(candidates []Candidate, ctx *Context) []Candidate {
	if len(candidates) <= 1 {
		return candidates
	}
	weight := func(c Candidate) int {
		congestion := ctx.occupancy(l.Source, c, l.NumVCs)
		return (congestion + l.ExtraC) * (c.EstimatedRemainingHops + l.ExtraD)
	}
	best := candidates[0]
	bestW := weight(best)
	for _, c := range candidates[1:] {
		w := weight(c)
		if w < bestW {
			best, bestW = c, w
		}
	}
	return []Candidate{best}
}

// OccupancyFunction keeps the single candidate minimizing a·L + b·Q + c·L·Q + d,
// where L is the candidate's label and Q is its read occupancy; the
// earliest wins a tie.
type OccupancyFunction struct {
	Source           OccupancySource
	NumVCs           int
	A, B, C, D       int
}

func (o OccupancyFunction) Apply(candidates []Candidate, ctx *Context) []Candidate {
	if len(candidates) <= 1 {
		return candidates
	}
	score := func(c Candidate) int {
		q := ctx.occupancy(o.Source, c, o.NumVCs)
		l := c.Label
		return o.A*l + o.B*q + o.C*l*q + o.D
	}
	best := candidates[0]
	bestS := score(best)
	for _, c := range candidates[1:] {
		s := score(c)
		if s < bestS {
			best, bestS = c, s
		}
	}
	return []Candidate{best}
}

// VecLabel relabels each candidate by looking up its current Label in a
// lookup table (out-of-range values pass through unchanged).
type VecLabel struct {
	Table []int
}

func (v VecLabel) Apply(candidates []Candidate, _ *Context) []Candidate {
	out := make([]Candidate, len(candidates))
	for i, c := range candidates {
		if c.Label >= 0 && c.Label < len(v.Table) {
			c.Label = v.Table[c.Label]
		}
		out[i] = c
	}
	return out
}

// MapLabel dispatches each candidate to a sub-policy selected by its
// current Label, applying each sub-policy to the subset of candidates
// sharing that label and concatenating the results.
type MapLabel struct {
	ByLabel map[int]Policy
	Default Policy
}

func (m MapLabel) Apply(candidates []Candidate, ctx *Context) []Candidate {
	groups := map[int][]Candidate{}
	var order []int
	for _, c := range candidates {
		if _, seen := groups[c.Label]; !seen {
			order = append(order, c.Label)
		}
		groups[c.Label] = append(groups[c.Label], c)
	}
	sort.Ints(order)
	var out []Candidate
	for _, label := range order {
		p, ok := m.ByLabel[label]
		if !ok {
			p = m.Default
		}
		if p == nil {
			out = append(out, groups[label]...)
			continue
		}
		out = append(out, p.Apply(groups[label], ctx)...)
	}
	return out
}

// ShiftEntryVC keeps only candidates whose VC, relative to the packet's
// entry VC, falls within one of the allowed offsets.
type ShiftEntryVC struct {
	AllowedOffsets []int
}

func (s ShiftEntryVC) Apply(candidates []Candidate, ctx *Context) []Candidate {
	allowed := func(vc int) bool {
		offset := vc - ctx.EntryVC
		for _, o := range s.AllowedOffsets {
			if o == offset {
				return true
			}
		}
		return false
	}
	var out []Candidate
	for _, c := range candidates {
		if allowed(c.OutVC) {
			out = append(out, c)
		}
	}
	return out
}
