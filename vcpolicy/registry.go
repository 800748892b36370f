package vcpolicy

import "fmt"

var validNames = map[string]bool{
	"identity":             true,
	"random":                true,
	"enforce-flow-control":  true,
	"shortest":              true,
	"hops":                  true,
	"lowest-label":          true,
	"negate-label":          true,
}

// IsValidName returns true if name is a recognized policy kind usable in
// a configuration-driven chain.
func IsValidName(name string) bool { return validNames[name] }

// NewChain builds a Chain from a list of policy names, in order. numVCs
// parameterizes the Hops policy. Panics on an unrecognized name; policies
// needing richer parameterization (WideHops, LabelTransform, VecLabel,
// MapLabel, ShiftEntryVC, LowestSinghWeight, OccupancyFunction) are built
// directly by callers that need them, rather than through this
// convenience constructor.
func NewChain(names []string, numVCs int) Chain {
	chain := make(Chain, 0, len(names))
	for _, name := range names {
		if !IsValidName(name) {
			panic(fmt.Sprintf("vcpolicy: unknown policy %q", name))
		}
		switch name {
		case "identity":
			chain = append(chain, Identity{})
		case "random":
			chain = append(chain, Random{})
		case "enforce-flow-control":
			chain = append(chain, EnforceFlowControl{})
		case "shortest":
			chain = append(chain, Shortest{})
		case "hops":
			chain = append(chain, Hops{NumVCs: numVCs})
		case "lowest-label":
			chain = append(chain, LowestLabel{})
		case "negate-label":
			chain = append(chain, NegateLabel{})
		default:
			panic(fmt.Sprintf("vcpolicy: unhandled policy %q", name))
		}
	}
	return chain
}
