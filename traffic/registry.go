package traffic

import "fmt"

var validNames = map[string]bool{
	"uniform":     true,
	"permutation": true,
}

// IsValidName returns true if name is a recognized traffic pattern.
func IsValidName(name string) bool { return validNames[name] }

// New builds a Traffic by name for numServers servers, generating
// messageSize-phit messages at the given per-cycle load. "permutation"
// uses the fixed shift-by-half mapping dest(i) = (i + numServers/2) mod
// numServers when no explicit mapping is required by the caller; use
// NewPermutation directly for a custom mapping.
func New(name string, numServers, messageSize int, load float64) Traffic {
	if !IsValidName(name) {
		panic(fmt.Sprintf("traffic: unknown traffic %q", name))
	}
	switch name {
	case "uniform":
		return NewUniform(numServers, messageSize, load)
	case "permutation":
		dest := make([]int, numServers)
		shift := numServers / 2
		if shift == 0 {
			shift = 1
		}
		for i := range dest {
			dest[i] = (i + shift) % numServers
		}
		return NewPermutation(dest, messageSize, load)
	default:
		panic(fmt.Sprintf("traffic: unhandled traffic %q", name))
	}
}
