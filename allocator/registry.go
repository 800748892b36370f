package allocator

import "fmt"

// validNames is an explicit name registry consulted by both New and
// IsValidName, so CLI/config validation and construction never drift
// apart.
var validNames = map[string]bool{
	"random":          true,
	"random-priority": true,
	"islip":           true,
}

// IsValidName returns true if name is a recognized allocator kind.
func IsValidName(name string) bool { return validNames[name] }

// New creates an Allocator by name for a crossbar of the given shape.
// numIterations is only consulted for "islip". Panics on unrecognized
// names.
func New(name string, numClients, numResources, numIterations int) Allocator {
	if !IsValidName(name) {
		panic(fmt.Sprintf("allocator: unknown allocator %q", name))
	}
	switch name {
	case "random":
		return NewRandom(numClients, numResources)
	case "random-priority":
		return NewRandomPriority(numClients, numResources)
	case "islip":
		return NewIslip(numClients, numResources, numIterations)
	default:
		panic(fmt.Sprintf("allocator: unhandled allocator %q", name))
	}
}
