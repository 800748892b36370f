package topology

import "fmt"

var validNames = map[string]bool{
	"ring":       true,
	"torus":      true,
	"crossbar":   true,
	"multistage": true,
}

// IsValidName returns true if name is a recognized topology family.
func IsValidName(name string) bool { return validNames[name] }

// New builds a Topology by family name from its sizes parameter list:
//
//	ring:       [numRouters]
//	torus:      [dim0, dim1, ...]   (any number of dimensions)
//	crossbar:   [numServers]        (one shared router, all-to-all)
//	multistage: [numLeaves, numSpines, serversPerLeaf]
//
// Panics on an unrecognized name or a sizes slice of the wrong length.
func New(name string, sizes []int) Topology {
	if !IsValidName(name) {
		panic(fmt.Sprintf("topology: unknown topology %q", name))
	}
	switch name {
	case "ring":
		requireLen(name, sizes, 1)
		return NewRing(sizes[0])
	case "torus":
		if len(sizes) == 0 {
			panic("topology: torus requires at least one dimension")
		}
		return NewTorus(sizes...)
	case "crossbar":
		requireLen(name, sizes, 1)
		return NewCrossbar(sizes[0])
	case "multistage":
		requireLen(name, sizes, 3)
		return NewMultistage(sizes[0], sizes[1], sizes[2])
	default:
		panic(fmt.Sprintf("topology: unhandled topology %q", name))
	}
}

func requireLen(name string, sizes []int, n int) {
	if len(sizes) != n {
		panic(fmt.Sprintf("topology: %s requires %d size parameter(s), got %d", name, n, len(sizes)))
	}
}
