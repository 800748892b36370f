package routing

import "fmt"

var validNames = map[string]bool{
	"shortest": true,
	"valiant":  true,
	"updown":   true,
}

// IsValidName returns true if name is a recognized routing algorithm.
func IsValidName(name string) bool { return validNames[name] }

// New creates a Routing by name using numVCs virtual channels. Panics on
// unrecognized names.
func New(name string, numVCs int) Routing {
	if !IsValidName(name) {
		panic(fmt.Sprintf("routing: unknown routing %q", name))
	}
	switch name {
	case "shortest":
		return NewShortest(numVCs)
	case "valiant":
		return NewValiant(numVCs)
	case "updown":
		return NewUpDown(numVCs)
	default:
		panic(fmt.Sprintf("routing: unhandled routing %q", name))
	}
}
