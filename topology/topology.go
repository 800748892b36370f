// Package topology defines the router-graph interface (distances,
// neighbour lookup, coordinate hooks) and concrete topology families used
// to exercise routing, allocation and the router pipeline in tests.
package topology

import "fmt"

// Location identifies one endpoint of a link: either a server or a
// (router, port) pair. Mirrors original_source's Location enum.
type Location struct {
	IsServer bool
	Server   int
	Router   int
	Port     int
}

// ServerLocation builds a server Location.
func ServerLocation(server int) Location { return Location{IsServer: true, Server: server} }

// RouterLocation builds a router-port Location.
func RouterLocation(router, port int) Location { return Location{Router: router, Port: port} }

func (l Location) String() string {
	if l.IsServer {
		return fmt.Sprintf("server(%d)", l.Server)
	}
	return fmt.Sprintf("router(%d,port=%d)", l.Router, l.Port)
}

// Topology is the router-graph contract: routers, their ports, neighbour
// lookup, and shortest-path distance, which routing algorithms and the
// LowestSinghWeight virtual-channel policy both consult.
type Topology interface {
	// NumRouters returns the number of routers in the topology.
	NumRouters() int
	// NumServers returns the number of attached servers.
	NumServers() int
	// Degree returns the number of router-side ports on router r
	// (excluding server-attachment ports).
	Degree(r int) int
	// ServerPort returns the (router, port) a server attaches to.
	ServerPort(server int) (router, port int)
	// ServersOf returns the servers attached to router r.
	ServersOf(r int) []int
	// Neighbour returns the router and port reached by leaving router r
	// through port p, or ok=false if p is a server-attachment port.
	Neighbour(r, p int) (router, port int, ok bool)
	// Distance returns the minimum hop count from router r to router s.
	Distance(r, s int) int
	// DirectionChange reports whether traversing from entryPort to
	// exitPort at router r constitutes a "direction change" for the
	// purposes of bubble flow control.
	// Topologies without a notion of dimension/direction (e.g. Crossbar)
	// always return false.
	DirectionChange(r, entryPort, exitPort int) bool
}
