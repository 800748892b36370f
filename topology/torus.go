package topology

// Torus is an n-dimensional torus (a ring in each dimension), one server
// per router. Ports are laid out 2 per dimension (+ and -), followed by
// one server port. This is the canonical deadlock-hazard topology for
// bubble flow control: a packet whose path changes
// dimension at a router must reserve room for a full extra packet at the
// direction-change port.
type Torus struct {
	dims []int // size of each dimension
}

// NewTorus creates a torus with the given per-dimension sizes.
func NewTorus(dims ...int) *Torus {
	if len(dims) == 0 {
		panic("topology: torus requires at least one dimension")
	}
	for _, d := range dims {
		if d < 2 {
			panic("topology: torus dimension sizes must be >= 2")
		}
	}
	return &Torus{dims: dims}
}

func (t *Torus) numRouters() int {
	n := 1
	for _, d := range t.dims {
		n *= d
	}
	return n
}

func (t *Torus) NumRouters() int { return t.numRouters() }
func (t *Torus) NumServers() int { return t.numRouters() }
func (t *Torus) Degree(_ int) int { return 2 * len(t.dims) }

func (t *Torus) ServerPort(server int) (int, int) { return server, t.Degree(0) }
func (t *Torus) ServersOf(router int) []int       { return []int{router} }

// coords decomposes a flat router index into per-dimension coordinates.
func (t *Torus) coords(router int) []int {
	c := make([]int, len(t.dims))
	for i, d := range t.dims {
		c[i] = router % d
		router /= d
	}
	return c
}

func (t *Torus) index(c []int) int {
	idx, mul := 0, 1
	for i, d := range t.dims {
		idx += c[i] * mul
		mul *= d
	}
	return idx
}

// portDimension returns which dimension and direction (+1/-1) a port
// number corresponds to.
func (t *Torus) portDimension(port int) (dim int, dir int) {
	return port / 2, map[int]int{0: 1, 1: -1}[port%2]
}

func (t *Torus) Neighbour(router, port int) (int, int, bool) {
	if port >= t.Degree(0) {
		return 0, 0, false
	}
	dim, dir := t.portDimension(port)
	c := t.coords(router)
	d := t.dims[dim]
	c[dim] = ((c[dim]+dir)%d + d) % d
	neighbour := t.index(c)
	// the reverse port is the opposite direction in the same dimension
	reversePort := dim*2 + map[int]int{1: 1, -1: 0}[dir]
	return neighbour, reversePort, true
}

func (t *Torus) Distance(a, b int) int {
	ca, cb := t.coords(a), t.coords(b)
	total := 0
	for i, d := range t.dims {
		diff := ca[i] - cb[i]
		if diff < 0 {
			diff = -diff
		}
		other := d - diff
		if other < diff {
			total += other
		} else {
			total += diff
		}
	}
	return total
}

// DirectionChange reports true when entry and exit ports address
// different dimensions: this is the deadlock hazard bubble flow control
// guards against.
func (t *Torus) DirectionChange(_, entryPort, exitPort int) bool {
	if entryPort >= t.Degree(0) || exitPort >= t.Degree(0) {
		// one side is a server port: entering or leaving the network is
		// never itself a "direction change" for bubble purposes.
		return false
	}
	entryDim, _ := t.portDimension(entryPort)
	exitDim, _ := t.portDimension(exitPort)
	return entryDim != exitDim
}
