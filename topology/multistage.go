package topology

// Multistage is a 2-level folded-Clos (leaf/spine) topology: each leaf
// router connects to every spine router (full bipartite), and servers
// attach only to leaf routers. Grounded on original_source's
// src/topology/multistage.rs vocabulary (leveled stages, up/down
// adjacency), simplified to the 2-level case needed to exercise UpDown
// routing ("up-down path"): a routing algorithm that
// monotonically ascends from a leaf to a spine, then monotonically
// descends to the destination leaf.
type Multistage struct {
	numLeaves, numSpines, serversPerLeaf int
}

// NewMultistage creates a 2-level folded-Clos with the given leaf and
// spine counts, each leaf hosting serversPerLeaf attached servers.
func NewMultistage(numLeaves, numSpines, serversPerLeaf int) *Multistage {
	if numLeaves < 1 || numSpines < 1 || serversPerLeaf < 1 {
		panic("topology: multistage requires positive leaf/spine/server counts")
	}
	return &Multistage{numLeaves: numLeaves, numSpines: numSpines, serversPerLeaf: serversPerLeaf}
}

// Router indices: leaves are [0, numLeaves), spines are
// [numLeaves, numLeaves+numSpines).
func (m *Multistage) isLeaf(router int) bool { return router < m.numLeaves }

func (m *Multistage) NumRouters() int { return m.numLeaves + m.numSpines }
func (m *Multistage) NumServers() int { return m.numLeaves * m.serversPerLeaf }

// Degree counts router-facing ports only: a leaf has numSpines up-ports
// (its serversPerLeaf server ports follow them and are not counted); a
// spine has numLeaves down-ports and no server ports.
func (m *Multistage) Degree(router int) int {
	if m.isLeaf(router) {
		return m.numSpines
	}
	return m.numLeaves
}

func (m *Multistage) ServerPort(server int) (int, int) {
	leaf := server / m.serversPerLeaf
	offset := server % m.serversPerLeaf
	return leaf, m.numSpines + offset
}

func (m *Multistage) ServersOf(router int) []int {
	if !m.isLeaf(router) {
		return nil
	}
	servers := make([]int, m.serversPerLeaf)
	for i := range servers {
		servers[i] = router*m.serversPerLeaf + i
	}
	return servers
}

func (m *Multistage) Neighbour(router, port int) (int, int, bool) {
	if m.isLeaf(router) {
		if port >= m.numSpines {
			return 0, 0, false // server port
		}
		spine := m.numLeaves + port
		return spine, router, true
	}
	// spine router: port indexes the leaf directly.
	if port >= m.numLeaves {
		return 0, 0, false
	}
	leaf := port
	spineIdx := router - m.numLeaves
	return leaf, spineIdx, true
}

func (m *Multistage) Distance(a, b int) int {
	if a == b {
		return 0
	}
	if m.isLeaf(a) == m.isLeaf(b) {
		return 2 // leaf -> spine -> leaf, or spine -> leaf -> spine
	}
	return 1 // leaf <-> spine
}

// DirectionChange is always false: up/down is a level transition, not a
// same-level dimension change, so bubble flow control (which guards
// dimension changes in torus-like topologies) doesn't apply here.
func (m *Multistage) DirectionChange(_, _, _ int) bool { return false }

// Level returns 0 for a leaf router, 1 for a spine router.
func (m *Multistage) Level(router int) int {
	if m.isLeaf(router) {
		return 0
	}
	return 1
}

// IsUpPort reports whether leaving router through port ascends a level
// (leaf -> spine). Always false from a spine (spines only go down).
func (m *Multistage) IsUpPort(router, port int) bool {
	return m.isLeaf(router) && port < m.numSpines
}
