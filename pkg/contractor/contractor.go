package contractor

import (
	"math"

	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/lintang-b-s/navcore/pkg/util"
	"go.uber.org/zap"
)

type adjEntry struct {
	to     da.NodeID
	cost   da.Cost
	middle da.NodeID // SPECIAL_NODEID for original arcs
}

// contractionGraph mutable forward and backward adjacency, at most one arc per ordered node pair.
type contractionGraph struct {
	out        [][]adjEntry
	in         [][]adjEntry
	contracted []bool
}

func newContractionGraph(g *da.Graph) *contractionGraph {
	n := g.NumberOfVertices()
	cg := &contractionGraph{
		out:        make([][]adjEntry, n),
		in:         make([][]adjEntry, n),
		contracted: make([]bool, n),
	}
	g.ForOutEdges(func(tail da.NodeID, e *da.OutEdge) {
		if tail == e.GetHead() {
			return
		}
		cg.addArc(tail, e.GetHead(), e.GetCost(), da.SPECIAL_NODEID)
	})
	return cg
}

// addArc inserts u -> v or lowers the cost of the existing one.
func (cg *contractionGraph) addArc(u, v da.NodeID, cost da.Cost, middle da.NodeID) bool {
	for i := range cg.out[u] {
		if cg.out[u][i].to != v {
			continue
		}
		if !cost.Less(cg.out[u][i].cost) {
			return false
		}
		cg.out[u][i].cost, cg.out[u][i].middle = cost, middle
		for j := range cg.in[v] {
			if cg.in[v][j].to == u {
				cg.in[v][j].cost, cg.in[v][j].middle = cost, middle
				break
			}
		}
		return true
	}
	cg.out[u] = append(cg.out[u], adjEntry{to: v, cost: cost, middle: middle})
	cg.in[v] = append(cg.in[v], adjEntry{to: u, cost: cost, middle: middle})
	return true
}

type shortcut struct {
	from, to da.NodeID
	cost     da.Cost
}

type priority struct {
	value int
	node  da.NodeID
}

func (p priority) Less(o priority) bool {
	if p.value != o.value {
		return p.value < o.value
	}
	return p.node < o.node
}

/*
Contractor builds a (core) contraction hierarchy over the compressed graph.

nodes are contracted in order of edgeDifference + 2*contractedNeighbors + level with lazy updates. a
shortcut u -> w over v is added unless the bounded witness search finds a path of at most the same
cost. once coreFactor of all nodes is contracted the remaining nodes become the core, coreFactor = 1
gives a plain contraction hierarchy.
*/
type Contractor struct {
	logger      *zap.Logger
	coreFactor  float64
	settleLimit int
}

func NewContractor(logger *zap.Logger, coreFactor float64, settleLimit int) *Contractor {
	return &Contractor{
		logger:      logger,
		coreFactor:  util.Clamp(coreFactor, 0, 1),
		settleLimit: max(settleLimit, 1),
	}
}

func (c *Contractor) Contract(g *da.Graph) *da.CHGraph {
	n := g.NumberOfVertices()
	cg := newContractionGraph(g)
	ws := newWitnessSearch(c.settleLimit)

	rank := make([]uint32, n)
	core := make([]bool, n)
	contractedNeighbors := make([]int, n)
	level := make([]int, n)

	computePriority := func(v da.NodeID) priority {
		shortcuts := c.findShortcuts(cg, ws, v)
		active := 0
		for _, e := range cg.out[v] {
			if !cg.contracted[e.to] {
				active++
			}
		}
		for _, e := range cg.in[v] {
			if !cg.contracted[e.to] {
				active++
			}
		}
		edgeDifference := len(shortcuts) - active
		return priority{value: edgeDifference + 2*contractedNeighbors[v] + level[v], node: v}
	}

	pq := da.NewBinaryHeap[da.NodeID, priority]()
	pq.Preallocate(n)
	entries := make([]*da.PriorityQueueNode[da.NodeID, priority], n)
	for v := da.NodeID(0); int(v) < n; v++ {
		entries[v] = da.NewPriorityQueueNode(computePriority(v), v)
		pq.Insert(entries[v])
	}

	limit := int(math.Floor(c.coreFactor * float64(n)))
	c.logger.Sugar().Infof("contracting %d of %d nodes...", limit, n)

	order := uint32(0)
	totalShortcuts := 0
	for !pq.IsEmpty() && int(order) < limit {
		top, _ := pq.ExtractMin()
		v := top.GetItem()

		// lazy update
		newPriority := computePriority(v)
		if next, err := pq.GetMin(); err == nil && next.GetRank().Less(newPriority) {
			top.SetRank(newPriority)
			pq.Insert(top)
			continue
		}

		shortcuts := c.findShortcuts(cg, ws, v)
		for _, sc := range shortcuts {
			if cg.addArc(sc.from, sc.to, sc.cost, v) {
				totalShortcuts++
			}
		}
		cg.contracted[v] = true
		rank[v] = order
		order++

		for _, neighbours := range [][]adjEntry{cg.out[v], cg.in[v]} {
			for _, e := range neighbours {
				if cg.contracted[e.to] {
					continue
				}
				contractedNeighbors[e.to]++
				level[e.to] = max(level[e.to], level[v]+1)
			}
		}

		if order%50000 == 0 {
			c.logger.Sugar().Infof("contracted %d/%d nodes, %d shortcuts so far", order, n, totalShortcuts)
		}
	}

	coreNodes := 0
	for v := da.NodeID(0); int(v) < n; v++ {
		if cg.contracted[v] {
			continue
		}
		core[v] = true
		rank[v] = order
		order++
		coreNodes++
	}

	arcs := make([]da.CHArc, 0, g.NumberOfEdges()+totalShortcuts)
	for u := range cg.out {
		for _, e := range cg.out[u] {
			arcs = append(arcs, da.CHArc{Source: da.NodeID(u), Target: e.to, Cost: e.cost, Middle: e.middle})
		}
	}
	chGraph := da.NewCHGraph(n, rank, core, arcs)

	c.logger.Info("contraction finished",
		zap.Int("nodes", n),
		zap.Int("core_nodes", coreNodes),
		zap.Int("shortcuts", totalShortcuts),
		zap.Int("search_graph_edges", chGraph.NumberOfEdges()),
	)
	return chGraph
}

/*
findShortcuts runs one witness search per incoming neighbour u of v and checks every outgoing neighbour
w against it. shortcut u -> w is needed when the witness distance is larger than c(u,v) + c(v,w).
*/
func (c *Contractor) findShortcuts(cg *contractionGraph, ws *witnessSearch, v da.NodeID) []shortcut {
	var shortcuts []shortcut
	for _, in := range cg.in[v] {
		u := in.to
		if cg.contracted[u] {
			continue
		}

		bound := da.InfiniteCost()
		for _, out := range cg.out[v] {
			if out.to == u || cg.contracted[out.to] {
				continue
			}
			viaCost := in.cost.Add(out.cost)
			if bound.IsInfinite() || bound.Less(viaCost) {
				bound = viaCost
			}
		}
		if bound.IsInfinite() {
			continue
		}

		ws.run(cg, u, v, bound)
		for _, out := range cg.out[v] {
			w := out.to
			if w == u || cg.contracted[w] {
				continue
			}
			viaCost := in.cost.Add(out.cost)
			if viaCost.Less(ws.distance(w)) {
				shortcuts = append(shortcuts, shortcut{from: u, to: w, cost: viaCost})
			}
		}
	}
	return shortcuts
}
