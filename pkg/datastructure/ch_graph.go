package datastructure

import "github.com/lintang-b-s/navcore/pkg/util"

// CHEdge arc of the search graph. stored at its lower ranked endpoint, Target is the other endpoint.
// Forward: the arc runs from the owner to Target. Backward: the arc runs from Target to the owner.
type CHEdge struct {
	Target   NodeID
	Weight   EdgeWeight
	Duration EdgeDuration
	Forward  bool
	Backward bool
	Middle   NodeID // contracted node of a shortcut, SPECIAL_NODEID for original arcs
}

func (e *CHEdge) GetCost() Cost {
	return NewCost(e.Weight, e.Duration)
}

func (e *CHEdge) IsShortcut() bool {
	return e.Middle != SPECIAL_NODEID
}

// CHArc directed arc u -> v as produced by the contractor, input for NewCHGraph.
type CHArc struct {
	Source NodeID
	Target NodeID
	Cost   Cost
	Middle NodeID
}

/*
CHGraph. search graph of a (core) contraction hierarchy in forward star layout.

an arc u -> v with rank[u] < rank[v] is kept at u with Forward set, an arc with rank[u] > rank[v]
is kept at v with Backward set. arcs between two core nodes are kept at both ends, so the core is
searched as an ordinary graph. the fields are exported for kelindar/binary.
*/
type CHGraph struct {
	FirstEdge []EdgeID // len = number of nodes + 1
	Edges     []CHEdge
	Rank      []uint32
	Core      []bool
}

func NewCHGraph(numNodes int, rank []uint32, core []bool, arcs []CHArc) *CHGraph {
	util.AssertPanic(len(rank) == numNodes && len(core) == numNodes, "rank and core must cover every node")

	type stored struct {
		owner NodeID
		edge  CHEdge
	}
	entries := make([]stored, 0, len(arcs))
	for _, a := range arcs {
		util.AssertPanic(int(a.Source) < numNodes && int(a.Target) < numNodes, "ch arc endpoint out of range")
		if a.Source == a.Target {
			continue
		}
		up := CHEdge{Target: a.Target, Weight: a.Cost.Weight, Duration: a.Cost.Duration,
			Forward: true, Middle: a.Middle}
		down := CHEdge{Target: a.Source, Weight: a.Cost.Weight, Duration: a.Cost.Duration,
			Backward: true, Middle: a.Middle}

		switch {
		case core[a.Source] && core[a.Target]:
			entries = append(entries, stored{a.Source, up}, stored{a.Target, down})
		case rank[a.Source] < rank[a.Target]:
			entries = append(entries, stored{a.Source, up})
		default:
			entries = append(entries, stored{a.Target, down})
		}
	}

	g := &CHGraph{
		FirstEdge: make([]EdgeID, numNodes+1),
		Edges:     make([]CHEdge, len(entries)),
		Rank:      rank,
		Core:      core,
	}
	for _, s := range entries {
		g.FirstEdge[s.owner+1]++
	}
	for i := 1; i <= numNodes; i++ {
		g.FirstEdge[i] += g.FirstEdge[i-1]
	}
	next := make([]EdgeID, numNodes)
	copy(next, g.FirstEdge[:numNodes])
	for _, s := range entries {
		g.Edges[next[s.owner]] = s.edge
		next[s.owner]++
	}
	return g
}

func (g *CHGraph) NumberOfNodes() int {
	return len(g.FirstEdge) - 1
}

func (g *CHGraph) NumberOfEdges() int {
	return len(g.Edges)
}

func (g *CHGraph) ForEdgesOf(u NodeID, handle func(e *CHEdge)) {
	for e := g.FirstEdge[u]; e < g.FirstEdge[u+1]; e++ {
		handle(&g.Edges[e])
	}
}

func (g *CHGraph) IsCore(u NodeID) bool {
	return g.Core[u]
}

func (g *CHGraph) HasCore() bool {
	for _, c := range g.Core {
		if c {
			return true
		}
	}
	return false
}

func (g *CHGraph) NumberOfCoreNodes() int {
	n := 0
	for _, c := range g.Core {
		if c {
			n++
		}
	}
	return n
}
