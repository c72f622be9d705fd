package datastructure

import (
	"fmt"

	"github.com/lintang-b-s/navcore/pkg/util"
)

// DynamicEdge adjacency entry. deleted entries keep their slot with Target == SPECIAL_NODEID.
type DynamicEdge[D any] struct {
	Target NodeID
	Data   D
}

type InputEdge[D any] struct {
	Source NodeID
	Target NodeID
	Data   D
}

type dynamicNode struct {
	firstEdge EdgeID
	slots     uint32 // used slots including deleted ones
	capacity  uint32
	live      uint32
}

// DynamicGraph adjacency array that supports in place retargeting, deletion and insertion.
// edge ids stay stable under SetTarget and DeleteEdge, InsertEdge may move the edges of the source node.
type DynamicGraph[D any] struct {
	nodes     []dynamicNode
	edges     []DynamicEdge[D]
	liveEdges int
}

// NewDynamicGraph builds the graph from edges sorted by source.
func NewDynamicGraph[D any](numNodes int, input []InputEdge[D]) *DynamicGraph[D] {
	g := &DynamicGraph[D]{
		nodes: make([]dynamicNode, numNodes),
		edges: make([]DynamicEdge[D], len(input)),
	}

	pos := 0
	for u := 0; u < numNodes; u++ {
		g.nodes[u].firstEdge = EdgeID(pos)
		for pos < len(input) && int(input[pos].Source) == u {
			util.AssertPanic(int(input[pos].Target) < numNodes,
				fmt.Sprintf("edge target %d out of range", input[pos].Target))
			g.edges[pos] = DynamicEdge[D]{Target: input[pos].Target, Data: input[pos].Data}
			pos++
		}
		n := uint32(pos) - uint32(g.nodes[u].firstEdge)
		g.nodes[u].slots = n
		g.nodes[u].capacity = n
		g.nodes[u].live = n
	}
	util.AssertPanic(pos == len(input), "dynamic graph input is not sorted by source")
	g.liveEdges = len(input)
	return g
}

func (g *DynamicGraph[D]) NumberOfNodes() int {
	return len(g.nodes)
}

// NumberOfEdges live edges.
func (g *DynamicGraph[D]) NumberOfEdges() int {
	return g.liveEdges
}

// NumberOfEdgeSlots upper bound on edge ids, for sizing per edge arrays.
func (g *DynamicGraph[D]) NumberOfEdgeSlots() int {
	return len(g.edges)
}

func (g *DynamicGraph[D]) BeginEdges(u NodeID) EdgeID {
	return g.nodes[u].firstEdge
}

func (g *DynamicGraph[D]) EndEdges(u NodeID) EdgeID {
	return g.nodes[u].firstEdge + EdgeID(g.nodes[u].slots)
}

func (g *DynamicGraph[D]) OutDegree(u NodeID) int {
	return int(g.nodes[u].live)
}

func (g *DynamicGraph[D]) IsLive(e EdgeID) bool {
	return g.edges[e].Target != SPECIAL_NODEID
}

func (g *DynamicGraph[D]) GetTarget(e EdgeID) NodeID {
	return g.edges[e].Target
}

func (g *DynamicGraph[D]) GetEdgeData(e EdgeID) *D {
	return &g.edges[e].Data
}

// AdjacentEdges live edge ids of u in slot order.
func (g *DynamicGraph[D]) AdjacentEdges(u NodeID) []EdgeID {
	res := make([]EdgeID, 0, g.nodes[u].live)
	for e := g.BeginEdges(u); e < g.EndEdges(u); e++ {
		if g.IsLive(e) {
			res = append(res, e)
		}
	}
	return res
}

func (g *DynamicGraph[D]) ForOutEdgesOf(u NodeID, handle func(e EdgeID, target NodeID, data *D)) {
	for e := g.BeginEdges(u); e < g.EndEdges(u); e++ {
		if g.IsLive(e) {
			handle(e, g.edges[e].Target, &g.edges[e].Data)
		}
	}
}

// FindEdge first live edge u->v, SPECIAL_EDGEID if none.
func (g *DynamicGraph[D]) FindEdge(u, v NodeID) EdgeID {
	for e := g.BeginEdges(u); e < g.EndEdges(u); e++ {
		if g.edges[e].Target == v {
			return e
		}
	}
	return SPECIAL_EDGEID
}

// FindEdges every live edge u->v. parallel edges are allowed.
func (g *DynamicGraph[D]) FindEdges(u, v NodeID) []EdgeID {
	var res []EdgeID
	for e := g.BeginEdges(u); e < g.EndEdges(u); e++ {
		if g.edges[e].Target == v {
			res = append(res, e)
		}
	}
	return res
}

// FindSmallestEdge live edge u->v minimizing less, SPECIAL_EDGEID if none.
func (g *DynamicGraph[D]) FindSmallestEdge(u, v NodeID, less func(a, b *D) bool) EdgeID {
	best := SPECIAL_EDGEID
	for e := g.BeginEdges(u); e < g.EndEdges(u); e++ {
		if g.edges[e].Target != v {
			continue
		}
		if best == SPECIAL_EDGEID || less(&g.edges[e].Data, &g.edges[best].Data) {
			best = e
		}
	}
	return best
}

func (g *DynamicGraph[D]) FindEdgeInEitherDirection(u, v NodeID) EdgeID {
	if e := g.FindEdge(u, v); e != SPECIAL_EDGEID {
		return e
	}
	return g.FindEdge(v, u)
}

func (g *DynamicGraph[D]) SetTarget(e EdgeID, v NodeID) {
	util.AssertPanic(g.IsLive(e), "retargeting a deleted edge")
	g.edges[e].Target = v
}

// DeleteEdge removes edge e of node u. the slot stays, so other edge ids keep their meaning.
func (g *DynamicGraph[D]) DeleteEdge(u NodeID, e EdgeID) {
	util.AssertPanic(e >= g.BeginEdges(u) && e < g.EndEdges(u),
		fmt.Sprintf("edge %d does not belong to node %d", e, u))
	util.AssertPanic(g.IsLive(e), fmt.Sprintf("edge %d of node %d already deleted", e, u))
	g.edges[e].Target = SPECIAL_NODEID
	g.nodes[u].live--
	g.liveEdges--
}

// DeleteEdgesTo removes every edge u->v and returns how many were removed.
func (g *DynamicGraph[D]) DeleteEdgesTo(u, v NodeID) int {
	n := 0
	for e := g.BeginEdges(u); e < g.EndEdges(u); e++ {
		if g.edges[e].Target == v {
			g.DeleteEdge(u, e)
			n++
		}
	}
	return n
}

// InsertEdge appends u->v. when u has no spare slot its edges are moved to the end of the edge array
// with doubled capacity, which changes the ids of u's edges.
func (g *DynamicGraph[D]) InsertEdge(u, v NodeID, data D) EdgeID {
	node := &g.nodes[u]
	if node.slots == node.capacity {
		g.relocate(u)
		node = &g.nodes[u]
	}
	e := node.firstEdge + EdgeID(node.slots)
	g.edges[e] = DynamicEdge[D]{Target: v, Data: data}
	node.slots++
	node.live++
	g.liveEdges++
	return e
}

func (g *DynamicGraph[D]) relocate(u NodeID) {
	node := &g.nodes[u]
	newCapacity := node.live*2 + 2
	newFirst := EdgeID(len(g.edges))

	moved := make([]DynamicEdge[D], newCapacity)
	n := 0
	for e := node.firstEdge; e < node.firstEdge+EdgeID(node.slots); e++ {
		if g.IsLive(e) {
			moved[n] = g.edges[e]
			n++
			g.edges[e].Target = SPECIAL_NODEID
		}
	}
	for i := n; i < len(moved); i++ {
		moved[i].Target = SPECIAL_NODEID
	}
	g.edges = append(g.edges, moved...)

	node.firstEdge = newFirst
	node.slots = node.live
	node.capacity = newCapacity
}
