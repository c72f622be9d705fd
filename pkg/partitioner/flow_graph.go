package partitioner

import (
	da "github.com/lintang-b-s/navcore/pkg/datastructure"
)

type flowVertex struct {
	originalID da.NodeID
	lat, lon   float64
}

type MaxFlowEdge struct {
	to       int
	capacity int
	flow     int
	rev      int // index of the paired edge in the adjacency of to
}

func (e *MaxFlowEdge) GetTo() int {
	return e.to
}

func (e *MaxFlowEdge) Residual() int {
	return e.capacity - e.flow
}

// FlowGraph undirected unit capacity graph of one cell plus the artificial source and sink of a cut.
type FlowGraph struct {
	vertices []flowVertex
	adj      [][]MaxFlowEdge
}

func NewFlowGraph(capacity int) *FlowGraph {
	return &FlowGraph{
		vertices: make([]flowVertex, 0, capacity+2),
		adj:      make([][]MaxFlowEdge, 0, capacity+2),
	}
}

func (fg *FlowGraph) AddVertex(originalID da.NodeID, lat, lon float64) int {
	fg.vertices = append(fg.vertices, flowVertex{originalID: originalID, lat: lat, lon: lon})
	fg.adj = append(fg.adj, nil)
	return len(fg.vertices) - 1
}

// AddEdge undirected unit edge, both arcs are each other's residual arc.
func (fg *FlowGraph) AddEdge(u, v int) {
	fg.adj[u] = append(fg.adj[u], MaxFlowEdge{to: v, capacity: 1, rev: len(fg.adj[v])})
	fg.adj[v] = append(fg.adj[v], MaxFlowEdge{to: u, capacity: 1, rev: len(fg.adj[u]) - 1})
}

// AddInfEdge directed arc u -> v nothing can saturate.
func (fg *FlowGraph) AddInfEdge(u, v int) {
	fg.adj[u] = append(fg.adj[u], MaxFlowEdge{to: v, capacity: INF_CAPACITY, rev: len(fg.adj[v])})
	fg.adj[v] = append(fg.adj[v], MaxFlowEdge{to: u, capacity: 0, rev: len(fg.adj[u]) - 1})
}

func (fg *FlowGraph) NumberOfVertices() int {
	return len(fg.vertices)
}

func (fg *FlowGraph) GetOriginalVertexID(u int) da.NodeID {
	return fg.vertices[u].originalID
}

func (fg *FlowGraph) GetVertexCoordinate(u int) (float64, float64) {
	return fg.vertices[u].lat, fg.vertices[u].lon
}

func (fg *FlowGraph) ForEachVertexEdges(u int, handle func(e *MaxFlowEdge)) {
	for i := range fg.adj[u] {
		handle(&fg.adj[u][i])
	}
}

func (fg *FlowGraph) Clone() *FlowGraph {
	c := &FlowGraph{
		vertices: make([]flowVertex, len(fg.vertices), len(fg.vertices)+2),
		adj:      make([][]MaxFlowEdge, len(fg.adj), len(fg.adj)+2),
	}
	copy(c.vertices, fg.vertices)
	for u := range fg.adj {
		c.adj[u] = make([]MaxFlowEdge, len(fg.adj[u]))
		copy(c.adj[u], fg.adj[u])
	}
	return c
}

// buildFlowGraph induced subgraph of g on vertices, parallel and antiparallel arcs collapse into one edge.
func buildFlowGraph(g *da.Graph, vertices []da.NodeID) *FlowGraph {
	fg := NewFlowGraph(len(vertices))
	local := make(map[da.NodeID]int, len(vertices))
	for _, v := range vertices {
		lat, lon := g.GetVertexCoordinates(v)
		local[v] = fg.AddVertex(v, lat, lon)
	}

	seen := make(map[[2]int]struct{})
	for _, u := range vertices {
		g.ForOutEdgesOf(u, func(e *da.OutEdge) {
			v, ok := local[e.GetHead()]
			if !ok || v == local[u] {
				return
			}
			key := [2]int{min(local[u], v), max(local[u], v)}
			if _, dup := seen[key]; dup {
				return
			}
			seen[key] = struct{}{}
			fg.AddEdge(local[u], v)
		})
	}
	return fg
}
