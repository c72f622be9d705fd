package datastructure

import (
	"slices"

	"github.com/lintang-b-s/navcore/pkg/geo"
	"github.com/lintang-b-s/navcore/pkg/util"
)

const (
	nodeBarrierBit       uint8 = 1 << 0
	nodeTrafficSignalBit uint8 = 1 << 1
)

// NodeInfo per node input from extraction.
type NodeInfo struct {
	Lat           float64
	Lon           float64
	OsmID         int64
	Barrier       bool
	TrafficSignal bool
}

type Vertex struct {
	lat      float64
	lon      float64
	osmID    int64
	firstOut EdgeID // index of the first outEdge of this vertex in the flattened graph.outEdges array
	firstIn  EdgeID // index of the first inEdge of this vertex in the flattened graph.inEdges array
	flags    uint8
}

func (v *Vertex) GetLat() float64 {
	return v.lat
}

func (v *Vertex) GetLon() float64 {
	return v.lon
}

func (v *Vertex) GetOsmID() int64 {
	return v.osmID
}

func (v *Vertex) IsBarrier() bool {
	return v.flags&nodeBarrierBit != 0
}

func (v *Vertex) IsTrafficSignal() bool {
	return v.flags&nodeTrafficSignalBit != 0
}

// GraphArc traversable arc of the compressed graph, input for NewGraph.
type GraphArc struct {
	Source          NodeID
	Target          NodeID
	Weight          EdgeWeight
	Duration        EdgeDuration
	AnnotationID    AnnotationID
	GeometryID      uint32
	ForwardGeometry bool // arc runs along the forward direction of its zipped geometry
}

// OutEdge arc leaving a vertex, stored at its tail.
type OutEdge struct {
	head            NodeID
	weight          EdgeWeight
	duration        EdgeDuration
	annotationID    AnnotationID
	geometryID      uint32
	forwardGeometry bool
}

func (e *OutEdge) GetHead() NodeID                { return e.head }
func (e *OutEdge) GetWeight() EdgeWeight          { return e.weight }
func (e *OutEdge) GetDuration() EdgeDuration      { return e.duration }
func (e *OutEdge) GetCost() Cost                  { return NewCost(e.weight, e.duration) }
func (e *OutEdge) GetAnnotationID() AnnotationID  { return e.annotationID }
func (e *OutEdge) GetGeometryID() uint32          { return e.geometryID }
func (e *OutEdge) IsForwardGeometry() bool        { return e.forwardGeometry }

// InEdge arc entering a vertex, stored at its head.
type InEdge struct {
	tail     NodeID
	weight   EdgeWeight
	duration EdgeDuration
}

func (e *InEdge) GetTail() NodeID           { return e.tail }
func (e *InEdge) GetWeight() EdgeWeight     { return e.weight }
func (e *InEdge) GetDuration() EdgeDuration { return e.duration }
func (e *InEdge) GetCost() Cost             { return NewCost(e.weight, e.duration) }

/*
Graph. static compressed node based graph used after preprocessing: forward star for out arcs and
backward star for in arcs, plus the side tables (annotations, street names, zipped geometry).
only traversable arcs are stored.
*/
type Graph struct {
	vertices    []Vertex // len = number of vertices + 1, the last one is a sentinel
	outEdges    []OutEdge
	inEdges     []InEdge
	annotations *AnnotationContainer[*OwnedStorage]
	names       util.IDMap
	segments    *SegmentData
}

func NewGraph(nodes []NodeInfo, arcs []GraphArc, annotations *AnnotationContainer[*OwnedStorage],
	names util.IDMap, segments *SegmentData) *Graph {
	n := len(nodes)
	g := &Graph{
		vertices:    make([]Vertex, n+1),
		outEdges:    make([]OutEdge, len(arcs)),
		inEdges:     make([]InEdge, len(arcs)),
		annotations: annotations,
		names:       names,
		segments:    segments,
	}
	if g.annotations == nil {
		g.annotations = NewOwnedAnnotationContainer(0)
	}
	if g.segments == nil {
		g.segments = NewSegmentData()
	}

	for i, node := range nodes {
		v := &g.vertices[i]
		v.lat, v.lon, v.osmID = node.Lat, node.Lon, node.OsmID
		setBit(&v.flags, nodeBarrierBit, node.Barrier)
		setBit(&v.flags, nodeTrafficSignalBit, node.TrafficSignal)
	}

	sorted := slices.Clone(arcs)
	slices.SortStableFunc(sorted, func(a, b GraphArc) int {
		return int(a.Source) - int(b.Source)
	})
	outDegree := make([]EdgeID, n+1)
	for _, a := range sorted {
		util.AssertPanic(int(a.Source) < n && int(a.Target) < n, "arc endpoint out of range")
		outDegree[a.Source+1]++
	}
	for i := 1; i <= n; i++ {
		outDegree[i] += outDegree[i-1]
		g.vertices[i].firstOut = outDegree[i]
	}
	for i, a := range sorted {
		g.outEdges[i] = OutEdge{head: a.Target, weight: a.Weight, duration: a.Duration,
			annotationID: a.AnnotationID, geometryID: a.GeometryID, forwardGeometry: a.ForwardGeometry}
	}

	slices.SortStableFunc(sorted, func(a, b GraphArc) int {
		return int(a.Target) - int(b.Target)
	})
	inDegree := make([]EdgeID, n+1)
	for _, a := range sorted {
		inDegree[a.Target+1]++
	}
	for i := 1; i <= n; i++ {
		inDegree[i] += inDegree[i-1]
		g.vertices[i].firstIn = inDegree[i]
	}
	for i, a := range sorted {
		g.inEdges[i] = InEdge{tail: a.Source, weight: a.Weight, duration: a.Duration}
	}
	return g
}

func (g *Graph) NumberOfVertices() int {
	return len(g.vertices) - 1
}

func (g *Graph) NumberOfEdges() int {
	return len(g.outEdges)
}

func (g *Graph) GetVertex(u NodeID) *Vertex {
	return &g.vertices[u]
}

func (g *Graph) GetVertexCoordinates(u NodeID) (float64, float64) {
	return g.vertices[u].lat, g.vertices[u].lon
}

func (g *Graph) GetCoordinate(u NodeID) geo.Coordinate {
	return geo.NewCoordinate(g.vertices[u].lat, g.vertices[u].lon)
}

func (g *Graph) OutDegree(u NodeID) int {
	return int(g.vertices[u+1].firstOut - g.vertices[u].firstOut)
}

func (g *Graph) InDegree(u NodeID) int {
	return int(g.vertices[u+1].firstIn - g.vertices[u].firstIn)
}

func (g *Graph) GetOutEdge(e EdgeID) *OutEdge {
	return &g.outEdges[e]
}

// OutEdgeRange ids of the arcs leaving u are [begin, end).
func (g *Graph) OutEdgeRange(u NodeID) (EdgeID, EdgeID) {
	return g.vertices[u].firstOut, g.vertices[u+1].firstOut
}

func (g *Graph) ForOutEdgesOf(u NodeID, handle func(e *OutEdge)) {
	for e := g.vertices[u].firstOut; e < g.vertices[u+1].firstOut; e++ {
		handle(&g.outEdges[e])
	}
}

func (g *Graph) ForInEdgesOf(v NodeID, handle func(e *InEdge)) {
	for e := g.vertices[v].firstIn; e < g.vertices[v+1].firstIn; e++ {
		handle(&g.inEdges[e])
	}
}

// ForOutEdges every arc together with its tail.
func (g *Graph) ForOutEdges(handle func(tail NodeID, e *OutEdge)) {
	for u := 0; u < g.NumberOfVertices(); u++ {
		for e := g.vertices[u].firstOut; e < g.vertices[u+1].firstOut; e++ {
			handle(NodeID(u), &g.outEdges[e])
		}
	}
}

// FindOutEdge cheapest arc u -> v, nil if none.
func (g *Graph) FindOutEdge(u, v NodeID) *OutEdge {
	var best *OutEdge
	for e := g.vertices[u].firstOut; e < g.vertices[u+1].firstOut; e++ {
		edge := &g.outEdges[e]
		if edge.head == v && (best == nil || edge.GetCost().Less(best.GetCost())) {
			best = edge
		}
	}
	return best
}

func (g *Graph) Annotations() *AnnotationContainer[*OwnedStorage] {
	return g.annotations
}

func (g *Graph) Names() *util.IDMap {
	return &g.names
}

// GetStreetName of the annotation behind arc e.
func (g *Graph) GetStreetName(e *OutEdge) string {
	if int(e.annotationID) >= g.annotations.Len() {
		return ""
	}
	return g.names.GetStr(int(g.annotations.NameID(e.annotationID)))
}

func (g *Graph) Segments() *SegmentData {
	return g.segments
}

// GetEdgeGeometry node ids along arc e from its tail to its head.
func (g *Graph) GetEdgeGeometry(e *OutEdge) []NodeID {
	if int(e.geometryID) >= g.segments.NumberOfGeometries() {
		return nil
	}
	if e.forwardGeometry {
		return g.segments.GetForwardGeometry(e.geometryID)
	}
	return g.segments.GetReverseGeometry(e.geometryID)
}
