package spatialindex

import (
	"math"

	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/lintang-b-s/navcore/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

type Rtree struct {
	tr   *rtree.RTreeG[SegmentEntry]
	tiny []bool // per vertex, set by MarkTinyComponents
}

// SegmentEntry one straight piece of the geometry of an arc: Position is the index of its first node in
// the node list of the arc, from the tail of the arc to its head.
type SegmentEntry struct {
	edge     da.EdgeID
	tail     da.NodeID
	position uint32
}

func (se SegmentEntry) GetEdgeID() da.EdgeID {
	return se.edge
}

func (se SegmentEntry) GetTail() da.NodeID {
	return se.tail
}

func (se SegmentEntry) GetPosition() uint32 {
	return se.position
}

func newSegmentEntry(edge da.EdgeID, tail da.NodeID, position uint32) SegmentEntry {
	return SegmentEntry{
		edge:     edge,
		tail:     tail,
		position: position,
	}
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[SegmentEntry]
	return &Rtree{
		tr: &tr,
	}
}

// arcGeometry nodes of arc e from its tail to its head, just the endpoints when no geometry was zipped.
func arcGeometry(graph *da.Graph, tail da.NodeID, e *da.OutEdge) []da.NodeID {
	if geometry := graph.GetEdgeGeometry(e); len(geometry) >= 2 {
		return geometry
	}
	return []da.NodeID{tail, e.GetHead()}
}

// Build. build r-tree, with each leaf having bounding box with radius boundingBoxRadius (in km).
// arcs with a twin in the opposite direction are indexed once, from their lower endpoint.
func (rt *Rtree) Build(graph *da.Graph, boundingBoxRadius float64, log *zap.Logger) {
	log.Info("Building R-tree spatial index...")
	step := max(graph.NumberOfVertices()/10, 1)
	for u := 0; u < graph.NumberOfVertices(); u++ {
		tail := da.NodeID(u)
		if u%step == 0 {
			log.Info("Building R-tree spatial index...", zap.Int("progress", 100*u/graph.NumberOfVertices()))
		}
		begin, end := graph.OutEdgeRange(tail)
		for id := begin; id < end; id++ {
			e := graph.GetOutEdge(id)
			if e.GetHead() < tail && graph.FindOutEdge(e.GetHead(), tail) != nil {
				continue
			}
			geometry := arcGeometry(graph, tail, e)
			for i := 0; i+1 < len(geometry); i++ {
				lower, upper := segmentBox(graph.GetCoordinate(geometry[i]), graph.GetCoordinate(geometry[i+1]),
					boundingBoxRadius)
				rt.tr.Insert(lower, upper, newSegmentEntry(id, tail, uint32(i)))
			}
		}
	}

	log.Info("R-tree spatial index built.", zap.Int("segments", rt.tr.Len()))
}

func segmentBox(from, to geo.Coordinate, radius float64) ([2]float64, [2]float64) {
	lowerFrom, upperFrom := geo.BoundingBox(from, radius)
	lowerTo, upperTo := geo.BoundingBox(to, radius)
	return [2]float64{math.Min(lowerFrom.Lon, lowerTo.Lon), math.Min(lowerFrom.Lat, lowerTo.Lat)},
		[2]float64{math.Max(upperFrom.Lon, upperTo.Lon), math.Max(upperFrom.Lat, upperTo.Lat)}
}

// SearchWithinRadius search for all segments within radius (in km) from the query point (qLat, qLon),
// at most limit of them.
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64, limit int) []SegmentEntry {
	lower, upper := geo.BoundingBox(geo.NewCoordinate(qLat, qLon), radius)

	results := make([]SegmentEntry, 0, 10)
	rt.tr.Search([2]float64{lower.Lon, lower.Lat}, [2]float64{upper.Lon, upper.Lat},
		func(min, max [2]float64, data SegmentEntry) bool {
			results = append(results, data)
			return len(results) < limit
		})
	return results
}

func (rt *Rtree) Len() int {
	return rt.tr.Len()
}

// MarkTinyComponents flags every vertex of a strongly connected component with fewer than minSize
// vertices. Snap avoids those when a vertex of a larger component is in range, a phantom on a parking lot
// island would leave most targets unreachable.
func (rt *Rtree) MarkTinyComponents(graph *da.Graph, minSize int, log *zap.Logger) {
	component, sizes := graph.StronglyConnectedComponents()
	rt.tiny = make([]bool, len(component))
	numTiny := 0
	for v, c := range component {
		if sizes[c] < minSize {
			rt.tiny[v] = true
			numTiny++
		}
	}
	log.Info("strongly connected components", zap.Int("components", len(sizes)), zap.Int("tinyVertices", numTiny))
}

func (rt *Rtree) isTiny(v da.NodeID) bool {
	return int(v) < len(rt.tiny) && rt.tiny[v]
}
