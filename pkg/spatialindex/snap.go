package spatialindex

import (
	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/lintang-b-s/navcore/pkg/geo"
	"github.com/lintang-b-s/navcore/pkg/util"
)

const maxSnapCandidates = 64

type snapCandidate struct {
	entry      SegmentEntry
	projection geo.Coordinate
	distance   float64
}

// Snap phantom node on the closest arc within radius km of c. the phantom splits the arc at the share of
// its length that lies before the projected point. arcs leaving a tiny component are only used when no
// other arc is within radius.
func (rt *Rtree) Snap(graph *da.Graph, c geo.Coordinate, radius float64) (da.PhantomNode, error) {
	var best, bestBig *snapCandidate
	closer := func(cand, cur *snapCandidate) bool {
		return cur == nil || cand.distance < cur.distance ||
			(cand.distance == cur.distance && cand.entry.edge < cur.entry.edge)
	}
	for _, entry := range rt.SearchWithinRadius(c.Lat, c.Lon, radius, maxSnapCandidates) {
		e := graph.GetOutEdge(entry.edge)
		geometry := arcGeometry(graph, entry.tail, e)
		from := graph.GetCoordinate(geometry[entry.position])
		to := graph.GetCoordinate(geometry[entry.position+1])
		projection := geo.ProjectPointToLineCoord(from, to, c)
		cand := &snapCandidate{entry: entry, projection: projection, distance: geo.Distance(c, projection)}
		if cand.distance > radius {
			continue
		}

		if closer(cand, best) {
			best = cand
		}
		if !rt.isTiny(entry.tail) && closer(cand, bestBig) {
			bestBig = cand
		}
	}
	if bestBig != nil {
		best = bestBig
	}
	if best == nil {
		return da.PhantomNode{U: da.SPECIAL_NODEID, V: da.SPECIAL_NODEID},
			util.WrapErrorf(nil, util.ErrNotFound, "no road within %.3f km of (%f, %f)", radius, c.Lat, c.Lon)
	}

	u := best.entry.tail
	e := graph.GetOutEdge(best.entry.edge)
	v := e.GetHead()
	ratio := arcRatio(graph, arcGeometry(graph, u, e), best.entry.position, best.projection)

	reverse, reverseEnabled := da.NewCost(0, 0), false
	if r := reverseArc(graph, u, e); r != nil {
		reverse, reverseEnabled = r.GetCost(), true
	}
	return da.NewPhantomNode(u, v, e.GetCost(), reverse, true, reverseEnabled, ratio, best.projection), nil
}

// arcRatio share of the arc length from its tail up to the projection on the piece starting at position.
func arcRatio(graph *da.Graph, geometry []da.NodeID, position uint32, projection geo.Coordinate) float64 {
	total, before := 0.0, 0.0
	for i := 0; i+1 < len(geometry); i++ {
		length := geo.Distance(graph.GetCoordinate(geometry[i]), graph.GetCoordinate(geometry[i+1]))
		total += length
		if uint32(i) < position {
			before += length
		}
	}
	if total == 0 {
		return 0
	}
	before += geo.Distance(graph.GetCoordinate(geometry[position]), projection)
	return util.Clamp(before/total, 0, 1)
}

// reverseArc head -> tail twin of e, preferring the one that shares the geometry of e.
func reverseArc(graph *da.Graph, tail da.NodeID, e *da.OutEdge) *da.OutEdge {
	var twin *da.OutEdge
	graph.ForOutEdgesOf(e.GetHead(), func(r *da.OutEdge) {
		if twin != nil || r.GetHead() != tail || graph.Segments().NumberOfGeometries() == 0 {
			return
		}
		if r.GetGeometryID() == e.GetGeometryID() && r.IsForwardGeometry() != e.IsForwardGeometry() {
			twin = r
		}
	})
	if twin != nil {
		return twin
	}
	return graph.FindOutEdge(e.GetHead(), tail)
}
