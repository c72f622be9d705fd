package preprocessor

import (
	"fmt"

	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/lintang-b-s/navcore/pkg/util"
)

/*
NormalizeEdges. turn the raw extracted records into one record per road segment and direction:

every record is oriented so that Source < Target (swapping its direction flags), self loops and records
without a traversable direction are dropped. per (source, target) the cheapest forward and the cheapest
backward record survive. when they are two different records with the same weight and duration and
combinable annotations, they become one bidirectional record, otherwise both are kept as one way halves
marked split.
*/
func NormalizeEdges(edges []da.NodeBasedEdge, annotations da.AnnotationTable, chunks int) []da.NodeBasedEdge {
	oriented := make([]da.NodeBasedEdge, 0, len(edges))
	for _, e := range edges {
		if e.Source == e.Target || (!e.IsForward() && !e.IsBackward()) {
			continue
		}
		if e.Source > e.Target {
			e.Flip()
		}
		oriented = append(oriented, e)
	}

	ParallelSort(oriented, da.CompareNodeBasedEdge, chunks)

	cheaper := func(a, b *da.NodeBasedEdge) bool {
		return da.NewCost(a.Weight, a.Duration).Less(da.NewCost(b.Weight, b.Duration))
	}

	result := make([]da.NodeBasedEdge, 0, len(oriented))
	for i := 0; i < len(oriented); {
		j := i
		fwd, bwd := -1, -1
		for ; j < len(oriented) && oriented[j].Source == oriented[i].Source &&
			oriented[j].Target == oriented[i].Target; j++ {
			if oriented[j].IsForward() && (fwd < 0 || cheaper(&oriented[j], &oriented[fwd])) {
				fwd = j
			}
			if oriented[j].IsBackward() && (bwd < 0 || cheaper(&oriented[j], &oriented[bwd])) {
				bwd = j
			}
		}

		switch {
		case fwd >= 0 && fwd == bwd:
			result = append(result, oriented[fwd])
		case fwd >= 0 && bwd >= 0:
			f, b := oriented[fwd], oriented[bwd]
			if f.Weight == b.Weight && f.Duration == b.Duration &&
				annotations.CanCombine(f.AnnotationID, b.AnnotationID) {
				f.SetBackward(true)
				result = append(result, f)
				break
			}
			f.SetBackward(false)
			b.SetForward(false)
			f.SetSplit(true)
			b.SetSplit(true)
			result = append(result, f, b)
		case fwd >= 0:
			f := oriented[fwd]
			f.SetBackward(false)
			result = append(result, f)
		case bwd >= 0:
			b := oriented[bwd]
			b.SetForward(false)
			result = append(result, b)
		}
		i = j
	}
	return result
}

/*
DirectedEdgesFromCompressed. every record yields the arc pair

	source -> target, Reversed = !forward
	target -> source, Reversed = !backward

records without any traversable direction are skipped. weight and duration must be positive, anything
else breaks every shortest path search downstream and panics. the arcs are returned sorted by source.
*/
func DirectedEdgesFromCompressed(edges []da.NodeBasedEdge, chunks int) []da.InputEdge[da.NodeBasedEdgeData] {
	arcs := make([]da.InputEdge[da.NodeBasedEdgeData], 0, 2*len(edges))
	for i := range edges {
		e := &edges[i]
		util.AssertPanic(e.Weight > 0, fmt.Sprintf("edge %d -> %d has non positive weight %d", e.Source, e.Target, e.Weight))
		util.AssertPanic(e.Duration > 0, fmt.Sprintf("edge %d -> %d has non positive duration %d", e.Source, e.Target, e.Duration))
		if (!e.IsForward() && !e.IsBackward()) || e.Source == e.Target {
			continue
		}

		arcs = append(arcs,
			da.InputEdge[da.NodeBasedEdgeData]{
				Source: e.Source,
				Target: e.Target,
				Data:   da.NewNodeBasedEdgeData(e.Weight, e.Duration, !e.IsForward(), e.AnnotationID),
			},
			da.InputEdge[da.NodeBasedEdgeData]{
				Source: e.Target,
				Target: e.Source,
				Data:   da.NewNodeBasedEdgeData(e.Weight, e.Duration, !e.IsBackward(), e.AnnotationID),
			})
	}

	ParallelSort(arcs, compareInputEdge, chunks)
	return arcs
}

func compareInputEdge(a, b da.InputEdge[da.NodeBasedEdgeData]) int {
	if a.Source != b.Source {
		if a.Source < b.Source {
			return -1
		}
		return 1
	}
	if a.Target != b.Target {
		if a.Target < b.Target {
			return -1
		}
		return 1
	}
	if a.Data.Reversed != b.Data.Reversed {
		if !a.Data.Reversed {
			return -1
		}
		return 1
	}
	return 0
}

// NewNodeBasedDynamicGraphFromEdges. the empty edge list is a broken input file, reported and not a crash.
func NewNodeBasedDynamicGraphFromEdges(numNodes int, edges []da.NodeBasedEdge,
	chunks int) (*da.NodeBasedDynamicGraph, error) {
	if len(edges) == 0 {
		return nil, util.WrapErrorf(nil, util.ErrEmptyGraph, "node-based graph file contains no edges")
	}
	for _, e := range edges {
		if int(e.Source) >= numNodes || int(e.Target) >= numNodes {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
				"edge %d -> %d references a node outside of the %d nodes", e.Source, e.Target, numNodes)
		}
	}
	arcs := DirectedEdgesFromCompressed(edges, chunks)
	return da.NewNodeBasedDynamicGraph(numNodes, arcs), nil
}
