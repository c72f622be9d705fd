package preprocessor

import (
	"fmt"

	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/lintang-b-s/navcore/pkg/util"
	"go.uber.org/zap"
)

type GraphCompressor struct {
	logger *zap.Logger
}

func NewGraphCompressor(logger *zap.Logger) *GraphCompressor {
	return &GraphCompressor{logger: logger}
}

// NodeSet membership of node ids, barriers and traffic signals.
type NodeSet map[da.NodeID]struct{}

func (s NodeSet) Contains(v da.NodeID) bool {
	_, ok := s[v]
	return ok
}

/*
Compress. merge chains of pass-through nodes in place:

	u --e1--> v --e2--> w   and   w --e1'--> v --e2'--> u

become u --> w and w --> u with summed weight and duration. v must have exactly two distinct neighbours,
must not be a barrier, a traffic signal or the via node of any restriction, and both halves of each
direction must carry the same name and combinable annotations. the removed node is recorded in the
geometry container, restrictions ending or starting at v are moved to its neighbours. afterwards every
surviving edge has a geometry bucket.
*/
func (gc *GraphCompressor) Compress(barrierNodes, trafficSignals NodeSet,
	restrictions []da.TurnRestriction, conditionalRestrictions []da.ConditionalTurnRestriction,
	graph *da.NodeBasedDynamicGraph, annotations da.AnnotationTable,
	geometry *da.CompressedEdgeContainer) {

	originalEdges := graph.NumberOfEdges()
	restrictionCompressor := NewRestrictionCompressor(restrictions, conditionalRestrictions)

	viaNodes := make(NodeSet)
	for i := range restrictions {
		for _, via := range restrictions[i].ViaNodes() {
			viaNodes[via] = struct{}{}
		}
	}
	for i := range conditionalRestrictions {
		for _, via := range conditionalRestrictions[i].ViaNodes() {
			viaNodes[via] = struct{}{}
		}
	}

	sameName := func(a, b *da.NodeBasedEdgeData) bool {
		return annotations.At(a.AnnotationID).NameID == annotations.At(b.AnnotationID).NameID
	}

	removed := 0
	for v := da.NodeID(0); int(v) < graph.NumberOfNodes(); v++ {
		if barrierNodes.Contains(v) || trafficSignals.Contains(v) || viaNodes.Contains(v) {
			continue
		}
		if graph.OutDegree(v) != 2 {
			continue
		}

		adjacent := graph.AdjacentEdges(v)
		forwardE2, reverseE2 := adjacent[0], adjacent[1] // v -> w, v -> u
		w := graph.GetTarget(forwardE2)
		u := graph.GetTarget(reverseE2)
		if u == w {
			continue
		}

		forwardE1 := graph.FindEdge(u, v) // u -> v
		reverseE1 := graph.FindEdge(w, v) // w -> v
		util.AssertPanic(forwardE1 != da.SPECIAL_EDGEID,
			fmt.Sprintf("missing reverse arc %d -> %d of arc %d -> %d", u, v, v, u))
		util.AssertPanic(reverseE1 != da.SPECIAL_EDGEID,
			fmt.Sprintf("missing reverse arc %d -> %d of arc %d -> %d", w, v, v, w))

		fwdData1 := graph.GetEdgeData(forwardE1)
		fwdData2 := graph.GetEdgeData(forwardE2)
		revData1 := graph.GetEdgeData(reverseE1)
		revData2 := graph.GetEdgeData(reverseE2)

		// two ways with different names sharing the segment
		if !sameName(fwdData1, revData2) || !sameName(fwdData2, revData1) {
			continue
		}
		if !fwdData1.IsCompatibleTo(fwdData2, annotations) || !revData1.IsCompatibleTo(revData2, annotations) {
			continue
		}

		forwardWeight1, forwardWeight2 := fwdData1.Weight, fwdData2.Weight
		forwardDuration1, forwardDuration2 := fwdData1.Duration, fwdData2.Duration
		reverseWeight1, reverseWeight2 := revData1.Weight, revData2.Weight
		reverseDuration1, reverseDuration2 := revData1.Duration, revData2.Duration

		fwdData1.Weight += forwardWeight2
		fwdData1.Duration += forwardDuration2
		revData1.Weight += reverseWeight2
		revData1.Duration += reverseDuration2

		graph.SetTarget(forwardE1, w)
		graph.SetTarget(reverseE1, u)
		graph.DeleteEdge(v, forwardE2)
		graph.DeleteEdge(v, reverseE2)

		restrictionCompressor.Compress(u, v, w)

		geometry.CompressEdge(forwardE1, forwardE2, v, w,
			forwardWeight1, forwardWeight2, forwardDuration1, forwardDuration2)
		geometry.CompressEdge(reverseE1, reverseE2, v, u,
			reverseWeight1, reverseWeight2, reverseDuration1, reverseDuration2)
		removed++
	}

	gc.printStatistics(originalEdges, removed, graph)

	for u := da.NodeID(0); int(u) < graph.NumberOfNodes(); u++ {
		graph.ForOutEdgesOf(u, func(e da.EdgeID, target da.NodeID, data *da.NodeBasedEdgeData) {
			geometry.AddUncompressedEdge(e, target, data.Weight, data.Duration)
		})
	}
}

func (gc *GraphCompressor) printStatistics(originalEdges, removedNodes int, graph *da.NodeBasedDynamicGraph) {
	gc.logger.Info("graph compression finished",
		zap.Int("nodes", graph.NumberOfNodes()),
		zap.Int("removed_nodes", removedNodes),
		zap.Int("original_edges", originalEdges),
		zap.Int("remaining_edges", graph.NumberOfEdges()),
	)
}
