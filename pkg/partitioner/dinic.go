package partitioner

import (
	"math"
)

type DinicMaxFlow struct {
	graph    *FlowGraph
	level    []int
	lastEdge []int
}

func NewDinicMaxFlow(graph *FlowGraph) *DinicMaxFlow {
	return &DinicMaxFlow{graph: graph}
}

func (dmf *DinicMaxFlow) bfsLevelGraph(source, target int) bool {
	for i := range dmf.level {
		dmf.level[i] = INVALID_LEVEL
	}

	levelQueue := make([]int, 0, dmf.graph.NumberOfVertices())
	levelQueue = append(levelQueue, source)
	dmf.level[source] = 0

	for len(levelQueue) > 0 {
		u := levelQueue[0]
		levelQueue = levelQueue[1:]
		if u == target {
			break
		}

		dmf.graph.ForEachVertexEdges(u, func(edge *MaxFlowEdge) {
			v := edge.GetTo()
			if edge.Residual() > 0 && dmf.level[v] == INVALID_LEVEL {
				dmf.level[v] = dmf.level[u] + 1
				levelQueue = append(levelQueue, v)
			}
		})
	}
	return dmf.level[target] != INVALID_LEVEL
}

func (dmf *DinicMaxFlow) dfsAugmentPath(u, t int, f int) int {
	if u == t || f == 0 {
		return f
	}

	for ; dmf.lastEdge[u] < len(dmf.graph.adj[u]); dmf.lastEdge[u]++ {
		edge := &dmf.graph.adj[u][dmf.lastEdge[u]]
		v := edge.GetTo()
		if dmf.level[v] != dmf.level[u]+1 || edge.Residual() <= 0 {
			continue
		}

		if pushed := dmf.dfsAugmentPath(v, t, min(edge.Residual(), f)); pushed > 0 {
			edge.flow += pushed
			dmf.graph.adj[v][edge.rev].flow -= pushed
			return pushed
		}
	}

	return 0
}

func (dmf *DinicMaxFlow) resetCurrentEdges() {
	for i := range dmf.lastEdge {
		dmf.lastEdge[i] = 0
	}
}

/*
ComputeMaxflowMinCut. s and t are the artificial source and sink, added last. the vertices still
reachable from s in the residual graph after the final level search form partition one.

time complexity: O(N^2 * M)
*/
func (dmf *DinicMaxFlow) ComputeMaxflowMinCut(s, t int) *MinCut {
	n := dmf.graph.NumberOfVertices()
	dmf.level = make([]int, n)
	dmf.lastEdge = make([]int, n)

	minCut := NewMinCut(n - 2)
	maxFlow := 0
	for dmf.bfsLevelGraph(s, t) {
		dmf.resetCurrentEdges()
		for {
			flow := dmf.dfsAugmentPath(s, t, math.MaxInt)
			if flow == 0 {
				break
			}
			maxFlow += flow
		}
	}
	dmf.makeMinCutFlags(minCut, maxFlow)
	return minCut
}

func (dmf *DinicMaxFlow) makeMinCutFlags(minCut *MinCut, maxflow int) {
	for u := 0; u < dmf.graph.NumberOfVertices()-2; u++ {
		if dmf.level[u] != INVALID_LEVEL {
			minCut.SetFlag(u, true)
		} else {
			minCut.incrementNumNodesInPartitionTwo()
		}
	}
	minCut.setMinCut(maxflow)
}
