package partitioner

import (
	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"go.uber.org/zap"
)

type RecursiveBisection struct {
	originalGraph   *da.Graph
	maximumCellSize int
	slopes          int
	workers         int
	finalPartition  map[da.NodeID]int // vertex id to cell id, cell ids are local to this bisection
	partitionCount  int
	logger          *zap.Logger
}

func NewRecursiveBisection(graph *da.Graph, maximumCellSize, slopes, workers int, logger *zap.Logger,
) *RecursiveBisection {
	return &RecursiveBisection{
		originalGraph:   graph,
		maximumCellSize: max(maximumCellSize, 1),
		slopes:          slopes,
		workers:         workers,
		finalPartition:  make(map[da.NodeID]int),
		logger:          logger,
	}
}

/*
Partition splits initialNodeIds with inertial flow cuts until no cell is larger than maximumCellSize.
[On Balanced Separators in Road Networks, Schild, et al.] https://aschild.github.io/papers/roadseparator.pdf
*/
func (rb *RecursiveBisection) Partition(initialNodeIds []da.NodeID) {
	small := func(vertices []da.NodeID) bool {
		return len(vertices) <= rb.maximumCellSize
	}
	if small(initialNodeIds) {
		rb.assignFinalPartition(initialNodeIds)
		return
	}

	queue := [][]da.NodeID{initialNodeIds}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		fg := buildFlowGraph(rb.originalGraph, cur)
		cut := NewInertialFlow(fg, rb.slopes, rb.workers).computeInertialFlowDinic(SOURCE_SINK_RATE)
		partOne, partTwo := rb.applyBisection(cut, fg)

		for _, part := range [][]da.NodeID{partOne, partTwo} {
			if small(part) {
				rb.assignFinalPartition(part)
			} else {
				queue = append(queue, part)
			}
		}
	}
}

func (rb *RecursiveBisection) applyBisection(cut *MinCut, graph *FlowGraph) ([]da.NodeID, []da.NodeID) {
	partOne := make([]da.NodeID, 0, graph.NumberOfVertices()-cut.GetNumNodesInPartitionTwo())
	partTwo := make([]da.NodeID, 0, cut.GetNumNodesInPartitionTwo())
	for u := 0; u < len(cut.flags); u++ {
		if cut.GetFlag(u) {
			partOne = append(partOne, graph.GetOriginalVertexID(u))
		} else {
			partTwo = append(partTwo, graph.GetOriginalVertexID(u))
		}
	}
	return partOne, partTwo
}

func (rb *RecursiveBisection) assignFinalPartition(vertices []da.NodeID) {
	if len(vertices) == 0 {
		return
	}
	for _, v := range vertices {
		rb.finalPartition[v] = rb.partitionCount
	}
	rb.partitionCount++
}

func (rb *RecursiveBisection) GetFinalPartition() map[da.NodeID]int {
	return rb.finalPartition
}

func (rb *RecursiveBisection) GetNumberOfCells() int {
	return rb.partitionCount
}
