package partitioner

import "math"

const (
	INVALID_LEVEL        = -1
	INVALID_PARTITION_ID = -1
	SOURCE_SINK_RATE     = 0.25
	INF_CAPACITY         = math.MaxInt32
)

type MinCut struct {
	flags                  []bool // true if the vertex is reachable from source in residual graph, or partition one, else partition two
	numNodesInPartitionTwo int
	minCut                 int
	job                    int
}

func NewMinCut(numberOfVertices int) *MinCut {
	return &MinCut{
		flags: make([]bool, numberOfVertices),
	}
}

func (mc *MinCut) SetFlag(u int, flag bool) {
	mc.flags[u] = flag
}

func (mc *MinCut) GetFlag(u int) bool {
	return mc.flags[u]
}

func (mc *MinCut) GetNumNodesInPartitionTwo() int {
	return mc.numNodesInPartitionTwo
}

func (mc *MinCut) incrementNumNodesInPartitionTwo() {
	mc.numNodesInPartitionTwo++
}

func (mc *MinCut) GetMinCut() int {
	return mc.minCut
}

func (mc *MinCut) setMinCut(maxflow int) {
	mc.minCut = maxflow
}
