package partitioner

import (
	"math"
	"sort"

	"github.com/lintang-b-s/navcore/pkg/concurrent"
)

type minCutJob struct {
	index    int
	slope    float64
	diagonal bool
	line     [2]float64
}

func newMinCutJob(slope float64, diagonal bool, line [2]float64) minCutJob {
	return minCutJob{slope: slope, diagonal: diagonal, line: line}
}

func (mj minCutJob) GetSlope() float64 {
	return mj.slope
}

func (mj minCutJob) isDiagonal() bool {
	return mj.diagonal
}

func (mj minCutJob) getLine() [2]float64 {
	return mj.line
}

type inertialFlow struct {
	graph   *FlowGraph
	slopes  int
	workers int
}

func NewInertialFlow(graph *FlowGraph, slopes, workers int) *inertialFlow {
	return &inertialFlow{graph: graph, slopes: max(slopes, 1), workers: max(workers, 1)}
}

/*
computeInertialFlowDinic. [Inertial Flow, Schild and Sommer]: sort the vertices along several lines, tie the
first sourceSinkRate of them to an artificial source and the last ones to an artificial sink, and keep the
smallest max flow min cut over all lines. ties go to the more balanced cut.
*/
func (inf *inertialFlow) computeInertialFlowDinic(sourceSinkRate float64) *MinCut {
	jobs := make([]minCutJob, 0, inf.slopes+4)
	for i := 0; i < inf.slopes; i++ {
		slope := -1 + float64(i)*(2.0/float64(inf.slopes))
		jobs = append(jobs, newMinCutJob(slope, false, [2]float64{}))
	}
	jobs = append(jobs,
		newMinCutJob(0, true, [2]float64{1, 0}),
		newMinCutJob(0, true, [2]float64{0, 1}),
		newMinCutJob(0, true, [2]float64{1, 1}),
		newMinCutJob(0, true, [2]float64{1, -1}),
	)
	for i := range jobs {
		jobs[i].index = i
	}

	computeMinCut := func(input minCutJob) *MinCut {
		dn := NewDinicMaxFlow(inf.graph.Clone())
		var sources, sinks []int
		if !input.isDiagonal() {
			sources, sinks = dn.sortVerticesByLineProjection(input.GetSlope(), sourceSinkRate)
		} else {
			sources, sinks = dn.sortVerticesByLineDiagonalProjection(input.getLine(), sourceSinkRate)
		}
		s, t := dn.createArtificialSourceSink(sources, sinks)
		minCut := dn.ComputeMaxflowMinCut(s, t)
		minCut.job = input.index
		return minCut
	}

	numberOfVertices := inf.graph.NumberOfVertices()
	balanceDelta := func(numPartTwoNodes int) int {
		diff := numberOfVertices/2 - numPartTwoNodes
		if diff < 0 {
			diff = -diff
		}
		return diff
	}

	// results arrive in completion order, the job index keeps the choice deterministic
	better := func(a, b *MinCut) bool {
		if a.GetMinCut() != b.GetMinCut() {
			return a.GetMinCut() < b.GetMinCut()
		}
		deltaA, deltaB := balanceDelta(a.GetNumNodesInPartitionTwo()), balanceDelta(b.GetNumNodesInPartitionTwo())
		if deltaA != deltaB {
			return deltaA < deltaB
		}
		return a.job < b.job
	}

	var best *MinCut
	for _, minCut := range concurrent.RunAll(inf.workers, jobs, computeMinCut) {
		if best == nil || better(minCut, best) {
			best = minCut
		}
	}
	return best
}

func (dn *DinicMaxFlow) sortVerticesByLineProjection(slope, ratio float64) ([]int, []int) {
	return dn.splitByProjection(ratio, func(lat, lon float64) float64 {
		return slope*lon + (1.0-math.Abs(slope))*lat
	})
}

func (dn *DinicMaxFlow) sortVerticesByLineDiagonalProjection(line [2]float64, ratio float64) ([]int, []int) {
	return dn.splitByProjection(ratio, func(lat, lon float64) float64 {
		return line[0]*lon + line[1]*lat
	})
}

func (dn *DinicMaxFlow) splitByProjection(ratio float64, project func(lat, lon float64) float64) ([]int, []int) {
	type item struct {
		idx        int
		projection float64
	}
	n := dn.graph.NumberOfVertices()

	items := make([]item, n)
	for i := 0; i < n; i++ {
		lat, lon := dn.graph.GetVertexCoordinate(i)
		items[i] = item{idx: i, projection: project(lat, lon)}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].projection < items[j].projection
	})

	endpointsLength := min(max(int(float64(n)*ratio), 1), n/2)
	sourceNodes := make([]int, 0, endpointsLength)
	sinkNodes := make([]int, 0, endpointsLength)
	for i := 0; i < endpointsLength; i++ {
		sourceNodes = append(sourceNodes, items[i].idx)
		sinkNodes = append(sinkNodes, items[n-1-i].idx)
	}
	return sourceNodes, sinkNodes
}

func (dn *DinicMaxFlow) createArtificialSourceSink(sourceNodes, sinkNodes []int) (int, int) {
	artificialSource := dn.graph.AddVertex(0, 0, 0)
	artificialSink := dn.graph.AddVertex(0, 0, 0)

	for _, s := range sourceNodes {
		dn.graph.AddInfEdge(artificialSource, s)
	}
	for _, t := range sinkNodes {
		dn.graph.AddInfEdge(t, artificialSink)
	}
	return artificialSource, artificialSink
}
