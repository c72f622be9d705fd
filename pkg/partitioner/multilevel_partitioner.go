package partitioner

import (
	"slices"

	"github.com/lintang-b-s/navcore/pkg/concurrent"
	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/lintang-b-s/navcore/pkg/util"
	"go.uber.org/zap"
)

/*
MultilevelPartitioner. nested partition for the multi level overlay: the coarsest level is cut from the
whole graph, every finer level cuts each cell of the level above on its own, so every cell lies inside
exactly one cell of the next coarser level. cellSizes[i] is the maximum cell size of level i+1.
*/
type MultilevelPartitioner struct {
	cellSizes []int
	slopes    int
	workers   int
	graph     *da.Graph
	logger    *zap.Logger

	overlayNodes [][][]da.NodeID // level -> cell -> vertices, level 0 is the finest
}

func NewMultilevelPartitioner(cellSizes []int, slopes int, graph *da.Graph, logger *zap.Logger) *MultilevelPartitioner {
	sizes := slices.Clone(cellSizes)
	slices.Sort(sizes)
	return &MultilevelPartitioner{
		cellSizes: sizes,
		slopes:    slopes,
		workers:   4,
		graph:     graph,
		logger:    logger,
	}
}

func (mp *MultilevelPartitioner) SetWorkers(workers int) {
	mp.workers = max(workers, 1)
}

func (mp *MultilevelPartitioner) RunMultilevelPartitioning() error {
	n := mp.graph.NumberOfVertices()
	if n == 0 {
		return util.WrapErrorf(nil, util.ErrEmptyGraph, "cannot partition an empty graph")
	}
	levels := len(mp.cellSizes)
	if levels == 0 {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "no cell sizes given")
	}
	mp.overlayNodes = make([][][]da.NodeID, levels)

	all := make([]da.NodeID, n)
	for i := range all {
		all[i] = da.NodeID(i)
	}
	parents := [][]da.NodeID{all}

	for l := levels - 1; l >= 0; l-- {
		maxCellSize := mp.cellSizes[l]
		bisect := func(cell []da.NodeID) [][]da.NodeID {
			rb := NewRecursiveBisection(mp.graph, maxCellSize, mp.slopes, 1, mp.logger)
			rb.Partition(cell)
			cells := make([][]da.NodeID, rb.GetNumberOfCells())
			for _, v := range cell {
				id := rb.GetFinalPartition()[v]
				cells[id] = append(cells[id], v)
			}
			return cells
		}

		// RunAll returns in completion order, sort by smallest vertex for stable cell ids
		var children [][]da.NodeID
		for _, cells := range concurrent.RunAll(mp.workers, parents, bisect) {
			children = append(children, cells...)
		}
		for _, cell := range children {
			slices.Sort(cell)
		}
		slices.SortFunc(children, func(a, b []da.NodeID) int {
			return int(a[0]) - int(b[0])
		})

		mp.overlayNodes[l] = children
		mp.logger.Sugar().Infof("level %d: %d cells of at most %d vertices", l+1, len(children), maxCellSize)
		parents = children
	}
	return nil
}

func (mp *MultilevelPartitioner) BuildMLP() (*da.MultilevelPartition, error) {
	cells := make([][]uint32, len(mp.overlayNodes))
	for l := range mp.overlayNodes {
		cells[l] = make([]uint32, mp.graph.NumberOfVertices())
		for cellID, vertices := range mp.overlayNodes[l] {
			for _, v := range vertices {
				cells[l][v] = uint32(cellID)
			}
		}
	}
	return da.NewMultilevelPartition(cells)
}

func (mp *MultilevelPartitioner) GetCells(level int) [][]da.NodeID {
	return mp.overlayNodes[level-1]
}
