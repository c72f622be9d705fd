package customizer

import (
	"slices"

	"github.com/lintang-b-s/navcore/pkg/concurrent"
	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"go.uber.org/zap"
)

type Customizer struct {
	logger       *zap.Logger
	workers      int
	ow           *da.OverlayWeights
	graph        *da.Graph
	overlayGraph *da.OverlayGraph
}

func NewCustomizer(graph *da.Graph, overlayGraph *da.OverlayGraph, workers int, logger *zap.Logger) *Customizer {
	if workers < 1 {
		workers = 1
	}
	return &Customizer{
		graph:        graph,
		overlayGraph: overlayGraph,
		workers:      workers,
		logger:       logger,
	}
}

type customizerCell struct {
	cell       *da.Cell
	cellNumber da.Pv
}

func newCustomizerCell(cell *da.Cell, cellNumber da.Pv) customizerCell {
	return customizerCell{cell: cell, cellNumber: cellNumber}
}

type cellCustomizationRes struct {
	cost  da.Cost
	index uint32
}

/*
Customize. Customizable Route Planning in Road Networks, Daniel Delling, et al. Page 11:

We compute these distances in a bottom-up fashion, one cell at a time. Consider a cell C in H1 (the
first overlay level). For each entry (overlay) vertex v in C, we run Dijkstra's algorithm in G (restricted to
C) until the priority queue is empty. This computes the distances to all reachable exit vertices of C.
A cell C at a higher level Hi (for i > 1) can be processed similarly, with one major difference. Instead of
working on the original graph, we can work on the subgraph of Hi-1 (the overlay level immediately below)
corresponding to subcells of C.
*/
func (c *Customizer) Customize() *da.OverlayWeights {
	c.logger.Sugar().Infof("Building cliques for each cell for each overlay graph level...")
	c.ow = da.NewOverlayWeights(c.overlayGraph.GetWeightVectorSize())
	c.logger.Info("overlay weights", zap.Int("shortcuts", c.ow.Len()))

	for level := 1; level <= c.overlayGraph.GetNumberOfLevels(); level++ {
		c.buildLevel(uint8(level))
		c.logger.Sugar().Infof("finished mld customization level %v", level)
	}
	return c.ow
}

func (c *Customizer) buildLevel(level uint8) {
	cells := c.overlayGraph.GetAllCellsInLevel(level)
	jobs := make([]customizerCell, 0, len(cells))
	for cellNumber, cell := range cells {
		jobs = append(jobs, newCustomizerCell(cell, cellNumber))
	}
	slices.SortFunc(jobs, func(a, b customizerCell) int {
		if a.cellNumber < b.cellNumber {
			return -1
		} else if a.cellNumber > b.cellNumber {
			return 1
		}
		return 0
	})

	buildCellClique := func(job customizerCell) []cellCustomizationRes {
		return c.buildCellClique(level, job)
	}

	// every level reads only the weights of the level below, which are complete at this point
	for _, cellWeights := range concurrent.RunAll(c.workers, jobs, buildCellClique) {
		for _, w := range cellWeights {
			c.ow.SetWeight(w.index, w.cost)
		}
	}
}

// buildCellClique one Dijkstra per entry point of the cell, restricted to the cell.
// on level 1 the search runs on the arcs of the graph, above it on the cliques of the level below plus
// the arcs that cross between the subcells.
func (c *Customizer) buildCellClique(level uint8, job customizerCell) []cellCustomizationRes {
	cell, cellNumber := job.cell, job.cellNumber
	levelInfo := c.overlayGraph.GetLevelInfo()
	mlp := c.overlayGraph.GetPartition()

	inCell := func(v da.NodeID) bool {
		return levelInfo.TruncateToLevel(mlp.GetCellNumber(v), level) == cellNumber
	}

	res := make([]cellCustomizationRes, 0, cell.GetNumEntryPoints()*cell.GetNumExitPoints())
	heap := da.NewQueryHeap[struct{}]()

	for i := uint32(0); i < cell.GetNumEntryPoints(); i++ {
		heap.Clear()
		heap.Insert(c.overlayGraph.GetEntryPoint(cell, i), da.NewCost(0, 0), struct{}{})

		for !heap.Empty() {
			uCost := heap.MinKey()
			u := heap.DeleteMin()

			if level == 1 {
				c.graph.ForOutEdgesOf(u, func(e *da.OutEdge) {
					v := e.GetHead()
					if !inCell(v) {
						return
					}
					heap.Relax(v, uCost.Add(e.GetCost()), struct{}{})
				})
				continue
			}

			sub := level - 1
			if entry, ok := c.overlayGraph.EntryIndex(sub, u); ok {
				subCell := c.overlayGraph.GetCell(sub, u)
				for j := uint32(0); j < subCell.GetNumExitPoints(); j++ {
					shortcut := c.ow.GetWeight(subCell.WeightIndex(entry, j))
					if shortcut.IsInfinite() {
						continue
					}
					heap.Relax(c.overlayGraph.GetExitPoint(subCell, j), uCost.Add(shortcut), struct{}{})
				}
			}
			if _, ok := c.overlayGraph.ExitIndex(sub, u); ok {
				c.graph.ForOutEdgesOf(u, func(e *da.OutEdge) {
					v := e.GetHead()
					if mlp.GetHighestDifferentLevel(u, v) != sub {
						return
					}
					heap.Relax(v, uCost.Add(e.GetCost()), struct{}{})
				})
			}
		}

		for j := uint32(0); j < cell.GetNumExitPoints(); j++ {
			res = append(res, cellCustomizationRes{
				cost:  heap.GetKey(c.overlayGraph.GetExitPoint(cell, j)),
				index: cell.WeightIndex(i, j),
			})
		}
	}
	return res
}
