package customizer

import (
	"math/rand"
	"testing"

	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/lintang-b-s/navcore/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// weightedGrid 4 x 4 grid with random costs, level 1 cells are 2 x 2 blocks, level 2 cells the left and right half.
func weightedGrid(t *testing.T, seed int64) (*da.Graph, *da.MultilevelPartition) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	const size = 4
	id := func(r, c int) da.NodeID { return da.NodeID(r*size + c) }

	nodes := make([]da.NodeInfo, size*size)
	arcs := make([]da.GraphArc, 0)
	addArc := func(u, v da.NodeID) {
		w := da.EdgeWeight(1 + rng.Intn(9))
		arcs = append(arcs, da.GraphArc{Source: u, Target: v, Weight: w, Duration: da.EdgeDuration(w) * 3})
	}
	level1 := make([]uint32, size*size)
	level2 := make([]uint32, size*size)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			level1[id(r, c)] = uint32((r/2)*2 + c/2)
			level2[id(r, c)] = uint32(c / 2)
			if c+1 < size {
				addArc(id(r, c), id(r, c+1))
				if rng.Intn(4) > 0 {
					addArc(id(r, c+1), id(r, c))
				}
			}
			if r+1 < size {
				addArc(id(r, c), id(r+1, c))
				addArc(id(r+1, c), id(r, c))
			}
		}
	}
	mlp, err := da.NewMultilevelPartition([][]uint32{level1, level2})
	require.NoError(t, err)
	return da.NewGraph(nodes, arcs, nil, util.NewIdMap(), nil), mlp
}

// restrictedDijkstra distances from source using only vertices inside its level cell.
func restrictedDijkstra(g *da.Graph, mlp *da.MultilevelPartition, level uint8, source da.NodeID) func(da.NodeID) da.Cost {
	cell := mlp.GetLevelInfo().TruncateToLevel(mlp.GetCellNumber(source), level)
	heap := da.NewQueryHeap[struct{}]()
	heap.Insert(source, da.NewCost(0, 0), struct{}{})
	for !heap.Empty() {
		key := heap.MinKey()
		u := heap.DeleteMin()
		g.ForOutEdgesOf(u, func(e *da.OutEdge) {
			if mlp.GetLevelInfo().TruncateToLevel(mlp.GetCellNumber(e.GetHead()), level) != cell {
				return
			}
			heap.Relax(e.GetHead(), key.Add(e.GetCost()), struct{}{})
		})
	}
	return heap.GetKey
}

func TestCustomizeMatchesRestrictedDijkstra(t *testing.T) {
	testCases := []struct {
		name    string
		seed    int64
		workers int
	}{
		{name: "single worker", seed: 1, workers: 1},
		{name: "parallel", seed: 2, workers: 4},
		{name: "another graph", seed: 3, workers: 2},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			g, mlp := weightedGrid(t, tt.seed)
			og := da.NewOverlayGraph(g, mlp)
			ow := NewCustomizer(g, og, tt.workers, zap.NewNop()).Customize()
			require.Equal(t, int(og.GetWeightVectorSize()), ow.Len())

			checked := 0
			for level := uint8(1); int(level) <= og.GetNumberOfLevels(); level++ {
				for _, cell := range og.GetAllCellsInLevel(level) {
					for i := uint32(0); i < cell.GetNumEntryPoints(); i++ {
						entry := og.GetEntryPoint(cell, i)
						dist := restrictedDijkstra(g, mlp, level, entry)
						for j := uint32(0); j < cell.GetNumExitPoints(); j++ {
							exit := og.GetExitPoint(cell, j)
							assert.Equal(t, dist(exit), ow.GetWeight(cell.WeightIndex(i, j)),
								"level %d %d -> %d", level, entry, exit)
							checked++
						}
					}
				}
			}
			assert.Greater(t, checked, 0)
		})
	}
}

func TestCustomizeSingleCellHasNoWeights(t *testing.T) {
	nodes := make([]da.NodeInfo, 3)
	arcs := []da.GraphArc{
		{Source: 0, Target: 1, Weight: 1, Duration: 1},
		{Source: 1, Target: 2, Weight: 1, Duration: 1},
	}
	g := da.NewGraph(nodes, arcs, nil, util.NewIdMap(), nil)
	mlp, err := da.NewMultilevelPartition([][]uint32{{0, 0, 0}})
	require.NoError(t, err)

	og := da.NewOverlayGraph(g, mlp)
	ow := NewCustomizer(g, og, 2, zap.NewNop()).Customize()
	assert.Equal(t, 0, ow.Len())
	assert.Empty(t, og.GetAllCellsInLevel(1))
}
