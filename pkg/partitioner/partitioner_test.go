package partitioner

import (
	"path/filepath"
	"testing"

	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/lintang-b-s/navcore/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// gridGraph rows x cols grid, neighbours connected in both directions.
func gridGraph(rows, cols int) *da.Graph {
	nodes := make([]da.NodeInfo, rows*cols)
	arcs := make([]da.GraphArc, 0, 4*rows*cols)
	id := func(r, c int) da.NodeID { return da.NodeID(r*cols + c) }
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			nodes[id(r, c)] = da.NodeInfo{Lat: -7 + float64(r)*0.001, Lon: 110 + float64(c)*0.001}
			if c+1 < cols {
				arcs = append(arcs,
					da.GraphArc{Source: id(r, c), Target: id(r, c+1), Weight: 1, Duration: 1},
					da.GraphArc{Source: id(r, c+1), Target: id(r, c), Weight: 1, Duration: 1})
			}
			if r+1 < rows {
				arcs = append(arcs,
					da.GraphArc{Source: id(r, c), Target: id(r+1, c), Weight: 1, Duration: 1},
					da.GraphArc{Source: id(r+1, c), Target: id(r, c), Weight: 1, Duration: 1})
			}
		}
	}
	return da.NewGraph(nodes, arcs, nil, util.NewIdMap(), nil)
}

func TestDinicTwoTrianglesBridge(t *testing.T) {
	fg := NewFlowGraph(6)
	for i := 0; i < 6; i++ {
		fg.AddVertex(da.NodeID(i), 0, float64(i))
	}
	for _, e := range [][2]int{{0, 1}, {1, 2}, {2, 0}, {3, 4}, {4, 5}, {5, 3}, {2, 3}} {
		fg.AddEdge(e[0], e[1])
	}

	dn := NewDinicMaxFlow(fg)
	s, tt := dn.createArtificialSourceSink([]int{0}, []int{5})
	cut := dn.ComputeMaxflowMinCut(s, tt)

	assert.Equal(t, 1, cut.GetMinCut())
	assert.Equal(t, 3, cut.GetNumNodesInPartitionTwo())
	for u := 0; u < 6; u++ {
		assert.Equal(t, u <= 2, cut.GetFlag(u), "vertex %d", u)
	}
}

func TestInertialFlowSplitsGrid(t *testing.T) {
	g := gridGraph(4, 8)
	all := make([]da.NodeID, g.NumberOfVertices())
	for i := range all {
		all[i] = da.NodeID(i)
	}
	cut := NewInertialFlow(buildFlowGraph(g, all), 4, 2).computeInertialFlowDinic(SOURCE_SINK_RATE)

	// the cheapest cut of a 4 x 8 grid is a vertical one through the 4 rows
	assert.Equal(t, 4, cut.GetMinCut())
	assert.Greater(t, cut.GetNumNodesInPartitionTwo(), 0)
	assert.Less(t, cut.GetNumNodesInPartitionTwo(), 32)
	assert.Zero(t, cut.GetNumNodesInPartitionTwo()%4, "a vertical cut takes whole columns")
}

func TestMultilevelPartitioning(t *testing.T) {
	testCases := []struct {
		name      string
		rows      int
		cols      int
		cellSizes []int
	}{
		{name: "two levels", rows: 8, cols: 8, cellSizes: []int{8, 32}},
		{name: "unsorted sizes", rows: 6, cols: 10, cellSizes: []int{40, 5, 16}},
		{name: "graph fits one cell", rows: 2, cols: 3, cellSizes: []int{10}},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			g := gridGraph(tt.rows, tt.cols)
			mp := NewMultilevelPartitioner(tt.cellSizes, 3, g, zap.NewNop())
			require.NoError(t, mp.RunMultilevelPartitioning())

			mlp, err := mp.BuildMLP()
			require.NoError(t, err)
			require.Equal(t, len(tt.cellSizes), mlp.GetNumberOfLevels())

			for level := 1; level <= mlp.GetNumberOfLevels(); level++ {
				covered := 0
				for _, cell := range mp.GetCells(level) {
					assert.LessOrEqual(t, len(cell), mp.cellSizes[level-1])
					covered += len(cell)
					for _, v := range cell {
						assert.Equal(t, mlp.GetCell(uint8(level), cell[0]), mlp.GetCell(uint8(level), v))
					}
				}
				assert.Equal(t, g.NumberOfVertices(), covered)
			}
			require.NoError(t, mlp.Validate())
		})
	}
}

func TestMultilevelPartitionFileRoundTrip(t *testing.T) {
	g := gridGraph(6, 6)
	mp := NewMultilevelPartitioner([]int{6, 18}, 2, g, zap.NewNop())
	path := filepath.Join(t.TempDir(), "graph.mlp")

	assert.Error(t, mp.SaveToFile(path))
	require.NoError(t, mp.RunMultilevelPartitioning())
	require.NoError(t, mp.SaveToFile(path))

	want, err := mp.BuildMLP()
	require.NoError(t, err)
	read := da.NewPlainMLP()
	require.NoError(t, read.ReadMlpFile(path))
	for v := da.NodeID(0); int(v) < g.NumberOfVertices(); v++ {
		assert.Equal(t, want.GetCellNumber(v), read.GetCellNumber(v))
	}
}

func TestMultilevelPartitionEmptyGraph(t *testing.T) {
	g := da.NewGraph(nil, nil, nil, util.NewIdMap(), nil)
	err := NewMultilevelPartitioner([]int{4}, 2, g, zap.NewNop()).RunMultilevelPartitioning()
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrEmptyGraph)
}
