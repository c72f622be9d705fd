package datastructure

import (
	"testing"

	"github.com/lintang-b-s/navcore/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pathGraph(bidirectional bool) *Graph {
	nodes := make([]NodeInfo, 4)
	for i := range nodes {
		nodes[i] = NodeInfo{Lat: -7.75, Lon: 110.36 + float64(i)*0.001, OsmID: int64(1000 + i)}
	}
	nodes[2].TrafficSignal = true
	arcs := make([]GraphArc, 0, 6)
	for u := NodeID(0); u < 3; u++ {
		arcs = append(arcs, GraphArc{Source: u, Target: u + 1, Weight: EdgeWeight(u + 1), Duration: EdgeDuration(10 * (u + 1))})
		if bidirectional {
			arcs = append(arcs, GraphArc{Source: u + 1, Target: u, Weight: EdgeWeight(u + 1), Duration: EdgeDuration(10 * (u + 1))})
		}
	}
	return NewGraph(nodes, arcs, nil, util.NewIdMap(), nil)
}

func TestNewGraphForwardAndBackwardStar(t *testing.T) {
	g := pathGraph(true)

	assert.Equal(t, 4, g.NumberOfVertices())
	assert.Equal(t, 6, g.NumberOfEdges())
	assert.Equal(t, 1, g.OutDegree(0))
	assert.Equal(t, 2, g.OutDegree(1))
	assert.Equal(t, 2, g.InDegree(2))
	assert.True(t, g.GetVertex(2).IsTrafficSignal())
	assert.False(t, g.GetVertex(2).IsBarrier())
	assert.Equal(t, int64(1003), g.GetVertex(3).GetOsmID())

	heads := make([]NodeID, 0)
	g.ForOutEdgesOf(1, func(e *OutEdge) {
		heads = append(heads, e.GetHead())
	})
	assert.ElementsMatch(t, []NodeID{0, 2}, heads)

	tails := make([]NodeID, 0)
	g.ForInEdgesOf(1, func(e *InEdge) {
		tails = append(tails, e.GetTail())
		assert.Equal(t, e.GetCost(), g.FindOutEdge(e.GetTail(), 1).GetCost())
	})
	assert.ElementsMatch(t, []NodeID{0, 2}, tails)

	e := g.FindOutEdge(2, 3)
	require.NotNil(t, e)
	assert.Equal(t, NewCost(3, 30), e.GetCost())
	assert.Nil(t, g.FindOutEdge(0, 3))
}

func TestCHGraphStorage(t *testing.T) {
	rank := []uint32{0, 2, 1, 3}
	noCore := []bool{false, false, false, false}
	testCases := []struct {
		name      string
		core      []bool
		arc       CHArc
		owner     NodeID
		target    NodeID
		forward   bool
		backward  bool
		numStored int
	}{
		{name: "upward arc at tail", core: noCore, arc: CHArc{Source: 0, Target: 1},
			owner: 0, target: 1, forward: true, numStored: 1},
		{name: "downward arc at head", core: noCore, arc: CHArc{Source: 1, Target: 2},
			owner: 2, target: 1, backward: true, numStored: 1},
		{name: "core arc at both ends", core: []bool{false, true, false, true}, arc: CHArc{Source: 1, Target: 3},
			owner: 1, target: 3, forward: true, numStored: 2},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			arc := tt.arc
			arc.Cost, arc.Middle = NewCost(4, 40), SPECIAL_NODEID
			loop := CHArc{Source: 2, Target: 2, Cost: NewCost(1, 1), Middle: SPECIAL_NODEID}
			g := NewCHGraph(4, rank, tt.core, []CHArc{arc, loop})

			require.Equal(t, tt.numStored, g.NumberOfEdges())
			found := false
			g.ForEdgesOf(tt.owner, func(e *CHEdge) {
				if e.Target != tt.target {
					return
				}
				found = true
				assert.Equal(t, tt.forward, e.Forward)
				assert.Equal(t, tt.backward, e.Backward)
				assert.Equal(t, NewCost(4, 40), e.GetCost())
				assert.False(t, e.IsShortcut())
			})
			assert.True(t, found)
		})
	}
}

func TestOverlayGraphBoundaryNodes(t *testing.T) {
	mlp, err := NewMultilevelPartition([][]uint32{{0, 0, 1, 1}})
	require.NoError(t, err)

	t.Run("bidirectional", func(t *testing.T) {
		og := NewOverlayGraph(pathGraph(true), mlp)
		assert.Equal(t, uint32(2), og.GetWeightVectorSize())
		assert.Equal(t, 4, og.NumberOfOverlayVertices(1))

		for _, v := range []NodeID{1, 2} {
			i, ok := og.EntryIndex(1, v)
			assert.True(t, ok)
			assert.Equal(t, uint32(0), i)
			j, ok := og.ExitIndex(1, v)
			assert.True(t, ok)
			assert.Equal(t, uint32(0), j)

			cell := og.GetCell(1, v)
			require.NotNil(t, cell)
			assert.Equal(t, v, og.GetEntryPoint(cell, 0))
			assert.Equal(t, v, og.GetExitPoint(cell, 0))
		}
		_, ok := og.EntryIndex(1, 0)
		assert.False(t, ok)
		assert.NotEqual(t, og.GetCell(1, 1).WeightIndex(0, 0), og.GetCell(1, 2).WeightIndex(0, 0))
	})

	t.Run("one way", func(t *testing.T) {
		og := NewOverlayGraph(pathGraph(false), mlp)
		assert.Equal(t, uint32(0), og.GetWeightVectorSize())

		left := og.GetCell(1, 0)
		require.NotNil(t, left)
		assert.Equal(t, uint32(0), left.GetNumEntryPoints())
		assert.Equal(t, uint32(1), left.GetNumExitPoints())

		right := og.GetCell(1, 3)
		require.NotNil(t, right)
		assert.Equal(t, uint32(1), right.GetNumEntryPoints())
		assert.Equal(t, uint32(0), right.GetNumExitPoints())
	})
}

func TestOverlayWeightsStartInfinite(t *testing.T) {
	ow := NewOverlayWeights(3)
	assert.Equal(t, 3, ow.Len())
	for i := uint32(0); i < 3; i++ {
		assert.True(t, ow.GetWeight(i).IsInfinite())
	}
	ow.SetWeight(1, NewCost(7, 70))
	assert.Equal(t, NewCost(7, 70), ow.GetWeight(1))
}

func TestStronglyConnectedComponents(t *testing.T) {
	// cycle 0 -> 1 -> 2 -> 0, the pair 3 <-> 4 reached from 2, and 5 alone pointing into the cycle
	nodes := make([]NodeInfo, 6)
	arcs := []GraphArc{
		{Source: 0, Target: 1, Weight: 1, Duration: 1},
		{Source: 1, Target: 2, Weight: 1, Duration: 1},
		{Source: 2, Target: 0, Weight: 1, Duration: 1},
		{Source: 2, Target: 3, Weight: 1, Duration: 1},
		{Source: 3, Target: 4, Weight: 1, Duration: 1},
		{Source: 4, Target: 3, Weight: 1, Duration: 1},
		{Source: 5, Target: 0, Weight: 1, Duration: 1},
	}
	g := NewGraph(nodes, arcs, nil, util.NewIdMap(), nil)

	component, sizes := g.StronglyConnectedComponents()
	require.Len(t, component, 6)
	require.Len(t, sizes, 3)

	assert.Equal(t, component[0], component[1])
	assert.Equal(t, component[0], component[2])
	assert.Equal(t, component[3], component[4])
	assert.NotEqual(t, component[0], component[3])
	assert.NotEqual(t, component[0], component[5])
	assert.NotEqual(t, component[3], component[5])

	assert.Equal(t, 3, sizes[component[0]])
	assert.Equal(t, 2, sizes[component[3]])
	assert.Equal(t, 1, sizes[component[5]])
}
