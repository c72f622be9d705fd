package preprocessor

import (
	"testing"

	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func buildGraph(t *testing.T, numNodes int, edges []da.NodeBasedEdge) *da.NodeBasedDynamicGraph {
	t.Helper()
	g, err := NewNodeBasedDynamicGraphFromEdges(numNodes, NormalizeEdges(edges, testAnnotations(), 1), 1)
	require.NoError(t, err)
	return g
}

func compress(g *da.NodeBasedDynamicGraph, barriers, signals NodeSet, restrictions []da.TurnRestriction,
	conditional []da.ConditionalTurnRestriction) *da.CompressedEdgeContainer {
	geometry := da.NewCompressedEdgeContainer()
	NewGraphCompressor(zap.NewNop()).Compress(barriers, signals, restrictions, conditional, g,
		testAnnotations(), geometry)
	return geometry
}

func TestCompressFourCycle(t *testing.T) {
	// 0 - 1 - 2 - 3 - 0 with unit weights, 0 and 2 get a third neighbour each
	g := buildGraph(t, 6, []da.NodeBasedEdge{
		bidirectional(0, 1, 1),
		bidirectional(1, 2, 1),
		bidirectional(2, 3, 1),
		bidirectional(3, 0, 1),
		bidirectional(0, 4, 1),
		bidirectional(2, 5, 1),
	})
	geometry := compress(g, NodeSet{}, NodeSet{}, nil, nil)

	assert.Equal(t, 0, g.OutDegree(1))
	assert.Equal(t, 0, g.OutDegree(3))

	for _, dir := range [][2]da.NodeID{{0, 2}, {2, 0}} {
		parallel := g.FindEdges(dir[0], dir[1])
		require.Len(t, parallel, 2)

		interior := make([][]da.NodeID, 0, 2)
		for _, e := range parallel {
			data := g.GetEdgeData(e)
			assert.Equal(t, da.EdgeWeight(2), data.Weight)
			assert.Equal(t, da.EdgeDuration(20), data.Duration)
			assert.False(t, data.Reversed)
			assert.Equal(t, da.NewCost(2, 20), geometry.BucketCost(e))
			interior = append(interior, geometry.InteriorNodes(e))
		}
		assert.ElementsMatch(t, [][]da.NodeID{{1}, {3}}, interior)
	}

	assert.Equal(t, 8, g.NumberOfEdges())
	assert.Equal(t, 4, geometry.NumberOfCompressedEdges())
}

func TestCompressPreservesCost(t *testing.T) {
	g := buildGraph(t, 5, []da.NodeBasedEdge{
		bidirectional(0, 1, 3),
		bidirectional(1, 2, 5),
		bidirectional(2, 3, 7),
		bidirectional(3, 4, 11),
	})
	geometry := compress(g, NodeSet{}, NodeSet{}, nil, nil)

	e := g.FindEdge(0, 4)
	require.NotEqual(t, da.SPECIAL_EDGEID, e)
	assert.Equal(t, da.EdgeWeight(26), g.GetEdgeData(e).Weight)
	assert.Equal(t, da.EdgeDuration(260), g.GetEdgeData(e).Duration)
	assert.Equal(t, []da.NodeID{1, 2, 3}, geometry.InteriorNodes(e))
	assert.Equal(t, da.NewCost(26, 260), geometry.BucketCost(e))

	r := g.FindEdge(4, 0)
	require.NotEqual(t, da.SPECIAL_EDGEID, r)
	assert.Equal(t, []da.NodeID{3, 2, 1}, geometry.InteriorNodes(r))
	assert.Equal(t, 2, g.NumberOfEdges())
}

func TestCompressSkipsProtectedNodes(t *testing.T) {
	chain := []da.NodeBasedEdge{
		bidirectional(0, 1, 1),
		bidirectional(1, 2, 1),
		bidirectional(2, 3, 1),
	}
	testCases := []struct {
		name        string
		barriers    NodeSet
		signals     NodeSet
		restriction []da.TurnRestriction
		conditional []da.ConditionalTurnRestriction
		kept        []da.NodeID
	}{
		{
			name: "nothing protected",
		},
		{
			name:     "barrier",
			barriers: NodeSet{1: {}},
			kept:     []da.NodeID{1},
		},
		{
			name:    "traffic signal",
			signals: NodeSet{2: {}},
			kept:    []da.NodeID{2},
		},
		{
			name:        "via node",
			restriction: []da.TurnRestriction{da.NewNodeTurnRestriction(0, 1, 2, false)},
			kept:        []da.NodeID{1},
		},
		{
			name: "conditional via node",
			conditional: []da.ConditionalTurnRestriction{{
				TurnRestriction: da.NewNodeTurnRestriction(1, 2, 3, false),
				Condition:       "Mo-Fr 07:00-09:00",
			}},
			kept: []da.NodeID{2},
		},
		{
			name: "via way ends",
			restriction: []da.TurnRestriction{da.NewWayTurnRestriction(
				da.NodeRestriction{From: 0, Via: 1, To: 2},
				da.NodeRestriction{From: 1, Via: 2, To: 3}, false)},
			kept: []da.NodeID{1, 2},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, 4, chain)
			if tt.barriers == nil {
				tt.barriers = NodeSet{}
			}
			if tt.signals == nil {
				tt.signals = NodeSet{}
			}
			compress(g, tt.barriers, tt.signals, tt.restriction, tt.conditional)

			for v := da.NodeID(1); v <= 2; v++ {
				protected := false
				for _, k := range tt.kept {
					protected = protected || k == v
				}
				if protected {
					assert.Equal(t, 2, g.OutDegree(v), "node %d must survive", v)
				} else {
					assert.Equal(t, 0, g.OutDegree(v), "node %d must be removed", v)
				}
			}
		})
	}
}

func TestCompressSkipsDifferentStreets(t *testing.T) {
	second := bidirectional(1, 2, 1)
	second.AnnotationID = 2
	g := buildGraph(t, 3, []da.NodeBasedEdge{bidirectional(0, 1, 1), second})
	compress(g, NodeSet{}, NodeSet{}, nil, nil)
	assert.Equal(t, 2, g.OutDegree(1))
}

func TestCompressOneWayChain(t *testing.T) {
	g := buildGraph(t, 3, []da.NodeBasedEdge{oneway(0, 1, 2), oneway(1, 2, 3)})
	compress(g, NodeSet{}, NodeSet{}, nil, nil)

	forward := g.FindEdge(0, 2)
	require.NotEqual(t, da.SPECIAL_EDGEID, forward)
	assert.False(t, g.GetEdgeData(forward).Reversed)
	assert.Equal(t, da.EdgeWeight(5), g.GetEdgeData(forward).Weight)

	backward := g.FindEdge(2, 0)
	require.NotEqual(t, da.SPECIAL_EDGEID, backward)
	assert.True(t, g.GetEdgeData(backward).Reversed)
}

func TestCompressRewritesRestrictions(t *testing.T) {
	// 0 - 1 - 2 - 3 - 4, restriction 1 -> 2 -> 3, nodes 1 and 3 disappear
	g := buildGraph(t, 5, []da.NodeBasedEdge{
		bidirectional(0, 1, 1),
		bidirectional(1, 2, 1),
		bidirectional(2, 3, 1),
		bidirectional(3, 4, 1),
	})
	restrictions := []da.TurnRestriction{da.NewNodeTurnRestriction(1, 2, 3, false)}
	conditional := []da.ConditionalTurnRestriction{{
		TurnRestriction: da.NewNodeTurnRestriction(3, 2, 1, true),
		Condition:       "Sa,Su",
	}}
	compress(g, NodeSet{}, NodeSet{}, restrictions, conditional)

	assert.Equal(t, da.NodeRestriction{From: 0, Via: 2, To: 4}, restrictions[0].Node)
	assert.Equal(t, da.NodeRestriction{From: 4, Via: 2, To: 0}, conditional[0].Node)
	assert.Equal(t, 2, g.OutDegree(2))
	assert.NotEqual(t, da.SPECIAL_EDGEID, g.FindEdge(0, 2))
	assert.NotEqual(t, da.SPECIAL_EDGEID, g.FindEdge(2, 4))
}

func TestRestrictionCompressorWayRestriction(t *testing.T) {
	restrictions := []da.TurnRestriction{da.NewWayTurnRestriction(
		da.NodeRestriction{From: 5, Via: 1, To: 6},
		da.NodeRestriction{From: 7, Via: 2, To: 8}, false)}
	rc := NewRestrictionCompressor(restrictions, nil)

	rc.Compress(0, 5, 1) // in.From
	rc.Compress(1, 6, 9) // in.To on the via way
	rc.Compress(2, 8, 3) // out.To

	assert.Equal(t, da.NodeRestriction{From: 0, Via: 1, To: 9}, restrictions[0].Way.In)
	assert.Equal(t, da.NodeRestriction{From: 7, Via: 2, To: 3}, restrictions[0].Way.Out)
}
