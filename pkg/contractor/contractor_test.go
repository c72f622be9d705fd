package contractor

import (
	"errors"
	"math/rand"
	"path/filepath"
	"testing"

	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/lintang-b-s/navcore/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func randomGraph(rng *rand.Rand, n, m int) *da.Graph {
	nodes := make([]da.NodeInfo, n)
	for i := range nodes {
		nodes[i] = da.NodeInfo{Lat: rng.Float64(), Lon: rng.Float64(), OsmID: int64(i)}
	}
	arcs := make([]da.GraphArc, 0, 2*m)
	for i := 0; i < m; i++ {
		u := da.NodeID(rng.Intn(n))
		v := da.NodeID(rng.Intn(n))
		if u == v {
			continue
		}
		w := da.EdgeWeight(1 + rng.Intn(20))
		d := da.EdgeDuration(1 + rng.Intn(30))
		arcs = append(arcs, da.GraphArc{Source: u, Target: v, Weight: w, Duration: d})
		if rng.Intn(3) > 0 {
			arcs = append(arcs, da.GraphArc{Source: v, Target: u, Weight: w, Duration: d})
		}
	}
	return da.NewGraph(nodes, arcs, nil, util.NewIdMap(), nil)
}

func dijkstra(g *da.Graph, source da.NodeID) []da.Cost {
	dist := make([]da.Cost, g.NumberOfVertices())
	for i := range dist {
		dist[i] = da.InfiniteCost()
	}
	heap := da.NewQueryHeap[struct{}]()
	heap.Insert(source, da.NewCost(0, 0), struct{}{})
	for !heap.Empty() {
		u := heap.DeleteMin()
		dist[u] = heap.GetKey(u)
		g.ForOutEdgesOf(u, func(e *da.OutEdge) {
			heap.Relax(e.GetHead(), dist[u].Add(e.GetCost()), struct{}{})
		})
	}
	return dist
}

// chDistance exhaustive upward search from both ends, the core is searched in both directions.
func chDistance(ch *da.CHGraph, s, t da.NodeID) da.Cost {
	search := func(start da.NodeID, forward bool) map[da.NodeID]da.Cost {
		heap := da.NewQueryHeap[struct{}]()
		heap.Insert(start, da.NewCost(0, 0), struct{}{})
		settled := make(map[da.NodeID]da.Cost)
		for !heap.Empty() {
			u := heap.DeleteMin()
			settled[u] = heap.GetKey(u)
			ch.ForEdgesOf(u, func(e *da.CHEdge) {
				if (forward && e.Forward) || (!forward && e.Backward) {
					heap.Relax(e.Target, settled[u].Add(e.GetCost()), struct{}{})
				}
			})
		}
		return settled
	}
	fwd := search(s, true)
	bwd := search(t, false)
	best := da.InfiniteCost()
	for v, df := range fwd {
		if db, ok := bwd[v]; ok {
			if c := df.Add(db); c.Less(best) {
				best = c
			}
		}
	}
	return best
}

func TestContractMatchesDijkstra(t *testing.T) {
	testCases := []struct {
		name       string
		coreFactor float64
		wantCore   int
	}{
		{name: "full hierarchy", coreFactor: 1, wantCore: 0},
		{name: "half core", coreFactor: 0.5, wantCore: 20},
		{name: "everything core", coreFactor: 0, wantCore: 40},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(7))
			g := randomGraph(rng, 40, 110)
			ch := NewContractor(zap.NewNop(), tt.coreFactor, 100).Contract(g)

			require.Equal(t, g.NumberOfVertices(), ch.NumberOfNodes())
			assert.Equal(t, tt.wantCore, ch.NumberOfCoreNodes())
			assert.Equal(t, tt.wantCore > 0, ch.HasCore())

			for s := da.NodeID(0); int(s) < g.NumberOfVertices(); s++ {
				want := dijkstra(g, s)
				for target := da.NodeID(0); int(target) < g.NumberOfVertices(); target++ {
					assert.Equal(t, want[target], chDistance(ch, s, target), "%d -> %d", s, target)
				}
			}
		})
	}
}

func TestContractRanksArePermutation(t *testing.T) {
	g := randomGraph(rand.New(rand.NewSource(3)), 30, 70)
	ch := NewContractor(zap.NewNop(), 0.6, 50).Contract(g)

	seen := make(map[uint32]bool)
	for v, r := range ch.Rank {
		assert.False(t, seen[r], "rank %d used twice", r)
		seen[r] = true
		if ch.IsCore(da.NodeID(v)) {
			assert.GreaterOrEqual(t, r, uint32(18), "core node %d must be ranked above contracted nodes", v)
		}
	}
	assert.Len(t, seen, 30)
}

func TestContractPathAddsShortcut(t *testing.T) {
	// 1 <-> 0 <-> 2, every node has the same priority so the tie break contracts 0 first
	nodes := make([]da.NodeInfo, 3)
	arcs := []da.GraphArc{
		{Source: 1, Target: 0, Weight: 2, Duration: 20},
		{Source: 0, Target: 1, Weight: 2, Duration: 20},
		{Source: 0, Target: 2, Weight: 3, Duration: 30},
		{Source: 2, Target: 0, Weight: 3, Duration: 30},
	}
	g := da.NewGraph(nodes, arcs, nil, util.NewIdMap(), nil)
	ch := NewContractor(zap.NewNop(), 1, 10).Contract(g)

	assert.Equal(t, uint32(0), ch.Rank[0])
	assert.Equal(t, da.NewCost(5, 50), chDistance(ch, 1, 2))
	assert.Equal(t, da.NewCost(5, 50), chDistance(ch, 2, 1))

	shortcuts := 0
	for i := range ch.Edges {
		if ch.Edges[i].IsShortcut() {
			shortcuts++
			assert.Equal(t, da.NodeID(0), ch.Edges[i].Middle)
			assert.Equal(t, da.NewCost(5, 50), ch.Edges[i].GetCost())
		}
	}
	assert.Equal(t, 2, shortcuts)
}

func TestSnapshotRoundTrip(t *testing.T) {
	g := randomGraph(rand.New(rand.NewSource(11)), 25, 60)
	ch := NewContractor(zap.NewNop(), 0.8, 100).Contract(g)

	path := filepath.Join(t.TempDir(), "graph.ch")
	require.NoError(t, WriteSnapshot(path, g, ch))

	read, err := ReadSnapshot(path, g)
	require.NoError(t, err)
	assert.Equal(t, ch.FirstEdge, read.FirstEdge)
	assert.Equal(t, ch.Edges, read.Edges)
	assert.Equal(t, ch.Rank, read.Rank)
	assert.Equal(t, ch.Core, read.Core)
}

func TestSnapshotRejectsOtherGraph(t *testing.T) {
	g := randomGraph(rand.New(rand.NewSource(11)), 25, 60)
	ch := NewContractor(zap.NewNop(), 1, 100).Contract(g)
	path := filepath.Join(t.TempDir(), "graph.ch")
	require.NoError(t, WriteSnapshot(path, g, ch))

	other := randomGraph(rand.New(rand.NewSource(12)), 26, 60)
	_, err := ReadSnapshot(path, other)
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrBadParamInput))

	_, err = ReadSnapshot(filepath.Join(t.TempDir(), "missing.ch"), g)
	assert.True(t, errors.Is(err, util.ErrNotFound))
}
