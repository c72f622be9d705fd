package engine

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/lintang-b-s/navcore/pkg/contractor"
	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/lintang-b-s/navcore/pkg/engine/routing"
	"github.com/lintang-b-s/navcore/pkg/geo"
	"github.com/lintang-b-s/navcore/pkg/partitioner"
	"github.com/lintang-b-s/navcore/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// cityGrid rows x cols blocks roughly 110 m apart, every street two way.
func cityGrid(rng *rand.Rand, rows, cols int) *da.Graph {
	id := func(r, c int) da.NodeID { return da.NodeID(r*cols + c) }
	nodes := make([]da.NodeInfo, rows*cols)
	arcs := make([]da.GraphArc, 0, 4*rows*cols)
	addStreet := func(u, v da.NodeID) {
		w := da.EdgeWeight(5 + rng.Intn(20))
		arcs = append(arcs,
			da.GraphArc{Source: u, Target: v, Weight: w, Duration: da.EdgeDuration(w) * 10},
			da.GraphArc{Source: v, Target: u, Weight: w, Duration: da.EdgeDuration(w) * 10})
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			nodes[id(r, c)] = da.NodeInfo{Lat: -7.80 + float64(r)*0.001, Lon: 110.36 + float64(c)*0.001,
				OsmID: int64(id(r, c))}
			if c+1 < cols {
				addStreet(id(r, c), id(r, c+1))
			}
			if r+1 < rows {
				addStreet(id(r, c), id(r+1, c))
			}
		}
	}
	return da.NewGraph(nodes, arcs, nil, util.NewIdMap(), nil)
}

// writeDataset graph, ch snapshot and mlp file of g in dir, returns a config pointing at them.
func writeDataset(t *testing.T, g *da.Graph, dir string) *util.Config {
	t.Helper()
	cfg := &util.Config{
		Preprocessor: util.PreprocessorConfig{GraphFile: filepath.Join(dir, "graph.nbg"), RelationShards: 1, SortChunks: 1},
		Contractor: util.ContractorConfig{SnapshotFile: filepath.Join(dir, "graph.ch"), CoreFactor: 0.7,
			WitnessSettleLimit: 100},
		Partitioner: util.PartitionerConfig{MlpFile: filepath.Join(dir, "graph.mlp"), CellSizes: []int{6, 18}, Slopes: 2},
		Engine:      util.EngineConfig{Algorithm: "mld", SnapRadiusKM: 0.05, VerifyOneToMany: true, CustomizeWorkers: 2},
	}
	require.NoError(t, util.ValidateConfig(cfg))
	require.NoError(t, g.WriteGraph(cfg.Preprocessor.GraphFile))

	ch := contractor.NewContractor(zap.NewNop(), cfg.Contractor.CoreFactor, cfg.Contractor.WitnessSettleLimit).Contract(g)
	require.NoError(t, contractor.WriteSnapshot(cfg.Contractor.SnapshotFile, g, ch))

	mp := partitioner.NewMultilevelPartitioner(cfg.Partitioner.CellSizes, cfg.Partitioner.Slopes, g, zap.NewNop())
	require.NoError(t, mp.RunMultilevelPartitioning())
	require.NoError(t, mp.SaveToFile(cfg.Partitioner.MlpFile))
	return cfg
}

func TestEnginesAgreeOnTable(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	g := cityGrid(rng, 6, 6)
	cfg := writeDataset(t, g, t.TempDir())

	coords := make([]geo.Coordinate, 0)
	for _, v := range []da.NodeID{0, 7, 14, 21, 35} {
		coords = append(coords, g.GetCoordinate(v))
	}
	// half way along a block
	coords = append(coords, geo.NewCoordinate(-7.80, 110.3625))

	tables := make(map[string]*routing.Table)
	for _, algorithm := range []string{"corech", "mld"} {
		cfg.Engine.Algorithm = algorithm
		e, err := NewEngine(cfg, zap.NewNop())
		require.NoError(t, err, algorithm)
		assert.Equal(t, g.NumberOfVertices(), e.GetGraph().NumberOfVertices())

		table, err := e.Table(coords, nil, nil)
		require.NoError(t, err, algorithm)
		require.Equal(t, len(coords), table.NumSources)
		require.Equal(t, len(coords), table.NumTargets)
		for i := range coords {
			assert.Equal(t, da.NewCost(0, 0), table.Get(i, i))
			for j := range coords {
				assert.True(t, table.IsReachable(i, j), "%s %d -> %d", algorithm, i, j)
			}
		}
		tables[algorithm] = table
	}
	assert.Equal(t, tables["corech"].Weights, tables["mld"].Weights)
	assert.Equal(t, tables["corech"].Durations, tables["mld"].Durations)
}

func TestEngineCHRejectsCoreSnapshot(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	g := cityGrid(rng, 3, 4)
	cfg := writeDataset(t, g, t.TempDir())

	cfg.Engine.Algorithm = "ch"
	_, err := NewEngine(cfg, zap.NewNop())
	assert.ErrorIs(t, err, util.ErrBadParamInput)
}

func TestEngineErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	g := cityGrid(rng, 3, 3)
	ch := contractor.NewContractor(zap.NewNop(), 1, 100).Contract(g)
	algorithms, err := routing.NewCHAlgorithms(ch, zap.NewNop())
	require.NoError(t, err)
	e := NewEngineWithAlgorithms(g, algorithms, 0.05, zap.NewNop())

	t.Run("coordinate off the network", func(t *testing.T) {
		_, err := e.Table([]geo.Coordinate{g.GetCoordinate(0), geo.NewCoordinate(-6.2, 106.8)}, nil, nil)
		assert.ErrorIs(t, err, util.ErrNotFound)
	})

	t.Run("index out of range", func(t *testing.T) {
		_, err := e.Table([]geo.Coordinate{g.GetCoordinate(0), g.GetCoordinate(8)}, []int{0}, []int{2})
		assert.ErrorIs(t, err, util.ErrBadParamInput)
	})

	t.Run("missing files", func(t *testing.T) {
		cfg := &util.Config{
			Preprocessor: util.PreprocessorConfig{GraphFile: filepath.Join(t.TempDir(), "missing.nbg")},
			Engine:       util.EngineConfig{Algorithm: "mld"},
		}
		_, err := NewEngine(cfg, zap.NewNop())
		assert.ErrorIs(t, err, util.ErrNotFound)
	})

	t.Run("corner to corner", func(t *testing.T) {
		table, err := e.Table([]geo.Coordinate{g.GetCoordinate(0), g.GetCoordinate(8)}, []int{0}, []int{1})
		require.NoError(t, err)
		assert.True(t, table.IsReachable(0, 0))
		assert.Greater(t, table.Durations[0], da.EdgeDuration(0))
	})
}
