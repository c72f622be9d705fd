package engine

import (
	"github.com/lintang-b-s/navcore/pkg/contractor"
	"github.com/lintang-b-s/navcore/pkg/customizer"
	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/lintang-b-s/navcore/pkg/engine/routing"
	"github.com/lintang-b-s/navcore/pkg/geo"
	"github.com/lintang-b-s/navcore/pkg/spatialindex"
	"github.com/lintang-b-s/navcore/pkg/util"
	"go.uber.org/zap"
)

// strongly connected components below this many vertices are only snapped to when nothing else is near.
const tinyComponentSize = 1000

// Engine snaps query coordinates onto the graph and answers them with one routing facade.
type Engine struct {
	graph        *da.Graph
	algorithms   routing.RoutingAlgorithms
	rtree        *spatialindex.Rtree
	snapRadiusKM float64
	logger       *zap.Logger
}

func (e *Engine) GetRoutingAlgorithms() routing.RoutingAlgorithms {
	return e.algorithms
}

func (e *Engine) GetGraph() *da.Graph {
	return e.graph
}

func NewEngine(cfg *util.Config, logger *zap.Logger) (*Engine, error) {
	logger.Info("Starting query engine...", zap.String("algorithm", cfg.Engine.Algorithm))

	logger.Info("Reading graph from ", zap.String("graphFilePath", cfg.Preprocessor.GraphFile))
	graph, err := da.ReadGraph(cfg.Preprocessor.GraphFile)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrNotFound, "read graph %s", cfg.Preprocessor.GraphFile)
	}

	algorithms, err := initializeRoutingAlgorithms(cfg, graph, logger)
	if err != nil {
		return nil, err
	}
	return NewEngineWithAlgorithms(graph, algorithms, cfg.Engine.SnapRadiusKM, logger), nil
}

// NewEngineWithAlgorithms engine over an already loaded graph and facade.
func NewEngineWithAlgorithms(graph *da.Graph, algorithms routing.RoutingAlgorithms, snapRadiusKM float64,
	logger *zap.Logger) *Engine {
	rt := spatialindex.NewRtree()
	rt.Build(graph, 0.01, logger)
	rt.MarkTinyComponents(graph, tinyComponentSize, logger)
	return &Engine{
		graph:        graph,
		algorithms:   algorithms,
		rtree:        rt,
		snapRadiusKM: snapRadiusKM,
		logger:       logger,
	}
}

func initializeRoutingAlgorithms(cfg *util.Config, graph *da.Graph, logger *zap.Logger) (routing.RoutingAlgorithms,
	error) {
	switch cfg.Engine.Algorithm {
	case "ch", "corech":
		logger.Info("Reading contraction hierarchy from ", zap.String("snapshotFilePath", cfg.Contractor.SnapshotFile))
		ch, err := contractor.ReadSnapshot(cfg.Contractor.SnapshotFile, graph)
		if err != nil {
			return nil, err
		}
		if cfg.Engine.Algorithm == "corech" {
			return routing.NewCoreCHAlgorithms(ch, logger), nil
		}
		return routing.NewCHAlgorithms(ch, logger)

	case "mld":
		logger.Info("Reading multilevel partition from ", zap.String("mlpFilePath", cfg.Partitioner.MlpFile))
		mlp := da.NewPlainMLP()
		if err := mlp.ReadMlpFile(cfg.Partitioner.MlpFile); err != nil {
			return nil, util.WrapErrorf(err, util.ErrNotFound, "read mlp file %s", cfg.Partitioner.MlpFile)
		}
		if err := mlp.Validate(); err != nil {
			return nil, err
		}
		overlayGraph := da.NewOverlayGraph(graph, mlp)
		overlayWeights := customizer.NewCustomizer(graph, overlayGraph, cfg.Engine.CustomizeWorkers, logger).Customize()
		return routing.NewMLDAlgorithms(graph, overlayGraph, overlayWeights, cfg.Engine.VerifyOneToMany, logger)
	}
	return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "unknown algorithm %q", cfg.Engine.Algorithm)
}

// Snap phantom node for every coordinate, fails on the first one without a road nearby.
func (e *Engine) Snap(coords []geo.Coordinate) ([]da.PhantomNode, error) {
	phantoms := make([]da.PhantomNode, len(coords))
	for i, c := range coords {
		p, err := e.rtree.Snap(e.graph, c, e.snapRadiusKM)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrNotFound, "coordinate %d (%f, %f) is off the road network",
				i, c.Lat, c.Lon)
		}
		phantoms[i] = p
	}
	return phantoms, nil
}

// Table weight and duration matrix between the sources and targets, both indexing into coords. empty
// index lists select every coordinate.
func (e *Engine) Table(coords []geo.Coordinate, sources, targets []int) (*routing.Table, error) {
	phantoms, err := e.Snap(coords)
	if err != nil {
		return nil, err
	}
	sources, targets = allIfEmpty(sources, len(coords)), allIfEmpty(targets, len(coords))

	table, err := e.algorithms.ManyToManyTable(phantoms, sources, targets)
	if err != nil {
		e.logger.Error("table query failed", zap.String("algorithm", e.algorithms.Name()), zap.Error(err))
		return nil, err
	}
	e.logger.Debug("table query", zap.String("algorithm", e.algorithms.Name()),
		zap.Int("sources", len(sources)), zap.Int("targets", len(targets)))
	return table, nil
}

func allIfEmpty(indices []int, n int) []int {
	if len(indices) > 0 {
		return indices
	}
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	return all
}
