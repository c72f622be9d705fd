package routing

import (
	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/lintang-b-s/navcore/pkg/util"
	"go.uber.org/zap"
)

func noHeapData(da.NodeID) HeapData {
	return HeapData{}
}

// chSearches upward searches of a (core) contraction hierarchy with stall-on-demand. inside the core
// every arc is stored in both directions, so there the searches run as plain Dijkstra.
type chSearches struct {
	ch *da.CHGraph
}

func (c chSearches) forward() search {
	return search{
		data: noHeapData,
		settle: func(heap *da.QueryHeap[HeapData], u da.NodeID, key da.Cost) bool {
			if c.stalled(heap, u, key, func(e *da.CHEdge) bool { return e.Backward }) {
				return false
			}
			c.ch.ForEdgesOf(u, func(e *da.CHEdge) {
				if e.Forward {
					heap.Relax(e.Target, key.Add(e.GetCost()), HeapData{})
				}
			})
			return true
		},
	}
}

func (c chSearches) backward() search {
	return search{
		data: noHeapData,
		settle: func(heap *da.QueryHeap[HeapData], u da.NodeID, key da.Cost) bool {
			if c.stalled(heap, u, key, func(e *da.CHEdge) bool { return e.Forward }) {
				return false
			}
			c.ch.ForEdgesOf(u, func(e *da.CHEdge) {
				if e.Backward {
					heap.Relax(e.Target, key.Add(e.GetCost()), HeapData{})
				}
			})
			return true
		},
	}
}

// stalled u is reached cheaper through a higher node than its key says, so its key is not a distance.
func (c chSearches) stalled(heap *da.QueryHeap[HeapData], u da.NodeID, key da.Cost,
	opposite func(e *da.CHEdge) bool) bool {
	stall := false
	c.ch.ForEdgesOf(u, func(e *da.CHEdge) {
		if stall || !opposite(e) {
			return
		}
		if heap.GetKey(e.Target).Add(e.GetCost()).Less(key) {
			stall = true
		}
	})
	return stall
}

// chBase bucket many-to-many shared by the CH and CoreCH facades, every entry point runs it.
type chBase struct {
	ch       *da.CHGraph
	searches chSearches
	heaps    *heapsPool
	logger   *zap.Logger
}

func newCHBase(ch *da.CHGraph, logger *zap.Logger) chBase {
	return chBase{
		ch:       ch,
		searches: chSearches{ch: ch},
		heaps:    newHeapsPool(),
		logger:   logger,
	}
}

func (c *chBase) HasOneToManySearch() bool {
	return false
}

func (c *chBase) HasManyToOneSearch() bool {
	return false
}

func (c *chBase) ManyToManyTable(phantoms []da.PhantomNode, sources, targets []int) (*Table, error) {
	if err := validateQuery(phantoms, sources, targets, c.ch.NumberOfNodes()); err != nil {
		return nil, err
	}
	c.logger.Debug("bucket many to many", zap.Int("sources", len(sources)), zap.Int("targets", len(targets)))
	heaps := c.heaps.get()
	defer c.heaps.put(heaps)
	return bucketManyToMany(heaps, phantoms, sources, targets, c.searches.forward(), c.searches.backward()), nil
}

func (c *chBase) ManyToManySearch(phantoms []da.PhantomNode, sources, targets []int) ([]da.EdgeDuration, error) {
	return durations(c.ManyToManyTable, phantoms, sources, targets)
}

func (c *chBase) OneToManySearch(phantoms []da.PhantomNode, source int, targets []int) (*Table, error) {
	return c.ManyToManyTable(phantoms, []int{source}, targets)
}

func (c *chBase) ManyToOneSearch(phantoms []da.PhantomNode, sources []int, target int) (*Table, error) {
	return c.ManyToManyTable(phantoms, sources, []int{target})
}

func (c *chBase) ShortestPathSearch(phantoms []da.PhantomNode, source, target int) (da.EdgeWeight,
	da.EdgeDuration, error) {
	return shortestPath(c.ManyToManyTable, phantoms, source, target)
}

// CHAlgorithms queries over a fully contracted hierarchy.
type CHAlgorithms struct {
	chBase
}

func NewCHAlgorithms(ch *da.CHGraph, logger *zap.Logger) (*CHAlgorithms, error) {
	if ch.HasCore() {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
			"hierarchy has %d uncontracted core nodes, use the corech algorithm", ch.NumberOfCoreNodes())
	}
	logger.Info("ch algorithms ready", zap.Int("nodes", ch.NumberOfNodes()), zap.Int("edges", ch.NumberOfEdges()))
	return &CHAlgorithms{chBase: newCHBase(ch, logger)}, nil
}

func (c *CHAlgorithms) Name() string {
	return "CH"
}

// CoreCHAlgorithms queries over a hierarchy whose highest nodes were left uncontracted.
type CoreCHAlgorithms struct {
	chBase
}

func NewCoreCHAlgorithms(ch *da.CHGraph, logger *zap.Logger) *CoreCHAlgorithms {
	logger.Info("corech algorithms ready", zap.Int("nodes", ch.NumberOfNodes()),
		zap.Int("core nodes", ch.NumberOfCoreNodes()), zap.Int("edges", ch.NumberOfEdges()))
	return &CoreCHAlgorithms{chBase: newCHBase(ch, logger)}
}

func (c *CoreCHAlgorithms) Name() string {
	return "CoreCH"
}
