package routing

import (
	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/lintang-b-s/navcore/pkg/util"
	"go.uber.org/zap"
)

/*
queryLevels. query level of a node: the highest level whose cell of the node holds no endpoint of the
query, i.e. the minimum over all phantom nodes of the highest level on which node and phantom differ.
level 0 nodes share a level 1 cell with some phantom and are searched on the graph itself, a node on
level l >= 1 only uses the cliques of its level l cell and the arcs leaving that cell.
*/
type queryLevels struct {
	mlp   *da.MultilevelPartition
	cells []da.Pv
}

func newQueryLevels(mlp *da.MultilevelPartition, phantoms []da.PhantomNode, indices ...[]int) *queryLevels {
	seen := make(map[da.Pv]struct{})
	ql := &queryLevels{mlp: mlp}
	add := func(v da.NodeID) {
		pv := mlp.GetCellNumber(v)
		if _, ok := seen[pv]; ok {
			return
		}
		seen[pv] = struct{}{}
		ql.cells = append(ql.cells, pv)
	}
	for _, idx := range indices {
		for _, i := range idx {
			add(phantoms[i].U)
			add(phantoms[i].V)
		}
	}
	return ql
}

func (ql *queryLevels) level(u da.NodeID) uint8 {
	levelInfo := ql.mlp.GetLevelInfo()
	pv := ql.mlp.GetCellNumber(u)
	best := uint8(ql.mlp.GetNumberOfLevels())
	for _, c := range ql.cells {
		if l := levelInfo.GetHighestDifferingLevel(pv, c); l < best {
			best = l
		}
	}
	return best
}

func (ql *queryLevels) data(u da.NodeID) HeapData {
	return HeapData{Level: ql.level(u)}
}

// MLDAlgorithms queries over a customized multilevel overlay.
type MLDAlgorithms struct {
	graph   *da.Graph
	overlay *da.OverlayGraph
	weights *da.OverlayWeights
	verify  bool
	heaps   *heapsPool
	logger  *zap.Logger

	// reference search the singleton searches are checked against when verify is set.
	reference func(heaps *QueryHeaps, phantoms []da.PhantomNode, sources, targets []int,
		forward, backward search) *Table
}

// NewMLDAlgorithms. verify makes every one-to-many and many-to-one query also run the bucket search and
// report ErrInconsistentResult when the two disagree.
func NewMLDAlgorithms(graph *da.Graph, overlay *da.OverlayGraph, weights *da.OverlayWeights, verify bool,
	logger *zap.Logger) (*MLDAlgorithms, error) {
	if overlay.GetPartition().GetNumberOfVertices() != graph.NumberOfVertices() {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "partition has %d vertices, graph has %d",
			overlay.GetPartition().GetNumberOfVertices(), graph.NumberOfVertices())
	}
	if weights.Len() != int(overlay.GetWeightVectorSize()) {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "overlay weights have %d entries, overlay needs %d",
			weights.Len(), overlay.GetWeightVectorSize())
	}
	logger.Info("mld algorithms ready", zap.Int("levels", overlay.GetNumberOfLevels()),
		zap.Int("shortcuts", weights.Len()), zap.Bool("verify", verify))
	return &MLDAlgorithms{
		graph:   graph,
		overlay: overlay,
		weights: weights,
		verify:  verify,
		heaps:   newHeapsPool(),
		logger:  logger,

		reference: bucketManyToMany,
	}, nil
}

func (m *MLDAlgorithms) Name() string {
	return "MLD"
}

func (m *MLDAlgorithms) HasOneToManySearch() bool {
	return true
}

func (m *MLDAlgorithms) HasManyToOneSearch() bool {
	return true
}

func (m *MLDAlgorithms) forward(ql *queryLevels) search {
	mlp := m.overlay.GetPartition()
	return search{
		data: ql.data,
		settle: func(heap *da.QueryHeap[HeapData], u da.NodeID, key da.Cost) bool {
			level := heap.GetData(u).Level
			if level > 0 {
				if i, ok := m.overlay.EntryIndex(level, u); ok {
					cell := m.overlay.GetCell(level, u)
					for j := uint32(0); j < cell.GetNumExitPoints(); j++ {
						shortcut := m.weights.GetWeight(cell.WeightIndex(i, j))
						if shortcut.IsInfinite() {
							continue
						}
						v := m.overlay.GetExitPoint(cell, j)
						heap.Relax(v, key.Add(shortcut), ql.data(v))
					}
				}
			}
			m.graph.ForOutEdgesOf(u, func(e *da.OutEdge) {
				v := e.GetHead()
				if mlp.GetHighestDifferentLevel(u, v) < level {
					return
				}
				heap.Relax(v, key.Add(e.GetCost()), ql.data(v))
			})
			return true
		},
	}
}

// backward walks the arcs of forward in reverse: a graph arc w -> u belongs to the search when it leaves
// the level(w) cell of w, a clique arc when its entry and exit share the level of their cell.
func (m *MLDAlgorithms) backward(ql *queryLevels) search {
	mlp := m.overlay.GetPartition()
	return search{
		data: ql.data,
		settle: func(heap *da.QueryHeap[HeapData], u da.NodeID, key da.Cost) bool {
			level := heap.GetData(u).Level
			if level > 0 {
				if j, ok := m.overlay.ExitIndex(level, u); ok {
					cell := m.overlay.GetCell(level, u)
					for i := uint32(0); i < cell.GetNumEntryPoints(); i++ {
						shortcut := m.weights.GetWeight(cell.WeightIndex(i, j))
						if shortcut.IsInfinite() {
							continue
						}
						w := m.overlay.GetEntryPoint(cell, i)
						heap.Relax(w, key.Add(shortcut), ql.data(w))
					}
				}
			}
			m.graph.ForInEdgesOf(u, func(e *da.InEdge) {
				w := e.GetTail()
				wData := ql.data(w)
				if mlp.GetHighestDifferentLevel(w, u) < wData.Level {
					return
				}
				heap.Relax(w, key.Add(e.GetCost()), wData)
			})
			return true
		},
	}
}

// oneToMany single forward search, stopped once every node a target can be entered from is settled.
func (m *MLDAlgorithms) oneToMany(heaps *QueryHeaps, ql *queryLevels, phantoms []da.PhantomNode, source int,
	targets []int) *Table {
	table := NewTable(1, len(targets))
	pending := make(map[da.NodeID]struct{})
	for _, t := range targets {
		for _, seed := range phantoms[t].TargetSeeds() {
			pending[seed.Node] = struct{}{}
		}
	}

	runSearch(heaps.Forward, phantoms[source].SourceSeeds(), m.forward(ql), func(u da.NodeID, key da.Cost) {
		delete(pending, u)
		if len(pending) == 0 {
			heaps.Forward.DeleteAll()
		}
	})

	for j, t := range targets {
		for _, seed := range phantoms[t].TargetSeeds() {
			table.relax(0, j, heaps.Forward.GetKey(seed.Node).Add(seed.Cost))
		}
	}
	finishTable(table, phantoms, []int{source}, targets)
	return table
}

// manyToOne the one-to-many search run backward from the target with the roles of the seeds swapped.
func (m *MLDAlgorithms) manyToOne(heaps *QueryHeaps, ql *queryLevels, phantoms []da.PhantomNode, sources []int,
	target int) *Table {
	table := NewTable(len(sources), 1)
	pending := make(map[da.NodeID]struct{})
	for _, s := range sources {
		for _, seed := range phantoms[s].SourceSeeds() {
			pending[seed.Node] = struct{}{}
		}
	}

	runSearch(heaps.Reverse, phantoms[target].TargetSeeds(), m.backward(ql), func(u da.NodeID, key da.Cost) {
		delete(pending, u)
		if len(pending) == 0 {
			heaps.Reverse.DeleteAll()
		}
	})

	for i, s := range sources {
		for _, seed := range phantoms[s].SourceSeeds() {
			table.relax(i, 0, seed.Cost.Add(heaps.Reverse.GetKey(seed.Node)))
		}
	}
	finishTable(table, phantoms, sources, []int{target})
	return table
}

func (m *MLDAlgorithms) ManyToManyTable(phantoms []da.PhantomNode, sources, targets []int) (*Table, error) {
	if err := validateQuery(phantoms, sources, targets, m.graph.NumberOfVertices()); err != nil {
		return nil, err
	}
	heaps := m.heaps.get()
	defer m.heaps.put(heaps)

	ql := newQueryLevels(m.overlay.GetPartition(), phantoms, sources, targets)
	var table *Table
	switch {
	case len(sources) == 1:
		table = m.oneToMany(heaps, ql, phantoms, sources[0], targets)
	case len(targets) == 1:
		table = m.manyToOne(heaps, ql, phantoms, sources, targets[0])
	default:
		return bucketManyToMany(heaps, phantoms, sources, targets, m.forward(ql), m.backward(ql)), nil
	}

	if m.verify {
		heaps.Clear()
		generic := m.reference(heaps, phantoms, sources, targets, m.forward(ql), m.backward(ql))
		if !table.equal(generic) {
			m.logger.Error("mld singleton search disagrees with bucket many to many",
				zap.Ints("sources", sources), zap.Ints("targets", targets))
			return nil, util.WrapErrorf(nil, util.ErrInconsistentResult,
				"mld singleton search disagrees with bucket many to many")
		}
	}
	return table, nil
}

func (m *MLDAlgorithms) ManyToManySearch(phantoms []da.PhantomNode, sources, targets []int) ([]da.EdgeDuration, error) {
	return durations(m.ManyToManyTable, phantoms, sources, targets)
}

func (m *MLDAlgorithms) OneToManySearch(phantoms []da.PhantomNode, source int, targets []int) (*Table, error) {
	return m.ManyToManyTable(phantoms, []int{source}, targets)
}

func (m *MLDAlgorithms) ManyToOneSearch(phantoms []da.PhantomNode, sources []int, target int) (*Table, error) {
	return m.ManyToManyTable(phantoms, sources, []int{target})
}

func (m *MLDAlgorithms) ShortestPathSearch(phantoms []da.PhantomNode, source, target int) (da.EdgeWeight,
	da.EdgeDuration, error) {
	return shortestPath(m.ManyToManyTable, phantoms, source, target)
}
