package routing

import (
	da "github.com/lintang-b-s/navcore/pkg/datastructure"
)

// search one direction of a hierarchy. settle relaxes the arcs of a settled node and returns false when
// the node was stalled, data is the payload a node is inserted with.
type search struct {
	data   func(u da.NodeID) HeapData
	settle func(heap *da.QueryHeap[HeapData], u da.NodeID, key da.Cost) bool
}

// runSearch clears heap, seeds it and runs until the heap is empty. visit sees every settled node that
// was not stalled.
func runSearch(heap *da.QueryHeap[HeapData], seeds []da.HeapSeed, s search, visit func(u da.NodeID, key da.Cost)) {
	heap.Clear()
	for _, seed := range seeds {
		heap.Relax(seed.Node, seed.Cost, s.data(seed.Node))
	}

	for !heap.Empty() {
		key := heap.MinKey()
		u := heap.DeleteMin()
		if !s.settle(heap, u, key) {
			continue
		}
		if visit != nil {
			visit(u, key)
		}
	}
}

type bucket struct {
	column int
	cost   da.Cost
}

/*
bucketManyToMany. Computing Many-to-Many Shortest Paths Using Highway Hierarchies, Knopp et al.:
a backward search from every target leaves a bucket entry (target, distance) at every node it settles,
a forward search from every source then scans the buckets of the nodes it settles. the distance of
(s, t) is the minimum of d(s, u) + d(u, t) over all nodes u in both search spaces.
*/
func bucketManyToMany(heaps *QueryHeaps, phantoms []da.PhantomNode, sources, targets []int,
	forward, backward search) *Table {
	table := NewTable(len(sources), len(targets))
	buckets := make(map[da.NodeID][]bucket)

	for j, t := range targets {
		runSearch(heaps.Reverse, phantoms[t].TargetSeeds(), backward, func(u da.NodeID, key da.Cost) {
			buckets[u] = append(buckets[u], bucket{column: j, cost: key})
		})
	}

	for i, s := range sources {
		runSearch(heaps.Forward, phantoms[s].SourceSeeds(), forward, func(u da.NodeID, key da.Cost) {
			for _, b := range buckets[u] {
				table.relax(i, b.column, key.Add(b.cost))
			}
		})
	}

	finishTable(table, phantoms, sources, targets)
	return table
}
