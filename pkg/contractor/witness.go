package contractor

import (
	da "github.com/lintang-b-s/navcore/pkg/datastructure"
)

// witnessSearch reusable state of the bounded dijkstra run while contracting one node.
type witnessSearch struct {
	heap        *da.QueryHeap[struct{}]
	settleLimit int
}

func newWitnessSearch(settleLimit int) *witnessSearch {
	return &witnessSearch{
		heap:        da.NewQueryHeap[struct{}](),
		settleLimit: settleLimit,
	}
}

/*
run dijkstra from source over the remaining graph without the node being contracted. the search stops
once settleLimit nodes are settled or the smallest key exceeds bound. afterwards the heap keys are lengths
of real paths, so distance() never underestimates and a missing witness only costs an extra shortcut.
*/
func (ws *witnessSearch) run(g *contractionGraph, source, excluded da.NodeID, bound da.Cost) {
	ws.heap.Clear()
	ws.heap.Insert(source, da.NewCost(0, 0), struct{}{})

	settled := 0
	for !ws.heap.Empty() {
		if bound.Less(ws.heap.MinKey()) {
			break
		}
		u := ws.heap.DeleteMin()
		settled++
		if settled > ws.settleLimit {
			break
		}
		du := ws.heap.GetKey(u)

		for _, arc := range g.out[u] {
			if arc.to == excluded || g.contracted[arc.to] {
				continue
			}
			newCost := du.Add(arc.cost)
			if bound.Less(newCost) {
				continue
			}
			ws.heap.Relax(arc.to, newCost, struct{}{})
		}
	}
}

func (ws *witnessSearch) distance(v da.NodeID) da.Cost {
	return ws.heap.GetKey(v)
}
