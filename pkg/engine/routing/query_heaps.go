package routing

import (
	"sync"

	da "github.com/lintang-b-s/navcore/pkg/datastructure"
)

// HeapData payload of a reached node. Level is the query level the node is searched on, always 0 for CH.
type HeapData struct {
	Level uint8
}

/*
QueryHeaps forward and reverse heap of one running query.
heap contents are in-progress search state, so an instance must never be shared by two queries at the
same time. facades hand them out through a heapsPool.
*/
type QueryHeaps struct {
	Forward *da.QueryHeap[HeapData]
	Reverse *da.QueryHeap[HeapData]
}

func NewQueryHeaps() *QueryHeaps {
	return &QueryHeaps{
		Forward: da.NewQueryHeap[HeapData](),
		Reverse: da.NewQueryHeap[HeapData](),
	}
}

func (h *QueryHeaps) Clear() {
	h.Forward.Clear()
	h.Reverse.Clear()
}

type heapsPool struct {
	pool sync.Pool
}

func newHeapsPool() *heapsPool {
	return &heapsPool{
		pool: sync.Pool{
			New: func() any {
				return NewQueryHeaps()
			},
		},
	}
}

// get checks out heaps for one query, cleared.
func (p *heapsPool) get() *QueryHeaps {
	h := p.pool.Get().(*QueryHeaps)
	h.Clear()
	return h
}

func (p *heapsPool) put(h *QueryHeaps) {
	p.pool.Put(h)
}
