package datastructure

import (
	"errors"
)

// Rank key of a heap entry. Cost satisfies it.
type Rank[K any] interface {
	Less(o K) bool
}

type PriorityQueueNode[T comparable, K Rank[K]] struct {
	rank    K
	item    T
	itemPos int
}

func (p *PriorityQueueNode[T, K]) GetItem() T {
	return p.item
}

func (p *PriorityQueueNode[T, K]) GetRank() K {
	return p.rank
}

func (p *PriorityQueueNode[T, K]) SetRank(rank K) {
	p.rank = rank
}

func (p *PriorityQueueNode[T, K]) SetPos(i int) {
	p.itemPos = i
}

// GetPos position in the heap array, -1 once extracted.
func (p *PriorityQueueNode[T, K]) GetPos() int {
	return p.itemPos
}

func NewPriorityQueueNode[T comparable, K Rank[K]](rank K, item T) *PriorityQueueNode[T, K] {
	return &PriorityQueueNode[T, K]{rank: rank, item: item}
}

var ErrHeapEmpty = errors.New("heap is empty")

// MinHeap d-ary heap priorityqueue
type MinHeap[T comparable, K Rank[K]] struct {
	heap []*PriorityQueueNode[T, K]
	d    int
}

func NewBinaryHeap[T comparable, K Rank[K]]() *MinHeap[T, K] {
	return NewdAryHeap[T, K](2)
}

func NewFourAryHeap[T comparable, K Rank[K]]() *MinHeap[T, K] {
	return NewdAryHeap[T, K](4)
}

func NewdAryHeap[T comparable, K Rank[K]](d int) *MinHeap[T, K] {
	return &MinHeap[T, K]{
		heap: make([]*PriorityQueueNode[T, K], 0),
		d:    d,
	}
}

func (h *MinHeap[T, K]) Preallocate(maxSearchSize int) {
	h.heap = make([]*PriorityQueueNode[T, K], 0, maxSearchSize)
}

func (h *MinHeap[T, K]) parent(index int) int {
	return (index - 1) / h.d
}

// heapifyUp moves index up while it is smaller than its parent. O(log n).
func (h *MinHeap[T, K]) heapifyUp(index int) {
	for index != 0 && h.heap[index].rank.Less(h.heap[h.parent(index)].rank) {
		h.Swap(index, h.parent(index))
		index = h.parent(index)
	}
}

// heapifyDown moves index down to its smallest child while that child is smaller. O(d log n).
func (h *MinHeap[T, K]) heapifyDown(index int) {
	for {
		leftMostChild := index*h.d + 1
		if leftMostChild >= len(h.heap) {
			return
		}

		sentinel := leftMostChild + h.d
		if sentinel > len(h.heap) {
			sentinel = len(h.heap)
		}

		smallest := leftMostChild
		for i := leftMostChild + 1; i < sentinel; i++ {
			if h.heap[i].rank.Less(h.heap[smallest].rank) {
				smallest = i
			}
		}

		if !h.heap[smallest].rank.Less(h.heap[index].rank) {
			return
		}
		h.Swap(index, smallest)
		index = smallest
	}
}

func (h *MinHeap[T, K]) Swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]

	h.heap[i].SetPos(i)
	h.heap[j].SetPos(j)
}

func (h *MinHeap[T, K]) IsEmpty() bool {
	return len(h.heap) == 0
}

func (h *MinHeap[T, K]) Size() int {
	return len(h.heap)
}

func (h *MinHeap[T, K]) Clear() {
	for _, n := range h.heap {
		n.SetPos(-1)
	}
	h.heap = h.heap[:0]
}

func (h *MinHeap[T, K]) GetMin() (*PriorityQueueNode[T, K], error) {
	if h.IsEmpty() {
		return nil, ErrHeapEmpty
	}
	return h.heap[0], nil
}

func (h *MinHeap[T, K]) Insert(key *PriorityQueueNode[T, K]) {
	h.heap = append(h.heap, key)
	index := h.Size() - 1
	key.SetPos(index)
	h.heapifyUp(index)
}

// ExtractMin pops the root. O(d log n).
func (h *MinHeap[T, K]) ExtractMin() (*PriorityQueueNode[T, K], error) {
	if h.IsEmpty() {
		return nil, ErrHeapEmpty
	}
	root := h.heap[0]

	h.Swap(0, h.Size()-1)

	h.heap = h.heap[:h.Size()-1]
	root.SetPos(-1)
	if len(h.heap) > 0 {
		h.heapifyDown(0)
	}

	return root, nil
}

// DecreaseKey lowers the rank of an item still in the heap.
func (h *MinHeap[T, K]) DecreaseKey(item *PriorityQueueNode[T, K], rank K) error {
	itemPos := item.GetPos()
	if itemPos < 0 || itemPos >= h.Size() || h.heap[itemPos] != item || item.rank.Less(rank) {
		return errors.New("invalid index or new value")
	}

	item.SetRank(rank)
	h.heapifyUp(itemPos)
	return nil
}

// Update changes the rank of an item in either direction.
func (h *MinHeap[T, K]) Update(item *PriorityQueueNode[T, K], rank K) {
	old := item.rank
	item.SetRank(rank)
	if rank.Less(old) {
		h.heapifyUp(item.GetPos())
	} else {
		h.heapifyDown(item.GetPos())
	}
}
