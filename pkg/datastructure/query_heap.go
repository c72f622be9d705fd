package datastructure

// HeapEntry everything a search remembers about a reached node.
type HeapEntry[D any] struct {
	node *PriorityQueueNode[NodeID, Cost]
	Data D
}

/*
QueryHeap search heap over node ids with per node payload D (parent, level, ...).
a node is inserted at most once, afterwards its key can only decrease until it is settled.
settled nodes stay queryable so a search can look up final costs.
one instance belongs to one running search, reuse it only after Clear.
*/
type QueryHeap[D any] struct {
	heap    *MinHeap[NodeID, Cost]
	entries map[NodeID]*HeapEntry[D]
}

func NewQueryHeap[D any]() *QueryHeap[D] {
	return &QueryHeap[D]{
		heap:    NewFourAryHeap[NodeID, Cost](),
		entries: make(map[NodeID]*HeapEntry[D]),
	}
}

func (q *QueryHeap[D]) Clear() {
	q.heap.Clear()
	clear(q.entries)
}

func (q *QueryHeap[D]) Insert(node NodeID, key Cost, data D) {
	pqNode := NewPriorityQueueNode(key, node)
	q.entries[node] = &HeapEntry[D]{node: pqNode, Data: data}
	q.heap.Insert(pqNode)
}

func (q *QueryHeap[D]) WasInserted(node NodeID) bool {
	_, ok := q.entries[node]
	return ok
}

// WasRemoved node has been settled.
func (q *QueryHeap[D]) WasRemoved(node NodeID) bool {
	e, ok := q.entries[node]
	return ok && e.node.GetPos() < 0
}

func (q *QueryHeap[D]) GetKey(node NodeID) Cost {
	e, ok := q.entries[node]
	if !ok {
		return InfiniteCost()
	}
	return e.node.GetRank()
}

func (q *QueryHeap[D]) GetData(node NodeID) *D {
	return &q.entries[node].Data
}

// DecreaseKey lowers the key of a node that is still queued and replaces its payload.
func (q *QueryHeap[D]) DecreaseKey(node NodeID, key Cost, data D) {
	e := q.entries[node]
	if e.node.GetPos() < 0 {
		return
	}
	if err := q.heap.DecreaseKey(e.node, key); err == nil {
		e.Data = data
	}
}

// Relax inserts node or lowers its key, returns false when the current key was already at least as good.
func (q *QueryHeap[D]) Relax(node NodeID, key Cost, data D) bool {
	e, ok := q.entries[node]
	if !ok {
		q.Insert(node, key, data)
		return true
	}
	if e.node.GetPos() < 0 || !key.Less(e.node.GetRank()) {
		return false
	}
	q.DecreaseKey(node, key, data)
	return true
}

func (q *QueryHeap[D]) Empty() bool {
	return q.heap.IsEmpty()
}

func (q *QueryHeap[D]) Size() int {
	return q.heap.Size()
}

// NumberOfReachedNodes inserted nodes, settled or not.
func (q *QueryHeap[D]) NumberOfReachedNodes() int {
	return len(q.entries)
}

func (q *QueryHeap[D]) Min() NodeID {
	n, err := q.heap.GetMin()
	if err != nil {
		return SPECIAL_NODEID
	}
	return n.GetItem()
}

func (q *QueryHeap[D]) MinKey() Cost {
	n, err := q.heap.GetMin()
	if err != nil {
		return InfiniteCost()
	}
	return n.GetRank()
}

// DeleteMin settles the smallest node.
func (q *QueryHeap[D]) DeleteMin() NodeID {
	n, err := q.heap.ExtractMin()
	if err != nil {
		return SPECIAL_NODEID
	}
	return n.GetItem()
}

// DeleteAll settles every queued node, stopping the search while keeping the reached keys.
func (q *QueryHeap[D]) DeleteAll() {
	q.heap.Clear()
}
