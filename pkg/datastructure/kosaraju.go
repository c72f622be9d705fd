package datastructure

// StronglyConnectedComponents kosaraju's algorithm over the arcs of the graph. returns the component of
// every vertex and the size of every component. components are numbered in the order the second pass
// discovers them.
//
// both passes use an explicit stack, road networks are deep enough to overflow a recursive dfs.
func (g *Graph) StronglyConnectedComponents() ([]uint32, []int) {
	n := g.NumberOfVertices()
	order := make([]NodeID, 0, n)
	visited := make([]bool, n)

	type frame struct {
		v    NodeID
		next EdgeID
	}
	stack := make([]frame, 0, 64)
	for s := 0; s < n; s++ {
		if visited[s] {
			continue
		}
		visited[s] = true
		begin, _ := g.OutEdgeRange(NodeID(s))
		stack = append(stack, frame{v: NodeID(s), next: begin})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			_, end := g.OutEdgeRange(top.v)
			if top.next == end {
				order = append(order, top.v)
				stack = stack[:len(stack)-1]
				continue
			}
			head := g.GetOutEdge(top.next).GetHead()
			top.next++
			if !visited[head] {
				visited[head] = true
				begin, _ := g.OutEdgeRange(head)
				stack = append(stack, frame{v: head, next: begin})
			}
		}
	}

	const unassigned = ^uint32(0)
	component := make([]uint32, n)
	for i := range component {
		component[i] = unassigned
	}
	sizes := make([]int, 0)
	todo := make([]NodeID, 0, 64)
	for i := len(order) - 1; i >= 0; i-- {
		root := order[i]
		if component[root] != unassigned {
			continue
		}
		id := uint32(len(sizes))
		sizes = append(sizes, 0)
		component[root] = id
		todo = append(todo[:0], root)
		for len(todo) > 0 {
			v := todo[len(todo)-1]
			todo = todo[:len(todo)-1]
			sizes[id]++
			g.ForInEdgesOf(v, func(e *InEdge) {
				if component[e.GetTail()] == unassigned {
					component[e.GetTail()] = id
					todo = append(todo, e.GetTail())
				}
			})
		}
	}
	return component, sizes
}
