package datastructure

// NodeBasedEdgeData payload of a directed arc in the node based graph. weight and duration stay on
// the arc because compression rewrites them, everything else lives in the annotation table.
type NodeBasedEdgeData struct {
	Weight       EdgeWeight
	Duration     EdgeDuration
	Reversed     bool // arc exists only to mirror a one way edge, not traversable
	AnnotationID AnnotationID
}

func NewNodeBasedEdgeData(weight EdgeWeight, duration EdgeDuration, reversed bool,
	annotationID AnnotationID) NodeBasedEdgeData {
	return NodeBasedEdgeData{Weight: weight, Duration: duration, Reversed: reversed, AnnotationID: annotationID}
}

// IsCompatibleTo. two consecutive arcs can be merged when they point the same way and carry combinable annotations.
func (d *NodeBasedEdgeData) IsCompatibleTo(o *NodeBasedEdgeData, annotations AnnotationTable) bool {
	return d.Reversed == o.Reversed && annotations.CanCombine(d.AnnotationID, o.AnnotationID)
}

func (d *NodeBasedEdgeData) Cost() Cost {
	return NewCost(d.Weight, d.Duration)
}

type NodeBasedDynamicGraph = DynamicGraph[NodeBasedEdgeData]

func NewNodeBasedDynamicGraph(numNodes int, arcs []InputEdge[NodeBasedEdgeData]) *NodeBasedDynamicGraph {
	return NewDynamicGraph(numNodes, arcs)
}
