package datastructure

type RestrictionType uint8

const (
	NODE_RESTRICTION RestrictionType = iota
	WAY_RESTRICTION
)

// NodeRestriction movement from -> via -> to over a single via node.
type NodeRestriction struct {
	From NodeID
	Via  NodeID
	To   NodeID
}

func (r NodeRestriction) Valid() bool {
	return r.From != SPECIAL_NODEID && r.Via != SPECIAL_NODEID && r.To != SPECIAL_NODEID
}

/*
WayRestriction movement over a via way, stored as two node restrictions:

	in.From -> in.Via ===via way=== out.Via -> out.To

in.To is the node after in.Via on the via way, out.From the node before out.Via.
*/
type WayRestriction struct {
	In  NodeRestriction
	Out NodeRestriction
}

type TurnRestriction struct {
	Type   RestrictionType
	Node   NodeRestriction
	Way    WayRestriction
	IsOnly bool // only_* restriction, every other movement at the via is forbidden
}

func NewNodeTurnRestriction(from, via, to NodeID, isOnly bool) TurnRestriction {
	return TurnRestriction{
		Type:   NODE_RESTRICTION,
		Node:   NodeRestriction{From: from, Via: via, To: to},
		IsOnly: isOnly,
	}
}

func NewWayTurnRestriction(in, out NodeRestriction, isOnly bool) TurnRestriction {
	return TurnRestriction{
		Type:   WAY_RESTRICTION,
		Way:    WayRestriction{In: in, Out: out},
		IsOnly: isOnly,
	}
}

// ViaNodes nodes the restricted movement passes through. compressing any of them changes the restriction.
func (r *TurnRestriction) ViaNodes() []NodeID {
	if r.Type == NODE_RESTRICTION {
		return []NodeID{r.Node.Via}
	}
	return []NodeID{r.Way.In.Via, r.Way.Out.Via}
}

func (r *TurnRestriction) Valid() bool {
	if r.Type == NODE_RESTRICTION {
		return r.Node.Valid()
	}
	return r.Way.In.Valid() && r.Way.Out.Valid()
}

// ConditionalTurnRestriction restriction that only applies while Condition (an opening_hours value) holds.
type ConditionalTurnRestriction struct {
	TurnRestriction
	Condition string
}
