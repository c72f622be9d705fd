package preprocessor

import (
	da "github.com/lintang-b-s/navcore/pkg/datastructure"
)

/*
RestrictionCompressor keeps turn restrictions valid while the graph compressor removes nodes.

the From and To node of a restriction are neighbours of its via node. when compression removes such a
neighbour v on the chain u - v - w, the restriction has to point at the node behind v instead:

	From == v, Via == w  ->  From = u
	To == v,   Via == u  ->  To = w

(and the same with u and w swapped). via nodes themselves are never removed.
*/
type RestrictionCompressor struct {
	starts map[da.NodeID][]*da.NodeRestriction
	ends   map[da.NodeID][]*da.NodeRestriction
}

// NewRestrictionCompressor indexes the restrictions, which are rewritten in place.
func NewRestrictionCompressor(restrictions []da.TurnRestriction,
	conditionalRestrictions []da.ConditionalTurnRestriction) *RestrictionCompressor {
	rc := &RestrictionCompressor{
		starts: make(map[da.NodeID][]*da.NodeRestriction),
		ends:   make(map[da.NodeID][]*da.NodeRestriction),
	}
	for i := range restrictions {
		rc.index(&restrictions[i])
	}
	for i := range conditionalRestrictions {
		rc.index(&conditionalRestrictions[i].TurnRestriction)
	}
	return rc
}

func (rc *RestrictionCompressor) index(r *da.TurnRestriction) {
	if !r.Valid() {
		return
	}
	add := func(nr *da.NodeRestriction) {
		rc.starts[nr.From] = append(rc.starts[nr.From], nr)
		rc.ends[nr.To] = append(rc.ends[nr.To], nr)
	}
	if r.Type == da.NODE_RESTRICTION {
		add(&r.Node)
		return
	}
	add(&r.Way.In)
	add(&r.Way.Out)
}

// Compress v is about to disappear from the chain u - v - w.
func (rc *RestrictionCompressor) Compress(u, v, w da.NodeID) {
	if starts, ok := rc.starts[v]; ok {
		delete(rc.starts, v)
		for _, nr := range starts {
			switch nr.Via {
			case w:
				nr.From = u
			case u:
				nr.From = w
			default:
				// from node not adjacent to its via node, nothing sensible to rewrite
				continue
			}
			rc.starts[nr.From] = append(rc.starts[nr.From], nr)
		}
	}

	if ends, ok := rc.ends[v]; ok {
		delete(rc.ends, v)
		for _, nr := range ends {
			switch nr.Via {
			case u:
				nr.To = w
			case w:
				nr.To = u
			default:
				continue
			}
			rc.ends[nr.To] = append(rc.ends[nr.To], nr)
		}
	}
}
