package datastructure

import (
	"math"

	"github.com/lintang-b-s/navcore/pkg/geo"
)

/*
PhantomNode query endpoint snapped onto the segment U -> V.

	U ----offset----> phantom ----weight----> V   forward
	U <---weight----- phantom <---offset----- V   reverse

ForwardWeight is phantom -> V, ForwardWeightOffset is U -> phantom, ReverseWeight is phantom -> U and
ReverseWeightOffset is V -> phantom. durations follow the same scheme.
*/
type PhantomNode struct {
	U                     NodeID
	V                     NodeID
	ForwardEnabled        bool
	ReverseEnabled        bool
	ForwardWeight         EdgeWeight
	ForwardDuration       EdgeDuration
	ForwardWeightOffset   EdgeWeight
	ForwardDurationOffset EdgeDuration
	ReverseWeight         EdgeWeight
	ReverseDuration       EdgeDuration
	ReverseWeightOffset   EdgeWeight
	ReverseDurationOffset EdgeDuration
	Location              geo.Coordinate
}

func splitWeight(total EdgeWeight, ratio float64) (EdgeWeight, EdgeWeight) {
	head := EdgeWeight(math.Round(float64(total) * ratio))
	return head, total - head
}

func splitDuration(total EdgeDuration, ratio float64) (EdgeDuration, EdgeDuration) {
	head := EdgeDuration(math.Round(float64(total) * ratio))
	return head, total - head
}

// NewPhantomNode places a phantom at ratio (0 at U, 1 at V) on the segment. forward is the cost of U -> V,
// reverse the cost of V -> U. both parts of a split always add up to the full segment cost.
func NewPhantomNode(u, v NodeID, forward, reverse Cost, forwardEnabled, reverseEnabled bool,
	ratio float64, location geo.Coordinate) PhantomNode {
	if ratio < 0 {
		ratio = 0
	} else if ratio > 1 {
		ratio = 1
	}

	p := PhantomNode{
		U:              u,
		V:              v,
		ForwardEnabled: forwardEnabled,
		ReverseEnabled: reverseEnabled,
		Location:       location,
	}
	p.ForwardWeightOffset, p.ForwardWeight = splitWeight(forward.Weight, ratio)
	p.ForwardDurationOffset, p.ForwardDuration = splitDuration(forward.Duration, ratio)
	p.ReverseWeightOffset, p.ReverseWeight = splitWeight(reverse.Weight, 1-ratio)
	p.ReverseDurationOffset, p.ReverseDuration = splitDuration(reverse.Duration, 1-ratio)
	return p
}

// NewPhantomNodeAtNode phantom sitting exactly on node u, reachable in both directions at no cost.
func NewPhantomNodeAtNode(u NodeID, location geo.Coordinate) PhantomNode {
	return PhantomNode{U: u, V: u, ForwardEnabled: true, ReverseEnabled: true, Location: location}
}

func (p *PhantomNode) IsValid() bool {
	return p.U != SPECIAL_NODEID && p.V != SPECIAL_NODEID && (p.ForwardEnabled || p.ReverseEnabled)
}

// SameSegment both phantoms lie on the same segment, in either orientation.
func (p *PhantomNode) SameSegment(o *PhantomNode) bool {
	return (p.U == o.U && p.V == o.V) || (p.U == o.V && p.V == o.U)
}

// HeapSeed one entry a search starts from: node plus the cost already spent.
type HeapSeed struct {
	Node NodeID
	Cost Cost
}

// SourceSeeds nodes a forward search leaves the phantom through.
func (p *PhantomNode) SourceSeeds() []HeapSeed {
	seeds := make([]HeapSeed, 0, 2)
	if p.ForwardEnabled {
		seeds = append(seeds, HeapSeed{Node: p.V, Cost: NewCost(p.ForwardWeight, p.ForwardDuration)})
	}
	if p.ReverseEnabled {
		seeds = append(seeds, HeapSeed{Node: p.U, Cost: NewCost(p.ReverseWeight, p.ReverseDuration)})
	}
	return seeds
}

// TargetSeeds nodes a backward search enters the phantom from.
func (p *PhantomNode) TargetSeeds() []HeapSeed {
	seeds := make([]HeapSeed, 0, 2)
	if p.ForwardEnabled {
		seeds = append(seeds, HeapSeed{Node: p.U, Cost: NewCost(p.ForwardWeightOffset, p.ForwardDurationOffset)})
	}
	if p.ReverseEnabled {
		seeds = append(seeds, HeapSeed{Node: p.V, Cost: NewCost(p.ReverseWeightOffset, p.ReverseDurationOffset)})
	}
	return seeds
}

// DirectCost cost of driving along the shared segment from source to target without touching a node,
// infinite when the target lies behind the source in every enabled direction.
func DirectCost(source, target *PhantomNode) Cost {
	best := InfiniteCost()
	if !source.SameSegment(target) {
		return best
	}
	sameOrientation := source.U == target.U && source.V == target.V
	if !sameOrientation {
		return best
	}

	if source.ForwardEnabled && target.ForwardEnabled &&
		target.ForwardWeightOffset >= source.ForwardWeightOffset {
		c := NewCost(target.ForwardWeightOffset-source.ForwardWeightOffset,
			target.ForwardDurationOffset-source.ForwardDurationOffset)
		if c.Less(best) {
			best = c
		}
	}
	if source.ReverseEnabled && target.ReverseEnabled &&
		target.ReverseWeightOffset >= source.ReverseWeightOffset {
		c := NewCost(target.ReverseWeightOffset-source.ReverseWeightOffset,
			target.ReverseDurationOffset-source.ReverseDurationOffset)
		if c.Less(best) {
			best = c
		}
	}
	if best.Duration < 0 {
		best.Duration = 0
	}
	return best
}
