package datastructure

import (
	"math"

	"github.com/lintang-b-s/navcore/pkg"
)

type NodeID uint32
type EdgeID uint32
type AnnotationID uint32
type EdgeWeight int32
type EdgeDuration int32

const (
	SPECIAL_NODEID       NodeID       = math.MaxUint32
	SPECIAL_EDGEID       EdgeID       = math.MaxUint32
	INVALID_ANNOTATIONID AnnotationID = math.MaxUint32

	INVALID_EDGE_WEIGHT    EdgeWeight   = EdgeWeight(pkg.INVALID_EDGE_WEIGHT)
	MAXIMAL_EDGE_DURATION  EdgeDuration = EdgeDuration(pkg.MAXIMAL_EDGE_DURATION)
	INVALID_SEGMENT_WEIGHT EdgeWeight   = EdgeWeight(pkg.INVALID_SEGMENT_WEIGHT)
)

// Cost is a (weight, duration) pair. Costs are ordered lexicographically so that
// searches over equal-weight paths settle on the same duration.
type Cost struct {
	Weight   EdgeWeight
	Duration EdgeDuration
}

func NewCost(weight EdgeWeight, duration EdgeDuration) Cost {
	return Cost{Weight: weight, Duration: duration}
}

func InfiniteCost() Cost {
	return Cost{Weight: INVALID_EDGE_WEIGHT, Duration: MAXIMAL_EDGE_DURATION}
}

func (c Cost) Less(o Cost) bool {
	if c.Weight != o.Weight {
		return c.Weight < o.Weight
	}
	return c.Duration < o.Duration
}

func (c Cost) IsInfinite() bool {
	return c.Weight == INVALID_EDGE_WEIGHT
}

// Add saturates at the unreachable sentinel.
func (c Cost) Add(o Cost) Cost {
	if c.IsInfinite() || o.IsInfinite() {
		return InfiniteCost()
	}
	w := int64(c.Weight) + int64(o.Weight)
	d := int64(c.Duration) + int64(o.Duration)
	if w >= int64(INVALID_EDGE_WEIGHT) {
		return InfiniteCost()
	}
	if d >= int64(MAXIMAL_EDGE_DURATION) {
		d = int64(MAXIMAL_EDGE_DURATION) - 1
	}
	return Cost{Weight: EdgeWeight(w), Duration: EdgeDuration(d)}
}

// Sub. used for offsets along one segment, caller guarantees o <= c.
func (c Cost) Sub(o Cost) Cost {
	return Cost{Weight: c.Weight - o.Weight, Duration: c.Duration - o.Duration}
}
