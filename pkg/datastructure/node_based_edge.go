package datastructure

import (
	"unsafe"

	"github.com/lintang-b-s/navcore/pkg"
)

/*
NodeBasedEdge. undirected edge record produced by extraction, 24 bytes:

	offset 0  Source       uint32
	offset 4  Target       uint32
	offset 8  Weight       int32
	offset 12 Duration     int32
	offset 16 flags        uint8  bit0 forward, bit1 backward, bit2 split
	offset 20 AnnotationID uint32

millions of these are held in memory at once, keep it fixed width.
*/
type NodeBasedEdge struct {
	Source       NodeID
	Target       NodeID
	Weight       EdgeWeight
	Duration     EdgeDuration
	flags        uint8
	AnnotationID AnnotationID
}

const (
	edgeForwardBit  uint8 = 1 << 0
	edgeBackwardBit uint8 = 1 << 1
	edgeSplitBit    uint8 = 1 << 2
)

const nodeBasedEdgeSize = 24

var (
	_ [nodeBasedEdgeSize - unsafe.Sizeof(NodeBasedEdge{})]struct{}
	_ [unsafe.Sizeof(NodeBasedEdge{}) - nodeBasedEdgeSize]struct{}
)

func NewNodeBasedEdge(source, target NodeID, weight EdgeWeight, duration EdgeDuration,
	forward, backward bool, annotationID AnnotationID) NodeBasedEdge {
	e := NodeBasedEdge{
		Source:       source,
		Target:       target,
		Weight:       weight,
		Duration:     duration,
		AnnotationID: annotationID,
	}
	e.SetForward(forward)
	e.SetBackward(backward)
	return e
}

func setBit(flags *uint8, bit uint8, on bool) {
	if on {
		*flags |= bit
	} else {
		*flags &^= bit
	}
}

func (e *NodeBasedEdge) IsForward() bool  { return e.flags&edgeForwardBit != 0 }
func (e *NodeBasedEdge) IsBackward() bool { return e.flags&edgeBackwardBit != 0 }
func (e *NodeBasedEdge) IsSplit() bool    { return e.flags&edgeSplitBit != 0 }

func (e *NodeBasedEdge) SetForward(on bool)  { setBit(&e.flags, edgeForwardBit, on) }
func (e *NodeBasedEdge) SetBackward(on bool) { setBit(&e.flags, edgeBackwardBit, on) }
func (e *NodeBasedEdge) SetSplit(on bool)    { setBit(&e.flags, edgeSplitBit, on) }

func (e *NodeBasedEdge) isBidirectional() bool {
	return e.IsForward() && e.IsBackward()
}

// Flip swaps the endpoints together with the direction flags.
func (e *NodeBasedEdge) Flip() {
	e.Source, e.Target = e.Target, e.Source
	fwd, bwd := e.IsForward(), e.IsBackward()
	e.SetForward(bwd)
	e.SetBackward(fwd)
}

/*
Less. strict total order over edge records:
source, target, weight, then records traversable in both directions first. the remaining fields only
break ties between records that differ elsewhere so that sorting is deterministic.
*/
func (e *NodeBasedEdge) Less(o *NodeBasedEdge) bool {
	if e.Source != o.Source {
		return e.Source < o.Source
	}
	if e.Target != o.Target {
		return e.Target < o.Target
	}
	if e.Weight != o.Weight {
		return e.Weight < o.Weight
	}
	if e.isBidirectional() != o.isBidirectional() {
		return e.isBidirectional()
	}
	if e.Duration != o.Duration {
		return e.Duration < o.Duration
	}
	if e.flags != o.flags {
		return e.flags > o.flags
	}
	return e.AnnotationID < o.AnnotationID
}

// CompareNodeBasedEdge three way version of Less, for slices.SortFunc.
func CompareNodeBasedEdge(a, b NodeBasedEdge) int {
	if a.Less(&b) {
		return -1
	}
	if b.Less(&a) {
		return 1
	}
	return 0
}

// ClassData bitset of vehicle classes a road belongs to (toll, motorway, ferry, ...).
type ClassData uint8

const (
	CLASS_TOLL ClassData = 1 << iota
	CLASS_MOTORWAY
	CLASS_FERRY
	CLASS_RESTRICTED
	CLASS_TUNNEL
)

func (c ClassData) Has(o ClassData) bool {
	return c&o == o
}

/*
RoadClassification packed into 16 bits:

	bits 0-4  road priority (pkg.OsmHighwayType)
	bit  5    motorway class
	bit  6    link class
	bit  7    may be ignored
	bits 8-15 number of lanes
*/
type RoadClassification uint16

const (
	roadPriorityMask RoadClassification = 0x1f
	roadMotorwayBit  RoadClassification = 1 << 5
	roadLinkBit      RoadClassification = 1 << 6
	roadIgnorableBit RoadClassification = 1 << 7
	roadLanesShift                      = 8
	roadLanesMask    RoadClassification = 0xff << roadLanesShift
)

func NewRoadClassification(highway pkg.OsmHighwayType, lanes uint8) RoadClassification {
	rc := RoadClassification(highway) & roadPriorityMask
	if highway.IsMotorwayClass() {
		rc |= roadMotorwayBit
	}
	if highway.IsLink() {
		rc |= roadLinkBit
	}
	if highway.IsIgnorable() {
		rc |= roadIgnorableBit
	}
	rc |= RoadClassification(lanes) << roadLanesShift
	return rc
}

func (rc RoadClassification) Priority() pkg.OsmHighwayType {
	return pkg.OsmHighwayType(rc & roadPriorityMask)
}

func (rc RoadClassification) IsMotorwayClass() bool { return rc&roadMotorwayBit != 0 }
func (rc RoadClassification) IsLinkClass() bool     { return rc&roadLinkBit != 0 }
func (rc RoadClassification) IsLowPriority() bool   { return rc&roadIgnorableBit != 0 }

func (rc RoadClassification) NumberOfLanes() uint8 {
	return uint8((rc & roadLanesMask) >> roadLanesShift)
}

/*
NodeBasedEdgeAnnotation. attributes shared by many edges, referenced through NodeBasedEdge.AnnotationID.
16 bytes:

	NameID            uint32
	GeometryID        uint32
	LaneDescriptionID uint16
	Classification    uint16
	packed            uint8  bit0 roundabout, bit1 circular, bit2 startpoint, bit3 restricted, bits 4-7 travel mode
	Classes           uint8
*/
type NodeBasedEdgeAnnotation struct {
	NameID            uint32
	GeometryID        uint32
	LaneDescriptionID uint16
	Classification    RoadClassification
	packed            uint8
	Classes           ClassData
}

const (
	annotationRoundaboutBit uint8 = 1 << 0
	annotationCircularBit   uint8 = 1 << 1
	annotationStartpointBit uint8 = 1 << 2
	annotationRestrictedBit uint8 = 1 << 3
	annotationModeShift           = 4
	annotationModeMask      uint8 = 0xf0
)

const nodeBasedEdgeAnnotationSize = 16

var (
	_ [nodeBasedEdgeAnnotationSize - unsafe.Sizeof(NodeBasedEdgeAnnotation{})]struct{}
	_ [unsafe.Sizeof(NodeBasedEdgeAnnotation{}) - nodeBasedEdgeAnnotationSize]struct{}
)

func NewNodeBasedEdgeAnnotation(nameID uint32, classification RoadClassification, mode pkg.TravelMode,
	roundabout, circular, startpoint, restricted bool) NodeBasedEdgeAnnotation {
	a := NodeBasedEdgeAnnotation{
		NameID:         nameID,
		Classification: classification,
	}
	a.SetRoundabout(roundabout)
	a.SetCircular(circular)
	a.SetStartpoint(startpoint)
	a.SetRestricted(restricted)
	a.SetTravelMode(mode)
	return a
}

func (a *NodeBasedEdgeAnnotation) IsRoundabout() bool { return a.packed&annotationRoundaboutBit != 0 }
func (a *NodeBasedEdgeAnnotation) IsCircular() bool   { return a.packed&annotationCircularBit != 0 }
func (a *NodeBasedEdgeAnnotation) IsStartpoint() bool { return a.packed&annotationStartpointBit != 0 }
func (a *NodeBasedEdgeAnnotation) IsRestricted() bool { return a.packed&annotationRestrictedBit != 0 }

func (a *NodeBasedEdgeAnnotation) SetRoundabout(on bool) {
	setBit(&a.packed, annotationRoundaboutBit, on)
}

func (a *NodeBasedEdgeAnnotation) SetCircular(on bool) {
	setBit(&a.packed, annotationCircularBit, on)
}

func (a *NodeBasedEdgeAnnotation) SetStartpoint(on bool) {
	setBit(&a.packed, annotationStartpointBit, on)
}

func (a *NodeBasedEdgeAnnotation) SetRestricted(on bool) {
	setBit(&a.packed, annotationRestrictedBit, on)
}

func (a *NodeBasedEdgeAnnotation) TravelMode() pkg.TravelMode {
	return pkg.TravelMode((a.packed & annotationModeMask) >> annotationModeShift)
}

func (a *NodeBasedEdgeAnnotation) SetTravelMode(mode pkg.TravelMode) {
	a.packed = (a.packed &^ annotationModeMask) | ((uint8(mode) << annotationModeShift) & annotationModeMask)
}

// CanCombineWith. two edges may be merged into one bidirectional or compressed edge only when
// they agree on name, classification (road class and lane count), the four flags and travel mode.
// the turn lane description, classes and geometry are not compared.
func (a *NodeBasedEdgeAnnotation) CanCombineWith(o *NodeBasedEdgeAnnotation) bool {
	return a.NameID == o.NameID &&
		a.Classification == o.Classification &&
		a.packed == o.packed
}
