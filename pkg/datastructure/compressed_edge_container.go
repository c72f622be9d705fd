package datastructure

import (
	"fmt"

	"github.com/lintang-b-s/navcore/pkg/util"
)

// OnewayCompressedEdge one step of a compressed chain: the node reached and the cost of the segment ending there.
type OnewayCompressedEdge struct {
	NodeID   NodeID
	Weight   EdgeWeight
	Duration EdgeDuration
}

/*
SegmentData packed geometry of zipped edge pairs. geometry id g covers positions
Index[g] .. Index[g+1]-1 of Nodes. position 0 is the source of the forward edge, the last position
its target. FwdWeights[i] is the cost of the forward segment ending at position i, RevWeights[i] the
cost of the reverse segment ending at position i. the unused ends hold INVALID_SEGMENT_WEIGHT.
*/
type SegmentData struct {
	Index        []uint32
	Nodes        []NodeID
	FwdWeights   []EdgeWeight
	RevWeights   []EdgeWeight
	FwdDurations []EdgeDuration
	RevDurations []EdgeDuration
}

func NewSegmentData() *SegmentData {
	return &SegmentData{Index: []uint32{0}}
}

func (sd *SegmentData) NumberOfGeometries() int {
	return len(sd.Index) - 1
}

func (sd *SegmentData) bounds(id uint32) (uint32, uint32) {
	return sd.Index[id], sd.Index[id+1]
}

// GetForwardGeometry nodes from forward source to forward target.
func (sd *SegmentData) GetForwardGeometry(id uint32) []NodeID {
	b, e := sd.bounds(id)
	return sd.Nodes[b:e]
}

// GetReverseGeometry nodes from forward target back to forward source.
func (sd *SegmentData) GetReverseGeometry(id uint32) []NodeID {
	return util.ReverseG(sd.GetForwardGeometry(id))
}

// GetForwardWeights per segment weights along the forward geometry.
func (sd *SegmentData) GetForwardWeights(id uint32) []EdgeWeight {
	b, e := sd.bounds(id)
	return sd.FwdWeights[b+1 : e]
}

func (sd *SegmentData) GetForwardDurations(id uint32) []EdgeDuration {
	b, e := sd.bounds(id)
	return sd.FwdDurations[b+1 : e]
}

// GetReverseWeights per segment weights along the reverse geometry.
func (sd *SegmentData) GetReverseWeights(id uint32) []EdgeWeight {
	b, e := sd.bounds(id)
	return util.ReverseG(sd.RevWeights[b : e-1])
}

func (sd *SegmentData) GetReverseDurations(id uint32) []EdgeDuration {
	b, e := sd.bounds(id)
	return util.ReverseG(sd.RevDurations[b : e-1])
}

func (sd *SegmentData) push(node NodeID, fw, rw EdgeWeight, fd, rd EdgeDuration) {
	sd.Nodes = append(sd.Nodes, node)
	sd.FwdWeights = append(sd.FwdWeights, fw)
	sd.RevWeights = append(sd.RevWeights, rw)
	sd.FwdDurations = append(sd.FwdDurations, fd)
	sd.RevDurations = append(sd.RevDurations, rd)
}

// CompressedEdgeContainer remembers, per surviving directed edge, the chain of nodes that compression removed.
// it is filled while the graph is compressed and zipped, afterwards it is frozen.
type CompressedEdgeContainer struct {
	buckets       [][]OnewayCompressedEdge
	edgeToBucket  map[EdgeID]int
	freeList      []int
	forwardZipped map[EdgeID]uint32
	reverseZipped map[EdgeID]uint32
	segmentData   *SegmentData
	frozen        bool
}

func NewCompressedEdgeContainer() *CompressedEdgeContainer {
	return &CompressedEdgeContainer{
		buckets:       make([][]OnewayCompressedEdge, 0),
		edgeToBucket:  make(map[EdgeID]int),
		freeList:      make([]int, 0),
		forwardZipped: make(map[EdgeID]uint32),
		reverseZipped: make(map[EdgeID]uint32),
		segmentData:   NewSegmentData(),
	}
}

func (c *CompressedEdgeContainer) assertMutable() {
	util.AssertPanic(!c.frozen, "compressed edge container is frozen")
}

func (c *CompressedEdgeContainer) HasEntryForID(e EdgeID) bool {
	_, ok := c.edgeToBucket[e]
	return ok
}

func (c *CompressedEdgeContainer) HasZippedEntryForForwardID(e EdgeID) bool {
	_, ok := c.forwardZipped[e]
	return ok
}

func (c *CompressedEdgeContainer) HasZippedEntryForReverseID(e EdgeID) bool {
	_, ok := c.reverseZipped[e]
	return ok
}

func (c *CompressedEdgeContainer) GetZippedPositionForForwardID(e EdgeID) (uint32, bool) {
	id, ok := c.forwardZipped[e]
	return id, ok
}

func (c *CompressedEdgeContainer) GetZippedPositionForReverseID(e EdgeID) (uint32, bool) {
	id, ok := c.reverseZipped[e]
	return id, ok
}

func (c *CompressedEdgeContainer) newBucket() int {
	if len(c.freeList) == 0 {
		c.buckets = append(c.buckets, make([]OnewayCompressedEdge, 0, 4))
		return len(c.buckets) - 1
	}
	b := c.freeList[len(c.freeList)-1]
	c.freeList = c.freeList[:len(c.freeList)-1]
	return b
}

/*
CompressEdge appends the chain of e2 (via -> target) to the chain of e1 (source -> via).
e1 survives, e2 is about to be deleted from the graph:

	source --e1(w1)--> via --e2(w2)--> target

if e2 was itself compressed before, its bucket is moved over instead of the single target step.
*/
func (c *CompressedEdgeContainer) CompressEdge(e1, e2 EdgeID, via, target NodeID,
	w1, w2 EdgeWeight, d1, d2 EdgeDuration) {
	c.assertMutable()
	util.AssertPanic(e1 != SPECIAL_EDGEID && e2 != SPECIAL_EDGEID, "compressing an invalid edge id")
	util.AssertPanic(via != SPECIAL_NODEID && target != SPECIAL_NODEID, "compressing through an invalid node")
	util.AssertPanic(w1 != INVALID_EDGE_WEIGHT && w2 != INVALID_EDGE_WEIGHT, "compressing an edge without weight")

	if !c.HasEntryForID(e1) {
		c.edgeToBucket[e1] = c.newBucket()
	}
	b1 := c.edgeToBucket[e1]

	// the source is implied by e1, the first step ends at the via node
	if len(c.buckets[b1]) == 0 {
		c.buckets[b1] = append(c.buckets[b1], OnewayCompressedEdge{NodeID: via, Weight: w1, Duration: d1})
	}

	if b2, ok := c.edgeToBucket[e2]; ok {
		c.buckets[b1] = append(c.buckets[b1], c.buckets[b2]...)
		delete(c.edgeToBucket, e2)
		c.buckets[b2] = c.buckets[b2][:0]
		c.freeList = append(c.freeList, b2)
	} else {
		c.buckets[b1] = append(c.buckets[b1], OnewayCompressedEdge{NodeID: target, Weight: w2, Duration: d2})
	}
}

// AddUncompressedEdge gives an edge that was never compressed its single step bucket.
func (c *CompressedEdgeContainer) AddUncompressedEdge(e EdgeID, target NodeID, w EdgeWeight, d EdgeDuration) {
	c.assertMutable()
	util.AssertPanic(target != SPECIAL_NODEID, "uncompressed edge without target")
	if c.HasEntryForID(e) {
		return
	}
	b := c.newBucket()
	c.edgeToBucket[e] = b
	c.buckets[b] = append(c.buckets[b], OnewayCompressedEdge{NodeID: target, Weight: w, Duration: d})
}

func (c *CompressedEdgeContainer) GetBucketReference(e EdgeID) []OnewayCompressedEdge {
	b, ok := c.edgeToBucket[e]
	util.AssertPanic(ok, fmt.Sprintf("no compressed geometry for edge %d", e))
	return c.buckets[b]
}

// InteriorNodes nodes removed between the source and the target of e.
func (c *CompressedEdgeContainer) InteriorNodes(e EdgeID) []NodeID {
	bucket := c.GetBucketReference(e)
	nodes := make([]NodeID, 0, len(bucket))
	for _, step := range bucket[:len(bucket)-1] {
		nodes = append(nodes, step.NodeID)
	}
	return nodes
}

func (c *CompressedEdgeContainer) IsTrivial(e EdgeID) bool {
	return len(c.GetBucketReference(e)) == 1
}

func (c *CompressedEdgeContainer) GetFirstEdgeTargetID(e EdgeID) NodeID {
	return c.GetBucketReference(e)[0].NodeID
}

func (c *CompressedEdgeContainer) GetLastEdgeTargetID(e EdgeID) NodeID {
	bucket := c.GetBucketReference(e)
	return bucket[len(bucket)-1].NodeID
}

// GetLastEdgeSourceID node right before the target, the last removed node for compressed edges.
func (c *CompressedEdgeContainer) GetLastEdgeSourceID(e EdgeID) NodeID {
	bucket := c.GetBucketReference(e)
	util.AssertPanic(len(bucket) >= 2, "edge has no interior node")
	return bucket[len(bucket)-2].NodeID
}

// BucketCost sum of the step costs of e.
func (c *CompressedEdgeContainer) BucketCost(e EdgeID) Cost {
	var cost Cost
	for _, step := range c.GetBucketReference(e) {
		cost.Weight += step.Weight
		cost.Duration += step.Duration
	}
	return cost
}

/*
ZipEdges packs the forward edge f (u -> v) and its reverse r (v -> u) into one geometry and returns its id.
both buckets must describe the same chain:

	f: n1 .. nk v
	r: nk .. n1 u
*/
func (c *CompressedEdgeContainer) ZipEdges(f, r EdgeID) uint32 {
	c.assertMutable()
	fwd := c.GetBucketReference(f)
	rev := c.GetBucketReference(r)
	util.AssertPanic(len(fwd) == len(rev),
		fmt.Sprintf("zipping edges %d and %d with different lengths %d and %d", f, r, len(fwd), len(rev)))

	sd := c.segmentData
	id := uint32(sd.NumberOfGeometries())
	c.forwardZipped[f] = id
	c.reverseZipped[r] = id

	first := rev[len(rev)-1]
	sd.push(first.NodeID, INVALID_SEGMENT_WEIGHT, first.Weight, EdgeDuration(INVALID_SEGMENT_WEIGHT), first.Duration)

	for i := 0; i < len(fwd)-1; i++ {
		fwdStep := fwd[i]
		revStep := rev[len(rev)-2-i]
		util.AssertPanic(fwdStep.NodeID == revStep.NodeID,
			fmt.Sprintf("zipped chains disagree at position %d: %d vs %d", i, fwdStep.NodeID, revStep.NodeID))
		sd.push(fwdStep.NodeID, fwdStep.Weight, revStep.Weight, fwdStep.Duration, revStep.Duration)
	}

	last := fwd[len(fwd)-1]
	sd.push(last.NodeID, last.Weight, INVALID_SEGMENT_WEIGHT, last.Duration, EdgeDuration(INVALID_SEGMENT_WEIGHT))

	sd.Index = append(sd.Index, uint32(len(sd.Nodes)))
	return id
}

// Freeze ends the build phase and hands out the packed geometry.
func (c *CompressedEdgeContainer) Freeze() *SegmentData {
	c.frozen = true
	return c.segmentData
}

func (c *CompressedEdgeContainer) IsFrozen() bool {
	return c.frozen
}

func (c *CompressedEdgeContainer) GetSegmentData() *SegmentData {
	return c.segmentData
}

// NumberOfCompressedEdges edges whose chain has at least one removed node.
func (c *CompressedEdgeContainer) NumberOfCompressedEdges() int {
	n := 0
	for _, b := range c.edgeToBucket {
		if len(c.buckets[b]) > 1 {
			n++
		}
	}
	return n
}
