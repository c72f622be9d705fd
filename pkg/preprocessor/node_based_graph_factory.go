package preprocessor

import (
	"context"
	"fmt"
	"slices"

	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/lintang-b-s/navcore/pkg/util"
	"go.uber.org/zap"
)

// ExtractedGraph everything extraction hands over to graph construction.
type ExtractedGraph struct {
	Nodes                   []da.NodeInfo
	Edges                   []da.NodeBasedEdge
	Annotations             *da.AnnotationContainer[*da.OwnedStorage]
	Names                   util.IDMap
	Restrictions            []da.TurnRestriction
	ConditionalRestrictions []da.ConditionalTurnRestriction
}

/*
NodeBasedGraphFactory. builds the compressed node based graph:

 1. normalize the extracted records and build the directed adjacency graph
 2. compress degree two chains
 3. zip the forward and reverse geometry of every surviving segment
 4. drop annotations no surviving arc uses

the result is the static Graph with only the traversable arcs.
*/
type NodeBasedGraphFactory struct {
	logger     *zap.Logger
	sortChunks int
	graph      *da.NodeBasedDynamicGraph
	geometry   *da.CompressedEdgeContainer
	barriers   NodeSet
	signals    NodeSet
}

func NewNodeBasedGraphFactory(logger *zap.Logger, sortChunks int) *NodeBasedGraphFactory {
	return &NodeBasedGraphFactory{
		logger:     logger,
		sortChunks: sortChunks,
		geometry:   da.NewCompressedEdgeContainer(),
	}
}

func (f *NodeBasedGraphFactory) Run(ctx context.Context, data *ExtractedGraph) (*da.Graph, error) {
	if data.Annotations == nil {
		data.Annotations = da.NewOwnedAnnotationContainer(0)
	}
	if err := f.LoadData(data); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.Compress(data)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	arcs := f.CompressGeometry()
	f.CompressAnnotationData(arcs, data.Annotations)
	segments := f.geometry.Freeze()

	g := da.NewGraph(data.Nodes, arcs, data.Annotations, data.Names, segments)
	f.logger.Info("node based graph built",
		zap.Int("vertices", g.NumberOfVertices()),
		zap.Int("arcs", g.NumberOfEdges()),
		zap.Int("annotations", data.Annotations.Len()),
		zap.Int("geometries", segments.NumberOfGeometries()),
	)
	return g, nil
}

func (f *NodeBasedGraphFactory) LoadData(data *ExtractedGraph) error {
	f.barriers = make(NodeSet)
	f.signals = make(NodeSet)
	for i, n := range data.Nodes {
		if n.Barrier {
			f.barriers[da.NodeID(i)] = struct{}{}
		}
		if n.TrafficSignal {
			f.signals[da.NodeID(i)] = struct{}{}
		}
	}

	edges := NormalizeEdges(data.Edges, data.Annotations, f.sortChunks)
	f.logger.Sugar().Infof("normalized %d extracted edges into %d segments", len(data.Edges), len(edges))

	graph, err := NewNodeBasedDynamicGraphFromEdges(len(data.Nodes), edges, f.sortChunks)
	if err != nil {
		return err
	}
	f.graph = graph
	return nil
}

func (f *NodeBasedGraphFactory) Compress(data *ExtractedGraph) {
	NewGraphCompressor(f.logger).Compress(f.barriers, f.signals, data.Restrictions,
		data.ConditionalRestrictions, f.graph, data.Annotations, f.geometry)
}

/*
CompressGeometry pairs every arc u -> v (u < v) with a reverse arc v -> u removing the same nodes in the
opposite order and zips their buckets into one geometry. parallel segments between the same nodes are
told apart by their removed nodes. only traversable arcs are returned.
*/
func (f *NodeBasedGraphFactory) CompressGeometry() []da.GraphArc {
	g := f.graph
	zipped := make(map[da.EdgeID]struct{}, g.NumberOfEdges())
	arcs := make([]da.GraphArc, 0, g.NumberOfEdges())

	addArc := func(u, v da.NodeID, e da.EdgeID, geometryID uint32, forward bool) {
		data := g.GetEdgeData(e)
		if data.Reversed {
			return
		}
		arcs = append(arcs, da.GraphArc{
			Source:          u,
			Target:          v,
			Weight:          data.Weight,
			Duration:        data.Duration,
			AnnotationID:    data.AnnotationID,
			GeometryID:      geometryID,
			ForwardGeometry: forward,
		})
	}

	for u := da.NodeID(0); int(u) < g.NumberOfNodes(); u++ {
		for _, e := range g.AdjacentEdges(u) {
			v := g.GetTarget(e)
			if u > v {
				continue
			}
			interior := f.geometry.InteriorNodes(e)
			slices.Reverse(interior)

			reverse := f.findReverseArc(e, v, u, interior, zipped)
			util.AssertPanic(reverse != da.SPECIAL_EDGEID,
				fmt.Sprintf("arc %d of %d -> %d has no matching reverse arc", e, u, v))
			zipped[e] = struct{}{}
			zipped[reverse] = struct{}{}

			geometryID := f.geometry.ZipEdges(e, reverse)
			addArc(u, v, e, geometryID, true)
			addArc(v, u, reverse, geometryID, false)
		}
	}

	util.AssertPanic(len(zipped) == g.NumberOfEdges(),
		fmt.Sprintf("zipped %d of %d arcs", len(zipped), g.NumberOfEdges()))
	return arcs
}

/*
findReverseArc unzipped arc v -> u removing interior. a split segment pair leaves two arcs each way, the
traversable arc of one record next to the reversed arc of the other, so the reverse arc of the same record
(equal cost and annotation) is preferred over any other arc with the same removed nodes.
*/
func (f *NodeBasedGraphFactory) findReverseArc(e da.EdgeID, v, u da.NodeID, interior []da.NodeID,
	zipped map[da.EdgeID]struct{}) da.EdgeID {
	g := f.graph
	data := g.GetEdgeData(e)
	fallback := da.SPECIAL_EDGEID
	for _, r := range g.FindEdges(v, u) {
		if _, used := zipped[r]; used {
			continue
		}
		if !slices.Equal(interior, f.geometry.InteriorNodes(r)) {
			continue
		}
		rData := g.GetEdgeData(r)
		if rData.Cost() == data.Cost() && rData.AnnotationID == data.AnnotationID {
			return r
		}
		if fallback == da.SPECIAL_EDGEID {
			fallback = r
		}
	}
	return fallback
}

// CompressAnnotationData keeps only the annotations referenced by arcs, in order of first use.
func (f *NodeBasedGraphFactory) CompressAnnotationData(arcs []da.GraphArc,
	annotations *da.AnnotationContainer[*da.OwnedStorage]) {
	oldToNew := make(map[da.AnnotationID]da.AnnotationID)
	permutation := make([]da.AnnotationID, 0)
	for i := range arcs {
		old := arcs[i].AnnotationID
		newID, ok := oldToNew[old]
		if !ok {
			newID = da.AnnotationID(len(permutation))
			oldToNew[old] = newID
			permutation = append(permutation, old)
		}
		arcs[i].AnnotationID = newID
	}
	before := annotations.Len()
	annotations.Storage().Renumber(permutation)
	f.logger.Sugar().Infof("annotations compressed from %d to %d", before, annotations.Len())
}

func (f *NodeBasedGraphFactory) GetGraph() *da.NodeBasedDynamicGraph {
	return f.graph
}

func (f *NodeBasedGraphFactory) GetCompressedEdges() *da.CompressedEdgeContainer {
	return f.geometry
}
