package osmparser

import (
	"context"
	"io"
	"math"
	"os"

	"github.com/lintang-b-s/navcore/pkg"
	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/lintang-b-s/navcore/pkg/geo"
	"github.com/lintang-b-s/navcore/pkg/preprocessor"
	"github.com/lintang-b-s/navcore/pkg/util"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"
)

const progressInterval = 50000

/*
OsmParser extracts the car road network of an osm pbf file in two passes:

 1. ways and relations: mark the nodes of accepted ways, collect restriction and route relations
 2. nodes and ways: node coordinates, barriers and traffic signals, then one edge record per pair of
    consecutive way nodes

pbf files store nodes before ways, so every coordinate is known by the time its way is processed.
*/
type OsmParser struct {
	logger         *zap.Logger
	relationShards int

	wayNodes         map[osm.NodeID]struct{}
	restrictionWays  map[osm.WayID]struct{}
	rawRestrictions  []rawRestriction
	routeRelations   []*osm.Relation
	relations        *da.RelationStore
	nodeIDs          map[osm.NodeID]da.NodeID
	restrictionNodes map[osm.WayID][]da.NodeID
	annotationIDs    map[da.NodeBasedEdgeAnnotation]da.AnnotationID
	turnLanes        util.IDMap

	graph *preprocessor.ExtractedGraph

	numWays, numNodes int
}

func NewOsmParser(logger *zap.Logger, relationShards int) *OsmParser {
	return &OsmParser{
		logger:           logger,
		relationShards:   relationShards,
		wayNodes:         make(map[osm.NodeID]struct{}),
		restrictionWays:  make(map[osm.WayID]struct{}),
		relations:        da.NewRelationStore(),
		nodeIDs:          make(map[osm.NodeID]da.NodeID),
		restrictionNodes: make(map[osm.WayID][]da.NodeID),
		annotationIDs:    make(map[da.NodeBasedEdgeAnnotation]da.AnnotationID),
		turnLanes:        util.NewIdMap(),
		graph: &preprocessor.ExtractedGraph{
			Annotations: da.NewOwnedAnnotationContainer(0),
			Names:       util.NewIdMap(),
		},
	}
}

// GetRelations route relations of the last parse.
func (p *OsmParser) GetRelations() *da.RelationStore {
	return p.relations
}

// GetTurnLanes interned turn:lanes strings, indexed by NodeBasedEdgeAnnotation.LaneDescriptionID.
func (p *OsmParser) GetTurnLanes() util.IDMap {
	return p.turnLanes
}

func (p *OsmParser) Parse(ctx context.Context, mapFile string) (*preprocessor.ExtractedGraph, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrNotFound, "open osm file %s", mapFile)
	}
	defer f.Close()

	p.logger.Info("scanning ways and relations", zap.String("osmFile", mapFile))
	if err := p.scan(ctx, f, true, false, false, p.scanObject); err != nil {
		return nil, err
	}
	p.finishFirstPass()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "seek osm file %s", mapFile)
	}

	p.logger.Info("extracting nodes and road segments", zap.Int("wayNodes", len(p.wayNodes)))
	if err := p.scan(ctx, f, false, false, true, p.extractObject); err != nil {
		return nil, err
	}

	graph := p.finish()
	p.logger.Info("osm extraction done", zap.Int("nodes", len(graph.Nodes)), zap.Int("edges", len(graph.Edges)),
		zap.Int("annotations", graph.Annotations.Len()), zap.Int("restrictions", len(graph.Restrictions)),
		zap.Int("conditionalRestrictions", len(graph.ConditionalRestrictions)),
		zap.Int("routeRelations", p.relations.Len()))
	return graph, nil
}

func (p *OsmParser) scan(ctx context.Context, r io.Reader, skipNodes, skipWays, skipRelations bool,
	handle func(o osm.Object)) error {
	scanner := osmpbf.New(ctx, r, 1)
	defer scanner.Close()
	scanner.SkipNodes = skipNodes
	scanner.SkipWays = skipWays
	scanner.SkipRelations = skipRelations

	for scanner.Scan() {
		handle(scanner.Object())
	}
	if err := scanner.Err(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return util.WrapErrorf(err, util.ErrBadParamInput, "read osm pbf")
	}
	return nil
}

// scanObject first pass.
func (p *OsmParser) scanObject(o osm.Object) {
	switch o := o.(type) {
	case *osm.Way:
		if !acceptOsmWay(o) {
			return
		}
		for _, node := range o.Nodes {
			p.wayNodes[node.ID] = struct{}{}
		}
	case *osm.Relation:
		if r, ok := parseRestrictionRelation(o); ok {
			p.rawRestrictions = append(p.rawRestrictions, r)
			for _, w := range r.ways() {
				p.restrictionWays[w] = struct{}{}
			}
			return
		}
		if isRouteRelation(o) {
			p.routeRelations = append(p.routeRelations, o)
		}
	}
}

func (p *OsmParser) finishFirstPass() {
	p.relations = buildRelationStore(p.routeRelations, p.relationShards)
	p.routeRelations = nil
}

// extractObject second pass.
func (p *OsmParser) extractObject(o osm.Object) {
	switch o := o.(type) {
	case *osm.Node:
		p.processNode(o)
	case *osm.Way:
		if acceptOsmWay(o) {
			p.processWay(o)
		}
	}
}

func (p *OsmParser) processNode(node *osm.Node) {
	if _, ok := p.wayNodes[node.ID]; !ok {
		return
	}
	if _, seen := p.nodeIDs[node.ID]; seen {
		return
	}
	p.numNodes++
	if p.numNodes%progressInterval == 0 {
		p.logger.Sugar().Infof("processing openstreetmap nodes: %d...", p.numNodes)
	}

	p.nodeIDs[node.ID] = da.NodeID(len(p.graph.Nodes))
	p.graph.Nodes = append(p.graph.Nodes, da.NodeInfo{
		Lat:           node.Lat,
		Lon:           node.Lon,
		OsmID:         int64(node.ID),
		Barrier:       isBarrier(node),
		TrafficSignal: isTrafficSignal(node),
	})
}

func (p *OsmParser) wayName(way *osm.Way) string {
	if name := way.Tags.Find("name"); name != "" {
		return name
	}
	if ref := way.Tags.Find("ref"); ref != "" {
		return ref
	}
	return routeRef(p.relations, way.ID)
}

func (p *OsmParser) wayAnnotation(way *osm.Way, highway pkg.OsmHighwayType) da.AnnotationID {
	junction := way.Tags.Find("junction")
	_, restricted := restrictedAccess[way.Tags.Find("access")]
	a := da.NewNodeBasedEdgeAnnotation(
		uint32(p.graph.Names.GetID(p.wayName(way))),
		da.NewRoadClassification(highway, wayLanes(way)),
		pkg.TRAVEL_MODE_DRIVING,
		junction == "roundabout",
		junction == "circular",
		true,
		restricted,
	)
	if lanes := way.Tags.Find("turn:lanes"); lanes != "" {
		if id := p.turnLanes.GetID(lanes); id <= math.MaxUint16 {
			a.LaneDescriptionID = uint16(id)
		}
	}
	a.Classes = wayClasses(way, highway)

	if id, ok := p.annotationIDs[a]; ok {
		return id
	}
	id := p.graph.Annotations.Storage().Push(a)
	p.annotationIDs[a] = id
	return id
}

// processWay one edge record per consecutive node pair. pairs with a node missing from the extract are
// skipped.
func (p *OsmParser) processWay(way *osm.Way) {
	forward, backward := wayDirection(way)
	if !forward && !backward {
		return
	}
	p.numWays++
	if p.numWays%progressInterval == 0 {
		p.logger.Sugar().Infof("processing openstreetmap ways: %d...", p.numWays)
	}

	highway := pkg.GetHighwayType(way.Tags.Find("highway"))
	speed := waySpeed(way, highway)
	annotationID := p.wayAnnotation(way, highway)

	_, keepNodes := p.restrictionWays[way.ID]
	var nodes []da.NodeID
	if keepNodes {
		nodes = make([]da.NodeID, 0, len(way.Nodes))
	}

	for i, wayNode := range way.Nodes {
		v, ok := p.nodeIDs[wayNode.ID]
		if !ok {
			keepNodes = false
			continue
		}
		if keepNodes {
			nodes = append(nodes, v)
		}
		if i == 0 {
			continue
		}
		u, ok := p.nodeIDs[way.Nodes[i-1].ID]
		if !ok || u == v {
			continue
		}
		weight, duration := segmentCost(p.graph.Nodes[u], p.graph.Nodes[v], speed)
		p.graph.Edges = append(p.graph.Edges,
			da.NewNodeBasedEdge(u, v, weight, duration, forward, backward, annotationID))
	}

	if keepNodes {
		p.restrictionNodes[way.ID] = nodes
	}
}

// segmentCost duration in deciseconds at speed km/h. the weight is the duration, at least 1.
func segmentCost(a, b da.NodeInfo, speed float64) (da.EdgeWeight, da.EdgeDuration) {
	km := geo.CalculateHaversineDistance(a.Lat, a.Lon, b.Lat, b.Lon)
	ds := math.Round(km / speed * pkg.DECISECONDS_PER_HOUR)
	ds = util.Clamp(ds, 1, float64(pkg.MAXIMAL_EDGE_DURATION-1))
	return da.EdgeWeight(ds), da.EdgeDuration(ds)
}

// finish resolves the restriction relations against the extracted ways.
func (p *OsmParser) finish() *preprocessor.ExtractedGraph {
	dropped := 0
	for i := range p.rawRestrictions {
		r := &p.rawRestrictions[i]
		tr, ok := r.resolve(p.restrictionNodes, p.nodeIDs)
		if !ok {
			dropped++
			continue
		}
		if r.condition != "" {
			p.graph.ConditionalRestrictions = append(p.graph.ConditionalRestrictions,
				da.ConditionalTurnRestriction{TurnRestriction: tr, Condition: r.condition})
			continue
		}
		p.graph.Restrictions = append(p.graph.Restrictions, tr)
	}
	if dropped > 0 {
		p.logger.Debug("dropped restrictions that do not match the road network", zap.Int("count", dropped))
	}
	return p.graph
}
