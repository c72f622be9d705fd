package osmparser

import (
	"testing"

	"github.com/lintang-b-s/navcore/pkg"
	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/lintang-b-s/navcore/pkg/preprocessor"
	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func tags(kv ...string) osm.Tags {
	t := make(osm.Tags, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		t = append(t, osm.Tag{Key: kv[i], Value: kv[i+1]})
	}
	return t
}

func way(id osm.WayID, nodes []osm.NodeID, kv ...string) *osm.Way {
	w := &osm.Way{ID: id, Tags: tags(kv...)}
	for _, n := range nodes {
		w.Nodes = append(w.Nodes, osm.WayNode{ID: n})
	}
	return w
}

func node(id osm.NodeID, lat, lon float64, kv ...string) *osm.Node {
	return &osm.Node{ID: id, Lat: lat, Lon: lon, Tags: tags(kv...)}
}

func member(t osm.Type, ref int64, role string) osm.Member {
	return osm.Member{Type: t, Ref: ref, Role: role}
}

// extract runs both passes over in memory objects, nodes first like a pbf file.
func extract(t *testing.T, nodes []*osm.Node, ways []*osm.Way, relations []*osm.Relation) (*OsmParser,
	*preprocessor.ExtractedGraph) {
	t.Helper()
	p := NewOsmParser(zap.NewNop(), 2)
	for _, w := range ways {
		p.scanObject(w)
	}
	for _, r := range relations {
		p.scanObject(r)
	}
	p.finishFirstPass()
	for _, n := range nodes {
		p.extractObject(n)
	}
	for _, w := range ways {
		p.extractObject(w)
	}
	return p, p.finish()
}

// crossing four arms around node 5, plus a footway that must be ignored.
//
//	      2
//	      |
//	1 --- 5 --- 3
//	      |
//	      4
func crossing() []*osm.Node {
	return []*osm.Node{
		node(1, -7.800, 110.360),
		node(2, -7.799, 110.361),
		node(3, -7.800, 110.362),
		node(4, -7.801, 110.361),
		node(5, -7.800, 110.361, "highway", "traffic_signals"),
		node(6, -7.798, 110.361, "barrier", "gate", "access", "no"),
		node(99, -7.790, 110.350),
	}
}

func TestExtractRoadSegments(t *testing.T) {
	ways := []*osm.Way{
		way(10, []osm.NodeID{1, 5, 3}, "highway", "residential", "name", "Jalan Kaliurang"),
		way(11, []osm.NodeID{4, 5}, "highway", "primary", "oneway", "yes", "maxspeed", "40"),
		way(12, []osm.NodeID{2, 5}, "highway", "residential", "name", "Jalan Kaliurang"),
		way(13, []osm.NodeID{6, 2}, "highway", "service", "oneway", "-1"),
		way(14, []osm.NodeID{99, 1}, "highway", "footway"),
	}
	p, g := extract(t, crossing(), ways, nil)

	require.Len(t, g.Nodes, 6, "node 99 is only on the footway")
	id := func(osmID osm.NodeID) da.NodeID {
		v, ok := p.nodeIDs[osmID]
		require.True(t, ok, "node %d", osmID)
		return v
	}
	assert.True(t, g.Nodes[id(5)].TrafficSignal)
	assert.True(t, g.Nodes[id(6)].Barrier)
	assert.False(t, g.Nodes[id(1)].Barrier)
	assert.Equal(t, int64(3), g.Nodes[id(3)].OsmID)

	require.Len(t, g.Edges, 5)
	testCases := []struct {
		name     string
		edge     da.NodeBasedEdge
		u, v     osm.NodeID
		forward  bool
		backward bool
	}{
		{name: "two way first segment", edge: g.Edges[0], u: 1, v: 5, forward: true, backward: true},
		{name: "two way second segment", edge: g.Edges[1], u: 5, v: 3, forward: true, backward: true},
		{name: "oneway yes", edge: g.Edges[2], u: 4, v: 5, forward: true, backward: false},
		{name: "same street again", edge: g.Edges[3], u: 2, v: 5, forward: true, backward: true},
		{name: "oneway -1", edge: g.Edges[4], u: 6, v: 2, forward: false, backward: true},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, id(tt.u), tt.edge.Source)
			assert.Equal(t, id(tt.v), tt.edge.Target)
			assert.Equal(t, tt.forward, tt.edge.IsForward())
			assert.Equal(t, tt.backward, tt.edge.IsBackward())
			assert.Greater(t, tt.edge.Weight, da.EdgeWeight(0))
			assert.Equal(t, da.EdgeDuration(tt.edge.Weight), tt.edge.Duration)
		})
	}

	// ways 10 and 12 carry identical tags
	assert.Equal(t, g.Edges[0].AnnotationID, g.Edges[3].AnnotationID)
	assert.NotEqual(t, g.Edges[0].AnnotationID, g.Edges[2].AnnotationID)
	assert.Equal(t, 3, g.Annotations.Len())

	a := g.Annotations.At(g.Edges[0].AnnotationID)
	assert.Equal(t, "Jalan Kaliurang", g.Names.GetStr(int(a.NameID)))
	assert.Equal(t, pkg.RESIDENTIAL, a.Classification.Priority())
	assert.Equal(t, pkg.TRAVEL_MODE_DRIVING, a.TravelMode())

	primary := g.Annotations.At(g.Edges[2].AnnotationID)
	assert.Equal(t, pkg.PRIMARY, primary.Classification.Priority())
}

func TestExtractRestrictions(t *testing.T) {
	ways := []*osm.Way{
		way(10, []osm.NodeID{1, 5}, "highway", "residential"),
		way(11, []osm.NodeID{5, 3}, "highway", "residential"),
		way(12, []osm.NodeID{5, 2}, "highway", "residential"),
		way(13, []osm.NodeID{4, 5}, "highway", "residential"),
		way(14, []osm.NodeID{2, 6}, "highway", "service"),
	}
	relations := []*osm.Relation{
		{ID: 100, Tags: tags("type", "restriction", "restriction", "no_left_turn"), Members: osm.Members{
			member(osm.TypeWay, 10, "from"), member(osm.TypeNode, 5, "via"), member(osm.TypeWay, 12, "to")}},
		{ID: 101, Tags: tags("type", "restriction", "restriction:conditional", "no_right_turn @ (Mo-Fr 07:00-09:00)"),
			Members: osm.Members{
				member(osm.TypeWay, 13, "from"), member(osm.TypeNode, 5, "via"), member(osm.TypeWay, 11, "to")}},
		{ID: 102, Tags: tags("type", "restriction", "restriction", "only_straight_on"), Members: osm.Members{
			member(osm.TypeWay, 10, "from"), member(osm.TypeWay, 12, "via"), member(osm.TypeWay, 14, "to")}},
		{ID: 103, Tags: tags("type", "restriction", "restriction", "no_u_turn", "except", "motorcar"),
			Members: osm.Members{
				member(osm.TypeWay, 10, "from"), member(osm.TypeNode, 5, "via"), member(osm.TypeWay, 10, "to")}},
		{ID: 104, Tags: tags("type", "restriction", "restriction", "no_left_turn"), Members: osm.Members{
			member(osm.TypeWay, 10, "from"), member(osm.TypeNode, 3, "via"), member(osm.TypeWay, 11, "to")}},
	}
	p, g := extract(t, crossing(), ways, relations)
	id := func(osmID osm.NodeID) da.NodeID { return p.nodeIDs[osmID] }

	require.Len(t, g.Restrictions, 2, "the except=motorcar and the misplaced via node are dropped")

	viaNode := g.Restrictions[0]
	assert.Equal(t, da.NODE_RESTRICTION, viaNode.Type)
	assert.False(t, viaNode.IsOnly)
	assert.Equal(t, da.NodeRestriction{From: id(1), Via: id(5), To: id(2)}, viaNode.Node)

	viaWay := g.Restrictions[1]
	assert.Equal(t, da.WAY_RESTRICTION, viaWay.Type)
	assert.True(t, viaWay.IsOnly)
	assert.Equal(t, da.NodeRestriction{From: id(1), Via: id(5), To: id(2)}, viaWay.Way.In)
	assert.Equal(t, da.NodeRestriction{From: id(5), Via: id(2), To: id(6)}, viaWay.Way.Out)

	require.Len(t, g.ConditionalRestrictions, 1)
	cond := g.ConditionalRestrictions[0]
	assert.Equal(t, "Mo-Fr 07:00-09:00", cond.Condition)
	assert.Equal(t, da.NodeRestriction{From: id(4), Via: id(5), To: id(3)}, cond.Node)
}

func TestRouteRelationNames(t *testing.T) {
	ways := []*osm.Way{
		way(10, []osm.NodeID{1, 5}, "highway", "trunk"),
		way(11, []osm.NodeID{5, 3}, "highway", "trunk", "name", "Jalan Magelang"),
	}
	relations := []*osm.Relation{
		{ID: 200, Tags: tags("type", "route", "route", "road", "ref", "N14"), Members: osm.Members{
			member(osm.TypeWay, 10, ""), member(osm.TypeWay, 11, "")}},
		{ID: 201, Tags: tags("type", "route", "route", "bus", "name", "Trans Jogja 1A"), Members: osm.Members{
			member(osm.TypeWay, 10, "forward"), member(osm.TypeNode, 5, "stop")}},
		{ID: 202, Tags: tags("type", "multipolygon"), Members: osm.Members{member(osm.TypeWay, 10, "outer")}},
	}
	p, g := extract(t, crossing(), ways, relations)

	store := p.GetRelations()
	assert.Equal(t, 2, store.Len())
	assert.ElementsMatch(t, []int64{200, 201}, store.GetRelations(da.NewOSMIDTyped(10, da.ItemWay)))
	assert.Equal(t, []int64{201}, store.GetRelations(da.NewOSMIDTyped(5, da.ItemNode)))
	assert.Empty(t, store.GetRelations(da.NewOSMIDTyped(5, da.ItemWay)))

	bus, ok := store.Get(201)
	require.True(t, ok)
	role, ok := bus.GetRole(da.NewOSMIDTyped(5, da.ItemNode))
	require.True(t, ok)
	assert.Equal(t, "stop", role)

	require.Len(t, g.Edges, 2)
	name := func(e da.NodeBasedEdge) string {
		return g.Names.GetStr(int(g.Annotations.NameID(e.AnnotationID)))
	}
	assert.Equal(t, "N14", name(g.Edges[0]))
	assert.Equal(t, "Jalan Magelang", name(g.Edges[1]))
}

func TestBuildRelationStoreShards(t *testing.T) {
	relations := make([]*osm.Relation, 0, 10)
	for i := 1; i <= 10; i++ {
		relations = append(relations, &osm.Relation{ID: osm.RelationID(i), Tags: tags("type", "route"),
			Members: osm.Members{member(osm.TypeWay, 7, "")}})
	}
	for _, shards := range []int{1, 3, 16} {
		store := buildRelationStore(relations, shards)
		assert.Equal(t, 10, store.Len(), "shards %d", shards)
		assert.Len(t, store.GetRelations(da.NewOSMIDTyped(7, da.ItemWay)), 10, "shards %d", shards)
	}
	assert.Equal(t, 0, buildRelationStore(nil, 4).Len())
}

func TestWayDirection(t *testing.T) {
	testCases := []struct {
		name     string
		kv       []string
		forward  bool
		backward bool
	}{
		{name: "two way", kv: []string{"highway", "residential"}, forward: true, backward: true},
		{name: "oneway yes", kv: []string{"highway", "residential", "oneway", "yes"}, forward: true},
		{name: "oneway -1", kv: []string{"highway", "residential", "oneway", "-1"}, backward: true},
		{name: "roundabout", kv: []string{"highway", "primary", "junction", "roundabout"}, forward: true},
		{name: "motorway", kv: []string{"highway", "motorway"}, forward: true},
		{name: "motorway oneway no", kv: []string{"highway", "motorway", "oneway", "no"}, forward: true,
			backward: true},
		{name: "vehicle forward no", kv: []string{"highway", "residential", "vehicle:forward", "no"},
			backward: true},
		{name: "motor vehicle backward no", kv: []string{"highway", "residential", "motor_vehicle:backward", "no"},
			forward: true},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			forward, backward := wayDirection(way(1, []osm.NodeID{1, 2}, tt.kv...))
			assert.Equal(t, tt.forward, forward)
			assert.Equal(t, tt.backward, backward)
		})
	}
}

func TestAcceptOsmWay(t *testing.T) {
	assert.True(t, acceptOsmWay(way(1, []osm.NodeID{1, 2}, "highway", "tertiary")))
	assert.True(t, acceptOsmWay(way(1, []osm.NodeID{1, 2}, "junction", "roundabout")))
	assert.False(t, acceptOsmWay(way(1, []osm.NodeID{1, 2}, "highway", "footway")))
	assert.False(t, acceptOsmWay(way(1, []osm.NodeID{1, 2}, "highway", "residential", "access", "no")))
	assert.False(t, acceptOsmWay(way(1, []osm.NodeID{1}, "highway", "residential")))
	assert.False(t, acceptOsmWay(way(1, []osm.NodeID{1, 2}, "building", "yes")))
}

func TestParseMaxSpeed(t *testing.T) {
	testCases := []struct {
		value string
		want  float64
	}{
		{value: "50", want: 50},
		{value: "60 km/h", want: 60},
		{value: "30 mph", want: 48.2802},
		{value: "10 knots", want: 18.52},
		{value: "signals", want: 0},
		{value: "", want: 0},
	}
	for _, tt := range testCases {
		t.Run(tt.value, func(t *testing.T) {
			assert.InDelta(t, tt.want, parseMaxSpeed(tt.value), 1e-6)
		})
	}

	w := way(1, []osm.NodeID{1, 2}, "highway", "primary", "maxspeed", "200")
	assert.Equal(t, pkg.RoadTypeSpeed(pkg.PRIMARY), waySpeed(w, pkg.PRIMARY))
}

func TestParseRestrictionValue(t *testing.T) {
	testCases := []struct {
		value     string
		isOnly    bool
		condition string
		ok        bool
	}{
		{value: "no_left_turn", ok: true},
		{value: "only_right_turn", isOnly: true, ok: true},
		{value: "no_u_turn @ (22:00-06:00)", condition: "22:00-06:00", ok: true},
		{value: "only_straight_on @ Mo-Fr 07:00-09:00", isOnly: true, condition: "Mo-Fr 07:00-09:00", ok: true},
		{value: "give_way"},
		{value: ""},
	}
	for _, tt := range testCases {
		t.Run(tt.value, func(t *testing.T) {
			isOnly, condition, ok := parseRestrictionValue(tt.value)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.isOnly, isOnly)
			assert.Equal(t, tt.condition, condition)
		})
	}
}

func TestSegmentCost(t *testing.T) {
	a := da.NodeInfo{Lat: -7.80, Lon: 110.36}
	b := da.NodeInfo{Lat: -7.79, Lon: 110.36}

	// 1.112 km at 30 km/h
	weight, duration := segmentCost(a, b, 30)
	assert.InDelta(t, 1334, float64(duration), 2)
	assert.Equal(t, da.EdgeWeight(duration), weight)

	weight, duration = segmentCost(a, a, 30)
	assert.Equal(t, da.EdgeWeight(1), weight)
	assert.Equal(t, da.EdgeDuration(1), duration)
}
