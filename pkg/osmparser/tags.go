package osmparser

import (
	"strconv"
	"strings"

	"github.com/lintang-b-s/navcore/pkg"
	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/lintang-b-s/navcore/pkg/util"
	"github.com/paulmach/osm"
)

var (
	// https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing/Telenav
	acceptedHighway = map[string]struct{}{
		"motorway":         {},
		"motorway_link":    {},
		"trunk":            {},
		"trunk_link":       {},
		"primary":          {},
		"primary_link":     {},
		"secondary":        {},
		"secondary_link":   {},
		"residential":      {},
		"residential_link": {},
		"service":          {},
		"tertiary":         {},
		"tertiary_link":    {},
		"road":             {},
		"track":            {},
		"unclassified":     {},
		"living_street":    {},
		"motorroad":        {},
	}

	// https://wiki.openstreetmap.org/wiki/Key:barrier
	// a barrier node only blocks the road when its access tag is "no". e.g. the gate at the entrance to
	// FMIPA UGM is open before 8.00 and after 16.00 (https://www.openstreetmap.org/node/8837559088).
	acceptedBarrierType = map[string]struct{}{
		"bollard":        {},
		"swing_gate":     {},
		"jersey_barrier": {},
		"lift_gate":      {},
		"block":          {},
		"gate":           {},
	}

	restrictedAccess = map[string]struct{}{
		"private":     {},
		"destination": {},
		"delivery":    {},
		"customers":   {},
	}
)

func acceptOsmWay(way *osm.Way) bool {
	if len(way.Nodes) < 2 {
		return false
	}
	if isRestricted(way.Tags.Find("access")) || isRestricted(way.Tags.Find("motor_vehicle")) {
		return false
	}
	if way.Tags.Find("area") == "yes" {
		return false
	}
	highway := way.Tags.Find("highway")
	if highway != "" {
		_, ok := acceptedHighway[highway]
		return ok
	}
	return way.Tags.Find("junction") != ""
}

func isRestricted(value string) bool {
	return value == "no" || value == "restricted"
}

func isBarrier(node *osm.Node) bool {
	barrierType := node.Tags.Find("barrier")
	if barrierType == "" {
		return false
	}
	_, ok := acceptedBarrierType[barrierType]
	return ok && node.Tags.Find("access") == "no"
}

func isTrafficSignal(node *osm.Node) bool {
	return node.Tags.Find("highway") == "traffic_signals" || node.Tags.Find("crossing") == "traffic_signals"
}

// wayDirection traversable directions along the node order of the way.
func wayDirection(way *osm.Way) (forward, backward bool) {
	forward, backward = true, true

	switch way.Tags.Find("oneway") {
	case "yes", "1", "true":
		backward = false
	case "-1", "reverse":
		forward = false
	case "no", "false", "0":
		return true, true
	default:
		junction := way.Tags.Find("junction")
		if junction == "roundabout" || junction == "circular" ||
			way.Tags.Find("highway") == "motorway" {
			backward = false
		}
	}

	// vehicle:forward=no and friends close one direction of an otherwise two way street
	if isRestricted(way.Tags.Find("vehicle:forward")) || isRestricted(way.Tags.Find("motor_vehicle:forward")) {
		forward = false
	}
	if isRestricted(way.Tags.Find("vehicle:backward")) || isRestricted(way.Tags.Find("motor_vehicle:backward")) {
		backward = false
	}
	return forward, backward
}

// parseMaxSpeed km/h of a maxspeed value. values without a unit are km/h, anything unparsable is 0.
func parseMaxSpeed(value string) float64 {
	value = strings.TrimSpace(value)
	factor := 1.0
	switch {
	case strings.HasSuffix(value, "mph"):
		factor = 1.60934
		value = strings.TrimSuffix(value, "mph")
	case strings.HasSuffix(value, "knots"):
		factor = 1.852
		value = strings.TrimSuffix(value, "knots")
	case strings.HasSuffix(value, "km/h"):
		value = strings.TrimSuffix(value, "km/h")
	}
	speed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || speed <= 0 {
		return 0
	}
	return speed * factor
}

// waySpeed km/h used for the durations of the way's segments, maxspeed capped by the highway class speed.
func waySpeed(way *osm.Way, highway pkg.OsmHighwayType) float64 {
	speed := pkg.RoadTypeSpeed(highway)
	if maxSpeed := parseMaxSpeed(way.Tags.Find("maxspeed")); maxSpeed > 0 && maxSpeed < speed {
		speed = maxSpeed
	}
	return speed
}

func wayLanes(way *osm.Way) uint8 {
	lanes := util.ParseInt(way.Tags.Find("lanes"), 0)
	if lanes < 0 {
		return 0
	}
	if lanes > 255 {
		return 255
	}
	return uint8(lanes)
}

func wayClasses(way *osm.Way, highway pkg.OsmHighwayType) da.ClassData {
	var classes da.ClassData
	if way.Tags.Find("toll") == "yes" {
		classes |= da.CLASS_TOLL
	}
	if highway.IsMotorwayClass() {
		classes |= da.CLASS_MOTORWAY
	}
	if way.Tags.Find("tunnel") == "yes" {
		classes |= da.CLASS_TUNNEL
	}
	if _, ok := restrictedAccess[way.Tags.Find("access")]; ok {
		classes |= da.CLASS_RESTRICTED
	}
	return classes
}
