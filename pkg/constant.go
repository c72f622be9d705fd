package pkg

import "math"

const (
	INVALID_EDGE_WEIGHT    int32 = math.MaxInt32
	MAXIMAL_EDGE_DURATION  int32 = math.MaxInt32
	INVALID_SEGMENT_WEIGHT int32 = math.MaxInt32

	// speeds are km/h, durations are deciseconds
	DEFAULT_SPEED_KMH    = 30.0
	DECISECONDS_PER_HOUR = 36000.0
)

const (
	DEBUG = false
)

// TravelMode fits in four bits of the packed annotation flags.
type TravelMode uint8

const (
	TRAVEL_MODE_INACCESSIBLE TravelMode = iota
	TRAVEL_MODE_DRIVING
	TRAVEL_MODE_CYCLING
	TRAVEL_MODE_WALKING
	TRAVEL_MODE_FERRY
	TRAVEL_MODE_TRAIN
	TRAVEL_MODE_PUSHING_BIKE
)

func (tm TravelMode) String() string {
	switch tm {
	case TRAVEL_MODE_DRIVING:
		return "driving"
	case TRAVEL_MODE_CYCLING:
		return "cycling"
	case TRAVEL_MODE_WALKING:
		return "walking"
	case TRAVEL_MODE_FERRY:
		return "ferry"
	case TRAVEL_MODE_TRAIN:
		return "train"
	case TRAVEL_MODE_PUSHING_BIKE:
		return "pushing bike"
	default:
		return "inaccessible"
	}
}

type OsmHighwayType uint8

// enum for osm highway used for routing: https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing/Telenav
// the value doubles as road priority class, lower is more important.
const (
	MOTORWAY       OsmHighwayType = 0
	TRUNK          OsmHighwayType = 1
	PRIMARY        OsmHighwayType = 2
	SECONDARY      OsmHighwayType = 3
	TERTIARY       OsmHighwayType = 4
	RESIDENTIAL    OsmHighwayType = 5
	SERVICE        OsmHighwayType = 6
	UNCLASSIFIED   OsmHighwayType = 7
	MOTORWAY_LINK  OsmHighwayType = 8
	TRUNK_LINK     OsmHighwayType = 9
	PRIMARY_LINK   OsmHighwayType = 10
	SECONDARY_LINK OsmHighwayType = 11
	TERTIARY_LINK  OsmHighwayType = 12
	LIVING_STREET  OsmHighwayType = 13
	ROAD           OsmHighwayType = 14
	TRACK          OsmHighwayType = 15
	MOTORROAD      OsmHighwayType = 16
	UNKNOWN        OsmHighwayType = 17
)

func GetHighwayType(roadType string) OsmHighwayType {
	switch roadType {
	case "motorway":
		return MOTORWAY
	case "trunk":
		return TRUNK
	case "primary":
		return PRIMARY
	case "secondary":
		return SECONDARY
	case "tertiary":
		return TERTIARY
	case "unclassified":
		return UNCLASSIFIED
	case "residential", "residential_link":
		return RESIDENTIAL
	case "service":
		return SERVICE
	case "motorway_link":
		return MOTORWAY_LINK
	case "trunk_link":
		return TRUNK_LINK
	case "primary_link":
		return PRIMARY_LINK
	case "secondary_link":
		return SECONDARY_LINK
	case "tertiary_link":
		return TERTIARY_LINK
	case "living_street":
		return LIVING_STREET
	case "road":
		return ROAD
	case "track":
		return TRACK
	case "motorroad":
		return MOTORROAD
	default:
		return UNKNOWN
	}
}

func (h OsmHighwayType) IsLink() bool {
	return h >= MOTORWAY_LINK && h <= TERTIARY_LINK
}

func (h OsmHighwayType) IsMotorwayClass() bool {
	return h == MOTORWAY || h == MOTORWAY_LINK || h == TRUNK || h == TRUNK_LINK
}

// IsIgnorable. minor roads that guidance may skip when deciding on obvious turns.
func (h OsmHighwayType) IsIgnorable() bool {
	return h == SERVICE || h == TRACK || h == LIVING_STREET
}

// RoadTypeSpeed default speed in km/h for a highway class.
func RoadTypeSpeed(h OsmHighwayType) float64 {
	switch h {
	case MOTORWAY:
		return 90
	case TRUNK, MOTORROAD:
		return 80
	case PRIMARY:
		return 65
	case SECONDARY:
		return 55
	case TERTIARY:
		return 40
	case MOTORWAY_LINK:
		return 45
	case TRUNK_LINK, PRIMARY_LINK:
		return 40
	case SECONDARY_LINK, TERTIARY_LINK:
		return 30
	case RESIDENTIAL, UNCLASSIFIED, ROAD:
		return 25
	case LIVING_STREET, SERVICE:
		return 15
	case TRACK:
		return 10
	default:
		return DEFAULT_SPEED_KMH
	}
}
