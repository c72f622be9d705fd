package osmparser

import (
	"strings"

	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/paulmach/osm"
)

// rawRestriction restriction relation with its members still in osm ids.
type rawRestriction struct {
	id        osm.RelationID
	from      osm.WayID
	viaNode   osm.NodeID
	viaWays   []osm.WayID
	to        osm.WayID
	isOnly    bool
	condition string
}

// parseRestrictionValue no_* and only_* values, optionally followed by "@ condition".
func parseRestrictionValue(value string) (isOnly bool, condition string, ok bool) {
	kind, cond, _ := strings.Cut(value, "@")
	kind = strings.TrimSpace(kind)
	cond = strings.TrimSpace(cond)
	cond = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(cond, "("), ")"))
	switch {
	case strings.HasPrefix(kind, "only_"):
		return true, cond, true
	case strings.HasPrefix(kind, "no_"):
		return false, cond, true
	}
	return false, "", false
}

// exceptsCars except=* lists vehicle classes the restriction does not apply to.
func exceptsCars(except string) bool {
	for _, v := range strings.Split(except, ";") {
		switch strings.TrimSpace(v) {
		case "motorcar", "motor_vehicle", "vehicle":
			return true
		}
	}
	return false
}

/*
parseRestrictionRelation. https://wiki.openstreetmap.org/wiki/Relation:restriction

exactly one from way, one to way and either one via node or a chain of via ways. restriction:motorcar
wins over restriction, restriction:conditional only applies while its condition holds.
*/
func parseRestrictionRelation(relation *osm.Relation) (rawRestriction, bool) {
	if relation.Tags.Find("type") != "restriction" || exceptsCars(relation.Tags.Find("except")) {
		return rawRestriction{}, false
	}

	value := relation.Tags.Find("restriction:motorcar")
	if value == "" {
		value = relation.Tags.Find("restriction")
	}
	if value == "" {
		value = relation.Tags.Find("restriction:conditional")
	}
	isOnly, condition, ok := parseRestrictionValue(value)
	if !ok {
		return rawRestriction{}, false
	}

	r := rawRestriction{id: relation.ID, isOnly: isOnly, condition: condition}
	numFrom, numTo := 0, 0
	for _, member := range relation.Members {
		switch {
		case member.Role == "from" && member.Type == osm.TypeWay:
			r.from = osm.WayID(member.Ref)
			numFrom++
		case member.Role == "to" && member.Type == osm.TypeWay:
			r.to = osm.WayID(member.Ref)
			numTo++
		case member.Role == "via" && member.Type == osm.TypeNode:
			r.viaNode = osm.NodeID(member.Ref)
		case member.Role == "via" && member.Type == osm.TypeWay:
			r.viaWays = append(r.viaWays, osm.WayID(member.Ref))
		}
	}
	if numFrom != 1 || numTo != 1 {
		return rawRestriction{}, false
	}
	if (r.viaNode == 0) == (len(r.viaWays) == 0) {
		return rawRestriction{}, false
	}
	return r, true
}

func (r *rawRestriction) ways() []osm.WayID {
	return append([]osm.WayID{r.from, r.to}, r.viaWays...)
}

// neighborAt node next to via on a way that starts or ends at via. SPECIAL_NODEID when via is not an end
// of the way.
func neighborAt(nodes []da.NodeID, via da.NodeID) da.NodeID {
	if len(nodes) < 2 {
		return da.SPECIAL_NODEID
	}
	switch via {
	case nodes[0]:
		return nodes[1]
	case nodes[len(nodes)-1]:
		return nodes[len(nodes)-2]
	}
	return da.SPECIAL_NODEID
}

// sharedEnd end node both ways start or end at.
func sharedEnd(a, b []da.NodeID) da.NodeID {
	if len(a) == 0 || len(b) == 0 {
		return da.SPECIAL_NODEID
	}
	for _, x := range []da.NodeID{a[0], a[len(a)-1]} {
		if x == b[0] || x == b[len(b)-1] {
			return x
		}
	}
	return da.SPECIAL_NODEID
}

/*
resolve turns the way based relation into a node based restriction over graph node ids. wayNodes holds
the node ids of every accepted way. a single via way is supported, chains of via ways are dropped.
*/
func (r *rawRestriction) resolve(wayNodes map[osm.WayID][]da.NodeID,
	nodeIDs map[osm.NodeID]da.NodeID) (da.TurnRestriction, bool) {
	fromNodes, okFrom := wayNodes[r.from]
	toNodes, okTo := wayNodes[r.to]
	if !okFrom || !okTo {
		return da.TurnRestriction{}, false
	}

	if r.viaNode != 0 {
		via, ok := nodeIDs[r.viaNode]
		if !ok {
			return da.TurnRestriction{}, false
		}
		tr := da.NewNodeTurnRestriction(neighborAt(fromNodes, via), via, neighborAt(toNodes, via), r.isOnly)
		return tr, tr.Valid()
	}

	if len(r.viaWays) != 1 {
		return da.TurnRestriction{}, false
	}
	viaNodes, ok := wayNodes[r.viaWays[0]]
	if !ok {
		return da.TurnRestriction{}, false
	}
	entry, exit := sharedEnd(fromNodes, viaNodes), sharedEnd(toNodes, viaNodes)
	if entry == da.SPECIAL_NODEID || exit == da.SPECIAL_NODEID || entry == exit {
		return da.TurnRestriction{}, false
	}
	in := da.NodeRestriction{From: neighborAt(fromNodes, entry), Via: entry, To: neighborAt(viaNodes, entry)}
	out := da.NodeRestriction{From: neighborAt(viaNodes, exit), Via: exit, To: neighborAt(toNodes, exit)}
	tr := da.NewWayTurnRestriction(in, out, r.isOnly)
	return tr, tr.Valid()
}
