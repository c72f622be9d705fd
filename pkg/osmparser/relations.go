package osmparser

import (
	"github.com/lintang-b-s/navcore/pkg/concurrent"
	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/paulmach/osm"
)

func memberKind(t osm.Type) da.ItemType {
	switch t {
	case osm.TypeNode:
		return da.ItemNode
	case osm.TypeWay:
		return da.ItemWay
	case osm.TypeRelation:
		return da.ItemRelation
	}
	return da.ItemUndefined
}

func isRouteRelation(relation *osm.Relation) bool {
	switch relation.Tags.Find("type") {
	case "route", "route_master", "associatedStreet", "street":
		return true
	}
	return false
}

func relationStoreShard(relations []*osm.Relation) *da.RelationStore {
	store := da.NewRelationStore()
	for _, relation := range relations {
		rel := da.NewRelation(int64(relation.ID))
		for _, tag := range relation.Tags {
			rel.AddAttr(tag.Key, tag.Value)
		}
		for _, member := range relation.Members {
			typed := da.NewOSMIDTyped(member.Ref, memberKind(member.Type))
			rel.AddMember(typed, member.Role)
			store.AddRelationMember(rel.ID, typed)
		}
		store.AddRelation(rel)
	}
	return store
}

// buildRelationStore splits relations into shards, builds one store per shard on the worker pool and
// merges them.
func buildRelationStore(relations []*osm.Relation, shards int) *da.RelationStore {
	if shards < 1 {
		shards = 1
	}
	size := (len(relations) + shards - 1) / shards
	jobs := make([][]*osm.Relation, 0, shards)
	for start := 0; start < len(relations); start += size {
		jobs = append(jobs, relations[start:min(start+size, len(relations))])
	}

	store := da.NewRelationStore()
	for _, shard := range concurrent.RunAll(shards, jobs, relationStoreShard) {
		store.Merge(shard)
	}
	return store
}

// routeRef ref, or else name, of the lowest id route relation the way is a member of. shards merge in
// completion order, the id keeps the choice stable.
func routeRef(store *da.RelationStore, wayID osm.WayID) string {
	best, bestID := "", int64(0)
	for _, id := range store.GetRelations(da.NewOSMIDTyped(int64(wayID), da.ItemWay)) {
		rel, ok := store.Get(id)
		if !ok || (best != "" && id >= bestID) {
			continue
		}
		ref, _ := rel.GetAttr("ref")
		if ref == "" {
			ref, _ = rel.GetAttr("name")
		}
		if ref != "" {
			best, bestID = ref, id
		}
	}
	return best
}
