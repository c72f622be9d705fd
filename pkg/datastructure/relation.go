package datastructure

import (
	"fmt"
	"sort"

	"github.com/lintang-b-s/navcore/pkg/util"
)

// ItemType numeric osm object kind, used in member hashes.
type ItemType uint8

const (
	ItemUndefined ItemType = iota
	ItemNode
	ItemWay
	ItemRelation
)

func (t ItemType) String() string {
	switch t {
	case ItemNode:
		return "node"
	case ItemWay:
		return "way"
	case ItemRelation:
		return "relation"
	default:
		return "undefined"
	}
}

// OSMIDTyped osm id together with its kind. node 5 and way 5 are different members.
type OSMIDTyped struct {
	ID   int64
	Kind ItemType
}

func NewOSMIDTyped(id int64, kind ItemType) OSMIDTyped {
	return OSMIDTyped{ID: id, Kind: kind}
}

// Hash mixes the kind into the top byte of the id.
func (o OSMIDTyped) Hash() uint64 {
	return uint64(o.ID) ^ (uint64(o.Kind) << 56)
}

type Attribute struct {
	Key   string
	Value string
}

type MemberRole struct {
	Hash uint64
	Role string
}

// Relation. attributes and member roles are sorted by Prepare, lookups binary search them.
type Relation struct {
	ID          int64
	attributes  []Attribute
	memberRoles []MemberRole
}

func NewRelation(id int64) Relation {
	return Relation{ID: id}
}

func (r *Relation) AddAttr(key, value string) {
	r.attributes = append(r.attributes, Attribute{Key: key, Value: value})
}

func (r *Relation) AddMember(member OSMIDTyped, role string) {
	r.memberRoles = append(r.memberRoles, MemberRole{Hash: member.Hash(), Role: role})
}

func (r *Relation) Prepare() {
	sort.Slice(r.attributes, func(i, j int) bool {
		if r.attributes[i].Key != r.attributes[j].Key {
			return r.attributes[i].Key < r.attributes[j].Key
		}
		return r.attributes[i].Value < r.attributes[j].Value
	})
	sort.Slice(r.memberRoles, func(i, j int) bool {
		if r.memberRoles[i].Hash != r.memberRoles[j].Hash {
			return r.memberRoles[i].Hash < r.memberRoles[j].Hash
		}
		return r.memberRoles[i].Role < r.memberRoles[j].Role
	})
}

// GetAttr value of key. only valid after Prepare.
func (r *Relation) GetAttr(key string) (string, bool) {
	i := sort.Search(len(r.attributes), func(i int) bool {
		return r.attributes[i].Key >= key
	})
	if i < len(r.attributes) && r.attributes[i].Key == key {
		return r.attributes[i].Value, true
	}
	return "", false
}

// GetRole role of member in this relation. only valid after Prepare.
func (r *Relation) GetRole(member OSMIDTyped) (string, bool) {
	h := member.Hash()
	i := sort.Search(len(r.memberRoles), func(i int) bool {
		return r.memberRoles[i].Hash >= h
	})
	if i < len(r.memberRoles) && r.memberRoles[i].Hash == h {
		return r.memberRoles[i].Role, true
	}
	return "", false
}

func (r *Relation) NumMembers() int {
	return len(r.memberRoles)
}

func (r *Relation) Attributes() []Attribute {
	return r.attributes
}

// RelationStore owns relations by id and a reverse index member -> relation ids.
// Stores built over disjoint input shards are combined with Merge.
type RelationStore struct {
	relations map[int64]Relation
	refs      map[OSMIDTyped][]int64
}

func NewRelationStore() *RelationStore {
	return &RelationStore{
		relations: make(map[int64]Relation),
		refs:      make(map[OSMIDTyped][]int64),
	}
}

// AddRelation prepares rel and stores it. a duplicate id is a bug upstream and panics.
func (rs *RelationStore) AddRelation(rel Relation) {
	_, exists := rs.relations[rel.ID]
	util.AssertPanic(!exists, fmt.Sprintf("duplicate relation id %d", rel.ID))
	rel.Prepare()
	rs.relations[rel.ID] = rel
}

// AddRelationMember records that relationID references member. unknown kinds are ignored.
func (rs *RelationStore) AddRelationMember(relationID int64, member OSMIDTyped) {
	switch member.Kind {
	case ItemNode, ItemWay, ItemRelation:
		rs.refs[member] = append(rs.refs[member], relationID)
	}
}

// Merge absorbs other. relation ids must be disjoint, reverse buckets are concatenated.
func (rs *RelationStore) Merge(other *RelationStore) {
	for id, rel := range other.relations {
		_, exists := rs.relations[id]
		util.AssertPanic(!exists, fmt.Sprintf("duplicate relation id %d while merging relation stores", id))
		rs.relations[id] = rel
	}
	for member, ids := range other.refs {
		rs.refs[member] = append(rs.refs[member], ids...)
	}
}

// GetRelations ids of relations referencing member, empty for unknown members.
func (rs *RelationStore) GetRelations(member OSMIDTyped) []int64 {
	ids, ok := rs.refs[member]
	if !ok {
		return []int64{}
	}
	return ids
}

func (rs *RelationStore) Get(id int64) (Relation, bool) {
	rel, ok := rs.relations[id]
	return rel, ok
}

func (rs *RelationStore) Len() int {
	return len(rs.relations)
}

func (rs *RelationStore) ForRelations(handle func(rel *Relation)) {
	for id := range rs.relations {
		rel := rs.relations[id]
		handle(&rel)
	}
}
