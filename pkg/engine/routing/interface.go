package routing

import (
	da "github.com/lintang-b-s/navcore/pkg/datastructure"
)

// RoutingAlgorithms query facade over one hierarchy. source and target arguments index into phantoms.
type RoutingAlgorithms interface {
	Name() string
	HasOneToManySearch() bool
	HasManyToOneSearch() bool

	ShortestPathSearch(phantoms []da.PhantomNode, source, target int) (da.EdgeWeight, da.EdgeDuration, error)
	OneToManySearch(phantoms []da.PhantomNode, source int, targets []int) (*Table, error)
	ManyToOneSearch(phantoms []da.PhantomNode, sources []int, target int) (*Table, error)
	ManyToManySearch(phantoms []da.PhantomNode, sources, targets []int) ([]da.EdgeDuration, error)
	ManyToManyTable(phantoms []da.PhantomNode, sources, targets []int) (*Table, error)
}

var (
	_ RoutingAlgorithms = (*CHAlgorithms)(nil)
	_ RoutingAlgorithms = (*CoreCHAlgorithms)(nil)
	_ RoutingAlgorithms = (*MLDAlgorithms)(nil)
)

type tableFunc func(phantoms []da.PhantomNode, sources, targets []int) (*Table, error)

func shortestPath(manyToMany tableFunc, phantoms []da.PhantomNode, source, target int) (da.EdgeWeight,
	da.EdgeDuration, error) {
	table, err := manyToMany(phantoms, []int{source}, []int{target})
	if err != nil {
		return da.INVALID_EDGE_WEIGHT, da.MAXIMAL_EDGE_DURATION, err
	}
	return table.Weights[0], table.Durations[0], nil
}

func durations(manyToMany tableFunc, phantoms []da.PhantomNode, sources, targets []int) ([]da.EdgeDuration, error) {
	table, err := manyToMany(phantoms, sources, targets)
	if err != nil {
		return nil, err
	}
	return table.Durations, nil
}
