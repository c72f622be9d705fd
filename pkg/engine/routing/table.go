package routing

import (
	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/lintang-b-s/navcore/pkg/util"
)

// Table row-major (source, target) matrices. unreachable pairs hold INVALID_EDGE_WEIGHT and
// MAXIMAL_EDGE_DURATION.
type Table struct {
	Weights    []da.EdgeWeight
	Durations  []da.EdgeDuration
	NumSources int
	NumTargets int
}

func NewTable(numSources, numTargets int) *Table {
	t := &Table{
		Weights:    make([]da.EdgeWeight, numSources*numTargets),
		Durations:  make([]da.EdgeDuration, numSources*numTargets),
		NumSources: numSources,
		NumTargets: numTargets,
	}
	for i := range t.Weights {
		t.Weights[i] = da.INVALID_EDGE_WEIGHT
		t.Durations[i] = da.MAXIMAL_EDGE_DURATION
	}
	return t
}

func (t *Table) Get(row, column int) da.Cost {
	i := row*t.NumTargets + column
	return da.NewCost(t.Weights[i], t.Durations[i])
}

func (t *Table) IsReachable(row, column int) bool {
	return !t.Get(row, column).IsInfinite()
}

func (t *Table) set(row, column int, c da.Cost) {
	i := row*t.NumTargets + column
	t.Weights[i], t.Durations[i] = c.Weight, c.Duration
}

// relax keeps the smaller of the stored and the given cost.
func (t *Table) relax(row, column int, c da.Cost) {
	if c.Less(t.Get(row, column)) {
		t.set(row, column, c)
	}
}

func (t *Table) equal(o *Table) bool {
	if t.NumSources != o.NumSources || t.NumTargets != o.NumTargets {
		return false
	}
	for i := range t.Weights {
		if t.Weights[i] != o.Weights[i] || t.Durations[i] != o.Durations[i] {
			return false
		}
	}
	return true
}

// finishTable applies what no search sees: a phantom used as both source and target costs nothing, and
// two phantoms on one segment may be connected along that segment directly.
func finishTable(t *Table, phantoms []da.PhantomNode, sources, targets []int) {
	for i, s := range sources {
		for j, tg := range targets {
			if s == tg {
				t.set(i, j, da.NewCost(0, 0))
				continue
			}
			t.relax(i, j, da.DirectCost(&phantoms[s], &phantoms[tg]))
		}
	}
}

func validateQuery(phantoms []da.PhantomNode, sources, targets []int, numNodes int) error {
	check := func(kind string, indices []int) error {
		for _, idx := range indices {
			if idx < 0 || idx >= len(phantoms) {
				return util.WrapErrorf(nil, util.ErrBadParamInput, "%s index %d out of range, %d phantom nodes",
					kind, idx, len(phantoms))
			}
			p := &phantoms[idx]
			if !p.IsValid() || int(p.U) >= numNodes || int(p.V) >= numNodes {
				return util.WrapErrorf(nil, util.ErrBadParamInput, "%s phantom %d is not snapped to the graph",
					kind, idx)
			}
		}
		return nil
	}
	if err := check("source", sources); err != nil {
		return err
	}
	return check("target", targets)
}
