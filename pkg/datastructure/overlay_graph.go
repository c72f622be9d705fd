package datastructure

import (
	"math"
	"slices"
)

const INVALID_POINT uint32 = math.MaxUint32

// Cell. cell/partition information
/*
Customizable Route Planning In Road Networks, Delling et al., Page 11:
First, for each cell C in the overlay graph, we keep three integers: pC (the number of entry points), qC
(the number of exit points), and fC (the position in W where the first entry of C's matrix is represented).
During customization and queries, the cost of the shortcut between the i-th entry point and the j-th exit
point of C will be stored in W [fC + iqC + j].
*/
type Cell struct {
	numEntryPoints  uint32 // p_c
	numExitPoints   uint32 // q_c
	cellOffset      uint32 // f_c
	overlayIdOffset uint32 // first entry point of the cell in overlayIdMapping, exit points follow the entry points
}

func (c *Cell) GetNumEntryPoints() uint32 {
	return c.numEntryPoints
}

func (c *Cell) GetNumExitPoints() uint32 {
	return c.numExitPoints
}

// WeightIndex position of the shortcut entry i -> exit j in W.
func (c *Cell) WeightIndex(i, j uint32) uint32 {
	return c.cellOffset + i*c.numExitPoints + j
}

/*
OverlayGraph. boundary nodes of every cell on every level of a multilevel partition.

a node is an entry point of its level l cell when some arc enters it from another level l cell, and an
exit point when some arc leaves it to another level l cell. a boundary arc of level l is a boundary arc of
every level below l as well, so the boundary nodes of level l are a subset of those of level l-1.
*/
type OverlayGraph struct {
	mlp              *MultilevelPartition
	cellMapping      []map[Pv]*Cell // per level, truncated cell number -> cell
	overlayIdMapping []NodeID
	entryPoint       [][]uint32 // [level-1][node] entry index inside its cell, INVALID_POINT if none
	exitPoint        [][]uint32
	weightVectorSize uint32 // size of one-dimensional weight array W.
}

func NewOverlayGraph(graph *Graph, mlp *MultilevelPartition) *OverlayGraph {
	og := &OverlayGraph{mlp: mlp}
	og.build(graph)
	return og
}

func (og *OverlayGraph) build(g *Graph) {
	numLevels := og.mlp.GetNumberOfLevels()
	n := g.NumberOfVertices()

	isEntry := make([][]bool, numLevels)
	isExit := make([][]bool, numLevels)
	og.entryPoint = make([][]uint32, numLevels)
	og.exitPoint = make([][]uint32, numLevels)
	for l := 0; l < numLevels; l++ {
		isEntry[l] = make([]bool, n)
		isExit[l] = make([]bool, n)
		og.entryPoint[l] = make([]uint32, n)
		og.exitPoint[l] = make([]uint32, n)
		for v := 0; v < n; v++ {
			og.entryPoint[l][v] = INVALID_POINT
			og.exitPoint[l][v] = INVALID_POINT
		}
	}

	g.ForOutEdges(func(tail NodeID, e *OutEdge) {
		boundaryLevel := og.mlp.GetHighestDifferentLevel(tail, e.GetHead())
		for l := 0; l < int(boundaryLevel); l++ {
			isExit[l][tail] = true
			isEntry[l][e.GetHead()] = true
		}
	})

	og.cellMapping = make([]map[Pv]*Cell, numLevels)
	levelInfo := og.mlp.GetLevelInfo()
	cellOffset := uint32(0)
	overlayIdOffset := uint32(0)
	for l := 0; l < numLevels; l++ {
		cells := make(map[Pv]*Cell)
		for v := 0; v < n; v++ {
			if !isEntry[l][v] && !isExit[l][v] {
				continue
			}
			cellNumber := levelInfo.TruncateToLevel(og.mlp.GetCellNumber(NodeID(v)), uint8(l+1))
			cell, ok := cells[cellNumber]
			if !ok {
				cell = &Cell{}
				cells[cellNumber] = cell
			}
			if isEntry[l][v] {
				og.entryPoint[l][v] = cell.numEntryPoints
				cell.numEntryPoints++
			}
			if isExit[l][v] {
				og.exitPoint[l][v] = cell.numExitPoints
				cell.numExitPoints++
			}
		}

		// stable layout of W regardless of map iteration order
		keys := make([]Pv, 0, len(cells))
		for k := range cells {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			cell := cells[k]
			cell.cellOffset = cellOffset
			cell.overlayIdOffset = overlayIdOffset
			cellOffset += cell.numEntryPoints * cell.numExitPoints
			overlayIdOffset += cell.numEntryPoints + cell.numExitPoints
		}
		og.cellMapping[l] = cells
	}

	og.overlayIdMapping = make([]NodeID, overlayIdOffset)
	for l := 0; l < numLevels; l++ {
		for v := 0; v < n; v++ {
			if og.entryPoint[l][v] == INVALID_POINT && og.exitPoint[l][v] == INVALID_POINT {
				continue
			}
			cell := og.GetCell(uint8(l+1), NodeID(v))
			if i := og.entryPoint[l][v]; i != INVALID_POINT {
				og.overlayIdMapping[cell.overlayIdOffset+i] = NodeID(v)
			}
			if j := og.exitPoint[l][v]; j != INVALID_POINT {
				og.overlayIdMapping[cell.overlayIdOffset+cell.numEntryPoints+j] = NodeID(v)
			}
		}
	}
	og.weightVectorSize = cellOffset
}

func (og *OverlayGraph) GetPartition() *MultilevelPartition {
	return og.mlp
}

func (og *OverlayGraph) GetLevelInfo() *LevelInfo {
	return og.mlp.GetLevelInfo()
}

func (og *OverlayGraph) GetNumberOfLevels() int {
	return len(og.cellMapping)
}

func (og *OverlayGraph) GetAllCellsInLevel(l uint8) map[Pv]*Cell {
	return og.cellMapping[l-1]
}

func (og *OverlayGraph) GetWeightVectorSize() uint32 {
	return og.weightVectorSize
}

// GetCell level l cell containing v, nil when the cell has no boundary nodes.
func (og *OverlayGraph) GetCell(l uint8, v NodeID) *Cell {
	cellNumber := og.mlp.GetLevelInfo().TruncateToLevel(og.mlp.GetCellNumber(v), l)
	return og.cellMapping[l-1][cellNumber]
}

// GetCellByNumber cell with the truncated cell number on level l.
func (og *OverlayGraph) GetCellByNumber(l uint8, cellNumber Pv) *Cell {
	return og.cellMapping[l-1][cellNumber]
}

func (og *OverlayGraph) GetEntryPoint(cell *Cell, i uint32) NodeID {
	return og.overlayIdMapping[cell.overlayIdOffset+i]
}

func (og *OverlayGraph) GetExitPoint(cell *Cell, j uint32) NodeID {
	return og.overlayIdMapping[cell.overlayIdOffset+cell.numEntryPoints+j]
}

// EntryIndex index of v among the entry points of its level l cell.
func (og *OverlayGraph) EntryIndex(l uint8, v NodeID) (uint32, bool) {
	i := og.entryPoint[l-1][v]
	return i, i != INVALID_POINT
}

// ExitIndex index of v among the exit points of its level l cell.
func (og *OverlayGraph) ExitIndex(l uint8, v NodeID) (uint32, bool) {
	j := og.exitPoint[l-1][v]
	return j, j != INVALID_POINT
}

func (og *OverlayGraph) NumberOfOverlayVertices(l uint8) int {
	count := 0
	for _, cell := range og.cellMapping[l-1] {
		count += int(cell.numEntryPoints + cell.numExitPoints)
	}
	return count
}
