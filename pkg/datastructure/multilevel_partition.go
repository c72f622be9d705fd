package datastructure

import (
	"bufio"
	"fmt"
	"math/bits"
	"os"

	"github.com/lintang-b-s/navcore/pkg/util"
)

// MultilevelPartition. store every cell information of each vertex on every level.
// level 1 is the finest level, level GetNumberOfLevels() the coarsest. every cell of level l lies
// entirely inside one cell of level l+1.
type MultilevelPartition struct {
	numCells    []uint32
	pvOffset    []uint8
	cellNumbers []Pv
	levelInfo   *LevelInfo
}

func NewPlainMLP() *MultilevelPartition {
	return &MultilevelPartition{}
}

// NewMultilevelPartition from per level cell assignments, cells[l][v] is the cell of v on level l+1.
func NewMultilevelPartition(cells [][]uint32) (*MultilevelPartition, error) {
	if len(cells) == 0 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "partition has no levels")
	}
	mp := NewPlainMLP()
	mp.SetNumberOflevels(len(cells))
	mp.SetNumberOfVertices(len(cells[0]))
	for l, assignment := range cells {
		if len(assignment) != len(cells[0]) {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
				"level %d assigns %d vertices, expected %d", l+1, len(assignment), len(cells[0]))
		}
		maxCell := uint32(0)
		for _, c := range assignment {
			maxCell = max(maxCell, c)
		}
		mp.SetNumberOfCellsInLevel(l, int(maxCell)+1)
	}
	mp.ComputeBitmap()
	for l, assignment := range cells {
		for v, c := range assignment {
			mp.setCell(l, v, c)
		}
	}
	if err := mp.Validate(); err != nil {
		return nil, err
	}
	return mp, nil
}

func (mp *MultilevelPartition) SetNumberOflevels(numLevels int) {
	mp.numCells = make([]uint32, numLevels)
}

func (mp *MultilevelPartition) SetNumberOfVertices(numVertices int) {
	mp.cellNumbers = make([]Pv, numVertices)
}

func (mp *MultilevelPartition) SetNumberOfCellsInLevel(level int, numCells int) {
	mp.numCells[level] = uint32(numCells)
}

func bitsFor(numCells uint32) uint8 {
	if numCells <= 1 {
		return 0
	}
	return uint8(bits.Len32(numCells - 1))
}

func (mp *MultilevelPartition) ComputeBitmap() {
	mp.pvOffset = make([]uint8, len(mp.numCells)+1)
	for i := 0; i < len(mp.numCells); i++ {
		mp.pvOffset[i+1] = mp.pvOffset[i] + bitsFor(mp.numCells[i])
	}
	mp.levelInfo = NewLevelInfo(mp.pvOffset)
}

func (mp *MultilevelPartition) setCell(level int, vertexId int, cellId uint32) {
	mp.cellNumbers[vertexId] |= Pv(cellId) << mp.pvOffset[level]
}

// GetCell cell of v on level (1 based).
func (mp *MultilevelPartition) GetCell(level uint8, v NodeID) uint32 {
	return mp.levelInfo.GetCellNumberOnLevel(level, mp.cellNumbers[v])
}

// GetHighestDifferentLevel highest level on which u and v sit in different cells, 0 if none.
func (mp *MultilevelPartition) GetHighestDifferentLevel(u, v NodeID) uint8 {
	return mp.levelInfo.GetHighestDifferingLevel(mp.cellNumbers[u], mp.cellNumbers[v])
}

func (mp *MultilevelPartition) GetNumberOfVertices() int {
	return len(mp.cellNumbers)
}

func (mp *MultilevelPartition) GetNumberOfLevels() int {
	return len(mp.numCells)
}

func (mp *MultilevelPartition) GetNumberOfCellsInLevel(level uint8) int {
	return int(mp.numCells[level-1])
}

func (mp *MultilevelPartition) GetPVOffsets() []uint8 {
	return mp.pvOffset
}

func (mp *MultilevelPartition) GetLevelInfo() *LevelInfo {
	return mp.levelInfo
}

func (mp *MultilevelPartition) GetCellNumber(u NodeID) Pv {
	return mp.cellNumbers[u]
}

// Validate checks that the bit layout fits and that every level refines the level above it.
func (mp *MultilevelPartition) Validate() error {
	if len(mp.pvOffset) > 0 && mp.pvOffset[len(mp.pvOffset)-1] > 64 {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "partition needs %d bits per vertex",
			mp.pvOffset[len(mp.pvOffset)-1])
	}
	for l := uint8(1); int(l) < mp.GetNumberOfLevels(); l++ {
		parent := make(map[uint32]uint32, mp.GetNumberOfCellsInLevel(l))
		for v := range mp.cellNumbers {
			cell := mp.GetCell(l, NodeID(v))
			upper := mp.GetCell(l+1, NodeID(v))
			if p, ok := parent[cell]; ok && p != upper {
				return util.WrapErrorf(nil, util.ErrBadParamInput,
					"cell %d on level %d is split between cells %d and %d on level %d", cell, l, p, upper, l+1)
			}
			parent[cell] = upper
		}
	}
	return nil
}

// WriteMlpFile. number of levels, cells per level, number of vertices, one packed cell number per vertex.
func (mp *MultilevelPartition) WriteMlpFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%d\n", len(mp.numCells))
	for _, n := range mp.numCells {
		fmt.Fprintf(w, "%d\n", n)
	}
	fmt.Fprintf(w, "%d\n", len(mp.cellNumbers))
	for _, c := range mp.cellNumbers {
		fmt.Fprintf(w, "%d\n", c)
	}
	return w.Flush()
}

func (mp *MultilevelPartition) ReadMlpFile(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	next := func(dst any) error {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return util.WrapErrorf(nil, util.ErrBadParamInput, "unexpected end of mlp file %s", filename)
		}
		_, err := fmt.Sscanf(scanner.Text(), "%d", dst)
		return err
	}

	var numLevels int
	if err := next(&numLevels); err != nil {
		return err
	}
	mp.SetNumberOflevels(numLevels)
	for i := 0; i < numLevels; i++ {
		if err := next(&mp.numCells[i]); err != nil {
			return err
		}
	}
	mp.ComputeBitmap()

	var numVertices int
	if err := next(&numVertices); err != nil {
		return err
	}
	mp.SetNumberOfVertices(numVertices)
	for i := 0; i < numVertices; i++ {
		if err := next(&mp.cellNumbers[i]); err != nil {
			return err
		}
	}
	return mp.Validate()
}
