package datastructure

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/lintang-b-s/navcore/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultilevelPartitionCells(t *testing.T) {
	// 8 vertices, 4 cells on level 1, 2 cells on level 2
	mp, err := NewMultilevelPartition([][]uint32{
		{0, 0, 1, 1, 2, 2, 3, 3},
		{0, 0, 0, 0, 1, 1, 1, 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, mp.GetNumberOfLevels())
	assert.Equal(t, 4, mp.GetNumberOfCellsInLevel(1))
	assert.Equal(t, 2, mp.GetNumberOfCellsInLevel(2))
	assert.Equal(t, []uint8{0, 2, 3}, mp.GetPVOffsets())

	testCases := []struct {
		name  string
		u, v  NodeID
		level uint8
	}{
		{"same cell everywhere", 0, 1, 0},
		{"different level one cell", 0, 2, 1},
		{"different level two cell", 0, 7, 2},
		{"symmetric", 7, 0, 2},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.level, mp.GetHighestDifferentLevel(tt.u, tt.v))
		})
	}

	assert.Equal(t, uint32(3), mp.GetCell(1, 6))
	assert.Equal(t, uint32(1), mp.GetCell(2, 6))
}

func TestMultilevelPartitionRejectsUnnestedLevels(t *testing.T) {
	_, err := NewMultilevelPartition([][]uint32{
		{0, 0, 1, 1},
		{0, 1, 1, 1},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrBadParamInput))
}

func TestMlpFileRoundTrip(t *testing.T) {
	mp, err := NewMultilevelPartition([][]uint32{
		{0, 1, 2, 3, 4},
		{0, 0, 1, 1, 1},
		{0, 0, 0, 0, 0},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "graph.mlp")
	require.NoError(t, mp.WriteMlpFile(path))

	read := NewPlainMLP()
	require.NoError(t, read.ReadMlpFile(path))
	assert.Equal(t, mp.GetPVOffsets(), read.GetPVOffsets())
	for v := NodeID(0); v < 5; v++ {
		assert.Equal(t, mp.GetCellNumber(v), read.GetCellNumber(v))
	}
	assert.Equal(t, uint8(2), read.GetHighestDifferentLevel(0, 4))
	assert.Equal(t, uint8(1), read.GetHighestDifferentLevel(2, 4))
}
