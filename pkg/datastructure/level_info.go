package datastructure

// Pv bit packed cell numbers of one vertex on every level, lowest level in the lowest bits.
type Pv uint64

type LevelInfo struct {
	offset []uint8 // offset of each level in the bitpacked cell numbers, len = levels + 1
}

func NewLevelInfo(offset []uint8) *LevelInfo {
	return &LevelInfo{offset: offset}
}

// GetCellNumberOnLevel cell id on level l (1 based).
func (li *LevelInfo) GetCellNumberOnLevel(l uint8, cellNumber Pv) uint32 {
	width := li.offset[l] - li.offset[l-1]
	return uint32((cellNumber >> Pv(li.offset[l-1])) & ^(^Pv(0) << Pv(width)))
}

// GetHighestDifferingLevel. get the highest level where two cell numbers differ, 0 when they share every cell.
func (li *LevelInfo) GetHighestDifferingLevel(c1, c2 Pv) uint8 {
	diff := c1 ^ c2
	if diff == 0 {
		return 0
	}

	for l := len(li.offset) - 1; l > 0; l-- {
		if diff>>Pv(li.offset[l-1]) > 0 {
			return uint8(l)
		}
	}
	return 0
}

// TruncateToLevel drops the bits below level, the result identifies the level cell globally.
func (li *LevelInfo) TruncateToLevel(cellNumber Pv, level uint8) Pv {
	return cellNumber >> Pv(li.offset[level-1])
}

func (li *LevelInfo) GetLevelCount() int {
	return len(li.offset) - 1
}

func (li *LevelInfo) GetOffsets() []uint8 {
	return li.offset
}
