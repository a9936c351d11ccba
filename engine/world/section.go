package world

import "fmt"

// SectionSize is the edge length of a cubic section.
const SectionSize = 16

// SectionVolume is the number of cells in one section.
const SectionVolume = SectionSize * SectionSize * SectionSize

// BlockID identifies a block type. Air is the zero value.
type BlockID int32

// Air is the empty block.
const Air BlockID = 0

// Section is a 16x16x16 block grid stored as indices into a palette of distinct block types.
// Palette[0] is always Air so a zeroed index array is an empty section.
type Section struct {
	BlockCount uint16
	Palette    []BlockID
	Indices    [SectionVolume]uint16
}

// NewSection returns an empty section whose palette holds only Air.
func NewSection() *Section {
	return &Section{Palette: []BlockID{Air}}
}

func cellIndex(x, y, z int) (int, error) {
	if x < 0 || y < 0 || z < 0 || x >= SectionSize || y >= SectionSize || z >= SectionSize {
		return 0, fmt.Errorf("%w: (%d, %d, %d)", ErrOutOfBounds, x, y, z)
	}
	return (y*SectionSize+z)*SectionSize + x, nil
}

// Get returns the block at section-local coordinates.
func (s *Section) Get(x, y, z int) (BlockID, error) {
	i, err := cellIndex(x, y, z)
	if err != nil {
		return Air, err
	}
	return s.Palette[s.Indices[i]], nil
}

// Set writes a block at section-local coordinates, growing the palette for unseen block types
// and keeping BlockCount equal to the number of non-air cells.
func (s *Section) Set(x, y, z int, id BlockID) error {
	i, err := cellIndex(x, y, z)
	if err != nil {
		return err
	}

	prev := s.Palette[s.Indices[i]]
	if prev == id {
		return nil
	}

	s.Indices[i] = s.paletteIndex(id)
	switch {
	case prev == Air:
		s.BlockCount++
	case id == Air:
		s.BlockCount--
	}
	return nil
}

// Empty reports whether the section has no solid blocks.
func (s *Section) Empty() bool {
	return s.BlockCount == 0
}

func (s *Section) paletteIndex(id BlockID) uint16 {
	for i, p := range s.Palette {
		if p == id {
			return uint16(i)
		}
	}
	s.Palette = append(s.Palette, id)
	return uint16(len(s.Palette) - 1)
}
