package world

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned for section-local coordinates outside 0..15 and world y outside MinY..MaxY.
var ErrOutOfBounds = errors.New("world: coordinate out of section bounds")

// MinY and MaxY bound the world coordinates reachable through an int8 section index.
const (
	MinY = -128 * SectionSize
	MaxY = 128*SectionSize - 1
)

// ChunkPos addresses a vertical column of sections in chunk units.
type ChunkPos struct {
	X, Z int32
}

// Chunk is a column of sections keyed by their vertical index.
type Chunk struct {
	Sections map[int8]*Section
}

// VoxelSource is the read contract a renderer needs from a scene description.
type VoxelSource interface {
	// VoxelAt returns the block at a world coordinate, Air where nothing is stored.
	//
	// Parameters:
	//   - x, y, z: world block coordinates
	//
	// Returns:
	//   - BlockID: the block type at that cell
	VoxelAt(x, y, z int) BlockID
}

// World is a sparse store of chunks. It is inert: the renderer holds one but does not sample it.
type World struct {
	chunks map[ChunkPos]*Chunk
}

var _ VoxelSource = &World{}

// New returns an empty world.
func New() *World {
	return &World{chunks: make(map[ChunkPos]*Chunk)}
}

// Chunk returns the chunk at pos, or nil.
func (w *World) Chunk(pos ChunkPos) *Chunk {
	return w.chunks[pos]
}

// ChunkCount returns the number of stored chunks.
func (w *World) ChunkCount() int {
	return len(w.chunks)
}

func (w *World) VoxelAt(x, y, z int) BlockID {
	if y < MinY || y > MaxY {
		return Air
	}
	pos, section, lx, ly, lz := split(x, y, z)
	chunk := w.chunks[pos]
	if chunk == nil {
		return Air
	}
	s := chunk.Sections[section]
	if s == nil {
		return Air
	}
	id, _ := s.Get(lx, ly, lz)
	return id
}

// SetVoxel stores a block at a world coordinate, creating the chunk and section on demand.
// Vertical coordinates outside MinY..MaxY are rejected with ErrOutOfBounds.
func (w *World) SetVoxel(x, y, z int, id BlockID) error {
	if y < MinY || y > MaxY {
		return fmt.Errorf("%w: y=%d", ErrOutOfBounds, y)
	}
	pos, section, lx, ly, lz := split(x, y, z)

	chunk := w.chunks[pos]
	if chunk == nil {
		if id == Air {
			return nil
		}
		chunk = &Chunk{Sections: make(map[int8]*Section)}
		w.chunks[pos] = chunk
	}

	s := chunk.Sections[section]
	if s == nil {
		if id == Air {
			return nil
		}
		s = NewSection()
		chunk.Sections[section] = s
	}
	return s.Set(lx, ly, lz, id)
}

// split converts world coordinates into a chunk position, section index and local cell.
func split(x, y, z int) (ChunkPos, int8, int, int, int) {
	cx, lx := floorDiv(x, SectionSize)
	sy, ly := floorDiv(y, SectionSize)
	cz, lz := floorDiv(z, SectionSize)
	return ChunkPos{X: int32(cx), Z: int32(cz)}, int8(sy), lx, ly, lz
}

func floorDiv(v, d int) (int, int) {
	q, r := v/d, v%d
	if r < 0 {
		q--
		r += d
	}
	return q, r
}
