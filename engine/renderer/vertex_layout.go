package renderer

import "fmt"

// VertexLayout describes interleaved float vertex attributes.
type VertexLayout struct {
	// Sizes is the component count of each attribute, in location order.
	Sizes []int

	// Offsets is the byte offset of each attribute within a vertex.
	Offsets []int

	// Stride is the byte size of one vertex.
	Stride int

	// VertexCount is the number of whole vertices in the data.
	VertexCount int
}

// NewVertexLayout derives offsets and stride from attribute sizes and checks the data divides evenly.
//
// Parameters:
//   - vertices: interleaved float vertex data
//   - attributeSizes: component count of each attribute, 1 to 4
//
// Returns:
//   - VertexLayout: the layout
//   - error: ErrInvalidLayout if a size is out of range or the data has a partial vertex
func NewVertexLayout(vertices []float32, attributeSizes []int) (VertexLayout, error) {
	if len(attributeSizes) == 0 {
		return VertexLayout{}, fmt.Errorf("%w: no attributes", ErrInvalidLayout)
	}

	l := VertexLayout{
		Sizes:   attributeSizes,
		Offsets: make([]int, len(attributeSizes)),
	}
	components := 0
	for i, size := range attributeSizes {
		if size < 1 || size > 4 {
			return VertexLayout{}, fmt.Errorf("%w: attribute %d has %d components", ErrInvalidLayout, i, size)
		}
		l.Offsets[i] = components * 4
		components += size
	}
	l.Stride = components * 4

	if len(vertices) == 0 || len(vertices)%components != 0 {
		return VertexLayout{}, fmt.Errorf("%w: %d floats is not a multiple of %d per vertex", ErrInvalidLayout, len(vertices), components)
	}
	l.VertexCount = len(vertices) / components
	return l, nil
}

// CheckIndices reports the first index that does not address a vertex.
//
// Parameters:
//   - indices: triangle list indices
//
// Returns:
//   - error: ErrInvalidLayout for an empty, partial or out-of-range index list
func (l VertexLayout) CheckIndices(indices []uint32) error {
	if len(indices) == 0 || len(indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a whole triangle list", ErrInvalidLayout, len(indices))
	}
	for i, idx := range indices {
		if int(idx) >= l.VertexCount {
			return fmt.Errorf("%w: index %d at %d exceeds %d vertices", ErrInvalidLayout, idx, i, l.VertexCount)
		}
	}
	return nil
}
