package renderer

import "fmt"

// RenderTarget is the image the compute pass writes and the presentation pass samples.
// It is created once at the surface size and never resized. It tracks whether compute writes are
// pending without a memory barrier, so a sample of unsynchronized pixels is refused instead of
// showing stale data.
type RenderTarget struct {
	image         Image
	width         int
	height        int
	pendingWrites bool
	released      bool
}

// NewRenderTarget allocates an RGBA32F image clamped to edge, minified linearly and magnified
// with nearest filtering.
//
// Parameters:
//   - backend: the backend that owns the image
//   - width: width in pixels
//   - height: height in pixels
//
// Returns:
//   - *RenderTarget: the target, owning its image
//   - error: ErrInvalidSize or the backend's allocation error
func NewRenderTarget(backend Backend, width, height int) (*RenderTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: render target %dx%d", ErrInvalidSize, width, height)
	}

	img, err := backend.CreateImage(ImageDescriptor{
		Label:     "render target",
		Width:     width,
		Height:    height,
		Format:    FormatRGBA32F,
		Wrap:      WrapClampToEdge,
		MinFilter: FilterLinear,
		MagFilter: FilterNearest,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: creating render target: %w", err)
	}

	return &RenderTarget{
		image:  img,
		width:  width,
		height: height,
	}, nil
}

// Image returns the native image. It stays valid until Release.
func (t *RenderTarget) Image() Image {
	return t.image
}

// Width returns the image width in pixels.
func (t *RenderTarget) Width() int {
	return t.width
}

// Height returns the image height in pixels.
func (t *RenderTarget) Height() int {
	return t.height
}

// Synchronized reports whether every compute write so far is covered by a memory barrier.
func (t *RenderTarget) Synchronized() bool {
	return !t.pendingWrites
}

// Released reports whether Release has been called.
func (t *RenderTarget) Released() bool {
	return t.released
}

func (t *RenderTarget) markWritten() {
	t.pendingWrites = true
}

func (t *RenderTarget) markSynchronized() {
	t.pendingWrites = false
}

// Release frees the image. Later calls are no-ops.
func (t *RenderTarget) Release() {
	if t.released {
		return
	}
	t.released = true
	t.image.Release()
}
