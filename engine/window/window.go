package window

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ClientAPI selects the graphics API the window's surface is created for.
type ClientAPI int

const (
	// ClientAPIOpenGL creates an OpenGL 4.3 core context and makes it current.
	ClientAPIOpenGL ClientAPI = iota

	// ClientAPINone creates no context; WebGPU creates its own surface from the window.
	ClientAPINone
)

// Window provides a presentation surface and a non-blocking input event stream.
type Window interface {
	// PollEvents processes pending platform events without blocking and queues the input
	// events they produce.
	PollEvents()

	// NextEvent pops the oldest queued event.
	//
	// Returns:
	//   - Event: the event
	//   - bool: false when the queue is empty
	NextEvent() (Event, bool)

	// SwapBuffers displays the finished OpenGL frame. It is a no-op for ClientAPINone.
	SwapBuffers()

	// SurfaceDescriptor describes the native window to the WebGPU backend so it can create a surface.
	// Windows without a native handle (scripted, closed) return nil.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Close destroys the native window. Closing twice is not an error.
	Close() error

	// Width and Height report the framebuffer size in pixels, which is also the render target size.
	Width() int
	Height() int
}

// engineWindow is the Window opened by NewWindow.
type engineWindow struct {
	title string

	// requested size before creation, framebuffer size after
	width  int
	height int

	api          ClientAPI
	debugContext bool

	// *glfwWindow once created
	internalWindow any

	queue eventQueue
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a GLFW window. It must be called from the main goroutine, which
// then owns the window and any OpenGL context for the rest of the program.
//
// Without options it opens a 900x700 window titled "Game" with an OpenGL context.
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:  "Game",
		width:  900,
		height: 700,
		api:    ClientAPIOpenGL,
	}
	for _, opt := range options {
		opt(w)
	}
	if w.width <= 0 || w.height <= 0 {
		return nil, fmt.Errorf("window: invalid size %dx%d", w.width, w.height)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *engineWindow) PollEvents() {
	platformPollEvents(w)
}

func (w *engineWindow) NextEvent() (Event, bool) {
	return w.queue.pop()
}

func (w *engineWindow) SwapBuffers() {
	platformSwapBuffers(w)
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
