package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow is the native half of an engineWindow.
type glfwWindow struct {
	window *glfw.Window

	// lastX and lastY are the previous cursor position, used to turn absolute positions into deltas.
	lastX, lastY float64

	closed bool
}

// newPlatformWindow opens a fixed-size GLFW window and translates its callbacks into queued Events.
// For ClientAPIOpenGL the 4.3 core context is made current on the calling thread.
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("window: glfw init: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	switch w.api {
	case ClientAPINone:
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	default:
		glfw.WindowHint(glfw.ContextVersionMajor, 4)
		glfw.WindowHint(glfw.ContextVersionMinor, 3)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
		if w.debugContext {
			glfw.WindowHint(glfw.OpenGLDebugContext, glfw.True)
		}
	}

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("window: create %dx%d: %w", w.width, w.height, err)
	}

	if w.api == ClientAPIOpenGL {
		win.MakeContextCurrent()
		// Frame pacing comes from the engine, not from vsync.
		glfw.SwapInterval(0)
	}

	gw := &glfwWindow{window: win}
	gw.lastX, gw.lastY = win.GetCursorPos()
	w.internalWindow = gw

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.queue.push(QuitEvent{})
			return
		}
		switch action {
		case glfw.Press, glfw.Repeat:
			if key != glfw.KeyUnknown {
				w.queue.push(KeyDownEvent{Key: uint32(key)})
			}
		}
	})

	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		switch action {
		case glfw.Press:
			w.queue.push(PointerButtonDownEvent{Button: int(button)})
		case glfw.Release:
			w.queue.push(PointerButtonUpEvent{Button: int(button)})
		}
	})

	// GLFW reports absolute cursor positions; the engine wants deltas.
	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		dx, dy := xpos-gw.lastX, ypos-gw.lastY
		gw.lastX, gw.lastY = xpos, ypos
		if dx != 0 || dy != 0 {
			w.queue.push(PointerMotionEvent{DX: float32(dx), DY: float32(dy)})
		}
	})

	win.SetCloseCallback(func(_ *glfw.Window) {
		w.queue.push(QuitEvent{})
	})

	// On high-DPI displays the framebuffer is larger than the requested window size.
	w.width, w.height = win.GetFramebufferSize()

	return nil
}

func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok || gw.closed {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

// Callbacks, and therefore queue pushes, run inside glfw.PollEvents.
func platformPollEvents(w *engineWindow) {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok || gw.closed {
		return
	}
	glfw.PollEvents()
}

func platformSwapBuffers(w *engineWindow) {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok || gw.closed || w.api != ClientAPIOpenGL {
		return
	}
	gw.window.SwapBuffers()
}

// platformCloseWindow destroys the window and terminates GLFW once.
func platformCloseWindow(w *engineWindow) error {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok {
		return fmt.Errorf("window: close before create")
	}
	if gw.closed {
		return nil
	}
	gw.closed = true
	gw.window.Destroy()
	glfw.Terminate()
	return nil
}
