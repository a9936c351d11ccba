package window

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ScriptedWindow is a headless Window that replays a fixed list of per-frame events. Each
// PollEvents call queues the next frame's events; once the script is exhausted it queues a
// QuitEvent, so a frame loop driven by it always terminates.
type ScriptedWindow struct {
	width, height int

	frames [][]Event
	next   int

	queue  eventQueue
	swaps  int
	polls  int
	closed bool

	onPoll func()
}

var _ Window = &ScriptedWindow{}

// NewScriptedWindow returns a headless window of the given size that replays frames.
func NewScriptedWindow(width, height int, frames [][]Event) (*ScriptedWindow, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("window: invalid size %dx%d", width, height)
	}
	return &ScriptedWindow{width: width, height: height, frames: frames}, nil
}

// OnPoll installs a hook run at the start of every PollEvents call.
func (w *ScriptedWindow) OnPoll(fn func()) {
	w.onPoll = fn
}

func (w *ScriptedWindow) PollEvents() {
	w.polls++
	if w.onPoll != nil {
		w.onPoll()
	}
	if w.next >= len(w.frames) {
		w.queue.push(QuitEvent{})
		return
	}
	for _, e := range w.frames[w.next] {
		w.queue.push(e)
	}
	w.next++
}

func (w *ScriptedWindow) NextEvent() (Event, bool) {
	return w.queue.pop()
}

func (w *ScriptedWindow) SwapBuffers() {
	w.swaps++
}

// SurfaceDescriptor always returns nil; a scripted window has no native surface.
func (w *ScriptedWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return nil
}

func (w *ScriptedWindow) Close() error {
	w.closed = true
	return nil
}

func (w *ScriptedWindow) Width() int  { return w.width }
func (w *ScriptedWindow) Height() int { return w.height }

// Swaps returns how many times SwapBuffers was called.
func (w *ScriptedWindow) Swaps() int { return w.swaps }

// Polls returns how many times PollEvents was called.
func (w *ScriptedWindow) Polls() int { return w.polls }

// Closed reports whether Close was called.
func (w *ScriptedWindow) Closed() bool { return w.closed }

// Remaining returns the number of scripted frames not yet polled.
func (w *ScriptedWindow) Remaining() int {
	return len(w.frames) - w.next
}
