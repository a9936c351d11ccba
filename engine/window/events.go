package window

import "fmt"

// Event is one input event drained from a window. The concrete types are QuitEvent, KeyDownEvent,
// PointerButtonDownEvent, PointerButtonUpEvent and PointerMotionEvent.
type Event interface {
	isEvent()
}

// QuitEvent is raised by the window close button and the Escape key.
type QuitEvent struct{}

// KeyDownEvent is a key press or auto-repeat.
type KeyDownEvent struct {
	// Key is the GLFW key code.
	Key uint32
}

// PointerButtonDownEvent is a mouse button press.
type PointerButtonDownEvent struct {
	Button int
}

// PointerButtonUpEvent is a mouse button release.
type PointerButtonUpEvent struct {
	Button int
}

// PointerMotionEvent is a cursor movement in pixels relative to the previous position.
type PointerMotionEvent struct {
	DX, DY float32
}

func (QuitEvent) isEvent()              {}
func (KeyDownEvent) isEvent()           {}
func (PointerButtonDownEvent) isEvent() {}
func (PointerButtonUpEvent) isEvent()   {}
func (PointerMotionEvent) isEvent()     {}

func (QuitEvent) String() string                { return "Quit" }
func (e KeyDownEvent) String() string           { return fmt.Sprintf("KeyDown(%d)", e.Key) }
func (e PointerButtonDownEvent) String() string { return fmt.Sprintf("PointerButtonDown(%d)", e.Button) }
func (e PointerButtonUpEvent) String() string   { return fmt.Sprintf("PointerButtonUp(%d)", e.Button) }
func (e PointerMotionEvent) String() string     { return fmt.Sprintf("PointerMotion(%g, %g)", e.DX, e.DY) }

// eventQueue is a FIFO of events filled by platform callbacks and drained by the frame loop.
type eventQueue struct {
	events []Event
	head   int
}

func (q *eventQueue) push(e Event) {
	q.events = append(q.events, e)
}

// pop returns the oldest event, or false when the queue is empty.
func (q *eventQueue) pop() (Event, bool) {
	if q.head >= len(q.events) {
		q.events = q.events[:0]
		q.head = 0
		return nil, false
	}
	e := q.events[q.head]
	q.events[q.head] = nil
	q.head++
	return e, true
}

func (q *eventQueue) len() int {
	return len(q.events) - q.head
}
