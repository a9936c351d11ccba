package window

// WindowBuilderOption configures an engineWindow before the platform window is created.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the title bar text.
//
// Parameters:
//   - title: the text shown in the title bar
//
// Returns:
//   - WindowBuilderOption: the option
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithWidth sets the requested width in screen coordinates. The window cannot be resized.
func WithWidth(width int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
	}
}

// WithHeight sets the requested height in screen coordinates. The window cannot be resized.
func WithHeight(height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.height = height
	}
}

// WithClientAPI chooses between an OpenGL context and a bare window for WebGPU.
//
// Parameters:
//   - api: ClientAPIOpenGL (default) or ClientAPINone
//
// Returns:
//   - WindowBuilderOption: the option
func WithClientAPI(api ClientAPI) WindowBuilderOption {
	return func(w *engineWindow) {
		w.api = api
	}
}

// WithDebugContext asks the driver for a debug context so KHR_debug messages are delivered.
// It has no effect with ClientAPINone.
func WithDebugContext(debug bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.debugContext = debug
	}
}
