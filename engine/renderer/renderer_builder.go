package renderer

// BackendBuilderOption is a functional option applied to a backend during construction via NewBackend.
type BackendBuilderOption func(*backendConfig)

// WithDebugMessages enables the driver's debug message stream.
// On OpenGL this installs a KHR_debug callback that logs every message; WebGPU ignores it.
//
// Parameters:
//   - enabled: true to log driver debug messages
//
// Returns:
//   - BackendBuilderOption: a function that applies the debug option
func WithDebugMessages(enabled bool) BackendBuilderOption {
	return func(c *backendConfig) {
		c.debugMessages = enabled
	}
}

// WithShaderValidation validates WGSL sources with naga before handing them to the driver, so
// errors carry naga's diagnostics instead of a device error. OpenGL ignores it.
//
// Parameters:
//   - enabled: true to validate WGSL before module creation
//
// Returns:
//   - BackendBuilderOption: a function that applies the validation option
func WithShaderValidation(enabled bool) BackendBuilderOption {
	return func(c *backendConfig) {
		c.validateShaders = enabled
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter.
// This requires a software Vulkan ICD to be installed on the system (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter
//
// Returns:
//   - BackendBuilderOption: a function that applies the fallback adapter option
func WithForceSoftwareRenderer(force bool) BackendBuilderOption {
	return func(c *backendConfig) {
		c.forceFallbackAdapter = force
	}
}
