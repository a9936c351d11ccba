package renderer

// MarkWritten flags pending compute writes on t without a barrier.
func MarkWritten(t *RenderTarget) {
	t.markWritten()
}
