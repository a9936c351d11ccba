package log

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer func() {
		SetSink(os.Stdout)
		SetLevel(Notice)
	}()

	logger := New("test")

	SetLevel(Warning)
	logger.Notice("hidden")
	logger.Warning("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "[test]")

	buf.Reset()
	SetLevel(Debug)
	logger.Debugf("frame %d", 7)
	assert.Contains(t, buf.String(), "frame 7")
}

func TestSetSinkKeepsLevel(t *testing.T) {
	var buf bytes.Buffer
	SetLevel(Error)
	SetSink(&buf)
	defer func() {
		SetSink(os.Stdout)
		SetLevel(Notice)
	}()

	New("test").Warning("dropped")
	assert.Empty(t, buf.String())
}
