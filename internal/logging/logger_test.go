package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewText_LevelThreshold(t *testing.T) {
	var buf bytes.Buffer
	l := NewText(&buf, false)
	l.Debug("hidden")
	l.Warn("shown", "path", "/pets")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "path=/pets")

	buf.Reset()
	NewText(&buf, true).Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestSlogAdapter_WithPrependsAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := NewText(&buf, false).With("method", "get")
	l.Warn("skip")
	assert.Contains(t, buf.String(), "method=get")
}

func TestOrNop(t *testing.T) {
	assert.Equal(t, Nop{}, OrNop(nil))
	l := NewText(&bytes.Buffer{}, false)
	assert.Same(t, l, OrNop(l))
}
