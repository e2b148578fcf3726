package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, InfoLevel)
	l.Debug("hidden")
	l.Info("shown", String("key", "value"))
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)

	buf.Reset()
	l.SetLevel(DebugLevel)
	l.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestWithFilter(t *testing.T) {
	var buf bytes.Buffer
	filter, err := WithFilter("debug:replay info:*")
	require.NoError(t, err)
	l := New(&buf, DebugLevel, filter)

	l.Named("replay").Debug("replay debug")
	l.Named("track").Debug("track debug")
	l.Named("track").Info("track info")

	out := buf.String()
	assert.Contains(t, out, "replay debug")
	assert.NotContains(t, out, "track debug")
	assert.Contains(t, out, "track info")
}

func TestWithFilter_Invalid(t *testing.T) {
	_, err := WithFilter("unknownlevel:*")
	assert.Error(t, err)
}

func TestContext(t *testing.T) {
	l := New(&bytes.Buffer{}, InfoLevel)
	ctx := AddToContext(context.Background(), l)
	assert.Same(t, l, GetFromContext(ctx))
	assert.Same(t, Default(), GetFromContext(context.Background()))
}

func TestResetDefault(t *testing.T) {
	prev := Default()
	defer ResetDefault(prev)

	var buf bytes.Buffer
	ResetDefault(New(&buf, InfoLevel))
	Info("via package function")
	assert.Contains(t, buf.String(), "via package function")
}
