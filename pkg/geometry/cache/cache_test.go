package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/iracelog-trackreplay/pkg/model"
)

func samplePath() []model.Vec3 {
	return []model.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}
}

func TestKeyOf(t *testing.T) {
	a := KeyOf(samplePath(), 0.1)
	assert.Equal(t, a, KeyOf(samplePath(), 0.1), "equal content gives equal keys")
	assert.NotEqual(t, a, KeyOf(samplePath(), 0.2))

	other := samplePath()
	other[1][2] = 0.5
	assert.NotEqual(t, a.Hash, KeyOf(other, 0.1).Hash)
}

func TestGeometryCache_Memoizes(t *testing.T) {
	ctx := context.Background()
	c := New()

	r1, err := c.Get(ctx, samplePath(), 0.1)
	require.NoError(t, err)
	assert.Len(t, r1.Mesh.Vertices, 6)

	r2, err := c.Get(ctx, samplePath(), 0.1)
	require.NoError(t, err)
	assert.Same(t, r1, r2)
	assert.Equal(t, 1, c.Version())
}

func TestGeometryCache_NewPathInvalidates(t *testing.T) {
	ctx := context.Background()
	c := New()

	r1, err := c.Get(ctx, samplePath(), 0.1)
	require.NoError(t, err)

	other := append(samplePath(), model.Vec3{3, 0, 1})
	r2, err := c.Get(ctx, other, 0.1)
	require.NoError(t, err)
	assert.Len(t, r2.Center, 4)
	assert.Equal(t, 2, c.Version())

	// switching back rebuilds since the previous geometry was dropped
	r3, err := c.Get(ctx, samplePath(), 0.1)
	require.NoError(t, err)
	assert.NotSame(t, r1, r3)
	assert.Equal(t, 3, c.Version())
}

func TestGeometryCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	c := New()
	_, err := c.Get(ctx, samplePath(), 0.1)
	require.NoError(t, err)
	c.Invalidate(ctx)
	_, err = c.Get(ctx, samplePath(), 0.1)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Version())
}

func TestGeometryCache_EmptyPath(t *testing.T) {
	r, err := New().Get(context.Background(), nil, 0.1)
	require.NoError(t, err)
	assert.True(t, r.Empty())
}
