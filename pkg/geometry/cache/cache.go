package cache

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/mpapenbr/iracelog-trackreplay/log"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/geometry/track"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/model"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/utils/cache"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/utils/cache/loadercache"
)

// Key identifies a track geometry by the content of its centerline.
type Key struct {
	Hash  uint64
	Width float64
}

func (k Key) String() string {
	return fmt.Sprintf("%016x/%g", k.Hash, k.Width)
}

// KeyOf computes the key of path and width.
func KeyOf(path []model.Vec3, width float64) Key {
	buf := make([]byte, 0, len(path)*3*8)
	for _, p := range path {
		for _, c := range p {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(c))
		}
	}
	return Key{Hash: xxh3.Hash(buf), Width: width}
}

// GeometryCache memoizes the track geometry of the current centerline.
// Supplying a different centerline drops the geometry of the previous one.
type GeometryCache struct {
	mu       sync.Mutex
	entries  cache.Cache[Key, track.Result]
	current  *Key
	pending  map[Key][]model.Vec3
	builds   int
	buildOps []track.Option
	l        *log.Logger
}

type Option func(*GeometryCache)

func WithBuildOptions(opts ...track.Option) Option {
	return func(c *GeometryCache) {
		c.buildOps = append(c.buildOps, opts...)
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *GeometryCache) {
		c.l = l
	}
}

func New(opts ...Option) *GeometryCache {
	ret := &GeometryCache{
		pending: make(map[Key][]model.Vec3),
		l:       log.Default().Named("geometry.cache"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.entries = loadercache.New(
		loadercache.WithLoader[Key, track.Result](ret.load),
		loadercache.WithLogger[Key, track.Result](ret.l),
	)
	return ret
}

// Get returns the geometry for path, building it only if the content of
// path or width differs from the previous call.
// The returned result is shared and must not be modified.
func (c *GeometryCache) Get(ctx context.Context, path []model.Vec3, width float64) (
	*track.Result, error,
) {
	key := KeyOf(path, width)
	c.mu.Lock()
	prev := c.current
	c.current = &key
	c.pending[key] = path
	c.mu.Unlock()
	if prev != nil && *prev != key {
		c.l.Debug("centerline changed",
			log.Stringer("old", *prev), log.Stringer("new", key))
		c.entries.Invalidate(ctx, *prev)
	}

	defer func() {
		c.mu.Lock()
		delete(c.pending, key)
		c.mu.Unlock()
	}()
	return c.entries.Get(ctx, key)
}

// Invalidate drops the current geometry.
func (c *GeometryCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	prev := c.current
	c.current = nil
	c.mu.Unlock()
	if prev != nil {
		c.entries.Invalidate(ctx, *prev)
	}
}

// Version is incremented each time a geometry is built.
func (c *GeometryCache) Version() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builds
}

func (c *GeometryCache) load(_ context.Context, key Key) (*track.Result, error) {
	c.mu.Lock()
	path, ok := c.pending[key]
	c.mu.Unlock()
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	ret := track.Build(path, key.Width, c.buildOps...)
	c.mu.Lock()
	c.builds++
	c.mu.Unlock()
	if ret.Empty() {
		c.l.Warn("no track rendered", log.Int("points", len(path)))
	} else {
		c.l.Debug("track built",
			log.Int("vertices", len(ret.Mesh.Vertices)),
			log.Int("triangles", ret.Mesh.NumTriangles()),
			log.Bool("closed", ret.Closed))
	}
	return &ret, nil
}
