package track

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/mpapenbr/iracelog-trackreplay/log"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/model"
)

const (
	// DefaultCloseEpsilon is the ground distance below which first and last
	// centerline points are treated as the same point.
	DefaultCloseEpsilon = 0.01
	// lengths below this count as zero
	epsilon = 1e-9
)

// DefaultNormal is used when no normal can be derived from the path.
var DefaultNormal = model.Vec3{0, 0, 1}

// Result holds the derived track geometry.
// Center, Inner and Outer share the same length.
type Result struct {
	Center []model.Vec3
	Inner  []model.Vec3
	Outer  []model.Vec3
	Mesh   model.Mesh
	Closed bool
}

// Empty reports whether there is nothing to render.
func (r *Result) Empty() bool {
	return len(r.Center) < 2
}

func (r *Result) Boundaries() []model.BoundaryPair {
	ret := make([]model.BoundaryPair, len(r.Inner))
	for i := range r.Inner {
		ret[i] = model.BoundaryPair{Inner: r.Inner[i], Outer: r.Outer[i]}
	}
	return ret
}

type (
	Option  func(*builder)
	builder struct {
		closeEps float64
		l        *log.Logger
	}
)

func WithCloseEpsilon(eps float64) Option {
	return func(b *builder) {
		b.closeEps = eps
	}
}

func WithLogger(l *log.Logger) Option {
	return func(b *builder) {
		b.l = l
	}
}

// Build computes the boundaries and the strip mesh of a track of the given
// width along path. Invalid points are skipped, degenerate directions are
// resolved by fallbacks. Build never fails; less than two usable points
// yield an empty result.
func Build(path []model.Vec3, width float64, opts ...Option) Result {
	b := &builder{
		closeEps: DefaultCloseEpsilon,
		l:        log.Default().Named("track"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b.build(path, width)
}

func (b *builder) build(path []model.Vec3, width float64) Result {
	center := make([]model.Vec3, 0, len(path))
	for _, p := range path {
		if model.IsFinite(p) {
			center = append(center, model.Flatten(p))
		}
	}
	if skipped := len(path) - len(center); skipped > 0 {
		b.l.Debug("skipped invalid points",
			log.Int("skipped", skipped),
			log.NamedError("reason", model.ErrMalformedInput))
	}
	if len(center) < 2 {
		b.l.Debug("not enough points",
			log.Int("valid", len(center)),
			log.NamedError("reason", model.ErrInsufficientData))
		return Result{}
	}

	closed := model.GroundDistSqr(center[0], center[len(center)-1]) < b.closeEps*b.closeEps
	half := width / 2
	ret := Result{
		Center: center,
		Inner:  make([]model.Vec3, len(center)),
		Outer:  make([]model.Vec3, len(center)),
		Closed: closed,
	}
	nc := normalCalc{}
	for i, curr := range center {
		d1, d2 := directions(center, i, closed)
		n := nc.next(d1, d2)
		inner := curr.Sub(n.Mul(half))
		outer := curr.Add(n.Mul(half))
		if !model.IsFinite(inner) || !model.IsFinite(outer) {
			inner, outer = curr, curr
		}
		ret.Inner[i] = inner
		ret.Outer[i] = outer
	}
	if nc.fallbacks > 0 {
		b.l.Debug("resolved degenerate directions",
			log.Int("count", nc.fallbacks),
			log.NamedError("reason", model.ErrDegenerateGeometry))
	}
	ret.Mesh = triangulate(ret.Inner, ret.Outer, closed)
	return ret
}

// directions returns the incoming and outgoing direction at index i.
// Closed paths wrap around, skipping the duplicated end point. The end
// points of open paths only have one direction which is used for both.
func directions(pts []model.Vec3, i int, closed bool) (d1, d2 model.Vec3) {
	last := len(pts) - 1
	curr := pts[i]
	hasPrev, hasNext := true, true
	var prev, next model.Vec3
	switch {
	case i > 0:
		prev = pts[i-1]
	case closed:
		prev = pts[last-1]
	default:
		hasPrev = false
	}
	switch {
	case i < last:
		next = pts[i+1]
	case closed:
		next = pts[1]
	default:
		hasNext = false
	}
	switch {
	case hasPrev && hasNext:
		return curr.Sub(prev), next.Sub(curr)
	case hasPrev:
		d := curr.Sub(prev)
		return d, d
	default:
		d := next.Sub(curr)
		return d, d
	}
}

type normalCase int

const (
	caseTangent normalCase = iota
	caseDegenerate
	caseOpposing
)

// normalCalc derives the offset normal per centerline point. lastGood is
// the most recent normal computed from real directions.
type normalCalc struct {
	lastGood  *model.Vec3
	fallbacks int
}

func classify(d1, d2 model.Vec3) normalCase {
	if d1.Len() < epsilon || d2.Len() < epsilon {
		return caseDegenerate
	}
	if d1.Normalize().Add(d2.Normalize()).Len() < epsilon {
		return caseOpposing
	}
	return caseTangent
}

func (nc *normalCalc) next(d1, d2 model.Vec3) model.Vec3 {
	var n model.Vec3
	var ok bool
	switch classify(d1, d2) {
	case caseDegenerate:
		if nc.lastGood != nil {
			nc.fallbacks++
			return *nc.lastGood
		}
	case caseOpposing:
		n, ok = perpendicular(d1)
	case caseTangent:
		n, ok = perpendicular(d1.Normalize().Add(d2.Normalize()))
	}
	if !ok {
		nc.fallbacks++
		return DefaultNormal
	}
	nc.lastGood = &n
	return n
}

// perpendicular rotates d by 90 degrees within the ground plane.
func perpendicular(d model.Vec3) (model.Vec3, bool) {
	n := model.Vec3{d.Z(), 0, -d.X()}
	l := n.Len()
	if l < epsilon || !model.IsFinite(n) {
		return model.Vec3{}, false
	}
	return n.Mul(1 / l), true
}

func triangulate(inner, outer []model.Vec3, closed bool) model.Mesh {
	n := len(inner)
	m := model.Mesh{
		Vertices: make([]model.Vec3, 0, 2*n),
		Indices:  make([]uint32, 0, 6*n),
	}
	for i := range n {
		m.Vertices = append(m.Vertices, inner[i], outer[i])
	}
	quad := func(a, b int) {
		ia, oa := uint32(2*a), uint32(2*a+1)
		ib, ob := uint32(2*b), uint32(2*b+1)
		m.Indices = append(m.Indices,
			ia, oa, ib,
			oa, ob, ib)
	}
	for i := 0; i < n-1; i++ {
		quad(i, i+1)
	}
	if closed {
		quad(n-1, 0)
	}
	m.Normals = vertexNormals(m.Vertices, m.Indices)
	return m
}

// vertexNormals averages the face normals of all triangles sharing a vertex.
func vertexNormals(vertices []model.Vec3, indices []uint32) []model.Vec3 {
	acc := make([]model.Vec3, len(vertices))
	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := indices[t], indices[t+1], indices[t+2]
		face := vertices[b].Sub(vertices[a]).Cross(vertices[c].Sub(vertices[a]))
		if !model.IsFinite(face) {
			continue
		}
		acc[a] = acc[a].Add(face)
		acc[b] = acc[b].Add(face)
		acc[c] = acc[c].Add(face)
	}
	up := mgl64.Vec3{0, 1, 0}
	for i, n := range acc {
		if n.Len() < epsilon {
			acc[i] = up
			continue
		}
		acc[i] = n.Normalize()
	}
	return acc
}
