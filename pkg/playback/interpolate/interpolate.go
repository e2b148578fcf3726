package interpolate

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mpapenbr/iracelog-trackreplay/pkg/model"
)

const (
	// GroundClearance is the default height of entities above the track
	// surface. Sample reports positions on the surface (y=0), the render
	// side adds the clearance.
	GroundClearance = 0.005
	// DefaultThrottleThreshold is the throttle value (0..100) above which an
	// entity counts as accelerating.
	DefaultThrottleThreshold = 50.0
	// DefaultMovementDistance is the ground distance an entity has to cover
	// before it counts as moving.
	DefaultMovementDistance = 1e-3
)

// Result is the state of an entity at a given time.
type Result struct {
	Position model.Vec3
	Throttle float64
	Brake    float64
	Speed    float64
	// Index of the sample the discrete channels were taken from.
	Index int
}

// Sample returns the interpolated state of series at time t.
// ok is false if the series has no samples.
func Sample(series *model.TimeSeries, t float64) (ret Result, ok bool) {
	n := series.Len()
	if n == 0 {
		return Result{}, false
	}
	if t < 0 || math.IsNaN(t) {
		t = 0
	}
	times := series.Times
	// first index with times[i] >= t
	i := sort.SearchFloat64s(times, t)
	if i == n {
		return sampleAt(series, n-1), true
	}
	if i == 0 {
		if t <= times[0] || n == 1 {
			return sampleAt(series, 0), true
		}
		i = 1
	}

	t0, t1 := times[i-1], times[i]
	f := 0.0
	if t1 != t0 {
		f = mgl64.Clamp((t-t0)/(t1-t0), 0, 1)
	}
	p0, p1 := series.Positions[i-1], series.Positions[i]
	ret = sampleAt(series, i)
	ret.Position = model.Vec3{
		lerp(p0.X(), p1.X(), f),
		0,
		lerp(p0.Z(), p1.Z(), f),
	}
	return ret, true
}

func sampleAt(series *model.TimeSeries, i int) Result {
	p := series.Positions[i]
	return Result{
		Position: model.Vec3{p.X(), 0, p.Z()},
		Throttle: series.Throttle[i],
		Brake:    series.Brake[i],
		Speed:    series.Speed[i],
		Index:    i,
	}
}

func lerp(a, b, f float64) float64 {
	return a + (b-a)*f
}

// Classify derives the visual state. Braking wins over throttle.
func Classify(r Result, throttleThreshold float64) model.VisualState {
	switch {
	case r.Brake > 0:
		return model.VisualBraking
	case r.Throttle > throttleThreshold:
		return model.VisualAccelerating
	default:
		return model.VisualNeutral
	}
}

// FirstMovement returns the time of the first sample whose ground distance
// to the first sample exceeds minDist.
func FirstMovement(series *model.TimeSeries, minDist float64) (float64, bool) {
	if series.Len() == 0 {
		return 0, false
	}
	start := series.Positions[0]
	limit := minDist * minDist
	for i, p := range series.Positions {
		if model.GroundDistSqr(p, start) > limit {
			return series.Times[i], true
		}
	}
	return 0, false
}
