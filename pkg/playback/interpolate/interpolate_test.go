//nolint:funlen,dupl // ok for tests
package interpolate

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/iracelog-trackreplay/pkg/model"
)

func sampleSeries() *model.TimeSeries {
	return &model.TimeSeries{
		Times: []float64{0, 1, 2},
		Positions: []model.Vec3{
			{0, 0, 0},
			{10, 0, 0},
			{20, 0, 0},
		},
		Throttle: []float64{10, 60, 90},
		Brake:    []float64{1, 0, 0},
		Speed:    []float64{50, 100, 150},
	}
}

func TestSample(t *testing.T) {
	approx := cmpopts.EquateApprox(0, 1e-9)
	tests := []struct {
		name   string
		series *model.TimeSeries
		t      float64
		want   Result
	}{
		{
			name:   "midpoint",
			series: sampleSeries(),
			t:      0.5,
			want: Result{
				Position: model.Vec3{5, 0, 0}, Throttle: 60, Brake: 0, Speed: 100, Index: 1,
			},
		},
		{
			name:   "before start clamps to first sample",
			series: sampleSeries(),
			t:      -3,
			want: Result{
				Position: model.Vec3{0, 0, 0}, Throttle: 10, Brake: 1, Speed: 50, Index: 0,
			},
		},
		{
			name:   "exact start",
			series: sampleSeries(),
			t:      0,
			want: Result{
				Position: model.Vec3{0, 0, 0}, Throttle: 10, Brake: 1, Speed: 50, Index: 0,
			},
		},
		{
			name:   "exact sample time",
			series: sampleSeries(),
			t:      1,
			want: Result{
				Position: model.Vec3{10, 0, 0}, Throttle: 60, Brake: 0, Speed: 100, Index: 1,
			},
		},
		{
			name:   "after end clamps to last sample",
			series: sampleSeries(),
			t:      99,
			want: Result{
				Position: model.Vec3{20, 0, 0}, Throttle: 90, Brake: 0, Speed: 150, Index: 2,
			},
		},
		{
			name: "height is not interpolated",
			series: &model.TimeSeries{
				Times:     []float64{0, 2},
				Positions: []model.Vec3{{0, 5, 0}, {4, 9, 8}},
				Throttle:  []float64{0, 0},
				Brake:     []float64{0, 0},
				Speed:     []float64{0, 0},
			},
			t: 0.5,
			want: Result{
				Position: model.Vec3{1, 0, 2}, Index: 1,
			},
		},
		{
			name: "duplicate timestamps use the earlier sample",
			series: &model.TimeSeries{
				Times:     []float64{0, 1, 1, 2},
				Positions: []model.Vec3{{0, 0, 0}, {2, 0, 0}, {4, 0, 0}, {6, 0, 0}},
				Throttle:  []float64{0, 1, 2, 3},
				Brake:     []float64{0, 0, 0, 0},
				Speed:     []float64{0, 0, 0, 0},
			},
			t: 1,
			want: Result{
				Position: model.Vec3{2, 0, 0}, Throttle: 1, Index: 1,
			},
		},
		{
			name: "single sample",
			series: &model.TimeSeries{
				Times:     []float64{3},
				Positions: []model.Vec3{{1, 2, 3}},
				Throttle:  []float64{7},
				Brake:     []float64{0},
				Speed:     []float64{8},
			},
			t: 5,
			want: Result{
				Position: model.Vec3{1, 0, 3}, Throttle: 7, Speed: 8,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Sample(tt.series, tt.t)
			require.True(t, ok)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("Sample() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSample_Empty(t *testing.T) {
	_, ok := Sample(&model.TimeSeries{}, 1)
	assert.False(t, ok)
	_, ok = Sample(nil, 1)
	assert.False(t, ok)
}

func TestSample_FractionMatchesTime(t *testing.T) {
	s := &model.TimeSeries{
		Times:     []float64{0, 0.5, 2.5},
		Positions: []model.Vec3{{1, 0, 1}, {3, 0, -1}, {-5, 0, 7}},
		Throttle:  []float64{0, 0, 0},
		Brake:     []float64{0, 0, 0},
		Speed:     []float64{0, 0, 0},
	}
	for _, q := range []float64{0.1, 0.25, 0.49, 0.6, 1.3, 2.4} {
		got, ok := Sample(s, q)
		require.True(t, ok)
		i := got.Index
		wantF := (q - s.Times[i-1]) / (s.Times[i] - s.Times[i-1])
		p0, p1 := s.Positions[i-1], s.Positions[i]
		assert.InDelta(t, wantF, (got.Position.X()-p0.X())/(p1.X()-p0.X()), 1e-9)
		assert.InDelta(t, wantF, (got.Position.Z()-p0.Z())/(p1.Z()-p0.Z()), 1e-9)
	}
}

func TestSample_NaNTime(t *testing.T) {
	got, ok := Sample(sampleSeries(), math.NaN())
	require.True(t, ok)
	assert.Equal(t, 0, got.Index)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		r    Result
		want model.VisualState
	}{
		{"braking wins", Result{Throttle: 100, Brake: 1}, model.VisualBraking},
		{"accelerating", Result{Throttle: 80}, model.VisualAccelerating},
		{"at threshold", Result{Throttle: DefaultThrottleThreshold}, model.VisualNeutral},
		{"neutral", Result{}, model.VisualNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.r, DefaultThrottleThreshold))
		})
	}
}

func TestFirstMovement(t *testing.T) {
	s := &model.TimeSeries{
		Times:     []float64{0, 1, 2, 3},
		Positions: []model.Vec3{{0, 0, 0}, {0, 5, 0.0001}, {0.002, 0, 0}, {1, 0, 0}},
	}
	got, ok := FirstMovement(s, DefaultMovementDistance)
	assert.True(t, ok)
	assert.Equal(t, 2.0, got)

	_, ok = FirstMovement(&model.TimeSeries{
		Times: []float64{0, 1}, Positions: []model.Vec3{{1, 1, 1}, {1, 1, 1}},
	}, DefaultMovementDistance)
	assert.False(t, ok)
}
