package model

import (
	"fmt"
	"math"
)

// TimeSeries holds the recorded telemetry of a single entity.
// All slices are parallel; Times is non-decreasing.
// A TimeSeries must not be modified once it is handed to the replay.
type TimeSeries struct {
	Times     []float64
	Positions []Vec3
	Throttle  []float64
	Brake     []float64 // > 0 means brake applied
	Speed     []float64
}

func (s *TimeSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Times)
}

// LastTime returns the time of the last sample (0 for empty series).
func (s *TimeSeries) LastTime() float64 {
	if s.Len() == 0 {
		return 0
	}
	return s.Times[len(s.Times)-1]
}

// Validate checks the structural invariants of the series.
func (s *TimeSeries) Validate() error {
	n := s.Len()
	if n == 0 {
		return ErrInsufficientData
	}
	if len(s.Positions) != n || len(s.Throttle) != n ||
		len(s.Brake) != n || len(s.Speed) != n {
		return fmt.Errorf("%w: times=%d positions=%d throttle=%d brake=%d speed=%d",
			ErrSeriesLength, n,
			len(s.Positions), len(s.Throttle), len(s.Brake), len(s.Speed))
	}
	for i := range n {
		if math.IsNaN(s.Times[i]) || math.IsInf(s.Times[i], 0) {
			return fmt.Errorf("%w: time at index %d", ErrMalformedInput, i)
		}
		if !IsFinite(s.Positions[i]) {
			return fmt.Errorf("%w: position at index %d", ErrMalformedInput, i)
		}
		if i > 0 && s.Times[i] < s.Times[i-1] {
			return fmt.Errorf("%w: index %d (%f < %f)",
				ErrSeriesOrder, i, s.Times[i], s.Times[i-1])
		}
	}
	return nil
}
