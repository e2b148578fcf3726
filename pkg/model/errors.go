package model

import "errors"

var (
	// ErrMalformedInput marks non-finite or missing components.
	ErrMalformedInput = errors.New("malformed input")
	// ErrInsufficientData marks inputs with too few usable samples or points.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrDegenerateGeometry is only used to tag log entries; builders resolve
	// degenerate cases by fallback.
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	ErrSeriesLength = errors.New("telemetry channels differ in length")
	ErrSeriesOrder  = errors.New("telemetry times are not monotonic")
)
