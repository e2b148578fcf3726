package loader

import (
	"fmt"
	"math"

	"github.com/mpapenbr/iracelog-trackreplay/pkg/model"
)

// Series builds the replay series of a driver. Normalized positions are
// preferred. Missing throttle, brake or speed channels are filled with 0.
func Series(dt *model.DriverTelemetry) (*model.TimeSeries, error) {
	rows := dt.PositionsNormalized
	if len(rows) == 0 {
		rows = dt.Positions
	}
	n := len(dt.Times)
	if n == 0 {
		return nil, fmt.Errorf("driver %s: %w", dt.Driver, model.ErrInsufficientData)
	}
	ret := &model.TimeSeries{
		Times:     dt.Times,
		Positions: make([]model.Vec3, len(rows)),
		Throttle:  channel(dt.Throttle, n),
		Brake:     channel(dt.Brake, n),
		Speed:     channel(dt.Speed, n),
	}
	for i, row := range rows {
		ret.Positions[i] = toVec(row)
	}
	if err := ret.Validate(); err != nil {
		return nil, fmt.Errorf("driver %s: %w", dt.Driver, err)
	}
	return ret, nil
}

// TrackPath returns the centerline of the race data. If the file has no
// track path the positions of the first driver are used.
// Points with missing components are returned as NaN points.
func TrackPath(rd *model.RaceData) []model.Vec3 {
	rows := rd.Track.Path
	if len(rows) == 0 && len(rd.Telemetry) > 0 {
		rows = rd.Telemetry[0].PositionsNormalized
		if len(rows) == 0 {
			rows = rd.Telemetry[0].Positions
		}
	}
	ret := make([]model.Vec3, len(rows))
	for i, row := range rows {
		ret[i] = toVec(row)
	}
	return ret
}

func toVec(row []float64) model.Vec3 {
	ret := model.Vec3{math.NaN(), math.NaN(), math.NaN()}
	for i := 0; i < len(row) && i < 3; i++ {
		ret[i] = row[i]
	}
	return ret
}

func channel(values []float64, n int) []float64 {
	if len(values) == 0 {
		return make([]float64, n)
	}
	return values
}
