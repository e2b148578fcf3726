package basedata

import (
	"github.com/mpapenbr/iracelog-trackreplay/pkg/model"
)

// SampleRaceDataJSON is a minimal race data file with two cars.
// Car 44 has no normalized positions.
const SampleRaceDataJSON = `{
  "metadata": {
    "year": 2023, "grand_prix": "Bahrain", "session_type": "R", "session_name": "Race",
    "event_date": "2023-03-05 15:00:00", "total_laps": 57, "track_length_km": null, "num_drivers": 2,
    "coordinate_bounds": {"min": [0, 0, 0], "max": [10, 1, 10], "ranges": [10, 1, 10]}
  },
  "drivers": {
    "1":  {"number": "1", "name": "Max Verstappen", "abbreviation": "VER", "team": "Red Bull Racing"},
    "44": {"name": "Lewis Hamilton", "abbreviation": "HAM", "team": "Mercedes"}
  },
  "track": {"path": [[0, 0, 0], [1, 0, 0], [2, 0, 0]], "description": "Reference track path from first driver"},
  "telemetry": [
    {
      "driver": "1",
      "times": [0, 1, 2],
      "positions": [[0, 0, 0], [200, 0, 0], [400, 0, 0]],
      "positions_normalized": [[0, 0, 0], [0.5, 0, 0], [1, 0, 0]],
      "throttle": [0, 99, 100],
      "brake": [true, false, false],
      "speed": [0, 120.5, 180]
    },
    {
      "driver": "44",
      "times": [0, 1],
      "positions": [[0, 0, 0], [1, 0, 1]],
      "throttle": [10, 20],
      "brake": [0, 1],
      "speed": [10, 20]
    }
  ]
}`

// SampleSeries returns the series used in most interpolation examples.
func SampleSeries() *model.TimeSeries {
	return &model.TimeSeries{
		Times:     []float64{0, 1, 2},
		Positions: []model.Vec3{{0, 0, 0}, {10, 0, 0}, {20, 0, 0}},
		Throttle:  []float64{0, 100, 100},
		Brake:     []float64{0, 0, 1},
		Speed:     []float64{0, 100, 200},
	}
}

// SquareTrack returns a closed unit square centerline.
func SquareTrack() []model.Vec3 {
	return []model.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}, {0, 0, 0}}
}

// SampleRaceData returns race data with two valid drivers and one driver
// whose channels differ in length.
func SampleRaceData() *model.RaceData {
	return &model.RaceData{
		Drivers: map[string]model.DriverInfo{
			"44": {Number: "44", Name: "Lewis Hamilton"},
			"1":  {Number: "1", Name: "Max Verstappen"},
		},
		Track: model.TrackData{Path: [][]float64{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}},
		Telemetry: []model.DriverTelemetry{
			{
				Driver: "44", Times: []float64{0, 1},
				PositionsNormalized: [][]float64{{0, 0, 0}, {1, 0, 0}},
			},
			{Driver: "broken", Times: []float64{0, 1}, PositionsNormalized: [][]float64{{0, 0, 0}}},
			{
				Driver: "1", Times: []float64{0, 1},
				PositionsNormalized: [][]float64{{0, 0, 0}, {1, 0, 0}},
			},
		},
	}
}
