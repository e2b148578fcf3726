package model

// RaceData is the layout of a race data file produced by the telemetry
// preprocessing pipeline.
//
//nolint:tagliatelle // file format is given
type RaceData struct {
	Metadata  Metadata              `json:"metadata"`
	Drivers   map[string]DriverInfo `json:"drivers"`
	Track     TrackData             `json:"track"`
	Telemetry []DriverTelemetry     `json:"telemetry"`
}

//nolint:tagliatelle // file format is given
type Metadata struct {
	Year             int               `json:"year"`
	GrandPrix        string            `json:"grand_prix"`
	SessionType      string            `json:"session_type"`
	SessionName      string            `json:"session_name"`
	EventDate        string            `json:"event_date"`
	TotalLaps        *int              `json:"total_laps"`
	TrackLengthKm    *float64          `json:"track_length_km"`
	NumDrivers       int               `json:"num_drivers"`
	CoordinateBounds *CoordinateBounds `json:"coordinate_bounds,omitempty"`
}

type CoordinateBounds struct {
	Min    []float64 `json:"min"`
	Max    []float64 `json:"max"`
	Ranges []float64 `json:"ranges"`
}

type DriverInfo struct {
	Number       string `json:"number"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Team         string `json:"team"`
}

type TrackData struct {
	Path        [][]float64 `json:"path"`
	Description string      `json:"description"`
}

// DriverTelemetry is the raw per driver record. Brake values are
// normalized to 0/1 when the file stores booleans.
//
//nolint:tagliatelle // file format is given
type DriverTelemetry struct {
	Driver              string      `json:"driver"`
	Times               []float64   `json:"times"`
	Positions           [][]float64 `json:"positions"`
	PositionsNormalized [][]float64 `json:"positions_normalized"`
	Throttle            []float64   `json:"throttle"`
	Brake               []float64   `json:"brake"`
	Speed               []float64   `json:"speed"`
}
