package loader

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/mpapenbr/iracelog-trackreplay/pkg/model"
)

var ErrFormat = errors.New("unexpected race data format")

// LoadFile reads a race data file.
func LoadFile(file string) (*model.RaceData, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read race data: %w", err)
	}
	return Parse(data)
}

func Load(r io.Reader) (*model.RaceData, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read race data: %w", err)
	}
	return Parse(data)
}

// Parse decodes race data. Brake values may be booleans or numbers,
// they are converted to 0/1 resp. kept as is.
func Parse(data []byte) (*model.RaceData, error) {
	obj, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse race data: %w", err)
	}
	root, ok := obj.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: root is %T", ErrFormat, obj)
	}
	ret := &model.RaceData{
		Metadata: decodeMetadata(asMap(root["metadata"])),
		Drivers:  map[string]model.DriverInfo{},
	}
	for k, v := range asMap(root["drivers"]) {
		ret.Drivers[k] = decodeDriver(k, asMap(v))
	}
	track := asMap(root["track"])
	ret.Track = model.TrackData{
		Path:        floatRows(track["path"]),
		Description: asString(track["description"]),
	}
	entries, ok := root["telemetry"].([]any)
	if !ok && root["telemetry"] != nil {
		return nil, fmt.Errorf("%w: telemetry is %T", ErrFormat, root["telemetry"])
	}
	for _, e := range entries {
		ret.Telemetry = append(ret.Telemetry, decodeTelemetry(asMap(e)))
	}
	return ret, nil
}

// Peek evaluates a JSON path expression like "$.metadata.grand_prix"
// against raw race data.
func Peek(data []byte, expr string) ([]any, error) {
	obj, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse race data: %w", err)
	}
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, err
	}
	return x.Get(obj), nil
}

func decodeMetadata(m map[string]any) model.Metadata {
	ret := model.Metadata{
		Year:        int(asFloat(m["year"])),
		GrandPrix:   asString(m["grand_prix"]),
		SessionType: asString(m["session_type"]),
		SessionName: asString(m["session_name"]),
		EventDate:   asString(m["event_date"]),
		NumDrivers:  int(asFloat(m["num_drivers"])),
	}
	if v, ok := number(m["total_laps"]); ok {
		laps := int(v)
		ret.TotalLaps = &laps
	}
	if v, ok := number(m["track_length_km"]); ok {
		ret.TrackLengthKm = &v
	}
	if b := asMap(m["coordinate_bounds"]); len(b) > 0 {
		ret.CoordinateBounds = &model.CoordinateBounds{
			Min:    floats(b["min"]),
			Max:    floats(b["max"]),
			Ranges: floats(b["ranges"]),
		}
	}
	return ret
}

func decodeDriver(key string, m map[string]any) model.DriverInfo {
	ret := model.DriverInfo{
		Number:       asString(m["number"]),
		Name:         asString(m["name"]),
		Abbreviation: asString(m["abbreviation"]),
		Team:         asString(m["team"]),
	}
	if ret.Number == "" {
		ret.Number = key
	}
	return ret
}

func decodeTelemetry(m map[string]any) model.DriverTelemetry {
	return model.DriverTelemetry{
		Driver:              asString(m["driver"]),
		Times:               floats(m["times"]),
		Positions:           floatRows(m["positions"]),
		PositionsNormalized: floatRows(m["positions_normalized"]),
		Throttle:            floats(m["throttle"]),
		Brake:               floats(m["brake"]),
		Speed:               floats(m["speed"]),
	}
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

func asString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return fmt.Sprintf("%d", x)
	case float64:
		return fmt.Sprintf("%g", x)
	default:
		return ""
	}
}

// number converts JSON scalars to float64. Booleans map to 0/1.
func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func asFloat(v any) float64 {
	f, _ := number(v)
	return f
}

// floats converts a JSON array. Entries which are no numbers become NaN.
func floats(v any) []float64 {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	ret := make([]float64, len(arr))
	for i, e := range arr {
		f, ok := number(e)
		if !ok {
			f = math.NaN()
		}
		ret[i] = f
	}
	return ret
}

func floatRows(v any) [][]float64 {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	ret := make([][]float64, len(arr))
	for i, e := range arr {
		ret[i] = floats(e)
	}
	return ret
}
