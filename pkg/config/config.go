package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DataFile          string  // race data file to use
	LogLevel          string  // sets the log level (zap log level values)
	LogFormat         string  // text vs json
	LogFilter         string  // zapfilter rules, e.g. "debug:replay.* info:*"
	TrackWidth        float64 // width of the track in normalized units
	CloseEpsilon      float64 // distance below which the track is treated as closed loop
	ThrottleThreshold float64 // throttle value above which a car is shown as accelerating
	GroundClearance   float64 // height of the cars above the track surface
)

// ReplayConfig holds the values used by the replay command
type ReplayConfig struct {
	Speed         float64 // playback speed multiplier
	FPS           int     // ticks per second
	Align         bool    // if true, playback starts at the first movement
	PrintFrames   bool    // if true, every received frame is logged on debug level
	MaxFrameDelta string  // upper bound for the time advanced by a single tick
}
