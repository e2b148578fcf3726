package model

// PlaybackState is a snapshot of the playback clock.
type PlaybackState struct {
	ElapsedTime     float64 `json:"elapsedTime"`
	IsPlaying       bool    `json:"isPlaying"`
	SpeedMultiplier float64 `json:"speedMultiplier"`
}

// VisualState selects the appearance of an entity.
type VisualState int

const (
	VisualNeutral VisualState = iota
	VisualAccelerating
	VisualBraking
)

func (v VisualState) String() string {
	switch v {
	case VisualAccelerating:
		return "accelerating"
	case VisualBraking:
		return "braking"
	default:
		return "neutral"
	}
}

func (v VisualState) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
