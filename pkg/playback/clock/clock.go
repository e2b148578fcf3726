package clock

import (
	"math"

	"github.com/mpapenbr/iracelog-trackreplay/pkg/model"
)

const (
	MinSpeed     = 0.5
	MaxSpeed     = 5.0
	DefaultSpeed = 1.0
)

// Clock owns the playback time. Time only moves when Advance is called,
// there is no background timer.
type Clock struct {
	elapsed float64
	playing bool
	speed   float64
}

type Option func(c *Clock)

func WithSpeed(speed float64) Option {
	return func(c *Clock) {
		c.SetSpeed(speed)
	}
}

func WithStartTime(t float64) Option {
	return func(c *Clock) {
		c.Seek(t)
	}
}

func New(opts ...Option) *Clock {
	ret := &Clock{speed: DefaultSpeed}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Advance moves the clock by delta seconds scaled by the speed multiplier.
// Callers are expected to clamp delta after frame stalls.
func (c *Clock) Advance(delta float64) {
	if !c.playing || !isFinite(delta) || delta < 0 {
		return
	}
	c.elapsed += delta * c.speed
}

// Seek sets the elapsed time regardless of the play state.
func (c *Clock) Seek(t float64) {
	if !isFinite(t) || t < 0 {
		t = 0
	}
	c.elapsed = t
}

func (c *Clock) TogglePlay() {
	c.playing = !c.playing
}

func (c *Clock) Play() {
	c.playing = true
}

func (c *Clock) Pause() {
	c.playing = false
}

// Reset stops playback and rewinds to 0. The speed multiplier is kept.
func (c *Clock) Reset() {
	c.playing = false
	c.elapsed = 0
}

// SetSpeed sets the multiplier clamped to [MinSpeed, MaxSpeed].
func (c *Clock) SetSpeed(m float64) {
	if math.IsNaN(m) {
		return
	}
	c.speed = math.Min(math.Max(m, MinSpeed), MaxSpeed)
}

func (c *Clock) Elapsed() float64 {
	return c.elapsed
}

func (c *Clock) Playing() bool {
	return c.playing
}

func (c *Clock) Speed() float64 {
	return c.speed
}

// State returns a snapshot of the clock.
func (c *Clock) State() model.PlaybackState {
	return model.PlaybackState{
		ElapsedTime:     c.elapsed,
		IsPlaying:       c.playing,
		SpeedMultiplier: c.speed,
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
