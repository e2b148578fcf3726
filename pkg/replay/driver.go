package replay

import (
	"context"
	"time"

	"github.com/mpapenbr/iracelog-trackreplay/log"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/model"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/playback/clock"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/playback/interpolate"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/replay/entity"
)

// MaxFrameDelta bounds the time a single tick may advance after stalls.
const MaxFrameDelta = 100 * time.Millisecond

// EntityFrame is the render state of one entity.
type EntityFrame struct {
	ID       int               `json:"id"`
	Key      string            `json:"key"`
	Position model.Vec3        `json:"position"`
	Throttle float64           `json:"throttle"`
	Brake    float64           `json:"brake"`
	Speed    float64           `json:"speed"`
	Visual   model.VisualState `json:"visual"`
}

// Frame holds the state of all entities at a single playback time.
type Frame struct {
	Seq      uint64              `json:"seq"`
	Time     float64             `json:"time"`
	Playback model.PlaybackState `json:"playback"`
	Entities []EntityFrame       `json:"entities"`
}

type Option func(*Driver)

// Driver advances the playback clock once per tick and samples all
// entities at the resulting time. A Driver is not safe for concurrent use.
type Driver struct {
	clock             *clock.Clock
	arena             *entity.Arena
	maxDelta          time.Duration
	clearance         float64
	throttleThreshold float64
	sink              chan<- Frame
	seq               uint64
	dropped           int
	l                 *log.Logger
}

func WithClock(c *clock.Clock) Option {
	return func(d *Driver) {
		d.clock = c
	}
}

func WithMaxFrameDelta(limit time.Duration) Option {
	return func(d *Driver) {
		d.maxDelta = limit
	}
}

func WithGroundClearance(h float64) Option {
	return func(d *Driver) {
		d.clearance = h
	}
}

func WithThrottleThreshold(v float64) Option {
	return func(d *Driver) {
		d.throttleThreshold = v
	}
}

// WithFrameSink publishes every frame to sink. Frames are dropped if the
// sink is not ready.
func WithFrameSink(sink chan<- Frame) Option {
	return func(d *Driver) {
		d.sink = sink
	}
}

func WithLogger(l *log.Logger) Option {
	return func(d *Driver) {
		d.l = l
	}
}

func NewDriver(arena *entity.Arena, opts ...Option) *Driver {
	ret := &Driver{
		arena:             arena,
		maxDelta:          MaxFrameDelta,
		clearance:         interpolate.GroundClearance,
		throttleThreshold: interpolate.DefaultThrottleThreshold,
		l:                 log.Default().Named("replay"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.clock == nil {
		ret.clock = clock.New()
	}
	return ret
}

func (d *Driver) Clock() *clock.Clock {
	return d.clock
}

func (d *Driver) Arena() *entity.Arena {
	return d.arena
}

// Dropped returns the number of frames the sink did not accept.
func (d *Driver) Dropped() int {
	return d.dropped
}

// Tick advances the clock by the clamped wall clock delta and applies the
// sampled state to every entity. All entities of a frame are sampled at
// the same time.
func (d *Driver) Tick(delta time.Duration) Frame {
	if delta < 0 {
		delta = 0
	}
	if d.maxDelta > 0 && delta > d.maxDelta {
		delta = d.maxDelta
	}
	d.clock.Advance(delta.Seconds())
	t := d.clock.Elapsed()

	d.seq++
	frame := Frame{
		Seq:      d.seq,
		Time:     t,
		Playback: d.clock.State(),
		Entities: make([]EntityFrame, 0, d.arena.Len()),
	}
	d.arena.Each(func(s *entity.Slot) {
		r, ok := interpolate.Sample(s.Series, t)
		if !ok {
			return
		}
		r.Position[1] = d.clearance
		visual := interpolate.Classify(r, d.throttleThreshold)
		s.Current = entity.Current{Result: r, Visual: visual, Updated: true}
		frame.Entities = append(frame.Entities, EntityFrame{
			ID:       s.ID,
			Key:      s.Key,
			Position: r.Position,
			Throttle: r.Throttle,
			Brake:    r.Brake,
			Speed:    r.Speed,
			Visual:   visual,
		})
	})
	d.publish(frame)
	return frame
}

func (d *Driver) publish(frame Frame) {
	if d.sink == nil {
		return
	}
	select {
	case d.sink <- frame:
	default:
		d.dropped++
	}
}

// AlignToFirstMovement seeks the clock to the earliest time any entity
// starts moving. Returns false if no entity moves at all.
func (d *Driver) AlignToFirstMovement(minDist float64) (float64, bool) {
	first, found := 0.0, false
	d.arena.Each(func(s *entity.Slot) {
		t, ok := interpolate.FirstMovement(s.Series, minDist)
		if !ok {
			return
		}
		if !found || t < first {
			first, found = t, true
		}
	})
	if found {
		d.clock.Seek(first)
		d.l.Debug("aligned to first movement", log.Float64("time", first))
	}
	return first, found
}

// Finished reports whether the clock passed the last sample of all entities.
func (d *Driver) Finished() bool {
	return d.clock.Elapsed() >= d.arena.LastTime()
}

// Run starts playback and ticks every interval using the measured wall
// clock delta until ctx is done or the replay is finished.
func (d *Driver) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	d.clock.Play()
	last := time.Now()
	d.l.Info("replay started",
		log.Int("entities", d.arena.Len()),
		log.Float64("start", d.clock.Elapsed()),
		log.Float64("end", d.arena.LastTime()),
		log.Float64("speed", d.clock.Speed()))
	for {
		select {
		case <-ctx.Done():
			d.l.Info("replay cancelled", log.Float64("time", d.clock.Elapsed()))
			return ctx.Err()
		case now := <-ticker.C:
			frame := d.Tick(now.Sub(last))
			last = now
			if d.Finished() {
				d.l.Info("replay finished",
					log.Uint64("frames", frame.Seq),
					log.Int("dropped", d.dropped))
				return nil
			}
		}
	}
}
