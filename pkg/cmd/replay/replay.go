package replay

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/iracelog-trackreplay/log"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/cmd/util"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/config"
	geocache "github.com/mpapenbr/iracelog-trackreplay/pkg/geometry/cache"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/geometry/track"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/loader"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/playback/clock"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/playback/interpolate"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/replay"
	"github.com/mpapenbr/iracelog-trackreplay/pkg/utils/broadcast"
)

var replayConfig config.ReplayConfig

func NewReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "replays the telemetry of a race data file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := util.SetupLogger(); err != nil {
				return err
			}
			return runReplay(cmd.Context())
		},
	}
	cmd.Flags().Float64Var(&replayConfig.Speed, "speed", clock.DefaultSpeed,
		fmt.Sprintf("playback speed multiplier (%.1f..%.1f)", clock.MinSpeed, clock.MaxSpeed))
	cmd.Flags().IntVar(&replayConfig.FPS, "fps", 30,
		"number of frames per second")
	cmd.Flags().BoolVar(&replayConfig.Align, "align", true,
		"start playback at the first movement of any car")
	cmd.Flags().BoolVar(&replayConfig.PrintFrames, "print-frames", false,
		"if true and log level is debug, every frame will be printed")
	cmd.Flags().StringVar(&replayConfig.MaxFrameDelta, "max-frame-delta",
		replay.MaxFrameDelta.String(),
		"max time a single frame may advance the playback")
	cmd.Flags().Float64Var(&config.ThrottleThreshold, "throttle-threshold",
		interpolate.DefaultThrottleThreshold,
		"throttle value above which a car is shown as accelerating")
	cmd.Flags().BoolVar(&config.EnableTelemetry, "enable-telemetry", false,
		"enables telemetry (metrics are written to stderr)")
	cmd.Flags().DurationVar(&config.TelemetryInterval, "telemetry-interval",
		10*time.Second, "interval for writing metrics")
	cmd.Flags().Float64Var(&config.GroundClearance, "ground-clearance",
		interpolate.GroundClearance,
		"height of the cars above the track surface")
	return cmd
}

//nolint:funlen // by design
func runReplay(parent context.Context) error {
	if config.DataFile == "" {
		return errors.New("no race data file given (use --file)")
	}
	if replayConfig.FPS <= 0 {
		return fmt.Errorf("invalid fps: %d", replayConfig.FPS)
	}
	maxDelta, err := time.ParseDuration(replayConfig.MaxFrameDelta)
	if err != nil {
		return fmt.Errorf("invalid max-frame-delta: %w", err)
	}
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.EnableTelemetry {
		log.Info("Enabling telemetry")
		telemetry, err := config.SetupTelemetry(ctx,
			config.WithTelemetryInterval(config.TelemetryInterval),
			config.WithRuntimeMetrics(true))
		if err != nil {
			log.Warn("Could not setup telemetry", log.ErrorField(err))
		} else {
			defer telemetry.Shutdown()
		}
	}

	rd, err := loader.LoadFile(config.DataFile)
	if err != nil {
		log.Error("could not load race data", log.ErrorField(err))
		return err
	}
	session := replay.NewSession(rd)
	if session.Arena.Len() == 0 {
		return errors.New("no replayable telemetry found")
	}

	geometry := geocache.New(geocache.WithBuildOptions(
		track.WithCloseEpsilon(config.CloseEpsilon)))
	trackResult, err := session.Track(ctx, geometry, config.TrackWidth)
	if err != nil {
		return err
	}
	if trackResult.Empty() {
		log.Warn("no track rendered")
	} else {
		log.Info("track ready",
			log.Int("vertices", len(trackResult.Mesh.Vertices)),
			log.Int("triangles", trackResult.Mesh.NumTriangles()),
			log.Bool("closed", trackResult.Closed))
	}

	source := make(chan replay.Frame, replayConfig.FPS)
	frames := broadcast.NewBroadcastServer(session.ID, "frames", source,
		broadcast.WithListenerBuffer[replay.Frame](replayConfig.FPS))
	done := make(chan struct{})
	go printFrames(frames.Subscribe(), done)

	driver := replay.NewDriver(session.Arena,
		replay.WithClock(clock.New(clock.WithSpeed(replayConfig.Speed))),
		replay.WithMaxFrameDelta(maxDelta),
		replay.WithThrottleThreshold(config.ThrottleThreshold),
		replay.WithGroundClearance(config.GroundClearance),
		replay.WithFrameSink(source),
	)
	if replayConfig.Align {
		if t, ok := driver.AlignToFirstMovement(interpolate.DefaultMovementDistance); ok {
			log.Info("skipping to first movement", log.Float64("time", t))
		}
	}

	err = driver.Run(ctx, time.Second/time.Duration(replayConfig.FPS))
	close(source)
	<-done
	frames.Close()
	if errors.Is(err, context.Canceled) {
		log.Info("replay interrupted")
		return nil
	}
	return err
}

func printFrames(frames <-chan replay.Frame, done chan<- struct{}) {
	defer close(done)
	l := log.Default().Named("replay.frames")
	var last replay.Frame
	for f := range frames {
		last = f
		if !replayConfig.PrintFrames {
			continue
		}
		for _, e := range f.Entities {
			l.Debug("frame",
				log.Uint64("seq", f.Seq),
				log.Float64("time", f.Time),
				log.String("car", e.Key),
				log.Float64("x", e.Position.X()),
				log.Float64("z", e.Position.Z()),
				log.Float64("speed", e.Speed),
				log.Stringer("state", e.Visual))
		}
	}
	l.Info("last frame", log.Uint64("seq", last.Seq), log.Float64("time", last.Time))
}
