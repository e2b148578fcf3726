package config

import (
	"context"
	"io"
	"os"
	"time"

	otlpruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/mpapenbr/iracelog-trackreplay/log"
	"github.com/mpapenbr/iracelog-trackreplay/version"
)

var (
	EnableTelemetry   bool          // enable telemetry
	TelemetryInterval time.Duration // export interval for metrics
)

type Telemetry struct {
	mp *sdkmetric.MeterProvider
}

type TelemetryOption func(*telemetryConfig)

type telemetryConfig struct {
	out      io.Writer
	interval time.Duration
	runtime  bool
}

// WithTelemetryOutput sets the destination of the exported metrics.
func WithTelemetryOutput(w io.Writer) TelemetryOption {
	return func(c *telemetryConfig) { c.out = w }
}

func WithTelemetryInterval(d time.Duration) TelemetryOption {
	return func(c *telemetryConfig) { c.interval = d }
}

// WithRuntimeMetrics enables go runtime metrics (memory, gc, goroutines).
func WithRuntimeMetrics(enabled bool) TelemetryOption {
	return func(c *telemetryConfig) { c.runtime = enabled }
}

// SetupTelemetry installs a global meter provider which periodically
// writes the collected metrics as json.
func SetupTelemetry(ctx context.Context, opts ...TelemetryOption) (*Telemetry, error) {
	cfg := &telemetryConfig{out: os.Stderr, interval: 10 * time.Second}
	for _, opt := range opts {
		opt(cfg)
	}
	exp, err := stdoutmetric.New(stdoutmetric.WithWriter(cfg.out))
	if err != nil {
		return nil, err
	}
	res := resource.NewSchemaless(
		attribute.String("service.name", "itr"),
		attribute.String("service.version", version.Version),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(cfg.interval))),
	)
	otel.SetMeterProvider(mp)
	if cfg.runtime {
		if err := otlpruntime.Start(
			otlpruntime.WithMeterProvider(mp),
			otlpruntime.WithMinimumReadMemStatsInterval(time.Second),
		); err != nil {
			log.GetFromContext(ctx).Warn("Could not start runtime metrics", log.ErrorField(err))
		}
	}
	log.GetFromContext(ctx).Debug("telemetry enabled", log.Duration("interval", cfg.interval))
	return &Telemetry{mp: mp}, nil
}

// Shutdown flushes pending metrics and stops the meter provider.
func (t *Telemetry) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := t.mp.Shutdown(ctx); err != nil {
		log.Warn("telemetry shutdown", log.ErrorField(err))
	}
}
