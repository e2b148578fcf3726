package broadcast

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestBroadcastServer_FanOut(t *testing.T) {
	source := make(chan int)
	b := NewBroadcastServer("test", "fanout", source, WithListenerBuffer[int](4))
	l1 := b.Subscribe()
	l2 := b.Subscribe()

	source <- 1
	source <- 2

	for _, l := range []<-chan int{l1, l2} {
		assert.Equal(t, 1, <-l)
		assert.Equal(t, 2, <-l)
	}
	b.Close()

	_, ok := <-l1
	assert.False(t, ok, "listener should be closed")
	s := b.Stats()
	assert.Equal(t, 2, s.Received)
	assert.Equal(t, 4, s.Sent)
}

func TestBroadcastServer_SkipsSlowListener(t *testing.T) {
	source := make(chan int)
	b := NewBroadcastServer("test", "slow", source,
		WithSendTimeout[int](time.Millisecond))
	_ = b.Subscribe() // unbuffered and never read

	source <- 1
	source <- 2
	b.Close()
	assert.Equal(t, 2, b.Stats().Skipped)
}

func TestBroadcastServer_CancelSubscription(t *testing.T) {
	source := make(chan int)
	b := NewBroadcastServer("test", "cancel", source, WithListenerBuffer[int](1))
	l := b.Subscribe()
	b.CancelSubscription(l)
	_, ok := <-l
	assert.False(t, ok)

	source <- 1
	b.Close()
	assert.Equal(t, 0, b.Stats().Sent)
}

func TestBroadcastServer_SourceClosed(t *testing.T) {
	source := make(chan int)
	b := NewBroadcastServer("test", "closed", source)
	l := b.Subscribe()
	close(source)
	select {
	case _, ok := <-l:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("listener not closed after source was closed")
	}
	b.Close()
	// subscribing after shutdown yields a closed channel
	_, ok := <-b.Subscribe()
	assert.False(t, ok)
}

func TestBroadcastServer_Metrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))

	source := make(chan int)
	b := NewBroadcastServer("session", "metrics", source, WithListenerBuffer[int](2))
	_ = b.Subscribe()
	source <- 1
	b.Close()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	got := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		if sm.Scope.Name != "itr.broadcast.metrics" {
			continue
		}
		for _, m := range sm.Metrics {
			if g, ok := m.Data.(metricdata.Gauge[int64]); ok && len(g.DataPoints) > 0 {
				got[m.Name] = g.DataPoints[0].Value
			}
		}
	}
	assert.Equal(t, int64(1), got["itr.broadcast.rcv"])
	assert.Equal(t, int64(1), got["itr.broadcast.snd"])
	assert.Equal(t, int64(0), got["itr.broadcast.skip"])
	assert.Equal(t, int64(0), got["itr.broadcast.listener"])
}
