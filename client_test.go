package skyle

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/atomic"
	"google.golang.org/grpc"

	"github.com/rickgao/skyle/internal/rpc"
	"github.com/rickgao/skyle/internal/simulator"
	"github.com/rickgao/skyle/internal/stream"
)

func fastDevice() *simulator.Device {
	cfg := simulator.DefaultConfig()
	cfg.GazeInterval = 5 * time.Millisecond
	cfg.PositioningInterval = 5 * time.Millisecond
	cfg.TriggerInterval = 5 * time.Millisecond
	cfg.CalibrationStep = 20 * time.Millisecond
	return simulator.New(cfg, nil)
}

type testRig struct {
	device   *simulator.Device
	endpoint *simulator.Endpoint
	client   *Client
}

// newRig creates a client for an in-memory device. The endpoint starts
// down when up is false.
func newRig(t *testing.T, up bool) *testRig {
	t.Helper()

	d := fastDevice()
	ep := simulator.NewBufEndpoint(d)
	if up {
		if err := ep.Up(); err != nil {
			t.Fatalf("Up failed: %v", err)
		}
	}

	c := New("", WithTarget("passthrough:///bufnet"),
		WithConnectTimeout(200*time.Millisecond),
		WithRequestTimeout(time.Second),
		WithBackoff(10*time.Millisecond, 50*time.Millisecond),
		WithDialOptions(grpc.WithContextDialer(ep.DialContext)),
	)
	t.Cleanup(func() {
		c.Close()
		ep.Down()
	})
	return &testRig{device: d, endpoint: ep, client: c}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNew_Endpoint(t *testing.T) {
	tests := []struct {
		name string
		host string
		opts []Option
		want string
	}{
		{name: "default", want: "skyle.local:50052"},
		{name: "host", host: "10.0.0.7", want: "10.0.0.7:50052"},
		{name: "port", host: "10.0.0.7", opts: []Option{WithPort(6000)}, want: "10.0.0.7:6000"},
		{name: "ipv6", host: "::1", want: "[::1]:50052"},
		{name: "target", host: "x", opts: []Option{WithTarget("dns:///skyle:1")}, want: "dns:///skyle:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := defaultOptions(tt.host)
			for _, opt := range tt.opts {
				opt(&o)
			}
			if got := o.endpoint(); got != tt.want {
				t.Errorf("endpoint() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClient_Connect(t *testing.T) {
	rig := newRig(t, true)
	ctx := context.Background()

	if rig.client.IsConnected() {
		t.Error("IsConnected() = true before Connect")
	}
	if err := rig.client.Connect(ctx); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if !rig.client.IsConnected() {
		t.Error("IsConnected() = false after Connect")
	}
	if !rig.client.Available(ctx) {
		t.Error("Available() = false while connected")
	}
}

func TestClient_ConnectTimeout(t *testing.T) {
	rig := newRig(t, false)

	if err := rig.client.Connect(context.Background()); err == nil {
		t.Fatal("Connect succeeded with the endpoint down")
	}
	if rig.client.Available(context.Background()) {
		t.Error("Available() = true with the endpoint down")
	}
}

func TestClient_Close(t *testing.T) {
	rig := newRig(t, true)
	ctx := context.Background()

	rig.client.SubscribeGaze(func(Point) {})
	rig.client.Connect(ctx)

	if err := rig.client.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := rig.client.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
	if rig.client.StreamStats(stream.KindGaze).Live {
		t.Error("gaze stream live after Close")
	}
	if err := rig.client.Connect(ctx); err != ErrClosed {
		t.Errorf("Connect after Close = %v, want ErrClosed", err)
	}
	if err := rig.client.Calibrate(ctx, 100, 100, false); err != ErrClosed {
		t.Errorf("Calibrate after Close = %v, want ErrClosed", err)
	}
	if rig.client.Versions(ctx) != nil {
		t.Error("Versions() after Close returned a value")
	}
}

func TestClient_LazyStartIsIdempotent(t *testing.T) {
	rig := newRig(t, true)

	var first, second atomic.Int64
	rig.client.SubscribeGaze(func(Point) { first.Inc() })
	rig.client.SubscribeGaze(func(Point) { second.Inc() })

	waitFor(t, "gaze samples", func() bool { return first.Load() > 3 && second.Load() > 3 })

	stats := rig.client.StreamStats(stream.KindGaze)
	if stats.Starts != 1 {
		t.Errorf("Starts = %d, want 1", stats.Starts)
	}
	if stats.Subscribers != 2 {
		t.Errorf("Subscribers = %d, want 2", stats.Subscribers)
	}
	if n := rig.device.StreamsOpened("Gaze"); n != 1 {
		t.Errorf("gaze streams opened = %d, want 1", n)
	}
}

func TestClient_Telemetry(t *testing.T) {
	rig := newRig(t, true)

	positioning := make(chan Positioning, 1)
	triggers := make(chan Trigger, 1)
	rig.client.SubscribePositioning(func(p Positioning) {
		select {
		case positioning <- p:
		default:
		}
	})
	rig.client.SubscribeTrigger(func(tr Trigger) {
		select {
		case triggers <- tr:
		default:
		}
	})

	select {
	case <-positioning:
	case <-time.After(5 * time.Second):
		t.Fatal("no positioning sample")
	}
	select {
	case <-triggers:
	case <-time.After(5 * time.Second):
		t.Fatal("no trigger event")
	}
}

func TestClient_Unsubscribe(t *testing.T) {
	rig := newRig(t, true)

	var n atomic.Int64
	id := rig.client.SubscribeGaze(func(Point) { n.Inc() })
	waitFor(t, "gaze samples", func() bool { return n.Load() > 0 })

	if !rig.client.Unsubscribe(id) {
		t.Fatal("Unsubscribe() = false for a registered handler")
	}
	if rig.client.Unsubscribe(id) {
		t.Error("second Unsubscribe() = true")
	}

	// Pending dispatches may still land right after removal.
	time.Sleep(20 * time.Millisecond)
	before := n.Load()
	time.Sleep(50 * time.Millisecond)
	if after := n.Load(); after != before {
		t.Errorf("handler called %d times after Unsubscribe", after-before)
	}
	if !rig.client.StreamStats(stream.KindGaze).Live {
		t.Error("gaze stream stopped on last unsubscribe")
	}
}

// connectivityRecorder counts edges of the connected flag, starting from
// disconnected.
type connectivityRecorder struct {
	mu    sync.Mutex
	last  bool
	drops int
	ups   int
}

func (r *connectivityRecorder) record(connected bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last && !connected {
		r.drops++
	}
	if !r.last && connected {
		r.ups++
	}
	r.last = connected
}

func (r *connectivityRecorder) counts() (ups, drops int, last bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ups, r.drops, r.last
}

func TestClient_ConnectedAfterFirstConnect(t *testing.T) {
	rig := newRig(t, true)

	var rec connectivityRecorder
	rig.client.SubscribeConnected(rec.record)

	if err := rig.client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	waitFor(t, "connected=true", func() bool {
		ups, _, last := rec.counts()
		return ups == 1 && last
	})
	if _, drops, _ := rec.counts(); drops != 0 {
		t.Errorf("drops = %d, want 0", drops)
	}
}

func TestClient_ConnectedWhenDeviceAppearsDuringConnect(t *testing.T) {
	rig := newRig(t, false)

	var rec connectivityRecorder
	rig.client.SubscribeConnected(rec.record)

	go func() {
		time.Sleep(50 * time.Millisecond)
		rig.endpoint.Up()
	}()
	rig.client.Connect(context.Background())

	waitFor(t, "connected=true", func() bool {
		_, _, last := rec.counts()
		return last
	})
	if !rig.client.IsConnected() {
		t.Error("IsConnected() = false after connected=true")
	}
}

func TestClient_ConnectivityToggling(t *testing.T) {
	rig := newRig(t, true)
	ctx := context.Background()

	var rec connectivityRecorder
	rig.client.SubscribeConnected(rec.record)

	if err := rig.client.Connect(ctx); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	waitFor(t, "first connect", func() bool {
		ups, _, last := rec.counts()
		return ups == 1 && last
	})

	var gaze atomic.Int64
	rig.client.SubscribeGaze(func(Point) { gaze.Inc() })
	waitFor(t, "gaze samples", func() bool { return gaze.Load() > 0 })

	const toggles = 3
	for i := 0; i < toggles; i++ {
		rig.endpoint.Down()
		waitFor(t, "disconnect", func() bool {
			_, _, last := rec.counts()
			return !last
		})

		if err := rig.endpoint.Up(); err != nil {
			t.Fatalf("Up failed: %v", err)
		}
		waitFor(t, "reconnect", func() bool {
			_, _, last := rec.counts()
			return last
		})
	}

	ups, drops, _ := rec.counts()
	if drops != toggles {
		t.Errorf("drops = %d, want %d", drops, toggles)
	}
	if ups != toggles+1 {
		t.Errorf("ups = %d, want %d", ups, toggles+1)
	}

	stats := rig.client.SupervisorStats()
	if stats.MaxInFlight > 1 {
		t.Errorf("MaxInFlight = %d, want at most 1", stats.MaxInFlight)
	}

	// The gaze stream resumes after the last reconnect.
	waitFor(t, "gaze restart", func() bool {
		return rig.client.StreamStats(stream.KindGaze).Starts == toggles+1
	})
	seen := gaze.Load()
	waitFor(t, "gaze after reconnect", func() bool { return gaze.Load() > seen })
}

func TestClient_OptionsRestoredAfterReconnect(t *testing.T) {
	rig := newRig(t, true)
	ctx := context.Background()

	if !rig.client.ChangePause(ctx, true) {
		t.Fatal("ChangePause(true) = false")
	}

	rig.endpoint.Down()
	waitFor(t, "disconnect", func() bool { return !rig.client.IsConnected() })

	// Simulate a device that lost its settings while offline.
	rig.device.Reset(ctx, &rpc.ResetMessage{Data: true})
	if rig.device.Options().Pause {
		t.Fatal("device kept options after reset")
	}

	if err := rig.endpoint.Up(); err != nil {
		t.Fatalf("Up failed: %v", err)
	}
	waitFor(t, "options restored", func() bool { return rig.device.Options().Pause })
}

func TestClient_FreshClientDoesNotPushOptions(t *testing.T) {
	rig := newRig(t, true)
	ctx := context.Background()

	rig.device.Configure(ctx, &rpc.OptionMessage{Options: &rpc.Options{Stream: true}})

	st := rig.client.Status(ctx)
	if st == nil {
		t.Fatal("Status() = nil")
	}
	if !st.Stream {
		t.Error("Status().Stream = false, want true")
	}
	if !rig.device.Options().Stream {
		t.Error("Status() overwrote device options")
	}
}
