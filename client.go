package skyle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/rickgao/skyle/internal/calibration"
	"github.com/rickgao/skyle/internal/connection"
	"github.com/rickgao/skyle/internal/event"
	"github.com/rickgao/skyle/internal/rpc"
	"github.com/rickgao/skyle/internal/scope"
	"github.com/rickgao/skyle/internal/stream"
)

// closeTimeout bounds how long Close waits for an in-flight reconnect.
const closeTimeout = 5 * time.Second

// Client talks to one Skyle device. All methods are safe for concurrent use.
type Client struct {
	opts   options
	logger *slog.Logger

	conn       *connection.Conn
	arena      *scope.Arena
	cancel     context.CancelFunc
	watchdog   *connection.Watchdog
	supervisor *connection.Supervisor
	mux        *stream.Mux
	session    *calibration.Session

	connected   *event.Sink[bool]
	gaze        *event.Sink[Point]
	positioning *event.Sink[Positioning]
	trigger     *event.Sink[Trigger]
	profiles    *event.Sink[Profile]

	// Last options pushed through the façade; nil until one was changed.
	optMu       sync.Mutex
	lastOptions atomic.Pointer[rpc.Options]

	closed atomic.Bool
}

// New creates a client for host. An empty host means DefaultHost. Nothing
// is dialed until Connect or the first call that needs the device.
func New(host string, opts ...Option) *Client {
	o := defaultOptions(host)
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	arena := scope.NewArena(ctx)

	c := &Client{
		opts:   o,
		logger: logger.With("component", "client", "device", o.endpoint()),
		conn: connection.NewConn(connection.Config{
			Target:             o.endpoint(),
			ReconnectBaseDelay: o.baseDelay,
			ReconnectMaxDelay:  o.maxDelay,
			DialOptions:        o.dialOptions,
		}, logger),
		arena:       arena,
		cancel:      cancel,
		connected:   event.NewSink[bool](),
		gaze:        event.NewSink[Point](),
		positioning: event.NewSink[Positioning](),
		trigger:     event.NewSink[Trigger](),
		profiles:    event.NewSink[Profile](),
	}

	c.watchdog = connection.NewWatchdog(c.conn, arena, c.connected, logger)
	c.supervisor = connection.NewSupervisor(c.conn, c.restart, logger)
	c.supervisor.Start(ctx)
	c.connected.Subscribe(c.supervisor.HandleConnectivity)

	c.mux = stream.NewMux(arena, logger)
	c.mux.Register(stream.KindGaze,
		stream.Pump(c.openGaze, pointOf, c.gaze), c.gaze.Len)
	c.mux.Register(stream.KindPositioning,
		stream.Pump(c.openPositioning, positioningOf, c.positioning), c.positioning.Len)
	c.mux.Register(stream.KindTrigger,
		stream.Pump(c.openTrigger, triggerOf, c.trigger), c.trigger.Len)
	c.mux.Register(stream.KindProfiles,
		stream.Pump(c.openProfiles, profileOf, c.profiles), c.profiles.Len)

	c.session = calibration.New(calibration.Config{QueueSize: o.queueSize}, c.openCalibration, arena, logger)
	return c
}

// Connect dials the device and blocks until it is reachable or the connect
// timeout elapses. The watchdog starts before the wait, so connectivity
// subscribers see the first connect, and a failed Connect is retried in
// the background.
func (c *Client) Connect(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}

	if err := c.conn.Dial(); err != nil {
		return fmt.Errorf("connect %s: %w", c.opts.endpoint(), err)
	}
	c.watchdog.Start()

	if err := c.conn.Connect(ctx, c.opts.connectTimeout); err != nil {
		return fmt.Errorf("connect %s: %w", c.opts.endpoint(), err)
	}
	c.logger.Info("connected")
	return nil
}

// ensureConnected runs a blocking Connect if none was attempted yet.
func (c *Client) ensureConnected(ctx context.Context) {
	if c.conn.Dialed() {
		return
	}
	if err := c.Connect(ctx); err != nil {
		c.logger.Debug("initial connect failed", "error", err)
	}
}

// rpcClient returns the service client, connecting first if needed.
func (c *Client) rpcClient(ctx context.Context) (rpc.SkyleClient, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	c.ensureConnected(ctx)
	return c.conn.Client()
}

// IsConnected reports whether the connection is Ready.
func (c *Client) IsConnected() bool {
	return c.conn.State() == connection.StateReady
}

// Available connects if no connection was attempted yet and reports
// whether the device is reachable.
func (c *Client) Available(ctx context.Context) bool {
	if c.closed.Load() {
		return false
	}
	c.ensureConnected(ctx)
	return c.IsConnected()
}

// restart runs after the supervisor reconnected.
func (c *Client) restart(ctx context.Context) {
	c.watchdog.Start()
	kinds := c.mux.Restart()
	resumed := c.session.Restart()

	if opts := c.lastOptions.Load(); opts != nil {
		if _, err := c.configure(ctx, opts); err != nil {
			c.logger.Warn("options not restored", "error", err)
		}
	}
	c.logger.Info("streams resumed", "kinds", kinds, "calibration", resumed)
}

// Close stops every background task and releases the connection. It is
// safe to call more than once.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	c.arena.Close()
	c.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := c.supervisor.Stop(ctx); err != nil {
		c.logger.Warn("reconnect attempt still running", "error", err)
	}
	c.watchdog.Wait()
	c.mux.Wait()
	c.session.Wait()

	err := c.conn.Close()
	if errors.Is(err, connection.ErrAlreadyClosed) {
		err = nil
	}
	c.logger.Info("client closed")
	return err
}

// SubscribeConnected registers fn for connectivity changes.
func (c *Client) SubscribeConnected(fn func(connected bool)) uuid.UUID {
	return c.connected.Subscribe(fn)
}

// SubscribeGaze registers fn for gaze points and starts the gaze stream.
func (c *Client) SubscribeGaze(fn func(Point)) uuid.UUID {
	id := c.gaze.Subscribe(fn)
	c.ensureStream(stream.KindGaze)
	return id
}

// SubscribePositioning registers fn for positioning samples and starts
// the positioning stream.
func (c *Client) SubscribePositioning(fn func(Positioning)) uuid.UUID {
	id := c.positioning.Subscribe(fn)
	c.ensureStream(stream.KindPositioning)
	return id
}

// SubscribeTrigger registers fn for trigger events and starts the trigger
// stream.
func (c *Client) SubscribeTrigger(fn func(Trigger)) uuid.UUID {
	id := c.trigger.Subscribe(fn)
	c.ensureStream(stream.KindTrigger)
	return id
}

// SubscribeProfiles registers fn for profile listings and starts a
// listing. The listing ends once the device has sent every profile; call
// RefreshProfiles to list again.
func (c *Client) SubscribeProfiles(fn func(Profile)) uuid.UUID {
	id := c.profiles.Subscribe(fn)
	c.ensureStream(stream.KindProfiles)
	return id
}

// RefreshProfiles starts a new profile listing unless one is running.
func (c *Client) RefreshProfiles() bool {
	return c.ensureStream(stream.KindProfiles)
}

// Unsubscribe removes a handler registered by any Subscribe or On method.
// Streams keep running until they fail or the client is closed.
func (c *Client) Unsubscribe(id uuid.UUID) bool {
	return c.gaze.Unsubscribe(id) ||
		c.positioning.Unsubscribe(id) ||
		c.trigger.Unsubscribe(id) ||
		c.profiles.Unsubscribe(id) ||
		c.connected.Unsubscribe(id) ||
		c.session.Points.Unsubscribe(id) ||
		c.session.Finished.Unsubscribe(id)
}

func (c *Client) ensureStream(kind stream.Kind) bool {
	if c.closed.Load() {
		return false
	}
	started, err := c.mux.Ensure(kind)
	if err != nil {
		c.logger.Debug("stream not started", "kind", kind, "error", err)
	}
	return started
}

// StreamStats returns reader statistics for a telemetry kind.
func (c *Client) StreamStats(kind stream.Kind) stream.Stats {
	return c.mux.Stats(kind)
}

// SupervisorStats returns reconnect statistics.
func (c *Client) SupervisorStats() connection.SupervisorStats {
	return c.supervisor.Stats()
}

func (c *Client) openGaze(ctx context.Context) (rpc.Receiver[rpc.Point], error) {
	client, err := c.rpcClient(ctx)
	if err != nil {
		return nil, err
	}
	return client.Gaze(ctx, &rpc.Empty{})
}

func (c *Client) openPositioning(ctx context.Context) (rpc.Receiver[rpc.PositioningMessage], error) {
	client, err := c.rpcClient(ctx)
	if err != nil {
		return nil, err
	}
	return client.Positioning(ctx, &rpc.Empty{})
}

func (c *Client) openTrigger(ctx context.Context) (rpc.Receiver[rpc.TriggerMessage], error) {
	client, err := c.rpcClient(ctx)
	if err != nil {
		return nil, err
	}
	return client.Trigger(ctx, &rpc.Empty{})
}

func (c *Client) openProfiles(ctx context.Context) (rpc.Receiver[rpc.Profile], error) {
	client, err := c.rpcClient(ctx)
	if err != nil {
		return nil, err
	}
	return client.GetProfiles(ctx, &rpc.Empty{})
}
