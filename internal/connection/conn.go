package connection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/backoff"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rickgao/skyle/internal/rpc"
)

// Conn owns the grpc connection to one device. The underlying
// grpc.ClientConn is created on the first Connect and lives until Close.
type Conn struct {
	cfg    Config
	logger *slog.Logger

	mu     sync.Mutex
	cc     *grpc.ClientConn
	client rpc.SkyleClient
	closed bool
}

// NewConn creates a connection that has not been dialed yet.
func NewConn(cfg Config, logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.ReconnectBaseDelay <= 0 {
		cfg.ReconnectBaseDelay = def.ReconnectBaseDelay
	}
	if cfg.ReconnectMaxDelay < cfg.ReconnectBaseDelay {
		cfg.ReconnectMaxDelay = max(def.ReconnectMaxDelay, cfg.ReconnectBaseDelay)
	}
	if cfg.MinConnectTimeout <= 0 {
		cfg.MinConnectTimeout = def.MinConnectTimeout
	}
	return &Conn{
		cfg:    cfg,
		logger: logger.With("component", "connection", "target", cfg.Target),
	}
}

// Connect starts connecting and blocks until the link is Ready, the
// timeout elapses or ctx is done. A zero timeout waits without limit.
func (c *Conn) Connect(ctx context.Context, timeout time.Duration) error {
	cc, err := c.dial()
	if err != nil {
		return err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cc.Connect()
	for {
		s := cc.GetState()
		switch s {
		case connectivity.Ready:
			return nil
		case connectivity.Shutdown:
			return ErrShutdown
		case connectivity.Idle:
			cc.Connect()
		}

		if !cc.WaitForStateChange(ctx, s) {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w after %s (state %s)", ErrConnectTimeout, timeout, stateOf(s))
			}
			return ctx.Err()
		}
	}
}

// Dial creates the client connection without waiting for the link.
// Repeated calls are no-ops.
func (c *Conn) Dial() error {
	_, err := c.dial()
	return err
}

// dial creates the grpc client connection once. grpc.NewClient does not
// perform I/O.
func (c *Conn) dial() (*grpc.ClientConn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrAlreadyClosed
	}
	if c.cc != nil {
		return c.cc, nil
	}

	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		rpc.DialOption(),
		grpc.WithConnectParams(grpc.ConnectParams{
			Backoff: backoff.Config{
				BaseDelay:  c.cfg.ReconnectBaseDelay,
				Multiplier: backoff.DefaultConfig.Multiplier,
				Jitter:     backoff.DefaultConfig.Jitter,
				MaxDelay:   c.cfg.ReconnectMaxDelay,
			},
			MinConnectTimeout: c.cfg.MinConnectTimeout,
		}),
	}
	opts = append(opts, c.cfg.DialOptions...)

	cc, err := grpc.NewClient(c.cfg.Target, opts...)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	c.cc = cc
	c.client = rpc.NewSkyleClient(cc)
	c.logger.Debug("client connection created")
	return cc, nil
}

// Dialed reports whether a connection attempt was ever made.
func (c *Conn) Dialed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cc != nil
}

// State returns the current reachability. Before the first Connect it is
// StateIdle.
func (c *Conn) State() State {
	c.mu.Lock()
	cc := c.cc
	c.mu.Unlock()
	if cc == nil {
		return StateIdle
	}
	return stateOf(cc.GetState())
}

// WaitForStateChange blocks until the state differs from prior and returns
// the new state. It fails when ctx is done, when the connection was never
// dialed, or once the connection has shut down.
func (c *Conn) WaitForStateChange(ctx context.Context, prior State) (State, error) {
	c.mu.Lock()
	cc := c.cc
	c.mu.Unlock()
	if cc == nil {
		return prior, ErrNotConnected
	}
	if prior == StateShutdown {
		return prior, ErrShutdown
	}

	if !cc.WaitForStateChange(ctx, prior.grpc()) {
		return prior, ctx.Err()
	}
	return stateOf(cc.GetState()), nil
}

// Client returns the service client bound to this connection.
func (c *Conn) Client() (rpc.SkyleClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrAlreadyClosed
	}
	if c.client == nil {
		return nil, ErrNotConnected
	}
	return c.client, nil
}

// Close releases the transport. Subsequent calls return ErrAlreadyClosed.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrAlreadyClosed
	}
	c.closed = true

	if c.cc == nil {
		return nil
	}
	err := c.cc.Close()
	c.logger.Debug("client connection closed")
	return err
}
