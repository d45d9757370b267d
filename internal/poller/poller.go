package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/skyle"
)

// Device is the part of the client the poller reads from.
type Device interface {
	IsConnected() bool
	Status(ctx context.Context) *skyle.Status
	CurrentProfile(ctx context.Context) *skyle.Profile
	Button(ctx context.Context) *skyle.Button
}

// Snapshot is the device state observed in one poll cycle. Fields the
// device did not answer are nil.
type Snapshot struct {
	Time      time.Time      `json:"time"`
	Connected bool           `json:"connected"`
	Status    *skyle.Status  `json:"status,omitempty"`
	Profile   *skyle.Profile `json:"profile,omitempty"`
	Button    *skyle.Button  `json:"button,omitempty"`
}

// Complete reports whether every request was answered.
func (s Snapshot) Complete() bool {
	return s.Status != nil && s.Profile != nil && s.Button != nil
}

// SnapshotHandler receives polled snapshots.
type SnapshotHandler interface {
	HandleSnapshot(snapshot Snapshot) error
}

// SnapshotHandlerFunc is a function adapter for SnapshotHandler.
type SnapshotHandlerFunc func(Snapshot) error

func (f SnapshotHandlerFunc) HandleSnapshot(s Snapshot) error {
	return f(s)
}

// Config holds poller configuration.
type Config struct {
	Interval time.Duration // Poll interval (default: 10s)
	Timeout  time.Duration // Per-cycle timeout (default: 5s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: 10 * time.Second,
		Timeout:  5 * time.Second,
	}
}

// Stats contains poller statistics.
type Stats struct {
	Polls   int64
	Partial int64
	Skipped int64
	Errors  int64
}

// Poller periodically snapshots device state.
type Poller struct {
	cfg     Config
	device  Device
	handler SnapshotHandler
	logger  *slog.Logger

	polls   atomic.Int64
	partial atomic.Int64
	skipped atomic.Int64
	errors  atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, device Device, handler SnapshotHandler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	return &Poller{
		cfg:     cfg,
		device:  device,
		handler: handler,
		logger:  logger.With("component", "poller"),
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("status poller started", "interval", p.cfg.Interval)
	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("status poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.poll(p.ctx)

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.poll(p.ctx)
		}
	}
}

// Poll takes one snapshot and hands it to the handler.
func (p *Poller) Poll(ctx context.Context) Snapshot {
	return p.poll(ctx)
}

func (p *Poller) poll(ctx context.Context) Snapshot {
	start := time.Now()
	snap := Snapshot{Time: start.UTC(), Connected: p.device.IsConnected()}

	if snap.Connected {
		ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()

		// Each request fills its own field; failures leave it nil.
		var g errgroup.Group
		g.Go(func() error {
			snap.Status = p.device.Status(ctx)
			return nil
		})
		g.Go(func() error {
			snap.Profile = p.device.CurrentProfile(ctx)
			return nil
		})
		g.Go(func() error {
			snap.Button = p.device.Button(ctx)
			return nil
		})
		g.Wait()

		p.polls.Inc()
		if !snap.Complete() {
			p.partial.Inc()
		}
	} else {
		p.skipped.Inc()
	}

	if p.handler != nil {
		if err := p.handler.HandleSnapshot(snap); err != nil {
			p.errors.Inc()
			p.logger.Warn("snapshot handler failed", "err", err)
		}
	}

	p.logger.Debug("poll cycle complete",
		"connected", snap.Connected,
		"complete", snap.Complete(),
		"duration", time.Since(start),
	)
	return snap
}

// Stats returns poller statistics.
func (p *Poller) Stats() Stats {
	return Stats{
		Polls:   p.polls.Load(),
		Partial: p.partial.Load(),
		Skipped: p.skipped.Load(),
		Errors:  p.errors.Load(),
	}
}
