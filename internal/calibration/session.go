package calibration

import (
	"context"
	"log/slog"
	"sync"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/skyle/internal/event"
	"github.com/rickgao/skyle/internal/rpc"
	"github.com/rickgao/skyle/internal/scope"
)

// Opener opens the calibration stream under ctx. It may block until the
// connection is ready.
type Opener func(ctx context.Context) (rpc.CalibrationStream, error)

// Session is the calibration dialogue with one device.
type Session struct {
	cfg    Config
	open   Opener
	arena  *scope.Arena
	logger *slog.Logger

	queue chan Command

	// State, written only by the reader task.
	control     atomic.Pointer[rpc.CalibControl]
	point       atomic.Pointer[rpc.CalibPoint]
	quality     atomic.Pointer[rpc.CalibQuality]
	calibrating atomic.Bool

	// Points receives every calibration target.
	Points *event.Sink[Target]
	// Finished receives the result of every completed calibration.
	Finished *event.Sink[Result]

	wg       sync.WaitGroup
	used     atomic.Bool
	opened   atomic.Int64
	sent     atomic.Int64
	received atomic.Int64
}

// New creates a session. Nothing is opened until the first Ensure.
func New(cfg Config, open Opener, arena *scope.Arena, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = DefaultConfig().QueueSize
	}
	return &Session{
		cfg:      cfg,
		open:     open,
		arena:    arena,
		logger:   logger.With("component", "calibration"),
		queue:    make(chan Command, cfg.QueueSize),
		Points:   event.NewSink[Target](),
		Finished: event.NewSink[Result](),
	}
}

// Submit ensures the session is open and enqueues cmd.
func (s *Session) Submit(ctx context.Context, cmd Command) error {
	s.Ensure()
	return s.Enqueue(ctx, cmd)
}

// Enqueue appends cmd to the command queue. It blocks while the queue is
// full and returns ctx.Err() if ctx ends first.
func (s *Session) Enqueue(ctx context.Context, cmd Command) error {
	select {
	case s.queue <- cmd:
		s.logger.Debug("command queued", "command", cmd, "pending", len(s.queue))
		return nil
	default:
	}

	s.logger.Debug("command queue full, waiting", "command", cmd)
	select {
	case s.queue <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ensure opens the session unless a live one exists. It reports whether a
// new session was started.
func (s *Session) Ensure() bool {
	ctx, cancel, ok, err := s.arena.Spawn(Scope, &s.wg)
	if err != nil || !ok {
		return false
	}

	s.used.Store(true)
	s.opened.Inc()
	go s.run(ctx, cancel)
	return true
}

// Restart reopens a session that was used before and is no longer live.
func (s *Session) Restart() bool {
	if !s.used.Load() || s.Live() {
		return false
	}
	return s.Ensure()
}

// Live reports whether the session scope is live.
func (s *Session) Live() bool {
	return s.arena.Live(Scope)
}

// Wait blocks until every session started so far has ended.
func (s *Session) Wait() {
	s.wg.Wait()
}

func (s *Session) run(ctx context.Context, cancel context.CancelFunc) {
	defer s.wg.Done()
	defer cancel()

	stream, err := s.open(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("calibration stream not opened", "error", err)
		}
		return
	}
	s.logger.Info("calibration session opened")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return s.write(gctx, stream)
	})
	g.Go(func() error {
		defer cancel()
		return s.read(stream)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		s.logger.Warn("calibration session ended", "error", err)
		return
	}
	s.logger.Info("calibration session closed")
}

// write drains the queue in FIFO order.
func (s *Session) write(ctx context.Context, stream rpc.CalibrationStream) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-s.queue:
			if err := stream.Send(cmd.Wire()); err != nil {
				s.logger.Warn("calibration command lost", "command", cmd, "error", err)
				return err
			}
			s.sent.Inc()
			s.logger.Debug("command sent", "command", cmd)
		}
	}
}

// read classifies device messages until the stream ends.
func (s *Session) read(stream rpc.CalibrationStream) error {
	for {
		msg, err := stream.Recv()
		if err != nil {
			return err
		}
		s.received.Inc()

		switch {
		case msg.CalibControl != nil:
			s.control.Store(msg.CalibControl)
			switch {
			case msg.CalibControl.Abort:
				s.calibrating.Store(false)
			case msg.CalibControl.Calibrate:
				s.calibrating.Store(true)
			}

		case msg.CalibPoint != nil:
			s.point.Store(msg.CalibPoint)
			target := Target{Index: int(msg.CalibPoint.Count)}
			if p := msg.CalibPoint.CurrentPoint; p != nil {
				target.X, target.Y = p.X, p.Y
			}
			s.Points.Publish(target)

		case msg.CalibQuality != nil:
			s.quality.Store(msg.CalibQuality)
			s.calibrating.Store(false)
			s.Finished.Publish(Result{
				Quality:  msg.CalibQuality.Quality,
				PerPoint: append([]float64(nil), msg.CalibQuality.Qualitys...),
			})

		default:
			return ErrProtocolViolation
		}
	}
}

// Calibrating reports whether the device acknowledged a running calibration.
func (s *Session) Calibrating() bool {
	return s.calibrating.Load()
}

// LastControl returns the last control echo, or nil.
func (s *Session) LastControl() *rpc.CalibControl {
	return s.control.Load()
}

// CurrentPoint returns the index of the last announced target.
func (s *Session) CurrentPoint() int {
	if p := s.point.Load(); p != nil {
		return int(p.Count)
	}
	return 0
}

// Quality returns the overall quality of the last calibration.
func (s *Session) Quality() float64 {
	if q := s.quality.Load(); q != nil {
		return q.Quality
	}
	return 0
}

// QualityList returns a copy of the per-point qualities of the last
// calibration.
func (s *Session) QualityList() []float64 {
	if q := s.quality.Load(); q != nil {
		return append([]float64(nil), q.Qualitys...)
	}
	return nil
}

// Stats returns current statistics.
func (s *Session) Stats() Stats {
	return Stats{
		Live:     s.Live(),
		Pending:  len(s.queue),
		Opened:   s.opened.Load(),
		Sent:     s.sent.Load(),
		Received: s.received.Load(),
	}
}
