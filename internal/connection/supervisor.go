package connection

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Connector is the part of Conn the supervisor drives.
type Connector interface {
	Connect(ctx context.Context, timeout time.Duration) error
}

// RestartFunc runs after a successful reconnect.
type RestartFunc func(ctx context.Context)

// Supervisor turns "disconnected" notifications into reconnect attempts.
// A compare-and-set on its state keeps at most one attempt in flight;
// notifications arriving while Reconnecting are dropped.
type Supervisor struct {
	conn    Connector
	restart RestartFunc
	logger  *slog.Logger

	state atomic.Int32

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	wg     sync.WaitGroup

	attempts    atomic.Int64
	successes   atomic.Int64
	failures    atomic.Int64
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

// NewSupervisor creates a supervisor. restart may be nil.
func NewSupervisor(conn Connector, restart RestartFunc, logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	if restart == nil {
		restart = func(context.Context) {}
	}
	return &Supervisor{
		conn:    conn,
		restart: restart,
		logger:  logger.With("component", "supervisor"),
	}
}

// Start enables reconnect handling. Attempts run under ctx.
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	return nil
}

// Stop cancels any in-flight attempt and waits for it to return.
func (s *Supervisor) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HandleConnectivity is the connectivity callback. Only a false value in
// the Stable state starts an attempt; it never blocks the caller.
func (s *Supervisor) HandleConnectivity(connected bool) {
	if connected {
		return
	}

	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}

	if !s.state.CompareAndSwap(int32(Stable), int32(Reconnecting)) {
		return
	}

	s.wg.Add(1)
	go s.reconnect(ctx)
}

func (s *Supervisor) reconnect(ctx context.Context) {
	defer s.wg.Done()

	n := s.inFlight.Inc()
	defer s.inFlight.Dec()
	for {
		m := s.maxInFlight.Load()
		if n <= m || s.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}

	s.attempts.Inc()
	start := time.Now()
	s.logger.Info("reconnecting")

	err := s.conn.Connect(ctx, 0)
	s.state.Store(int32(Stable))

	if err != nil {
		s.failures.Inc()
		if ctx.Err() == nil {
			s.logger.Warn("reconnect failed", "error", err)
		}
		return
	}

	s.successes.Inc()
	s.logger.Info("reconnected", "duration", time.Since(start))
	s.restart(ctx)
}

// State returns the current supervisor state.
func (s *Supervisor) State() SupervisorState {
	return SupervisorState(s.state.Load())
}

// Stats returns current statistics.
func (s *Supervisor) Stats() SupervisorStats {
	return SupervisorStats{
		State:       s.State(),
		Attempts:    s.attempts.Load(),
		Successes:   s.successes.Load(),
		Failures:    s.failures.Load(),
		MaxInFlight: s.maxInFlight.Load(),
	}
}
