package stream

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.uber.org/atomic"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rickgao/skyle/internal/scope"
)

type registration struct {
	run         Reader
	subscribers func() int
	starts      atomic.Int64
	failures    atomic.Int64
}

// Mux starts and restarts one reader per telemetry kind.
type Mux struct {
	arena  *scope.Arena
	logger *slog.Logger

	mu    sync.RWMutex
	kinds map[Kind]*registration

	wg sync.WaitGroup
}

// NewMux creates a multiplexer whose readers live in arena.
func NewMux(arena *scope.Arena, logger *slog.Logger) *Mux {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mux{
		arena:  arena,
		logger: logger.With("component", "stream"),
		kinds:  make(map[Kind]*registration),
	}
}

// Register binds a reader to kind. subscribers reports how many handlers
// currently want the kind; Restart skips kinds where it returns 0.
func (m *Mux) Register(kind Kind, run Reader, subscribers func() int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kinds[kind] = &registration{run: run, subscribers: subscribers}
}

func (m *Mux) lookup(kind Kind) (*registration, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	reg, ok := m.kinds[kind]
	return reg, ok
}

// Ensure starts the reader of kind unless a live one exists. It reports
// whether a new reader was started.
func (m *Mux) Ensure(kind Kind) (bool, error) {
	reg, ok := m.lookup(kind)
	if !ok {
		return false, ErrUnknownKind
	}

	ctx, cancel, started, err := m.arena.Spawn(string(kind), &m.wg)
	if err != nil || !started {
		return false, err
	}

	reg.starts.Inc()
	go m.run(ctx, cancel, kind, reg)

	m.logger.Debug("reader started", "kind", kind)
	return true, nil
}

func (m *Mux) run(ctx context.Context, cancel context.CancelFunc, kind Kind, reg *registration) {
	defer m.wg.Done()
	defer cancel()

	err := reg.run(ctx)
	switch {
	case err == nil:
		m.logger.Debug("reader completed", "kind", kind)
	case ctx.Err() != nil || isCanceled(err):
		m.logger.Debug("reader cancelled", "kind", kind)
	default:
		reg.failures.Inc()
		m.logger.Warn("reader terminated", "kind", kind, "error", err)
	}
}

// Live reports whether kind has a live reader.
func (m *Mux) Live(kind Kind) bool {
	return m.arena.Live(string(kind))
}

// Cancel stops the reader of kind.
func (m *Mux) Cancel(kind Kind) {
	m.arena.Cancel(string(kind))
}

// Restart starts every registered kind that is not live and has at least
// one subscriber. It returns the kinds it started.
func (m *Mux) Restart() []Kind {
	m.mu.RLock()
	candidates := make([]Kind, 0, len(m.kinds))
	for kind, reg := range m.kinds {
		if reg.subscribers() > 0 {
			candidates = append(candidates, kind)
		}
	}
	m.mu.RUnlock()

	var restarted []Kind
	for _, kind := range candidates {
		if started, _ := m.Ensure(kind); started {
			restarted = append(restarted, kind)
		}
	}
	if len(restarted) > 0 {
		m.logger.Info("readers restarted", "kinds", restarted)
	}
	return restarted
}

// Wait blocks until every reader started so far has exited.
func (m *Mux) Wait() {
	m.wg.Wait()
}

// Stats returns statistics for kind.
func (m *Mux) Stats(kind Kind) Stats {
	reg, ok := m.lookup(kind)
	if !ok {
		return Stats{Kind: kind}
	}
	return Stats{
		Kind:        kind,
		Live:        m.Live(kind),
		Subscribers: reg.subscribers(),
		Starts:      reg.starts.Load(),
		Failures:    reg.failures.Load(),
	}
}

func isCanceled(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	return status.Code(err) == codes.Canceled
}
