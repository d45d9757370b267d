package connection

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.uber.org/atomic"

	"github.com/rickgao/skyle/internal/event"
	"github.com/rickgao/skyle/internal/scope"
)

// WatchdogScope is the arena name of the watchdog loop.
const WatchdogScope = "watchdog"

// StateSource is the part of Conn the watchdog observes.
type StateSource interface {
	State() State
	WaitForStateChange(ctx context.Context, prior State) (State, error)
}

// Watchdog republishes every state change of a StateSource as
// connected = (state == Ready). The loop stops on the first failed wait and
// does not restart itself.
type Watchdog struct {
	source StateSource
	arena  *scope.Arena
	sink   *event.Sink[bool]
	logger *slog.Logger

	wg        sync.WaitGroup
	published atomic.Int64
	loops     atomic.Int64
}

// NewWatchdog creates a watchdog publishing to sink.
func NewWatchdog(source StateSource, arena *scope.Arena, sink *event.Sink[bool], logger *slog.Logger) *Watchdog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watchdog{
		source: source,
		arena:  arena,
		sink:   sink,
		logger: logger.With("component", "watchdog"),
	}
}

// Start launches the loop unless one is already running. It reports
// whether a new loop was started. The baseline state is read before Start
// returns, so any change after that point is published.
func (w *Watchdog) Start() bool {
	ctx, cancel, ok, err := w.arena.Spawn(WatchdogScope, &w.wg)
	if err != nil || !ok {
		return false
	}

	w.loops.Inc()
	go w.run(ctx, cancel, w.source.State())

	w.logger.Debug("watchdog started")
	return true
}

// Running reports whether the loop is live.
func (w *Watchdog) Running() bool {
	return w.arena.Live(WatchdogScope)
}

// Wait blocks until every loop started so far has exited.
func (w *Watchdog) Wait() {
	w.wg.Wait()
}

// Published returns how many connectivity values were published.
func (w *Watchdog) Published() int64 {
	return w.published.Load()
}

// Loops returns how many loops were started.
func (w *Watchdog) Loops() int64 {
	return w.loops.Load()
}

func (w *Watchdog) run(ctx context.Context, cancel context.CancelFunc, prior State) {
	defer w.wg.Done()
	defer cancel()

	for {
		next, err := w.source.WaitForStateChange(ctx, prior)
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, context.Canceled) {
				w.logger.Warn("watchdog stopped", "error", err, "state", prior)
			}
			return
		}

		w.logger.Debug("state changed", "from", prior, "to", next)
		w.published.Inc()
		w.sink.Publish(next == StateReady)
		prior = next
	}
}
