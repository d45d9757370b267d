package recorder

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rickgao/skyle"
)

const (
	insertGaze = `
		INSERT INTO gaze_samples (session_id, received_at, x, y)
		VALUES ($1, $2, $3, $4)`
	insertPositioning = `
		INSERT INTO positioning_samples (session_id, received_at, left_x, left_y, right_x, right_y,
			quality_depth, quality_sides, quality_x, quality_y)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	insertTrigger = `
		INSERT INTO trigger_events (session_id, received_at, single_click, double_click, hold_click, fixation)
		VALUES ($1, $2, $3, $4, $5, $6)`
)

// Recorder persists telemetry of one device into PostgreSQL. Each run is a
// recording session identified by a UUID.
type Recorder struct {
	cfg    Config
	source Source
	db     DB
	device string
	logger *slog.Logger

	session uuid.UUID
	input   *Buffer[sample]
	subs    []uuid.UUID
	now     func() time.Time

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// flushMu serializes flushes; statsMu guards stats.
	flushMu sync.Mutex
	statsMu sync.Mutex
	stats   Stats
}

// New creates a recorder for the telemetry of source.
func New(cfg Config, source Source, db DB, device string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if len(cfg.Streams) == 0 {
		cfg.Streams = def.Streams
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = def.FlushInterval
	}
	if cfg.BufferSize < cfg.BatchSize {
		cfg.BufferSize = max(def.BufferSize, cfg.BatchSize)
	}

	session := uuid.New()
	return &Recorder{
		cfg:     cfg,
		source:  source,
		db:      db,
		device:  device,
		logger:  logger.With("component", "recorder", "session", session),
		session: session,
		input:   NewBuffer[sample](min(cfg.BatchSize, cfg.BufferSize), cfg.BufferSize),
		now:     time.Now,
		stats:   Stats{Session: session},
	}
}

// Session returns the recording session ID.
func (r *Recorder) Session() uuid.UUID {
	return r.session
}

// Start registers the session and subscribes to the configured streams.
func (r *Recorder) Start(ctx context.Context) error {
	if r.cancel != nil {
		return ErrAlreadyStarted
	}

	if _, err := r.db.Exec(ctx,
		`INSERT INTO recording_sessions (id, device, started_at) VALUES ($1, $2, $3)`,
		r.session, r.device, r.now()); err != nil {
		return fmt.Errorf("register session: %w", err)
	}

	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.consumeLoop()

	if slices.Contains(r.cfg.Streams, StreamGaze) {
		r.subs = append(r.subs, r.source.SubscribeGaze(func(p skyle.Point) {
			r.push(sample{stream: StreamGaze, gaze: p})
		}))
	}
	if slices.Contains(r.cfg.Streams, StreamPositioning) {
		r.subs = append(r.subs, r.source.SubscribePositioning(func(p skyle.Positioning) {
			r.push(sample{stream: StreamPositioning, position: p})
		}))
	}
	if slices.Contains(r.cfg.Streams, StreamTrigger) {
		r.subs = append(r.subs, r.source.SubscribeTrigger(func(t skyle.Trigger) {
			r.push(sample{stream: StreamTrigger, trigger: t})
		}))
	}

	r.logger.Info("recorder started",
		"streams", r.cfg.Streams,
		"batch_size", r.cfg.BatchSize,
		"flush_interval", r.cfg.FlushInterval,
	)
	return nil
}

// Stop unsubscribes, writes what is buffered and closes the session.
func (r *Recorder) Stop(ctx context.Context) error {
	r.logger.Info("stopping recorder")

	for _, id := range r.subs {
		r.source.Unsubscribe(id)
	}
	r.subs = nil
	r.input.Close()

	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		r.logger.Warn("recorder stop timed out")
	}

	// Final flush
	for r.input.Len() > 0 {
		if err := r.flush(ctx); err != nil {
			break
		}
	}

	if _, err := r.db.Exec(ctx,
		`UPDATE recording_sessions SET stopped_at = $2 WHERE id = $1`,
		r.session, r.now()); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	r.logger.Info("recorder stopped", "inserts", r.Stats().Inserts)
	return nil
}

// Stats returns current statistics.
func (r *Recorder) Stats() Stats {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	s := r.stats
	s.Dropped = r.input.Stats().Dropped
	s.Buffered = r.input.Len()
	return s
}

// push runs on the client's dispatch goroutine and must not block.
func (r *Recorder) push(s sample) {
	s.receivedAt = r.now()
	r.input.Send(s)
}

// consumeLoop flushes when a batch is full or the flush interval elapses.
func (r *Recorder) consumeLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.flush(r.ctx)
		case <-r.input.Ready():
			if r.input.Len() >= r.cfg.BatchSize {
				r.flush(r.ctx)
			}
		}
	}
}

// flush writes up to one batch.
func (r *Recorder) flush(ctx context.Context) error {
	r.flushMu.Lock()
	defer r.flushMu.Unlock()

	rows := r.input.DrainTo(r.cfg.BatchSize)
	if len(rows) == 0 {
		return nil
	}

	start := time.Now()
	if err := r.batchInsert(ctx, rows); err != nil {
		r.logger.Error("batch insert failed", "error", err, "count", len(rows))
		r.statsMu.Lock()
		r.stats.Errors++
		r.statsMu.Unlock()
		return err
	}

	r.statsMu.Lock()
	r.stats.Inserts += int64(len(rows))
	r.stats.Flushes++
	r.statsMu.Unlock()

	r.logger.Debug("flushed samples", "count", len(rows), "duration", time.Since(start))
	return nil
}

// batchInsert sends every row in one pgx.Batch.
func (r *Recorder) batchInsert(ctx context.Context, rows []sample) error {
	batch := &pgx.Batch{}
	for _, s := range rows {
		switch s.stream {
		case StreamGaze:
			batch.Queue(insertGaze, r.session, s.receivedAt, s.gaze.X, s.gaze.Y)
		case StreamPositioning:
			p := s.position
			batch.Queue(insertPositioning, r.session, s.receivedAt,
				p.LeftEye.X, p.LeftEye.Y, p.RightEye.X, p.RightEye.Y,
				p.QualityDepth, p.QualitySides, p.QualityXAxis, p.QualityYAxis)
		case StreamTrigger:
			t := s.trigger
			batch.Queue(insertTrigger, r.session, s.receivedAt,
				t.SingleClick, t.DoubleClick, t.HoldClick, t.Fixation)
		}
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range batch.Len() {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}
