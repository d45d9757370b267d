package recorder

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rickgao/skyle"
)

// Stream names accepted in Config.Streams.
const (
	StreamGaze        = "gaze"
	StreamPositioning = "positioning"
	StreamTrigger     = "trigger"
)

// Errors
var (
	ErrAlreadyStarted = errors.New("recorder already started")
)

// Config holds recorder configuration.
type Config struct {
	Streams       []string      // Streams to record (default: all)
	BatchSize     int           // Rows per insert batch (default: 500)
	FlushInterval time.Duration // Max time between flushes (default: 1s)
	BufferSize    int           // Max buffered rows before dropping (default: 4096)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Streams:       []string{StreamGaze, StreamPositioning, StreamTrigger},
		BatchSize:     500,
		FlushInterval: time.Second,
		BufferSize:    4096,
	}
}

// Source is the part of the client the recorder subscribes to.
type Source interface {
	SubscribeGaze(fn func(skyle.Point)) uuid.UUID
	SubscribePositioning(fn func(skyle.Positioning)) uuid.UUID
	SubscribeTrigger(fn func(skyle.Trigger)) uuid.UUID
	Unsubscribe(id uuid.UUID) bool
}

// DB is the part of *pgxpool.Pool the recorder writes through.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Stats contains recorder statistics.
type Stats struct {
	Session  uuid.UUID
	Inserts  int64
	Flushes  int64
	Errors   int64
	Dropped  int64
	Buffered int
}

// sample is one telemetry row waiting to be written.
type sample struct {
	stream     string
	receivedAt time.Time
	gaze       skyle.Point
	position   skyle.Positioning
	trigger    skyle.Trigger
}
