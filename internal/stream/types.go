package stream

import (
	"context"
	"errors"
)

// Kind names a telemetry stream.
type Kind string

const (
	KindGaze        Kind = "gaze"
	KindPositioning Kind = "positioning"
	KindTrigger     Kind = "trigger"
	KindProfiles    Kind = "profiles"
)

// Kinds lists every telemetry kind.
var Kinds = []Kind{KindGaze, KindPositioning, KindTrigger, KindProfiles}

// Errors
var (
	ErrUnknownKind = errors.New("unknown stream kind")
)

// Reader runs one telemetry stream until it ends or ctx is cancelled. A nil
// return means the stream completed normally.
type Reader func(ctx context.Context) error

// Stats contains per-kind reader statistics.
type Stats struct {
	Kind        Kind
	Live        bool
	Subscribers int
	Starts      int64
	Failures    int64
}
