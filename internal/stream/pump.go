package stream

import (
	"context"
	"errors"
	"io"

	"github.com/rickgao/skyle/internal/event"
	"github.com/rickgao/skyle/internal/rpc"
)

// Opener opens a server stream under ctx.
type Opener[M any] func(ctx context.Context) (rpc.Receiver[M], error)

// Pump returns a Reader that opens a stream, converts every message and
// publishes it to sink in arrival order. The reader ends on io.EOF (nil),
// on cancellation, or on the first stream error.
func Pump[M, T any](open Opener[M], convert func(*M) T, sink *event.Sink[T]) Reader {
	return func(ctx context.Context) error {
		rx, err := open(ctx)
		if err != nil {
			return err
		}
		for {
			msg, err := rx.Recv()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			sink.Publish(convert(msg))
		}
	}
}
