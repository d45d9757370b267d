// Package recorder persists device telemetry to PostgreSQL.
//
// The recorder subscribes to gaze, positioning and trigger streams of a
// client. Samples are pushed into a non-blocking Buffer from the dispatch
// goroutine and written in pgx batches by a single consumer:
//   - a batch is flushed when it is full or the flush interval elapses
//   - samples arriving while the buffer is at its limit are dropped and counted
//   - every row carries the recording session UUID
package recorder
