// Package stream implements the telemetry stream multiplexer.
//
// For each telemetry kind (gaze, positioning, trigger, profile listing):
//   - A reader is started lazily on the first subscriber and at most one
//     reader per kind is live at a time
//   - The reader owns a named scope; a stream error or completion cancels
//     it and no retry happens inside the reader
//   - Restart re-runs the lazy start for every non-live kind that still
//     has subscribers, after the connection is Ready again
package stream
