// Package skyle is a client for the Skyle eye tracker.
//
// A Client owns one grpc connection to the device and hides its churn from
// the application:
//   - A watchdog republishes connection state changes as a connectivity flag.
//   - A supervisor reconnects after a drop, at most one attempt at a time,
//     and restarts every telemetry stream that still has subscribers.
//   - Telemetry streams (gaze, positioning, trigger, profiles) start lazily
//     on the first subscriber and dispatch synchronously in arrival order.
//   - Calibration runs over one bidirectional stream fed by a bounded FIFO
//     command queue. A full queue blocks the caller.
//
// One-shot requests return sentinel values (false, nil, empty slice) when
// the device cannot be reached. Check IsConnected to tell the cases apart.
package skyle
