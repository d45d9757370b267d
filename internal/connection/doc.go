// Package connection owns the transport link to a Skyle device.
//
// It provides:
//   - Conn: one grpc client connection, its reachability State and a
//     state-change wait primitive
//   - Watchdog: a background loop republishing state changes as a single
//     "connected" flag
//   - Supervisor: reacts to "disconnected", keeps at most one reconnect
//     attempt in flight and runs a restart hook after it succeeds
package connection
