// Package simulator implements an in-process Skyle device.
//
// The device:
//   - Serves the Skyle service over any net.Listener (grpc)
//   - Keeps profiles, options and button actions in memory
//   - Emits synthetic gaze, positioning and trigger samples on an interval
//   - Runs a scripted calibration dialogue and records every control it
//     receives
//
// It backs the package tests and the `skyle simulate` command.
package simulator
