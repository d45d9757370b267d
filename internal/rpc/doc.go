// Package rpc defines the Skyle device service contract.
//
// It contains:
//   - Message types exchanged with the device (gaze, positioning, trigger,
//     calibration, options, profiles, button, versions)
//   - A protobuf wire encoding for every message, written against protowire
//   - A grpc codec ("proto") that is forced on client and server
//   - Client and server bindings for the Skyle.Skyle service
package rpc
