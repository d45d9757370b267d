// Package poller implements the device status poller.
//
// The poller:
//   - Reads option state, the active profile and the button setup on a fixed interval
//   - Issues the three requests concurrently
//   - Hands one Snapshot per cycle to a handler, skipping the requests while the device is unreachable
package poller
