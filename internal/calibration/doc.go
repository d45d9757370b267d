// Package calibration runs the calibration dialogue with the device.
//
// A Session owns one bidirectional stream:
//   - Commands go through a bounded FIFO queue; a full queue blocks the
//     caller instead of dropping the command
//   - A writer task drains the queue onto the stream
//   - A reader task classifies device messages into control echoes, point
//     events and quality results, updates State and raises callbacks
//
// Both tasks share one scope. When either ends the scope is cancelled and
// the other follows. Queued commands survive and are sent by the next
// session.
package calibration
