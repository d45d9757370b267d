// Package relay fans device telemetry out to websocket clients.
//
// Every frame is encoded once and queued on each client's bounded send
// buffer. A client whose buffer is full is disconnected instead of
// slowing down the others.
package relay
