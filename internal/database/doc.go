// Package database provides the PostgreSQL connection pool and schema used
// by the telemetry recorder.
//
// Tables:
//   - recording_sessions: one row per recorder run
//   - gaze_samples, positioning_samples, trigger_events: telemetry rows
//     tagged with the recording session ID
//
// All telemetry tables are append-only.
package database
