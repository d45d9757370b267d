package relay

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/skyle"
)

// Frame types.
const (
	FrameGaze        = "gaze"
	FramePositioning = "positioning"
	FrameTrigger     = "trigger"
	FrameConnected   = "connected"
	FrameStatus      = "status"
)

// Config holds relay configuration.
type Config struct {
	SendBuffer   int           // Queued frames per client (default: 64)
	WriteTimeout time.Duration // Per-write deadline (default: 5s)
	PingInterval time.Duration // Keepalive ping period, 0 disables (default: 15s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		SendBuffer:   64,
		WriteTimeout: 5 * time.Second,
		PingInterval: 15 * time.Second,
	}
}

// Frame is one message sent to websocket clients.
type Frame struct {
	Type    string          `json:"type"`
	Time    time.Time       `json:"time"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Source is the part of the client the relay subscribes to.
type Source interface {
	SubscribeConnected(fn func(bool)) uuid.UUID
	SubscribeGaze(fn func(skyle.Point)) uuid.UUID
	SubscribePositioning(fn func(skyle.Positioning)) uuid.UUID
	SubscribeTrigger(fn func(skyle.Trigger)) uuid.UUID
	Unsubscribe(id uuid.UUID) bool
}

// Stats contains relay statistics.
type Stats struct {
	Clients   int
	Frames    int64
	Delivered int64
	Evicted   int64
}

type health struct {
	Connected bool `json:"connected"`
	Clients   int  `json:"clients"`
}
