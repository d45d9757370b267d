package connection

import (
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
)

// Errors
var (
	ErrNotConnected   = errors.New("not connected")
	ErrConnectTimeout = errors.New("connect timeout")
	ErrShutdown       = errors.New("connection shut down")
	ErrAlreadyClosed  = errors.New("already closed")
)

// State is the reachability of the device link.
type State int

// The values mirror grpc connectivity states so conversion is a cast.
const (
	StateIdle State = iota
	StateConnecting
	StateReady
	StateTransientFailure
	StateShutdown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateTransientFailure:
		return "transient_failure"
	case StateShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

func stateOf(s connectivity.State) State {
	return State(s)
}

func (s State) grpc() connectivity.State {
	return connectivity.State(s)
}

// Config holds connection configuration.
type Config struct {
	Target             string        // grpc target, e.g. "skyle.local:50052"
	ReconnectBaseDelay time.Duration // Initial transport backoff (default: 1s)
	ReconnectMaxDelay  time.Duration // Maximum transport backoff (default: 30s)
	MinConnectTimeout  time.Duration // Per-attempt dial timeout (default: 3s)
	DialOptions        []grpc.DialOption
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Target:             "skyle.local:50052",
		ReconnectBaseDelay: 1 * time.Second,
		ReconnectMaxDelay:  30 * time.Second,
		MinConnectTimeout:  3 * time.Second,
	}
}

// SupervisorState is the state of the reconnection supervisor.
type SupervisorState int32

const (
	Stable SupervisorState = iota
	Reconnecting
)

func (s SupervisorState) String() string {
	if s == Reconnecting {
		return "reconnecting"
	}
	return "stable"
}

// SupervisorStats contains reconnection statistics.
type SupervisorStats struct {
	State       SupervisorState
	Attempts    int64
	Successes   int64
	Failures    int64
	MaxInFlight int32
}
