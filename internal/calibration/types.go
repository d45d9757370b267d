package calibration

import (
	"errors"
	"fmt"

	"github.com/rickgao/skyle/internal/rpc"
)

// Scope is the arena name of the calibration session.
const Scope = "calibration"

// Errors
var (
	ErrProtocolViolation = errors.New("calibration message without payload")
)

// CommandKind is the kind of a calibration directive.
type CommandKind int

const (
	CommandStart CommandKind = iota
	CommandAbort
	CommandStopHID
)

func (k CommandKind) String() string {
	switch k {
	case CommandStart:
		return "start"
	case CommandAbort:
		return "abort"
	case CommandStopHID:
		return "stop_hid"
	default:
		return "unknown"
	}
}

// Command is one calibration directive.
type Command struct {
	Kind   CommandKind
	Points int
	Width  int
	Height int
}

// Start builds a start directive for a 9 point calibration, or 5 points
// when fivePoint is set.
func Start(width, height int, fivePoint bool) Command {
	points := 9
	if fivePoint {
		points = 5
	}
	return Command{Kind: CommandStart, Points: points, Width: width, Height: height}
}

// Abort builds an abort directive.
func Abort() Command {
	return Command{Kind: CommandAbort}
}

// StopHID builds a directive that stops HID mouse control.
func StopHID() Command {
	return Command{Kind: CommandStopHID}
}

func (c Command) String() string {
	if c.Kind == CommandStart {
		return fmt.Sprintf("start(%d points, %dx%d)", c.Points, c.Width, c.Height)
	}
	return c.Kind.String()
}

// Wire converts the command to its stream message.
func (c Command) Wire() *rpc.CalibControlMessages {
	ctl := &rpc.CalibControl{}
	switch c.Kind {
	case CommandStart:
		ctl.Calibrate = true
		ctl.NumberOfPoints = int32(c.Points)
		ctl.Res = &rpc.ScreenResolution{Width: int32(c.Width), Height: int32(c.Height)}
	case CommandAbort:
		ctl.Abort = true
	case CommandStopHID:
		ctl.StopHID = true
	}
	return &rpc.CalibControlMessages{CalibControl: ctl}
}

// Target is a calibration point the user should look at.
type Target struct {
	Index int
	X     float64
	Y     float64
}

// Result is the outcome of a finished calibration.
type Result struct {
	Quality  float64
	PerPoint []float64
}

// Config holds session configuration.
type Config struct {
	QueueSize int // Command queue capacity (default: 5)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{QueueSize: 5}
}

// Stats contains session statistics.
type Stats struct {
	Live     bool
	Pending  int
	Opened   int64
	Sent     int64
	Received int64
}
