package simulator

import (
	"context"
	"log/slog"
	"math"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"

	"github.com/rickgao/skyle/internal/rpc"
)

// Config holds simulator configuration.
type Config struct {
	GazeInterval        time.Duration // Gaze sample period (default: 33ms)
	PositioningInterval time.Duration // Positioning sample period (default: 100ms)
	TriggerInterval     time.Duration // Trigger event period (default: 1s)
	CalibrationStep     time.Duration // Delay between calibration targets (default: 500ms)
	Width               int32         // Screen width used for synthetic gaze (default: 1920)
	Height              int32         // Screen height used for synthetic gaze (default: 1080)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		GazeInterval:        33 * time.Millisecond,
		PositioningInterval: 100 * time.Millisecond,
		TriggerInterval:     time.Second,
		CalibrationStep:     500 * time.Millisecond,
		Width:               1920,
		Height:              1080,
	}
}

// Versions reported by every simulated device.
var Versions = rpc.DeviceVersions{
	Firmware:   "v0.0.test",
	Eyetracker: "v0.0.test",
	Calib:      "v0.0.test",
	Base:       "v0.0.test",
	Serial:     1,
	IsDemo:     true,
	SkyleType:  1,
}

// DefaultProfile is the undeletable profile every device starts with.
var DefaultProfile = rpc.Profile{ID: 0, Name: "Default", Skill: rpc.SkillMedium}

// Device is a simulated Skyle device.
type Device struct {
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	profiles []rpc.Profile
	current  int32
	options  rpc.Options
	actions  rpc.ButtonActions
	controls []rpc.CalibControl
	resets   []rpc.ResetMessage
	streams  map[string]int
}

// New creates a device in its factory state.
func New(cfg Config, logger *slog.Logger) *Device {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Device{
		cfg:     cfg,
		logger:  logger.With("component", "simulator"),
		streams: make(map[string]int),
	}
	d.factoryReset()
	return d
}

func (d *Device) factoryReset() {
	d.profiles = []rpc.Profile{DefaultProfile}
	d.current = DefaultProfile.ID
	d.options = rpc.Options{}
	d.actions = rpc.ButtonActions{SingleClick: "leftClick", DoubleClick: "none", HoldClick: "calibrate"}
}

// NewServer returns a grpc server with the device registered.
func (d *Device) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{rpc.ServerOption()}, opts...)
	s := grpc.NewServer(opts...)
	rpc.RegisterSkyleServer(s, d)
	return s
}

// Serve serves the device on lis until ctx is done.
func (d *Device) Serve(ctx context.Context, lis net.Listener) error {
	s := d.NewServer()
	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()
	d.logger.Info("simulator serving", "addr", lis.Addr().String())
	return s.Serve(lis)
}

// Controls returns every calibration control received so far, in order.
func (d *Device) Controls() []rpc.CalibControl {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]rpc.CalibControl(nil), d.controls...)
}

// Profiles returns the stored profiles.
func (d *Device) Profiles() []rpc.Profile {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]rpc.Profile(nil), d.profiles...)
}

// CurrentID returns the active profile id.
func (d *Device) CurrentID() int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Options returns the stored options.
func (d *Device) Options() rpc.Options {
	d.mu.Lock()
	defer d.mu.Unlock()
	return cloneOptions(d.options)
}

// Resets returns the reset requests received so far.
func (d *Device) Resets() []rpc.ResetMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]rpc.ResetMessage(nil), d.resets...)
}

// StreamsOpened returns how many times a stream method was called.
func (d *Device) StreamsOpened(method string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.streams[method]
}

func (d *Device) streamOpened(method string) {
	d.mu.Lock()
	d.streams[method]++
	d.mu.Unlock()
}

func cloneOptions(o rpc.Options) rpc.Options {
	if o.Res != nil {
		res := *o.Res
		o.Res = &res
	}
	return o
}

// gazeAt traces a slow ellipse around the screen centre.
func (d *Device) gazeAt(t time.Duration) *rpc.Point {
	phase := t.Seconds()
	w, h := float64(d.cfg.Width), float64(d.cfg.Height)
	return &rpc.Point{
		X: w/2 + w/4*math.Cos(phase),
		Y: h/2 + h/4*math.Sin(phase),
	}
}

// emit calls next on every tick until the stream context ends.
func emit[T any](s rpc.Sender[T], interval time.Duration, next func(elapsed time.Duration) *T) error {
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	ctx := s.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.Send(next(time.Since(start))); err != nil {
				return err
			}
		}
	}
}
