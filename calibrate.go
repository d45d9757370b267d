package skyle

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"

	"github.com/rickgao/skyle/internal/calibration"
	"github.com/rickgao/skyle/internal/rpc"
)

// Calibrate starts a 9 point calibration, or a 5 point one when fivePoint
// is set, for a screen of width x height pixels. It connects first if no
// connection was attempted yet. The command is queued even if the device
// is unreachable and is sent once the connection is Ready. Calibrate blocks
// while the command queue is full and returns ctx.Err() if ctx ends first.
func (c *Client) Calibrate(ctx context.Context, width, height int, fivePoint bool) error {
	return c.submit(ctx, calibration.Start(width, height, fivePoint))
}

// Abort aborts a running calibration.
func (c *Client) Abort(ctx context.Context) error {
	return c.submit(ctx, calibration.Abort())
}

// StopHID stops mouse control by the device.
func (c *Client) StopHID(ctx context.Context) error {
	return c.submit(ctx, calibration.StopHID())
}

func (c *Client) submit(ctx context.Context, cmd calibration.Command) error {
	if c.closed.Load() {
		return ErrClosed
	}
	c.ensureConnected(ctx)
	return c.session.Submit(ctx, cmd)
}

func (c *Client) openCalibration(ctx context.Context) (rpc.CalibrationStream, error) {
	client, err := c.conn.Client()
	if err != nil {
		return nil, err
	}
	return client.Calibrate(ctx, grpc.WaitForReady(true))
}

// Calibrating reports whether the device acknowledged a calibration that
// has not finished yet.
func (c *Client) Calibrating() bool {
	return c.session.Calibrating()
}

// CurrentPoint returns the index of the current calibration target.
func (c *Client) CurrentPoint() int {
	return c.session.CurrentPoint()
}

// Quality returns the overall quality of the last calibration.
func (c *Client) Quality() float64 {
	return c.session.Quality()
}

// QualityList returns the per-point quality of the last calibration.
func (c *Client) QualityList() []float64 {
	return c.session.QualityList()
}

// OnCalibrationPoint registers fn for every new calibration target.
func (c *Client) OnCalibrationPoint(fn func(Point)) uuid.UUID {
	return c.session.Points.Subscribe(func(t calibration.Target) {
		fn(Point{X: t.X, Y: t.Y})
	})
}

// OnCalibrationFinished registers fn for finished calibrations.
func (c *Client) OnCalibrationFinished(fn func(Quality)) uuid.UUID {
	return c.session.Finished.Subscribe(func(r calibration.Result) {
		fn(Quality{Overall: r.Quality, PerPoint: r.PerPoint})
	})
}

// CalibrationStats returns calibration session statistics.
func (c *Client) CalibrationStats() calibration.Stats {
	return c.session.Stats()
}
