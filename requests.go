package skyle

import (
	"context"
	"errors"
	"io"

	"github.com/rickgao/skyle/internal/rpc"
)

// call runs one request with the request timeout. Failures are logged at
// debug level; callers turn them into sentinel values.
func (c *Client) call(ctx context.Context, op string, fn func(ctx context.Context, client rpc.SkyleClient) error) error {
	client, err := c.rpcClient(ctx)
	if err == nil {
		reqCtx, cancel := c.requestContext(ctx)
		err = fn(reqCtx, client)
		cancel()
	}
	if err != nil {
		c.logger.Debug("request failed", "op", op, "error", err)
	}
	return err
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opts.requestTimeout > 0 {
		return context.WithTimeout(ctx, c.opts.requestTimeout)
	}
	return context.WithCancel(ctx)
}

// Button returns the button configuration, or nil on failure.
func (c *Client) Button(ctx context.Context) *Button {
	var b *Button
	c.call(ctx, "get_button", func(ctx context.Context, client rpc.SkyleClient) error {
		res, err := client.GetButton(ctx, &rpc.Empty{})
		if err != nil {
			return err
		}
		b = &Button{Present: res.IsPresent}
		if a := res.ButtonActions; a != nil {
			b.SingleClick = ParseButtonAction(a.SingleClick)
			b.DoubleClick = ParseButtonAction(a.DoubleClick)
			b.HoldClick = ParseButtonAction(a.HoldClick)
		}
		return nil
	})
	return b
}

// SetButton binds actions to the button gestures. It reports true only if
// the device echoed exactly the requested actions.
func (c *Client) SetButton(ctx context.Context, single, double, hold ButtonAction) bool {
	var applied bool
	c.call(ctx, "set_button", func(ctx context.Context, client rpc.SkyleClient) error {
		res, err := client.SetButton(ctx, &rpc.ButtonActions{
			SingleClick: single.String(),
			DoubleClick: double.String(),
			HoldClick:   hold.String(),
		})
		if err != nil {
			return err
		}
		applied = ParseButtonAction(res.SingleClick) == single &&
			ParseButtonAction(res.DoubleClick) == double &&
			ParseButtonAction(res.HoldClick) == hold
		return nil
	})
	return applied
}

func (c *Client) configure(ctx context.Context, opts *rpc.Options) (*rpc.Options, error) {
	var echoed *rpc.Options
	err := c.call(ctx, "configure", func(ctx context.Context, client rpc.SkyleClient) error {
		res, err := client.Configure(ctx, &rpc.OptionMessage{Options: opts})
		echoed = res
		return err
	})
	return echoed, err
}

// Status returns the effective option state, or nil on failure. It does
// not change any option.
func (c *Client) Status(ctx context.Context) *Status {
	opts, err := c.configure(ctx, nil)
	if err != nil {
		return nil
	}
	return &Status{
		Stream:        opts.Stream,
		DisableHID:    opts.DisableMouse,
		Pause:         opts.Pause,
		HighPrecision: opts.Hp,
	}
}

// changeOptions applies mutate to the last known options and pushes the
// result. The first change starts from the device's current state.
func (c *Client) changeOptions(ctx context.Context, mutate func(*rpc.Options)) *rpc.Options {
	c.optMu.Lock()
	defer c.optMu.Unlock()

	var next rpc.Options
	if last := c.lastOptions.Load(); last != nil {
		next = cloneOptions(*last)
	} else {
		current, err := c.configure(ctx, nil)
		if err != nil {
			return nil
		}
		next = cloneOptions(*current)
	}
	mutate(&next)

	echoed, err := c.configure(ctx, &next)
	if err != nil {
		return nil
	}
	c.lastOptions.Store(&next)
	return echoed
}

func cloneOptions(o rpc.Options) rpc.Options {
	if o.Res != nil {
		res := *o.Res
		o.Res = &res
	}
	return o
}

// ChangeStream enables or disables the video stream. It returns the
// device's resulting flag, false on failure.
func (c *Client) ChangeStream(ctx context.Context, enable bool) bool {
	opts := c.changeOptions(ctx, func(o *rpc.Options) { o.Stream = enable })
	return opts != nil && opts.Stream
}

// ChangePause enables or disables pausing by looking into the camera. It
// returns the device's resulting flag, false on failure.
func (c *Client) ChangePause(ctx context.Context, enable bool) bool {
	opts := c.changeOptions(ctx, func(o *rpc.Options) { o.Pause = enable })
	return opts != nil && opts.Pause
}

// ChangeHID disables or enables mouse control by the device. It returns
// the device's resulting disable flag, false on failure.
func (c *Client) ChangeHID(ctx context.Context, disable bool) bool {
	opts := c.changeOptions(ctx, func(o *rpc.Options) { o.DisableMouse = disable })
	return opts != nil && opts.DisableMouse
}

// SetScreenResolution sets the screen geometry used for gaze mapping. It
// reports whether the device accepted it.
func (c *Client) SetScreenResolution(ctx context.Context, r Resolution) bool {
	want := rpc.ScreenResolution{
		Width:      int32(r.Width),
		Height:     int32(r.Height),
		WidthInMM:  int32(r.WidthInMM),
		HeightInMM: int32(r.HeightInMM),
	}
	opts := c.changeOptions(ctx, func(o *rpc.Options) {
		res := want
		o.Res = &res
	})
	return opts != nil && opts.Res != nil && *opts.Res == want
}

// ResetDevice resets stored data, services or the whole device.
func (c *Client) ResetDevice(ctx context.Context, data, services, device bool) bool {
	var ok bool
	c.call(ctx, "reset", func(ctx context.Context, client rpc.SkyleClient) error {
		res, err := client.Reset(ctx, &rpc.ResetMessage{Data: data, Services: services, Device: device})
		if err != nil {
			return err
		}
		ok = res.Success
		return nil
	})
	return ok
}

// Versions returns firmware and device information, or nil on failure.
func (c *Client) Versions(ctx context.Context) *DeviceVersions {
	var v *DeviceVersions
	c.call(ctx, "get_versions", func(ctx context.Context, client rpc.SkyleClient) error {
		res, err := client.GetVersions(ctx, &rpc.Empty{})
		if err != nil {
			return err
		}
		v = &DeviceVersions{
			Firmware:    res.Firmware,
			Eyetracking: res.Eyetracker,
			Calibration: res.Calib,
			Base:        res.Base,
			Serial:      res.Serial,
			Demo:        res.IsDemo,
			Type:        DeviceType(res.SkyleType),
		}
		return nil
	})
	return v
}

// Profiles lists every profile stored on the device. On failure it
// returns the profiles received so far.
func (c *Client) Profiles(ctx context.Context) []Profile {
	var out []Profile
	c.call(ctx, "get_profiles", func(ctx context.Context, client rpc.SkyleClient) error {
		rx, err := client.GetProfiles(ctx, &rpc.Empty{})
		if err != nil {
			return err
		}
		for {
			p, err := rx.Recv()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			out = append(out, profileOf(p))
		}
	})
	return out
}

// CurrentProfile returns the active profile, or nil on failure.
func (c *Client) CurrentProfile(ctx context.Context) *Profile {
	var p *Profile
	c.call(ctx, "current_profile", func(ctx context.Context, client rpc.SkyleClient) error {
		res, err := client.CurrentProfile(ctx, &rpc.Empty{})
		if err != nil {
			return err
		}
		current := profileOf(res)
		p = &current
		return nil
	})
	return p
}

// SetProfile stores p and makes it the active profile. A profile from
// NewProfile is added as a new entry.
func (c *Client) SetProfile(ctx context.Context, p Profile) bool {
	var ok bool
	c.call(ctx, "set_profile", func(ctx context.Context, client rpc.SkyleClient) error {
		res, err := client.SetProfile(ctx, p.wire())
		if err != nil {
			return err
		}
		ok = res.Success
		return nil
	})
	return ok
}

// DeleteProfile removes p. The default profile is never deleted.
func (c *Client) DeleteProfile(ctx context.Context, p Profile) bool {
	if p.ID == DefaultProfileID {
		return false
	}
	var ok bool
	c.call(ctx, "delete_profile", func(ctx context.Context, client rpc.SkyleClient) error {
		res, err := client.DeleteProfile(ctx, p.wire())
		if err != nil {
			return err
		}
		ok = res.Success
		return nil
	})
	return ok
}
