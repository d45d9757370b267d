package simulator

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/rickgao/skyle/internal/rpc"
)

func (d *Device) Gaze(_ *rpc.Empty, s rpc.Sender[rpc.Point]) error {
	d.streamOpened("Gaze")
	return emit(s, d.cfg.GazeInterval, d.gazeAt)
}

func (d *Device) Positioning(_ *rpc.Empty, s rpc.Sender[rpc.PositioningMessage]) error {
	d.streamOpened("Positioning")
	return emit(s, d.cfg.PositioningInterval, func(elapsed time.Duration) *rpc.PositioningMessage {
		drift := int32(elapsed/time.Second) % 10
		return &rpc.PositioningMessage{
			LeftEye:      &rpc.Point{X: 280, Y: 240},
			RightEye:     &rpc.Point{X: 360, Y: 240},
			QualityDepth: drift - 5,
			QualitySides: drift / 2,
			QualityXAxis: drift - 5,
			QualityYAxis: 0,
		}
	})
}

func (d *Device) Trigger(_ *rpc.Empty, s rpc.Sender[rpc.TriggerMessage]) error {
	d.streamOpened("Trigger")
	var n int
	return emit(s, d.cfg.TriggerInterval, func(time.Duration) *rpc.TriggerMessage {
		n++
		return &rpc.TriggerMessage{
			SingleClick: n%3 == 0,
			Fixation:    n%2 == 0,
		}
	})
}

func (d *Device) GetProfiles(_ *rpc.Empty, s rpc.Sender[rpc.Profile]) error {
	d.streamOpened("GetProfiles")
	for _, p := range d.Profiles() {
		if err := s.Send(&p); err != nil {
			return err
		}
	}
	return nil
}

func (d *Device) Configure(_ context.Context, in *rpc.OptionMessage) (*rpc.Options, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if in.Options != nil {
		d.options = cloneOptions(*in.Options)
	}
	out := cloneOptions(d.options)
	return &out, nil
}

func (d *Device) GetButton(context.Context, *rpc.Empty) (*rpc.Button, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	actions := d.actions
	return &rpc.Button{IsPresent: true, ButtonActions: &actions}, nil
}

func (d *Device) SetButton(_ context.Context, in *rpc.ButtonActions) (*rpc.ButtonActions, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.actions = *in
	out := d.actions
	return &out, nil
}

func (d *Device) Reset(_ context.Context, in *rpc.ResetMessage) (*rpc.StatusMessage, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resets = append(d.resets, *in)
	if in.Data {
		d.factoryReset()
	}
	return &rpc.StatusMessage{Success: true}, nil
}

func (d *Device) GetVersions(context.Context, *rpc.Empty) (*rpc.DeviceVersions, error) {
	v := Versions
	return &v, nil
}

func (d *Device) CurrentProfile(context.Context, *rpc.Empty) (*rpc.Profile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.profiles {
		if p.ID == d.current {
			out := p
			return &out, nil
		}
	}
	out := DefaultProfile
	return &out, nil
}

// SetProfile stores a profile and makes it current. ID -1 adds a new
// profile with the next free ID; any other ID replaces that profile.
func (d *Device) SetProfile(_ context.Context, in *rpc.Profile) (*rpc.StatusMessage, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := *in
	if p.ID == -1 {
		var next int32
		for _, existing := range d.profiles {
			if existing.ID >= next {
				next = existing.ID + 1
			}
		}
		p.ID = next
		d.profiles = append(d.profiles, p)
	} else {
		replaced := false
		for i := range d.profiles {
			if d.profiles[i].ID == p.ID {
				d.profiles[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			d.profiles = append(d.profiles, p)
		}
	}

	d.current = p.ID
	return &rpc.StatusMessage{Success: true}, nil
}

// DeleteProfile removes a profile. The default profile cannot be deleted;
// deleting the current profile makes the default current.
func (d *Device) DeleteProfile(_ context.Context, in *rpc.Profile) (*rpc.StatusMessage, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if in.ID == DefaultProfile.ID {
		return &rpc.StatusMessage{Success: false}, nil
	}

	for i, p := range d.profiles {
		if p.ID != in.ID {
			continue
		}
		d.profiles = append(d.profiles[:i], d.profiles[i+1:]...)
		if d.current == in.ID {
			d.current = DefaultProfile.ID
		}
		return &rpc.StatusMessage{Success: true}, nil
	}
	return &rpc.StatusMessage{Success: false}, nil
}

// Calibrate echoes every control. A start directive is followed by one
// point event per target and a final quality result; abort stops it.
func (d *Device) Calibrate(s rpc.CalibrationServerStream) error {
	d.streamOpened("Calibrate")
	ctx := s.Context()

	controls := make(chan *rpc.CalibControl)
	recvErr := make(chan error, 1)
	go func() {
		for {
			m, err := s.Recv()
			if err != nil {
				recvErr <- err
				return
			}
			if m.CalibControl == nil {
				continue
			}
			d.mu.Lock()
			d.controls = append(d.controls, *m.CalibControl)
			d.mu.Unlock()
			select {
			case controls <- m.CalibControl:
			case <-ctx.Done():
				return
			}
		}
	}()

	var (
		run     *calibrationRun
		ticker  *time.Ticker
		targets <-chan time.Time
	)
	stop := func() {
		if ticker != nil {
			ticker.Stop()
		}
		ticker, targets, run = nil, nil, nil
	}
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-recvErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err

		case ctl := <-controls:
			if err := s.Send(&rpc.CalibMessages{CalibControl: ctl}); err != nil {
				return err
			}
			switch {
			case ctl.Abort:
				stop()
			case ctl.Calibrate:
				stop()
				run = newCalibrationRun(ctl, d.cfg.Width, d.cfg.Height)
				ticker = time.NewTicker(d.step())
				targets = ticker.C
			}

		case <-targets:
			msg := run.next()
			if err := s.Send(msg); err != nil {
				return err
			}
			if msg.CalibQuality != nil {
				stop()
			}
		}
	}
}

func (d *Device) step() time.Duration {
	if d.cfg.CalibrationStep <= 0 {
		return 500 * time.Millisecond
	}
	return d.cfg.CalibrationStep
}
