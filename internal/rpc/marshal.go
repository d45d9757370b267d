package rpc

func (m *Empty) AppendWire(b []byte) []byte { return b }

func (m *Empty) UnmarshalWire(b []byte) error {
	d := decoder{b: b}
	for d.more() {
		d.skip(d.tag())
	}
	return d.err
}

func (m *Point) AppendWire(b []byte) []byte {
	e := encoder{b: b}
	e.double(1, m.X)
	e.double(2, m.Y)
	return e.b
}

func (m *Point) UnmarshalWire(b []byte) error {
	d := decoder{b: b}
	for d.more() {
		switch num, typ := d.tag(); num {
		case 1:
			m.X = d.double(typ)
		case 2:
			m.Y = d.double(typ)
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}

func (m *PositioningMessage) AppendWire(b []byte) []byte {
	e := encoder{b: b}
	if m.LeftEye != nil {
		e.message(1, m.LeftEye)
	}
	if m.RightEye != nil {
		e.message(2, m.RightEye)
	}
	e.int32(3, m.QualityDepth)
	e.int32(4, m.QualitySides)
	e.int32(5, m.QualityXAxis)
	e.int32(6, m.QualityYAxis)
	return e.b
}

func (m *PositioningMessage) UnmarshalWire(b []byte) error {
	d := decoder{b: b}
	for d.more() {
		switch num, typ := d.tag(); num {
		case 1:
			m.LeftEye = new(Point)
			d.message(typ, m.LeftEye)
		case 2:
			m.RightEye = new(Point)
			d.message(typ, m.RightEye)
		case 3:
			m.QualityDepth = d.int32(typ)
		case 4:
			m.QualitySides = d.int32(typ)
		case 5:
			m.QualityXAxis = d.int32(typ)
		case 6:
			m.QualityYAxis = d.int32(typ)
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}

func (m *TriggerMessage) AppendWire(b []byte) []byte {
	e := encoder{b: b}
	e.bool(1, m.SingleClick)
	e.bool(2, m.DoubleClick)
	e.bool(3, m.HoldClick)
	e.bool(4, m.Fixation)
	return e.b
}

func (m *TriggerMessage) UnmarshalWire(b []byte) error {
	d := decoder{b: b}
	for d.more() {
		switch num, typ := d.tag(); num {
		case 1:
			m.SingleClick = d.bool(typ)
		case 2:
			m.DoubleClick = d.bool(typ)
		case 3:
			m.HoldClick = d.bool(typ)
		case 4:
			m.Fixation = d.bool(typ)
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}

func (m *ScreenResolution) AppendWire(b []byte) []byte {
	e := encoder{b: b}
	e.int32(1, m.Width)
	e.int32(2, m.Height)
	e.int32(3, m.WidthInMM)
	e.int32(4, m.HeightInMM)
	return e.b
}

func (m *ScreenResolution) UnmarshalWire(b []byte) error {
	d := decoder{b: b}
	for d.more() {
		switch num, typ := d.tag(); num {
		case 1:
			m.Width = d.int32(typ)
		case 2:
			m.Height = d.int32(typ)
		case 3:
			m.WidthInMM = d.int32(typ)
		case 4:
			m.HeightInMM = d.int32(typ)
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}

func (m *Options) AppendWire(b []byte) []byte {
	e := encoder{b: b}
	e.bool(1, m.Stream)
	e.bool(2, m.DisableMouse)
	e.bool(3, m.Pause)
	e.bool(4, m.Hp)
	if m.Res != nil {
		e.message(5, m.Res)
	}
	return e.b
}

func (m *Options) UnmarshalWire(b []byte) error {
	d := decoder{b: b}
	for d.more() {
		switch num, typ := d.tag(); num {
		case 1:
			m.Stream = d.bool(typ)
		case 2:
			m.DisableMouse = d.bool(typ)
		case 3:
			m.Pause = d.bool(typ)
		case 4:
			m.Hp = d.bool(typ)
		case 5:
			m.Res = new(ScreenResolution)
			d.message(typ, m.Res)
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}

func (m *OptionMessage) AppendWire(b []byte) []byte {
	e := encoder{b: b}
	if m.Options != nil {
		e.message(1, m.Options)
	}
	return e.b
}

func (m *OptionMessage) UnmarshalWire(b []byte) error {
	d := decoder{b: b}
	for d.more() {
		switch num, typ := d.tag(); num {
		case 1:
			m.Options = new(Options)
			d.message(typ, m.Options)
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}

func (m *CalibControl) AppendWire(b []byte) []byte {
	e := encoder{b: b}
	e.bool(1, m.Calibrate)
	e.bool(2, m.Abort)
	e.int32(3, m.NumberOfPoints)
	e.bool(4, m.StopHID)
	if m.Res != nil {
		e.message(5, m.Res)
	}
	return e.b
}

func (m *CalibControl) UnmarshalWire(b []byte) error {
	d := decoder{b: b}
	for d.more() {
		switch num, typ := d.tag(); num {
		case 1:
			m.Calibrate = d.bool(typ)
		case 2:
			m.Abort = d.bool(typ)
		case 3:
			m.NumberOfPoints = d.int32(typ)
		case 4:
			m.StopHID = d.bool(typ)
		case 5:
			m.Res = new(ScreenResolution)
			d.message(typ, m.Res)
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}

func (m *CalibControlMessages) AppendWire(b []byte) []byte {
	e := encoder{b: b}
	if m.CalibControl != nil {
		e.message(1, m.CalibControl)
	}
	return e.b
}

func (m *CalibControlMessages) UnmarshalWire(b []byte) error {
	d := decoder{b: b}
	for d.more() {
		switch num, typ := d.tag(); num {
		case 1:
			m.CalibControl = new(CalibControl)
			d.message(typ, m.CalibControl)
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}

func (m *CalibPoint) AppendWire(b []byte) []byte {
	e := encoder{b: b}
	e.int32(1, m.Count)
	if m.CurrentPoint != nil {
		e.message(2, m.CurrentPoint)
	}
	return e.b
}

func (m *CalibPoint) UnmarshalWire(b []byte) error {
	d := decoder{b: b}
	for d.more() {
		switch num, typ := d.tag(); num {
		case 1:
			m.Count = d.int32(typ)
		case 2:
			m.CurrentPoint = new(Point)
			d.message(typ, m.CurrentPoint)
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}

func (m *CalibQuality) AppendWire(b []byte) []byte {
	e := encoder{b: b}
	e.double(1, m.Quality)
	e.packedDoubles(2, m.Qualitys)
	return e.b
}

func (m *CalibQuality) UnmarshalWire(b []byte) error {
	d := decoder{b: b}
	for d.more() {
		switch num, typ := d.tag(); num {
		case 1:
			m.Quality = d.double(typ)
		case 2:
			m.Qualitys = d.doubles(typ, m.Qualitys)
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}

func (m *CalibMessages) AppendWire(b []byte) []byte {
	e := encoder{b: b}
	switch {
	case m.CalibControl != nil:
		e.message(1, m.CalibControl)
	case m.CalibPoint != nil:
		e.message(2, m.CalibPoint)
	case m.CalibQuality != nil:
		e.message(3, m.CalibQuality)
	}
	return e.b
}

// UnmarshalWire keeps the last oneof member seen, as proto3 does.
func (m *CalibMessages) UnmarshalWire(b []byte) error {
	d := decoder{b: b}
	for d.more() {
		switch num, typ := d.tag(); num {
		case 1:
			*m = CalibMessages{CalibControl: new(CalibControl)}
			d.message(typ, m.CalibControl)
		case 2:
			*m = CalibMessages{CalibPoint: new(CalibPoint)}
			d.message(typ, m.CalibPoint)
		case 3:
			*m = CalibMessages{CalibQuality: new(CalibQuality)}
			d.message(typ, m.CalibQuality)
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}

func (m *ButtonActions) AppendWire(b []byte) []byte {
	e := encoder{b: b}
	e.string(1, m.SingleClick)
	e.string(2, m.DoubleClick)
	e.string(3, m.HoldClick)
	return e.b
}

func (m *ButtonActions) UnmarshalWire(b []byte) error {
	d := decoder{b: b}
	for d.more() {
		switch num, typ := d.tag(); num {
		case 1:
			m.SingleClick = d.string(typ)
		case 2:
			m.DoubleClick = d.string(typ)
		case 3:
			m.HoldClick = d.string(typ)
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}

func (m *Button) AppendWire(b []byte) []byte {
	e := encoder{b: b}
	e.bool(1, m.IsPresent)
	if m.ButtonActions != nil {
		e.message(2, m.ButtonActions)
	}
	return e.b
}

func (m *Button) UnmarshalWire(b []byte) error {
	d := decoder{b: b}
	for d.more() {
		switch num, typ := d.tag(); num {
		case 1:
			m.IsPresent = d.bool(typ)
		case 2:
			m.ButtonActions = new(ButtonActions)
			d.message(typ, m.ButtonActions)
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}

func (m *ResetMessage) AppendWire(b []byte) []byte {
	e := encoder{b: b}
	e.bool(1, m.Data)
	e.bool(2, m.Services)
	e.bool(3, m.Device)
	return e.b
}

func (m *ResetMessage) UnmarshalWire(b []byte) error {
	d := decoder{b: b}
	for d.more() {
		switch num, typ := d.tag(); num {
		case 1:
			m.Data = d.bool(typ)
		case 2:
			m.Services = d.bool(typ)
		case 3:
			m.Device = d.bool(typ)
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}

func (m *StatusMessage) AppendWire(b []byte) []byte {
	e := encoder{b: b}
	e.bool(1, m.Success)
	return e.b
}

func (m *StatusMessage) UnmarshalWire(b []byte) error {
	d := decoder{b: b}
	for d.more() {
		switch num, typ := d.tag(); num {
		case 1:
			m.Success = d.bool(typ)
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}

func (m *DeviceVersions) AppendWire(b []byte) []byte {
	e := encoder{b: b}
	e.string(1, m.Firmware)
	e.string(2, m.Eyetracker)
	e.string(3, m.Calib)
	e.string(4, m.Base)
	e.uint64(5, m.Serial)
	e.bool(6, m.IsDemo)
	e.int32(7, m.SkyleType)
	return e.b
}

func (m *DeviceVersions) UnmarshalWire(b []byte) error {
	d := decoder{b: b}
	for d.more() {
		switch num, typ := d.tag(); num {
		case 1:
			m.Firmware = d.string(typ)
		case 2:
			m.Eyetracker = d.string(typ)
		case 3:
			m.Calib = d.string(typ)
		case 4:
			m.Base = d.string(typ)
		case 5:
			m.Serial = d.varint(typ)
		case 6:
			m.IsDemo = d.bool(typ)
		case 7:
			m.SkyleType = d.int32(typ)
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}

func (m *Profile) AppendWire(b []byte) []byte {
	e := encoder{b: b}
	e.int32(1, m.ID)
	e.string(2, m.Name)
	e.int32(3, int32(m.Skill))
	return e.b
}

func (m *Profile) UnmarshalWire(b []byte) error {
	d := decoder{b: b}
	for d.more() {
		switch num, typ := d.tag(); num {
		case 1:
			m.ID = d.int32(typ)
		case 2:
			m.Name = d.string(typ)
		case 3:
			m.Skill = Skill(d.int32(typ))
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}
