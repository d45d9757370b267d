package rpc

// Empty is the request of parameterless calls.
type Empty struct{}

// Point is a 2D coordinate in screen pixels.
type Point struct {
	X float64
	Y float64
}

// PositioningMessage reports eye positions and positioning quality.
// Quality values range from -50 to +50, 0 being best.
type PositioningMessage struct {
	LeftEye      *Point
	RightEye     *Point
	QualityDepth int32
	QualitySides int32
	QualityXAxis int32
	QualityYAxis int32
}

// TriggerMessage reports button and fixation triggers.
type TriggerMessage struct {
	SingleClick bool
	DoubleClick bool
	HoldClick   bool
	Fixation    bool
}

// ScreenResolution is the display geometry in pixels and millimetres.
type ScreenResolution struct {
	Width      int32
	Height     int32
	WidthInMM  int32
	HeightInMM int32
}

// Options is the device option state.
type Options struct {
	Stream       bool
	DisableMouse bool
	Pause        bool
	Hp           bool
	Res          *ScreenResolution
}

// OptionMessage carries Options to Configure. A nil Options reads the
// current state without changing it.
type OptionMessage struct {
	Options *Options
}

// CalibControl is a calibration control directive and its echo.
type CalibControl struct {
	Calibrate      bool
	Abort          bool
	NumberOfPoints int32
	StopHID        bool
	Res            *ScreenResolution
}

// CalibControlMessages is the client to device message of the calibration stream.
type CalibControlMessages struct {
	CalibControl *CalibControl
}

// CalibPoint announces the next calibration target.
type CalibPoint struct {
	Count        int32
	CurrentPoint *Point
}

// CalibQuality is the result of a finished calibration.
type CalibQuality struct {
	Quality  float64
	Qualitys []float64
}

// CalibMessages is the device to client message of the calibration stream.
// Exactly one field is set on a well formed message.
type CalibMessages struct {
	CalibControl *CalibControl
	CalibPoint   *CalibPoint
	CalibQuality *CalibQuality
}

// ButtonActions holds the action names bound to each click kind.
type ButtonActions struct {
	SingleClick string
	DoubleClick string
	HoldClick   string
}

// Button reports button presence and its actions.
type Button struct {
	IsPresent     bool
	ButtonActions *ButtonActions
}

// ResetMessage selects what the device resets.
type ResetMessage struct {
	Data     bool
	Services bool
	Device   bool
}

// StatusMessage is a plain success flag.
type StatusMessage struct {
	Success bool
}

// DeviceVersions holds firmware versions and device identity.
type DeviceVersions struct {
	Firmware   string
	Eyetracker string
	Calib      string
	Base       string
	Serial     uint64
	IsDemo     bool
	SkyleType  int32
}

// Skill is the profile skill level.
type Skill int32

const (
	SkillLow Skill = iota
	SkillMedium
	SkillHigh
)

// Profile is a user profile stored on the device.
type Profile struct {
	ID    int32
	Name  string
	Skill Skill
}
