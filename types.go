package skyle

import (
	"errors"

	"github.com/rickgao/skyle/internal/rpc"
)

// ErrClosed is returned by calls made after Close.
var ErrClosed = errors.New("skyle: client closed")

// Point is a screen coordinate in pixels.
type Point struct {
	X float64
	Y float64
}

func pointOf(p *rpc.Point) Point {
	if p == nil {
		return Point{}
	}
	return Point{X: p.X, Y: p.Y}
}

// Positioning is a head positioning sample. Quality values range from -50
// to 50 with 0 being best.
type Positioning struct {
	LeftEye      Point
	RightEye     Point
	QualityDepth int // negative: too far, positive: too close
	QualitySides int
	QualityXAxis int // negative: too far left
	QualityYAxis int // negative: too far down
}

func positioningOf(m *rpc.PositioningMessage) Positioning {
	return Positioning{
		LeftEye:      pointOf(m.LeftEye),
		RightEye:     pointOf(m.RightEye),
		QualityDepth: int(m.QualityDepth),
		QualitySides: int(m.QualitySides),
		QualityXAxis: int(m.QualityXAxis),
		QualityYAxis: int(m.QualityYAxis),
	}
}

// Trigger is a button or fixation event.
type Trigger struct {
	SingleClick bool
	DoubleClick bool
	HoldClick   bool
	Fixation    bool
}

func triggerOf(m *rpc.TriggerMessage) Trigger {
	return Trigger{
		SingleClick: m.SingleClick,
		DoubleClick: m.DoubleClick,
		HoldClick:   m.HoldClick,
		Fixation:    m.Fixation,
	}
}

// ButtonAction is what the device does on a button gesture.
type ButtonAction int

const (
	ActionNone ButtonAction = iota
	ActionUnknown
	ActionLeftClick
	ActionRightClick
	ActionScroll
	ActionCalibrate
	ActionPause
)

var buttonActionNames = map[ButtonAction]string{
	ActionNone:       "none",
	ActionUnknown:    "unknown",
	ActionLeftClick:  "leftClick",
	ActionRightClick: "rightClick",
	ActionScroll:     "scroll",
	ActionCalibrate:  "calibrate",
	ActionPause:      "pause",
}

func (a ButtonAction) String() string {
	if s, ok := buttonActionNames[a]; ok {
		return s
	}
	return "unknown"
}

// ParseButtonAction maps a device action name to a ButtonAction.
// Unrecognized names map to ActionUnknown.
func ParseButtonAction(s string) ButtonAction {
	for a, name := range buttonActionNames {
		if name == s {
			return a
		}
	}
	return ActionUnknown
}

// Button is the button configuration.
type Button struct {
	Present     bool
	SingleClick ButtonAction
	DoubleClick ButtonAction
	HoldClick   ButtonAction
}

// Skill is the user skill level of a profile.
type Skill int

const (
	SkillLow Skill = iota
	SkillMedium
	SkillHigh
)

func (s Skill) String() string {
	switch s {
	case SkillLow:
		return "low"
	case SkillMedium:
		return "medium"
	case SkillHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParseSkill parses "low", "medium" or "high".
func ParseSkill(s string) (Skill, bool) {
	switch s {
	case "low":
		return SkillLow, true
	case "medium":
		return SkillMedium, true
	case "high":
		return SkillHigh, true
	default:
		return SkillMedium, false
	}
}

// Profile IDs with special meaning.
const (
	NewProfileID     int32 = -1 // device assigns the ID on SetProfile
	DefaultProfileID int32 = 0  // never deleted
)

// Profile is a user profile stored on the device.
type Profile struct {
	ID    int32
	Name  string
	Skill Skill
}

// NewProfile returns a profile the device will add as a new entry.
func NewProfile(name string, skill Skill) Profile {
	return Profile{ID: NewProfileID, Name: name, Skill: skill}
}

func profileOf(p *rpc.Profile) Profile {
	return Profile{ID: p.ID, Name: p.Name, Skill: Skill(p.Skill)}
}

func (p Profile) wire() *rpc.Profile {
	return &rpc.Profile{ID: p.ID, Name: p.Name, Skill: rpc.Skill(p.Skill)}
}

// DeviceType is the hardware variant.
type DeviceType int32

const (
	DeviceUnknown   DeviceType = 0
	DeviceGeneral   DeviceType = 1
	DeviceIPadProV2 DeviceType = 2
	DeviceIPadPro   DeviceType = 4
	DeviceCustom    DeviceType = 5
)

func (t DeviceType) String() string {
	switch t {
	case DeviceGeneral:
		return "general"
	case DeviceIPadProV2:
		return "ipad_pro_v2"
	case DeviceIPadPro:
		return "ipad_pro"
	case DeviceCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// DeviceVersions describes firmware and hardware.
type DeviceVersions struct {
	Firmware    string
	Eyetracking string
	Calibration string
	Base        string
	Serial      uint64
	Demo        bool
	Type        DeviceType
}

// Status is the effective option state of the device.
type Status struct {
	Stream        bool // video stream on port 8080
	DisableHID    bool
	Pause         bool
	HighPrecision bool
}

// Resolution is the screen geometry used for gaze mapping.
type Resolution struct {
	Width      int
	Height     int
	WidthInMM  int
	HeightInMM int
}

// Quality is the outcome of a finished calibration.
type Quality struct {
	Overall  float64
	PerPoint []float64
}
