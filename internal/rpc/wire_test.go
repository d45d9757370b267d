package rpc

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

func TestProfile_NegativeID(t *testing.T) {
	in := &Profile{ID: -1, Name: "new", Skill: SkillHigh}
	b := in.AppendWire(nil)

	// tag + 10-byte sign-extended varint
	num, typ, n := protowire.ConsumeTag(b)
	if num != 1 || typ != protowire.VarintType {
		t.Fatalf("first field = (%d, %d), want (1, varint)", num, typ)
	}
	_, m := protowire.ConsumeVarint(b[n:])
	if m != 10 {
		t.Errorf("ID varint length = %d, want 10", m)
	}

	var out Profile
	if err := out.UnmarshalWire(b); err != nil {
		t.Fatalf("UnmarshalWire failed: %v", err)
	}
	if out != *in {
		t.Errorf("decoded = %+v, want %+v", out, *in)
	}
}

func TestProfile_DefaultOmitsZeroFields(t *testing.T) {
	in := &Profile{ID: 0, Name: "Default", Skill: SkillLow}
	b := in.AppendWire(nil)

	want := protowire.AppendTag(nil, 2, protowire.BytesType)
	want = protowire.AppendString(want, "Default")
	if !reflect.DeepEqual(b, want) {
		t.Errorf("encoded = %x, want %x", b, want)
	}
}

func TestCalibMessages_Oneof(t *testing.T) {
	tests := []struct {
		name string
		msg  *CalibMessages
	}{
		{
			name: "control",
			msg: &CalibMessages{CalibControl: &CalibControl{
				Calibrate:      true,
				NumberOfPoints: 9,
				Res:            &ScreenResolution{Width: 1920, Height: 1080},
			}},
		},
		{
			name: "point",
			msg:  &CalibMessages{CalibPoint: &CalibPoint{Count: 3, CurrentPoint: &Point{X: 960, Y: 540}}},
		},
		{
			name: "quality",
			msg:  &CalibMessages{CalibQuality: &CalibQuality{Quality: 0.8, Qualitys: []float64{0.9, 0.7, 0.8}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out CalibMessages
			if err := out.UnmarshalWire(tt.msg.AppendWire(nil)); err != nil {
				t.Fatalf("UnmarshalWire failed: %v", err)
			}
			if !reflect.DeepEqual(&out, tt.msg) {
				t.Errorf("decoded = %+v, want %+v", out, tt.msg)
			}
		})
	}
}

func TestCalibMessages_LastMemberWins(t *testing.T) {
	b := (&CalibMessages{CalibControl: &CalibControl{Abort: true}}).AppendWire(nil)
	b = (&CalibMessages{CalibPoint: &CalibPoint{Count: 2}}).AppendWire(b)

	var out CalibMessages
	if err := out.UnmarshalWire(b); err != nil {
		t.Fatalf("UnmarshalWire failed: %v", err)
	}
	if out.CalibControl != nil {
		t.Error("expected CalibControl to be cleared by a later member")
	}
	if out.CalibPoint == nil || out.CalibPoint.Count != 2 {
		t.Errorf("CalibPoint = %+v, want Count 2", out.CalibPoint)
	}
}

func TestCalibQuality_UnpackedQualitys(t *testing.T) {
	var b []byte
	for _, q := range []float64{0.5, 0.25} {
		b = protowire.AppendTag(b, 2, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, math.Float64bits(q))
	}

	var out CalibQuality
	if err := out.UnmarshalWire(b); err != nil {
		t.Fatalf("UnmarshalWire failed: %v", err)
	}
	if !reflect.DeepEqual(out.Qualitys, []float64{0.5, 0.25}) {
		t.Errorf("Qualitys = %v, want [0.5 0.25]", out.Qualitys)
	}
}

func TestUnmarshal_SkipsUnknownFields(t *testing.T) {
	b := protowire.AppendTag(nil, 15, protowire.BytesType)
	b = protowire.AppendString(b, "future field")
	b = (&StatusMessage{Success: true}).AppendWire(b)

	var out StatusMessage
	if err := out.UnmarshalWire(b); err != nil {
		t.Fatalf("UnmarshalWire failed: %v", err)
	}
	if !out.Success {
		t.Error("expected Success after skipping unknown field")
	}
}

func TestUnmarshal_WrongWireType(t *testing.T) {
	b := protowire.AppendTag(nil, 1, protowire.BytesType)
	b = protowire.AppendString(b, "not a double")

	var out Point
	err := out.UnmarshalWire(b)
	if !errors.Is(err, ErrWireType) {
		t.Errorf("UnmarshalWire error = %v, want ErrWireType", err)
	}
}

func TestUnmarshal_Truncated(t *testing.T) {
	b := (&DeviceVersions{Firmware: "v1.2.3", Serial: 42}).AppendWire(nil)

	var out DeviceVersions
	if err := out.UnmarshalWire(b[:len(b)-1]); err == nil {
		t.Error("expected error for truncated message")
	}
}

func TestCodec(t *testing.T) {
	c := Codec{}
	if c.Name() != CodecName {
		t.Errorf("Name() = %q, want %q", c.Name(), CodecName)
	}

	in := &OptionMessage{Options: &Options{Stream: true, Res: &ScreenResolution{Width: 2560, Height: 1440}}}
	data, err := c.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var out OptionMessage
	if err := c.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(&out, in) {
		t.Errorf("decoded = %+v, want %+v", out, in)
	}

	if _, err := c.Marshal("plain string"); !errors.Is(err, ErrNotMessage) {
		t.Errorf("Marshal(string) error = %v, want ErrNotMessage", err)
	}
}

func TestOptionMessage_ReadOnlyQuery(t *testing.T) {
	b := (&OptionMessage{}).AppendWire(nil)
	if len(b) != 0 {
		t.Errorf("empty OptionMessage encoded to %d bytes, want 0", len(b))
	}

	var out OptionMessage
	if err := out.UnmarshalWire(b); err != nil {
		t.Fatalf("UnmarshalWire failed: %v", err)
	}
	if out.Options != nil {
		t.Error("expected nil Options for a read-only query")
	}
}
