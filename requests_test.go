package skyle

import (
	"context"
	"testing"

	"github.com/rickgao/skyle/internal/rpc"
	"github.com/rickgao/skyle/internal/simulator"
)

func profileIDs(ps []Profile) map[int32]bool {
	ids := make(map[int32]bool, len(ps))
	for _, p := range ps {
		ids[p.ID] = true
	}
	return ids
}

func TestClient_ProfileRules(t *testing.T) {
	rig := newRig(t, true)
	ctx := context.Background()
	c := rig.client

	initial := c.Profiles(ctx)
	if len(initial) != 1 || initial[0].ID != DefaultProfileID {
		t.Fatalf("Profiles() = %+v, want only the default profile", initial)
	}

	if !c.SetProfile(ctx, NewProfile("alice", SkillLow)) {
		t.Fatal("SetProfile(new) = false")
	}
	if !c.SetProfile(ctx, NewProfile("bob", SkillHigh)) {
		t.Fatal("SetProfile(new) = false")
	}

	profiles := c.Profiles(ctx)
	if len(profiles) != 3 {
		t.Fatalf("len(Profiles()) = %d, want 3", len(profiles))
	}
	ids := profileIDs(profiles)
	if !ids[0] || !ids[1] || !ids[2] {
		t.Errorf("profile IDs = %v, want 0, 1 and 2", ids)
	}

	current := c.CurrentProfile(ctx)
	if current == nil || current.Name != "bob" {
		t.Fatalf("CurrentProfile() = %+v, want bob", current)
	}

	if c.DeleteProfile(ctx, Profile{ID: DefaultProfileID}) {
		t.Error("DeleteProfile(default) = true")
	}
	if !profileIDs(c.Profiles(ctx))[DefaultProfileID] {
		t.Error("default profile removed")
	}

	if !c.DeleteProfile(ctx, *current) {
		t.Fatal("DeleteProfile(current) = false")
	}
	after := c.CurrentProfile(ctx)
	if after == nil || after.ID != DefaultProfileID {
		t.Errorf("CurrentProfile() after delete = %+v, want the default profile", after)
	}
	if len(c.Profiles(ctx)) != 2 {
		t.Errorf("len(Profiles()) = %d, want 2", len(c.Profiles(ctx)))
	}
}

func TestClient_Button(t *testing.T) {
	rig := newRig(t, true)
	ctx := context.Background()

	b := rig.client.Button(ctx)
	if b == nil {
		t.Fatal("Button() = nil")
	}
	if !b.Present || b.SingleClick != ActionLeftClick || b.HoldClick != ActionCalibrate {
		t.Errorf("Button() = %+v", *b)
	}

	if !rig.client.SetButton(ctx, ActionRightClick, ActionScroll, ActionPause) {
		t.Fatal("SetButton() = false")
	}
	b = rig.client.Button(ctx)
	if b.SingleClick != ActionRightClick || b.DoubleClick != ActionScroll || b.HoldClick != ActionPause {
		t.Errorf("Button() after SetButton = %+v", *b)
	}
}

func TestClient_Options(t *testing.T) {
	rig := newRig(t, true)
	ctx := context.Background()
	c := rig.client

	if !c.ChangeStream(ctx, true) {
		t.Error("ChangeStream(true) = false")
	}
	if !c.ChangeHID(ctx, true) {
		t.Error("ChangeHID(true) = false")
	}
	if c.ChangePause(ctx, false) {
		t.Error("ChangePause(false) = true")
	}

	res := Resolution{Width: 2560, Height: 1440, WidthInMM: 600, HeightInMM: 340}
	if !c.SetScreenResolution(ctx, res) {
		t.Error("SetScreenResolution() = false")
	}

	st := c.Status(ctx)
	if st == nil {
		t.Fatal("Status() = nil")
	}
	want := Status{Stream: true, DisableHID: true}
	if *st != want {
		t.Errorf("Status() = %+v, want %+v", *st, want)
	}

	opts := rig.device.Options()
	if opts.Res == nil || opts.Res.Width != 2560 || opts.Res.HeightInMM != 340 {
		t.Errorf("device resolution = %+v", opts.Res)
	}
	if !opts.Stream {
		t.Error("stream flag lost by a later option change")
	}
}

func TestClient_ResetAndVersions(t *testing.T) {
	rig := newRig(t, true)
	ctx := context.Background()

	if !rig.client.ResetDevice(ctx, false, true, false) {
		t.Error("ResetDevice() = false")
	}
	resets := rig.device.Resets()
	if len(resets) != 1 || resets[0] != (rpc.ResetMessage{Services: true}) {
		t.Errorf("device resets = %+v", resets)
	}

	v := rig.client.Versions(ctx)
	if v == nil {
		t.Fatal("Versions() = nil")
	}
	if v.Firmware != simulator.Versions.Firmware || v.Serial != simulator.Versions.Serial {
		t.Errorf("Versions() = %+v", *v)
	}
	if v.Type != DeviceGeneral || !v.Demo {
		t.Errorf("Versions() type = %v demo = %v, want general demo", v.Type, v.Demo)
	}
}

func TestClient_SentinelsWhenUnreachable(t *testing.T) {
	rig := newRig(t, false)
	ctx := context.Background()
	c := rig.client

	if c.Versions(ctx) != nil {
		t.Error("Versions() != nil")
	}
	if c.Button(ctx) != nil {
		t.Error("Button() != nil")
	}
	if c.Status(ctx) != nil {
		t.Error("Status() != nil")
	}
	if c.CurrentProfile(ctx) != nil {
		t.Error("CurrentProfile() != nil")
	}
	if len(c.Profiles(ctx)) != 0 {
		t.Error("Profiles() not empty")
	}
	if c.SetProfile(ctx, NewProfile("x", SkillLow)) {
		t.Error("SetProfile() = true")
	}
	if c.SetButton(ctx, ActionNone, ActionNone, ActionNone) {
		t.Error("SetButton() = true")
	}
	if c.ChangeStream(ctx, true) {
		t.Error("ChangeStream() = true")
	}
	if c.ResetDevice(ctx, true, true, true) {
		t.Error("ResetDevice() = true")
	}
}
