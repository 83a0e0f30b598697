package mcp

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/1broseidon/monarch/internal/backend"
	"github.com/1broseidon/monarch/internal/layout"
	"github.com/1broseidon/monarch/internal/preset"
)

type fakeConn struct {
	enum    backend.Enumeration
	commits [][]layout.Output
	err     error
}

func (f *fakeConn) Outputs(context.Context) (backend.Enumeration, error) {
	return f.enum, nil
}

func (f *fakeConn) Commit(_ context.Context, outputs []layout.Output) error {
	f.commits = append(f.commits, layout.CloneOutputs(outputs))
	return f.err
}

func (f *fakeConn) Name() string { return "fake" }
func (f *fakeConn) Close() error { return nil }

func dualHead() backend.Enumeration {
	mode := []layout.Mode{{Width: 1920, Height: 1080, Refresh: 60}, {Width: 1280, Height: 720, Refresh: 60}}
	return backend.Enumeration{
		Connected: []layout.Output{
			{Name: "DP-1", Modes: mode, ModeIndex: 0, Width: 1920, Height: 1080, Refresh: 60, Scale: 1.0, X: 0, Y: 0, Enabled: true, Connected: true},
			{Name: "DP-2", Modes: mode, ModeIndex: 0, Width: 1920, Height: 1080, Refresh: 60, Scale: 1.0, X: 1920, Y: 0, Enabled: true, Connected: true},
		},
		Addressable: []layout.Output{
			{Name: "HDMI-1", Modes: mode, ModeIndex: 0, Width: 1920, Height: 1080, Refresh: 60, Scale: 1.0, X: 3840, Y: 0},
		},
	}
}

func newTestServer(t *testing.T, fc *fakeConn) *Server {
	t.Helper()
	store := preset.NewStore(t.TempDir())
	return NewServer(fc, store, log.New(io.Discard))
}

func TestListOutputs(t *testing.T) {
	fc := &fakeConn{enum: dualHead()}
	s := newTestServer(t, fc)

	_, out, err := s.handleListOutputs(context.Background(), nil, ListOutputsInput{})
	if err != nil {
		t.Fatalf("list_outputs: %v", err)
	}
	if out.Backend != "fake" {
		t.Errorf("backend = %q, want fake", out.Backend)
	}
	if len(out.Outputs) != 3 {
		t.Fatalf("got %d outputs, want 3", len(out.Outputs))
	}
	if !out.Outputs[0].Connected || out.Outputs[2].Connected {
		t.Errorf("connected flags wrong: %+v", out.Outputs)
	}
	if out.Outputs[2].Enabled {
		t.Errorf("addressable output should enumerate disabled")
	}
}

func TestSetOutput_DisableKeepsPosition(t *testing.T) {
	fc := &fakeConn{enum: dualHead()}
	s := newTestServer(t, fc)

	off := false
	_, out, err := s.handleSetOutput(context.Background(), nil, SetOutputInput{Output: "DP-2", Enabled: &off})
	if err != nil {
		t.Fatalf("set_output: %v", err)
	}
	if out.Output.Enabled {
		t.Errorf("DP-2 still enabled")
	}
	if out.Output.X != 1920 {
		t.Errorf("disabled output lost its position: x = %d", out.Output.X)
	}
	if len(fc.commits) != 1 {
		t.Fatalf("got %d commits, want 1", len(fc.commits))
	}
}

func TestSetOutput_MoveBelowNeighbor(t *testing.T) {
	fc := &fakeConn{enum: dualHead()}
	s := newTestServer(t, fc)

	x, y := 0, 1080
	_, out, err := s.handleSetOutput(context.Background(), nil, SetOutputInput{Output: "DP-2", X: &x, Y: &y})
	if err != nil {
		t.Fatalf("set_output: %v", err)
	}
	byName := map[string]OutputInfo{}
	for _, o := range out.Outputs {
		byName[o.Name] = o
	}
	if byName["DP-2"].X != 0 || byName["DP-2"].Y != 1080 {
		t.Errorf("DP-2 at %d,%d, want 0,1080", byName["DP-2"].X, byName["DP-2"].Y)
	}
	if byName["DP-1"].X != 0 || byName["DP-1"].Y != 0 {
		t.Errorf("DP-1 moved to %d,%d", byName["DP-1"].X, byName["DP-1"].Y)
	}
}

func TestSetOutput_UnsupportedResolution(t *testing.T) {
	fc := &fakeConn{enum: dualHead()}
	s := newTestServer(t, fc)

	w, h := 640, 480
	_, _, err := s.handleSetOutput(context.Background(), nil, SetOutputInput{Output: "DP-1", Width: &w, Height: &h})
	if err == nil || !strings.Contains(err.Error(), "does not support") {
		t.Fatalf("err = %v, want unsupported resolution", err)
	}
	if len(fc.commits) != 0 {
		t.Errorf("rejected change still committed")
	}
}

func TestSetOutput_UnknownOutput(t *testing.T) {
	fc := &fakeConn{enum: dualHead()}
	s := newTestServer(t, fc)

	_, _, err := s.handleSetOutput(context.Background(), nil, SetOutputInput{Output: "DP-9"})
	if err == nil || !strings.Contains(err.Error(), "no output named") {
		t.Fatalf("err = %v, want unknown output", err)
	}
}

func TestSaveThenApplyPreset(t *testing.T) {
	fc := &fakeConn{enum: dualHead()}
	s := newTestServer(t, fc)

	_, saved, err := s.handleSavePreset(context.Background(), nil, SavePresetInput{Name: "desk"})
	if err != nil {
		t.Fatalf("save_preset: %v", err)
	}
	if saved.Saved != "desk" || saved.Outputs != 3 {
		t.Fatalf("saved = %+v", saved)
	}

	_, _, err = s.handleSavePreset(context.Background(), nil, SavePresetInput{Name: "desk"})
	if err == nil {
		t.Fatal("second save without overwrite succeeded")
	}

	_, applied, err := s.handleApplyPreset(context.Background(), nil, ApplyPresetInput{Name: "desk"})
	if err != nil {
		t.Fatalf("apply_preset: %v", err)
	}
	if applied.Applied != "desk" {
		t.Errorf("applied = %q", applied.Applied)
	}
	if len(fc.commits) != 1 {
		t.Fatalf("got %d commits, want 1", len(fc.commits))
	}

	// The commit must land in the most-recent-apply slot.
	if _, err := s.store.MostRecentApply(); err != nil {
		t.Errorf("recent slot not written: %v", err)
	}
}

func TestApplyPreset_Unknown(t *testing.T) {
	fc := &fakeConn{enum: dualHead()}
	s := newTestServer(t, fc)

	_, _, err := s.handleApplyPreset(context.Background(), nil, ApplyPresetInput{Name: "nope"})
	if err == nil || !strings.Contains(err.Error(), "no preset named") {
		t.Fatalf("err = %v, want missing preset", err)
	}
}

func TestListPresets(t *testing.T) {
	fc := &fakeConn{enum: dualHead()}
	s := newTestServer(t, fc)

	for _, name := range []string{"work", "home"} {
		if _, _, err := s.handleSavePreset(context.Background(), nil, SavePresetInput{Name: name}); err != nil {
			t.Fatalf("save %q: %v", name, err)
		}
	}
	_, out, err := s.handleListPresets(context.Background(), nil, ListPresetsInput{})
	if err != nil {
		t.Fatalf("list_presets: %v", err)
	}
	if len(out.Presets) != 2 || out.Presets[0].Name != "home" || out.Presets[1].Name != "work" {
		t.Fatalf("presets = %+v, want home then work", out.Presets)
	}
	if out.Presets[0].Outputs != 3 {
		t.Errorf("preset output count = %d, want 3", out.Presets[0].Outputs)
	}
}
