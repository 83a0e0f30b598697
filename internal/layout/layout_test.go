package layout

import (
	"testing"

	"github.com/1broseidon/monarch/internal/geometry"
)

// threeRow is DP-1, DP-2, DP-3 side by side at 1920x1080, scale 1.
func threeRow() []Output {
	out := make([]Output, 3)
	names := []string{"DP-1", "DP-2", "DP-3"}
	for i := range out {
		out[i] = Output{
			Name:      names[i],
			Modes:     []Mode{{Width: 1920, Height: 1080, Refresh: 60}},
			ModeIndex: 0,
			Width:     1920, Height: 1080, Refresh: 60,
			Scale: 1.0,
			X:     i * 1920, Y: 0,
			Enabled:   true,
			Connected: true,
		}
	}
	return out
}

func rectOf(t *testing.T, l *Layout, name string) geometry.Rect {
	t.Helper()
	o := l.Get(name)
	if o == nil {
		t.Fatalf("no output named %s", name)
	}
	return o.Rect()
}

func wantPos(t *testing.T, l *Layout, name string, x, y int) {
	t.Helper()
	r := rectOf(t, l, name)
	if r.X != x || r.Y != y {
		t.Fatalf("expected %s at (%d,%d), got (%d,%d)", name, x, y, r.X, r.Y)
	}
}

func TestMove_SwapAcrossSharedEdge(t *testing.T) {
	l := New(threeRow())
	if !l.SelectName("DP-2") {
		t.Fatal("could not select DP-2")
	}

	rep := l.Move(geometry.DirLeft)

	if rep.Outcome != geometry.MoveSwapped {
		t.Fatalf("expected swap, got %v", rep.Outcome)
	}
	if rep.Partner != "DP-1" {
		t.Fatalf("expected swap partner DP-1, got %q", rep.Partner)
	}
	wantPos(t, l, "DP-2", 0, 0)
	wantPos(t, l, "DP-1", 1920, 0)
	wantPos(t, l, "DP-3", 3840, 0)
}

func TestMove_SlideAlongSharedEdge(t *testing.T) {
	outs := threeRow()[:2]
	outs[1].X, outs[1].Y = 0, 1080 // stacked under DP-1
	l := New(outs)
	l.SelectName("DP-2")

	rep := l.Move(geometry.DirLeft)

	if rep.Outcome != geometry.MoveAccepted {
		t.Fatalf("expected plain move, got %v", rep.Outcome)
	}
	// Step is 1080/8 = 135; normalize shifts everything right by 135.
	wantPos(t, l, "DP-2", 0, 1080)
	wantPos(t, l, "DP-1", 135, 0)
}

func TestMove_SingleOutputRejected(t *testing.T) {
	l := New(threeRow()[:1])
	rep := l.Move(geometry.DirLeft)
	if rep.Outcome != geometry.MoveRejected {
		t.Fatalf("expected rejection, got %v", rep.Outcome)
	}
	wantPos(t, l, "DP-1", 0, 0)
}

func TestMove_DisabledSelectionRejected(t *testing.T) {
	l := New(threeRow())
	l.SelectName("DP-2")
	if !l.ToggleEnabled() {
		t.Fatal("disable failed")
	}

	rep := l.Move(geometry.DirLeft)

	if rep.Outcome != geometry.MoveRejected {
		t.Fatalf("expected rejection on disabled output, got %v", rep.Outcome)
	}
	wantPos(t, l, "DP-1", 0, 0)
	wantPos(t, l, "DP-3", 3840, 0)
}

func TestToggleEnabled_RetainsAndRestoresPosition(t *testing.T) {
	l := New(threeRow())
	l.SelectName("DP-2")

	l.ToggleEnabled()

	if l.Get("DP-2").Enabled {
		t.Fatal("DP-2 still enabled")
	}
	// Neighbors hold position, no gap collapse.
	wantPos(t, l, "DP-1", 0, 0)
	wantPos(t, l, "DP-3", 3840, 0)
	wantPos(t, l, "DP-2", 1920, 0)

	l.ToggleEnabled()

	if !l.Get("DP-2").Enabled {
		t.Fatal("DP-2 still disabled")
	}
	wantPos(t, l, "DP-2", 1920, 0)
	wantPos(t, l, "DP-1", 0, 0)
	wantPos(t, l, "DP-3", 3840, 0)
}

func TestToggleEnabled_ReenableIntoOccupiedSpace(t *testing.T) {
	l := New(threeRow())
	l.SelectName("DP-2")
	l.ToggleEnabled()

	// DP-3 slides left into the vacated spot: it detaches from nothing
	// (gap to DP-1), so the move snaps it flush at x=1920.
	l.SelectName("DP-3")
	if rep := l.Move(geometry.DirLeft); rep.Outcome != geometry.MoveSnapped {
		t.Fatalf("expected snap, got %v", rep.Outcome)
	}
	wantPos(t, l, "DP-3", 1920, 0)

	// Re-enabling DP-2 at its retained (1920,0) collides with DP-3; the
	// shorter displacement is vertical, so DP-2 re-enters above and the
	// normalize shift puts the old row at y=1080.
	l.SelectName("DP-2")
	if !l.ToggleEnabled() {
		t.Fatal("re-enable failed")
	}
	wantPos(t, l, "DP-2", 1920, 0)
	wantPos(t, l, "DP-1", 0, 1080)
	wantPos(t, l, "DP-3", 1920, 1080)
	if !l.Valid() {
		t.Fatal("overlap after re-enable")
	}
}

func TestToggleEnabled_RefusesLastEnabled(t *testing.T) {
	outs := threeRow()
	outs[1].Enabled = false
	outs[2].Enabled = false
	l := New(outs)
	l.SelectName("DP-1")

	if l.ToggleEnabled() {
		t.Fatal("disabled the only enabled output")
	}
	if !l.Get("DP-1").Enabled {
		t.Fatal("DP-1 was disabled")
	}
}

func TestSnap_FarSideAndIdempotent(t *testing.T) {
	l := New(threeRow())
	l.SelectName("DP-1")

	if !l.Snap(geometry.DirRight) {
		t.Fatal("snap failed")
	}
	// DP-1 jumps past DP-3 to x=5760; normalize shifts the row back by
	// 1920.
	wantPos(t, l, "DP-1", 3840, 0)
	wantPos(t, l, "DP-2", 0, 0)
	wantPos(t, l, "DP-3", 1920, 0)

	l.Snap(geometry.DirRight)

	wantPos(t, l, "DP-1", 3840, 0)
	wantPos(t, l, "DP-2", 0, 0)
	wantPos(t, l, "DP-3", 1920, 0)
}

func TestAdjustScale_CompactsRow(t *testing.T) {
	l := New(threeRow())
	l.SelectName("DP-1")

	if !l.AdjustScale(1) {
		t.Fatal("scale adjust failed")
	}

	sel := l.Get("DP-1")
	if sel.Scale != 1.2 {
		t.Fatalf("expected scale 1.2, got %v", sel.Scale)
	}
	// ceil(1920/1.2) = 1600: DP-1 shrinks and the row pulls flush.
	if w := sel.LogicalWidth(); w != 1600 {
		t.Fatalf("expected logical width 1600, got %d", w)
	}
	wantPos(t, l, "DP-1", 0, 0)
	wantPos(t, l, "DP-2", 1600, 0)
	wantPos(t, l, "DP-3", 3520, 0)
}

func TestAdjustScale_ClampsAtLadderEnds(t *testing.T) {
	l := New(threeRow()[:1])
	l.SelectName("DP-1")

	if l.AdjustScale(-1) {
		t.Fatal("scaled below ladder start")
	}
	if s := l.Get("DP-1").Scale; s != 1.0 {
		t.Fatalf("expected scale 1.0, got %v", s)
	}

	l.Get("DP-1").Scale = 3.0
	if l.AdjustScale(1) {
		t.Fatal("scaled past ladder end")
	}
	if s := l.Get("DP-1").Scale; s != 3.0 {
		t.Fatalf("expected scale 3.0, got %v", s)
	}
}

func TestCycleScale_WrapsLadder(t *testing.T) {
	outs := threeRow()[:1]
	outs[0].Scale = 3.0
	l := New(outs)
	l.SelectName("DP-1")

	if !l.CycleScale() {
		t.Fatal("cycle failed")
	}
	if s := l.Get("DP-1").Scale; s != 1.0 {
		t.Fatalf("expected wrap to 1.0, got %v", s)
	}
}

func TestCycleResolution_PushesNeighborsAside(t *testing.T) {
	outs := threeRow()
	outs[0].Modes = []Mode{
		{Width: 1920, Height: 1080, Refresh: 60},
		{Width: 2560, Height: 1440, Refresh: 60},
	}
	l := New(outs)
	l.SelectName("DP-1")

	if !l.CycleResolution() {
		t.Fatal("cycle failed")
	}

	sel := l.Get("DP-1")
	if sel.Width != 2560 || sel.Height != 1440 {
		t.Fatalf("expected 2560x1440, got %dx%d", sel.Width, sel.Height)
	}
	// The wider DP-1 snaps flush against DP-2, pushing the row right.
	wantPos(t, l, "DP-1", 0, 0)
	wantPos(t, l, "DP-2", 2560, 0)
	wantPos(t, l, "DP-3", 4480, 0)
	if !l.Valid() {
		t.Fatal("overlap after resolution change")
	}
}

func TestCycleResolution_PreferredEntersExplicitList(t *testing.T) {
	outs := threeRow()[:1]
	outs[0].ModeIndex = PreferredMode
	l := New(outs)
	l.SelectName("DP-1")

	l.CycleResolution()

	if i := l.Get("DP-1").ModeIndex; i != 0 {
		t.Fatalf("expected mode index 0, got %d", i)
	}
}

func TestCycleResolution_DisabledChangesModeOnly(t *testing.T) {
	outs := threeRow()
	outs[2].Enabled = false
	outs[2].Modes = []Mode{
		{Width: 1920, Height: 1080, Refresh: 60},
		{Width: 1280, Height: 720, Refresh: 60},
	}
	l := New(outs)
	l.SelectName("DP-3")

	if !l.CycleResolution() {
		t.Fatal("cycle failed")
	}

	o := l.Get("DP-3")
	if o.Width != 1280 || o.Height != 720 {
		t.Fatalf("expected 1280x720, got %dx%d", o.Width, o.Height)
	}
	wantPos(t, l, "DP-1", 0, 0)
	wantPos(t, l, "DP-2", 1920, 0)
	wantPos(t, l, "DP-3", 3840, 0)
}

func TestPlaceAt_DropSettlesUnderNeighbor(t *testing.T) {
	l := New(threeRow())
	l.SelectName("DP-1")

	// Drop just below-right of DP-2's origin: the vertical gap dominates
	// so DP-1 snaps under DP-2, then the row normalizes left by 1920.
	if !l.PlaceAt(2000, 100) {
		t.Fatal("drop failed")
	}
	wantPos(t, l, "DP-1", 0, 1080)
	wantPos(t, l, "DP-2", 0, 0)
	wantPos(t, l, "DP-3", 1920, 0)
	if !l.Valid() {
		t.Fatal("overlap after drop")
	}
}

func TestAssignWorkspace_ExclusiveAcrossOutputs(t *testing.T) {
	l := New(threeRow())
	l.SelectName("DP-1")
	l.AssignWorkspace(3)
	l.AssignWorkspace(1)

	l.SelectName("DP-2")
	l.AssignWorkspace(3)

	if ws := l.Get("DP-1").Workspaces; len(ws) != 1 || ws[0] != 1 {
		t.Fatalf("expected DP-1 workspaces [1], got %v", ws)
	}
	if ws := l.Get("DP-2").Workspaces; len(ws) != 1 || ws[0] != 3 {
		t.Fatalf("expected DP-2 workspaces [3], got %v", ws)
	}
}

func TestClearWorkspaces(t *testing.T) {
	l := New(threeRow())
	l.SelectName("DP-1")
	l.AssignWorkspace(2)
	l.AssignWorkspace(5)

	if !l.ClearWorkspaces() {
		t.Fatal("clear failed")
	}
	if ws := l.Get("DP-1").Workspaces; len(ws) != 0 {
		t.Fatalf("expected no workspaces, got %v", ws)
	}
	if l.ClearWorkspaces() {
		t.Fatal("second clear reported a change")
	}
}

func TestSelect_WrapsVisibleOrder(t *testing.T) {
	outs := threeRow()
	outs[0].Enabled = false // DP-1 sorts last in list focus
	l := New(outs)

	want := []string{"DP-2", "DP-3", "DP-1", "DP-2"}
	for i, name := range want {
		if got := l.SelectedOutput().Name; got != name {
			t.Fatalf("step %d: expected selection %s, got %s", i, name, got)
		}
		l.Select(1)
	}

	l.Select(-1) // back from DP-2 wraps to DP-1
	if got := l.SelectedOutput().Name; got != "DP-1" {
		t.Fatalf("expected wrap to DP-1, got %s", got)
	}
}

func TestSetFocus_CanvasHidesDisabled(t *testing.T) {
	outs := threeRow()
	outs[1].Enabled = false
	l := New(outs)
	l.SelectName("DP-2")

	l.SetFocus(FocusCanvas)

	if got := l.SelectedOutput().Name; got != "DP-1" {
		t.Fatalf("expected selection to fall back to DP-1, got %s", got)
	}
	for _, idx := range l.Visible() {
		if !l.Outputs[idx].Enabled {
			t.Fatalf("canvas focus exposed disabled output %s", l.Outputs[idx].Name)
		}
	}

	l.SetFocus(FocusList)
	if len(l.Visible()) != 3 {
		t.Fatalf("expected 3 visible in list focus, got %d", len(l.Visible()))
	}
}

func TestApply_NoOverlapAcrossIntentSequences(t *testing.T) {
	sequences := [][]Intent{
		{Move{geometry.DirLeft}, Move{geometry.DirLeft}, Move{geometry.DirDown}, Move{geometry.DirRight}},
		{SnapFar{geometry.DirDown}, Select{1}, SnapFar{geometry.DirRight}, Move{geometry.DirUp}},
		{CycleResolution{}, AdjustScale{1}, Move{geometry.DirLeft}, CycleScale{}},
		{ToggleEnabled{}, Select{1}, Move{geometry.DirLeft}, Select{-1}, ToggleEnabled{}},
		{PlaceAt{X: 5000, Y: -400}, Select{1}, PlaceAt{X: -100, Y: 90}},
		{AssignWorkspace{4}, ClearWorkspaces{}, Move{geometry.DirUp}, Move{geometry.DirUp}},
	}
	for si, seq := range sequences {
		outs := threeRow()
		outs[0].Modes = append(outs[0].Modes, Mode{Width: 2560, Height: 1440, Refresh: 60})
		l := New(outs)
		l.SelectName("DP-2")
		for ii, in := range seq {
			l.Apply(in)
			if !l.Valid() {
				t.Fatalf("sequence %d intent %d (%T): overlap introduced", si, ii, in)
			}
		}
	}
}

func TestClone_Deep(t *testing.T) {
	l := New(threeRow())
	l.SelectName("DP-1")
	l.AssignWorkspace(2)

	c := l.Clone()
	c.Get("DP-1").Workspaces[0] = 9
	c.Get("DP-2").X = 777
	c.Get("DP-3").Modes[0].Width = 1

	if ws := l.Get("DP-1").Workspaces[0]; ws != 2 {
		t.Fatalf("clone shares workspace slice: %d", ws)
	}
	if x := l.Get("DP-2").X; x != 1920 {
		t.Fatalf("clone shares outputs: %d", x)
	}
	if w := l.Get("DP-3").Modes[0].Width; w != 1920 {
		t.Fatalf("clone shares mode slice: %d", w)
	}
}

func TestEquivalentOutputs(t *testing.T) {
	base := threeRow()

	translated := threeRow()
	for i := range translated {
		translated[i].X += 300
		translated[i].Y -= 120
	}

	scaled := threeRow()
	scaled[1].Scale = 1.5

	skewed := threeRow()
	skewed[2].X += 5

	extra := append(threeRow(), Output{Name: "HDMI-A-1", Enabled: true, Scale: 1.0, Width: 1280, Height: 720})

	droppedDisabled := threeRow()
	droppedDisabled[2].Enabled = false
	strippedOfDropped := []Output{droppedDisabled[0].Clone(), droppedDisabled[1].Clone()}

	movedDisabled := make([]Output, 3)
	for i := range droppedDisabled {
		movedDisabled[i] = droppedDisabled[i].Clone()
	}
	movedDisabled[2].X += 40

	cases := []struct {
		name string
		a, b []Output
		want bool
	}{
		{"identical", base, threeRow(), true},
		{"uniform translation", base, translated, true},
		{"scale differs", base, scaled, false},
		{"non-uniform shift", base, skewed, false},
		{"output added", base, extra, false},
		{"disabled output dropped", droppedDisabled, strippedOfDropped, true},
		{"enabled output dropped", base, threeRow()[:2], false},
		{"disabled position strict", droppedDisabled, movedDisabled, false},
	}
	for _, c := range cases {
		if got := EquivalentOutputs(c.a, c.b); got != c.want {
			t.Fatalf("%s: expected %v, got %v", c.name, c.want, got)
		}
	}
}
