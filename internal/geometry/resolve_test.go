package geometry

import "testing"

func TestDecideMove_OverlapBecomesSwap(t *testing.T) {
	placed := threeSideBySide()
	res := DecideMove(placed, 1, DirLeft, 240)
	if res.Outcome != MoveSwapped {
		t.Fatalf("expected swap, got %v", res.Outcome)
	}
	if res.Partner != 0 {
		t.Fatalf("expected swap with DP-1, got partner %d", res.Partner)
	}
}

func TestDecideMove_SwapTiePrefersSmallerID(t *testing.T) {
	// Two half-height stacks to the left of the selected rectangle; a left
	// nudge overlaps both by the same area.
	placed := []Placed{
		{ID: "C", Rect: Rect{X: 0, Y: 50, W: 100, H: 50}},
		{ID: "A", Rect: Rect{X: 0, Y: 0, W: 100, H: 50}},
		{ID: "B", Rect: Rect{X: 100, Y: 0, W: 100, H: 100}},
	}
	res := DecideMove(placed, 2, DirLeft, 60)
	if res.Outcome != MoveSwapped {
		t.Fatalf("expected swap, got %v", res.Outcome)
	}
	if placed[res.Partner].ID != "A" {
		t.Fatalf("expected tie to resolve to A, got %q", placed[res.Partner].ID)
	}
}

func TestDecideMove_SlideAlongSharedEdge(t *testing.T) {
	placed := twoStacked()
	res := DecideMove(placed, 1, DirLeft, 100)
	if res.Outcome != MoveAccepted {
		t.Fatalf("expected free slide, got %v", res.Outcome)
	}
	if res.Rect.X != -100 || res.Rect.Y != 1080 {
		t.Fatalf("expected (-100,1080), got (%d,%d)", res.Rect.X, res.Rect.Y)
	}
}

func TestDecideMove_DetachSnapsTowardTravel(t *testing.T) {
	// B floats right of A with a gap; nudging left must land it flush
	// against A's right edge, not at the free tentative position.
	placed := []Placed{
		{ID: "A", Rect: Rect{X: 0, Y: 0, W: 100, H: 100}},
		{ID: "B", Rect: Rect{X: 500, Y: 0, W: 100, H: 100}},
	}
	res := DecideMove(placed, 1, DirLeft, 100)
	if res.Outcome != MoveSnapped {
		t.Fatalf("expected snap, got %v", res.Outcome)
	}
	if res.Partner != 0 || res.Edge != EdgeRight {
		t.Fatalf("expected anchor A edge right, got partner=%d edge=%v", res.Partner, res.Edge)
	}
	if res.Rect.X != 100 || res.Rect.Y != 0 {
		t.Fatalf("expected flush at (100,0), got (%d,%d)", res.Rect.X, res.Rect.Y)
	}
}

func TestDecideMove_SlidePastEdgeSnapsToFarSide(t *testing.T) {
	// The lower rectangle has slid almost fully off the left; one more
	// nudge detaches it and it reattaches side by side on the left.
	placed := []Placed{
		{ID: "A", Rect: Rect{X: 0, Y: 0, W: 1920, H: 1080}},
		{ID: "B", Rect: Rect{X: -1900, Y: 1080, W: 1920, H: 1080}},
	}
	res := DecideMove(placed, 1, DirLeft, 100)
	if res.Outcome != MoveSnapped {
		t.Fatalf("expected snap, got %v", res.Outcome)
	}
	if res.Rect.X != -1920 || res.Rect.Y != 0 {
		t.Fatalf("expected (-1920,0), got (%d,%d)", res.Rect.X, res.Rect.Y)
	}
}

func TestDecideMove_LeftmostLeftReturnsToFlush(t *testing.T) {
	placed := threeSideBySide()
	res := DecideMove(placed, 0, DirLeft, 240)
	if res.Outcome != MoveSnapped {
		t.Fatalf("expected snap back, got %v", res.Outcome)
	}
	if res.Rect != placed[0].Rect {
		t.Fatalf("expected the original flush position, got %+v", res.Rect)
	}
}

func TestDecideMove_SingleEntryRejected(t *testing.T) {
	placed := []Placed{{ID: "A", Rect: Rect{X: 0, Y: 0, W: 100, H: 100}}}
	res := DecideMove(placed, 0, DirRight, 50)
	if res.Outcome != MoveRejected {
		t.Fatalf("expected rejection for a single rectangle, got %v", res.Outcome)
	}
}

func TestDecideMove_DoesNotModifyInput(t *testing.T) {
	placed := threeSideBySide()
	want := threeSideBySide()
	DecideMove(placed, 1, DirLeft, 240)
	for i := range placed {
		if placed[i].Rect != want[i].Rect {
			t.Fatalf("input modified at %d: %+v", i, placed[i].Rect)
		}
	}
}

func TestDecideMove_Deterministic(t *testing.T) {
	a := DecideMove(threeSideBySide(), 1, DirUp, 135)
	b := DecideMove(threeSideBySide(), 1, DirUp, 135)
	if a != b {
		t.Fatalf("same input produced different results: %+v vs %+v", a, b)
	}
}

func TestResolveOverlapAxis_NearestAlongAxis(t *testing.T) {
	// Candidate sits inside a wider rectangle after a position exchange;
	// the near escape is to the right.
	others := []Placed{{ID: "B", Rect: Rect{X: 0, Y: 0, W: 2000, H: 100}}}
	candidate := Rect{X: 1000, Y: 0, W: 1000, H: 100}
	r, ok := ResolveOverlapAxis(candidate, others, DirRight)
	if !ok {
		t.Fatalf("expected a resolution")
	}
	if r.X != 2000 || r.Y != 0 {
		t.Fatalf("expected (2000,0), got (%d,%d)", r.X, r.Y)
	}
}

func TestResolveOverlapAxis_ValidCandidateUnchanged(t *testing.T) {
	others := []Placed{{ID: "B", Rect: Rect{X: 0, Y: 0, W: 100, H: 100}}}
	candidate := Rect{X: 100, Y: 0, W: 100, H: 100}
	r, ok := ResolveOverlapAxis(candidate, others, DirLeft)
	if !ok || r != candidate {
		t.Fatalf("valid candidate must be returned unchanged, got %+v ok=%v", r, ok)
	}
}

func TestResolveOverlap_HorizontalWinsTies(t *testing.T) {
	others := []Placed{{ID: "B", Rect: Rect{X: 0, Y: 0, W: 100, H: 100}}}
	candidate := Rect{X: 0, Y: 0, W: 100, H: 100}
	r, ok := ResolveOverlap(candidate, others)
	if !ok {
		t.Fatalf("expected a resolution")
	}
	// Equal displacement on both axes; horizontal and then the smaller
	// coordinate win.
	if r.X != -100 || r.Y != 0 {
		t.Fatalf("expected (-100,0), got (%d,%d)", r.X, r.Y)
	}
}

func TestResolveOverlap_PrefersSmallerDisplacement(t *testing.T) {
	// 60 pixels of vertical escape vs 90 horizontal: vertical wins.
	others := []Placed{{ID: "B", Rect: Rect{X: 0, Y: 0, W: 100, H: 60}}}
	candidate := Rect{X: 10, Y: 0, W: 100, H: 100}
	r, ok := ResolveOverlap(candidate, others)
	if !ok {
		t.Fatalf("expected a resolution")
	}
	if r.X != 10 || r.Y != 60 {
		t.Fatalf("expected (10,60), got (%d,%d)", r.X, r.Y)
	}
}

func TestResolveAll_FixesResidualPair(t *testing.T) {
	placed := []Placed{
		{ID: "A", Rect: Rect{X: 0, Y: 0, W: 100, H: 100}},
		{ID: "B", Rect: Rect{X: 50, Y: 0, W: 100, H: 100}},
		{ID: "C", Rect: Rect{X: 300, Y: 0, W: 100, H: 100}},
	}
	if !ResolveAll(placed) {
		t.Fatalf("expected the sweep to succeed")
	}
	if !NoOverlaps(placed) {
		t.Fatalf("overlap remains after sweep: %+v", placed)
	}
	if placed[1].Rect.X != 100 {
		t.Fatalf("expected B pushed to x=100, got %d", placed[1].Rect.X)
	}
}
