package layout

import (
	"sort"

	"github.com/1broseidon/monarch/internal/geometry"
)

// settle runs the arrangement pipeline on a scratch placement: snap
// floaters flush, resolve the moved entry's overlaps, sweep residual
// overlaps, then pull the bounding box to the origin. moved is the
// placement index that just changed, -1 when none. dir narrows the
// moved entry's overlap resolution to the travel axis.
//
// Returns false when no valid arrangement was reached; callers must
// then discard the scratch.
func settle(placed []geometry.Placed, moved int, dir *geometry.Direction) bool {
	geometry.AutoSnap(placed)
	if moved >= 0 && geometry.Overlapping(placed, moved) {
		others := make([]geometry.Placed, 0, len(placed)-1)
		for i := range placed {
			if i != moved {
				others = append(others, placed[i])
			}
		}
		var r geometry.Rect
		var ok bool
		if dir != nil {
			r, ok = geometry.ResolveOverlapAxis(placed[moved].Rect, others, *dir)
		} else {
			r, ok = geometry.ResolveOverlap(placed[moved].Rect, others)
		}
		if ok {
			placed[moved].Rect = r
		}
	}
	if !geometry.ResolveAll(placed) {
		return false
	}
	geometry.Normalize(placed)
	return geometry.NoOverlaps(placed)
}

// commit writes scratch placement positions back onto the outputs.
func (l *Layout) commit(placed []geometry.Placed, idx []int) {
	for p, i := range idx {
		l.Outputs[i].X = placed[p].Rect.X
		l.Outputs[i].Y = placed[p].Rect.Y
	}
}

// reconcile re-settles the whole arrangement around one changed output,
// reverting the layout to before when no valid arrangement exists.
// before must be a snapshot taken ahead of the attribute change.
func (l *Layout) reconcile(name string, before []Output) bool {
	placed, idx := l.placedEnabled()
	moved := -1
	for p := range placed {
		if placed[p].ID == name {
			moved = p
		}
	}
	if settle(placed, moved, nil) {
		l.commit(placed, idx)
		return true
	}
	l.Outputs = before
	l.ensureSelection()
	return false
}

// MoveReport describes what a Move did and, for swaps and snaps, with
// which neighbor.
type MoveReport struct {
	Outcome geometry.MoveOutcome
	Partner string
}

// Move travels the selected output one step in dir, swapping with an
// overlapped neighbor when the travel crosses one and snapping flush
// when it detaches. The outcome reports which of those happened; a
// rejected move leaves the layout untouched.
func (l *Layout) Move(dir geometry.Direction) MoveReport {
	rejected := MoveReport{Outcome: geometry.MoveRejected}
	sel := l.SelectedOutput()
	if sel == nil || !sel.Enabled {
		return rejected
	}
	placed, idx := l.placedEnabled()
	pi := -1
	for p := range placed {
		if placed[p].ID == sel.Name {
			pi = p
		}
	}
	if pi < 0 {
		return rejected
	}
	res := geometry.DecideMove(placed, pi, dir, l.stepFor(sel))
	switch res.Outcome {
	case geometry.MoveRejected:
		return rejected
	case geometry.MoveSwapped:
		placed[pi].Rect.X, placed[res.Partner].Rect.X = placed[res.Partner].Rect.X, placed[pi].Rect.X
		placed[pi].Rect.Y, placed[res.Partner].Rect.Y = placed[res.Partner].Rect.Y, placed[pi].Rect.Y
	default:
		placed[pi].Rect = res.Rect
	}
	report := MoveReport{Outcome: res.Outcome}
	if res.Partner >= 0 {
		report.Partner = placed[res.Partner].ID
	}
	if !settle(placed, pi, &dir) {
		return rejected
	}
	l.commit(placed, idx)
	return report
}

// Snap sends the selected output to the far side of the arrangement in
// dir, aligned with the extreme output on that side.
func (l *Layout) Snap(dir geometry.Direction) bool {
	sel := l.SelectedOutput()
	if sel == nil || !sel.Enabled {
		return false
	}
	placed, idx := l.placedEnabled()
	pi := -1
	for p := range placed {
		if placed[p].ID == sel.Name {
			pi = p
		}
	}
	if pi < 0 {
		return false
	}
	geometry.FarSnap(placed, pi, dir)
	if !settle(placed, pi, nil) {
		return false
	}
	l.commit(placed, idx)
	return true
}

// CycleResolution advances the selected output to its next supported
// mode and re-settles the arrangement around its new footprint. On a
// disabled output only the stored mode changes.
func (l *Layout) CycleResolution() bool {
	sel := l.SelectedOutput()
	if sel == nil || len(sel.Modes) == 0 {
		return false
	}
	before := CloneOutputs(l.Outputs)
	sel.CycleMode()
	if !sel.Enabled {
		return true
	}
	return l.reconcile(sel.Name, before)
}

// SetResolution selects the supported mode matching the given pixel
// dimensions, preferring the highest refresh when several match, and
// re-settles the arrangement around the new footprint.
func (l *Layout) SetResolution(width, height int) bool {
	sel := l.SelectedOutput()
	if sel == nil {
		return false
	}
	best := -1
	for i, m := range sel.Modes {
		if m.Width != width || m.Height != height {
			continue
		}
		if best < 0 || m.Refresh > sel.Modes[best].Refresh {
			best = i
		}
	}
	if best < 0 {
		return false
	}
	before := CloneOutputs(l.Outputs)
	sel.SetMode(best)
	if !sel.Enabled {
		return true
	}
	return l.reconcile(sel.Name, before)
}

// SetScale puts the selected output on an explicit scale factor.
func (l *Layout) SetScale(scale float64) bool {
	sel := l.SelectedOutput()
	if sel == nil || !sel.Enabled || scale <= 0 {
		return false
	}
	return l.setScale(sel, scale)
}

// CycleScale steps the selected output to the next ladder scale,
// wrapping at the top.
func (l *Layout) CycleScale() bool {
	sel := l.SelectedOutput()
	if sel == nil || !sel.Enabled {
		return false
	}
	ladder := l.scales()
	i := scaleIndex(ladder, sel.Scale)
	return l.setScale(sel, ladder[(i+1)%len(ladder)])
}

// AdjustScale moves the selected output up or down the ladder, clamping
// at the ends.
func (l *Layout) AdjustScale(delta int) bool {
	sel := l.SelectedOutput()
	if sel == nil || !sel.Enabled {
		return false
	}
	ladder := l.scales()
	i := scaleIndex(ladder, sel.Scale) + delta
	if i < 0 {
		i = 0
	}
	if i >= len(ladder) {
		i = len(ladder) - 1
	}
	return l.setScale(sel, ladder[i])
}

func (l *Layout) setScale(sel *Output, scale float64) bool {
	if scale == sel.Scale {
		return false
	}
	before := CloneOutputs(l.Outputs)
	sel.Scale = scale
	return l.reconcile(sel.Name, before)
}

// ToggleEnabled flips the selected output. Disabling only clears the
// flag so the retained position survives a later enable; enabling
// re-settles the arrangement around the restored rectangle.
func (l *Layout) ToggleEnabled() bool {
	sel := l.SelectedOutput()
	if sel == nil {
		return false
	}
	if sel.Enabled {
		if l.enabledCount() == 1 {
			return false
		}
		sel.Enabled = false
		l.ensureSelection()
		return true
	}
	before := CloneOutputs(l.Outputs)
	sel.Enabled = true
	return l.reconcile(sel.Name, before)
}

func (l *Layout) enabledCount() int {
	n := 0
	for i := range l.Outputs {
		if l.Outputs[i].Enabled {
			n++
		}
	}
	return n
}

// AssignWorkspace binds workspace n to the selected output, removing it
// from any other output first.
func (l *Layout) AssignWorkspace(n int) bool {
	sel := l.SelectedOutput()
	if sel == nil || n < 1 {
		return false
	}
	for i := range l.Outputs {
		ws := l.Outputs[i].Workspaces[:0]
		for _, w := range l.Outputs[i].Workspaces {
			if w != n {
				ws = append(ws, w)
			}
		}
		l.Outputs[i].Workspaces = ws
	}
	sel.Workspaces = append(sel.Workspaces, n)
	sort.Ints(sel.Workspaces)
	return true
}

// ClearWorkspaces unbinds every workspace from the selected output.
func (l *Layout) ClearWorkspaces() bool {
	sel := l.SelectedOutput()
	if sel == nil || len(sel.Workspaces) == 0 {
		return false
	}
	sel.Workspaces = nil
	return true
}

// PlaceAt drops the selected output at the given logical position and
// settles the arrangement around it. Used by pointer drags; the gesture
// tracks a ghost rectangle and commits here on release.
func (l *Layout) PlaceAt(x, y int) bool {
	sel := l.SelectedOutput()
	if sel == nil || !sel.Enabled {
		return false
	}
	before := CloneOutputs(l.Outputs)
	sel.X, sel.Y = x, y
	return l.reconcile(sel.Name, before)
}
