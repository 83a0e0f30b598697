package layout

import (
	"sort"

	"github.com/1broseidon/monarch/internal/geometry"
)

// Focus names the pane that owns the selection cursor.
type Focus int

const (
	// FocusList selects over every output, enabled or not.
	FocusList Focus = iota
	// FocusCanvas selects over enabled outputs only.
	FocusCanvas
)

func (f Focus) String() string {
	if f == FocusCanvas {
		return "canvas"
	}
	return "list"
}

// Layout is the in-memory arrangement being edited. All mutating
// operations are total: an operation that cannot produce a valid
// arrangement leaves the layout unchanged.
type Layout struct {
	Outputs []Output

	// Selected indexes into Outputs, -1 when empty.
	Selected int
	Focus    Focus

	// Scales is the ladder walked by scale intents; empty means
	// DefaultScales.
	Scales []float64

	// MoveStep is the per-keypress travel in logical pixels; zero means
	// an eighth of the selected output's shorter logical dimension.
	MoveStep int
}

// New builds a layout over the given outputs, selecting the first
// visible one.
func New(outputs []Output) *Layout {
	l := &Layout{Outputs: outputs, Selected: -1}
	if vis := l.Visible(); len(vis) > 0 {
		l.Selected = vis[0]
	}
	return l
}

// Clone returns a deep copy sharing nothing with the receiver.
func (l *Layout) Clone() *Layout {
	c := *l
	c.Outputs = CloneOutputs(l.Outputs)
	c.Scales = append([]float64(nil), l.Scales...)
	return &c
}

// CloneOutputs deep-copies a slice of outputs.
func CloneOutputs(outputs []Output) []Output {
	c := make([]Output, len(outputs))
	for i := range outputs {
		c[i] = outputs[i].Clone()
	}
	return c
}

// Visible lists output indices in presentation order for the current
// focus: enabled outputs by name, then, in list focus, disabled outputs
// by name.
func (l *Layout) Visible() []int {
	var enabled, disabled []int
	for i := range l.Outputs {
		if l.Outputs[i].Enabled {
			enabled = append(enabled, i)
		} else {
			disabled = append(disabled, i)
		}
	}
	byName := func(idx []int) {
		sort.Slice(idx, func(a, b int) bool {
			return l.Outputs[idx[a]].Name < l.Outputs[idx[b]].Name
		})
	}
	byName(enabled)
	if l.Focus == FocusCanvas {
		return enabled
	}
	byName(disabled)
	return append(enabled, disabled...)
}

// SelectedOutput returns the selected output, nil when none.
func (l *Layout) SelectedOutput() *Output {
	if l.Selected < 0 || l.Selected >= len(l.Outputs) {
		return nil
	}
	return &l.Outputs[l.Selected]
}

// Get finds an output by name.
func (l *Layout) Get(name string) *Output {
	for i := range l.Outputs {
		if l.Outputs[i].Name == name {
			return &l.Outputs[i]
		}
	}
	return nil
}

// Select moves the cursor by delta through the visible ordering,
// wrapping at both ends.
func (l *Layout) Select(delta int) {
	vis := l.Visible()
	if len(vis) == 0 {
		l.Selected = -1
		return
	}
	pos := 0
	for i, idx := range vis {
		if idx == l.Selected {
			pos = i
			break
		}
	}
	pos = ((pos+delta)%len(vis) + len(vis)) % len(vis)
	l.Selected = vis[pos]
}

// SelectName puts the cursor on the named output if it is visible under
// the current focus.
func (l *Layout) SelectName(name string) bool {
	for _, idx := range l.Visible() {
		if l.Outputs[idx].Name == name {
			l.Selected = idx
			return true
		}
	}
	return false
}

// SetFocus switches panes, moving the cursor to a visible output when
// the current selection is hidden by the new focus.
func (l *Layout) SetFocus(f Focus) {
	l.Focus = f
	l.ensureSelection()
}

// ensureSelection keeps the cursor on a visible output, preferring the
// current one.
func (l *Layout) ensureSelection() {
	vis := l.Visible()
	if len(vis) == 0 {
		l.Selected = -1
		return
	}
	for _, idx := range vis {
		if idx == l.Selected {
			return
		}
	}
	l.Selected = vis[0]
}

// placedEnabled projects the enabled outputs onto the geometry plane in
// name order. The returned index map goes from placement position back
// to Outputs position.
func (l *Layout) placedEnabled() ([]geometry.Placed, []int) {
	vis := make([]int, 0, len(l.Outputs))
	for i := range l.Outputs {
		if l.Outputs[i].Enabled {
			vis = append(vis, i)
		}
	}
	sort.Slice(vis, func(a, b int) bool {
		return l.Outputs[vis[a]].Name < l.Outputs[vis[b]].Name
	})
	placed := make([]geometry.Placed, len(vis))
	for p, idx := range vis {
		placed[p] = geometry.Placed{ID: l.Outputs[idx].Name, Rect: l.Outputs[idx].Rect()}
	}
	return placed, vis
}

// Valid reports whether the enabled outputs satisfy the no-overlap
// arrangement rule.
func (l *Layout) Valid() bool {
	placed, _ := l.placedEnabled()
	return geometry.NoOverlaps(placed)
}

// stepFor resolves the travel distance for one keypress on the given
// output.
func (l *Layout) stepFor(o *Output) int {
	if l.MoveStep > 0 {
		return l.MoveStep
	}
	short := o.LogicalWidth()
	if h := o.LogicalHeight(); h < short {
		short = h
	}
	step := short / 8
	if step < 1 {
		step = 1
	}
	return step
}

func (l *Layout) scales() []float64 {
	if len(l.Scales) > 0 {
		return l.Scales
	}
	return DefaultScales
}

// EquivalentOutputs reports whether two output sets describe the same
// arrangement. Outputs are matched by name; an output present only in b
// makes the sets differ, while one present only in a is tolerated if it
// was disabled. Enabled positions compare up to a uniform translation,
// taken from the first enabled output present in both; disabled
// positions compare exactly.
func EquivalentOutputs(a, b []Output) bool {
	mb := make(map[string]*Output, len(b))
	for i := range b {
		mb[b[i].Name] = &b[i]
	}
	seen := make(map[string]bool, len(a))
	for i := range a {
		seen[a[i].Name] = true
	}
	for i := range b {
		if !seen[b[i].Name] {
			return false
		}
	}

	offsetKnown := false
	var dx, dy int
	for i := range a {
		oa := &a[i]
		ob, ok := mb[oa.Name]
		if !ok {
			if oa.Enabled {
				return false
			}
			continue
		}
		if oa.Enabled != ob.Enabled ||
			oa.Width != ob.Width || oa.Height != ob.Height ||
			oa.Scale != ob.Scale {
			return false
		}
		if !oa.Enabled {
			if oa.X != ob.X || oa.Y != ob.Y {
				return false
			}
			continue
		}
		if !offsetKnown {
			dx, dy = ob.X-oa.X, ob.Y-oa.Y
			offsetKnown = true
			continue
		}
		if ob.X-oa.X != dx || ob.Y-oa.Y != dy {
			return false
		}
	}
	return true
}
