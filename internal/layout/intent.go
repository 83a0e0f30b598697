package layout

import "github.com/1broseidon/monarch/internal/geometry"

// Intent is one model edit, in the style of a tea.Msg: a closed set of
// small value types dispatched by Apply. Frontends translate keys,
// pointer gestures and tool calls into intents so every entry point
// mutates the layout through the same total operations.
type Intent interface{ layoutIntent() }

type Select struct{ Delta int }

type Move struct{ Dir geometry.Direction }

// SnapFar sends the selection to the arrangement's far side in Dir.
type SnapFar struct{ Dir geometry.Direction }

type CycleResolution struct{}

type CycleScale struct{}

// AdjustScale steps the scale ladder by Delta, clamping at the ends.
type AdjustScale struct{ Delta int }

type ToggleEnabled struct{}

// AssignWorkspace binds workspace N exclusively to the selection.
type AssignWorkspace struct{ N int }

type ClearWorkspaces struct{}

// PlaceAt commits a pointer drag at a logical position.
type PlaceAt struct{ X, Y int }

func (Select) layoutIntent()          {}
func (Move) layoutIntent()            {}
func (SnapFar) layoutIntent()         {}
func (CycleResolution) layoutIntent() {}
func (CycleScale) layoutIntent()      {}
func (AdjustScale) layoutIntent()     {}
func (ToggleEnabled) layoutIntent()   {}
func (AssignWorkspace) layoutIntent() {}
func (ClearWorkspaces) layoutIntent() {}
func (PlaceAt) layoutIntent()         {}

// Apply dispatches one intent, reporting whether the layout changed.
// Unknown intents and intents the current selection cannot honor are
// no-ops.
func (l *Layout) Apply(in Intent) bool {
	switch in := in.(type) {
	case Select:
		before := l.Selected
		l.Select(in.Delta)
		return l.Selected != before
	case Move:
		return l.Move(in.Dir).Outcome != geometry.MoveRejected
	case SnapFar:
		return l.Snap(in.Dir)
	case CycleResolution:
		return l.CycleResolution()
	case CycleScale:
		return l.CycleScale()
	case AdjustScale:
		return l.AdjustScale(in.Delta)
	case ToggleEnabled:
		return l.ToggleEnabled()
	case AssignWorkspace:
		return l.AssignWorkspace(in.N)
	case ClearWorkspaces:
		return l.ClearWorkspaces()
	case PlaceAt:
		return l.PlaceAt(in.X, in.Y)
	}
	return false
}
