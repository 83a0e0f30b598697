package layout

import (
	"fmt"
	"math"

	"github.com/1broseidon/monarch/internal/geometry"
)

// DefaultScales is the scale ladder walked by the scale intents.
var DefaultScales = []float64{1.0, 1.2, 1.5, 2.0, 3.0}

// Mode is one supported resolution of an output.
type Mode struct {
	Width   int
	Height  int
	Refresh float64
}

func (m Mode) String() string {
	return fmt.Sprintf("%dx%d@%.2fHz", m.Width, m.Height, m.Refresh)
}

// PreferredMode marks an output running its preferred mode rather than an
// explicitly selected one.
const PreferredMode = -1

// Output is one addressable display port and its configuration.
// X and Y double as the last-known position: they are retained while the
// output is disabled or disconnected so re-enabling restores placement.
type Output struct {
	Name        string
	Description string
	Modes       []Mode
	ModeIndex   int // index into Modes, or PreferredMode
	Width       int
	Height      int
	Refresh     float64
	Scale       float64
	X, Y        int
	Enabled     bool
	Connected   bool
	Workspaces  []int
}

// LogicalWidth is the on-canvas width: pixel width divided by scale,
// rounded up.
func (o *Output) LogicalWidth() int {
	return int(math.Ceil(float64(o.Width) / o.Scale))
}

func (o *Output) LogicalHeight() int {
	return int(math.Ceil(float64(o.Height) / o.Scale))
}

// Rect is the output's rectangle in the shared logical coordinate space.
func (o *Output) Rect() geometry.Rect {
	return geometry.Rect{X: o.X, Y: o.Y, W: o.LogicalWidth(), H: o.LogicalHeight()}
}

// ModeText renders the current mode selection: an explicit mode as
// "WxH@R", the preferred mode as "preferred".
func (o *Output) ModeText() string {
	if o.ModeIndex == PreferredMode {
		return "preferred"
	}
	return fmt.Sprintf("%dx%d@%.0f", o.Width, o.Height, o.Refresh)
}

// ResolutionText is the human list-pane string for the output.
func (o *Output) ResolutionText() string {
	if !o.Enabled {
		return "disabled"
	}
	return fmt.Sprintf("%dx%d@%.0fHz", o.Width, o.Height, o.Refresh)
}

// CycleMode advances to the next supported mode, entering the explicit
// list from the preferred mode and wrapping at the end.
func (o *Output) CycleMode() {
	if len(o.Modes) == 0 {
		return
	}
	next := 0
	if o.ModeIndex != PreferredMode {
		next = (o.ModeIndex + 1) % len(o.Modes)
	}
	o.SetMode(next)
}

// SetMode selects Modes[i] and applies its dimensions.
func (o *Output) SetMode(i int) {
	if i < 0 || i >= len(o.Modes) {
		return
	}
	o.ModeIndex = i
	o.Width = o.Modes[i].Width
	o.Height = o.Modes[i].Height
	o.Refresh = o.Modes[i].Refresh
}

// SupportsResolution reports whether any supported mode matches the given
// pixel dimensions.
func (o *Output) SupportsResolution(width, height int) bool {
	for _, m := range o.Modes {
		if m.Width == width && m.Height == height {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (o *Output) Clone() Output {
	c := *o
	c.Modes = append([]Mode(nil), o.Modes...)
	c.Workspaces = append([]int(nil), o.Workspaces...)
	return c
}

// scaleIndex locates the current scale on the ladder, tolerating float
// drift. Unknown scales map to the ladder start.
func scaleIndex(scales []float64, scale float64) int {
	for i, s := range scales {
		if math.Abs(s-scale) < 0.01 {
			return i
		}
	}
	return 0
}
