package preset

import (
	"time"

	"github.com/1broseidon/monarch/internal/layout"
)

// Record is one output as persisted in a preset. Modes and other live
// attributes are not stored; the reconciler re-derives them from the
// compositor when a preset is restored.
type Record struct {
	Name       string  `json:"name"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Refresh    float64 `json:"refresh"`
	Scale      float64 `json:"scale"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Enabled    bool    `json:"enabled"`
	Workspaces []int   `json:"workspaces,omitempty"`
}

// Preset is a named saved arrangement. Disabled and disconnected
// outputs are kept so restoring brings back their retained positions.
type Preset struct {
	Name    string    `json:"name"`
	SavedAt time.Time `json:"saved_at"`
	Outputs []Record  `json:"outputs"`
}

// RecordsFrom captures the persistable slice of every output, enabled
// or not.
func RecordsFrom(outputs []layout.Output) []Record {
	recs := make([]Record, len(outputs))
	for i := range outputs {
		o := &outputs[i]
		recs[i] = Record{
			Name:       o.Name,
			Width:      o.Width,
			Height:     o.Height,
			Refresh:    o.Refresh,
			Scale:      o.Scale,
			X:          o.X,
			Y:          o.Y,
			Enabled:    o.Enabled,
			Workspaces: append([]int(nil), o.Workspaces...),
		}
	}
	return recs
}
