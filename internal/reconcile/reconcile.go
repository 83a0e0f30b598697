// Package reconcile merges live display enumeration with previously
// known output records. It produces the working output set at startup,
// folds hot-plug events into an edited session, and maps preset records
// back onto live outputs.
package reconcile

import (
	"fmt"
	"math"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/1broseidon/monarch/internal/geometry"
	"github.com/1broseidon/monarch/internal/layout"
	"github.com/1broseidon/monarch/internal/preset"
)

// Build constructs the initial output set. Connected outputs keep their
// live attributes; position, scale, and workspaces are carried over from
// a persisted record when one exists and its resolution is still
// supported, otherwise the output is placed adjacent to the rightmost
// one already placed. Addressable but disconnected outputs are appended
// after the connected ones and retain their last known position.
func Build(connected, addressable []layout.Output, prior []preset.Record, logger *log.Logger) []layout.Output {
	records := make(map[string]preset.Record, len(prior))
	for _, r := range prior {
		records[r.Name] = r
	}

	result := make([]layout.Output, 0, len(connected)+len(addressable))
	var placedSoFar []geometry.Placed

	place := func(o layout.Output) {
		result = append(result, o)
		if o.Enabled {
			placedSoFar = append(placedSoFar, geometry.Placed{ID: o.Name, Rect: o.Rect()})
		}
	}

	for _, live := range connected {
		o := live.Clone()
		if rec, ok := records[o.Name]; ok {
			if o.SupportsResolution(rec.Width, rec.Height) {
				carryRecord(&o, rec)
			} else {
				o.X, o.Y = adjacentSlot(placedSoFar)
				logger.Warn("persisted geometry no longer fits, placing adjacent",
					"output", o.Name,
					"persisted", fmt.Sprintf("%dx%d", rec.Width, rec.Height))
			}
		}
		place(o)
	}

	for _, live := range addressable {
		o := live.Clone()
		if rec, ok := records[o.Name]; ok {
			carryRecord(&o, rec)
		}
		place(o)
	}

	return sweep(result, logger)
}

// Rebuild folds a fresh enumeration into the in-session outputs after a
// hot-plug event. In-session edits win over live state for outputs that
// are still present; outputs that vanished are retained disabled with
// their last in-session position; new outputs keep their live placement.
func Rebuild(current, connected, addressable []layout.Output, logger *log.Logger) []layout.Output {
	session := make(map[string]layout.Output, len(current))
	for _, o := range current {
		session[o.Name] = o
	}

	merge := func(live layout.Output) layout.Output {
		sess, ok := session[live.Name]
		if !ok {
			return live.Clone()
		}
		o := sess.Clone()
		o.Description = live.Description
		o.Connected = live.Connected
		o.Modes = append([]layout.Mode(nil), live.Modes...)
		refit(&o, live, logger)
		return o
	}

	result := make([]layout.Output, 0, len(connected)+len(addressable))
	for _, live := range connected {
		result = append(result, merge(live))
	}
	for _, live := range addressable {
		result = append(result, merge(live))
	}

	seen := make(map[string]bool, len(result))
	for _, o := range result {
		seen[o.Name] = true
	}
	for _, o := range current {
		if seen[o.Name] {
			continue
		}
		ghost := o.Clone()
		ghost.Enabled = false
		ghost.Connected = false
		logger.Info("output disappeared, keeping last position", "output", ghost.Name)
		result = append(result, ghost)
	}

	return sweep(result, logger)
}

// Merge applies preset records onto the current outputs by name. The
// record wins for geometry, scale, enablement, and workspaces, and for
// resolution when the output still supports it. Outputs without a
// record keep their state; records naming unknown outputs are ignored.
func Merge(current []layout.Output, records []preset.Record, logger *log.Logger) []layout.Output {
	result := layout.CloneOutputs(current)
	index := make(map[string]int, len(result))
	for i, o := range result {
		index[o.Name] = i
	}

	applied := make(map[string]bool, len(records))
	owned := make(map[int]bool)

	for _, rec := range records {
		i, ok := index[rec.Name]
		if !ok {
			logger.Warn("preset names an unknown output, skipping", "output", rec.Name)
			continue
		}
		o := &result[i]
		switch mi, ok := matchMode(o.Modes, rec.Width, rec.Height, rec.Refresh); {
		case ok:
			o.ModeIndex = mi
			o.Width = o.Modes[mi].Width
			o.Height = o.Modes[mi].Height
			o.Refresh = o.Modes[mi].Refresh
		case len(o.Modes) == 0:
			// No live mode list to check against, trust the record.
			o.Width, o.Height, o.Refresh = rec.Width, rec.Height, rec.Refresh
		default:
			logger.Warn("preset resolution not supported, keeping current mode",
				"output", rec.Name,
				"preset", fmt.Sprintf("%dx%d", rec.Width, rec.Height))
		}
		carryRecord(o, rec)
		o.Enabled = rec.Enabled
		applied[rec.Name] = true
		for _, ws := range o.Workspaces {
			owned[ws] = true
		}
	}

	// Workspace numbers stay exclusive: outputs outside the preset give
	// up any workspace the preset hands out.
	for i := range result {
		if applied[result[i].Name] {
			continue
		}
		keep := result[i].Workspaces[:0]
		for _, ws := range result[i].Workspaces {
			if !owned[ws] {
				keep = append(keep, ws)
			}
		}
		result[i].Workspaces = keep
	}

	return sweep(result, logger)
}

func carryRecord(o *layout.Output, rec preset.Record) {
	o.X, o.Y = rec.X, rec.Y
	if rec.Scale > 0 {
		o.Scale = rec.Scale
	}
	o.Workspaces = append([]int(nil), rec.Workspaces...)
	sort.Ints(o.Workspaces)
}

// refit revalidates a session output's resolution against a fresh mode
// list, falling back to the live mode when the session one is gone.
func refit(o *layout.Output, live layout.Output, logger *log.Logger) {
	if len(o.Modes) == 0 {
		return
	}
	if o.ModeIndex >= 0 {
		if mi, ok := matchMode(o.Modes, o.Width, o.Height, o.Refresh); ok {
			o.ModeIndex = mi
			o.Refresh = o.Modes[mi].Refresh
			return
		}
	} else if o.SupportsResolution(o.Width, o.Height) {
		return
	}
	logger.Warn("session resolution no longer supported, using live mode",
		"output", o.Name,
		"session", fmt.Sprintf("%dx%d", o.Width, o.Height))
	o.Width, o.Height, o.Refresh = live.Width, live.Height, live.Refresh
	o.ModeIndex = layout.PreferredMode
}

// matchMode finds the mode matching width and height exactly with the
// nearest refresh.
func matchMode(modes []layout.Mode, width, height int, refresh float64) (int, bool) {
	best, bestDiff := -1, 0.0
	for i, m := range modes {
		if m.Width != width || m.Height != height {
			continue
		}
		diff := math.Abs(m.Refresh - refresh)
		if best == -1 || diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return best, best >= 0
}

// adjacentSlot returns the position immediately right of the rightmost
// placed rectangle, top-aligned with it.
func adjacentSlot(placed []geometry.Placed) (int, int) {
	if len(placed) == 0 {
		return 0, 0
	}
	best := placed[0]
	for _, p := range placed[1:] {
		if p.Rect.Right() > best.Rect.Right() {
			best = p
		}
	}
	return best.Rect.Right(), best.Rect.Y
}

// sweep resolves any overlaps left after records are applied and shifts
// the arrangement back to the origin. Disabled outputs keep their
// retained positions untouched.
func sweep(outputs []layout.Output, logger *log.Logger) []layout.Output {
	var placed []geometry.Placed
	var idx []int
	for i, o := range outputs {
		if o.Enabled {
			placed = append(placed, geometry.Placed{ID: o.Name, Rect: o.Rect()})
			idx = append(idx, i)
		}
	}
	if len(placed) == 0 {
		return outputs
	}

	if !geometry.ResolveAll(placed) {
		logger.Warn("arrangement unresolvable, falling back to a row")
		x := 0
		for i := range placed {
			placed[i].Rect.X, placed[i].Rect.Y = x, 0
			x += placed[i].Rect.W
		}
	}
	geometry.Normalize(placed)

	for k, i := range idx {
		outputs[i].X = placed[k].Rect.X
		outputs[i].Y = placed[k].Rect.Y
	}
	return outputs
}
