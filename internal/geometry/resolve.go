package geometry

import "sort"

// MoveOutcome tags how a directional move request was interpreted.
type MoveOutcome int

const (
	// MoveAccepted: the tentative position is free and stays edge-connected.
	MoveAccepted MoveOutcome = iota
	// MoveSwapped: the tentative position overlapped another rectangle in
	// the movement direction; the two exchange positions.
	MoveSwapped
	// MoveSnapped: the tentative position detached the rectangle from every
	// neighbor; it lands flush against the nearest one in the direction of
	// travel (or at the layout's outer bound when none lies that way).
	MoveSnapped
	// MoveRejected: no interpretation produced a valid placement.
	MoveRejected
)

func (o MoveOutcome) String() string {
	switch o {
	case MoveAccepted:
		return "accepted"
	case MoveSwapped:
		return "swapped"
	case MoveSnapped:
		return "snapped"
	case MoveRejected:
		return "rejected"
	}
	return "unknown"
}

// MoveResult is the decision for one directional move. Rect is the new
// rectangle for the moved entry (Accepted and Snapped). Partner is the swap
// partner or snap anchor index, -1 when none. Edge is the anchor side the
// rectangle landed on (Snapped with an anchor only).
type MoveResult struct {
	Outcome MoveOutcome
	Rect    Rect
	Partner int
	Edge    Edge
}

// step offsets r by step in the given direction.
func step(r Rect, dir Direction, by int) Rect {
	switch dir {
	case DirLeft:
		r.X -= by
	case DirRight:
		r.X += by
	case DirUp:
		r.Y -= by
	case DirDown:
		r.Y += by
	}
	return r
}

// centerToward reports whether target's center lies in the given direction
// from origin's center.
func centerToward(target, origin Rect, dir Direction) bool {
	switch dir {
	case DirLeft:
		return target.CenterX() < origin.CenterX()
	case DirRight:
		return target.CenterX() > origin.CenterX()
	case DirUp:
		return target.CenterY() < origin.CenterY()
	default:
		return target.CenterY() > origin.CenterY()
	}
}

// DecideMove interprets a directional nudge of placed[sel] by the given
// step. Overlap with another entry becomes a swap with the most-overlapped
// one, but only toward the movement direction; a free position that leaves
// the rectangle fully detached becomes a snap in the direction of travel.
// The input is not modified.
func DecideMove(placed []Placed, sel int, dir Direction, by int) MoveResult {
	if len(placed) <= 1 || by <= 0 {
		return MoveResult{Outcome: MoveRejected, Partner: -1}
	}
	orig := placed[sel].Rect
	tent := step(orig, dir, by)

	most, mostArea := -1, int64(0)
	for i, p := range placed {
		if i == sel {
			continue
		}
		area := tent.IntersectArea(p.Rect)
		if area > mostArea || (area == mostArea && area > 0 && p.ID < placed[most].ID) {
			most, mostArea = i, area
		}
	}
	if most != -1 {
		if centerToward(placed[most].Rect, orig, dir) {
			return MoveResult{Outcome: MoveSwapped, Partner: most}
		}
		return MoveResult{Outcome: MoveRejected, Partner: -1}
	}

	// Free position: keep it when some edge contact remains.
	for i, p := range placed {
		if i == sel {
			continue
		}
		if _, ok := SharedEdge(tent, p.Rect); ok {
			return MoveResult{Outcome: MoveAccepted, Rect: tent, Partner: -1}
		}
	}

	// Fully detached: reattach in the direction of travel.
	moved := make([]Placed, len(placed))
	copy(moved, placed)
	moved[sel].Rect = tent
	if anchor, ok := NearestInDirection(moved, sel, dir); ok {
		e := approachEdge(dir)
		return MoveResult{
			Outcome: MoveSnapped,
			Rect:    SnapTo(tent, placed[anchor].Rect, e),
			Partner: anchor,
			Edge:    e,
		}
	}
	FarSnap(moved, sel, dir)
	return MoveResult{Outcome: MoveSnapped, Rect: moved[sel].Rect, Partner: -1}
}

// axis candidate generation: flush positions beside every entry whose
// perpendicular band overlaps the candidate.
func axisCandidates(c Rect, others []Placed, horizontal bool) []int {
	var out []int
	if horizontal {
		out = append(out, c.X)
	} else {
		out = append(out, c.Y)
	}
	for _, o := range others {
		if horizontal {
			if c.verticalOverlap(o.Rect) == 0 {
				continue
			}
			out = append(out, o.Rect.X-c.W, o.Rect.Right())
		} else {
			if c.horizontalOverlap(o.Rect) == 0 {
				continue
			}
			out = append(out, o.Rect.Y-c.H, o.Rect.Bottom())
		}
	}
	return out
}

func placeOnAxis(c Rect, coord int, horizontal bool) Rect {
	if horizontal {
		c.X = coord
	} else {
		c.Y = coord
	}
	return c
}

func validAgainst(c Rect, others []Placed) bool {
	for _, o := range others {
		if c.Overlaps(o.Rect) {
			return false
		}
	}
	return true
}

// searchWindow bounds how far a rectangle may be displaced during overlap
// resolution: the combined span of everything on that axis.
func searchWindow(c Rect, others []Placed, horizontal bool) int {
	w := 0
	if horizontal {
		w = c.W
		for _, o := range others {
			w += o.Rect.W
		}
	} else {
		w = c.H
		for _, o := range others {
			w += o.Rect.H
		}
	}
	return w
}

// resolveAlong returns the nearest valid coordinate displacement along one
// axis, or false when none lies within the search window. Ties prefer the
// smaller coordinate.
func resolveAlong(c Rect, others []Placed, horizontal bool) (Rect, int, bool) {
	cur := c.X
	if !horizontal {
		cur = c.Y
	}
	cands := axisCandidates(c, others, horizontal)
	sort.Slice(cands, func(i, j int) bool {
		di, dj := abs(cands[i]-cur), abs(cands[j]-cur)
		if di != dj {
			return di < dj
		}
		return cands[i] < cands[j]
	})
	window := searchWindow(c, others, horizontal)
	for _, coord := range cands {
		if abs(coord-cur) > window {
			break
		}
		r := placeOnAxis(c, coord, horizontal)
		if validAgainst(r, others) {
			return r, abs(coord - cur), true
		}
	}
	return c, 0, false
}

// ResolveOverlapAxis returns the nearest position along the given movement
// axis that removes all overlap between the candidate and others. The
// second result is false when no such position exists within the search
// window; the candidate is returned unchanged.
func ResolveOverlapAxis(candidate Rect, others []Placed, dir Direction) (Rect, bool) {
	if validAgainst(candidate, others) {
		return candidate, true
	}
	r, _, ok := resolveAlong(candidate, others, dir.horizontal())
	return r, ok
}

// ResolveOverlap considers both axes and returns the valid position with
// the smallest displacement. Horizontal wins exact ties.
func ResolveOverlap(candidate Rect, others []Placed) (Rect, bool) {
	if validAgainst(candidate, others) {
		return candidate, true
	}
	hr, hd, hok := resolveAlong(candidate, others, true)
	vr, vd, vok := resolveAlong(candidate, others, false)
	switch {
	case hok && vok:
		if vd < hd {
			return vr, true
		}
		return hr, true
	case hok:
		return hr, true
	case vok:
		return vr, true
	}
	return candidate, false
}

// ResolveAll sweeps remaining overlapping pairs in slice order, pushing the
// later entry to its nearest valid position. Returns false when some
// overlap could not be resolved within its search window.
func ResolveAll(placed []Placed) bool {
	for range placed {
		moved := false
		for i := 0; i < len(placed) && !moved; i++ {
			for j := i + 1; j < len(placed) && !moved; j++ {
				if !placed[i].Rect.Overlaps(placed[j].Rect) {
					continue
				}
				others := make([]Placed, 0, len(placed)-1)
				for k := range placed {
					if k != j {
						others = append(others, placed[k])
					}
				}
				r, ok := ResolveOverlap(placed[j].Rect, others)
				if !ok {
					return false
				}
				placed[j].Rect = r
				moved = true
			}
		}
		if !moved {
			return true
		}
	}
	return NoOverlaps(placed)
}
