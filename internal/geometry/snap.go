package geometry

// SnapTo places moving flush against anchor on the given side of the
// anchor, aligning the leading coordinate on the adjacent axis (landing on
// a vertical side aligns tops, landing on a horizontal side aligns lefts).
func SnapTo(moving, anchor Rect, edge Edge) Rect {
	switch edge {
	case EdgeLeft:
		moving.X = anchor.X - moving.W
		moving.Y = anchor.Y
	case EdgeRight:
		moving.X = anchor.Right()
		moving.Y = anchor.Y
	case EdgeTop:
		moving.Y = anchor.Y - moving.H
		moving.X = anchor.X
	case EdgeBottom:
		moving.Y = anchor.Bottom()
		moving.X = anchor.X
	}
	return moving
}

// approachEdge is the side of the anchor a rectangle lands on when it
// travels toward the anchor in the given direction.
func approachEdge(dir Direction) Edge {
	switch dir {
	case DirLeft:
		return EdgeRight
	case DirRight:
		return EdgeLeft
	case DirUp:
		return EdgeBottom
	default:
		return EdgeTop
	}
}

// EdgeNeighbor returns the entry sharing an edge with placed[sel] on
// placed[sel]'s side facing dir, nearest first, smaller ID on ties.
func EdgeNeighbor(placed []Placed, sel int, dir Direction) (int, bool) {
	selR := placed[sel].Rect
	best := -1
	for i, p := range placed {
		if i == sel {
			continue
		}
		var qualifies bool
		switch dir {
		case DirLeft:
			qualifies = p.Rect.Right() == selR.X && selR.verticalOverlap(p.Rect) > 0
		case DirRight:
			qualifies = p.Rect.X == selR.Right() && selR.verticalOverlap(p.Rect) > 0
		case DirUp:
			qualifies = p.Rect.Bottom() == selR.Y && selR.horizontalOverlap(p.Rect) > 0
		case DirDown:
			qualifies = p.Rect.Y == selR.Bottom() && selR.horizontalOverlap(p.Rect) > 0
		}
		if qualifies && (best == -1 || p.ID < placed[best].ID) {
			best = i
		}
	}
	return best, best != -1
}

// NearestInDirection returns the entry nearest to placed[sel] in the given
// direction, measured edge to edge. Entries behind the selected rectangle
// do not qualify. When no entry lies strictly in that direction, the
// nearest by center distance on the correct side is returned instead.
// Equal distances resolve to the smaller ID.
func NearestInDirection(placed []Placed, sel int, dir Direction) (int, bool) {
	selR := placed[sel].Rect
	best, bestDist := -1, 0
	for i, p := range placed {
		if i == sel {
			continue
		}
		var dist int
		switch dir {
		case DirLeft:
			dist = selR.X - p.Rect.Right()
		case DirRight:
			dist = p.Rect.X - selR.Right()
		case DirUp:
			dist = selR.Y - p.Rect.Bottom()
		case DirDown:
			dist = p.Rect.Y - selR.Bottom()
		}
		if dist < 0 {
			continue
		}
		if best == -1 || dist < bestDist || (dist == bestDist && p.ID < placed[best].ID) {
			best, bestDist = i, dist
		}
	}
	if best != -1 {
		return best, true
	}

	// Fall back to the closest center on the correct side.
	cx, cy := selR.CenterX(), selR.CenterY()
	for i, p := range placed {
		if i == sel {
			continue
		}
		ocx, ocy := p.Rect.CenterX(), p.Rect.CenterY()
		var correctSide bool
		switch dir {
		case DirLeft:
			correctSide = ocx < cx
		case DirRight:
			correctSide = ocx > cx
		case DirUp:
			correctSide = ocy < cy
		case DirDown:
			correctSide = ocy > cy
		}
		if !correctSide {
			continue
		}
		d := abs(ocx-cx) + abs(ocy-cy)
		if best == -1 || d < bestDist || (d == bestDist && p.ID < placed[best].ID) {
			best, bestDist = i, d
		}
	}
	return best, best != -1
}

// FarSnap relocates placed[sel] to the outer bound of the remaining layout
// in the given direction, aligned with the entry at that extreme. With no
// other entries the rectangle is left in place.
func FarSnap(placed []Placed, sel int, dir Direction) {
	if len(placed) <= 1 {
		return
	}
	selR := placed[sel].Rect

	// Bounds and the extreme entry of everything else.
	first := true
	var minX, maxX, minY, maxY int
	for i, p := range placed {
		if i == sel {
			continue
		}
		if first {
			minX, maxX = p.Rect.X, p.Rect.Right()
			minY, maxY = p.Rect.Y, p.Rect.Bottom()
			first = false
			continue
		}
		minX = min(minX, p.Rect.X)
		maxX = max(maxX, p.Rect.Right())
		minY = min(minY, p.Rect.Y)
		maxY = max(maxY, p.Rect.Bottom())
	}

	ref := -1
	for i, p := range placed {
		if i == sel {
			continue
		}
		var atExtreme bool
		switch dir {
		case DirLeft:
			atExtreme = p.Rect.X == minX
		case DirRight:
			atExtreme = p.Rect.Right() == maxX
		case DirUp:
			atExtreme = p.Rect.Y == minY
		case DirDown:
			atExtreme = p.Rect.Bottom() == maxY
		}
		if atExtreme && (ref == -1 || p.ID < placed[ref].ID) {
			ref = i
		}
	}

	switch dir {
	case DirLeft:
		selR.X = minX - selR.W
		selR.Y = placed[ref].Rect.Y
	case DirRight:
		selR.X = maxX
		selR.Y = placed[ref].Rect.Y
	case DirUp:
		selR.Y = minY - selR.H
		selR.X = placed[ref].Rect.X
	case DirDown:
		selR.Y = maxY
		selR.X = placed[ref].Rect.X
	}
	placed[sel].Rect = selR
}

// AutoSnap pulls every rectangle that touches nothing flush against its
// nearest neighbor by center distance, choosing the side from the larger
// center delta. Repeats until stable, bounded by the entry count.
func AutoSnap(placed []Placed) {
	if len(placed) <= 1 {
		return
	}
	for range placed {
		fixed := false
		for i := range placed {
			if Touching(placed, i) {
				continue
			}
			cx, cy := placed[i].Rect.CenterX(), placed[i].Rect.CenterY()
			nearest, nearestDist := -1, 0
			for j := range placed {
				if j == i {
					continue
				}
				d := abs(placed[j].Rect.CenterX()-cx) + abs(placed[j].Rect.CenterY()-cy)
				if nearest == -1 || d < nearestDist || (d == nearestDist && placed[j].ID < placed[nearest].ID) {
					nearest, nearestDist = j, d
				}
			}
			if nearest == -1 {
				continue
			}
			anchor := placed[nearest].Rect
			dx := cx - anchor.CenterX()
			dy := cy - anchor.CenterY()
			if abs(dx) > abs(dy) {
				if dx > 0 {
					placed[i].Rect = SnapTo(placed[i].Rect, anchor, EdgeRight)
				} else {
					placed[i].Rect = SnapTo(placed[i].Rect, anchor, EdgeLeft)
				}
			} else {
				if dy > 0 {
					placed[i].Rect = SnapTo(placed[i].Rect, anchor, EdgeBottom)
				} else {
					placed[i].Rect = SnapTo(placed[i].Rect, anchor, EdgeTop)
				}
			}
			fixed = true
		}
		if !fixed {
			break
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
