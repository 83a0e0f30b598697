package geometry

// Rect is an axis-aligned rectangle in the shared logical coordinate
// space. W and H are logical (scale-adjusted) dimensions, always positive.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

// CenterX and CenterY use integer division, matching the coordinate grid.
func (r Rect) CenterX() int { return r.X + r.W/2 }
func (r Rect) CenterY() int { return r.Y + r.H/2 }

// verticalOverlap returns the length of the shared Y range, or 0.
func (r Rect) verticalOverlap(o Rect) int {
	start := max(r.Y, o.Y)
	end := min(r.Bottom(), o.Bottom())
	if end > start {
		return end - start
	}
	return 0
}

// horizontalOverlap returns the length of the shared X range, or 0.
func (r Rect) horizontalOverlap(o Rect) int {
	start := max(r.X, o.X)
	end := min(r.Right(), o.Right())
	if end > start {
		return end - start
	}
	return 0
}

// Overlaps reports whether the two rectangles intersect with positive area.
// Touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.horizontalOverlap(o) > 0 && r.verticalOverlap(o) > 0
}

// IntersectArea returns the area shared by the two rectangles.
func (r Rect) IntersectArea(o Rect) int64 {
	return int64(r.horizontalOverlap(o)) * int64(r.verticalOverlap(o))
}

// Placed is a rectangle with a stable identity. Identifiers order
// deterministic tie-breaks; the kernel knows nothing else about outputs.
type Placed struct {
	ID   string
	Rect Rect
}

// Edge names a side of a reference rectangle. For SharedEdge(a, b) it is the
// side of a where b touches; for SnapTo it is the side of the anchor the
// moving rectangle lands on.
type Edge int

const (
	EdgeLeft Edge = iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	}
	return "unknown"
}

// Direction is a movement direction on the canvas.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	}
	return "unknown"
}

// horizontal reports whether the direction moves along the X axis.
func (d Direction) horizontal() bool {
	return d == DirLeft || d == DirRight
}

// SharedEdge reports which side of a touches b: the edges must coincide
// exactly and the rectangles must overlap over a positive length on the
// perpendicular axis. Corner contact does not count.
func SharedEdge(a, b Rect) (Edge, bool) {
	if a.Right() == b.X && a.verticalOverlap(b) > 0 {
		return EdgeRight, true
	}
	if b.Right() == a.X && a.verticalOverlap(b) > 0 {
		return EdgeLeft, true
	}
	if a.Bottom() == b.Y && a.horizontalOverlap(b) > 0 {
		return EdgeBottom, true
	}
	if b.Bottom() == a.Y && a.horizontalOverlap(b) > 0 {
		return EdgeTop, true
	}
	return 0, false
}

// Touching reports whether r shares an edge with any other rectangle.
func Touching(placed []Placed, i int) bool {
	for j := range placed {
		if j == i {
			continue
		}
		if _, ok := SharedEdge(placed[i].Rect, placed[j].Rect); ok {
			return true
		}
	}
	return false
}

// Overlapping reports whether entry i overlaps any other entry.
func Overlapping(placed []Placed, i int) bool {
	for j := range placed {
		if j == i {
			continue
		}
		if placed[i].Rect.Overlaps(placed[j].Rect) {
			return true
		}
	}
	return false
}

// NoOverlaps reports whether no pair of rectangles intersects with
// positive area.
func NoOverlaps(placed []Placed) bool {
	for i := range placed {
		for j := i + 1; j < len(placed); j++ {
			if placed[i].Rect.Overlaps(placed[j].Rect) {
				return false
			}
		}
	}
	return true
}

// Connected reports whether the rectangles form a single edge-connected
// group. Zero or one rectangle counts as connected.
func Connected(placed []Placed) bool {
	if len(placed) <= 1 {
		return true
	}
	visited := make([]bool, len(placed))
	stack := []int{0}
	visited[0] = true
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i := range placed {
			if visited[i] {
				continue
			}
			if _, ok := SharedEdge(placed[cur].Rect, placed[i].Rect); ok {
				visited[i] = true
				stack = append(stack, i)
			}
		}
	}
	for _, v := range visited {
		if !v {
			return false
		}
	}
	return true
}

// Bounds returns the union bounding box. Zero rect for empty input.
func Bounds(placed []Placed) Rect {
	if len(placed) == 0 {
		return Rect{}
	}
	minX, minY := placed[0].Rect.X, placed[0].Rect.Y
	maxX, maxY := placed[0].Rect.Right(), placed[0].Rect.Bottom()
	for _, p := range placed[1:] {
		minX = min(minX, p.Rect.X)
		minY = min(minY, p.Rect.Y)
		maxX = max(maxX, p.Rect.Right())
		maxY = max(maxY, p.Rect.Bottom())
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Normalize translates all rectangles so the bounding box corner sits at
// the origin.
func Normalize(placed []Placed) {
	if len(placed) == 0 {
		return
	}
	b := Bounds(placed)
	for i := range placed {
		placed[i].Rect.X -= b.X
		placed[i].Rect.Y -= b.Y
	}
}
