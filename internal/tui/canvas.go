package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/monarch/internal/geometry"
	"github.com/1broseidon/monarch/internal/layout"
)

// charAspect is how many logical pixels one terminal row spans for
// every pixel a column spans. Terminal cells are roughly twice as tall
// as they are wide, so a square monitor needs twice as many columns as
// rows to look square.
const charAspect = 2.0

// projection maps the logical pixel plane onto a character grid,
// aspect-fit and centered.
type projection struct {
	minX, minY int
	scale      float64 // logical px per column
	padX, padY int     // centering offset in cells
	cols, rows int
}

// fitProjection sizes a projection so all rectangles fit the grid.
func fitProjection(rects []geometry.Rect, cols, rows int) projection {
	p := projection{scale: 1, cols: cols, rows: rows}
	if len(rects) == 0 || cols < 4 || rows < 2 {
		return p
	}
	minX, minY := rects[0].X, rects[0].Y
	maxX, maxY := rects[0].Right(), rects[0].Bottom()
	for _, r := range rects[1:] {
		if r.X < minX {
			minX = r.X
		}
		if r.Y < minY {
			minY = r.Y
		}
		if r.Right() > maxX {
			maxX = r.Right()
		}
		if r.Bottom() > maxY {
			maxY = r.Bottom()
		}
	}
	worldW := maxX - minX
	worldH := maxY - minY
	s := float64(worldW) / float64(cols)
	if sy := float64(worldH) / (float64(rows) * charAspect); sy > s {
		s = sy
	}
	if s <= 0 {
		s = 1
	}
	p.minX, p.minY, p.scale = minX, minY, s
	usedCols := int(float64(worldW) / s)
	usedRows := int(float64(worldH) / (s * charAspect))
	if pad := (cols - usedCols) / 2; pad > 0 {
		p.padX = pad
	}
	if pad := (rows - usedRows) / 2; pad > 0 {
		p.padY = pad
	}
	return p
}

// cell maps a logical point to its grid cell.
func (p projection) cell(x, y int) (int, int) {
	cx := p.padX + int(float64(x-p.minX)/p.scale)
	cy := p.padY + int(float64(y-p.minY)/(p.scale*charAspect))
	return cx, cy
}

// logical maps a grid cell back to the logical point at its top-left
// corner, the inverse of cell up to rounding.
func (p projection) logical(cx, cy int) (int, int) {
	x := p.minX + int(float64(cx-p.padX)*p.scale)
	y := p.minY + int(float64(cy-p.padY)*p.scale*charAspect)
	return x, y
}

// cell classes drive per-run styling when the grid is flattened.
const (
	cellEmpty uint8 = iota
	cellBox
	cellBoxSel
	cellLabel
	cellLabelSel
	cellDim
)

// canvasItem is one enabled output projected onto the canvas.
type canvasItem struct {
	name     string
	caption  string
	rect     geometry.Rect
	selected bool
}

// canvasItems projects the enabled outputs, substituting the drag
// ghost rectangle for the selected one while a drag is live.
func canvasItems(lay *layout.Layout, ghost *geometry.Rect) []canvasItem {
	sel := lay.SelectedOutput()
	var items []canvasItem
	for i := range lay.Outputs {
		o := &lay.Outputs[i]
		if !o.Enabled {
			continue
		}
		it := canvasItem{
			name:    o.Name,
			caption: fmt.Sprintf("%dx%d", o.Width, o.Height),
			rect:    o.Rect(),
		}
		if sel != nil && o.Name == sel.Name {
			it.selected = true
			if ghost != nil {
				it.rect = *ghost
			}
		}
		items = append(items, it)
	}
	return items
}

// renderCanvas draws the arrangement into a width x height cell area.
func renderCanvas(lay *layout.Layout, ghost *geometry.Rect, width, height int) string {
	if width < 4 || height < 2 {
		return ""
	}
	items := canvasItems(lay, ghost)
	if len(items) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			dimStyle.Render("no enabled outputs"))
	}
	p := fitProjection(rectsOf(items), width, height)

	runes := make([][]rune, height)
	classes := make([][]uint8, height)
	for y := range runes {
		runes[y] = make([]rune, width)
		classes[y] = make([]uint8, width)
		for x := range runes[y] {
			runes[y][x] = ' '
		}
	}

	// Selected last so its border wins shared cells.
	for _, it := range items {
		if !it.selected {
			drawOutput(runes, classes, p, it)
		}
	}
	for _, it := range items {
		if it.selected {
			drawOutput(runes, classes, p, it)
		}
	}

	rows := make([]string, height)
	for y := 0; y < height; y++ {
		rows[y] = styleRow(runes[y], classes[y])
	}
	return strings.Join(rows, "\n")
}

func drawOutput(runes [][]rune, classes [][]uint8, p projection, it canvasItem) {
	x1, y1 := p.cell(it.rect.X, it.rect.Y)
	x2, y2 := p.cell(it.rect.Right(), it.rect.Bottom())
	x2--
	y2--
	if x2 < x1+1 {
		x2 = x1 + 1
	}
	if y2 < y1+1 {
		y2 = y1 + 1
	}
	x1, y1 = clampCell(x1, y1, p)
	x2, y2 = clampCell(x2, y2, p)
	if x2 <= x1 || y2 <= y1 {
		return
	}

	box := cellBox
	label := cellLabel
	if it.selected {
		box = cellBoxSel
		label = cellLabelSel
	}

	set := func(x, y int, r rune, cls uint8) {
		runes[y][x] = r
		classes[y][x] = cls
	}
	for x := x1; x <= x2; x++ {
		set(x, y1, '─', box)
		set(x, y2, '─', box)
	}
	for y := y1; y <= y2; y++ {
		set(x1, y, '│', box)
		set(x2, y, '│', box)
	}
	set(x1, y1, '┌', box)
	set(x2, y1, '┐', box)
	set(x1, y2, '└', box)
	set(x2, y2, '┘', box)

	inner := x2 - x1 - 1
	if inner < 1 {
		return
	}
	centerY := (y1 + y2) / 2
	drawLabel(runes, classes, it.name, x1, x2, centerY, label)
	if y2-y1 >= 3 && centerY+1 < y2 {
		drawLabel(runes, classes, it.caption, x1, x2, centerY+1, cellDim)
	}
}

func drawLabel(runes [][]rune, classes [][]uint8, text string, x1, x2, y int, cls uint8) {
	inner := x2 - x1 - 1
	if inner < 1 || y <= 0 || y >= len(runes) {
		return
	}
	label := []rune(text)
	if len(label) > inner {
		label = label[:inner]
	}
	startX := (x1+x2)/2 - len(label)/2
	for i, r := range label {
		x := startX + i
		if x > x1 && x < x2 {
			runes[y][x] = r
			classes[y][x] = cls
		}
	}
}

func clampCell(x, y int, p projection) (int, int) {
	if x < 0 {
		x = 0
	}
	if x >= p.cols {
		x = p.cols - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= p.rows {
		y = p.rows - 1
	}
	return x, y
}

// styleRow flattens one grid row, styling runs of equal class.
func styleRow(runes []rune, classes []uint8) string {
	var b strings.Builder
	start := 0
	for start < len(runes) {
		end := start
		for end < len(runes) && classes[end] == classes[start] {
			end++
		}
		chunk := string(runes[start:end])
		switch classes[start] {
		case cellBox:
			b.WriteString(detailStyle.Render(chunk))
		case cellBoxSel:
			b.WriteString(accentStyle.Render(chunk))
		case cellLabel:
			b.WriteString(normalStyle.Render(chunk))
		case cellLabelSel:
			b.WriteString(selectedStyle.Render(chunk))
		case cellDim:
			b.WriteString(dimStyle.Render(chunk))
		default:
			b.WriteString(chunk)
		}
		start = end
	}
	return b.String()
}

// hitTest maps a grid cell to the enabled output under it, returning
// its name, or "" when the cell is free.
func hitTest(lay *layout.Layout, ghost *geometry.Rect, cx, cy, width, height int) string {
	items := canvasItems(lay, ghost)
	if len(items) == 0 {
		return ""
	}
	p := fitProjection(rectsOf(items), width, height)
	x, y := p.logical(cx, cy)
	// Selected first so overlapping ghosts stay grabbable.
	for _, it := range items {
		if it.selected && containsPoint(it.rect, x, y) {
			return it.name
		}
	}
	for _, it := range items {
		if containsPoint(it.rect, x, y) {
			return it.name
		}
	}
	return ""
}

func containsPoint(r geometry.Rect, x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

func rectsOf(items []canvasItem) []geometry.Rect {
	rects := make([]geometry.Rect, len(items))
	for i := range items {
		rects[i] = items[i].rect
	}
	return rects
}
