package scene

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/litescript/ls-skymap/internal/sky"
)

const (
	// Background decoration
	colorGraticule = "237"
	colorOutline   = "60" // muted purple
	colorBand      = "#3b3f6b"
	colorBoundary  = "#5c5470"

	// Objects
	colorLine      = "#7f8caa"
	colorStarLabel = "250"
	colorFocus     = "229" // bright gold

	glyphStar        = '✶'
	glyphStarFocused = '◆'
	glyphGraticule   = '·'
	glyphOutline     = '•'
	glyphBand        = '░'
)

type cell struct {
	r     rune
	color string
	cont  bool // right half of a wide rune
}

// Canvas rasterizes a scene into terminal cells.
type Canvas struct {
	width  int
	height int
	cells  [][]cell
}

// NewCanvas creates an empty canvas.
func NewCanvas(width, height int) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c := &Canvas{width: width, height: height, cells: make([][]cell, height)}
	for y := range c.cells {
		c.cells[y] = make([]cell, width)
	}
	c.Clear()
	return c
}

// Clear blanks every cell.
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = cell{r: ' '}
		}
	}
}

// Draw rasterizes the scene as last applied, bottom layer first.
func (c *Canvas) Draw(s *Scene) {
	c.Clear()
	vp := s.Viewport

	outline := make([]cellPoint, len(s.Outline))
	for i, p := range s.Outline {
		outline[i] = toCell(vp.Cell(p))
	}
	for _, line := range s.Graticule {
		c.polyline(line, vp, glyphGraticule, colorGraticule)
	}
	c.path(outline, glyphOutline, colorOutline)

	for _, h := range s.Layer(LayerBands) {
		for _, ring := range h.Paths {
			c.polyline(ring, vp, glyphBand, h.Color)
		}
	}
	for _, h := range s.Layer(LayerBoundaries) {
		for _, ring := range h.Paths {
			c.polyline(ring, vp, 0, h.Color)
		}
	}
	for _, h := range s.Layer(LayerLines) {
		for _, seg := range h.Paths {
			c.polyline(seg, vp, 0, h.Color)
		}
	}
	for _, h := range s.Layer(LayerStars) {
		if !h.Visible {
			continue
		}
		if h.Focused {
			c.set(h.Col, h.Row, glyphStarFocused, colorFocus)
		} else {
			c.set(h.Col, h.Row, glyphStar, h.Color)
		}
	}
	for _, l := range []Layer{LayerStarLabels, LayerConstLabels} {
		for _, h := range s.Layer(l) {
			if !h.Visible {
				continue
			}
			color := h.Color
			if h.Focused {
				color = colorFocus
			}
			c.text(h.Col, h.Row, h.Text, color)
		}
	}
}

type cellPoint struct{ x, y int }

func toCell(col, row int) cellPoint { return cellPoint{col, row} }

func (c *Canvas) polyline(pts []sky.Point, vp sky.Viewport, glyph rune, color string) {
	cells := make([]cellPoint, len(pts))
	for i, p := range pts {
		cells[i] = toCell(vp.Cell(p))
	}
	c.path(cells, glyph, color)
}

func (c *Canvas) path(pts []cellPoint, glyph rune, color string) {
	for i := 1; i < len(pts); i++ {
		c.segment(pts[i-1], pts[i], glyph, color)
	}
}

// segment clips a segment to the canvas and draws it. A zero glyph picks
// one from the slope.
func (c *Canvas) segment(a, b cellPoint, glyph rune, color string) {
	x0, y0, x1, y1, ok := clip(float64(a.x), float64(a.y), float64(b.x), float64(b.y),
		0, 0, float64(c.width-1), float64(c.height-1))
	if !ok {
		return
	}
	if glyph == 0 {
		glyph = slopeGlyph(b.x-a.x, b.y-a.y)
	}

	ix0, iy0 := int(math.Round(x0)), int(math.Round(y0))
	ix1, iy1 := int(math.Round(x1)), int(math.Round(y1))
	dx := abs(ix1 - ix0)
	dy := -abs(iy1 - iy0)
	sx, sy := 1, 1
	if ix0 > ix1 {
		sx = -1
	}
	if iy0 > iy1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.stroke(ix0, iy0, glyph, color)
		if ix0 == ix1 && iy0 == iy1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			ix0 += sx
		}
		if e2 <= dx {
			err += dx
			iy0 += sy
		}
	}
}

// clip is Liang-Barsky clipping of (x0,y0)-(x1,y1) to a rectangle.
func clip(x0, y0, x1, y1, xmin, ymin, xmax, ymax float64) (float64, float64, float64, float64, bool) {
	if xmax < xmin || ymax < ymin {
		return 0, 0, 0, 0, false
	}
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0 - xmin, xmax - x0, y0 - ymin, ymax - y0}
	for i := range p {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func slopeGlyph(dx, dy int) rune {
	switch {
	case dy == 0 || abs(dx) > 2*abs(dy):
		return '─'
	case dx == 0 || abs(dy) > 2*abs(dx):
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

// stroke draws a line cell without breaking wide runes already placed.
func (c *Canvas) stroke(x, y int, r rune, color string) {
	if !c.in(x, y) || c.cells[y][x].cont {
		return
	}
	if x+1 < c.width && c.cells[y][x+1].cont {
		return
	}
	c.cells[y][x] = cell{r: r, color: color}
}

func (c *Canvas) set(x, y int, r rune, color string) {
	if !c.in(x, y) {
		return
	}
	c.unwide(x, y)
	c.cells[y][x] = cell{r: r, color: color}
}

// text writes s from (x, y), giving wide runes two cells. Runes that would
// fall off either edge are dropped.
func (c *Canvas) text(x, y int, s, color string) {
	if y < 0 || y >= c.height {
		return
	}
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x >= 0 && x+w <= c.width {
			c.unwide(x, y)
			c.cells[y][x] = cell{r: r, color: color}
			if w == 2 {
				c.unwide(x+1, y)
				c.cells[y][x+1] = cell{cont: true, color: color}
			}
		}
		x += w
	}
}

// unwide clears the other half of a wide rune overlapping (x, y).
func (c *Canvas) unwide(x, y int) {
	if c.cells[y][x].cont && x > 0 {
		c.cells[y][x-1] = cell{r: ' '}
	}
	if x+1 < c.width && c.cells[y][x+1].cont {
		c.cells[y][x+1] = cell{r: ' '}
	}
}

func (c *Canvas) in(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Render returns the canvas with colours, one line per row.
func (c *Canvas) Render() string {
	var b strings.Builder
	for y, row := range c.cells {
		var run strings.Builder
		color := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if color == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(run.String()))
			}
			run.Reset()
		}
		for _, cl := range row {
			if cl.cont {
				continue
			}
			if cl.color != color {
				flush()
				color = cl.color
			}
			run.WriteRune(cl.r)
		}
		flush()
		if y < c.height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Plain returns the canvas without colours.
func (c *Canvas) Plain() string {
	var b strings.Builder
	for y, row := range c.cells {
		for _, cl := range row {
			if !cl.cont {
				b.WriteRune(cl.r)
			}
		}
		if y < c.height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// RuneAt returns the rune drawn at a cell, 0 for the right half of a wide
// rune or a cell off the canvas.
func (c *Canvas) RuneAt(x, y int) rune {
	if !c.in(x, y) || c.cells[y][x].cont {
		return 0
	}
	return c.cells[y][x].r
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
