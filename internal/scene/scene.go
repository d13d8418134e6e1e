// Package scene keeps one retained handle per catalog object and reprojects
// them for each view state. Handles are keyed by layer and object id and are
// never rebuilt, so anything holding a handle or an id stays valid across
// updates.
package scene

import (
	"github.com/mattn/go-runewidth"

	"github.com/litescript/ls-skymap/internal/catalog"
	"github.com/litescript/ls-skymap/internal/sky"
	"github.com/litescript/ls-skymap/internal/view"
)

// Layer is a drawing layer, listed bottom to top.
type Layer int

const (
	LayerBands Layer = iota
	LayerBoundaries
	LayerLines
	LayerStars
	LayerStarLabels
	LayerConstLabels
)

// Layers lists every layer in drawing order.
var Layers = []Layer{LayerBands, LayerBoundaries, LayerLines, LayerStars, LayerStarLabels, LayerConstLabels}

func (l Layer) String() string {
	switch l {
	case LayerBands:
		return "bands"
	case LayerBoundaries:
		return "boundaries"
	case LayerLines:
		return "lines"
	case LayerStars:
		return "stars"
	case LayerStarLabels:
		return "star-labels"
	case LayerConstLabels:
		return "const-labels"
	default:
		return "unknown"
	}
}

// Handle is the retained element for one object on one layer.
type Handle struct {
	ID    string // catalog id, also the click target
	Layer Layer
	Kind  catalog.Kind
	Text  string // label text
	Color string // hex colour
	Level int    // emphasis, constellation labels only

	coord sky.Coord
	paths [][]sky.Coord

	// Recomputed by Apply.
	Point   sky.Point
	Col     int // first cell of the glyph or label
	Row     int
	Width   int // cells covered, labels only
	Paths   [][]sky.Point
	Visible bool
	Focused bool
}

// Covers reports whether the cell (col, row) falls on the handle.
func (h *Handle) Covers(col, row int) bool {
	if !h.Visible || row != h.Row {
		return false
	}
	w := h.Width
	if w < 1 {
		w = 1
	}
	return col >= h.Col && col < h.Col+w
}

// Scene is the retained scene graph.
type Scene struct {
	handles map[Layer]map[string]*Handle
	order   map[Layer][]*Handle

	graticule [][]sky.Coord
	outline   []sky.Coord

	// Recomputed by Apply.
	Graticule  [][]sky.Point
	Outline    []sky.Point
	View       view.State
	Viewport   sky.Viewport
	StarLabels bool
}

// New builds handles for every object in store and precomputes the static
// decoration.
func New(store *catalog.Store) *Scene {
	s := &Scene{
		handles:   make(map[Layer]map[string]*Handle, len(Layers)),
		order:     make(map[Layer][]*Handle, len(Layers)),
		graticule: sky.Graticule10(),
		outline:   sky.SphereOutline(),
	}
	for _, l := range Layers {
		s.handles[l] = make(map[string]*Handle)
	}

	for _, b := range store.Bands() {
		s.add(&Handle{ID: b.ID, Layer: LayerBands, paths: b.Rings, Color: colorBand})
	}
	for _, c := range store.Constellations() {
		if len(c.Boundary) > 0 {
			s.add(&Handle{ID: c.ID, Layer: LayerBoundaries, Kind: catalog.KindConstellation,
				paths: [][]sky.Coord{c.Boundary}, Color: colorBoundary})
		}
	}
	for _, l := range store.Lines() {
		s.add(&Handle{ID: l.ID, Layer: LayerLines, paths: l.Segments, Color: colorLine})
	}
	for _, st := range store.Stars() {
		s.add(&Handle{ID: st.ID, Layer: LayerStars, Kind: catalog.KindStar,
			coord: st.Coord, Color: st.Color.Hex(), Text: st.Name})
		s.add(&Handle{ID: st.ID, Layer: LayerStarLabels, Kind: catalog.KindStar,
			coord: st.Coord, Color: colorStarLabel, Text: st.Name, Width: runewidth.StringWidth(st.Name)})
	}
	for _, c := range store.Constellations() {
		s.add(&Handle{ID: c.ID, Layer: LayerConstLabels, Kind: catalog.KindConstellation,
			coord: c.Coord, Color: c.Level.Hex(), Level: int(c.Level), Text: c.Name,
			Width: runewidth.StringWidth(c.Name)})
	}
	return s
}

func (s *Scene) add(h *Handle) {
	s.handles[h.Layer][h.ID] = h
	s.order[h.Layer] = append(s.order[h.Layer], h)
}

// Handle returns the handle for id on layer.
func (s *Scene) Handle(layer Layer, id string) (*Handle, bool) {
	h, ok := s.handles[layer][id]
	return h, ok
}

// Layer returns a layer's handles in declaration order.
func (s *Scene) Layer(layer Layer) []*Handle {
	return s.order[layer]
}

// Len returns the number of handles on a layer.
func (s *Scene) Len(layer Layer) int {
	return len(s.handles[layer])
}

// Apply reprojects every handle for v on vp. Star labels are shown only when
// starLabels is set.
func (s *Scene) Apply(v view.State, vp sky.Viewport, starLabels bool) {
	p := vp.Projection(v.Rotation, v.Scale)
	s.View = v
	s.Viewport = vp
	s.StarLabels = starLabels

	for _, l := range Layers {
		for id, h := range s.handles[l] {
			h.Focused = v.Focus != nil && v.Focus.ID == id && v.Focus.Kind == h.Kind
			switch l {
			case LayerBands, LayerBoundaries:
				h.Paths = h.Paths[:0]
				for _, ring := range h.paths {
					h.Paths = append(h.Paths, p.Ring(ring)...)
				}
				h.Visible = len(h.Paths) > 0
			case LayerLines:
				h.Paths = h.Paths[:0]
				for _, seg := range h.paths {
					h.Paths = append(h.Paths, p.Line(seg)...)
				}
				h.Visible = len(h.Paths) > 0
			default:
				s.place(h, p, vp, starLabels)
			}
		}
	}

	if cap(s.Graticule) < len(s.graticule) {
		s.Graticule = make([][]sky.Point, 0, len(s.graticule))
	}
	s.Graticule = s.Graticule[:0]
	for _, line := range s.graticule {
		s.Graticule = append(s.Graticule, p.Line(line)...)
	}
	s.Outline = p.NativePath(s.outline)
}

func (s *Scene) place(h *Handle, p sky.Projection, vp sky.Viewport, starLabels bool) {
	h.Point = p.Point(h.coord)
	col, row := vp.Cell(h.Point)
	h.Row = row

	switch h.Layer {
	case LayerStars:
		h.Col = col
		h.Visible = vp.Contains(col, row)
	case LayerStarLabels:
		h.Col = col + 2
		h.Visible = (starLabels || h.Focused) && spans(vp, h.Col, h.Width, row)
	case LayerConstLabels:
		// Centered one row above the anchor so the glyph beneath stays visible.
		h.Col = col - h.Width/2
		h.Row = row - 1
		h.Visible = spans(vp, h.Col, h.Width, h.Row)
	}
}

// spans reports whether any cell of a label lies on the surface.
func spans(vp sky.Viewport, col, width, row int) bool {
	if row < 0 || row >= vp.Height {
		return false
	}
	return col+width > 0 && col < vp.Width
}

// LabelAt returns the top-most clickable element at a cell: a constellation
// label, a star label or a star glyph.
func (s *Scene) LabelAt(col, row int) (*Handle, bool) {
	for _, l := range []Layer{LayerConstLabels, LayerStarLabels, LayerStars} {
		hs := s.order[l]
		for i := len(hs) - 1; i >= 0; i-- {
			if hs[i].Covers(col, row) {
				return hs[i], true
			}
		}
	}
	return nil, false
}
