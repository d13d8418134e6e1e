package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-skymap/internal/sky"
)

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type" yaml:"type"`
	Features []Feature `json:"features" yaml:"features"`
}

// Feature is a GeoJSON feature with free-form properties.
type Feature struct {
	Properties map[string]interface{} `json:"properties" yaml:"properties"`
	Type       string                 `json:"type" yaml:"type"`
	Geometry   Geometry               `json:"geometry" yaml:"geometry"`
}

// Geometry is a GeoJSON geometry. Coordinates stay untyped until the
// geometry type is known; numbers may be encoded as strings.
type Geometry struct {
	Type        string      `json:"type" yaml:"type"`
	Coordinates interface{} `json:"coordinates" yaml:"coordinates"`
}

// File is the on-disk catalog: one feature collection per layer.
type File struct {
	Stars          FeatureCollection `json:"stars" yaml:"stars"`
	Constellations FeatureCollection `json:"constellations" yaml:"constellations"`
	Lines          FeatureCollection `json:"lines" yaml:"lines"`
	Bands          FeatureCollection `json:"bands" yaml:"bands"`
}

// LoadFile reads a catalog from a .json/.geojson or .yaml/.yml file.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var f File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	default:
		err = json.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	return f.Store()
}

// Store converts the file into a validated catalog store.
func (f File) Store() (*Store, error) {
	var (
		stars  []Star
		consts []Constellation
		lines  []Line
		bands  []Band
	)

	for i, ft := range f.Stars.Features {
		c, err := ft.Geometry.point()
		if err != nil {
			return nil, fmt.Errorf("star feature %d: %w", i, err)
		}
		id := ft.str("id")
		stars = append(stars, Star{
			ID:            id,
			Name:          ft.str("display_name"),
			Coord:         c,
			Color:         ParseColor(ft.str("color")),
			Constellation: ft.str("const_name"),
			ProperName:    ft.str("prop_name"),
			Ref:           ft.strOr("filename", id),
		})
	}

	for i, ft := range f.Constellations.Features {
		c, err := ft.Geometry.point()
		if err != nil {
			return nil, fmt.Errorf("constellation feature %d: %w", i, err)
		}
		id := ft.str("id")
		lvl, _ := strconv.Atoi(ft.strOr("level", ft.str("color")))
		cons := Constellation{
			ID:    id,
			Name:  ft.str("display_name"),
			Coord: c,
			Level: Level(lvl),
			Ref:   ft.strOr("filename", id),
		}
		if b, ok := ft.Properties["boundary"]; ok {
			ring, err := toPath(b)
			if err != nil {
				return nil, fmt.Errorf("constellation %s boundary: %w", id, err)
			}
			cons.Boundary = ring
		}
		consts = append(consts, cons)
	}

	for i, ft := range f.Lines.Features {
		segs, err := ft.Geometry.paths()
		if err != nil {
			return nil, fmt.Errorf("line feature %d: %w", i, err)
		}
		lines = append(lines, Line{ID: ft.strOr("line_id", ft.str("id")), Segments: segs})
	}

	for i, ft := range f.Bands.Features {
		rings, err := ft.Geometry.paths()
		if err != nil {
			return nil, fmt.Errorf("band feature %d: %w", i, err)
		}
		bands = append(bands, Band{ID: ft.strOr("id", fmt.Sprintf("band-%04d", i+1)), Rings: rings})
	}

	return New(stars, consts, lines, bands)
}

func (ft Feature) str(key string) string {
	v, ok := ft.Properties[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func (ft Feature) strOr(key, fallback string) string {
	if s := ft.str(key); s != "" {
		return s
	}
	return fallback
}

func (g Geometry) point() (sky.Coord, error) {
	if g.Type != "Point" {
		return sky.Coord{}, fmt.Errorf("geometry %q, want Point", g.Type)
	}
	return toCoord(g.Coordinates)
}

// paths flattens LineString, MultiLineString, Polygon and MultiPolygon into
// coordinate sequences.
func (g Geometry) paths() ([][]sky.Coord, error) {
	switch g.Type {
	case "LineString":
		p, err := toPath(g.Coordinates)
		if err != nil {
			return nil, err
		}
		return [][]sky.Coord{p}, nil
	case "MultiLineString", "Polygon":
		return toPaths(g.Coordinates)
	case "MultiPolygon":
		polys, ok := g.Coordinates.([]interface{})
		if !ok {
			return nil, fmt.Errorf("MultiPolygon coordinates are %T", g.Coordinates)
		}
		var out [][]sky.Coord
		for _, poly := range polys {
			rings, err := toPaths(poly)
			if err != nil {
				return nil, err
			}
			out = append(out, rings...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported geometry %q", g.Type)
	}
}

func toPaths(v interface{}) ([][]sky.Coord, error) {
	list, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected list of paths, got %T", v)
	}
	out := make([][]sky.Coord, 0, len(list))
	for _, item := range list {
		p, err := toPath(item)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func toPath(v interface{}) ([]sky.Coord, error) {
	list, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected list of positions, got %T", v)
	}
	out := make([]sky.Coord, 0, len(list))
	for _, item := range list {
		c, err := toCoord(item)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func toCoord(v interface{}) (sky.Coord, error) {
	pos, ok := v.([]interface{})
	if !ok || len(pos) < 2 {
		return sky.Coord{}, fmt.Errorf("invalid position %v", v)
	}
	lon, err := toFloat(pos[0])
	if err != nil {
		return sky.Coord{}, err
	}
	lat, err := toFloat(pos[1])
	if err != nil {
		return sky.Coord{}, err
	}
	return sky.Coord{Lon: lon, Lat: lat}, nil
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q: %w", n, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("invalid number %v (%T)", v, v)
	}
}

// ToFile converts a store back into its on-disk form.
func ToFile(s *Store) File {
	f := File{
		Stars:          FeatureCollection{Type: "FeatureCollection"},
		Constellations: FeatureCollection{Type: "FeatureCollection"},
		Lines:          FeatureCollection{Type: "FeatureCollection"},
		Bands:          FeatureCollection{Type: "FeatureCollection"},
	}

	for _, st := range s.stars {
		f.Stars.Features = append(f.Stars.Features, Feature{
			Type:     "Feature",
			Geometry: Geometry{Type: "Point", Coordinates: position(st.Coord)},
			Properties: map[string]interface{}{
				"id":           st.ID,
				"display_name": st.Name,
				"color":        st.Color.Name(),
				"const_name":   st.Constellation,
				"prop_name":    st.ProperName,
				"filename":     st.Ref,
			},
		})
	}

	for _, c := range s.consts {
		props := map[string]interface{}{
			"id":           c.ID,
			"display_name": c.Name,
			"level":        int(c.Level),
			"filename":     c.Ref,
		}
		if len(c.Boundary) > 0 {
			props["boundary"] = positions(c.Boundary)
		}
		f.Constellations.Features = append(f.Constellations.Features, Feature{
			Type:       "Feature",
			Geometry:   Geometry{Type: "Point", Coordinates: position(c.Coord)},
			Properties: props,
		})
	}

	for _, l := range s.lines {
		segs := make([]interface{}, len(l.Segments))
		for i, seg := range l.Segments {
			segs[i] = positions(seg)
		}
		f.Lines.Features = append(f.Lines.Features, Feature{
			Type:       "Feature",
			Geometry:   Geometry{Type: "MultiLineString", Coordinates: segs},
			Properties: map[string]interface{}{"line_id": l.ID},
		})
	}

	for _, b := range s.bands {
		rings := make([]interface{}, len(b.Rings))
		for i, r := range b.Rings {
			rings[i] = positions(r)
		}
		f.Bands.Features = append(f.Bands.Features, Feature{
			Type:       "Feature",
			Geometry:   Geometry{Type: "Polygon", Coordinates: rings},
			Properties: map[string]interface{}{"id": b.ID},
		})
	}

	return f
}

func position(c sky.Coord) []interface{} {
	return []interface{}{c.Lon, c.Lat}
}

func positions(cs []sky.Coord) []interface{} {
	out := make([]interface{}, len(cs))
	for i, c := range cs {
		out[i] = position(c)
	}
	return out
}
