package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
)

// Frame is the projected scene in a form other programs can consume.
type Frame struct {
	Width         int      `json:"width"`
	Height        int      `json:"height"`
	RotationLon   float64  `json:"rotation_lon"`
	RotationLat   float64  `json:"rotation_lat"`
	Scale         float64  `json:"scale"`
	Focus         string   `json:"focus,omitempty"`
	LabelsVisible bool     `json:"labels_visible"`
	Objects       []Object `json:"objects"`
}

// Object is one handle in a Frame.
type Object struct {
	ID      string         `json:"id"`
	Layer   string         `json:"layer"`
	Name    string         `json:"name,omitempty"`
	X       float64        `json:"x"`
	Y       float64        `json:"y"`
	Col     int            `json:"col"`
	Row     int            `json:"row"`
	Visible bool           `json:"visible"`
	Paths   [][][2]float64 `json:"paths,omitempty"`
}

// Frame snapshots the scene as last applied.
func (s *Scene) Frame() Frame {
	f := Frame{
		Width:         s.Viewport.Width,
		Height:        s.Viewport.Height,
		RotationLon:   s.View.Rotation.Lon,
		RotationLat:   s.View.Rotation.Lat,
		Scale:         s.View.Scale,
		LabelsVisible: s.StarLabels,
	}
	if s.View.Focus != nil {
		f.Focus = s.View.Focus.ID
	}

	for _, l := range Layers {
		for _, h := range s.order[l] {
			o := Object{
				ID:      h.ID,
				Layer:   l.String(),
				Name:    h.Text,
				Visible: h.Visible,
			}
			switch l {
			case LayerBands, LayerBoundaries, LayerLines:
				for _, path := range h.Paths {
					pts := make([][2]float64, len(path))
					for i, p := range path {
						pts[i] = [2]float64{round2(p.X), round2(p.Y)}
					}
					o.Paths = append(o.Paths, pts)
				}
			default:
				o.X, o.Y = round2(h.Point.X), round2(h.Point.Y)
				o.Col, o.Row = h.Col, h.Row
			}
			f.Objects = append(f.Objects, o)
		}
	}
	return f
}

// Export writes the frame as indented JSON.
func (s *Scene) Export(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Frame()); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
