package lookup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/litescript/ls-skymap/internal/catalog"
	"github.com/litescript/ls-skymap/internal/sky"
)

// Float is a number that may arrive as a JSON string.
type Float float64

// UnmarshalJSON accepts 12.5 or "12.5".
func (f *Float) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", s, err)
		}
		*f = Float(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// StarRecord is the wire form of a star.
type StarRecord struct {
	StarID      string `json:"star_id"`
	DisplayName string `json:"display_name"`
	Lon         Float  `json:"lon"`
	Lat         Float  `json:"lat"`
	Filename    string `json:"filename"`
	ConstName   string `json:"const_name,omitempty"`
	PropName    string `json:"prop_name,omitempty"`
	Color       string `json:"color,omitempty"`
	RA          string `json:"ra,omitempty"`
	Dec         string `json:"dec,omitempty"`
}

// ConstRecord is the wire form of a constellation.
type ConstRecord struct {
	ConstID     string `json:"const_id"`
	DisplayName string `json:"display_name"`
	Lon         Float  `json:"lon"`
	Lat         Float  `json:"lat"`
	Filename    string `json:"filename"`
	Level       int    `json:"level,omitempty"`
}

// ObjectResponse is the body of star, constellation and name lookups. At
// most one field is set; neither means not found.
type ObjectResponse struct {
	Star  *StarRecord  `json:"star,omitempty"`
	Const *ConstRecord `json:"const,omitempty"`
}

// DocumentResponse is the body of a document lookup.
type DocumentResponse struct {
	Document struct {
		Paragraph []Section `json:"paragraph"`
	} `json:"document"`
}

// Response converts a detail to its wire form.
func Response(d ObjectDetail) ObjectResponse {
	switch d.Kind {
	case catalog.KindStar:
		return ObjectResponse{Star: &StarRecord{
			StarID:      d.ID,
			DisplayName: d.Name,
			Lon:         Float(d.Coord.Lon),
			Lat:         Float(d.Coord.Lat),
			Filename:    d.Ref,
			ConstName:   d.Constellation,
			PropName:    d.ProperName,
			Color:       d.Color.Name(),
			RA:          sky.FormatRA(d.Coord.Lon),
			Dec:         sky.FormatDec(d.Coord.Lat),
		}}
	default:
		return ObjectResponse{Const: &ConstRecord{
			ConstID:     d.ID,
			DisplayName: d.Name,
			Lon:         Float(d.Coord.Lon),
			Lat:         Float(d.Coord.Lat),
			Filename:    d.Ref,
			Level:       int(d.Level),
		}}
	}
}

// Detail converts a wire response back. Records without an id count as absent.
func (r ObjectResponse) Detail() (ObjectDetail, bool) {
	if r.Star != nil && r.Star.StarID != "" {
		s := r.Star
		return ObjectDetail{
			Kind:          catalog.KindStar,
			ID:            s.StarID,
			Name:          s.DisplayName,
			Coord:         sky.Coord{Lon: float64(s.Lon), Lat: float64(s.Lat)},
			Ref:           s.Filename,
			Constellation: s.ConstName,
			ProperName:    s.PropName,
			Color:         catalog.ParseColor(s.Color),
		}, true
	}
	if r.Const != nil && r.Const.ConstID != "" {
		c := r.Const
		return ObjectDetail{
			Kind:  catalog.KindConstellation,
			ID:    c.ConstID,
			Name:  c.DisplayName,
			Coord: sky.Coord{Lon: float64(c.Lon), Lat: float64(c.Lat)},
			Ref:   c.Filename,
			Level: catalog.Level(c.Level).Clamp(),
		}, true
	}
	return ObjectDetail{}, false
}
