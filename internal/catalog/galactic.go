package catalog

import (
	"math"

	"github.com/litescript/ls-skymap/internal/sky"
)

// vec3 is a unit direction in a Cartesian frame.
type vec3 struct {
	X, Y, Z float64
}

func toVec(c sky.Coord) vec3 {
	lon := c.Lon * math.Pi / 180
	lat := c.Lat * math.Pi / 180
	return vec3{
		X: math.Cos(lat) * math.Cos(lon),
		Y: math.Cos(lat) * math.Sin(lon),
		Z: math.Sin(lat),
	}
}

func (v vec3) coord() sky.Coord {
	lon := math.Atan2(v.Y, v.X) * 180 / math.Pi
	if lon < 0 {
		lon += 360
	}
	z := math.Max(-1, math.Min(1, v.Z))
	return sky.Coord{Lon: lon, Lat: math.Asin(z) * 180 / math.Pi}
}

// equatorialToGalactic is the J2000 rotation from equatorial to galactic axes.
// Its transpose converts back.
var equatorialToGalactic = [3][3]float64{
	{-0.0548755604, -0.8734370902, -0.4838350155},
	{+0.4941094279, -0.4448296300, +0.7469822445},
	{-0.8676661490, -0.1980763734, +0.4559837762},
}

// GalacticToEquatorial converts galactic (l, b) to equatorial (RA, Dec) in degrees.
func GalacticToEquatorial(g sky.Coord) sky.Coord {
	v := toVec(g)
	m := equatorialToGalactic
	return vec3{
		X: m[0][0]*v.X + m[1][0]*v.Y + m[2][0]*v.Z,
		Y: m[0][1]*v.X + m[1][1]*v.Y + m[2][1]*v.Z,
		Z: m[0][2]*v.X + m[1][2]*v.Y + m[2][2]*v.Z,
	}.coord()
}

// MilkyWay returns the galactic band as two rings at galactic latitude ±halfWidth.
func MilkyWay(id string, halfWidth float64) Band {
	band := Band{ID: id}
	for _, b := range []float64{halfWidth, -halfWidth} {
		var ring []sky.Coord
		for l := 0.0; l < 360; l += 5 {
			ring = append(ring, GalacticToEquatorial(sky.Coord{Lon: l, Lat: b}))
		}
		band.Rings = append(band.Rings, ring)
	}
	return band
}
