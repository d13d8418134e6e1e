// Package sky provides the whole-sphere projection used to draw the chart.
package sky

import (
	"fmt"
	"math"
)

// Coord is a position on the celestial sphere in degrees.
type Coord struct {
	Lon float64 // Longitude in degrees (any value, wraps modulo 360)
	Lat float64 // Latitude in degrees (-90 to +90)
}

// Rotation is the (lon, lat) pair applied before projecting. Rotation{-lon, -lat}
// brings (lon, lat) to the center of the projection.
type Rotation struct {
	Lon float64
	Lat float64
}

// Add returns the component-wise sum of two rotations.
func (r Rotation) Add(d Rotation) Rotation {
	return Rotation{Lon: r.Lon + d.Lon, Lat: r.Lat + d.Lat}
}

// CenterOn returns the rotation that centers c in the projection.
func CenterOn(c Coord) Rotation {
	return Rotation{Lon: -c.Lon, Lat: -c.Lat}
}

// Point is a projected position. X grows to the right and Y grows downward,
// both measured in cell widths.
type Point struct {
	X float64
	Y float64
}

// Finite reports whether both components are finite numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeAngle wraps an angle in degrees to the -180..+180 range.
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 360)
	if a > 180 {
		a -= 360
	} else if a < -180 {
		a += 360
	}
	return a
}

// wrapRad wraps an angle in radians to the -π..+π range.
func wrapRad(a float64) float64 {
	if a >= -math.Pi && a <= math.Pi {
		return a
	}
	return math.Remainder(a, 2*math.Pi)
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	} else if v < -1 {
		return -1
	}
	return v
}

// FormatRA renders a longitude as right ascension in hours, minutes and seconds.
func FormatRA(lon float64) string {
	deg := math.Mod(lon, 360)
	if deg < 0 {
		deg += 360
	}
	total := int(math.Round(deg / 15 * 3600))
	return fmt.Sprintf("%02dh %02dm %02ds", (total/3600)%24, (total/60)%60, total%60)
}

// FormatDec renders a latitude as declination in degrees, arcminutes and arcseconds.
func FormatDec(lat float64) string {
	sign := "+"
	if lat < 0 {
		sign = "-"
		lat = -lat
	}
	total := int(math.Round(lat * 3600))
	return fmt.Sprintf("%s%02d° %02d' %02d\"", sign, total/3600, (total/60)%60, total%60)
}

// Separation returns the great-circle distance between two coordinates in degrees.
func Separation(a, b Coord) float64 {
	lon1, lat1 := degToRad(a.Lon), degToRad(a.Lat)
	lon2, lat2 := degToRad(b.Lon), degToRad(b.Lat)

	dLon := lon2 - lon1
	dLat := lat2 - lat1

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	if h > 1 {
		h = 1
	}

	return radToDeg(2 * math.Asin(math.Sqrt(h)))
}
