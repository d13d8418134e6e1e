package sky

import "math"

// maxStepDeg is the longest coordinate step drawn as a straight segment.
const maxStepDeg = 2.5

// Line projects a polyline. Consecutive coordinates are joined along the
// shortest longitude delta and densified so long edges follow the projection's
// curvature. The result is split where the rotated line crosses the
// antimeridian, so no segment spans the whole map.
func (p Projection) Line(coords []Coord) [][]Point {
	if len(coords) < 2 {
		return nil
	}

	var (
		lines   [][]Point
		current []Point
		prevL   float64
		prevP   float64
	)

	emit := func(c Coord, first bool) {
		lambda, phi := rotate(c, p.Rotation)
		if !first && math.Abs(lambda-prevL) > math.Pi {
			edgePrev := math.Copysign(math.Pi, prevL)
			edgeCur := math.Copysign(math.Pi, lambda)
			dPrev := math.Pi - math.Abs(prevL)
			dCur := math.Pi - math.Abs(lambda)
			f := 0.5
			if dPrev+dCur > 0 {
				f = dPrev / (dPrev + dCur)
			}
			phiCross := prevP + (phi-prevP)*f

			current = append(current, place(edgePrev, phiCross, p.Radius, p.Center))
			if len(current) >= 2 {
				lines = append(lines, current)
			}
			current = []Point{place(edgeCur, phiCross, p.Radius, p.Center)}
		}
		current = append(current, place(lambda, phi, p.Radius, p.Center))
		prevL, prevP = lambda, phi
	}

	emit(coords[0], true)
	for i := 1; i < len(coords); i++ {
		a, b := coords[i-1], coords[i]
		dLon := NormalizeAngle(b.Lon - a.Lon)
		dLat := b.Lat - a.Lat
		steps := int(math.Ceil(math.Max(math.Abs(dLon), math.Abs(dLat)) / maxStepDeg))
		if steps < 1 {
			steps = 1
		}
		for s := 1; s <= steps; s++ {
			t := float64(s) / float64(steps)
			emit(Coord{Lon: a.Lon + dLon*t, Lat: a.Lat + dLat*t}, false)
		}
	}

	if len(current) >= 2 {
		lines = append(lines, current)
	}
	return lines
}

// Ring projects a closed polygon ring.
func (p Projection) Ring(coords []Coord) [][]Point {
	if len(coords) < 3 {
		return nil
	}
	closed := coords
	if coords[0] != coords[len(coords)-1] {
		closed = make([]Coord, 0, len(coords)+1)
		closed = append(closed, coords...)
		closed = append(closed, coords[0])
	}
	return p.Line(closed)
}

// NativePath projects native-frame coordinates as one unbroken polyline.
func (p Projection) NativePath(coords []Coord) []Point {
	out := make([]Point, len(coords))
	for i, c := range coords {
		out[i] = p.Native(c)
	}
	return out
}

// Graticule10 returns meridians and parallels every 10 degrees. Meridians on
// multiples of 90 degrees run pole to pole, the others stop at ±80 degrees.
func Graticule10() [][]Coord {
	var lines [][]Coord

	for lon := -180.0; lon < 180; lon += 10 {
		latMin, latMax := -80.0, 80.0
		if math.Mod(lon, 90) == 0 {
			latMin, latMax = -90, 90
		}
		var line []Coord
		for lat := latMin; lat <= latMax; lat += maxStepDeg {
			line = append(line, Coord{Lon: lon, Lat: lat})
		}
		lines = append(lines, line)
	}

	for lat := -80.0; lat <= 80; lat += 10 {
		var line []Coord
		for lon := -180.0; lon < 180; lon += maxStepDeg {
			line = append(line, Coord{Lon: lon, Lat: lat})
		}
		line = append(line, Coord{Lon: 180, Lat: lat})
		lines = append(lines, line)
	}

	return lines
}

// SphereOutline returns the boundary of the projected sphere in the native
// frame: the antimeridian traced down one side and back up the other.
func SphereOutline() []Coord {
	var out []Coord
	for lat := 90.0; lat >= -90; lat -= maxStepDeg {
		out = append(out, Coord{Lon: 180, Lat: lat})
	}
	for lat := -90.0; lat <= 90; lat += maxStepDeg {
		out = append(out, Coord{Lon: -180, Lat: lat})
	}
	return out
}
