package sky

import "math"

const (
	// DefaultCellAspect is the height/width ratio of a terminal cell.
	DefaultCellAspect = 2.0

	// fitFill leaves a small margin around the whole-sky outline at scale 1.
	fitFill = 0.96
)

// Rotate applies r to c and returns the position in the projection's native
// frame, in degrees. Longitude is first shifted by r.Lon, then the sphere is
// tilted about the y axis by r.Lat.
func Rotate(c Coord, r Rotation) Coord {
	lambda, phi := rotate(c, r)
	return Coord{Lon: radToDeg(lambda), Lat: radToDeg(phi)}
}

// rotate is Rotate in radians.
func rotate(c Coord, r Rotation) (lambda, phi float64) {
	lambda = wrapRad(degToRad(c.Lon + r.Lon))
	phi = degToRad(c.Lat)
	if r.Lat == 0 {
		return lambda, phi
	}

	dPhi := degToRad(r.Lat)
	cosD, sinD := math.Cos(dPhi), math.Sin(dPhi)

	cosPhi := math.Cos(phi)
	x := math.Cos(lambda) * cosPhi
	y := math.Sin(lambda) * cosPhi
	z := math.Sin(phi)
	k := z*cosD + x*sinD

	return math.Atan2(y, x*cosD-z*sinD), math.Asin(clampUnit(k))
}

// aitoff is the raw Aitoff projection of a native-frame position in radians.
// Output x lies in [-π, π] and y in [-π/2, π/2].
func aitoff(lambda, phi float64) (x, y float64) {
	cosPhi := math.Cos(phi)
	half := lambda / 2
	alpha := math.Acos(clampUnit(cosPhi * math.Cos(half)))
	s := sinci(alpha)
	return 2 * cosPhi * math.Sin(half) * s, math.Sin(phi) * s
}

// sinci is x/sin(x) with the removable singularity at 0 filled in.
func sinci(x float64) float64 {
	if x == 0 {
		return 1
	}
	return x / math.Sin(x)
}

// Project maps a sphere coordinate to the plane. The coordinate is rotated by
// r, projected with Aitoff, multiplied by radius k and translated to center.
// Every finite input yields a finite point: the whole sphere is mapped and
// there is no hidden hemisphere.
func Project(c Coord, r Rotation, k float64, center Point) Point {
	lambda, phi := rotate(c, r)
	return place(lambda, phi, k, center)
}

func place(lambda, phi, k float64, center Point) Point {
	x, y := aitoff(lambda, phi)
	return Point{X: center.X + k*x, Y: center.Y - k*y}
}

// Viewport describes the drawing surface in terminal cells.
type Viewport struct {
	Width      int
	Height     int
	CellAspect float64 // cell height / cell width, 0 means DefaultCellAspect
}

// NewViewport returns a viewport of the given size with terminal cell aspect.
func NewViewport(width, height int) Viewport {
	return Viewport{Width: width, Height: height, CellAspect: DefaultCellAspect}
}

func (v Viewport) aspect() float64 {
	if v.CellAspect <= 0 {
		return DefaultCellAspect
	}
	return v.CellAspect
}

// Center returns the logical center of the surface in projected units.
func (v Viewport) Center() Point {
	return Point{X: float64(v.Width) / 2, Y: float64(v.Height) * v.aspect() / 2}
}

// BaseRadius returns the radius at which the whole sphere fits the surface.
func (v Viewport) BaseRadius() float64 {
	w := float64(v.Width) / (2 * math.Pi)
	h := float64(v.Height) * v.aspect() / math.Pi
	r := math.Min(w, h) * fitFill
	if r <= 0 {
		return 1
	}
	return r
}

// Cell converts a projected point to a (col, row) cell.
func (v Viewport) Cell(p Point) (col, row int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y / v.aspect()))
}

// Contains reports whether a cell lies on the surface.
func (v Viewport) Contains(col, row int) bool {
	return col >= 0 && col < v.Width && row >= 0 && row < v.Height
}

// Projection returns the projection for a rotation and zoom factor on this surface.
func (v Viewport) Projection(r Rotation, scale float64) Projection {
	return Projection{
		Rotation: r,
		Radius:   v.BaseRadius() * scale,
		Center:   v.Center(),
	}
}

// Projection bundles the inputs of Project so it can be reused across a frame.
type Projection struct {
	Rotation Rotation
	Radius   float64
	Center   Point
}

// Point projects a single coordinate.
func (p Projection) Point(c Coord) Point {
	return Project(c, p.Rotation, p.Radius, p.Center)
}

// Native projects a coordinate already expressed in the native frame.
func (p Projection) Native(c Coord) Point {
	return place(wrapRad(degToRad(c.Lon)), degToRad(c.Lat), p.Radius, p.Center)
}
