package sky

import (
	"math"
	"testing"
)

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{0, 0},
		{180, 180},
		{-180, -180},
		{360, 0},
		{-360, 0},
		{350, -10},
		{370, 10},
		{-190, 170},
		{720.5, 0.5},
	}

	for _, tt := range tests {
		got := NormalizeAngle(tt.input)
		if math.Abs(got-tt.expected) > 0.001 {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestAitoff_AxesAreLinear(t *testing.T) {
	// Along the equator x equals longitude; along the central meridian y equals latitude.
	for deg := -170.0; deg <= 170; deg += 10 {
		x, y := aitoff(degToRad(deg), 0)
		if math.Abs(x-degToRad(deg)) > 1e-9 || math.Abs(y) > 1e-9 {
			t.Errorf("aitoff(%v°, 0) = (%v, %v), want (%v, 0)", deg, x, y, degToRad(deg))
		}
	}
	for deg := -90.0; deg <= 90; deg += 10 {
		x, y := aitoff(0, degToRad(deg))
		if math.Abs(x) > 1e-9 || math.Abs(y-degToRad(deg)) > 1e-9 {
			t.Errorf("aitoff(0, %v°) = (%v, %v), want (0, %v)", deg, x, y, degToRad(deg))
		}
	}
}

func TestRotate_CenterOnBringsTargetToOrigin(t *testing.T) {
	targets := []Coord{
		{Lon: 30, Lat: 45},
		{Lon: -120, Lat: -10},
		{Lon: 88.79, Lat: 7.41},
		{Lon: 0, Lat: 90},
		{Lon: 359, Lat: -89},
	}

	for _, c := range targets {
		got := Rotate(c, CenterOn(c))
		if math.Abs(got.Lat) > 1e-6 {
			t.Errorf("Rotate(%v).Lat = %v, want 0", c, got.Lat)
		}
		// Longitude is meaningless at the poles of the native frame only; at the origin it must be 0.
		if math.Abs(NormalizeAngle(got.Lon)) > 1e-6 {
			t.Errorf("Rotate(%v).Lon = %v, want 0", c, got.Lon)
		}
	}
}

func TestProject_DefaultRotationPutsPoleAtCenter(t *testing.T) {
	center := Point{X: 60, Y: 40}
	p := Project(Coord{Lon: 123, Lat: 90}, Rotation{Lon: 0, Lat: -90}, 100, center)
	if math.Abs(p.X-center.X) > 1e-6 || math.Abs(p.Y-center.Y) > 1e-6 {
		t.Errorf("north pole projected to %v, want %v", p, center)
	}
}

func TestProject_AlwaysFinite(t *testing.T) {
	rotations := []Rotation{
		{0, 0}, {0, -90}, {0, 90}, {180, 0}, {-30, -45}, {1e6, 33}, {-725.25, -270},
	}
	center := Point{X: 50, Y: 25}

	for _, r := range rotations {
		for lon := -180.0; lon <= 180; lon += 7.5 {
			for lat := -90.0; lat <= 90; lat += 7.5 {
				p := Project(Coord{Lon: lon, Lat: lat}, r, 80, center)
				if !p.Finite() {
					t.Fatalf("Project(%v, %v) = %v, not finite", Coord{lon, lat}, r, p)
				}
				// The Aitoff image is bounded by π·k horizontally and π/2·k vertically.
				if math.Abs(p.X-center.X) > math.Pi*80+1e-6 || math.Abs(p.Y-center.Y) > math.Pi/2*80+1e-6 {
					t.Fatalf("Project(%v, %v) = %v, outside the sphere outline", Coord{lon, lat}, r, p)
				}
			}
		}
	}
}

func TestProject_ContinuousInRotationAndScale(t *testing.T) {
	center := Point{X: 0, Y: 0}
	const k = 100.0
	const eps = 0.01 // degrees

	for lon := -150.0; lon <= 150; lon += 15 {
		for lat := -75.0; lat <= 75; lat += 15 {
			c := Coord{Lon: lon, Lat: lat}
			r := Rotation{Lon: 10, Lat: -20}

			// Keep away from the rotated antimeridian where the map is cut.
			if n := Rotate(c, r); math.Abs(n.Lon) > 170 {
				continue
			}

			base := Project(c, r, k, center)
			nudged := Project(c, Rotation{Lon: r.Lon + eps, Lat: r.Lat + eps}, k, center)
			zoomed := Project(c, r, k*(1+1e-4), center)

			if d := math.Hypot(base.X-nudged.X, base.Y-nudged.Y); d > 1 {
				t.Errorf("rotation nudge moved %v by %v", c, d)
			}
			if d := math.Hypot(base.X-zoomed.X, base.Y-zoomed.Y); d > 0.1 {
				t.Errorf("scale nudge moved %v by %v", c, d)
			}
		}
	}
}

func TestViewport_CenterAndFit(t *testing.T) {
	vp := NewViewport(120, 40)

	c := vp.Center()
	if c.X != 60 || c.Y != 40 {
		t.Errorf("Center() = %v, want (60, 40)", c)
	}

	proj := vp.Projection(Rotation{0, -90}, 1)
	for _, pt := range proj.NativePath(SphereOutline()) {
		col, row := vp.Cell(pt)
		if col < 0 || col > vp.Width || row < 0 || row > vp.Height {
			t.Fatalf("outline point %v lands outside %dx%d at (%d, %d)", pt, vp.Width, vp.Height, col, row)
		}
	}
}

func TestLine_SplitsAtAntimeridian(t *testing.T) {
	proj := Projection{Rotation: Rotation{0, 0}, Radius: 10}

	// Crosses lon=180 in the native frame.
	lines := proj.Line([]Coord{{Lon: 170, Lat: 0}, {Lon: -170, Lat: 10}})
	if len(lines) != 2 {
		t.Fatalf("got %d polylines, want 2", len(lines))
	}

	// Endpoints at the cut sit on opposite edges of the map.
	a := lines[0][len(lines[0])-1]
	b := lines[1][0]
	if math.Abs(a.X-math.Pi*10*math.Cos(degToRad(5))) > 0.5 || a.X < 0 {
		t.Errorf("left piece ends at %v, want near the right edge", a)
	}
	if b.X > 0 {
		t.Errorf("right piece starts at %v, want the left edge", b)
	}
}

func TestLine_DensifiesLongEdges(t *testing.T) {
	proj := Projection{Rotation: Rotation{0, 0}, Radius: 10}
	lines := proj.Line([]Coord{{Lon: 0, Lat: 0}, {Lon: 0, Lat: 50}})
	if len(lines) != 1 {
		t.Fatalf("got %d polylines, want 1", len(lines))
	}
	if got := len(lines[0]); got != 21 {
		t.Errorf("got %d points, want 21 (2.5° steps)", got)
	}
}

func TestRing_Closes(t *testing.T) {
	proj := Projection{Rotation: Rotation{0, 0}, Radius: 10}
	lines := proj.Ring([]Coord{{0, 0}, {5, 0}, {5, 5}})
	if len(lines) != 1 {
		t.Fatalf("got %d polylines, want 1", len(lines))
	}
	first, last := lines[0][0], lines[0][len(lines[0])-1]
	if math.Hypot(first.X-last.X, first.Y-last.Y) > 1e-9 {
		t.Errorf("ring not closed: %v != %v", first, last)
	}
}

func TestGraticule10(t *testing.T) {
	lines := Graticule10()
	// 36 meridians + 17 parallels
	if len(lines) != 53 {
		t.Fatalf("got %d graticule lines, want 53", len(lines))
	}

	poleToPole := 0
	for _, l := range lines[:36] {
		if l[0].Lat == -90 && l[len(l)-1].Lat == 90 {
			poleToPole++
		}
	}
	if poleToPole != 4 {
		t.Errorf("got %d pole-to-pole meridians, want 4", poleToPole)
	}
}

func TestFormatRADec(t *testing.T) {
	if got := FormatRA(88.793); got != "05h 55m 10s" {
		t.Errorf("FormatRA = %q", got)
	}
	if got := FormatRA(-15); got != "23h 00m 00s" {
		t.Errorf("FormatRA(-15) = %q", got)
	}
	if got := FormatDec(-16.716); got != "-16° 42' 58\"" {
		t.Errorf("FormatDec = %q", got)
	}
}

func TestSeparation(t *testing.T) {
	tests := []struct {
		a, b Coord
		want float64
	}{
		{Coord{0, 0}, Coord{0, 0}, 0},
		{Coord{0, 0}, Coord{90, 0}, 90},
		{Coord{0, 90}, Coord{123, -90}, 180},
		{Coord{350, 10}, Coord{-10, 10}, 0},
		{Coord{10, 0}, Coord{10, 45}, 45},
	}

	for _, tt := range tests {
		got := Separation(tt.a, tt.b)
		if math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("Separation(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
