package view

import (
	"math"
	"testing"

	"github.com/litescript/ls-skymap/internal/catalog"
	"github.com/litescript/ls-skymap/internal/sky"
)

func TestFocused(t *testing.T) {
	s := Focused(catalog.KindStar, "star-0001", sky.Coord{Lon: 30, Lat: 45}, 2.77)

	if s.Rotation != (sky.Rotation{Lon: -30, Lat: -45}) {
		t.Errorf("Rotation = %v, want (-30, -45)", s.Rotation)
	}
	if s.Scale != 2.77 {
		t.Errorf("Scale = %v, want 2.77", s.Scale)
	}
	if s.Focus == nil || s.Focus.ID != "star-0001" || s.Focus.Kind != catalog.KindStar {
		t.Errorf("Focus = %+v", s.Focus)
	}
	if s.WithoutFocus().Focus != nil {
		t.Error("WithoutFocus kept the focus")
	}
	if s.Focus == nil {
		t.Error("WithoutFocus modified the receiver")
	}
}

func TestCenter(t *testing.T) {
	tests := []struct {
		rot  sky.Rotation
		want sky.Coord
	}{
		{sky.Rotation{Lon: -30, Lat: -45}, sky.Coord{Lon: 30, Lat: 45}},
		{sky.Rotation{Lon: 0, Lat: -90}, sky.Coord{Lon: 0, Lat: 90}},
		{sky.Rotation{Lon: 720, Lat: 10}, sky.Coord{Lon: 0, Lat: -10}},
		{sky.Rotation{Lon: 0, Lat: -120}, sky.Coord{Lon: 180, Lat: 60}},
	}

	for _, tt := range tests {
		got := State{Rotation: tt.rot, Scale: 1}.Center()
		if math.Abs(math.Abs(got.Lon)-math.Abs(tt.want.Lon)) > 1e-9 || math.Abs(got.Lat-tt.want.Lat) > 1e-9 {
			t.Errorf("Center(%v) = %v, want %v", tt.rot, got, tt.want)
		}

		// The reported center projects to the middle of the view.
		p := sky.Project(got, tt.rot, 100, sky.Point{})
		if math.Hypot(p.X, p.Y) > 1e-6 {
			t.Errorf("Center(%v) = %v projects to %v, want origin", tt.rot, got, p)
		}
	}
}

func TestDefault(t *testing.T) {
	s := Default(sky.Rotation{Lon: 0, Lat: -90})
	if s.Scale != 1 || s.Focus != nil || s.Rotation.Lat != -90 {
		t.Errorf("Default = %v", s)
	}
}
