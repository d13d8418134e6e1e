// Package view defines the chart's view state: where it points, how far it
// is zoomed and what, if anything, it is focused on.
package view

import (
	"fmt"

	"github.com/litescript/ls-skymap/internal/catalog"
	"github.com/litescript/ls-skymap/internal/sky"
)

// Focus names the selected object.
type Focus struct {
	Kind catalog.Kind
	ID   string
}

// State is the single source of truth for the projection inputs.
type State struct {
	Rotation sky.Rotation
	Scale    float64
	Focus    *Focus
}

// Default returns the overview state for a rotation.
func Default(r sky.Rotation) State {
	return State{Rotation: r, Scale: 1}
}

// Focused returns the state centered on c at the given scale.
func Focused(kind catalog.Kind, id string, c sky.Coord, scale float64) State {
	return State{
		Rotation: sky.CenterOn(c),
		Scale:    scale,
		Focus:    &Focus{Kind: kind, ID: id},
	}
}

// WithoutFocus returns a copy of s with the focus cleared.
func (s State) WithoutFocus() State {
	s.Focus = nil
	return s
}

// Center returns the sky coordinate at the middle of the view.
func (s State) Center() sky.Coord {
	lon := -s.Rotation.Lon
	lat := sky.NormalizeAngle(-s.Rotation.Lat)
	// Tilting past a pole flips to the opposite meridian.
	if lat > 90 {
		lat, lon = 180-lat, lon+180
	} else if lat < -90 {
		lat, lon = -180-lat, lon+180
	}
	return sky.Coord{Lon: sky.NormalizeAngle(lon), Lat: lat}
}

func (s State) String() string {
	focus := "none"
	if s.Focus != nil {
		focus = s.Focus.ID
	}
	return fmt.Sprintf("rot=(%.2f, %.2f) scale=%.2f focus=%s", s.Rotation.Lon, s.Rotation.Lat, s.Scale, focus)
}
