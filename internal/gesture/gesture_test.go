package gesture

import (
	"math"
	"testing"
	"time"

	"github.com/litescript/ls-skymap/internal/sky"
	"github.com/litescript/ls-skymap/internal/view"
)

func start() view.State {
	return view.Default(sky.Rotation{Lon: 0, Lat: -90})
}

func TestDrag_Accumulates(t *testing.T) {
	for _, k := range []float64{0.25, 1.0} {
		cfg := DefaultConfig()
		cfg.DragSensitivity = k
		c := New(cfg, 1)

		v0 := view.State{Rotation: sky.Rotation{Lon: 12, Lat: -34}, Scale: 1}
		v := c.Drag(v0, 3, -2)
		v = c.Drag(v, -7, 5)

		want := sky.Rotation{Lon: 12 + k*(3-7), Lat: -34 - k*(-2+5)}
		if math.Abs(v.Rotation.Lon-want.Lon) > 1e-12 || math.Abs(v.Rotation.Lat-want.Lat) > 1e-12 {
			t.Errorf("k=%v: rotation = %v, want %v", k, v.Rotation, want)
		}
		if v.Scale != v0.Scale {
			t.Errorf("k=%v: drag changed scale to %v", k, v.Scale)
		}
	}
}

func TestDrag_IgnoresNonFinite(t *testing.T) {
	c := New(DefaultConfig(), 1)
	v := c.Drag(start(), math.NaN(), 1)
	if v.Rotation != start().Rotation {
		t.Errorf("NaN drag moved rotation to %v", v.Rotation)
	}
	v = c.Drag(start(), 1, math.Inf(-1))
	if v.Rotation != start().Rotation {
		t.Errorf("Inf drag moved rotation to %v", v.Rotation)
	}
}

func TestZoom_Clamps(t *testing.T) {
	tests := []struct {
		name   string
		max    float64
		factor float64
		want   float64
	}{
		{"in range", 5, 2, 2},
		{"saturates low", 5, 0.01, 0.16},
		{"saturates high", 5, 100, 5},
		{"unbounded high", 0, 100, 100},
		{"zero factor ignored", 5, 0, 1},
		{"negative factor ignored", 5, -2, 1},
		{"NaN factor ignored", 5, math.NaN(), 1},
		{"Inf factor ignored", 5, math.Inf(1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.MaxScale = tt.max
			c := New(cfg, 1)
			v := c.Zoom(start(), tt.factor)
			if math.Abs(v.Scale-tt.want) > 1e-12 {
				t.Errorf("Zoom(%v) scale = %v, want %v", tt.factor, v.Scale, tt.want)
			}
		})
	}
}

func TestZoom_AlwaysInRange(t *testing.T) {
	c := New(DefaultConfig(), 1)
	v := start()
	factors := []float64{3, 3, 3, 0.1, 0.1, 0.1, 0.1, 7, 1e9, 1e-9, 1.1, 0.9}
	for _, f := range factors {
		v = c.Zoom(v, f)
		if v.Scale < 0.16 || v.Scale > 5 {
			t.Fatalf("after factor %v scale = %v, out of range", f, v.Scale)
		}
	}
}

func TestWheel(t *testing.T) {
	c := New(DefaultConfig(), 1)
	v := c.Wheel(start(), 2)
	if math.Abs(v.Scale-1.21) > 1e-12 {
		t.Errorf("two ticks in = %v, want 1.21", v.Scale)
	}
	v = c.Wheel(v, -2)
	if math.Abs(v.Scale-1) > 1e-12 {
		t.Errorf("back out = %v, want 1", v.Scale)
	}
}

func TestDeclutter(t *testing.T) {
	c := New(DefaultConfig(), 1)
	if !c.LabelsVisible() {
		t.Fatal("labels hidden at scale 1")
	}

	v := c.Zoom(start(), 0.5)
	if c.LabelsVisible() {
		t.Error("labels visible after crossing below threshold")
	}

	v = c.Zoom(v, 1.5) // 0.75, still below
	if c.LabelsVisible() {
		t.Error("labels visible below threshold")
	}

	v = c.Zoom(v, 2) // 1.5
	if !c.LabelsVisible() {
		t.Error("labels hidden after crossing back above threshold")
	}

	_ = c.SetScale(v, 0.2)
	if c.LabelsVisible() {
		t.Error("SetScale below threshold kept labels")
	}

	low := New(DefaultConfig(), 0.5)
	if low.LabelsVisible() {
		t.Error("controller created below threshold shows labels")
	}
}

func TestSuspend(t *testing.T) {
	c := New(DefaultConfig(), 1)
	c.Suspend()

	v := start()
	if got := c.Drag(v, 10, 10); got != v {
		t.Errorf("suspended drag changed state to %v", got)
	}
	if got := c.Zoom(v, 2); got != v {
		t.Errorf("suspended zoom changed state to %v", got)
	}

	// Programmatic scale and browse ticks still apply.
	if got := c.SetScale(v, 0.65); got.Scale != 0.65 {
		t.Errorf("SetScale while suspended = %v", got.Scale)
	}
	if got := c.Advance(v); got.Rotation.Lon != 0.75 {
		t.Errorf("Advance = %v, want 0.75", got.Rotation.Lon)
	}

	c.Resume()
	if got := c.Drag(v, 1, 0); got.Rotation.Lon != 1 {
		t.Errorf("resumed drag lon = %v, want 1", got.Rotation.Lon)
	}
}

func TestAdvance_Accumulates(t *testing.T) {
	c := New(DefaultConfig(), 1)
	v := start()
	for i := 0; i < 1000; i++ {
		v = c.Advance(v)
	}
	if math.Abs(v.Rotation.Lon-750) > 1e-9 {
		t.Errorf("lon after 1000 ticks = %v, want 750 (never wrapped)", v.Rotation.Lon)
	}
	if v.Rotation.Lat != -90 {
		t.Errorf("lat changed to %v", v.Rotation.Lat)
	}
}

func TestInterval(t *testing.T) {
	c := New(DefaultConfig(), 1)
	if c.Interval() != 100*time.Millisecond {
		t.Errorf("Interval = %v", c.Interval())
	}
	c = New(Config{}, 1)
	if c.Interval() != 100*time.Millisecond {
		t.Errorf("zero config Interval = %v", c.Interval())
	}
	if c.Clamp(0) != 0.16 {
		t.Errorf("zero config keeps a positive floor, got %v", c.Clamp(0))
	}
}
