package joist

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestViewportDefaults(t *testing.T) {
	vp := NewViewport()
	if vp.PixelsPerMm != 1 {
		t.Errorf("PixelsPerMm = %v, want 1", vp.PixelsPerMm)
	}
	if vp.Center != V(0, 0) {
		t.Errorf("Center = %v, want (0,0)", vp.Center)
	}
	// Identity viewport: the two spaces coincide.
	if got := vp.WorldToScreen(V(123, -45)); got != V(123, -45) {
		t.Errorf("WorldToScreen = %v, want (123,-45)", got)
	}
}

func TestViewportTransform(t *testing.T) {
	vp := &Viewport{Center: V(400, 300), PixelsPerMm: 0.1}

	// World origin maps to the center offset.
	if got := vp.WorldToScreen(V(0, 0)); got != V(400, 300) {
		t.Errorf("WorldToScreen(0,0) = %v, want (400,300)", got)
	}
	// 1000 mm east = 100 px east at 0.1 px/mm.
	if got := vp.WorldToScreen(V(1000, 0)); got != V(500, 300) {
		t.Errorf("WorldToScreen(1000,0) = %v, want (500,300)", got)
	}
}

func TestViewportRoundtrip(t *testing.T) {
	vp := &Viewport{Center: V(-120, 85), PixelsPerMm: 0.37}

	points := []Vec2{{0, 0}, {1000, -500}, {-3200, 4800}, {0.5, 0.5}}
	for _, p := range points {
		back := vp.ScreenToWorld(vp.WorldToScreen(p))
		if !vecAlmostEqual(back, p) {
			t.Errorf("roundtrip(%v) = %v", p, back)
		}
		fwd := vp.WorldToScreen(vp.ScreenToWorld(p))
		if !vecAlmostEqual(fwd, p) {
			t.Errorf("inverse roundtrip(%v) = %v", p, fwd)
		}
	}
}

func TestViewportVisibleBounds(t *testing.T) {
	vp := &Viewport{Center: V(0, 0), PixelsPerMm: 2}
	b := vp.VisibleBounds(800, 600)
	want := Rect{X: 0, Y: 0, Width: 400, Height: 300}
	if !almostEqual(b.X, want.X) || !almostEqual(b.Y, want.Y) ||
		!almostEqual(b.Width, want.Width) || !almostEqual(b.Height, want.Height) {
		t.Errorf("VisibleBounds = %v, want %v", b, want)
	}
}

func TestViewportPan(t *testing.T) {
	vp := NewViewport()
	vp.Pan(V(50, -20))
	if vp.Center != V(50, -20) {
		t.Errorf("Center after pan = %v, want (50,-20)", vp.Center)
	}
	vp.Pan(V(10, 10))
	if vp.Center != V(60, -10) {
		t.Errorf("Center after second pan = %v, want (60,-10)", vp.Center)
	}
}

func TestViewportZoomAtKeepsAnchor(t *testing.T) {
	vp := &Viewport{Center: V(100, 100), PixelsPerMm: 1}
	anchor := V(250, 180)
	world := vp.ScreenToWorld(anchor)

	vp.ZoomAt(anchor, 2)

	if !approxEqual(vp.PixelsPerMm, 2, 1e-9) {
		t.Errorf("PixelsPerMm = %v, want 2", vp.PixelsPerMm)
	}
	// The world point under the anchor must not move on screen.
	if got := vp.WorldToScreen(world); !vecAlmostEqual(got, anchor) {
		t.Errorf("anchor world point now at %v, want %v", got, anchor)
	}
}

func TestViewportZoomClamped(t *testing.T) {
	vp := NewViewport()
	vp.ZoomAt(V(0, 0), 1e9)
	if vp.PixelsPerMm > maxPixelsPerMm {
		t.Errorf("PixelsPerMm = %v, want clamped to %v", vp.PixelsPerMm, maxPixelsPerMm)
	}
	vp.ZoomAt(V(0, 0), 1e-12)
	if vp.PixelsPerMm < minPixelsPerMm {
		t.Errorf("PixelsPerMm = %v, want clamped to %v", vp.PixelsPerMm, minPixelsPerMm)
	}
}

func TestViewportFitTo(t *testing.T) {
	vp := NewViewport()
	bounds := Rect{X: 0, Y: 0, Width: 4000, Height: 3000}
	vp.FitTo(bounds, 800, 600, 50)

	// 700x500 available; the height is the tighter fit: 500/3000.
	wantScale := 500.0 / 3000.0
	if !approxEqual(vp.PixelsPerMm, wantScale, 1e-9) {
		t.Errorf("PixelsPerMm = %v, want %v", vp.PixelsPerMm, wantScale)
	}
	// The bounds center lands on the screen center.
	got := vp.WorldToScreen(V(2000, 1500))
	if !vecAlmostEqual(got, V(400, 300)) {
		t.Errorf("bounds center at %v, want (400,300)", got)
	}
}

func TestViewportFitToDegenerate(t *testing.T) {
	vp := &Viewport{PixelsPerMm: 0.5}
	vp.FitTo(Rect{X: 100, Y: 100, Width: 0, Height: 0}, 800, 600, 50)

	if vp.PixelsPerMm != 0.5 {
		t.Errorf("PixelsPerMm = %v, want unchanged 0.5", vp.PixelsPerMm)
	}
	// Still centered on the degenerate bounds.
	if got := vp.WorldToScreen(V(100, 100)); !vecAlmostEqual(got, V(400, 300)) {
		t.Errorf("degenerate bounds center at %v, want (400,300)", got)
	}
}

func TestViewportScrollTo(t *testing.T) {
	vp := NewViewport()
	vp.ScrollTo(V(100, 200), 800, 600, 1.0, ease.Linear)

	// Advance halfway.
	vp.Update(0.5)
	target := V(400-100, 300-200)
	mid := V(target.X/2, target.Y/2)
	if !approxEqual(vp.Center.X, mid.X, 1.0) || !approxEqual(vp.Center.Y, mid.Y, 1.0) {
		t.Errorf("scroll halfway: center = %v, want ~%v", vp.Center, mid)
	}

	// Advance to the end.
	vp.Update(0.5)
	if !approxEqual(vp.Center.X, target.X, 1.0) || !approxEqual(vp.Center.Y, target.Y, 1.0) {
		t.Errorf("scroll end: center = %v, want ~%v", vp.Center, target)
	}
	if got := vp.WorldToScreen(V(100, 200)); !approxEqual(got.X, 400, 1.0) || !approxEqual(got.Y, 300, 1.0) {
		t.Errorf("scroll target on screen at %v, want ~(400,300)", got)
	}

	// Animation should be cleared once every tween is done.
	if vp.anim != nil {
		t.Error("anim not nil after completion")
	}
}

func TestViewportZoomToAnchored(t *testing.T) {
	vp := &Viewport{Center: V(100, 100), PixelsPerMm: 1}
	anchor := V(300, 200)
	world := vp.ScreenToWorld(anchor)

	vp.ZoomTo(4, anchor, 1.0, ease.Linear)

	// The anchored world point stays put through every step of the tween.
	for i := 0; i < 4; i++ {
		vp.Update(0.25)
		if got := vp.WorldToScreen(world); !approxEqual(got.X, anchor.X, 1e-3) || !approxEqual(got.Y, anchor.Y, 1e-3) {
			t.Fatalf("step %d: anchor world point at %v, want %v", i, got, anchor)
		}
	}
	if !approxEqual(vp.PixelsPerMm, 4, 1e-3) {
		t.Errorf("PixelsPerMm = %v, want ~4", vp.PixelsPerMm)
	}
}

func TestViewportFitToAnimated(t *testing.T) {
	vp := NewViewport()
	bounds := Rect{X: 0, Y: 0, Width: 4000, Height: 3000}

	want := Viewport{Center: vp.Center, PixelsPerMm: vp.PixelsPerMm}
	want.FitTo(bounds, 800, 600, 50)

	vp.FitToAnimated(bounds, 800, 600, 50, 0.5, ease.Linear)
	vp.Update(1.0) // large dt finishes instantly

	if !approxEqual(vp.PixelsPerMm, want.PixelsPerMm, 1e-3) {
		t.Errorf("PixelsPerMm = %v, want %v", vp.PixelsPerMm, want.PixelsPerMm)
	}
	if !approxEqual(vp.Center.X, want.Center.X, 1.0) || !approxEqual(vp.Center.Y, want.Center.Y, 1.0) {
		t.Errorf("Center = %v, want ~%v", vp.Center, want.Center)
	}
}

func TestViewportPanCancelsAnimation(t *testing.T) {
	vp := NewViewport()
	vp.ScrollTo(V(1000, 1000), 800, 600, 5.0, ease.Linear)
	vp.Pan(V(1, 1))
	if vp.anim != nil {
		t.Error("Pan did not cancel the running animation")
	}
	center := vp.Center
	vp.Update(1.0)
	if vp.Center != center {
		t.Errorf("center moved to %v after canceled animation", vp.Center)
	}
}
