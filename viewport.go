package joist

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Zoom is clamped to keep the transform invertible and the plan legible.
const (
	minPixelsPerMm = 0.01
	maxPixelsPerMm = 100.0
)

// viewAnim holds the active center and scale tweens for a viewport.
type viewAnim struct {
	tweenX, tweenY, tweenScale *gween.Tween
	doneX, doneY, doneScale    bool

	// anchored pins the world point under anchorScreen while the scale
	// tween runs, re-deriving Center every update.
	anchored     bool
	anchorScreen Vec2
	anchorWorld  Vec2
}

// Viewport maps millimeter world space to pixel screen space:
//
//	screen = world · PixelsPerMm + Center
//
// Center is the screen position of the world origin. The zero-adjacent
// default (scale 1, center at the screen origin) makes the two spaces
// coincide, which keeps tests and small tools simple.
type Viewport struct {
	Center      Vec2
	PixelsPerMm float64

	anim *viewAnim
}

// NewViewport returns the identity viewport: 1 px per mm, origin at (0,0).
func NewViewport() *Viewport {
	return &Viewport{PixelsPerMm: 1}
}

// WorldToScreen converts a world-space point to screen pixels.
func (v *Viewport) WorldToScreen(w Vec2) Vec2 {
	return w.Mul(v.PixelsPerMm).Add(v.Center)
}

// ScreenToWorld converts a screen-space point to world millimeters.
func (v *Viewport) ScreenToWorld(s Vec2) Vec2 {
	return s.Sub(v.Center).Mul(1 / v.PixelsPerMm)
}

// VisibleBounds returns the world-space rectangle a screen of the given size
// sees through this viewport.
func (v *Viewport) VisibleBounds(screenW, screenH float64) Rect {
	tl := v.ScreenToWorld(Vec2{})
	br := v.ScreenToWorld(Vec2{X: screenW, Y: screenH})
	return RectFromCorners(tl, br)
}

// Pan shifts the view by a screen-space delta and cancels any animation;
// an interactive grab always wins over a tween.
func (v *Viewport) Pan(deltaPx Vec2) {
	v.anim = nil
	v.Center = v.Center.Add(deltaPx)
}

// ZoomAt scales the view by factor while keeping the world point under
// screenPt fixed, the usual wheel-zoom behavior.
func (v *Viewport) ZoomAt(screenPt Vec2, factor float64) {
	v.anim = nil
	world := v.ScreenToWorld(screenPt)
	v.PixelsPerMm = clampScale(v.PixelsPerMm * factor)
	v.Center = screenPt.Sub(world.Mul(v.PixelsPerMm))
}

// FitTo frames the given world bounds inside a screen of the given size,
// leaving marginPx on every side. Degenerate bounds keep the current scale
// and are centered.
func (v *Viewport) FitTo(bounds Rect, screenW, screenH, marginPx float64) {
	v.anim = nil
	availW := screenW - 2*marginPx
	availH := screenH - 2*marginPx
	if availW > 0 && availH > 0 && bounds.Width > 0 && bounds.Height > 0 {
		v.PixelsPerMm = clampScale(math.Min(availW/bounds.Width, availH/bounds.Height))
	}
	center := Vec2{X: bounds.X + bounds.Width/2, Y: bounds.Y + bounds.Height/2}
	v.Center = Vec2{X: screenW / 2, Y: screenH / 2}.Sub(center.Mul(v.PixelsPerMm))
}

// ScrollTo animates the view until the given world point sits at the screen
// center. The tween advances through Update.
func (v *Viewport) ScrollTo(world Vec2, screenW, screenH float64, duration float32, easeFn ease.TweenFunc) {
	target := Vec2{X: screenW / 2, Y: screenH / 2}.Sub(world.Mul(v.PixelsPerMm))
	v.anim = &viewAnim{
		tweenX: gween.New(float32(v.Center.X), float32(target.X), duration, easeFn),
		tweenY: gween.New(float32(v.Center.Y), float32(target.Y), duration, easeFn),
	}
}

// ZoomTo animates the scale toward the given pixels-per-millimeter value,
// pinning the world point currently under anchorPx.
func (v *Viewport) ZoomTo(scale float64, anchorPx Vec2, duration float32, easeFn ease.TweenFunc) {
	v.anim = &viewAnim{
		tweenScale:   gween.New(float32(v.PixelsPerMm), float32(clampScale(scale)), duration, easeFn),
		anchored:     true,
		anchorScreen: anchorPx,
		anchorWorld:  v.ScreenToWorld(anchorPx),
	}
}

// FitToAnimated tweens scale and center toward the framing FitTo would
// choose. The two run as independent tweens, which is fine for the short
// eases the editor uses.
func (v *Viewport) FitToAnimated(bounds Rect, screenW, screenH, marginPx float64, duration float32, easeFn ease.TweenFunc) {
	target := Viewport{Center: v.Center, PixelsPerMm: v.PixelsPerMm}
	target.FitTo(bounds, screenW, screenH, marginPx)
	v.anim = &viewAnim{
		tweenX:     gween.New(float32(v.Center.X), float32(target.Center.X), duration, easeFn),
		tweenY:     gween.New(float32(v.Center.Y), float32(target.Center.Y), duration, easeFn),
		tweenScale: gween.New(float32(v.PixelsPerMm), float32(target.PixelsPerMm), duration, easeFn),
	}
}

// Update advances any running animation by dt seconds.
func (v *Viewport) Update(dt float32) {
	a := v.anim
	if a == nil {
		return
	}
	if a.tweenX != nil && !a.doneX {
		val, done := a.tweenX.Update(dt)
		v.Center.X = float64(val)
		a.doneX = done
	}
	if a.tweenY != nil && !a.doneY {
		val, done := a.tweenY.Update(dt)
		v.Center.Y = float64(val)
		a.doneY = done
	}
	if a.tweenScale != nil && !a.doneScale {
		val, done := a.tweenScale.Update(dt)
		v.PixelsPerMm = clampScale(float64(val))
		a.doneScale = done
		if a.anchored {
			v.Center = a.anchorScreen.Sub(a.anchorWorld.Mul(v.PixelsPerMm))
		}
	}
	if (a.tweenX == nil || a.doneX) &&
		(a.tweenY == nil || a.doneY) &&
		(a.tweenScale == nil || a.doneScale) {
		v.anim = nil
	}
}

func clampScale(s float64) float64 {
	return math.Max(minPixelsPerMm, math.Min(s, maxPixelsPerMm))
}
