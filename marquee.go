package joist

import "math"

const (
	// MinDragDistancePx is how far the pointer must travel from its anchor,
	// on either axis, before a press on empty canvas becomes a marquee.
	// Press-and-release inside this band is a plain click.
	MinDragDistancePx = 10.0

	// MinMarqueeSizePx is the smallest width and height a marquee box may
	// have. A smaller box commits as a no-op and leaves the selection
	// untouched.
	MinMarqueeSizePx = 5.0
)

// Marquee is an in-progress selection rectangle in screen pixels, tracked
// from the pointer-down anchor to the current pointer corner.
type Marquee struct {
	AnchorPx Vec2
	CornerPx Vec2
}

// Box returns the normalized screen rectangle the marquee spans. ok is
// false when either dimension is below MinMarqueeSizePx.
func (m Marquee) Box() (Rect, bool) {
	r := RectFromCorners(m.AnchorPx, m.CornerPx)
	if r.Width < MinMarqueeSizePx || r.Height < MinMarqueeSizePx {
		return Rect{}, false
	}
	return r, true
}

// exceedsDragThreshold reports whether the pointer has left the dead zone
// around its anchor. Inside the zone a press is still a click.
func exceedsDragThreshold(anchor, current Vec2) bool {
	return math.Abs(current.X-anchor.X) >= MinDragDistancePx ||
		math.Abs(current.Y-anchor.Y) >= MinDragDistancePx
}

// wallsInMarquee returns the walls the screen-space box selects, in id
// order. A wall is selected when either endpoint's screen projection lies
// inside the box (edges inclusive) or its screen segment crosses one of the
// box's four edges; walls entirely outside never match, walls passing
// straight through always do.
func wallsInMarquee(s *Scene, vp *Viewport, box Rect) []WallID {
	corners := [4]Vec2{
		{X: box.X, Y: box.Y},
		{X: box.X + box.Width, Y: box.Y},
		{X: box.X + box.Width, Y: box.Y + box.Height},
		{X: box.X, Y: box.Y + box.Height},
	}
	var out []WallID
	for _, id := range s.WallIDs() {
		w, _ := s.Wall(id)
		a, b, ok := s.WallSegment(w)
		if !ok {
			continue
		}
		sa := vp.WorldToScreen(a)
		sb := vp.WorldToScreen(b)
		if box.ContainsVec(sa) || box.ContainsVec(sb) {
			out = append(out, id)
			continue
		}
		for i := 0; i < 4; i++ {
			if segmentsIntersect(sa, sb, corners[i], corners[(i+1)%4]) {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

// orient returns the signed doubled area of triangle abc, positive when c
// lies left of ab.
func orient(a, b, c Vec2) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// onSegment reports whether p, already known collinear with ab, lies within
// the segment's bounding box.
func onSegment(a, b, p Vec2) bool {
	return math.Min(a.X, b.X)-geomEpsilon <= p.X && p.X <= math.Max(a.X, b.X)+geomEpsilon &&
		math.Min(a.Y, b.Y)-geomEpsilon <= p.Y && p.Y <= math.Max(a.Y, b.Y)+geomEpsilon
}

// segmentsIntersect reports whether segments a1a2 and b1b2 share any point,
// endpoints and collinear overlap included.
func segmentsIntersect(a1, a2, b1, b2 Vec2) bool {
	d1 := orient(b1, b2, a1)
	d2 := orient(b1, b2, a2)
	d3 := orient(a1, a2, b1)
	d4 := orient(a1, a2, b2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if math.Abs(d1) < geomEpsilon && onSegment(b1, b2, a1) {
		return true
	}
	if math.Abs(d2) < geomEpsilon && onSegment(b1, b2, a2) {
		return true
	}
	if math.Abs(d3) < geomEpsilon && onSegment(a1, a2, b1) {
		return true
	}
	if math.Abs(d4) < geomEpsilon && onSegment(a1, a2, b2) {
		return true
	}
	return false
}
