package joist

import "math"

// MiterLimit bounds how far a mitered joint vertex may sit from the shared
// node, as a multiple of the wall's half-thickness. Joints sharper than this
// fall back to a flat end cap instead of producing a spike.
const MiterLimit = 8.0

// WallPolygon derives the wall's outline polygon in world millimeters: the
// footprint used for rendering and hit-testing. Vertices run along the left
// boundary from A to B, then back along the right boundary, forming a simple
// closed polygon.
//
// Each endpoint is shaped by its connectivity. An endpoint shared with
// exactly one other wall gets a mitered joint: the left and right boundary
// lines of the two walls are intersected independently, one joint vertex per
// side, so the two outlines meet without a gap or overlap. Endpoints with no
// neighbor, with two or more neighbors, with near-parallel boundary lines,
// or whose miter vertex lands beyond MiterLimit half-thicknesses from the
// node all get a flat cap.
//
// A wall referencing a missing node, or one of (near) zero length, yields
// nil: invalid walls are invisible and never hit-testable.
func WallPolygon(s *Scene, w Wall) []Vec2 {
	a, b, ok := s.WallSegment(w)
	if !ok {
		return nil
	}
	if a.Distance(b) < geomEpsilon {
		return nil
	}

	d := b.Sub(a).Normalize()
	left := d.Perp()
	h := w.ThicknessMm / 2

	leftA, rightA := wallEndVertices(s, w, w.NodeA, a, d, left, h)
	leftB, rightB := wallEndVertices(s, w, w.NodeB, b, d, left, h)

	return []Vec2{leftA, leftB, rightB, rightA}
}

// wallEndVertices computes the left and right outline vertices at one wall
// endpoint, either mitered against the single neighboring wall or as a flat
// cap.
func wallEndVertices(s *Scene, w Wall, nid NodeID, p, d, left Vec2, h float64) (Vec2, Vec2) {
	capLeft := p.Add(left.Mul(h))
	capRight := p.Sub(left.Mul(h))

	nb, count := s.OtherWallAtNode(nid, w.ID)
	if count != 1 {
		return capLeft, capRight
	}
	nbA, nbB, ok := s.WallSegment(nb)
	if !ok || nbA.Distance(nbB) < geomEpsilon {
		return capLeft, capRight
	}

	nbDir := nbB.Sub(nbA).Normalize()
	nbLeft := nbDir.Perp()
	nbH := nb.ThicknessMm / 2

	// Match boundary sides as if walking through the joint: our left side
	// pairs with the neighbor side on the same side of the corner. The sign
	// flips once for each wall whose stored direction opposes the walk.
	pair := 1.0
	if nid != w.NodeB {
		pair = -pair
	}
	if nid != nb.NodeA {
		pair = -pair
	}

	mLeft, okL := lineIntersection(capLeft, d, p.Add(nbLeft.Mul(pair*nbH)), nbDir)
	mRight, okR := lineIntersection(capRight, d, p.Sub(nbLeft.Mul(pair*nbH)), nbDir)
	if !okL || !okR {
		return capLeft, capRight
	}
	limit := MiterLimit * h
	if mLeft.Distance(p) > limit || mRight.Distance(p) > limit {
		return capLeft, capRight
	}
	return mLeft, mRight
}

// lineIntersection intersects two infinite lines given as point plus
// direction. ok is false when the lines are parallel within epsilon.
func lineIntersection(p1, d1, p2, d2 Vec2) (Vec2, bool) {
	det := d1.Cross(d2)
	if math.Abs(det) < geomEpsilon {
		return Vec2{}, false
	}
	t := p2.Sub(p1).Cross(d2) / det
	return p1.Add(d1.Mul(t)), true
}

// PolygonContains reports whether p lies inside the polygon, using even-odd
// ray crossing. Polygons with fewer than three vertices contain nothing.
func PolygonContains(poly []Vec2, p Vec2) bool {
	if len(poly) < 3 {
		return false
	}
	inside := false
	j := len(poly) - 1
	for i := 0; i < len(poly); i++ {
		pi, pj := poly[i], poly[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			x := pi.X + (p.Y-pi.Y)/(pj.Y-pi.Y)*(pj.X-pi.X)
			if p.X < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// ClosestPointOnSegment returns the point on segment ab nearest to p.
func ClosestPointOnSegment(p, a, b Vec2) Vec2 {
	ab := b.Sub(a)
	lenSq := ab.LengthSq()
	if lenSq < geomEpsilon {
		return a
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Mul(t))
}

// FixtureFootprint derives the fixture's footprint rectangle in world
// millimeters, centered on its position and rotated by its rotation. A
// fixture whose schema is missing or has a degenerate footprint yields nil.
func FixtureFootprint(s *Scene, f Fixture) []Vec2 {
	sc, ok := s.Schema(f.SchemaID)
	if !ok {
		return nil
	}
	hw := sc.FootprintMm.X / 2
	hh := sc.FootprintMm.Y / 2
	if hw <= 0 || hh <= 0 {
		return nil
	}
	sin, cos := math.Sincos(f.RotationDeg * math.Pi / 180)
	corners := [4]Vec2{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	out := make([]Vec2, 4)
	for i, c := range corners {
		out[i] = Vec2{
			X: f.Pos.X + c.X*cos - c.Y*sin,
			Y: f.Pos.Y + c.X*sin + c.Y*cos,
		}
	}
	return out
}
