package joist

import "testing"

func TestWallPolygonIsolated(t *testing.T) {
	s := NewScene()
	w := testWallBetween(t, s, V(0, 0), V(1000, 0), 100)

	got := WallPolygon(s, w)
	want := []Vec2{{0, 50}, {1000, 50}, {1000, -50}, {0, -50}}
	if len(got) != 4 {
		t.Fatalf("WallPolygon = %d vertices, want 4", len(got))
	}
	for i := range want {
		if !vecAlmostEqual(got[i], want[i]) {
			t.Errorf("vertex %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestWallPolygonMiteredCorner(t *testing.T) {
	s := NewScene()
	a := s.AddNode(V(0, 0))
	corner := s.AddNode(V(1000, 0))
	c := s.AddNode(V(1000, 1000))
	w1 := linkWall(t, s, a.ID, corner.ID, 100)
	w2 := linkWall(t, s, corner.ID, c.ID, 100)

	p1 := WallPolygon(s, w1)
	p2 := WallPolygon(s, w2)
	if len(p1) != 4 || len(p2) != 4 {
		t.Fatalf("polygons have %d and %d vertices, want 4 each", len(p1), len(p2))
	}

	inner := V(950, 50)
	outer := V(1050, -50)
	if !vecAlmostEqual(p1[1], inner) || !vecAlmostEqual(p1[2], outer) {
		t.Errorf("first wall joint vertices = %v, %v, want %v, %v", p1[1], p1[2], inner, outer)
	}
	// The second wall's outline must meet at the exact same two points so the
	// corner closes without a gap or overlap.
	if !vecAlmostEqual(p2[0], inner) || !vecAlmostEqual(p2[3], outer) {
		t.Errorf("second wall joint vertices = %v, %v, want %v, %v", p2[0], p2[3], inner, outer)
	}
	if !vecAlmostEqual(p1[0], V(0, 50)) || !vecAlmostEqual(p1[3], V(0, -50)) {
		t.Errorf("free end of first wall = %v, %v, want flat cap", p1[0], p1[3])
	}
	if !vecAlmostEqual(p2[1], V(950, 1000)) || !vecAlmostEqual(p2[2], V(1050, 1000)) {
		t.Errorf("free end of second wall = %v, %v, want flat cap", p2[1], p2[2])
	}
}

func TestWallPolygonCollinearNeighbor(t *testing.T) {
	s := NewScene()
	a := s.AddNode(V(0, 0))
	mid := s.AddNode(V(1000, 0))
	b := s.AddNode(V(2000, 0))
	w1 := linkWall(t, s, a.ID, mid.ID, 100)
	linkWall(t, s, mid.ID, b.ID, 100)

	// Boundary lines of collinear walls are parallel; the joint degrades to a
	// flat cap.
	got := WallPolygon(s, w1)
	if !vecAlmostEqual(got[1], V(1000, 50)) || !vecAlmostEqual(got[2], V(1000, -50)) {
		t.Errorf("collinear joint = %v, %v, want flat cap at (1000,±50)", got[1], got[2])
	}
}

func TestWallPolygonJunctionFlat(t *testing.T) {
	s := NewScene()
	hub := s.AddNode(V(0, 0))
	spokes := []Vec2{{1000, 0}, {0, 1000}, {-1000, 0}}
	walls := make([]Wall, len(spokes))
	for i, p := range spokes {
		n := s.AddNode(p)
		walls[i] = linkWall(t, s, hub.ID, n.ID, 100)
	}

	// Three walls meet at the hub: no unambiguous miter partner, every wall
	// caps flat there.
	got := WallPolygon(s, walls[0])
	if !vecAlmostEqual(got[0], V(0, 50)) || !vecAlmostEqual(got[3], V(0, -50)) {
		t.Errorf("junction end = %v, %v, want flat cap at (0,±50)", got[0], got[3])
	}
}

func TestWallPolygonMiterLimit(t *testing.T) {
	s := NewScene()
	a := s.AddNode(V(0, 0))
	shared := s.AddNode(V(1000, 0))
	back := s.AddNode(V(0, 10))
	w1 := linkWall(t, s, a.ID, shared.ID, 100)
	linkWall(t, s, shared.ID, back.ID, 100)

	// The second wall nearly doubles back on the first; the miter vertex
	// would land thousands of millimeters away, so the joint caps flat.
	got := WallPolygon(s, w1)
	if !vecAlmostEqual(got[1], V(1000, 50)) || !vecAlmostEqual(got[2], V(1000, -50)) {
		t.Errorf("sharp joint = %v, %v, want flat cap at (1000,±50)", got[1], got[2])
	}
}

func TestWallPolygonInvalid(t *testing.T) {
	s := NewScene()
	n := s.AddNode(V(0, 0))
	dangling := NewWall(n.ID, NodeID("gone"), 100, 2700, 0)
	if err := s.AddWall(dangling); err != nil {
		t.Fatalf("AddWall: %v", err)
	}
	if got := WallPolygon(s, dangling); got != nil {
		t.Errorf("polygon for dangling wall = %v, want nil", got)
	}

	// Two distinct nodes at the same position give a zero-length wall.
	zero := testWallBetween(t, s, V(5, 5), V(5, 5), 100)
	if got := WallPolygon(s, zero); got != nil {
		t.Errorf("polygon for zero-length wall = %v, want nil", got)
	}
}

func TestPolygonContains(t *testing.T) {
	square := []Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	tests := []struct {
		name string
		poly []Vec2
		p    Vec2
		want bool
	}{
		{"center", square, V(5, 5), true},
		{"outside right", square, V(15, 5), false},
		{"outside above", square, V(5, 15), false},
		{"near corner inside", square, V(9.5, 9.5), true},
		{"degenerate", []Vec2{{0, 0}, {10, 0}}, V(5, 0), false},
		{"nil", nil, V(0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolygonContains(tt.poly, tt.p); got != tt.want {
				t.Errorf("PolygonContains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPolygonContainsConcave(t *testing.T) {
	// L-shape: the notch at the top right is outside.
	l := []Vec2{{0, 0}, {10, 0}, {10, 5}, {5, 5}, {5, 10}, {0, 10}}
	if !PolygonContains(l, V(2, 8)) {
		t.Error("point in the vertical arm reported outside")
	}
	if PolygonContains(l, V(8, 8)) {
		t.Error("point in the notch reported inside")
	}
}

func TestClosestPointOnSegment(t *testing.T) {
	a, b := V(0, 0), V(10, 0)
	tests := []struct {
		name string
		p    Vec2
		want Vec2
	}{
		{"projects onto middle", V(4, 3), V(4, 0)},
		{"clamps to start", V(-5, 2), V(0, 0)},
		{"clamps to end", V(15, -2), V(10, 0)},
		{"on segment", V(7, 0), V(7, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClosestPointOnSegment(tt.p, a, b); !vecAlmostEqual(got, tt.want) {
				t.Errorf("ClosestPointOnSegment(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}

	if got := ClosestPointOnSegment(V(3, 4), V(1, 1), V(1, 1)); !vecAlmostEqual(got, V(1, 1)) {
		t.Errorf("degenerate segment = %v, want (1,1)", got)
	}
}

func TestFixtureFootprint(t *testing.T) {
	s := NewScene()
	s.AddSchema(FixtureSchema{ID: "desk", Kind: FixtureFurniture, Name: "Desk", FootprintMm: V(1200, 600)})

	f := NewFixture("desk", V(500, 500))
	got := FixtureFootprint(s, f)
	want := []Vec2{{-100, 200}, {1100, 200}, {1100, 800}, {-100, 800}}
	if len(got) != 4 {
		t.Fatalf("footprint = %d vertices, want 4", len(got))
	}
	for i := range want {
		if !vecAlmostEqual(got[i], want[i]) {
			t.Errorf("vertex %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFixtureFootprintRotated(t *testing.T) {
	s := NewScene()
	s.AddSchema(FixtureSchema{ID: "desk", Kind: FixtureFurniture, Name: "Desk", FootprintMm: V(1200, 600)})

	f := NewFixture("desk", V(500, 500))
	f.RotationDeg = 90
	got := FixtureFootprint(s, f)
	want := []Vec2{{800, -100}, {800, 1100}, {200, 1100}, {200, -100}}
	for i := range want {
		if !vecAlmostEqual(got[i], want[i]) {
			t.Errorf("vertex %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFixtureFootprintInvalid(t *testing.T) {
	s := NewScene()
	s.AddSchema(FixtureSchema{ID: "flat", Kind: FixtureFurniture, Name: "Flat", FootprintMm: V(1200, 0)})

	if got := FixtureFootprint(s, NewFixture("unknown", V(0, 0))); got != nil {
		t.Errorf("footprint with missing schema = %v, want nil", got)
	}
	if got := FixtureFootprint(s, NewFixture("flat", V(0, 0))); got != nil {
		t.Errorf("footprint with degenerate schema = %v, want nil", got)
	}
}
