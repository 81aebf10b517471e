package joist

// Synthetic pointer gestures. They drive the tool through the same
// PointerDown/PointerMove/PointerUp path a presenter uses, with hit testing
// resolved internally, so scripted edits and tests behave exactly like real
// mouse input.

// InjectClick performs a press and release at a screen point without leaving
// the drag dead zone. On a wall or fixture this selects and commits in place;
// on empty canvas it is a no-op.
func (t *SelectTool) InjectClick(screenPt Vec2) {
	t.PointerDown(screenPt, t.HitTest(screenPt))
	t.PointerUp()
}

// InjectDrag performs a full drag from one screen point to another: a press
// at from, steps interpolated move events with the last landing exactly on
// to, and a release. Steps below 1 are clamped to 1.
func (t *SelectTool) InjectDrag(from, to Vec2, steps int) {
	if steps < 1 {
		steps = 1
	}
	t.PointerDown(from, t.HitTest(from))
	for i := 1; i <= steps; i++ {
		t.PointerMove(from.Lerp(to, float64(i)/float64(steps)))
	}
	t.PointerUp()
}
