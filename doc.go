// Package joist is the geometry and interaction core of a 2D floor-plan
// editor.
//
// It maintains a graph of shared endpoints ([Node]) and thick segments
// ([Wall]) in millimeter world coordinates, derives the mitered outline
// polygon used to render and hit-test each wall, computes tolerance-based
// snap targets during interactive edits, and drives the pointer state
// machine behind marquee selection and rigid-body dragging. Persistence,
// drawing, and UI chrome stay outside: presenters feed pointer events in and
// apply the commits that come back out.
//
// # Scene
//
// A [Scene] is an arena of nodes, walls, and fixtures addressed by opaque
// ids. Walls reference their endpoint nodes by id and never own them; a wall
// whose node is missing is invisible until repaired.
//
//	scene := joist.NewScene()
//	scene.NewWallBetween(joist.V(0, 0), joist.V(4000, 0), 100, 2700, 0)
//
// [WallPolygon] turns a wall into its outline footprint, mitering the joint
// where exactly two walls share a node and falling back to a flat cap
// everywhere else.
//
// # Interaction
//
// A [SelectTool] consumes pointer events in screen pixels, translating them
// through a [Viewport]. During a drag it moves ghost positions only,
// consulting a per-gesture [SnapIndex]; the scene itself changes exactly
// once, when the owning layer applies the emitted [Commit]:
//
//	tool := joist.NewSelectTool(scene, vp, joist.DefaultSelectToolConfig())
//	tool.OnCommit = func(c joist.Commit) {
//		scene.Apply(c)
//	}
//
//	tool.PointerDown(pt, tool.HitTest(pt))
//	tool.PointerMove(pt2)
//	tool.PointerUp()
//
// Node merges happen only at commit time, when a dragged endpoint ends
// within [SamePositionToleranceMm] of another node; rigid-body wall drags
// accept per-endpoint snap corrections up to [RigidBodySnapToleranceMm] so
// the dragged group keeps its shape.
//
// All of the package is single-threaded and event-driven: every operation
// runs to completion inside the handling of one pointer event.
package joist
