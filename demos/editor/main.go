// editor is an interactive floor-plan editor built on the select tool:
// click a wall to select it, drag walls, endpoint handles and fixtures,
// sweep a marquee over empty canvas, and watch endpoints snap and merge.
//
// Controls: left-drag to select and move, right- or middle-drag to pan,
// wheel to zoom, F to fit the plan, Escape to cancel a gesture.
package main

import (
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/framehaus/joist"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween/ease"
)

const (
	screenW = 1280
	screenH = 720

	zoomStep    = 1.1
	fitMarginPx = 60
	fitDuration = 0.35
)

var (
	colorBackground = color.RGBA{R: 0x20, G: 0x24, B: 0x28, A: 0xff}
	colorWall       = color.RGBA{R: 0x8a, G: 0x92, B: 0x99, A: 0xff}
	colorOutline    = color.RGBA{R: 0x55, G: 0x5c, B: 0x63, A: 0xff}
	colorSelected   = color.RGBA{R: 0xff, G: 0xb1, B: 0x3d, A: 0xff}
	colorHandle     = color.RGBA{R: 0xf2, G: 0xf5, B: 0xf7, A: 0xff}
	colorGhost      = color.RGBA{R: 0x56, G: 0xc8, B: 0xff, A: 0xb0}
	colorSnap       = color.RGBA{R: 0x4d, G: 0xe8, B: 0x7b, A: 0xff}
	colorFixture    = color.RGBA{R: 0x6f, G: 0x9c, B: 0xd9, A: 0xff}
	colorMarquee    = color.RGBA{R: 0x56, G: 0xc8, B: 0xff, A: 0x30}
	colorMarqueeBox = color.RGBA{R: 0x56, G: 0xc8, B: 0xff, A: 0xc0}
)

type game struct {
	scene *joist.Scene
	vp    *joist.Viewport
	tool  *joist.SelectTool

	toolCtx joist.Context
	status  string

	prevLeft   bool
	prevPan    bool
	prevCursor joist.Vec2
	prevEscape bool
	prevFit    bool
}

func newGame() *game {
	g := &game{
		scene: buildPlan(),
		vp:    joist.NewViewport(),
	}
	g.tool = joist.NewSelectTool(g.scene, g.vp, joist.DefaultSelectToolConfig())
	g.tool.OnCommit = func(c joist.Commit) {
		g.scene.Apply(c)
		g.status = fmt.Sprintf("last commit: %d moves, %d merges", len(c.Moves), len(c.Merges))
	}
	g.tool.OnContextChange = func(ctx joist.Context) {
		g.toolCtx = ctx
	}

	if b, ok := g.scene.Bounds(); ok {
		g.vp.FitTo(b, screenW, screenH, fitMarginPx)
	}
	return g
}

func (g *game) Update() error {
	g.vp.Update(1.0 / 60)

	cursor := cursorVec()
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	pan := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) ||
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)

	switch {
	case left && !g.prevLeft:
		g.tool.PointerDown(cursor, g.tool.HitTest(cursor))
	case left && cursor != g.prevCursor:
		g.tool.PointerMove(cursor)
	case !left && g.prevLeft:
		g.tool.PointerUp()
	}

	if pan && g.prevPan && cursor != g.prevCursor {
		g.vp.Pan(cursor.Sub(g.prevCursor))
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.vp.ZoomAt(cursor, math.Pow(zoomStep, wy))
	}

	escape := ebiten.IsKeyPressed(ebiten.KeyEscape)
	if escape && !g.prevEscape {
		g.tool.Cancel()
	}
	fit := ebiten.IsKeyPressed(ebiten.KeyF)
	if fit && !g.prevFit {
		if b, ok := g.scene.Bounds(); ok {
			g.vp.FitToAnimated(b, screenW, screenH, fitMarginPx, fitDuration, ease.OutQuad)
		}
	}

	g.prevLeft, g.prevPan = left, pan
	g.prevCursor = cursor
	g.prevEscape, g.prevFit = escape, fit
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	for _, id := range g.scene.WallIDs() {
		w, _ := g.scene.Wall(id)
		g.drawWall(screen, w, g.tool.Selected(id))
	}
	for _, id := range g.scene.FixtureIDs() {
		f, _ := g.scene.Fixture(id)
		g.drawFixture(screen, f)
	}
	g.drawHandles(screen)
	g.drawGhosts(screen)
	g.drawSnaps(screen)
	g.drawMarquee(screen)
	g.drawHUD(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

// drawWall fills the wall body with a thick centerline stroke and traces
// the mitered outline polygon on top.
func (g *game) drawWall(screen *ebiten.Image, w joist.Wall, selected bool) {
	a, b, ok := g.scene.WallSegment(w)
	if !ok {
		return
	}
	sa, sb := g.vp.WorldToScreen(a), g.vp.WorldToScreen(b)

	body := colorWall
	if selected {
		body = colorSelected
	}
	thick := float32(w.ThicknessMm * g.vp.PixelsPerMm)
	vector.StrokeLine(screen, float32(sa.X), float32(sa.Y), float32(sb.X), float32(sb.Y), thick, body, true)

	if poly := joist.WallPolygon(g.scene, w); poly != nil {
		strokePolygon(screen, g.vp, poly, 1.5, colorOutline)
	}
}

func (g *game) drawFixture(screen *ebiten.Image, f joist.Fixture) {
	if fp := joist.FixtureFootprint(g.scene, f); fp != nil {
		strokePolygon(screen, g.vp, fp, 1.5, colorFixture)
	}
	p := g.vp.WorldToScreen(f.Pos)
	vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), 3, colorFixture, true)
}

// drawHandles marks the endpoints of every selected wall with the grab
// handles the hit test honors.
func (g *game) drawHandles(screen *ebiten.Image) {
	for _, id := range g.tool.Selection() {
		w, ok := g.scene.Wall(id)
		if !ok {
			continue
		}
		a, b, ok := g.scene.WallSegment(w)
		if !ok {
			continue
		}
		for _, p := range [2]joist.Vec2{a, b} {
			sp := g.vp.WorldToScreen(p)
			vector.DrawFilledCircle(screen, float32(sp.X), float32(sp.Y), 5, colorHandle, true)
			vector.StrokeCircle(screen, float32(sp.X), float32(sp.Y), 5, 1, colorBackground, true)
		}
	}
}

// drawGhosts previews the in-flight drag: centerlines of affected walls at
// their ghost positions, or the fixture footprint at its ghost position.
// The scene itself is untouched until the commit lands.
func (g *game) drawGhosts(screen *ebiten.Image) {
	ctx := g.toolCtx
	if ctx.State != joist.StateDragging {
		return
	}

	if ctx.DragMode == joist.DragFixture {
		if ctx.FixtureGhost == nil {
			return
		}
		f, ok := g.scene.Fixture(ctx.Fixture)
		if !ok {
			return
		}
		f.Pos = *ctx.FixtureGhost
		if fp := joist.FixtureFootprint(g.scene, f); fp != nil {
			strokePolygon(screen, g.vp, fp, 2, colorGhost)
		}
		sp := g.vp.WorldToScreen(f.Pos)
		vector.DrawFilledCircle(screen, float32(sp.X), float32(sp.Y), 3, colorGhost, true)
		return
	}

	ghostPos := func(id joist.NodeID) (joist.Vec2, bool) {
		if p, ok := ctx.Ghosts[id]; ok {
			return p, true
		}
		n, ok := g.scene.Node(id)
		return n.Pos, ok
	}
	for _, wid := range ctx.AffectedWalls {
		w, ok := g.scene.Wall(wid)
		if !ok {
			continue
		}
		a, aok := ghostPos(w.NodeA)
		b, bok := ghostPos(w.NodeB)
		if !aok || !bok {
			continue
		}
		sa, sb := g.vp.WorldToScreen(a), g.vp.WorldToScreen(b)
		vector.StrokeLine(screen, float32(sa.X), float32(sa.Y), float32(sb.X), float32(sb.Y), 2, colorGhost, true)
	}
	for _, p := range ctx.Ghosts {
		sp := g.vp.WorldToScreen(p)
		vector.DrawFilledCircle(screen, float32(sp.X), float32(sp.Y), 4, colorGhost, true)
	}
}

func (g *game) drawSnaps(screen *ebiten.Image) {
	for _, c := range g.toolCtx.ActiveSnaps {
		sp := g.vp.WorldToScreen(c.Point)
		vector.StrokeCircle(screen, float32(sp.X), float32(sp.Y), 8, 1.5, colorSnap, true)
	}
}

func (g *game) drawMarquee(screen *ebiten.Image) {
	if g.toolCtx.State != joist.StateMarquee {
		return
	}
	m := g.toolCtx.Marquee
	r := joist.RectFromCorners(m.AnchorPx, m.CornerPx)
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), colorMarquee, false)
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), 1, colorMarqueeBox, false)
}

func (g *game) drawHUD(screen *ebiten.Image) {
	msg := fmt.Sprintf(
		"left-drag: select/move | right-drag: pan | wheel: zoom | F: fit | Esc: cancel\nstate: %s  selected: %d  %s",
		g.toolCtx.State, len(g.tool.Selection()), g.status,
	)
	ebitenutil.DebugPrintAt(screen, msg, 8, 8)
}

func cursorVec() joist.Vec2 {
	mx, my := ebiten.CursorPosition()
	return joist.Vec2{X: float64(mx), Y: float64(my)}
}

func strokePolygon(screen *ebiten.Image, vp *joist.Viewport, poly []joist.Vec2, width float32, clr color.Color) {
	for i := range poly {
		a := vp.WorldToScreen(poly[i])
		b := vp.WorldToScreen(poly[(i+1)%len(poly)])
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), width, clr, true)
	}
}

// buildPlan assembles the demo flat: two rooms sharing a partition, a
// detached wall stub to practice merging, and a few fixtures.
func buildPlan() *joist.Scene {
	sc := joist.NewScene()

	nw := sc.AddNode(joist.Vec2{X: 0, Y: 0})
	ne := sc.AddNode(joist.Vec2{X: 8000, Y: 0})
	se := sc.AddNode(joist.Vec2{X: 8000, Y: 5000})
	sw := sc.AddNode(joist.Vec2{X: 0, Y: 5000})
	pn := sc.AddNode(joist.Vec2{X: 5000, Y: 0})
	ps := sc.AddNode(joist.Vec2{X: 5000, Y: 5000})

	exterior := [][2]joist.NodeID{
		{nw.ID, pn.ID}, {pn.ID, ne.ID},
		{ne.ID, se.ID},
		{se.ID, ps.ID}, {ps.ID, sw.ID},
		{sw.ID, nw.ID},
	}
	for _, seg := range exterior {
		mustAddWall(sc, joist.NewWall(seg[0], seg[1], 240, 2700, 0))
	}
	mustAddWall(sc, joist.NewWall(pn.ID, ps.ID, 115, 2700, 0))

	// A loose stub south of the flat; drag its endpoint onto a corner to
	// watch the nodes merge.
	sa := sc.AddNode(joist.Vec2{X: 2000, Y: 6500})
	sb := sc.AddNode(joist.Vec2{X: 4500, Y: 6500})
	mustAddWall(sc, joist.NewWall(sa.ID, sb.ID, 115, 2400, 0))

	sc.AddSchema(joist.FixtureSchema{
		ID:          "door-interior",
		Kind:        joist.FixtureDoor,
		Name:        "Interior Door",
		FootprintMm: joist.Vec2{X: 900, Y: 115},
	})
	sc.AddSchema(joist.FixtureSchema{
		ID:          "table-dining",
		Kind:        joist.FixtureFurniture,
		Name:        "Dining Table",
		FootprintMm: joist.Vec2{X: 1800, Y: 900},
	})
	sc.AddSchema(joist.FixtureSchema{
		ID:          "sofa-3s",
		Kind:        joist.FixtureFurniture,
		Name:        "Sofa",
		FootprintMm: joist.Vec2{X: 2200, Y: 950},
	})

	door := joist.NewFixture("door-interior", joist.Vec2{X: 5000, Y: 3600})
	door.RotationDeg = 90
	sc.AddFixture(door)
	sc.AddFixture(joist.NewFixture("table-dining", joist.Vec2{X: 2400, Y: 2400}))
	sc.AddFixture(joist.NewFixture("sofa-3s", joist.Vec2{X: 6600, Y: 1400}))

	return sc
}

func mustAddWall(sc *joist.Scene, w joist.Wall) {
	if err := sc.AddWall(w); err != nil {
		log.Fatal(err)
	}
}

func main() {
	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("Joist — Plan Editor")
	if err := ebiten.RunGame(newGame()); err != nil {
		log.Fatal(err)
	}
}
