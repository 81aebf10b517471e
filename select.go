package joist

import (
	"math"
	"sort"
)

// --- States and modes ---

// ToolState is the select tool's current state-machine state.
type ToolState int

const (
	StateIdle ToolState = iota
	StateMarqueePending
	StateMarquee
	StateDragging
)

func (s ToolState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMarqueePending:
		return "marquee-pending"
	case StateMarquee:
		return "marquee"
	case StateDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// DragMode says what an in-progress gesture is dragging.
type DragMode int

const (
	DragNone DragMode = iota
	DragWall
	DragNodeA
	DragNodeB
	DragFixture
	DragMarquee
)

func (m DragMode) String() string {
	switch m {
	case DragNone:
		return "none"
	case DragWall:
		return "wall"
	case DragNodeA:
		return "node-a"
	case DragNodeB:
		return "node-b"
	case DragFixture:
		return "fixture"
	case DragMarquee:
		return "marquee"
	default:
		return "unknown"
	}
}

// --- Hit info ---

// HitKind classifies what a pointer position landed on.
type HitKind int

const (
	HitNone HitKind = iota
	HitWall
	HitWallEndpoint
	HitFixture
)

func (k HitKind) String() string {
	switch k {
	case HitNone:
		return "none"
	case HitWall:
		return "wall"
	case HitWallEndpoint:
		return "wall-endpoint"
	case HitFixture:
		return "fixture"
	default:
		return "unknown"
	}
}

// WallEnd names one of a wall's two endpoints.
type WallEnd int

const (
	EndA WallEnd = iota
	EndB
)

// Hit describes the scene element under a pointer position. Wall and End are
// valid for HitWall/HitWallEndpoint, Fixture for HitFixture.
type Hit struct {
	Kind    HitKind
	Wall    WallID
	End     WallEnd
	Fixture FixtureID
}

// --- Configuration ---

// SelectToolConfig tunes the select tool's screen-space radii and marquee
// behavior. Zero values fall back to the defaults.
type SelectToolConfig struct {
	// HitRadiusPx is the pick slop around point-like elements.
	HitRadiusPx float64
	// HandleRadiusPx is the pick radius of a selected wall's endpoint
	// handles.
	HandleRadiusPx float64
	// SnapRadiusPx is the magnet radius for node and edge snapping,
	// converted to world units per gesture from the viewport scale.
	SnapRadiusPx float64
	// MarqueeAdditive unions marquee results into the selection instead of
	// replacing it.
	MarqueeAdditive bool
}

// DefaultSelectToolConfig returns the tool defaults: additive marquee,
// handle picks slightly wider than body picks.
func DefaultSelectToolConfig() SelectToolConfig {
	return SelectToolConfig{
		HitRadiusPx:     6,
		HandleRadiusPx:  8,
		SnapRadiusPx:    12,
		MarqueeAdditive: true,
	}
}

// --- Emitted effects ---

// NodeMove records one node's position change across a gesture.
type NodeMove struct {
	Node NodeID
	From Vec2
	To   Vec2
}

// FixtureMove records a fixture's position change across a gesture.
type FixtureMove struct {
	Fixture FixtureID
	From    Vec2
	To      Vec2
}

// Commit is the mutation description a finished gesture proposes. The tool
// never applies it; the owning layer does, via Scene.Apply, and persists the
// result. Merges maps each node that ended within SamePositionToleranceMm of
// another node to that surviving node's id.
type Commit struct {
	Moves     []NodeMove
	Merges    map[NodeID]NodeID
	Fixture   *FixtureMove
	Selection []WallID
}

// DragUpdate carries the live ghost state during a drag so the presentation
// layer can preview it without touching the scene.
type DragUpdate struct {
	// Wall/node drag fields (valid for DragWall, DragNodeA, DragNodeB).
	Walls []WallID
	Nodes map[NodeID]Vec2
	// Fixture drag fields (valid for DragFixture).
	Fixture    FixtureID
	FixturePos Vec2
	// Snaps are the candidates currently steering the ghost positions.
	Snaps []SnapCandidate
}

// Context is a read-only snapshot of the tool's live interaction state,
// handed to OnContextChange after every transition.
type Context struct {
	State     ToolState
	DragMode  DragMode
	Selection []WallID
	Marquee   Marquee

	// Anchor and current pointer positions, kept in both spaces so
	// consumers never convert (and never mix) units themselves.
	AnchorPx  Vec2
	CurrentPx Vec2
	AnchorMm  Vec2
	CurrentMm Vec2

	// Ghost positions of the nodes a drag is moving (valid while dragging).
	Ghosts map[NodeID]Vec2
	// Fixture ghost (valid for DragFixture).
	Fixture      FixtureID
	FixtureGhost *Vec2

	AffectedWalls []WallID
	ActiveSnaps   []SnapCandidate

	// Snapshot is the pre-drag scene copy, for diffing; nil outside drags.
	Snapshot *Scene
}

// --- The tool ---

// SelectTool is the pointer-interaction state machine of the editor: it
// consumes pointer events, drives marquee selection and wall/node/fixture
// drags, and emits commits. It reads the scene freely during a gesture and
// never writes it; ghost positions live here until the owning layer applies
// the commit.
type SelectTool struct {
	scene    *Scene
	viewport *Viewport
	cfg      SelectToolConfig

	state    ToolState
	dragMode DragMode

	selection     map[WallID]bool
	prevSelection map[WallID]bool

	marquee Marquee

	anchorPx  Vec2
	currentPx Vec2
	anchorMm  Vec2
	currentMm Vec2

	snapshot  *Scene
	snapIndex *SnapIndex
	snapOpts  SnapOptions

	dragNode    NodeID
	dragFixture FixtureID

	movedNodes    []NodeID
	originals     map[NodeID]Vec2
	offsets       map[NodeID]Vec2
	ghosts        map[NodeID]Vec2
	fixtureOrig   Vec2
	fixtureGhost  Vec2
	affectedWalls []WallID
	activeSnaps   []SnapCandidate

	// OnContextChange fires after every transition with the updated context.
	OnContextChange func(Context)
	// OnDragUpdate fires on every drag move with the new ghost positions.
	OnDragUpdate func(DragUpdate)
	// OnCommit fires when a gesture completes with an effect to apply.
	OnCommit func(Commit)
}

// NewSelectTool creates a select tool over the given scene and viewport.
// A nil viewport gets a fresh identity viewport.
func NewSelectTool(scene *Scene, vp *Viewport, cfg SelectToolConfig) *SelectTool {
	if vp == nil {
		vp = NewViewport()
	}
	def := DefaultSelectToolConfig()
	if cfg.HitRadiusPx <= 0 {
		cfg.HitRadiusPx = def.HitRadiusPx
	}
	if cfg.HandleRadiusPx <= 0 {
		cfg.HandleRadiusPx = def.HandleRadiusPx
	}
	if cfg.SnapRadiusPx <= 0 {
		cfg.SnapRadiusPx = def.SnapRadiusPx
	}
	return &SelectTool{
		scene:     scene,
		viewport:  vp,
		cfg:       cfg,
		selection: make(map[WallID]bool),
	}
}

// State returns the current state-machine state.
func (t *SelectTool) State() ToolState { return t.state }

// Selection returns the selected wall ids in lexicographic order.
func (t *SelectTool) Selection() []WallID { return t.selectionIDs() }

// Selected reports whether the wall is in the selection.
func (t *SelectTool) Selected(id WallID) bool { return t.selection[id] }

// SetSelection replaces the selection. Ignored mid-gesture; the gesture's
// own bookkeeping owns the selection until it ends.
func (t *SelectTool) SetSelection(ids ...WallID) {
	if t.state != StateIdle {
		return
	}
	t.selection = make(map[WallID]bool, len(ids))
	for _, id := range ids {
		t.selection[id] = true
	}
	t.fireContextChange()
}

// ClearSelection empties the selection. Ignored mid-gesture.
func (t *SelectTool) ClearSelection() {
	if t.state != StateIdle {
		return
	}
	t.selection = make(map[WallID]bool)
	t.fireContextChange()
}

// Context returns a snapshot of the live interaction state.
func (t *SelectTool) Context() Context {
	ctx := Context{
		State:     t.state,
		DragMode:  t.dragMode,
		Selection: t.selectionIDs(),
		Marquee:   t.marquee,
		AnchorPx:  t.anchorPx,
		CurrentPx: t.currentPx,
		AnchorMm:  t.anchorMm,
		CurrentMm: t.currentMm,
		Snapshot:  t.snapshot,
	}
	if len(t.ghosts) > 0 {
		ctx.Ghosts = make(map[NodeID]Vec2, len(t.ghosts))
		for id, p := range t.ghosts {
			ctx.Ghosts[id] = p
		}
	}
	if t.dragMode == DragFixture && t.state == StateDragging {
		ctx.Fixture = t.dragFixture
		g := t.fixtureGhost
		ctx.FixtureGhost = &g
	}
	ctx.AffectedWalls = append([]WallID(nil), t.affectedWalls...)
	ctx.ActiveSnaps = append([]SnapCandidate(nil), t.activeSnaps...)
	return ctx
}

// --- Hit testing ---

// HitTest resolves what lies under a screen point: endpoint handles of
// selected walls first (they draw on top), then fixtures, then wall bodies
// via their outline polygons.
func (t *SelectTool) HitTest(screenPt Vec2) Hit {
	worldPt := t.viewport.ScreenToWorld(screenPt)
	scale := t.worldScale()

	handleMm := t.cfg.HandleRadiusPx / scale
	for _, id := range t.selectionIDs() {
		w, ok := t.scene.Wall(id)
		if !ok {
			continue
		}
		a, b, ok := t.scene.WallSegment(w)
		if !ok {
			continue
		}
		if worldPt.Distance(a) <= handleMm {
			return Hit{Kind: HitWallEndpoint, Wall: id, End: EndA}
		}
		if worldPt.Distance(b) <= handleMm {
			return Hit{Kind: HitWallEndpoint, Wall: id, End: EndB}
		}
	}

	hitMm := t.cfg.HitRadiusPx / scale
	for _, id := range t.scene.FixtureIDs() {
		f, _ := t.scene.Fixture(id)
		if poly := FixtureFootprint(t.scene, f); PolygonContains(poly, worldPt) {
			return Hit{Kind: HitFixture, Fixture: id}
		}
		if worldPt.Distance(f.Pos) <= hitMm {
			return Hit{Kind: HitFixture, Fixture: id}
		}
	}

	for _, id := range t.scene.WallIDs() {
		w, _ := t.scene.Wall(id)
		if PolygonContains(WallPolygon(t.scene, w), worldPt) {
			return Hit{Kind: HitWall, Wall: id}
		}
	}
	return Hit{Kind: HitNone}
}

// --- Events ---

// PointerDown begins a gesture. hit is usually the result of HitTest at the
// same point; presenters with their own picking can pass anything coherent.
// A pointer-down during an active gesture is ignored.
func (t *SelectTool) PointerDown(screenPt Vec2, hit Hit) {
	if t.state != StateIdle {
		return
	}
	t.anchorPx, t.currentPx = screenPt, screenPt
	world := t.viewport.ScreenToWorld(screenPt)
	t.anchorMm, t.currentMm = world, world
	t.prevSelection = t.selection

	switch hit.Kind {
	case HitWall:
		t.beginWallDrag(hit.Wall)
	case HitWallEndpoint:
		t.beginNodeDrag(hit)
	case HitFixture:
		t.beginFixtureDrag(hit.Fixture)
	default:
		t.state = StateMarqueePending
		t.dragMode = DragMarquee
		t.marquee = Marquee{AnchorPx: screenPt, CornerPx: screenPt}
	}
	debugf("select: down %s -> %s", hit.Kind, t.state)
	t.fireContextChange()
}

// PointerMove advances the active gesture. In marquee-pending it promotes to
// a visible marquee once the pointer leaves the dead zone; while dragging it
// recomputes ghost positions and snaps. No-op when idle.
func (t *SelectTool) PointerMove(screenPt Vec2) {
	if t.state == StateIdle {
		return
	}
	t.currentPx = screenPt
	t.currentMm = t.viewport.ScreenToWorld(screenPt)

	switch t.state {
	case StateMarqueePending:
		t.marquee.CornerPx = screenPt
		if exceedsDragThreshold(t.marquee.AnchorPx, screenPt) {
			t.state = StateMarquee
			debugf("select: marquee-pending -> marquee")
		}
	case StateMarquee:
		t.marquee.CornerPx = screenPt
	case StateDragging:
		switch t.dragMode {
		case DragWall:
			t.moveRigid()
		case DragNodeA, DragNodeB:
			t.moveNode()
		case DragFixture:
			t.moveFixture()
		}
		t.fireDragUpdate()
	}
	t.fireContextChange()
}

// PointerUp commits the active gesture: marquees resolve their selection,
// drags emit a Commit with final positions and merges. The context resets to
// neutral either way.
func (t *SelectTool) PointerUp() {
	switch t.state {
	case StateMarqueePending:
		// A click on empty canvas: nothing to do.
		t.resetToIdle()
		t.fireContextChange()
	case StateMarquee:
		t.commitMarquee()
	case StateDragging:
		t.commitDrag()
	}
}

// Cancel aborts the active gesture: ghost positions are discarded, the
// selection reverts to its pre-gesture set, and no commit fires. The scene
// was never touched, so there is nothing else to restore.
func (t *SelectTool) Cancel() {
	if t.state == StateIdle {
		return
	}
	debugf("select: %s canceled", t.state)
	if t.prevSelection != nil {
		t.selection = t.prevSelection
	}
	t.resetToIdle()
	t.fireContextChange()
}

// --- Gesture setup ---

func (t *SelectTool) beginWallDrag(wid WallID) {
	if _, ok := t.scene.Wall(wid); !ok {
		return
	}
	if !t.selection[wid] {
		t.selection = map[WallID]bool{wid: true}
	}
	t.state = StateDragging
	t.dragMode = DragWall
	t.snapshot = t.scene.Clone()

	moved := make(map[NodeID]bool)
	for id := range t.selection {
		w, ok := t.scene.Wall(id)
		if !ok {
			continue
		}
		if _, _, ok := t.scene.WallSegment(w); !ok {
			continue
		}
		moved[w.NodeA] = true
		moved[w.NodeB] = true
	}
	t.setupNodeDragState(moved)

	r := t.magnetToleranceMm()
	tol := math.Min(r, RigidBodySnapToleranceMm)
	t.snapOpts = SnapOptions{NodeToleranceMm: tol, EdgeToleranceMm: tol}
}

func (t *SelectTool) beginNodeDrag(hit Hit) {
	w, ok := t.scene.Wall(hit.Wall)
	if !ok {
		return
	}
	nid := w.NodeA
	t.dragMode = DragNodeA
	if hit.End == EndB {
		nid = w.NodeB
		t.dragMode = DragNodeB
	}
	if _, ok := t.scene.Node(nid); !ok {
		t.dragMode = DragNone
		return
	}
	t.state = StateDragging
	t.dragNode = nid
	t.snapshot = t.scene.Clone()
	t.setupNodeDragState(map[NodeID]bool{nid: true})

	r := t.magnetToleranceMm()
	t.snapOpts = SnapOptions{NodeToleranceMm: r, EdgeToleranceMm: r}
}

func (t *SelectTool) beginFixtureDrag(fid FixtureID) {
	f, ok := t.scene.Fixture(fid)
	if !ok {
		return
	}
	t.state = StateDragging
	t.dragMode = DragFixture
	t.snapshot = t.scene.Clone()
	t.dragFixture = fid
	t.fixtureOrig = f.Pos
	t.fixtureGhost = f.Pos
	t.snapIndex = NewSnapIndex(t.scene, Excluded{})

	r := t.magnetToleranceMm()
	t.snapOpts = SnapOptions{NodeToleranceMm: r, EdgeToleranceMm: r}
}

// setupNodeDragState caches originals, anchor offsets, ghosts, affected
// walls, and the snap index for a gesture moving the given nodes.
func (t *SelectTool) setupNodeDragState(moved map[NodeID]bool) {
	t.movedNodes = t.movedNodes[:0]
	t.originals = make(map[NodeID]Vec2, len(moved))
	t.offsets = make(map[NodeID]Vec2, len(moved))
	t.ghosts = make(map[NodeID]Vec2, len(moved))

	affected := make(map[WallID]bool)
	for nid := range moved {
		n, ok := t.scene.Node(nid)
		if !ok {
			continue
		}
		t.movedNodes = append(t.movedNodes, nid)
		t.originals[nid] = n.Pos
		t.offsets[nid] = n.Pos.Sub(t.anchorMm)
		t.ghosts[nid] = n.Pos
		for _, w := range t.scene.WallsAtNode(nid) {
			affected[w.ID] = true
		}
	}
	sort.Slice(t.movedNodes, func(i, j int) bool { return t.movedNodes[i] < t.movedNodes[j] })

	t.affectedWalls = t.affectedWalls[:0]
	for id := range affected {
		t.affectedWalls = append(t.affectedWalls, id)
	}
	sort.Slice(t.affectedWalls, func(i, j int) bool { return t.affectedWalls[i] < t.affectedWalls[j] })

	excluded := Excluded{Nodes: moved, Walls: affected}
	t.snapIndex = NewSnapIndex(t.scene, excluded)
}

// --- Drag updates ---

// moveRigid translates every moved node by the drag delta via its cached
// anchor offset, then applies at most a RigidBodySnapToleranceMm correction
// per endpoint so the group's shape stays visually rigid.
func (t *SelectTool) moveRigid() {
	t.activeSnaps = t.activeSnaps[:0]
	for _, nid := range t.movedNodes {
		raw := t.currentMm.Add(t.offsets[nid])
		t.ghosts[nid] = raw
		if c, ok := t.snapIndex.Nearest(raw, t.snapOpts); ok {
			t.ghosts[nid] = c.Point
			t.activeSnaps = append(t.activeSnaps, c)
		}
	}
}

// moveNode moves the single dragged endpoint straight to the snapped (or
// raw) pointer position; no rigidity cap applies.
func (t *SelectTool) moveNode() {
	t.activeSnaps = t.activeSnaps[:0]
	t.ghosts[t.dragNode] = t.currentMm
	if c, ok := t.snapIndex.Nearest(t.currentMm, t.snapOpts); ok {
		t.ghosts[t.dragNode] = c.Point
		t.activeSnaps = append(t.activeSnaps, c)
	}
}

func (t *SelectTool) moveFixture() {
	t.activeSnaps = t.activeSnaps[:0]
	t.fixtureGhost = t.currentMm
	if c, ok := t.snapIndex.Nearest(t.currentMm, t.snapOpts); ok {
		t.fixtureGhost = c.Point
		t.activeSnaps = append(t.activeSnaps, c)
	}
}

// --- Commit ---

func (t *SelectTool) commitMarquee() {
	box, ok := t.marquee.Box()
	var commit *Commit
	if ok {
		matched := wallsInMarquee(t.scene, t.viewport, box)
		if !t.cfg.MarqueeAdditive {
			t.selection = make(map[WallID]bool, len(matched))
		}
		for _, id := range matched {
			t.selection[id] = true
		}
		commit = &Commit{Selection: t.selectionIDs()}
		debugf("select: marquee commit, %d matched, %d selected", len(matched), len(commit.Selection))
	}
	t.resetToIdle()
	if commit != nil {
		t.fireCommit(*commit)
	}
	t.fireContextChange()
}

func (t *SelectTool) commitDrag() {
	commit := Commit{Selection: t.selectionIDs()}

	if t.dragMode == DragFixture {
		if t.fixtureGhost != t.fixtureOrig {
			commit.Fixture = &FixtureMove{
				Fixture: t.dragFixture,
				From:    t.fixtureOrig,
				To:      t.fixtureGhost,
			}
		}
	} else {
		for _, nid := range t.movedNodes {
			from := t.originals[nid]
			to := t.ghosts[nid]
			if from != to {
				commit.Moves = append(commit.Moves, NodeMove{Node: nid, From: from, To: to})
			}
		}
		// Merges are decided here and only here: a moved node that ended
		// within SamePositionToleranceMm of a stationary node merges into
		// it. Snapping mid-drag never merges.
		mergeOpts := SnapOptions{NodeToleranceMm: SamePositionToleranceMm}
		for _, nid := range t.movedNodes {
			c, ok := t.snapIndex.Nearest(t.ghosts[nid], mergeOpts)
			if !ok || c.Kind != SnapNode || c.Distance >= SamePositionToleranceMm {
				continue
			}
			if commit.Merges == nil {
				commit.Merges = make(map[NodeID]NodeID)
			}
			commit.Merges[nid] = c.Node
		}
	}

	debugf("select: %s commit, %d moves, %d merges", t.dragMode, len(commit.Moves), len(commit.Merges))
	t.resetToIdle()
	t.fireCommit(commit)
	t.fireContextChange()
}

// --- Internals ---

func (t *SelectTool) resetToIdle() {
	t.state = StateIdle
	t.dragMode = DragNone
	t.marquee = Marquee{}
	t.snapshot = nil
	t.snapIndex = nil
	t.snapOpts = SnapOptions{}
	t.dragNode = ""
	t.dragFixture = ""
	t.movedNodes = nil
	t.originals = nil
	t.offsets = nil
	t.ghosts = nil
	t.fixtureOrig = Vec2{}
	t.fixtureGhost = Vec2{}
	t.affectedWalls = nil
	t.activeSnaps = nil
	t.prevSelection = nil
}

func (t *SelectTool) selectionIDs() []WallID {
	ids := make([]WallID, 0, len(t.selection))
	for id := range t.selection {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (t *SelectTool) worldScale() float64 {
	if t.viewport == nil || t.viewport.PixelsPerMm <= 0 {
		return 1
	}
	return t.viewport.PixelsPerMm
}

func (t *SelectTool) magnetToleranceMm() float64 {
	return t.cfg.SnapRadiusPx / t.worldScale()
}

func (t *SelectTool) fireContextChange() {
	if t.OnContextChange != nil {
		t.OnContextChange(t.Context())
	}
}

func (t *SelectTool) fireDragUpdate() {
	if t.OnDragUpdate == nil {
		return
	}
	du := DragUpdate{Snaps: append([]SnapCandidate(nil), t.activeSnaps...)}
	if t.dragMode == DragFixture {
		du.Fixture = t.dragFixture
		du.FixturePos = t.fixtureGhost
	} else {
		du.Walls = append([]WallID(nil), t.affectedWalls...)
		du.Nodes = make(map[NodeID]Vec2, len(t.ghosts))
		for id, p := range t.ghosts {
			du.Nodes[id] = p
		}
	}
	t.OnDragUpdate(du)
}

func (t *SelectTool) fireCommit(c Commit) {
	if t.OnCommit != nil {
		t.OnCommit(c)
	}
}
