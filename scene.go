package joist

import (
	"fmt"
	"sort"
)

// Scene is the single source of truth for a floor plan: an arena of nodes,
// walls, and fixtures addressed by opaque identifiers, plus the fixture
// schemas they reference.
//
// Interaction code only reads the scene while a gesture is in flight; ghost
// positions live in the tool. Mutation happens through the scene's own
// methods, and for gestures only at commit time via Apply. Map iteration
// order is irrelevant; the *IDs accessors return sorted slices whenever
// determinism matters.
type Scene struct {
	nodes    map[NodeID]Node
	walls    map[WallID]Wall
	fixtures map[FixtureID]Fixture
	schemas  map[string]FixtureSchema
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{
		nodes:    make(map[NodeID]Node),
		walls:    make(map[WallID]Wall),
		fixtures: make(map[FixtureID]Fixture),
		schemas:  make(map[string]FixtureSchema),
	}
}

// Node returns the node with the given id.
func (s *Scene) Node(id NodeID) (Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Wall returns the wall with the given id.
func (s *Scene) Wall(id WallID) (Wall, bool) {
	w, ok := s.walls[id]
	return w, ok
}

// Fixture returns the fixture with the given id.
func (s *Scene) Fixture(id FixtureID) (Fixture, bool) {
	f, ok := s.fixtures[id]
	return f, ok
}

// Schema returns the fixture schema with the given id.
func (s *Scene) Schema(id string) (FixtureSchema, bool) {
	sc, ok := s.schemas[id]
	return sc, ok
}

// NodeCount returns the number of nodes in the scene.
func (s *Scene) NodeCount() int { return len(s.nodes) }

// WallCount returns the number of walls in the scene.
func (s *Scene) WallCount() int { return len(s.walls) }

// FixtureCount returns the number of fixtures in the scene.
func (s *Scene) FixtureCount() int { return len(s.fixtures) }

// NodeIDs returns all node ids in lexicographic order.
func (s *Scene) NodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// WallIDs returns all wall ids in lexicographic order.
func (s *Scene) WallIDs() []WallID {
	ids := make([]WallID, 0, len(s.walls))
	for id := range s.walls {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// FixtureIDs returns all fixture ids in lexicographic order.
func (s *Scene) FixtureIDs() []FixtureID {
	ids := make([]FixtureID, 0, len(s.fixtures))
	for id := range s.fixtures {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SchemaIDs returns all fixture schema ids in lexicographic order.
func (s *Scene) SchemaIDs() []string {
	ids := make([]string, 0, len(s.schemas))
	for id := range s.schemas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// WallsAtNode returns every wall referencing the given node, ordered by id.
func (s *Scene) WallsAtNode(id NodeID) []Wall {
	var walls []Wall
	for _, w := range s.walls {
		if w.NodeA == id || w.NodeB == id {
			walls = append(walls, w)
		}
	}
	sort.Slice(walls, func(i, j int) bool { return walls[i].ID < walls[j].ID })
	return walls
}

// OtherWallAtNode returns a wall other than excluding that shares the given
// node, along with how many such walls exist. The returned wall is only
// meaningful when the count is exactly 1, the simple two-wall joint the
// polygon builder miters; any other count means a free end or a junction
// that gets a flat cap instead.
func (s *Scene) OtherWallAtNode(id NodeID, excluding WallID) (Wall, int) {
	var found Wall
	count := 0
	for _, w := range s.walls {
		if w.ID == excluding {
			continue
		}
		if w.NodeA == id || w.NodeB == id {
			if count == 0 || w.ID < found.ID {
				found = w
			}
			count++
		}
	}
	return found, count
}

// WallSegment resolves a wall's endpoints to world positions. ok is false
// when either referenced node is missing, in which case the wall is invalid
// and must not be rendered or hit-tested.
func (s *Scene) WallSegment(w Wall) (a, b Vec2, ok bool) {
	na, okA := s.nodes[w.NodeA]
	nb, okB := s.nodes[w.NodeB]
	if !okA || !okB {
		return Vec2{}, Vec2{}, false
	}
	return na.Pos, nb.Pos, true
}

// AddNode creates a node at the given world position and returns it.
func (s *Scene) AddNode(pos Vec2) Node {
	n := NewNode(pos)
	s.nodes[n.ID] = n
	return n
}

// SetNode inserts or replaces a node.
func (s *Scene) SetNode(n Node) {
	s.nodes[n.ID] = n
}

// AddWall inserts a wall. A wall whose endpoint ids are equal is rejected;
// endpoints referencing nodes the scene does not (yet) hold are tolerated,
// and such a wall stays invisible until repaired.
func (s *Scene) AddWall(w Wall) error {
	if w.NodeA == w.NodeB {
		return fmt.Errorf("wall %s: endpoints must reference distinct nodes", w.ID)
	}
	s.walls[w.ID] = w
	return nil
}

// NewWallBetween creates both endpoint nodes and a wall spanning them.
func (s *Scene) NewWallBetween(a, b Vec2, thicknessMm, heightMm, raiseMm float64) (Wall, error) {
	na := s.AddNode(a)
	nb := s.AddNode(b)
	w := NewWall(na.ID, nb.ID, thicknessMm, heightMm, raiseMm)
	if err := s.AddWall(w); err != nil {
		return Wall{}, err
	}
	return w, nil
}

// AddFixture inserts a fixture.
func (s *Scene) AddFixture(f Fixture) {
	s.fixtures[f.ID] = f
}

// AddSchema registers a fixture schema.
func (s *Scene) AddSchema(sc FixtureSchema) {
	s.schemas[sc.ID] = sc
}

// RemoveWall deletes a wall. Its endpoint nodes stay behind, possibly as
// orphans, until PruneOrphanNodes runs.
func (s *Scene) RemoveWall(id WallID) {
	delete(s.walls, id)
}

// RemoveFixture deletes a fixture.
func (s *Scene) RemoveFixture(id FixtureID) {
	delete(s.fixtures, id)
}

// RemoveNode deletes a node if no wall references it. It reports whether
// the node was removed.
func (s *Scene) RemoveNode(id NodeID) bool {
	for _, w := range s.walls {
		if w.NodeA == id || w.NodeB == id {
			return false
		}
	}
	if _, ok := s.nodes[id]; !ok {
		return false
	}
	delete(s.nodes, id)
	return true
}

// PruneOrphanNodes removes every node no wall references and returns how
// many were removed. Cleanup is always this explicit pass; nothing removes
// orphans implicitly.
func (s *Scene) PruneOrphanNodes() int {
	referenced := make(map[NodeID]bool, len(s.nodes))
	for _, w := range s.walls {
		referenced[w.NodeA] = true
		referenced[w.NodeB] = true
	}
	removed := 0
	for id := range s.nodes {
		if !referenced[id] {
			delete(s.nodes, id)
			removed++
		}
	}
	return removed
}

// Clone returns a deep copy of the scene. The select tool snapshots the
// scene this way at gesture start; callers can use it for undo.
func (s *Scene) Clone() *Scene {
	c := NewScene()
	for id, n := range s.nodes {
		c.nodes[id] = n
	}
	for id, w := range s.walls {
		c.walls[id] = w
	}
	for id, f := range s.fixtures {
		c.fixtures[id] = f
	}
	for id, sc := range s.schemas {
		c.schemas[id] = sc
	}
	return c
}

// Bounds returns the world-space bounding rectangle of everything visible:
// wall outline polygons, fixture footprints, and bare nodes. ok is false
// for an empty scene.
func (s *Scene) Bounds() (Rect, bool) {
	var minX, minY, maxX, maxY float64
	any := false
	grow := func(p Vec2) {
		if !any {
			minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
			any = true
			return
		}
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	for _, n := range s.nodes {
		grow(n.Pos)
	}
	for _, w := range s.walls {
		for _, p := range WallPolygon(s, w) {
			grow(p)
		}
	}
	for _, f := range s.fixtures {
		for _, p := range FixtureFootprint(s, f) {
			grow(p)
		}
	}
	if !any {
		return Rect{}, false
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// Apply performs the mutations described by a commit: the fixture move and
// node moves first, then node merges. Merging rewrites every wall that
// references the superseded node to the surviving node, deletes the
// superseded node, and drops any wall whose endpoints collapse onto the
// same node. Commit entries referencing elements that no longer exist are
// skipped.
func (s *Scene) Apply(c Commit) {
	if c.Fixture != nil {
		if f, ok := s.fixtures[c.Fixture.Fixture]; ok {
			f.Pos = c.Fixture.To
			s.fixtures[f.ID] = f
		}
	}
	for _, m := range c.Moves {
		if n, ok := s.nodes[m.Node]; ok {
			n.Pos = m.To
			s.nodes[m.Node] = n
		}
	}
	for from := range c.Merges {
		to := resolveMergeTarget(c.Merges, from)
		if from == to {
			continue
		}
		if _, ok := s.nodes[to]; !ok {
			continue
		}
		for id, w := range s.walls {
			changed := false
			if w.NodeA == from {
				w.NodeA = to
				changed = true
			}
			if w.NodeB == from {
				w.NodeB = to
				changed = true
			}
			if !changed {
				continue
			}
			if w.NodeA == w.NodeB {
				// The wall collapsed to a point; a self-loop violates the
				// wall invariant, so it goes away with the merge.
				delete(s.walls, id)
				continue
			}
			s.walls[id] = w
		}
		delete(s.nodes, from)
	}
}

// resolveMergeTarget follows merge chains (a merged into b, b merged into c)
// to the surviving node, guarding against accidental cycles.
func resolveMergeTarget(merges map[NodeID]NodeID, from NodeID) NodeID {
	to := merges[from]
	for i := 0; i < len(merges); i++ {
		next, ok := merges[to]
		if !ok || next == to {
			break
		}
		to = next
	}
	return to
}
