package joist

import (
	"math"
	"sort"

	"github.com/peterstace/simplefeatures/rtree"
)

// Tolerances governing interactive snapping, in world millimeters.
const (
	// RigidBodySnapToleranceMm is the largest per-endpoint correction a
	// rigid-body wall drag may apply. A candidate requiring a bigger offset
	// would visibly distort the dragged group and is rejected for rigid
	// moves even when it sits within general snap range.
	RigidBodySnapToleranceMm = 0.5

	// SamePositionToleranceMm is the distance under which two nodes count
	// as coincident and merge at commit time. Never evaluated mid-drag.
	SamePositionToleranceMm = 1.0
)

// SnapKind identifies the scene feature a snap candidate came from.
type SnapKind int

const (
	// SnapNode targets another node's exact position.
	SnapNode SnapKind = iota
	// SnapEdge targets the projection of the moving point onto another
	// wall's centerline.
	SnapEdge
)

func (k SnapKind) String() string {
	switch k {
	case SnapNode:
		return "node"
	case SnapEdge:
		return "edge"
	default:
		return "unknown"
	}
}

// SnapCandidate is a transient snap target produced during an interactive
// move. Node is set for SnapNode candidates, Wall for SnapEdge ones. Not
// persisted; recomputed every move event.
type SnapCandidate struct {
	Point    Vec2
	Kind     SnapKind
	Node     NodeID
	Wall     WallID
	Distance float64
}

// less orders candidates by ascending distance; ties prefer node targets
// over edge targets, then lower ids, keeping results deterministic.
func (c SnapCandidate) less(o SnapCandidate) bool {
	if c.Distance != o.Distance {
		return c.Distance < o.Distance
	}
	if c.Kind != o.Kind {
		return c.Kind < o.Kind
	}
	if c.Node != o.Node {
		return c.Node < o.Node
	}
	return c.Wall < o.Wall
}

// SnapOptions gates each candidate source by its own tolerance. A zero or
// negative tolerance disables that source.
type SnapOptions struct {
	NodeToleranceMm float64
	EdgeToleranceMm float64
}

// Excluded names the scene elements that must not produce snap targets,
// typically everything the current gesture is dragging. The zero value
// excludes nothing.
type Excluded struct {
	Nodes map[NodeID]bool
	Walls map[WallID]bool
}

func (e Excluded) node(id NodeID) bool { return e.Nodes != nil && e.Nodes[id] }
func (e Excluded) wall(id WallID) bool { return e.Walls != nil && e.Walls[id] }

// snapEntry is one indexed snap source. Node entries use a alone; edge
// entries hold the wall centerline segment a..b.
type snapEntry struct {
	kind SnapKind
	node NodeID
	wall WallID
	a, b Vec2
}

func (e snapEntry) box() rtree.Box {
	if e.kind == SnapNode {
		return rtree.Box{MinX: e.a.X, MinY: e.a.Y, MaxX: e.a.X, MaxY: e.a.Y}
	}
	return rtree.Box{
		MinX: math.Min(e.a.X, e.b.X),
		MinY: math.Min(e.a.Y, e.b.Y),
		MaxX: math.Max(e.a.X, e.b.X),
		MaxY: math.Max(e.a.Y, e.b.Y),
	}
}

// SnapIndex is a spatial index over the snappable features of a scene:
// node positions and wall centerlines, minus the excluded set. Built once
// per gesture; queried on every pointer move.
type SnapIndex struct {
	entries []snapEntry
	tree    *rtree.RTree
}

// NewSnapIndex indexes the scene's snap sources. Walls touching an excluded
// node are excluded from edge snapping as well, since their centerlines
// move with the drag.
func NewSnapIndex(s *Scene, excluded Excluded) *SnapIndex {
	var entries []snapEntry
	var items []rtree.BulkItem
	add := func(e snapEntry) {
		entries = append(entries, e)
		items = append(items, rtree.BulkItem{Box: e.box(), RecordID: len(entries) - 1})
	}

	for _, id := range s.NodeIDs() {
		if excluded.node(id) {
			continue
		}
		n, _ := s.Node(id)
		add(snapEntry{kind: SnapNode, node: id, a: n.Pos})
	}
	for _, id := range s.WallIDs() {
		if excluded.wall(id) {
			continue
		}
		w, _ := s.Wall(id)
		if excluded.node(w.NodeA) || excluded.node(w.NodeB) {
			continue
		}
		a, b, ok := s.WallSegment(w)
		if !ok {
			continue
		}
		add(snapEntry{kind: SnapEdge, wall: id, a: a, b: b})
	}

	return &SnapIndex{entries: entries, tree: rtree.BulkLoad(items)}
}

// candidate evaluates one entry against the moving point, returning ok
// only when the entry falls within its kind's tolerance.
func (e snapEntry) candidate(p Vec2, opts SnapOptions) (SnapCandidate, bool) {
	switch e.kind {
	case SnapNode:
		if opts.NodeToleranceMm <= 0 {
			return SnapCandidate{}, false
		}
		d := p.Distance(e.a)
		if d > opts.NodeToleranceMm {
			return SnapCandidate{}, false
		}
		return SnapCandidate{Point: e.a, Kind: SnapNode, Node: e.node, Distance: d}, true
	case SnapEdge:
		if opts.EdgeToleranceMm <= 0 {
			return SnapCandidate{}, false
		}
		q := ClosestPointOnSegment(p, e.a, e.b)
		d := p.Distance(q)
		if d > opts.EdgeToleranceMm {
			return SnapCandidate{}, false
		}
		return SnapCandidate{Point: q, Kind: SnapEdge, Wall: e.wall, Distance: d}, true
	}
	return SnapCandidate{}, false
}

// Find returns every candidate within tolerance of p, ordered by ascending
// distance (nearest first; ties prefer nodes over edges).
func (ix *SnapIndex) Find(p Vec2, opts SnapOptions) []SnapCandidate {
	r := math.Max(opts.NodeToleranceMm, opts.EdgeToleranceMm)
	if r <= 0 {
		return nil
	}
	search := rtree.Box{MinX: p.X - r, MinY: p.Y - r, MaxX: p.X + r, MaxY: p.Y + r}

	var out []SnapCandidate
	ix.tree.RangeSearch(search, func(recordID int) error {
		if c, ok := ix.entries[recordID].candidate(p, opts); ok {
			out = append(out, c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}

// Nearest returns the single best candidate for p, if any. It walks index
// entries in ascending box distance and stops as soon as no unvisited entry
// can beat the best found, so a move event touches only the neighborhood of
// the pointer rather than the whole scene.
func (ix *SnapIndex) Nearest(p Vec2, opts SnapOptions) (SnapCandidate, bool) {
	if math.Max(opts.NodeToleranceMm, opts.EdgeToleranceMm) <= 0 {
		return SnapCandidate{}, false
	}
	origin := rtree.Box{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}

	var best SnapCandidate
	found := false
	ix.tree.PrioritySearch(origin, func(recordID int) error {
		e := ix.entries[recordID]
		if found && boxDistance(e.box(), p) > best.Distance {
			return rtree.Stop
		}
		if c, ok := e.candidate(p, opts); ok {
			if !found || c.less(best) {
				best = c
				found = true
			}
		}
		return nil
	})
	return best, found
}

// boxDistance is the Euclidean distance from p to the nearest point of b,
// zero when p is inside b.
func boxDistance(b rtree.Box, p Vec2) float64 {
	dx := math.Max(math.Max(b.MinX-p.X, p.X-b.MaxX), 0)
	dy := math.Max(math.Max(b.MinY-p.Y, p.Y-b.MaxY), 0)
	return math.Hypot(dx, dy)
}

// FindSnapCandidates is the one-shot form of SnapIndex.Find for callers
// outside a gesture: it indexes the scene, queries once, and discards the
// index. Interactive code should build a SnapIndex per gesture instead.
func FindSnapCandidates(s *Scene, p Vec2, excluded Excluded, opts SnapOptions) []SnapCandidate {
	return NewSnapIndex(s, excluded).Find(p, opts)
}
