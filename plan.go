package joist

import "github.com/google/uuid"

// Identifiers are opaque strings, stable across sessions and safe to persist.
// They are generated with UUIDs so that scenes merged from different sources
// never collide.
type (
	// NodeID identifies a shared wall endpoint.
	NodeID string
	// WallID identifies a wall.
	WallID string
	// FixtureID identifies a placed fixture.
	FixtureID string
)

// minWallDimensionMm is the smallest thickness or height a wall may carry.
// Degenerate input values are clamped to it at the construction boundary so
// the geometry core never sees a zero or negative extent.
const minWallDimensionMm = 0.1

// Node is a shared 2D endpoint in millimeter world coordinates. Nodes are
// owned by the scene and referenced by zero or more walls; a node referenced
// by no wall is an orphan and is removed by Scene.PruneOrphanNodes.
type Node struct {
	ID  NodeID
	Pos Vec2
}

// NewNode creates a node at the given world position with a fresh identifier.
func NewNode(pos Vec2) Node {
	return Node{ID: NodeID(uuid.NewString()), Pos: pos}
}

// Wall is a thick line segment between two nodes. Walls never own their
// nodes; they hold identifiers and are invalid (not rendered, not
// hit-testable) while either referenced node is missing from the scene.
type Wall struct {
	ID    WallID
	NodeA NodeID
	NodeB NodeID

	ThicknessMm float64
	HeightMm    float64
	RaiseMm     float64 // raise from floor, >= 0
}

// NewWall creates a wall between two existing nodes. Thickness and height
// below the minimum are clamped to 0.1 mm and a negative raise is clamped to
// zero; this is the only place degenerate dimensions are normalized.
func NewWall(a, b NodeID, thicknessMm, heightMm, raiseMm float64) Wall {
	if thicknessMm < minWallDimensionMm {
		thicknessMm = minWallDimensionMm
	}
	if heightMm < minWallDimensionMm {
		heightMm = minWallDimensionMm
	}
	if raiseMm < 0 {
		raiseMm = 0
	}
	return Wall{
		ID:          WallID(uuid.NewString()),
		NodeA:       a,
		NodeB:       b,
		ThicknessMm: thicknessMm,
		HeightMm:    heightMm,
		RaiseMm:     raiseMm,
	}
}

// FixtureKind is the coarse category of a fixture schema.
type FixtureKind uint8

const (
	FixtureDoor      FixtureKind = iota // opening with a swing
	FixtureWindow                       // opening without a swing
	FixtureFurniture                    // free-standing furniture
	FixtureAppliance                    // kitchen/utility appliance
)

// String returns the lower-case kind name.
func (k FixtureKind) String() string {
	switch k {
	case FixtureDoor:
		return "door"
	case FixtureWindow:
		return "window"
	case FixtureFurniture:
		return "furniture"
	case FixtureAppliance:
		return "appliance"
	default:
		return "unknown"
	}
}

// FixtureSchema describes a category of placeable fixture: its kind, display
// name, and footprint. Schema content (the catalog) is supplied by the
// caller; the scene only stores schemas it was given.
type FixtureSchema struct {
	ID          string
	Kind        FixtureKind
	Name        string
	FootprintMm Vec2 // width (X) and depth (Y) of the footprint
}

// Fixture is a placed instance of a schema: a point-like draggable entity
// with a position and rotation. Its footprint geometry comes from the schema.
type Fixture struct {
	ID          FixtureID
	Pos         Vec2
	SchemaID    string
	RotationDeg float64
}

// NewFixture places a fixture of the given schema at a world position.
func NewFixture(schemaID string, pos Vec2) Fixture {
	return Fixture{ID: FixtureID(uuid.NewString()), Pos: pos, SchemaID: schemaID}
}
