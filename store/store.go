// Package store persists floor-plan projects in a local SQLite database.
//
// Each project owns its own nodes, walls, fixtures, and fixture schemas.
// Saving a scene replaces the project's previous contents wholesale inside
// one transaction, so a project row always references a consistent plan.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/framehaus/joist"
)

// ErrProjectNotFound is returned when a project id or name resolves to
// nothing.
var ErrProjectNotFound = errors.New("project not found")

// Project is a stored floor plan's metadata row.
type Project struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store wraps a SQLite database holding projects and their scenes.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at the given path.
// The caller must have imported a database/sql driver registered under
// "sqlite3", typically github.com/ncruces/go-sqlite3/driver with its embed
// sibling.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return &Store{db: db}, nil
}

// New wraps an already opened database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS projects (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS nodes (
    id         TEXT NOT NULL,
    project_id TEXT NOT NULL,
    x          REAL NOT NULL,
    y          REAL NOT NULL,
    PRIMARY KEY (project_id, id)
);
CREATE TABLE IF NOT EXISTS walls (
    id           TEXT NOT NULL,
    project_id   TEXT NOT NULL,
    node_a       TEXT NOT NULL,
    node_b       TEXT NOT NULL,
    thickness_mm REAL NOT NULL,
    height_mm    REAL NOT NULL,
    raise_mm     REAL NOT NULL,
    PRIMARY KEY (project_id, id)
);
CREATE TABLE IF NOT EXISTS fixtures (
    id           TEXT NOT NULL,
    project_id   TEXT NOT NULL,
    schema_id    TEXT NOT NULL,
    x            REAL NOT NULL,
    y            REAL NOT NULL,
    rotation_deg REAL NOT NULL,
    PRIMARY KEY (project_id, id)
);
CREATE TABLE IF NOT EXISTS fixture_schemas (
    id          TEXT NOT NULL,
    project_id  TEXT NOT NULL,
    kind        INTEGER NOT NULL,
    name        TEXT NOT NULL,
    footprint_w REAL NOT NULL,
    footprint_h REAL NOT NULL,
    PRIMARY KEY (project_id, id)
);
`

// Init creates the schema if it does not exist yet. Safe to call on every
// open.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// CreateProject inserts a new empty project and returns its metadata.
func (s *Store) CreateProject(ctx context.Context, name string) (Project, error) {
	now := time.Now().UTC().Truncate(time.Second)
	p := Project{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO projects (id, name, created_at, updated_at)
        VALUES (?, ?, ?, ?)
    `, p.ID, p.Name, p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return Project{}, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

// GetProject returns the project with the given id.
func (s *Store) GetProject(ctx context.Context, id string) (Project, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, name, created_at, updated_at
        FROM projects
        WHERE id = ?
    `, id)
	return scanProject(row)
}

// FindProject resolves a project reference: first as an id, then as a name.
// Name lookups prefer the oldest match when several projects share a name.
func (s *Store) FindProject(ctx context.Context, ref string) (Project, error) {
	p, err := s.GetProject(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrProjectNotFound) {
		return Project{}, err
	}
	row := s.db.QueryRowContext(ctx, `
        SELECT id, name, created_at, updated_at
        FROM projects
        WHERE name = ?
        ORDER BY created_at
        LIMIT 1
    `, ref)
	return scanProject(row)
}

// ListProjects returns every project, ordered by name.
func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, name, created_at, updated_at
        FROM projects
        ORDER BY name, created_at
    `)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var p Project
		var created, updated string
		if err := rows.Scan(&p.ID, &p.Name, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		if p.CreatedAt, p.UpdatedAt, err = parseTimes(created, updated); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

// RenameProject changes a project's display name.
func (s *Store) RenameProject(ctx context.Context, id, name string) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE projects SET name = ?, updated_at = ? WHERE id = ?
    `, name, time.Now().UTC().Truncate(time.Second).Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("rename project: %w", err)
	}
	return checkFound(res)
}

// DeleteProject removes a project and everything it owns.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"nodes", "walls", "fixtures", "fixture_schemas"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE project_id = ?`, id); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if err := checkFound(res); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveScene replaces the project's stored plan with the given scene and
// bumps its updated_at stamp. The write is transactional: a failed save
// leaves the previous plan intact.
func (s *Store) SaveScene(ctx context.Context, projectID string, sc *joist.Scene) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save scene: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
        UPDATE projects SET updated_at = ? WHERE id = ?
    `, time.Now().UTC().Truncate(time.Second).Format(time.RFC3339), projectID)
	if err != nil {
		return fmt.Errorf("save scene: %w", err)
	}
	if err := checkFound(res); err != nil {
		return err
	}

	for _, table := range []string{"nodes", "walls", "fixtures", "fixture_schemas"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE project_id = ?`, projectID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, id := range sc.NodeIDs() {
		n, _ := sc.Node(id)
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO nodes (id, project_id, x, y) VALUES (?, ?, ?, ?)
        `, string(n.ID), projectID, n.Pos.X, n.Pos.Y); err != nil {
			return fmt.Errorf("save node %s: %w", n.ID, err)
		}
	}
	for _, id := range sc.WallIDs() {
		w, _ := sc.Wall(id)
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO walls (id, project_id, node_a, node_b, thickness_mm, height_mm, raise_mm)
            VALUES (?, ?, ?, ?, ?, ?, ?)
        `, string(w.ID), projectID, string(w.NodeA), string(w.NodeB),
			w.ThicknessMm, w.HeightMm, w.RaiseMm); err != nil {
			return fmt.Errorf("save wall %s: %w", w.ID, err)
		}
	}
	for _, id := range sc.FixtureIDs() {
		f, _ := sc.Fixture(id)
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO fixtures (id, project_id, schema_id, x, y, rotation_deg)
            VALUES (?, ?, ?, ?, ?, ?)
        `, string(f.ID), projectID, f.SchemaID, f.Pos.X, f.Pos.Y, f.RotationDeg); err != nil {
			return fmt.Errorf("save fixture %s: %w", f.ID, err)
		}
	}
	for _, id := range sc.SchemaIDs() {
		fs, _ := sc.Schema(id)
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO fixture_schemas (id, project_id, kind, name, footprint_w, footprint_h)
            VALUES (?, ?, ?, ?, ?, ?)
        `, fs.ID, projectID, int(fs.Kind), fs.Name, fs.FootprintMm.X, fs.FootprintMm.Y); err != nil {
			return fmt.Errorf("save schema %s: %w", fs.ID, err)
		}
	}

	return tx.Commit()
}

// LoadScene rebuilds the project's scene from its stored rows.
func (s *Store) LoadScene(ctx context.Context, projectID string) (*joist.Scene, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	sc := joist.NewScene()
	if err := s.loadNodes(ctx, projectID, sc); err != nil {
		return nil, err
	}
	if err := s.loadWalls(ctx, projectID, sc); err != nil {
		return nil, err
	}
	if err := s.loadSchemas(ctx, projectID, sc); err != nil {
		return nil, err
	}
	if err := s.loadFixtures(ctx, projectID, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *Store) loadNodes(ctx context.Context, projectID string, sc *joist.Scene) error {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, x, y FROM nodes WHERE project_id = ?
    `, projectID)
	if err != nil {
		return fmt.Errorf("load nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var x, y float64
		if err := rows.Scan(&id, &x, &y); err != nil {
			return fmt.Errorf("scan node: %w", err)
		}
		sc.SetNode(joist.Node{ID: joist.NodeID(id), Pos: joist.V(x, y)})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load nodes: %w", err)
	}
	return nil
}

func (s *Store) loadWalls(ctx context.Context, projectID string, sc *joist.Scene) error {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, node_a, node_b, thickness_mm, height_mm, raise_mm
        FROM walls WHERE project_id = ?
    `, projectID)
	if err != nil {
		return fmt.Errorf("load walls: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, nodeA, nodeB string
		var thickness, height, raise float64
		if err := rows.Scan(&id, &nodeA, &nodeB, &thickness, &height, &raise); err != nil {
			return fmt.Errorf("scan wall: %w", err)
		}
		w := joist.Wall{
			ID:          joist.WallID(id),
			NodeA:       joist.NodeID(nodeA),
			NodeB:       joist.NodeID(nodeB),
			ThicknessMm: thickness,
			HeightMm:    height,
			RaiseMm:     raise,
		}
		if err := sc.AddWall(w); err != nil {
			return fmt.Errorf("load wall %s: %w", id, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load walls: %w", err)
	}
	return nil
}

func (s *Store) loadSchemas(ctx context.Context, projectID string, sc *joist.Scene) error {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, kind, name, footprint_w, footprint_h
        FROM fixture_schemas WHERE project_id = ?
    `, projectID)
	if err != nil {
		return fmt.Errorf("load schemas: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		var kind int
		var w, h float64
		if err := rows.Scan(&id, &kind, &name, &w, &h); err != nil {
			return fmt.Errorf("scan schema: %w", err)
		}
		sc.AddSchema(joist.FixtureSchema{
			ID:          id,
			Kind:        joist.FixtureKind(kind),
			Name:        name,
			FootprintMm: joist.V(w, h),
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load schemas: %w", err)
	}
	return nil
}

func (s *Store) loadFixtures(ctx context.Context, projectID string, sc *joist.Scene) error {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, schema_id, x, y, rotation_deg
        FROM fixtures WHERE project_id = ?
    `, projectID)
	if err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, schemaID string
		var x, y, rotation float64
		if err := rows.Scan(&id, &schemaID, &x, &y, &rotation); err != nil {
			return fmt.Errorf("scan fixture: %w", err)
		}
		sc.AddFixture(joist.Fixture{
			ID:          joist.FixtureID(id),
			Pos:         joist.V(x, y),
			SchemaID:    schemaID,
			RotationDeg: rotation,
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}
	return nil
}

func scanProject(row *sql.Row) (Project, error) {
	var p Project
	var created, updated string
	if err := row.Scan(&p.ID, &p.Name, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, ErrProjectNotFound
		}
		return Project{}, err
	}
	var err error
	if p.CreatedAt, p.UpdatedAt, err = parseTimes(created, updated); err != nil {
		return Project{}, err
	}
	return p, nil
}

func parseTimes(created, updated string) (time.Time, time.Time, error) {
	c, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse created_at: %w", err)
	}
	u, err := time.Parse(time.RFC3339, updated)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return c, u, nil
}

func checkFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProjectNotFound
	}
	return nil
}
