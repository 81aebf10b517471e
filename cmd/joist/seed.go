package main

import (
	"context"
	"fmt"
	"os"

	"github.com/framehaus/joist"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed [name]",
	Short: "Create a project populated with a sample floor plan",
	Long: `Create a new project containing a small two-room plan with a few
fixtures, handy for trying out the info, export and prune commands.`,
	Args: cobra.ExactArgs(1),
	Run:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	st := openStore(ctx)
	defer st.Close()

	sc, err := samplePlan()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building sample plan: %v\n", err)
		os.Exit(1)
	}
	p, err := st.CreateProject(ctx, args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating project: %v\n", err)
		os.Exit(1)
	}
	if err := st.SaveScene(ctx, p.ID, sc); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving plan: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created project %q with id %s\n", p.Name, p.ID)
	fmt.Printf("  %d nodes, %d walls, %d fixtures\n", sc.NodeCount(), sc.WallCount(), sc.FixtureCount())
}

// samplePlan builds a 6x4 m flat split into two rooms by a partition wall.
// Exterior walls are 240 mm thick, the partition 115 mm; all corners share
// nodes so the walls miter cleanly.
func samplePlan() (*joist.Scene, error) {
	sc := joist.NewScene()

	nw := sc.AddNode(joist.Vec2{X: 0, Y: 0})
	ne := sc.AddNode(joist.Vec2{X: 6000, Y: 0})
	se := sc.AddNode(joist.Vec2{X: 6000, Y: 4000})
	sw := sc.AddNode(joist.Vec2{X: 0, Y: 4000})
	pn := sc.AddNode(joist.Vec2{X: 3600, Y: 0})
	ps := sc.AddNode(joist.Vec2{X: 3600, Y: 4000})

	exterior := [][2]joist.NodeID{
		{nw.ID, pn.ID}, {pn.ID, ne.ID},
		{ne.ID, se.ID},
		{se.ID, ps.ID}, {ps.ID, sw.ID},
		{sw.ID, nw.ID},
	}
	for _, seg := range exterior {
		if err := sc.AddWall(joist.NewWall(seg[0], seg[1], 240, 2700, 0)); err != nil {
			return nil, err
		}
	}
	if err := sc.AddWall(joist.NewWall(pn.ID, ps.ID, 115, 2700, 0)); err != nil {
		return nil, err
	}

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
		ID:          "stove-60",
		Kind:        joist.FixtureAppliance,
		Name:        "Stove 60cm",
		FootprintMm: joist.Vec2{X: 600, Y: 600},
	})

	door := joist.NewFixture("door-interior", joist.Vec2{X: 3600, Y: 2800})
	door.RotationDeg = 90
	sc.AddFixture(door)
	sc.AddFixture(joist.NewFixture("table-dining", joist.Vec2{X: 1700, Y: 2000}))
	sc.AddFixture(joist.NewFixture("stove-60", joist.Vec2{X: 5500, Y: 600}))

	return sc, nil
}
