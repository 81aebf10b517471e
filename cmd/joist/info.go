package main

import (
	"context"
	"fmt"
	"os"

	"github.com/framehaus/joist"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [project]",
	Short: "Display information about a project's floor plan",
	Long: `Show plan statistics including element counts, wall lengths, the
bounding box, and fixtures. The project may be referenced by id or by name.`,
	Args: cobra.ExactArgs(1),
	Run:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	st := openStore(ctx)
	defer st.Close()

	p, err := st.FindProject(ctx, args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding project: %v\n", err)
		os.Exit(1)
	}
	sc, err := st.LoadScene(ctx, p.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading plan: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Project Information")
	fmt.Println("===================")
	fmt.Printf("Name: %s\n", p.Name)
	fmt.Printf("Id: %s\n", p.ID)
	fmt.Printf("Created: %s\n", p.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("Updated: %s\n\n", p.UpdatedAt.Format("2006-01-02 15:04"))

	orphans := 0
	for _, id := range sc.NodeIDs() {
		if len(sc.WallsAtNode(id)) == 0 {
			orphans++
		}
	}

	fmt.Println("Plan Statistics:")
	fmt.Printf("  Nodes: %d (%d orphaned)\n", sc.NodeCount(), orphans)
	fmt.Printf("  Walls: %d\n", sc.WallCount())
	fmt.Printf("  Fixtures: %d\n\n", sc.FixtureCount())

	if sc.WallCount() > 0 {
		minLen, maxLen, total := wallLengthStats(sc)
		fmt.Println("Wall Centerline Lengths:")
		fmt.Printf("  Minimum: %.1f mm\n", minLen)
		fmt.Printf("  Maximum: %.1f mm\n", maxLen)
		fmt.Printf("  Average: %.1f mm\n", total/float64(sc.WallCount()))
		fmt.Printf("  Total: %.1f mm\n\n", total)
	}

	if bounds, ok := sc.Bounds(); ok {
		fmt.Println("Bounding Box:")
		fmt.Printf("  Min: (%.1f, %.1f) mm\n", bounds.X, bounds.Y)
		fmt.Printf("  Max: (%.1f, %.1f) mm\n", bounds.X+bounds.Width, bounds.Y+bounds.Height)
		fmt.Printf("  Size: %.1f x %.1f mm\n", bounds.Width, bounds.Height)
	}

	if sc.FixtureCount() > 0 {
		fmt.Println("\nFixtures:")
		for _, id := range sc.FixtureIDs() {
			f, _ := sc.Fixture(id)
			name, kind := f.SchemaID, "unknown"
			if schema, ok := sc.Schema(f.SchemaID); ok {
				name, kind = schema.Name, schema.Kind.String()
			}
			fmt.Printf("  %s (%s) at (%.0f, %.0f) mm\n", name, kind, f.Pos.X, f.Pos.Y)
		}
	}
}

// wallLengthStats sums centerline lengths over every wall with a valid
// segment. Walls referencing missing nodes contribute zero.
func wallLengthStats(sc *joist.Scene) (minLen, maxLen, total float64) {
	first := true
	for _, id := range sc.WallIDs() {
		w, _ := sc.Wall(id)
		a, b, ok := sc.WallSegment(w)
		if !ok {
			continue
		}
		l := a.Distance(b)
		total += l
		if first || l < minLen {
			minLen = l
		}
		if first || l > maxLen {
			maxLen = l
		}
		first = false
	}
	return minLen, maxLen, total
}
