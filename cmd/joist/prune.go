package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var pruneCmd = &cobra.Command{
	Use:   "prune [project]",
	Short: "Remove orphaned nodes from a project's plan",
	Long:  "Delete nodes that no wall references and save the cleaned plan back to the database.",
	Args:  cobra.ExactArgs(1),
	Run:   runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)
}

func runPrune(cmd *cobra.Command, args []string) {
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

	removed := sc.PruneOrphanNodes()
	if removed == 0 {
		fmt.Println("No orphaned nodes.")
		return
	}
	if err := st.SaveScene(ctx, p.ID, sc); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving plan: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Removed %d orphaned node(s) from %q\n", removed, p.Name)
}
