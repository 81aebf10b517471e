package main

import (
	"context"
	"fmt"
	"os"

	"github.com/framehaus/joist/store"
	"github.com/spf13/cobra"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "joist",
	Short: "A CLI tool for managing and inspecting floor-plan projects",
	Long: `joist manages floor-plan projects stored in a local SQLite database.
It can create, list, rename and delete projects, report plan geometry
and statistics, prune orphaned nodes, and export plans as PNG images.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "joist.db", "path to the project database")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openStore opens the database behind --db and ensures the schema exists.
// Every subcommand needs a working store, so failures are fatal.
func openStore(ctx context.Context) *store.Store {
	st, err := store.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	if err := st.Init(ctx); err != nil {
		st.Close()
		fmt.Fprintf(os.Stderr, "Error initializing database: %v\n", err)
		os.Exit(1)
	}
	return st
}
