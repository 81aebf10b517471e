package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects in the database",
	Args:  cobra.NoArgs,
	Run:   runList,
}

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new empty project",
	Args:  cobra.ExactArgs(1),
	Run:   runCreate,
}

var renameCmd = &cobra.Command{
	Use:   "rename [project] [new-name]",
	Short: "Rename a project",
	Long:  "Rename a project. The project may be referenced by id or by name.",
	Args:  cobra.ExactArgs(2),
	Run:   runRename,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [project]",
	Short: "Delete a project and all of its geometry",
	Args:  cobra.ExactArgs(1),
	Run:   runDelete,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(deleteCmd)
}

func runList(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	st := openStore(ctx)
	defer st.Close()

	projects, err := st.ListProjects(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing projects: %v\n", err)
		os.Exit(1)
	}
	if len(projects) == 0 {
		fmt.Println("No projects.")
		return
	}

	fmt.Println("Projects")
	fmt.Println("========")
	for _, p := range projects {
		fmt.Printf("  %s  %s  (updated %s)\n", p.ID, p.Name, p.UpdatedAt.Format("2006-01-02 15:04"))
	}
}

func runCreate(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	st := openStore(ctx)
	defer st.Close()

	p, err := st.CreateProject(ctx, args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating project: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created project %q with id %s\n", p.Name, p.ID)
}

func runRename(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	st := openStore(ctx)
	defer st.Close()

	p, err := st.FindProject(ctx, args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding project: %v\n", err)
		os.Exit(1)
	}
	if err := st.RenameProject(ctx, p.ID, args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error renaming project: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Renamed %q to %q\n", p.Name, args[1])
}

func runDelete(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	st := openStore(ctx)
	defer st.Close()

	p, err := st.FindProject(ctx, args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding project: %v\n", err)
		os.Exit(1)
	}
	if err := st.DeleteProject(ctx, p.ID); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting project: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Deleted project %q\n", p.Name)
}
