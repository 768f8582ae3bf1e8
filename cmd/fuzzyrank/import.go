package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/storage"
)

//nolint:gochecknoglobals // Cobra boilerplate
var importSQLitePath string

//nolint:gochecknoglobals // Cobra boilerplate
var importCmd = &cobra.Command{
	Use:   "import <items.json>",
	Short: "Load a JSON items file into the SQLite catalog",
	Long: `Reads a JSON array of items and inserts them into the SQLite catalog.
Items whose id already exists are left untouched, so importing twice is safe.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importSQLitePath, "sqlite-path", "", "database path (default from config)")
}

func runImport(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	path := importSQLitePath
	if path == "" {
		path = cfg.Source.SQLitePath
	}

	items, err := storage.LoadItemsFromFile(args[0])
	if err != nil {
		return err
	}

	var s *storage.SQLiteStore
	s, err = storage.OpenSQLite(path)
	if err != nil {
		err = fmt.Errorf("failed to open %s: %w", path, err)
		return err
	}
	defer s.Close()

	if err = s.EnsureSchema(); err != nil {
		err = fmt.Errorf("failed to create schema: %w", err)
		return err
	}

	var inserted int
	inserted, err = s.UpsertMany(ctx, items)
	if err != nil {
		err = fmt.Errorf("failed to import items: %w", err)
		return err
	}

	pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("imported %d of %d items into %s", inserted, len(items), path)
	return err
}
