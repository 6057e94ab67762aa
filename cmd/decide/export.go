package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/decide-lab/launch-interceptor/internal/audit"
	"github.com/decide-lab/launch-interceptor/internal/replay"
)

// #region export
func newExportCmd() *cobra.Command {
	var (
		dbPath  string
		last    int
		outPath string
	)
	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Export logged decisions as a replay fixture",
		Example: `  decide export --db decide_audit.db --last 10 --out fixture.json`,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dbPath == "" || outPath == "" {
				return usagef("export: --db and --out are required")
			}
			store, err := audit.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open decision log: %w", err)
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), last)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("export: no decisions logged in %s", dbPath)
			}
			f, err := replay.FromEntries(fmt.Sprintf("Last %d decisions from %s", len(entries), dbPath), entries)
			if err != nil {
				return err
			}
			if err := replay.WriteFixture(outPath, f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d case(s) to %s\n", len(f.Cases), outPath)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&dbPath, "db", "", "SQLite decision log")
	f.IntVar(&last, "last", 4, "number of most recent decisions to export")
	f.StringVar(&outPath, "out", "", "output fixture JSON path")
	return cmd
}

// #endregion export
