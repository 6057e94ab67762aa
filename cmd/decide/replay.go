package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/decide-lab/launch-interceptor/internal/replay"
)

// #region replay
func newReplayCmd() *cobra.Command {
	var fixtures []string
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay fixture cases and compare against recorded answers",
		Long: `replay evaluates every case of each fixture and prints an
Expected/Replayed/Match table. It exits 1 when any case diverges.`,
		Example: `  decide replay --fixture internal/replay/testdata/scenarios.json`,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(fixtures) == 0 {
				return usagef("replay: --fixture is required")
			}
			out := cmd.OutOrStdout()
			diverged := 0
			for i, path := range fixtures {
				f, err := replay.LoadFixture(path)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				if f.Description != "" {
					fmt.Fprintf(out, "%s\n%s\n\n", path, f.Description)
				}
				s, err := replay.WriteComparison(out, replay.Replay(f))
				if err != nil {
					return err
				}
				diverged += s.Diverge
			}
			if diverged > 0 {
				return fmt.Errorf("%w: %d case(s)", errDiverged, diverged)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&fixtures, "fixture", "f", nil, "fixture JSON file (repeatable)")
	return cmd
}

// #endregion replay
