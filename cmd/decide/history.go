package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/decide-lab/launch-interceptor/internal/audit"
	"github.com/decide-lab/launch-interceptor/internal/config"
)

// #region history
type historyOptions struct {
	dbPath  string
	last    int
	runID   string
	jsonOut bool
}

func newHistoryCmd() *cobra.Command {
	var opts historyOptions
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the decision log",
		Example: `  decide history --db decide_audit.db --last 5
  decide history --run 3f2c... --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("db") {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				opts.dbPath = cfg.DBPath
			}
			if opts.dbPath == "" {
				return usagef("history: no decision log (set --db or DECIDE_DB)")
			}

			store, err := audit.Open(opts.dbPath)
			if err != nil {
				return fmt.Errorf("open decision log: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if opts.runID != "" {
				e, err := store.Get(cmd.Context(), opts.runID)
				if err != nil {
					return err
				}
				if opts.jsonOut {
					return printJSON(out, toHistoryRow(e, true))
				}
				return printDetail(out, e)
			}

			entries, err := store.List(cmd.Context(), opts.last)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "no decisions logged")
				return nil
			}
			if opts.jsonOut {
				rows := make([]historyRow, len(entries))
				for i, e := range entries {
					rows[i] = toHistoryRow(e, false)
				}
				return printJSON(out, rows)
			}
			return printHistoryTable(out, entries)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.dbPath, "db", "", "SQLite decision log (default DECIDE_DB)")
	f.IntVar(&opts.last, "last", 20, "show N most recent decisions")
	f.StringVar(&opts.runID, "run", "", "show a single decision with its input")
	f.BoolVar(&opts.jsonOut, "json", false, "output as JSON instead of table")
	return cmd
}

// #endregion history

// #region output
type historyRow struct {
	RunID     string          `json:"run_id"`
	Source    string          `json:"source"`
	NumPoints int             `json:"numpoints"`
	CMV       string          `json:"cmv"`
	FUV       string          `json:"fuv"`
	Answer    string          `json:"answer"`
	CreatedAt string          `json:"created_at"`
	Input     json.RawMessage `json:"input,omitempty"`
}

func toHistoryRow(e audit.Entry, withInput bool) historyRow {
	row := historyRow{
		RunID:     e.RunID,
		Source:    e.Source,
		NumPoints: e.NumPoints,
		CMV:       e.CMV,
		FUV:       e.FUV,
		Answer:    e.Answer(),
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
	if withInput {
		row.Input = json.RawMessage(e.InputJSON)
	}
	return row
}

func printHistoryTable(w io.Writer, entries []audit.Entry) error {
	fmt.Fprintf(w, "%-8s  %-20s  %-6s  %4s  %-15s  %-15s  %s\n",
		"Run", "Time", "Source", "N", "CMV", "FUV", "Answer")
	fmt.Fprintf(w, "%-8s+-%-20s+-%-6s+-%4s+-%-15s+-%-15s+-%s\n",
		"--------", "--------------------", "------", "----", "---------------", "---------------", "------")
	for _, e := range entries {
		_, err := fmt.Fprintf(w, "%-8s  %-20s  %-6s  %4d  %-15s  %-15s  %s\n",
			shortID(e.RunID), e.CreatedAt.Format("2006-01-02T15:04:05Z"), e.Source, e.NumPoints, e.CMV, e.FUV, e.Answer())
		if err != nil {
			return err
		}
	}
	return nil
}

func printDetail(w io.Writer, e audit.Entry) error {
	fmt.Fprintf(w, "Run:     %s\n", e.RunID)
	fmt.Fprintf(w, "Time:    %s\n", e.CreatedAt.Format(time.RFC3339Nano))
	fmt.Fprintf(w, "Source:  %s\n", e.Source)
	fmt.Fprintf(w, "Points:  %d\n", e.NumPoints)
	fmt.Fprintf(w, "CMV:     %s\n", e.CMV)
	fmt.Fprintf(w, "FUV:     %s\n", e.FUV)
	fmt.Fprintf(w, "Answer:  %s\n\n", e.Answer())
	_, err := fmt.Fprintln(w, e.InputJSON)
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
