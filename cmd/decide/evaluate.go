package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/decide-lab/launch-interceptor/internal/audit"
	"github.com/decide-lab/launch-interceptor/internal/decide"
	"github.com/decide-lab/launch-interceptor/internal/input"
	"github.com/decide-lab/launch-interceptor/internal/rpc"
)

// #region evaluate
type evaluateOptions struct {
	inputPath string
	demo      bool
	verbose   bool
	jsonOut   bool
	remote    string
	dbPath    string
}

func newEvaluateCmd() *cobra.Command {
	var opts evaluateOptions
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Decide one input document and print YES or NO",
		Example: `  decide evaluate --demo
  decide evaluate --input track.yaml --verbose
  decide evaluate --input track.json --remote localhost:50061`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvaluate(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.inputPath, "input", "i", "", "input document (.json, .yaml or .yml)")
	f.BoolVar(&opts.demo, "demo", false, "evaluate the built-in demonstration input")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "print CMV, PUM and FUV before the answer")
	f.BoolVar(&opts.jsonOut, "json", false, "print the result document as JSON")
	f.StringVar(&opts.remote, "remote", "", "evaluate on a DecideService at this address")
	f.StringVar(&opts.dbPath, "db", "", "record the decision in this SQLite decision log")
	return cmd
}

func runEvaluate(ctx context.Context, stdout, stderr io.Writer, opts evaluateOptions) error {
	if opts.demo == (opts.inputPath != "") {
		return usagef("evaluate: exactly one of --input or --demo is required")
	}

	in := decide.DemoInput()
	if opts.inputPath != "" {
		var err error
		if in, err = input.Load(opts.inputPath); err != nil {
			return err
		}
	}

	var (
		res   decide.Result
		runID string
	)
	if opts.remote != "" {
		client, err := rpc.NewClient(opts.remote)
		if err != nil {
			return err
		}
		defer client.Close()
		callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		reply, err := client.Evaluate(callCtx, in)
		if err != nil {
			return err
		}
		res, runID = reply.Result, reply.RunID
	} else {
		var err error
		if res, err = decide.EvaluateContext(ctx, in); err != nil {
			return fmt.Errorf("evaluate: %w", err)
		}
	}

	if opts.dbPath != "" {
		id, err := recordDecision(ctx, opts.dbPath, in, res)
		if err != nil {
			return err
		}
		runID = id
	}
	if runID != "" {
		fmt.Fprintf(stderr, "run %s\n", runID)
	}

	switch {
	case opts.jsonOut:
		out, err := json.MarshalIndent(input.FromResult(res), "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		_, err = fmt.Fprintln(stdout, string(out))
		return err
	case opts.verbose:
		return decide.WriteReport(stdout, res)
	default:
		_, err := fmt.Fprintln(stdout, res.Answer())
		return err
	}
}

func recordDecision(ctx context.Context, dbPath string, in decide.Input, res decide.Result) (string, error) {
	store, err := audit.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("open decision log: %w", err)
	}
	defer store.Close()

	entry, err := audit.NewEntry(audit.SourceCLI, in, res)
	if err != nil {
		return "", err
	}
	stored, err := store.Record(ctx, entry)
	if err != nil {
		return "", err
	}
	return stored.RunID, nil
}

// #endregion evaluate
