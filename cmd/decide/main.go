package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

// #region main

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// errDiverged is returned by replay when a case does not match.
var errDiverged = errors.New("replay diverged")

// usageError marks a bad invocation.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI with args and maps the outcome to an exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errDiverged):
		return exitError
	}
	fmt.Fprintf(root.ErrOrStderr(), "error: %v\n", err)
	var ue usageError
	if errors.As(err, &ue) || strings.HasPrefix(err.Error(), "unknown command") {
		return exitUsage
	}
	return exitError
}

// #endregion main

// #region root
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "decide",
		Short: "Launch interceptor decision engine",
		Long: `decide evaluates radar-track points against the fifteen launch interceptor
conditions and the connector matrix, and answers YES (launch) or NO.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
	root.AddCommand(
		newEvaluateCmd(),
		newReplayCmd(),
		newServeCmd(),
		newHistoryCmd(),
		newExportCmd(),
	)
	return root
}

// noArgs rejects positional arguments as a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return usageError{err}
	}
	return nil
}

// #endregion root
