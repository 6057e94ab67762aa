package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/decide-lab/launch-interceptor/internal/config"
	"github.com/decide-lab/launch-interceptor/internal/decide"
	"github.com/decide-lab/launch-interceptor/internal/input"
	"github.com/decide-lab/launch-interceptor/internal/lcm"
	"github.com/decide-lab/launch-interceptor/internal/rpc"
)

// #region helpers
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// writeInput stores in as a document under a temp dir and returns its path.
func writeInput(t *testing.T, in decide.Input, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	data, err := input.Encode(in, input.FormatFor(name))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

// #endregion helpers

// #region evaluate-tests
func TestEvaluateDemoPrintsYES(t *testing.T) {
	code, out, _ := runCLI(t, "evaluate", "--demo")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if out != "YES\n" {
		t.Fatalf("expected YES, got %q", out)
	}
}

func TestEvaluateInputFile(t *testing.T) {
	in := decide.DemoInput()
	in.Points = in.Points[:5]
	in.LCM = lcm.Filled(lcm.Or)
	for i := range in.PUV {
		in.PUV[i] = true
	}

	for _, name := range []string{"hold.yaml", "hold.json"} {
		code, out, _ := runCLI(t, "evaluate", "--input", writeInput(t, in, name))
		if code != exitOK || out != "NO\n" {
			t.Fatalf("%s: expected NO with exit 0, got %q (exit %d)", name, out, code)
		}
	}
}

func TestEvaluateVerboseAndJSON(t *testing.T) {
	_, out, _ := runCLI(t, "evaluate", "--demo", "--verbose")
	for _, want := range []string{"CMV", "PUM", "FUV", "YES"} {
		if !strings.Contains(out, want) {
			t.Errorf("verbose output missing %q", want)
		}
	}

	_, out, _ = runCLI(t, "evaluate", "--demo", "--json")
	var doc input.ResultDocument
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	if doc.Answer != "YES" || len(doc.CMV) != 15 {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestEvaluateUsageErrors(t *testing.T) {
	for _, args := range [][]string{
		{"evaluate"},
		{"evaluate", "--demo", "--input", "x.json"},
		{"evaluate", "--bogus"},
		{"evaluate", "--demo", "extra"},
		{"nosuchcommand"},
	} {
		if code, _, _ := runCLI(t, args...); code != exitUsage {
			t.Errorf("%v: expected exit %d, got %d", args, exitUsage, code)
		}
	}
}

func TestEvaluateInvalidParameters(t *testing.T) {
	in := decide.DemoInput()
	in.Params.Quads = 4
	code, _, errOut := runCLI(t, "evaluate", "--input", writeInput(t, in, "bad.json"))
	if code != exitError {
		t.Fatalf("expected exit %d, got %d", exitError, code)
	}
	if !strings.Contains(errOut, "QUADS") {
		t.Fatalf("expected QUADS in error, got %q", errOut)
	}
}

// #endregion evaluate-tests

// #region history-tests
func TestEvaluateRecordsAndHistoryLists(t *testing.T) {
	db := filepath.Join(t.TempDir(), "audit.db")

	code, _, errOut := runCLI(t, "evaluate", "--demo", "--db", db)
	if code != exitOK {
		t.Fatalf("evaluate: exit %d: %s", code, errOut)
	}
	runID := strings.TrimSpace(strings.TrimPrefix(errOut, "run "))
	if runID == "" {
		t.Fatalf("expected run id on stderr, got %q", errOut)
	}

	code, out, _ := runCLI(t, "history", "--db", db)
	if code != exitOK || !strings.Contains(out, shortID(runID)) || !strings.Contains(out, "YES") {
		t.Fatalf("history list: exit %d\n%s", code, out)
	}

	code, out, _ = runCLI(t, "history", "--db", db, "--run", runID, "--json")
	if code != exitOK {
		t.Fatalf("history detail: exit %d", code)
	}
	var row historyRow
	if err := json.Unmarshal([]byte(out), &row); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	if row.RunID != runID || row.Source != "cli" || row.NumPoints != 100 || len(row.Input) == 0 {
		t.Fatalf("unexpected row %+v", row)
	}

	if code, _, _ := runCLI(t, "history", "--db", db, "--run", "missing"); code != exitError {
		t.Fatalf("expected exit %d for unknown run, got %d", exitError, code)
	}

	// The logged decision exports as a fixture that replays cleanly.
	fixture := filepath.Join(t.TempDir(), "exported.json")
	if code, out, _ := runCLI(t, "export", "--db", db, "--out", fixture); code != exitOK || !strings.Contains(out, "exported 1 case(s)") {
		t.Fatalf("export: exit %d, out %q", code, out)
	}
	if code, out, _ := runCLI(t, "replay", "--fixture", fixture); code != exitOK {
		t.Fatalf("replay of export: exit %d\n%s", code, out)
	}
}

func TestHistoryDisabledLog(t *testing.T) {
	t.Setenv("DECIDE_DB", "off")
	if code, _, _ := runCLI(t, "history"); code != exitUsage {
		t.Fatalf("expected usage exit, got %d", code)
	}
}

// #endregion history-tests

// #region replay-tests
func TestReplayFixture(t *testing.T) {
	fixture := filepath.Join("..", "..", "internal", "replay", "testdata", "scenarios.json")
	code, out, _ := runCLI(t, "replay", "--fixture", fixture)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d\n%s", code, out)
	}
	if !strings.Contains(out, "diverge") || strings.Contains(out, "DIFF") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestReplayDivergence(t *testing.T) {
	doc := input.FromInput(decide.DemoInput())
	f := map[string]any{
		"description": "demo recorded as NO",
		"cases": []any{map[string]any{
			"name":     "demo",
			"input":    doc,
			"expected": map[string]any{"launch": false},
		}},
	}
	data, _ := json.Marshal(f)
	path := filepath.Join(t.TempDir(), "diverge.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	code, out, _ := runCLI(t, "replay", "--fixture", path)
	if code != exitError {
		t.Fatalf("expected exit %d, got %d", exitError, code)
	}
	if !strings.Contains(out, "DIFF") {
		t.Fatalf("expected DIFF row:\n%s", out)
	}
	if code, _, _ := runCLI(t, "replay"); code != exitUsage {
		t.Fatalf("expected usage exit without --fixture, got %d", code)
	}
}

// #endregion replay-tests

// #region serve-tests
func TestServeAndRemoteEvaluate(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	cfg := config.Config{
		Addr:       lis.Addr().String(),
		DBPath:     filepath.Join(t.TempDir(), "audit.db"),
		BatchLimit: 2,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg, lis, zap.NewNop()) }()

	client, err := rpc.NewClient(cfg.Addr)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	if err := client.WaitForHealth(waitCtx); err != nil {
		t.Fatalf("WaitForHealth: %v", err)
	}
	client.Close()

	code, out, errOut := runCLI(t, "evaluate", "--demo", "--remote", cfg.Addr)
	if code != exitOK || out != "YES\n" {
		t.Fatalf("remote evaluate: exit %d, out %q", code, out)
	}
	if !strings.HasPrefix(errOut, "run ") {
		t.Fatalf("expected run id from the server's decision log, got %q", errOut)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}

// #endregion serve-tests
