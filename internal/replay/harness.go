package replay

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/decide-lab/launch-interceptor/internal/cmv"
	"github.com/decide-lab/launch-interceptor/internal/decide"
	"github.com/decide-lab/launch-interceptor/internal/params"
)

// #region types

// Replayed answers besides YES and NO.
const (
	AnswerInvalid = "INVALID" // rejected by parameter validation
	AnswerError   = "ERROR"   // the case's input document is malformed
)

// CaseResult captures the outcome of replaying one fixture case.
type CaseResult struct {
	Name     string
	Expected string // "YES" | "NO" | "INVALID"
	Replayed string // "YES" | "NO" | "INVALID" | "ERROR"
	Match    bool
	Reason   string

	// Result is the zero value unless the case evaluated.
	Result decide.Result
	Err    error
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	Total    int
	Matches  int
	Diverge  int
	Launches int
	Holds    int
	Invalid  int
}

// #endregion types

// #region replay

// Replay evaluates every case of f in order and compares it with the
// recorded expectation. Operates entirely in-memory.
func Replay(f *Fixture) []CaseResult {
	results := make([]CaseResult, 0, len(f.Cases))
	for _, c := range f.Cases {
		results = append(results, replayCase(c))
	}
	return results
}

func replayCase(c FixtureCase) CaseResult {
	r := CaseResult{Name: c.Name, Expected: c.Expected.Answer()}

	in, err := c.Input.ToInput()
	if err != nil {
		r.Replayed = AnswerError
		r.Err = err
		r.Reason = err.Error()
		return r
	}

	res, err := decide.Evaluate(in)
	if err != nil {
		r.Replayed = AnswerInvalid
		r.Err = err
		r.Reason = err.Error()
		var ipe *params.InvalidParameterError
		r.Match = errors.As(err, &ipe) && ipe.Field == c.Expected.Invalid
		return r
	}

	r.Result = res
	r.Replayed = res.Answer()
	r.Match = r.Replayed == r.Expected
	if !r.Match {
		r.Reason = fmt.Sprintf("cmv %s", res.CMV)
		return r
	}
	if c.Expected.CMV != nil {
		if diff := cmvDiff(c.Expected.CMV, res.CMV); diff != "" {
			r.Match = false
			r.Reason = diff
		}
	}
	return r
}

// cmvDiff lists the conditions whose replayed value differs from want.
func cmvDiff(want []bool, got cmv.Vector) string {
	if len(want) != cmv.Count {
		return fmt.Sprintf("expected cmv has %d entries, want %d", len(want), cmv.Count)
	}
	var diffs []string
	for i, w := range want {
		if got[i] != w {
			diffs = append(diffs, fmt.Sprintf("%s=%v", cmv.ID(i), got[i]))
		}
	}
	if len(diffs) == 0 {
		return ""
	}
	return "cmv differs: " + strings.Join(diffs, " ")
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []CaseResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Match {
			s.Matches++
		}
		switch r.Replayed {
		case "YES":
			s.Launches++
		case "NO":
			s.Holds++
		case AnswerInvalid:
			s.Invalid++
		}
	}
	s.Diverge = s.Total - s.Matches
	return s
}

// #endregion replay

// #region output

// WriteComparison prints an Expected/Replayed/Match table followed by the
// summary line, and returns the summary.
func WriteComparison(w io.Writer, results []CaseResult) (Summary, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-32s| %-9s| %-9s| %s\n", "Case", "Expected", "Replayed", "Match")
	fmt.Fprintf(&sb, "%s+%s+%s+%s\n",
		strings.Repeat("-", 32), strings.Repeat("-", 10), strings.Repeat("-", 10), "------")

	for _, r := range results {
		match := "OK"
		if !r.Match {
			match = "DIFF"
		}
		fmt.Fprintf(&sb, "%-32s| %-9s| %-9s| %s\n", r.Name, r.Expected, r.Replayed, match)
		if !r.Match && r.Reason != "" {
			fmt.Fprintf(&sb, "    %s\n", r.Reason)
		}
	}

	s := Summarize(results)
	fmt.Fprintf(&sb, "\nSummary: %d total, %d match, %d diverge\n", s.Total, s.Matches, s.Diverge)

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return s, fmt.Errorf("write comparison: %w", err)
	}
	return s, nil
}

// #endregion output
