package replay

import (
	"bytes"
	"strings"
	"testing"

	"github.com/decide-lab/launch-interceptor/internal/decide"
	"github.com/decide-lab/launch-interceptor/internal/input"
)

// helper: fixture case built from a domain input.
func caseOf(name string, in decide.Input, want FixtureExpected) FixtureCase {
	return FixtureCase{Name: name, Input: input.FromInput(in), Expected: want}
}

// 1. Matching answers: the demo input launches.
func TestReplay_Match(t *testing.T) {
	f := &Fixture{Cases: []FixtureCase{caseOf("demo", decide.DemoInput(), FixtureExpected{Launch: true})}}

	results := Replay(f)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if !r.Match || r.Expected != "YES" || r.Replayed != "YES" {
		t.Errorf("expected YES/YES match, got %+v", r)
	}
	if r.Err != nil {
		t.Errorf("unexpected error: %v", r.Err)
	}
}

// 2. Divergent answer is reported with the replayed CMV as reason.
func TestReplay_AnswerDiverges(t *testing.T) {
	f := &Fixture{Cases: []FixtureCase{caseOf("demo", decide.DemoInput(), FixtureExpected{Launch: false})}}

	r := Replay(f)[0]
	if r.Match {
		t.Fatal("expected divergence")
	}
	if r.Expected != "NO" || r.Replayed != "YES" {
		t.Errorf("expected NO/YES, got %s/%s", r.Expected, r.Replayed)
	}
	if !strings.HasPrefix(r.Reason, "cmv ") {
		t.Errorf("expected cmv reason, got %q", r.Reason)
	}
}

// 3. Same answer but a different CMV still diverges.
func TestReplay_CMVDiverges(t *testing.T) {
	want := make([]bool, 15)
	want[3] = true
	f := &Fixture{Cases: []FixtureCase{caseOf("demo", decide.DemoInput(), FixtureExpected{Launch: true, CMV: want})}}

	r := Replay(f)[0]
	if r.Match {
		t.Fatal("expected cmv divergence")
	}
	if r.Reason != "cmv differs: LIC3=false" {
		t.Errorf("unexpected reason %q", r.Reason)
	}
}

// 4. Expected rejection matches only on the named field.
func TestReplay_Invalid(t *testing.T) {
	in := decide.DemoInput()
	in.Params.Radius2 = -1

	f := &Fixture{Cases: []FixtureCase{
		caseOf("right-field", in, FixtureExpected{Invalid: "RADIUS2"}),
		caseOf("wrong-field", in, FixtureExpected{Invalid: "AREA2"}),
		caseOf("unexpected", in, FixtureExpected{Launch: true}),
	}}

	results := Replay(f)
	if !results[0].Match || results[0].Replayed != AnswerInvalid {
		t.Errorf("right-field: expected INVALID match, got %+v", results[0])
	}
	if results[1].Match {
		t.Error("wrong-field: expected divergence")
	}
	if results[2].Match || results[2].Expected != "YES" {
		t.Errorf("unexpected: expected YES/INVALID divergence, got %+v", results[2])
	}
	if results[0].Err == nil || !strings.Contains(results[0].Reason, "RADIUS2") {
		t.Errorf("expected validation reason, got %q", results[0].Reason)
	}
}

// 5. Malformed documents replay as ERROR.
func TestReplay_MalformedDocument(t *testing.T) {
	c := caseOf("short-puv", decide.DemoInput(), FixtureExpected{Launch: true})
	c.Input.PUV = c.Input.PUV[:4]

	r := Replay(&Fixture{Cases: []FixtureCase{c}})[0]
	if r.Replayed != AnswerError || r.Match {
		t.Errorf("expected ERROR divergence, got %+v", r)
	}
}

// 6. Summarize counts answers and divergences.
func TestSummarize(t *testing.T) {
	results := []CaseResult{
		{Replayed: "YES", Match: true},
		{Replayed: "YES", Match: false},
		{Replayed: "NO", Match: true},
		{Replayed: AnswerInvalid, Match: true},
		{Replayed: AnswerError},
	}
	s := Summarize(results)
	want := Summary{Total: 5, Matches: 3, Diverge: 2, Launches: 2, Holds: 1, Invalid: 1}
	if s != want {
		t.Errorf("expected %+v, got %+v", want, s)
	}
}

// 7. Comparison table shape.
func TestWriteComparison(t *testing.T) {
	results := []CaseResult{
		{Name: "ok-case", Expected: "YES", Replayed: "YES", Match: true},
		{Name: "bad-case", Expected: "NO", Replayed: "YES", Reason: "cmv T F"},
	}
	var buf bytes.Buffer
	s, err := WriteComparison(&buf, results)
	if err != nil {
		t.Fatalf("WriteComparison: %v", err)
	}
	if s.Diverge != 1 {
		t.Errorf("expected 1 divergence, got %d", s.Diverge)
	}
	out := buf.String()
	for _, want := range []string{"Expected", "Replayed", "ok-case", "OK", "bad-case", "DIFF", "cmv T F", "Summary: 2 total, 1 match, 1 diverge"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
