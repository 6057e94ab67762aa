package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/decide-lab/launch-interceptor/internal/audit"
	"github.com/decide-lab/launch-interceptor/internal/cmv"
)

// #region export
// FromEntries turns logged decisions into a fixture whose expectations are
// the logged answers and CMVs. entries arrive newest first, as audit.List
// returns them; cases come out in chronological order.
func FromEntries(description string, entries []audit.Entry) (*Fixture, error) {
	f := &Fixture{Description: description, Cases: make([]FixtureCase, len(entries))}
	for i, e := range entries {
		var c FixtureCase
		if err := json.Unmarshal([]byte(e.InputJSON), &c.Input); err != nil {
			return nil, fmt.Errorf("entry %s: parse input: %w", e.RunID, err)
		}
		v, err := parseBits(e.CMV)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.RunID, err)
		}
		c.Name = e.RunID
		c.Expected = FixtureExpected{Launch: e.Launch, CMV: v}
		f.Cases[len(entries)-1-i] = c
	}
	return f, nil
}

// WriteFixture writes f as indented JSON.
func WriteFixture(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode fixture: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

func parseBits(s string) ([]bool, error) {
	if len(s) != cmv.Count {
		return nil, fmt.Errorf("cmv %q: expected %d flags", s, cmv.Count)
	}
	out := make([]bool, cmv.Count)
	for i := range s {
		switch s[i] {
		case '1':
			out[i] = true
		case '0':
		default:
			return nil, fmt.Errorf("cmv %q: unexpected flag %q", s, s[i])
		}
	}
	return out, nil
}

// #endregion export
