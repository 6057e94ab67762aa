package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/decide-lab/launch-interceptor/internal/input"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description string        `json:"description"`
	Cases       []FixtureCase `json:"cases"`
}

// FixtureCase is one recorded decision input and what it should produce.
type FixtureCase struct {
	Name     string          `json:"name"`
	Input    input.Document  `json:"input"`
	Expected FixtureExpected `json:"expected"`
}

// FixtureExpected captures the expected outcome of a case. Invalid names the
// parameter the validator must reject; when set, Launch and CMV are ignored.
// CMV is optional.
type FixtureExpected struct {
	Launch  bool   `json:"launch"`
	CMV     []bool `json:"cmv,omitempty"`
	Invalid string `json:"invalid,omitempty"`
}

// Answer renders the expectation as YES, NO or INVALID.
func (e FixtureExpected) Answer() string {
	switch {
	case e.Invalid != "":
		return AnswerInvalid
	case e.Launch:
		return "YES"
	default:
		return "NO"
	}
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if len(f.Cases) == 0 {
		return nil, fmt.Errorf("fixture %s: no cases", path)
	}
	return &f, nil
}

// #endregion fixture-loader
