package lcm

import (
	"fmt"
	"strings"

	"github.com/decide-lab/launch-interceptor/internal/cmv"
)

// #region connector
// Connector is the logical operator joining two conditions in the LCM.
// The zero value is NotUsed.
type Connector int

const (
	NotUsed Connector = iota
	And
	Or
)

// String returns the canonical requirements-document spelling.
func (c Connector) String() string {
	switch c {
	case NotUsed:
		return "NOTUSED"
	case And:
		return "ANDD"
	case Or:
		return "ORR"
	default:
		return fmt.Sprintf("Connector(%d)", int(c))
	}
}

// ParseConnector accepts NOTUSED/UNUSED, ANDD/AND and ORR/OR in any case.
func ParseConnector(s string) (Connector, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NOTUSED", "UNUSED":
		return NotUsed, nil
	case "ANDD", "AND":
		return And, nil
	case "ORR", "OR":
		return Or, nil
	default:
		return NotUsed, fmt.Errorf("unknown connector %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Connector) MarshalText() ([]byte, error) {
	if c < NotUsed || c > Or {
		return nil, fmt.Errorf("marshal connector: invalid value %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Connector) UnmarshalText(text []byte) error {
	parsed, err := ParseConnector(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// #endregion connector

// #region matrix
// Matrix is the Logical Connector Matrix. Cell [i][j] and [j][i] are
// independent; nothing enforces symmetry.
type Matrix [cmv.Count][cmv.Count]Connector

// Filled returns a matrix with every cell set to c.
func Filled(c Connector) Matrix {
	var m Matrix
	for i := range m {
		for j := range m[i] {
			m[i][j] = c
		}
	}
	return m
}

// Set assigns c to both [i][j] and [j][i].
func (m *Matrix) Set(i, j cmv.ID, c Connector) {
	m[i][j] = c
	m[j][i] = c
}

// #endregion matrix
