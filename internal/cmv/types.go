package cmv

import (
	"fmt"
	"strings"

	"github.com/decide-lab/launch-interceptor/internal/geometry"
	"github.com/decide-lab/launch-interceptor/internal/params"
)

// #region ids
// Count is the number of launch interceptor conditions.
const Count = 15

// ID identifies a launch interceptor condition (LIC0..LIC14).
type ID int

func (id ID) String() string {
	return fmt.Sprintf("LIC%d", int(id))
}

// #endregion ids

// #region vector
// Vector is the Conditions Met Vector: entry i holds the outcome of LIC i.
type Vector [Count]bool

// Met returns how many conditions hold.
func (v Vector) Met() int {
	n := 0
	for _, b := range v {
		if b {
			n++
		}
	}
	return n
}

// String renders the vector as a row of T/F flags, LIC0 first.
func (v Vector) String() string {
	var sb strings.Builder
	for i, b := range v {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if b {
			sb.WriteByte('T')
		} else {
			sb.WriteByte('F')
		}
	}
	return sb.String()
}

// #endregion vector

// #region condition
// Condition is a pure predicate over a point sequence and validated parameters.
// It reports whether any window of the sequence satisfies the condition.
type Condition func(pts []geometry.Point, p params.Parameters) bool

// #endregion condition
