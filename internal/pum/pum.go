package pum

import (
	"fmt"

	"github.com/decide-lab/launch-interceptor/internal/cmv"
	"github.com/decide-lab/launch-interceptor/internal/lcm"
)

// #region matrix
// Matrix is the Preliminary Unlocking Matrix. Every cell, including the
// diagonal, is defined.
type Matrix [cmv.Count][cmv.Count]bool

// RowExcept reports whether every cell of row i other than column skip holds.
func (m Matrix) RowExcept(i, skip int) bool {
	for j, ok := range m[i] {
		if j != skip && !ok {
			return false
		}
	}
	return true
}

// #endregion matrix

// #region build
// Build combines the CMV through the LCM. Each cell is computed on its own:
// NOTUSED unlocks, ANDD needs both conditions, ORR needs either.
func Build(connectors lcm.Matrix, v cmv.Vector) Matrix {
	var m Matrix
	for i := range connectors {
		for j, c := range connectors[i] {
			switch c {
			case lcm.NotUsed:
				m[i][j] = true
			case lcm.And:
				m[i][j] = v[i] && v[j]
			case lcm.Or:
				m[i][j] = v[i] || v[j]
			default:
				panic(fmt.Sprintf("pum: unhandled connector %s at [%d][%d]", c, i, j))
			}
		}
	}
	return m
}

// #endregion build
