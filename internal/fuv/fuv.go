package fuv

import (
	"github.com/decide-lab/launch-interceptor/internal/cmv"
	"github.com/decide-lab/launch-interceptor/internal/pum"
)

// #region types
// Mask is the Preliminary Unlocking Vector: entry i enables condition i.
type Mask [cmv.Count]bool

// AllEnabled returns a mask with every condition enabled.
func AllEnabled() Mask {
	var m Mask
	for i := range m {
		m[i] = true
	}
	return m
}

// Vector is the Final Unlocking Vector.
type Vector [cmv.Count]bool

// #endregion types

// #region build
// Build derives the FUV. A disabled condition passes; an enabled one passes
// only when its PUM row is true everywhere off the diagonal.
func Build(mask Mask, m pum.Matrix) Vector {
	var v Vector
	for i := range v {
		v[i] = !mask[i] || m.RowExcept(i, i)
	}
	return v
}

// Launch is the AND of every FUV entry.
func Launch(v Vector) bool {
	for _, ok := range v {
		if !ok {
			return false
		}
	}
	return true
}

// #endregion build
