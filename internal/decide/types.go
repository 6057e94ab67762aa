package decide

import (
	"github.com/decide-lab/launch-interceptor/internal/cmv"
	"github.com/decide-lab/launch-interceptor/internal/fuv"
	"github.com/decide-lab/launch-interceptor/internal/geometry"
	"github.com/decide-lab/launch-interceptor/internal/lcm"
	"github.com/decide-lab/launch-interceptor/internal/params"
	"github.com/decide-lab/launch-interceptor/internal/pum"
)

// #region input
// Input is one read-only snapshot for a launch decision.
type Input struct {
	Points []geometry.Point
	Params params.Parameters
	LCM    lcm.Matrix
	PUV    fuv.Mask
}

// #endregion input

// #region result
// Result carries the decision and every intermediate stage for diagnostics.
type Result struct {
	CMV    cmv.Vector
	PUM    pum.Matrix
	FUV    fuv.Vector
	Launch bool
}

// Answer renders the decision the way the launch console prints it.
func (r Result) Answer() string {
	if r.Launch {
		return "YES"
	}
	return "NO"
}

// Outcome pairs a batch entry's result with its validation error, if any.
type Outcome struct {
	Result Result
	Err    error
}

// #endregion result
