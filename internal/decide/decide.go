package decide

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/decide-lab/launch-interceptor/internal/cmv"
	"github.com/decide-lab/launch-interceptor/internal/fuv"
	"github.com/decide-lab/launch-interceptor/internal/geometry"
	"github.com/decide-lab/launch-interceptor/internal/lcm"
	"github.com/decide-lab/launch-interceptor/internal/params"
	"github.com/decide-lab/launch-interceptor/internal/pum"
)

// #region evaluate
// Evaluate validates the parameters, then runs CMV -> PUM -> FUV.
// The only error is *params.InvalidParameterError; past validation the
// pipeline is total.
func Evaluate(in Input) (Result, error) {
	if err := params.Validate(in.Params, len(in.Points)); err != nil {
		return Result{}, err
	}
	return run(in, cmv.Compute(in.Points, in.Params)), nil
}

// EvaluateContext is Evaluate with the conditions computed concurrently.
func EvaluateContext(ctx context.Context, in Input) (Result, error) {
	if err := params.Validate(in.Params, len(in.Points)); err != nil {
		return Result{}, err
	}
	v, err := cmv.ComputeParallel(ctx, in.Points, in.Params)
	if err != nil {
		return Result{}, fmt.Errorf("compute cmv: %w", err)
	}
	return run(in, v), nil
}

func run(in Input, v cmv.Vector) Result {
	m := pum.Build(in.LCM, v)
	f := fuv.Build(in.PUV, m)
	return Result{
		CMV:    v,
		PUM:    m,
		FUV:    f,
		Launch: fuv.Launch(f),
	}
}

// #endregion evaluate

// #region batch
// EvaluateBatch evaluates independent inputs in parallel, at most limit at a
// time (limit <= 0 means unbounded). Outcomes keep the order of inputs.
// Validation failures are reported per entry; the returned error is only
// set when ctx ends before every entry ran.
func EvaluateBatch(ctx context.Context, inputs []Input, limit int) ([]Outcome, error) {
	outcomes := make([]Outcome, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Evaluate(in)
			outcomes[i] = Outcome{Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return outcomes, fmt.Errorf("evaluate batch: %w", err)
	}
	return outcomes, nil
}

// #endregion batch

// #region demo
// DemoInput is the launch console's built-in example: one hundred points at
// the origin, minimal parameters and an LCM that leaves every pair unused.
// It always launches.
func DemoInput() Input {
	points := make([]geometry.Point, params.MaxPoints)
	return Input{
		Points: points,
		Params: params.Minimal(),
		LCM:    lcm.Filled(lcm.NotUsed),
		PUV:    fuv.Mask{},
	}
}

// #endregion demo
