package cmv

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/decide-lab/launch-interceptor/internal/geometry"
	"github.com/decide-lab/launch-interceptor/internal/params"
)

// #region compute
// Compute evaluates every condition over pts. Each entry is independent of
// the others, so the result does not depend on evaluation order.
func Compute(pts []geometry.Point, p params.Parameters) Vector {
	var v Vector
	for id, cond := range conditions {
		id, cond := id, cond
		v[id] = cond(pts, p)
	}
	return v
}

// ComputeParallel evaluates the conditions concurrently. It yields the same
// vector as Compute unless ctx is cancelled first.
func ComputeParallel(ctx context.Context, pts []geometry.Point, p params.Parameters) (Vector, error) {
	var v Vector
	g, ctx := errgroup.WithContext(ctx)
	for id, cond := range conditions {
		id, cond := id, cond
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v[id] = cond(pts, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Vector{}, err
	}
	return v, nil
}

// #endregion compute
