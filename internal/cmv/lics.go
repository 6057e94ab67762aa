package cmv

import (
	"math"

	"github.com/decide-lab/launch-interceptor/internal/geometry"
	"github.com/decide-lab/launch-interceptor/internal/params"
)

// #region table
// conditions maps each LIC id to its predicate.
var conditions = [Count]Condition{
	lic0, lic1, lic2, lic3, lic4,
	lic5, lic6, lic7, lic8, lic9,
	lic10, lic11, lic12, lic13, lic14,
}

// Lookup returns the predicate for id.
func Lookup(id ID) Condition {
	return conditions[id]
}

// #endregion table

// #region windows
// eachPair calls fn with every pair of points separated by exactly gap
// intervening points until fn returns true.
func eachPair(pts []geometry.Point, gap int, fn func(a, b geometry.Point) bool) bool {
	if gap < 0 {
		return false
	}
	for i := 0; i+gap+1 <= len(pts)-1; i++ {
		if fn(pts[i], pts[i+gap+1]) {
			return true
		}
	}
	return false
}

// eachTriple calls fn with every triple of points separated by exactly gap1
// and gap2 intervening points until fn returns true.
func eachTriple(pts []geometry.Point, gap1, gap2 int, fn func(a, b, c geometry.Point) bool) bool {
	if gap1 < 0 || gap2 < 0 {
		return false
	}
	for i := 0; i+gap1+gap2+2 <= len(pts)-1; i++ {
		if fn(pts[i], pts[i+gap1+1], pts[i+gap1+gap2+2]) {
			return true
		}
	}
	return false
}

// eachWindow calls fn with every run of width consecutive points until fn
// returns true.
func eachWindow(pts []geometry.Point, width int, fn func(w []geometry.Point) bool) bool {
	if width < 1 {
		return false
	}
	for i := 0; i+width-1 <= len(pts)-1; i++ {
		if fn(pts[i : i+width]) {
			return true
		}
	}
	return false
}

// #endregion windows

// #region predicates
func sharpAngle(a, vertex, c geometry.Point, epsilon float64) bool {
	angle, ok := geometry.VertexAngle(a, vertex, c)
	if !ok {
		return false
	}
	return angle < math.Pi-epsilon || angle > math.Pi+epsilon
}

func areaAbove(a, b, c geometry.Point, limit float64) bool {
	area, ok := geometry.TriangleArea(a, b, c)
	return ok && area > limit
}

// #endregion predicates

// #region consecutive
// lic0: two consecutive points further apart than LENGTH1.
func lic0(pts []geometry.Point, p params.Parameters) bool {
	return eachPair(pts, 0, func(a, b geometry.Point) bool {
		return geometry.Distance(a, b) > p.Length1
	})
}

// lic1: three consecutive points that do not fit in a circle of RADIUS1.
func lic1(pts []geometry.Point, p params.Parameters) bool {
	return eachTriple(pts, 0, 0, func(a, b, c geometry.Point) bool {
		return !geometry.CircleContainsAll(a, b, c, p.Radius1)
	})
}

// lic2: three consecutive points bending more than EPSILON away from straight.
func lic2(pts []geometry.Point, p params.Parameters) bool {
	return eachTriple(pts, 0, 0, func(a, b, c geometry.Point) bool {
		return sharpAngle(a, b, c, p.Epsilon)
	})
}

// lic3: three consecutive points spanning a triangle larger than AREA1.
func lic3(pts []geometry.Point, p params.Parameters) bool {
	return eachTriple(pts, 0, 0, func(a, b, c geometry.Point) bool {
		return areaAbove(a, b, c, p.Area1)
	})
}

// lic4: Q_PTS consecutive points lying in more than QUADS quadrants.
func lic4(pts []geometry.Point, p params.Parameters) bool {
	return eachWindow(pts, p.QPts, func(w []geometry.Point) bool {
		var seen [5]bool
		distinct := 0
		for _, pt := range w {
			q := geometry.QuadrantOf(pt)
			if !seen[q] {
				seen[q] = true
				distinct++
			}
		}
		return distinct > p.Quads
	})
}

// lic5: two consecutive points where x decreases.
func lic5(pts []geometry.Point, _ params.Parameters) bool {
	return eachPair(pts, 0, func(a, b geometry.Point) bool {
		return b.X-a.X < 0
	})
}

// lic6: N_PTS consecutive points where some point lies further than DIST from
// the line through the first and last. A closed window (first == last)
// measures from the shared endpoint instead.
func lic6(pts []geometry.Point, p params.Parameters) bool {
	if len(pts) < 3 {
		return false
	}
	return eachWindow(pts, p.NPts, func(w []geometry.Point) bool {
		first, last := w[0], w[len(w)-1]
		for _, pt := range w[1 : len(w)-1] {
			var d float64
			if first == last {
				d = geometry.Distance(first, pt)
			} else {
				d = geometry.LineDistance(pt, first, last)
			}
			if d > p.Dist {
				return true
			}
		}
		return false
	})
}

// #endregion consecutive

// #region separated
// lic7: two points K_PTS apart further apart than LENGTH1.
func lic7(pts []geometry.Point, p params.Parameters) bool {
	if len(pts) < 3 {
		return false
	}
	return eachPair(pts, p.KPts, func(a, b geometry.Point) bool {
		return geometry.Distance(a, b) > p.Length1
	})
}

// lic8: three points A_PTS and B_PTS apart that do not fit in RADIUS1.
func lic8(pts []geometry.Point, p params.Parameters) bool {
	if len(pts) < 5 {
		return false
	}
	return eachTriple(pts, p.APts, p.BPts, func(a, b, c geometry.Point) bool {
		return !geometry.CircleContainsAll(a, b, c, p.Radius1)
	})
}

// lic9: three points C_PTS and D_PTS apart bending more than EPSILON.
func lic9(pts []geometry.Point, p params.Parameters) bool {
	if len(pts) < 5 {
		return false
	}
	return eachTriple(pts, p.CPts, p.DPts, func(a, b, c geometry.Point) bool {
		return sharpAngle(a, b, c, p.Epsilon)
	})
}

// lic10: three points E_PTS and F_PTS apart spanning more than AREA1.
func lic10(pts []geometry.Point, p params.Parameters) bool {
	if len(pts) < 5 {
		return false
	}
	return eachTriple(pts, p.EPts, p.FPts, func(a, b, c geometry.Point) bool {
		return areaAbove(a, b, c, p.Area1)
	})
}

// lic11: two points G_PTS apart where x decreases.
func lic11(pts []geometry.Point, p params.Parameters) bool {
	if len(pts) < 3 {
		return false
	}
	return eachPair(pts, p.GPts, func(a, b geometry.Point) bool {
		return b.X-a.X < 0
	})
}

// #endregion separated

// #region two-witness
// lic12: some K_PTS pair is further than LENGTH1 and some (possibly other)
// K_PTS pair is closer than LENGTH2.
func lic12(pts []geometry.Point, p params.Parameters) bool {
	if len(pts) < 3 {
		return false
	}
	var far, near bool
	return eachPair(pts, p.KPts, func(a, b geometry.Point) bool {
		d := geometry.Distance(a, b)
		far = far || d > p.Length1
		near = near || d < p.Length2
		return far && near
	})
}

// lic13: some A/B triple does not fit in RADIUS1 and some (possibly other)
// A/B triple fits in RADIUS2.
func lic13(pts []geometry.Point, p params.Parameters) bool {
	if len(pts) < 5 {
		return false
	}
	var outside, inside bool
	return eachTriple(pts, p.APts, p.BPts, func(a, b, c geometry.Point) bool {
		outside = outside || !geometry.CircleContainsAll(a, b, c, p.Radius1)
		inside = inside || geometry.CircleContainsAll(a, b, c, p.Radius2)
		return outside && inside
	})
}

// lic14: some E/F triangle is larger than AREA1 and some (possibly other)
// E/F triangle is smaller than AREA2. Degenerate triples witness neither.
func lic14(pts []geometry.Point, p params.Parameters) bool {
	if len(pts) < 5 {
		return false
	}
	var large, small bool
	return eachTriple(pts, p.EPts, p.FPts, func(a, b, c geometry.Point) bool {
		area, ok := geometry.TriangleArea(a, b, c)
		if !ok {
			return false
		}
		large = large || area > p.Area1
		small = small || area < p.Area2
		return large && small
	})
}

// #endregion two-witness
