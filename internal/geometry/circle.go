package geometry

import "math"

// #region circle-contains
// CircleContainsAll reports whether p1, p2 and p3 fit within or on some
// circle of exactly the given radius.
//
// For distinct points every pair no further apart than the diameter yields
// two candidate centres on the pair's perpendicular bisector; the triple fits
// if the remaining point lies within radius of any candidate.
func CircleContainsAll(p1, p2, p3 Point, radius float64) bool {
	if p1 == p2 && p2 == p3 {
		return true
	}

	// Exactly two coincide: the smallest enclosing circle is centred on the
	// midpoint of the coincident point and the remaining one.
	if p1 == p2 || p1 == p3 || p2 == p3 {
		coincident, remaining := p1, p3
		switch {
		case p1 == p3:
			remaining = p2
		case p2 == p3:
			coincident, remaining = p2, p1
		}
		mid := Midpoint(coincident, remaining)
		return Distance(mid, coincident) <= radius && Distance(mid, remaining) <= radius
	}

	pairs := [3][3]Point{
		{p1, p2, p3},
		{p2, p3, p1},
		{p3, p1, p2},
	}
	for _, pr := range pairs {
		for _, centre := range candidateCentres(pr[0], pr[1], radius) {
			if Distance(centre, pr[2]) <= radius {
				return true
			}
		}
	}
	return false
}

// #endregion circle-contains

// #region helpers
// candidateCentres returns the centres of the circles of the given radius
// passing through both a and b. It returns nil when a and b are further
// apart than the diameter. a and b must differ.
func candidateCentres(a, b Point, radius float64) []Point {
	d := Distance(a, b)
	if d > 2*radius {
		return nil
	}
	mid := Midpoint(a, b)

	// Unit normal to ab.
	nx := (a.Y - b.Y) / d
	ny := (b.X - a.X) / d

	h := radius*radius - (d/2)*(d/2)
	if h < 0 {
		h = 0
	}
	h = math.Sqrt(h)

	return []Point{
		{X: mid.X + h*nx, Y: mid.Y + h*ny},
		{X: mid.X - h*nx, Y: mid.Y - h*ny},
	}
}

// #endregion helpers
