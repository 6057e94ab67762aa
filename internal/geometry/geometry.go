package geometry

import "math"

// #region point
// Point is an immutable radar-track sample. Equality is exact coordinate
// equality; coincident-point guards rely on it.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Quadrant numbers the four planar quadrants.
type Quadrant int

const (
	QuadrantI Quadrant = iota + 1
	QuadrantII
	QuadrantIII
	QuadrantIV
)

// #endregion point

// #region distance
// Distance returns the Euclidean distance between p and q.
func Distance(p, q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Midpoint returns the point halfway between p and q.
func Midpoint(p, q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// #endregion distance

// #region quadrant
// QuadrantOf classifies p with priority I, II, III, IV for points on an axis:
// (0,0) and (1,0) are I, (-1,0) is II, (0,-1) is III.
func QuadrantOf(p Point) Quadrant {
	switch {
	case p.X >= 0 && p.Y >= 0:
		return QuadrantI
	case p.X < 0 && p.Y >= 0:
		return QuadrantII
	case p.X <= 0 && p.Y < 0:
		return QuadrantIII
	default:
		return QuadrantIV
	}
}

// #endregion quadrant

// #region angle
// VertexAngle returns the angle at vertex formed with p1 and p2, in [0, pi].
// ok is false when either neighbour coincides with the vertex.
func VertexAngle(p1, vertex, p2 Point) (angle float64, ok bool) {
	if p1 == vertex || p2 == vertex {
		return 0, false
	}
	a := Distance(p1, vertex)
	b := Distance(vertex, p2)
	c := Distance(p1, p2)

	// Law of cosines; clamp absorbs rounding on collinear triples.
	cos := (a*a + b*b - c*c) / (2 * a * b)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos), true
}

// #endregion angle

// #region area
// TriangleArea returns the area of the triangle p1 p2 p3 by Heron's formula.
// ok is false when any two vertices coincide.
func TriangleArea(p1, p2, p3 Point) (area float64, ok bool) {
	if p1 == p2 || p1 == p3 || p2 == p3 {
		return 0, false
	}
	a := Distance(p1, p2)
	b := Distance(p1, p3)
	c := Distance(p2, p3)

	prod := (a + b + c) * (-a + b + c) * (a - b + c) * (a + b - c)
	if prod < 0 {
		prod = 0
	}
	return 0.25 * math.Sqrt(prod), true
}

// #endregion area

// #region line
// LineDistance returns the perpendicular distance from p to the infinite
// line through a and b. a and b must differ.
func LineDistance(p, a, b Point) float64 {
	cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
	return math.Abs(cross) / Distance(a, b)
}

// #endregion line
