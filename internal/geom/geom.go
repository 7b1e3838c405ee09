// Package geom provides the small amount of 3D vector geometry hullfit
// needs on top of gonum's spatial/r3: segment projection, polygon
// normals, and the cone angle test used by the association search.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec is the 3D vector type used throughout hullfit.
type Vec = r3.Vec

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// Centroid returns the arithmetic mean of the given points.
// It panics on an empty slice; callers always supply at least one point.
func Centroid(pts []Vec) Vec {
	if len(pts) == 0 {
		panic("geom: centroid of no points")
	}

	var sum Vec
	for _, p := range pts {
		sum = r3.Add(sum, p)
	}

	return r3.Scale(1/float64(len(pts)), sum)
}

// PolygonNormal returns the unit normal of the polygon spanned by pts,
// computed with Newell's method. A counter-clockwise polygon in the xy
// plane yields +z. Degenerate input (collinear points, fewer than three
// points) yields the zero vector.
func PolygonNormal(pts []Vec) Vec {
	var n Vec
	for i, cur := range pts {
		next := pts[(i+1)%len(pts)]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}

	if r3.Norm(n) == 0 {
		return Vec{}
	}

	return r3.Unit(n)
}

// ClosestOnSegment returns the orthogonal projection of p onto the
// segment [a, b], clamped to the segment's extent. A zero-length
// segment collapses to a.
func ClosestOnSegment(p, a, b Vec) Vec {
	ab := r3.Sub(b, a)

	len2 := r3.Dot(ab, ab)
	if len2 == 0 {
		return a
	}

	lambda := r3.Dot(r3.Sub(p, a), ab) / len2
	if lambda < 0 {
		lambda = 0
	} else if lambda > 1 {
		lambda = 1
	}

	return r3.Add(a, r3.Scale(lambda, ab))
}

// AngleDeg returns the angle between u and v in degrees, in [0, 180].
// Computed as atan2(|u×v|, u·v), which stays stable for nearly parallel
// and nearly opposite vectors. The angle to a zero vector is 0.
func AngleDeg(u, v Vec) float64 {
	return math.Atan2(r3.Norm(r3.Cross(u, v)), r3.Dot(u, v)) * 180 / math.Pi
}
