// Package geom holds the tolerance-based triangle tests and the UV mapping
// math used to turn a point on a mesh surface into a texture coordinate.
package geom

import "inkpaint/internal/mathutil"

// Tolerance is the shared epsilon for every predicate in this package.
const Tolerance = 1e-2

// CoplanarWithTolerance reports whether p lies in the plane of (t1, t2, t3).
// The direction p-t1 is compared against the face normal, so the result is
// independent of how far p is from t1. p == t1 yields a zero direction and
// always passes; callers guard that case.
func CoplanarWithTolerance(p, t1, t2, t3 mathutil.Vec3) bool {
	n := t2.Sub(t1).Cross(t3.Sub(t1)).Normalize()
	d := n.Dot(p.Sub(t1).Normalize())
	return -Tolerance < d && d < Tolerance
}

// OnEdge reports whether p lies on the segment direction from v2 back to v1.
func OnEdge(p, v1, v2 mathutil.Vec3) bool {
	return v2.Sub(p).Normalize().Dot(v2.Sub(v1).Normalize()) > 1-Tolerance
}

// OnTriangleEdge reports whether p lies on any of the three triangle edges.
func OnTriangleEdge(p, t1, t2, t3 mathutil.Vec3) bool {
	return OnEdge(p, t1, t2) || OnEdge(p, t2, t3) || OnEdge(p, t3, t1)
}

// InsideTriangle reports whether p is inside the triangle. p must already be
// coplanar. The three edge/point cross products must all point the same way;
// comparing normalized directions keeps the test usable on thin triangles.
func InsideTriangle(p, t1, t2, t3 mathutil.Vec3) bool {
	a := t1.Sub(t3).Cross(p.Sub(t1)).Normalize()
	b := t2.Sub(t1).Cross(p.Sub(t2)).Normalize()
	c := t3.Sub(t2).Cross(p.Sub(t3)).Normalize()

	return a.Dot(b) > 1-Tolerance && b.Dot(c) > 1-Tolerance
}

// OnSurface is the acceptance test used by the UV scan: coplanar and either
// on an edge or inside.
func OnSurface(p, t1, t2, t3 mathutil.Vec3) bool {
	if !CoplanarWithTolerance(p, t1, t2, t3) {
		return false
	}
	return OnTriangleEdge(p, t1, t2, t3) || InsideTriangle(p, t1, t2, t3)
}
