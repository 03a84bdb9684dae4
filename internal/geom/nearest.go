package geom

import (
	"math"

	"inkpaint/internal/mathutil"
)

// NearestVertexTriangles finds the vertex closest to p and returns every
// triangle that references it. Each triangle starts at the found vertex and
// keeps the winding order of the index list.
func NearestVertexTriangles(p mathutil.Vec3, vertices []mathutil.Vec3, triangles []int) [][3]mathutil.Vec3 {
	if len(triangles) == 0 || len(vertices) == 0 {
		return nil
	}

	// Vertices no triangle references cannot anchor a projection.
	used := make([]bool, len(vertices))
	for _, idx := range triangles {
		used[idx] = true
	}

	nearest := triangles[0]
	nearestDist := vertices[nearest].Dist(p)
	for i, v := range vertices {
		if !used[i] {
			continue
		}
		if d := v.Dist(p); d < nearestDist {
			nearestDist = d
			nearest = i
		}
	}

	var tris [][3]mathutil.Vec3
	for i, idx := range triangles {
		if idx != nearest {
			continue
		}
		var i1, i2 int
		switch i % 3 {
		case 0:
			i1, i2 = i+1, i+2
		case 1:
			i1, i2 = i-1, i+1
		case 2:
			i1, i2 = i-1, i-2
		}
		tris = append(tris, [3]mathutil.Vec3{
			vertices[triangles[i]],
			vertices[triangles[i1]],
			vertices[triangles[i2]],
		})
	}
	return tris
}

// TriangleSpaceProjection pulls p towards the triangle using a centroid-based
// weighting of the vertex distances. This is an approximation: for obtuse
// triangles the result can land outside the triangle.
// TODO: clamp the result into the triangle once callers can tolerate the
// shifted paint placement.
func TriangleSpaceProjection(p, t1, t2, t3 mathutil.Vec3) mathutil.Vec3 {
	g := t1.Add(t2).Add(t3).Scale(1.0 / 3)

	da := t1.Dist(p)
	db := t2.Dist(p)
	dc := t3.Dist(p)
	lmin := math.Min(math.Min(da, db), dc)

	k := func(a, b float64) float64 { return (a - lmin + b - lmin) / 2 }
	wa := k(db, dc)
	wb := k(dc, da)
	wc := k(da, db)

	return g.Add(t1.Sub(g).Scale(wa)).Add(t2.Sub(g).Scale(wb)).Add(t3.Sub(g).Scale(wc))
}

// NearestSurfacePoint returns the candidate projection closest to p over all
// triangles incident to p's nearest vertex. A point at that vertex is
// returned as the vertex; any other point, even one on the surface, goes
// through TriangleSpaceProjection. ok is false only when the mesh has no
// triangles.
func NearestSurfacePoint(p mathutil.Vec3, vertices []mathutil.Vec3, triangles []int) (mathutil.Vec3, bool) {
	tris := NearestVertexTriangles(p, vertices, triangles)
	if len(tris) == 0 {
		return mathutil.Vec3{}, false
	}

	// Every candidate starts at the nearest vertex.
	if p.Dist(tris[0][0]) < 1e-9 {
		return tris[0][0], true
	}

	best := TriangleSpaceProjection(p, tris[0][0], tris[0][1], tris[0][2])
	bestDist := best.Dist(p)
	for _, t := range tris[1:] {
		pd := TriangleSpaceProjection(p, t[0], t[1], t[2])
		if d := pd.Dist(p); d < bestDist {
			best, bestDist = pd, d
		}
	}
	return best, true
}
