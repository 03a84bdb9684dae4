package geom

import (
	"testing"

	"inkpaint/internal/mathutil"
)

var (
	quadVerts = []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	quadTris  = []int{0, 1, 2, 0, 2, 3}
)

func obliqueMVP() mathutil.Mat4 {
	proj := mathutil.Perspective(60, 4.0/3, 0.1, 100)
	view := mathutil.LookAt(mathutil.Vec3{2, 1.5, 3}, mathutil.Vec3{0.5, 0.5, 0}, mathutil.DefaultUp)
	return mathutil.Mat4Mul(proj, view)
}

func TestCentroidIsInside(t *testing.T) {
	t1, t2, t3 := mathutil.Vec3{0, 0, 0}, mathutil.Vec3{2, 0, 1}, mathutil.Vec3{0, 3, -1}
	g := t1.Add(t2).Add(t3).Scale(1.0 / 3)

	if !CoplanarWithTolerance(g, t1, t2, t3) {
		t.Error("CoplanarWithTolerance(centroid) = false, want true")
	}
	if !InsideTriangle(g, t1, t2, t3) {
		t.Error("InsideTriangle(centroid) = false, want true")
	}
}

func TestOutsideAndOffPlane(t *testing.T) {
	t1, t2, t3 := quadVerts[0], quadVerts[1], quadVerts[2]

	if InsideTriangle(mathutil.Vec3{0.9, 0.1, 0}.Scale(-1), t1, t2, t3) {
		t.Error("InsideTriangle(point behind t1) = true, want false")
	}
	if InsideTriangle(mathutil.Vec3{0.2, 0.8, 0}, t1, t2, t3) {
		t.Error("InsideTriangle(point in other half of quad) = true, want false")
	}
	if CoplanarWithTolerance(mathutil.Vec3{0.5, 0.25, 0.5}, t1, t2, t3) {
		t.Error("CoplanarWithTolerance(point above plane) = true, want false")
	}
}

func TestSharedEdgeIsOnBothTriangles(t *testing.T) {
	mid := mathutil.Vec3{0.5, 0.5, 0}
	for i := 0; i < len(quadTris); i += 3 {
		a, b, c := quadVerts[quadTris[i]], quadVerts[quadTris[i+1]], quadVerts[quadTris[i+2]]
		if !OnTriangleEdge(mid, a, b, c) {
			t.Errorf("triangle %d: OnTriangleEdge(diagonal midpoint) = false, want true", i/3)
		}
	}
}

func TestResolveUVCentroid(t *testing.T) {
	tri := [3]mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	uvs := [3]mathutil.Vec2{{0, 0}, {1, 0}, {0, 1}}
	g := tri[0].Add(tri[1]).Add(tri[2]).Scale(1.0 / 3)
	want := mathutil.Vec2{1.0 / 3, 1.0 / 3}

	for name, mvp := range map[string]mathutil.Mat4{
		"identity": mathutil.Mat4Identity(),
		"oblique":  obliqueMVP(),
	} {
		got := ResolveUV(g, tri, uvs, mvp)
		if !got.ApproxEqual(want, 1e-3) {
			t.Errorf("%s: ResolveUV(centroid) = %v, want %v", name, got, want)
		}
	}
}

// barycentric3D is an independent reference: object-space barycentric
// weights, which perspective-correct interpolation must reproduce.
func barycentric3D(p, a, b, c mathutil.Vec3) (float64, float64, float64) {
	n := b.Sub(a).Cross(c.Sub(a))
	area := n.Len()
	wa := b.Sub(p).Cross(c.Sub(p)).Len() / area
	wb := c.Sub(p).Cross(a.Sub(p)).Len() / area
	return wa, wb, 1 - wa - wb
}

func TestResolveUVMatchesObjectSpaceBarycentric(t *testing.T) {
	tri := [3]mathutil.Vec3{{0, 0, 0}, {1, 0, 0.5}, {0.2, 1, -0.4}}
	uvs := [3]mathutil.Vec2{{0.1, 0.2}, {0.9, 0.1}, {0.4, 0.95}}
	mvp := obliqueMVP()

	for _, w := range [][3]float64{{0.2, 0.3, 0.5}, {0.7, 0.2, 0.1}, {0.05, 0.9, 0.05}} {
		p := tri[0].Scale(w[0]).Add(tri[1].Scale(w[1])).Add(tri[2].Scale(w[2]))
		wa, wb, wc := barycentric3D(p, tri[0], tri[1], tri[2])
		want := uvs[0].Scale(wa).Add(uvs[1].Scale(wb)).Add(uvs[2].Scale(wc))

		got := ResolveUV(p, tri, uvs, mvp)
		if !got.ApproxEqual(want, 1e-6) {
			t.Errorf("weights %v: ResolveUV = %v, want %v", w, got, want)
		}
	}
}

func TestProjectedAreaEdgeOn(t *testing.T) {
	// Triangle in the plane x=0, camera also in that plane.
	tri := [3]mathutil.Vec3{{0, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	view := mathutil.LookAt(mathutil.Vec3{0, 0.3, 5}, mathutil.Vec3{0, 0.3, 0.3}, mathutil.DefaultUp)
	mvp := mathutil.Mat4Mul(mathutil.Perspective(60, 1, 0.1, 100), view)
	if a := ProjectedArea(tri, mvp); a > 1e-9 || a < -1e-9 {
		t.Errorf("ProjectedArea(edge-on) = %v, want 0", a)
	}
}

func TestSurfaceUVEdgeOnFallsBack(t *testing.T) {
	tri := [3]mathutil.Vec3{{0, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	uvs := [3]mathutil.Vec2{{0, 0}, {1, 0}, {0, 1}}
	view := mathutil.LookAt(mathutil.Vec3{0, 0.3, 5}, mathutil.Vec3{0, 0.3, 0.3}, mathutil.DefaultUp)
	mvp := mathutil.Mat4Mul(mathutil.Perspective(60, 1, 0.1, 100), view)

	p := mathutil.Vec3{0, 0.25, 0.5}
	got, ok := SurfaceUV(p, tri, uvs, mvp)
	if !ok {
		t.Fatal("SurfaceUV(edge-on) ok = false")
	}
	if want := (mathutil.Vec2{0.25, 0.5}); !got.ApproxEqual(want, 1e-9) {
		t.Errorf("SurfaceUV(edge-on) = %v, want %v", got, want)
	}

	// Off-edge-on, SurfaceUV is the perspective-correct result.
	front, _ := SurfaceUV(p, tri, uvs, obliqueMVP())
	if want := ResolveUV(p, tri, uvs, obliqueMVP()); !front.ApproxEqual(want, 1e-12) {
		t.Errorf("SurfaceUV = %v, want ResolveUV %v", front, want)
	}
}

func TestBarycentricUVDegenerate(t *testing.T) {
	line := [3]mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}
	if _, ok := BarycentricUV(mathutil.Vec3{0.5, 0, 0}, line, [3]mathutil.Vec2{}); ok {
		t.Error("BarycentricUV(collinear) ok = true")
	}
}

func TestNearestSurfacePointOnVertex(t *testing.T) {
	for i, v := range quadVerts {
		got, ok := NearestSurfacePoint(v, quadVerts, quadTris)
		if !ok {
			t.Fatalf("vertex %d: ok = false", i)
		}
		if d := got.Dist(v); d != 0 {
			t.Errorf("vertex %d: distance = %v, want 0", i, d)
		}
	}
}

func TestNearestSurfacePointOffSurface(t *testing.T) {
	p := mathutil.Vec3{0.9, 0.1, 0.3}
	got, ok := NearestSurfacePoint(p, quadVerts, quadTris)
	if !ok {
		t.Fatal("ok = false, want true")
	}
	if got[2] != 0 {
		t.Errorf("projection z = %v, want point in the quad plane", got[2])
	}
}

func TestNearestSurfacePointOnSurfaceUsesProjection(t *testing.T) {
	p := mathutil.Vec3{0.6, 0.2, 0}
	got, ok := NearestSurfacePoint(p, quadVerts, quadTris)
	if !ok {
		t.Fatal("ok = false")
	}
	// Nearest vertex (1,0,0) has one incident triangle.
	want := TriangleSpaceProjection(p, quadVerts[1], quadVerts[2], quadVerts[0])
	if !got.ApproxEqual(want, 1e-12) {
		t.Errorf("NearestSurfacePoint = %v, want %v", got, want)
	}
	if !got.ApproxEqual(mathutil.Vec3{0.6539, 0.2151, 0}, 1e-3) {
		t.Errorf("NearestSurfacePoint = %v, want about (0.6539, 0.2151, 0)", got)
	}
}

func TestNearestSurfacePointEmpty(t *testing.T) {
	if _, ok := NearestSurfacePoint(mathutil.Vec3{}, quadVerts, nil); ok {
		t.Error("ok = true for a mesh without triangles")
	}
}

func TestNearestVertexTrianglesSkipsStrayVertex(t *testing.T) {
	verts := append(append([]mathutil.Vec3(nil), quadVerts...), mathutil.Vec3{5, 5, 0})
	tris := NearestVertexTriangles(mathutil.Vec3{4.9, 4.9, 0}, verts, quadTris)
	if len(tris) != 2 || tris[0][0] != (mathutil.Vec3{1, 1, 0}) {
		t.Errorf("NearestVertexTriangles = %v, want the two triangles at (1,1,0)", tris)
	}
}

func TestNearestVertexTrianglesOrder(t *testing.T) {
	tris := NearestVertexTriangles(mathutil.Vec3{1.1, 1.1, 0}, quadVerts, quadTris)
	if len(tris) != 2 {
		t.Fatalf("got %d triangles, want 2", len(tris))
	}
	for _, tr := range tris {
		if tr[0] != quadVerts[2] {
			t.Errorf("triangle %v does not start at the nearest vertex", tr)
		}
	}
	// index 2 sits at position 2 of the first triangle: (v2, v1, v0)
	if tris[0][1] != quadVerts[1] || tris[0][2] != quadVerts[0] {
		t.Errorf("first triangle = %v, want (v2, v1, v0)", tris[0])
	}
	// and at position 1 of the second: (v2, v0, v3)
	if tris[1][1] != quadVerts[0] || tris[1][2] != quadVerts[3] {
		t.Errorf("second triangle = %v, want (v2, v0, v3)", tris[1])
	}
}
