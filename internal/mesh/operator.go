// Package mesh holds triangle geometry and the queries that map surface
// points to texture coordinates.
package mesh

import (
	"inkpaint/internal/geom"
	"inkpaint/internal/mathutil"
)

// Operator caches a mesh's arrays for repeated point queries.
type Operator struct {
	vertices  []mathutil.Vec3
	uvs       []mathutil.Vec2
	triangles []int
}

// NewOperator validates m and caches its geometry.
func NewOperator(m *Mesh) (*Operator, error) {
	if m == nil {
		return nil, ErrEmpty
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &Operator{
		vertices:  m.Vertices,
		uvs:       m.UVs,
		triangles: m.Triangles,
	}, nil
}

// LocalPointToUV scans every triangle for one that contains the local-space
// point p and returns the perspective-correct UV under mvp. The first match
// wins. A triangle seen edge-on falls back to object-space interpolation.
// This is linear in the triangle count.
func (o *Operator) LocalPointToUV(p mathutil.Vec3, mvp mathutil.Mat4) (mathutil.Vec2, bool) {
	for i := 0; i+2 < len(o.triangles); i += 3 {
		i0, i1, i2 := o.triangles[i], o.triangles[i+1], o.triangles[i+2]
		t1, t2, t3 := o.vertices[i0], o.vertices[i1], o.vertices[i2]

		if !geom.OnSurface(p, t1, t2, t3) {
			continue
		}

		tri := [3]mathutil.Vec3{t1, t2, t3}
		uvs := [3]mathutil.Vec2{o.uvs[i0], o.uvs[i1], o.uvs[i2]}
		if uv, ok := geom.SurfaceUV(p, tri, uvs, mvp); ok {
			return uv, true
		}
	}
	return mathutil.Vec2{}, false
}

// NearestLocalSurfacePoint returns the point on the surface closest to the
// local-space point p, using the nearest-vertex projection heuristic.
func (o *Operator) NearestLocalSurfacePoint(p mathutil.Vec3) (mathutil.Vec3, bool) {
	return geom.NearestSurfacePoint(p, o.vertices, o.triangles)
}

// ClosestTriangleUV resolves p against the triangle whose centroid is closest,
// skipping the containment tests. Used when p is only approximately on the
// surface and the exact scan already failed.
func (o *Operator) ClosestTriangleUV(p mathutil.Vec3, mvp mathutil.Mat4) (mathutil.Vec2, bool) {
	best := -1
	bestDist := 0.0
	for i := 0; i+2 < len(o.triangles); i += 3 {
		tri := [3]mathutil.Vec3{o.vertices[o.triangles[i]], o.vertices[o.triangles[i+1]], o.vertices[o.triangles[i+2]]}
		if tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Len() < 1e-6 {
			continue
		}
		g := tri[0].Add(tri[1]).Add(tri[2]).Scale(1.0 / 3)
		if d := g.Dist(p); best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return mathutil.Vec2{}, false
	}
	i0, i1, i2 := o.triangles[best], o.triangles[best+1], o.triangles[best+2]
	tri := [3]mathutil.Vec3{o.vertices[i0], o.vertices[i1], o.vertices[i2]}
	uvs := [3]mathutil.Vec2{o.uvs[i0], o.uvs[i1], o.uvs[i2]}
	return geom.SurfaceUV(p, tri, uvs, mvp)
}
