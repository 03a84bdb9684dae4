package geom

import "inkpaint/internal/mathutil"

// ResolveUV maps p, assumed to lie on the triangle tri, to a texture
// coordinate with perspective-correct barycentric interpolation under mvp.
//
// The triangle and the point are projected to normalized device coordinates,
// barycentric weights come from the projected sub-areas and the UVs are then
// interpolated in 1/w space. The result is undefined when the projected
// triangle has zero area (edge-on to the camera).
func ResolveUV(p mathutil.Vec3, tri [3]mathutil.Vec3, uvs [3]mathutil.Vec2, mvp mathutil.Mat4) mathutil.Vec2 {
	c0 := mvp.MulVec4(mathutil.Vec4{tri[0][0], tri[0][1], tri[0][2], 1})
	c1 := mvp.MulVec4(mathutil.Vec4{tri[1][0], tri[1][1], tri[1][2], 1})
	c2 := mvp.MulVec4(mathutil.Vec4{tri[2][0], tri[2][1], tri[2][2], 1})
	cp := mvp.MulVec4(mathutil.Vec4{p[0], p[1], p[2], 1})

	n0 := mathutil.Vec2{c0[0] / c0[3], c0[1] / c0[3]}
	n1 := mathutil.Vec2{c1[0] / c1[3], c1[1] / c1[3]}
	n2 := mathutil.Vec2{c2[0] / c2[3], c2[1] / c2[3]}
	np := mathutil.Vec2{cp[0] / cp[3], cp[1] / cp[3]}

	s := 0.5 * ((n1[0]-n0[0])*(n2[1]-n0[1]) - (n1[1]-n0[1])*(n2[0]-n0[0]))
	s1 := 0.5 * ((n2[0]-np[0])*(n0[1]-np[1]) - (n2[1]-np[1])*(n0[0]-np[0]))
	s2 := 0.5 * ((n0[0]-np[0])*(n1[1]-np[1]) - (n0[1]-np[1])*(n1[0]-np[0]))

	u := s1 / s
	v := s2 / s
	t := 1 - u - v

	w := 1 / (t/c0[3] + u/c1[3] + v/c2[3])
	return mathutil.Vec2{
		w * (t*uvs[0][0]/c0[3] + u*uvs[1][0]/c1[3] + v*uvs[2][0]/c2[3]),
		w * (t*uvs[0][1]/c0[3] + u*uvs[1][1]/c1[3] + v*uvs[2][1]/c2[3]),
	}
}

// ProjectedArea returns the signed NDC area of tri under mvp. Callers use it
// to reject edge-on triangles before calling ResolveUV.
func ProjectedArea(tri [3]mathutil.Vec3, mvp mathutil.Mat4) float64 {
	var n [3]mathutil.Vec2
	for i, v := range tri {
		c := mvp.MulVec4(mathutil.Vec4{v[0], v[1], v[2], 1})
		if c[3] == 0 {
			return 0
		}
		n[i] = mathutil.Vec2{c[0] / c[3], c[1] / c[3]}
	}
	return 0.5 * ((n[1][0]-n[0][0])*(n[2][1]-n[0][1]) - (n[1][1]-n[0][1])*(n[2][0]-n[0][0]))
}

// edgeOn is the projected-area threshold below which perspective
// interpolation is abandoned.
const edgeOn = 1e-12

// BarycentricUV interpolates uvs with object-space barycentric weights of p
// projected onto the plane of tri. ok is false for a zero-area triangle.
func BarycentricUV(p mathutil.Vec3, tri [3]mathutil.Vec3, uvs [3]mathutil.Vec2) (mathutil.Vec2, bool) {
	e0 := tri[1].Sub(tri[0])
	e1 := tri[2].Sub(tri[0])
	ep := p.Sub(tri[0])
	d00, d01, d11 := e0.Dot(e0), e0.Dot(e1), e1.Dot(e1)
	d20, d21 := ep.Dot(e0), ep.Dot(e1)
	den := d00*d11 - d01*d01
	if den > -edgeOn && den < edgeOn {
		return mathutil.Vec2{}, false
	}
	v := (d11*d20 - d01*d21) / den
	w := (d00*d21 - d01*d20) / den
	u := 1 - v - w
	return uvs[0].Scale(u).Add(uvs[1].Scale(v)).Add(uvs[2].Scale(w)), true
}

// SurfaceUV resolves p on tri with ResolveUV, or with BarycentricUV when the
// triangle is edge-on under mvp or reaches behind the eye. ok is false only
// for a zero-area triangle.
func SurfaceUV(p mathutil.Vec3, tri [3]mathutil.Vec3, uvs [3]mathutil.Vec2, mvp mathutil.Mat4) (mathutil.Vec2, bool) {
	for _, v := range append(tri[:], p) {
		if c := mvp.MulVec4(mathutil.Vec4{v[0], v[1], v[2], 1}); c[3] <= 0 {
			return BarycentricUV(p, tri, uvs)
		}
	}
	if a := ProjectedArea(tri, mvp); a > -edgeOn && a < edgeOn {
		return BarycentricUV(p, tri, uvs)
	}
	return ResolveUV(p, tri, uvs, mvp), true
}
