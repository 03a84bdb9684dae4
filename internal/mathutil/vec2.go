package mathutil

import "math"

// Vec2 is a 2-component vector, used for UV coordinates.
type Vec2 [2]float64

func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a[0] + b[0], a[1] + b[1]}
}

func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a[0] - b[0], a[1] - b[1]}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v[0] * s, v[1] * s}
}

// Rotate rotates v around pivot by deg degrees (counter-clockwise).
func (v Vec2) Rotate(pivot Vec2, deg float64) Vec2 {
	s, c := math.Sincos(Deg2Rad(deg))
	d := v.Sub(pivot)
	return Vec2{d[0]*c - d[1]*s + pivot[0], d[0]*s + d[1]*c + pivot[1]}
}

// ApproxEqual reports whether both components differ by less than eps.
func (a Vec2) ApproxEqual(b Vec2, eps float64) bool {
	return math.Abs(a[0]-b[0]) < eps && math.Abs(a[1]-b[1]) < eps
}

// Vec4 is a homogeneous coordinate (x, y, z, w).
type Vec4 [4]float64

// XYZ drops the w component.
func (v Vec4) XYZ() Vec3 {
	return Vec3{v[0], v[1], v[2]}
}
