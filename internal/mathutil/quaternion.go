package mathutil

import "math"

// Quat is a unit rotation quaternion stored as (x, y, z, w).
type Quat [4]float64

// QuatEuler builds the rotation for Euler angles in radians, applied about
// X first, then Y, then Z.
func QuatEuler(rx, ry, rz float64) Quat {
	hx, hy, hz := rx/2, ry/2, rz/2
	cx, sx := math.Cos(hx), math.Sin(hx)
	cy, sy := math.Cos(hy), math.Sin(hy)
	cz, sz := math.Cos(hz), math.Sin(hz)
	return Quat{
		sx*cy*cz - cx*sy*sz,
		cx*sy*cz + sx*cy*sz,
		cx*cy*sz - sx*sy*cz,
		cx*cy*cz + sx*sy*sz,
	}
}

// Mat3 expands q into a rotation matrix.
func (q Quat) Mat3() Mat3 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	return Mat3{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	}
}
