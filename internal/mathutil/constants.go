package mathutil

// Defaults for the fallback camera used when a paint call supplies none.
var (
	// DefaultEye sits on +Z looking back at the origin.
	DefaultEye = Vec3{0, 0, 5}

	// DefaultUp is the Y-up convention used throughout.
	DefaultUp = Vec3{0, 1, 0}
)

const (
	DefaultFOV  = 60.0
	DefaultNear = 0.1
	DefaultFar  = 100.0
)

// Clamp01 clamps v into [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Lerp returns a + (b-a)*t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
