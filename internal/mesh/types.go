package mesh

import (
	"errors"
	"fmt"

	"inkpaint/internal/mathutil"
)

var (
	// ErrEmpty is returned for a mesh with no vertices or no triangles.
	ErrEmpty = errors.New("mesh: no geometry")
)

// Mesh is read-only triangle geometry. Triangles is a flat list of vertex
// index triples; UVs run parallel to Vertices.
type Mesh struct {
	Name      string
	Vertices  []mathutil.Vec3
	UVs       []mathutil.Vec2
	Triangles []int
}

// TriangleCount returns the number of index triples.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles) / 3
}

// Triangle returns the positions and UVs of triangle i.
func (m *Mesh) Triangle(i int) ([3]mathutil.Vec3, [3]mathutil.Vec2) {
	a, b, c := m.Triangles[i*3], m.Triangles[i*3+1], m.Triangles[i*3+2]
	return [3]mathutil.Vec3{m.Vertices[a], m.Vertices[b], m.Vertices[c]},
		[3]mathutil.Vec2{m.UVs[a], m.UVs[b], m.UVs[c]}
}

// Validate checks the structural invariants: a whole number of triangles,
// one UV per vertex and every index in range.
func (m *Mesh) Validate() error {
	if len(m.Vertices) == 0 || len(m.Triangles) == 0 {
		return ErrEmpty
	}
	if len(m.Triangles)%3 != 0 {
		return fmt.Errorf("mesh: %d triangle indices is not a multiple of 3", len(m.Triangles))
	}
	if len(m.UVs) != len(m.Vertices) {
		return fmt.Errorf("mesh: %d UVs for %d vertices", len(m.UVs), len(m.Vertices))
	}
	for i, idx := range m.Triangles {
		if idx < 0 || idx >= len(m.Vertices) {
			return fmt.Errorf("mesh: triangle index %d at %d out of range [0,%d)", idx, i, len(m.Vertices))
		}
	}
	return nil
}

// Quad returns a unit quad in the z=0 plane with corner UVs (0,0)-(1,1),
// split into two triangles along the (0,0)-(1,1) diagonal.
func Quad() *Mesh {
	return &Mesh{
		Name:      "quad",
		Vertices:  []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		UVs:       []mathutil.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Triangles: []int{0, 1, 2, 0, 2, 3},
	}
}
