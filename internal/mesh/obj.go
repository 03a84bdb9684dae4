package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"inkpaint/internal/mathutil"
)

// LoadOBJ reads a Wavefront OBJ file. It returns the mesh and the material
// names referenced by usemtl, in order of first use.
func LoadOBJ(path string) (*Mesh, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("mesh: open %s: %w", path, err)
	}
	defer f.Close()

	m, mats, err := ParseOBJ(f)
	if err != nil {
		return nil, nil, fmt.Errorf("mesh: parse %s: %w", path, err)
	}
	m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return m, mats, nil
}

// ParseOBJ reads positions (v), texture coordinates (vt) and faces (f).
// Faces with more than three corners are fan-triangulated (0-1-2, 0-2-3, ...).
// Each distinct position/UV pair becomes one output vertex. Texture v is
// flipped so v=0 is the top image row.
func ParseOBJ(r io.Reader) (*Mesh, []string, error) {
	var (
		positions []mathutil.Vec3
		texcoords []mathutil.Vec2
		mats      []string
		seenMat   = map[string]bool{}
		m         = &Mesh{}
		remap     = map[[2]int]int{}
	)

	corner := func(tok string) (int, error) {
		parts := strings.Split(tok, "/")
		vi, err := objIndex(parts[0], len(positions))
		if err != nil {
			return 0, err
		}
		ti := -1
		if len(parts) > 1 && parts[1] != "" {
			if ti, err = objIndex(parts[1], len(texcoords)); err != nil {
				return 0, err
			}
		}
		key := [2]int{vi, ti}
		if idx, ok := remap[key]; ok {
			return idx, nil
		}
		idx := len(m.Vertices)
		m.Vertices = append(m.Vertices, positions[vi])
		if ti >= 0 {
			m.UVs = append(m.UVs, texcoords[ti])
		} else {
			m.UVs = append(m.UVs, mathutil.Vec2{})
		}
		remap[key] = idx
		return idx, nil
	}

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", line, err)
			}
			positions = append(positions, mathutil.Vec3{v[0], v[1], v[2]})
		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", line, err)
			}
			// OBJ puts v=0 on the bottom row.
			texcoords = append(texcoords, mathutil.Vec2{v[0], 1 - v[1]})
		case "f":
			if len(fields) < 4 {
				return nil, nil, fmt.Errorf("line %d: face with %d corners", line, len(fields)-1)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				i, err := corner(tok)
				if err != nil {
					return nil, nil, fmt.Errorf("line %d: %w", line, err)
				}
				idx = append(idx, i)
			}
			for k := 1; k+1 < len(idx); k++ {
				m.Triangles = append(m.Triangles, idx[0], idx[k], idx[k+1])
			}
		case "usemtl":
			if len(fields) > 1 && !seenMat[fields[1]] {
				seenMat[fields[1]] = true
				mats = append(mats, fields[1])
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, nil, err
	}
	return m, mats, nil
}

// objIndex converts a 1-based (or negative, relative) OBJ index to 0-based.
func objIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad index %q", s)
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += n
	default:
		return 0, fmt.Errorf("index 0 is not valid")
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index %s out of range (%d defined)", s, n)
	}
	return i, nil
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", fields[i])
		}
		out[i] = v
	}
	return out, nil
}
