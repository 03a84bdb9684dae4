package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"inkpaint/internal/camera"
	"inkpaint/internal/geom"
	"inkpaint/internal/mathutil"
	"inkpaint/internal/mesh"
	"inkpaint/internal/texture"
)

func main() {
	texDir := flag.String("textures", "", "Texture directory to resolve material names against")
	point := flag.String("point", "", "Local point x,y,z to resolve to UV")
	flag.Parse()

	var cache *texture.Cache
	if *texDir != "" {
		idx, err := texture.BuildIndex(*texDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Texture index: %v\n", err)
		} else {
			cache = texture.NewCache(idx)
		}
	}

	var p *mathutil.Vec3
	if *point != "" {
		v, err := parsePoint(*point)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Bad -point: %v\n", err)
			os.Exit(2)
		}
		p = &v
	}

	for _, arg := range flag.Args() {
		m, mats, err := mesh.LoadOBJ(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Parse error %s: %v\n", arg, err)
			continue
		}
		fmt.Printf("\n=== %s (v=%d t=%d materials=%d) ===\n", arg, len(m.Vertices), m.TriangleCount(), len(mats))
		printBounds(m)
		printMaterials(mats, cache)
		if p != nil {
			printPoint(m, *p)
		}
	}
}

func parsePoint(s string) (mathutil.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mathutil.Vec3{}, fmt.Errorf("want x,y,z, got %q", s)
	}
	var v mathutil.Vec3
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return mathutil.Vec3{}, err
		}
		v[i] = f
	}
	return v, nil
}

func printBounds(m *mesh.Mesh) {
	minV := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	maxV := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range m.Vertices {
		for k := 0; k < 3; k++ {
			minV[k] = math.Min(minV[k], v[k])
			maxV[k] = math.Max(maxV[k], v[k])
		}
	}
	minUV := mathutil.Vec2{math.Inf(1), math.Inf(1)}
	maxUV := mathutil.Vec2{math.Inf(-1), math.Inf(-1)}
	for _, uv := range m.UVs {
		for k := 0; k < 2; k++ {
			minUV[k] = math.Min(minUV[k], uv[k])
			maxUV[k] = math.Max(maxUV[k], uv[k])
		}
	}
	fmt.Printf("  bbox=(%.3f,%.3f,%.3f) min=(%.3f,%.3f,%.3f) max=(%.3f,%.3f,%.3f)\n",
		maxV[0]-minV[0], maxV[1]-minV[1], maxV[2]-minV[2],
		minV[0], minV[1], minV[2], maxV[0], maxV[1], maxV[2])
	fmt.Printf("  uv=[%.3f..%.3f]x[%.3f..%.3f]\n", minUV[0], maxUV[0], minUV[1], maxUV[1])

	degenerate := 0
	for i := 0; i < m.TriangleCount(); i++ {
		tri, _ := m.Triangle(i)
		if tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Len() < 1e-12 {
			degenerate++
		}
	}
	if degenerate > 0 {
		fmt.Printf("  degenerate triangles: %d\n", degenerate)
	}
}

func printMaterials(mats []string, cache *texture.Cache) {
	for i, name := range mats {
		texInfo := "-"
		if cache != nil {
			texInfo = "MISSING"
			if tex := cache.Resolve(name); tex != nil {
				b := tex.Bounds()
				texInfo = fmt.Sprintf("%dx%d", b.Dx(), b.Dy())
			}
		}
		fmt.Printf("  Material[%d] %q tex=%s\n", i, name, texInfo)
	}
}

func printPoint(m *mesh.Mesh, p mathutil.Vec3) {
	op, err := mesh.NewOperator(m)
	if err != nil {
		fmt.Printf("  point: %v\n", err)
		return
	}
	mvp := camera.Default().MVP(mathutil.Mat4Identity())
	if uv, ok := op.LocalPointToUV(p, mvp); ok {
		fmt.Printf("  point (%.3f,%.3f,%.3f) on surface: uv=(%.4f,%.4f)\n", p[0], p[1], p[2], uv[0], uv[1])
		return
	}
	q, ok := geom.NearestSurfacePoint(p, m.Vertices, m.Triangles)
	fmt.Printf("  point (%.3f,%.3f,%.3f) off surface: nearest=(%.3f,%.3f,%.3f) ok=%v\n",
		p[0], p[1], p[2], q[0], q[1], q[2], ok)
	if uv, ok := op.ClosestTriangleUV(p, mvp); ok {
		fmt.Printf("  closest triangle uv=(%.4f,%.4f)\n", uv[0], uv[1])
	}
}
