package meshing

import (
	"errors"
	"fmt"

	"endless-terrain/internal/heightfield"
	"endless-terrain/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexStride is number of float32 per interleaved vertex (pos.xyz + normal.xyz + uv.st)
const VertexStride = 8

// MaxLOD is the coarsest supported level of detail. Its stride is 12.
const MaxLOD = 6

var (
	// ErrStride is returned when the grid edge is not divisible by the LOD stride.
	ErrStride = errors.New("meshing: grid size not divisible by lod stride")
	// ErrEmpty is returned for heightfields smaller than 2×2.
	ErrEmpty = errors.New("meshing: heightfield too small")
)

// Mesh is an indexed triangle mesh for one (chunk, lod) pair. Positions are
// local to the chunk centre. A Mesh is never modified after Build.
type Mesh struct {
	LOD             int
	Stride          int
	VerticesPerLine int
	Vertices        []mgl32.Vec3
	Normals         []mgl32.Vec3
	UVs             []mgl32.Vec2
	Indices         []uint32
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// ClampLOD maps any integer into [0, MaxLOD].
func ClampLOD(lod int) int {
	return max(0, min(lod, MaxLOD))
}

// Stride returns the sample step for a LOD: every sample at 0, 2·lod above.
func Stride(lod int) int {
	lod = ClampLOD(lod)
	if lod == 0 {
		return 1
	}
	return lod * 2
}

// ResolutionSupportsAllStrides reports whether a grid with res samples per
// edge keeps its border samples at every supported LOD.
func ResolutionSupportsAllStrides(res int) bool {
	if res < 2 {
		return false
	}
	for lod := 0; lod <= MaxLOD; lod++ {
		if (res-1)%Stride(lod) != 0 {
			return false
		}
	}
	return true
}

// Build meshes hf at the requested LOD using the elevations precomputed by
// the heightfield generator.
func Build(hf *heightfield.Heightfield, lod int) (*Mesh, error) {
	if hf == nil {
		return nil, ErrEmpty
	}
	return build(hf, lod, func(x, y int) float32 { return hf.ElevationAt(x, y) })
}

// BuildWith meshes hf at the requested LOD, recomputing each vertex height
// as multiplier*curve(height) instead of using the stored elevations.
func BuildWith(hf *heightfield.Heightfield, curve heightfield.Curve, multiplier float64, lod int) (*Mesh, error) {
	if hf == nil {
		return nil, ErrEmpty
	}
	if curve == nil {
		curve = heightfield.Linear()
	}
	return build(hf, lod, func(x, y int) float32 {
		return float32(multiplier * curve.Evaluate(float64(hf.HeightAt(x, y))))
	})
}

func build(hf *heightfield.Heightfield, lod int, elevation func(x, y int) float32) (*Mesh, error) {
	defer profiling.Track("meshing.Build")()

	w, h := hf.Width, hf.Height
	if w < 2 || h < 2 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmpty, w, h)
	}
	lod = ClampLOD(lod)
	step := Stride(lod)
	if (w-1)%step != 0 || (h-1)%step != 0 {
		return nil, fmt.Errorf("%w: %dx%d at lod %d (stride %d)", ErrStride, w, h, lod, step)
	}

	perLineX := (w-1)/step + 1
	perLineY := (h-1)/step + 1
	halfW := float32(w-1) / 2
	halfH := float32(h-1) / 2

	m := &Mesh{
		LOD:             lod,
		Stride:          step,
		VerticesPerLine: perLineX,
		Vertices:        make([]mgl32.Vec3, 0, perLineX*perLineY),
		UVs:             make([]mgl32.Vec2, 0, perLineX*perLineY),
		Indices:         make([]uint32, 0, (perLineX-1)*(perLineY-1)*6),
	}

	for y := 0; y < h; y += step {
		for x := 0; x < w; x += step {
			m.Vertices = append(m.Vertices, mgl32.Vec3{
				float32(x) - halfW,
				elevation(x, y),
				float32(y) - halfH,
			})
			m.UVs = append(m.UVs, mgl32.Vec2{
				float32(x) / float32(w-1),
				float32(y) / float32(h-1),
			})
		}
	}

	// a─b
	// │ │   triangles (a,c,d) and (a,d,b) wind counter-clockwise seen from +Y
	// c─d
	for row := 0; row < perLineY-1; row++ {
		for col := 0; col < perLineX-1; col++ {
			a := uint32(row*perLineX + col)
			b := a + 1
			c := a + uint32(perLineX)
			d := c + 1
			m.Indices = append(m.Indices, a, c, d, a, d, b)
		}
	}

	m.Normals = computeNormals(m.Vertices, m.Indices)
	return m, nil
}

// computeNormals averages the face normals around each vertex.
func computeNormals(vertices []mgl32.Vec3, indices []uint32) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		ia, ib, ic := indices[i], indices[i+1], indices[i+2]
		n := FaceNormal(vertices[ia], vertices[ib], vertices[ic])
		normals[ia] = normals[ia].Add(n)
		normals[ib] = normals[ib].Add(n)
		normals[ic] = normals[ic].Add(n)
	}
	for i, n := range normals {
		if n.Len() > 0 {
			normals[i] = n.Normalize()
		} else {
			normals[i] = mgl32.Vec3{0, 1, 0}
		}
	}
	return normals
}

// FaceNormal returns the unnormalized normal of a counter-clockwise triangle.
func FaceNormal(a, b, c mgl32.Vec3) mgl32.Vec3 {
	return b.Sub(a).Cross(c.Sub(a))
}

// Interleaved packs the mesh as pos|normal|uv per vertex for GPU upload.
func (m *Mesh) Interleaved() []float32 {
	out := make([]float32, 0, len(m.Vertices)*VertexStride)
	for i, v := range m.Vertices {
		n := m.Normals[i]
		uv := m.UVs[i]
		out = append(out, v[0], v[1], v[2], n[0], n[1], n[2], uv[0], uv[1])
	}
	return out
}
