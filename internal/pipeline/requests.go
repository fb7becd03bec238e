package pipeline

import (
	"fmt"

	"endless-terrain/internal/heightfield"
	"endless-terrain/internal/meshing"
	"endless-terrain/internal/profiling"
)

// HeightfieldRequest asks for the heightfield of one chunk.
type HeightfieldRequest struct {
	Coord     heightfield.ChunkCoord
	Generator heightfield.Source
}

// MeshRequest asks for the mesh of a finished heightfield at one LOD.
type MeshRequest struct {
	Heightfield *heightfield.Heightfield
	LOD         int
}

// RequestHeightfield generates req.Coord off the owning thread.
func (p *Pool) RequestHeightfield(req HeightfieldRequest, done func(*heightfield.Heightfield, error)) {
	profiling.Count("pipeline.heightfieldRequests", 1)
	gen := req.Generator
	coord := req.Coord
	Submit(p, fmt.Sprintf("heightfield %d,%d", coord.X, coord.Y), func() (*heightfield.Heightfield, error) {
		if gen == nil {
			return nil, fmt.Errorf("no generator for chunk %v", coord)
		}
		return gen.Generate(coord)
	}, done)
}

// RequestMesh builds req.Heightfield at req.LOD off the owning thread. The
// heightfield is only read.
func (p *Pool) RequestMesh(req MeshRequest, done func(*meshing.Mesh, error)) {
	profiling.Count("pipeline.meshRequests", 1)
	hf := req.Heightfield
	lod := req.LOD
	name := fmt.Sprintf("mesh lod %d", lod)
	if hf != nil {
		name = fmt.Sprintf("mesh %d,%d lod %d", hf.Coord.X, hf.Coord.Y, lod)
	}
	Submit(p, name, func() (*meshing.Mesh, error) {
		return meshing.Build(hf, lod)
	}, done)
}
