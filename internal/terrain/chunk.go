package terrain

import (
	"math"

	"endless-terrain/internal/heightfield"
	"endless-terrain/internal/meshing"

	"github.com/go-gl/mathgl/mgl64"
)

// ChunkState is the heightfield lifecycle of a chunk.
type ChunkState int

const (
	// Pending chunks have requested their heightfield and are waiting.
	Pending ChunkState = iota
	// Ready chunks hold their heightfield and take part in visibility passes.
	Ready
	// Failed chunks lost their heightfield request and retry on the next pass.
	Failed
)

func (s ChunkState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// noLOD marks a chunk with no mesh in use or no LOD chosen yet.
const noLOD = -1

// chunk is one arena slot of the Grid. It is only touched on the owning
// thread; background work sees nothing but its immutable heightfield.
type chunk struct {
	coord  heightfield.ChunkCoord
	centre mgl64.Vec2
	half   float64

	state ChunkState
	hf    *heightfield.Heightfield

	// Indexed by LOD table entry.
	meshes    []*meshing.Mesh
	requested []bool

	currentLOD int
	desiredLOD int
	visible    bool
}

func newChunk(coord heightfield.ChunkCoord, size, lods int) chunk {
	return chunk{
		coord:      coord,
		centre:     coord.Origin(size),
		half:       float64(size) / 2,
		state:      Pending,
		meshes:     make([]*meshing.Mesh, lods),
		requested:  make([]bool, lods),
		currentLOD: noLOD,
		desiredLOD: noLOD,
	}
}

// distanceTo returns the distance from p to the nearest point of the chunk's
// square bounds, zero inside.
func (c *chunk) distanceTo(p mgl64.Vec2) float64 {
	dx := math.Max(math.Abs(p.X()-c.centre.X())-c.half, 0)
	dy := math.Max(math.Abs(p.Y()-c.centre.Y())-c.half, 0)
	return math.Sqrt(dx*dx + dy*dy)
}

// ChunkInfo is a read-only snapshot of a chunk for inspection and tests.
type ChunkInfo struct {
	Coord      heightfield.ChunkCoord
	State      ChunkState
	Visible    bool
	CurrentLOD int // LOD table index in use, -1 for none
	DesiredLOD int // LOD table index chosen by the last pass, -1 for none
	Cached     []bool
	Requested  []bool
}

// HasMesh reports whether the mesh for a LOD table index is cached.
func (i ChunkInfo) HasMesh(lodIndex int) bool {
	return lodIndex >= 0 && lodIndex < len(i.Cached) && i.Cached[lodIndex]
}

func (c *chunk) info() ChunkInfo {
	in := ChunkInfo{
		Coord:      c.coord,
		State:      c.state,
		Visible:    c.visible,
		CurrentLOD: c.currentLOD,
		DesiredLOD: c.desiredLOD,
		Cached:     make([]bool, len(c.meshes)),
		Requested:  append([]bool(nil), c.requested...),
	}
	for i, m := range c.meshes {
		in.Cached[i] = m != nil
	}
	return in
}
