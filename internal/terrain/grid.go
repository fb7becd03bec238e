package terrain

import (
	"errors"
	"fmt"
	"log"
	"math"

	"endless-terrain/internal/heightfield"
	"endless-terrain/internal/meshing"
	"endless-terrain/internal/pipeline"
	"endless-terrain/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultMoveThreshold is how far the viewer must move, in world units,
// before the visible set is recomputed.
const DefaultMoveThreshold = 25.0

var (
	// ErrNoGenerator is returned when Options.Generator is nil.
	ErrNoGenerator = errors.New("terrain: generator is required")
	// ErrNoPool is returned when Options.Pool is nil.
	ErrNoPool = errors.New("terrain: pool is required")
	// ErrChunkSize is returned when the generator reports a chunk size below 1.
	ErrChunkSize = errors.New("terrain: chunk size must be positive")
)

// Options configure a Grid.
type Options struct {
	Generator heightfield.Source
	Pool      *pipeline.Pool
	Renderer  Renderer
	Textures  TextureFactory
	LODs      LODTable
	// ChunkRadius overrides the radius derived from the max view distance.
	ChunkRadius int
	// MoveThreshold defaults to DefaultMoveThreshold.
	MoveThreshold float64
}

// Grid streams chunks around a moving viewer. Every method must be called
// from the owning thread, the same one that drains the pool.
type Grid struct {
	gen      heightfield.Source
	pool     *pipeline.Pool
	renderer Renderer
	textures TextureFactory
	lods     LODTable

	chunkSize       int
	maxViewDst      float64
	radius          int
	moveThresholdSq float64

	chunks      []chunk
	index       map[heightfield.ChunkCoord]int
	visibleLast []int

	viewer    mgl64.Vec2
	viewerOld mgl64.Vec2
	updated   bool
}

// NewGrid validates opts and creates an empty grid.
func NewGrid(opts Options) (*Grid, error) {
	if opts.Generator == nil {
		return nil, ErrNoGenerator
	}
	if opts.Pool == nil {
		return nil, ErrNoPool
	}
	if err := opts.LODs.Validate(); err != nil {
		return nil, err
	}
	size := opts.Generator.ChunkSize()
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrChunkSize, size)
	}

	g := &Grid{
		gen:        opts.Generator,
		pool:       opts.Pool,
		renderer:   opts.Renderer,
		textures:   opts.Textures,
		lods:       append(LODTable(nil), opts.LODs...),
		chunkSize:  size,
		maxViewDst: opts.LODs.MaxViewDistance(),
		index:      make(map[heightfield.ChunkCoord]int),
	}
	if g.renderer == nil {
		g.renderer = nopRenderer{}
	}
	if g.textures == nil {
		g.textures = nopRenderer{}
	}

	g.radius = g.deriveRadius(opts.ChunkRadius)

	threshold := opts.MoveThreshold
	if threshold <= 0 {
		threshold = DefaultMoveThreshold
	}
	g.moveThresholdSq = threshold * threshold
	return g, nil
}

// ChunkSize returns the world-space chunk edge length.
func (g *Grid) ChunkSize() int { return g.chunkSize }

// MaxViewDistance returns the last LOD threshold.
func (g *Grid) MaxViewDistance() float64 { return g.maxViewDst }

// Radius returns how many chunks around the viewer's chunk are considered.
func (g *Grid) Radius() int { return g.radius }

// SetRadius overrides the chunk radius; 0 or less derives it from the max
// view distance again. The visible set is recomputed once Update has run.
func (g *Grid) SetRadius(radius int) {
	r := g.deriveRadius(radius)
	if r == g.radius {
		return
	}
	g.radius = r
	if g.updated {
		g.UpdateVisibleChunks()
	}
}

func (g *Grid) deriveRadius(override int) int {
	if override > 0 {
		return override
	}
	return int(math.Round(g.maxViewDst / float64(g.chunkSize)))
}

// Len returns the number of chunks created so far. Chunks are never evicted.
func (g *Grid) Len() int { return len(g.chunks) }

// VisibleCount returns the size of the current visible set.
func (g *Grid) VisibleCount() int { return len(g.visibleLast) }

// Viewer returns the last viewer position passed to Update.
func (g *Grid) Viewer() mgl32.Vec2 {
	return mgl32.Vec2{float32(g.viewer.X()), float32(g.viewer.Y())}
}

// Chunk returns a snapshot of the chunk at coord.
func (g *Grid) Chunk(coord heightfield.ChunkCoord) (ChunkInfo, bool) {
	idx, ok := g.index[coord]
	if !ok {
		return ChunkInfo{}, false
	}
	return g.chunks[idx].info(), true
}

// VisibleCoords returns the coordinates of the current visible set.
func (g *Grid) VisibleCoords() []heightfield.ChunkCoord {
	out := make([]heightfield.ChunkCoord, 0, len(g.visibleLast))
	for _, idx := range g.visibleLast {
		out = append(out, g.chunks[idx].coord)
	}
	return out
}

// ViewerChunk returns the chunk coordinate containing the viewer.
func (g *Grid) ViewerChunk() heightfield.ChunkCoord {
	size := float64(g.chunkSize)
	return heightfield.ChunkCoord{
		X: int(math.Round(g.viewer.X() / size)),
		Y: int(math.Round(g.viewer.Y() / size)),
	}
}

// Update records the viewer position for this tick and recomputes the
// visible set on the first call or once the viewer has moved further than
// the move threshold since the last recompute. It reports whether a
// recompute happened.
func (g *Grid) Update(viewer mgl32.Vec2) bool {
	g.viewer = mgl64.Vec2{float64(viewer.X()), float64(viewer.Y())}
	if g.updated && g.viewerOld.Sub(g.viewer).LenSqr() <= g.moveThresholdSq {
		return false
	}
	g.viewerOld = g.viewer
	g.updated = true
	g.UpdateVisibleChunks()
	return true
}

// UpdateVisibleChunks recomputes the visible set for the current viewer
// position regardless of how far it moved.
func (g *Grid) UpdateVisibleChunks() {
	defer profiling.Track("terrain.UpdateVisibleChunks")()

	for _, idx := range g.visibleLast {
		g.setVisible(idx, false)
	}
	g.visibleLast = g.visibleLast[:0]

	centre := g.ViewerChunk()
	for dy := -g.radius; dy <= g.radius; dy++ {
		for dx := -g.radius; dx <= g.radius; dx++ {
			coord := heightfield.ChunkCoord{X: centre.X + dx, Y: centre.Y + dy}
			idx, ok := g.index[coord]
			if !ok {
				g.createChunk(coord)
				continue
			}
			g.updateChunk(idx)
			if g.chunks[idx].visible {
				g.visibleLast = append(g.visibleLast, idx)
			}
		}
	}
}

func (g *Grid) createChunk(coord heightfield.ChunkCoord) {
	idx := len(g.chunks)
	g.chunks = append(g.chunks, newChunk(coord, g.chunkSize, len(g.lods)))
	g.index[coord] = idx
	profiling.Count("terrain.chunksCreated", 1)
	g.requestHeightfield(idx)
}

func (g *Grid) requestHeightfield(idx int) {
	c := &g.chunks[idx]
	c.state = Pending
	g.pool.RequestHeightfield(pipeline.HeightfieldRequest{Coord: c.coord, Generator: g.gen}, func(hf *heightfield.Heightfield, err error) {
		g.onHeightfield(idx, hf, err)
	})
}

func (g *Grid) onHeightfield(idx int, hf *heightfield.Heightfield, err error) {
	c := &g.chunks[idx]
	if err != nil {
		log.Printf("terrain: chunk %d,%d heightfield: %v", c.coord.X, c.coord.Y, err)
		profiling.Count("terrain.heightfieldFailures", 1)
		c.state = Failed
		return
	}
	c.hf = hf
	c.state = Ready
	g.renderer.SetTexture(c.coord, g.textures.NewTexture(hf.Colours, hf.Width, hf.Height))

	g.updateChunk(idx)
	if g.chunks[idx].visible {
		g.visibleLast = append(g.visibleLast, idx)
	}
}

// updateChunk picks the LOD and visibility of one chunk for the current
// viewer. Only Ready chunks can become visible or request meshes.
func (g *Grid) updateChunk(idx int) {
	c := &g.chunks[idx]
	switch c.state {
	case Pending:
		return
	case Failed:
		g.requestHeightfield(idx)
		return
	}

	dist := c.distanceTo(g.viewer)
	visible := dist <= g.maxViewDst
	if visible {
		lod := g.lods.Select(dist)
		c.desiredLOD = lod
		if lod != c.currentLOD {
			if m := c.meshes[lod]; m != nil {
				c.currentLOD = lod
				g.renderer.SetMesh(c.coord, m)
			} else if !c.requested[lod] {
				g.requestMesh(idx, lod)
			}
		}
	}
	g.setVisible(idx, visible)
}

func (g *Grid) requestMesh(idx, lodIndex int) {
	c := &g.chunks[idx]
	c.requested[lodIndex] = true
	req := pipeline.MeshRequest{Heightfield: c.hf, LOD: g.lods[lodIndex].LOD}
	g.pool.RequestMesh(req, func(m *meshing.Mesh, err error) {
		g.onMesh(idx, lodIndex, m, err)
	})
}

// onMesh caches a finished mesh and puts it in use only if the chunk still
// wants that LOD; otherwise the result stays cached for later.
func (g *Grid) onMesh(idx, lodIndex int, m *meshing.Mesh, err error) {
	c := &g.chunks[idx]
	if err != nil {
		log.Printf("terrain: chunk %d,%d mesh lod %d: %v", c.coord.X, c.coord.Y, g.lods[lodIndex].LOD, err)
		profiling.Count("terrain.meshFailures", 1)
		c.requested[lodIndex] = false
		return
	}
	c.meshes[lodIndex] = m
	if c.desiredLOD != lodIndex {
		profiling.Count("terrain.staleMeshes", 1)
		return
	}
	c.currentLOD = lodIndex
	g.renderer.SetMesh(c.coord, m)
}

func (g *Grid) setVisible(idx int, visible bool) {
	c := &g.chunks[idx]
	if c.visible == visible {
		return
	}
	c.visible = visible
	g.renderer.SetVisible(c.coord, visible)
}
