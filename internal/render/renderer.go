// Package render draws terrain chunks with OpenGL 4.1. It implements the
// terrain.Renderer and terrain.TextureFactory collaborators; every method
// must run on the thread that owns the GL context.
package render

import (
	"image/color"
	"log"
	"path/filepath"

	"endless-terrain/internal/heightfield"
	"endless-terrain/internal/meshing"
	"endless-terrain/internal/profiling"
	"endless-terrain/internal/terrain"
	"endless-terrain/internal/texture"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	ShadersDir        = "assets/shaders"
	TerrainVertShader = "terrain.vert"
	TerrainFragShader = "terrain.frag"
)

// Texture is the GL handle handed back through terrain.TextureFactory.
type Texture struct {
	ID            uint32
	Width, Height int
}

type chunkDraw struct {
	vao, vbo, ebo uint32
	indexCount    int32
	lod           int
	tex           *Texture
	visible       bool
	lo, hi        mgl32.Vec3
}

// Renderer owns the GPU buffers of every chunk it has been handed.
type Renderer struct {
	shader    *Shader
	chunkSize float32
	chunks    map[heightfield.ChunkCoord]*chunkDraw

	LightDir  mgl32.Vec3
	Wireframe bool

	drawn, culled int
}

var (
	_ terrain.Renderer       = (*Renderer)(nil)
	_ terrain.TextureFactory = (*Renderer)(nil)
)

// NewRenderer loads the terrain shaders from ShadersDir.
func NewRenderer(chunkSize int) (*Renderer, error) {
	shader, err := NewShader(
		filepath.Join(ShadersDir, TerrainVertShader),
		filepath.Join(ShadersDir, TerrainFragShader),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		shader:    shader,
		chunkSize: float32(chunkSize),
		chunks:    make(map[heightfield.ChunkCoord]*chunkDraw),
		LightDir:  mgl32.Vec3{-0.4, -1, -0.3}.Normalize(),
	}, nil
}

func (r *Renderer) chunk(coord heightfield.ChunkCoord) *chunkDraw {
	c := r.chunks[coord]
	if c == nil {
		c = &chunkDraw{lod: -1}
		r.chunks[coord] = c
	}
	return c
}

// NewTexture uploads a chunk colour map with point filtering and clamped
// edges.
func (r *Renderer) NewTexture(colours []color.RGBA, width, height int) terrain.Texture {
	img, err := texture.FromColourMap(colours, width, height)
	if err != nil {
		log.Printf("render: texture: %v", err)
		return nil
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return &Texture{ID: id, Width: width, Height: height}
}

// SetTexture attaches tex to the chunk, freeing any texture it replaces.
func (r *Renderer) SetTexture(coord heightfield.ChunkCoord, tex terrain.Texture) {
	t, _ := tex.(*Texture)
	c := r.chunk(coord)
	if c.tex != nil && c.tex != t {
		gl.DeleteTextures(1, &c.tex.ID)
	}
	c.tex = t
}

// SetMesh replaces the chunk's buffers with m.
func (r *Renderer) SetMesh(coord heightfield.ChunkCoord, m *meshing.Mesh) {
	defer profiling.Track("render.SetMesh")()

	c := r.chunk(coord)
	if c.vao == 0 {
		gl.GenVertexArrays(1, &c.vao)
		gl.GenBuffers(1, &c.vbo)
		gl.GenBuffers(1, &c.ebo)
	}

	data := m.Interleaved()
	gl.BindVertexArray(c.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, c.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	stride := int32(meshing.VertexStride * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(6*4))
	gl.BindVertexArray(0)

	c.indexCount = int32(len(m.Indices))
	c.lod = m.LOD
	c.lo, c.hi = bounds(m, r.origin(coord))
}

// SetVisible includes or skips the chunk in Draw.
func (r *Renderer) SetVisible(coord heightfield.ChunkCoord, visible bool) {
	r.chunk(coord).visible = visible
}

func (r *Renderer) origin(coord heightfield.ChunkCoord) mgl32.Vec3 {
	return mgl32.Vec3{float32(coord.X) * r.chunkSize, 0, float32(coord.Y) * r.chunkSize}
}

// bounds returns the world-space box of m placed at origin.
func bounds(m *meshing.Mesh, origin mgl32.Vec3) (lo, hi mgl32.Vec3) {
	if len(m.Vertices) == 0 {
		return origin, origin
	}
	lo, hi = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		for i := range 3 {
			lo[i] = min(lo[i], v[i])
			hi[i] = max(hi[i], v[i])
		}
	}
	return lo.Add(origin), hi.Add(origin)
}

// Draw renders every visible chunk that has a mesh and lies in the view
// frustum.
func (r *Renderer) Draw(view, proj mgl32.Mat4) {
	defer profiling.Track("render.Draw")()

	frustum := NewFrustum(proj.Mul4(view))
	r.drawn, r.culled = 0, 0

	r.shader.Use()
	r.shader.SetMat4("view", view)
	r.shader.SetMat4("projection", proj)
	r.shader.SetVec3("lightDir", r.LightDir)
	r.shader.SetInt("colourMap", 0)

	if r.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		defer gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	gl.ActiveTexture(gl.TEXTURE0)

	for coord, c := range r.chunks {
		if !c.visible || c.indexCount == 0 {
			continue
		}
		if !frustum.IntersectsAABB(c.lo, c.hi) {
			r.culled++
			continue
		}
		var texID uint32
		r.shader.SetBool("hasTexture", c.tex != nil)
		if c.tex != nil {
			texID = c.tex.ID
		}
		gl.BindTexture(gl.TEXTURE_2D, texID)
		r.shader.SetMat4("model", mgl32.Translate3D(r.origin(coord).Elem()))
		gl.BindVertexArray(c.vao)
		gl.DrawElements(gl.TRIANGLES, c.indexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
		r.drawn++
	}
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	profiling.Count("render.chunksDrawn", int64(r.drawn))
	profiling.Count("render.chunksCulled", int64(r.culled))
}

// Stats returns how many chunks the last Draw rendered and culled.
func (r *Renderer) Stats() (drawn, culled int) { return r.drawn, r.culled }

// Delete frees every GL object.
func (r *Renderer) Delete() {
	for _, c := range r.chunks {
		if c.vao != 0 {
			gl.DeleteVertexArrays(1, &c.vao)
			gl.DeleteBuffers(1, &c.vbo)
			gl.DeleteBuffers(1, &c.ebo)
		}
		if c.tex != nil {
			gl.DeleteTextures(1, &c.tex.ID)
		}
	}
	r.chunks = nil
	r.shader.Delete()
}
