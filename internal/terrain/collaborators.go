package terrain

import (
	"image/color"

	"endless-terrain/internal/heightfield"
	"endless-terrain/internal/meshing"
)

// Texture is an opaque handle produced by a TextureFactory.
type Texture any

// TextureFactory turns a chunk's colour buffer into a texture. It is called
// once per chunk on the owning thread, right after the heightfield arrives.
type TextureFactory interface {
	NewTexture(colours []color.RGBA, width, height int) Texture
}

// Renderer receives finished assets and visibility changes. All calls come
// from the owning thread.
type Renderer interface {
	SetTexture(coord heightfield.ChunkCoord, tex Texture)
	SetMesh(coord heightfield.ChunkCoord, mesh *meshing.Mesh)
	SetVisible(coord heightfield.ChunkCoord, visible bool)
}

type nopRenderer struct{}

func (nopRenderer) SetTexture(heightfield.ChunkCoord, Texture) {}
func (nopRenderer) SetMesh(heightfield.ChunkCoord, *meshing.Mesh) {}
func (nopRenderer) SetVisible(heightfield.ChunkCoord, bool) {}
func (nopRenderer) NewTexture([]color.RGBA, int, int) Texture { return nil }
