package heightfield

import "github.com/go-gl/mathgl/mgl64"

const (
	// Resolution is the number of samples along each chunk edge. 241-1 = 240
	// is divisible by every mesh stride 2,4,...,12, so every LOD keeps the
	// border samples and neighbouring chunks never crack.
	Resolution = 241
	// ChunkSize is the world-space edge length of one chunk.
	ChunkSize = Resolution - 1
)

// ChunkCoord identifies a tile on the infinite chunk grid.
type ChunkCoord struct {
	X, Y int
}

// Origin returns the world-space centre of the chunk for the given edge length.
func (c ChunkCoord) Origin(chunkSize int) mgl64.Vec2 {
	return mgl64.Vec2{float64(c.X * chunkSize), float64(c.Y * chunkSize)}
}
