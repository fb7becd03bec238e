package noise

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func BenchmarkSampleChunk(b *testing.B) {
	p := Params{Scale: 50, Octaves: 4, Persistence: 0.5, Lacunarity: 2, Normalize: Global}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Sample(1, 241, 241, mgl64.Vec2{}, p)
	}
}
