package meshing

import (
	"testing"

	"endless-terrain/internal/heightfield"
)

func BenchmarkBuildLOD0(b *testing.B) {
	hf, err := globalGenerator().Generate(heightfield.ChunkCoord{})
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Build(hf, 0)
	}
}

func BenchmarkBuildLOD4(b *testing.B) {
	hf, err := globalGenerator().Generate(heightfield.ChunkCoord{})
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Build(hf, 4)
	}
}
