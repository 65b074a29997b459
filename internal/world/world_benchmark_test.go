package world

import (
	"testing"
)

func BenchmarkGenerateTerrain(b *testing.B) {
	g := NewGenerator(1)
	ch := NewChunk(0, 0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ch.GenerateTerrain(g)
	}
}

func BenchmarkHeightAt(b *testing.B) {
	g := NewGenerator(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.HeightAt(i%1024, (i*31)%1024)
	}
}

func BenchmarkChunkSetGet(b *testing.B) {
	ch := NewChunk(0, 0)
	blocks := []Block{Stone, Air, Water}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x, y, z := i%ChunkWidth, (i/ChunkWidth)%ChunkHeight, (i/7)%ChunkDepth
		ch.Set(x, y, z, blocks[i%len(blocks)])
		_ = ch.GetBlock(z, y, x)
	}
}
