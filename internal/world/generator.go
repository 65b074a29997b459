package world

import (
	"math"
)

// TerrainGenerator decides how many solid cells a world column holds.
type TerrainGenerator interface {
	HeightAt(worldX, worldZ int) int
}

// NoiseGenerator derives column heights from a 2D noise sampler.
type NoiseGenerator struct {
	seed       int64
	noise      Sampler
	frequency  float64
	scale      float64
	baseHeight float64
}

// NewGenerator creates a simplex heightmap generator with default settings.
func NewGenerator(seed int64) *NoiseGenerator {
	return NewNoiseGenerator(seed, Simplex{}, 0.1, 20, 16)
}

// NewNoiseGenerator creates a generator sampling noise at world column
// coordinates multiplied by frequency; the sample is multiplied by scale and
// offset by baseHeight.
func NewNoiseGenerator(seed int64, noise Sampler, frequency, scale, baseHeight float64) *NoiseGenerator {
	return &NoiseGenerator{
		seed:       seed,
		noise:      noise,
		frequency:  frequency,
		scale:      scale,
		baseHeight: baseHeight,
	}
}

// Seed returns the world seed the generator samples with.
func (g *NoiseGenerator) Seed() int64 {
	return g.seed
}

// HeightAt returns the column height in blocks, clamped to the chunk height.
func (g *NoiseGenerator) HeightAt(worldX, worldZ int) int {
	n := g.noise.Sample(float64(worldX)*g.frequency, float64(worldZ)*g.frequency, g.seed)
	h := int(math.Ceil(n*g.scale + g.baseHeight))
	return max(0, min(h, ChunkHeight))
}

// FlatGenerator produces a constant height everywhere.
type FlatGenerator struct {
	height int
}

// NewFlatGenerator creates a flat world generator.
func NewFlatGenerator(height int) *FlatGenerator {
	return &FlatGenerator{height: height}
}

// HeightAt implements TerrainGenerator.
func (g *FlatGenerator) HeightAt(_, _ int) int {
	return g.height
}
