package world

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

const (
	// Chunk dimensions
	ChunkWidth  = 16
	ChunkHeight = 256
	ChunkDepth  = 16

	ChunkVolume = ChunkWidth * ChunkHeight * ChunkDepth

	maxPalette = math.MaxUint16
)

// Chunk is a 16x256x16 column of blocks. Cells hold indices into a small
// palette of Block values, so a cell never owns a heap allocation.
type Chunk struct {
	X, Z int

	mu      sync.RWMutex
	cells   []uint16
	palette []Block
	lookup  map[Block]uint16

	ready atomic.Bool
}

// NewChunk creates a chunk at the given chunk coordinates. Every cell starts
// out as stone until terrain generation overwrites it.
func NewChunk(x, z int) *Chunk {
	return &Chunk{
		X:       x,
		Z:       z,
		cells:   make([]uint16, ChunkVolume),
		palette: []Block{Stone},
		lookup:  map[Block]uint16{Stone: 0},
	}
}

// Coord returns the chunk's grid coordinate.
func (c *Chunk) Coord() ChunkCoord {
	return ChunkCoord{X: c.X, Z: c.Z}
}

// index linearizes local coordinates as x + y*W + z*W*H.
func index(x, y, z int) int {
	return x + y*ChunkWidth + z*ChunkWidth*ChunkHeight
}

// InBounds reports whether local coordinates address a cell of the chunk.
func InBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkWidth && y >= 0 && y < ChunkHeight && z >= 0 && z < ChunkDepth
}

func mustInBounds(x, y, z int) {
	if !InBounds(x, y, z) {
		panic(fmt.Sprintf("world: local coordinate (%d,%d,%d) outside chunk", x, y, z))
	}
}

// GetBlock returns the block at local coordinates. Out-of-range coordinates
// are a programming error and panic.
func (c *Chunk) GetBlock(x, y, z int) Block {
	mustInBounds(x, y, z)
	c.mu.RLock()
	b := c.palette[c.cells[index(x, y, z)]]
	c.mu.RUnlock()
	return b
}

// At is GetBlock without locking; the caller must hold RLock.
func (c *Chunk) At(x, y, z int) Block {
	mustInBounds(x, y, z)
	return c.palette[c.cells[index(x, y, z)]]
}

// RLock locks the chunk for a batch of At calls.
func (c *Chunk) RLock() { c.mu.RLock() }

// RUnlock releases a lock taken with RLock.
func (c *Chunk) RUnlock() { c.mu.RUnlock() }

// SetBlock replaces the block at local coordinates.
func (c *Chunk) SetBlock(x, y, z int, id string, t Type, metadata uint8) {
	c.Set(x, y, z, NewBlock(id, t, metadata))
}

// Set is SetBlock taking a Block value.
func (c *Chunk) Set(x, y, z int, b Block) {
	mustInBounds(x, y, z)
	c.mu.Lock()
	c.set(index(x, y, z), b)
	c.mu.Unlock()
}

// set writes a cell; c.mu must be held for writing.
func (c *Chunk) set(i int, b Block) {
	c.cells[i] = c.intern(b)
}

func (c *Chunk) intern(b Block) uint16 {
	if p, ok := c.lookup[b]; ok {
		return p
	}
	if len(c.palette) >= maxPalette {
		c.compact()
		if len(c.palette) >= maxPalette {
			panic(fmt.Sprintf("world: chunk (%d,%d) palette overflow", c.X, c.Z))
		}
	}
	p := uint16(len(c.palette))
	c.palette = append(c.palette, b)
	c.lookup[b] = p
	return p
}

// compact drops palette entries no cell refers to.
func (c *Chunk) compact() {
	used := make([]bool, len(c.palette))
	for _, p := range c.cells {
		used[p] = true
	}
	remap := make([]uint16, len(c.palette))
	palette := c.palette[:0:0]
	lookup := make(map[Block]uint16, len(c.palette))
	for i, b := range c.palette {
		if !used[i] {
			continue
		}
		remap[i] = uint16(len(palette))
		lookup[b] = remap[i]
		palette = append(palette, b)
	}
	for i, p := range c.cells {
		c.cells[i] = remap[p]
	}
	c.palette = palette
	c.lookup = lookup
}

// PaletteSize returns the number of distinct block values the chunk tracks.
func (c *Chunk) PaletteSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.palette)
}

// SolidCount counts solid cells.
func (c *Chunk) SolidCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	solid := make([]bool, len(c.palette))
	for i, b := range c.palette {
		solid[i] = b.IsSolid()
	}
	n := 0
	for _, p := range c.cells {
		if solid[p] {
			n++
		}
	}
	return n
}

// Fill sets every cell to b.
func (c *Chunk) Fill(b Block) {
	c.mu.Lock()
	c.palette = []Block{b}
	c.lookup = map[Block]uint16{b: 0}
	clear(c.cells)
	c.mu.Unlock()
}

// GenerateTerrain fills every column from y=0 up to the generator's height
// with stone and everything above it with air. The same generator and chunk
// coordinate always produce the same cells.
func (c *Chunk) GenerateTerrain(gen TerrainGenerator) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stone := c.intern(Stone)
	air := c.intern(Air)
	for bx := range ChunkWidth {
		for bz := range ChunkDepth {
			h := gen.HeightAt(c.X*ChunkWidth+bx, c.Z*ChunkDepth+bz)
			h = max(0, min(h, ChunkHeight))
			for by := range ChunkHeight {
				if by < h {
					c.cells[index(bx, by, bz)] = stone
				} else {
					c.cells[index(bx, by, bz)] = air
				}
			}
		}
	}
}

// IsReady reports whether terrain generation has finished. A true result
// also makes the generated cells visible to the caller.
func (c *Chunk) IsReady() bool {
	return c.ready.Load()
}

// SetReady marks the chunk ready. Readiness is one-way: SetReady(false) on a
// ready chunk is ignored. It reports whether the state changed.
func (c *Chunk) SetReady(ready bool) bool {
	if !ready {
		return false
	}
	return c.ready.CompareAndSwap(false, true)
}
