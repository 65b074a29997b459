package world

// ChunkCoord identifies a chunk column in the 2D chunk grid.
type ChunkCoord struct {
	X, Z int
}

// Direction names one of the four horizontal chunk neighbours.
type Direction int

const (
	DirLeft  Direction = iota // -X
	DirRight                  // +X
	DirFront                  // +Z
	DirBack                   // -Z
)

// Directions lists the horizontal neighbours in a fixed order.
var Directions = [4]Direction{DirLeft, DirRight, DirFront, DirBack}

// Neighbor returns the coordinate of the adjacent chunk in direction d.
func (c ChunkCoord) Neighbor(d Direction) ChunkCoord {
	switch d {
	case DirLeft:
		return ChunkCoord{X: c.X - 1, Z: c.Z}
	case DirRight:
		return ChunkCoord{X: c.X + 1, Z: c.Z}
	case DirFront:
		return ChunkCoord{X: c.X, Z: c.Z + 1}
	default:
		return ChunkCoord{X: c.X, Z: c.Z - 1}
	}
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// mod returns a non-negative remainder for positive b.
func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// WorldToChunk splits a world-space block position into the owning chunk
// coordinate and the position inside that chunk. y is never chunked.
func WorldToChunk(x, y, z int) (chunk ChunkCoord, lx, ly, lz int) {
	chunk = ChunkCoord{X: floorDiv(x, ChunkWidth), Z: floorDiv(z, ChunkDepth)}
	return chunk, mod(x, ChunkWidth), y, mod(z, ChunkDepth)
}

// ChunkToWorld is the inverse of WorldToChunk.
func ChunkToWorld(chunk ChunkCoord, lx, ly, lz int) (x, y, z int) {
	return chunk.X*ChunkWidth + lx, ly, chunk.Z*ChunkDepth + lz
}

// ChunkOf returns the chunk coordinate owning world column (x, z).
func ChunkOf(x, z int) ChunkCoord {
	return ChunkCoord{X: floorDiv(x, ChunkWidth), Z: floorDiv(z, ChunkDepth)}
}
