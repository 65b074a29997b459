package physics

import (
	"math"

	"bloxx/internal/profiling"
	"bloxx/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// MinReachDistance skips the cell the ray starts in.
const MinReachDistance = 0.1

// BlockSource is the read side of a world. World satisfies it.
type BlockSource interface {
	GetBlock(x, y, z int) (world.Block, bool)
}

// RaycastResult stores the result of a raycast operation
type RaycastResult struct {
	HitPosition      [3]int
	AdjacentPosition [3]int // last cell the ray crossed before the hit
	Distance         float32
	Hit              bool
}

// Raycast walks the cells pierced by the ray from start along direction and
// returns the first solid block between minDist and maxDist. Cells in absent
// or generating chunks are passed through.
func Raycast(start mgl32.Vec3, direction mgl32.Vec3, minDist, maxDist float32, src BlockSource) RaycastResult {
	defer profiling.Track("physics.Raycast")()
	if direction.Len() == 0 {
		return RaycastResult{}
	}
	direction = direction.Normalize()

	inf := float32(math.Inf(1))
	var cell, step [3]int
	var tMax, tDelta [3]float32
	for i := range 3 {
		cell[i] = int(math.Floor(float64(start[i])))
		switch {
		case direction[i] > 0:
			step[i] = 1
			tMax[i] = (float32(cell[i]+1) - start[i]) / direction[i]
			tDelta[i] = 1 / direction[i]
		case direction[i] < 0:
			step[i] = -1
			tMax[i] = (start[i] - float32(cell[i])) / -direction[i]
			tDelta[i] = -1 / direction[i]
		default:
			tMax[i], tDelta[i] = inf, inf
		}
	}

	prev := cell
	dist := float32(0)
	for dist <= maxDist {
		if dist >= minDist {
			if b, ok := src.GetBlock(cell[0], cell[1], cell[2]); ok && b.IsSolid() {
				return RaycastResult{
					HitPosition:      cell,
					AdjacentPosition: prev,
					Distance:         dist,
					Hit:              true,
				}
			}
		}

		// advance across the nearest cell boundary
		a := 0
		if tMax[1] < tMax[a] {
			a = 1
		}
		if tMax[2] < tMax[a] {
			a = 2
		}
		prev = cell
		cell[a] += step[a]
		dist = tMax[a]
		tMax[a] += tDelta[a]
	}
	return RaycastResult{}
}
