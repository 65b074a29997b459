package meshing

import (
	"bloxx/internal/mesh"
	"bloxx/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

var chunkDims = [3]int{world.ChunkWidth, world.ChunkHeight, world.ChunkDepth}

// buildGreedy performs 2D greedy meshing per face direction. Each layer
// along the face normal gets a mask of visible faces; runs of identical
// blocks are grown first along u, then along v, and emitted as one quad.
func buildGreedy(n world.Neighborhood) *mesh.Mesh {
	c := n.Center
	baseX, baseZ := chunkOrigin(c)
	m := mesh.New(64)

	for _, f := range Faces {
		fd := &faceDefs[f]
		a := fd.axis
		u := (a + 1) % 3
		v := (a + 2) % 3
		du, dv := chunkDims[u], chunkDims[v]

		mask := make([]world.Block, du*dv)
		visible := make([]bool, du*dv)

		for layer := 0; layer < chunkDims[a]; layer++ {
			clear(visible)
			var p [3]int
			p[a] = layer
			for j := 0; j < dv; j++ {
				for i := 0; i < du; i++ {
					p[u], p[v] = i, j
					b := c.At(p[0], p[1], p[2])
					if !b.IsSolid() || !faceVisible(n, f, p[0], p[1], p[2]) {
						continue
					}
					visible[j*du+i] = true
					mask[j*du+i] = b
				}
			}

			for j := 0; j < dv; j++ {
				for i := 0; i < du; {
					k := j*du + i
					if !visible[k] {
						i++
						continue
					}
					b := mask[k]

					// compute width
					w := 1
					for i+w < du && visible[k+w] && mask[k+w] == b {
						w++
					}
					// compute height
					h := 1
				grow:
					for j+h < dv {
						for q := 0; q < w; q++ {
							kk := (j+h)*du + i + q
							if !visible[kk] || mask[kk] != b {
								break grow
							}
						}
						h++
					}

					p[u], p[v] = i, j
					origin := mgl32.Vec3{float32(baseX + p[0]), float32(p[1]), float32(baseZ + p[2])}
					var size [3]float32
					size[a] = 1
					size[u] = float32(w)
					size[v] = float32(h)
					emitFace(m, f, origin, size)

					// zero-out mask region
					for jj := j; jj < j+h; jj++ {
						for ii := i; ii < i+w; ii++ {
							visible[jj*du+ii] = false
						}
					}
					i += w
				}
			}
		}
	}
	return m
}
