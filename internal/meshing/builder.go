package meshing

import (
	"sort"

	"bloxx/internal/mesh"
	"bloxx/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Builder converts chunks into meshes containing only visible faces.
type Builder struct {
	// Greedy merges coplanar faces of identical blocks into larger quads.
	Greedy bool
}

// NewBuilder creates a mesh builder.
func NewBuilder(greedy bool) *Builder {
	return &Builder{Greedy: greedy}
}

// Build meshes n.Center, consulting the neighbours for faces on the chunk
// border. A missing neighbour counts as transparent so the edge of loaded
// terrain stays closed. The world floor and ceiling count as opaque.
func (b *Builder) Build(n world.Neighborhood) *mesh.Mesh {
	if n.Center == nil {
		return mesh.New(0)
	}
	unlock := readLock(n)
	defer unlock()

	if b.Greedy {
		return buildGreedy(n)
	}
	return buildFaces(n)
}

// readLock read-locks every chunk of the neighbourhood. Locks are always
// taken in (X, Z) order; builds of adjacent chunks share locks.
func readLock(n world.Neighborhood) func() {
	locked := make([]*world.Chunk, 0, 5)
	for _, c := range []*world.Chunk{n.Center, n.Left, n.Right, n.Front, n.Back} {
		if c != nil {
			locked = append(locked, c)
		}
	}
	sort.Slice(locked, func(i, j int) bool {
		if locked[i].X != locked[j].X {
			return locked[i].X < locked[j].X
		}
		return locked[i].Z < locked[j].Z
	})
	for _, c := range locked {
		c.RLock()
	}
	return func() {
		for _, c := range locked {
			c.RUnlock()
		}
	}
}

// solidAt reports whether the cell at local coordinates relative to
// n.Center is solid. Coordinates may step one cell past a horizontal edge.
func solidAt(n world.Neighborhood, x, y, z int) bool {
	if y < 0 || y >= world.ChunkHeight {
		return true
	}
	c := n.Center
	switch {
	case x < 0:
		c, x = n.Left, x+world.ChunkWidth
	case x >= world.ChunkWidth:
		c, x = n.Right, x-world.ChunkWidth
	case z < 0:
		c, z = n.Back, z+world.ChunkDepth
	case z >= world.ChunkDepth:
		c, z = n.Front, z-world.ChunkDepth
	}
	if c == nil {
		return false
	}
	return c.At(x, y, z).IsSolid()
}

// faceVisible reports whether face f of the solid block at (x, y, z) shows.
func faceVisible(n world.Neighborhood, f Face, x, y, z int) bool {
	fd := &faceDefs[f]
	return !solidAt(n, x+fd.dx, y+fd.dy, z+fd.dz)
}

// emitFace appends face f of a box with the given world-space origin and
// size. size is 1 along the face normal.
func emitFace(m *mesh.Mesh, f Face, origin mgl32.Vec3, size [3]float32) {
	fd := &faceDefs[f]
	var corners [4]mgl32.Vec3
	for i, off := range fd.corners {
		corners[i] = mgl32.Vec3{
			origin[0] + off[0]*size[0],
			origin[1] + off[1]*size[1],
			origin[2] + off[2]*size[2],
		}
	}
	s, t := size[fd.sAxis], size[fd.tAxis]
	var uvs [4]mgl32.Vec2
	for i, uv := range faceUVs {
		uvs[i] = mgl32.Vec2{uv[0] * s, uv[1] * t}
	}
	m.AddQuad(corners, fd.normal, uvs)
}

func chunkOrigin(c *world.Chunk) (int, int) {
	return c.X * world.ChunkWidth, c.Z * world.ChunkDepth
}

// buildFaces emits one quad per visible block face.
func buildFaces(n world.Neighborhood) *mesh.Mesh {
	c := n.Center
	baseX, baseZ := chunkOrigin(c)
	m := mesh.New(256)
	unit := [3]float32{1, 1, 1}

	for z := range world.ChunkDepth {
		for y := range world.ChunkHeight {
			for x := range world.ChunkWidth {
				if !c.At(x, y, z).IsSolid() {
					continue
				}
				origin := mgl32.Vec3{float32(baseX + x), float32(y), float32(baseZ + z)}
				for _, f := range Faces {
					if faceVisible(n, f, x, y, z) {
						emitFace(m, f, origin, unit)
					}
				}
			}
		}
	}
	return m
}
