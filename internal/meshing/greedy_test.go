package meshing

import (
	"math"
	"testing"

	"bloxx/internal/mesh"
	"bloxx/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// airChunk returns a ready chunk filled with air.
func airChunk(x, z int) *world.Chunk {
	c := world.NewChunk(x, z)
	c.Fill(world.Air)
	c.SetReady(true)
	return c
}

func solidChunk(x, z int) *world.Chunk {
	c := world.NewChunk(x, z)
	c.SetReady(true)
	return c
}

// quadArea returns the summed area of all quads in m.
func quadArea(m *mesh.Mesh) float32 {
	var area float32
	for q := 0; q < len(m.Vertices); q += 4 {
		v := m.Vertices[q : q+4]
		a := v[1].Position.Sub(v[0].Position)
		b := v[3].Position.Sub(v[0].Position)
		area += a.Cross(b).Len()
	}
	return area
}

func TestSingleBlockMesh(t *testing.T) {
	c := airChunk(0, 0)
	c.Set(5, 10, 5, world.Stone)
	for _, greedy := range []bool{false, true} {
		m := NewBuilder(greedy).Build(world.Neighborhood{Center: c})
		if len(m.Vertices) != 24 || len(m.Indices) != 36 {
			t.Fatalf("greedy=%v: got %d vertices, %d indices; want 24, 36", greedy, len(m.Vertices), len(m.Indices))
		}
	}
}

func TestSingleBlockNormals(t *testing.T) {
	c := airChunk(0, 0)
	c.Set(5, 10, 5, world.Stone)
	m := NewBuilder(false).Build(world.Neighborhood{Center: c})

	seen := map[mgl32.Vec3]int{}
	for q := 0; q < len(m.Vertices); q += 4 {
		seen[m.Vertices[q].Normal]++
	}
	for _, f := range Faces {
		if seen[f.Normal()] != 1 {
			t.Errorf("normal %v (%v) appears %d times, want 1", f.Normal(), f, seen[f.Normal()])
		}
	}
}

func TestFullyEnclosedChunkIsEmpty(t *testing.T) {
	n := world.Neighborhood{
		Center: solidChunk(0, 0),
		Left:   solidChunk(-1, 0),
		Right:  solidChunk(1, 0),
		Front:  solidChunk(0, 1),
		Back:   solidChunk(0, -1),
	}
	for _, greedy := range []bool{false, true} {
		m := NewBuilder(greedy).Build(n)
		if len(m.Vertices) != 0 || len(m.Indices) != 0 {
			t.Fatalf("greedy=%v: got %d vertices, %d indices; want none", greedy, len(m.Vertices), len(m.Indices))
		}
	}
}

func TestAirChunkIsEmpty(t *testing.T) {
	m := NewBuilder(false).Build(world.Neighborhood{Center: airChunk(0, 0)})
	if !m.Empty() {
		t.Fatalf("air chunk produced %d faces", m.FaceCount())
	}
	if m := NewBuilder(false).Build(world.Neighborhood{}); !m.Empty() {
		t.Fatal("empty neighbourhood produced geometry")
	}
}

func TestBoundaryWithoutNeighbor(t *testing.T) {
	cases := []struct {
		name   string
		x, z   int // block position in the center chunk
		nx, nz int // adjacent cell in the neighbour
		attach func(n *world.Neighborhood, c *world.Chunk)
		coord  [2]int
	}{
		{"left", 0, 7, 15, 7, func(n *world.Neighborhood, c *world.Chunk) { n.Left = c }, [2]int{-1, 0}},
		{"right", 15, 7, 0, 7, func(n *world.Neighborhood, c *world.Chunk) { n.Right = c }, [2]int{1, 0}},
		{"front", 7, 15, 7, 0, func(n *world.Neighborhood, c *world.Chunk) { n.Front = c }, [2]int{0, 1}},
		{"back", 7, 0, 7, 15, func(n *world.Neighborhood, c *world.Chunk) { n.Back = c }, [2]int{0, -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := airChunk(0, 0)
			c.Set(tc.x, 10, tc.z, world.Stone)

			alone := NewBuilder(false).Build(world.Neighborhood{Center: c})
			if alone.FaceCount() != 6 {
				t.Fatalf("without neighbour: %d faces, want 6", alone.FaceCount())
			}

			// An air neighbour keeps the face.
			n := world.Neighborhood{Center: c}
			tc.attach(&n, airChunk(tc.coord[0], tc.coord[1]))
			if got := NewBuilder(false).Build(n).FaceCount(); got != 6 {
				t.Fatalf("with air neighbour: %d faces, want 6", got)
			}

			other := airChunk(tc.coord[0], tc.coord[1])
			other.Set(tc.nx, 10, tc.nz, world.Stone)
			n = world.Neighborhood{Center: c}
			tc.attach(&n, other)
			culled := NewBuilder(false).Build(n)
			if dv := len(alone.Vertices) - len(culled.Vertices); dv != 4 {
				t.Fatalf("solid neighbour removed %d vertices, want 4", dv)
			}
			if di := len(alone.Indices) - len(culled.Indices); di != 6 {
				t.Fatalf("solid neighbour removed %d indices, want 6", di)
			}
		})
	}
}

func TestVerticalBoundsCulled(t *testing.T) {
	c := airChunk(0, 0)
	c.Set(3, 0, 3, world.Stone)
	c.Set(3, world.ChunkHeight-1, 3, world.Stone)
	m := NewBuilder(false).Build(world.Neighborhood{Center: c})
	// Each block loses the face pointing out of the world.
	if got := m.FaceCount(); got != 10 {
		t.Fatalf("got %d faces, want 10", got)
	}
}

func TestWindingMatchesNormal(t *testing.T) {
	c := airChunk(0, 0)
	c.Set(5, 10, 5, world.Stone)
	c.Set(6, 10, 5, world.Stone)
	c.Set(6, 11, 5, world.Stone)
	for _, greedy := range []bool{false, true} {
		m := NewBuilder(greedy).Build(world.Neighborhood{Center: c})
		for i := 0; i < len(m.Indices); i += 3 {
			a := m.Vertices[m.Indices[i]]
			b := m.Vertices[m.Indices[i+1]]
			d := m.Vertices[m.Indices[i+2]]
			n := b.Position.Sub(a.Position).Cross(d.Position.Sub(a.Position)).Normalize()
			if !n.ApproxEqual(a.Normal) {
				t.Fatalf("greedy=%v: triangle %d winds to %v, normal is %v", greedy, i/3, n, a.Normal)
			}
		}
	}
}

func TestQuadIndexPattern(t *testing.T) {
	c := airChunk(0, 0)
	c.Set(5, 10, 5, world.Stone)
	m := NewBuilder(false).Build(world.Neighborhood{Center: c})
	for q := 0; q < m.FaceCount(); q++ {
		base := uint32(q * 4)
		want := []uint32{base, base + 1, base + 2, base + 2, base + 3, base}
		for k, w := range want {
			if m.Indices[q*6+k] != w {
				t.Fatalf("quad %d indices = %v, want %v", q, m.Indices[q*6:q*6+6], want)
			}
		}
	}
}

func TestWorldSpacePositions(t *testing.T) {
	c := airChunk(2, -1)
	c.Set(0, 10, 0, world.Stone)
	m := NewBuilder(false).Build(world.Neighborhood{Center: c})

	lo := mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	hi := mgl32.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	for _, v := range m.Vertices {
		for k := range 3 {
			lo[k] = min(lo[k], v.Position[k])
			hi[k] = max(hi[k], v.Position[k])
		}
	}
	if want := (mgl32.Vec3{32, 10, -16}); lo != want {
		t.Fatalf("min corner = %v, want %v", lo, want)
	}
	if want := (mgl32.Vec3{33, 11, -15}); hi != want {
		t.Fatalf("max corner = %v, want %v", hi, want)
	}
}

func TestTwoBlocksSeparated(t *testing.T) {
	c := airChunk(0, 0)
	// Two blocks with a gap (non-touching)
	c.Set(2, 10, 2, world.Stone)
	c.Set(4, 10, 2, world.Stone)
	m := NewBuilder(true).Build(world.Neighborhood{Center: c})
	if got := m.FaceCount(); got != 12 {
		t.Fatalf("two separated blocks: got %d quads, want 12", got)
	}
}

func TestTwoBlocksTouchingGreedy(t *testing.T) {
	c := airChunk(0, 0)
	// Two adjacent blocks along X
	c.Set(2, 10, 2, world.Stone)
	c.Set(3, 10, 2, world.Stone)

	if got := NewBuilder(false).Build(world.Neighborhood{Center: c}).FaceCount(); got != 10 {
		t.Fatalf("per-face: got %d quads, want 10", got)
	}
	// Union is a 2x1x1 cuboid => 6 quads
	m := NewBuilder(true).Build(world.Neighborhood{Center: c})
	if got := m.FaceCount(); got != 6 {
		t.Fatalf("greedy: got %d quads, want 6", got)
	}
	if got := quadArea(m); got != 10 {
		t.Fatalf("greedy surface area = %v, want 10", got)
	}
}

func TestGreedyDoesNotMergeDifferentBlocks(t *testing.T) {
	c := airChunk(0, 0)
	c.Set(2, 10, 2, world.Stone)
	c.Set(3, 10, 2, world.NewBlock("block:dirt", world.TypeSolid, 0))
	m := NewBuilder(true).Build(world.Neighborhood{Center: c})
	// Only the end caps stay single; the four long sides split in two.
	if got := m.FaceCount(); got != 10 {
		t.Fatalf("got %d quads, want 10", got)
	}
}

func TestGreedyFlatChunk(t *testing.T) {
	c := world.NewChunk(0, 0)
	c.GenerateTerrain(world.NewFlatGenerator(5))
	c.SetReady(true)
	m := NewBuilder(true).Build(world.Neighborhood{Center: c})
	// One top quad and one quad per side.
	if got := m.FaceCount(); got != 5 {
		t.Fatalf("got %d quads, want 5", got)
	}
	if got, want := quadArea(m), float32(256+4*16*5); got != want {
		t.Fatalf("surface area = %v, want %v", got, want)
	}
}

func TestGreedyMatchesPerFaceArea(t *testing.T) {
	c := world.NewChunk(0, 0)
	c.GenerateTerrain(world.NewGenerator(21))
	c.SetReady(true)
	right := world.NewChunk(1, 0)
	right.GenerateTerrain(world.NewGenerator(21))
	right.SetReady(true)
	n := world.Neighborhood{Center: c, Right: right}

	plain := NewBuilder(false).Build(n)
	greedy := NewBuilder(true).Build(n)
	if greedy.FaceCount() > plain.FaceCount() {
		t.Fatalf("greedy emitted more quads (%d) than per-face (%d)", greedy.FaceCount(), plain.FaceCount())
	}
	if a, b := quadArea(plain), quadArea(greedy); a != b {
		t.Fatalf("surface area differs: per-face %v, greedy %v", a, b)
	}
}

func TestGreedyTexCoordsRepeat(t *testing.T) {
	c := airChunk(0, 0)
	c.Set(2, 10, 2, world.Stone)
	c.Set(3, 10, 2, world.Stone)
	c.Set(4, 10, 2, world.Stone)
	m := NewBuilder(true).Build(world.Neighborhood{Center: c})

	for q := 0; q < len(m.Vertices); q += 4 {
		if m.Vertices[q].Normal != FaceTop.Normal() {
			continue
		}
		var maxUV mgl32.Vec2
		for _, v := range m.Vertices[q : q+4] {
			maxUV[0] = max(maxUV[0], v.TexCoords[0])
			maxUV[1] = max(maxUV[1], v.TexCoords[1])
		}
		if maxUV[0]*maxUV[1] != 3 {
			t.Fatalf("top quad texture extent = %v, want 3 tiles", maxUV)
		}
		return
	}
	t.Fatal("no top quad emitted")
}

func TestCrossChunkFaceCulling(t *testing.T) {
	c := airChunk(0, 0)
	// Place one block at the +X edge of the chunk and its neighbour in the next chunk
	c.Set(15, 10, 4, world.Stone)
	right := airChunk(1, 0)
	right.Set(0, 10, 4, world.Stone)

	for _, greedy := range []bool{false, true} {
		b := NewBuilder(greedy)
		if got := b.Build(world.Neighborhood{Center: c, Right: right}).FaceCount(); got != 5 {
			t.Fatalf("greedy=%v: center has %d faces, want 5", greedy, got)
		}
		if got := b.Build(world.Neighborhood{Center: right, Left: c}).FaceCount(); got != 5 {
			t.Fatalf("greedy=%v: neighbour has %d faces, want 5", greedy, got)
		}
	}
}
