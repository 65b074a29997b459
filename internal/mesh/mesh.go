package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is the interleaved vertex layout uploaded to the GPU:
// position (3 floats), normal (3 floats), texture coordinates (2 floats).
type Vertex struct {
	Position  mgl32.Vec3
	Normal    mgl32.Vec3
	TexCoords mgl32.Vec2
}

// VertexStride is the size of a Vertex in bytes.
const VertexStride = 8 * 4

// Attribute byte offsets inside a Vertex.
const (
	PositionOffset  = 0
	NormalOffset    = 3 * 4
	TexCoordsOffset = 6 * 4
)

// Mesh is an indexed triangle list. Once handed to a World it is never
// modified; rebuilding a chunk produces a new Mesh.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// New returns an empty mesh with room for the given number of quads.
func New(quads int) *Mesh {
	return &Mesh{
		Vertices: make([]Vertex, 0, quads*4),
		Indices:  make([]uint32, 0, quads*6),
	}
}

// quadIndices is the triangle order for one quad: 0,1,2 and 2,3,0.
var quadIndices = [6]uint32{0, 1, 2, 2, 3, 0}

// AddQuad appends four corners and the two triangles joining them.
// Corners must be counter-clockwise as seen from the side normal points to.
func (m *Mesh) AddQuad(corners [4]mgl32.Vec3, normal mgl32.Vec3, uvs [4]mgl32.Vec2) {
	base := uint32(len(m.Vertices))
	for i := range corners {
		m.Vertices = append(m.Vertices, Vertex{Position: corners[i], Normal: normal, TexCoords: uvs[i]})
	}
	for _, i := range quadIndices {
		m.Indices = append(m.Indices, base+i)
	}
}

// FaceCount returns the number of quads in the mesh.
func (m *Mesh) FaceCount() int {
	return len(m.Indices) / 6
}

// Empty reports whether the mesh has no geometry.
func (m *Mesh) Empty() bool {
	return m == nil || len(m.Indices) == 0
}
