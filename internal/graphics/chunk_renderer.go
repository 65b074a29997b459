package graphics

import (
	"bloxx/internal/mesh"
	"bloxx/internal/profiling"
	"bloxx/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

const chunkVertexShader = `#version 410 core
layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aNormal;
layout(location = 2) in vec2 aTexCoords;
uniform mat4 view;
uniform mat4 proj;
out vec3 Normal;
out vec2 TexCoords;
void main() {
	Normal = aNormal;
	TexCoords = aTexCoords;
	gl_Position = proj * view * vec4(aPos, 1.0);
}
`

const chunkFragmentShader = `#version 410 core
in vec3 Normal;
in vec2 TexCoords;
uniform vec3 color;
uniform vec3 lightDir;
out vec4 FragColor;
void main() {
	vec3 n = normalize(Normal);
	float diff = max(dot(n, -lightDir), 0.3);
	vec2 f = fract(TexCoords);
	float edge = step(0.04, min(min(f.x, f.y), min(1.0 - f.x, 1.0 - f.y)));
	FragColor = vec4(color * diff * mix(0.8, 1.0, edge), 1.0);
}
`

type gpuMesh struct {
	source     *mesh.Mesh
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

func (g *gpuMesh) delete() {
	gl.DeleteVertexArrays(1, &g.vao)
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteBuffers(1, &g.ebo)
}

// ChunkRenderer draws chunk meshes. It implements world.Drawer and must be
// used from the goroutine owning the GL context.
type ChunkRenderer struct {
	shader *Shader
	meshes map[world.ChunkCoord]*gpuMesh
	seen   map[world.ChunkCoord]bool

	Color    mgl32.Vec3
	LightDir mgl32.Vec3
}

// NewChunkRenderer creates a renderer; call Init once a GL context exists.
func NewChunkRenderer() *ChunkRenderer {
	return &ChunkRenderer{
		meshes:   make(map[world.ChunkCoord]*gpuMesh),
		seen:     make(map[world.ChunkCoord]bool),
		Color:    mgl32.Vec3{0.55, 0.55, 0.6},
		LightDir: mgl32.Vec3{-0.4, -1, -0.3}.Normalize(),
	}
}

// Init compiles the chunk shader.
func (r *ChunkRenderer) Init() error {
	s, err := NewShader(chunkVertexShader, chunkFragmentShader)
	if err != nil {
		return err
	}
	r.shader = s
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	return nil
}

// BeginFrame binds the shader and uploads per-frame uniforms.
func (r *ChunkRenderer) BeginFrame(view, proj mgl32.Mat4) {
	clear(r.seen)
	r.shader.Use()
	r.shader.SetMatrix4("view", view)
	r.shader.SetMatrix4("proj", proj)
	r.shader.SetVector3("color", r.Color)
	r.shader.SetVector3("lightDir", r.LightDir)
}

// DrawMesh uploads m if it changed since the last frame and draws it.
func (r *ChunkRenderer) DrawMesh(coord world.ChunkCoord, m *mesh.Mesh) {
	r.seen[coord] = true
	g := r.meshes[coord]
	if g == nil || g.source != m {
		if g != nil {
			g.delete()
		}
		g = upload(m)
		r.meshes[coord] = g
	}
	if g.indexCount == 0 {
		return
	}
	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil)
}

// EndFrame frees GPU buffers of chunks that were not drawn this frame.
func (r *ChunkRenderer) EndFrame() {
	gl.BindVertexArray(0)
	for coord, g := range r.meshes {
		if !r.seen[coord] {
			g.delete()
			delete(r.meshes, coord)
		}
	}
}

// Dispose releases every GL resource.
func (r *ChunkRenderer) Dispose() {
	for coord, g := range r.meshes {
		g.delete()
		delete(r.meshes, coord)
	}
	if r.shader != nil {
		r.shader.Delete()
	}
}

func upload(m *mesh.Mesh) *gpuMesh {
	defer profiling.Track("graphics.upload")()

	g := &gpuMesh{source: m}
	if m.Empty() {
		return g
	}
	gl.GenVertexArrays(1, &g.vao)
	gl.GenBuffers(1, &g.vbo)
	gl.GenBuffers(1, &g.ebo)

	gl.BindVertexArray(g.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*mesh.VertexStride, gl.Ptr(m.Vertices), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	// Position (location = 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, mesh.VertexStride, mesh.PositionOffset)
	// Normal (location = 1)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, mesh.VertexStride, mesh.NormalOffset)
	// Texture coordinates (location = 2)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, mesh.VertexStride, mesh.TexCoordsOffset)

	gl.BindVertexArray(0)
	g.indexCount = int32(len(m.Indices))
	return g
}
