package world

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"bloxx/internal/mesh"
	"bloxx/internal/profiling"
	"bloxx/internal/tasks"
)

// MeshBuilder turns a chunk and its currently known neighbours into a mesh.
type MeshBuilder interface {
	Build(n Neighborhood) *mesh.Mesh
}

// Executor runs background work for the world.
type Executor interface {
	Submit(fn func()) *tasks.Handle
	Wait()
}

// Drawer consumes stored chunk meshes, typically by issuing draw calls.
type Drawer interface {
	DrawMesh(coord ChunkCoord, m *mesh.Mesh)
}

// Neighborhood is a chunk plus its edge-adjacent neighbours. A nil neighbour
// is absent or not yet ready.
type Neighborhood struct {
	Center *Chunk
	Left   *Chunk // -X
	Right  *Chunk // +X
	Front  *Chunk // +Z
	Back   *Chunk // -Z
}

// Neighbor returns the neighbour in direction d, or nil.
func (n Neighborhood) Neighbor(d Direction) *Chunk {
	switch d {
	case DirLeft:
		return n.Left
	case DirRight:
		return n.Right
	case DirFront:
		return n.Front
	default:
		return n.Back
	}
}

// Options tune a World.
type Options struct {
	Logger *slog.Logger
	// AutoMesh makes every finished generation task schedule a mesh pass.
	AutoMesh bool
}

type meshEntry struct {
	mesh  *mesh.Mesh
	epoch uint64
}

// Stats is a point-in-time summary of the world.
type Stats struct {
	Chunks    int
	Ready     int
	Meshes    int
	Dirty     int
	Generated uint64
	Meshed    uint64
}

// World owns the chunk map and the per-chunk meshes and schedules terrain
// generation and meshing on an executor.
type World struct {
	gen      TerrainGenerator
	builder  MeshBuilder
	exec     Executor
	log      *slog.Logger
	autoMesh bool

	chunks *ChunkStore

	meshMu sync.RWMutex
	meshes map[ChunkCoord]meshEntry

	// dirty holds coordinates whose mesh must be rebuilt, keyed to the
	// epoch of the latest invalidation.
	dirtyMu sync.Mutex
	dirty   map[ChunkCoord]uint64
	epoch   atomic.Uint64

	generated atomic.Uint64
	meshed    atomic.Uint64
}

// New creates an empty world.
func New(gen TerrainGenerator, builder MeshBuilder, exec Executor, opts Options) *World {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &World{
		gen:      gen,
		builder:  builder,
		exec:     exec,
		log:      log.With("component", "world"),
		autoMesh: opts.AutoMesh,
		chunks:   NewChunkStore(),
		meshes:   make(map[ChunkCoord]meshEntry),
		dirty:    make(map[ChunkCoord]uint64),
	}
}

// Chunks exposes the underlying chunk store.
func (w *World) Chunks() *ChunkStore {
	return w.chunks
}

// GetChunk returns the chunk at chunk coordinates (x, z). A returned chunk
// may still be generating; check IsReady.
func (w *World) GetChunk(x, z int) (*Chunk, bool) {
	return w.chunks.Get(ChunkCoord{X: x, Z: z})
}

func (w *World) readyChunk(coord ChunkCoord) (*Chunk, bool) {
	c, ok := w.chunks.Get(coord)
	if !ok || !c.IsReady() {
		return nil, false
	}
	return c, true
}

// AddChunk registers a chunk at (x, z) and schedules its generation. It does
// nothing and returns false if a chunk is already present there.
func (w *World) AddChunk(x, z int) bool {
	coord := ChunkCoord{X: x, Z: z}
	if w.chunks.Has(coord) {
		return false
	}
	c := NewChunk(x, z)
	if _, loaded := w.chunks.LoadOrStore(coord, c); loaded {
		return false
	}
	w.exec.Submit(func() { w.generate(c) })
	return true
}

func (w *World) generate(c *Chunk) {
	defer profiling.Track("world.generate")()

	c.GenerateTerrain(w.gen)
	c.SetReady(true)
	w.generated.Add(1)

	coord := c.Coord()
	if cur, ok := w.chunks.Get(coord); !ok || cur != c {
		w.log.Debug("chunk removed during generation", "x", coord.X, "z", coord.Z)
		return
	}

	w.markDirty(coord)
	w.markNeighborsDirty(coord)
	w.log.Debug("chunk generated", "x", coord.X, "z", coord.Z)

	if w.autoMesh {
		w.GenerateMeshes()
	}
}

// RemoveChunk drops the chunk at (x, z) and its mesh. Tasks already holding
// the chunk keep working on it but their results are discarded.
func (w *World) RemoveChunk(x, z int) bool {
	coord := ChunkCoord{X: x, Z: z}
	if _, ok := w.chunks.Delete(coord); !ok {
		return false
	}
	w.forget(coord)
	w.markNeighborsDirty(coord)
	w.log.Debug("chunk removed", "x", x, "z", z)
	return true
}

func (w *World) forget(coord ChunkCoord) {
	w.meshMu.Lock()
	delete(w.meshes, coord)
	w.meshMu.Unlock()

	w.dirtyMu.Lock()
	delete(w.dirty, coord)
	w.dirtyMu.Unlock()
}

// StreamAround requests every chunk within a square of the given radius
// around (cx, cz), nearest rings first. It returns the number of chunks added.
func (w *World) StreamAround(cx, cz, radius int) int {
	defer profiling.Track("world.StreamAround")()
	added := 0
	add := func(x, z int) {
		if w.AddChunk(x, z) {
			added++
		}
	}
	add(cx, cz)
	for r := 1; r <= radius; r++ {
		x0, x1 := cx-r, cx+r
		z0, z1 := cz-r, cz+r
		for x := x0; x <= x1; x++ {
			add(x, z0)
		}
		for z := z0 + 1; z <= z1-1; z++ {
			add(x1, z)
		}
		for x := x1; x >= x0; x-- {
			add(x, z1)
		}
		for z := z1 - 1; z >= z0+1; z-- {
			add(x0, z)
		}
	}
	if added > 0 {
		w.log.Info("streaming chunks", "center_x", cx, "center_z", cz, "radius", radius, "added", added)
	}
	return added
}

// EvictFar removes every chunk outside the circle of the given radius around
// (cx, cz). It returns the number of chunks removed.
func (w *World) EvictFar(cx, cz, radius int) int {
	defer profiling.Track("world.EvictFar")()
	removed := w.chunks.EvictOutside(cx, cz, radius)
	for coord := range removed {
		w.forget(coord)
	}
	for coord := range removed {
		w.markNeighborsDirty(coord)
	}
	if len(removed) > 0 {
		w.log.Info("evicted chunks", "center_x", cx, "center_z", cz, "radius", radius, "removed", len(removed))
	}
	return len(removed)
}

// GetBlock returns the block at world coordinates. It reports false when the
// owning chunk is absent or not ready, or y is outside the world.
func (w *World) GetBlock(x, y, z int) (Block, bool) {
	if y < 0 || y >= ChunkHeight {
		return Block{}, false
	}
	coord, lx, ly, lz := WorldToChunk(x, y, z)
	c, ok := w.readyChunk(coord)
	if !ok {
		return Block{}, false
	}
	return c.GetBlock(lx, ly, lz), true
}

// SetBlock replaces the block at world coordinates and invalidates the
// affected meshes. It reports false when the owning chunk is absent or not
// ready, or y is outside the world.
func (w *World) SetBlock(x, y, z int, b Block) bool {
	if y < 0 || y >= ChunkHeight {
		return false
	}
	coord, lx, ly, lz := WorldToChunk(x, y, z)
	c, ok := w.readyChunk(coord)
	if !ok {
		return false
	}
	c.Set(lx, ly, lz, b)
	w.markDirty(coord)

	// A border cell also changes the neighbour's boundary faces.
	if lx == 0 {
		w.markDirtyIfReady(coord.Neighbor(DirLeft))
	} else if lx == ChunkWidth-1 {
		w.markDirtyIfReady(coord.Neighbor(DirRight))
	}
	if lz == 0 {
		w.markDirtyIfReady(coord.Neighbor(DirBack))
	} else if lz == ChunkDepth-1 {
		w.markDirtyIfReady(coord.Neighbor(DirFront))
	}
	return true
}

func (w *World) markDirty(coord ChunkCoord) {
	e := w.epoch.Add(1)
	w.dirtyMu.Lock()
	w.dirty[coord] = e
	w.dirtyMu.Unlock()
}

func (w *World) markDirtyIfReady(coord ChunkCoord) {
	if _, ok := w.readyChunk(coord); ok {
		w.markDirty(coord)
	}
}

func (w *World) markNeighborsDirty(coord ChunkCoord) {
	for _, d := range Directions {
		w.markDirtyIfReady(coord.Neighbor(d))
	}
}

// Neighborhood collects c and its ready neighbours.
func (w *World) Neighborhood(c *Chunk) Neighborhood {
	coord := c.Coord()
	n := Neighborhood{Center: c}
	n.Left, _ = w.readyChunk(coord.Neighbor(DirLeft))
	n.Right, _ = w.readyChunk(coord.Neighbor(DirRight))
	n.Front, _ = w.readyChunk(coord.Neighbor(DirFront))
	n.Back, _ = w.readyChunk(coord.Neighbor(DirBack))
	return n
}

// GenerateMeshes schedules a mesh build for every dirty, ready chunk and
// returns how many builds were scheduled. Dirty entries for chunks that are
// gone or still generating are dropped; those chunks mark themselves again
// once ready.
func (w *World) GenerateMeshes() int {
	defer profiling.Track("world.GenerateMeshes")()

	w.dirtyMu.Lock()
	batch := w.dirty
	w.dirty = make(map[ChunkCoord]uint64, len(batch))
	w.dirtyMu.Unlock()

	scheduled := 0
	for coord, epoch := range batch {
		c, ok := w.readyChunk(coord)
		if !ok {
			continue
		}
		scheduled++
		w.exec.Submit(func() { w.buildMesh(c, epoch) })
	}
	return scheduled
}

func (w *World) buildMesh(c *Chunk, epoch uint64) {
	defer profiling.Track("world.buildMesh")()

	m := w.builder.Build(w.Neighborhood(c))
	coord := c.Coord()

	w.meshMu.Lock()
	defer w.meshMu.Unlock()
	if cur, ok := w.chunks.Get(coord); !ok || cur != c {
		return
	}
	if prev, ok := w.meshes[coord]; ok && prev.epoch > epoch {
		return
	}
	w.meshes[coord] = meshEntry{mesh: m, epoch: epoch}
	w.meshed.Add(1)
	w.log.Debug("chunk meshed", "x", coord.X, "z", coord.Z, "faces", m.FaceCount())
}

// GetMesh returns the current mesh of the chunk at (x, z).
func (w *World) GetMesh(x, z int) (*mesh.Mesh, bool) {
	w.meshMu.RLock()
	e, ok := w.meshes[ChunkCoord{X: x, Z: z}]
	w.meshMu.RUnlock()
	return e.mesh, ok
}

// Draw hands every stored mesh to d and returns how many were drawn. The
// mesh map is not locked while d runs.
func (w *World) Draw(d Drawer) int {
	defer profiling.Track("world.Draw")()

	type item struct {
		coord ChunkCoord
		mesh  *mesh.Mesh
	}
	w.meshMu.RLock()
	items := make([]item, 0, len(w.meshes))
	for coord, e := range w.meshes {
		items = append(items, item{coord: coord, mesh: e.mesh})
	}
	w.meshMu.RUnlock()

	for _, it := range items {
		d.DrawMesh(it.coord, it.mesh)
	}
	return len(items)
}

// Wait blocks until the executor has finished all outstanding work.
func (w *World) Wait() {
	w.exec.Wait()
}

// Stats returns counters describing the world.
func (w *World) Stats() Stats {
	s := Stats{
		Generated: w.generated.Load(),
		Meshed:    w.meshed.Load(),
	}
	w.chunks.Range(func(_ ChunkCoord, c *Chunk) bool {
		s.Chunks++
		if c.IsReady() {
			s.Ready++
		}
		return true
	})
	w.meshMu.RLock()
	s.Meshes = len(w.meshes)
	w.meshMu.RUnlock()
	w.dirtyMu.Lock()
	s.Dirty = len(w.dirty)
	w.dirtyMu.Unlock()
	return s
}
