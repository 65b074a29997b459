package world

import (
	"sync"
	"sync/atomic"
)

const storeShards = 64

type storeShard struct {
	mu     sync.RWMutex
	chunks map[ChunkCoord]*Chunk
}

// ChunkStore maps chunk coordinates to chunks. The map is split into shards
// with independent locks; each lock is held only for the map operation.
type ChunkStore struct {
	shards   [storeShards]storeShard
	size     atomic.Int64
	modCount atomic.Uint64 // increases on any chunk add/remove
}

// NewChunkStore creates an empty chunk store.
func NewChunkStore() *ChunkStore {
	cs := &ChunkStore{}
	for i := range cs.shards {
		cs.shards[i].chunks = make(map[ChunkCoord]*Chunk)
	}
	return cs
}

func (cs *ChunkStore) shard(coord ChunkCoord) *storeShard {
	return &cs.shards[hash2(int64(coord.X), int64(coord.Z), 0)%storeShards]
}

// Get returns the chunk at coord, if any.
func (cs *ChunkStore) Get(coord ChunkCoord) (*Chunk, bool) {
	s := cs.shard(coord)
	s.mu.RLock()
	c, ok := s.chunks[coord]
	s.mu.RUnlock()
	return c, ok
}

// Has reports whether a chunk is stored at coord.
func (cs *ChunkStore) Has(coord ChunkCoord) bool {
	_, ok := cs.Get(coord)
	return ok
}

// LoadOrStore returns the existing chunk at coord if present. Otherwise it
// stores c and returns it. loaded is true when an existing chunk was found.
func (cs *ChunkStore) LoadOrStore(coord ChunkCoord, c *Chunk) (actual *Chunk, loaded bool) {
	s := cs.shard(coord)
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.chunks[coord]; ok {
		return existing, true
	}
	s.chunks[coord] = c
	cs.size.Add(1)
	cs.modCount.Add(1)
	return c, false
}

// Delete removes the chunk at coord and returns it.
func (cs *ChunkStore) Delete(coord ChunkCoord) (*Chunk, bool) {
	s := cs.shard(coord)
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chunks[coord]
	if !ok {
		return nil, false
	}
	delete(s.chunks, coord)
	cs.size.Add(-1)
	cs.modCount.Add(1)
	return c, true
}

// Range calls fn for every stored chunk until fn returns false. Shards are
// visited one at a time; fn must not modify the store.
func (cs *ChunkStore) Range(fn func(coord ChunkCoord, c *Chunk) bool) {
	for i := range cs.shards {
		s := &cs.shards[i]
		s.mu.RLock()
		for coord, c := range s.chunks {
			if !fn(coord, c) {
				s.mu.RUnlock()
				return
			}
		}
		s.mu.RUnlock()
	}
}

// Coords returns a snapshot of every stored coordinate.
func (cs *ChunkStore) Coords() []ChunkCoord {
	out := make([]ChunkCoord, 0, cs.Len())
	cs.Range(func(coord ChunkCoord, _ *Chunk) bool {
		out = append(out, coord)
		return true
	})
	return out
}

// Len returns the number of stored chunks.
func (cs *ChunkStore) Len() int {
	return int(cs.size.Load())
}

// ModCount returns the current modification count of the chunk map.
func (cs *ChunkStore) ModCount() uint64 {
	return cs.modCount.Load()
}

// EvictOutside removes chunks outside the circle of the given radius (in
// chunks) around (cx, cz) and returns what was removed.
func (cs *ChunkStore) EvictOutside(cx, cz, radius int) map[ChunkCoord]*Chunk {
	removed := make(map[ChunkCoord]*Chunk)
	for i := range cs.shards {
		s := &cs.shards[i]
		s.mu.Lock()
		for coord, c := range s.chunks {
			dx := coord.X - cx
			dz := coord.Z - cz
			if dx*dx+dz*dz > radius*radius {
				delete(s.chunks, coord)
				cs.size.Add(-1)
				cs.modCount.Add(1)
				removed[coord] = c
			}
		}
		s.mu.Unlock()
	}
	return removed
}
