package config

import (
	"math"
	"sync"
)

// StreamSettings holds the streaming radii that can change while running.
type StreamSettings struct {
	mu          sync.RWMutex
	loadRadius  int // in chunks
	evictRadius int // 0 = derived from loadRadius
}

const (
	minLoadRadius = 1
	maxLoadRadius = 32
)

// NewStreamSettings creates settings from a config.
func NewStreamSettings(cfg Config) *StreamSettings {
	s := &StreamSettings{evictRadius: cfg.EvictRadius}
	s.SetLoadRadius(cfg.LoadRadius)
	return s
}

// LoadRadius returns the current load radius in chunks.
func (s *StreamSettings) LoadRadius() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadRadius
}

// SetLoadRadius sets the load radius in chunks.
func (s *StreamSettings) SetLoadRadius(radius int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Clamp to reasonable values
	radius = max(radius, minLoadRadius)
	radius = min(radius, maxLoadRadius)

	s.loadRadius = radius
}

// EvictRadius returns the circular radius beyond which chunks are dropped.
// Loading covers a square, so the result always reaches the square's
// corners: at least ceil(load * sqrt 2).
func (s *StreamSettings) EvictRadius() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.evictRadius == 0 {
		return s.loadRadius * 2
	}
	return max(s.evictRadius, coverRadius(s.loadRadius))
}

// coverRadius is the smallest circle radius containing a square of the
// given half-width.
func coverRadius(halfWidth int) int {
	return int(math.Ceil(float64(halfWidth) * math.Sqrt2))
}
