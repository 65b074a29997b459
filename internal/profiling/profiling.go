package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Lightweight CPU timing accumulator for background and frame work.

// Entry is the accumulated time and call count recorded under one name.
type Entry struct {
	Name  string
	Total time.Duration
	Calls int
}

var (
	mu      sync.Mutex
	entries = make(map[string]*Entry)
)

// Track returns a stop function that records the elapsed time under name.
// Usage: defer profiling.Track("world.generate")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		e := entries[name]
		if e == nil {
			e = &Entry{Name: name}
			entries[name] = e
		}
		e.Total += d
		e.Calls++
		mu.Unlock()
	}
}

// Reset clears all recorded entries.
func Reset() {
	mu.Lock()
	clear(entries)
	mu.Unlock()
}

// Snapshot returns a copy of the current entries, slowest first.
func Snapshot() []Entry {
	mu.Lock()
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, *e)
	}
	mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}

// TopN formats the n slowest entries.
// Example: "world.buildMesh:42.1ms/120, world.generate:12.0ms/64"
func TopN(n int) string {
	list := Snapshot()
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for _, e := range list[:n] {
		ms := float64(e.Total.Microseconds()) / 1000.0
		parts = append(parts, fmt.Sprintf("%s:%.1fms/%d", e.Name, ms, e.Calls))
	}
	return strings.Join(parts, ", ")
}
