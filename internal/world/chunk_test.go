package world

import (
	"fmt"
	"sync"
	"testing"
)

func TestNewChunkIsStone(t *testing.T) {
	c := NewChunk(2, -3)
	if c.X != 2 || c.Z != -3 {
		t.Fatalf("coordinates = (%d,%d), want (2,-3)", c.X, c.Z)
	}
	if c.IsReady() {
		t.Fatal("new chunk must not be ready")
	}
	for _, p := range [][3]int{{0, 0, 0}, {15, 255, 15}, {7, 128, 3}} {
		if b := c.GetBlock(p[0], p[1], p[2]); b != Stone {
			t.Errorf("block at %v = %v, want stone", p, b)
		}
	}
	if n := c.SolidCount(); n != ChunkVolume {
		t.Errorf("SolidCount = %d, want %d", n, ChunkVolume)
	}
}

func TestChunkSetGet(t *testing.T) {
	c := NewChunk(0, 0)
	c.SetBlock(1, 2, 3, "block:glass", TypeAir, 4)
	want := Block{ID: "block:glass", Type: TypeAir, Metadata: 4}
	if b := c.GetBlock(1, 2, 3); b != want {
		t.Fatalf("GetBlock = %+v, want %+v", b, want)
	}
	// Neighbouring cells are untouched.
	if b := c.GetBlock(2, 2, 3); b != Stone {
		t.Fatalf("neighbour changed to %v", b)
	}
	c.Set(1, 2, 3, Water)
	if b := c.GetBlock(1, 2, 3); b != Water {
		t.Fatalf("GetBlock after overwrite = %v, want water", b)
	}
}

func TestChunkIndexLayout(t *testing.T) {
	if got := index(1, 0, 0); got != 1 {
		t.Errorf("index(1,0,0) = %d", got)
	}
	if got := index(0, 1, 0); got != ChunkWidth {
		t.Errorf("index(0,1,0) = %d", got)
	}
	if got := index(0, 0, 1); got != ChunkWidth*ChunkHeight {
		t.Errorf("index(0,0,1) = %d", got)
	}
	if got := index(15, 255, 15); got != ChunkVolume-1 {
		t.Errorf("index(15,255,15) = %d", got)
	}
}

func TestChunkOutOfRangePanics(t *testing.T) {
	cases := [][3]int{{-1, 0, 0}, {16, 0, 0}, {0, -1, 0}, {0, 256, 0}, {0, 0, -1}, {0, 0, 16}}
	for _, p := range cases {
		t.Run(fmt.Sprint(p), func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("GetBlock%v did not panic", p)
				}
			}()
			NewChunk(0, 0).GetBlock(p[0], p[1], p[2])
		})
	}
	t.Run("set", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("Set out of range did not panic")
			}
		}()
		NewChunk(0, 0).Set(0, ChunkHeight, 0, Air)
	})
}

func TestChunkPaletteSharesEntries(t *testing.T) {
	c := NewChunk(0, 0)
	for x := 0; x < ChunkWidth; x++ {
		c.Set(x, 10, 0, Air)
		c.Set(x, 11, 0, Water)
	}
	if n := c.PaletteSize(); n != 3 {
		t.Fatalf("PaletteSize = %d, want 3", n)
	}
}

func TestChunkPaletteCompacts(t *testing.T) {
	c := NewChunk(0, 0)
	// Reuse one cell for many distinct blocks; old entries become garbage.
	for i := 0; i < maxPalette+10; i++ {
		c.SetBlock(0, 0, 0, "block:test", TypeSolid, uint8(i%7))
		c.SetBlock(1, 0, 0, fmt.Sprintf("block:%d", i), TypeSolid, 0)
	}
	if n := c.PaletteSize(); n >= maxPalette {
		t.Fatalf("palette not compacted: %d entries", n)
	}
	want := Block{ID: fmt.Sprintf("block:%d", maxPalette+9), Type: TypeSolid}
	if b := c.GetBlock(1, 0, 0); b != want {
		t.Fatalf("block after compaction = %v, want %v", b, want)
	}
	if b := c.GetBlock(5, 5, 5); b != Stone {
		t.Fatalf("untouched cell = %v, want stone", b)
	}
}

func TestChunkFill(t *testing.T) {
	c := NewChunk(0, 0)
	c.Set(3, 3, 3, Water)
	c.Fill(Air)
	if n := c.SolidCount(); n != 0 {
		t.Fatalf("SolidCount after Fill(Air) = %d", n)
	}
	if n := c.PaletteSize(); n != 1 {
		t.Fatalf("PaletteSize after Fill = %d, want 1", n)
	}
}

func TestChunkReadyIsOneWay(t *testing.T) {
	c := NewChunk(0, 0)
	if c.SetReady(false) {
		t.Fatal("SetReady(false) on a fresh chunk reported a change")
	}
	if !c.SetReady(true) {
		t.Fatal("SetReady(true) did not report a change")
	}
	if c.SetReady(true) {
		t.Fatal("second SetReady(true) reported a change")
	}
	if c.SetReady(false); !c.IsReady() {
		t.Fatal("SetReady(false) cleared readiness")
	}
}

func TestChunkConcurrentAccess(t *testing.T) {
	c := NewChunk(0, 0)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				x, z := i%ChunkWidth, w
				c.Set(x, i%ChunkHeight, z, NewBlock("block:worker", TypeSolid, uint8(w)))
				_ = c.GetBlock(x, (i+1)%ChunkHeight, z)
			}
		}(w)
	}
	wg.Wait()
	if b := c.GetBlock(0, 0, 3); b.ID != "block:worker" || b.Metadata != 3 {
		t.Fatalf("block written by worker 3 = %v", b)
	}
}

func TestBlockClassification(t *testing.T) {
	cases := []struct {
		b     Block
		solid bool
	}{
		{Stone, true},
		{Air, false},
		{Water, false},
		{NewBlock("block:cow", TypeEntity, 0), false},
		{NewBlock("block:dirt", TypeSolid, 2), true},
	}
	for _, tc := range cases {
		if tc.b.IsSolid() != tc.solid {
			t.Errorf("%v.IsSolid() = %v", tc.b, !tc.solid)
		}
		if tc.b.IsTransparent() == tc.solid {
			t.Errorf("%v.IsTransparent() = %v", tc.b, tc.solid)
		}
	}
	if s := NewBlock("block:dirt", TypeSolid, 2).String(); s != "block:dirt:2" {
		t.Errorf("String() = %q", s)
	}
	if s := TypeWater.String(); s != "water" {
		t.Errorf("TypeWater.String() = %q", s)
	}
}
