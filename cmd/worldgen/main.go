// Command worldgen generates and meshes a square of chunks without a window
// and reports what it built.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"bloxx/internal/config"
	"bloxx/internal/engine"
	"bloxx/internal/profiling"

	"github.com/xlab/closer"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	seed := flag.Int64("seed", 0, "world seed (overrides the config)")
	radius := flag.Int("radius", -1, "chunk radius to generate (overrides load_radius)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			slog.Error("load config", "error", err)
			os.Exit(1)
		}
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *radius >= 0 {
		cfg.LoadRadius = *radius
	}

	log := engine.NewLogger(os.Stderr, cfg.LogLevel)
	eng, err := engine.New(cfg, log)
	if err != nil {
		log.Error("create engine", "error", err)
		os.Exit(1)
	}
	closer.Bind(eng.Close)
	defer closer.Close()

	start := time.Now()
	w := eng.World
	added := w.StreamAround(0, 0, cfg.LoadRadius)
	w.Wait()
	// Without auto meshing, and to pick up neighbours that finished late.
	for w.GenerateMeshes() > 0 {
		w.Wait()
	}

	faces := 0
	for _, coord := range w.Chunks().Coords() {
		if m, ok := w.GetMesh(coord.X, coord.Z); ok {
			faces += m.FaceCount()
		}
	}
	s := w.Stats()
	log.Info("world generated",
		"chunks", added,
		"meshes", s.Meshes,
		"faces", faces,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	fmt.Println(profiling.TopN(5))
}
