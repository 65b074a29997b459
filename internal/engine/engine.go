// Package engine assembles a World and its collaborators from a Config.
package engine

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"bloxx/internal/config"
	"bloxx/internal/meshing"
	"bloxx/internal/tasks"
	"bloxx/internal/world"
)

// Engine holds the world together with the executor it runs on.
type Engine struct {
	Config   config.Config
	World    *world.World
	Executor *tasks.Executor
	Stream   *config.StreamSettings
	Log      *slog.Logger
}

// New validates cfg and builds an engine. The caller must call Close.
func New(cfg config.Config, log *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}

	gen, err := NewGenerator(cfg)
	if err != nil {
		return nil, err
	}
	exec := tasks.New(cfg.Workers, cfg.QueueSize)
	w := world.New(gen, meshing.NewBuilder(cfg.GreedyMeshing), exec, world.Options{
		Logger:   log,
		AutoMesh: cfg.AutoMesh,
	})

	log.Info("engine ready",
		"seed", gen.Seed(),
		"workers", exec.Workers(),
		"noise", cfg.Noise,
		"greedy", cfg.GreedyMeshing,
	)
	return &Engine{
		Config:   cfg,
		World:    w,
		Executor: exec,
		Stream:   config.NewStreamSettings(cfg),
		Log:      log,
	}, nil
}

// NewGenerator builds the terrain generator described by cfg.
func NewGenerator(cfg config.Config) (*world.NoiseGenerator, error) {
	var sampler world.Sampler
	switch cfg.Noise {
	case "simplex":
		sampler = world.Simplex{}
	case "value":
		sampler = world.DefaultValueNoise()
	default:
		return nil, fmt.Errorf("%w: unknown noise %q", config.ErrInvalid, cfg.Noise)
	}
	return world.NewNoiseGenerator(cfg.Seed, sampler, cfg.NoiseFrequency, cfg.HeightScale, cfg.BaseHeight), nil
}

// Update streams chunks around the chunk containing world position (x, z),
// evicts the ones that drifted out of range and schedules pending meshes.
func (e *Engine) Update(x, z float64) {
	coord := world.ChunkOf(int(math.Floor(x)), int(math.Floor(z)))
	e.World.StreamAround(coord.X, coord.Z, e.Stream.LoadRadius())
	e.World.EvictFar(coord.X, coord.Z, e.Stream.EvictRadius())
	// Edits and evictions leave dirty chunks that generation never revisits.
	e.World.GenerateMeshes()
}

// Close waits for queued work and stops the executor.
func (e *Engine) Close() {
	e.World.Wait()
	e.Executor.Shutdown()
	e.Log.Info("engine stopped", "stats", fmt.Sprintf("%+v", e.World.Stats()))
}

// ParseLevel maps a config log level to a slog level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a text logger writing to out at the configured level.
func NewLogger(out io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: ParseLevel(level)}))
}
