package main

import (
	"flag"
	"log/slog"
	"math"
	"os"
	"runtime"
	"time"

	"bloxx/internal/config"
	"bloxx/internal/engine"
	"bloxx/internal/graphics"
	"bloxx/internal/physics"
	"bloxx/internal/profiling"
	"bloxx/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	seed := flag.Int64("seed", 0, "world seed (overrides the config)")
	fps := flag.Int("fps", 120, "frame rate cap, 0 for unlimited")
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

	log := engine.NewLogger(os.Stdout, cfg.LogLevel)

	eng, err := engine.New(cfg, log)
	if err != nil {
		log.Error("create engine", "error", err)
		os.Exit(1)
	}

	if err := glfw.Init(); err != nil {
		log.Error("init glfw", "error", err)
		eng.Close()
		os.Exit(1)
	}

	window, err := graphics.SetupWindow(900, 600, "bloxx")
	if err != nil {
		log.Error("create window", "error", err)
		glfw.Terminate()
		eng.Close()
		os.Exit(1)
	}

	r := graphics.NewChunkRenderer()
	if err := r.Init(); err != nil {
		log.Error("init renderer", "error", err)
		glfw.Terminate()
		eng.Close()
		os.Exit(1)
	}

	camera := graphics.NewCamera(window.GetFramebufferSize())
	camera.Target[1] = float32(cfg.BaseHeight)

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		gl.Viewport(0, 0, int32(width), int32(height))
		camera.SetViewport(width, height)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Release {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyEqual:
			eng.Stream.SetLoadRadius(eng.Stream.LoadRadius() + 1)
		case glfw.KeyMinus:
			eng.Stream.SetLoadRadius(eng.Stream.LoadRadius() - 1)
		}
	})

	window.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		editBlock(eng.World, camera, button, log)
	})

	// On SIGINT/SIGTERM the close hook stops the render loop and waits for
	// main to tear down; the engine is drained only once nothing submits.
	quit := make(chan struct{})
	stopped := make(chan struct{})
	closer.Bind(func() {
		select {
		case <-stopped:
		default:
			close(quit)
			<-stopped
		}
	})

	run(window, eng, r, camera, *fps, quit, log)

	r.Dispose()
	window.Destroy()
	glfw.Terminate()
	eng.Close()
	close(stopped)
	closer.Close()
}

func run(window *glfw.Window, eng *engine.Engine, r *graphics.ChunkRenderer, camera *graphics.Camera, fps int, quit <-chan struct{}, log *slog.Logger) {
	limiter := engine.NewFrameLimiter(fps)
	lastTime := time.Now()
	lastReport := time.Now()
	frames := 0

	gl.ClearColor(0.53, 0.75, 0.92, 1)

	for !window.ShouldClose() {
		select {
		case <-quit:
			return
		default:
		}

		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		moveCamera(window, camera, dt)
		func() {
			defer profiling.Track("engine.Update")()
			eng.Update(float64(camera.Target[0]), float64(camera.Target[2]))
		}()

		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		r.BeginFrame(camera.GetViewMatrix(), camera.GetProjectionMatrix())
		eng.World.Draw(r)
		r.EndFrame()
		frames++

		func() { defer profiling.Track("glfw.SwapBuffers")(); window.SwapBuffers() }()
		func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()

		if time.Since(lastReport) >= 5*time.Second {
			s := eng.World.Stats()
			log.Info("frame stats",
				"fps", float64(frames)/time.Since(lastReport).Seconds(),
				"chunks", s.Chunks,
				"ready", s.Ready,
				"meshes", s.Meshes,
				"pending", eng.Executor.Pending(),
				"top", profiling.TopN(4),
			)
			frames = 0
			lastReport = time.Now()
		}
		limiter.Wait()
	}
}

// moveCamera pans the orbit target with WASD and orbits with the arrow keys.
func moveCamera(window *glfw.Window, c *graphics.Camera, dt float32) {
	const (
		panSpeed   = 24 // blocks per second
		orbitSpeed = 1.5
	)
	fwdX := -float32(math.Cos(float64(c.Yaw)))
	fwdZ := -float32(math.Sin(float64(c.Yaw)))
	pressed := func(k glfw.Key) bool { return window.GetKey(k) == glfw.Press }

	if pressed(glfw.KeyW) {
		c.Target[0] += fwdX * panSpeed * dt
		c.Target[2] += fwdZ * panSpeed * dt
	}
	if pressed(glfw.KeyS) {
		c.Target[0] -= fwdX * panSpeed * dt
		c.Target[2] -= fwdZ * panSpeed * dt
	}
	if pressed(glfw.KeyA) {
		c.Target[0] += fwdZ * panSpeed * dt
		c.Target[2] -= fwdX * panSpeed * dt
	}
	if pressed(glfw.KeyD) {
		c.Target[0] -= fwdZ * panSpeed * dt
		c.Target[2] += fwdX * panSpeed * dt
	}
	if pressed(glfw.KeyLeft) {
		c.Yaw -= orbitSpeed * dt
	}
	if pressed(glfw.KeyRight) {
		c.Yaw += orbitSpeed * dt
	}
	if pressed(glfw.KeyUp) {
		c.Pitch = min(c.Pitch+orbitSpeed*dt, 1.5)
	}
	if pressed(glfw.KeyDown) {
		c.Pitch = max(c.Pitch-orbitSpeed*dt, 0.05)
	}
}

// editBlock digs the block under the screen center with the left button and
// places stone in front of it with the right button.
func editBlock(w *world.World, c *graphics.Camera, button glfw.MouseButton, log *slog.Logger) {
	const reach = 256
	eye := c.Position()
	hit := physics.Raycast(eye, c.Target.Sub(eye), physics.MinReachDistance, reach, w)
	if !hit.Hit {
		return
	}
	pos := hit.HitPosition
	b := world.Air
	if button == glfw.MouseButtonRight {
		pos, b = hit.AdjacentPosition, world.Stone
	} else if button != glfw.MouseButtonLeft {
		return
	}
	if w.SetBlock(pos[0], pos[1], pos[2], b) {
		log.Debug("block edited", "x", pos[0], "y", pos[1], "z", pos[2], "block", b)
	}
}
