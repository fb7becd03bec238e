package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"endless-terrain/internal/config"
	"endless-terrain/internal/heightfield"
	"endless-terrain/internal/input"
	"endless-terrain/internal/pipeline"
	"endless-terrain/internal/profiling"
	"endless-terrain/internal/render"
	"endless-terrain/internal/terrain"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	var (
		configPath = flag.String("config", "", "terrain yaml (default: built-in settings)")
		seed       = flag.Int64("seed", 0, "override the configured seed (0 keeps it)")
		width      = flag.Int("width", 1280, "window width")
		height     = flag.Int("height", 720, "window height")
		fps        = flag.Int("fps", 120, "frame cap, 0 for uncapped")
	)
	flag.Parse()
	defer closer.Close()

	logger := log.New(os.Stdout, "[terrain] ", log.LstdFlags|log.Lmicroseconds)

	settings := config.Default()
	if *configPath != "" {
		s, err := config.Load(*configPath)
		if err != nil {
			logger.Fatalf("load config: %v", err)
		}
		settings = s
	}
	if *seed != 0 {
		settings.Seed = *seed
	}
	config.SetChunkRadius(settings.ChunkRadius)
	config.SetFPSLimit(*fps)

	if err := glfw.Init(); err != nil {
		logger.Fatalf("glfw: %v", err)
	}
	defer glfw.Terminate()

	window, err := setupWindow(*width, *height)
	if err != nil {
		logger.Fatalf("window: %v", err)
	}

	gen := heightfield.NewGenerator(settings.GeneratorOptions())
	renderer, err := render.NewRenderer(gen.ChunkSize())
	if err != nil {
		logger.Fatalf("renderer: %v", err)
	}
	defer renderer.Delete()

	pool := pipeline.New(settings.Workers)
	// also runs on SIGINT/SIGTERM; GL objects are left to process exit then
	closer.Bind(func() {
		pool.Close()
		logger.Printf("pool closed, %d chunk meshes requested", profiling.Counter("pipeline.meshRequests"))
	})

	grid, err := newGrid(settings, gen, pool, renderer)
	if err != nil {
		logger.Fatalf("grid: %v", err)
	}
	logger.Printf("seed %d, chunk size %d, radius %d, %d workers",
		settings.Seed, grid.ChunkSize(), grid.Radius(), pool.Workers())

	im := input.NewManager()
	im.Attach(window)

	cam := render.NewCamera(*width, *height, float32(grid.MaxViewDistance()))
	loop := &Loop{
		window:   window,
		input:    im,
		camera:   cam,
		renderer: renderer,
		pool:     pool,
		grid:     grid,
		logger:   logger,
	}
	loop.Run()
}

func newGrid(s config.Settings, gen heightfield.Source, pool *pipeline.Pool, r *render.Renderer) (*terrain.Grid, error) {
	return terrain.NewGrid(terrain.Options{
		Generator:     gen,
		Pool:          pool,
		Renderer:      r,
		Textures:      r,
		LODs:          s.LODTable(),
		ChunkRadius:   config.GetChunkRadius(),
		MoveThreshold: s.MoveThreshold,
	})
}

func setupWindow(width, height int) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(width, height, "endless terrain", nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return nil, err
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.ClearColor(0.55, 0.7, 0.9, 1)

	// the FPS limiter paces frames
	glfw.SwapInterval(0)
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)

	return window, nil
}
