package main

import (
	"log"
	"time"

	"endless-terrain/internal/config"
	"endless-terrain/internal/input"
	"endless-terrain/internal/pipeline"
	"endless-terrain/internal/profiling"
	"endless-terrain/internal/render"
	"endless-terrain/internal/terrain"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	moveSpeed        = 60  // world units per second
	boostFactor      = 5
	mouseSensitivity = 0.1 // degrees per pixel
	statsInterval    = 2 * time.Second
)

// Loop owns the frame loop: input, grid update, completion drain, draw.
type Loop struct {
	window   *glfw.Window
	input    *input.Manager
	camera   *render.Camera
	renderer *render.Renderer
	pool     *pipeline.Pool
	grid     *terrain.Grid
	logger   *log.Logger

	limiter      FPSLimiter
	showProfile  bool
	cursorFree   bool
	frames       int
	lastStatsLog time.Time
}

// Run ticks until the window is closed.
func (l *Loop) Run() {
	l.lastStatsLog = time.Now()
	last := time.Now()
	for !l.window.ShouldClose() {
		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now
		l.tick(float32(dt))
	}
}

func (l *Loop) tick(dt float32) {
	profiling.ResetTick()

	func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()
	l.handleInput(dt)

	func() {
		defer profiling.Track("terrain.Update")()
		l.grid.Update(l.camera.Viewer())
	}()
	l.pool.Drain()

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	l.renderer.Wireframe = config.GetWireframe()
	l.renderer.Draw(l.camera.ViewMatrix(), l.camera.ProjectionMatrix())

	func() { defer profiling.Track("glfw.SwapBuffers")(); l.window.SwapBuffers() }()
	l.input.PostUpdate()

	l.frames++
	l.logStats()
	l.limiter.Wait()
}

func (l *Loop) handleInput(dt float32) {
	im := l.input

	if im.JustPressed(input.ActionRelease) {
		l.cursorFree = !l.cursorFree
		if l.cursorFree {
			l.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		} else {
			l.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
			im.ResetCursor()
		}
	}
	if im.JustPressed(input.ActionToggleWireframe) {
		config.ToggleWireframe()
	}
	if im.JustPressed(input.ActionToggleProfiling) {
		l.showProfile = !l.showProfile
	}
	if im.JustPressed(input.ActionRadiusUp) || im.JustPressed(input.ActionRadiusDown) {
		r := config.GetChunkRadius()
		if r == 0 {
			r = l.grid.Radius()
		}
		if im.JustPressed(input.ActionRadiusUp) {
			r++
		} else {
			r--
		}
		config.SetChunkRadius(max(r, 1))
		l.grid.SetRadius(config.GetChunkRadius())
		l.logger.Printf("chunk radius %d", l.grid.Radius())
	}

	if !l.cursorFree {
		dx, dy := im.MouseDelta()
		l.camera.Rotate(float32(dx*mouseSensitivity), float32(-dy*mouseSensitivity))
	}

	speed := float32(moveSpeed) * dt
	if im.IsActive(input.ActionBoost) {
		speed *= boostFactor
	}
	l.camera.Move(
		im.Axis(input.ActionMoveBackward, input.ActionMoveForward)*speed,
		im.Axis(input.ActionMoveLeft, input.ActionMoveRight)*speed,
		im.Axis(input.ActionMoveDown, input.ActionMoveUp)*speed,
	)
}

func (l *Loop) logStats() {
	elapsed := time.Since(l.lastStatsLog)
	if elapsed < statsInterval {
		return
	}
	fps := float64(l.frames) / elapsed.Seconds()
	st := l.pool.Stats()
	drawn, culled := l.renderer.Stats()
	l.logger.Printf("fps %.0f | chunks %d visible %d drawn %d culled %d | queued %d running %d",
		fps, l.grid.Len(), l.grid.VisibleCount(), drawn, culled, st.Queued, st.Running)
	if l.showProfile {
		l.logger.Printf("profile: %s", profiling.TopN(6))
	}
	l.frames = 0
	l.lastStatsLog = time.Now()
}
