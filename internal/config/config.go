package config

import "sync"

// ViewSettings holds the view configuration that can change while running.
type ViewSettings struct {
	mu          sync.RWMutex
	chunkRadius int // in chunks, 0 derives it from the LOD table
	wireframe   bool
	fpsLimit    int
}

var globalViewSettings = &ViewSettings{
	fpsLimit: 120,
}

// GetChunkRadius returns the chunk radius override, 0 when unset.
func GetChunkRadius() int {
	globalViewSettings.mu.RLock()
	defer globalViewSettings.mu.RUnlock()
	return globalViewSettings.chunkRadius
}

// SetChunkRadius sets the chunk radius override.
func SetChunkRadius(radius int) {
	globalViewSettings.mu.Lock()
	defer globalViewSettings.mu.Unlock()

	// Clamp to reasonable values
	if radius < 0 {
		radius = 0
	}
	if radius > MaxChunkRadius {
		radius = MaxChunkRadius
	}

	globalViewSettings.chunkRadius = radius
}

// GetWireframe returns whether chunks are drawn as wireframes.
func GetWireframe() bool {
	globalViewSettings.mu.RLock()
	defer globalViewSettings.mu.RUnlock()
	return globalViewSettings.wireframe
}

// ToggleWireframe flips wireframe drawing and returns the new value.
func ToggleWireframe() bool {
	globalViewSettings.mu.Lock()
	defer globalViewSettings.mu.Unlock()
	globalViewSettings.wireframe = !globalViewSettings.wireframe
	return globalViewSettings.wireframe
}

// GetFPSLimit returns the frame cap, 0 for uncapped.
func GetFPSLimit() int {
	globalViewSettings.mu.RLock()
	defer globalViewSettings.mu.RUnlock()
	return globalViewSettings.fpsLimit
}

// SetFPSLimit sets the frame cap; values below 0 mean uncapped.
func SetFPSLimit(limit int) {
	globalViewSettings.mu.Lock()
	defer globalViewSettings.mu.Unlock()
	globalViewSettings.fpsLimit = max(limit, 0)
}
