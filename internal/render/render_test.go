package render

import (
	"math"
	"testing"

	"endless-terrain/internal/heightfield"
	"endless-terrain/internal/meshing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFrustumCullsBehindCamera(t *testing.T) {
	cam := NewCamera(800, 600, 600)
	cam.Position = mgl32.Vec3{0, 10, 0}
	cam.Pitch = 0
	f := NewFrustum(cam.ProjectionMatrix().Mul4(cam.ViewMatrix()))

	ahead := f.IntersectsAABB(mgl32.Vec3{-10, 0, -60}, mgl32.Vec3{10, 20, -40})
	behind := f.IntersectsAABB(mgl32.Vec3{-10, 0, 40}, mgl32.Vec3{10, 20, 60})
	tooFar := f.IntersectsAABB(mgl32.Vec3{-10, 0, -2000}, mgl32.Vec3{10, 20, -1900})
	if !ahead || behind || tooFar {
		t.Fatalf("ahead=%v behind=%v tooFar=%v", ahead, behind, tooFar)
	}
}

func TestCameraFrontAndMove(t *testing.T) {
	cam := &Camera{}
	if f := cam.Front(); !f.ApproxEqual(mgl32.Vec3{0, 0, -1}) {
		t.Fatalf("front %v", f)
	}
	cam.Move(10, 0, 0)
	if !cam.Position.ApproxEqual(mgl32.Vec3{0, 0, -10}) {
		t.Fatalf("forward move to %v", cam.Position)
	}
	cam.Move(0, 5, 2)
	if !cam.Position.ApproxEqual(mgl32.Vec3{5, 2, -10}) {
		t.Fatalf("strafe move to %v", cam.Position)
	}
	if v := cam.Viewer(); v != (mgl32.Vec2{5, -10}) {
		t.Fatalf("viewer %v", v)
	}

	cam.Rotate(90, 200)
	if cam.Pitch != 89 {
		t.Fatalf("pitch %v, want clamp at 89", cam.Pitch)
	}
	cam.Pitch = 0
	if f := cam.Front(); math.Abs(float64(f.X()-1)) > 1e-5 {
		t.Fatalf("yaw 90 should look down +X, got %v", f)
	}
}

func TestBoundsPlacesMeshAtChunkOrigin(t *testing.T) {
	gen := heightfield.NewGenerator(heightfield.Options{Seed: 3, Multiplier: 10, Resolution: 9})
	hf, err := gen.Generate(heightfield.ChunkCoord{X: 2, Y: -1})
	if err != nil {
		t.Fatal(err)
	}
	m, err := meshing.Build(hf, 0)
	if err != nil {
		t.Fatal(err)
	}
	r := &Renderer{chunkSize: float32(gen.ChunkSize())}
	lo, hi := bounds(m, r.origin(hf.Coord))
	if lo.X() != 12 || hi.X() != 20 || lo.Z() != -12 || hi.Z() != -4 {
		t.Fatalf("bounds %v..%v", lo, hi)
	}
	if lo.Y() < 0 || hi.Y() > 10 || lo.Y() > hi.Y() {
		t.Fatalf("height range %v..%v", lo.Y(), hi.Y())
	}
}
