package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a free-flying perspective camera. Yaw and Pitch are in degrees;
// yaw 0 looks down -Z.
type Camera struct {
	Position    mgl32.Vec3
	Yaw         float32
	Pitch       float32
	FOV         float32
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32
}

// NewCamera returns a camera whose far plane covers viewDistance.
func NewCamera(width, height int, viewDistance float32) *Camera {
	return &Camera{
		Position:    mgl32.Vec3{0, 60, 0},
		Pitch:       -20,
		FOV:         60,
		AspectRatio: float32(width) / float32(max(height, 1)),
		NearPlane:   0.3,
		FarPlane:    viewDistance * 1.5,
	}
}

// Front is the unit view direction.
func (c *Camera) Front() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	return mgl32.Vec3{
		float32(math.Sin(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(-math.Cos(yaw) * math.Cos(pitch)),
	}.Normalize()
}

// Rotate adds mouse deltas in degrees and keeps pitch off the poles.
func (c *Camera) Rotate(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch = mgl32.Clamp(c.Pitch+dPitch, -89, 89)
}

// Move steps forward/right along the ground plane and up along Y.
func (c *Camera) Move(forward, right, up float32) {
	f := c.Front()
	flat := mgl32.Vec3{f.X(), 0, f.Z()}
	if flat.Len() > 0 {
		flat = flat.Normalize()
	}
	side := flat.Cross(mgl32.Vec3{0, 1, 0})
	c.Position = c.Position.Add(flat.Mul(forward)).Add(side.Mul(right)).Add(mgl32.Vec3{0, up, 0})
}

// Viewer is the ground-plane position the terrain grid streams around.
func (c *Camera) Viewer() mgl32.Vec2 { return mgl32.Vec2{c.Position.X(), c.Position.Z()} }

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front()), mgl32.Vec3{0, 1, 0})
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}
