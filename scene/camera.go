package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultFovY = 75
	DefaultNear = 0.1
	DefaultFar  = 1000
)

// Camera is a perspective camera looking at a fixed target. FovY is in degrees.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
	FovY     float32
	Near     float32
	Far      float32
	Aspect   float32
}

func NewCamera(aspect float32) *Camera {
	if aspect <= 0 {
		aspect = 1
	}
	return &Camera{
		Position: mgl32.Vec3{0, 2, 5},
		Up:       mgl32.Vec3{0, 1, 0},
		FovY:     DefaultFovY,
		Near:     DefaultNear,
		Far:      DefaultFar,
		Aspect:   aspect,
	}
}

func (c *Camera) LookAt(target mgl32.Vec3) {
	c.Target = target
}

// SetAspect follows the framebuffer size. A zero height (minimised window) is ignored.
func (c *Camera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

func (c *Camera) ViewProj() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Billboard returns the camera's world-space right and up axes, used to expand camera-facing quads.
func (c *Camera) Billboard() (right, up mgl32.Vec3) {
	forward := c.Target.Sub(c.Position)
	if forward.Len() == 0 {
		return mgl32.Vec3{1, 0, 0}, c.Up.Normalize()
	}
	forward = forward.Normalize()
	right = forward.Cross(c.Up)
	if right.Len() == 0 {
		right = mgl32.Vec3{1, 0, 0}
	}
	right = right.Normalize()
	up = right.Cross(forward).Normalize()
	return right, up
}
