// Package pick turns screen positions into points on a model's surface.
package pick

import (
	"math"

	"github.com/philipparndt/primforge/pkg/geometry"
)

// Camera is an orbit camera looking at Target from Distance away
type Camera struct {
	Position geometry.Vector3
	Target   geometry.Vector3
	Up       geometry.Vector3
	FOV      float64 // Vertical field of view in radians
	Distance float64
	Pitch    float64 // Rotation around the horizontal axis
	Yaw      float64 // Rotation around the vertical axis
}

// NewCamera creates a camera on the +Z side of a bounding box, framing all of it
func NewCamera(bbox geometry.BoundingBox) *Camera {
	center := bbox.Center()
	size := bbox.Size()
	distance := math.Max(size.X, math.Max(size.Y, size.Z)) * 2.0
	if distance == 0 {
		distance = 1
	}

	c := &Camera{
		Target:   center,
		Up:       geometry.NewVector3(0, 1, 0),
		FOV:      math.Pi / 4,
		Distance: distance,
	}
	c.update()
	return c
}

func (c *Camera) update() {
	x := c.Distance * math.Cos(c.Pitch) * math.Sin(c.Yaw)
	y := c.Distance * math.Sin(c.Pitch)
	z := c.Distance * math.Cos(c.Pitch) * math.Cos(c.Yaw)

	c.Position = c.Target.Add(geometry.NewVector3(x, y, z))
}

// Rotate orbits the camera. Pitch is clamped short of the poles.
func (c *Camera) Rotate(deltaPitch, deltaYaw float64) {
	c.Pitch += deltaPitch
	c.Yaw += deltaYaw

	maxAngle := math.Pi/2 - 0.1
	c.Pitch = math.Max(-maxAngle, math.Min(maxAngle, c.Pitch))

	c.update()
}

// Zoom changes the camera distance by a relative amount
func (c *Camera) Zoom(delta float64) {
	c.Distance *= 1.0 + delta
	if c.Distance < 0.1 {
		c.Distance = 0.1
	}
	c.update()
}

func (c *Camera) basis() (forward, right, up geometry.Vector3) {
	forward = c.Target.Sub(c.Position).Normalize()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward).Normalize()
	return forward, right, up
}

// Project maps a world point to screen coordinates and its depth along the view direction
func (c *Camera) Project(point geometry.Vector3, width, height float64) (x, y, depth float64) {
	forward, right, up := c.basis()

	relative := point.Sub(c.Position)
	cx := relative.Dot(right)
	cy := relative.Dot(up)
	depth = relative.Dot(forward)

	z := math.Max(depth, 0.01)
	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)

	x = (cx/(z*fovScale*aspect))*(width/2) + width/2
	y = (-cy/(z*fovScale))*(height/2) + height/2
	return x, y, depth
}

// Unproject returns the ray through a screen position
func (c *Camera) Unproject(screenX, screenY, width, height float64) Ray {
	ndcX := (2.0 * screenX / width) - 1.0
	ndcY := 1.0 - (2.0 * screenY / height)

	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)

	forward, right, up := c.basis()
	dir := forward.Add(right.Mul(ndcX * fovScale * aspect)).Add(up.Mul(ndcY * fovScale))

	return Ray{Origin: c.Position, Direction: dir.Normalize()}
}
