package r3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mogaika/bsg_viewer/utils"
)

type Camera interface {
	GetViewMatrix() mgl32.Mat4
}

// OrbitController circles Target. Pitch and Yaw are in degrees.
type OrbitController struct {
	Target   mgl32.Vec3
	Distance float32
	Pitch    float32 // x rotation
	Yaw      float32 // y rotation
}

func NewOrbitController(target mgl32.Vec3, dist, pitch, yaw float32) *OrbitController {
	return &OrbitController{
		Target:   target,
		Distance: dist,
		Pitch:    pitch,
		Yaw:      yaw,
	}
}

func (c *OrbitController) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

func (c *OrbitController) Position() mgl32.Vec3 {
	return mgl32.Vec3{
		c.Distance * float32(math.Cos(float64(mgl32.DegToRad(c.Pitch)))*math.Sin(float64(mgl32.DegToRad(c.Yaw)))),
		c.Distance * float32(math.Sin(float64(mgl32.DegToRad(c.Pitch)))),
		c.Distance * float32(math.Cos(float64(mgl32.DegToRad(c.Pitch)))*math.Cos(float64(mgl32.DegToRad(c.Yaw)))),
	}.Add(c.Target)
}

// Rotate adds to yaw and pitch, keeping pitch off the poles.
func (c *OrbitController) Rotate(yaw, pitch float32) {
	c.Yaw = float32(math.Mod(float64(c.Yaw+yaw), 360))
	c.Pitch = mgl32.Clamp(c.Pitch+pitch, -89, 89)
}

// LookAtCamera is a free camera aimed at a point.
type LookAtCamera struct {
	Position mgl32.Vec3
	LookAt   mgl32.Vec3
}

// GetViewMatrix keeps the world Y axis as the reference up direction.
func (c *LookAtCamera) GetViewMatrix() mgl32.Mat4 {
	dir := c.LookAt.Sub(c.Position).Normalize()
	right := dir.Cross(mgl32.Vec3{0, 1, 0})
	up := right.Cross(dir).Normalize()
	return mgl32.LookAtV(c.Position, c.LookAt, up)
}

// AddToViewAngle swings the camera around the look-at point. Angles are radians.
// The up vector is not rotated, so the motion flattens near the poles.
func (c *LookAtCamera) AddToViewAngle(horizAngle, vertAngle float32) {
	dir := c.LookAt.Sub(c.Position)
	rot := utils.EulerToQuat(mgl32.Vec3{vertAngle, horizAngle, 0})
	c.Position = c.LookAt.Sub(rot.Rotate(dir))
}
