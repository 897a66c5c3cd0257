// Package bsg is a small scene graph: drawables grouped in collections,
// drawn through an r3d.Device with shared shaders, lights and textures.
package bsg

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mogaika/bsg_viewer/r3d"
	"github.com/mogaika/bsg_viewer/utils"
)

// Node is the transform part shared by every drawable in the tree.
// Local transform is translation * rotation * scale.
type Node struct {
	name     string
	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3
	visible  bool

	parent *Node

	local      mgl32.Mat4
	localValid bool
}

func (n *Node) init(name string) {
	n.name = name
	n.rotation = mgl32.QuatIdent()
	n.scale = mgl32.Vec3{1, 1, 1}
	n.visible = true
}

func (n *Node) Name() string { return n.name }

func (n *Node) Position() mgl32.Vec3    { return n.position }
func (n *Node) Orientation() mgl32.Quat { return n.rotation }
func (n *Node) Scale() mgl32.Vec3       { return n.scale }
func (n *Node) Visible() bool           { return n.visible }
func (n *Node) Parent() *Node           { return n.parent }

func (n *Node) SetPosition(p mgl32.Vec3) {
	n.position = p
	n.localValid = false
}

func (n *Node) SetOrientation(q mgl32.Quat) {
	n.rotation = q.Normalize()
	n.localValid = false
}

// SetRotation takes euler angles in radians.
func (n *Node) SetRotation(x, y, z float32) {
	n.SetOrientation(utils.EulerToQuat(mgl32.Vec3{x, y, z}))
}

func (n *Node) SetScale(s mgl32.Vec3) {
	n.scale = s
	n.localValid = false
}

func (n *Node) SetScalef(s float32) {
	n.SetScale(mgl32.Vec3{s, s, s})
}

func (n *Node) SetVisible(v bool) { n.visible = v }

func (n *Node) ToggleVisible() { n.visible = !n.visible }

func (n *Node) SetParent(p *Node) { n.parent = p }

// SetTransformMatrix applies m on top of the current local transform.
func (n *Node) SetTransformMatrix(m mgl32.Mat4) {
	n.position, n.rotation, n.scale = r3d.Decompose(m.Mul4(n.LocalMatrix()))
	n.localValid = false
}

func (n *Node) LocalMatrix() mgl32.Mat4 {
	if !n.localValid {
		n.local = r3d.Compose(n.position, n.rotation, n.scale)
		n.localValid = true
	}
	return n.local
}

// ModelMatrix is the local transform prefixed with every ancestor's.
func (n *Node) ModelMatrix() mgl32.Mat4 {
	if n.parent != nil {
		return n.parent.ModelMatrix().Mul4(n.LocalMatrix())
	}
	return n.LocalMatrix()
}

// Drawable is a node of the scene tree.
type Drawable interface {
	Base() *Node
	// Prepare allocates device objects. Called once after the tree is built.
	Prepare() error
	// Load refreshes uniforms and buffers before drawing a frame.
	Load()
	Draw(view, proj mgl32.Mat4)
}
