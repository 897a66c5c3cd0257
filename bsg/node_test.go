package bsg

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func assertMatNear(t *testing.T, want, got mgl32.Mat4) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, 1e-4), "want\n%v\ngot\n%v", want, got)
}

func TestNodeDefaults(t *testing.T) {
	var n Node
	n.init("n")
	assert.Equal(t, "n", n.Name())
	assert.True(t, n.Visible())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, n.Scale())
	assertMatNear(t, mgl32.Ident4(), n.ModelMatrix())
}

func TestNodeLocalMatrix(t *testing.T) {
	var n Node
	n.init("n")
	n.SetPosition(mgl32.Vec3{1, 2, 3})
	n.SetRotation(0, math.Pi/2, 0)
	n.SetScalef(2)

	want := mgl32.Translate3D(1, 2, 3).
		Mul4(mgl32.HomogRotate3DY(math.Pi / 2)).
		Mul4(mgl32.Scale3D(2, 2, 2))
	assertMatNear(t, want, n.LocalMatrix())

	// cached matrix is refreshed by setters
	n.SetPosition(mgl32.Vec3{})
	assert.Equal(t, mgl32.Vec3{}, n.LocalMatrix().Col(3).Vec3())
}

func TestNodeParentComposition(t *testing.T) {
	var parent, child Node
	parent.init("parent")
	child.init("child")
	child.SetParent(&parent)

	parent.SetPosition(mgl32.Vec3{0, 0, -5})
	parent.SetScalef(2)
	child.SetPosition(mgl32.Vec3{1, 0, 0})

	p := child.ModelMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 2, p.X(), 1e-5)
	assert.InDelta(t, -5, p.Z(), 1e-5)
	assert.Same(t, &parent, child.Parent())
}

func TestNodeSetTransformMatrix(t *testing.T) {
	var n Node
	n.init("n")
	n.SetPosition(mgl32.Vec3{1, 0, 0})

	n.SetTransformMatrix(mgl32.Translate3D(0, 2, 0))
	pos := n.Position()
	assert.InDeltaSlice(t, []float32{1, 2, 0}, pos[:], 1e-5)

	n.SetTransformMatrix(mgl32.HomogRotate3DZ(math.Pi / 2))
	pos = n.Position()
	assert.InDeltaSlice(t, []float32{-2, 1, 0}, pos[:], 1e-5)
	assertMatNear(t,
		mgl32.HomogRotate3DZ(math.Pi/2).Mul4(mgl32.Translate3D(1, 2, 0)),
		n.LocalMatrix())
}

func TestNodeVisibility(t *testing.T) {
	var n Node
	n.init("n")
	n.ToggleVisible()
	assert.False(t, n.Visible())
	n.SetVisible(true)
	assert.True(t, n.Visible())
}
