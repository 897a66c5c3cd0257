package r3d

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestDecomposeCompose(t *testing.T) {
	for _, tc := range []struct {
		translation mgl32.Vec3
		rotation    mgl32.Quat
		scale       mgl32.Vec3
	}{
		{mgl32.Vec3{}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1}},
		{mgl32.Vec3{-5, 0, -8}, mgl32.QuatIdent(), mgl32.Vec3{0.4, 0.4, 0.4}},
		{mgl32.Vec3{1, 2, 3}, mgl32.QuatRotate(0.7, mgl32.Vec3{0, 1, 0}), mgl32.Vec3{2, 2, 2}},
		{mgl32.Vec3{0, 0, -0.3}, mgl32.QuatRotate(1.2, mgl32.Vec3{1, 1, 0}.Normalize()), mgl32.Vec3{0.1, 0.5, 3}},
	} {
		m := Compose(tc.translation, tc.rotation, tc.scale)
		tr, rot, sc := Decompose(m)

		assert.True(t, tr.ApproxEqualThreshold(tc.translation, 1e-5), "translation %v != %v", tr, tc.translation)
		assert.True(t, sc.ApproxEqualThreshold(tc.scale, 1e-5), "scale %v != %v", sc, tc.scale)
		assert.True(t, rot.Mat4().ApproxEqualThreshold(tc.rotation.Mat4(), 1e-4), "rotation %v != %v", rot, tc.rotation)
		assert.True(t, Compose(tr, rot, sc).ApproxEqualThreshold(m, 1e-4))
	}
}

func TestComposeOrder(t *testing.T) {
	// scale first, then rotate, then translate
	m := Compose(mgl32.Vec3{10, 0, 0}, mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1}), mgl32.Vec3{2, 2, 2})
	p := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, m)
	assert.True(t, p.ApproxEqualThreshold(mgl32.Vec3{10, 2, 0}, 1e-5), "%v", p)
}

func TestNormalMatrix(t *testing.T) {
	model := mgl32.Scale3D(2, 1, 1)
	n := NormalMatrix(mgl32.Ident4(), model)
	assert.True(t, n.ApproxEqualThreshold(mgl32.Scale3D(0.5, 1, 1), 1e-6))

	// pure rotations keep normals rotating with the geometry
	view := mgl32.HomogRotate3DY(0.5)
	assert.True(t, NormalMatrix(view, mgl32.Ident4()).ApproxEqualThreshold(view, 1e-5))
}

func TestFormatMat(t *testing.T) {
	s := FormatMat("trans:", mgl32.Translate3D(1, 2, 3))
	lines := strings.Split(strings.TrimSpace(s), "\n")
	assert.Equal(t, "trans:", lines[0])
	assert.Len(t, lines, 5)
	assert.Equal(t, "  1.0000   0.0000   0.0000   1.0000", strings.TrimRight(lines[1], " "))
}

func TestBBox(t *testing.T) {
	var bbox BBox
	assert.True(t, bbox.Empty())
	bbox.ExpandToPoint(mgl32.Vec3{1, 1, 1})
	bbox.ExpandToPoint(mgl32.Vec3{3, -1, 5})
	assert.False(t, bbox.Empty())
	assert.Equal(t, mgl32.Vec3{1, -1, 1}, bbox.Min)
	assert.Equal(t, mgl32.Vec3{3, 1, 5}, bbox.Max)
	assert.Equal(t, mgl32.Vec3{2, 0, 3}, bbox.Center())
	assert.InDelta(t, 6.0, float64(bbox.Size()), 1e-5)
}
