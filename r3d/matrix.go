package r3d

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Decompose splits an affine matrix into translation, rotation and scale.
// Shear and projection parts are dropped.
func Decompose(m mgl32.Mat4) (translation mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) {
	translation = m.Col(3).Vec3()

	cols := [3]mgl32.Vec3{m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()}
	for i := range cols {
		scale[i] = cols[i].Len()
	}
	// mirrored basis
	if cols[0].Cross(cols[1]).Dot(cols[2]) < 0 {
		scale = scale.Mul(-1)
	}

	var r mgl32.Mat3
	for i := range cols {
		if scale[i] != 0 {
			cols[i] = cols[i].Mul(1 / scale[i])
		}
		r.SetCol(i, cols[i])
	}
	rotation = mgl32.Mat4ToQuat(r.Mat4()).Normalize()
	return translation, rotation, scale
}

// Compose is the inverse of Decompose: T * R * S.
func Compose(translation mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(translation[0], translation[1], translation[2]).
		Mul4(rotation.Mat4()).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

// NormalMatrix transforms normals into eye space.
func NormalMatrix(view, model mgl32.Mat4) mgl32.Mat4 {
	return view.Mul4(model).Inv().Transpose()
}

// FormatMat prints m row by row.
func FormatMat(name string, m mgl32.Mat4) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('\n')
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			fmt.Fprintf(&sb, "%8.4f ", m.At(i, j))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
