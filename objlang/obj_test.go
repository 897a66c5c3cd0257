package objlang_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/bsg_viewer/objlang"
)

const cubeSide = `# one side of a cube
mtllib cube.mtl
o Cube
v -1.0 -1.0 0.0
v 1.0 -1.0 0.0
v 1.0 1.0 0.0
v -1.0 1.0 0.0 # trailing comment
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl red
s off
f 1/1/1 2/2/1 3/3/1 4/4/1
usemtl
f -4//-1 -3//-1 -2//-1
`

func TestParseOBJ(t *testing.T) {
	m, err := objlang.ParseOBJ([]byte(cubeSide))
	require.NoError(t, err)

	assert.Len(t, m.Positions, 4)
	assert.Equal(t, mgl32.Vec4{1, 1, 0, 1}, m.Positions[2])
	assert.Len(t, m.TexCoords, 4)
	assert.Equal(t, []mgl32.Vec3{{0, 0, 1}}, m.Normals)
	assert.Nil(t, m.Colors)
	assert.Equal(t, []string{"cube.mtl"}, m.MtlLibs)
	assert.Equal(t, []string{"Cube"}, m.Objects)

	require.Len(t, m.Groups, 2)
	assert.Equal(t, "red", m.Groups[0].Material)
	assert.Equal(t, "", m.Groups[1].Material)
	assert.Equal(t, 2, m.FaceCount())

	quad := m.Groups[0].Faces[0]
	assert.Equal(t, objlang.Index{V: 3, T: 3, N: 0}, quad[3])

	tri := m.Groups[1].Faces[0]
	assert.Equal(t, objlang.Face{{0, -1, 0}, {1, -1, 0}, {2, -1, 0}}, tri)
}

func TestFaceTriangles(t *testing.T) {
	f := objlang.Face{{V: 0}, {V: 1}, {V: 2}, {V: 3}, {V: 4}}
	tris := f.Triangles()
	require.Len(t, tris, 3)
	assert.Equal(t, 0, tris[2][0].V)
	assert.Equal(t, 3, tris[2][1].V)
	assert.Equal(t, 4, tris[2][2].V)

	assert.Nil(t, objlang.Face{{V: 0}, {V: 1}}.Triangles())
}

func TestParseOBJVertexColors(t *testing.T) {
	m, err := objlang.ParseOBJ([]byte("v 0 0 0 1 0 0\nv 1 0 0 0 1 0\nv 0 1 0 0 0 1\nf 1 2 3\n"))
	require.NoError(t, err)
	assert.Equal(t, []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, m.Colors)

	m, err = objlang.ParseOBJ([]byte("v 0 0 0 1 0 0\nv 1 0 0\n"))
	require.NoError(t, err)
	assert.Nil(t, m.Colors)
}

func TestParseOBJErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		msg  string
	}{
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", "line 4"},
		{"out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n", "out of range"},
		{"short face", "v 0 0 0\nf 1 1\n", "at least 3"},
		{"bad vertex", "v 0 zero 0\n", "expected number"},
		{"few coordinates", "v 0 0\n", "line 1"},
		{"number keyword", "12 3\n", "expected keyword"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := objlang.ParseOBJ([]byte(tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}
