package objlang_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/bsg_viewer/objlang"
)

func TestParseMTL(t *testing.T) {
	const src = `# two materials
newmtl red
Ka 0.1 0.1 0.1
Kd 1.0 0.0 0.0
Ks 0.5
Ns 96.0
d 0.5
illum 2
map_Kd -s 1 1 1 red.png

newmtl plain
Tr 0.25
`
	mats, err := objlang.ParseMTL([]byte(src))
	require.NoError(t, err)
	require.Len(t, mats, 2)

	red := mats["red"]
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, red.Diffuse)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, red.Specular)
	assert.Equal(t, float32(96), red.Shininess)
	assert.Equal(t, "red.png", red.DiffuseMap)
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 0.5}, red.Color())

	plain := mats["plain"]
	assert.Equal(t, mgl32.Vec3{0.8, 0.8, 0.8}, plain.Diffuse)
	assert.Equal(t, float32(0.75), plain.Dissolve)
}

func TestParseMTLErrors(t *testing.T) {
	_, err := objlang.ParseMTL([]byte("Kd 1 1 1\n"))
	assert.Error(t, err)

	_, err = objlang.ParseMTL([]byte("newmtl a\nKd 1 x 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
