package bsg

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mogaika/bsg_viewer/r3d"
)

var (
	axisColorX = mgl32.Vec4{1, 0, 0, 1}
	axisColorY = mgl32.Vec4{0, 1, 0, 1}
	axisColorZ = mgl32.Vec4{0, 0, 1, 1}
	laserColor = mgl32.Vec4{1, 0.2, 0.2, 1}
)

func mustAddData(o *DrawableObj, t DataType, name string, data []mgl32.Vec4) {
	if err := o.AddData(t, name, data); err != nil {
		panic(err)
	}
}

func lineObject(from, to []mgl32.Vec4, colors []mgl32.Vec4) *DrawableObj {
	vertices := make([]mgl32.Vec4, 0, len(from)*2)
	lineColors := make([]mgl32.Vec4, 0, len(from)*2)
	for i := range from {
		vertices = append(vertices, from[i], to[i])
		lineColors = append(lineColors, colors[i], colors[i])
	}
	o := NewDrawableObj()
	mustAddData(o, DataVertices, AttribPosition, vertices)
	mustAddData(o, DataColors, AttribColor, lineColors)
	o.SetDrawType(r3d.DrawLines, len(vertices))
	return o
}

// NewAxes draws the three coordinate axes, each from -length to +length.
func NewAxes(shader *ShaderMgr, length float32) *Compound {
	c := NewCompound("axes", shader)
	c.AddObject(lineObject(
		[]mgl32.Vec4{{-length, 0, 0, 1}, {0, -length, 0, 1}, {0, 0, -length, 1}},
		[]mgl32.Vec4{{length, 0, 0, 1}, {0, length, 0, 1}, {0, 0, length, 1}},
		[]mgl32.Vec4{axisColorX, axisColorY, axisColorZ},
	))
	return c
}

// NewLine draws a single segment from the origin down the -Z axis.
func NewLine(shader *ShaderMgr, length float32) *Compound {
	c := NewCompound("line", shader)
	c.AddObject(lineObject(
		[]mgl32.Vec4{{0, 0, 0, 1}},
		[]mgl32.Vec4{{0, 0, -length, 1}},
		[]mgl32.Vec4{laserColor},
	))
	return c
}

// NewRectangle is a textured w x h quad in the XY plane, centred on the origin.
func NewRectangle(shader *ShaderMgr, w, h float32) *Compound {
	x, y := w/2, h/2
	corners := []mgl32.Vec4{{-x, -y, 0, 1}, {x, -y, 0, 1}, {x, y, 0, 1}, {-x, y, 0, 1}}
	uvs := []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	order := []int{0, 1, 2, 0, 2, 3}

	vertices := make([]mgl32.Vec4, len(order))
	colors := make([]mgl32.Vec4, len(order))
	normals := make([]mgl32.Vec4, len(order))
	texCoords := make([]mgl32.Vec2, len(order))
	for i, idx := range order {
		vertices[i] = corners[idx]
		colors[i] = mgl32.Vec4{1, 1, 1, 1}
		normals[i] = mgl32.Vec4{0, 0, 1, 0}
		texCoords[i] = uvs[idx]
	}

	o := NewDrawableObj()
	mustAddData(o, DataVertices, AttribPosition, vertices)
	mustAddData(o, DataColors, AttribColor, colors)
	mustAddData(o, DataNormals, AttribNormal, normals)
	if err := o.AddData2(DataTexCoords, AttribTexCoord, texCoords); err != nil {
		panic(err)
	}
	o.SetDrawType(r3d.DrawTriangles, len(vertices))

	c := NewCompound("rectangle", shader)
	c.AddObject(o)
	return c
}
