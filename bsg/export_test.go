package bsg

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mogaika/bsg_viewer/r3d"
	"github.com/mogaika/bsg_viewer/r3d/r3dtest"
	"github.com/mogaika/fbx"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportTestScene() *Scene {
	sm := NewShaderMgr(r3dtest.NewRecorder())
	s := NewScene()
	s.AddObject(NewAxes(sm, 100))
	rect := NewRectangle(sm, 2, 2)
	rect.SetPosition(mgl32.Vec3{0, 1, 0})
	rect.SetVisible(false)
	s.AddObject(rect)
	return s
}

func TestTriangleIndices(t *testing.T) {
	assert.Equal(t, [][3]int32{{0, 1, 2}, {3, 4, 5}}, triangleIndices(r3d.DrawTriangles, 7))
	assert.Equal(t, [][3]int32{{0, 1, 2}, {2, 1, 3}}, triangleIndices(r3d.DrawTriangleStrip, 4))
	assert.Equal(t, [][3]int32{{0, 1, 2}, {0, 2, 3}}, triangleIndices(r3d.DrawTriangleFan, 4))
	assert.Empty(t, triangleIndices(r3d.DrawLines, 6))
}

func TestExportGLTF(t *testing.T) {
	doc := ExportGLTF(exportTestScene().Root())

	require.Len(t, doc.Scenes[0].Nodes, 1)
	root := doc.Nodes[doc.Scenes[0].Nodes[0]]
	assert.Equal(t, "root", root.Name)
	require.Len(t, root.Children, 2)

	axes := doc.Nodes[root.Children[0]]
	assert.Equal(t, "axes", axes.Name)
	require.NotNil(t, axes.Mesh)
	prim := doc.Meshes[*axes.Mesh].Primitives[0]
	assert.Equal(t, gltf.PrimitiveLines, prim.Mode)
	assert.Contains(t, prim.Attributes, "COLOR_0")
	assert.NotContains(t, prim.Attributes, "NORMAL")

	rect := doc.Nodes[root.Children[1]]
	assert.Equal(t, "rectangle", rect.Name)
	assert.Equal(t, [3]float32{0, 1, 0}, rect.Translation)
	prim = doc.Meshes[*rect.Mesh].Primitives[0]
	assert.Equal(t, gltf.PrimitiveTriangles, prim.Mode)
	assert.Contains(t, prim.Attributes, "TEXCOORD_0")
	assert.Equal(t, uint32(6), doc.Accessors[prim.Attributes["POSITION"]].Count)

	var buf bytes.Buffer
	require.NoError(t, WriteGLB(&buf, exportTestScene().Root()))
	assert.Equal(t, []byte("glTF"), buf.Bytes()[:4])
}

func TestExportFBX(t *testing.T) {
	f := ExportFBX(exportTestScene().Root(), "scene.fbx")
	assert.Equal(t, 3, f.ObjectCount("Model"))
	assert.Equal(t, 1, f.ObjectCount("Geometry"))
	assert.Equal(t, 2, f.ObjectCount("NodeAttribute"))

	var buf bytes.Buffer
	require.NoError(t, WriteFBX(&buf, exportTestScene().Root(), "scene.fbx"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("Kaydara FBX Binary")))
}

func TestFBXGeometryNegatesPolygonEnds(t *testing.T) {
	var g fbxGeometryData
	g.appendObject(NewRectangle(NewShaderMgr(r3dtest.NewRecorder()), 1, 1).Objects()[0], 2)
	assert.Equal(t, []int32{0, 1, -3, 3, 4, -6}, g.indexes)
	assert.Len(t, g.vertices, 18)
	assert.Len(t, g.uvs, 12)
	assert.Len(t, g.colors, 24)
	assert.Equal(t, []int32{2, 2}, g.materials)
}

func TestExportFBXMaterials(t *testing.T) {
	mtl := testCubeMTL + "map_Kd red.png\nKa 0.1 0.1 0.1\n"
	path := writeTestModel(t, testCubeOBJ, mtl)
	om, err := NewObjModel(NewShaderMgr(r3dtest.NewRecorder()), path, true)
	require.NoError(t, err)

	doc := ExportFBX(om, "cube.fbx")
	assert.Equal(t, 1, doc.ObjectCount("Model"))
	assert.Equal(t, 2, doc.ObjectCount("Material"))
	assert.Equal(t, 1, doc.ObjectCount("Texture"))

	var materials []*fbx.Node
	var texture, geometry, model *fbx.Node
	for _, n := range doc.objects.Nodes {
		switch n.Name {
		case "Material":
			materials = append(materials, n)
		case "Texture":
			texture = n
		case "Geometry":
			geometry = n
		case "Model":
			model = n
		}
	}
	require.Len(t, materials, 2)
	assert.Equal(t, "red\x00\x01Material", materials[0].Properties[1])
	assert.Equal(t, "default\x00\x01Material", materials[1].Properties[1])

	diffuse := materials[0].GetNode("Properties70").Nodes[1]
	assert.Equal(t, []interface{}{"DiffuseColor", "Color", "", "A", float64(1), float64(0), float64(0)}, diffuse.Properties)

	require.NotNil(t, texture)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "red.png"), texture.GetNode("FileName").Properties[0])
	assert.Equal(t, "red.png", texture.GetNode("RelativeFilename").Properties[0])

	require.NotNil(t, geometry)
	layer := geometry.GetNode("LayerElementMaterial")
	require.NotNil(t, layer)
	assert.Equal(t, []int32{0, 0, 1}, layer.GetNode("Materials").Properties[0])

	connections := doc.Connections()
	assert.Contains(t, connections, [3]interface{}{"OO", materials[0].Properties[0], model.Properties[0]})
	assert.Contains(t, connections, [3]interface{}{"OO", materials[1].Properties[0], model.Properties[0]})
	assert.Contains(t, connections, [3]interface{}{"OP", texture.Properties[0], materials[0].Properties[0]})

	var buf bytes.Buffer
	require.NoError(t, doc.Write(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("Kaydara FBX Binary")))
}

func TestFBXDefinitionsCountObjects(t *testing.T) {
	doc := ExportFBX(exportTestScene().Root(), "scene.fbx")
	doc.fillDefinitions()

	counts := make(map[string]int32)
	for _, ot := range doc.definitions.GetNodes("ObjectType") {
		counts[ot.Properties[0].(string)] = ot.GetNode("Count").Properties[0].(int32)
	}
	assert.Equal(t, map[string]int32{
		"GlobalSettings": 1,
		"Model":          3,
		"Geometry":       1,
		"NodeAttribute":  2,
	}, counts)
	assert.Equal(t, int32(7), doc.definitions.GetNode("Count").Properties[0])
}

func TestDescribe(t *testing.T) {
	s := exportTestScene()
	s.Root().Base().SetRotation(0, mgl32.DegToRad(45), 0)
	info := Describe(s.Root())

	assert.Equal(t, "collection", info.Kind)
	assert.InDelta(t, 45, info.Rotation[1], 1e-3)
	require.Len(t, info.Children, 2)

	axes := info.Children[0]
	assert.Equal(t, "compound", axes.Kind)
	assert.Equal(t, 1, axes.Objects)
	assert.Equal(t, 6, axes.Vertices)
	assert.False(t, info.Children[1].Visible)

	raw, err := json.Marshal(info)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "root", decoded["name"])
	assert.Len(t, decoded["children"], 2)
	assert.NotContains(t, decoded, "file")
}
