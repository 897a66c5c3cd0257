package bsg

import (
	"io"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mogaika/bsg_viewer/objlang"
	"github.com/mogaika/bsg_viewer/r3d"
	"github.com/mogaika/bsg_viewer/utils"
	"github.com/mogaika/fbx"
	"github.com/mogaika/fbx/builders/bfbx73"
)

// triangleIndices lists the triangles a draw call rasterizes.
// Point and line modes produce none.
func triangleIndices(mode r3d.DrawMode, count int) [][3]int32 {
	var tris [][3]int32
	switch mode {
	case r3d.DrawTriangles:
		for i := 0; i+2 < count; i += 3 {
			tris = append(tris, [3]int32{int32(i), int32(i + 1), int32(i + 2)})
		}
	case r3d.DrawTriangleStrip:
		for i := 0; i+2 < count; i++ {
			if i%2 == 0 {
				tris = append(tris, [3]int32{int32(i), int32(i + 1), int32(i + 2)})
			} else {
				tris = append(tris, [3]int32{int32(i + 1), int32(i), int32(i + 2)})
			}
		}
	case r3d.DrawTriangleFan:
		for i := 1; i+1 < count; i++ {
			tris = append(tris, [3]int32{0, int32(i), int32(i + 1)})
		}
	}
	return tris
}

func fbxModelProperties(n *Node) *fbx.Node {
	t := n.Position()
	r := utils.QuatToEuler(n.Orientation())
	s := n.Scale()
	return bfbx73.Properties70().AddNodes(
		bfbx73.P("InheritType", "enum", "", "", int32(1)),
		bfbx73.P("DefaultAttributeIndex", "int", "Integer", "", int32(0)),
		bfbx73.P("Lcl Translation", "Lcl Translation", "", "A", float64(t[0]), float64(t[1]), float64(t[2])),
		bfbx73.P("Lcl Rotation", "Lcl Rotation", "", "A",
			float64(mgl32.RadToDeg(r[0])), float64(mgl32.RadToDeg(r[1])), float64(mgl32.RadToDeg(r[2]))),
		bfbx73.P("Lcl Scaling", "Lcl Scaling", "", "A", float64(s[0]), float64(s[1]), float64(s[2])),
	)
}


type fbxGeometryData struct {
	vertices []float64
	indexes  []int32
	normals  []float64
	colors   []float64
	uvs      []float64

	// material index of every triangle
	materials []int32
}

// appendObject copies the triangles of o, expanded so every polygon vertex
// is unique. Every triangle takes material index material.
func (g *fbxGeometryData) appendObject(o *DrawableObj, material int32) {
	vertices, vc := o.Data(DataVertices)
	normals, nc := o.Data(DataNormals)
	colors, cc := o.Data(DataColors)
	uvs, tc := o.Data(DataTexCoords)

	for _, tri := range triangleIndices(o.DrawMode(), o.VertexCount()) {
		if (int(tri[2])+1)*vc > len(vertices) {
			return
		}
		g.materials = append(g.materials, material)
		for corner, v := range tri {
			i := int(v)
			idx := int32(len(g.vertices) / 3)
			if corner == 2 {
				idx = -idx - 1
			}
			g.indexes = append(g.indexes, idx)
			g.vertices = append(g.vertices, utils.FloatArray32to64(vertices[i*vc:i*vc+3])...)

			if nc != 0 && (i+1)*nc <= len(normals) {
				g.normals = append(g.normals, utils.FloatArray32to64(normals[i*nc:i*nc+3])...)
			} else {
				g.normals = append(g.normals, 0, 0, 1)
			}
			if cc != 0 && (i+1)*cc <= len(colors) {
				g.colors = append(g.colors, utils.FloatArray32to64(colors[i*cc:i*cc+4])...)
			} else {
				g.colors = append(g.colors, 1, 1, 1, 1)
			}
			if tc != 0 && (i+1)*tc <= len(uvs) {
				g.uvs = append(g.uvs, utils.FloatArray32to64(uvs[i*tc:i*tc+2])...)
			} else {
				g.uvs = append(g.uvs, 0, 0)
			}
		}
	}
}

func fbxLayerElement(node *fbx.Node, mapping, reference string, data ...*fbx.Node) *fbx.Node {
	return node.AddNodes(
		bfbx73.Version(101),
		bfbx73.Name(""),
		bfbx73.MappingInformationType(mapping),
		bfbx73.ReferenceInformationType(reference),
	).AddNodes(data...)
}

// node builds the Geometry object. withMaterials adds the per triangle
// material layer.
func (g *fbxGeometryData) node(id int64, withMaterials bool) *fbx.Node {
	uvIndex := make([]int32, len(g.indexes))
	for i := range uvIndex {
		uvIndex[i] = int32(i)
	}

	elements := []*fbx.Node{
		fbxLayerElement(bfbx73.LayerElementNormal(0), "ByVertice", "Direct", bfbx73.Normals(g.normals)),
		fbxLayerElement(bfbx73.LayerElementColor(0), "ByVertice", "Direct", bfbx73.Colors(g.colors)),
		fbxLayerElement(bfbx73.LayerElementUV(0), "ByPolygonVertex", "IndexToDirect",
			bfbx73.UV(g.uvs), bfbx73.UVIndex(uvIndex)),
	}
	if withMaterials {
		elements = append(elements, fbxLayerElement(bfbx73.LayerElementMaterial(0),
			"ByPolygon", "IndexToDirect", bfbx73.Materials(g.materials)))
	}

	layer := bfbx73.Layer(0).AddNodes(bfbx73.Version(100))
	for _, element := range elements {
		layer.AddNode(bfbx73.LayerElement().AddNodes(
			bfbx73.Type(element.Name),
			bfbx73.TypedIndex(0),
		))
	}

	return bfbx73.Geometry(id, "\x00\x01Geometry", "Mesh").AddNodes(
		bfbx73.GeometryVersion(124),
		bfbx73.Vertices(g.vertices),
		bfbx73.PolygonVertexIndex(g.indexes),
	).AddNodes(elements...).AddNodes(layer)
}

var fbxDefaultMaterial = &objlang.Material{
	Name:     "default",
	Ambient:  mgl32.Vec3{0.2, 0.2, 0.2},
	Diffuse:  mgl32.Vec3{1, 1, 1},
	Dissolve: 1,
}

func fbxColor(name string, c mgl32.Vec3) *fbx.Node {
	return bfbx73.P(name, "Color", "", "A", float64(c[0]), float64(c[1]), float64(c[2]))
}

// exportMaterial writes m as a phong Material, with its diffuse map as a
// Texture bound to the diffuse colour. dir resolves relative map names.
func exportMaterial(doc *FBXDocument, m *objlang.Material, dir string) int64 {
	id := doc.newId()
	doc.add(bfbx73.Material(id, m.Name+"\x00\x01Material", "").AddNodes(
		bfbx73.Version(102),
		bfbx73.ShadingModel("phong"),
		bfbx73.MultiLayer(0),
		bfbx73.Properties70().AddNodes(
			fbxColor("AmbientColor", m.Ambient),
			fbxColor("DiffuseColor", m.Diffuse),
			fbxColor("SpecularColor", m.Specular),
			bfbx73.P("Shininess", "double", "Number", "", float64(m.Shininess)),
			bfbx73.P("Opacity", "double", "Number", "", float64(m.Dissolve)),
		),
	))

	if m.DiffuseMap != "" {
		path := m.DiffuseMap
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		textureId := doc.newId()
		doc.add(bfbx73.Texture(textureId, m.Name+"\x00\x01Texture", "").AddNodes(
			bfbx73.Type("TextureVideoClip"),
			bfbx73.Version(202),
			bfbx73.TextureName(m.Name+"\x00\x01Texture"),
			fbx.NewNode("FileName", path),
			bfbx73.RelativeFilename(m.DiffuseMap),
			bfbx73.Texture_Alpha_Source("None"),
		))
		doc.connect(textureId, id, "DiffuseColor")
	}
	return id
}

// exportGeometry fills the mesh of c. Parts of OBJ models reference their
// materials, which are written once per model in first use order.
func exportGeometry(doc *FBXDocument, c *Compound, owner Drawable, modelId int64) (fbxGeometryData, bool) {
	var geometry fbxGeometryData
	om, isObj := owner.(*ObjModel)
	if !isObj {
		for _, o := range c.objects {
			geometry.appendObject(o, 0)
		}
		return geometry, false
	}

	dir := filepath.Dir(om.FileName())
	index := make(map[*objlang.Material]int32)
	var materialIds []int64
	for i, o := range c.objects {
		m := om.PartMaterial(i)
		if m == nil {
			m = fbxDefaultMaterial
		}
		idx, ok := index[m]
		if !ok {
			idx = int32(len(materialIds))
			index[m] = idx
			materialIds = append(materialIds, exportMaterial(doc, m, dir))
		}
		geometry.appendObject(o, idx)
	}
	// material indexes follow the connection order
	for _, id := range materialIds {
		doc.connect(id, modelId)
	}
	return geometry, true
}

// exportFBXNode adds d and its descendants, connected under parentId.
func exportFBXNode(doc *FBXDocument, d Drawable, parentId int64) {
	base := d.Base()
	modelId := doc.newId()

	var geometry fbxGeometryData
	var withMaterials bool
	if c, ok := compoundOf(d); ok {
		geometry, withMaterials = exportGeometry(doc, c, d, modelId)
	}

	kind := "Null"
	if len(geometry.indexes) != 0 {
		kind = "Mesh"
	}
	doc.add(bfbx73.Model(modelId, base.Name()+"\x00\x01Model", kind).AddNodes(
		bfbx73.Version(232),
		fbxModelProperties(base),
		bfbx73.Shading(true),
		bfbx73.Culling("CullingOff"),
	))

	if kind == "Mesh" {
		geometryId := doc.newId()
		doc.add(geometry.node(geometryId, withMaterials))
		doc.connect(geometryId, modelId)
	} else {
		attributeId := doc.newId()
		doc.add(bfbx73.NodeAttribute(attributeId, base.Name()+"\x00\x01NodeAttribute", "Null").AddNodes(
			bfbx73.TypeFlags("Null"),
		))
		doc.connect(attributeId, modelId)
	}
	doc.connect(modelId, parentId)

	if c, ok := d.(*Collection); ok {
		for _, name := range c.Names() {
			exportFBXNode(doc, c.objects[name], modelId)
		}
	}
}

// ExportFBX builds an FBX 7.4 document of the tree under d.
// Only triangle primitives carry geometry, line objects are left out.
func ExportFBX(d Drawable, filename string) *FBXDocument {
	doc := NewFBXDocument(filename)
	exportFBXNode(doc, d, 0)
	return doc
}

func WriteFBX(w io.Writer, d Drawable, filename string) error {
	return ExportFBX(d, filename).Write(w)
}
