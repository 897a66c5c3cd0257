package bsg

import (
	"io"

	"github.com/mogaika/bsg_viewer/r3d"
	"github.com/mogaika/bsg_viewer/utils/gltfutils"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func gltfMode(mode r3d.DrawMode) gltf.PrimitiveMode {
	switch mode {
	case r3d.DrawPoints:
		return gltf.PrimitivePoints
	case r3d.DrawLines:
		return gltf.PrimitiveLines
	case r3d.DrawLineStrip:
		return gltf.PrimitiveLineStrip
	case r3d.DrawTriangleStrip:
		return gltf.PrimitiveTriangleStrip
	case r3d.DrawTriangleFan:
		return gltf.PrimitiveTriangleFan
	default:
		return gltf.PrimitiveTriangles
	}
}

// compoundOf returns the compound behind plain compounds and OBJ models.
func compoundOf(d Drawable) (*Compound, bool) {
	switch v := d.(type) {
	case *Compound:
		return v, true
	case *ObjModel:
		return v.Compound, true
	}
	return nil, false
}

// ExportGLTF converts the tree under d into a glTF document.
// Collections become empty nodes, compounds become meshes with one primitive
// per DrawableObj. Hidden drawables are exported too.
func ExportGLTF(d Drawable) *gltf.Document {
	doc := gltfutils.NewDocument()
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:        "default",
		DoubleSided: true,
	})
	gltfutils.AddRootNode(doc, exportGLTFNode(doc, d))
	return doc
}

func exportGLTFNode(doc *gltf.Document, d Drawable) *gltf.Node {
	base := d.Base()
	node := &gltf.Node{Name: base.Name()}
	gltfutils.Transform(node, base.Position(), base.Orientation(), base.Scale())

	if c, ok := d.(*Collection); ok {
		for _, name := range c.Names() {
			child := exportGLTFNode(doc, c.objects[name])
			node.Children = append(node.Children, gltfutils.AddNode(doc, child))
		}
		return node
	}

	if c, ok := compoundOf(d); ok {
		mesh := &gltf.Mesh{Name: base.Name()}
		for _, o := range c.objects {
			if p := exportGLTFPrimitive(doc, o); p != nil {
				mesh.Primitives = append(mesh.Primitives, p)
			}
		}
		if len(mesh.Primitives) != 0 {
			doc.Meshes = append(doc.Meshes, mesh)
			node.Mesh = gltf.Index(uint32(len(doc.Meshes) - 1))
		}
	}
	return node
}

func exportGLTFPrimitive(doc *gltf.Document, o *DrawableObj) *gltf.Primitive {
	count := o.VertexCount()
	vertices, vc := o.Data(DataVertices)
	if count == 0 || vc == 0 || len(vertices)/vc < count {
		return nil
	}
	// streams shorter than the draw count cannot be expressed as accessors
	stream := func(t DataType) ([]float32, int) {
		data, c := o.Data(t)
		if c == 0 || len(data)/c < count {
			return nil, 0
		}
		return data, c
	}

	attributes := make(map[string]uint32)
	attributes["POSITION"] = modeler.WritePosition(doc, gltfutils.Vec3s(vertices, vc)[:count])
	if normals, nc := stream(DataNormals); nc != 0 {
		attributes["NORMAL"] = modeler.WriteNormal(doc, gltfutils.Vec3s(normals, nc)[:count])
	}
	if uvs, tc := stream(DataTexCoords); tc != 0 {
		attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(doc, gltfutils.Vec2s(uvs, tc)[:count])
	}
	if colors, cc := stream(DataColors); cc != 0 {
		attributes["COLOR_0"] = modeler.WriteColor(doc, gltfutils.Colors(colors, cc)[:count])
	}

	return &gltf.Primitive{
		Attributes: attributes,
		Mode:       gltfMode(o.DrawMode()),
		Material:   gltf.Index(0),
	}
}

// WriteGLB exports the tree under d as binary glTF.
func WriteGLB(w io.Writer, d Drawable) error {
	return gltfutils.ExportBinary(w, ExportGLTF(d))
}
