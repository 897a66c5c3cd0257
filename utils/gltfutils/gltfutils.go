package gltfutils

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
)

func NewDocument() *gltf.Document {
	return gltf.NewDocument()
}

// AddRootNode appends node to the document and lists it in the default scene.
func AddRootNode(doc *gltf.Document, node *gltf.Node) uint32 {
	id := AddNode(doc, node)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, id)
	return id
}

func AddNode(doc *gltf.Document, node *gltf.Node) uint32 {
	doc.Nodes = append(doc.Nodes, node)
	return uint32(len(doc.Nodes) - 1)
}

func ExportBinary(w io.Writer, doc *gltf.Document) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}

// Transform fills the TRS fields of node.
func Transform(node *gltf.Node, translation mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) {
	node.Translation = [3]float32(translation)
	node.Rotation = [4]float32{rotation.X(), rotation.Y(), rotation.Z(), rotation.W}
	node.Scale = [3]float32(scale)
}

func Vec3s(data []float32, components int) [][3]float32 {
	out := make([][3]float32, len(data)/components)
	for i := range out {
		copy(out[i][:], data[i*components:i*components+3])
	}
	return out
}

func Vec2s(data []float32, components int) [][2]float32 {
	out := make([][2]float32, len(data)/components)
	for i := range out {
		copy(out[i][:], data[i*components:i*components+2])
	}
	return out
}

// Colors converts float colours to 8 bit RGBA, clamping out of range values.
func Colors(data []float32, components int) [][4]uint8 {
	out := make([][4]uint8, len(data)/components)
	for i := range out {
		out[i][3] = 255
		for j := 0; j < components && j < 4; j++ {
			out[i][j] = uint8(mgl32.Clamp(data[i*components+j], 0, 1)*255 + 0.5)
		}
	}
	return out
}
