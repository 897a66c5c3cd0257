package bsg

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mogaika/bsg_viewer/utils"
)

// NodeInfo is a read-only description of one drawable, for inspection.
type NodeInfo struct {
	Name     string     `json:"name"`
	Kind     string     `json:"kind"`
	Visible  bool       `json:"visible"`
	Position mgl32.Vec3 `json:"position"`
	// Euler angles in degrees
	Rotation mgl32.Vec3 `json:"rotation"`
	Scale    mgl32.Vec3 `json:"scale"`
	Model    mgl32.Mat4 `json:"model"`

	File     string      `json:"file,omitempty"`
	Objects  int         `json:"objects,omitempty"`
	Vertices int         `json:"vertices,omitempty"`
	Children []*NodeInfo `json:"children,omitempty"`
}

// Describe snapshots d and its descendants.
func Describe(d Drawable) *NodeInfo {
	base := d.Base()
	euler := utils.QuatToEuler(base.Orientation())
	info := &NodeInfo{
		Name:     base.Name(),
		Visible:  base.Visible(),
		Position: base.Position(),
		Rotation: mgl32.Vec3{mgl32.RadToDeg(euler[0]), mgl32.RadToDeg(euler[1]), mgl32.RadToDeg(euler[2])},
		Scale:    base.Scale(),
		Model:    base.ModelMatrix(),
	}

	switch v := d.(type) {
	case *Collection:
		info.Kind = "collection"
		for _, name := range v.Names() {
			child := Describe(v.objects[name])
			child.Name = name
			info.Children = append(info.Children, child)
		}
	case *ObjModel:
		info.Kind = "model"
		info.File = v.FileName()
		info.describeObjects(v.Compound)
	case *Compound:
		info.Kind = "compound"
		info.describeObjects(v)
	default:
		info.Kind = "drawable"
	}
	return info
}

func (info *NodeInfo) describeObjects(c *Compound) {
	info.Objects = len(c.objects)
	for _, o := range c.objects {
		info.Vertices += o.VertexCount()
	}
}
