package bsg

import (
	"io/ioutil"
	"log"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mogaika/bsg_viewer/config"
	"github.com/mogaika/bsg_viewer/objlang"
	"github.com/mogaika/bsg_viewer/r3d"
	"github.com/pkg/errors"
)

var defaultModelColor = mgl32.Vec4{1, 1, 1, 1}

// ObjModel is a compound built from a Wavefront OBJ file, one DrawableObj
// per material.
type ObjModel struct {
	*Compound

	fileName  string
	texCoords bool
	bbox      r3d.BBox
	materials map[string]*objlang.Material
	// material of each object, nil where the group had none
	parts     []*objlang.Material
}

// NewObjModel reads fileName and builds the geometry for shader.
// With texCoords set the texture coordinate stream is filled as well.
func NewObjModel(shader *ShaderMgr, fileName string, texCoords bool) (*ObjModel, error) {
	raw, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot open %q", fileName)
	}
	text, err := config.DecodeText(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "Model %q", fileName)
	}
	model, err := objlang.ParseOBJ(text)
	if err != nil {
		return nil, errors.Wrapf(err, "Model %q", fileName)
	}

	name := filepath.Base(fileName)
	name = name[:len(name)-len(filepath.Ext(name))]

	om := &ObjModel{
		Compound:  NewCompound(name, shader),
		fileName:  fileName,
		texCoords: texCoords,
		materials: loadMaterials(filepath.Dir(fileName), model.MtlLibs),
	}
	if err := om.build(model); err != nil {
		return nil, errors.Wrapf(err, "Model %q", fileName)
	}
	log.Printf("[bsg] Loaded %q: %d vertices, %d faces, %d parts",
		fileName, len(model.Positions), model.FaceCount(), len(om.objects))
	return om, nil
}

func loadMaterials(dir string, libs []string) map[string]*objlang.Material {
	materials := make(map[string]*objlang.Material)
	for _, lib := range libs {
		path := lib
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, lib)
		}
		raw, err := ioutil.ReadFile(path)
		if err != nil {
			log.Printf("[bsg] Caution: material library %q: %v", path, err)
			continue
		}
		text, err := config.DecodeText(raw)
		if err != nil {
			log.Printf("[bsg] Caution: material library %q: %v", path, err)
			continue
		}
		mats, err := objlang.ParseMTL(text)
		if err != nil {
			log.Printf("[bsg] Caution: material library %q: %v", path, err)
			continue
		}
		for name, m := range mats {
			materials[name] = m
		}
	}
	return materials
}

func (om *ObjModel) build(model *objlang.Model) error {
	if om.texCoords && len(model.TexCoords) == 0 {
		log.Printf("[bsg] Caution: %q has no texture coordinates", om.fileName)
	}

	for _, group := range model.Groups {
		color := defaultModelColor
		material, ok := om.materials[group.Material]
		if ok {
			color = material.Color()
		} else if group.Material != "" {
			log.Printf("[bsg] Caution: %q uses unknown material %q", om.fileName, group.Material)
		}

		var vertices, colors, normals []mgl32.Vec4
		var uvs []mgl32.Vec2
		for _, face := range group.Faces {
			for _, tri := range face.Triangles() {
				faceNormal := triangleNormal(model, tri)
				for _, idx := range tri {
					pos := model.Positions[idx.V]
					vertices = append(vertices, pos)
					om.bbox.ExpandToPoint(pos.Vec3())

					if model.Colors != nil {
						colors = append(colors, model.Colors[idx.V].Vec4(1))
					} else {
						colors = append(colors, color)
					}

					if idx.N >= 0 {
						normals = append(normals, model.Normals[idx.N].Vec4(0))
					} else {
						normals = append(normals, faceNormal.Vec4(0))
					}

					if om.texCoords {
						if idx.T >= 0 {
							uvs = append(uvs, model.TexCoords[idx.T])
						} else {
							uvs = append(uvs, mgl32.Vec2{})
						}
					}
				}
			}
		}
		if len(vertices) == 0 {
			continue
		}

		o := NewDrawableObj()
		if err := o.AddData(DataVertices, AttribPosition, vertices); err != nil {
			return err
		}
		if err := o.AddData(DataColors, AttribColor, colors); err != nil {
			return err
		}
		if err := o.AddData(DataNormals, AttribNormal, normals); err != nil {
			return err
		}
		if om.texCoords {
			if err := o.AddData2(DataTexCoords, AttribTexCoord, uvs); err != nil {
				return err
			}
		}
		o.SetDrawType(r3d.DrawTriangles, len(vertices))
		om.AddObject(o)
		om.parts = append(om.parts, material)
	}

	if len(om.objects) == 0 {
		return errors.Errorf("no faces")
	}
	return nil
}

func triangleNormal(model *objlang.Model, tri [3]objlang.Index) mgl32.Vec3 {
	a := model.Positions[tri[0].V].Vec3()
	b := model.Positions[tri[1].V].Vec3()
	c := model.Positions[tri[2].V].Vec3()
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() == 0 {
		return mgl32.Vec3{0, 0, 1}
	}
	return n.Normalize()
}

func (om *ObjModel) FileName() string { return om.fileName }

// Bounds is the box around the model vertices in model space.
func (om *ObjModel) Bounds() r3d.BBox { return om.bbox }

func (om *ObjModel) Materials() map[string]*objlang.Material { return om.materials }

// PartMaterial is the material of the i-th object, nil for groups
// without a known material.
func (om *ObjModel) PartMaterial(i int) *objlang.Material {
	if i < 0 || i >= len(om.parts) {
		return nil
	}
	return om.parts[i]
}
