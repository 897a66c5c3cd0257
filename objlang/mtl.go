package objlang

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

type Material struct {
	Name       string
	Ambient    mgl32.Vec3
	Diffuse    mgl32.Vec3
	Specular   mgl32.Vec3
	Shininess  float32
	Dissolve   float32
	DiffuseMap string
}

func newMaterial(name string) *Material {
	return &Material{
		Name:     name,
		Ambient:  mgl32.Vec3{0.2, 0.2, 0.2},
		Diffuse:  mgl32.Vec3{0.8, 0.8, 0.8},
		Specular: mgl32.Vec3{1, 1, 1},
		Dissolve: 1,
	}
}

// Color is the diffuse colour with dissolve as alpha.
func (m *Material) Color() mgl32.Vec4 {
	return m.Diffuse.Vec4(m.Dissolve)
}

func ParseMTL(data []byte) (map[string]*Material, error) {
	statements, err := scanStatements(data)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to scan mtl")
	}

	materials := make(map[string]*Material)
	var current *Material

	for _, st := range statements {
		if st.keyword == "newmtl" {
			name := st.text()
			if name == "" {
				return nil, st.errorf("material without name")
			}
			current = newMaterial(name)
			materials[name] = current
			continue
		}
		if current == nil {
			return nil, st.errorf("statement before newmtl")
		}

		switch st.keyword {
		case "Kd", "Ka", "Ks":
			f, err := st.floats(1, 3, 0)
			if err != nil {
				return nil, err
			}
			if len(st.args) == 1 {
				f[1], f[2] = f[0], f[0]
			}
			c := mgl32.Vec3{f[0], f[1], f[2]}
			switch st.keyword {
			case "Kd":
				current.Diffuse = c
			case "Ka":
				current.Ambient = c
			case "Ks":
				current.Specular = c
			}
		case "Ns":
			if current.Shininess, err = st.float(0); err != nil {
				return nil, err
			}
		case "d":
			if current.Dissolve, err = st.float(0); err != nil {
				return nil, err
			}
		case "Tr":
			tr, err := st.float(0)
			if err != nil {
				return nil, err
			}
			current.Dissolve = 1 - tr
		case "map_Kd":
			if len(st.args) == 0 {
				return nil, st.errorf("missing file name")
			}
			// options precede the file name, which is the last argument
			current.DiffuseMap = string(st.args[len(st.args)-1].Lexeme)
		case "illum", "Ke", "Ni", "Tf", "map_Ka", "map_Ks", "map_Bump", "map_d", "bump":
		default:
			log.Printf("[objlang] line %d: ignoring unsupported material statement %q", st.line, st.keyword)
		}
	}
	return materials, nil
}
