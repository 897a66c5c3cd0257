package objlang

import (
	"log"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Index refers to the model arrays, zero based. Absent references are -1.
type Index struct {
	V, T, N int
}

type Face []Index

// Triangles splits a convex polygon into a triangle fan around its first corner.
func (f Face) Triangles() [][3]Index {
	if len(f) < 3 {
		return nil
	}
	result := make([][3]Index, 0, len(f)-2)
	for i := 1; i < len(f)-1; i++ {
		result = append(result, [3]Index{f[0], f[i], f[i+1]})
	}
	return result
}

// Group collects the faces that share one material.
type Group struct {
	Material string
	Faces    []Face
}

type Model struct {
	Positions []mgl32.Vec4
	// Colors is filled only when every vertex carries the "v x y z r g b" extension.
	Colors    []mgl32.Vec3
	TexCoords []mgl32.Vec2
	Normals   []mgl32.Vec3
	Groups    []*Group
	MtlLibs   []string
	Objects   []string

	groupByMaterial map[string]*Group
}

func (m *Model) group(material string) *Group {
	if g, ok := m.groupByMaterial[material]; ok {
		return g
	}
	g := &Group{Material: material}
	m.groupByMaterial[material] = g
	m.Groups = append(m.Groups, g)
	return g
}

// FaceCount is the number of polygons over all groups.
func (m *Model) FaceCount() int {
	n := 0
	for _, g := range m.Groups {
		n += len(g.Faces)
	}
	return n
}

func ParseOBJ(data []byte) (*Model, error) {
	statements, err := scanStatements(data)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to scan obj")
	}

	m := &Model{groupByMaterial: make(map[string]*Group)}
	material := ""
	colored := true

	for _, st := range statements {
		switch st.keyword {
		case "v":
			if len(st.args) == 6 {
				f, err := st.floats(6, 6, 0)
				if err != nil {
					return nil, err
				}
				m.Positions = append(m.Positions, mgl32.Vec4{f[0], f[1], f[2], 1})
				m.Colors = append(m.Colors, mgl32.Vec3{f[3], f[4], f[5]})
			} else {
				f, err := st.floats(3, 4, 1)
				if err != nil {
					return nil, err
				}
				m.Positions = append(m.Positions, mgl32.Vec4{f[0], f[1], f[2], f[3]})
				colored = false
			}
		case "vt":
			f, err := st.floats(1, 3, 0)
			if err != nil {
				return nil, err
			}
			m.TexCoords = append(m.TexCoords, mgl32.Vec2{f[0], f[1]})
		case "vn":
			f, err := st.floats(3, 3, 0)
			if err != nil {
				return nil, err
			}
			m.Normals = append(m.Normals, mgl32.Vec3{f[0], f[1], f[2]})
		case "f":
			face, err := m.parseFace(st)
			if err != nil {
				return nil, err
			}
			g := m.group(material)
			g.Faces = append(g.Faces, face)
		case "usemtl":
			material = st.text()
		case "mtllib":
			for _, tok := range st.args {
				m.MtlLibs = append(m.MtlLibs, string(tok.Lexeme))
			}
		case "o":
			m.Objects = append(m.Objects, st.text())
		case "g", "s", "l", "p", "vp":
		default:
			log.Printf("[objlang] line %d: ignoring unsupported statement %q", st.line, st.keyword)
		}
	}

	if !colored || len(m.Colors) != len(m.Positions) {
		m.Colors = nil
	}
	return m, nil
}

func (m *Model) parseFace(st *statement) (Face, error) {
	if len(st.args) < 3 {
		return nil, st.errorf("face needs at least 3 vertices, got %d", len(st.args))
	}
	face := make(Face, len(st.args))
	for i, tok := range st.args {
		if tok.Type != TOKEN_FACE && tok.Type != TOKEN_NUMBER {
			return nil, st.errorf("bad face reference %q", tok.Lexeme)
		}
		parts := strings.Split(string(tok.Lexeme), "/")
		if len(parts) > 3 {
			return nil, st.errorf("bad face reference %q", tok.Lexeme)
		}

		idx := Index{V: -1, T: -1, N: -1}
		counts := [3]int{len(m.Positions), len(m.TexCoords), len(m.Normals)}
		targets := [3]*int{&idx.V, &idx.T, &idx.N}
		for j, part := range parts {
			if part == "" {
				if j == 0 {
					return nil, st.errorf("face reference %q has no vertex", tok.Lexeme)
				}
				continue
			}
			v, err := resolveIndex(part, counts[j])
			if err != nil {
				return nil, st.errorf("face reference %q: %v", tok.Lexeme, err)
			}
			*targets[j] = v
		}
		face[i] = idx
	}
	return face, nil
}

// resolveIndex turns a one based (or negative, relative to the end) reference
// into a zero based index.
func resolveIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return -1, errors.Errorf("bad index %q", s)
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += count
	default:
		return -1, errors.Errorf("index 0 is invalid")
	}
	if i < 0 || i >= count {
		return -1, errors.Errorf("index %s out of range (%d defined)", s, count)
	}
	return i, nil
}
