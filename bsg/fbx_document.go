package bsg

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"

	"github.com/mogaika/fbx"
	"github.com/mogaika/fbx/builders/bfbx73"
	"github.com/pkg/errors"
)

const (
	fbxVersion = 7400
	fbxCreator = "bsg_viewer scene export"
	// stamp of every document, so exports of one scene are byte equal
	fbxCreationTime = "1970-01-01 00:00:00:000"
)

var fbxFileId = []byte{
	0x28, 0xb3, 0x2a, 0xeb, 0xb6, 0x24, 0xcc, 0xc2,
	0xbf, 0xc8, 0xb0, 0x2a, 0xa9, 0x2b, 0xfc, 0xf1}

// Y up, right handed, units in meters
var fbxAxisSettings = []struct {
	name  string
	value int32
}{
	{"UpAxis", 1}, {"UpAxisSign", 1},
	{"FrontAxis", 2}, {"FrontAxisSign", 1},
	{"CoordAxis", 0}, {"CoordAxisSign", 1},
}

// FBXDocument collects scene objects and their connections. The
// Definitions section is filled from the collected objects on Write.
type FBXDocument struct {
	f      *fbx.FBX
	lastId int64

	definitions *fbx.Node
	objects     *fbx.Node
	connections *fbx.Node
}

func NewFBXDocument(filename string) *FBXDocument {
	d := &FBXDocument{
		f:           fbx.NewFBX(fbxVersion),
		lastId:      1000000,
		definitions: bfbx73.Definitions(),
		objects:     bfbx73.Objects(),
		connections: bfbx73.Connections(),
	}

	globals := bfbx73.Properties70()
	for _, s := range fbxAxisSettings {
		globals.AddNode(bfbx73.P(s.name, "int", "Integer", "", s.value))
	}
	globals.AddNodes(
		bfbx73.P("UnitScaleFactor", "double", "Number", "", float64(100)),
		bfbx73.P("AmbientColor", "ColorRGB", "Color", "", float64(0), float64(0), float64(0)),
	)

	d.f.Root.AddNodes(
		bfbx73.FBXHeaderExtension().AddNodes(
			bfbx73.FBXHeaderVersion(1003),
			bfbx73.FBXVersion(fbxVersion),
			bfbx73.EncryptionType(0),
			bfbx73.Creator(fbxCreator),
			bfbx73.SceneInfo("GlobalInfo\x00\x01SceneInfo", "UserData").AddNodes(
				bfbx73.Type("UserData"),
				bfbx73.Version(100),
				bfbx73.Properties70().AddNodes(
					bfbx73.P("DocumentUrl", "KString", "Url", "", filename),
					bfbx73.P("Original|FileName", "KString", "", "", filepath.Base(filename)),
				),
			),
		),
		bfbx73.FileId(fbxFileId),
		bfbx73.CreationTime(fbxCreationTime),
		bfbx73.Creator(fbxCreator),
		bfbx73.GlobalSettings().AddNodes(bfbx73.Version(1000), globals),
		bfbx73.Documents().AddNodes(
			bfbx73.Count(1),
			bfbx73.Document(d.newId(), "Scene", "Scene").AddNodes(
				bfbx73.RootNode(0),
			),
		),
		bfbx73.References(),
		d.definitions,
		d.objects,
		d.connections,
		bfbx73.Takes().AddNodes(bfbx73.Current("")),
	)
	return d
}

func (d *FBXDocument) newId() int64 {
	d.lastId++
	return d.lastId
}

func (d *FBXDocument) add(objects ...*fbx.Node) { d.objects.AddNodes(objects...) }

// connect links child under parent. With a property name the child is
// bound to that property of parent, the way textures feed material colours.
func (d *FBXDocument) connect(child, parent int64, property ...string) {
	if len(property) == 0 {
		d.connections.AddNode(bfbx73.C("OO", child, parent))
		return
	}
	d.connections.AddNode(bfbx73.C("OP", child, parent, property[0]))
}

// ObjectCount is the number of objects of kind ("Model", "Material", ...).
func (d *FBXDocument) ObjectCount(kind string) int {
	n := 0
	for _, object := range d.objects.Nodes {
		if object.Name == kind {
			n++
		}
	}
	return n
}

// Connections returns every connection as [type, child, parent].
func (d *FBXDocument) Connections() [][3]interface{} {
	out := make([][3]interface{}, 0, len(d.connections.Nodes))
	for _, c := range d.connections.Nodes {
		out = append(out, [3]interface{}{c.Properties[0], c.Properties[1], c.Properties[2]})
	}
	return out
}

func (d *FBXDocument) fillDefinitions() {
	counts := make(map[string]int32)
	for _, object := range d.objects.Nodes {
		counts[object.Name]++
	}
	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	d.definitions.Nodes = nil
	total := int32(1)
	d.definitions.AddNode(bfbx73.Version(100))
	countNode := bfbx73.Count(0)
	d.definitions.AddNodes(countNode, bfbx73.ObjectType("GlobalSettings").AddNodes(bfbx73.Count(1)))
	for _, kind := range kinds {
		total += counts[kind]
		d.definitions.AddNode(bfbx73.ObjectType(kind).AddNodes(bfbx73.Count(counts[kind])))
	}
	countNode.Properties[0] = total
}

// Write encodes the document. The encoder seeks back to patch node end
// offsets, so the output goes through a temporary file.
func (d *FBXDocument) Write(w io.Writer) error {
	d.fillDefinitions()

	tmp, err := ioutil.TempFile("", "bsg.*.fbx")
	if err != nil {
		return errors.Wrap(err, "Temporary fbx file")
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if err := fbx.Write(tmp, d.f); err != nil {
		return errors.Wrap(err, "Encode fbx")
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "Rewind fbx")
	}
	_, err = io.Copy(w, tmp)
	return err
}
