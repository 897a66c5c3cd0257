package bsg

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mogaika/bsg_viewer/r3d"
	"github.com/pkg/errors"
)

type DataType int

const (
	DataVertices DataType = iota
	DataColors
	DataNormals
	DataTexCoords
	dataTypeCount
)

func (t DataType) String() string {
	switch t {
	case DataVertices:
		return "vertices"
	case DataColors:
		return "colors"
	case DataNormals:
		return "normals"
	case DataTexCoords:
		return "texture"
	default:
		return "unknown"
	}
}

// objData is one vertex attribute stream, flattened to floats.
type objData struct {
	name       string
	components int32
	data       []float32

	attribId int32
	bufferId uint32
	buffered bool
}

func (d *objData) empty() bool { return len(d.data) == 0 }

func (d *objData) count() int {
	if d.components == 0 {
		return 0
	}
	return len(d.data) / int(d.components)
}

// DrawableObj is one vertex array drawn with a single DrawArrays call.
type DrawableObj struct {
	mode    r3d.DrawMode
	count   int32
	streams [dataTypeCount]objData

	dev r3d.Device
}

func NewDrawableObj() *DrawableObj {
	return &DrawableObj{mode: r3d.DrawTriangles, count: -1}
}

// SetDrawType sets the primitive mode. A negative count draws every vertex.
func (o *DrawableObj) SetDrawType(mode r3d.DrawMode, count int) {
	o.mode = mode
	o.count = int32(count)
}

func (o *DrawableObj) DrawMode() r3d.DrawMode { return o.mode }

// VertexCount is the number of vertices DrawArrays will process.
func (o *DrawableObj) VertexCount() int {
	if o.count >= 0 {
		return int(o.count)
	}
	return o.streams[DataVertices].count()
}

// AddData sets a vec4 stream. Texture coordinates must use AddData2.
func (o *DrawableObj) AddData(t DataType, name string, data []mgl32.Vec4) error {
	if t == DataTexCoords {
		return errors.Errorf("Do not use vec4 for texture coordinates")
	}
	if t < 0 || t >= dataTypeCount {
		return errors.Errorf("Unknown data type %d", int(t))
	}
	flat := make([]float32, 0, len(data)*4)
	for _, v := range data {
		flat = append(flat, v[:]...)
	}
	o.setStream(t, objData{name: name, components: 4, data: flat})
	return nil
}

// AddData2 sets a vec2 stream, texture coordinates only.
func (o *DrawableObj) AddData2(t DataType, name string, data []mgl32.Vec2) error {
	if t != DataTexCoords {
		return errors.Errorf("Vec2 is only for texture coordinates")
	}
	flat := make([]float32, 0, len(data)*2)
	for _, v := range data {
		flat = append(flat, v[:]...)
	}
	o.setStream(t, objData{name: name, components: 2, data: flat})
	return nil
}

// setStream replaces stream t. After Prepare a stream with the same
// attribute name keeps its buffer and location, and the next Load uploads
// the new data. A renamed stream frees the old buffer and waits for Prepare.
func (o *DrawableObj) setStream(t DataType, d objData) {
	old := &o.streams[t]
	if old.buffered {
		if old.name == d.name {
			d.bufferId, d.buffered, d.attribId = old.bufferId, true, old.attribId
		} else {
			o.dev.DeleteBuffer(old.bufferId)
		}
	}
	o.streams[t] = d
}

// NeedsPrepare reports streams that have no buffer yet.
func (o *DrawableObj) NeedsPrepare() bool {
	for t := range o.streams {
		s := &o.streams[t]
		if !s.empty() && !s.buffered {
			return true
		}
	}
	return false
}

// Data returns the flattened stream and its component count.
func (o *DrawableObj) Data(t DataType) ([]float32, int) {
	s := &o.streams[t]
	return s.data, int(s.components)
}

func (o *DrawableObj) HasData(t DataType) bool { return !o.streams[t].empty() }

// Prepare allocates buffers and resolves attribute locations, then loads.
func (o *DrawableObj) Prepare(shader *ShaderMgr) error {
	if o.streams[DataVertices].empty() {
		return errors.Errorf("Drawable object has no vertices")
	}
	o.dev = shader.Device()
	program := shader.Program()

	badId := false
	for t := range o.streams {
		s := &o.streams[t]
		if s.empty() {
			continue
		}
		if !s.buffered {
			s.bufferId = o.dev.CreateBuffer()
			s.buffered = true
		}
		s.attribId = o.dev.AttribLocation(program, s.name)
		if s.attribId < 0 {
			log.Printf("[bsg] Caution: Bad ID for %v attribute '%s'", DataType(t), s.name)
			badId = true
		}
	}
	if badId {
		log.Printf("[bsg] This can be caused either by a spelling error, or by not using the attribute within the shader code")
	}

	o.Load()
	return nil
}

// Load uploads the streams into their buffers.
func (o *DrawableObj) Load() {
	if o.dev == nil {
		return
	}
	for t := range o.streams {
		s := &o.streams[t]
		if s.buffered {
			o.dev.BufferData(s.bufferId, s.data)
		}
	}
}

func (o *DrawableObj) Draw() {
	if o.dev == nil {
		return
	}
	for t := range o.streams {
		s := &o.streams[t]
		if s.buffered && s.attribId >= 0 {
			o.dev.VertexAttrib(s.bufferId, s.attribId, s.components)
		}
	}
	o.dev.DrawArrays(o.mode, 0, int32(o.VertexCount()))
}

// Release frees the GPU buffers.
func (o *DrawableObj) Release() {
	if o.dev == nil {
		return
	}
	for t := range o.streams {
		s := &o.streams[t]
		if s.buffered {
			o.dev.DeleteBuffer(s.bufferId)
			s.buffered = false
		}
	}
}
