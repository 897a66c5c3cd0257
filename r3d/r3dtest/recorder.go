// Package r3dtest provides a Device that records calls instead of drawing.
package r3dtest

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mogaika/bsg_viewer/r3d"
	"github.com/pkg/errors"
)

// Call is one recorded device call.
type Call struct {
	Op   string
	Args []interface{}
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Op, c.Args)
}

// Recorder implements r3d.Device. Locations are handed out per name;
// names listed in Missing resolve to -1.
type Recorder struct {
	Calls []Call

	// CompileError makes CreateProgram fail for sources containing it.
	CompileError string
	Missing      map[string]bool

	Programs map[uint32][]r3d.ShaderSource
	Buffers  map[uint32][]float32
	Textures map[uint32]r3d.TextureImage
	Uniforms map[int32]interface{}

	locations map[string]int32
	lastId    uint32
	program   uint32
}

var _ r3d.Device = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{
		Missing:   make(map[string]bool),
		Programs:  make(map[uint32][]r3d.ShaderSource),
		Buffers:   make(map[uint32][]float32),
		Textures:  make(map[uint32]r3d.TextureImage),
		Uniforms:  make(map[int32]interface{}),
		locations: make(map[string]int32),
	}
}

func (r *Recorder) record(op string, args ...interface{}) {
	r.Calls = append(r.Calls, Call{Op: op, Args: args})
}

func (r *Recorder) nextId() uint32 {
	r.lastId++
	return r.lastId
}

func (r *Recorder) location(kind string, program uint32, name string) int32 {
	if r.Missing[name] {
		return -1
	}
	key := fmt.Sprintf("%s/%d/%s", kind, program, name)
	if loc, ok := r.locations[key]; ok {
		return loc
	}
	loc := int32(len(r.locations))
	r.locations[key] = loc
	return loc
}

// Ops returns the recorded operation names, optionally filtered by prefix.
func (r *Recorder) Ops(prefix string) []string {
	var ops []string
	for _, c := range r.Calls {
		if strings.HasPrefix(c.Op, prefix) {
			ops = append(ops, c.Op)
		}
	}
	return ops
}

// Count returns how many times op was called.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls but keeps created objects.
func (r *Recorder) Reset() { r.Calls = nil }

// UniformByName returns the last value uploaded to a named uniform of program.
func (r *Recorder) UniformByName(program uint32, name string) (interface{}, bool) {
	loc, ok := r.locations[fmt.Sprintf("uniform/%d/%s", program, name)]
	if !ok {
		return nil, false
	}
	v, ok := r.Uniforms[loc]
	return v, ok
}

// CurrentProgram is the last program passed to UseProgram.
func (r *Recorder) CurrentProgram() uint32 { return r.program }

func (r *Recorder) CreateProgram(stages []r3d.ShaderSource) (uint32, error) {
	r.record("CreateProgram", len(stages))
	for _, s := range stages {
		if r.CompileError != "" && strings.Contains(s.Text, r.CompileError) {
			return 0, errors.Errorf("failed to compile %v shader %q: syntax error", s.Stage, s.Name)
		}
	}
	id := r.nextId()
	r.Programs[id] = append([]r3d.ShaderSource(nil), stages...)
	return id, nil
}

func (r *Recorder) DeleteProgram(program uint32) {
	r.record("DeleteProgram", program)
	delete(r.Programs, program)
}

func (r *Recorder) UseProgram(program uint32) {
	r.record("UseProgram", program)
	r.program = program
}

func (r *Recorder) AttribLocation(program uint32, name string) int32 {
	r.record("AttribLocation", program, name)
	return r.location("attrib", program, name)
}

func (r *Recorder) UniformLocation(program uint32, name string) int32 {
	r.record("UniformLocation", program, name)
	return r.location("uniform", program, name)
}

func (r *Recorder) CreateBuffer() uint32 {
	id := r.nextId()
	r.record("CreateBuffer", id)
	r.Buffers[id] = nil
	return id
}

func (r *Recorder) DeleteBuffer(buffer uint32) {
	r.record("DeleteBuffer", buffer)
	delete(r.Buffers, buffer)
}

func (r *Recorder) BufferData(buffer uint32, data []float32) {
	r.record("BufferData", buffer, len(data))
	r.Buffers[buffer] = append([]float32(nil), data...)
}

func (r *Recorder) VertexAttrib(buffer uint32, location int32, components int32) {
	r.record("VertexAttrib", buffer, location, components)
}

func (r *Recorder) DrawArrays(mode r3d.DrawMode, first, count int32) {
	r.record("DrawArrays", mode, first, count)
}

func (r *Recorder) UniformMatrix4(location int32, m mgl32.Mat4) {
	r.record("UniformMatrix4", location)
	r.Uniforms[location] = m
}

func (r *Recorder) Uniform4v(location int32, v []mgl32.Vec4) {
	r.record("Uniform4v", location, len(v))
	r.Uniforms[location] = append([]mgl32.Vec4(nil), v...)
}

func (r *Recorder) Uniform1i(location int32, v int32) {
	r.record("Uniform1i", location, v)
	r.Uniforms[location] = v
}

func (r *Recorder) CreateTexture(img r3d.TextureImage) uint32 {
	id := r.nextId()
	r.record("CreateTexture", id, img.Width, img.Height)
	r.Textures[id] = img
	return id
}

func (r *Recorder) DeleteTexture(texture uint32) {
	r.record("DeleteTexture", texture)
	delete(r.Textures, texture)
}

func (r *Recorder) BindTexture(unit uint32, texture uint32) {
	r.record("BindTexture", unit, texture)
}

func (r *Recorder) Clear() {
	r.record("Clear")
}
