// Package r3d holds the pieces of the render pipeline that do not depend on
// a particular graphics binding: the Device contract, cameras and matrix helpers.
package r3d

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

type ShaderStage int

const (
	ShaderVertex ShaderStage = iota
	ShaderFragment
	ShaderGeometry
)

func (s ShaderStage) String() string {
	switch s {
	case ShaderVertex:
		return "vertex"
	case ShaderFragment:
		return "fragment"
	case ShaderGeometry:
		return "geometry"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

type DrawMode int

const (
	DrawPoints DrawMode = iota
	DrawLines
	DrawLineStrip
	DrawTriangles
	DrawTriangleStrip
	DrawTriangleFan
)

type TextureFormat int

const (
	TextureRGB TextureFormat = iota
	TextureRGBA
)

// Components returns bytes per pixel.
func (f TextureFormat) Components() int {
	if f == TextureRGBA {
		return 4
	}
	return 3
}

// TextureImage is tightly packed pixel data, first row at the bottom.
type TextureImage struct {
	Width, Height int
	Format        TextureFormat
	Pixels        []byte
}

// ShaderSource is one stage of a program. Name is used in error messages.
type ShaderSource struct {
	Stage ShaderStage
	Name  string
	Text  string
}

// Device is the set of graphics calls the scene graph issues.
// All methods must be called from the thread owning the context.
type Device interface {
	// CreateProgram compiles and links the stages. Compile and link
	// failures are returned with the driver info log.
	CreateProgram(stages []ShaderSource) (uint32, error)
	DeleteProgram(program uint32)
	UseProgram(program uint32)

	// Locations are negative when the name is not an active variable.
	AttribLocation(program uint32, name string) int32
	UniformLocation(program uint32, name string) int32

	CreateBuffer() uint32
	DeleteBuffer(buffer uint32)
	BufferData(buffer uint32, data []float32)
	// VertexAttrib binds buffer as tightly packed float vectors.
	VertexAttrib(buffer uint32, location int32, components int32)
	DrawArrays(mode DrawMode, first, count int32)

	UniformMatrix4(location int32, m mgl32.Mat4)
	Uniform4v(location int32, v []mgl32.Vec4)
	Uniform1i(location int32, v int32)

	CreateTexture(img TextureImage) uint32
	DeleteTexture(texture uint32)
	BindTexture(unit uint32, texture uint32)

	Clear()
}
