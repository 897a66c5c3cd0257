package uibackend

import (
	"log"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/bsg_viewer/r3d"
)

// OpenGL4 implements r3d.Device on github.com/go-gl/gl (v4.3-core).
// Every buffer is bound through one vertex array object created at start.
type OpenGL4 struct {
	vao        uint32
	clearColor mgl32.Vec4
}

var _ r3d.Device = (*OpenGL4)(nil)

// NewOpenGL4 loads the GL functions and sets the fixed render state.
// An OpenGL context has to be current before calling this function.
func NewOpenGL4(clearColor mgl32.Vec4, lineWidth float32) (*OpenGL4, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "Failed to initialize OpenGL")
	}
	log.Printf("[gl] Hardware check: %s / %s",
		gl.GoStr(gl.GetString(gl.RENDERER)), gl.GoStr(gl.GetString(gl.VERSION)))

	r := &OpenGL4{clearColor: clearColor}

	gl.Enable(gl.DEBUG_OUTPUT_SYNCHRONOUS)
	gl.Enable(gl.DEBUG_OUTPUT)
	gl.DebugMessageCallback(openglLogCallback, nil)

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.ClearColor(clearColor[0], clearColor[1], clearColor[2], clearColor[3])
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.LINE_SMOOTH)
	gl.LineWidth(lineWidth)

	return r, nil
}

func (r *OpenGL4) Destroy() {
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
}

func (r *OpenGL4) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

var glShaderStages = map[r3d.ShaderStage]uint32{
	r3d.ShaderVertex:   gl.VERTEX_SHADER,
	r3d.ShaderFragment: gl.FRAGMENT_SHADER,
	r3d.ShaderGeometry: gl.GEOMETRY_SHADER,
}

func (r *OpenGL4) CreateProgram(stages []r3d.ShaderSource) (uint32, error) {
	shaders := make([]uint32, 0, len(stages))
	deleteShaders := func() {
		for _, s := range shaders {
			gl.DeleteShader(s)
		}
	}

	for _, stage := range stages {
		xtype, ok := glShaderStages[stage.Stage]
		if !ok {
			deleteShaders()
			return 0, errors.Errorf("Unknown shader stage %v", stage.Stage)
		}
		s, err := LoadShader(xtype, stage.Text)
		if err != nil {
			deleteShaders()
			return 0, errors.Wrapf(err, "%v shader %q", stage.Stage, stage.Name)
		}
		shaders = append(shaders, s)
	}

	id := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(id, s)
	}
	gl.LinkProgram(id)
	for _, s := range shaders {
		gl.DetachShader(id, s)
	}
	deleteShaders()

	var isLinked int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &isLinked)
	if isLinked == gl.FALSE {
		var logSize int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logSize)
		buf := make([]uint8, logSize+1)
		gl.GetProgramInfoLog(id, int32(len(buf)), &logSize, &buf[0])
		errString := string(buf[:logSize])
		log.Printf("[gl] Failed to link program:\n%s", errString)

		gl.DeleteProgram(id)
		return 0, errors.Errorf("failed to link program: %q", errString)
	}
	return id, nil
}

func LoadShader(xtype uint32, text string) (shader uint32, err error) {
	glShaderSource := func(handle uint32, source string) {
		csource, free := gl.Strs(source + "\x00")
		defer free()

		gl.ShaderSource(handle, 1, csource, nil)
	}

	shader = gl.CreateShader(xtype)
	glShaderSource(shader, text)
	gl.CompileShader(shader)

	var success int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &success)
	if success == gl.FALSE {
		var logSize int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logSize)
		buf := make([]uint8, logSize+1)
		gl.GetShaderInfoLog(shader, int32(len(buf)), &logSize, &buf[0])
		errString := string(buf[:logSize])
		log.Printf("[gl] Failed to compile shader:\n%s", errString)

		gl.DeleteShader(shader)
		return gl.INVALID_INDEX, errors.Errorf("failed to compile shader: %q", errString)
	}
	return shader, nil
}

func (r *OpenGL4) DeleteProgram(program uint32) { gl.DeleteProgram(program) }
func (r *OpenGL4) UseProgram(program uint32)    { gl.UseProgram(program) }

func (r *OpenGL4) AttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (r *OpenGL4) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (r *OpenGL4) CreateBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (r *OpenGL4) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

func (r *OpenGL4) BufferData(buffer uint32, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (r *OpenGL4) VertexAttrib(buffer uint32, location int32, components int32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
	gl.EnableVertexAttribArray(uint32(location))
	gl.VertexAttribPointerWithOffset(uint32(location), components, gl.FLOAT, false, 0, 0)
}

var glDrawModes = map[r3d.DrawMode]uint32{
	r3d.DrawPoints:        gl.POINTS,
	r3d.DrawLines:         gl.LINES,
	r3d.DrawLineStrip:     gl.LINE_STRIP,
	r3d.DrawTriangles:     gl.TRIANGLES,
	r3d.DrawTriangleStrip: gl.TRIANGLE_STRIP,
	r3d.DrawTriangleFan:   gl.TRIANGLE_FAN,
}

func (r *OpenGL4) DrawArrays(mode r3d.DrawMode, first, count int32) {
	gl.DrawArrays(glDrawModes[mode], first, count)
}

func (r *OpenGL4) UniformMatrix4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (r *OpenGL4) Uniform4v(location int32, v []mgl32.Vec4) {
	if len(v) == 0 {
		return
	}
	gl.Uniform4fv(location, int32(len(v)), &v[0][0])
}

func (r *OpenGL4) Uniform1i(location int32, v int32) { gl.Uniform1i(location, v) }

func (r *OpenGL4) CreateTexture(img r3d.TextureImage) uint32 {
	format := uint32(gl.RGB)
	if img.Format == r3d.TextureRGBA {
		format = gl.RGBA
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	// rows of RGB images are not 4 byte aligned
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	var pixels unsafe.Pointer
	if len(img.Pixels) != 0 {
		pixels = unsafe.Pointer(&img.Pixels[0])
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, int32(format), int32(img.Width), int32(img.Height),
		0, format, gl.UNSIGNED_BYTE, pixels)
	return id
}

func (r *OpenGL4) DeleteTexture(texture uint32) { gl.DeleteTextures(1, &texture) }

func (r *OpenGL4) BindTexture(unit uint32, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, texture)
}

func (r *OpenGL4) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
}

var glConstToString = map[uint32]string{
	gl.DEBUG_SOURCE_API:             "API",
	gl.DEBUG_SOURCE_WINDOW_SYSTEM:   "WINDOW SYSTEM",
	gl.DEBUG_SOURCE_SHADER_COMPILER: "SHADER COMPILER",
	gl.DEBUG_SOURCE_THIRD_PARTY:     "THIRD PARTY",
	gl.DEBUG_SOURCE_APPLICATION:     "APPLICATION",
	gl.DEBUG_SOURCE_OTHER:           "OTHER",

	gl.DEBUG_TYPE_ERROR:               "ERROR",
	gl.DEBUG_TYPE_DEPRECATED_BEHAVIOR: "DEPRECATED BEHAVIOR",
	gl.DEBUG_TYPE_UNDEFINED_BEHAVIOR:  "UNDEFINED BEHAVIOR",
	gl.DEBUG_TYPE_PORTABILITY:         "PORTABILITY",
	gl.DEBUG_TYPE_PERFORMANCE:         "PERFORMANCE",
	gl.DEBUG_TYPE_OTHER:               "OTHER",
	gl.DEBUG_TYPE_MARKER:              "MARKER",

	gl.DEBUG_SEVERITY_HIGH:         "HIGH",
	gl.DEBUG_SEVERITY_MEDIUM:       "MEDIUM",
	gl.DEBUG_SEVERITY_LOW:          "LOW",
	gl.DEBUG_SEVERITY_NOTIFICATION: "NOTIFICATION",
}

// openglLogCallback only logs. Wide lines are rejected by some core profile
// drivers with an error report, and that must not stop the viewer.
func openglLogCallback(source uint32, gltype uint32, id uint32,
	severity uint32, length int32, message string, userParam unsafe.Pointer) {
	if severity == gl.DEBUG_SEVERITY_NOTIFICATION {
		return
	}
	log.Printf("[gl] id:%v severity:%v src:%v type:%v %q",
		id, glConstToString[severity], glConstToString[source], glConstToString[gltype],
		strings.TrimSpace(message))
}
