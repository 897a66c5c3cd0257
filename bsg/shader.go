package bsg

import (
	_ "embed"
	"io/ioutil"
	"log"
	"strconv"
	"strings"

	"github.com/mogaika/bsg_viewer/r3d"
	"github.com/pkg/errors"
)

// Attribute names used by the embedded shaders.
const (
	AttribPosition = "position"
	AttribColor    = "color"
	AttribNormal   = "normal"
	AttribTexCoord = "texCoord"
)

const lightCountPlaceholder = "XX"

//go:embed shaders/lit-textured.vert
var litTexturedVertexShader string

//go:embed shaders/lit-textured.frag
var litTexturedFragmentShader string

//go:embed shaders/colored.vert
var coloredVertexShader string

//go:embed shaders/colored.frag
var coloredFragmentShader string

var defaultShaderSets = map[string][2]string{
	"lit-textured": {litTexturedVertexShader, litTexturedFragmentShader},
	"colored":      {coloredVertexShader, coloredFragmentShader},
}

// DefaultShaderSetNames lists the embedded shader sets.
func DefaultShaderSetNames() []string {
	return []string{"colored", "lit-textured"}
}

type shaderStageSource struct {
	name string
	text string
}

// ShaderMgr builds one program out of vertex, fragment and optional geometry
// stages and owns the lights and texture state drawn with it.
type ShaderMgr struct {
	dev r3d.Device

	stages   [3]shaderStageSource
	lights   *LightList
	texture  *TextureMgr
	program  uint32
	compiled bool
}

func NewShaderMgr(dev r3d.Device) *ShaderMgr {
	return &ShaderMgr{dev: dev, lights: NewLightList()}
}

func (sm *ShaderMgr) Device() r3d.Device   { return sm.dev }
func (sm *ShaderMgr) Program() uint32      { return sm.program }
func (sm *ShaderMgr) Compiled() bool       { return sm.compiled }
func (sm *ShaderMgr) Lights() *LightList   { return sm.lights }
func (sm *ShaderMgr) Texture() *TextureMgr { return sm.texture }

// AddLights must precede AddShader, the light count is baked into the source.
func (sm *ShaderMgr) AddLights(lights *LightList) error {
	if sm.compiled {
		return errors.Errorf("Must load lights before compiling shader")
	}
	sm.lights = lights
	return nil
}

func (sm *ShaderMgr) AddTexture(texture *TextureMgr) {
	sm.texture = texture
}

func (sm *ShaderMgr) AddShader(stage r3d.ShaderStage, fileName string) error {
	data, err := ioutil.ReadFile(fileName)
	if err != nil {
		return errors.Wrapf(err, "Cannot open %q", fileName)
	}
	return sm.AddShaderSource(stage, fileName, string(data))
}

// AddShaderSource sets the text of one stage. Name shows up in errors.
func (sm *ShaderMgr) AddShaderSource(stage r3d.ShaderStage, name, text string) error {
	if stage < r3d.ShaderVertex || stage > r3d.ShaderGeometry {
		return errors.Errorf("Unknown shader stage %v", stage)
	}
	if sm.compiled {
		return errors.Errorf("Shader %q added after compile", name)
	}

	if n := sm.lights.NumLights(); n > 0 {
		if strings.Contains(text, lightCountPlaceholder) {
			text = strings.Replace(text, lightCountPlaceholder, strconv.Itoa(n), 1)
		} else {
			log.Printf("[bsg] Caution: Shader (%s) does not care about number of lights", name)
		}
	}
	sm.stages[stage] = shaderStageSource{name: name, text: text}
	return nil
}

// AddDefaultShaders loads one of the embedded shader sets.
func (sm *ShaderMgr) AddDefaultShaders(set string) error {
	src, ok := defaultShaderSets[set]
	if !ok {
		return errors.Errorf("Unknown shader set %q", set)
	}
	if err := sm.AddShaderSource(r3d.ShaderVertex, set+".vert", src[0]); err != nil {
		return err
	}
	return sm.AddShaderSource(r3d.ShaderFragment, set+".frag", src[1])
}

// Source returns the final text of a stage, after light substitution.
func (sm *ShaderMgr) Source(stage r3d.ShaderStage) string {
	return sm.stages[stage].text
}

func (sm *ShaderMgr) CompileShaders() error {
	if sm.stages[r3d.ShaderVertex].text == "" || sm.stages[r3d.ShaderFragment].text == "" {
		return errors.Errorf("Need both vertex and fragment shader")
	}

	sources := make([]r3d.ShaderSource, 0, 3)
	for stage, s := range sm.stages {
		if s.text == "" {
			continue
		}
		sources = append(sources, r3d.ShaderSource{Stage: r3d.ShaderStage(stage), Name: s.name, Text: s.text})
	}

	program, err := sm.dev.CreateProgram(sources)
	if err != nil {
		names := make([]string, len(sources))
		for i, s := range sources {
			names[i] = s.Name
		}
		log.Printf("[bsg] Shader build failed (%s): %v", strings.Join(names, ", "), err)
		return errors.Wrapf(err, "Shader build failed (%s)", strings.Join(names, ", "))
	}
	sm.program = program
	sm.compiled = true
	return nil
}

func (sm *ShaderMgr) UseProgram() {
	sm.dev.UseProgram(sm.program)
}

func (sm *ShaderMgr) AttribID(name string) int32 {
	sm.dev.UseProgram(sm.program)
	return sm.dev.AttribLocation(sm.program, name)
}

func (sm *ShaderMgr) UniformID(name string) int32 {
	sm.dev.UseProgram(sm.program)
	return sm.dev.UniformLocation(sm.program, name)
}

func (sm *ShaderMgr) Load() {
	sm.lights.Load(sm.dev, sm.program)
	if sm.texture != nil {
		sm.texture.Load(sm.dev, sm.program)
	}
}

func (sm *ShaderMgr) Draw() {
	sm.lights.Draw(sm.program)
	if sm.texture != nil {
		sm.texture.Draw(sm.program)
	}
}

func (sm *ShaderMgr) Delete() {
	if sm.compiled {
		sm.dev.DeleteProgram(sm.program)
		sm.compiled = false
	}
}
