package bsg

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mogaika/bsg_viewer/r3d"
)

const (
	LightPositionsUniform = "lightPositions"
	LightColorsUniform    = "lightColors"
)

// LightList keeps light positions and colours as two parallel uniform arrays.
type LightList struct {
	positions []mgl32.Vec4
	colors    []mgl32.Vec4

	positionsName string
	colorsName    string
	// uniform locations of every program the list was loaded for
	locations     map[uint32][2]int32

	dev r3d.Device
}

func NewLightList() *LightList {
	return &LightList{
		positionsName: LightPositionsUniform,
		colorsName:    LightColorsUniform,
		locations:     make(map[uint32][2]int32),
	}
}

func (ll *LightList) AddLight(position, color mgl32.Vec4) {
	ll.positions = append(ll.positions, position)
	ll.colors = append(ll.colors, color)
}

func (ll *LightList) NumLights() int { return len(ll.positions) }

func (ll *LightList) Positions() []mgl32.Vec4 { return ll.positions }
func (ll *LightList) Colors() []mgl32.Vec4    { return ll.colors }

// SetLight moves or recolours light i.
func (ll *LightList) SetLight(i int, position, color mgl32.Vec4) {
	ll.positions[i] = position
	ll.colors[i] = color
}

// Load looks up the uniforms. Program must be in use.
func (ll *LightList) Load(dev r3d.Device, program uint32) {
	ll.dev = dev
	if len(ll.positions) == 0 {
		return
	}
	ll.locations[program] = [2]int32{
		dev.UniformLocation(program, ll.positionsName),
		dev.UniformLocation(program, ll.colorsName),
	}
}

// Draw uploads current light state to program, which must be in use and
// loaded before.
func (ll *LightList) Draw(program uint32) {
	if len(ll.positions) == 0 || ll.dev == nil {
		return
	}
	loc, ok := ll.locations[program]
	if !ok {
		return
	}
	ll.dev.Uniform4v(loc[0], ll.positions)
	ll.dev.Uniform4v(loc[1], ll.colors)
}
