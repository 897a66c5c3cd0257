package vr

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(events []*Event) []string {
	var out []string
	for _, e := range events {
		out = append(out, e.Name)
	}
	return out
}

func TestDesktopKeys(t *testing.T) {
	in := NewDesktopInput(map[string]string{"Left": "Wand_Left", "Esc": "Wand_Select"})
	in.Key("Left", KeyPress)
	in.Key("Left", KeyRepeat)
	in.Key("Left", KeyRelease)
	in.Key("A", KeyPress)
	in.Key("Esc", KeyPress)

	assert.Equal(t, []string{
		"KbdLeft_Down", "Wand_Left_Down",
		"KbdLeft_Repeat",
		"KbdLeft_Up", "Wand_Left_Up",
		"KbdA_Down",
		"KbdEsc_Down", "Wand_Select_Down",
	}, names(in.Poll()))
	assert.Empty(t, in.Poll())
}

func TestDesktopCursor(t *testing.T) {
	in := NewDesktopInput(nil)
	in.SetSize(200, 100)
	in.CursorMove(200, 0)

	events := in.Poll()
	require.Len(t, events, 1)
	assert.Equal(t, EventWandMove, events[0].Name)
	m, err := events[0].Matrix(KeyTransform)
	require.NoError(t, err)
	assert.True(t, m.ApproxEqual(mgl32.Translate3D(2, 2, -1)))

	in.CursorMove(100, 50)
	m, _ = in.Poll()[0].Matrix(KeyTransform)
	assert.True(t, m.ApproxEqual(mgl32.Translate3D(0, 0, -1)))
}

func TestDesktopOrbit(t *testing.T) {
	in := NewDesktopInput(nil)
	in.SetSize(100, 100)
	in.CursorMove(50, 50)
	in.MouseButton("Right", true)
	in.CursorMove(40, 60)
	in.MouseButton("Right", false)
	in.CursorMove(0, 0)

	events := in.Poll()
	assert.Equal(t, []string{
		EventWandMove, "MouseBtnRight_Down", EventCameraOrbit, EventWandMove, "MouseBtnRight_Up", EventWandMove,
	}, names(events))

	yaw, _ := events[2].Float(KeyYaw)
	pitch, _ := events[2].Float(KeyPitch)
	assert.InDelta(t, 3, yaw, 1e-5)
	assert.InDelta(t, 3, pitch, 1e-5)
}

func TestDesktopScrollReleasesJoystick(t *testing.T) {
	in := NewDesktopInput(nil)
	in.Scroll(1)
	in.Scroll(4)

	events := in.Poll()
	require.Len(t, events, 2)
	v, _ := events[0].Float(KeyAnalogValue)
	assert.Equal(t, float32(-0.5), v)
	v, _ = events[1].Float(KeyAnalogValue)
	assert.Equal(t, float32(-1), v)

	events = in.Poll()
	require.Len(t, events, 1)
	v, _ = events[0].Float(KeyAnalogValue)
	assert.Equal(t, float32(0), v)

	assert.Empty(t, in.Poll())
}
