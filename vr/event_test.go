package vr

import (
	"encoding/json"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventPaths(t *testing.T) {
	e := NewEvent("HTC_Controller_1").
		With("State/Axis1Button_Pressed", 1).
		With("/HTC_Controller_1/Pose", mgl32.Translate3D(1, 2, 3))

	assert.True(t, e.Exists("/HTC_Controller_1/State/Axis1Button_Pressed"))
	assert.True(t, e.Exists("State/Axis1Button_Pressed"))
	assert.True(t, e.Exists("Pose"))
	assert.False(t, e.Exists("/HTC_Controller_2/Pose"))

	pressed, err := e.Int("/HTC_Controller_1/State/Axis1Button_Pressed")
	require.NoError(t, err)
	assert.Equal(t, 1, pressed)

	m, err := e.Matrix("Pose")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Translate3D(1, 2, 3), m)

	assert.Equal(t, []string{"/HTC_Controller_1/Pose", "/HTC_Controller_1/State/Axis1Button_Pressed"}, e.Keys())
}

func TestEventConversions(t *testing.T) {
	e := NewEvent("Wand_Joystick_Y_Change").
		With("AnalogValue", 0.25).
		With("Pressed", true).
		With("Name", "stick").
		With("Short", []float64{1, 2})

	f, err := e.Float("AnalogValue")
	require.NoError(t, err)
	assert.Equal(t, float32(0.25), f)

	f, err = e.Float("Pressed")
	require.NoError(t, err)
	assert.Equal(t, float32(1), f)

	_, err = e.Float("Name")
	assert.Error(t, err)
	_, err = e.Float("Missing")
	assert.Error(t, err)

	arr, err := e.FloatArray("Short")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, arr)

	_, err = e.Matrix("Short")
	assert.Error(t, err)
	_, err = e.FloatArray("AnalogValue")
	assert.Error(t, err)
}

func TestEventJSON(t *testing.T) {
	in := NewEvent("Wand0_Move").With("Transform", mgl32.Translate3D(0, 1, 0))
	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var out Event
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "Wand0_Move", out.Name)

	m, err := out.Matrix("/Wand0_Move/Transform")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Translate3D(0, 1, 0), m)

	var bad Event
	require.NoError(t, json.Unmarshal([]byte(`{"name":"x","data":{"m":[1,"a"]}}`), &bad))
	_, err = bad.FloatArray("m")
	assert.Error(t, err)
}

func TestEventJSONAbsoluteKeys(t *testing.T) {
	var e Event
	require.NoError(t, json.Unmarshal([]byte(`{"name":"HTC_Controller_1","data":{
		"/HTC_Controller_1/State/Axis1Button_Pressed":1,
		"/HTC_Controller_1/Pose":[1,0,0,0, 0,1,0,0, 0,0,1,0, 4,5,6,1],
		"Serial":"LHR-1"}}`), &e))

	assert.Equal(t, "HTC_Controller_1", e.Name)
	assert.True(t, e.Exists("/HTC_Controller_1/State/Axis1Button_Pressed"))
	assert.True(t, e.Exists("State/Axis1Button_Pressed"))
	assert.True(t, e.Exists("Pose"))
	assert.True(t, e.Exists("/HTC_Controller_1/Serial"))

	m, err := e.Matrix("/HTC_Controller_1/Pose")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Translate3D(4, 5, 6), m)

	assert.Equal(t, []string{
		"/HTC_Controller_1/Pose",
		"/HTC_Controller_1/Serial",
		"/HTC_Controller_1/State/Axis1Button_Pressed",
	}, e.Keys())

	var empty Event
	require.NoError(t, json.Unmarshal([]byte(`{"name":"KbdEsc_Down"}`), &empty))
	assert.Empty(t, empty.Keys())
	assert.False(t, empty.Exists("Pose"))
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "KbdEsc_Down", NewEvent("KbdEsc_Down").String())
	assert.Equal(t, "A /A/x=1", NewEvent("A").With("x", 1).String())
}
