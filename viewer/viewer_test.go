package viewer

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/bsg_viewer/config"
	"github.com/mogaika/bsg_viewer/r3d"
	"github.com/mogaika/bsg_viewer/r3d/r3dtest"
	"github.com/mogaika/bsg_viewer/vr"
)

const testTriangleOBJ = `v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`

type fakeRuntime struct{ stopped bool }

func (r *fakeRuntime) Shutdown()       { r.stopped = true }
func (r *fakeRuntime) IsRunning() bool { return !r.stopped }

func writeModel(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(path, []byte(testTriangleOBJ), 0644))
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Models = []config.Model{
		{File: writeModel(t, dir, "alpha.obj"), Scale: mgl32.Vec3{1, 1, 1}},
		{File: writeModel(t, dir, "beta.obj"), Position: mgl32.Vec3{-5, 0, -8}, Scale: mgl32.Vec3{0.4, 0.4, 0.4}},
	}
	return cfg
}

func newTestViewer(t *testing.T, cfg *config.Config) (*Viewer, *r3dtest.Recorder, *fakeRuntime) {
	t.Helper()
	rec := r3dtest.NewRecorder()
	rt := &fakeRuntime{}
	v := NewViewer(cfg, rec, rt)
	require.NoError(t, v.OnRenderGraphicsContext(&vr.GraphicsState{InitialRenderCall: true}))
	return v, rec, rt
}

func render(v *Viewer) {
	v.OnRenderGraphics(&vr.GraphicsState{ViewMatrix: mgl32.Ident4(), ProjectionMatrix: mgl32.Ident4()})
}

func TestViewerBuildsScene(t *testing.T) {
	v, rec, _ := newTestViewer(t, testConfig(t))

	require.NotNil(t, v.Scene())
	assert.Equal(t, []string{"alpha", "axes", "beta", WandGroupName}, v.Scene().Root().Names())
	assert.Equal(t, []string{"line"}, v.WandGroup().Names())
	assert.Nil(t, v.wand)
	assert.False(t, v.laser.Visible())

	beta, err := v.Scene().Find("beta")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{-5, 0, -8}, beta.Base().Position())

	assert.Equal(t, 2, rec.Count("CreateProgram"))
	assert.Contains(t, v.modelShader.Source(r3d.ShaderVertex), "#define NUM_LIGHTS 1")
	assert.Equal(t, 64, v.texture.Width())
}

func TestViewerNotBuiltBeforeFirstFrame(t *testing.T) {
	v := NewViewer(testConfig(t), r3dtest.NewRecorder(), &fakeRuntime{})
	require.NoError(t, v.OnRenderGraphicsContext(&vr.GraphicsState{}))
	assert.Nil(t, v.Scene())
	render(v)
}

func TestViewerBuildErrors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Models = append(cfg.Models, config.Model{File: "/nonexistent/model.obj", Scale: mgl32.Vec3{1, 1, 1}})
	v := NewViewer(cfg, r3dtest.NewRecorder(), &fakeRuntime{})
	assert.Error(t, v.OnRenderGraphicsContext(&vr.GraphicsState{InitialRenderCall: true}))

	cfg = testConfig(t)
	cfg.Texture = config.Texture{Type: "dds"}
	v = NewViewer(cfg, r3dtest.NewRecorder(), &fakeRuntime{})
	assert.Error(t, v.OnRenderGraphicsContext(&vr.GraphicsState{InitialRenderCall: true}))

	rec := r3dtest.NewRecorder()
	rec.CompileError = "NUM_LIGHTS"
	v = NewViewer(testConfig(t), rec, &fakeRuntime{})
	assert.Error(t, v.OnRenderGraphicsContext(&vr.GraphicsState{InitialRenderCall: true}))
}

func TestViewerWandModel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Wand.File = cfg.Models[0].File
	v, _, _ := newTestViewer(t, cfg)

	require.NotNil(t, v.wand)
	assert.Len(t, v.WandGroup().Names(), 2)
	assert.InDelta(t, 0.1, v.wand.Scale().X(), 1e-6)
	assert.Equal(t, mgl32.Vec3{0, 0, -0.3}, v.wand.Position())
}

func TestViewerSelectWraps(t *testing.T) {
	v, _, _ := newTestViewer(t, testConfig(t))
	assert.Equal(t, "alpha", v.ActiveModel().Base().Name())

	v.OnVREvent(vr.NewEvent("Wand_Left_Down"))
	assert.Equal(t, "beta", v.ActiveModel().Base().Name())
	v.OnVREvent(vr.NewEvent("Wand_Right_Down"))
	assert.Equal(t, "alpha", v.ActiveModel().Base().Name())
	v.OnVREvent(vr.NewEvent("Wand_Right_Down"))
	assert.Equal(t, "beta", v.ActiveModel().Base().Name())
	v.OnVREvent(vr.NewEvent("Wand_Right_Down"))
	assert.Equal(t, "alpha", v.ActiveModel().Base().Name())
}

func wandMove(m mgl32.Mat4) *vr.Event {
	return vr.NewEvent(vr.EventWandMove).With(vr.KeyTransform, m)
}

func TestViewerDragMovesActiveModel(t *testing.T) {
	v, _, _ := newTestViewer(t, testConfig(t))
	active := v.ActiveModel().Base()

	v.OnVREvent(wandMove(mgl32.Translate3D(0, 0, -1)))
	assert.Equal(t, mgl32.Ident4(), v.WandDrag())

	v.OnVREvent(vr.NewEvent("MouseBtnLeft_Down"))
	assert.True(t, v.Moving())
	v.OnVREvent(wandMove(mgl32.Translate3D(1, 0, -1)))
	v.OnVREvent(wandMove(mgl32.Translate3D(1, 2, -1)))
	assert.True(t, v.WandDrag().ApproxEqual(mgl32.Translate3D(1, 2, 0)))

	render(v)
	assert.True(t, active.Position().ApproxEqual(mgl32.Vec3{1, 2, 0}))
	assert.Equal(t, mgl32.Ident4(), v.WandDrag())
	assert.True(t, v.WandGroup().Position().ApproxEqual(mgl32.Vec3{1, 2, -1}))

	v.OnVREvent(vr.NewEvent("MouseBtnLeft_Up"))
	v.OnVREvent(wandMove(mgl32.Translate3D(5, 5, 5)))
	render(v)
	assert.True(t, active.Position().ApproxEqual(mgl32.Vec3{1, 2, 0}))
}

func TestViewerControllerPose(t *testing.T) {
	v, _, _ := newTestViewer(t, testConfig(t))
	rot := mgl32.HomogRotate3DY(mgl32.DegToRad(30))

	pose := func(pressed int, m mgl32.Mat4) *vr.Event {
		return vr.NewEvent("HTC_Controller_1").
			With("State/Axis1Button_Pressed", pressed).
			With("Pose", m)
	}

	v.OnVREvent(pose(0, mgl32.Translate3D(0, 1, 0)))
	assert.False(t, v.Moving())
	v.OnVREvent(pose(1, mgl32.Translate3D(0, 1, 0).Mul4(rot)))
	assert.True(t, v.Moving())
	assert.True(t, v.WandDrag().ApproxEqualThreshold(
		mgl32.Translate3D(0, 1, 0).Mul4(rot).Mul4(mgl32.Translate3D(0, -1, 0)), 1e-5))

	// no button state at all means released
	v.OnVREvent(vr.NewEvent("HTC_Controller_1_Axis").With("Pose", mgl32.Ident4()))
	assert.False(t, v.Moving())

	render(v)
	orientation := v.WandGroup().Orientation().Mat4()
	assert.True(t, orientation.ApproxEqualThreshold(mgl32.HomogRotate3DY(mgl32.DegToRad(-30)), 1e-5))
	assert.True(t, v.WandGroup().Position().ApproxEqual(mgl32.Vec3{0, 1, 0}))
}

func TestViewerControllerJSONEvents(t *testing.T) {
	v, _, _ := newTestViewer(t, testConfig(t))

	decode := func(raw string) *vr.Event {
		var e vr.Event
		require.NoError(t, json.Unmarshal([]byte(raw), &e))
		return &e
	}

	v.OnVREvent(decode(`{"name":"HTC_Controller_1","data":{
		"/HTC_Controller_1/State/Axis1Button_Pressed":0,
		"/HTC_Controller_1/Pose":[1,0,0,0, 0,1,0,0, 0,0,1,0, 0,0,0,1]}}`))
	assert.False(t, v.Moving())

	v.OnVREvent(decode(`{"name":"HTC_Controller_1","data":{
		"/HTC_Controller_1/State/Axis1Button_Pressed":1,
		"/HTC_Controller_1/Pose":[1,0,0,0, 0,1,0,0, 0,0,1,0, 0,2,0,1]}}`))
	assert.True(t, v.Moving())
	assert.True(t, v.WandDrag().ApproxEqualThreshold(mgl32.Translate3D(0, 2, 0), 1e-6))

	render(v)
	assert.True(t, v.WandGroup().Position().ApproxEqual(mgl32.Vec3{0, 2, 0}))
	assert.True(t, v.ActiveModel().Base().Position().ApproxEqual(mgl32.Vec3{0, 2, 0}))
}

func TestViewerJoystickScale(t *testing.T) {
	v, _, _ := newTestViewer(t, testConfig(t))
	active := v.ActiveModel().Base()

	v.OnVREvent(vr.NewEvent(vr.EventJoystickY).With(vr.KeyAnalogValue, 0.01))
	assert.Equal(t, float32(0), v.ScaleChange())

	v.OnVREvent(vr.NewEvent(vr.EventJoystickY).With(vr.KeyAnalogValue, -1.0))
	assert.InDelta(t, 0.005, v.ScaleChange(), 1e-7)
	render(v)
	render(v)
	assert.InDelta(t, 1.01, active.Scale().X(), 1e-5)

	active.SetScalef(0.012)
	v.OnVREvent(vr.NewEvent(vr.EventJoystickY).With(vr.KeyAnalogValue, 1.0))
	render(v)
	assert.InDelta(t, 0.012, active.Scale().X(), 1e-6)
}

func TestViewerToggleAndLaser(t *testing.T) {
	v, rec, _ := newTestViewer(t, testConfig(t))
	active := v.ActiveModel().Base()

	v.OnVREvent(vr.NewEvent("Wand_Down_Down"))
	v.OnVREvent(vr.NewEvent("Wand_Up_Down"))
	assert.True(t, active.Visible())
	assert.True(t, v.ShowLaser())

	rec.Reset()
	render(v)
	assert.False(t, active.Visible())
	assert.True(t, v.laser.Visible())
	assert.Equal(t, 1, rec.Count("Clear"))

	render(v)
	assert.False(t, active.Visible())

	v.OnVREvent(vr.NewEvent("Wand_Up_Up"))
	render(v)
	assert.False(t, v.laser.Visible())
}

func TestViewerShutdown(t *testing.T) {
	v, rec, rt := newTestViewer(t, testConfig(t))
	v.OnVREvent(vr.NewEvent("Wand_Select_Down"))
	assert.True(t, rt.stopped)

	rec.Reset()
	render(v)
	assert.Equal(t, 0, rec.Count("Clear"))

	v, _, rt = newTestViewer(t, testConfig(t))
	v.OnVREvent(vr.NewEvent("KbdEsc_Down"))
	assert.True(t, rt.stopped)
}

func TestViewerExampleConfig(t *testing.T) {
	cfg, err := config.Load(filepath.Join("..", "config", "examples", "desktop.yaml"))
	require.NoError(t, err)
	v, rec, _ := newTestViewer(t, cfg)

	assert.Len(t, v.models, 2)
	require.NotNil(t, v.wand)
	assert.Contains(t, v.wand.Materials(), "orange")

	rec.Reset()
	render(v)
	assert.Equal(t, 1, rec.Count("Clear"))
	assert.NotZero(t, rec.Count("DrawArrays"))
}

func TestViewerTracedEvents(t *testing.T) {
	assert.False(t, traced(vr.EventFrameStart, false))
	assert.False(t, traced("HTC_Controller_1", true))
	assert.False(t, traced(vr.EventWandMove, false))
	assert.True(t, traced(vr.EventWandMove, true))
	assert.True(t, traced("Wand_Up_Down", false))

	v, _, _ := newTestViewer(t, testConfig(t))
	v.Verbose = true
	v.OnVREvent(vr.NewEvent("Wand_Up_Down"))
	assert.True(t, v.ShowLaser())
}
